package main

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	flagDebug   bool
	flagVerbose bool
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "patterntest",
	Short: "Test and scan GitHub Advanced Security custom secret-scanning patterns",
	Long: `patterntest compiles custom secret-scanning patterns into a multi-pattern
matcher, runs them against fixture files, external trees, random input, or
cloned repositories, and reconciles observed matches against declared
expectations.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		checkPlatform()
		configureLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "d", false, "Debug output on")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Show expected matches")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Don't output anything other than exit codes")

	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(fuzzCmd)
	rootCmd.AddCommand(reposCmd)
	rootCmd.AddCommand(combineCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func configureLogging() {
	level := slog.LevelInfo
	switch {
	case flagDebug:
		level = slog.LevelDebug
	case flagQuiet:
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	color.NoColor = flagQuiet || color.NoColor
}

// checkPlatform exits early on a platform Hyperscan cannot target
// (spec.md §6 "platform precondition"), matching the original tool's
// check_platform.
func checkPlatform() {
	if runtime.GOARCH != "amd64" {
		slog.Error("cannot run hyperscan on non-Intel-compatible platform", "arch", runtime.GOARCH)
		os.Exit(1)
	}
}
