package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/advanced-security/patterntest/pkg/runmode"
)

var (
	scanTestsPath string
	scanExtraDir  string
	scanOnlyMatch bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Dry-run scan an external directory with every discovered pattern",
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanTestsPath, "tests", "t", defaultTestsDir(), "Root directory to load patterns.yml from")
	scanCmd.Flags().StringVarP(&scanExtraDir, "extra", "e", "", "Directory to scan (required)")
	scanCmd.Flags().BoolVarP(&scanOnlyMatch, "only-match", "o", false, "Only print the matching pattern fragment")
	scanCmd.MarkFlagRequired("extra")
	addFilterFlags(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	patterns, err := loadAllPatterns(scanTestsPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	summary, err := runmode.DryRun(patterns, scanExtraDir, runmode.DryRunOptions{
		NoAdditionalMatches: noAdditionalMatches,
		Collect:             !flagQuiet,
	})
	if err != nil {
		return err
	}

	for _, m := range summary.Hits {
		if scanOnlyMatch {
			fmt.Fprintln(cmd.OutOrStdout(), m.Captured.Pattern)
			continue
		}
		highlighted := color.New(color.FgRed).Sprint(m.Captured.Pattern)
		fmt.Fprintf(cmd.OutOrStdout(), "%s:%d-%d: %s%s%s\n",
			m.FilePath, m.StartOffset, m.EndOffset, m.Captured.Start, highlighted, m.Captured.End)
	}

	runmode.LogSummary(summary)
	return nil
}
