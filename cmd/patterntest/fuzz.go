package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/advanced-security/patterntest/pkg/runmode"
)

var (
	fuzzTestsPath string
	fuzzProgress  bool
	fuzzBinaryGoal int64
	fuzzASCIIGoal  int64
	fuzzChunkSize  int64
)

var fuzzCmd = &cobra.Command{
	Use:   "fuzz",
	Short: "Feed random binary and printable-ASCII data through every discovered pattern",
	Long:  "Detects patterns prone to matching arbitrary, non-secret input",
	RunE:  runFuzz,
}

func init() {
	fuzzCmd.Flags().StringVarP(&fuzzTestsPath, "tests", "t", defaultTestsDir(), "Root directory to load patterns.yml from")
	fuzzCmd.Flags().BoolVarP(&fuzzProgress, "progress", "p", false, "Show a progress bar")
	fuzzCmd.Flags().Int64Var(&fuzzBinaryGoal, "binary-goal", runmode.DefaultBinaryGoal, "Bytes of random binary data to generate")
	fuzzCmd.Flags().Int64Var(&fuzzASCIIGoal, "ascii-goal", runmode.DefaultASCIIGoal, "Bytes of random printable-ASCII data to generate")
	fuzzCmd.Flags().Int64Var(&fuzzChunkSize, "chunk-size", runmode.DefaultChunkSize, "Chunk size in bytes")
	addFilterFlags(fuzzCmd)
}

func runFuzz(cmd *cobra.Command, args []string) error {
	patterns, err := loadAllPatterns(fuzzTestsPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	opts := runmode.FuzzOptions{
		BinaryGoal:          fuzzBinaryGoal,
		ASCIIGoal:           fuzzASCIIGoal,
		ChunkSize:           fuzzChunkSize,
		NoAdditionalMatches: noAdditionalMatches,
	}
	if fuzzProgress {
		opts.OnProgress = func(processed, total int64) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\r%d/%d bytes", processed, total)
		}
	}

	summary, err := runmode.Fuzz(patterns, opts)
	if err != nil {
		return err
	}
	if fuzzProgress {
		fmt.Fprintln(cmd.ErrOrStderr())
	}

	runmode.LogSummary(summary)
	return nil
}
