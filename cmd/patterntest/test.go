package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/advanced-security/patterntest/pkg/runmode"
)

var (
	testTestsPath      string
	testContinueOnFail bool
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Run fixture tests for all discovered patterns",
	Long:  "Walks a directory for patterns.yml files and reconciles each pattern's expected matches against its fixture files",
	RunE:  runTest,
}

func init() {
	testCmd.Flags().StringVarP(&testTestsPath, "tests", "t", defaultTestsDir(), "Root test directory")
	testCmd.Flags().BoolVarP(&testContinueOnFail, "continue-on-fail", "c", false, "Exit 0 even if testing patterns fails")
	addFilterFlags(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(testTestsPath); err != nil {
		return fmt.Errorf("testing directory not found: %s", testTestsPath)
	}

	report, err := runmode.Fixture(testTestsPath, loaderOptions(), noAdditionalMatches)
	if err != nil {
		return err
	}

	for _, sr := range report.SetReports {
		if sr.Pass {
			if flagVerbose {
				fmt.Fprintf(cmd.OutOrStdout(), "✅ %s\n", sr.SourcePath)
			}
			continue
		}
		for _, e := range sr.Errors {
			fmt.Fprintf(cmd.ErrOrStderr(), "❌ %s: %v\n", sr.SourcePath, e)
		}
	}

	if !report.Pass && !testContinueOnFail {
		os.Exit(1)
	}

	return nil
}
