package main

import (
	"github.com/spf13/cobra"

	"github.com/advanced-security/patterntest/pkg/runmode"
)

var (
	reposTestsPath string
	reposListPath  string
	reposProgress  bool
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "Clone a list of GitHub repositories and dry-run scan each",
	RunE:  runRepos,
}

func init() {
	reposCmd.Flags().StringVarP(&reposTestsPath, "tests", "t", defaultTestsDir(), "Root directory to load patterns.yml from")
	reposCmd.Flags().StringVarP(&reposListPath, "repos", "R", "", "File containing a list of owner/name repos to clone and scan (required)")
	reposCmd.Flags().BoolVarP(&reposProgress, "progress", "p", false, "Has no effect: the repos command prints no progress output")
	reposCmd.MarkFlagRequired("repos")
	addFilterFlags(reposCmd)
}

func runRepos(cmd *cobra.Command, args []string) error {
	patterns, err := loadAllPatterns(reposTestsPath, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	summary, err := runmode.CloneAndScan(patterns, reposListPath, runmode.DryRunOptions{
		NoAdditionalMatches: noAdditionalMatches,
	})
	if err != nil {
		return err
	}

	runmode.LogSummary(summary)
	return nil
}
