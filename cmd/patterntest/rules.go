package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/advanced-security/patterntest/pkg/loader"
)

var (
	rulesTestsPath string
	rulesFormat    string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect discovered patterns",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every discovered pattern",
	RunE:  runRulesList,
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesListCmd.Flags().StringVarP(&rulesTestsPath, "tests", "t", defaultTestsDir(), "Root directory to load patterns.yml from")
	rulesListCmd.Flags().StringVar(&rulesFormat, "format", "table", "Output format: table, json")
}

func runRulesList(cmd *cobra.Command, args []string) error {
	sets, loadErrs, err := loader.Load(rulesTestsPath, loaderOptions())
	if err != nil {
		return err
	}
	for _, le := range loadErrs {
		fmt.Fprintf(cmd.ErrOrStderr(), "load error: %s: %v\n", le.Path, le.Err)
	}

	switch rulesFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(sets)
	case "table":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintf(w, "TYPE\tNAME\tSOURCE\n")
		fmt.Fprintf(w, "----\t----\t------\n")
		for _, set := range sets {
			for _, p := range set.Patterns {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Type, p.Name, set.SourcePath)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", rulesFormat)
	}
}
