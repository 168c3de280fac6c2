package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/advanced-security/patterntest/pkg/combine"
	"github.com/advanced-security/patterntest/pkg/loader"
)

var combineOutputPath string

var combineCmd = &cobra.Command{
	Use:   "combine <dir>",
	Short: "Combine every discovered pattern into one YAML document",
	Args:  cobra.ExactArgs(1),
	RunE:  runCombine,
}

func init() {
	combineCmd.Flags().StringVarP(&combineOutputPath, "output", "o", "", "Write combined document to this path instead of stdout")
	combineCmd.Flags().StringSliceVar(&filterIncludeType, "include-type", nil, "Include these pattern types")
	combineCmd.Flags().StringSliceVar(&filterExcludeType, "exclude-type", nil, "Exclude these pattern types")
}

func runCombine(cmd *cobra.Command, args []string) error {
	doc, err := combine.Combine(args[0], loader.Filter{
		IncludeType: filterIncludeType,
		ExcludeType: filterExcludeType,
	})
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling combined document: %w", err)
	}

	if combineOutputPath == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	return os.WriteFile(combineOutputPath, out, 0o644)
}
