package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/config"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
)

var categoriesFile string

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Print the category weight table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := categoriesFile
		if path == "" {
			path = config.WeightsFileFromEnv()
		}
		table, err := config.LoadWeights(path)
		if err != nil {
			return err
		}
		return printCategories(cmd.OutOrStdout(), table)
	},
}

func init() {
	categoriesCmd.Flags().StringVar(&categoriesFile, "file", "", "YAML weight table, overrides WEIGHTS_FILE")
	rootCmd.AddCommand(categoriesCmd)
}

func printCategories(out io.Writer, table *model.CategoryWeightTable) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tWEIGHT")
	for _, e := range table.Entries() {
		fmt.Fprintf(tw, "%s\t%v\n", e.Category, e.Weight)
	}
	return tw.Flush()
}
