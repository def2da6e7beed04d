package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/statusteacher/statusteacher/internal/catalog"
)

var codesCmd = &cobra.Command{
	Use:       "codes [category]",
	Short:     "List standard status codes, optionally one class (1xx..5xx)",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: catalog.Categories,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.New()
		if err != nil {
			return err
		}
		category := ""
		if len(args) == 1 {
			category = args[0]
		}
		codes, err := cat.List(category)
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(codes)
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tNAME\tCATEGORY")
		for _, c := range codes {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", c.Code, c.Name, c.Category)
		}
		return tw.Flush()
	},
}
