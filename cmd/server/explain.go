package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/statusteacher/statusteacher/internal/explain"
	"github.com/statusteacher/statusteacher/pkg/server"
)

var explainCmd = &cobra.Command{
	Use:   "explain <code>",
	Short: "Explain one HTTP status code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("code must be an integer: %q", args[0])
		}

		ctx := cmd.Context()
		srv, err := server.New(ctx, cfg)
		if err != nil {
			return err
		}
		defer srv.Close(ctx)

		expl, err := srv.Explain.Explain(ctx, code)
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(expl)
		}
		fmt.Fprintln(os.Stdout, explain.FormatMarkdown(expl))
		return nil
	},
}
