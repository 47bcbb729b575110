package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/replanhq/replan/plugin/timeparse"
)

var queryCmd = &cobra.Command{
	Use:   "query <natural language query>",
	Short: "Answer a natural language order query",
	Long: `Answer a natural language order query, e.g.
  replan query "buy orders due next week"
  replan query "how many orders are overdue"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		response, err := rt.service.QueryOrders(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printJSON(cmd, response)
	},
}

var expressionsCmd = &cobra.Command{
	Use:   "expressions",
	Short: "List the time expressions the query resolver understands",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printJSON(cmd, timeparse.SupportedExpressions())
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func init() {
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(expressionsCmd)
}
