package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <orders.csv>",
	Short: "Import planned orders from a CSV export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// The file argument wins over any REPLAN_ORDERS_CSV startup import.
		instanceProfile.OrdersCSV = ""
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		imported, err := rt.store.ImportOrdersCSVFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		changed, err := rt.store.RecomputeRescheduleOutDays(cmd.Context(), rt.today())
		if err != nil {
			return err
		}
		rt.logger.Info("import finished",
			slog.Int("imported", imported),
			slog.Int("reschedule_flags_updated", changed))
		return nil
	},
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute",
	Short: "Recompute each order's days-overdue counter against today",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		changed, err := rt.store.RecomputeRescheduleOutDays(cmd.Context(), rt.today())
		if err != nil {
			return err
		}
		rt.logger.Info("recompute finished", slog.Int("changed", changed))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(recomputeCmd)
}
