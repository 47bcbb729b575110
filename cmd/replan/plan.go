package main

import (
	"github.com/spf13/cobra"

	"github.com/replanhq/replan/server/service/reschedule"
)

var (
	planType       string
	planTargetDate string
	planDaysOffset string
	planExecute    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [order-id ...]",
	Short: "Analyze reschedule eligibility for orders (all orders when no ids given)",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		report, err := rt.service.AnalyzeEligibility(cmd.Context(), args)
		if err != nil {
			return err
		}
		return printJSON(cmd, report)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <order-id> [order-id ...]",
	Short: "Validate a reschedule request without changing anything",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		report, err := rt.service.ValidateRequest(cmd.Context(), planRequest(args))
		if err != nil {
			return err
		}
		return printJSON(cmd, report)
	},
}

var planCmd = &cobra.Command{
	Use:   "plan <order-id> [order-id ...]",
	Short: "Build a reschedule plan, and optionally apply it",
	Long: `Build a reschedule plan for the given orders. Ineligible orders are
reported in the plan's invalid list instead of failing the whole batch.
With --execute the plan's valid orders are written back to storage.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		plan, err := rt.service.BuildPlan(cmd.Context(), planRequest(args))
		if err != nil {
			return err
		}
		if err := printJSON(cmd, plan); err != nil {
			return err
		}

		if !planExecute {
			return nil
		}
		result, err := rt.service.ExecutePlan(cmd.Context(), plan)
		if err != nil {
			return err
		}
		return printJSON(cmd, result)
	},
}

func planRequest(ids []string) *reschedule.Request {
	return &reschedule.Request{
		OrderIDs:       ids,
		RescheduleType: planType,
		TargetDate:     planTargetDate,
		DaysOffset:     planDaysOffset,
	}
}

func init() {
	for _, cmd := range []*cobra.Command{validateCmd, planCmd} {
		cmd.Flags().StringVar(&planType, "type", "", `reschedule type, "prepone" or "postpone"`)
		cmd.Flags().StringVar(&planTargetDate, "target-date", "", "target due date (YYYY-MM-DD)")
		cmd.Flags().StringVar(&planDaysOffset, "days-offset", "", "days to move the due date by")
	}
	planCmd.Flags().BoolVar(&planExecute, "execute", false, "apply the plan's valid orders")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(planCmd)
}
