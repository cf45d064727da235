package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fairwaydispatch/caddie/app"
	"github.com/fairwaydispatch/caddie/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "caddiesim",
	Short: "Golf-course delivery dispatch simulator",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario to completion and print its KPI report",
	RunE:  runScenario,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "scenario.yaml", "scenario file")
	rootCmd.AddCommand(runCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func runScenario(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	report, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "scenario: %s\n", cfg.Name)
	fmt.Fprintf(cmd.OutOrStdout(), "orders: %d delivered / %d total (%d undelivered)\n", report.DeliveredOrders, report.TotalOrders, report.UndeliveredOrders)
	fmt.Fprintf(cmd.OutOrStdout(), "avg delivery time: %.2f min (on-time %.1f%%)\n", report.AvgDeliveryTimeMin, report.OnTimeDeliveryPct)
	fmt.Fprintf(cmd.OutOrStdout(), "avg wait time: %.2f min (on-time %.1f%%)\n", report.AvgWaitTimeMin, report.OnTimeWaitPct)
	fmt.Fprintf(cmd.OutOrStdout(), "batched: %.1f%%, orders/hour: %.2f, avg utilization: %.1f%%\n", report.BatchedPct, report.OrdersPerHour, report.AvgUtilizationPct)
	return nil
}
