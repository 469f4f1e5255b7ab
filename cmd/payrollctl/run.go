package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRunCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Manage payroll runs through the Run Lifecycle",
	}
	cmd.AddCommand(
		newRunCreateCmd(configPath),
		newRunSyncCmd(configPath),
		newRunRecalculateCmd(configPath),
		newRunFinalizeCmd(configPath),
		newRunApproveCmd(configPath),
		newRunMarkPaidCmd(configPath),
		newRunShowCmd(configPath),
	)
	return cmd
}

func payGroupAndDateFlags(cmd *cobra.Command) (*string, *string) {
	var payGroup, payDate string
	cmd.Flags().StringVar(&payGroup, "pay-group", "", "pay group UUID")
	cmd.Flags().StringVar(&payDate, "pay-date", "", "pay date, RFC3339 or YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("pay-group")
	_ = cmd.MarkFlagRequired("pay-date")
	return &payGroup, &payDate
}

func parseFlagDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func newRunCreateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{Use: "create", Short: "Create or fetch a draft run for a pay group and pay date"}
	payGroup, payDate := payGroupAndDateFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		a, err := newApp(*configPath)
		if err != nil {
			return err
		}
		pgID, err := uuid.Parse(*payGroup)
		if err != nil {
			return fmt.Errorf("invalid --pay-group: %w", err)
		}
		date, err := parseFlagDate(*payDate)
		if err != nil {
			return fmt.Errorf("invalid --pay-date: %w", err)
		}
		run, err := a.Lifecycle.CreateOrGetRun(context.Background(), pgID, date)
		if err != nil {
			return err
		}
		if err := a.Lifecycle.SyncEmployees(context.Background(), run.ID); err != nil {
			return err
		}
		return printJSON(run)
	}
	return cmd
}

func runIDFlag(cmd *cobra.Command) *string {
	var runID string
	cmd.Flags().StringVar(&runID, "run", "", "payroll run UUID")
	_ = cmd.MarkFlagRequired("run")
	return &runID
}

func newRunSyncCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{Use: "sync", Short: "Sync active employees into a draft run"}
	runID := runIDFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withRun(*configPath, *runID, func(a *app, id uuid.UUID) error {
			return a.Lifecycle.SyncEmployees(context.Background(), id)
		})
	}
	return cmd
}

func newRunRecalculateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{Use: "recalculate", Short: "Run the calculation engine over every record in a run"}
	runID := runIDFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withRun(*configPath, *runID, func(a *app, id uuid.UUID) error {
			return a.Lifecycle.Recalculate(context.Background(), id)
		})
	}
	return cmd
}

func newRunFinalizeCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{Use: "finalize", Short: "Move a draft run to pending_approval"}
	runID := runIDFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withRun(*configPath, *runID, func(a *app, id uuid.UUID) error {
			return a.Lifecycle.Finalize(context.Background(), id)
		})
	}
	return cmd
}

func newRunApproveCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{Use: "approve", Short: "Move a pending_approval run to approved"}
	runID := runIDFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withRun(*configPath, *runID, func(a *app, id uuid.UUID) error {
			return a.Lifecycle.Approve(context.Background(), id)
		})
	}
	return cmd
}

func newRunMarkPaidCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{Use: "mark-paid", Short: "Move an approved run to paid"}
	runID := runIDFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withRun(*configPath, *runID, func(a *app, id uuid.UUID) error {
			return a.Lifecycle.MarkPaid(context.Background(), id)
		})
	}
	return cmd
}

func newRunShowCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{Use: "show", Short: "Print a run and its records as JSON"}
	runID := runIDFlag(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		a, err := newApp(*configPath)
		if err != nil {
			return err
		}
		id, err := uuid.Parse(*runID)
		if err != nil {
			return fmt.Errorf("invalid --run: %w", err)
		}
		run, err := a.Lifecycle.Runs.GetRun(context.Background(), id)
		if err != nil {
			return err
		}
		records, err := a.Lifecycle.Runs.GetRecordsForRun(context.Background(), id)
		if err != nil {
			return err
		}
		return printJSON(map[string]any{"run": run, "records": records})
	}
	return cmd
}

// withRun loads the app, parses --run, runs fn, and on success re-prints the
// run so the operator sees its updated status/version without a second call.
func withRun(configPath, runIDStr string, fn func(a *app, id uuid.UUID) error) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(runIDStr)
	if err != nil {
		return fmt.Errorf("invalid --run: %w", err)
	}
	if err := fn(a, id); err != nil {
		return err
	}
	run, err := a.Lifecycle.Runs.GetRun(context.Background(), id)
	if err != nil {
		return err
	}
	return printJSON(run)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
