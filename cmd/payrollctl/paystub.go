package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cra-payroll/payroll-engine/internal/paystub"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newPaystubCmd(configPath *string) *cobra.Command {
	var outDir, companyName string

	cmd := &cobra.Command{
		Use:   "paystub",
		Short: "Render one PDF paystub per employee record in a run",
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := cmd.Flag("run").Value.String()
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			id, err := uuid.Parse(runID)
			if err != nil {
				return fmt.Errorf("invalid --run: %w", err)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", outDir, err)
			}

			rs := paystub.RunStubs{
				Runs:     a.Lifecycle.Runs,
				Renderer: paystub.GoFPDFRenderer{CompanyName: companyName},
			}
			stubs, errs := rs.Generate(context.Background(), id)
			for _, stub := range stubs {
				path := filepath.Join(outDir, stub.Employee.ID.String()+".pdf")
				if err := os.WriteFile(path, stub.PDF, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", path, err)
				}
				fmt.Println(path)
			}
			for _, err := range errs {
				fmt.Fprintln(os.Stderr, "skipped:", err)
			}
			return nil
		},
	}
	cmd.Flags().String("run", "", "payroll run UUID")
	_ = cmd.MarkFlagRequired("run")
	cmd.Flags().StringVar(&outDir, "out", "./paystubs", "output directory for rendered PDFs")
	cmd.Flags().StringVar(&companyName, "company", "Employer", "company name printed on the paystub header")
	return cmd
}
