package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// calculateInputFile mirrors domain.CalculationInput but as JSON-friendly
// scalars, since Jurisdiction/Frequency/Money need their own decoding.
type calculateInputFile struct {
	Jurisdiction      string `json:"jurisdiction"`
	Frequency         string `json:"frequency"`
	PayDate           string `json:"pay_date"`
	GrossPay          string `json:"gross_pay"`
	VacationPayout    string `json:"vacation_payout"`
	PreTaxDeductions  string `json:"pre_tax_deductions"`
	PostTaxDeductions string `json:"post_tax_deductions"`
	FederalTD1        string `json:"federal_td1"`
	ProvincialTD1     string `json:"provincial_td1"`
	CPPExempt         bool   `json:"cpp_exempt"`
	CPP2Exempt        bool   `json:"cpp2_exempt"`
	EIExempt          bool   `json:"ei_exempt"`
}

func newCalculateCmd(configPath *string) *cobra.Command {
	var inputPath string

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Run a single pay-period calculation outside of any run, for spot checks",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}

			raw, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("reading %s: %w", inputPath, err)
			}
			var in calculateInputFile
			if err := json.Unmarshal(raw, &in); err != nil {
				return fmt.Errorf("parsing %s: %w", inputPath, err)
			}

			jurisdiction, err := domain.ParseJurisdiction(in.Jurisdiction)
			if err != nil {
				return err
			}
			frequency := domain.PayPeriodFrequency(in.Frequency)
			if !frequency.Valid() {
				return fmt.Errorf("invalid frequency %q", in.Frequency)
			}
			payDate, err := parseFlagDate(in.PayDate)
			if err != nil {
				return fmt.Errorf("invalid pay_date: %w", err)
			}
			gross, err := money.NewFromString(in.GrossPay)
			if err != nil {
				return fmt.Errorf("invalid gross_pay: %w", err)
			}
			vacationPayout, err := optionalMoney(in.VacationPayout)
			if err != nil {
				return fmt.Errorf("invalid vacation_payout: %w", err)
			}
			preTaxDeductions, err := optionalMoney(in.PreTaxDeductions)
			if err != nil {
				return fmt.Errorf("invalid pre_tax_deductions: %w", err)
			}
			postTaxDeductions, err := optionalMoney(in.PostTaxDeductions)
			if err != nil {
				return fmt.Errorf("invalid post_tax_deductions: %w", err)
			}
			federalTD1, err := optionalMoney(in.FederalTD1)
			if err != nil {
				return fmt.Errorf("invalid federal_td1: %w", err)
			}
			provincialTD1, err := optionalMoney(in.ProvincialTD1)
			if err != nil {
				return fmt.Errorf("invalid provincial_td1: %w", err)
			}

			result, err := a.Lifecycle.Engine.Calculate(domain.CalculationInput{
				EmployeeID:        uuid.New(),
				Jurisdiction:      jurisdiction,
				Frequency:         frequency,
				PayDate:           payDate,
				GrossPay:          gross,
				VacationPayout:    vacationPayout,
				PreTaxDeductions:  preTaxDeductions,
				PostTaxDeductions: postTaxDeductions,
				FederalTD1:        federalTD1,
				ProvincialTD1:     provincialTD1,
				CPPExempt:         in.CPPExempt,
				CPP2Exempt:        in.CPP2Exempt,
				EIExempt:          in.EIExempt,
				YTDBefore:         domain.YTDAccumulator{Year: payDate.Year()},
			})
			if err != nil {
				return err
			}
			return printJSON(result)
		},
	}
	cmd.Flags().StringVar(&inputPath, "input", "", "path to a JSON calculation input file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func optionalMoney(s string) (money.Money, error) {
	if s == "" {
		return money.Zero(), nil
	}
	return money.NewFromString(s)
}
