// Package engine implements the pure statutory calculation pipeline: given
// one pay period's input and a resolved parameter set, it runs the
// calculators in fixed order (CPP, CPP2, EI, federal tax, provincial tax)
// and asserts that gross pay balances against total deductions plus net pay.
//
// The engine has no side effects and no persistence dependency; it is safe
// for concurrent use by any number of callers because it never mutates
// shared state. The Run Lifecycle in internal/payroll is the only caller
// that mutates anything.
package engine

import (
	"fmt"

	"github.com/cra-payroll/payroll-engine/internal/calc"
	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/cra-payroll/payroll-engine/internal/params"
	"github.com/cra-payroll/payroll-engine/pkg/dateutil"
	"github.com/cra-payroll/payroll-engine/pkg/money"
)

// Engine computes one CalculationResult from one CalculationInput.
type Engine struct {
	Params params.Store
	Logger calc.Logger
}

// New constructs an Engine backed by the given parameter store. A nil logger
// is replaced with calc.NopLogger.
func New(store params.Store, logger calc.Logger) *Engine {
	if logger == nil {
		logger = calc.NopLogger{}
	}
	return &Engine{Params: store, Logger: logger}
}

// BalanceMismatchError indicates gross pay did not reconcile exactly against
// total deductions plus net pay, the engine's central invariant.
// This is a programming-error signal, never a user-facing validation error:
// it means a calculator miscomputed, not that the input was bad.
type BalanceMismatchError struct {
	Gross           money.Money
	TotalDeductions money.Money
	NetPay          money.Money
}

func (e *BalanceMismatchError) Error() string {
	return fmt.Sprintf("balance invariant violated: gross=%s deductions=%s net=%s", e.Gross, e.TotalDeductions, e.NetPay)
}

// Calculate runs the fixed CPP -> CPP2 -> EI -> Federal -> Provincial
// pipeline for one employee's one pay period and returns the full result,
// including the employee's YTD accumulator advanced by this period.
func (e *Engine) Calculate(input domain.CalculationInput) (domain.CalculationResult, error) {
	edition := domain.Edition(dateutil.EditionForPayDate(input.PayDate))
	year := input.PayDate.Year()
	periodsPerYear := input.Frequency.PeriodsPerYear()

	cppParams, err := e.Params.GetCPP(year)
	if err != nil {
		return domain.CalculationResult{}, fmt.Errorf("engine: loading cpp params: %w", err)
	}
	eiParams, err := e.Params.GetEI(year)
	if err != nil {
		return domain.CalculationResult{}, fmt.Errorf("engine: loading ei params: %w", err)
	}
	fedKey := domain.EditionKey{Year: year, Edition: edition}
	fedParams, err := e.Params.GetFederal(fedKey)
	if err != nil {
		return domain.CalculationResult{}, fmt.Errorf("engine: loading federal params: %w", err)
	}
	provKey := domain.EditionKey{Year: year, Edition: edition, Jurisdiction: input.Jurisdiction}
	provParams, err := e.Params.GetJurisdiction(provKey)
	if err != nil {
		return domain.CalculationResult{}, fmt.Errorf("engine: loading jurisdiction params: %w", err)
	}

	totalGross := input.GrossPay.Add(input.VacationPayout)

	cppResult := calc.CPPCalculator{Params: cppParams, Logger: e.Logger}.
		Calculate(totalGross, periodsPerYear, input.CPPExempt, input.CPP2Exempt, input.YTDBefore)

	eiResult := calc.EICalculator{Params: eiParams, Logger: e.Logger}.
		Calculate(totalGross, input.EIExempt, input.YTDBefore)

	totalCPP := cppResult.BaseContribution.Add(cppResult.CPP2Contribution)

	// T4127 Option 1's annual projection (A) is identical for federal and
	// provincial tax: gross less pre-tax deductions, less CPP2 in full, less
	// F2 (the enhanced-CPP portion of base CPP, the only part of it that's
	// income-deductible rather than credit-eligible).
	f2 := calc.F2(cppParams, cppResult.BaseContribution)
	taxableGross := money.Floor0(totalGross.Sub(input.PreTaxDeductions).Sub(cppResult.CPP2Contribution).Sub(f2))
	annualIncome := taxableGross.Annual(periodsPerYear)

	// K2's credit base: base CPP and EI contributions, each capped at their
	// own per-period statutory maximum before annualizing, with base CPP
	// scaled down to its non-enhanced (credit-eligible) fraction only.
	perPeriodCPPCap := cppParams.MaxBaseContribution.PerPeriod(periodsPerYear)
	perPeriodEICap := eiParams.MaxEmployeeContribution.PerPeriod(periodsPerYear)
	cappedCPPBase := money.Min(cppResult.BaseContribution, perPeriodCPPCap)
	cappedEI := money.Min(eiResult.EmployeeContribution, perPeriodEICap)
	k2Base := cappedCPPBase.Annual(periodsPerYear).Mul(calc.NonEnhancedRatio(cppParams)).Add(cappedEI.Annual(periodsPerYear))

	federalTax := calc.FederalCalculator{Params: fedParams, Logger: e.Logger}.
		Calculate(annualIncome, periodsPerYear, k2Base, input.FederalTD1)

	provincialTax := calc.ProvincialCalculator{Params: provParams, Logger: e.Logger}.
		Calculate(annualIncome, periodsPerYear, k2Base, input.ProvincialTD1)

	totalDeductions := totalCPP.
		Add(eiResult.EmployeeContribution).
		Add(federalTax).
		Add(provincialTax).
		Add(input.PreTaxDeductions).
		Add(input.PostTaxDeductions)
	netPay := totalGross.Sub(totalDeductions)

	if !totalGross.Sub(totalDeductions).Sub(netPay).IsZero() {
		return domain.CalculationResult{}, &BalanceMismatchError{Gross: totalGross, TotalDeductions: totalDeductions, NetPay: netPay}
	}

	ytdAfter := domain.YTDAccumulator{
		Year:                  year,
		PensionableEarnings:   input.YTDBefore.PensionableEarnings.Add(cppResult.PensionableEarnings),
		CPPContribution:       input.YTDBefore.CPPContribution.Add(cppResult.BaseContribution),
		CPP2Contribution:      input.YTDBefore.CPP2Contribution.Add(cppResult.CPP2Contribution),
		InsurableEarnings:     input.YTDBefore.InsurableEarnings.Add(eiResult.InsurableEarnings),
		EIContribution:        input.YTDBefore.EIContribution.Add(eiResult.EmployeeContribution),
		FederalTaxWithheld:    input.YTDBefore.FederalTaxWithheld.Add(federalTax),
		ProvincialTaxWithheld: input.YTDBefore.ProvincialTaxWithheld.Add(provincialTax),
	}

	result := domain.CalculationResult{
		EmployeeID:        input.EmployeeID,
		PayDate:           input.PayDate,
		CPPContribution:   cppResult.BaseContribution,
		CPP2Contribution:  cppResult.CPP2Contribution,
		EIContribution:    eiResult.EmployeeContribution,
		FederalTax:        federalTax,
		ProvincialTax:     provincialTax,
		EmployerCPP:       totalCPP,
		EmployerEI:        eiResult.EmployerContribution,
		GrossPay:          totalGross,
		PreTaxDeductions:  input.PreTaxDeductions,
		PostTaxDeductions: input.PostTaxDeductions,
		TotalDeductions:   totalDeductions,
		NetPay:            netPay,
		YTDAfter:          ytdAfter,
		EditionUsed:       edition,
	}

	e.Logger.Infof("calculated pay period for employee=%s gross=%s net=%s", input.EmployeeID, input.GrossPay, netPay)

	return result, nil
}
