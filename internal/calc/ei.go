package calc

import (
	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/shopspring/decimal"
)

// EICalculator computes the Employment Insurance employee premium for a
// single pay period, capped at the annual maximum insurable earnings (MIE).
type EICalculator struct {
	Params domain.EIParams
	Logger Logger
}

// EIResult holds the employee premium and the employer share, derived by the
// statutory 1.4x multiplier (outside Quebec).
type EIResult struct {
	InsurableEarnings    money.Money
	EmployeeContribution money.Money
	EmployerContribution money.Money
}

// Calculate applies the employee rate to insurable earnings up to MIE,
// capping against YTD room, then derives the employer share.
func (c EICalculator) Calculate(grossPay money.Money, exempt bool, ytd domain.YTDAccumulator) EIResult {
	if exempt {
		return EIResult{}
	}

	insurableBefore := money.Min(ytd.InsurableEarnings, c.Params.MaxInsurableEarnings)
	insurableAfter := money.Min(ytd.InsurableEarnings.Add(grossPay), c.Params.MaxInsurableEarnings)
	insurableThisPeriod := money.Floor0(insurableAfter.Sub(insurableBefore))

	rate, _ := decimal.NewFromString(c.Params.EmployeeRate)
	employeeContribution := insurableThisPeriod.Mul(rate).RoundCents()

	remaining := money.Floor0(c.Params.MaxEmployeeContribution.Sub(ytd.EIContribution))
	employeeContribution = money.Min(employeeContribution, remaining)

	multiplier, _ := decimal.NewFromString(c.Params.EmployerMultiplier)
	employerContribution := employeeContribution.Mul(multiplier).RoundCents()

	if c.Logger != nil {
		c.Logger.Debugf("ei: insurable=%s employee=%s employer=%s", insurableThisPeriod, employeeContribution, employerContribution)
	}

	return EIResult{
		InsurableEarnings:    insurableThisPeriod,
		EmployeeContribution: employeeContribution,
		EmployerContribution: employerContribution,
	}
}
