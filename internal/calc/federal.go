package calc

import (
	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/shopspring/decimal"
)

// FederalCalculator computes federal income tax for one pay period using the
// CRA T4127 "Option 1" annual-projection method: the period's gross pay is
// annualized (A), gross bracket tax is computed on A, then non-refundable
// credits for the Basic Personal Amount and CPP/EI contributions (K1, K2)
// are subtracted before converting back to a per-period amount.
type FederalCalculator struct {
	Params domain.FederalParams
	Logger Logger
}

// Calculate returns the federal tax to withhold for this pay period.
// annualIncome is A, the annual-projected taxable income already net of
// pre-tax deductions, CPP2, and F2 (the engine computes A once and shares it
// with the provincial calculator, since both use the identical projection).
// k2Base is the annualized, per-period-capped, non-enhanced-CPP-plus-EI
// credit base the engine computed from this period's CPP/EI contributions;
// this calculator only applies its own credit rate to it. federalClaim is
// the employee's TD1 claim amount; zero means the jurisdiction's computed
// Basic Personal Amount applies, per §3's "zero means jurisdiction minimum
// BPA" rule.
func (c FederalCalculator) Calculate(annualIncome money.Money, periodsPerYear int, k2Base, federalClaim money.Money) money.Money {
	grossTax := bracketTax(annualIncome, c.Params.Brackets)

	bpa := dynamicBPA(c.Params.BPA, annualIncome)
	claimAmount := effectiveClaimAmount(federalClaim, bpa)

	k1Rate, _ := decimal.NewFromString(c.Params.K1Rate)
	k2Rate, _ := decimal.NewFromString(c.Params.K2Rate)

	k1 := claimAmount.Mul(k1Rate).RoundCents()
	k2 := k2Base.Mul(k2Rate).RoundCents()
	k4 := money.Min(annualIncome, c.Params.CanadaEmploymentAmount).Mul(k1Rate).RoundCents()

	annualTax := money.Floor0(grossTax.Sub(k1).Sub(k2).Sub(k4))
	perPeriod := annualTax.PerPeriod(periodsPerYear).RoundCents()

	if c.Logger != nil {
		c.Logger.Debugf("federal: A=%s grossTax=%s K1=%s K2=%s K4=%s perPeriod=%s", annualIncome, grossTax, k1, k2, k4, perPeriod)
	}

	return perPeriod
}

// bracketTax sums marginal tax across ascending brackets for annual income A.
// Brackets must be sorted ascending by Threshold; this is the T3 step of the
// Option 1 method, computed directly from marginal rates rather than from a
// precomputed cumulative constant.
func bracketTax(annualIncome money.Money, brackets []domain.TaxBracket) money.Money {
	total := money.Zero()
	for i, b := range brackets {
		rate, _ := decimal.NewFromString(b.Rate)
		upper := money.Money{}
		hasUpper := i+1 < len(brackets)
		if hasUpper {
			upper = brackets[i+1].Threshold
		}

		if annualIncome.LessThanOrEqual(b.Threshold) {
			break
		}
		var span money.Money
		if hasUpper {
			span = money.Floor0(money.Min(annualIncome, upper).Sub(b.Threshold))
		} else {
			span = money.Floor0(annualIncome.Sub(b.Threshold))
		}
		total = total.Add(span.Mul(rate))
	}
	return total.RoundCents()
}

// effectiveClaimAmount resolves the TD1 claim basis for the K1 credit: an
// unclaimed (zero) TD1 defaults to the jurisdiction's computed BPA; a
// declared claim is honored but never allowed below the computed BPA, since
// TD1 claims are additive on top of the minimum, never a reduction of it.
func effectiveClaimAmount(declared, bpa money.Money) money.Money {
	if declared.IsZero() {
		return bpa
	}
	return money.Max(declared, bpa)
}

// dynamicBPA resolves the Basic Personal Amount for a given annual income:
// static jurisdictions return Max always; dynamic jurisdictions (federal,
// Manitoba, Nova Scotia, Yukon) phase linearly from Max down to Min between
// LowerThreshold and UpperThreshold.
func dynamicBPA(schedule domain.BPASchedule, annualIncome money.Money) money.Money {
	if !schedule.Dynamic {
		return schedule.Max
	}
	if annualIncome.LessThanOrEqual(schedule.LowerThreshold) {
		return schedule.Max
	}
	if annualIncome.GreaterThanOrEqual(schedule.UpperThreshold) {
		return schedule.Min
	}

	span := schedule.UpperThreshold.Sub(schedule.LowerThreshold)
	excess := annualIncome.Sub(schedule.LowerThreshold)
	reduction := schedule.Max.Sub(schedule.Min).Mul(excess.Decimal).Div(span.Decimal)
	return money.Floor0(schedule.Max.Sub(money.NewFromDecimal(reduction))).RoundCents()
}
