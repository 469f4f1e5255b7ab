package calc

import (
	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/shopspring/decimal"
)

// CPPCalculator computes the Canada Pension Plan base and CPP2 (additional)
// employee contributions for a single pay period, enforcing the annual
// YMPE/YAMPE caps against the employee's year-to-date pensionable earnings
// and contributions.
type CPPCalculator struct {
	Params domain.CPPParams
	Logger Logger
}

// CPPResult holds the two independently-capped contribution lines.
type CPPResult struct {
	PensionableEarnings money.Money
	BaseContribution    money.Money
	CPP2Contribution    money.Money
}

// Calculate applies the basic exemption (prorated per period) to the base-tier
// contribution only, then the CPP2 rate between YMPE and YAMPE, capping each
// line at its YTD-remaining room. Pensionable earnings for the period is the
// raw gross subject to CPP: YMPE/YAMPE crossover and the YTD accumulator are
// tracked against that raw figure, per T4127; only the contribution amount
// itself is reduced by the exemption.
func (c CPPCalculator) Calculate(grossPay money.Money, periodsPerYear int, exempt bool, cpp2Exempt bool, ytd domain.YTDAccumulator) CPPResult {
	if exempt {
		return CPPResult{}
	}

	pensionable := money.Floor0(grossPay)

	ytdPensionableBefore := ytd.PensionableEarnings
	ytdPensionableAfter := ytdPensionableBefore.Add(pensionable)

	// Base contribution: rate applies to pensionable earnings up to YMPE,
	// less the per-period basic exemption, capped overall by
	// MaxBaseContribution (annual ceiling, belt-and-suspenders against
	// rounding drift across periods).
	exemptionPerPeriod := c.Params.BasicExemption.PerPeriod(periodsPerYear)
	baseRate, _ := decimal.NewFromString(c.Params.BaseRate)
	basePensionableThisPeriod := money.Floor0(money.Min(ytdPensionableAfter, c.Params.YMPE).Sub(money.Min(ytdPensionableBefore, c.Params.YMPE)))
	baseContributoryThisPeriod := money.Floor0(basePensionableThisPeriod.Sub(exemptionPerPeriod))
	baseContribution := baseContributoryThisPeriod.Mul(baseRate).RoundCents()
	baseRemaining := money.Floor0(c.Params.MaxBaseContribution.Sub(ytd.CPPContribution))
	baseContribution = money.Min(baseContribution, baseRemaining)

	// CPP2: additional rate on pensionable earnings between YMPE and YAMPE.
	// No basic exemption applies to this tier. A CPT30 election (cpp2Exempt)
	// zeroes this line regardless of room remaining below YAMPE; base CPP
	// above is unaffected.
	var cpp2Contribution money.Money
	if !cpp2Exempt {
		cpp2Rate, _ := decimal.NewFromString(c.Params.CPP2Rate)
		lowerBefore := money.Max(money.Min(ytdPensionableBefore, c.Params.YAMPE), c.Params.YMPE)
		lowerAfter := money.Max(money.Min(ytdPensionableAfter, c.Params.YAMPE), c.Params.YMPE)
		cpp2PensionableThisPeriod := money.Floor0(lowerAfter.Sub(lowerBefore))
		cpp2Contribution = cpp2PensionableThisPeriod.Mul(cpp2Rate).RoundCents()
		cpp2Remaining := money.Floor0(c.Params.MaxCPP2Contribution.Sub(ytd.CPP2Contribution))
		cpp2Contribution = money.Min(cpp2Contribution, cpp2Remaining)
	}

	if c.Logger != nil {
		c.Logger.Debugf("cpp: pensionable=%s base=%s cpp2=%s", pensionable, baseContribution, cpp2Contribution)
	}

	return CPPResult{
		PensionableEarnings: pensionable,
		BaseContribution:    baseContribution,
		CPP2Contribution:    cpp2Contribution,
	}
}

// nonEnhancedCPPRate is the pre-2019 CPP base contribution rate. T4127
// treats only the "enhanced" portion of today's base rate as deductible from
// taxable income; the rest is credited instead (see F2 and NonEnhancedRatio).
const nonEnhancedCPPRate = "0.0495"

// F2 returns the enhanced-CPP income deduction for this period: the enhanced
// share of this period's base contribution (base_rate - 0.0495) / base_rate.
// CPP2 has no enhanced/non-enhanced split — it is deducted from taxable
// income in full by the caller.
func F2(params domain.CPPParams, baseContribution money.Money) money.Money {
	nonEnhancedPortion := baseContribution.Mul(NonEnhancedRatio(params)).RoundCents()
	return money.Floor0(baseContribution.Sub(nonEnhancedPortion))
}

// NonEnhancedRatio returns 0.0495 / base_rate, isolating the fraction of a
// base CPP contribution that remains credit-eligible (K2) once the enhanced
// portion has been moved to a straight income deduction (F2).
func NonEnhancedRatio(params domain.CPPParams) decimal.Decimal {
	baseRate, _ := decimal.NewFromString(params.BaseRate)
	nonEnhanced, _ := decimal.NewFromString(nonEnhancedCPPRate)
	return nonEnhanced.Div(baseRate)
}
