package calc

import (
	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/shopspring/decimal"
)

// ProvincialCalculator computes provincial/territorial income tax for one
// pay period. Jurisdiction-specific quirks (Ontario surtax and health
// premium, British Columbia's tax reduction, Alberta's K5P credit) are
// dispatched from the Capabilities flag bundle on Params rather than from
// per-jurisdiction types, so this is the single function every jurisdiction
// goes through.
type ProvincialCalculator struct {
	Params domain.JurisdictionParams
	Logger Logger
}

// Calculate returns the provincial tax to withhold for this pay period.
// annualIncome and k2Base are the same annual-projection and credit-base
// values the federal calculator uses (the engine computes them once and
// shares them, since T4127's provincial Option 1 skeleton is identical to
// the federal one). provincialClaim is the employee's provincial TD1 claim
// amount; zero means the jurisdiction's computed BPA applies (dynamic for
// MB/NS/YT). The jurisdiction's own credit rate is its lowest bracket rate —
// every T4127 provincial schedule defines credit_rate that way, so no
// separate field is carried on JurisdictionParams.
func (c ProvincialCalculator) Calculate(annualIncome money.Money, periodsPerYear int, k2Base, provincialClaim money.Money) money.Money {
	grossTax := bracketTax(annualIncome, c.Params.Brackets)

	bpa := dynamicBPA(c.Params.BPA, annualIncome)
	claimAmount := effectiveClaimAmount(provincialClaim, bpa)
	creditRate, _ := decimal.NewFromString(c.Params.Brackets[0].Rate)

	k1 := claimAmount.Mul(creditRate).RoundCents()
	k2 := k2Base.Mul(creditRate).RoundCents()

	basicTax := money.Floor0(grossTax.Sub(k1).Sub(k2))

	if c.Params.Capabilities.HasK5P {
		basicTax = money.Floor0(basicTax.Sub(c.albertaK5P(annualIncome)))
	}

	if c.Params.Capabilities.HasTaxReduction {
		basicTax = money.Floor0(basicTax.Sub(c.bcTaxReduction(annualIncome)))
	}

	annualTax := basicTax
	if c.Params.Capabilities.HasSurtax {
		annualTax = annualTax.Add(c.ontarioSurtax(basicTax))
	}
	if c.Params.Capabilities.HasHealthPremium {
		annualTax = annualTax.Add(c.ontarioHealthPremium(annualIncome))
	}

	perPeriod := annualTax.PerPeriod(periodsPerYear).RoundCents()

	if c.Logger != nil {
		c.Logger.Debugf("provincial[%s]: A=%s basicTax=%s perPeriod=%s", c.Params.Key.Jurisdiction, annualIncome, basicTax, perPeriod)
	}

	return perPeriod
}

// ontarioSurtax applies Ontario's two-tier surtax: a percentage of basic
// provincial tax above each tier's threshold, tiers stacking.
func (c ProvincialCalculator) ontarioSurtax(basicTax money.Money) money.Money {
	total := money.Zero()
	for _, tier := range c.Params.SurtaxTiers {
		if basicTax.LessThanOrEqual(tier.Threshold) {
			continue
		}
		rate, _ := decimal.NewFromString(tier.Rate)
		excess := basicTax.Sub(tier.Threshold)
		total = total.Add(excess.Mul(rate))
	}
	return total.RoundCents()
}

// ontarioHealthPremium applies Ontario's income-tested health premium: in
// each band reached, the premium is the previous band's amount plus Rate on
// income above the band's Threshold, capped at that band's cumulative Cap.
func (c ProvincialCalculator) ontarioHealthPremium(annualIncome money.Money) money.Money {
	premium := money.Zero()
	for _, band := range c.Params.HealthPremiumBands {
		if annualIncome.LessThanOrEqual(band.Threshold) {
			continue
		}
		rate, _ := decimal.NewFromString(band.Rate)
		excess := annualIncome.Sub(band.Threshold)
		premium = money.Min(premium.Add(excess.Mul(rate).RoundCents()), band.Cap)
	}
	return premium
}

// bcTaxReduction applies British Columbia's low-income tax reduction:
// TaxReductionMax phased out at TaxReductionRate per dollar of annual income
// over TaxReductionThreshold, floored at zero before being subtracted.
func (c ProvincialCalculator) bcTaxReduction(annualIncome money.Money) money.Money {
	if annualIncome.LessThanOrEqual(c.Params.TaxReductionThreshold) {
		return c.Params.TaxReductionMax
	}
	rate, _ := decimal.NewFromString(c.Params.TaxReductionRate)
	excess := annualIncome.Sub(c.Params.TaxReductionThreshold)
	phaseOut := excess.Mul(rate).RoundCents()
	return money.Floor0(c.Params.TaxReductionMax.Sub(phaseOut))
}

// albertaK5P applies Alberta's supplementary non-refundable credit: a fixed
// amount (K5PAmount) times K5PRate, independent of income.
func (c ProvincialCalculator) albertaK5P(annualIncome money.Money) money.Money {
	rate, _ := decimal.NewFromString(c.Params.K5PRate)
	return c.Params.K5PAmount.Mul(rate).RoundCents()
}
