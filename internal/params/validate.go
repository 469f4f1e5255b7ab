package params

import (
	"fmt"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// validateBrackets enforces ascending thresholds and non-decreasing rates,
// the invariant every downstream bracketTax call in internal/calc relies on.
func validateBrackets(brackets []domain.TaxBracket, path string) error {
	if len(brackets) == 0 {
		return &ParameterInvalid{Key: path, Reason: "no brackets defined"}
	}
	var prevThreshold, prevRate decimal.Decimal
	for i, b := range brackets {
		rate, err := decimal.NewFromString(b.Rate)
		if err != nil {
			return &ParameterInvalid{Key: path, Reason: fmt.Sprintf("bracket %d: invalid rate %q", i, b.Rate)}
		}
		if i > 0 {
			if !b.Threshold.Decimal.GreaterThan(prevThreshold) {
				return &ParameterInvalid{Key: path, Reason: fmt.Sprintf("bracket %d: threshold must be strictly ascending", i)}
			}
			if rate.LessThan(prevRate) {
				return &ParameterInvalid{Key: path, Reason: fmt.Sprintf("bracket %d: rate must be non-decreasing", i)}
			}
		}
		prevThreshold = b.Threshold.Decimal
		prevRate = rate
	}
	return nil
}

// validateCPP enforces CPP2/YMPE/YAMPE presence and ordering.
func validateCPP(cpp domain.CPPParams, path string) error {
	if !cpp.YMPE.IsPositive() {
		return &ParameterInvalid{Key: path, Reason: "ympe must be positive"}
	}
	if !cpp.YAMPE.IsPositive() {
		return &ParameterInvalid{Key: path, Reason: "yampe must be positive"}
	}
	if !cpp.YAMPE.GreaterThan(cpp.YMPE) {
		return &ParameterInvalid{Key: path, Reason: "yampe must be greater than ympe"}
	}
	if _, err := decimal.NewFromString(cpp.BaseRate); err != nil {
		return &ParameterInvalid{Key: path, Reason: "invalid cpp base_rate"}
	}
	if _, err := decimal.NewFromString(cpp.CPP2Rate); err != nil {
		return &ParameterInvalid{Key: path, Reason: "invalid cpp cpp2_rate"}
	}
	return nil
}

// validateEI enforces the EI premium fields are present and parse cleanly.
func validateEI(ei domain.EIParams, path string) error {
	if !ei.MaxInsurableEarnings.IsPositive() {
		return &ParameterInvalid{Key: path, Reason: "max_insurable_earnings must be positive"}
	}
	if _, err := decimal.NewFromString(ei.EmployeeRate); err != nil {
		return &ParameterInvalid{Key: path, Reason: "invalid ei employee_rate"}
	}
	if _, err := decimal.NewFromString(ei.EmployerMultiplier); err != nil {
		return &ParameterInvalid{Key: path, Reason: "invalid ei employer_multiplier"}
	}
	return nil
}

// validateJurisdictionCoverage enforces that all twelve supported
// jurisdictions are present for a given year/edition and that each
// jurisdiction's capability flags are internally consistent with the fields
// it carries (e.g. a jurisdiction without HasTaxReduction has no
// tax-reduction fields to validate).
func validateJurisdictionCoverage(parsed map[domain.Jurisdiction]domain.JurisdictionParams, year int, edition domain.Edition) error {
	path := fmt.Sprintf("provinces_%s.yaml (year %d)", edition, year)
	for _, j := range domain.Jurisdictions {
		jp, ok := parsed[j]
		if !ok {
			return &ParameterInvalid{Key: path, Reason: fmt.Sprintf("missing jurisdiction %s", j)}
		}
		if jp.Capabilities.HasTaxReduction && !jp.TaxReductionMax.IsPositive() && jp.TaxReductionThreshold.IsZero() {
			return &ParameterInvalid{Key: path, Reason: fmt.Sprintf("%s: has_tax_reduction set but no tax reduction fields", j)}
		}
		if jp.Capabilities.HasK5P && jp.K5PAmount.IsZero() {
			return &ParameterInvalid{Key: path, Reason: fmt.Sprintf("%s: has_k5p set but k5p_amount is zero", j)}
		}
		if jp.Capabilities.HasSurtax && len(jp.SurtaxTiers) == 0 {
			return &ParameterInvalid{Key: path, Reason: fmt.Sprintf("%s: has_surtax set but no surtax tiers", j)}
		}
		if jp.Capabilities.HasHealthPremium && len(jp.HealthPremiumBands) == 0 {
			return &ParameterInvalid{Key: path, Reason: fmt.Sprintf("%s: has_health_premium set but no health premium bands", j)}
		}
		if jp.BPA.Dynamic && jp.BPA.UpperThreshold.LessThanOrEqual(jp.BPA.LowerThreshold) {
			return &ParameterInvalid{Key: path, Reason: fmt.Sprintf("%s: dynamic bpa upper_threshold must exceed lower_threshold", j)}
		}
	}
	return nil
}
