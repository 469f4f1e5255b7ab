package params

import "github.com/cra-payroll/payroll-engine/pkg/money"

// The types in this file mirror the on-disk YAML layout under
// config/tax_tables/<year>/*.yaml. They are converted to internal/domain
// types (and validated) by load.go; nothing outside this package ever sees
// them directly.

type metadata struct {
	Year    int    `yaml:"year"`
	Edition string `yaml:"edition,omitempty"`
}

type cppEIFile struct {
	Metadata metadata     `yaml:"_metadata"`
	CPP      cppFileBlock `yaml:"cpp"`
	EI       eiFileBlock  `yaml:"ei"`
}

type cppFileBlock struct {
	BasicExemption      money.Money `yaml:"basic_exemption"`
	YMPE                money.Money `yaml:"ympe"`
	YAMPE               money.Money `yaml:"yampe"`
	BaseRate            string      `yaml:"base_rate"`
	CPP2Rate            string      `yaml:"cpp2_rate"`
	MaxBaseContribution money.Money `yaml:"max_base_contribution"`
	MaxCPP2Contribution money.Money `yaml:"max_cpp2_contribution"`
}

type eiFileBlock struct {
	MaxInsurableEarnings    money.Money `yaml:"max_insurable_earnings"`
	EmployeeRate            string      `yaml:"employee_rate"`
	EmployerMultiplier      string      `yaml:"employer_multiplier"`
	MaxEmployeeContribution money.Money `yaml:"max_employee_contribution"`
}

type taxBracketFile struct {
	Threshold money.Money `yaml:"threshold"`
	Rate      string      `yaml:"rate"`
}

type bpaFile struct {
	Max            money.Money `yaml:"max"`
	Min            money.Money `yaml:"min"`
	LowerThreshold money.Money `yaml:"lower_threshold"`
	UpperThreshold money.Money `yaml:"upper_threshold"`
	Dynamic        bool        `yaml:"dynamic"`
}

type federalFile struct {
	Metadata               metadata         `yaml:"_metadata"`
	Brackets               []taxBracketFile `yaml:"brackets"`
	BPA                    bpaFile          `yaml:"bpa"`
	K1Rate                 string           `yaml:"k1_rate"`
	K2Rate                 string           `yaml:"k2_rate"`
	CanadaEmploymentAmount money.Money      `yaml:"canada_employment_amount"`
	IndexingRate           string           `yaml:"indexing_rate"`
}

type capabilitiesFile struct {
	HasSurtax        bool `yaml:"has_surtax"`
	HasHealthPremium bool `yaml:"has_health_premium"`
	HasTaxReduction  bool `yaml:"has_tax_reduction"`
	HasK5P           bool `yaml:"has_k5p"`
}

type surtaxTierFile struct {
	Threshold money.Money `yaml:"threshold"`
	Rate      string      `yaml:"rate"`
}

type healthPremiumBandFile struct {
	Threshold money.Money `yaml:"threshold"`
	Rate      string      `yaml:"rate"`
	Cap       money.Money `yaml:"cap"`
}

type jurisdictionFile struct {
	Brackets     []taxBracketFile `yaml:"brackets"`
	BPA          bpaFile          `yaml:"bpa"`
	Capabilities capabilitiesFile `yaml:"capabilities"`

	SurtaxTiers        []surtaxTierFile        `yaml:"surtax_tiers,omitempty"`
	HealthPremiumBands []healthPremiumBandFile `yaml:"health_premium_bands,omitempty"`

	TaxReductionMax       money.Money `yaml:"tax_reduction_max,omitempty"`
	TaxReductionThreshold money.Money `yaml:"tax_reduction_threshold,omitempty"`
	TaxReductionRate      string      `yaml:"tax_reduction_rate,omitempty"`

	K5PAmount money.Money `yaml:"k5p_amount,omitempty"`
	K5PRate   string      `yaml:"k5p_rate,omitempty"`
}

type provincesFile struct {
	Metadata      metadata                    `yaml:"_metadata"`
	Jurisdictions map[string]jurisdictionFile `yaml:"jurisdictions"`
}
