package domain

import "github.com/cra-payroll/payroll-engine/pkg/money"

// TaxBracket is one marginal bracket of a federal or provincial tax schedule:
// income above Threshold, up to the next bracket's Threshold, is taxed at
// Rate. Brackets within a schedule must be stored in ascending Threshold
// order with non-decreasing Rate (validated at load time, not here).
type TaxBracket struct {
	Threshold money.Money
	Rate      string // decimal string, e.g. "0.15"; parsed to decimal.Decimal by calc
}

// FederalParams holds the CRA T4127 Option 1 federal tax parameters for one
// edition (year + jan/jul half).
type FederalParams struct {
	Key      EditionKey
	Brackets []TaxBracket // five brackets, ascending
	BPA      BPASchedule  // federal basic personal amount, income-tested
	// K1Rate is the non-refundable tax credit rate applied to the TD1 claim
	// amount (K1) and to the Canada Employment Amount (K4) — T4127's
	// "federal_credit_rate", normally equal to the lowest bracket rate.
	// Capped CPP/EI contributions (K2) use K2Rate.
	K1Rate string
	// K2Rate is kept as a separate field from K1Rate because CRA has
	// historically split the two in the source tables, even though both
	// currently equal the lowest bracket rate.
	K2Rate string
	// CanadaEmploymentAmount is the fixed credit base for K4 (min(A, CEA) x
	// federal_credit_rate).
	CanadaEmploymentAmount money.Money
	// IndexingRate is the annual inflation adjustment CRA applies to produce
	// next year's brackets and BPA from this edition's; stored for audit and
	// for the next annual parameter update, never consumed by the engine
	// itself (the engine always uses the resolved, already-indexed brackets
	// for its own edition).
	IndexingRate string
}

// BPASchedule describes the Basic Personal Amount recipe for one
// jurisdiction/edition. Static jurisdictions set Max == Min and ignore the
// phase-out thresholds. Dynamic jurisdictions (federal, MB, NS, YT) phase the
// BPA down from Max to Min as net income rises from LowerThreshold to
// UpperThreshold.
type BPASchedule struct {
	Max            money.Money
	Min            money.Money
	LowerThreshold money.Money
	UpperThreshold money.Money
	Dynamic        bool
}

// JurisdictionCapabilities is the data-driven behavior-flag bundle consumed
// by the single provincial tax function; a jurisdiction's quirks are data,
// never a dedicated type or branch elsewhere in the calculator.
type JurisdictionCapabilities struct {
	HasSurtax        bool // Ontario: two-tier surtax on basic provincial tax
	HasHealthPremium bool // Ontario: income-tested health premium add-on
	HasTaxReduction  bool // British Columbia: low-income tax reduction
	HasK5P           bool // Alberta: supplementary non-refundable credit
}

// SurtaxTier is one threshold/rate pair of a multi-tier surtax schedule.
type SurtaxTier struct {
	Threshold money.Money
	Rate      string
}

// HealthPremiumBand is one income band of Ontario's health premium schedule:
// once income exceeds Threshold, the premium is the previous band's amount
// plus Rate on the income above Threshold, capped at Cap. Cap is cumulative
// (the total premium at the top of the band), not a per-band increment.
type HealthPremiumBand struct {
	Threshold money.Money
	Rate      string
	Cap       money.Money
}

// JurisdictionParams holds the provincial/territorial tax parameters for one
// edition.
type JurisdictionParams struct {
	Key          EditionKey
	Brackets     []TaxBracket
	BPA          BPASchedule
	Capabilities JurisdictionCapabilities

	// Ontario only.
	SurtaxTiers        []SurtaxTier
	HealthPremiumBands []HealthPremiumBand

	// British Columbia only.
	TaxReductionMax       money.Money
	TaxReductionThreshold money.Money
	TaxReductionRate      string // reduction phase-out rate per dollar over threshold

	// Alberta only (K5P supplementary credit).
	K5PAmount money.Money
	K5PRate   string
}

// CPPParams holds the year-scoped CPP/CPP2 parameters. CPP is not
// edition-scoped (no mid-year revision).
type CPPParams struct {
	Year int

	BasicExemption money.Money // annual, prorated per pay period
	YMPE           money.Money // year's maximum pensionable earnings
	YAMPE          money.Money // year's additional maximum pensionable earnings, > YMPE
	BaseRate       string      // employee base contribution rate below YMPE
	CPP2Rate       string      // employee additional rate between YMPE and YAMPE

	MaxBaseContribution money.Money
	MaxCPP2Contribution money.Money
}

// EIParams holds the year-scoped Employment Insurance parameters.
type EIParams struct {
	Year int

	MaxInsurableEarnings money.Money // annual cap (MIE)
	EmployeeRate         string
	EmployerMultiplier   string // employer premium = employee premium * multiplier (1.4 outside Quebec)

	MaxEmployeeContribution money.Money
}
