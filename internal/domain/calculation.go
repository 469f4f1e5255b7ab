package domain

import (
	"time"

	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/google/uuid"
)

// CalculationInput is everything the engine needs to compute one employee's
// one pay-period result. It is immutable once constructed; the engine never
// mutates it.
type CalculationInput struct {
	EmployeeID   uuid.UUID
	Jurisdiction Jurisdiction
	Frequency    PayPeriodFrequency
	PayDate      time.Time

	GrossPay money.Money // the period's regular + overtime + taxable benefits gross, before vacation payout

	// VacationPayout is vacation pay cashed out this period. It is added to
	// GrossPay for every pensionable/insurable/taxable purpose; the engine's
	// reported GrossPay line is the sum of the two.
	VacationPayout money.Money

	// PreTaxDeductions bundles RRSP contributions, union dues, and any other
	// pre-tax deduction for this period — T4127 subtracts all of them from
	// taxable income identically, so the engine does not distinguish them.
	PreTaxDeductions money.Money
	// PostTaxDeductions bundles garnishments and similar after-tax
	// deductions: they reduce net pay but never taxable income.
	PostTaxDeductions money.Money

	FederalTD1    money.Money
	ProvincialTD1 money.Money
	CPPExempt     bool
	CPP2Exempt    bool
	EIExempt      bool

	YTDBefore YTDAccumulator
}

// LineItem names one deduction or employer-cost line in a CalculationResult.
type LineItem string

const (
	LineCPP           LineItem = "cpp"
	LineCPP2          LineItem = "cpp2"
	LineEI            LineItem = "ei"
	LineFederalTax    LineItem = "federal_tax"
	LineProvincialTax LineItem = "provincial_tax"
)

// CalculationResult is the pure output of one CalculationInput against one
// set of resolved parameters: every statutory line item plus the resulting
// net pay and the YTD accumulator advanced by this period.
type CalculationResult struct {
	EmployeeID uuid.UUID
	PayDate    time.Time

	CPPContribution  money.Money
	CPP2Contribution money.Money
	EIContribution   money.Money
	FederalTax       money.Money
	ProvincialTax    money.Money

	EmployerCPP money.Money // matches CPP+CPP2 contribution, employer side
	EmployerEI  money.Money // employee EI * employer multiplier

	GrossPay          money.Money // regular gross plus any vacation payout this period
	PreTaxDeductions  money.Money
	PostTaxDeductions money.Money
	TotalDeductions   money.Money
	NetPay            money.Money

	YTDAfter YTDAccumulator

	// EditionUsed records which federal/provincial edition governed this
	// calculation, for audit and reproducibility.
	EditionUsed Edition
}
