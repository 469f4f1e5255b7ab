package domain

import (
	"time"

	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/google/uuid"
)

// CompensationBasis is either an annual salary or an hourly rate; exactly one
// applies to a given Employee.
type CompensationBasis string

const (
	CompensationSalary CompensationBasis = "salary"
	CompensationHourly CompensationBasis = "hourly"
)

// Employee is the payroll-relevant projection of a person. It carries no
// identity data beyond what calculation and snapshotting require.
type Employee struct {
	ID           uuid.UUID
	PayGroupID   uuid.UUID
	Jurisdiction Jurisdiction
	Frequency    PayPeriodFrequency

	Basis        CompensationBasis
	AnnualSalary money.Money // set iff Basis == CompensationSalary
	HourlyRate   money.Money // set iff Basis == CompensationHourly

	// TD1 claim amounts, federal and provincial. Zero means the jurisdiction
	// minimum BPA applies; an employee may claim above the minimum via
	// additional TD1 credits, never below.
	FederalTD1    money.Money
	ProvincialTD1 money.Money

	// CPPExempt and EIExempt cover the statutory exemptions (e.g. employees
	// under 18 or over 70 for CPP, certain arm's-length exclusions for EI).
	// CPP2Exempt is tracked separately: an employee who elected CPT30 stops
	// CPP2 accrual without necessarily being CPP-base exempt, and the age
	// boundaries for the two are not identical either. The engine never
	// infers any of the three from dates of birth or election forms; it
	// receives the flags as given.
	CPPExempt  bool
	EIExempt   bool
	CPP2Exempt bool

	HireDate        time.Time
	TerminationDate *time.Time
}

// Active reports whether the employee is eligible for a pay period ending on
// periodEnd: hired on or before periodEnd and, if terminated, terminated
// after periodEnd.
func (e Employee) Active(periodEnd time.Time) bool {
	if e.HireDate.After(periodEnd) {
		return false
	}
	if e.TerminationDate != nil && !e.TerminationDate.After(periodEnd) {
		return false
	}
	return true
}

// YTDAccumulator carries an employee's year-to-date totals into a
// calculation so annual caps (CPP, CPP2, EI) are enforced across periods
// rather than reset each time.
type YTDAccumulator struct {
	Year                  int
	PensionableEarnings   money.Money // YTD earnings counted toward CPP/CPP2
	CPPContribution       money.Money
	CPP2Contribution      money.Money
	InsurableEarnings     money.Money // YTD earnings counted toward EI
	EIContribution        money.Money
	FederalTaxWithheld    money.Money
	ProvincialTaxWithheld money.Money
}

// PayGroup groups employees sharing a pay frequency and default jurisdiction
// for scheduling purposes; an employee's own Jurisdiction still governs its
// calculation.
type PayGroup struct {
	ID                  uuid.UUID
	Name                string
	Frequency           PayPeriodFrequency
	DefaultJurisdiction Jurisdiction
	NextPayDate         time.Time
}
