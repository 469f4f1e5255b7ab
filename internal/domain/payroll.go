package domain

import (
	"time"

	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/google/uuid"
)

// PayrollRunStatus is one state of the run lifecycle state machine.
// Transitions are forward except for two: cancel, which is reachable from
// draft or pending_approval only, and pending_approval back to draft.
type PayrollRunStatus string

const (
	RunDraft           PayrollRunStatus = "draft"
	RunPendingApproval PayrollRunStatus = "pending_approval"
	RunApproved        PayrollRunStatus = "approved"
	RunPaid            PayrollRunStatus = "paid"
	RunCancelled       PayrollRunStatus = "cancelled"
)

// CanTransitionTo reports whether moving from s to next is a legal
// transition in the run lifecycle state machine.
func (s PayrollRunStatus) CanTransitionTo(next PayrollRunStatus) bool {
	switch s {
	case RunDraft:
		return next == RunPendingApproval || next == RunCancelled
	case RunPendingApproval:
		return next == RunApproved || next == RunCancelled || next == RunDraft
	case RunApproved:
		return next == RunPaid
	default:
		return false
	}
}

// PayrollRun is one payroll cycle for one PayGroup and pay date. Version is
// bumped on every status change (transition or cancel); the stores do not
// compare it on write.
// PeriodStart/PeriodEnd bound the work period this run pays out; PeriodEnd
// must be on or after PeriodStart, and PayDate on or after PeriodEnd.
// TotalGross/TotalDeductions/TotalNetPay are a denormalized cache of the sum
// over this run's records, recomputed by recalculate; they exist so callers
// can read run-level summary figures without walking every record.
type PayrollRun struct {
	ID          uuid.UUID
	PayGroupID  uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
	PayDate     time.Time
	Year        int
	Edition     Edition
	Status      PayrollRunStatus
	Version     int

	TotalGross      money.Money
	TotalDeductions money.Money
	TotalNetPay     money.Money

	// ApprovedAt/ApprovedBy are approval metadata, set once when the run
	// transitions into RunApproved and left nil/empty otherwise.
	// ApprovedBy is populated by the caller's auth layer; this engine has
	// none, so it is carried as an opaque identifier and never interpreted.
	ApprovedAt *time.Time
	ApprovedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PayrollRecord is one employee's line within a PayrollRun, carrying an
// immutable snapshot of the employee data used at insertion time (so later
// employee edits never retroactively change an approved or paid run) plus
// the calculation result once computed.
type PayrollRecord struct {
	ID         uuid.UUID
	RunID      uuid.UUID
	EmployeeID uuid.UUID

	// EmployeeSnapshot is frozen at record-insertion time.
	EmployeeSnapshot Employee

	GrossPay          money.Money
	VacationPayout    money.Money
	PreTaxDeductions  money.Money
	PostTaxDeductions money.Money

	Result *CalculationResult // nil until recalculate has run successfully

	Audit []AuditEntry
}

// AuditEntry records a calculation failure or warning attached to a
// PayrollRecord, surfaced to callers instead of silently dropping a record.
type AuditEntry struct {
	Timestamp time.Time
	Code      string
	Message   string
}
