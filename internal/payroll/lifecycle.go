// Package payroll implements the Run Lifecycle: the mutating state machine
// that owns PayrollRun/PayrollRecord creation, editing, and approval. It is
// the only part of this module that mutates shared state; internal/engine
// stays pure and is called from here to populate each record's result.
package payroll

import (
	"context"
	"sync"
	"time"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/cra-payroll/payroll-engine/internal/engine"
	"github.com/cra-payroll/payroll-engine/internal/store"
	"github.com/cra-payroll/payroll-engine/pkg/dateutil"
	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lifecycle serializes mutations per run ID: one mutex per run, held for the
// duration of any operation that reads-then-writes that run's state. This
// keeps concurrent recalculate/approve calls on the same run from
// interleaving without serializing unrelated runs against each other.
type Lifecycle struct {
	Runs      store.RunStore
	Employees store.EmployeeDirectory
	PayGroups store.PayGroupRepository
	Engine    *engine.Engine

	mu       sync.Mutex
	runLocks map[uuid.UUID]*sync.Mutex
}

// New constructs a Lifecycle backed by the given store implementations and
// calculation engine.
func New(runs store.RunStore, employees store.EmployeeDirectory, payGroups store.PayGroupRepository, eng *engine.Engine) *Lifecycle {
	return &Lifecycle{
		Runs:      runs,
		Employees: employees,
		PayGroups: payGroups,
		Engine:    eng,
		runLocks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

func (l *Lifecycle) lockFor(runID uuid.UUID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.runLocks[runID]
	if !ok {
		m = &sync.Mutex{}
		l.runLocks[runID] = m
	}
	return m
}

// CreateOrGetRun returns the existing run for a pay group and pay date, in
// whatever status it is, if one exists, or creates a new one in RunDraft
// status.
func (l *Lifecycle) CreateOrGetRun(ctx context.Context, payGroupID uuid.UUID, payDate time.Time) (domain.PayrollRun, error) {
	existing, err := l.Runs.ListRuns(ctx, payGroupID)
	if err != nil {
		return domain.PayrollRun{}, newError(CodeInternal, "listing runs: %w", err)
	}
	for _, run := range existing {
		if run.PayDate.Equal(payDate) {
			return run, nil
		}
	}

	payGroup, err := l.PayGroups.GetPayGroup(ctx, payGroupID)
	if err != nil {
		return domain.PayrollRun{}, newError(CodeNotFound, "pay group %s: %w", payGroupID, err)
	}
	periodStart, periodEnd := periodBoundsFor(payDate, payGroup.Frequency)

	now := payDate
	run := domain.PayrollRun{
		ID:          uuid.New(),
		PayGroupID:  payGroupID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		PayDate:     payDate,
		Year:        payDate.Year(),
		Edition:     editionForPayDate(payDate),
		Status:      domain.RunDraft,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	created, err := l.Runs.CreateRun(ctx, run)
	if err != nil {
		return domain.PayrollRun{}, newError(CodeInternal, "creating run: %w", err)
	}
	return created, nil
}

// SyncEmployees populates a draft run with one PayrollRecord per active
// employee in the run's pay group, snapshotting each employee's current data.
// Employees who already have a record in the run are left untouched.
// Only valid while the run is in RunDraft.
func (l *Lifecycle) SyncEmployees(ctx context.Context, runID uuid.UUID) error {
	lock := l.lockFor(runID)
	lock.Lock()
	defer lock.Unlock()

	run, err := l.Runs.GetRun(ctx, runID)
	if err != nil {
		return newError(CodeNotFound, "run %s: %w", runID, err)
	}
	if run.Status != domain.RunDraft {
		return newError(CodeInvalidState, "run %s is %s, not draft", runID, run.Status)
	}

	employees, err := l.Employees.ListActiveEmployees(ctx, run.PayGroupID, run.PayDate)
	if err != nil {
		return newError(CodeInternal, "listing employees: %w", err)
	}
	existing, err := l.Runs.GetRecordsForRun(ctx, runID)
	if err != nil {
		return newError(CodeInternal, "loading records: %w", err)
	}
	inRun := make(map[uuid.UUID]bool, len(existing))
	for _, r := range existing {
		inRun[r.EmployeeID] = true
	}

	for _, emp := range employees {
		if inRun[emp.ID] {
			continue
		}
		record := domain.PayrollRecord{
			ID:               uuid.New(),
			RunID:            runID,
			EmployeeID:       emp.ID,
			EmployeeSnapshot: emp,
			GrossPay:         grossPayFor(emp),
		}
		if err := l.Runs.UpsertRecord(ctx, record); err != nil {
			return newError(CodeInternal, "upserting record for employee %s: %w", emp.ID, err)
		}
	}
	return nil
}

// AddEmployee inserts a single employee into a draft run, snapshotting their
// current data. Used for an employee hired after the run's initial sync.
func (l *Lifecycle) AddEmployee(ctx context.Context, runID, employeeID uuid.UUID) error {
	lock := l.lockFor(runID)
	lock.Lock()
	defer lock.Unlock()

	run, err := l.Runs.GetRun(ctx, runID)
	if err != nil {
		return newError(CodeNotFound, "run %s: %w", runID, err)
	}
	if run.Status != domain.RunDraft {
		return newError(CodeInvalidState, "run %s is %s, not draft", runID, run.Status)
	}

	emp, err := l.Employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return newError(CodeNotFound, "employee %s: %w", employeeID, err)
	}

	record := domain.PayrollRecord{
		ID:               uuid.New(),
		RunID:            runID,
		EmployeeID:       emp.ID,
		EmployeeSnapshot: emp,
		GrossPay:         grossPayFor(emp),
	}
	if err := l.Runs.UpsertRecord(ctx, record); err != nil {
		return newError(CodeInternal, "upserting record for employee %s: %w", emp.ID, err)
	}
	return nil
}

// RemoveEmployee deletes an employee's record from a draft run.
func (l *Lifecycle) RemoveEmployee(ctx context.Context, runID, employeeID uuid.UUID) error {
	lock := l.lockFor(runID)
	lock.Lock()
	defer lock.Unlock()

	run, err := l.Runs.GetRun(ctx, runID)
	if err != nil {
		return newError(CodeNotFound, "run %s: %w", runID, err)
	}
	if run.Status != domain.RunDraft {
		return newError(CodeInvalidState, "run %s is %s, not draft", runID, run.Status)
	}
	if err := l.Runs.DeleteRecord(ctx, runID, employeeID); err != nil {
		return newError(CodeInternal, "deleting record for employee %s: %w", employeeID, err)
	}
	return nil
}

// RecordPatch carries the fields UpdateRecord may overwrite on one
// PayrollRecord. Zero-value Money fields are applied as given (i.e. there is
// no "leave unchanged" sentinel) — callers read the current record first if
// they want to preserve an existing value.
type RecordPatch struct {
	GrossPay          money.Money
	VacationPayout    money.Money
	PreTaxDeductions  money.Money
	PostTaxDeductions money.Money
}

// UpdateRecord overwrites one employee's record in a draft run with the
// given patch; recalculation is required afterward to refresh the result.
func (l *Lifecycle) UpdateRecord(ctx context.Context, runID, employeeID uuid.UUID, patch RecordPatch) error {
	lock := l.lockFor(runID)
	lock.Lock()
	defer lock.Unlock()

	run, err := l.Runs.GetRun(ctx, runID)
	if err != nil {
		return newError(CodeNotFound, "run %s: %w", runID, err)
	}
	if run.Status != domain.RunDraft {
		return newError(CodeInvalidState, "run %s is %s, not draft", runID, run.Status)
	}

	records, err := l.Runs.GetRecordsForRun(ctx, runID)
	if err != nil {
		return newError(CodeInternal, "loading records: %w", err)
	}
	var found *domain.PayrollRecord
	for i := range records {
		if records[i].EmployeeID == employeeID {
			found = &records[i]
			break
		}
	}
	if found == nil {
		return newError(CodeNotFound, "no record for employee %s in run %s", employeeID, runID)
	}

	found.GrossPay = patch.GrossPay
	found.VacationPayout = patch.VacationPayout
	found.PreTaxDeductions = patch.PreTaxDeductions
	found.PostTaxDeductions = patch.PostTaxDeductions
	found.Result = nil
	if err := l.Runs.UpsertRecord(ctx, *found); err != nil {
		return newError(CodeInternal, "upserting record: %w", err)
	}
	return nil
}

// Recalculate runs the engine over every record in a draft or
// pending-approval run, populating each record's Result and advancing the
// employee's YTD accumulator. A calculation failure is attached as an
// AuditEntry on the offending record rather than aborting the whole run.
func (l *Lifecycle) Recalculate(ctx context.Context, runID uuid.UUID) error {
	lock := l.lockFor(runID)
	lock.Lock()
	defer lock.Unlock()

	run, err := l.Runs.GetRun(ctx, runID)
	if err != nil {
		return newError(CodeNotFound, "run %s: %w", runID, err)
	}
	if run.Status != domain.RunDraft && run.Status != domain.RunPendingApproval {
		return newError(CodeInvalidState, "run %s is %s, cannot recalculate", runID, run.Status)
	}

	records, err := l.Runs.GetRecordsForRun(ctx, runID)
	if err != nil {
		return newError(CodeInternal, "loading records: %w", err)
	}

	for _, record := range records {
		ytd, err := l.Runs.GetPriorYTD(ctx, record.EmployeeID, run.Year, run.PayDate)
		if err != nil {
			record.Audit = append(record.Audit, domain.AuditEntry{Timestamp: run.PayDate, Code: string(CodeInternal), Message: err.Error()})
			_ = l.Runs.UpsertRecord(ctx, record)
			continue
		}

		emp := record.EmployeeSnapshot
		input := domain.CalculationInput{
			EmployeeID:        record.EmployeeID,
			Jurisdiction:      emp.Jurisdiction,
			Frequency:         emp.Frequency,
			PayDate:           run.PayDate,
			GrossPay:          record.GrossPay,
			VacationPayout:    record.VacationPayout,
			PreTaxDeductions:  record.PreTaxDeductions,
			PostTaxDeductions: record.PostTaxDeductions,
			FederalTD1:        emp.FederalTD1,
			ProvincialTD1:     emp.ProvincialTD1,
			CPPExempt:         emp.CPPExempt,
			CPP2Exempt:        emp.CPP2Exempt,
			EIExempt:          emp.EIExempt,
			YTDBefore:         ytd,
		}

		result, err := l.Engine.Calculate(input)
		if err != nil {
			record.Audit = append(record.Audit, domain.AuditEntry{Timestamp: run.PayDate, Code: string(CodeInternal), Message: err.Error()})
			if upsertErr := l.Runs.UpsertRecord(ctx, record); upsertErr != nil {
				return newError(CodeInternal, "upserting record after calculation failure: %w", upsertErr)
			}
			continue
		}

		record.Result = &result
		if err := l.Runs.UpsertRecord(ctx, record); err != nil {
			return newError(CodeInternal, "upserting calculated record: %w", err)
		}
	}

	records, err = l.Runs.GetRecordsForRun(ctx, runID)
	if err != nil {
		return newError(CodeInternal, "reloading records: %w", err)
	}
	run.TotalGross = money.Zero()
	run.TotalDeductions = money.Zero()
	run.TotalNetPay = money.Zero()
	for _, record := range records {
		if record.Result == nil {
			continue
		}
		run.TotalGross = run.TotalGross.Add(record.Result.GrossPay)
		run.TotalDeductions = run.TotalDeductions.Add(record.Result.TotalDeductions)
		run.TotalNetPay = run.TotalNetPay.Add(record.Result.NetPay)
	}
	run.UpdatedAt = run.PayDate
	if err := l.Runs.UpdateRun(ctx, run); err != nil {
		return newError(CodeInternal, "updating run summary totals: %w", err)
	}
	return nil
}

// Finalize transitions a draft run into pending_approval. Every record must
// have a non-nil Result; an uncalculated record blocks finalization.
func (l *Lifecycle) Finalize(ctx context.Context, runID uuid.UUID) error {
	return l.transition(ctx, runID, domain.RunDraft, domain.RunPendingApproval, true)
}

// Approve transitions a pending_approval run into approved. Records are
// frozen from this point: no further add/remove/update/recalculate is
// permitted.
func (l *Lifecycle) Approve(ctx context.Context, runID uuid.UUID) error {
	return l.transition(ctx, runID, domain.RunPendingApproval, domain.RunApproved, false)
}

// MarkPaid transitions an approved run into paid, the terminal success
// state.
func (l *Lifecycle) MarkPaid(ctx context.Context, runID uuid.UUID) error {
	return l.transition(ctx, runID, domain.RunApproved, domain.RunPaid, false)
}

// Cancel transitions a draft or pending_approval run into cancelled.
func (l *Lifecycle) Cancel(ctx context.Context, runID uuid.UUID) error {
	lock := l.lockFor(runID)
	lock.Lock()
	defer lock.Unlock()

	run, err := l.Runs.GetRun(ctx, runID)
	if err != nil {
		return newError(CodeNotFound, "run %s: %w", runID, err)
	}
	if !run.Status.CanTransitionTo(domain.RunCancelled) {
		return newError(CodeInvalidState, "run %s is %s, cannot cancel", runID, run.Status)
	}
	run.Status = domain.RunCancelled
	run.Version++
	run.UpdatedAt = run.PayDate
	if err := l.Runs.UpdateRun(ctx, run); err != nil {
		return newError(CodeInternal, "updating run: %w", err)
	}
	return nil
}

// transition moves a run from from to to, guarded by CanTransitionTo. A run
// already sitting in the target state is a no-op: at-most-once semantics for
// approve (and any other transition) mean re-invocation never errors.
func (l *Lifecycle) transition(ctx context.Context, runID uuid.UUID, from, to domain.PayrollRunStatus, requireResults bool) error {
	lock := l.lockFor(runID)
	lock.Lock()
	defer lock.Unlock()

	run, err := l.Runs.GetRun(ctx, runID)
	if err != nil {
		return newError(CodeNotFound, "run %s: %w", runID, err)
	}
	if run.Status == to {
		return nil
	}
	if run.Status != from || !run.Status.CanTransitionTo(to) {
		return newError(CodeInvalidState, "run %s is %s, cannot transition to %s", runID, run.Status, to)
	}

	if requireResults {
		records, err := l.Runs.GetRecordsForRun(ctx, runID)
		if err != nil {
			return newError(CodeInternal, "loading records: %w", err)
		}
		var badEmployeeIDs []uuid.UUID
		for _, r := range records {
			if r.Result == nil {
				badEmployeeIDs = append(badEmployeeIDs, r.EmployeeID)
			}
		}
		if len(badEmployeeIDs) > 0 {
			return newError(CodeInvalidState, "records for employees %v have no result; recalculate before finalizing", badEmployeeIDs)
		}
	}

	run.Status = to
	run.Version++
	run.UpdatedAt = run.PayDate
	if to == domain.RunApproved {
		approvedAt := run.PayDate
		run.ApprovedAt = &approvedAt
	}
	if err := l.Runs.UpdateRun(ctx, run); err != nil {
		return newError(CodeInternal, "updating run: %w", err)
	}
	return nil
}

// standardHoursPerPeriod approximates full-time hours for one pay period by
// frequency, used only to derive a default gross pay for hourly employees at
// sync time; actual timesheet hours should be applied via UpdateRecord.
var standardHoursPerPeriod = map[domain.PayPeriodFrequency]int64{
	domain.Weekly:       40,
	domain.BiWeekly:     80,
	domain.SemiMonthly:  87,
	domain.Monthly:      173,
}

// grossPayFor derives a period's gross pay from an employee's compensation
// basis. Hourly employees are assumed full standard hours for the period;
// callers with actual timesheet hours should use UpdateRecord to override.
func grossPayFor(emp domain.Employee) money.Money {
	if emp.Basis == domain.CompensationHourly {
		hours := standardHoursPerPeriod[emp.Frequency]
		return emp.HourlyRate.Mul(decimal.NewFromInt(hours)).RoundCents()
	}
	return emp.AnnualSalary.PerPeriod(emp.Frequency.PeriodsPerYear()).RoundCents()
}

func editionForPayDate(payDate time.Time) domain.Edition {
	return domain.Edition(dateutil.EditionForPayDate(payDate))
}

// periodBoundsFor derives a run's work period from its pay date and pay
// group frequency. periodEnd is always the pay date itself (lag-free
// scheduling); periodStart steps back one period length, which trivially
// satisfies period_end >= period_start and pay_date >= period_end.
func periodBoundsFor(payDate time.Time, freq domain.PayPeriodFrequency) (periodStart, periodEnd time.Time) {
	periodEnd = payDate
	switch freq {
	case domain.Weekly:
		periodStart = payDate.AddDate(0, 0, -6)
	case domain.BiWeekly:
		periodStart = payDate.AddDate(0, 0, -13)
	case domain.SemiMonthly:
		periodStart = payDate.AddDate(0, 0, -14)
	case domain.Monthly:
		periodStart = payDate.AddDate(0, -1, 1)
	default:
		periodStart = payDate
	}
	return periodStart, periodEnd
}
