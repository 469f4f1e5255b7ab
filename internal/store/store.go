// Package store defines the Snapshot & Result Store contract: durable
// access to payroll runs, their per-employee records, and prior-year YTD
// totals. internal/store/memstore and internal/store/postgres provide two
// implementations of the same interfaces.
package store

import (
	"context"
	"time"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/google/uuid"
)

// RunStore persists PayrollRun and PayrollRecord state.
type RunStore interface {
	CreateRun(ctx context.Context, run domain.PayrollRun) (domain.PayrollRun, error)
	GetRun(ctx context.Context, runID uuid.UUID) (domain.PayrollRun, error)
	ListRuns(ctx context.Context, payGroupID uuid.UUID) ([]domain.PayrollRun, error)
	UpdateRun(ctx context.Context, run domain.PayrollRun) error

	GetRecordsForRun(ctx context.Context, runID uuid.UUID) ([]domain.PayrollRecord, error)
	UpsertRecord(ctx context.Context, record domain.PayrollRecord) error
	DeleteRecord(ctx context.Context, runID, employeeID uuid.UUID) error

	// GetPriorYTD returns the YTD accumulator for an employee as of (but not
	// including) the given pay date: the cumulative YTDAfter of that
	// employee's most recent approved-or-paid record in the same tax year.
	GetPriorYTD(ctx context.Context, employeeID uuid.UUID, year int, beforePayDate time.Time) (domain.YTDAccumulator, error)
}

// EmployeeDirectory is the read-only source of current employee data the
// Run Lifecycle snapshots into a PayrollRecord at insertion time.
type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, employeeID uuid.UUID) (domain.Employee, error)
	ListActiveEmployees(ctx context.Context, payGroupID uuid.UUID, asOf time.Time) ([]domain.Employee, error)
}

// PayGroupRepository resolves pay group scheduling data.
type PayGroupRepository interface {
	GetPayGroup(ctx context.Context, payGroupID uuid.UUID) (domain.PayGroup, error)
}
