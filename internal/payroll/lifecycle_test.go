package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/cra-payroll/payroll-engine/internal/engine"
	"github.com/cra-payroll/payroll-engine/internal/params"
	"github.com/cra-payroll/payroll-engine/internal/store/memstore"
	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "../../config/tax_tables"

func newTestLifecycle(t *testing.T) (*Lifecycle, *memstore.Store) {
	t.Helper()
	store := params.NewYAMLStore()
	require.NoError(t, store.Load(fixtureDir))

	ms := memstore.New()
	eng := engine.New(store, nil)
	return New(ms, ms, ms, eng), ms
}

func seedPayGroup(ms *memstore.Store, payGroupID uuid.UUID, freq domain.PayPeriodFrequency) {
	ms.SeedPayGroup(domain.PayGroup{
		ID:                  payGroupID,
		Name:                "test pay group",
		Frequency:           freq,
		DefaultJurisdiction: domain.ON,
	})
}

func seedEmployee(ms *memstore.Store, payGroupID uuid.UUID) domain.Employee {
	emp := domain.Employee{
		ID:           uuid.New(),
		PayGroupID:   payGroupID,
		Jurisdiction: domain.ON,
		Frequency:    domain.BiWeekly,
		Basis:        domain.CompensationSalary,
		AnnualSalary: money.New(52000.00),
		HireDate:     time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	ms.SeedEmployee(emp)
	return emp
}

func TestLifecycleCreateSyncRecalculateFinalizeApprovePaid(t *testing.T) {
	lc, ms := newTestLifecycle(t)
	ctx := context.Background()

	payGroupID := uuid.New()
	seedPayGroup(ms, payGroupID, domain.BiWeekly)
	emp := seedEmployee(ms, payGroupID)
	payDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	run, err := lc.CreateOrGetRun(ctx, payGroupID, payDate)
	require.NoError(t, err)
	require.Equal(t, domain.RunDraft, run.Status)
	require.True(t, run.PeriodEnd.Equal(payDate))
	require.False(t, run.PeriodStart.After(run.PeriodEnd))

	require.NoError(t, lc.SyncEmployees(ctx, run.ID))

	records, err := ms.GetRecordsForRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, emp.ID, records[0].EmployeeID)
	require.Nil(t, records[0].Result)

	require.NoError(t, lc.Recalculate(ctx, run.ID))

	records, err = ms.GetRecordsForRun(ctx, run.ID)
	require.NoError(t, err)
	require.NotNil(t, records[0].Result)

	run, err = ms.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.True(t, run.TotalGross.Equal(records[0].Result.GrossPay))
	require.True(t, run.TotalNetPay.Equal(records[0].Result.NetPay))

	require.NoError(t, lc.Finalize(ctx, run.ID))
	run, err = ms.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RunPendingApproval, run.Status)

	require.NoError(t, lc.Approve(ctx, run.ID))
	run, err = ms.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RunApproved, run.Status)
	require.NotNil(t, run.ApprovedAt)

	// At-most-once: re-approving an already-approved run is a no-op, not an error.
	require.NoError(t, lc.Approve(ctx, run.ID))
	again, err := ms.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RunApproved, again.Status)
	require.Equal(t, run.Version, again.Version)

	require.NoError(t, lc.MarkPaid(ctx, run.ID))
	run, err = ms.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RunPaid, run.Status)
}

func TestLifecycleCreateOrGetRunReturnsExistingDraft(t *testing.T) {
	lc, ms := newTestLifecycle(t)
	ctx := context.Background()
	payGroupID := uuid.New()
	seedPayGroup(ms, payGroupID, domain.BiWeekly)
	payDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	first, err := lc.CreateOrGetRun(ctx, payGroupID, payDate)
	require.NoError(t, err)
	second, err := lc.CreateOrGetRun(ctx, payGroupID, payDate)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestLifecycleFinalizeFailsWithoutRecalculate(t *testing.T) {
	lc, ms := newTestLifecycle(t)
	ctx := context.Background()
	payGroupID := uuid.New()
	seedPayGroup(ms, payGroupID, domain.BiWeekly)
	seedEmployee(ms, payGroupID)
	payDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	run, err := lc.CreateOrGetRun(ctx, payGroupID, payDate)
	require.NoError(t, err)
	require.NoError(t, lc.SyncEmployees(ctx, run.ID))

	err = lc.Finalize(ctx, run.ID)
	require.Error(t, err)
	var payrollErr *Error
	require.ErrorAs(t, err, &payrollErr)
	require.Equal(t, CodeInvalidState, payrollErr.Code)
}

func TestLifecycleApproveFailsFromDraft(t *testing.T) {
	lc, ms := newTestLifecycle(t)
	ctx := context.Background()
	payGroupID := uuid.New()
	seedPayGroup(ms, payGroupID, domain.BiWeekly)
	payDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	run, err := lc.CreateOrGetRun(ctx, payGroupID, payDate)
	require.NoError(t, err)

	err = lc.Approve(ctx, run.ID)
	require.Error(t, err)
	var payrollErr *Error
	require.ErrorAs(t, err, &payrollErr)
	require.Equal(t, CodeInvalidState, payrollErr.Code)
}

func TestLifecycleUpdateRecordRejectedAfterApproval(t *testing.T) {
	lc, ms := newTestLifecycle(t)
	ctx := context.Background()
	payGroupID := uuid.New()
	seedPayGroup(ms, payGroupID, domain.BiWeekly)
	emp := seedEmployee(ms, payGroupID)
	payDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	run, err := lc.CreateOrGetRun(ctx, payGroupID, payDate)
	require.NoError(t, err)
	require.NoError(t, lc.SyncEmployees(ctx, run.ID))
	require.NoError(t, lc.Recalculate(ctx, run.ID))
	require.NoError(t, lc.Finalize(ctx, run.ID))
	require.NoError(t, lc.Approve(ctx, run.ID))

	err = lc.UpdateRecord(ctx, run.ID, emp.ID, RecordPatch{GrossPay: money.New(3000.00)})
	require.Error(t, err)
	var payrollErr *Error
	require.ErrorAs(t, err, &payrollErr)
	require.Equal(t, CodeInvalidState, payrollErr.Code)
}

func TestLifecycleCancelFromDraft(t *testing.T) {
	lc, ms := newTestLifecycle(t)
	ctx := context.Background()
	payGroupID := uuid.New()
	seedPayGroup(ms, payGroupID, domain.BiWeekly)
	payDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	run, err := lc.CreateOrGetRun(ctx, payGroupID, payDate)
	require.NoError(t, err)
	require.NoError(t, lc.Cancel(ctx, run.ID))
}

func TestLifecycleCancelFailsFromApproved(t *testing.T) {
	lc, ms := newTestLifecycle(t)
	ctx := context.Background()
	payGroupID := uuid.New()
	seedPayGroup(ms, payGroupID, domain.BiWeekly)
	seedEmployee(ms, payGroupID)
	payDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	run, err := lc.CreateOrGetRun(ctx, payGroupID, payDate)
	require.NoError(t, err)
	require.NoError(t, lc.SyncEmployees(ctx, run.ID))
	require.NoError(t, lc.Recalculate(ctx, run.ID))
	require.NoError(t, lc.Finalize(ctx, run.ID))
	require.NoError(t, lc.Approve(ctx, run.ID))

	err = lc.Cancel(ctx, run.ID)
	require.Error(t, err)
}

func TestLifecycleAddAndRemoveEmployee(t *testing.T) {
	lc, ms := newTestLifecycle(t)
	ctx := context.Background()
	payGroupID := uuid.New()
	seedPayGroup(ms, payGroupID, domain.Monthly)
	payDate := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	run, err := lc.CreateOrGetRun(ctx, payGroupID, payDate)
	require.NoError(t, err)

	emp := domain.Employee{
		ID:           uuid.New(),
		PayGroupID:   payGroupID,
		Jurisdiction: domain.BC,
		Frequency:    domain.Monthly,
		Basis:        domain.CompensationSalary,
		AnnualSalary: money.New(60000.00),
		HireDate:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	ms.SeedEmployee(emp)

	require.NoError(t, lc.AddEmployee(ctx, run.ID, emp.ID))
	records, err := ms.GetRecordsForRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)

	require.NoError(t, lc.RemoveEmployee(ctx, run.ID, emp.ID))
	records, err = ms.GetRecordsForRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, records, 0)
}
