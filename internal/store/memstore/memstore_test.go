package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func seedApprovedRun(t *testing.T, s *Store, payGroupID, employeeID uuid.UUID, payDate time.Time, ytdAfter domain.YTDAccumulator, status domain.PayrollRunStatus) {
	t.Helper()
	ctx := context.Background()
	run := domain.PayrollRun{
		ID:         uuid.New(),
		PayGroupID: payGroupID,
		PayDate:    payDate,
		Year:       payDate.Year(),
		Status:     status,
	}
	_, err := s.CreateRun(ctx, run)
	require.NoError(t, err)

	result := domain.CalculationResult{EmployeeID: employeeID, PayDate: payDate, YTDAfter: ytdAfter}
	record := domain.PayrollRecord{
		ID:         uuid.New(),
		RunID:      run.ID,
		EmployeeID: employeeID,
		Result:     &result,
	}
	require.NoError(t, s.UpsertRecord(ctx, record))
}

func TestGetPriorYTDReturnsZeroWithNoHistory(t *testing.T) {
	s := New()
	ytd, err := s.GetPriorYTD(context.Background(), uuid.New(), 2025, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 2025, ytd.Year)
	require.True(t, ytd.CPPContribution.IsZero())
}

func TestGetPriorYTDExcludesDraftAndPendingApproval(t *testing.T) {
	s := New()
	payGroupID := uuid.New()
	employeeID := uuid.New()

	seedApprovedRun(t, s, payGroupID, employeeID, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		domain.YTDAccumulator{Year: 2025, CPPContribution: money.New(500.00)}, domain.RunDraft)
	seedApprovedRun(t, s, payGroupID, employeeID, time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		domain.YTDAccumulator{Year: 2025, CPPContribution: money.New(600.00)}, domain.RunPendingApproval)

	ytd, err := s.GetPriorYTD(context.Background(), employeeID, 2025, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, ytd.CPPContribution.IsZero())
}

func TestGetPriorYTDExcludesRunsOnOrAfterCutoff(t *testing.T) {
	s := New()
	payGroupID := uuid.New()
	employeeID := uuid.New()
	cutoff := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	seedApprovedRun(t, s, payGroupID, employeeID, cutoff,
		domain.YTDAccumulator{Year: 2025, CPPContribution: money.New(500.00)}, domain.RunApproved)

	ytd, err := s.GetPriorYTD(context.Background(), employeeID, 2025, cutoff)
	require.NoError(t, err)
	require.True(t, ytd.CPPContribution.IsZero())
}

func TestGetPriorYTDReturnsMostRecentQualifyingRecord(t *testing.T) {
	s := New()
	payGroupID := uuid.New()
	employeeID := uuid.New()

	seedApprovedRun(t, s, payGroupID, employeeID, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		domain.YTDAccumulator{Year: 2025, CPPContribution: money.New(200.00)}, domain.RunPaid)
	seedApprovedRun(t, s, payGroupID, employeeID, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
		domain.YTDAccumulator{Year: 2025, CPPContribution: money.New(400.00)}, domain.RunApproved)

	ytd, err := s.GetPriorYTD(context.Background(), employeeID, 2025, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, ytd.CPPContribution.Equal(money.New(400.00)))
}

func TestListActiveEmployeesFiltersByPayGroupAndActiveDate(t *testing.T) {
	s := New()
	payGroupID := uuid.New()
	otherPayGroupID := uuid.New()
	asOf := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	active := domain.Employee{ID: uuid.New(), PayGroupID: payGroupID, HireDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	notYetHired := domain.Employee{ID: uuid.New(), PayGroupID: payGroupID, HireDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	wrongGroup := domain.Employee{ID: uuid.New(), PayGroupID: otherPayGroupID, HireDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	s.SeedEmployee(active)
	s.SeedEmployee(notYetHired)
	s.SeedEmployee(wrongGroup)

	out, err := s.ListActiveEmployees(context.Background(), payGroupID, asOf)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, active.ID, out[0].ID)
}
