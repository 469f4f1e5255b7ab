// Package memstore implements internal/store's interfaces entirely
// in-process, for tests and for the CLI's single-process mode. It mirrors
// the shape of internal/store/postgres so the two stay interchangeable.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/google/uuid"
)

// Store is an in-memory RunStore + EmployeeDirectory + PayGroupRepository.
// All methods are guarded by a single mutex; this module is not meant for
// high-throughput production use, only for tests and the CLI's local mode.
type Store struct {
	mu sync.RWMutex

	runs      map[uuid.UUID]domain.PayrollRun
	records   map[uuid.UUID]map[uuid.UUID]domain.PayrollRecord // runID -> employeeID -> record
	employees map[uuid.UUID]domain.Employee
	payGroups map[uuid.UUID]domain.PayGroup
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		runs:      make(map[uuid.UUID]domain.PayrollRun),
		records:   make(map[uuid.UUID]map[uuid.UUID]domain.PayrollRecord),
		employees: make(map[uuid.UUID]domain.Employee),
		payGroups: make(map[uuid.UUID]domain.PayGroup),
	}
}

// SeedEmployee registers an employee for lookup by GetEmployee/ListActiveEmployees.
func (s *Store) SeedEmployee(emp domain.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[emp.ID] = emp
}

// SeedPayGroup registers a pay group for lookup by GetPayGroup.
func (s *Store) SeedPayGroup(pg domain.PayGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payGroups[pg.ID] = pg
}

func (s *Store) CreateRun(ctx context.Context, run domain.PayrollRun) (domain.PayrollRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = run
	s.records[run.ID] = make(map[uuid.UUID]domain.PayrollRecord)
	return run, nil
}

func (s *Store) GetRun(ctx context.Context, runID uuid.UUID) (domain.PayrollRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[runID]
	if !ok {
		return domain.PayrollRun{}, fmt.Errorf("run %s not found", runID)
	}
	return run, nil
}

func (s *Store) ListRuns(ctx context.Context, payGroupID uuid.UUID) ([]domain.PayrollRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.PayrollRun
	for _, run := range s.runs {
		if run.PayGroupID == payGroupID {
			out = append(out, run)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PayDate.Before(out[j].PayDate) })
	return out, nil
}

func (s *Store) UpdateRun(ctx context.Context, run domain.PayrollRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID]; !ok {
		return fmt.Errorf("run %s not found", run.ID)
	}
	s.runs[run.ID] = run
	return nil
}

func (s *Store) GetRecordsForRun(ctx context.Context, runID uuid.UUID) ([]domain.PayrollRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byEmployee, ok := s.records[runID]
	if !ok {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	out := make([]domain.PayrollRecord, 0, len(byEmployee))
	for _, r := range byEmployee {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID.String() < out[j].EmployeeID.String() })
	return out, nil
}

func (s *Store) UpsertRecord(ctx context.Context, record domain.PayrollRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byEmployee, ok := s.records[record.RunID]
	if !ok {
		byEmployee = make(map[uuid.UUID]domain.PayrollRecord)
		s.records[record.RunID] = byEmployee
	}
	byEmployee[record.EmployeeID] = record
	return nil
}

func (s *Store) DeleteRecord(ctx context.Context, runID, employeeID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byEmployee, ok := s.records[runID]
	if !ok {
		return fmt.Errorf("run %s not found", runID)
	}
	delete(byEmployee, employeeID)
	return nil
}

// GetPriorYTD finds the employee's most recent approved-or-paid record in
// the given tax year with a pay date strictly before beforePayDate and
// returns its already-cumulative YTDAfter. Draft and pending_approval
// records are excluded: only committed pay counts toward YTD, matching the
// spec's monotonicity property. With no qualifying record, a zero
// accumulator is returned (the employee's first period of the year).
func (s *Store) GetPriorYTD(ctx context.Context, employeeID uuid.UUID, year int, beforePayDate time.Time) (domain.YTDAccumulator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.CalculationResult
	for runID, run := range s.runs {
		if run.Year != year {
			continue
		}
		if run.Status != domain.RunApproved && run.Status != domain.RunPaid {
			continue
		}
		if !run.PayDate.Before(beforePayDate) {
			continue
		}
		record, ok := s.records[runID][employeeID]
		if !ok || record.Result == nil {
			continue
		}
		if latest == nil || record.Result.PayDate.After(latest.PayDate) {
			latest = record.Result
		}
	}
	if latest == nil {
		return domain.YTDAccumulator{Year: year}, nil
	}
	return latest.YTDAfter, nil
}

func (s *Store) GetEmployee(ctx context.Context, employeeID uuid.UUID) (domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	emp, ok := s.employees[employeeID]
	if !ok {
		return domain.Employee{}, fmt.Errorf("employee %s not found", employeeID)
	}
	return emp, nil
}

func (s *Store) ListActiveEmployees(ctx context.Context, payGroupID uuid.UUID, asOf time.Time) ([]domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Employee
	for _, emp := range s.employees {
		if emp.PayGroupID != payGroupID {
			continue
		}
		if !emp.Active(asOf) {
			continue
		}
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *Store) GetPayGroup(ctx context.Context, payGroupID uuid.UUID) (domain.PayGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pg, ok := s.payGroups[payGroupID]
	if !ok {
		return domain.PayGroup{}, fmt.Errorf("pay group %s not found", payGroupID)
	}
	return pg, nil
}
