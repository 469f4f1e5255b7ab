package paystub

import (
	"context"
	"fmt"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/cra-payroll/payroll-engine/internal/store"
	"github.com/google/uuid"
)

// RunStubs renders one PDF per employee record in a run. It reads the run
// and its records through store.RunStore and never mutates either; callers
// typically invoke it only once a run has reached RunApproved or RunPaid.
type RunStubs struct {
	Runs     store.RunStore
	Renderer Renderer
}

// StubFile pairs a rendered PDF with the employee it belongs to, so callers
// can name output files without re-deriving the employee ID from the bytes.
type StubFile struct {
	Employee domain.Employee
	PDF      []byte
}

// Generate renders every record on runID. A single record that fails to
// render (for example, one never recalculated) does not abort the batch;
// its error is returned alongside whatever stubs did succeed.
func (rs RunStubs) Generate(ctx context.Context, runID uuid.UUID) ([]StubFile, []error) {
	run, err := rs.Runs.GetRun(ctx, runID)
	if err != nil {
		return nil, []error{err}
	}
	records, err := rs.Runs.GetRecordsForRun(ctx, runID)
	if err != nil {
		return nil, []error{err}
	}

	var stubs []StubFile
	var errs []error
	for _, record := range records {
		pdf, err := rs.Renderer.Render(run, record)
		if err != nil {
			errs = append(errs, fmt.Errorf("employee %s: %w", record.EmployeeID, err))
			continue
		}
		stubs = append(stubs, StubFile{Employee: record.EmployeeSnapshot, PDF: pdf})
	}
	return stubs, errs
}
