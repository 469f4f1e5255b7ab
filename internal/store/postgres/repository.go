package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func parseMoney(s string) (money.Money, error) {
	return money.NewFromString(s)
}

// Repository implements internal/store's RunStore, EmployeeDirectory, and
// PayGroupRepository against PostgreSQL. Per-record inputs are numeric
// columns; the result and employee snapshot are stored as jsonb so the schema
// stays stable as domain.CalculationResult grows new line items.
type Repository struct {
	pool *pgxpool.Pool
}

// New constructs a Repository backed by pool.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) CreateRun(ctx context.Context, run domain.PayrollRun) (domain.PayrollRun, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO payroll_runs (
			id, pay_group_id, period_start, period_end, pay_date, year, edition, status, version,
			total_gross, total_deductions, total_net_pay, approved_at, approved_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, run.ID, run.PayGroupID, run.PeriodStart, run.PeriodEnd, run.PayDate, run.Year, string(run.Edition), string(run.Status), run.Version,
		run.TotalGross.StringFixed(2), run.TotalDeductions.StringFixed(2), run.TotalNetPay.StringFixed(2),
		run.ApprovedAt, run.ApprovedBy, run.CreatedAt, run.UpdatedAt)
	if err != nil {
		return domain.PayrollRun{}, fmt.Errorf("inserting payroll run: %w", err)
	}
	return run, nil
}

func (r *Repository) GetRun(ctx context.Context, runID uuid.UUID) (domain.PayrollRun, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, pay_group_id, period_start, period_end, pay_date, year, edition, status, version,
			total_gross, total_deductions, total_net_pay, approved_at, approved_by, created_at, updated_at
		FROM payroll_runs WHERE id = $1
	`, runID)
	return scanRun(row)
}

func (r *Repository) ListRuns(ctx context.Context, payGroupID uuid.UUID) ([]domain.PayrollRun, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, pay_group_id, period_start, period_end, pay_date, year, edition, status, version,
			total_gross, total_deductions, total_net_pay, approved_at, approved_by, created_at, updated_at
		FROM payroll_runs WHERE pay_group_id = $1 ORDER BY pay_date
	`, payGroupID)
	if err != nil {
		return nil, fmt.Errorf("listing payroll runs: %w", err)
	}
	defer rows.Close()

	var out []domain.PayrollRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateRun(ctx context.Context, run domain.PayrollRun) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payroll_runs SET status = $1, version = $2, updated_at = $3,
			total_gross = $4, total_deductions = $5, total_net_pay = $6,
			approved_at = $7, approved_by = $8
		WHERE id = $9
	`, string(run.Status), run.Version, run.UpdatedAt,
		run.TotalGross.StringFixed(2), run.TotalDeductions.StringFixed(2), run.TotalNetPay.StringFixed(2),
		run.ApprovedAt, run.ApprovedBy, run.ID)
	if err != nil {
		return fmt.Errorf("updating payroll run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("payroll run %s not found", run.ID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (domain.PayrollRun, error) {
	var run domain.PayrollRun
	var edition, status string
	var totalGross, totalDeductions, totalNetPay string
	if err := row.Scan(
		&run.ID, &run.PayGroupID, &run.PeriodStart, &run.PeriodEnd, &run.PayDate, &run.Year, &edition, &status, &run.Version,
		&totalGross, &totalDeductions, &totalNetPay, &run.ApprovedAt, &run.ApprovedBy, &run.CreatedAt, &run.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return domain.PayrollRun{}, fmt.Errorf("payroll run not found: %w", err)
		}
		return domain.PayrollRun{}, fmt.Errorf("scanning payroll run: %w", err)
	}
	run.Edition = domain.Edition(edition)
	run.Status = domain.PayrollRunStatus(status)
	var err error
	if run.TotalGross, err = parseMoney(totalGross); err != nil {
		return domain.PayrollRun{}, fmt.Errorf("parsing total gross: %w", err)
	}
	if run.TotalDeductions, err = parseMoney(totalDeductions); err != nil {
		return domain.PayrollRun{}, fmt.Errorf("parsing total deductions: %w", err)
	}
	if run.TotalNetPay, err = parseMoney(totalNetPay); err != nil {
		return domain.PayrollRun{}, fmt.Errorf("parsing total net pay: %w", err)
	}
	return run, nil
}

func (r *Repository) GetRecordsForRun(ctx context.Context, runID uuid.UUID) ([]domain.PayrollRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, run_id, employee_id, gross_pay, vacation_payout, pre_tax_deductions, post_tax_deductions,
		       employee_snapshot, result, audit
		FROM payroll_records WHERE run_id = $1 ORDER BY employee_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing payroll records: %w", err)
	}
	defer rows.Close()

	var out []domain.PayrollRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func scanRecord(row rowScanner) (domain.PayrollRecord, error) {
	var record domain.PayrollRecord
	var grossPayStr, vacationPayoutStr, preTaxStr, postTaxStr string
	var snapshotJSON, resultJSON, auditJSON []byte
	if err := row.Scan(&record.ID, &record.RunID, &record.EmployeeID, &grossPayStr, &vacationPayoutStr, &preTaxStr, &postTaxStr,
		&snapshotJSON, &resultJSON, &auditJSON); err != nil {
		return domain.PayrollRecord{}, fmt.Errorf("scanning payroll record: %w", err)
	}

	gross, err := parseMoney(grossPayStr)
	if err != nil {
		return domain.PayrollRecord{}, fmt.Errorf("parsing gross_pay: %w", err)
	}
	record.GrossPay = gross

	vacationPayout, err := parseMoney(vacationPayoutStr)
	if err != nil {
		return domain.PayrollRecord{}, fmt.Errorf("parsing vacation_payout: %w", err)
	}
	record.VacationPayout = vacationPayout

	preTax, err := parseMoney(preTaxStr)
	if err != nil {
		return domain.PayrollRecord{}, fmt.Errorf("parsing pre_tax_deductions: %w", err)
	}
	record.PreTaxDeductions = preTax

	postTax, err := parseMoney(postTaxStr)
	if err != nil {
		return domain.PayrollRecord{}, fmt.Errorf("parsing post_tax_deductions: %w", err)
	}
	record.PostTaxDeductions = postTax

	if err := json.Unmarshal(snapshotJSON, &record.EmployeeSnapshot); err != nil {
		return domain.PayrollRecord{}, fmt.Errorf("unmarshaling employee_snapshot: %w", err)
	}
	if len(resultJSON) > 0 {
		var result domain.CalculationResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return domain.PayrollRecord{}, fmt.Errorf("unmarshaling result: %w", err)
		}
		record.Result = &result
	}
	if len(auditJSON) > 0 {
		if err := json.Unmarshal(auditJSON, &record.Audit); err != nil {
			return domain.PayrollRecord{}, fmt.Errorf("unmarshaling audit: %w", err)
		}
	}
	return record, nil
}

func (r *Repository) UpsertRecord(ctx context.Context, record domain.PayrollRecord) error {
	snapshotJSON, err := json.Marshal(record.EmployeeSnapshot)
	if err != nil {
		return fmt.Errorf("marshaling employee_snapshot: %w", err)
	}
	var resultJSON []byte
	if record.Result != nil {
		resultJSON, err = json.Marshal(record.Result)
		if err != nil {
			return fmt.Errorf("marshaling result: %w", err)
		}
	}
	auditJSON, err := json.Marshal(record.Audit)
	if err != nil {
		return fmt.Errorf("marshaling audit: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO payroll_records (id, run_id, employee_id, gross_pay, vacation_payout, pre_tax_deductions,
		                              post_tax_deductions, employee_snapshot, result, audit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (run_id, employee_id) DO UPDATE
		SET gross_pay = EXCLUDED.gross_pay,
		    vacation_payout = EXCLUDED.vacation_payout,
		    pre_tax_deductions = EXCLUDED.pre_tax_deductions,
		    post_tax_deductions = EXCLUDED.post_tax_deductions,
		    employee_snapshot = EXCLUDED.employee_snapshot,
		    result = EXCLUDED.result,
		    audit = EXCLUDED.audit
	`, record.ID, record.RunID, record.EmployeeID, record.GrossPay.String(), record.VacationPayout.String(),
		record.PreTaxDeductions.String(), record.PostTaxDeductions.String(), snapshotJSON, nullable(resultJSON), auditJSON)
	if err != nil {
		return fmt.Errorf("upserting payroll record: %w", err)
	}
	return nil
}

func (r *Repository) DeleteRecord(ctx context.Context, runID, employeeID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM payroll_records WHERE run_id = $1 AND employee_id = $2`, runID, employeeID)
	if err != nil {
		return fmt.Errorf("deleting payroll record: %w", err)
	}
	return nil
}

// GetPriorYTD returns the YTDAfter of the employee's most recent
// approved-or-paid record in the given year with a pay date strictly before
// beforePayDate.
func (r *Repository) GetPriorYTD(ctx context.Context, employeeID uuid.UUID, year int, beforePayDate time.Time) (domain.YTDAccumulator, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT pr.result
		FROM payroll_records pr
		JOIN payroll_runs run ON run.id = pr.run_id
		WHERE pr.employee_id = $1
		  AND run.year = $2
		  AND run.pay_date < $3
		  AND run.status IN ('approved', 'paid')
		  AND pr.result IS NOT NULL
		ORDER BY run.pay_date DESC
		LIMIT 1
	`, employeeID, year, beforePayDate)

	var resultJSON []byte
	if err := row.Scan(&resultJSON); err != nil {
		if err == pgx.ErrNoRows {
			return domain.YTDAccumulator{Year: year}, nil
		}
		return domain.YTDAccumulator{}, fmt.Errorf("querying prior ytd: %w", err)
	}

	var result domain.CalculationResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return domain.YTDAccumulator{}, fmt.Errorf("unmarshaling prior result: %w", err)
	}
	return result.YTDAfter, nil
}

func (r *Repository) GetEmployee(ctx context.Context, employeeID uuid.UUID) (domain.Employee, error) {
	row := r.pool.QueryRow(ctx, `SELECT snapshot FROM employees WHERE id = $1`, employeeID)
	var snapshotJSON []byte
	if err := row.Scan(&snapshotJSON); err != nil {
		if err == pgx.ErrNoRows {
			return domain.Employee{}, fmt.Errorf("employee %s not found", employeeID)
		}
		return domain.Employee{}, fmt.Errorf("querying employee: %w", err)
	}
	var emp domain.Employee
	if err := json.Unmarshal(snapshotJSON, &emp); err != nil {
		return domain.Employee{}, fmt.Errorf("unmarshaling employee: %w", err)
	}
	return emp, nil
}

func (r *Repository) ListActiveEmployees(ctx context.Context, payGroupID uuid.UUID, asOf time.Time) ([]domain.Employee, error) {
	rows, err := r.pool.Query(ctx, `SELECT snapshot FROM employees WHERE pay_group_id = $1`, payGroupID)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		var snapshotJSON []byte
		if err := rows.Scan(&snapshotJSON); err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		var emp domain.Employee
		if err := json.Unmarshal(snapshotJSON, &emp); err != nil {
			return nil, fmt.Errorf("unmarshaling employee: %w", err)
		}
		if emp.Active(asOf) {
			out = append(out, emp)
		}
	}
	return out, rows.Err()
}

func (r *Repository) GetPayGroup(ctx context.Context, payGroupID uuid.UUID) (domain.PayGroup, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, frequency, default_jurisdiction, next_pay_date
		FROM pay_groups WHERE id = $1
	`, payGroupID)

	var pg domain.PayGroup
	var frequency, jurisdiction string
	if err := row.Scan(&pg.ID, &pg.Name, &frequency, &jurisdiction, &pg.NextPayDate); err != nil {
		if err == pgx.ErrNoRows {
			return domain.PayGroup{}, fmt.Errorf("pay group %s not found", payGroupID)
		}
		return domain.PayGroup{}, fmt.Errorf("querying pay group: %w", err)
	}
	pg.Frequency = domain.PayPeriodFrequency(frequency)
	pg.DefaultJurisdiction = domain.Jurisdiction(jurisdiction)
	return pg, nil
}

func nullable(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
