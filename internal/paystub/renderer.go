// Package paystub renders a single employee's PayrollRecord to a one-page
// PDF paystub using gofpdf. It is deliberately thin: it consumes only the
// read-only output of internal/store (GetRun, GetRecordsForRun) and has no write
// path back into the run lifecycle.
package paystub

import (
	"bytes"
	"fmt"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/jung-kurt/gofpdf"
)

// Renderer produces paystub PDFs.
type Renderer interface {
	Render(run domain.PayrollRun, record domain.PayrollRecord) ([]byte, error)
}

// GoFPDFRenderer implements Renderer with jung-kurt/gofpdf.
type GoFPDFRenderer struct {
	CompanyName string
}

// Render lays out one A4 page: a header band, employee identification, and
// a table of statutory line items plus net pay. A record with no Result yet
// (not recalculated) cannot be rendered.
func (r GoFPDFRenderer) Render(run domain.PayrollRun, record domain.PayrollRecord) ([]byte, error) {
	if record.Result == nil {
		return nil, fmt.Errorf("paystub: record for employee %s has no calculation result", record.EmployeeID)
	}
	res := record.Result

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFillColor(30, 58, 138)
	pdf.Rect(0, 0, 210, 30, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 16)
	pdf.SetXY(10, 8)
	pdf.Cell(150, 8, "PAY STATEMENT")
	pdf.SetFont("Arial", "", 9)
	pdf.SetXY(10, 18)
	pdf.Cell(150, 5, r.CompanyName)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(10, 36)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(60, 6, "Employee")
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, record.EmployeeSnapshot.ID.String())

	pdf.SetXY(10, 43)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(60, 6, "Pay Date")
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, run.PayDate.Format("2006-01-02"))

	pdf.SetXY(10, 50)
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(60, 6, "Jurisdiction")
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, string(record.EmployeeSnapshot.Jurisdiction))

	y := 62.0
	pdf.SetXY(10, y)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(70, 130, 180)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(190, 7, "EARNINGS AND DEDUCTIONS", "1", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)

	rows := []struct {
		label string
		value string
	}{
		{"Gross Pay", res.GrossPay.String()},
		{"CPP Contribution", res.CPPContribution.String()},
		{"CPP2 Contribution", res.CPP2Contribution.String()},
		{"EI Contribution", res.EIContribution.String()},
		{"Federal Tax", res.FederalTax.String()},
		{"Provincial Tax", res.ProvincialTax.String()},
		{"Pre-Tax Deductions", res.PreTaxDeductions.String()},
		{"Post-Tax Deductions", res.PostTaxDeductions.String()},
		{"Total Deductions", res.TotalDeductions.String()},
		{"Net Pay", res.NetPay.String()},
	}

	pdf.SetFont("Arial", "", 10)
	rowY := pdf.GetY() + 1
	for _, row := range rows {
		pdf.SetXY(10, rowY)
		pdf.Cell(100, 6, row.label)
		pdf.Cell(90, 6, row.value)
		rowY += 6
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering paystub pdf: %w", err)
	}
	return buf.Bytes(), nil
}
