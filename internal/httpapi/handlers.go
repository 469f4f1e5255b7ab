package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cra-payroll/payroll-engine/internal/payroll"
	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type handlers struct {
	lifecycle *payroll.Lifecycle
}

// writeError maps the payroll package's closed error taxonomy to an HTTP
// status code; anything that isn't a *payroll.Error is treated as internal.
func writeError(w http.ResponseWriter, err error) {
	var payErr *payroll.Error
	status := http.StatusInternalServerError
	if errors.As(err, &payErr) {
		switch payErr.Code {
		case payroll.CodeNotFound:
			status = http.StatusNotFound
		case payroll.CodeConflict:
			status = http.StatusConflict
		case payroll.CodeInvalidState:
			status = http.StatusUnprocessableEntity
		case payroll.CodeValidationError:
			status = http.StatusBadRequest
		case payroll.CodeInternal:
			status = http.StatusInternalServerError
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseUUID(w http.ResponseWriter, s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id: " + s})
		return uuid.UUID{}, false
	}
	return id, true
}

type createRunRequest struct {
	PayDate time.Time `json:"pay_date"`
}

func (h *handlers) createOrGetRun(w http.ResponseWriter, r *http.Request) {
	payGroupID, ok := parseUUID(w, chi.URLParam(r, "payGroupID"))
	if !ok {
		return
	}
	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	run, err := h.lifecycle.CreateOrGetRun(r.Context(), payGroupID, req.PayDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *handlers) listRuns(w http.ResponseWriter, r *http.Request) {
	payGroupID, ok := parseUUID(w, chi.URLParam(r, "payGroupID"))
	if !ok {
		return
	}
	runs, err := h.lifecycle.Runs.ListRuns(r.Context(), payGroupID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (h *handlers) getRun(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseUUID(w, chi.URLParam(r, "runID"))
	if !ok {
		return
	}
	run, err := h.lifecycle.Runs.GetRun(r.Context(), runID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (h *handlers) getRecords(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseUUID(w, chi.URLParam(r, "runID"))
	if !ok {
		return
	}
	records, err := h.lifecycle.Runs.GetRecordsForRun(r.Context(), runID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *handlers) syncEmployees(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseUUID(w, chi.URLParam(r, "runID"))
	if !ok {
		return
	}
	if err := h.lifecycle.SyncEmployees(r.Context(), runID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) addEmployee(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseUUID(w, chi.URLParam(r, "runID"))
	if !ok {
		return
	}
	employeeID, ok := parseUUID(w, chi.URLParam(r, "employeeID"))
	if !ok {
		return
	}
	if err := h.lifecycle.AddEmployee(r.Context(), runID, employeeID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) removeEmployee(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseUUID(w, chi.URLParam(r, "runID"))
	if !ok {
		return
	}
	employeeID, ok := parseUUID(w, chi.URLParam(r, "employeeID"))
	if !ok {
		return
	}
	if err := h.lifecycle.RemoveEmployee(r.Context(), runID, employeeID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateRecordRequest struct {
	GrossPay          string `json:"gross_pay"`
	VacationPayout    string `json:"vacation_payout"`
	PreTaxDeductions  string `json:"pre_tax_deductions"`
	PostTaxDeductions string `json:"post_tax_deductions"`
}

func (h *handlers) updateRecord(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseUUID(w, chi.URLParam(r, "runID"))
	if !ok {
		return
	}
	employeeID, ok := parseUUID(w, chi.URLParam(r, "employeeID"))
	if !ok {
		return
	}
	var req updateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	gross, err := money.NewFromString(req.GrossPay)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid gross_pay: " + err.Error()})
		return
	}
	vacationPayout, err := parseOptionalMoney(req.VacationPayout)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid vacation_payout: " + err.Error()})
		return
	}
	preTaxDeductions, err := parseOptionalMoney(req.PreTaxDeductions)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid pre_tax_deductions: " + err.Error()})
		return
	}
	postTaxDeductions, err := parseOptionalMoney(req.PostTaxDeductions)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid post_tax_deductions: " + err.Error()})
		return
	}
	patch := payroll.RecordPatch{
		GrossPay:          gross,
		VacationPayout:    vacationPayout,
		PreTaxDeductions:  preTaxDeductions,
		PostTaxDeductions: postTaxDeductions,
	}
	if err := h.lifecycle.UpdateRecord(r.Context(), runID, employeeID, patch); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseOptionalMoney treats an empty string as zero rather than a parse error,
// since gross_pay is the only field on this request that's always required.
func parseOptionalMoney(s string) (money.Money, error) {
	if s == "" {
		return money.Zero(), nil
	}
	return money.NewFromString(s)
}

func (h *handlers) recalculate(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseUUID(w, chi.URLParam(r, "runID"))
	if !ok {
		return
	}
	if err := h.lifecycle.Recalculate(r.Context(), runID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) finalize(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseUUID(w, chi.URLParam(r, "runID"))
	if !ok {
		return
	}
	if err := h.lifecycle.Finalize(r.Context(), runID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) approve(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseUUID(w, chi.URLParam(r, "runID"))
	if !ok {
		return
	}
	if err := h.lifecycle.Approve(r.Context(), runID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) markPaid(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseUUID(w, chi.URLParam(r, "runID"))
	if !ok {
		return
	}
	if err := h.lifecycle.MarkPaid(r.Context(), runID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) cancel(w http.ResponseWriter, r *http.Request) {
	runID, ok := parseUUID(w, chi.URLParam(r, "runID"))
	if !ok {
		return
	}
	if err := h.lifecycle.Cancel(r.Context(), runID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
