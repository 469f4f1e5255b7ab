package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"github.com/cra-payroll/payroll-engine/internal/engine"
	"github.com/cra-payroll/payroll-engine/internal/params"
	"github.com/cra-payroll/payroll-engine/internal/payroll"
	"github.com/cra-payroll/payroll-engine/internal/store/memstore"
	"github.com/cra-payroll/payroll-engine/pkg/money"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *memstore.Store) {
	t.Helper()
	store := params.NewYAMLStore()
	require.NoError(t, store.Load("../../config/tax_tables"))

	ms := memstore.New()
	eng := engine.New(store, nil)
	lc := payroll.New(ms, ms, ms, eng)
	return NewRouter(lc, []string{"*"}), ms
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateRunAndLifecycleViaHTTP(t *testing.T) {
	router, ms := newTestRouter(t)
	payGroupID := uuid.New()
	ms.SeedPayGroup(domain.PayGroup{
		ID:                  payGroupID,
		Name:                "test pay group",
		Frequency:           domain.BiWeekly,
		DefaultJurisdiction: domain.ON,
	})

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

	body, err := json.Marshal(map[string]any{"pay_date": time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	createReq := httptest.NewRequest(http.MethodPost, "/api/v1/pay-groups/"+payGroupID.String()+"/runs/", bytes.NewReader(body))
	createRec := httptest.NewRecorder()
	router.ServeHTTP(createRec, createReq)
	require.Equal(t, http.StatusOK, createRec.Code)

	var run domain.PayrollRun
	require.NoError(t, json.NewDecoder(createRec.Body).Decode(&run))
	require.Equal(t, domain.RunDraft, run.Status)

	runPath := "/api/v1/pay-groups/" + payGroupID.String() + "/runs/" + run.ID.String()

	syncReq := httptest.NewRequest(http.MethodPost, runPath+"/sync-employees", nil)
	syncRec := httptest.NewRecorder()
	router.ServeHTTP(syncRec, syncReq)
	require.Equal(t, http.StatusNoContent, syncRec.Code)

	recalcReq := httptest.NewRequest(http.MethodPost, runPath+"/recalculate", nil)
	recalcRec := httptest.NewRecorder()
	router.ServeHTTP(recalcRec, recalcReq)
	require.Equal(t, http.StatusNoContent, recalcRec.Code)

	finalizeReq := httptest.NewRequest(http.MethodPost, runPath+"/finalize", nil)
	finalizeRec := httptest.NewRecorder()
	router.ServeHTTP(finalizeRec, finalizeReq)
	require.Equal(t, http.StatusNoContent, finalizeRec.Code)
}

func TestApproveUnknownRunReturns404(t *testing.T) {
	router, _ := newTestRouter(t)
	path := "/api/v1/pay-groups/" + uuid.New().String() + "/runs/" + uuid.New().String() + "/approve"
	req := httptest.NewRequest(http.MethodPost, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
