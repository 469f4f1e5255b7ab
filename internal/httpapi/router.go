// Package httpapi exposes the Run Lifecycle over HTTP using chi for routing
// and go-chi/cors for cross-origin access, the same stack the rest of the
// pack's services use for their own REST surfaces.
package httpapi

import (
	"net/http"
	"time"

	"github.com/cra-payroll/payroll-engine/internal/payroll"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter builds the full HTTP surface over a Lifecycle.
func NewRouter(lifecycle *payroll.Lifecycle, allowedOrigins []string) http.Handler {
	h := &handlers{lifecycle: lifecycle}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1/pay-groups/{payGroupID}/runs", func(r chi.Router) {
		r.Post("/", h.createOrGetRun)
		r.Get("/", h.listRuns)

		r.Route("/{runID}", func(r chi.Router) {
			r.Get("/", h.getRun)
			r.Post("/sync-employees", h.syncEmployees)
			r.Post("/employees/{employeeID}", h.addEmployee)
			r.Delete("/employees/{employeeID}", h.removeEmployee)
			r.Put("/employees/{employeeID}", h.updateRecord)
			r.Post("/recalculate", h.recalculate)
			r.Post("/finalize", h.finalize)
			r.Post("/approve", h.approve)
			r.Post("/mark-paid", h.markPaid)
			r.Post("/cancel", h.cancel)
			r.Get("/records", h.getRecords)
		})
	})

	return r
}
