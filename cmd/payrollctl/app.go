package main

import (
	"context"
	"fmt"

	"github.com/cra-payroll/payroll-engine/internal/config"
	"github.com/cra-payroll/payroll-engine/internal/engine"
	"github.com/cra-payroll/payroll-engine/internal/params"
	"github.com/cra-payroll/payroll-engine/internal/payroll"
	"github.com/cra-payroll/payroll-engine/internal/store"
	"github.com/cra-payroll/payroll-engine/internal/store/memstore"
	"github.com/cra-payroll/payroll-engine/internal/store/postgres"
)

// app bundles the process-wide dependencies a CLI subcommand needs. It is
// assembled fresh per invocation; payrollctl is not a long-lived daemon
// except under "serve".
type app struct {
	Config    config.Config
	Params    params.Store
	Lifecycle *payroll.Lifecycle
}

func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := config.NewLogger(cfg)

	paramStore := params.NewYAMLStore()
	if err := paramStore.Load(cfg.TaxTableDir); err != nil {
		return nil, fmt.Errorf("loading tax tables: %w", err)
	}

	var runs store.RunStore
	var employees store.EmployeeDirectory
	var payGroups store.PayGroupRepository

	switch cfg.Store {
	case config.BackendPostgres:
		if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		pool, err := postgres.NewPool(context.Background(), cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		repo := postgres.New(pool)
		runs, employees, payGroups = repo, repo, repo
	default:
		mem := memstore.New()
		runs, employees, payGroups = mem, mem, mem
	}

	eng := engine.New(paramStore, logger)
	lifecycle := payroll.New(runs, employees, payGroups, eng)

	return &app{Config: cfg, Params: paramStore, Lifecycle: lifecycle}, nil
}
