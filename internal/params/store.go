// Package params implements the versioned parameter store: immutable,
// year/edition-scoped CRA statutory tables loaded from YAML once at startup
// and read-only thereafter.
package params

import "github.com/cra-payroll/payroll-engine/internal/domain"

// Store is the contract the engine and run lifecycle depend on. All methods
// are safe for concurrent use once Load has returned; there is no locking on
// the read path because parameter data is immutable after load.
type Store interface {
	// Load parses and validates every tax table under configDir, once.
	Load(configDir string) error

	GetFederal(key domain.EditionKey) (domain.FederalParams, error)
	GetCPP(year int) (domain.CPPParams, error)
	GetEI(year int) (domain.EIParams, error)
	GetJurisdiction(key domain.EditionKey) (domain.JurisdictionParams, error)
}
