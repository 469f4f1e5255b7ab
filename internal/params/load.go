package params

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cra-payroll/payroll-engine/internal/domain"
	"gopkg.in/yaml.v3"
)

// YAMLStore loads CRA statutory tables from YAML files on disk, grounded one
// directory tree per year: config/tax_tables/<year>/{cpp_ei,federal_jan,
// federal_jul,provinces_jan,provinces_jul}.yaml.
//
// The whole directory tree is parsed and validated once, eagerly, guarded by
// a single sync.Once, then cached for the lifetime of the process. There is
// no lock on the read path: once Load has returned, the cached maps are never
// mutated again.
type YAMLStore struct {
	configDir string
	loadOnce  sync.Once
	loadErr   error

	federal      map[domain.EditionKey]domain.FederalParams
	jurisdiction map[domain.EditionKey]domain.JurisdictionParams
	cpp          map[int]domain.CPPParams
	ei           map[int]domain.EIParams
}

// NewYAMLStore constructs an empty store; call Load before use.
func NewYAMLStore() *YAMLStore {
	return &YAMLStore{
		federal:      make(map[domain.EditionKey]domain.FederalParams),
		jurisdiction: make(map[domain.EditionKey]domain.JurisdictionParams),
		cpp:          make(map[int]domain.CPPParams),
		ei:           make(map[int]domain.EIParams),
	}
}

// Load parses and validates every year directory under configDir. It is
// idempotent and safe to call more than once concurrently: only the first
// call does any work, guarded by a single sync.Once, matching the
// load-once-then-immutable contract the rest of the store depends on for
// lock-free reads.
func (s *YAMLStore) Load(configDir string) error {
	s.loadOnce.Do(func() {
		s.loadErr = s.load(configDir)
	})
	return s.loadErr
}

func (s *YAMLStore) load(configDir string) error {
	s.configDir = configDir

	entries, err := os.ReadDir(configDir)
	if err != nil {
		return fmt.Errorf("reading tax table directory %s: %w", configDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		var year int
		if _, err := fmt.Sscanf(entry.Name(), "%d", &year); err != nil {
			continue
		}
		if err := s.loadYear(filepath.Join(configDir, entry.Name()), year); err != nil {
			return err
		}
	}
	return nil
}

func (s *YAMLStore) loadYear(dir string, year int) error {
	cppEI, err := s.loadCPPEI(dir, year)
	if err != nil {
		return err
	}
	s.cpp[year] = cppEI.cpp
	s.ei[year] = cppEI.ei

	for _, edition := range []domain.Edition{domain.EditionJan, domain.EditionJul} {
		fed, err := s.loadFederal(dir, year, edition)
		if err != nil {
			return err
		}
		s.federal[fed.Key] = fed

		provParams, err := s.loadProvinces(dir, year, edition)
		if err != nil {
			return err
		}
		for _, jp := range provParams {
			s.jurisdiction[jp.Key] = jp
		}
		if err := validateJurisdictionCoverage(provParams, year, edition); err != nil {
			return err
		}
	}
	return nil
}

type cppEIParsed struct {
	cpp domain.CPPParams
	ei  domain.EIParams
}

func (s *YAMLStore) loadCPPEI(dir string, year int) (cppEIParsed, error) {
	path := filepath.Join(dir, "cpp_ei.yaml")
	var file cppEIFile
	if err := readYAML(path, &file); err != nil {
		return cppEIParsed{}, err
	}

	cpp := domain.CPPParams{
		Year:                year,
		BasicExemption:      file.CPP.BasicExemption,
		YMPE:                file.CPP.YMPE,
		YAMPE:               file.CPP.YAMPE,
		BaseRate:            file.CPP.BaseRate,
		CPP2Rate:            file.CPP.CPP2Rate,
		MaxBaseContribution: file.CPP.MaxBaseContribution,
		MaxCPP2Contribution: file.CPP.MaxCPP2Contribution,
	}
	ei := domain.EIParams{
		Year:                    year,
		MaxInsurableEarnings:    file.EI.MaxInsurableEarnings,
		EmployeeRate:            file.EI.EmployeeRate,
		EmployerMultiplier:      file.EI.EmployerMultiplier,
		MaxEmployeeContribution: file.EI.MaxEmployeeContribution,
	}

	if err := validateCPP(cpp, path); err != nil {
		return cppEIParsed{}, err
	}
	if err := validateEI(ei, path); err != nil {
		return cppEIParsed{}, err
	}

	return cppEIParsed{cpp: cpp, ei: ei}, nil
}

func (s *YAMLStore) loadFederal(dir string, year int, edition domain.Edition) (domain.FederalParams, error) {
	path := filepath.Join(dir, "federal_"+string(edition)+".yaml")
	var file federalFile
	if err := readYAML(path, &file); err != nil {
		return domain.FederalParams{}, err
	}

	key := domain.EditionKey{Year: year, Edition: edition}
	fp := domain.FederalParams{
		Key:                    key,
		Brackets:               convertBrackets(file.Brackets),
		BPA:                    convertBPA(file.BPA),
		K1Rate:                 file.K1Rate,
		K2Rate:                 file.K2Rate,
		CanadaEmploymentAmount: file.CanadaEmploymentAmount,
		IndexingRate:           file.IndexingRate,
	}
	if err := validateBrackets(fp.Brackets, path); err != nil {
		return domain.FederalParams{}, err
	}
	if len(fp.Brackets) != 5 {
		return domain.FederalParams{}, &ParameterInvalid{Key: path, Reason: fmt.Sprintf("federal schedule must have exactly 5 brackets, got %d", len(fp.Brackets))}
	}
	if !fp.CanadaEmploymentAmount.IsPositive() {
		return domain.FederalParams{}, &ParameterInvalid{Key: path, Reason: "canada_employment_amount must be positive"}
	}
	return fp, nil
}

func (s *YAMLStore) loadProvinces(dir string, year int, edition domain.Edition) (map[domain.Jurisdiction]domain.JurisdictionParams, error) {
	path := filepath.Join(dir, "provinces_"+string(edition)+".yaml")
	var file provincesFile
	if err := readYAML(path, &file); err != nil {
		return nil, err
	}

	out := make(map[domain.Jurisdiction]domain.JurisdictionParams, len(file.Jurisdictions))
	for code, jf := range file.Jurisdictions {
		jurisdiction, err := domain.ParseJurisdiction(code)
		if err != nil {
			return nil, &ParameterInvalid{Key: path, Reason: err.Error()}
		}
		key := domain.EditionKey{Year: year, Edition: edition, Jurisdiction: jurisdiction}
		jp := domain.JurisdictionParams{
			Key:                   key,
			Brackets:              convertBrackets(jf.Brackets),
			BPA:                   convertBPA(jf.BPA),
			Capabilities:          domain.JurisdictionCapabilities(jf.Capabilities),
			TaxReductionMax:       jf.TaxReductionMax,
			TaxReductionThreshold: jf.TaxReductionThreshold,
			TaxReductionRate:      jf.TaxReductionRate,
			K5PAmount:             jf.K5PAmount,
			K5PRate:               jf.K5PRate,
		}
		for _, t := range jf.SurtaxTiers {
			jp.SurtaxTiers = append(jp.SurtaxTiers, domain.SurtaxTier{Threshold: t.Threshold, Rate: t.Rate})
		}
		for _, b := range jf.HealthPremiumBands {
			jp.HealthPremiumBands = append(jp.HealthPremiumBands, domain.HealthPremiumBand{Threshold: b.Threshold, Rate: b.Rate, Cap: b.Cap})
		}
		if err := validateBrackets(jp.Brackets, path+":"+code); err != nil {
			return nil, err
		}
		out[jurisdiction] = jp
	}
	return out, nil
}

func convertBrackets(in []taxBracketFile) []domain.TaxBracket {
	out := make([]domain.TaxBracket, len(in))
	for i, b := range in {
		out[i] = domain.TaxBracket{Threshold: b.Threshold, Rate: b.Rate}
	}
	return out
}

func convertBPA(in bpaFile) domain.BPASchedule {
	return domain.BPASchedule{
		Max:            in.Max,
		Min:            in.Min,
		LowerThreshold: in.LowerThreshold,
		UpperThreshold: in.UpperThreshold,
		Dynamic:        in.Dynamic,
	}
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// GetFederal returns the federal parameters for the given edition key.
func (s *YAMLStore) GetFederal(key domain.EditionKey) (domain.FederalParams, error) {
	fp, ok := s.federal[key]
	if !ok {
		return domain.FederalParams{}, &ParameterNotFound{Key: "federal/" + key.String()}
	}
	return fp, nil
}

// GetJurisdiction returns the provincial/territorial parameters for the
// given edition key.
func (s *YAMLStore) GetJurisdiction(key domain.EditionKey) (domain.JurisdictionParams, error) {
	jp, ok := s.jurisdiction[key]
	if !ok {
		return domain.JurisdictionParams{}, &ParameterNotFound{Key: "jurisdiction/" + key.String()}
	}
	return jp, nil
}

// GetCPP returns the CPP/CPP2 parameters for the given year.
func (s *YAMLStore) GetCPP(year int) (domain.CPPParams, error) {
	cp, ok := s.cpp[year]
	if !ok {
		return domain.CPPParams{}, &ParameterNotFound{Key: fmt.Sprintf("cpp/%d", year)}
	}
	return cp, nil
}

// GetEI returns the EI parameters for the given year.
func (s *YAMLStore) GetEI(year int) (domain.EIParams, error) {
	ep, ok := s.ei[year]
	if !ok {
		return domain.EIParams{}, &ParameterNotFound{Key: fmt.Sprintf("ei/%d", year)}
	}
	return ep, nil
}
