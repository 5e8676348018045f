package repositories

import (
	"fmt"
	"time"

	"vigilo/internal/helpers"
)

const companyFile = "company.json"

// companyRecord is the persisted shape of the cached company identifier.
type companyRecord struct {
	CompanyID string `json:"company_id"`
	SavedAt   string `json:"saved_at"`
}

// CompanyStore persists the resolved company identifier across runs so the
// orchestrator does not have to ask the backend on every invocation.
type CompanyStore struct {
	stateDir string
}

// NewCompanyStore creates a store rooted at the given state directory
func NewCompanyStore(stateDir string) *CompanyStore {
	return &CompanyStore{stateDir: stateDir}
}

// Load returns the cached company id, or empty string when none is cached
func (s *CompanyStore) Load() string {
	path := helpers.StatePath(s.stateDir, companyFile)
	if !helpers.FileExists(path) {
		return ""
	}

	var record companyRecord
	if err := helpers.LoadJSON(path, &record); err != nil {
		return ""
	}

	return record.CompanyID
}

// Save caches the company id under the state directory
func (s *CompanyStore) Save(companyID string) error {
	if err := helpers.EnsureDir(s.stateDir); err != nil {
		return fmt.Errorf("failed to prepare state directory: %w", err)
	}

	record := companyRecord{
		CompanyID: companyID,
		SavedAt:   time.Now().Format(time.RFC3339),
	}

	if err := helpers.SaveJSON(record, helpers.StatePath(s.stateDir, companyFile)); err != nil {
		return fmt.Errorf("failed to save company id: %w", err)
	}

	return nil
}
