package service

import (
	"database/sql"
	"fmt"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/database"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db             *sql.DB
	backupsEnabled bool
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB, backupsEnabled bool) *SystemService {
	return &SystemService{
		db:             db,
		backupsEnabled: backupsEnabled,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version, the applied schema version
// and which optional features are switched on.
func (s *SystemService) CheckVersion() (model.VersionInfo, error) {
	dbVersion, err := database.SchemaVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read schema version: %w", err)
	}

	return model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  dbVersion,
		Features: map[string]bool{
			"price_refresh":   true,
			"snapshot_import": true,
			"backups":         s.backupsEnabled,
		},
	}, nil
}
