package model

// VersionInfo contains version and schema information for the application.
type VersionInfo struct {
	AppVersion string          `json:"app_version"`
	DbVersion  int64           `json:"db_version"`
	Features   map[string]bool `json:"features"`
}
