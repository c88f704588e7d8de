package model

// Snapshot is the durable state carried by a CSV export.
type Snapshot struct {
	Cash      float64    `json:"cash"`
	Holdings  []Holding  `json:"holdings"`
	Dividends []Dividend `json:"dividends"`
}

// ImportResponse reports what an import replaced, or would replace on a dry run.
type ImportResponse struct {
	DryRun        bool     `json:"dryRun"`
	Applied       bool     `json:"applied"`
	HoldingCount  int      `json:"holdingCount"`
	DividendCount int      `json:"dividendCount"`
	Snapshot      Snapshot `json:"snapshot"`
}

// BackupResult describes a snapshot written to disk. Name is the file name
// that List returns and Restore accepts.
type BackupResult struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Encrypted bool   `json:"encrypted"`
	Bytes     int    `json:"bytes"`
}
