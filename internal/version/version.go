// Package version carries the build version, set with
// -ldflags "-X github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/version.Version=1.2.3".
package version

// Version is the application version.
var Version = "dev"
