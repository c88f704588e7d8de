package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrHoldingNotFound indicates that a holding with the given ID does not exist.
	ErrHoldingNotFound = errors.New("holding not found")

	// ErrDividendNotFound indicates that a dividend record with the given ID does not exist.
	ErrDividendNotFound = errors.New("dividend not found")

	// ErrSettingNotFound indicates that a setting key has never been written.
	ErrSettingNotFound = errors.New("setting not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidID indicates that a provided ID is empty or contains unsupported characters.
	ErrInvalidID = errors.New("invalid ID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// ErrNegativeAmount indicates that an amount field has an invalid negative value.
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidTargetFraction indicates a stock target outside the open interval (0, 1).
	ErrInvalidTargetFraction = errors.New("target stock fraction must be between 0 and 1")

	ErrInvalidYear = errors.New("year parameter is invalid")
	ErrInvalidDate = errors.New("date parameter is invalid")
)

// Boundary errors are surfaced to the user as a single notification.
// The operation that produced them left the stored state untouched.
var (
	// ErrInvalidCSVFormat indicates that an imported snapshot could not be parsed.
	ErrInvalidCSVFormat = errors.New("invalid CSV format")

	// ErrQuoteServiceUnavailable indicates that every price source strategy failed.
	ErrQuoteServiceUnavailable = errors.New("could not reach quote service")

	// ErrNoCodesToQuote indicates a price refresh with no holdings to quote.
	ErrNoCodesToQuote = errors.New("no instrument codes to quote")

	// ErrBackupDisabled indicates that no backup directory is configured.
	ErrBackupDisabled = errors.New("backups are not configured")

	// ErrBackupNotFound indicates that the named backup file does not exist.
	ErrBackupNotFound = errors.New("backup not found")

	// ErrBackupDecrypt indicates that a backup could not be decrypted with the configured key.
	ErrBackupDecrypt = errors.New("failed to decrypt backup")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
var (
	ErrFailedToRetrieveHoldings  = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveHolding   = errors.New("failed to retrieve holding")
	ErrFailedToRetrieveDividends = errors.New("failed to retrieve dividends")
	ErrFailedToRetrieveDividend  = errors.New("failed to retrieve dividend")
	ErrFailedToRetrieveSettings  = errors.New("failed to retrieve settings")
	ErrFailedToGetSummary        = errors.New("failed to get portfolio summary")
	ErrFailedToAnalyzeDividends  = errors.New("failed to analyze dividends")
	ErrFailedToUpdatePrices      = errors.New("failed to update prices")
	ErrFailedToExportSnapshot    = errors.New("failed to export snapshot")
	ErrFailedToImportSnapshot    = errors.New("failed to import snapshot")
	ErrFailedToGetVersionInfo    = errors.New("failed to get version information")
	ErrFailedToCreateBackup      = errors.New("failed to create backup")
)
