package types

import "errors"

// Supported backend names.
const (
	BackendSheets = "sheets"
	BackendMemory = "memory"
)

// Config holds backend selection and parameters for opening a store.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`

	// Google Sheets backend settings. CredentialsFile points at a service
	// account key JSON; CredentialsJSON may carry the key inline instead
	// (takes precedence when both are set).
	SpreadsheetID   string `json:"spreadsheet_id" yaml:"spreadsheet_id"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
	CredentialsJSON string `json:"-" yaml:"-"`

	// HTTP server settings.
	ListenAddr  string `json:"listen_addr" yaml:"listen_addr"`
	AgentAPIKey string `json:"-" yaml:"-"`
}

// Config validation errors.
var (
	ErrBackendEmpty       = errors.New("backend must not be empty")
	ErrBackendUnknown     = errors.New("unknown backend")
	ErrSpreadsheetIDEmpty = errors.New("spreadsheet_id must not be empty for the sheets backend")
	ErrCredentialsMissing = errors.New("credentials_file or inline credentials required for the sheets backend")
)

var knownBackends = map[string]bool{
	BackendSheets: true,
	BackendMemory: true,
}

// Validate checks that the Config is well-formed. Returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Backend == BackendSheets {
		if c.SpreadsheetID == "" {
			return ErrSpreadsheetIDEmpty
		}
		if c.CredentialsFile == "" && c.CredentialsJSON == "" {
			return ErrCredentialsMissing
		}
	}
	return nil
}
