package types

import (
	"errors"
	"testing"
)

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		want error
	}{
		{"empty backend", Config{}, ErrBackendEmpty},
		{"unknown backend", Config{Backend: "postgres"}, ErrBackendUnknown},
		{"memory ok", Config{Backend: BackendMemory}, nil},
		{"sheets missing id", Config{Backend: BackendSheets}, ErrSpreadsheetIDEmpty},
		{"sheets missing credentials", Config{Backend: BackendSheets, SpreadsheetID: "abc"}, ErrCredentialsMissing},
		{"sheets with file", Config{Backend: BackendSheets, SpreadsheetID: "abc", CredentialsFile: "key.json"}, nil},
		{"sheets with inline", Config{Backend: BackendSheets, SpreadsheetID: "abc", CredentialsJSON: "{}"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if !errors.Is(err, tc.want) {
				t.Errorf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}
