// Root command for the supplify CLI.
package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/supplify/crm/pkg/types"
)

// Global flag values.
var (
	flagConfigDir string
	flagJSON      bool
)

// Set by PersistentPreRunE so all subcommands can use them.
var (
	cfg    types.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "supplify",
	Short: "Supplify is a sheet-backed CRM",
	Long: `Supplify manages companies, contacts, deals and activities on top of a
Google Sheets spreadsheet, with an in-memory backend for local work and an
agent-facing HTTP API.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		v, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		cfg = types.Config{
			Backend:         v.GetString(cfgKeyBackend),
			SpreadsheetID:   v.GetString(cfgKeySpreadsheetID),
			CredentialsFile: v.GetString(cfgKeyCredentialsFile),
			ListenAddr:      v.GetString(cfgKeyListenAddr),
			AgentAPIKey:     v.GetString(cfgKeyAgentAPIKey),
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = newLogger(flagJSON)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $(CWD)/.supplify)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "log as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(exportCmd)
}

// newLogger builds the process logger. JSON output uses the production
// encoder; otherwise the development console encoder.
func newLogger(jsonOut bool) (*zap.Logger, error) {
	if jsonOut {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
