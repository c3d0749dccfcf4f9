// Config loading for the supplify CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix     = "SUPPLIFY"
	envConfigDir  = "SUPPLIFY_CONFIG_DIR"
	defaultSubdir = ".supplify"

	// Config keys.
	cfgKeyBackend         = "backend"
	cfgKeySpreadsheetID   = "spreadsheet_id"
	cfgKeyCredentialsFile = "credentials_file"
	cfgKeyListenAddr      = "listen_addr"
	cfgKeyAgentAPIKey     = "agent_api_key"

	defaultBackend    = "memory"
	defaultListenAddr = ":8080"
	defaultAgentKey   = "dev-agent-key"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Supplify CLI configuration

# Backend selection: memory or sheets
backend: memory

# Google Sheets backend settings
# spreadsheet_id:
# credentials_file:

# HTTP server settings
listen_addr: ":8080"
# agent_api_key:
`

// resolveConfigDir returns the configuration directory:
// --config-dir flag > SUPPLIFY_CONFIG_DIR env > $(CWD)/.supplify.
func resolveConfigDir() (string, error) {
	if flagConfigDir != "" {
		return flagConfigDir, nil
	}
	if dir := os.Getenv(envConfigDir); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return filepath.Join(cwd, defaultSubdir), nil
}

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on first
// run. SUPPLIFY_* environment variables override file values. A missing
// config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyListenAddr, defaultListenAddr)
	v.SetDefault(cfgKeyAgentAPIKey, defaultAgentKey)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
