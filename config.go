package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppConfig represents the YAML configuration structure
type AppConfig struct {
	Version string        `yaml:"version"`
	General GeneralConfig `yaml:"general"`
	Auth    AuthConfig    `yaml:"auth"`
	Collect CollectConfig `yaml:"collect"`
	Filters ScopeFilter   `yaml:"filters"`
	Output  OutputConfig  `yaml:"output"`
}

// GeneralConfig holds general execution settings
type GeneralConfig struct {
	Timeout      int    `yaml:"timeout"`       // Timeout in seconds
	LogLevel     string `yaml:"log_level"`     // Log level: silent, normal, verbose, debug
	OutputFormat string `yaml:"output_format"` // Output format: text, json
	Progress     bool   `yaml:"progress"`      // Progress bar display
}

// AuthConfig selects how requests are signed
type AuthConfig struct {
	Method              string `yaml:"method"` // config, instance_principal, delegation_token
	ConfigFile          string `yaml:"config_file"`
	Profile             string `yaml:"profile"`
	DelegationTokenFile string `yaml:"delegation_token_file"`
}

// CollectConfig toggles the resource modules that are collected
type CollectConfig struct {
	Identity bool `yaml:"identity"`
	Network  bool `yaml:"network"`
	Compute  bool `yaml:"compute"`
	Database bool `yaml:"database"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	File string `yaml:"file"` // JSON export file path (empty = stdout)
}

// allModules enables every module
func allModules() CollectConfig {
	return CollectConfig{Identity: true, Network: true, Compute: true, Database: true}
}

// normalized turns on the network module when compute or database is on:
// their reports resolve subnets, NSGs and private IPs from network sections
func (c CollectConfig) normalized() CollectConfig {
	if c.Compute || c.Database {
		c.Network = true
	}
	return c
}

func (c CollectConfig) enabled(m Module) bool {
	switch m {
	case "":
		return true
	case ModuleIdentity:
		return c.Identity
	case ModuleNetwork:
		return c.Network
	case ModuleCompute:
		return c.Compute
	case ModuleDatabase:
		return c.Database
	default:
		return false
	}
}

func (c CollectConfig) any() bool {
	return c.Identity || c.Network || c.Compute || c.Database
}

// Default configuration values
func getDefaultConfig() *AppConfig {
	return &AppConfig{
		Version: "1.0",
		General: GeneralConfig{
			Timeout:      3600,
			LogLevel:     "normal",
			OutputFormat: "text",
			Progress:     true,
		},
		Auth: AuthConfig{
			Method:     AuthConfigFile,
			ConfigFile: "~/.oci/config",
			Profile:    "DEFAULT",
		},
		Collect: allModules(),
		Filters: ScopeFilter{
			ExcludeCompartments: []string{},
		},
		Output: OutputConfig{
			File: "",
		},
	}
}

// Configuration file search paths in priority order
func getConfigPaths() []string {
	paths := []string{}

	// 1. Environment variable
	if configFile := os.Getenv("SHOWOCI_CONFIG_FILE"); configFile != "" {
		paths = append(paths, configFile)
	}

	// 2. Current directory
	paths = append(paths, "./showoci.yaml")

	// 3. Home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".showoci.yaml"))
	}

	// 4. System directory
	paths = append(paths, "/etc/showoci.yaml")

	return paths
}

// LoadConfig loads configuration from YAML file with fallback to defaults.
// An explicit path must exist; otherwise the first file found on the search path is used.
func LoadConfig(explicitPath string) (*AppConfig, error) {
	config := getDefaultConfig()

	paths := getConfigPaths()
	if explicitPath != "" {
		paths = []string{explicitPath}
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if explicitPath != "" {
				return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
			}
			continue
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %s: %w", path, err)
		}
		logger.Debug("Loaded configuration from %s", path)
		break // Use first found configuration file
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig validates the loaded configuration
func validateConfig(config *AppConfig) error {
	validLogLevels := []string{"silent", "normal", "verbose", "debug"}
	if !stringInSlice(config.General.LogLevel, validLogLevels) {
		return fmt.Errorf("invalid log_level '%s', must be one of: %v", config.General.LogLevel, validLogLevels)
	}

	validFormats := []string{"text", "json"}
	if !stringInSlice(config.General.OutputFormat, validFormats) {
		return fmt.Errorf("invalid output_format '%s', must be one of: %v", config.General.OutputFormat, validFormats)
	}

	if config.General.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got: %d", config.General.Timeout)
	}

	validMethods := []string{AuthConfigFile, AuthInstancePrincipal, AuthDelegationToken}
	if !stringInSlice(config.Auth.Method, validMethods) {
		return fmt.Errorf("invalid auth method '%s', must be one of: %v", config.Auth.Method, validMethods)
	}
	if config.Auth.Method == AuthDelegationToken && config.Auth.DelegationTokenFile == "" {
		return errors.New("auth method delegation_token needs delegation_token_file")
	}

	if !config.Collect.any() {
		return errors.New("no module selected, enable at least one of identity, network, compute, database")
	}

	return config.Filters.Validate()
}

// SaveConfig saves the current configuration to a YAML file
func SaveConfig(config *AppConfig, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	return nil
}

// GenerateDefaultConfigFile creates a default configuration file
func GenerateDefaultConfigFile(filename string) error {
	return SaveConfig(getDefaultConfig(), filename)
}

// CLIOverrides carries the flags the user actually set. Nil means not set.
type CLIOverrides struct {
	Timeout             *int
	LogLevel            *string
	Format              *string
	Progress            *bool
	OutputFile          *string
	AuthMethod          *string
	Profile             *string
	ConfigFile          *string
	DelegationTokenFile *string
	Modules             *CollectConfig
	Filters             *ScopeFilter
}

// MergeWithCLIArgs merges configuration file settings with CLI arguments.
// CLI arguments have higher priority than the configuration file.
func MergeWithCLIArgs(config *AppConfig, cli CLIOverrides) {
	if cli.Timeout != nil {
		config.General.Timeout = *cli.Timeout
	}
	if cli.LogLevel != nil && *cli.LogLevel != "" {
		config.General.LogLevel = *cli.LogLevel
	}
	if cli.Format != nil && *cli.Format != "" {
		config.General.OutputFormat = *cli.Format
	}
	if cli.Progress != nil {
		config.General.Progress = *cli.Progress
	}
	if cli.OutputFile != nil && *cli.OutputFile != "" {
		config.Output.File = *cli.OutputFile
	}
	if cli.AuthMethod != nil && *cli.AuthMethod != "" {
		config.Auth.Method = *cli.AuthMethod
	}
	if cli.Profile != nil && *cli.Profile != "" {
		config.Auth.Profile = *cli.Profile
	}
	if cli.ConfigFile != nil && *cli.ConfigFile != "" {
		config.Auth.ConfigFile = *cli.ConfigFile
	}
	if cli.DelegationTokenFile != nil && *cli.DelegationTokenFile != "" {
		config.Auth.DelegationTokenFile = *cli.DelegationTokenFile
	}
	if cli.Modules != nil && cli.Modules.any() {
		config.Collect = *cli.Modules
	}
	if cli.Filters != nil {
		mergeFilters(&config.Filters, *cli.Filters)
	}
}

// mergeFilters lets a compartment filter given on the command line replace
// whichever compartment filter the file set
func mergeFilters(dst *ScopeFilter, src ScopeFilter) {
	if src.Region != "" {
		dst.Region = src.Region
	}
	if len(src.compartmentFilterKinds()) > 0 {
		dst.CompartmentID = src.CompartmentID
		dst.Compartment = src.Compartment
		dst.CompartmentPath = src.CompartmentPath
		dst.CompartmentPathContains = src.CompartmentPathContains
	}
	if len(src.ExcludeCompartments) > 0 {
		dst.ExcludeCompartments = src.ExcludeCompartments
	}
}
