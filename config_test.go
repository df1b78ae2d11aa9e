package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultConfig(t *testing.T) {
	config := getDefaultConfig()

	if config.Version != "1.0" {
		t.Errorf("getDefaultConfig() Version = %v, want 1.0", config.Version)
	}
	if config.General.Timeout != 3600 {
		t.Errorf("getDefaultConfig() General.Timeout = %v, want 3600", config.General.Timeout)
	}
	if config.General.LogLevel != "normal" {
		t.Errorf("getDefaultConfig() General.LogLevel = %v, want normal", config.General.LogLevel)
	}
	if config.General.OutputFormat != "text" {
		t.Errorf("getDefaultConfig() General.OutputFormat = %v, want text", config.General.OutputFormat)
	}
	if !config.General.Progress {
		t.Errorf("getDefaultConfig() General.Progress = %v, want true", config.General.Progress)
	}
	if config.Auth.Method != AuthConfigFile || config.Auth.Profile != "DEFAULT" {
		t.Errorf("getDefaultConfig() Auth = %+v, want config file with DEFAULT profile", config.Auth)
	}
	if config.Collect != allModules() {
		t.Errorf("getDefaultConfig() Collect = %+v, want every module", config.Collect)
	}
	if len(config.Filters.ExcludeCompartments) != 0 {
		t.Errorf("getDefaultConfig() Filters.ExcludeCompartments = %v, want empty slice", config.Filters.ExcludeCompartments)
	}
	if err := validateConfig(config); err != nil {
		t.Errorf("validateConfig(default) error = %v, want nil", err)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"default", func(c *AppConfig) {}, false},
		{"json format", func(c *AppConfig) { c.General.OutputFormat = "json" }, false},
		{"csv format", func(c *AppConfig) { c.General.OutputFormat = "csv" }, true},
		{"bad log level", func(c *AppConfig) { c.General.LogLevel = "trace" }, true},
		{"zero timeout", func(c *AppConfig) { c.General.Timeout = 0 }, true},
		{"negative timeout", func(c *AppConfig) { c.General.Timeout = -5 }, true},
		{"instance principal", func(c *AppConfig) { c.Auth.Method = AuthInstancePrincipal }, false},
		{"unknown auth", func(c *AppConfig) { c.Auth.Method = "password" }, true},
		{"delegation token without file", func(c *AppConfig) { c.Auth.Method = AuthDelegationToken }, true},
		{"delegation token with file", func(c *AppConfig) {
			c.Auth.Method = AuthDelegationToken
			c.Auth.DelegationTokenFile = "/etc/oci/token"
		}, false},
		{"no module", func(c *AppConfig) { c.Collect = CollectConfig{} }, true},
		{"two compartment filters", func(c *AppConfig) {
			c.Filters.Compartment = "prod"
			c.Filters.CompartmentPath = "/ acme (root) / prod"
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := getDefaultConfig()
			tt.mutate(config)
			err := validateConfig(config)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCollectConfig(t *testing.T) {
	computeOnly := CollectConfig{Compute: true}.normalized()
	assert.True(t, computeOnly.Network, "compute needs the network sections")
	assert.False(t, computeOnly.Identity)

	databaseOnly := CollectConfig{Database: true}.normalized()
	assert.True(t, databaseOnly.Network)

	identityOnly := CollectConfig{Identity: true}.normalized()
	assert.False(t, identityOnly.Network)

	assert.True(t, identityOnly.enabled(""))
	assert.True(t, identityOnly.enabled(ModuleIdentity))
	assert.False(t, identityOnly.enabled(ModuleCompute))
	assert.False(t, identityOnly.enabled(Module("bogus")))
	assert.False(t, CollectConfig{}.any())
}

// isolateConfigSearch points the search path at an empty directory
func isolateConfigSearch(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SHOWOCI_CONFIG_FILE", filepath.Join(dir, "missing.yaml"))
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadConfig_NoFile(t *testing.T) {
	isolateConfigSearch(t)

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil", err)
	}
	if !reflect.DeepEqual(config, getDefaultConfig()) {
		t.Error("LoadConfig() should return default config when no file exists")
	}
}

func TestLoadConfig_CurrentDirectoryFile(t *testing.T) {
	dir := isolateConfigSearch(t)

	content := `version: "1.0"
general:
  timeout: 600
  log_level: "debug"
  output_format: "json"
  progress: false
auth:
  method: "instance_principal"
collect:
  identity: false
  network: true
  compute: true
  database: false
filters:
  region: "ashburn"
  compartment_path: "/ acme (root) / prod"
  exclude_compartments:
    - "ocid1.compartment.oc1..sandbox"
output:
  file: "inventory.json"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "showoci.yaml"), []byte(content), 0644))

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 600, config.General.Timeout)
	assert.Equal(t, "debug", config.General.LogLevel)
	assert.Equal(t, "json", config.General.OutputFormat)
	assert.False(t, config.General.Progress)
	assert.Equal(t, AuthInstancePrincipal, config.Auth.Method)
	assert.Equal(t, "DEFAULT", config.Auth.Profile, "unset keys keep their default")
	assert.Equal(t, CollectConfig{Network: true, Compute: true}, config.Collect)
	assert.Equal(t, "ashburn", config.Filters.Region)
	assert.Equal(t, "/ acme (root) / prod", config.Filters.CompartmentPath)
	assert.Equal(t, []string{"ocid1.compartment.oc1..sandbox"}, config.Filters.ExcludeCompartments)
	assert.Equal(t, "inventory.json", config.Output.File)
}

func TestLoadConfig_ExplicitPath(t *testing.T) {
	dir := isolateConfigSearch(t)

	_, err := LoadConfig(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err, "an explicit path must exist")

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("general:\n  timeout: 42\n"), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 42, config.General.Timeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"broken yaml", "general:\n  timeout: invalid_number\n  log_level: [\n"},
		{"bad value", "general:\n  output_format: xml\n"},
		{"mixed compartment filters", "filters:\n  compartment: prod\n  compartment_id: ocid1.compartment.oc1..prod\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolateConfigSearch(t)
			path := filepath.Join(dir, "showoci.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := LoadConfig(path)
			assert.Error(t, err)
		})
	}
}

func TestGenerateDefaultConfigFile(t *testing.T) {
	dir := isolateConfigSearch(t)
	path := filepath.Join(dir, "generated.yaml")

	require.NoError(t, GenerateDefaultConfigFile(path))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	if !reflect.DeepEqual(config, getDefaultConfig()) {
		t.Errorf("generated config does not round trip: %+v", config)
	}
}

func TestMergeWithCLIArgs(t *testing.T) {
	tests := []struct {
		name   string
		cli    CLIOverrides
		verify func(t *testing.T, c *AppConfig)
	}{
		{
			name: "nothing set keeps file values",
			cli:  CLIOverrides{},
			verify: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, getDefaultConfig(), c)
			},
		},
		{
			name: "general overrides",
			cli: CLIOverrides{
				Timeout:    intPtr(60),
				LogLevel:   stringPtr("verbose"),
				Format:     stringPtr("json"),
				Progress:   boolPtr(false),
				OutputFile: stringPtr("out.json"),
			},
			verify: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, 60, c.General.Timeout)
				assert.Equal(t, "verbose", c.General.LogLevel)
				assert.Equal(t, "json", c.General.OutputFormat)
				assert.False(t, c.General.Progress)
				assert.Equal(t, "out.json", c.Output.File)
			},
		},
		{
			name: "empty strings are ignored",
			cli:  CLIOverrides{LogLevel: stringPtr(""), Format: stringPtr("")},
			verify: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, "normal", c.General.LogLevel)
				assert.Equal(t, "text", c.General.OutputFormat)
			},
		},
		{
			name: "auth overrides",
			cli: CLIOverrides{
				AuthMethod:          stringPtr(AuthDelegationToken),
				Profile:             stringPtr("PROD"),
				ConfigFile:          stringPtr("/tmp/oci.cfg"),
				DelegationTokenFile: stringPtr("/tmp/token"),
			},
			verify: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, AuthConfig{
					Method:              AuthDelegationToken,
					ConfigFile:          "/tmp/oci.cfg",
					Profile:             "PROD",
					DelegationTokenFile: "/tmp/token",
				}, c.Auth)
			},
		},
		{
			name: "module flags replace the module set",
			cli:  CLIOverrides{Modules: &CollectConfig{Compute: true}},
			verify: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, CollectConfig{Compute: true}, c.Collect)
			},
		},
		{
			name: "no module flag keeps the file modules",
			cli:  CLIOverrides{Modules: &CollectConfig{}},
			verify: func(t *testing.T, c *AppConfig) {
				assert.Equal(t, allModules(), c.Collect)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := getDefaultConfig()
			MergeWithCLIArgs(config, tt.cli)
			tt.verify(t, config)
		})
	}
}

func TestMergeWithCLIArgs_CompartmentFilterReplacesFileFilter(t *testing.T) {
	config := getDefaultConfig()
	config.Filters = ScopeFilter{
		Region:              "ashburn",
		Compartment:         "prod",
		ExcludeCompartments: []string{"ocid1.compartment.oc1..a"},
	}

	MergeWithCLIArgs(config, CLIOverrides{Filters: &ScopeFilter{CompartmentPath: "/ acme (root) / shared"}})

	assert.Equal(t, ScopeFilter{
		Region:              "ashburn",
		CompartmentPath:     "/ acme (root) / shared",
		ExcludeCompartments: []string{"ocid1.compartment.oc1..a"},
	}, config.Filters)
	assert.NoError(t, validateConfig(config))
}

func TestGetConfigPaths(t *testing.T) {
	t.Setenv("SHOWOCI_CONFIG_FILE", "/opt/showoci/config.yaml")

	paths := getConfigPaths()

	require.GreaterOrEqual(t, len(paths), 3)
	assert.Equal(t, "/opt/showoci/config.yaml", paths[0])
	assert.Contains(t, paths, "./showoci.yaml")
	assert.Equal(t, "/etc/showoci.yaml", paths[len(paths)-1])
}

func intPtr(i int) *int          { return &i }
func stringPtr(s string) *string { return &s }
func boolPtr(b bool) *bool       { return &b }
