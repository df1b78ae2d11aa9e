package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parsedCommand registers the flags on a fresh command and parses args
func parsedCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	saved := flags
	t.Cleanup(func() { flags = saved })

	cmd := &cobra.Command{Use: "showoci"}
	registerFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestOverridesFromFlags_OnlyChangedFlags(t *testing.T) {
	cmd := parsedCommand(t, "--timeout", "60", "--format", "json")

	cli := overridesFromFlags(cmd)

	require.NotNil(t, cli.Timeout)
	assert.Equal(t, 60, *cli.Timeout)
	require.NotNil(t, cli.Format)
	assert.Equal(t, "json", *cli.Format)
	assert.Nil(t, cli.LogLevel)
	assert.Nil(t, cli.Progress)
	assert.Nil(t, cli.AuthMethod)
	assert.Nil(t, cli.Modules, "no module flag keeps the configured modules")
}

func TestOverridesFromFlags_Modules(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want CollectConfig
	}{
		{"network and compute", []string{"-n", "-c"}, CollectConfig{Network: true, Compute: true}},
		{"all", []string{"-a"}, allModules()},
		{"all wins over single", []string{"-i", "--all"}, allModules()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := overridesFromFlags(parsedCommand(t, tt.args...))
			require.NotNil(t, cli.Modules)
			assert.Equal(t, tt.want, *cli.Modules)
		})
	}
}

func TestOverridesFromFlags_Filters(t *testing.T) {
	cmd := parsedCommand(t,
		"--region", "ashburn",
		"--compartment-path", "/ acme (root) / prod",
		"--exclude-compartments", "ocid1.compartment.oc1..a, ocid1.compartment.oc1..b",
	)

	cli := overridesFromFlags(cmd)

	require.NotNil(t, cli.Filters)
	assert.Equal(t, ScopeFilter{
		Region:              "ashburn",
		CompartmentPath:     "/ acme (root) / prod",
		ExcludeCompartments: []string{"ocid1.compartment.oc1..a", "ocid1.compartment.oc1..b"},
	}, *cli.Filters)
}

func TestOverridesFromFlags_MergeAndValidate(t *testing.T) {
	cmd := parsedCommand(t, "--compartment", "prod", "--compartment-id", "ocid1.compartment.oc1..prod")
	config := getDefaultConfig()

	MergeWithCLIArgs(config, overridesFromFlags(cmd))

	assert.Error(t, validateConfig(config), "two compartment filter kinds")
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "showoci", rootCmd.Use)
	assert.Equal(t, version, rootCmd.Version)
	for _, name := range []string{"all", "identity", "network", "compute", "database", "region", "compartment-path", "auth", "json-file", "generate-config"} {
		assert.NotNil(t, rootCmd.Flags().Lookup(name), "flag %s", name)
	}
}
