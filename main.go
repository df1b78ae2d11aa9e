package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/spf13/cobra"
)

// cliFlags holds the raw command line values
type cliFlags struct {
	all      bool
	identity bool
	network  bool
	compute  bool
	database bool

	region                  string
	compartmentID           string
	compartment             string
	compartmentPath         string
	compartmentPathContains string
	excludeCompartments     string

	authMethod          string
	profile             string
	ociConfigFile       string
	delegationTokenFile string

	configFile     string
	generateConfig string
	logLevel       string
	format         string
	jsonFile       string
	progress       bool
	timeout        int
}

var flags cliFlags

var rootCmd = &cobra.Command{
	Use:   "showoci",
	Short: "Read-only inventory report of an OCI tenancy",
	Long: `showoci walks every subscribed region and every active compartment of an
Oracle Cloud Infrastructure tenancy, collects identity, network, compute,
block storage and database resources, and prints a cross-referenced report
as text or exports it as JSON.

Nothing is ever modified in the tenancy.`,
	Example: `  showoci -a                                   # everything, text report
  showoci -n -c --region ashburn                # network and compute in one region
  showoci -a --compartment-path "/ acme (root) / prod" --json-file out.json
  showoci -d --auth instance_principal`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runShowOCI,
}

func init() {
	registerFlags(rootCmd)
}

func registerFlags(cmd *cobra.Command) {
	f := cmd.Flags()

	f.BoolVarP(&flags.all, "all", "a", false, "Collect every module")
	f.BoolVarP(&flags.identity, "identity", "i", false, "Collect identity: users, groups, policies")
	f.BoolVarP(&flags.network, "network", "n", false, "Collect network resources")
	f.BoolVarP(&flags.compute, "compute", "c", false, "Collect compute and block storage")
	f.BoolVarP(&flags.database, "database", "d", false, "Collect database systems and autonomous databases")

	f.StringVar(&flags.region, "region", "", "Only regions whose name contains this text")
	f.StringVar(&flags.compartmentID, "compartment-id", "", "Only the compartment with this OCID")
	f.StringVar(&flags.compartment, "compartment", "", "Only compartments whose name or OCID contains this text")
	f.StringVar(&flags.compartmentPath, "compartment-path", "", "Only the compartment with exactly this path")
	f.StringVar(&flags.compartmentPathContains, "compartment-path-contains", "", "Only compartments whose path contains this text")
	f.StringVar(&flags.excludeCompartments, "exclude-compartments", "", "Comma separated compartment OCIDs to skip")

	f.StringVar(&flags.authMethod, "auth", "", "Authentication: config, instance_principal, delegation_token")
	f.StringVar(&flags.profile, "profile", "", "Profile of the OCI config file")
	f.StringVar(&flags.ociConfigFile, "oci-config", "", "OCI config file (default ~/.oci/config)")
	f.StringVar(&flags.delegationTokenFile, "delegation-token-file", "", "File holding the delegation token")

	f.StringVar(&flags.configFile, "config-file", "", "showoci YAML configuration file")
	f.StringVar(&flags.generateConfig, "generate-config", "", "Write a default configuration file and exit")
	f.StringVar(&flags.logLevel, "log-level", "", "Log level: silent, normal, verbose, debug")
	f.StringVarP(&flags.format, "format", "f", "", "Output format: text, json")
	f.StringVar(&flags.jsonFile, "json-file", "", "Write the JSON export to this file")
	f.BoolVar(&flags.progress, "progress", true, "Show a progress bar when stderr is a terminal")
	f.IntVar(&flags.timeout, "timeout", 0, "Timeout of the whole run in seconds")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func runShowOCI(cmd *cobra.Command, args []string) error {
	if flags.generateConfig != "" {
		if err := GenerateDefaultConfigFile(flags.generateConfig); err != nil {
			return err
		}
		logger.Info("Default configuration written to %s", flags.generateConfig)
		return nil
	}

	config, err := LoadConfig(flags.configFile)
	if err != nil {
		return err
	}
	MergeWithCLIArgs(config, overridesFromFlags(cmd))
	if err := validateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := ParseLogLevel(config.General.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(config.General.Timeout)*time.Second)
	defer cancel()

	provider, err := newConfigProvider(config.Auth)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	tenancyID, err := provider.TenancyOCID()
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	clients, err := initOCIClients(ctx, provider)
	if err != nil {
		return err
	}

	showProgress := config.General.Progress && progressAllowed() && level < LogLevelVerbose
	state := NewRun(nil)
	collector := NewCollector(newOCISource(clients, tenancyID), state, config.Collect, showProgress)

	logger.Info("Run %s started", state.ID)
	defer logSummary(state)

	var (
		report *Report
		result RunResult
	)

	var g run.Group
	{
		runCtx, stop := context.WithCancel(ctx)
		g.Add(func() error {
			var err error
			report, result, err = collector.Run(runCtx, config.Filters)
			return err
		}, func(error) {
			stop()
		})
	}
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	if err := g.Run(); err != nil {
		return err
	}

	logger.Info("Collected %d regions, %d compartments in %s",
		len(result.Regions), len(result.Compartments), result.Duration.Round(time.Second))

	report.Header.Cmdline = strings.Join(os.Args, " ")
	return outputReport(report, config.General.OutputFormat, config.Output.File)
}

// overridesFromFlags returns only the flags the user set
func overridesFromFlags(cmd *cobra.Command) CLIOverrides {
	changed := cmd.Flags().Changed
	var cli CLIOverrides

	if changed("timeout") {
		cli.Timeout = &flags.timeout
	}
	if changed("log-level") {
		cli.LogLevel = &flags.logLevel
	}
	if changed("format") {
		cli.Format = &flags.format
	}
	if changed("progress") {
		cli.Progress = &flags.progress
	}
	if changed("json-file") {
		cli.OutputFile = &flags.jsonFile
	}
	if changed("auth") {
		cli.AuthMethod = &flags.authMethod
	}
	if changed("profile") {
		cli.Profile = &flags.profile
	}
	if changed("oci-config") {
		cli.ConfigFile = &flags.ociConfigFile
	}
	if changed("delegation-token-file") {
		cli.DelegationTokenFile = &flags.delegationTokenFile
	}

	modules := CollectConfig{
		Identity: flags.identity,
		Network:  flags.network,
		Compute:  flags.compute,
		Database: flags.database,
	}
	if flags.all {
		modules = allModules()
	}
	if modules.any() {
		cli.Modules = &modules
	}

	cli.Filters = &ScopeFilter{
		Region:                  flags.region,
		CompartmentID:           flags.compartmentID,
		Compartment:             flags.compartment,
		CompartmentPath:         flags.compartmentPath,
		CompartmentPathContains: flags.compartmentPathContains,
		ExcludeCompartments:     ParseCompartmentList(flags.excludeCompartments),
	}
	return cli
}

// logSummary prints the run counters, whatever the outcome
func logSummary(state *Run) {
	counts := state.Counts()
	logger.Info("Summary: %d service errors, %d service warnings, %d processing errors",
		counts.ServiceErrors, counts.ServiceWarnings, counts.ProcessingErrors)
}
