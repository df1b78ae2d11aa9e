package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/common/auth"
	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/oracle/oci-go-sdk/v65/database"
	"github.com/oracle/oci-go-sdk/v65/identity"
)

// Authentication methods
const (
	AuthConfigFile        = "config"
	AuthInstancePrincipal = "instance_principal"
	AuthDelegationToken   = "delegation_token"
)

// OCIClients holds the OCI service clients used by the adapters
type OCIClients struct {
	IdentityClient       identity.IdentityClient
	VirtualNetworkClient core.VirtualNetworkClient
	ComputeClient        core.ComputeClient
	BlockStorageClient   core.BlockstorageClient
	DatabaseClient       database.DatabaseClient
}

// newConfigProvider builds the signer for the configured authentication method
func newConfigProvider(cfg AuthConfig) (common.ConfigurationProvider, error) {
	switch cfg.Method {
	case AuthConfigFile, "":
		provider := common.CustomProfileConfigProvider(expandHome(cfg.ConfigFile), cfg.Profile)
		if _, err := provider.TenancyOCID(); err != nil {
			return nil, fmt.Errorf("failed to read profile %s from %s: %w", cfg.Profile, cfg.ConfigFile, err)
		}
		return provider, nil

	case AuthInstancePrincipal:
		provider, err := auth.InstancePrincipalConfigurationProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to create instance principal config provider: %w", err)
		}
		return provider, nil

	case AuthDelegationToken:
		if cfg.DelegationTokenFile == "" {
			return nil, fmt.Errorf("delegation token authentication needs delegation_token_file")
		}
		data, err := os.ReadFile(expandHome(cfg.DelegationTokenFile))
		if err != nil {
			return nil, fmt.Errorf("failed to read delegation token: %w", err)
		}
		token := strings.TrimSpace(string(data))
		provider, err := auth.InstancePrincipalDelegationTokenConfigurationProvider(&token)
		if err != nil {
			return nil, fmt.Errorf("failed to create delegation token config provider: %w", err)
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unsupported authentication method: %s", cfg.Method)
	}
}

// initOCIClients initializes all required OCI service clients with context support
func initOCIClients(ctx context.Context, configProvider common.ConfigurationProvider) (*OCIClients, error) {
	// Check if context is already cancelled
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	clients := &OCIClients{}

	identityClient, err := identity.NewIdentityClientWithConfigurationProvider(configProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity client: %w", err)
	}
	clients.IdentityClient = identityClient

	vnClient, err := core.NewVirtualNetworkClientWithConfigurationProvider(configProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual network client: %w", err)
	}
	clients.VirtualNetworkClient = vnClient

	computeClient, err := core.NewComputeClientWithConfigurationProvider(configProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute client: %w", err)
	}
	clients.ComputeClient = computeClient

	bsClient, err := core.NewBlockstorageClientWithConfigurationProvider(configProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create block storage client: %w", err)
	}
	clients.BlockStorageClient = bsClient

	dbClient, err := database.NewDatabaseClientWithConfigurationProvider(configProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create database client: %w", err)
	}
	clients.DatabaseClient = dbClient

	// Final context check
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return clients, nil
}

// SetRegion points every client at the given region
func (c *OCIClients) SetRegion(region string) {
	c.IdentityClient.SetRegion(region)
	c.VirtualNetworkClient.SetRegion(region)
	c.ComputeClient.SetRegion(region)
	c.BlockStorageClient.SetRegion(region)
	c.DatabaseClient.SetRegion(region)
}

// expandHome resolves a leading ~ in user supplied paths
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + strings.TrimPrefix(path, "~")
}
