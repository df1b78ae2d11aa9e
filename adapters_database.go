package main

import (
	"context"

	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/oracle/oci-go-sdk/v65/database"
)

func (s *ociSource) ListDbSystems(ctx context.Context, scope Scope) ([]DbSystem, error) {
	items, err := paginate(ctx, func(page *string) ([]database.DbSystemSummary, *string, error) {
		resp, err := s.clients.DatabaseClient.ListDbSystems(ctx, database.ListDbSystemsRequest{
			CompartmentId:   &scope.Compartment.ID,
			Page:            page,
			RequestMetadata: s.meta(),
		})
		return resp.Items, resp.OpcNextPage, err
	})
	if err != nil {
		return nil, err
	}
	return mapLive(items,
		func(d database.DbSystemSummary) string { return string(d.LifecycleState) },
		func(d database.DbSystemSummary) DbSystem {
			return DbSystem{
				Base:               newBase(scope, d.Id, d.DisplayName, string(d.LifecycleState), d.TimeCreated),
				AvailabilityDomain: deref(d.AvailabilityDomain),
				Shape:              deref(d.Shape),
				SubnetID:           deref(d.SubnetId),
				BackupSubnetID:     deref(d.BackupSubnetId),
				NsgIDs:             d.NsgIds,
				CPUCoreCount:       derefInt(d.CpuCoreCount),
				DataStorageGB:      derefInt(d.DataStorageSizeInGBs),
				DatabaseEdition:    string(d.DatabaseEdition),
				Version:            deref(d.Version),
				Hostname:           deref(d.Hostname),
				Domain:             deref(d.Domain),
				NodeCount:          derefInt(d.NodeCount),
				LicenseModel:       string(d.LicenseModel),
				ScanIPIDs:          d.ScanIpIds,
				VipIDs:             d.VipIds,
			}
		}), nil
}

// ListDbNodes lists the nodes of one DB system and resolves each node's
// private address through its VNIC.
func (s *ociSource) ListDbNodes(ctx context.Context, scope Scope, dbSystemID string) ([]DbNode, error) {
	items, err := paginate(ctx, func(page *string) ([]database.DbNodeSummary, *string, error) {
		resp, err := s.clients.DatabaseClient.ListDbNodes(ctx, database.ListDbNodesRequest{
			CompartmentId:   &scope.Compartment.ID,
			DbSystemId:      &dbSystemID,
			Page:            page,
			RequestMetadata: s.meta(),
		})
		return resp.Items, resp.OpcNextPage, err
	})
	if err != nil {
		return nil, err
	}

	nodes := mapLive(items,
		func(n database.DbNodeSummary) string { return string(n.LifecycleState) },
		func(n database.DbNodeSummary) DbNode {
			return DbNode{
				Base:        newBase(scope, n.Id, n.Hostname, string(n.LifecycleState), n.TimeCreated),
				DbSystemID:  deref(n.DbSystemId),
				VnicID:      deref(n.VnicId),
				FaultDomain: deref(n.FaultDomain),
			}
		})

	for i := range nodes {
		if nodes[i].VnicID == "" {
			continue
		}
		vnicID := nodes[i].VnicID
		resp, err := s.clients.VirtualNetworkClient.GetVnic(ctx, core.GetVnicRequest{
			VnicId:          &vnicID,
			RequestMetadata: s.meta(),
		})
		if err != nil {
			logger.Verbose("Could not resolve vnic of db node %s: %v", nodes[i].Name, err)
			continue
		}
		nodes[i].PrivateIP = deref(resp.PrivateIp)
	}
	return nodes, nil
}

func (s *ociSource) ListDbHomes(ctx context.Context, scope Scope) ([]DbHome, error) {
	items, err := paginate(ctx, func(page *string) ([]database.DbHomeSummary, *string, error) {
		resp, err := s.clients.DatabaseClient.ListDbHomes(ctx, database.ListDbHomesRequest{
			CompartmentId:   &scope.Compartment.ID,
			Page:            page,
			RequestMetadata: s.meta(),
		})
		return resp.Items, resp.OpcNextPage, err
	})
	if err != nil {
		return nil, err
	}
	return mapLive(items,
		func(h database.DbHomeSummary) string { return string(h.LifecycleState) },
		func(h database.DbHomeSummary) DbHome {
			return DbHome{
				Base:       newBase(scope, h.Id, h.DisplayName, string(h.LifecycleState), h.TimeCreated),
				DbSystemID: deref(h.DbSystemId),
				DbVersion:  deref(h.DbVersion),
			}
		}), nil
}

func (s *ociSource) ListDatabases(ctx context.Context, scope Scope, dbHomeID string) ([]Database, error) {
	items, err := paginate(ctx, func(page *string) ([]database.DatabaseSummary, *string, error) {
		resp, err := s.clients.DatabaseClient.ListDatabases(ctx, database.ListDatabasesRequest{
			CompartmentId:   &scope.Compartment.ID,
			DbHomeId:        &dbHomeID,
			Page:            page,
			RequestMetadata: s.meta(),
		})
		return resp.Items, resp.OpcNextPage, err
	})
	if err != nil {
		return nil, err
	}
	return mapLive(items,
		func(d database.DatabaseSummary) string { return string(d.LifecycleState) },
		func(d database.DatabaseSummary) Database {
			return Database{
				Base:         newBase(scope, d.Id, d.DbName, string(d.LifecycleState), d.TimeCreated),
				DbHomeID:     deref(d.DbHomeId),
				UniqueName:   deref(d.DbUniqueName),
				PdbName:      deref(d.PdbName),
				CharacterSet: deref(d.CharacterSet),
				Workload:     deref(d.DbWorkload),
			}
		}), nil
}

func (s *ociSource) ListAutonomousDatabases(ctx context.Context, scope Scope) ([]AutonomousDatabase, error) {
	items, err := paginate(ctx, func(page *string) ([]database.AutonomousDatabaseSummary, *string, error) {
		resp, err := s.clients.DatabaseClient.ListAutonomousDatabases(ctx, database.ListAutonomousDatabasesRequest{
			CompartmentId:   &scope.Compartment.ID,
			Page:            page,
			RequestMetadata: s.meta(),
		})
		return resp.Items, resp.OpcNextPage, err
	})
	if err != nil {
		return nil, err
	}
	return mapLive(items,
		func(a database.AutonomousDatabaseSummary) string { return string(a.LifecycleState) },
		func(a database.AutonomousDatabaseSummary) AutonomousDatabase {
			return AutonomousDatabase{
				Base:              newBase(scope, a.Id, a.DisplayName, string(a.LifecycleState), a.TimeCreated),
				DbName:            deref(a.DbName),
				CPUCoreCount:      derefInt(a.CpuCoreCount),
				DataStorageTB:     derefInt(a.DataStorageSizeInTBs),
				Workload:          string(a.DbWorkload),
				Version:           deref(a.DbVersion),
				IsFreeTier:        derefBool(a.IsFreeTier),
				LicenseModel:      string(a.LicenseModel),
				SubnetID:          deref(a.SubnetId),
				NsgIDs:            a.NsgIds,
				PrivateEndpoint:   deref(a.PrivateEndpoint),
				PrivateEndpointIP: deref(a.PrivateEndpointIp),
			}
		}), nil
}
