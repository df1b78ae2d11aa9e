package main

import (
	"context"
	"fmt"
)

// stepScope says how often a step runs within a region pass
type stepScope int

const (
	perCompartment stepScope = iota // once for every selected compartment
	perRegion                       // once per region, with the root compartment as scope
)

// step is one collection action. Steps run in plan order; within a step
// compartments are visited in path order.
type step struct {
	name   string
	module Module // empty means the step always runs
	scope  stepScope
	run    func(ctx context.Context, c *Collector, scope Scope) error
}

// identityPlan runs once, in the home region
func identityPlan() []step {
	return []step{
		listStep("users", SecUser, serviceIdentity, perRegion, Source.ListUsers, nil),
		listStep("groups", SecGroup, serviceIdentity, perRegion, Source.ListGroups, nil),
		listStep("group memberships", SecGroupMembership, serviceIdentity, perRegion, Source.ListGroupMemberships, nil),
		listStep("dynamic groups", SecDynamicGroup, serviceIdentity, perRegion, Source.ListDynamicGroups, nil),
		listStep("policies", SecPolicy, serviceIdentity, perCompartment, Source.ListPolicies, nil),
	}
}

// regionPlan is the fixed order of one region pass. Later steps look up
// sections written by earlier ones, so the order is load bearing.
func regionPlan() []step {
	return []step{
		// tenancy level, feeds the boot volume attachment step
		{name: "availability domains", scope: perRegion, run: collectAvailabilityDomains},

		// network base objects
		listStep("vcns", SecVcn, serviceNetwork, perCompartment, Source.ListVcns, nil),
		listStep("subnets", SecSubnet, serviceNetwork, perCompartment, Source.ListSubnets, nil),
		listStep("network security groups", SecNsg, serviceNetwork, perCompartment, Source.ListNetworkSecurityGroups, nil),
		listStep("security lists", SecSecurityList, serviceNetwork, perCompartment, Source.ListSecurityLists, nil),
		listStep("dhcp options", SecDhcpOptions, serviceNetwork, perCompartment, Source.ListDhcpOptions, nil),

		// network objects that hang off a vcn or drg
		listStep("route tables", SecRouteTable, serviceNetwork, perCompartment, Source.ListRouteTables, nil),
		listStep("internet gateways", SecIGW, serviceNetwork, perCompartment, Source.ListInternetGateways, nil),
		listStep("nat gateways", SecNAT, serviceNetwork, perCompartment, Source.ListNatGateways, nil),
		listStep("service gateways", SecSGW, serviceNetwork, perCompartment, Source.ListServiceGateways, nil),
		listStep("local peering gateways", SecLPG, serviceNetwork, perCompartment, Source.ListLocalPeeringGateways, nil),
		listStep("drgs", SecDrg, serviceNetwork, perCompartment, Source.ListDrgs, nil),
		listStep("drg attachments", SecDrgAttachment, serviceNetwork, perCompartment, Source.ListDrgAttachments, nil),
		listStep("cpes", SecCpe, serviceNetwork, perCompartment, Source.ListCpes, nil),
		listStep("ipsec connections", SecIPSec, serviceNetwork, perCompartment, Source.ListIPSecConnections, nil),
		listStep("virtual circuits", SecVirtualCircuit, serviceNetwork, perCompartment, Source.ListVirtualCircuits, nil),

		// needs the route tables of the whole region
		{name: "routed private ips", module: ModuleNetwork, scope: perRegion, run: collectRoutedPrivateIPs},

		// compute and block storage
		listStep("instances", SecInstance, serviceCompute, perCompartment, Source.ListInstances, nil),
		listStep("vnics", SecVnic, serviceCompute, perCompartment, Source.ListVnics, enrichVnic),
		{name: "boot volume attachments", module: ModuleCompute, scope: perCompartment, run: collectBootVolumeAttachments},
		listStep("volume attachments", SecVolumeAttachment, serviceCompute, perCompartment, Source.ListVolumeAttachments, nil),
		listStep("block volumes", SecBlockVolume, serviceStorage, perCompartment, Source.ListBlockVolumes, nil),
		listStep("boot volumes", SecBootVolume, serviceStorage, perCompartment, Source.ListBootVolumes, nil),

		// database
		listStep("db systems", SecDbSystem, serviceDatabase, perCompartment, Source.ListDbSystems, enrichDbSystem),
		{name: "db private ips", module: ModuleDatabase, scope: perRegion, run: collectDbPrivateIPs},
		{name: "db nodes", module: ModuleDatabase, scope: perCompartment, run: collectDbNodes},
		listStep("db homes", SecDbHome, serviceDatabase, perCompartment, Source.ListDbHomes, nil),
		{name: "databases", module: ModuleDatabase, scope: perCompartment, run: collectDatabases},
		listStep("autonomous databases", SecAutonomousDatabase, serviceDatabase, perCompartment, Source.ListAutonomousDatabases, enrichAutonomous),
	}
}

// listStep builds the common step shape: list one resource type in a scope,
// optionally enrich each record through lookups, append to its section.
func listStep[T any](
	name string,
	key SectionKey[T],
	service string,
	scope stepScope,
	list func(Source, context.Context, Scope) ([]T, error),
	enrich func(*Run, *T),
) step {
	return step{
		name:   name,
		module: key.Module(),
		scope:  scope,
		run: func(ctx context.Context, c *Collector, sc Scope) error {
			Ensure(c.run.Store, key)

			records, err := guarded(c.breakers, sc.Region, service, func() ([]T, error) {
				return list(c.src, ctx, sc)
			})
			if err != nil {
				return c.run.tolerate(err, fmt.Sprintf("%s in %s", name, sc.Compartment.Path))
			}

			if enrich != nil {
				for i := range records {
					c.run.safely("enrich "+name, func() { enrich(c.run, &records[i]) })
				}
			}

			Append(c.run.Store, key, records...)
			logger.Debug("Found %d %s in %s", len(records), name, sc.Compartment.Path)
			return nil
		},
	}
}

func collectAvailabilityDomains(ctx context.Context, c *Collector, sc Scope) error {
	Ensure(c.run.Store, SecAvailabilityDomain)

	ads, err := guarded(c.breakers, sc.Region, serviceIdentity, func() ([]AvailabilityDomain, error) {
		return c.src.ListAvailabilityDomains(ctx, sc)
	})
	if err != nil {
		return c.run.tolerate(err, "availability domains in "+sc.Region)
	}
	Append(c.run.Store, SecAvailabilityDomain, ads...)
	return nil
}

func collectRoutedPrivateIPs(ctx context.Context, c *Collector, sc Scope) error {
	var ids []string
	for _, rt := range FindAll(c.run, SecRouteTable, Where("region_name", sc.Region)) {
		for _, rule := range rt.Rules {
			if rule.Target.Kind == TargetPrivateIP {
				ids = append(ids, rule.Target.ID)
			}
		}
	}
	return c.collectPrivateIPs(ctx, sc.Region, ids)
}

func collectDbPrivateIPs(ctx context.Context, c *Collector, sc Scope) error {
	var ids []string
	for _, db := range FindAll(c.run, SecDbSystem, Where("region_name", sc.Region)) {
		ids = append(ids, db.ScanIPIDs...)
		ids = append(ids, db.VipIDs...)
	}
	return c.collectPrivateIPs(ctx, sc.Region, ids)
}

// collectPrivateIPs fetches private IPs one by one, skipping any already stored
func (c *Collector) collectPrivateIPs(ctx context.Context, region string, ids []string) error {
	Ensure(c.run.Store, SecPrivateIP)

	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := FindOne(c.run, SecPrivateIP, Where("id", id)); ok {
			continue
		}

		ip, err := guarded(c.breakers, region, serviceNetwork, func() (PrivateIP, error) {
			return c.src.GetPrivateIP(ctx, region, id)
		})
		if err != nil {
			if err := c.run.tolerate(err, "private ip "+id); err != nil {
				return err
			}
			continue
		}
		if c.compartments != nil {
			ip.CompartmentName = c.compartments.NameOf(ip.CompartmentID)
		}
		Append(c.run.Store, SecPrivateIP, ip)
	}
	return nil
}

// collectBootVolumeAttachments lists attachments in every availability domain of the region
func collectBootVolumeAttachments(ctx context.Context, c *Collector, sc Scope) error {
	Ensure(c.run.Store, SecBootVolumeAttachment)

	for _, ad := range FindAll(c.run, SecAvailabilityDomain, Where("region_name", sc.Region)) {
		attachments, err := guarded(c.breakers, sc.Region, serviceCompute, func() ([]BootVolumeAttachment, error) {
			return c.src.ListBootVolumeAttachments(ctx, sc, ad.Name)
		})
		if err != nil {
			if err := c.run.tolerate(err, fmt.Sprintf("boot volume attachments in %s %s", sc.Compartment.Path, ad.Name)); err != nil {
				return err
			}
			continue
		}
		Append(c.run.Store, SecBootVolumeAttachment, attachments...)
	}
	return nil
}

func collectDbNodes(ctx context.Context, c *Collector, sc Scope) error {
	Ensure(c.run.Store, SecDbNode)

	systems := FindAll(c.run, SecDbSystem,
		Where("compartment_id", sc.Compartment.ID),
		Where("region_name", sc.Region))
	for _, db := range systems {
		nodes, err := guarded(c.breakers, sc.Region, serviceDatabase, func() ([]DbNode, error) {
			return c.src.ListDbNodes(ctx, sc, db.ID)
		})
		if err != nil {
			if err := c.run.tolerate(err, "db nodes of "+db.Name); err != nil {
				return err
			}
			continue
		}
		Append(c.run.Store, SecDbNode, nodes...)
	}
	return nil
}

func collectDatabases(ctx context.Context, c *Collector, sc Scope) error {
	Ensure(c.run.Store, SecDatabase)

	homes := FindAll(c.run, SecDbHome,
		Where("compartment_id", sc.Compartment.ID),
		Where("region_name", sc.Region))
	for _, home := range homes {
		dbs, err := guarded(c.breakers, sc.Region, serviceDatabase, func() ([]Database, error) {
			return c.src.ListDatabases(ctx, sc, home.ID)
		})
		if err != nil {
			if err := c.run.tolerate(err, "databases of "+home.Name); err != nil {
				return err
			}
			continue
		}
		Append(c.run.Store, SecDatabase, dbs...)
	}
	return nil
}

// enrichVnic resolves the subnet and NSG names of a VNIC
func enrichVnic(run *Run, v *Vnic) {
	if subnet, ok := FindOne(run, SecSubnet, Where("id", v.SubnetID)); ok {
		v.SubnetName = subnet.Name
	}
	v.NsgNames = v.NsgNames[:0]
	for _, id := range v.NsgIDs {
		if nsg, ok := FindOne(run, SecNsg, Where("id", id)); ok {
			v.NsgNames = append(v.NsgNames, nsg.Name)
		}
	}
}

func enrichDbSystem(run *Run, db *DbSystem) {
	if subnet, ok := FindOne(run, SecSubnet, Where("id", db.SubnetID)); ok {
		db.SubnetName = subnet.Name
	}
}

func enrichAutonomous(run *Run, adb *AutonomousDatabase) {
	if adb.SubnetID == "" {
		return
	}
	if subnet, ok := FindOne(run, SecSubnet, Where("id", adb.SubnetID)); ok {
		adb.SubnetName = subnet.Name
	}
}
