package main

func (b *Builder) buildDatabase(region string, c Compartment) *DatabaseReport {
	where := inCompartment(region, c)
	dr := &DatabaseReport{}

	for _, db := range FindAll(b.run, SecDbSystem, where...) {
		dr.DbSystems = append(dr.DbSystems, b.dbSystemNode(region, db))
	}
	for _, adb := range FindAll(b.run, SecAutonomousDatabase, where...) {
		dr.Autonomous = append(dr.Autonomous, AutonomousNode{
			ID:              adb.ID,
			Name:            adb.Name,
			DbName:          adb.DbName,
			Workload:        adb.Workload,
			Version:         adb.Version,
			CPUCoreCount:    adb.CPUCoreCount,
			DataStorageTB:   adb.DataStorageTB,
			FreeTier:        adb.IsFreeTier,
			Subnet:          orNotFound(adb.SubnetName, adb.SubnetID),
			PrivateEndpoint: adb.PrivateEndpointIP,
			State:           adb.LifecycleState,
		})
	}

	if len(dr.DbSystems) == 0 && len(dr.Autonomous) == 0 {
		return nil
	}
	return dr
}

func (b *Builder) dbSystemNode(region string, db DbSystem) DbSystemNode {
	node := DbSystemNode{
		ID:        db.ID,
		Name:      db.Name,
		Shape:     db.Shape,
		Edition:   db.DatabaseEdition,
		Version:   db.Version,
		Subnet:    orNotFound(db.SubnetName, db.SubnetID),
		ScanIPs:   b.privateIPs(db.ScanIPIDs),
		VipIPs:    b.privateIPs(db.VipIDs),
		Nodes:     []DbNodeNode{},
		Homes:     []DbHomeNode{},
		NodeCount: db.NodeCount,
	}
	ofSystem := []Predicate{Where("db_system_id", db.ID), Where("region_name", region)}

	for _, n := range FindAll(b.run, SecDbNode, ofSystem...) {
		node.Nodes = append(node.Nodes, DbNodeNode{
			Name:        n.Name,
			PrivateIP:   n.PrivateIP,
			FaultDomain: n.FaultDomain,
			State:       n.LifecycleState,
		})
	}

	for _, home := range FindAll(b.run, SecDbHome, ofSystem...) {
		homeNode := DbHomeNode{Name: home.Name, Version: home.DbVersion, Databases: []DatabaseNode{}}
		for _, d := range FindAll(b.run, SecDatabase, Where("db_home_id", home.ID), Where("region_name", region)) {
			homeNode.Databases = append(homeNode.Databases, DatabaseNode{
				Name:       d.Name,
				UniqueName: d.UniqueName,
				PdbName:    d.PdbName,
				Workload:   d.Workload,
				State:      d.LifecycleState,
			})
		}
		node.Homes = append(node.Homes, homeNode)
	}
	return node
}

// privateIPs resolves private IP ids to addresses
func (b *Builder) privateIPs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if ip, ok := FindOne(b.run, SecPrivateIP, Where("id", id)); ok {
			out = append(out, ip.IPAddress)
			continue
		}
		out = append(out, notFound)
	}
	return out
}
