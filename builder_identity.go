package main

// BuildIdentity builds the tenancy-wide identity report
func (b *Builder) BuildIdentity(tenancy Tenancy, compartments []Compartment) *IdentityReport {
	ir := &IdentityReport{
		Tenancy:       tenancy,
		Users:         []UserNode{},
		Groups:        []GroupNode{},
		DynamicGroups: []DynamicGroupNode{},
		Policies:      []PolicyCompartment{},
		Compartments:  []CompartmentTreeNode{},
	}

	b.run.safely("identity users", func() {
		for _, u := range Items(b.run.Store, SecUser) {
			node := UserNode{
				Name:   u.Name,
				Email:  u.Email,
				Mfa:    u.IsMfaActivated,
				State:  u.LifecycleState,
				Groups: []string{},
			}
			for _, m := range FindAll(b.run, SecGroupMembership, Where("user_id", u.ID)) {
				node.Groups = append(node.Groups, lookupRef(b.run, SecGroup, m.GroupID).String())
			}
			ir.Users = append(ir.Users, node)
		}
	})

	b.run.safely("identity groups", func() {
		for _, g := range Items(b.run.Store, SecGroup) {
			node := GroupNode{Name: g.Name, Description: g.Description, Users: []string{}}
			for _, m := range FindAll(b.run, SecGroupMembership, Where("group_id", g.ID)) {
				node.Users = append(node.Users, lookupRef(b.run, SecUser, m.UserID).String())
			}
			ir.Groups = append(ir.Groups, node)
		}
	})

	for _, g := range Items(b.run.Store, SecDynamicGroup) {
		ir.DynamicGroups = append(ir.DynamicGroups, DynamicGroupNode{Name: g.Name, MatchingRule: g.MatchingRule})
	}

	for _, c := range compartments {
		ir.Compartments = append(ir.Compartments, CompartmentTreeNode{ID: c.ID, Name: c.Name, Path: c.Path})

		policies := FindAll(b.run, SecPolicy, Where("compartment_id", c.ID))
		if len(policies) == 0 {
			continue
		}
		pc := PolicyCompartment{Path: c.Path}
		for _, p := range policies {
			pc.Policies = append(pc.Policies, PolicyNode{Name: p.Name, Statements: p.Statements})
		}
		ir.Policies = append(ir.Policies, pc)
	}
	return ir
}
