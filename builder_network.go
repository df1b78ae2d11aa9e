package main

import (
	"fmt"
	"strings"
)

func (b *Builder) buildNetwork(region string, c Compartment) *NetworkReport {
	where := inCompartment(region, c)
	nr := &NetworkReport{}

	for _, vcn := range FindAll(b.run, SecVcn, where...) {
		nr.Vcns = append(nr.Vcns, b.vcnNode(region, vcn))
	}
	for _, drg := range FindAll(b.run, SecDrg, where...) {
		nr.Drgs = append(nr.Drgs, b.drgNode(region, drg))
	}
	for _, cpe := range FindAll(b.run, SecCpe, where...) {
		nr.Cpes = append(nr.Cpes, CpeNode{ID: cpe.ID, Name: cpe.Name, IPAddress: cpe.IPAddress})
	}
	for _, ipsec := range FindAll(b.run, SecIPSec, where...) {
		nr.IPSec = append(nr.IPSec, IPSecNode{
			ID:           ipsec.ID,
			Name:         ipsec.Name,
			Drg:          lookupRef(b.run, SecDrg, ipsec.DrgID),
			Cpe:          lookupRef(b.run, SecCpe, ipsec.CpeID),
			StaticRoutes: ipsec.StaticRoutes,
		})
	}
	for _, vc := range FindAll(b.run, SecVirtualCircuit, where...) {
		nr.VirtualCircuits = append(nr.VirtualCircuits, VirtualCircuitNode{
			ID:             vc.ID,
			Name:           vc.Name,
			Drg:            lookupRef(b.run, SecDrg, vc.DrgID),
			BandwidthShape: vc.BandwidthShape,
			ProviderState:  vc.ProviderState,
		})
	}

	if len(nr.Vcns) == 0 && len(nr.Drgs) == 0 && len(nr.Cpes) == 0 && len(nr.IPSec) == 0 && len(nr.VirtualCircuits) == 0 {
		return nil
	}
	return nr
}

// vcnNode aggregates every object that references the VCN
func (b *Builder) vcnNode(region string, vcn Vcn) VcnNode {
	ofVcn := []Predicate{Where("vcn_id", vcn.ID), Where("region_name", region)}
	node := VcnNode{
		ID:         vcn.ID,
		Name:       vcn.Name,
		CidrBlocks: vcn.CidrBlocks,
		DomainName: vcn.DomainName,
	}

	for _, igw := range FindAll(b.run, SecIGW, ofVcn...) {
		node.InternetGateways = append(node.InternetGateways, GatewayNode{
			ID:      igw.ID,
			Name:    b.nameIn(igw.Name, igw.CompartmentID, vcn.CompartmentID),
			Details: enabledText(igw.Enabled),
		})
	}
	for _, nat := range FindAll(b.run, SecNAT, ofVcn...) {
		details := "NAT IP " + nat.NatIP
		if nat.BlockTraffic {
			details += ", blocking traffic"
		}
		node.NatGateways = append(node.NatGateways, GatewayNode{
			ID:      nat.ID,
			Name:    b.nameIn(nat.Name, nat.CompartmentID, vcn.CompartmentID),
			Details: details,
		})
	}
	for _, sgw := range FindAll(b.run, SecSGW, ofVcn...) {
		details := strings.Join(sgw.Services, ", ")
		if sgw.RouteTableID != "" {
			details += ", route table " + lookupRef(b.run, SecRouteTable, sgw.RouteTableID).String()
		}
		node.ServiceGateways = append(node.ServiceGateways, GatewayNode{
			ID:      sgw.ID,
			Name:    b.nameIn(sgw.Name, sgw.CompartmentID, vcn.CompartmentID),
			Details: details,
		})
	}
	for _, att := range FindAll(b.run, SecDrgAttachment, ofVcn...) {
		name := string(TargetDRG) + " " + notExist
		if drg, ok := FindOne(b.run, SecDrg, Where("id", att.DrgID)); ok {
			name = b.nameIn(drg.Name, drg.CompartmentID, vcn.CompartmentID)
		}
		var details string
		if att.RouteTableID != "" {
			details = "route table " + lookupRef(b.run, SecRouteTable, att.RouteTableID).String()
		}
		node.DrgAttachments = append(node.DrgAttachments, GatewayNode{ID: att.ID, Name: name, Details: details})
	}
	for _, lpg := range FindAll(b.run, SecLPG, ofVcn...) {
		details := lpg.PeeringStatus
		if lpg.PeerAdvertisedCidr != "" {
			details += ", peer " + lpg.PeerAdvertisedCidr
		}
		if lpg.CrossTenancy {
			details += ", cross tenancy"
		}
		node.LocalPeerings = append(node.LocalPeerings, GatewayNode{
			ID:      lpg.ID,
			Name:    b.nameIn(lpg.Name, lpg.CompartmentID, vcn.CompartmentID),
			Details: details,
		})
	}

	for _, subnet := range FindAll(b.run, SecSubnet, ofVcn...) {
		node.Subnets = append(node.Subnets, b.subnetNode(vcn, subnet))
	}
	for _, sl := range FindAll(b.run, SecSecurityList, ofVcn...) {
		node.SecurityLists = append(node.SecurityLists, SecurityNode{
			ID:    sl.ID,
			Name:  b.nameIn(sl.Name, sl.CompartmentID, vcn.CompartmentID),
			Rules: formatRules(sl.Rules),
		})
	}
	for _, nsg := range FindAll(b.run, SecNsg, ofVcn...) {
		node.SecurityGroups = append(node.SecurityGroups, SecurityNode{
			ID:    nsg.ID,
			Name:  b.nameIn(nsg.Name, nsg.CompartmentID, vcn.CompartmentID),
			Rules: formatRules(nsg.Rules),
		})
	}
	for _, rt := range FindAll(b.run, SecRouteTable, ofVcn...) {
		rtNode := RouteTableNode{
			ID:    rt.ID,
			Name:  b.nameIn(rt.Name, rt.CompartmentID, vcn.CompartmentID),
			Rules: []RouteRuleNode{},
		}
		for _, rule := range rt.Rules {
			rtNode.Rules = append(rtNode.Rules, RouteRuleNode{
				Destination: rule.Destination,
				Target:      b.routeTarget(rule.Target),
				Description: rule.Description,
			})
		}
		node.RouteTables = append(node.RouteTables, rtNode)
	}
	for _, dhcp := range FindAll(b.run, SecDhcpOptions, ofVcn...) {
		node.DhcpOptions = append(node.DhcpOptions, DhcpOptionsNode{
			ID:      dhcp.ID,
			Name:    b.nameIn(dhcp.Name, dhcp.CompartmentID, vcn.CompartmentID),
			Options: dhcpText(dhcp),
		})
	}
	return node
}

func (b *Builder) subnetNode(vcn Vcn, subnet Subnet) SubnetNode {
	node := SubnetNode{
		ID:            subnet.ID,
		Name:          b.nameIn(subnet.Name, subnet.CompartmentID, vcn.CompartmentID),
		CidrBlock:     subnet.CidrBlock,
		Availability:  subnet.AvailabilityDomain,
		Access:        "Public",
		DNS:           subnet.DomainName,
		RouteTable:    lookupRef(b.run, SecRouteTable, subnet.RouteTableID),
		SecurityLists: []Ref{},
		DhcpOptions:   lookupRef(b.run, SecDhcpOptions, subnet.DhcpOptionsID),
	}
	if node.Availability == "" {
		node.Availability = "Regional"
	}
	if subnet.ProhibitPublicIP {
		node.Access = "Private"
	}
	for _, id := range subnet.SecurityListIDs {
		node.SecurityLists = append(node.SecurityLists, lookupRef(b.run, SecSecurityList, id))
	}
	return node
}

func (b *Builder) drgNode(region string, drg Drg) DrgNode {
	node := DrgNode{ID: drg.ID, Name: drg.Name, Vcns: []string{}, IPSec: []string{}, VirtualCircuits: []string{}}
	ofDrg := []Predicate{Where("drg_id", drg.ID), Where("region_name", region)}

	for _, att := range FindAll(b.run, SecDrgAttachment, ofDrg...) {
		node.Vcns = append(node.Vcns, lookupRef(b.run, SecVcn, att.VcnID).String())
	}
	for _, ipsec := range FindAll(b.run, SecIPSec, ofDrg...) {
		node.IPSec = append(node.IPSec, b.nameIn(ipsec.Name, ipsec.CompartmentID, drg.CompartmentID))
	}
	for _, vc := range FindAll(b.run, SecVirtualCircuit, ofDrg...) {
		node.VirtualCircuits = append(node.VirtualCircuits, b.nameIn(vc.Name, vc.CompartmentID, drg.CompartmentID))
	}
	return node
}

// routeTarget renders the network entity of a route rule by its kind.
// A target that is not in the store renders as "<KIND> (Not Exist)".
func (b *Builder) routeTarget(t RouteTarget) string {
	if t.ID == "" {
		return ""
	}

	var name string
	var ok bool
	switch t.Kind {
	case TargetPrivateIP:
		var ip PrivateIP
		if ip, ok = FindOne(b.run, SecPrivateIP, Where("id", t.ID)); ok {
			name = ip.IPAddress
			if ip.HostnameLabel != "" {
				name += " (" + ip.HostnameLabel + ")"
			}
		}
	case TargetDRG:
		name, ok = refName(lookupRef(b.run, SecDrg, t.ID))
	case TargetIGW:
		name, ok = refName(lookupRef(b.run, SecIGW, t.ID))
	case TargetNAT:
		name, ok = refName(lookupRef(b.run, SecNAT, t.ID))
	case TargetSGW:
		name, ok = refName(lookupRef(b.run, SecSGW, t.ID))
	case TargetLPG:
		name, ok = refName(lookupRef(b.run, SecLPG, t.ID))
	default:
		return t.ID
	}

	if !ok {
		return fmt.Sprintf("%s %s", t.Kind, notExist)
	}
	return fmt.Sprintf("%s - %s", t.Kind, name)
}

func refName(r Ref) (string, bool) {
	return r.Name, r.Resolved
}

func enabledText(enabled bool) string {
	if enabled {
		return "Enabled"
	}
	return "Disabled"
}

func formatRules(rules []SecurityRule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		line := fmt.Sprintf("%s %s %s port %s", r.Direction, r.Protocol, r.Peer, r.PortRange)
		if r.Stateless {
			line += " stateless"
		}
		if r.Description != "" {
			line += " (" + r.Description + ")"
		}
		out = append(out, line)
	}
	return out
}

func dhcpText(d DhcpOptions) []string {
	var out []string
	if d.DNSType != "" {
		out = append(out, "DNS: "+d.DNSType)
	}
	if len(d.CustomDNSServers) > 0 {
		out = append(out, "Custom DNS: "+strings.Join(d.CustomDNSServers, ", "))
	}
	if len(d.SearchDomains) > 0 {
		out = append(out, "Search: "+strings.Join(d.SearchDomains, ", "))
	}
	return out
}
