package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/oracle/oci-go-sdk/v65/core"
)

func (s *ociSource) ListVcns(ctx context.Context, scope Scope) ([]Vcn, error) {
	items, err := paginate(ctx, func(page *string) ([]core.Vcn, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListVcns(ctx, core.ListVcnsRequest{
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
		func(v core.Vcn) string { return string(v.LifecycleState) },
		func(v core.Vcn) Vcn {
			cidrs := v.CidrBlocks
			if len(cidrs) == 0 && v.CidrBlock != nil {
				cidrs = []string{*v.CidrBlock}
			}
			return Vcn{
				Base:                  newBase(scope, v.Id, v.DisplayName, string(v.LifecycleState), v.TimeCreated),
				CidrBlocks:            cidrs,
				DNSLabel:              deref(v.DnsLabel),
				DomainName:            deref(v.VcnDomainName),
				DefaultRouteTableID:   deref(v.DefaultRouteTableId),
				DefaultSecurityListID: deref(v.DefaultSecurityListId),
				DefaultDhcpOptionsID:  deref(v.DefaultDhcpOptionsId),
			}
		}), nil
}

func (s *ociSource) ListSubnets(ctx context.Context, scope Scope) ([]Subnet, error) {
	items, err := paginate(ctx, func(page *string) ([]core.Subnet, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListSubnets(ctx, core.ListSubnetsRequest{
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
		func(sn core.Subnet) string { return string(sn.LifecycleState) },
		func(sn core.Subnet) Subnet {
			return Subnet{
				Base:               newBase(scope, sn.Id, sn.DisplayName, string(sn.LifecycleState), sn.TimeCreated),
				VcnID:              deref(sn.VcnId),
				CidrBlock:          deref(sn.CidrBlock),
				AvailabilityDomain: deref(sn.AvailabilityDomain),
				DNSLabel:           deref(sn.DnsLabel),
				DomainName:         deref(sn.SubnetDomainName),
				RouteTableID:       deref(sn.RouteTableId),
				DhcpOptionsID:      deref(sn.DhcpOptionsId),
				SecurityListIDs:    sn.SecurityListIds,
				ProhibitPublicIP:   derefBool(sn.ProhibitPublicIpOnVnic),
			}
		}), nil
}

func (s *ociSource) ListNetworkSecurityGroups(ctx context.Context, scope Scope) ([]NetworkSecurityGroup, error) {
	items, err := paginate(ctx, func(page *string) ([]core.NetworkSecurityGroup, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListNetworkSecurityGroups(ctx, core.ListNetworkSecurityGroupsRequest{
			CompartmentId:   &scope.Compartment.ID,
			Page:            page,
			RequestMetadata: s.meta(),
		})
		return resp.Items, resp.OpcNextPage, err
	})
	if err != nil {
		return nil, err
	}

	groups := mapLive(items,
		func(g core.NetworkSecurityGroup) string { return string(g.LifecycleState) },
		func(g core.NetworkSecurityGroup) NetworkSecurityGroup {
			return NetworkSecurityGroup{
				Base:  newBase(scope, g.Id, g.DisplayName, string(g.LifecycleState), g.TimeCreated),
				VcnID: deref(g.VcnId),
			}
		})

	for i := range groups {
		groupID := groups[i].ID
		rules, err := paginate(ctx, func(page *string) ([]core.SecurityRule, *string, error) {
			resp, err := s.clients.VirtualNetworkClient.ListNetworkSecurityGroupSecurityRules(ctx, core.ListNetworkSecurityGroupSecurityRulesRequest{
				NetworkSecurityGroupId: &groupID,
				Page:                   page,
				RequestMetadata:        s.meta(),
			})
			return resp.Items, resp.OpcNextPage, err
		})
		if err != nil {
			return nil, fmt.Errorf("list rules of %s: %w", groups[i].Name, err)
		}
		for _, r := range rules {
			peer := deref(r.Source)
			if r.Direction == core.SecurityRuleDirectionEgress {
				peer = deref(r.Destination)
			}
			groups[i].Rules = append(groups[i].Rules, SecurityRule{
				Direction:   strings.ToLower(string(r.Direction)),
				Protocol:    protocolName(deref(r.Protocol)),
				Peer:        peer,
				PortRange:   portRange(r.TcpOptions, r.UdpOptions),
				Stateless:   derefBool(r.IsStateless),
				Description: deref(r.Description),
			})
		}
	}
	return groups, nil
}

func (s *ociSource) ListSecurityLists(ctx context.Context, scope Scope) ([]SecurityList, error) {
	items, err := paginate(ctx, func(page *string) ([]core.SecurityList, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListSecurityLists(ctx, core.ListSecurityListsRequest{
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
		func(sl core.SecurityList) string { return string(sl.LifecycleState) },
		func(sl core.SecurityList) SecurityList {
			var rules []SecurityRule
			for _, r := range sl.IngressSecurityRules {
				rules = append(rules, SecurityRule{
					Direction:   "ingress",
					Protocol:    protocolName(deref(r.Protocol)),
					Peer:        deref(r.Source),
					PortRange:   portRange(r.TcpOptions, r.UdpOptions),
					Stateless:   derefBool(r.IsStateless),
					Description: deref(r.Description),
				})
			}
			for _, r := range sl.EgressSecurityRules {
				rules = append(rules, SecurityRule{
					Direction:   "egress",
					Protocol:    protocolName(deref(r.Protocol)),
					Peer:        deref(r.Destination),
					PortRange:   portRange(r.TcpOptions, r.UdpOptions),
					Stateless:   derefBool(r.IsStateless),
					Description: deref(r.Description),
				})
			}
			return SecurityList{
				Base:  newBase(scope, sl.Id, sl.DisplayName, string(sl.LifecycleState), sl.TimeCreated),
				VcnID: deref(sl.VcnId),
				Rules: rules,
			}
		}), nil
}

func (s *ociSource) ListDhcpOptions(ctx context.Context, scope Scope) ([]DhcpOptions, error) {
	items, err := paginate(ctx, func(page *string) ([]core.DhcpOptions, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListDhcpOptions(ctx, core.ListDhcpOptionsRequest{
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
		func(d core.DhcpOptions) string { return string(d.LifecycleState) },
		func(d core.DhcpOptions) DhcpOptions {
			rec := DhcpOptions{
				Base:  newBase(scope, d.Id, d.DisplayName, string(d.LifecycleState), d.TimeCreated),
				VcnID: deref(d.VcnId),
			}
			for _, opt := range d.Options {
				switch o := opt.(type) {
				case core.DhcpDnsOption:
					rec.DNSType = string(o.ServerType)
					rec.CustomDNSServers = o.CustomDnsServers
				case *core.DhcpDnsOption:
					rec.DNSType = string(o.ServerType)
					rec.CustomDNSServers = o.CustomDnsServers
				case core.DhcpSearchDomainOption:
					rec.SearchDomains = o.SearchDomainNames
				case *core.DhcpSearchDomainOption:
					rec.SearchDomains = o.SearchDomainNames
				}
			}
			return rec
		}), nil
}

func (s *ociSource) ListRouteTables(ctx context.Context, scope Scope) ([]RouteTable, error) {
	items, err := paginate(ctx, func(page *string) ([]core.RouteTable, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListRouteTables(ctx, core.ListRouteTablesRequest{
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
		func(rt core.RouteTable) string { return string(rt.LifecycleState) },
		func(rt core.RouteTable) RouteTable {
			rules := make([]RouteRule, 0, len(rt.RouteRules))
			for _, r := range rt.RouteRules {
				dest := deref(r.Destination)
				if dest == "" {
					dest = deref(r.CidrBlock)
				}
				target := deref(r.NetworkEntityId)
				rules = append(rules, RouteRule{
					Destination:     dest,
					DestinationType: string(r.DestinationType),
					Target:          RouteTarget{Kind: targetKindFromOCID(target), ID: target},
					Description:     deref(r.Description),
				})
			}
			return RouteTable{
				Base:  newBase(scope, rt.Id, rt.DisplayName, string(rt.LifecycleState), rt.TimeCreated),
				VcnID: deref(rt.VcnId),
				Rules: rules,
			}
		}), nil
}

func (s *ociSource) ListInternetGateways(ctx context.Context, scope Scope) ([]InternetGateway, error) {
	items, err := paginate(ctx, func(page *string) ([]core.InternetGateway, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListInternetGateways(ctx, core.ListInternetGatewaysRequest{
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
		func(g core.InternetGateway) string { return string(g.LifecycleState) },
		func(g core.InternetGateway) InternetGateway {
			return InternetGateway{
				Base:    newBase(scope, g.Id, g.DisplayName, string(g.LifecycleState), g.TimeCreated),
				VcnID:   deref(g.VcnId),
				Enabled: derefBool(g.IsEnabled),
			}
		}), nil
}

func (s *ociSource) ListNatGateways(ctx context.Context, scope Scope) ([]NatGateway, error) {
	items, err := paginate(ctx, func(page *string) ([]core.NatGateway, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListNatGateways(ctx, core.ListNatGatewaysRequest{
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
		func(g core.NatGateway) string { return string(g.LifecycleState) },
		func(g core.NatGateway) NatGateway {
			return NatGateway{
				Base:         newBase(scope, g.Id, g.DisplayName, string(g.LifecycleState), g.TimeCreated),
				VcnID:        deref(g.VcnId),
				NatIP:        deref(g.NatIp),
				BlockTraffic: derefBool(g.BlockTraffic),
			}
		}), nil
}

func (s *ociSource) ListServiceGateways(ctx context.Context, scope Scope) ([]ServiceGateway, error) {
	items, err := paginate(ctx, func(page *string) ([]core.ServiceGateway, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListServiceGateways(ctx, core.ListServiceGatewaysRequest{
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
		func(g core.ServiceGateway) string { return string(g.LifecycleState) },
		func(g core.ServiceGateway) ServiceGateway {
			services := make([]string, 0, len(g.Services))
			for _, svc := range g.Services {
				services = append(services, deref(svc.ServiceName))
			}
			return ServiceGateway{
				Base:         newBase(scope, g.Id, g.DisplayName, string(g.LifecycleState), g.TimeCreated),
				VcnID:        deref(g.VcnId),
				Services:     services,
				BlockTraffic: derefBool(g.BlockTraffic),
				RouteTableID: deref(g.RouteTableId),
			}
		}), nil
}

func (s *ociSource) ListLocalPeeringGateways(ctx context.Context, scope Scope) ([]LocalPeeringGateway, error) {
	items, err := paginate(ctx, func(page *string) ([]core.LocalPeeringGateway, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListLocalPeeringGateways(ctx, core.ListLocalPeeringGatewaysRequest{
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
		func(g core.LocalPeeringGateway) string { return string(g.LifecycleState) },
		func(g core.LocalPeeringGateway) LocalPeeringGateway {
			return LocalPeeringGateway{
				Base:               newBase(scope, g.Id, g.DisplayName, string(g.LifecycleState), g.TimeCreated),
				VcnID:              deref(g.VcnId),
				PeerID:             deref(g.PeerId),
				PeeringStatus:      string(g.PeeringStatus),
				PeerAdvertisedCidr: deref(g.PeerAdvertisedCidr),
				CrossTenancy:       derefBool(g.IsCrossTenancyPeering),
				RouteTableID:       deref(g.RouteTableId),
			}
		}), nil
}

func (s *ociSource) ListDrgs(ctx context.Context, scope Scope) ([]Drg, error) {
	items, err := paginate(ctx, func(page *string) ([]core.Drg, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListDrgs(ctx, core.ListDrgsRequest{
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
		func(d core.Drg) string { return string(d.LifecycleState) },
		func(d core.Drg) Drg {
			return Drg{Base: newBase(scope, d.Id, d.DisplayName, string(d.LifecycleState), d.TimeCreated)}
		}), nil
}

func (s *ociSource) ListDrgAttachments(ctx context.Context, scope Scope) ([]DrgAttachment, error) {
	items, err := paginate(ctx, func(page *string) ([]core.DrgAttachment, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListDrgAttachments(ctx, core.ListDrgAttachmentsRequest{
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
		func(a core.DrgAttachment) string { return string(a.LifecycleState) },
		func(a core.DrgAttachment) DrgAttachment {
			return DrgAttachment{
				Base:         newBase(scope, a.Id, a.DisplayName, string(a.LifecycleState), a.TimeCreated),
				DrgID:        deref(a.DrgId),
				VcnID:        deref(a.VcnId),
				RouteTableID: deref(a.RouteTableId),
			}
		}), nil
}

func (s *ociSource) ListCpes(ctx context.Context, scope Scope) ([]Cpe, error) {
	items, err := paginate(ctx, func(page *string) ([]core.Cpe, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListCpes(ctx, core.ListCpesRequest{
			CompartmentId:   &scope.Compartment.ID,
			Page:            page,
			RequestMetadata: s.meta(),
		})
		return resp.Items, resp.OpcNextPage, err
	})
	if err != nil {
		return nil, err
	}

	out := make([]Cpe, 0, len(items))
	for _, c := range items {
		out = append(out, Cpe{
			Base:      newBase(scope, c.Id, c.DisplayName, "AVAILABLE", c.TimeCreated),
			IPAddress: deref(c.IpAddress),
		})
	}
	return out, nil
}

func (s *ociSource) ListIPSecConnections(ctx context.Context, scope Scope) ([]IPSecConnection, error) {
	items, err := paginate(ctx, func(page *string) ([]core.IpSecConnection, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListIPSecConnections(ctx, core.ListIPSecConnectionsRequest{
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
		func(c core.IpSecConnection) string { return string(c.LifecycleState) },
		func(c core.IpSecConnection) IPSecConnection {
			return IPSecConnection{
				Base:         newBase(scope, c.Id, c.DisplayName, string(c.LifecycleState), c.TimeCreated),
				DrgID:        deref(c.DrgId),
				CpeID:        deref(c.CpeId),
				StaticRoutes: c.StaticRoutes,
			}
		}), nil
}

func (s *ociSource) ListVirtualCircuits(ctx context.Context, scope Scope) ([]VirtualCircuit, error) {
	items, err := paginate(ctx, func(page *string) ([]core.VirtualCircuit, *string, error) {
		resp, err := s.clients.VirtualNetworkClient.ListVirtualCircuits(ctx, core.ListVirtualCircuitsRequest{
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
		func(vc core.VirtualCircuit) string { return string(vc.LifecycleState) },
		func(vc core.VirtualCircuit) VirtualCircuit {
			return VirtualCircuit{
				Base:           newBase(scope, vc.Id, vc.DisplayName, string(vc.LifecycleState), vc.TimeCreated),
				DrgID:          deref(vc.GatewayId),
				BandwidthShape: deref(vc.BandwidthShapeName),
				ProviderState:  string(vc.ProviderState),
				Type:           string(vc.Type),
			}
		}), nil
}

// GetPrivateIP fetches a single private IP. The record is placed in the
// compartment that owns the IP, not the one being scanned.
func (s *ociSource) GetPrivateIP(ctx context.Context, region, privateIPID string) (PrivateIP, error) {
	resp, err := s.clients.VirtualNetworkClient.GetPrivateIp(ctx, core.GetPrivateIpRequest{
		PrivateIpId:     &privateIPID,
		RequestMetadata: s.meta(),
	})
	if err != nil {
		return PrivateIP{}, err
	}
	ip := resp.PrivateIp
	base := newBase(Scope{Region: region}, ip.Id, ip.DisplayName, "AVAILABLE", ip.TimeCreated)
	base.CompartmentID = deref(ip.CompartmentId)
	return PrivateIP{
		Base:          base,
		IPAddress:     deref(ip.IpAddress),
		SubnetID:      deref(ip.SubnetId),
		VnicID:        deref(ip.VnicId),
		HostnameLabel: deref(ip.HostnameLabel),
		IsPrimary:     derefBool(ip.IsPrimary),
	}, nil
}

// protocolName turns IANA protocol numbers into the usual names
func protocolName(p string) string {
	switch p {
	case "all":
		return "all"
	case "1":
		return "icmp"
	case "6":
		return "tcp"
	case "17":
		return "udp"
	case "58":
		return "icmpv6"
	default:
		return p
	}
}

func portRange(tcp *core.TcpOptions, udp *core.UdpOptions) string {
	var pr *core.PortRange
	switch {
	case tcp != nil && tcp.DestinationPortRange != nil:
		pr = tcp.DestinationPortRange
	case udp != nil && udp.DestinationPortRange != nil:
		pr = udp.DestinationPortRange
	}
	if pr == nil {
		return "all"
	}
	lo, hi := derefInt(pr.Min), derefInt(pr.Max)
	if lo == hi {
		return fmt.Sprintf("%d", lo)
	}
	return fmt.Sprintf("%d-%d", lo, hi)
}
