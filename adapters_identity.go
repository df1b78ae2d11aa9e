package main

import (
	"context"
	"fmt"

	"github.com/oracle/oci-go-sdk/v65/identity"
)

func (s *ociSource) GetTenancy(ctx context.Context, tenancyID string) (Tenancy, error) {
	resp, err := s.clients.IdentityClient.GetTenancy(ctx, identity.GetTenancyRequest{
		TenancyId:       &tenancyID,
		RequestMetadata: s.meta(),
	})
	if err != nil {
		return Tenancy{}, fmt.Errorf("get tenancy: %w", err)
	}
	return Tenancy{
		ID:            deref(resp.Id),
		Name:          deref(resp.Name),
		Description:   deref(resp.Description),
		HomeRegionKey: deref(resp.HomeRegionKey),
	}, nil
}

func (s *ociSource) ListRegionSubscriptions(ctx context.Context, tenancyID string) ([]Region, error) {
	resp, err := s.clients.IdentityClient.ListRegionSubscriptions(ctx, identity.ListRegionSubscriptionsRequest{
		TenancyId:       &tenancyID,
		RequestMetadata: s.meta(),
	})
	if err != nil {
		return nil, fmt.Errorf("list region subscriptions: %w", err)
	}

	regions := make([]Region, 0, len(resp.Items))
	for _, r := range resp.Items {
		regions = append(regions, Region{
			Name:         deref(r.RegionName),
			Key:          deref(r.RegionKey),
			IsHomeRegion: derefBool(r.IsHomeRegion),
			Status:       string(r.Status),
		})
	}
	return regions, nil
}

// ListCompartments returns the direct children of parentID. Paths are filled
// in by the tree builder.
func (s *ociSource) ListCompartments(ctx context.Context, parentID string) ([]Compartment, error) {
	items, err := paginate(ctx, func(page *string) ([]identity.Compartment, *string, error) {
		resp, err := s.clients.IdentityClient.ListCompartments(ctx, identity.ListCompartmentsRequest{
			CompartmentId:   &parentID,
			Page:            page,
			RequestMetadata: s.meta(),
		})
		return resp.Items, resp.OpcNextPage, err
	})
	if err != nil {
		return nil, fmt.Errorf("list compartments of %s: %w", parentID, err)
	}

	out := make([]Compartment, 0, len(items))
	for _, c := range items {
		out = append(out, compartmentFromSDK(c))
	}
	return out, nil
}

func (s *ociSource) GetCompartment(ctx context.Context, compartmentID string) (Compartment, error) {
	resp, err := s.clients.IdentityClient.GetCompartment(ctx, identity.GetCompartmentRequest{
		CompartmentId:   &compartmentID,
		RequestMetadata: s.meta(),
	})
	if err != nil {
		return Compartment{}, fmt.Errorf("get compartment %s: %w", compartmentID, err)
	}
	return compartmentFromSDK(resp.Compartment), nil
}

func compartmentFromSDK(c identity.Compartment) Compartment {
	return Compartment{
		ID:             deref(c.Id),
		Name:           deref(c.Name),
		Description:    deref(c.Description),
		ParentID:       deref(c.CompartmentId),
		IsAccessible:   c.IsAccessible == nil || *c.IsAccessible,
		LifecycleState: string(c.LifecycleState),
	}
}

func (s *ociSource) ListAvailabilityDomains(ctx context.Context, scope Scope) ([]AvailabilityDomain, error) {
	resp, err := s.clients.IdentityClient.ListAvailabilityDomains(ctx, identity.ListAvailabilityDomainsRequest{
		CompartmentId:   &scope.Compartment.ID,
		RequestMetadata: s.meta(),
	})
	if err != nil {
		return nil, err
	}

	out := make([]AvailabilityDomain, 0, len(resp.Items))
	for _, ad := range resp.Items {
		out = append(out, AvailabilityDomain{
			ID:            deref(ad.Id),
			Name:          deref(ad.Name),
			CompartmentID: scope.Compartment.ID,
			RegionName:    scope.Region,
		})
	}
	return out, nil
}

func (s *ociSource) ListUsers(ctx context.Context, scope Scope) ([]User, error) {
	items, err := paginate(ctx, func(page *string) ([]identity.User, *string, error) {
		resp, err := s.clients.IdentityClient.ListUsers(ctx, identity.ListUsersRequest{
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
		func(u identity.User) string { return string(u.LifecycleState) },
		func(u identity.User) User {
			return User{
				Base:           newBase(scope, u.Id, u.Name, string(u.LifecycleState), u.TimeCreated),
				Description:    deref(u.Description),
				Email:          deref(u.Email),
				IsMfaActivated: derefBool(u.IsMfaActivated),
			}
		}), nil
}

func (s *ociSource) ListGroups(ctx context.Context, scope Scope) ([]Group, error) {
	items, err := paginate(ctx, func(page *string) ([]identity.Group, *string, error) {
		resp, err := s.clients.IdentityClient.ListGroups(ctx, identity.ListGroupsRequest{
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
		func(g identity.Group) string { return string(g.LifecycleState) },
		func(g identity.Group) Group {
			return Group{
				Base:        newBase(scope, g.Id, g.Name, string(g.LifecycleState), g.TimeCreated),
				Description: deref(g.Description),
			}
		}), nil
}

func (s *ociSource) ListGroupMemberships(ctx context.Context, scope Scope) ([]GroupMembership, error) {
	items, err := paginate(ctx, func(page *string) ([]identity.UserGroupMembership, *string, error) {
		resp, err := s.clients.IdentityClient.ListUserGroupMemberships(ctx, identity.ListUserGroupMembershipsRequest{
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
		func(m identity.UserGroupMembership) string { return string(m.LifecycleState) },
		func(m identity.UserGroupMembership) GroupMembership {
			return GroupMembership{
				ID:            deref(m.Id),
				CompartmentID: deref(m.CompartmentId),
				UserID:        deref(m.UserId),
				GroupID:       deref(m.GroupId),
			}
		}), nil
}

func (s *ociSource) ListDynamicGroups(ctx context.Context, scope Scope) ([]DynamicGroup, error) {
	items, err := paginate(ctx, func(page *string) ([]identity.DynamicGroup, *string, error) {
		resp, err := s.clients.IdentityClient.ListDynamicGroups(ctx, identity.ListDynamicGroupsRequest{
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
		func(g identity.DynamicGroup) string { return string(g.LifecycleState) },
		func(g identity.DynamicGroup) DynamicGroup {
			return DynamicGroup{
				Base:         newBase(scope, g.Id, g.Name, string(g.LifecycleState), g.TimeCreated),
				Description:  deref(g.Description),
				MatchingRule: deref(g.MatchingRule),
			}
		}), nil
}

func (s *ociSource) ListPolicies(ctx context.Context, scope Scope) ([]Policy, error) {
	items, err := paginate(ctx, func(page *string) ([]identity.Policy, *string, error) {
		resp, err := s.clients.IdentityClient.ListPolicies(ctx, identity.ListPoliciesRequest{
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
		func(p identity.Policy) string { return string(p.LifecycleState) },
		func(p identity.Policy) Policy {
			return Policy{
				Base:        newBase(scope, p.Id, p.Name, string(p.LifecycleState), p.TimeCreated),
				Description: deref(p.Description),
				Statements:  p.Statements,
			}
		}), nil
}
