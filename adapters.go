package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/oracle/oci-go-sdk/v65/common"
)

// ociSource implements Source on top of the OCI Go SDK clients
type ociSource struct {
	clients   *OCIClients
	tenancyID string

	mu     sync.Mutex
	region string
	retry  common.RetryPolicy
}

// newOCISource wires the SDK clients into a Source
func newOCISource(clients *OCIClients, tenancyID string) *ociSource {
	return &ociSource{
		clients:   clients,
		tenancyID: tenancyID,
		retry:     common.DefaultRetryPolicy(),
	}
}

func (s *ociSource) TenancyID() string { return s.tenancyID }

func (s *ociSource) SetRegion(region string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.region = region
	s.clients.SetRegion(region)
}

// meta returns request metadata carrying the SDK retry policy
func (s *ociSource) meta() common.RequestMetadata {
	policy := s.retry
	return common.RequestMetadata{RetryPolicy: &policy}
}

// paginate drains an OCI list call by following opc-next-page tokens
func paginate[T any](ctx context.Context, fetch func(page *string) ([]T, *string, error)) ([]T, error) {
	var all []T
	var page *string
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		items, next, err := fetch(page)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if next == nil || *next == "" {
			break
		}
		page = next
	}
	return all, nil
}

// mapLive converts SDK items to records, dropping terminated and deleted objects
func mapLive[S, T any](items []S, state func(S) string, convert func(S) T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if isGone(state(item)) {
			continue
		}
		out = append(out, convert(item))
	}
	return out
}

func isGone(state string) bool {
	switch strings.ToUpper(state) {
	case "TERMINATED", "TERMINATING", "DELETED", "DELETING", "DETACHED":
		return true
	}
	return false
}

func newBase(scope Scope, id, name *string, state string, created *common.SDKTime) Base {
	return Base{
		ID:              deref(id),
		Name:            deref(name),
		CompartmentID:   scope.Compartment.ID,
		CompartmentName: scope.Compartment.Name,
		RegionName:      scope.Region,
		LifecycleState:  state,
		TimeCreated:     sdkTime(created),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	return b != nil && *b
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func derefInt64(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}

func derefFloat32(f *float32) float32 {
	if f == nil {
		return 0
	}
	return *f
}

func sdkTime(t *common.SDKTime) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// targetKindFromOCID reads the resource type segment of an OCID,
// e.g. ocid1.drg.oc1.iad.xxx is a DRG
func targetKindFromOCID(ocid string) TargetKind {
	parts := strings.SplitN(ocid, ".", 3)
	if len(parts) < 2 || parts[0] != "ocid1" {
		return TargetUnknown
	}
	switch parts[1] {
	case "privateip":
		return TargetPrivateIP
	case "drg":
		return TargetDRG
	case "internetgateway":
		return TargetIGW
	case "natgateway":
		return TargetNAT
	case "servicegateway":
		return TargetSGW
	case "localpeeringgateway":
		return TargetLPG
	default:
		return TargetUnknown
	}
}
