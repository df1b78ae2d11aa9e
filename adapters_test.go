package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetKindFromOCID(t *testing.T) {
	tests := []struct {
		ocid string
		want TargetKind
	}{
		{"ocid1.privateip.oc1.iad.aaaa", TargetPrivateIP},
		{"ocid1.drg.oc1.iad.aaaa", TargetDRG},
		{"ocid1.internetgateway.oc1.iad.aaaa", TargetIGW},
		{"ocid1.natgateway.oc1.iad.aaaa", TargetNAT},
		{"ocid1.servicegateway.oc1.iad.aaaa", TargetSGW},
		{"ocid1.localpeeringgateway.oc1.iad.aaaa", TargetLPG},
		{"ocid1.vcn.oc1.iad.aaaa", TargetUnknown},
		{"drg", TargetUnknown},
		{"", TargetUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.ocid, func(t *testing.T) {
			assert.Equal(t, tt.want, targetKindFromOCID(tt.ocid))
		})
	}
}

func TestPaginate(t *testing.T) {
	pages := map[string][]int{"": {1, 2}, "p2": {3}, "p3": {4, 5}}
	next := map[string]*string{"": common.String("p2"), "p2": common.String("p3"), "p3": nil}

	var seen []string
	got, err := paginate(context.Background(), func(page *string) ([]int, *string, error) {
		key := deref(page)
		seen = append(seen, key)
		return pages[key], next[key], nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	assert.Equal(t, []string{"", "p2", "p3"}, seen)
}

func TestPaginate_Errors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	_, err := paginate(context.Background(), func(page *string) ([]int, *string, error) {
		calls++
		if calls == 2 {
			return nil, nil, boom
		}
		return []int{calls}, common.String("more"), nil
	})
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = paginate(ctx, func(page *string) ([]int, *string, error) {
		t.Fatal("fetch called on a cancelled context")
		return nil, nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMapLive(t *testing.T) {
	items := []core.Vcn{
		{Id: common.String("v1"), LifecycleState: core.VcnLifecycleStateAvailable},
		{Id: common.String("v2"), LifecycleState: core.VcnLifecycleStateTerminated},
		{Id: common.String("v3"), LifecycleState: core.VcnLifecycleStateTerminating},
		{Id: common.String("v4"), LifecycleState: core.VcnLifecycleStateProvisioning},
	}

	got := mapLive(items,
		func(v core.Vcn) string { return string(v.LifecycleState) },
		func(v core.Vcn) string { return deref(v.Id) })

	assert.Equal(t, []string{"v1", "v4"}, got)
}

func TestNewBase(t *testing.T) {
	created := common.SDKTime{Time: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	scope := Scope{Region: testHome, Compartment: Compartment{ID: prodID, Name: "prod"}}

	b := newBase(scope, common.String("id1"), nil, "AVAILABLE", &created)

	assert.Equal(t, Base{
		ID:              "id1",
		CompartmentID:   prodID,
		CompartmentName: "prod",
		RegionName:      testHome,
		LifecycleState:  "AVAILABLE",
		TimeCreated:     "2024-03-01T12:00:00Z",
	}, b)
}

func TestDerefHelpers(t *testing.T) {
	assert.Equal(t, "", deref(nil))
	assert.False(t, derefBool(nil))
	assert.True(t, derefBool(common.Bool(true)))
	assert.Equal(t, 0, derefInt(nil))
	assert.Equal(t, int64(7), derefInt64(common.Int64(7)))
	assert.Equal(t, float32(1.5), derefFloat32(common.Float32(1.5)))
	assert.Equal(t, "", sdkTime(nil))
}

func TestProtocolAndPorts(t *testing.T) {
	assert.Equal(t, "tcp", protocolName("6"))
	assert.Equal(t, "udp", protocolName("17"))
	assert.Equal(t, "icmp", protocolName("1"))
	assert.Equal(t, "all", protocolName("all"))
	assert.Equal(t, "47", protocolName("47"))

	assert.Equal(t, "all", portRange(nil, nil))
	assert.Equal(t, "443", portRange(&core.TcpOptions{DestinationPortRange: &core.PortRange{Min: common.Int(443), Max: common.Int(443)}}, nil))
	assert.Equal(t, "1521-1522", portRange(nil, &core.UdpOptions{DestinationPortRange: &core.PortRange{Min: common.Int(1521), Max: common.Int(1522)}}))
}

func TestVolumeAttachmentType(t *testing.T) {
	assert.Equal(t, "iscsi", volumeAttachmentType(core.IScsiVolumeAttachment{}))
	assert.Equal(t, "paravirtualized", volumeAttachmentType(core.ParavirtualizedVolumeAttachment{}))
	assert.Equal(t, "emulated", volumeAttachmentType(&core.EmulatedVolumeAttachment{}))
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/oci")

	assert.Equal(t, "/home/oci/.oci/config", expandHome("~/.oci/config"))
	assert.Equal(t, "/etc/oci/config", expandHome("/etc/oci/config"))
}
