package main

import (
	"context"
	"fmt"

	"github.com/oracle/oci-go-sdk/v65/core"
)

func (s *ociSource) ListInstances(ctx context.Context, scope Scope) ([]Instance, error) {
	items, err := paginate(ctx, func(page *string) ([]core.Instance, *string, error) {
		resp, err := s.clients.ComputeClient.ListInstances(ctx, core.ListInstancesRequest{
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
		func(i core.Instance) string { return string(i.LifecycleState) },
		func(i core.Instance) Instance {
			inst := Instance{
				Base:               newBase(scope, i.Id, i.DisplayName, string(i.LifecycleState), i.TimeCreated),
				AvailabilityDomain: deref(i.AvailabilityDomain),
				FaultDomain:        deref(i.FaultDomain),
				Shape:              deref(i.Shape),
				ImageID:            deref(i.ImageId),
			}
			if i.ShapeConfig != nil {
				inst.Ocpus = derefFloat32(i.ShapeConfig.Ocpus)
				inst.MemoryInGBs = derefFloat32(i.ShapeConfig.MemoryInGBs)
			}
			return inst
		}), nil
}

// ListVnics walks the VNIC attachments of the compartment and merges each
// attached VNIC's detail into one record.
func (s *ociSource) ListVnics(ctx context.Context, scope Scope) ([]Vnic, error) {
	attachments, err := paginate(ctx, func(page *string) ([]core.VnicAttachment, *string, error) {
		resp, err := s.clients.ComputeClient.ListVnicAttachments(ctx, core.ListVnicAttachmentsRequest{
			CompartmentId:   &scope.Compartment.ID,
			Page:            page,
			RequestMetadata: s.meta(),
		})
		return resp.Items, resp.OpcNextPage, err
	})
	if err != nil {
		return nil, err
	}

	var vnics []Vnic
	for _, a := range attachments {
		if a.LifecycleState != core.VnicAttachmentLifecycleStateAttached || a.VnicId == nil {
			continue
		}

		resp, err := s.clients.VirtualNetworkClient.GetVnic(ctx, core.GetVnicRequest{
			VnicId:          a.VnicId,
			RequestMetadata: s.meta(),
		})
		if err != nil {
			return nil, fmt.Errorf("get vnic %s: %w", deref(a.VnicId), err)
		}
		v := resp.Vnic

		vnics = append(vnics, Vnic{
			Base:                newBase(scope, v.Id, v.DisplayName, string(v.LifecycleState), v.TimeCreated),
			InstanceID:          deref(a.InstanceId),
			AttachmentID:        deref(a.Id),
			NicIndex:            derefInt(a.NicIndex),
			SubnetID:            deref(v.SubnetId),
			NsgIDs:              v.NsgIds,
			PrivateIP:           deref(v.PrivateIp),
			PublicIP:            deref(v.PublicIp),
			HostnameLabel:       deref(v.HostnameLabel),
			IsPrimary:           derefBool(v.IsPrimary),
			SkipSourceDestCheck: derefBool(v.SkipSourceDestCheck),
		})
	}
	return vnics, nil
}

func (s *ociSource) ListBootVolumeAttachments(ctx context.Context, scope Scope, availabilityDomain string) ([]BootVolumeAttachment, error) {
	items, err := paginate(ctx, func(page *string) ([]core.BootVolumeAttachment, *string, error) {
		resp, err := s.clients.ComputeClient.ListBootVolumeAttachments(ctx, core.ListBootVolumeAttachmentsRequest{
			AvailabilityDomain: &availabilityDomain,
			CompartmentId:      &scope.Compartment.ID,
			Page:               page,
			RequestMetadata:    s.meta(),
		})
		return resp.Items, resp.OpcNextPage, err
	})
	if err != nil {
		return nil, err
	}
	return mapLive(items,
		func(a core.BootVolumeAttachment) string { return string(a.LifecycleState) },
		func(a core.BootVolumeAttachment) BootVolumeAttachment {
			return BootVolumeAttachment{
				Base:               newBase(scope, a.Id, a.DisplayName, string(a.LifecycleState), a.TimeCreated),
				InstanceID:         deref(a.InstanceId),
				BootVolumeID:       deref(a.BootVolumeId),
				AvailabilityDomain: deref(a.AvailabilityDomain),
			}
		}), nil
}

func (s *ociSource) ListVolumeAttachments(ctx context.Context, scope Scope) ([]VolumeAttachment, error) {
	items, err := paginate(ctx, func(page *string) ([]core.VolumeAttachment, *string, error) {
		resp, err := s.clients.ComputeClient.ListVolumeAttachments(ctx, core.ListVolumeAttachmentsRequest{
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
		func(a core.VolumeAttachment) string { return string(a.GetLifecycleState()) },
		func(a core.VolumeAttachment) VolumeAttachment {
			return VolumeAttachment{
				Base:           newBase(scope, a.GetId(), a.GetDisplayName(), string(a.GetLifecycleState()), a.GetTimeCreated()),
				InstanceID:     deref(a.GetInstanceId()),
				VolumeID:       deref(a.GetVolumeId()),
				AttachmentType: volumeAttachmentType(a),
				Device:         deref(a.GetDevice()),
				ReadOnly:       derefBool(a.GetIsReadOnly()),
			}
		}), nil
}

func volumeAttachmentType(a core.VolumeAttachment) string {
	switch a.(type) {
	case core.IScsiVolumeAttachment, *core.IScsiVolumeAttachment:
		return "iscsi"
	case core.ParavirtualizedVolumeAttachment, *core.ParavirtualizedVolumeAttachment:
		return "paravirtualized"
	case core.EmulatedVolumeAttachment, *core.EmulatedVolumeAttachment:
		return "emulated"
	default:
		return "unknown"
	}
}

func (s *ociSource) ListBlockVolumes(ctx context.Context, scope Scope) ([]BlockVolume, error) {
	items, err := paginate(ctx, func(page *string) ([]core.Volume, *string, error) {
		resp, err := s.clients.BlockStorageClient.ListVolumes(ctx, core.ListVolumesRequest{
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
		func(v core.Volume) string { return string(v.LifecycleState) },
		func(v core.Volume) BlockVolume {
			return BlockVolume{
				Base:               newBase(scope, v.Id, v.DisplayName, string(v.LifecycleState), v.TimeCreated),
				AvailabilityDomain: deref(v.AvailabilityDomain),
				SizeInGBs:          derefInt64(v.SizeInGBs),
				VpusPerGB:          derefInt64(v.VpusPerGB),
			}
		}), nil
}

func (s *ociSource) ListBootVolumes(ctx context.Context, scope Scope) ([]BootVolume, error) {
	items, err := paginate(ctx, func(page *string) ([]core.BootVolume, *string, error) {
		resp, err := s.clients.BlockStorageClient.ListBootVolumes(ctx, core.ListBootVolumesRequest{
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
		func(v core.BootVolume) string { return string(v.LifecycleState) },
		func(v core.BootVolume) BootVolume {
			return BootVolume{
				Base:               newBase(scope, v.Id, v.DisplayName, string(v.LifecycleState), v.TimeCreated),
				AvailabilityDomain: deref(v.AvailabilityDomain),
				SizeInGBs:          derefInt64(v.SizeInGBs),
				VpusPerGB:          derefInt64(v.VpusPerGB),
				ImageID:            deref(v.ImageId),
			}
		}), nil
}
