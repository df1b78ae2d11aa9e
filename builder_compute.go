package main

import (
	"strings"
)

func (b *Builder) buildCompute(region string, c Compartment) *ComputeReport {
	where := inCompartment(region, c)
	cr := &ComputeReport{}

	for _, inst := range FindAll(b.run, SecInstance, where...) {
		cr.Instances = append(cr.Instances, b.instanceNode(region, inst))
	}

	for _, vol := range FindAll(b.run, SecBlockVolume, where...) {
		if _, attached := FindOne(b.run, SecVolumeAttachment, Where("volume_id", vol.ID)); attached {
			continue
		}
		cr.BlockVolumes = append(cr.BlockVolumes, VolumeNode{
			ID:        vol.ID,
			Name:      vol.Name,
			SizeInGBs: vol.SizeInGBs,
			VpusPerGB: vol.VpusPerGB,
			Details:   vol.AvailabilityDomain,
		})
	}
	for _, vol := range FindAll(b.run, SecBootVolume, where...) {
		if _, attached := FindOne(b.run, SecBootVolumeAttachment, Where("boot_volume_id", vol.ID)); attached {
			continue
		}
		cr.BootVolumes = append(cr.BootVolumes, VolumeNode{
			ID:        vol.ID,
			Name:      vol.Name,
			SizeInGBs: vol.SizeInGBs,
			VpusPerGB: vol.VpusPerGB,
			Details:   vol.AvailabilityDomain,
		})
	}

	if len(cr.Instances) == 0 && len(cr.BlockVolumes) == 0 && len(cr.BootVolumes) == 0 {
		return nil
	}
	return cr
}

func (b *Builder) instanceNode(region string, inst Instance) InstanceNode {
	node := InstanceNode{
		ID:                 inst.ID,
		Name:               inst.Name,
		Shape:              inst.Shape,
		Ocpus:              inst.Ocpus,
		MemoryInGBs:        inst.MemoryInGBs,
		AvailabilityDomain: inst.AvailabilityDomain,
		FaultDomain:        inst.FaultDomain,
		LifecycleState:     inst.LifecycleState,
		TimeCreated:        inst.TimeCreated,
		Vnics:              []VnicNode{},
		BlockVolumes:       []VolumeNode{},
	}
	ofInstance := []Predicate{Where("instance_id", inst.ID), Where("region_name", region)}

	for _, v := range FindAll(b.run, SecVnic, ofInstance...) {
		subnet := orNotFound(v.SubnetName, v.SubnetID)
		if s, ok := FindOne(b.run, SecSubnet, Where("id", v.SubnetID)); ok {
			subnet = b.nameIn(subnet, s.CompartmentID, inst.CompartmentID)
		}
		node.Vnics = append(node.Vnics, VnicNode{
			Name:      v.Name,
			PrivateIP: v.PrivateIP,
			PublicIP:  v.PublicIP,
			Subnet:    subnet,
			Nsgs:      v.NsgNames,
			IsPrimary: v.IsPrimary,
		})
	}

	if bva, ok := FindOne(b.run, SecBootVolumeAttachment, ofInstance...); ok {
		boot := VolumeNode{ID: bva.BootVolumeID, Name: notFound}
		if vol, ok := FindOne(b.run, SecBootVolume, Where("id", bva.BootVolumeID)); ok {
			boot = VolumeNode{
				ID:        vol.ID,
				Name:      b.nameIn(vol.Name, vol.CompartmentID, inst.CompartmentID),
				SizeInGBs: vol.SizeInGBs,
				VpusPerGB: vol.VpusPerGB,
			}
		}
		node.BootVolume = &boot
	}

	for _, att := range FindAll(b.run, SecVolumeAttachment, ofInstance...) {
		vol := VolumeNode{ID: att.VolumeID, Name: notFound, Details: attachmentText(att)}
		if bv, ok := FindOne(b.run, SecBlockVolume, Where("id", att.VolumeID)); ok {
			vol.Name = b.nameIn(bv.Name, bv.CompartmentID, inst.CompartmentID)
			vol.SizeInGBs = bv.SizeInGBs
			vol.VpusPerGB = bv.VpusPerGB
		}
		node.BlockVolumes = append(node.BlockVolumes, vol)
	}
	return node
}

func attachmentText(att VolumeAttachment) string {
	parts := []string{att.AttachmentType}
	if att.Device != "" {
		parts = append(parts, att.Device)
	}
	if att.ReadOnly {
		parts = append(parts, "read-only")
	}
	return strings.Join(parts, " ")
}
