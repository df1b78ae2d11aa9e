package main

import (
	"fmt"
)

// Builder turns the store of a completed region pass into report nodes.
// Every relationship is resolved through the lookup engine; nothing it
// returns refers back to the store.
type Builder struct {
	run          *Run
	compartments *CompartmentIndex
}

// NewBuilder creates a builder over the run's store
func NewBuilder(run *Run, compartments *CompartmentIndex) *Builder {
	if compartments == nil {
		compartments = NewCompartmentIndex()
	}
	return &Builder{run: run, compartments: compartments}
}

// BuildRegion builds the report of one region. Compartments without any
// resource in the region are left out.
func (b *Builder) BuildRegion(region string, compartments []Compartment) RegionReport {
	rr := RegionReport{Region: region, Compartments: []CompartmentReport{}}
	for _, c := range compartments {
		cr := b.Build(region, c)
		if cr.Empty() {
			continue
		}
		rr.Compartments = append(rr.Compartments, cr)
	}
	return rr
}

// Build builds the report of one compartment in one region. A failure inside
// one module is counted and leaves that module out of the compartment.
func (b *Builder) Build(region string, c Compartment) CompartmentReport {
	cr := CompartmentReport{
		CompartmentID:   c.ID,
		CompartmentName: c.Name,
		Path:            c.Path,
	}

	b.run.safely("network report of "+c.Path, func() {
		cr.Network = b.buildNetwork(region, c)
	})
	b.run.safely("compute report of "+c.Path, func() {
		cr.Compute = b.buildCompute(region, c)
	})
	b.run.safely("database report of "+c.Path, func() {
		cr.Database = b.buildDatabase(region, c)
	})
	return cr
}

// inCompartment selects the records of one compartment in one region
func inCompartment(region string, c Compartment) []Predicate {
	return []Predicate{Where("compartment_id", c.ID), Where("region_name", region)}
}

// lookupRef resolves an id to a named reference in a section
func lookupRef[T any](run *Run, key SectionKey[T], id string) Ref {
	if id == "" {
		return Ref{}
	}
	rec, ok := FindOne(run, key, Where("id", id))
	if !ok {
		return unresolvedRef(id)
	}
	name, _ := fieldString(rec, "name")
	return resolvedRef(id, name)
}

// nameIn appends the compartment path of a related object that lives in a
// different compartment than the object it is shown under
func (b *Builder) nameIn(name, objectCompartment, ownerCompartment string) string {
	if objectCompartment == "" || objectCompartment == ownerCompartment {
		return name
	}
	path := b.compartments.PathOf(objectCompartment)
	if path == "" {
		path = objectCompartment
	}
	return fmt.Sprintf("%s (Compartment=%s)", name, path)
}

// orNotFound renders a looked-up value, falling back to the sentinel when the
// reference was set but could not be resolved
func orNotFound(value, id string) string {
	if value != "" || id == "" {
		return value
	}
	return notFound
}
