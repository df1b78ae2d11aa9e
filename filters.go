package main

import (
	"fmt"
	"strings"
)

// ScopeFilter narrows the regions and compartments a run visits
type ScopeFilter struct {
	Region                  string   `yaml:"region"`
	CompartmentID           string   `yaml:"compartment_id"`
	Compartment             string   `yaml:"compartment"`
	CompartmentPath         string   `yaml:"compartment_path"`
	CompartmentPathContains string   `yaml:"compartment_path_contains"`
	ExcludeCompartments     []string `yaml:"exclude_compartments"`
}

// compartmentFilterKinds lists the compartment filter kinds that are set
func (f ScopeFilter) compartmentFilterKinds() []string {
	var kinds []string
	if f.CompartmentID != "" {
		kinds = append(kinds, "compartment_id")
	}
	if f.Compartment != "" {
		kinds = append(kinds, "compartment")
	}
	if f.CompartmentPath != "" {
		kinds = append(kinds, "compartment_path")
	}
	if f.CompartmentPathContains != "" {
		kinds = append(kinds, "compartment_path_contains")
	}
	return kinds
}

// Validate checks the filter. Compartment filter kinds cannot be combined.
func (f ScopeFilter) Validate() error {
	if kinds := f.compartmentFilterKinds(); len(kinds) > 1 {
		return fmt.Errorf("only one compartment filter may be set, got %s", strings.Join(kinds, ", "))
	}

	if f.CompartmentID != "" && !isValidCompartmentOCID(f.CompartmentID) {
		return fmt.Errorf("invalid compartment OCID format: %s", f.CompartmentID)
	}
	for _, ocid := range f.ExcludeCompartments {
		if !isValidCompartmentOCID(ocid) {
			return fmt.Errorf("invalid compartment OCID format: %s", ocid)
		}
	}
	return nil
}

// ApplyCompartmentFilter selects the compartments to scan. With no filter every
// compartment is returned. Results are in path order with each id at most once.
func ApplyCompartmentFilter(compartments []Compartment, filter ScopeFilter) []Compartment {
	var matches []Compartment

	switch {
	case filter.CompartmentID != "":
		for _, c := range compartments {
			if c.ID == filter.CompartmentID {
				matches = append(matches, c)
			}
		}

	case filter.Compartment != "":
		needle := strings.ToLower(filter.Compartment)
		for _, c := range compartments {
			if strings.Contains(strings.ToLower(c.Name), needle) || strings.Contains(c.ID, filter.Compartment) {
				matches = append(matches, c)
			}
		}

	case filter.CompartmentPath != "":
		for _, c := range compartments {
			if c.Path == filter.CompartmentPath {
				matches = append(matches, c)
			}
		}

	case filter.CompartmentPathContains != "":
		needle := strings.ToLower(filter.CompartmentPathContains)
		for _, c := range compartments {
			if strings.Contains(strings.ToLower(c.Path), needle) {
				matches = append(matches, c)
			}
		}

	default:
		matches = compartments
	}

	seen := make(map[string]bool, len(matches))
	filtered := make([]Compartment, 0, len(matches))
	for _, c := range matches {
		if seen[c.ID] || stringInSlice(c.ID, filter.ExcludeCompartments) {
			continue
		}
		seen[c.ID] = true
		filtered = append(filtered, c)
	}
	return filtered
}

// ApplyRegionFilter keeps READY regions whose name contains the region filter
func ApplyRegionFilter(regions []Region, filter ScopeFilter) []Region {
	needle := strings.ToLower(filter.Region)

	var filtered []Region
	for _, r := range regions {
		if r.Status != "" && !strings.EqualFold(r.Status, "READY") {
			logger.Verbose("Skipping region %s in status %s", r.Name, r.Status)
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(r.Name), needle) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// isValidCompartmentOCID validates the OCID format for compartments.
// The tenancy OCID addresses the root compartment.
func isValidCompartmentOCID(ocid string) bool {
	return strings.HasPrefix(ocid, "ocid1.compartment.") || strings.HasPrefix(ocid, "ocid1.tenancy.")
}

// stringInSlice checks if a string exists in a slice
func stringInSlice(str string, slice []string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}

// ParseCompartmentList parses a comma-separated string of compartment OCIDs
func ParseCompartmentList(input string) []string {
	if input == "" {
		return nil
	}

	var result []string
	ocids := strings.Split(input, ",")
	for _, ocid := range ocids {
		trimmed := strings.TrimSpace(ocid)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
