package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/btree"
)

const compartmentActive = "ACTIVE"

// rootPath is the materialized path of the tenancy root compartment
func rootPath(tenancyName string) string {
	return fmt.Sprintf("/ %s (root)", tenancyName)
}

// childPath extends a parent path by one compartment name
func childPath(parentPath, name string) string {
	return parentPath + " / " + name
}

// CompartmentIndex holds the ACTIVE compartments of a tenancy, ordered by path
// and addressable by id.
type CompartmentIndex struct {
	byPath *btree.BTreeG[Compartment]
	byID   map[string]Compartment
	rootID string
}

// NewCompartmentIndex creates an empty compartment index
func NewCompartmentIndex() *CompartmentIndex {
	return &CompartmentIndex{
		byPath: btree.NewG(8, func(a, b Compartment) bool {
			if a.Path == b.Path {
				return a.ID < b.ID
			}
			return a.Path < b.Path
		}),
		byID: make(map[string]Compartment),
	}
}

// Add inserts a compartment; a repeated id is ignored
func (idx *CompartmentIndex) Add(c Compartment) {
	if _, exists := idx.byID[c.ID]; exists {
		return
	}
	if c.IsRoot {
		idx.rootID = c.ID
	}
	idx.byID[c.ID] = c
	idx.byPath.ReplaceOrInsert(c)
}

// Get returns the compartment with the given id
func (idx *CompartmentIndex) Get(id string) (Compartment, bool) {
	c, ok := idx.byID[id]
	return c, ok
}

// Root returns the synthesized tenancy root
func (idx *CompartmentIndex) Root() (Compartment, bool) {
	return idx.Get(idx.rootID)
}

// PathOf returns the materialized path of a compartment, or "" when unknown
func (idx *CompartmentIndex) PathOf(id string) string {
	return idx.byID[id].Path
}

// NameOf returns the compartment name, or "" when unknown
func (idx *CompartmentIndex) NameOf(id string) string {
	return idx.byID[id].Name
}

// All returns every compartment in path order
func (idx *CompartmentIndex) All() []Compartment {
	out := make([]Compartment, 0, idx.byPath.Len())
	idx.byPath.Ascend(func(c Compartment) bool {
		out = append(out, c)
		return true
	})
	return out
}

// Len returns the number of compartments
func (idx *CompartmentIndex) Len() int {
	return idx.byPath.Len()
}

// buildCompartmentTree expands the compartment hierarchy depth-first from the
// tenancy root. Only ACTIVE compartments are kept. A failure listing the root's
// children aborts; failures deeper in the tree are classified and may be skipped.
func buildCompartmentTree(ctx context.Context, run *Run, src IdentitySource, tenancy Tenancy) (*CompartmentIndex, error) {
	idx := NewCompartmentIndex()

	root := Compartment{
		ID:             tenancy.ID,
		Name:           tenancy.Name,
		Description:    tenancy.Description,
		Path:           rootPath(tenancy.Name),
		IsAccessible:   true,
		LifecycleState: compartmentActive,
		IsRoot:         true,
	}
	idx.Add(root)

	var expand func(parent Compartment) error
	expand = func(parent Compartment) error {
		children, err := src.ListCompartments(ctx, parent.ID)
		if err != nil {
			if parent.IsRoot {
				return fmt.Errorf("failed to list compartments: %w", err)
			}
			return run.tolerate(err, fmt.Sprintf("compartments under %s", parent.Path))
		}

		for _, child := range children {
			if !strings.EqualFold(child.LifecycleState, compartmentActive) {
				logger.Debug("Skipping compartment %s in state %s", child.Name, child.LifecycleState)
				continue
			}
			child.ParentID = parent.ID
			child.Path = childPath(parent.Path, child.Name)
			child.Depth = parent.Depth + 1
			idx.Add(child)

			if err := expand(child); err != nil {
				return err
			}
		}
		return nil
	}

	if err := expand(root); err != nil {
		return nil, err
	}

	logger.Verbose("Loaded %d compartments", idx.Len())
	return idx, nil
}
