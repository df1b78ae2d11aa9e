package main

import (
	"fmt"
)

// maxPredicates is the widest AND-match the lookup engine supports
const maxPredicates = 3

// Predicate matches records whose field (by json name) equals Value
type Predicate struct {
	Field string
	Value string
}

// Where builds an equality predicate
func Where(field, value string) Predicate {
	return Predicate{Field: field, Value: value}
}

func (p Predicate) String() string {
	return fmt.Sprintf("%s=%q", p.Field, p.Value)
}

// FindOne returns the first record of a section, in insertion order, that matches
// every predicate. An unknown section or no match yields found=false. A failure
// inside the lookup is counted as a processing error on the run and also yields
// found=false, so a broken join degrades to an unresolved relationship.
func FindOne[T any](run *Run, key SectionKey[T], preds ...Predicate) (record T, found bool) {
	defer func() {
		if r := recover(); r != nil {
			run.ProcessingError("lookup %s %v: %v", key, preds, r)
			var zero T
			record, found = zero, false
		}
	}()

	if err := checkPredicates(preds); err != nil {
		run.ProcessingError("lookup %s: %v", key, err)
		return record, false
	}

	store := run.Store
	store.mu.RLock()
	defer store.mu.RUnlock()

	sec, ok := sectionOf(store, key)
	if !ok {
		return record, false
	}

	// the id index keeps first-match semantics: it only stores the first occurrence
	if len(preds) == 1 && preds[0].Field == "id" && preds[0].Value != "" {
		if i, ok := sec.byID[preds[0].Value]; ok {
			return sec.items[i], true
		}
		return record, false
	}

	for _, item := range sec.items {
		if matchesAll(item, preds) {
			return item, true
		}
	}
	return record, false
}

// FindAll returns every record of a section that matches all predicates, in
// insertion order. An unknown section or a failed lookup yields an empty slice.
func FindAll[T any](run *Run, key SectionKey[T], preds ...Predicate) (records []T) {
	defer func() {
		if r := recover(); r != nil {
			run.ProcessingError("lookup %s %v: %v", key, preds, r)
			records = []T{}
		}
	}()

	records = []T{}
	if err := checkPredicates(preds); err != nil {
		run.ProcessingError("lookup %s: %v", key, err)
		return records
	}

	store := run.Store
	store.mu.RLock()
	defer store.mu.RUnlock()

	sec, ok := sectionOf(store, key)
	if !ok {
		return records
	}

	for _, item := range sec.items {
		if matchesAll(item, preds) {
			records = append(records, item)
		}
	}
	return records
}

func checkPredicates(preds []Predicate) error {
	if len(preds) == 0 || len(preds) > maxPredicates {
		return fmt.Errorf("expected 1 to %d predicates, got %d", maxPredicates, len(preds))
	}
	for _, p := range preds {
		if p.Field == "" {
			return fmt.Errorf("predicate with empty field name")
		}
	}
	return nil
}

// matchesAll excludes a record lacking any predicate field rather than failing
func matchesAll(record any, preds []Predicate) bool {
	for _, p := range preds {
		value, ok := fieldString(record, p.Field)
		if !ok || value != p.Value {
			return false
		}
	}
	return true
}
