package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFixture() *Run {
	run := NewRun(nil)
	Append(run.Store, SecSubnet,
		Subnet{Base: base("s1", "web", "comp1", testHome), VcnID: "vcn1"},
		Subnet{Base: base("s2", "db", "comp1", testHome), VcnID: "vcn1"},
		Subnet{Base: base("s3", "web", "comp2", testRegion2), VcnID: "vcn2"},
		Subnet{Base: base("s1", "shadowed", "comp1", testHome), VcnID: "vcn1"},
	)
	return run
}

func TestFindOne_FirstMatchInInsertionOrder(t *testing.T) {
	run := lookupFixture()

	tests := []struct {
		name   string
		preds  []Predicate
		wantID string
		wantOK bool
		wantNm string
	}{
		{"by id uses first occurrence", []Predicate{Where("id", "s1")}, "s1", true, "web"},
		{"one predicate", []Predicate{Where("vcn_id", "vcn1")}, "s1", true, "web"},
		{"two predicates", []Predicate{Where("name", "web"), Where("region_name", testRegion2)}, "s3", true, "web"},
		{"three predicates", []Predicate{Where("vcn_id", "vcn1"), Where("name", "db"), Where("compartment_id", "comp1")}, "s2", true, "db"},
		{"no match", []Predicate{Where("vcn_id", "vcn9")}, "", false, ""},
		{"unknown id", []Predicate{Where("id", "missing")}, "", false, ""},
		{"field absent on record type", []Predicate{Where("drg_id", "x")}, "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindOne(run, SecSubnet, tt.preds...)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, got.ID)
			assert.Equal(t, tt.wantNm, got.Name)
		})
	}
	assert.Equal(t, int64(0), run.Counts().ProcessingErrors)
}

func TestFindOne_UnknownSection(t *testing.T) {
	run := NewRun(nil)

	_, ok := FindOne(run, SecDrg, Where("id", "drg1"))

	assert.False(t, ok)
	assert.Equal(t, int64(0), run.Counts().ProcessingErrors)
}

func TestFindAll_InsertionOrder(t *testing.T) {
	run := lookupFixture()

	got := FindAll(run, SecSubnet, Where("vcn_id", "vcn1"), Where("region_name", testHome))

	require.Len(t, got, 3)
	assert.Equal(t, []string{"web", "db", "shadowed"}, []string{got[0].Name, got[1].Name, got[2].Name})
}

func TestFindAll_EmptyNotNil(t *testing.T) {
	run := lookupFixture()

	unknown := FindAll(run, SecIGW, Where("vcn_id", "vcn1"))
	noMatch := FindAll(run, SecSubnet, Where("vcn_id", "vcn9"))

	assert.NotNil(t, unknown)
	assert.Empty(t, unknown)
	assert.NotNil(t, noMatch)
	assert.Empty(t, noMatch)
}

func TestLookup_BadPredicatesCountProcessingError(t *testing.T) {
	run := lookupFixture()

	_, ok := FindOne(run, SecSubnet)
	assert.False(t, ok)

	all := FindAll(run, SecSubnet,
		Where("id", "s1"), Where("name", "web"), Where("vcn_id", "vcn1"), Where("region_name", testHome))
	assert.Empty(t, all)

	_, ok = FindOne(run, SecSubnet, Where("", "x"))
	assert.False(t, ok)

	assert.Equal(t, int64(3), run.Counts().ProcessingErrors)
}

func TestLookup_TypeMismatchDegradesToUnresolved(t *testing.T) {
	run := NewRun(nil)
	// a second key with the same (module, section) but another record type
	wrong := newSectionKey[Drg](ModuleNetwork, "vcn")
	Append(run.Store, SecVcn, Vcn{Base: Base{ID: "vcn1"}})

	_, ok := FindOne(run, wrong, Where("id", "vcn1"))
	all := FindAll(run, wrong, Where("id", "vcn1"))

	assert.False(t, ok)
	assert.Empty(t, all)
	assert.Equal(t, int64(2), run.Counts().ProcessingErrors)
}
