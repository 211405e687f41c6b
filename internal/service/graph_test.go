package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchlens/internal/registry"
)

func testRegistry(t *testing.T, profiles []registry.ModelProfile) *registry.Registry {
	t.Helper()
	reg, err := registry.New(profiles)
	require.NoError(t, err)
	return reg
}

func profile(name string, deps ...string) registry.ModelProfile {
	return registry.ModelProfile{
		Name:      name,
		Category:  "TEST",
		DependsOn: deps,
		Fields: []registry.FieldSignature{
			{CanonicalName: name + "_key", Required: true, Weight: registry.WeightRequired},
		},
	}
}

func present(models ...string) map[string][]string {
	out := make(map[string][]string, len(models))
	for _, m := range models {
		out[m] = []string{m + ".csv"}
	}
	return out
}

func TestTopoOrder_Linear(t *testing.T) {
	reg := testRegistry(t, []registry.ModelProfile{
		profile("A"),
		profile("B", "A"),
		profile("C", "B"),
	})

	g := buildModelGraph(reg, present("A", "B", "C"))
	order, diags := g.topoOrder()

	assert.Equal(t, []string{"A", "B", "C"}, order)
	assert.Empty(t, diags)
}

func TestTopoOrder_TiesBreakLexicographically(t *testing.T) {
	reg := testRegistry(t, []registry.ModelProfile{
		profile("Zeta"),
		profile("Alpha"),
		profile("Mid", "Zeta", "Alpha"),
	})

	g := buildModelGraph(reg, present("Zeta", "Alpha", "Mid"))
	order, diags := g.topoOrder()

	assert.Equal(t, []string{"Alpha", "Zeta", "Mid"}, order)
	assert.Empty(t, diags)
}

func TestTopoOrder_AbsentDependenciesContributeNoEdges(t *testing.T) {
	reg := testRegistry(t, []registry.ModelProfile{
		profile("A"),
		profile("B", "A"),
	})

	// A declared but not detected in this batch.
	g := buildModelGraph(reg, present("B"))
	order, diags := g.topoOrder()

	assert.Equal(t, []string{"B"}, order)
	assert.Empty(t, diags)
}

func TestTopoOrder_TwoNodeCycle(t *testing.T) {
	reg := testRegistry(t, []registry.ModelProfile{
		profile("A", "B"),
		profile("B", "A"),
	})

	g := buildModelGraph(reg, present("A", "B"))
	order, diags := g.topoOrder()

	assert.Equal(t, []string{"A", "B"}, order)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0], "dropped dependency B -> A")
}

func TestTopoOrder_CycleWithTail(t *testing.T) {
	// C and D depend on each other; E hangs off D.
	reg := testRegistry(t, []registry.ModelProfile{
		profile("C", "D"),
		profile("D", "C"),
		profile("E", "D"),
	})

	g := buildModelGraph(reg, present("C", "D", "E"))
	order, diags := g.topoOrder()

	require.Len(t, order, 3)
	require.Len(t, diags, 1)
	// D -> C dropped, leaving C -> D -> E.
	assert.Equal(t, []string{"C", "D", "E"}, order)
}

func TestTopoOrder_EmptyGraph(t *testing.T) {
	reg := testRegistry(t, nil)

	g := buildModelGraph(reg, map[string][]string{})
	order, diags := g.topoOrder()

	assert.Empty(t, order)
	assert.Empty(t, diags)
}
