package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systeminit/si-sub002/content"
	"github.com/systeminit/si-sub002/idgen"
	"github.com/systeminit/si-sub002/weight"
)

func addCategoryNode(t *testing.T, g *Graph, gen *idgen.Generator, kind weight.CategoryKind) NodeIndex {
	t.Helper()
	id, lineage := mintPair(t, gen)
	idx := g.AddOrReplaceNode(weight.NewCategoryNodeWeight(id, lineage, kind))
	g.AddEdge(g.RootIndex(), weight.NewUseEdgeWeight(false), idx)
	return idx
}

// Import containment: the imported node set is the component's descendant closure
// minus cross-component AttributePrototypeArguments and minus nodes the destination
// already holds by id+lineage.
func TestImportComponentSubgraph_Containment(t *testing.T) {
	gen := idgen.New()
	store := newMemStore()

	other, err := New(gen, store)
	require.NoError(t, err)
	self, err := New(gen, store)
	require.NoError(t, err)

	// The schema variant exists in BOTH graphs with the same id+lineage.
	svId, svLineage := mintPair(t, gen)
	svHash := content.HashBytes([]byte("shared-variant"))
	otherSv := other.AddOrReplaceNode(weight.NewContentNodeWeight(svId, svLineage, weight.ContentAddressKindSchemaVariant, svHash))
	other.AddEdge(other.RootIndex(), weight.NewUseEdgeWeight(false), otherSv)
	selfSv := self.AddOrReplaceNode(weight.NewContentNodeWeight(svId, svLineage, weight.ContentAddressKindSchemaVariant, svHash))
	self.AddEdge(self.RootIndex(), weight.NewUseEdgeWeight(false), selfSv)

	// The destination needs Category nodes to hang imported Components/Funcs off.
	compCategory := addCategoryNode(t, self, gen, weight.CategoryKindComponent)
	addCategoryNode(t, self, gen, weight.CategoryKindFunc)

	// Build the component subtree in other.
	cId, cLineage := mintPair(t, gen)
	c := other.AddOrReplaceNode(weight.NewComponentNodeWeight(cId, cLineage, false))
	other.AddEdge(other.RootIndex(), weight.NewUseEdgeWeight(false), c)
	other.AddEdge(c, weight.NewUseEdgeWeight(false), otherSv)

	av1Id, av1Lineage := mintPair(t, gen)
	av1 := other.AddOrReplaceNode(weight.NewAttributeValueNodeWeight(av1Id, av1Lineage))
	other.AddEdge(c, weight.NewSimpleEdgeWeight(weight.EdgeKindSocketValue), av1)

	av2Id, av2Lineage := mintPair(t, gen)
	av2 := other.AddOrReplaceNode(weight.NewAttributeValueNodeWeight(av2Id, av2Lineage))
	other.AddEdge(c, weight.NewSimpleEdgeWeight(weight.EdgeKindSocketValue), av2)

	// One ordinary APA under av1, and one carrying cross-component targets that
	// leads to a foreign component.
	plainApaId, plainApaLineage := mintPair(t, gen)
	plainApa := other.AddOrReplaceNode(weight.NewAttributePrototypeArgumentNodeWeight(plainApaId, plainApaLineage, nil))
	other.AddEdge(av1, weight.NewSimpleEdgeWeight(weight.EdgeKindPrototypeArgument), plainApa)

	foreignId, foreignLineage := mintPair(t, gen)
	foreign := other.AddOrReplaceNode(weight.NewComponentNodeWeight(foreignId, foreignLineage, false))
	other.AddEdge(other.RootIndex(), weight.NewUseEdgeWeight(false), foreign)

	targetApaId, targetApaLineage := mintPair(t, gen)
	targetApa := other.AddOrReplaceNode(weight.NewAttributePrototypeArgumentNodeWeight(
		targetApaId, targetApaLineage,
		&weight.ArgumentTargets{SourceComponentId: cId, DestinationComponentId: foreignId},
	))
	other.AddEdge(av1, weight.NewSimpleEdgeWeight(weight.EdgeKindPrototypeArgument), targetApa)
	other.AddEdge(targetApa, weight.NewSimpleEdgeWeight(weight.EdgeKindPrototypeArgumentValue), foreign)

	require.NoError(t, self.ImportComponentSubgraph(other, c))

	// Imported: the component and its attribute values and plain APA.
	for _, id := range []idgen.ID{cId, av1Id, av2Id, plainApaId} {
		_, ok := self.NodeIndexById(id)
		assert.True(t, ok, "expected %s to be imported", id)
	}

	// Excluded: the cross-component APA and everything on its far side.
	for _, id := range []idgen.ID{targetApaId, foreignId} {
		_, ok := self.NodeIndexById(id)
		assert.False(t, ok, "expected %s to be pruned", id)
	}

	// The shared schema variant was not duplicated, and the imported component is
	// wired both to it and to the Component category.
	selfC, ok := self.NodeIndexById(cId)
	require.True(t, ok)

	var cTargets []NodeIndex
	for _, e := range self.EdgesDirected(selfC) {
		cTargets = append(cTargets, e.Target)
	}
	assert.Contains(t, cTargets, selfSv)

	var categoryTargets []NodeIndex
	for _, e := range self.EdgesDirected(compCategory) {
		categoryTargets = append(categoryTargets, e.Target)
	}
	assert.Contains(t, categoryTargets, selfC)

	assert.True(t, self.IsAcyclicDirected())
}

// A Component import with no Component category in the destination fails loudly.
func TestImportComponentSubgraph_MissingCategory(t *testing.T) {
	gen := idgen.New()
	store := newMemStore()

	other, err := New(gen, store)
	require.NoError(t, err)
	self, err := New(gen, store)
	require.NoError(t, err)

	cId, cLineage := mintPair(t, gen)
	c := other.AddOrReplaceNode(weight.NewComponentNodeWeight(cId, cLineage, false))
	other.AddEdge(other.RootIndex(), weight.NewUseEdgeWeight(false), c)

	err = self.ImportComponentSubgraph(other, c)
	require.ErrorIs(t, err, ErrCategoryNodeNotFound)

	var notFound *CategoryNodeNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, weight.CategoryKindComponent, notFound.Kind)
}
