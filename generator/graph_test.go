package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CeriosTesting/openapi-to-zod/parser"
)

func ref(name string) *parser.Schema {
	return &parser.Schema{Ref: "#/components/schemas/" + name}
}

func objectWith(props map[string]*parser.Schema) *parser.Schema {
	return &parser.Schema{Type: "object", Properties: props}
}

func TestRefSchemaName(t *testing.T) {
	tests := []struct {
		ref  string
		want string
		ok   bool
	}{
		{ref: "#/components/schemas/Pet", want: "Pet", ok: true},
		{ref: "#/definitions/Pet", want: "Pet", ok: true},
		{ref: "#/$defs/Pet", want: "Pet", ok: true},
		{ref: "#/components/schemas/", ok: false},
		{ref: "#/components/schemas/Pet/properties/id", ok: false},
		{ref: "http://example.com/schema.json", ok: false},
		{ref: "", ok: false},
	}

	for _, tt := range tests {
		name, ok := refSchemaName(tt.ref)
		assert.Equal(t, tt.ok, ok, "ref %q", tt.ref)
		if ok {
			assert.Equal(t, tt.want, name)
		}
	}
}

func TestSchemaGraph_NoCycles(t *testing.T) {
	g := buildSchemaGraph(map[string]*parser.Schema{
		"Order": objectWith(map[string]*parser.Schema{"pet": ref("Pet")}),
		"Pet":   objectWith(map[string]*parser.Schema{"name": {Type: "string"}}),
	})

	assert.Empty(t, g.circularNames())
	assert.False(t, g.isCircular("Order"))
	assert.Equal(t, []string{"Pet", "Order"}, g.order, "dependencies must precede dependents")
}

func TestSchemaGraph_SelfReference(t *testing.T) {
	g := buildSchemaGraph(map[string]*parser.Schema{
		"Node": objectWith(map[string]*parser.Schema{"next": ref("Node")}),
	})

	assert.Equal(t, []string{"Node"}, g.circularNames())
}

func TestSchemaGraph_MutualCycle(t *testing.T) {
	g := buildSchemaGraph(map[string]*parser.Schema{
		"A": objectWith(map[string]*parser.Schema{"b": ref("B")}),
		"B": objectWith(map[string]*parser.Schema{"a": ref("A")}),
	})

	assert.Equal(t, []string{"A", "B"}, g.circularNames())
	assert.True(t, g.sameCycle("A", "B"))
	assert.Len(t, g.order, 2, "cycle members still appear exactly once in the order")
}

func TestSchemaGraph_OneSidedCycle(t *testing.T) {
	g := buildSchemaGraph(map[string]*parser.Schema{
		"A": objectWith(map[string]*parser.Schema{"b": ref("B")}),
		"B": objectWith(map[string]*parser.Schema{"self": ref("B")}),
	})

	assert.Equal(t, []string{"B"}, g.circularNames())
	assert.False(t, g.sameCycle("A", "B"), "one-sided cycle membership is not a shared cycle")
	assert.Equal(t, []string{"B", "A"}, g.order)
}

func TestSchemaGraph_AliasChainResolution(t *testing.T) {
	g := buildSchemaGraph(map[string]*parser.Schema{
		"Alias":  ref("Middle"),
		"Middle": {AllOf: []*parser.Schema{ref("Target")}},
		"Target": objectWith(map[string]*parser.Schema{"id": {Type: "integer"}}),
	})

	assert.Equal(t, "Target", g.resolveAlias("Alias"))
	assert.Equal(t, "Target", g.resolveAlias("Middle"))
	assert.Equal(t, "Target", g.resolveAlias("Target"))
}

func TestSchemaGraph_AliasCycleIsCircular(t *testing.T) {
	g := buildSchemaGraph(map[string]*parser.Schema{
		"A": objectWith(map[string]*parser.Schema{"alias": ref("B")}),
		"B": ref("A"),
	})

	require.Contains(t, g.circularNames(), "A")
	require.Contains(t, g.circularNames(), "B")
}

func TestSchemaGraph_AllOfBranchIsNotAlias(t *testing.T) {
	// allOf with a single ref plus local properties extends, it does not alias.
	s := &parser.Schema{
		AllOf:      []*parser.Schema{ref("Base")},
		Properties: map[string]*parser.Schema{"extra": {Type: "string"}},
	}
	_, ok := aliasTarget(s)
	assert.False(t, ok)
}

func TestSchemaGraph_DeterministicOrder(t *testing.T) {
	schemas := map[string]*parser.Schema{
		"Zebra":  objectWith(nil),
		"Apple":  objectWith(nil),
		"Mango":  objectWith(nil),
		"Basket": objectWith(map[string]*parser.Schema{"a": ref("Apple"), "m": ref("Mango")}),
	}

	first := buildSchemaGraph(schemas).order
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, buildSchemaGraph(schemas).order)
	}
	assert.Equal(t, []string{"Apple", "Mango", "Basket", "Zebra"}, first,
		"ready schemas emit lexicographically as dependencies resolve")
}

func TestSchemaGraph_EdgesThroughComposition(t *testing.T) {
	g := buildSchemaGraph(map[string]*parser.Schema{
		"Combined": {AllOf: []*parser.Schema{ref("Base"), ref("Extra")}},
		"Base":     objectWith(nil),
		"Extra":    objectWith(nil),
	})

	assert.True(t, g.edges["Combined"]["Base"])
	assert.True(t, g.edges["Combined"]["Extra"])
	assert.Equal(t, []string{"Base", "Extra", "Combined"}, g.order)
}
