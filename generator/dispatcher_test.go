package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CeriosTesting/openapi-to-zod/parser"
)

func testSession(t *testing.T, g *Generator, schemas map[string]*parser.Schema) *session {
	t.Helper()
	require.NoError(t, g.Validate())
	doc := &parser.Document{
		OpenAPI:    "3.0.3",
		Components: &parser.Components{Schemas: schemas},
	}
	return newSession(g, doc)
}

func boolPtr(v bool) *bool { return &v }

func TestCompile_Primitives(t *testing.T) {
	s := testSession(t, New(), nil)

	tests := []struct {
		name   string
		schema *parser.Schema
		want   string
	}{
		{name: "string", schema: &parser.Schema{Type: "string"}, want: "z.string()"},
		{name: "boolean", schema: &parser.Schema{Type: "boolean"}, want: "z.boolean()"},
		{name: "number", schema: &parser.Schema{Type: "number"}, want: "z.number()"},
		{name: "integer", schema: &parser.Schema{Type: "integer"}, want: "z.number().int()"},
		{name: "null", schema: &parser.Schema{Type: "null"}, want: "z.null()"},
		{name: "untyped", schema: &parser.Schema{}, want: "z.unknown()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.compile(tt.schema, "", false, false, 0).String())
		})
	}
}

func TestCompile_NullablePolicy(t *testing.T) {
	tests := []struct {
		name            string
		schema          *parser.Schema
		defaultNullable bool
		topLevel        bool
		suppress        bool
		wantNullable    bool
	}{
		{
			name:         "explicit nullable true",
			schema:       &parser.Schema{Type: "string", Nullable: boolPtr(true)},
			wantNullable: true,
		},
		{
			name:            "explicit nullable false beats default",
			schema:          &parser.Schema{Type: "string", Nullable: boolPtr(false)},
			defaultNullable: true,
			wantNullable:    false,
		},
		{
			name:            "default applies to property values",
			schema:          &parser.Schema{Type: "string"},
			defaultNullable: true,
			wantNullable:    true,
		},
		{
			name:            "default suppressed at top level",
			schema:          &parser.Schema{Type: "string"},
			defaultNullable: true,
			topLevel:        true,
			wantNullable:    false,
		},
		{
			name:            "default suppressed for composition branches",
			schema:          &parser.Schema{Type: "string"},
			defaultNullable: true,
			suppress:        true,
			wantNullable:    false,
		},
		{
			name:            "default suppressed for enums",
			schema:          &parser.Schema{Type: "string", Enum: []any{"a", "b"}},
			defaultNullable: true,
			wantNullable:    false,
		},
		{
			name:            "default suppressed for consts",
			schema:          &parser.Schema{Const: "fixed"},
			defaultNullable: true,
			wantNullable:    false,
		},
		{
			name:         "type array null marker",
			schema:       &parser.Schema{Type: []any{"string", "null"}},
			wantNullable: true,
		},
		{
			name:         "no marker no default",
			schema:       &parser.Schema{Type: "string"},
			wantNullable: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			g.DefaultNullable = tt.defaultNullable
			s := testSession(t, g, nil)

			expr := s.compile(tt.schema, "", tt.topLevel, tt.suppress, 0)
			assert.Equal(t, tt.wantNullable, expr.hasCall("nullable"),
				"expression: %s", expr.String())
		})
	}
}

func TestCompile_ExplicitNullableMarkerAppliesAtTopLevel(t *testing.T) {
	s := testSession(t, New(), nil)
	expr := s.compile(&parser.Schema{Type: "string", Nullable: boolPtr(true)}, "Name", true, false, 0)
	assert.Equal(t, "z.string().nullable()", expr.String())
}

func TestCompile_Reference(t *testing.T) {
	schemas := map[string]*parser.Schema{
		"Order": objectWith(map[string]*parser.Schema{"pet": ref("Pet")}),
		"Pet":   objectWith(map[string]*parser.Schema{"name": {Type: "string"}}),
	}
	s := testSession(t, New(), schemas)
	s.current = "Order"

	expr := s.compile(ref("Pet"), "", false, false, 0)
	assert.Equal(t, "petSchema", expr.String(), "acyclic references stay plain")
	assert.True(t, s.deps["Pet"], "dependency edge must be recorded")
}

func TestCompile_SelfReferenceWrapsLazy(t *testing.T) {
	schemas := map[string]*parser.Schema{
		"Node": objectWith(map[string]*parser.Schema{"next": ref("Node")}),
	}
	s := testSession(t, New(), schemas)
	s.current = "Node"

	expr := s.compile(ref("Node"), "", false, false, 0)
	assert.Equal(t, "z.lazy(() => nodeSchema)", expr.String())
	assert.False(t, s.deps["Node"], "self edges are not recorded as dependencies")
}

func TestCompile_LazyAnnotationWithSeparateTypes(t *testing.T) {
	g := New()
	g.SeparateTypesFile = true
	schemas := map[string]*parser.Schema{
		"Node": objectWith(map[string]*parser.Schema{"next": ref("Node")}),
	}
	s := testSession(t, g, schemas)
	s.current = "Node"

	expr := s.compile(ref("Node"), "", false, false, 0)
	assert.Equal(t, "z.lazy((): z.ZodType<Node> => nodeSchema)", expr.String())
}

func TestCompile_MutualCycleWrapsBothDirections(t *testing.T) {
	schemas := map[string]*parser.Schema{
		"A": objectWith(map[string]*parser.Schema{"b": ref("B")}),
		"B": objectWith(map[string]*parser.Schema{"a": ref("A")}),
	}
	s := testSession(t, New(), schemas)

	s.current = "A"
	assert.Contains(t, s.compile(ref("B"), "", false, false, 0).String(), "z.lazy")
	s.current = "B"
	assert.Contains(t, s.compile(ref("A"), "", false, false, 0).String(), "z.lazy")
}

func TestCompile_OneSidedCycleStaysPlain(t *testing.T) {
	schemas := map[string]*parser.Schema{
		"A": objectWith(map[string]*parser.Schema{"b": ref("B")}),
		"B": objectWith(map[string]*parser.Schema{"self": ref("B")}),
	}
	s := testSession(t, New(), schemas)
	s.current = "A"

	assert.Equal(t, "bSchema", s.compile(ref("B"), "", false, false, 0).String())
}

func TestCompile_UnresolvableReference(t *testing.T) {
	s := testSession(t, New(), nil)
	s.current = "Order"

	expr := s.compile(ref("Missing"), "", false, false, 0)
	assert.Equal(t, "z.unknown()", expr.String())

	require.Len(t, s.issues, 1)
	assert.Equal(t, SeverityError, s.issues[0].Severity)
	assert.Contains(t, s.issues[0].Message, "does not resolve")
}

func TestCompile_Const(t *testing.T) {
	s := testSession(t, New(), nil)

	assert.Equal(t, `z.literal("fixed")`, s.compile(&parser.Schema{Const: "fixed"}, "", false, false, 0).String())
	assert.Equal(t, "z.literal(42)", s.compile(&parser.Schema{Const: 42}, "", false, false, 0).String())
}

func TestCompile_InlineEnum(t *testing.T) {
	s := testSession(t, New(), nil)

	tests := []struct {
		name   string
		schema *parser.Schema
		want   string
	}{
		{
			name:   "string enum",
			schema: &parser.Schema{Type: "string", Enum: []any{"a", "b"}},
			want:   `z.enum(["a", "b"])`,
		},
		{
			name:   "single value",
			schema: &parser.Schema{Type: "string", Enum: []any{"only"}},
			want:   `z.literal("only")`,
		},
		{
			name:   "numeric enum",
			schema: &parser.Schema{Type: "integer", Enum: []any{1, 2}},
			want:   "z.union([z.literal(1), z.literal(2)])",
		},
		{
			name:   "null member becomes nullable",
			schema: &parser.Schema{Type: "string", Enum: []any{"a", "b", nil}},
			want:   `z.enum(["a", "b"]).nullable()`,
		},
		{
			name:   "only null member",
			schema: &parser.Schema{Enum: []any{nil}},
			want:   "z.null()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.compile(tt.schema, "", false, false, 0).String())
		})
	}
}

func TestCompile_TopLevelStringEnumRegistersDeclaration(t *testing.T) {
	schemas := map[string]*parser.Schema{
		"Status": {Type: "string", Enum: []any{"available", "sold-out"}},
	}
	s := testSession(t, New(), schemas)
	s.current = "Status"

	expr := s.compile(schemas["Status"], "Status", true, false, 0)
	assert.Equal(t, "z.nativeEnum(Status)", expr.String())

	require.Len(t, s.enumDecls, 1)
	decl := s.enumDecls[0]
	assert.Equal(t, "Status", decl.TypeName)
	require.Len(t, decl.Members, 2)
	assert.Equal(t, enumMember{Name: "Available", Value: "available"}, decl.Members[0])
	assert.Equal(t, enumMember{Name: "SoldOut", Value: "sold-out"}, decl.Members[1])
}

func TestCompile_TopLevelNumericEnumRegistersDeclaration(t *testing.T) {
	schemas := map[string]*parser.Schema{
		"Priority": {Type: "integer", Enum: []any{1, 2, -5}},
	}
	s := testSession(t, New(), schemas)
	s.current = "Priority"

	expr := s.compile(schemas["Priority"], "Priority", true, false, 0)
	assert.Equal(t, "z.nativeEnum(Priority)", expr.String())

	require.Len(t, s.enumDecls, 1)
	decl := s.enumDecls[0]
	assert.Equal(t, "Priority", decl.TypeName)
	require.Len(t, decl.Members, 3)
	assert.Equal(t, enumMember{Name: "Value1", Value: 1}, decl.Members[0])
	assert.Equal(t, enumMember{Name: "Value2", Value: 2}, decl.Members[1])
	assert.Equal(t, enumMember{Name: "ValueNeg5", Value: -5}, decl.Members[2])
}

func TestCompile_TopLevelMixedScalarEnumRegistersDeclaration(t *testing.T) {
	schemas := map[string]*parser.Schema{
		"Level": {Enum: []any{"off", 1, 2}},
	}
	s := testSession(t, New(), schemas)
	s.current = "Level"

	expr := s.compile(schemas["Level"], "Level", true, false, 0)
	assert.Equal(t, "z.nativeEnum(Level)", expr.String())

	require.Len(t, s.enumDecls, 1)
	require.Len(t, s.enumDecls[0].Members, 3)
	assert.Equal(t, "Off", s.enumDecls[0].Members[0].Name)
	assert.Equal(t, "Value1", s.enumDecls[0].Members[1].Name)
}

func TestCompile_TopLevelBooleanEnumStaysInline(t *testing.T) {
	schemas := map[string]*parser.Schema{
		"Flag": {Enum: []any{true, false}},
	}
	s := testSession(t, New(), schemas)
	s.current = "Flag"

	expr := s.compile(schemas["Flag"], "Flag", true, false, 0)
	assert.Equal(t, "z.union([z.literal(true), z.literal(false)])", expr.String(),
		"non-scalar members cannot form a native enum declaration")
	assert.Empty(t, s.enumDecls)
}

func TestCompile_EmptyEnumFallsBack(t *testing.T) {
	s := testSession(t, New(), nil)

	expr := s.compile(&parser.Schema{Enum: []any{}}, "", false, false, 0)
	assert.Equal(t, "z.unknown()", expr.String())
}

func TestCompile_MultiType(t *testing.T) {
	s := testSession(t, New(), nil)

	expr := s.compile(&parser.Schema{Type: []any{"string", "integer"}}, "", false, false, 0)
	assert.Equal(t, "z.union([z.string(), z.number().int()])", expr.String())
}

func TestCompile_MultiTypeWithNull(t *testing.T) {
	s := testSession(t, New(), nil)

	expr := s.compile(&parser.Schema{Type: []any{"string", "integer", "null"}}, "", false, false, 0)
	assert.Equal(t, "z.union([z.string(), z.number().int()]).nullable()", expr.String())
}

func TestCompile_Not(t *testing.T) {
	s := testSession(t, New(), nil)

	expr := s.compile(&parser.Schema{Not: &parser.Schema{Type: "string"}}, "", false, false, 0)
	assert.Equal(t, "z.unknown().refine((value) => !z.string().safeParse(value).success)", expr.String())
}

func TestCompile_DepthGuard(t *testing.T) {
	s := testSession(t, New(), nil)

	sc := &parser.Schema{Type: "string"}
	for i := 0; i < maxSchemaDepth+5; i++ {
		sc = &parser.Schema{Type: "array", Items: &parser.SchemaOrBool{Schema: sc}}
	}

	expr := s.compile(sc, "", false, false, 0)
	assert.Contains(t, expr.String(), "z.unknown()")

	var critical int
	for _, issue := range s.issues {
		if issue.Severity == SeverityCritical {
			critical++
		}
	}
	assert.Equal(t, 1, critical, "depth guard reports exactly one critical issue")
}

func TestCompile_Description(t *testing.T) {
	s := testSession(t, New(), nil)

	expr := s.compile(&parser.Schema{Type: "string", Description: "a name"}, "", false, false, 0)
	assert.Equal(t, `z.string().describe("a name")`, expr.String())
}

func TestCompile_DescriptionsDisabled(t *testing.T) {
	g := New()
	g.IncludeDescriptions = false
	s := testSession(t, g, nil)

	expr := s.compile(&parser.Schema{Type: "string", Description: "a name"}, "", false, false, 0)
	assert.Equal(t, "z.string()", expr.String())
}

func TestCompile_DescriptionBeforeNullable(t *testing.T) {
	s := testSession(t, New(), nil)

	expr := s.compile(&parser.Schema{Type: "string", Description: "d", Nullable: boolPtr(true)}, "", false, false, 0)
	assert.Equal(t, []string{"describe", "nullable"}, expr.callNames())
}

func TestCompile_PureLeafCache(t *testing.T) {
	s := testSession(t, New(), nil)

	first := s.compile(&parser.Schema{Type: "string", Format: "uuid"}, "", false, false, 0)
	assert.Positive(t, s.pureCache.Len(), "pure leaves populate the cache")

	second := s.compile(&parser.Schema{Type: "string", Format: "uuid"}, "", false, false, 0)
	assert.Equal(t, first.String(), second.String())
}

func TestCompile_RefNotCached(t *testing.T) {
	schemas := map[string]*parser.Schema{"Pet": objectWith(nil)}
	s := testSession(t, New(), schemas)
	s.current = "Order"

	s.compile(ref("Pet"), "", false, false, 0)
	assert.Zero(t, s.pureCache.Len(), "references are never memoized")
}
