// This file implements the schema dispatcher: per-run session state, schema
// shape classification, and the compile entry point every construct routes
// through. Dispatch is first-match-wins over an explicit shape tag so a new
// shape cannot be added without a compile switch arm.

package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CeriosTesting/openapi-to-zod/internal/lru"
	"github.com/CeriosTesting/openapi-to-zod/internal/schemautil"
	"github.com/CeriosTesting/openapi-to-zod/parser"
)

// maxSchemaDepth bounds dispatcher recursion. Documents nesting deeper than
// this are adversarial or broken; compilation degrades to an unknown
// validator with a critical issue instead of exhausting the stack.
const maxSchemaDepth = 100

// schemaKind tags the schema shape selected for a compile step.
type schemaKind int

const (
	kindMultiType schemaKind = iota
	kindRef
	kindConst
	kindEnum
	kindAllOf
	kindOneOf
	kindAnyOf
	kindNot
	kindString
	kindNumber
	kindInteger
	kindBoolean
	kindArray
	kindObject
	kindNull
	kindUntyped
)

// enumMember is one generated member of a TypeScript enum declaration.
// Value holds the raw enum value, string or numeric.
type enumMember struct {
	Name  string
	Value any
}

// enumDecl is a TypeScript enum declaration registered for a top-level
// scalar-valued enum schema.
type enumDecl struct {
	SchemaName string
	TypeName   string
	Members    []enumMember
}

// session holds all mutable state for one generation run. Sessions are never
// shared: every GenerateParsed call builds its own, so concurrent runs on
// distinct Generator instances (or sequential runs on one) cannot interfere.
type session struct {
	g       *Generator
	doc     *parser.Document
	schemas map[string]*parser.Schema
	graph   *schemaGraph
	hasher  *schemautil.SchemaHasher

	issues    []GenerateIssue
	conflicts []conflictRecord
	enumDecls []enumDecl

	// deps accumulates reference edges for the schema currently being
	// compiled; reset per top-level schema.
	deps map[string]bool
	// current is the name of the top-level schema being compiled.
	current string

	// patternCache maps raw regex patterns to their escaped literal form.
	patternCache *lru.Cache[string, string]
	// pureCache memoizes serialized expressions for pure leaf shapes.
	pureCache *lru.Cache[uint64, string]
}

func newSession(g *Generator, doc *parser.Document) *session {
	schemas := doc.Schemas()
	return &session{
		g:            g,
		doc:          doc,
		schemas:      schemas,
		graph:        buildSchemaGraph(schemas),
		hasher:       schemautil.NewSchemaHasher(),
		deps:         make(map[string]bool),
		patternCache: lru.New[string, string](lru.DefaultCapacity),
		pureCache:    lru.New[uint64, string](lru.DefaultCapacity),
	}
}

// report appends a generation issue anchored at the current schema.
func (s *session) report(sev Severity, field, message string, value any, context string) {
	s.issues = append(s.issues, GenerateIssue{
		Path:     "components.schemas." + s.current,
		Message:  message,
		Severity: sev,
		Field:    field,
		Value:    value,
		Context:  context,
	})
}

// classify selects the shape tag for a schema. Order matters and mirrors the
// dispatch order in compile: declared multi-type beats reference beats const
// beats enum beats composition beats primitive switch.
func classify(sc *parser.Schema) schemaKind {
	if len(schemautil.NonNullTypes(sc)) > 1 {
		return kindMultiType
	}
	if sc.Ref != "" {
		return kindRef
	}
	if sc.Const != nil {
		return kindConst
	}
	if len(sc.Enum) > 0 {
		return kindEnum
	}
	if len(sc.AllOf) > 0 {
		return kindAllOf
	}
	if len(sc.OneOf) > 0 {
		return kindOneOf
	}
	if len(sc.AnyOf) > 0 {
		return kindAnyOf
	}
	if sc.Not != nil {
		return kindNot
	}
	switch schemautil.GetPrimaryType(sc) {
	case "string":
		return kindString
	case "number":
		return kindNumber
	case "integer":
		return kindInteger
	case "boolean":
		return kindBoolean
	case "array":
		return kindArray
	case "object":
		return kindObject
	case "null":
		return kindNull
	}
	// Untyped schemas with object- or array-shaped keywords compile as that
	// shape; anything else falls through to the unknown validator.
	if len(sc.Properties) > 0 || len(sc.Required) > 0 || sc.AdditionalProperties != nil ||
		len(sc.PatternProperties) > 0 || sc.PropertyNames != nil {
		return kindObject
	}
	if sc.Items != nil || len(sc.PrefixItems) > 0 {
		return kindArray
	}
	return kindUntyped
}

// compile turns one schema node into a validator expression.
//
// schemaName is non-empty only when sc is the top-level definition of that
// named schema. topLevel suppresses the default-nullable fallback for named
// definitions; suppressDefault does the same for composition branches. Only
// explicit nullable markers apply in either case.
func (s *session) compile(sc *parser.Schema, schemaName string, topLevel, suppressDefault bool, depth int) *zodExpr {
	if sc == nil {
		return zodf("z.unknown()")
	}
	if depth > maxSchemaDepth {
		s.report(SeverityCritical, "", fmt.Sprintf("schema nesting exceeds maximum depth %d", maxSchemaDepth), nil,
			"deeply nested or adversarial document; validator degraded to z.unknown()")
		return zodf("z.unknown()")
	}

	kind := classify(sc)

	cacheable := schemaName == "" && isPureLeaf(sc, make(map[*parser.Schema]bool))
	var cacheKey uint64
	if cacheable {
		cacheKey = s.hasher.Hash(sc, s.cacheSalt(topLevel, suppressDefault)...)
		if cached, ok := s.pureCache.Get(cacheKey); ok {
			return zodf("%s", cached)
		}
	}

	var expr *zodExpr
	switch kind {
	case kindMultiType:
		expr = s.compileMultiType(sc, depth)
	case kindRef:
		expr = s.compileRef(sc)
	case kindConst:
		expr = s.compileConst(sc)
	case kindEnum:
		expr = s.compileEnum(sc, schemaName, topLevel)
	case kindAllOf:
		expr = s.compileAllOf(sc, depth)
	case kindOneOf:
		expr = s.compileUnion(sc, sc.OneOf, "oneOf", depth)
	case kindAnyOf:
		expr = s.compileUnion(sc, sc.AnyOf, "anyOf", depth)
	case kindNot:
		expr = s.compileNot(sc, depth)
	case kindString:
		expr = s.compileString(sc)
	case kindNumber:
		expr = s.compileNumber(sc, false)
	case kindInteger:
		expr = s.compileNumber(sc, true)
	case kindBoolean:
		expr = zodf("z.boolean()")
	case kindArray:
		expr = s.compileArray(sc, depth)
	case kindObject:
		expr = s.compileObject(sc, depth)
	case kindNull:
		expr = zodf("z.null()")
	case kindUntyped:
		expr = zodf("z.unknown()")
	}

	expr = s.finish(sc, expr, kind, topLevel, suppressDefault)

	if cacheable {
		s.pureCache.Add(cacheKey, expr.String())
	}
	return expr
}

// cacheSalt contextualizes pure-leaf cache keys so the same shape under
// different generation settings never shares an entry.
func (s *session) cacheSalt(topLevel, suppressDefault bool) []string {
	return []string{
		string(s.g.Visibility),
		string(s.g.Strictness),
		string(s.g.EmptyObjectBehavior),
		strconv.FormatBool(s.g.DefaultNullable),
		strconv.FormatBool(s.g.IncludeDescriptions),
		s.g.DateTimePattern,
		strconv.FormatBool(topLevel),
		strconv.FormatBool(suppressDefault),
	}
}

// isPureLeaf reports whether sc contains no references and no composition
// anywhere in its structure, making its compiled form context-free.
func isPureLeaf(sc *parser.Schema, visited map[*parser.Schema]bool) bool {
	if sc == nil {
		return true
	}
	if visited[sc] {
		return false
	}
	visited[sc] = true

	if sc.Ref != "" || len(sc.AllOf) > 0 || len(sc.AnyOf) > 0 || len(sc.OneOf) > 0 ||
		sc.Not != nil || sc.If != nil || sc.Discriminator != nil {
		return false
	}
	for _, sub := range sc.Properties {
		if !isPureLeaf(sub, visited) {
			return false
		}
	}
	for _, sub := range sc.PatternProperties {
		if !isPureLeaf(sub, visited) {
			return false
		}
	}
	for _, sub := range sc.DependentSchemas {
		if !isPureLeaf(sub, visited) {
			return false
		}
	}
	for _, sub := range sc.PrefixItems {
		if !isPureLeaf(sub, visited) {
			return false
		}
	}
	return isPureLeaf(sc.ItemsSchema(), visited) &&
		isPureLeaf(sc.AdditionalPropertiesSchema(), visited) &&
		isPureLeaf(sc.PropertyNames, visited)
}

// finish layers description and nullable modifiers onto a compiled
// expression. Nullable placement follows a strict policy: explicit markers
// (type-array "null", nullable: true/false) always apply; the configured
// default applies only to property values, never to top-level definitions,
// enums, consts, or composition shapes.
func (s *session) finish(sc *parser.Schema, expr *zodExpr, kind schemaKind, topLevel, suppressDefault bool) *zodExpr {
	if s.g.IncludeDescriptions && sc.Description != "" && !expr.hasCall("describe") {
		expr.method("describe", jsonLiteral(sc.Description))
	}

	if expr.hasCall("nullable") || kind == kindNull {
		return expr
	}

	nullable := false
	switch {
	case schemautil.HasNullType(sc):
		nullable = true
	case sc.Nullable != nil:
		nullable = *sc.Nullable
	case s.g.DefaultNullable && !topLevel && !suppressDefault && defaultNullableApplies(kind):
		nullable = true
	}
	if nullable {
		expr.method("nullable")
	}
	return expr
}

// defaultNullableApplies reports whether the configured default-nullable
// fallback may apply to a shape. Enums, consts, and composition results take
// nullable only from their own explicit markers.
func defaultNullableApplies(kind schemaKind) bool {
	switch kind {
	case kindEnum, kindConst, kindAllOf, kindOneOf, kindAnyOf:
		return false
	}
	return true
}

// compileRef resolves a local reference to a generated identifier, recording
// the dependency edge and deciding whether deferred evaluation is needed.
//
// Wrapping applies only for a direct self-reference, an alias chain closing
// back onto the current schema, or shared membership in one reference cycle.
// One-sided cycle membership keeps the plain identifier: topological emission
// already places the target first.
func (s *session) compileRef(sc *parser.Schema) *zodExpr {
	name, ok := refSchemaName(sc.Ref)
	if !ok {
		return s.unknownReference(sc.Ref)
	}
	if _, exists := s.schemas[name]; !exists {
		return s.unknownReference(sc.Ref)
	}

	if name != s.current {
		s.deps[name] = true
	}

	ident := s.g.identifier(name)
	if s.needsLazy(name) {
		if s.g.SeparateTypesFile {
			return zodf("z.lazy((): z.ZodType<%s> => %s)", s.g.typeName(name), ident)
		}
		return zodf("z.lazy(() => %s)", ident)
	}
	return zodf("%s", ident)
}

func (s *session) needsLazy(name string) bool {
	if name == s.current {
		return true
	}
	if s.graph.resolveAlias(name) == s.current {
		return true
	}
	return s.graph.sameCycle(s.current, name)
}

// unknownReference surfaces an unresolvable reference as a hard error on
// every dispatch path and degrades the expression to z.unknown().
func (s *session) unknownReference(ref string) *zodExpr {
	s.report(SeverityError, "$ref", fmt.Sprintf("reference %q does not resolve to a known schema", ref), ref, "")
	return zodf("z.unknown()")
}

// compileConst emits a literal validator for a const value.
func (s *session) compileConst(sc *parser.Schema) *zodExpr {
	return zodf("z.literal(%s)", jsonLiteral(sc.Const))
}

// compileEnum emits an enum validator. A top-level schema whose members are
// all strings or numbers registers a TypeScript enum declaration and
// validates against it; inline enums and non-scalar members compile to
// enum/literal/union forms. A null member is removed from the member list
// and recorded as nullability.
func (s *session) compileEnum(sc *parser.Schema, schemaName string, topLevel bool) *zodExpr {
	var (
		values    []any
		nullFound bool
	)
	for _, v := range sc.Enum {
		if v == nil {
			nullFound = true
			continue
		}
		values = append(values, v)
	}

	if len(values) == 0 {
		if nullFound {
			return zodf("z.null()")
		}
		s.report(SeverityWarning, "enum", "enum declares no values", nil, "validator degraded to z.unknown()")
		return zodf("z.unknown()")
	}

	allStrings := true
	allScalars := true
	for _, v := range values {
		if _, ok := v.(string); !ok {
			allStrings = false
		}
		if !enumerableValue(v) {
			allScalars = false
		}
	}

	var expr *zodExpr
	switch {
	case topLevel && schemaName != "" && allScalars:
		expr = zodf("z.nativeEnum(%s)", s.registerEnum(schemaName, values))
	case allStrings && len(values) > 1:
		literals := make([]string, len(values))
		for i, v := range values {
			literals[i] = jsonLiteral(v)
		}
		expr = zodf("z.enum([%s])", joinArgs(literals))
	case len(values) == 1:
		expr = zodf("z.literal(%s)", jsonLiteral(values[0]))
	default:
		branches := make([]string, len(values))
		for i, v := range values {
			branches[i] = fmt.Sprintf("z.literal(%s)", jsonLiteral(v))
		}
		expr = zodf("z.union([%s])", joinArgs(branches))
	}

	if nullFound {
		expr.method("nullable")
	}
	return expr
}

// enumerableValue reports whether an enum value can become a TypeScript enum
// member. TypeScript enums take string and numeric members only.
func enumerableValue(v any) bool {
	switch v.(type) {
	case string, int, int32, int64, uint, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// registerEnum allocates member names for a top-level scalar enum and records
// the TypeScript enum declaration for assembly. Returns the enum type name.
func (s *session) registerEnum(schemaName string, values []any) string {
	typeName := s.g.typeName(schemaName)
	usedKeys := make(map[string]bool)

	members := make([]enumMember, 0, len(values))
	for _, v := range values {
		var name string
		if raw, ok := v.(string); ok {
			name = stringToEnumMember(raw, usedKeys)
		} else {
			name = numericToEnumMember(v, usedKeys)
		}
		members = append(members, enumMember{Name: name, Value: v})
	}

	s.enumDecls = append(s.enumDecls, enumDecl{
		SchemaName: schemaName,
		TypeName:   typeName,
		Members:    members,
	})
	return typeName
}

// compileMultiType compiles a schema declaring several types as a union of
// each type compiled independently. Branches are nullable-suppressed; a
// "null" entry in the type list surfaces as nullability on the union.
func (s *session) compileMultiType(sc *parser.Schema, depth int) *zodExpr {
	types := schemautil.NonNullTypes(sc)

	branches := make([]string, 0, len(types))
	for _, t := range types {
		clone := *sc
		clone.Type = t
		clone.Nullable = nil
		branches = append(branches, s.compile(&clone, "", false, true, depth+1).String())
	}

	expr := zodf("z.union([%s])", joinArgs(branches))
	if schemautil.HasNullType(sc) {
		expr.method("nullable")
	}
	return expr
}

// compileNot emits a negation validator: anything the inner schema accepts
// is rejected.
func (s *session) compileNot(sc *parser.Schema, depth int) *zodExpr {
	inner := s.compile(sc.Not, "", false, true, depth+1)
	return zodf("z.unknown()").method("refine",
		fmt.Sprintf("(value) => !%s.safeParse(value).success", inner.String()))
}

// joinArgs joins already-serialized expressions for argument lists.
func joinArgs(parts []string) string {
	return strings.Join(parts, ", ")
}
