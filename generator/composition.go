// This file implements composition: allOf extension chains with conflict
// detection, oneOf/anyOf unions, and discriminated-union verification.

package generator

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/CeriosTesting/openapi-to-zod/parser"
)

// conflictRecord captures one property defined differently across allOf
// branches. Generation proceeds with the first-seen definition.
type conflictRecord struct {
	Property string
	Detail   string
}

// compileAllOf builds an allOf composite. A single branch is a pure alias.
// Multiple object-shaped branches build a left extension fold; a non-object
// branch, or a branch referencing into the current cycle, degrades the whole
// composite to pairwise intersections. Branch nullability is always
// suppressed: a nullable-wrapped object loses shape access, so only the
// composite's own explicit marker applies, after the full chain.
func (s *session) compileAllOf(sc *parser.Schema, depth int) *zodExpr {
	branches := sc.AllOf

	if len(branches) == 1 {
		return s.compile(branches[0], "", false, true, depth+1)
	}

	conflicts := s.detectPropertyConflicts(branches)
	s.conflicts = append(s.conflicts, conflicts...)

	allObjects := true
	for _, b := range branches {
		if !s.isObjectShaped(b, make(map[*parser.Schema]bool)) {
			allObjects = false
			break
		}
	}

	// A cyclic reference compiles to z.lazy, which carries no shape and
	// cannot join an extension fold in any position; intersection accepts
	// deferred branches.
	deferred := false
	for _, b := range branches {
		if name, ok := refSchemaName(b.Ref); ok {
			if _, exists := s.schemas[name]; exists && s.needsLazy(name) {
				deferred = true
				break
			}
		}
	}

	var expr *zodExpr
	if allObjects && !deferred {
		expr = s.compile(branches[0], "", false, true, depth+1)
		for _, b := range branches[1:] {
			expr.method("extend", s.extensionShape(b, depth))
		}
	} else {
		expr = s.compile(branches[0], "", false, true, depth+1)
		for _, b := range branches[1:] {
			next := s.compile(b, "", false, true, depth+1)
			expr = zodf("z.intersection(%s, %s)", expr.String(), next.String())
		}
	}

	if len(conflicts) > 0 && sc.Description == "" {
		names := make([]string, len(conflicts))
		for i, c := range conflicts {
			names[i] = c.Property
		}
		expr.method("describe", jsonLiteral(
			"Conflicting allOf property definitions (first definition wins): "+strings.Join(names, ", ")))
	}
	return expr
}

// extensionShape renders the argument for .extend(): the referenced schema's
// shape for resolvable non-cyclic references, or the branch's property shape
// compiled inline.
func (s *session) extensionShape(branch *parser.Schema, depth int) string {
	if branch.Ref != "" {
		if name, ok := refSchemaName(branch.Ref); ok {
			if _, exists := s.schemas[name]; exists && !s.needsLazy(name) {
				if name != s.current {
					s.deps[name] = true
				}
				return s.g.identifier(name) + ".shape"
			}
		}
	}

	requiredSet := make(map[string]bool, len(branch.Required))
	for _, name := range branch.Required {
		requiredSet[name] = true
	}

	entries := make([]string, 0, len(branch.Properties))
	for _, name := range s.visiblePropertyNames(branch) {
		prop := s.compile(branch.Properties[name], "", false, false, depth+1)
		if !requiredSet[name] {
			prop.method("optional")
		}
		entries = append(entries, propertyKey(name)+": "+prop.String())
	}
	return "{ " + strings.Join(entries, ", ") + " }"
}

// detectPropertyConflicts collects every property each branch contributes,
// including through references and nested allOf, and flags properties whose
// definitions are not structurally identical. First-seen definitions win.
func (s *session) detectPropertyConflicts(branches []*parser.Schema) []conflictRecord {
	seen := make(map[string]*parser.Schema)
	flagged := make(map[string]bool)
	var conflicts []conflictRecord

	var collect func(sc *parser.Schema, visited map[*parser.Schema]bool)
	collect = func(sc *parser.Schema, visited map[*parser.Schema]bool) {
		if sc == nil || visited[sc] {
			return
		}
		visited[sc] = true

		if sc.Ref != "" {
			if name, ok := refSchemaName(sc.Ref); ok {
				collect(s.schemas[name], visited)
			}
			return
		}
		for _, nested := range sc.AllOf {
			collect(nested, visited)
		}
		for _, name := range sortedNames(sc.Properties) {
			prop := sc.Properties[name]
			first, exists := seen[name]
			if !exists {
				seen[name] = prop
				continue
			}
			if !s.hasher.Equal(first, prop) && !flagged[name] {
				flagged[name] = true
				conflicts = append(conflicts, conflictRecord{
					Property: name,
					Detail:   cmp.Diff(first, prop),
				})
			}
		}
	}

	for _, b := range branches {
		collect(b, make(map[*parser.Schema]bool))
	}
	return conflicts
}

// isObjectShaped reports whether a branch compiles to an object expression,
// resolving references and nested allOf.
func (s *session) isObjectShaped(sc *parser.Schema, visited map[*parser.Schema]bool) bool {
	if sc == nil || visited[sc] {
		return false
	}
	visited[sc] = true

	if sc.Ref != "" {
		name, ok := refSchemaName(sc.Ref)
		if !ok {
			return false
		}
		target, exists := s.schemas[name]
		return exists && s.isObjectShaped(target, visited)
	}
	if len(sc.AllOf) > 0 {
		for _, b := range sc.AllOf {
			if !s.isObjectShaped(b, visited) {
				return false
			}
		}
		return true
	}
	if len(sc.OneOf) > 0 || len(sc.AnyOf) > 0 || sc.Not != nil ||
		len(sc.Enum) > 0 || sc.Const != nil {
		return false
	}
	return classify(sc) == kindObject
}

// compileUnion builds a oneOf/anyOf composite. Empty branch lists warn and
// degrade to a bottom type; a single branch is a pure alias. A discriminator
// produces a discriminated union only when its property is required in every
// branch; otherwise the composite downgrades to a plain union with a warning.
func (s *session) compileUnion(sc *parser.Schema, branches []*parser.Schema, keyword string, depth int) *zodExpr {
	if len(branches) == 0 {
		s.report(SeverityWarning, keyword, fmt.Sprintf("%s declares no branches", keyword), nil,
			"validator degraded to z.never()")
		return zodf("z.never()")
	}
	if len(branches) == 1 {
		return s.compile(branches[0], "", false, true, depth+1)
	}

	if sc.Discriminator != nil && sc.Discriminator.PropertyName != "" {
		if expr, ok := s.compileDiscriminatedUnion(sc, branches, depth); ok {
			return expr
		}
	}

	compiled := make([]string, 0, len(branches))
	for _, b := range branches {
		expr := s.compile(b, "", false, true, depth+1)
		if keyword == "anyOf" {
			s.allowPassthrough(b, expr)
		}
		compiled = append(compiled, expr.String())
	}
	return zodf("z.union([%s])", joinArgs(compiled))
}

// allowPassthrough lets an object branch accept arbitrary extra keys,
// required when a value may satisfy several anyOf branches at once. Applies
// to inline object expressions and to references whose target is a plain
// object schema; deferred references stay untouched, z.lazy exposes no
// object modifiers.
func (s *session) allowPassthrough(branch *parser.Schema, expr *zodExpr) {
	if strings.HasPrefix(expr.base, "z.object(") {
		if !expr.hasCall("passthrough") && !expr.hasCall("strict") && !expr.hasCall("catchall") {
			expr.method("passthrough")
		}
		return
	}
	if name, ok := refSchemaName(branch.Ref); ok {
		target, exists := s.schemas[name]
		if !exists || s.needsLazy(name) || classify(target) != kindObject {
			return
		}
		// Parity with the inline path: an explicit additionalProperties
		// declaration on the target keeps its say.
		if ap, declared := target.AdditionalPropertiesBool(); (declared && !ap) || target.AdditionalPropertiesSchema() != nil {
			return
		}
		expr.method("passthrough")
	}
}

// compileDiscriminatedUnion verifies the discriminator property is required
// in every branch and builds z.discriminatedUnion. Returns ok=false after
// reporting the downgrade when verification fails.
func (s *session) compileDiscriminatedUnion(sc *parser.Schema, branches []*parser.Schema, depth int) (*zodExpr, bool) {
	prop := sc.Discriminator.PropertyName

	ordered := branches
	if len(sc.Discriminator.Mapping) > 0 {
		ordered = s.mappedBranches(branches, sc.Discriminator.Mapping)
	}

	for _, b := range ordered {
		if !s.branchRequires(b, prop, make(map[*parser.Schema]bool)) {
			s.report(SeverityWarning, "discriminator",
				fmt.Sprintf("discriminator property %q is not required in every branch", prop),
				prop, "downgraded to a plain union")
			return nil, false
		}
	}

	compiled := make([]string, 0, len(ordered))
	for _, b := range ordered {
		compiled = append(compiled, s.compile(b, "", false, true, depth+1).String())
	}
	return zodf("z.discriminatedUnion(%s, [%s])", jsonLiteral(prop), joinArgs(compiled)), true
}

// mappedBranches reorders and filters union branches to the discriminator
// mapping, in mapping-key order. Bare mapping values are treated as schema
// names. Declared branches absent from the mapping are dropped with a
// warning naming them.
func (s *session) mappedBranches(branches []*parser.Schema, mapping map[string]string) []*parser.Schema {
	mapped := make(map[string]bool, len(mapping))
	ordered := make([]*parser.Schema, 0, len(mapping))
	for _, key := range sortedNames(mapping) {
		ref := mapping[key]
		if !strings.HasPrefix(ref, "#/") {
			ref = "#/components/schemas/" + ref
		}
		if name, ok := refSchemaName(ref); ok {
			mapped[name] = true
		}
		ordered = append(ordered, &parser.Schema{Ref: ref})
	}

	var dropped []string
	for _, b := range branches {
		name, ok := refSchemaName(b.Ref)
		if !ok {
			dropped = append(dropped, "inline branch")
			continue
		}
		if !mapped[name] {
			dropped = append(dropped, name)
		}
	}
	if len(dropped) > 0 {
		s.report(SeverityWarning, "discriminator",
			fmt.Sprintf("union branches absent from the discriminator mapping were dropped: %s", strings.Join(dropped, ", ")),
			nil, "add the branches to the mapping to include them")
	}
	return ordered
}

// branchRequires reports whether a branch declares prop as required,
// resolving references and nested allOf.
func (s *session) branchRequires(sc *parser.Schema, prop string, visited map[*parser.Schema]bool) bool {
	if sc == nil || visited[sc] {
		return false
	}
	visited[sc] = true

	if sc.Ref != "" {
		name, ok := refSchemaName(sc.Ref)
		if !ok {
			return false
		}
		return s.branchRequires(s.schemas[name], prop, visited)
	}
	if sc.IsRequired(prop) {
		return true
	}
	for _, nested := range sc.AllOf {
		if s.branchRequires(nested, prop, visited) {
			return true
		}
	}
	return false
}
