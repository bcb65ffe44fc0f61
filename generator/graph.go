// This file builds the schema reference graph: every edge between named
// schemas, the set of names participating in true reference cycles, and a
// deterministic topological emission order.

package generator

import (
	"sort"
	"strings"

	"github.com/CeriosTesting/openapi-to-zod/parser"
)

// refSchemaName extracts the schema name from a local reference.
// Supported forms: #/components/schemas/X, #/definitions/X, #/$defs/X.
func refSchemaName(ref string) (string, bool) {
	for _, prefix := range []string{"#/components/schemas/", "#/definitions/", "#/$defs/"} {
		if strings.HasPrefix(ref, prefix) {
			name := strings.TrimPrefix(ref, prefix)
			if name != "" && !strings.Contains(name, "/") {
				return name, true
			}
		}
	}
	return "", false
}

// schemaGraph holds the reference-dependency graph over named schemas.
type schemaGraph struct {
	schemas map[string]*parser.Schema
	// edges maps schema name -> set of referenced schema names
	edges map[string]map[string]bool
	// sccID maps schema name -> strongly connected component id
	sccID map[string]int
	// circular holds names participating in a genuine cycle
	circular map[string]bool
	// order is the deterministic topological emission order
	order []string
}

// buildSchemaGraph walks all named schemas once and derives the dependency
// graph, the circular-name set, and the emission order.
func buildSchemaGraph(schemas map[string]*parser.Schema) *schemaGraph {
	g := &schemaGraph{
		schemas:  schemas,
		edges:    make(map[string]map[string]bool, len(schemas)),
		sccID:    make(map[string]int, len(schemas)),
		circular: make(map[string]bool),
	}

	for _, name := range sortedNames(schemas) {
		edges := make(map[string]bool)
		collectRefs(schemas[name], edges, make(map[*parser.Schema]bool))
		g.edges[name] = edges
	}

	g.computeSCCs()
	g.computeOrder()
	return g
}

// collectRefs records every named-schema reference reachable from s without
// crossing into other named schemas' definitions.
func collectRefs(s *parser.Schema, out map[string]bool, visited map[*parser.Schema]bool) {
	if s == nil || visited[s] {
		return
	}
	visited[s] = true

	if s.Ref != "" {
		if name, ok := refSchemaName(s.Ref); ok {
			out[name] = true
		}
		return
	}

	for _, prop := range s.Properties {
		collectRefs(prop, out, visited)
	}
	for _, prop := range s.PatternProperties {
		collectRefs(prop, out, visited)
	}
	for _, dep := range s.DependentSchemas {
		collectRefs(dep, out, visited)
	}
	collectRefs(s.ItemsSchema(), out, visited)
	for _, item := range s.PrefixItems {
		collectRefs(item, out, visited)
	}
	collectRefs(s.AdditionalPropertiesSchema(), out, visited)
	collectRefs(s.PropertyNames, out, visited)
	for _, sub := range s.AllOf {
		collectRefs(sub, out, visited)
	}
	for _, sub := range s.AnyOf {
		collectRefs(sub, out, visited)
	}
	for _, sub := range s.OneOf {
		collectRefs(sub, out, visited)
	}
	collectRefs(s.Not, out, visited)
	collectRefs(s.If, out, visited)
	collectRefs(s.Then, out, visited)
	collectRefs(s.Else, out, visited)
}

// aliasTarget reports whether s is a pure alias (a bare $ref, or an allOf
// with a single $ref branch and nothing else) and returns the target name.
func aliasTarget(s *parser.Schema) (string, bool) {
	if s == nil {
		return "", false
	}
	if s.Ref != "" {
		return refSchemaName(s.Ref)
	}
	if len(s.AllOf) == 1 && s.AllOf[0] != nil && s.AllOf[0].Ref != "" &&
		s.Type == nil && len(s.Properties) == 0 && len(s.OneOf) == 0 && len(s.AnyOf) == 0 &&
		len(s.Enum) == 0 && s.Const == nil && s.Not == nil {
		return refSchemaName(s.AllOf[0].Ref)
	}
	return "", false
}

// resolveAlias follows alias chains to the canonical target name.
// When the chain loops, the name closing the loop is returned so callers
// comparing against the current schema detect the cycle.
func (g *schemaGraph) resolveAlias(name string) string {
	seen := map[string]bool{name: true}
	current := name
	for {
		target, ok := aliasTarget(g.schemas[current])
		if !ok {
			return current
		}
		if _, exists := g.schemas[target]; !exists {
			return current
		}
		if seen[target] {
			return target
		}
		seen[target] = true
		current = target
	}
}

// sameCycle reports whether both names participate in the same reference
// cycle. One-sided cycle membership never requires deferred evaluation:
// topological placement already guarantees the target is defined first.
func (g *schemaGraph) sameCycle(a, b string) bool {
	if !g.circular[a] || !g.circular[b] {
		return false
	}
	idA, okA := g.sccID[a]
	idB, okB := g.sccID[b]
	return okA && okB && idA == idB
}

// isCircular reports whether name participates in any reference cycle.
func (g *schemaGraph) isCircular(name string) bool {
	return g.circular[name]
}

// circularNames returns the sorted circular-set members.
func (g *schemaGraph) circularNames() []string {
	names := make([]string, 0, len(g.circular))
	for name := range g.circular {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// computeSCCs runs Tarjan's strongly-connected-components algorithm over the
// edge set. A schema is circular when its component has more than one member,
// or when it references itself (directly or through an alias chain).
func (g *schemaGraph) computeSCCs() {
	names := sortedNames(g.schemas)

	index := 0
	nextSCC := 0
	indices := make(map[string]int, len(names))
	lowlink := make(map[string]int, len(names))
	onStack := make(map[string]bool, len(names))
	var stack []string

	var strongconnect func(v string)
	strongconnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range sortedNames(g.edges[v]) {
			if _, exists := g.schemas[w]; !exists {
				continue
			}
			if _, seen := indices[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var component []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			for _, member := range component {
				g.sccID[member] = nextSCC
			}
			if len(component) > 1 {
				for _, member := range component {
					g.circular[member] = true
				}
			}
			nextSCC++
		}
	}

	for _, name := range names {
		if _, seen := indices[name]; !seen {
			strongconnect(name)
		}
	}

	// Single-member components are circular only on a self-edge, either a
	// direct self-reference or an alias chain pointing back at the schema.
	for _, name := range names {
		if g.edges[name][name] {
			g.circular[name] = true
		}
		for target := range g.edges[name] {
			if _, exists := g.schemas[target]; exists && g.resolveAlias(target) == name && target != name {
				// Alias chain closes back onto name.
				g.circular[name] = true
				g.circular[target] = true
			}
		}
	}
}

// computeOrder derives a deterministic topological emission order: Kahn's
// algorithm over the edge set with intra-cycle edges ignored, lexicographic
// tie-breaking, and cycle members surfacing together.
func (g *schemaGraph) computeOrder() {
	indegree := make(map[string]int, len(g.schemas))
	dependents := make(map[string][]string, len(g.schemas))

	for _, name := range sortedNames(g.schemas) {
		indegree[name] = 0
	}
	for _, name := range sortedNames(g.schemas) {
		for _, dep := range sortedNames(g.edges[name]) {
			if _, exists := g.schemas[dep]; !exists || dep == name {
				continue
			}
			if g.sccID[dep] == g.sccID[name] {
				continue // edges inside a cycle cannot order its members
			}
			indegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for _, name := range sortedNames(g.schemas) {
		if indegree[name] == 0 {
			ready = append(ready, name)
		}
	}

	order := make([]string, 0, len(g.schemas))
	for len(ready) > 0 {
		sort.Strings(ready)
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)
		for _, dependent := range dependents[name] {
			indegree[dependent]--
			if indegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
	}

	// Defensive against unexpected leftovers: emit them in name order so
	// every schema appears exactly once.
	if len(order) < len(g.schemas) {
		emitted := make(map[string]bool, len(order))
		for _, name := range order {
			emitted[name] = true
		}
		for _, name := range sortedNames(g.schemas) {
			if !emitted[name] {
				order = append(order, name)
			}
		}
	}

	g.order = order
}
