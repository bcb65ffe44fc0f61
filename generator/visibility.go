package generator

import "github.com/CeriosTesting/openapi-to-zod/parser"

// includeProperty reports whether a property survives the configured
// visibility mode. Request mode drops read-only properties, response mode
// drops write-only ones. A reference is judged by its target's markers, so a
// shared read-only schema filters consistently wherever it is referenced.
func (s *session) includeProperty(sc *parser.Schema) bool {
	if sc == nil {
		return true
	}
	readOnly, writeOnly := s.visibilityMarkers(sc, make(map[*parser.Schema]bool))

	switch s.g.Visibility {
	case VisibilityRequest:
		return !readOnly
	case VisibilityResponse:
		return !writeOnly
	}
	return true
}

// visibilityMarkers resolves a schema's effective readOnly/writeOnly flags,
// following references and single-branch aliases.
func (s *session) visibilityMarkers(sc *parser.Schema, visited map[*parser.Schema]bool) (readOnly, writeOnly bool) {
	if sc == nil || visited[sc] {
		return false, false
	}
	visited[sc] = true

	if sc.ReadOnly || sc.WriteOnly {
		return sc.ReadOnly, sc.WriteOnly
	}
	if sc.Ref != "" {
		if name, ok := refSchemaName(sc.Ref); ok {
			if target, exists := s.schemas[name]; exists {
				return s.visibilityMarkers(target, visited)
			}
		}
	}
	if len(sc.AllOf) == 1 {
		return s.visibilityMarkers(sc.AllOf[0], visited)
	}
	return false, false
}

// visibleRequired prunes the required-name list down to properties that
// survive visibility filtering, so a filtered-out leaf never leaves an
// orphaned required entry behind.
func (s *session) visibleRequired(sc *parser.Schema) []string {
	if s.g.Visibility == VisibilityAll {
		return sc.Required
	}
	required := make([]string, 0, len(sc.Required))
	for _, name := range sc.Required {
		prop, declared := sc.Properties[name]
		if declared && !s.includeProperty(prop) {
			continue
		}
		required = append(required, name)
	}
	return required
}
