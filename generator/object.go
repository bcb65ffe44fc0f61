// This file compiles object schemas: the visibility-filtered property map,
// undeclared-key handling, and the layered refinements for property counts,
// undeclared required names, pattern properties, property names,
// dependencies, and conditionals.

package generator

import (
	"fmt"
	"strings"

	"github.com/CeriosTesting/openapi-to-zod/parser"
)

// compileObject builds the validator for an object schema. Layering order is
// fixed: property map, undeclared-key mode, then refinements from cheapest to
// most structural.
func (s *session) compileObject(sc *parser.Schema, depth int) *zodExpr {
	required := s.visibleRequired(sc)
	propNames := s.visiblePropertyNames(sc)

	var expr *zodExpr
	if len(propNames) == 0 {
		expr = s.emptyObjectBase(sc, depth)
	} else {
		expr = s.objectBase(sc, propNames, required, depth)
	}

	s.applyCountRefinements(expr, sc)
	s.applyRequiredUndeclared(expr, required, propNames)
	s.applyPatternProperties(expr, sc, depth)
	s.applyPropertyNames(expr, sc, depth)
	s.applyDependentRequired(expr, sc)
	s.applyDependentSchemas(expr, sc, depth)
	s.applyConditional(expr, sc, depth)
	return expr
}

// visiblePropertyNames returns the sorted property names surviving the
// configured visibility mode.
func (s *session) visiblePropertyNames(sc *parser.Schema) []string {
	names := make([]string, 0, len(sc.Properties))
	for _, name := range sortedNames(sc.Properties) {
		if s.includeProperty(sc.Properties[name]) {
			names = append(names, name)
		}
	}
	return names
}

// objectBase builds z.object({...}) with the undeclared-key mode applied.
// A declared additionalProperties always wins over the configured strictness.
func (s *session) objectBase(sc *parser.Schema, propNames, required []string, depth int) *zodExpr {
	requiredSet := make(map[string]bool, len(required))
	for _, name := range required {
		requiredSet[name] = true
	}

	entries := make([]string, 0, len(propNames))
	for _, name := range propNames {
		prop := s.compile(sc.Properties[name], "", false, false, depth+1)
		if !requiredSet[name] {
			prop.method("optional")
		}
		entries = append(entries, propertyKey(name)+": "+prop.String())
	}

	expr := zodf("z.object({ %s })", strings.Join(entries, ", "))
	s.applyUndeclaredKeyMode(expr, sc, depth)
	return expr
}

func (s *session) applyUndeclaredKeyMode(expr *zodExpr, sc *parser.Schema, depth int) {
	if apBool, declared := sc.AdditionalPropertiesBool(); declared {
		if apBool {
			expr.method("passthrough")
		} else {
			expr.method("strict")
		}
		return
	}
	if apSchema := sc.AdditionalPropertiesSchema(); apSchema != nil {
		expr.method("catchall", s.compile(apSchema, "", false, false, depth+1).String())
		return
	}
	switch s.g.Strictness {
	case StrictnessStrict:
		expr.method("strict")
	case StrictnessLoose:
		expr.method("passthrough")
	}
}

// emptyObjectBase picks the validator for an object with no declared (or no
// surviving) properties. A typed additionalProperties compiles to a record;
// otherwise the configured empty-object behavior decides.
func (s *session) emptyObjectBase(sc *parser.Schema, depth int) *zodExpr {
	if apSchema := sc.AdditionalPropertiesSchema(); apSchema != nil {
		value := s.compile(apSchema, "", false, false, depth+1)
		return zodf("z.record(z.string(), %s)", value.String())
	}
	if apBool, declared := sc.AdditionalPropertiesBool(); declared {
		if apBool {
			return zodf("z.record(z.string(), z.unknown())")
		}
		return zodf("z.object({})").method("strict")
	}

	switch s.g.EmptyObjectBehavior {
	case EmptyObjectStrict:
		return zodf("z.object({})").method("strict")
	case EmptyObjectRecord:
		return zodf("z.record(z.string(), z.unknown())")
	default:
		return zodf("z.object({})").method("passthrough")
	}
}

func (s *session) applyCountRefinements(expr *zodExpr, sc *parser.Schema) {
	if sc.MinProperties != nil {
		expr.method("refine",
			fmt.Sprintf("(obj) => Object.keys(obj).length >= %d", *sc.MinProperties),
			fmt.Sprintf(`{ message: "object must have at least %d properties" }`, *sc.MinProperties))
	}
	if sc.MaxProperties != nil {
		expr.method("refine",
			fmt.Sprintf("(obj) => Object.keys(obj).length <= %d", *sc.MaxProperties),
			fmt.Sprintf(`{ message: "object must have at most %d properties" }`, *sc.MaxProperties))
	}
}

// applyRequiredUndeclared enforces required names that have no matching
// property declaration, a pattern common with dependent-required style rules.
func (s *session) applyRequiredUndeclared(expr *zodExpr, required, propNames []string) {
	declared := make(map[string]bool, len(propNames))
	for _, name := range propNames {
		declared[name] = true
	}

	var undeclared []string
	for _, name := range required {
		if !declared[name] {
			undeclared = append(undeclared, jsonLiteral(name))
		}
	}
	if len(undeclared) == 0 {
		return
	}

	expr.method("refine",
		fmt.Sprintf("(obj) => [%s].every((key) => key in obj)", strings.Join(undeclared, ", ")),
		fmt.Sprintf(`{ message: "missing required properties: %s" }`, strings.Join(undeclared, " ")))
}

// applyPatternProperties validates undeclared keys against pattern schemas.
// When several patterns match a key, the first in lexical pattern order wins.
func (s *session) applyPatternProperties(expr *zodExpr, sc *parser.Schema, depth int) {
	if len(sc.PatternProperties) == 0 {
		return
	}

	pairs := make([]string, 0, len(sc.PatternProperties))
	for _, pattern := range sortedNames(sc.PatternProperties) {
		value := s.compile(sc.PatternProperties[pattern], "", false, true, depth+1)
		pairs = append(pairs, fmt.Sprintf("[%s, %s]", s.regexLiteral(pattern), value.String()))
	}

	body := fmt.Sprintf(
		"(obj, ctx) => { const patterns = [%s]; "+
			"for (const [key, value] of Object.entries(obj)) { "+
			"const match = patterns.find(([pattern]) => pattern.test(key)); "+
			"if (match && !match[1].safeParse(value).success) { "+
			"ctx.addIssue({ code: z.ZodIssueCode.custom, path: [key], message: `value does not match pattern schema` }); } } }",
		strings.Join(pairs, ", "))
	expr.method("superRefine", body)
}

func (s *session) applyPropertyNames(expr *zodExpr, sc *parser.Schema, depth int) {
	if sc.PropertyNames == nil {
		return
	}
	nameExpr := s.compile(sc.PropertyNames, "", false, true, depth+1)
	expr.method("refine",
		fmt.Sprintf("(obj) => Object.keys(obj).every((key) => %s.safeParse(key).success)", nameExpr.String()),
		`{ message: "object property names are invalid" }`)
}

func (s *session) applyDependentRequired(expr *zodExpr, sc *parser.Schema) {
	for _, trigger := range sortedNames(sc.DependentRequired) {
		deps := sc.DependentRequired[trigger]
		literals := make([]string, len(deps))
		for i, dep := range deps {
			literals[i] = jsonLiteral(dep)
		}
		expr.method("refine",
			fmt.Sprintf("(obj) => !(%s in obj) || [%s].every((key) => key in obj)",
				jsonLiteral(trigger), strings.Join(literals, ", ")),
			fmt.Sprintf(`{ message: "properties required when %s is present: %s" }`,
				trigger, strings.Join(deps, ", ")))
	}
}

func (s *session) applyDependentSchemas(expr *zodExpr, sc *parser.Schema, depth int) {
	for _, trigger := range sortedNames(sc.DependentSchemas) {
		dep := s.compile(sc.DependentSchemas[trigger], "", false, true, depth+1)
		expr.method("refine",
			fmt.Sprintf("(obj) => !(%s in obj) || %s.safeParse(obj).success",
				jsonLiteral(trigger), dep.String()),
			fmt.Sprintf(`{ message: "object does not match schema required when %s is present" }`, trigger))
	}
}

// applyConditional enforces if/then/else as a conditional refinement.
func (s *session) applyConditional(expr *zodExpr, sc *parser.Schema, depth int) {
	if sc.If == nil || (sc.Then == nil && sc.Else == nil) {
		return
	}

	condition := s.compile(sc.If, "", false, true, depth+1)
	var branches []string
	if sc.Then != nil {
		thenExpr := s.compile(sc.Then, "", false, true, depth+1)
		branches = append(branches, fmt.Sprintf("if (matched) { return %s.safeParse(obj).success; }", thenExpr.String()))
	}
	if sc.Else != nil {
		elseExpr := s.compile(sc.Else, "", false, true, depth+1)
		branches = append(branches, fmt.Sprintf("if (!matched) { return %s.safeParse(obj).success; }", elseExpr.String()))
	}

	expr.method("refine",
		fmt.Sprintf("(obj) => { const matched = %s.safeParse(obj).success; %s return true; }",
			condition.String(), strings.Join(branches, " ")),
		`{ message: "object does not satisfy conditional schema" }`)
}
