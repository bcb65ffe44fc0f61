// This file compiles array schemas: tuple forms with prefixItems, item
// schemas, and length/uniqueness constraints.

package generator

import (
	"strconv"

	"github.com/CeriosTesting/openapi-to-zod/parser"
)

// compileArray builds the validator for an array schema. prefixItems compiles
// to a tuple (with the items schema as its rest element); otherwise the items
// schema compiles as the element validator, defaulting to z.unknown().
func (s *session) compileArray(sc *parser.Schema, depth int) *zodExpr {
	var expr *zodExpr

	if len(sc.PrefixItems) > 0 {
		elements := make([]string, len(sc.PrefixItems))
		for i, item := range sc.PrefixItems {
			elements[i] = s.compile(item, "", false, false, depth+1).String()
		}
		expr = zodf("z.tuple([%s])", joinArgs(elements))
		if rest := sc.ItemsSchema(); rest != nil {
			expr.method("rest", s.compile(rest, "", false, false, depth+1).String())
		}
	} else {
		item := "z.unknown()"
		if itemSchema := sc.ItemsSchema(); itemSchema != nil {
			item = s.compile(itemSchema, "", false, false, depth+1).String()
		}
		expr = zodf("z.array(%s)", item)
	}

	if sc.MinItems != nil {
		expr.method("min", strconv.Itoa(*sc.MinItems))
	}
	if sc.MaxItems != nil {
		expr.method("max", strconv.Itoa(*sc.MaxItems))
	}
	if sc.UniqueItems {
		expr.method("refine",
			"(items) => new Set(items.map((item) => JSON.stringify(item))).size === items.length",
			`{ message: "array items must be unique" }`)
	}
	return expr
}
