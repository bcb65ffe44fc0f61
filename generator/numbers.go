// This file compiles number and integer schemas: range and multiple-of
// constraints over the float/integer base distinction, covering both the
// OAS 3.0 boolean exclusives and the OAS 3.1 numeric exclusives.

package generator

import (
	"strconv"

	"github.com/CeriosTesting/openapi-to-zod/parser"
)

// compileNumber builds the validator for number and integer schemas.
func (s *session) compileNumber(sc *parser.Schema, integer bool) *zodExpr {
	expr := zodf("z.number()")
	if integer {
		expr.method("int")
	}

	lower, lowerExclusive := numericLowerBound(sc)
	if lower != nil {
		if lowerExclusive {
			expr.method("gt", numberLiteral(*lower))
		} else {
			expr.method("gte", numberLiteral(*lower))
		}
	}

	upper, upperExclusive := numericUpperBound(sc)
	if upper != nil {
		if upperExclusive {
			expr.method("lt", numberLiteral(*upper))
		} else {
			expr.method("lte", numberLiteral(*upper))
		}
	}

	if sc.MultipleOf != nil {
		expr.method("multipleOf", numberLiteral(*sc.MultipleOf))
	}
	return expr
}

// numericLowerBound resolves minimum/exclusiveMinimum across OAS versions.
// OAS 3.0 declares exclusiveMinimum as a boolean modifying minimum; OAS 3.1
// declares it as a standalone number.
func numericLowerBound(sc *parser.Schema) (*float64, bool) {
	if n, ok := asFloat(sc.ExclusiveMinimum); ok {
		return &n, true
	}
	if sc.Minimum != nil {
		exclusive, _ := sc.ExclusiveMinimum.(bool)
		return sc.Minimum, exclusive
	}
	return nil, false
}

// numericUpperBound resolves maximum/exclusiveMaximum across OAS versions.
func numericUpperBound(sc *parser.Schema) (*float64, bool) {
	if n, ok := asFloat(sc.ExclusiveMaximum); ok {
		return &n, true
	}
	if sc.Maximum != nil {
		exclusive, _ := sc.ExclusiveMaximum.(bool)
		return sc.Maximum, exclusive
	}
	return nil, false
}

// asFloat normalizes the numeric forms YAML and JSON decoding produce.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// numberLiteral renders a float as a JavaScript number literal without
// trailing zeros.
func numberLiteral(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}
