package generator

import (
	"fmt"
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
)

// zodCall is a single chained modifier call on a Zod expression,
// e.g. .min(3) or .extend(petSchema.shape).
type zodCall struct {
	name string
	args []string
}

// zodExpr is the structured form of a Zod validator expression: a base
// constructor followed by an ordered modifier chain. Expressions stay
// structured until the assembly boundary so ordering invariants (extension
// before nullable, nullable before optional) can be asserted on the chain
// rather than on serialized text.
type zodExpr struct {
	base  string
	calls []zodCall
}

// zodf builds a base expression from a format string, e.g.
// zodf("z.array(%s)", item) or zodf("petSchema").
func zodf(format string, args ...any) *zodExpr {
	if len(args) == 0 {
		return &zodExpr{base: format}
	}
	return &zodExpr{base: fmt.Sprintf(format, args...)}
}

// method appends a modifier call and returns the expression for chaining.
func (e *zodExpr) method(name string, args ...string) *zodExpr {
	e.calls = append(e.calls, zodCall{name: name, args: args})
	return e
}

// hasCall reports whether the modifier chain contains a call with name.
func (e *zodExpr) hasCall(name string) bool {
	for _, c := range e.calls {
		if c.name == name {
			return true
		}
	}
	return false
}

// callNames returns the modifier chain names in order. Used by tests to
// assert placement invariants.
func (e *zodExpr) callNames() []string {
	names := make([]string, len(e.calls))
	for i, c := range e.calls {
		names[i] = c.name
	}
	return names
}

// String serializes the expression to Zod source text.
func (e *zodExpr) String() string {
	var sb strings.Builder
	sb.WriteString(e.base)
	for _, c := range e.calls {
		sb.WriteByte('.')
		sb.WriteString(c.name)
		sb.WriteByte('(')
		sb.WriteString(strings.Join(c.args, ", "))
		sb.WriteByte(')')
	}
	return sb.String()
}

// jsonLiteral encodes v as a JSON (and therefore JavaScript) literal.
func jsonLiteral(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Values reaching here come from decoded YAML/JSON and always re-encode.
		return "null"
	}
	return string(data)
}

// jsIdentifierPattern matches names that can appear unquoted as object keys.
var jsIdentifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// propertyKey renders a property name for use inside z.object({...}),
// quoting it when it is not a valid JavaScript identifier.
func propertyKey(name string) string {
	if jsIdentifierPattern.MatchString(name) {
		return name
	}
	return jsonLiteral(name)
}
