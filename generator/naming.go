// This file implements name derivation for generated identifiers: validator
// constants, TypeScript type names, and enum member names, including
// collision avoidance against a caller-supplied registry.

package generator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/CeriosTesting/openapi-to-zod/internal/naming"
)

const (
	// emptyMemberName is the member name for an empty enum value
	emptyMemberName = "Empty"
	// valueMemberPrefix prefixes members that would otherwise start with a
	// digit, and names members derived from numeric values
	valueMemberPrefix = "Value"
	// negativeMarker replaces the minus sign in numeric member names
	negativeMarker = "Neg"
	// ascendingSuffix/descendingSuffix record a stripped leading sort marker
	ascendingSuffix  = "Asc"
	descendingSuffix = "Desc"
)

// stripName removes the first matching configured prefix from a schema name.
func (g *Generator) stripName(name string) string {
	for _, prefix := range g.StripSchemaPrefixes {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

// identifier derives the validator constant name for a schema,
// e.g. "Pet" -> "petSchema" with the default prefix/suffix.
func (g *Generator) identifier(name string) string {
	base := naming.ToCamelCase(g.stripName(name))
	ident := g.Prefix + base + g.Suffix
	if ident == "" {
		ident = "schema"
	}
	if ident[0] >= '0' && ident[0] <= '9' {
		ident = "_" + ident
	}
	return ident
}

// typeName derives the TypeScript type name for a schema.
func (g *Generator) typeName(name string) string {
	tn := naming.ToPascalCase(g.stripName(name))
	if tn == "" {
		return "Type"
	}
	if tn[0] >= '0' && tn[0] <= '9' {
		tn = "T" + tn
	}
	return tn
}

// nonIdentifierPattern matches every character that cannot appear in a
// generated member name.
var nonIdentifierPattern = regexp.MustCompile(`[^A-Za-z0-9]+`)

// delimiterPattern detects raw values that need segment normalization.
var delimiterPattern = regexp.MustCompile(`[-_ .]`)

// stringToEnumMember converts a raw enum value to a member identifier.
//
// A leading "+" or "-" is stripped and recorded as an Asc/Desc suffix
// applied after the base transform. Values containing delimiter characters
// are normalized, split, and title-cased per segment; already camel- or
// Pascal-shaped values only get their first character upper-cased. The
// result is prefixed when it would start with a digit, and collision-bumped
// against usedKeys when supplied.
func stringToEnumMember(raw string, usedKeys map[string]bool) string {
	value, suffix := splitSortMarker(raw)

	var base string
	switch {
	case value == "":
		base = emptyMemberName
	case delimiterPattern.MatchString(value) || suffix != "":
		base = titleCaseSegments(value)
	default:
		base = nonIdentifierPattern.ReplaceAllString(naming.UpperFirst(value), "")
	}

	if base == "" {
		// Nothing but symbols remained after normalization.
		base = valueMemberPrefix
	}
	if base[0] >= '0' && base[0] <= '9' {
		base = valueMemberPrefix + base
	}

	return allocateMember(base+suffix, usedKeys)
}

// numericToEnumMember converts a numeric enum value (or numeric string) to a
// member identifier. Numbers map to a fixed Value-prefixed form; negative
// numbers get the Neg infix instead of a minus sign. A leading "+"/"-" on a
// string input records the same Asc/Desc suffix as stringToEnumMember.
func numericToEnumMember(raw any, usedKeys map[string]bool) string {
	var (
		text   string
		suffix string
	)

	switch v := raw.(type) {
	case string:
		text, suffix = splitSortMarker(v)
	case int:
		text = strconv.Itoa(v)
	case int32:
		text = strconv.FormatInt(int64(v), 10)
	case int64:
		text = strconv.FormatInt(v, 10)
	case uint:
		text = strconv.FormatUint(uint64(v), 10)
	case uint32:
		text = strconv.FormatUint(uint64(v), 10)
	case uint64:
		text = strconv.FormatUint(v, 10)
	case float64:
		text = strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		text = strconv.FormatFloat(float64(v), 'g', -1, 32)
	default:
		text = fmt.Sprintf("%v", raw)
	}

	negative := strings.HasPrefix(text, "-")
	text = strings.TrimPrefix(text, "-")
	// Decimal points and exponent markers normalize to underscores.
	text = nonIdentifierPattern.ReplaceAllString(text, "_")
	text = strings.Trim(text, "_")

	base := valueMemberPrefix
	if negative {
		base += negativeMarker
	}
	base += text

	return allocateMember(base+suffix, usedKeys)
}

// splitSortMarker strips a leading +/- sort marker and returns the matching
// member name suffix.
func splitSortMarker(raw string) (value, suffix string) {
	switch {
	case strings.HasPrefix(raw, "+"):
		return raw[1:], ascendingSuffix
	case strings.HasPrefix(raw, "-"):
		return raw[1:], descendingSuffix
	}
	return raw, ""
}

// titleCaseSegments normalizes non-identifier characters to underscores,
// splits, and title-cases each segment (first letter upper, rest lower).
func titleCaseSegments(value string) string {
	normalized := nonIdentifierPattern.ReplaceAllString(value, "_")
	segments := strings.Split(normalized, "_")

	var sb strings.Builder
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		sb.WriteString(naming.TitleSegment(segment))
	}
	return sb.String()
}

// allocateMember resolves collisions against usedKeys by appending the
// smallest integer >= 2 that yields an unused name, then records the
// chosen name.
func allocateMember(candidate string, usedKeys map[string]bool) string {
	if usedKeys == nil {
		return candidate
	}
	chosen := candidate
	for n := 2; usedKeys[chosen]; n++ {
		chosen = candidate + strconv.Itoa(n)
	}
	usedKeys[chosen] = true
	return chosen
}
