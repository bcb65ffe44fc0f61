// This file compiles string schemas: the format table, length and pattern
// constraints, and content-encoding overrides.

package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CeriosTesting/openapi-to-zod/parser"
)

// Formats without a first-class Zod validator fall back to fixed regular
// expressions.
const (
	hostnamePattern    = `^(([a-zA-Z0-9]|[a-zA-Z0-9][a-zA-Z0-9\-]*[a-zA-Z0-9])\.)*([A-Za-z0-9]|[A-Za-z0-9][A-Za-z0-9\-]*[A-Za-z0-9])$`
	ksuidPattern       = `^[0-9A-Za-z]{27}$`
	jsonPointerPattern = `^(\/[^\/~]*(~[01][^\/~]*)*)*$`
	relJSONPtrPattern  = `^(0|[1-9][0-9]*)(#|(\/[^\/~]*(~[01][^\/~]*)*)*)$`
	uriTemplatePattern = `^([^\x00-\x20"'<>%\\^` + "`" + `{|}]|%[0-9A-Fa-f]{2}|{[+#.\/;?&=,!@|]?((\w|%[0-9A-Fa-f]{2})(\.?(\w|%[0-9A-Fa-f]{2}))*(:[1-9][0-9]{0,3}|\*)?)(,((\w|%[0-9A-Fa-f]{2})(\.?(\w|%[0-9A-Fa-f]{2}))*(:[1-9][0-9]{0,3}|\*)?))*})*$`
)

// stringFormatCalls maps format keywords to their Zod modifier call.
// Formats needing arguments or configuration are handled in formatBase.
var stringFormatCalls = map[string]string{
	"uuid":      "uuid",
	"email":     "email",
	"uri":       "url",
	"url":       "url",
	"date":      "date",
	"time":      "time",
	"duration":  "duration",
	"ipv4":      "ip",
	"ipv6":      "ip",
	"ip":        "ip",
	"cidr":      "cidr",
	"byte":      "base64",
	"base64":    "base64",
	"base64url": "base64url",
	"cuid":      "cuid",
	"cuid2":     "cuid2",
	"ulid":      "ulid",
	"nanoid":    "nanoid",
	"emoji":     "emoji",
}

// stringFormatPatterns maps format keywords to regex fallbacks.
var stringFormatPatterns = map[string]string{
	"hostname":              hostnamePattern,
	"ksuid":                 ksuidPattern,
	"json-pointer":          jsonPointerPattern,
	"relative-json-pointer": relJSONPtrPattern,
	"uri-template":          uriTemplatePattern,
}

// compileString builds the validator for a string schema: format base first,
// then length constraints, then the pattern constraint, in that fixed order.
// A content-media-type check comes last, after every string modifier.
func (s *session) compileString(sc *parser.Schema) *zodExpr {
	expr := s.stringBase(sc)

	if sc.MinLength != nil {
		expr.method("min", strconv.Itoa(*sc.MinLength))
	}
	if sc.MaxLength != nil {
		expr.method("max", strconv.Itoa(*sc.MaxLength))
	}
	if sc.Pattern != "" {
		expr.method("regex", s.regexLiteral(sc.Pattern))
	}
	return s.applyContentMediaType(sc, expr)
}

// stringBase picks the base string validator. Content encoding declared
// without a format overrides the base; otherwise the format table applies.
func (s *session) stringBase(sc *parser.Schema) *zodExpr {
	if sc.Format == "" && sc.ContentEncoding != "" {
		return s.contentEncodingBase(sc)
	}
	return s.formatBase(sc)
}

// applyContentMediaType validates embedded content declared without a format.
// JSON media types get a parseability check appended after the string
// constraints (refine drops the string modifiers, so it must stay last in the
// chain). Encoded content cannot be checked in its transport form and other
// media types have no string-level check; both surface as info issues.
func (s *session) applyContentMediaType(sc *parser.Schema, expr *zodExpr) *zodExpr {
	if sc.Format != "" || sc.ContentMediaType == "" {
		return expr
	}
	if sc.ContentEncoding != "" {
		s.report(SeverityInfo, "contentMediaType",
			fmt.Sprintf("content media type %q is not validated on %s-encoded content", sc.ContentMediaType, sc.ContentEncoding),
			sc.ContentMediaType, "decode before validating the embedded content")
		return expr
	}
	if sc.ContentMediaType == "application/json" || strings.HasSuffix(sc.ContentMediaType, "+json") {
		return expr.method("refine",
			"(value) => { try { JSON.parse(value); return true; } catch { return false; } }",
			`{ message: "string must contain valid JSON" }`)
	}
	s.report(SeverityInfo, "contentMediaType",
		fmt.Sprintf("unsupported content media type %q", sc.ContentMediaType),
		sc.ContentMediaType, "validated as plain string")
	return expr
}

func (s *session) contentEncodingBase(sc *parser.Schema) *zodExpr {
	switch sc.ContentEncoding {
	case "base64", "base64url":
		return zodf("z.string()").method(sc.ContentEncoding)
	default:
		s.report(SeverityInfo, "contentEncoding",
			fmt.Sprintf("unsupported content encoding %q", sc.ContentEncoding),
			sc.ContentEncoding, "validated as plain string")
		return zodf("z.string()")
	}
}

func (s *session) formatBase(sc *parser.Schema) *zodExpr {
	if sc.Format == "" {
		return zodf("z.string()")
	}

	if sc.Format == "date-time" {
		if s.g.DateTimePattern != "" {
			return zodf("z.string()").method("regex", s.regexLiteral(s.g.DateTimePattern))
		}
		return zodf("z.string()").method("datetime", "{ offset: true }")
	}

	if call, ok := stringFormatCalls[sc.Format]; ok {
		expr := zodf("z.string()")
		switch sc.Format {
		case "ipv4":
			expr.method(call, `{ version: "v4" }`)
		case "ipv6":
			expr.method(call, `{ version: "v6" }`)
		default:
			expr.method(call)
		}
		return expr
	}

	if pattern, ok := stringFormatPatterns[sc.Format]; ok {
		return zodf("z.string()").method("regex", s.regexLiteral(pattern))
	}

	s.report(SeverityInfo, "format",
		fmt.Sprintf("unrecognized string format %q", sc.Format),
		sc.Format, "validated as plain string")
	return zodf("z.string()")
}

// regexLiteral renders a raw pattern as a JavaScript regex literal. Escaped
// forms are cached per distinct raw pattern.
func (s *session) regexLiteral(pattern string) string {
	return s.patternCache.GetOrCompute(pattern, func() string {
		return "/" + escapeRegexLiteral(pattern) + "/"
	})
}

// escapeRegexLiteral escapes unescaped forward slashes so the pattern can sit
// inside /.../ delimiters without terminating the literal early.
func escapeRegexLiteral(pattern string) string {
	var sb strings.Builder
	sb.Grow(len(pattern))
	escaped := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '/' && !escaped {
			sb.WriteString(`\/`)
		} else {
			sb.WriteByte(c)
		}
		escaped = c == '\\' && !escaped
	}
	return sb.String()
}
