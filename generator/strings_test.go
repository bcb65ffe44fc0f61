package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CeriosTesting/openapi-to-zod/parser"
)

func TestCompileString_Formats(t *testing.T) {
	s := testSession(t, New(), nil)

	tests := []struct {
		format string
		want   string
	}{
		{format: "uuid", want: "z.string().uuid()"},
		{format: "email", want: "z.string().email()"},
		{format: "uri", want: "z.string().url()"},
		{format: "url", want: "z.string().url()"},
		{format: "date", want: "z.string().date()"},
		{format: "time", want: "z.string().time()"},
		{format: "duration", want: "z.string().duration()"},
		{format: "date-time", want: "z.string().datetime({ offset: true })"},
		{format: "ipv4", want: `z.string().ip({ version: "v4" })`},
		{format: "ipv6", want: `z.string().ip({ version: "v6" })`},
		{format: "ip", want: "z.string().ip()"},
		{format: "cidr", want: "z.string().cidr()"},
		{format: "byte", want: "z.string().base64()"},
		{format: "base64", want: "z.string().base64()"},
		{format: "base64url", want: "z.string().base64url()"},
		{format: "cuid", want: "z.string().cuid()"},
		{format: "cuid2", want: "z.string().cuid2()"},
		{format: "ulid", want: "z.string().ulid()"},
		{format: "nanoid", want: "z.string().nanoid()"},
		{format: "emoji", want: "z.string().emoji()"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got := s.compile(&parser.Schema{Type: "string", Format: tt.format}, "", false, false, 0)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestCompileString_RegexFallbackFormats(t *testing.T) {
	s := testSession(t, New(), nil)

	for _, format := range []string{"hostname", "ksuid", "json-pointer", "relative-json-pointer", "uri-template"} {
		t.Run(format, func(t *testing.T) {
			got := s.compile(&parser.Schema{Type: "string", Format: format}, "", false, false, 0)
			assert.Contains(t, got.String(), ".regex(/", "format %s should fall back to a regex", format)
		})
	}
}

func TestCompileString_UnknownFormatReportsInfo(t *testing.T) {
	s := testSession(t, New(), nil)

	got := s.compile(&parser.Schema{Type: "string", Format: "social-security"}, "", false, false, 0)
	assert.Equal(t, "z.string()", got.String())

	require.Len(t, s.issues, 1)
	assert.Equal(t, SeverityInfo, s.issues[0].Severity)
	assert.Contains(t, s.issues[0].Message, "social-security")
}

func TestCompileString_CustomDateTimePattern(t *testing.T) {
	g := New()
	g.DateTimePattern = `^\d{4}-\d{2}-\d{2}$`
	s := testSession(t, g, nil)

	got := s.compile(&parser.Schema{Type: "string", Format: "date-time"}, "", false, false, 0)
	assert.Equal(t, `z.string().regex(/^\d{4}-\d{2}-\d{2}$/)`, got.String())
}

func TestCompileString_ConstraintOrder(t *testing.T) {
	s := testSession(t, New(), nil)

	sc := &parser.Schema{
		Type:      "string",
		Format:    "email",
		MinLength: intPtr(3),
		MaxLength: intPtr(64),
		Pattern:   "^[a-z]+$",
	}
	got := s.compile(sc, "", false, false, 0)
	assert.Equal(t, "z.string().email().min(3).max(64).regex(/^[a-z]+$/)", got.String())
}

func TestCompileString_PatternSlashEscaping(t *testing.T) {
	s := testSession(t, New(), nil)

	got := s.compile(&parser.Schema{Type: "string", Pattern: "^a/b$"}, "", false, false, 0)
	assert.Equal(t, `z.string().regex(/^a\/b$/)`, got.String())
}

func TestEscapeRegexLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "^abc$", want: "^abc$"},
		{name: "unescaped slash", in: "a/b", want: `a\/b`},
		{name: "already escaped slash", in: `a\/b`, want: `a\/b`},
		{name: "escaped backslash then slash", in: `a\\/b`, want: `a\\\/b`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeRegexLiteral(tt.in))
		})
	}
}

func TestCompileString_ContentEncodingOverride(t *testing.T) {
	s := testSession(t, New(), nil)

	sc := &parser.Schema{Type: "string", ContentEncoding: "base64", MaxLength: intPtr(100)}
	got := s.compile(sc, "", false, false, 0)
	assert.Equal(t, "z.string().base64().max(100)", got.String(),
		"constraints reapply after the content-encoding base")
}

func TestCompileString_FormatWinsOverContentEncoding(t *testing.T) {
	s := testSession(t, New(), nil)

	sc := &parser.Schema{Type: "string", Format: "uuid", ContentEncoding: "base64"}
	got := s.compile(sc, "", false, false, 0)
	assert.Equal(t, "z.string().uuid()", got.String())
}

func TestCompileString_ContentMediaTypeJSON(t *testing.T) {
	s := testSession(t, New(), nil)

	sc := &parser.Schema{Type: "string", ContentMediaType: "application/json"}
	got := s.compile(sc, "", false, false, 0)
	assert.Equal(t,
		`z.string().refine((value) => { try { JSON.parse(value); return true; } catch { return false; } }, { message: "string must contain valid JSON" })`,
		got.String())
	assert.Empty(t, s.issues)
}

func TestCompileString_ContentMediaTypeAppliedAfterConstraints(t *testing.T) {
	s := testSession(t, New(), nil)

	sc := &parser.Schema{Type: "string", ContentMediaType: "application/vnd.api+json", MinLength: intPtr(2)}
	got := s.compile(sc, "", false, false, 0)
	assert.Equal(t, []string{"min", "refine"}, got.callNames(),
		"refine drops the string modifiers, so the parseability check comes last")
}

func TestCompileString_UnsupportedContentMediaType(t *testing.T) {
	s := testSession(t, New(), nil)

	sc := &parser.Schema{Type: "string", ContentMediaType: "image/png"}
	got := s.compile(sc, "", false, false, 0)
	assert.Equal(t, "z.string()", got.String())

	require.Len(t, s.issues, 1)
	assert.Equal(t, SeverityInfo, s.issues[0].Severity)
	assert.Equal(t, "contentMediaType", s.issues[0].Field)
}

func TestCompileString_ContentMediaTypeOnEncodedContent(t *testing.T) {
	s := testSession(t, New(), nil)

	sc := &parser.Schema{Type: "string", ContentEncoding: "base64", ContentMediaType: "application/json"}
	got := s.compile(sc, "", false, false, 0)
	assert.Equal(t, "z.string().base64()", got.String(),
		"transport-encoded content cannot be JSON-checked in place")

	require.Len(t, s.issues, 1)
	assert.Contains(t, s.issues[0].Message, "encoded content")
}

func TestCompileString_FormatWinsOverContentMediaType(t *testing.T) {
	s := testSession(t, New(), nil)

	sc := &parser.Schema{Type: "string", Format: "uuid", ContentMediaType: "application/json"}
	got := s.compile(sc, "", false, false, 0)
	assert.Equal(t, "z.string().uuid()", got.String())
	assert.Empty(t, s.issues)
}

func intPtr(v int) *int { return &v }
