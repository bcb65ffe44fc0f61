package generator

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/CeriosTesting/openapi-to-zod/internal/issues"
	"github.com/CeriosTesting/openapi-to-zod/internal/severity"
	"github.com/CeriosTesting/openapi-to-zod/parser"
)

// Severity indicates the severity level of a generation issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about generation choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates recoverable conditions handled with a fallback
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates document problems that make output unreliable
	SeverityError = severity.SeverityError
	// SeverityCritical indicates features that cannot be generated
	SeverityCritical = severity.SeverityCritical
)

// GenerateIssue represents a single generation issue or limitation
type GenerateIssue = issues.Issue

// Visibility selects which properties are included based on their
// read-only/write-only markers.
type Visibility string

const (
	// VisibilityAll includes every property regardless of markers
	VisibilityAll Visibility = "all"
	// VisibilityRequest excludes read-only properties
	VisibilityRequest Visibility = "request"
	// VisibilityResponse excludes write-only properties
	VisibilityResponse Visibility = "response"
)

// Strictness controls how object validators treat undeclared keys when the
// schema itself does not say.
type Strictness string

const (
	// StrictnessStrict rejects undeclared keys
	StrictnessStrict Strictness = "strict"
	// StrictnessNormal strips undeclared keys (Zod default)
	StrictnessNormal Strictness = "normal"
	// StrictnessLoose passes undeclared keys through
	StrictnessLoose Strictness = "loose"
)

// EmptyObjectBehavior controls the validator emitted for an object schema
// that declares no properties.
type EmptyObjectBehavior string

const (
	// EmptyObjectStrict rejects any key
	EmptyObjectStrict EmptyObjectBehavior = "strict"
	// EmptyObjectLoose accepts any key
	EmptyObjectLoose EmptyObjectBehavior = "loose"
	// EmptyObjectRecord behaves as an open string->unknown mapping
	EmptyObjectRecord EmptyObjectBehavior = "record"
)

// GeneratedFile represents a single generated file
type GeneratedFile struct {
	// Name is the file name (e.g., "schemas.ts", "types.ts")
	Name string
	// Content is the generated TypeScript source
	Content []byte
}

// SchemaArtifact is the generation output for one named schema.
type SchemaArtifact struct {
	// Name is the schema name as declared in the document
	Name string
	// Identifier is the generated validator constant name (e.g., "petSchema")
	Identifier string
	// TypeName is the generated TypeScript type name (e.g., "Pet")
	TypeName string
	// Expression is the Zod validator expression
	Expression string
	// TypeDecl is the companion TypeScript type declaration
	TypeDecl string
	// DependsOn lists the names of other schemas this schema references
	DependsOn []string
	// Circular is true when the schema participates in a reference cycle
	Circular bool
}

// GenerateResult contains the results of compiling a document's schemas.
type GenerateResult struct {
	// Files contains the assembled output files
	Files []GeneratedFile
	// Schemas contains one artifact per named schema, in emission order
	Schemas []SchemaArtifact
	// Dependencies maps each schema name to the names it references
	Dependencies map[string][]string
	// CircularSchemas lists schema names participating in reference cycles
	CircularSchemas []string
	// SourceVersion is the declared OAS version of the source document
	SourceVersion string
	// SourceFormat is the format of the source document
	SourceFormat parser.SourceFormat
	// Issues contains all generation issues
	Issues []GenerateIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// ErrorCount is the total number of errors
	ErrorCount int
	// CriticalCount is the total number of critical issues
	CriticalCount int
	// Success is true if generation completed without errors or critical issues
	Success bool
	// LoadTime is the time taken to load the source document
	LoadTime time.Duration
	// GenerateTime is the time taken to compile the schemas
	GenerateTime time.Duration
	// SourceSize is the size of the source document in bytes
	SourceSize int64
}

// HasWarnings returns true if there are any warnings
func (r *GenerateResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// GetSchema returns the artifact for the named schema, or nil if not found
func (r *GenerateResult) GetSchema(name string) *SchemaArtifact {
	for i := range r.Schemas {
		if r.Schemas[i].Name == name {
			return &r.Schemas[i]
		}
	}
	return nil
}

// GetFile returns the generated file with the given name, or nil if not found
func (r *GenerateResult) GetFile(name string) *GeneratedFile {
	for i := range r.Files {
		if r.Files[i].Name == name {
			return &r.Files[i]
		}
	}
	return nil
}

// Generator compiles parsed documents into Zod validator expressions.
//
// A Generator carries configuration only; all mutable generation state lives
// in a per-run session, so distinct Generator instances may run concurrently
// and a single instance may be reused sequentially.
type Generator struct {
	// Visibility selects the read/write property filtering mode.
	// Default: VisibilityAll
	Visibility Visibility

	// Strictness controls undeclared-key handling for object validators.
	// Default: StrictnessNormal
	Strictness Strictness

	// DefaultNullable makes property values nullable unless a schema carries
	// an explicit nullable marker. Schema definitions, enums, consts, and
	// composition branches are never affected by this default.
	DefaultNullable bool

	// EmptyObjectBehavior selects the validator for property-less objects.
	// Default: EmptyObjectLoose
	EmptyObjectBehavior EmptyObjectBehavior

	// Prefix is prepended to every generated validator identifier
	Prefix string

	// Suffix is appended to every generated validator identifier.
	// Default: "Schema"
	Suffix string

	// StripSchemaPrefixes are removed from schema names before identifier
	// and type-name derivation.
	StripSchemaPrefixes []string

	// IncludeDescriptions embeds schema descriptions as .describe(...) calls.
	// Default: true
	IncludeDescriptions bool

	// DateTimePattern overrides the default date-time format validator with a
	// custom regular expression. Validated when the generator is configured.
	DateTimePattern string

	// SeparateTypesFile emits type declarations into types.ts instead of
	// inline, and annotates deferred-evaluation wrappers with the referenced
	// type so forward references type-check against the separate artifact.
	SeparateTypesFile bool

	// dateTimeRe is the compiled DateTimePattern, set during validation.
	dateTimeRe *regexp.Regexp
}

// New creates a new Generator instance with default settings
func New() *Generator {
	return &Generator{
		Visibility:          VisibilityAll,
		Strictness:          StrictnessNormal,
		DefaultNullable:     false,
		EmptyObjectBehavior: EmptyObjectLoose,
		Suffix:              "Schema",
		IncludeDescriptions: true,
	}
}

// Validate checks the configuration and compiles the custom date-time
// pattern. Called before every generation run; a bad custom pattern fails
// here rather than mid-generation.
func (g *Generator) Validate() error {
	switch g.Visibility {
	case VisibilityAll, VisibilityRequest, VisibilityResponse:
	default:
		return fmt.Errorf("generator: invalid visibility mode %q", g.Visibility)
	}
	switch g.Strictness {
	case StrictnessStrict, StrictnessNormal, StrictnessLoose:
	default:
		return fmt.Errorf("generator: invalid strictness mode %q", g.Strictness)
	}
	switch g.EmptyObjectBehavior {
	case EmptyObjectStrict, EmptyObjectLoose, EmptyObjectRecord:
	default:
		return fmt.Errorf("generator: invalid empty object behavior %q", g.EmptyObjectBehavior)
	}
	if g.DateTimePattern != "" {
		re, err := regexp.Compile(g.DateTimePattern)
		if err != nil {
			return fmt.Errorf("generator: invalid custom date-time pattern: %w", err)
		}
		g.dateTimeRe = re
	}
	return nil
}

// Generate parses the document at specPath and compiles its schemas.
func (g *Generator) Generate(specPath string) (*GenerateResult, error) {
	p := parser.New()
	parseResult, err := p.Parse(specPath)
	if err != nil {
		return nil, fmt.Errorf("generator: failed to parse specification: %w", err)
	}
	return g.GenerateParsed(*parseResult)
}

// GenerateParsed compiles an already-parsed document.
func (g *Generator) GenerateParsed(parseResult parser.ParseResult) (*GenerateResult, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	startTime := time.Now()

	result := &GenerateResult{
		SourceVersion: parseResult.Version,
		SourceFormat:  parseResult.SourceFormat,
		LoadTime:      parseResult.LoadTime,
		SourceSize:    parseResult.SourceSize,
	}

	if parseResult.Document == nil {
		return nil, fmt.Errorf("generator: parse result carries no document")
	}

	s := newSession(g, parseResult.Document)
	result.Schemas = s.buildArtifacts()
	result.Issues = s.issues
	result.Dependencies = make(map[string][]string, len(result.Schemas))
	for _, artifact := range result.Schemas {
		result.Dependencies[artifact.Name] = artifact.DependsOn
	}
	result.CircularSchemas = s.graph.circularNames()
	result.Files = s.assembleFiles(result.Schemas)

	result.GenerateTime = time.Since(startTime)
	updateCounts(result)
	result.Success = result.ErrorCount == 0 && result.CriticalCount == 0

	return result, nil
}

// updateCounts updates the issue counts in the result
func updateCounts(result *GenerateResult) {
	result.InfoCount = 0
	result.WarningCount = 0
	result.ErrorCount = 0
	result.CriticalCount = 0

	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityInfo:
			result.InfoCount++
		case SeverityWarning:
			result.WarningCount++
		case SeverityError:
			result.ErrorCount++
		case SeverityCritical:
			result.CriticalCount++
		}
	}
}

// sortedNames returns map keys in lexical order.
func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
