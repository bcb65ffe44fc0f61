package generator

import (
	"fmt"

	"github.com/CeriosTesting/openapi-to-zod/parser"
)

// Option is a function that configures a generate operation
type Option func(*generateConfig) error

// generateConfig holds configuration for a generate operation
type generateConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	parsed   *parser.ParseResult

	gen *Generator
}

// GenerateWithOptions compiles a document using functional options.
// This combines input source selection and configuration in a single call.
//
// Example:
//
//	result, err := generator.GenerateWithOptions(
//	    generator.WithFilePath("openapi.yaml"),
//	    generator.WithVisibility(generator.VisibilityResponse),
//	    generator.WithDefaultNullable(true),
//	)
func GenerateWithOptions(opts ...Option) (*GenerateResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: invalid options: %w", err)
	}

	if cfg.filePath != nil {
		return cfg.gen.Generate(*cfg.filePath)
	}
	if cfg.parsed != nil {
		return cfg.gen.GenerateParsed(*cfg.parsed)
	}

	// Should never reach here due to validation in applyOptions
	return nil, fmt.Errorf("generator: no input source specified")
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{gen: New()}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// Validate exactly one input source is specified
	sourceCount := 0
	if cfg.filePath != nil {
		sourceCount++
	}
	if cfg.parsed != nil {
		sourceCount++
	}

	if sourceCount == 0 {
		return nil, fmt.Errorf("generator: must specify an input source (use WithFilePath or WithParsed)")
	}
	if sourceCount > 1 {
		return nil, fmt.Errorf("generator: must specify exactly one input source")
	}

	// Fail fast on bad configuration, including the custom date-time pattern.
	if err := cfg.gen.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WithFilePath specifies a file path as the input source
func WithFilePath(path string) Option {
	return func(cfg *generateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithParsed specifies a parsed ParseResult as the input source
func WithParsed(result parser.ParseResult) Option {
	return func(cfg *generateConfig) error {
		cfg.parsed = &result
		return nil
	}
}

// WithVisibility sets the read/write property filtering mode
// Default: VisibilityAll
func WithVisibility(mode Visibility) Option {
	return func(cfg *generateConfig) error {
		switch mode {
		case VisibilityAll, VisibilityRequest, VisibilityResponse:
			cfg.gen.Visibility = mode
			return nil
		}
		return fmt.Errorf("generator: invalid visibility mode %q", mode)
	}
}

// WithStrictness sets the undeclared-key handling mode for object validators
// Default: StrictnessNormal
func WithStrictness(mode Strictness) Option {
	return func(cfg *generateConfig) error {
		switch mode {
		case StrictnessStrict, StrictnessNormal, StrictnessLoose:
			cfg.gen.Strictness = mode
			return nil
		}
		return fmt.Errorf("generator: invalid strictness mode %q", mode)
	}
}

// WithDefaultNullable makes property values nullable unless explicitly marked.
// Schema definitions, enums, consts, and composition branches are unaffected.
// Default: false
func WithDefaultNullable(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.DefaultNullable = enabled
		return nil
	}
}

// WithEmptyObjectBehavior selects the validator for property-less objects
// Default: EmptyObjectLoose
func WithEmptyObjectBehavior(mode EmptyObjectBehavior) Option {
	return func(cfg *generateConfig) error {
		switch mode {
		case EmptyObjectStrict, EmptyObjectLoose, EmptyObjectRecord:
			cfg.gen.EmptyObjectBehavior = mode
			return nil
		}
		return fmt.Errorf("generator: invalid empty object behavior %q", mode)
	}
}

// WithPrefix sets the prefix prepended to generated validator identifiers
// Default: ""
func WithPrefix(prefix string) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.Prefix = prefix
		return nil
	}
}

// WithSuffix sets the suffix appended to generated validator identifiers
// Default: "Schema"
func WithSuffix(suffix string) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.Suffix = suffix
		return nil
	}
}

// WithStripSchemaPrefix adds name prefixes to strip from schema names before
// identifier derivation (e.g., "io.k8s.api.")
func WithStripSchemaPrefix(prefixes ...string) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.StripSchemaPrefixes = append(cfg.gen.StripSchemaPrefixes, prefixes...)
		return nil
	}
}

// WithDescriptions enables or disables embedding schema descriptions
// Default: true
func WithDescriptions(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.IncludeDescriptions = enabled
		return nil
	}
}

// WithDateTimePattern overrides the date-time format validator with a custom
// regular expression. An invalid pattern fails at option application time.
func WithDateTimePattern(pattern string) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.DateTimePattern = pattern
		return nil
	}
}

// WithSeparateTypesFile emits type declarations into types.ts and annotates
// deferred-evaluation wrappers with the referenced type
// Default: false
func WithSeparateTypesFile(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.gen.SeparateTypesFile = enabled
		return nil
	}
}
