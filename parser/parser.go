package parser

import (
	"bytes"
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"

	"github.com/CeriosTesting/openapi-to-zod/internal/lru"
)

// DefaultCacheSize is the default capacity of the parsed-document cache.
const DefaultCacheSize = 32

// Parser handles OpenAPI document parsing.
//
// A Parser instance owns its document cache and must not be shared across
// concurrent generation runs; create one Parser per run or guard access
// externally.
type Parser struct {
	// ValidateStructure determines whether to perform basic structure validation
	ValidateStructure bool
	// Logger is the structured logger for debug output
	// If nil, logging is disabled (default)
	Logger Logger
	// CacheSize bounds the parsed-document cache. Zero uses DefaultCacheSize;
	// a negative value disables caching.
	CacheSize int

	cache *lru.Cache[cacheKey, *ParseResult]
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		ValidateStructure: true,
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// SourceFormat represents the format of the source document
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
)

// cacheKey identifies a parsed file by path and modification time, so edits
// invalidate the entry without explicit purging.
type cacheKey struct {
	path    string
	modTime int64
	size    int64
}

// ParseResult contains the parsed document and metadata.
//
// Callers should treat ParseResult as read-only after parsing: results may be
// cached and shared across sequential generation runs on the same Parser.
type ParseResult struct {
	// SourcePath is the input path the document was read from (empty for ParseBytes)
	SourcePath string
	// SourceFormat is the detected format of the source data
	SourceFormat SourceFormat
	// Version is the declared OAS version (openapi or swagger field)
	Version string
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// LoadTime is the time taken to read and decode the source
	LoadTime time.Duration
	// Document is the decoded document
	Document *Document
}

// Parse reads and parses the document at path.
// Results are cached per (path, mtime, size) unless caching is disabled.
func (p *Parser) Parse(path string) (*ParseResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to stat %s: %w", path, err)
	}

	key := cacheKey{path: path, modTime: info.ModTime().UnixNano(), size: info.Size()}
	if p.CacheSize >= 0 {
		if p.cache == nil {
			p.cache = lru.New[cacheKey, *ParseResult](p.cacheSize())
		}
		if cached, ok := p.cache.Get(key); ok {
			p.log().Debugf("parser: cache hit for %s", path)
			return cached, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read %s: %w", path, err)
	}

	result, err := p.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	result.SourcePath = path

	if p.cache != nil {
		p.cache.Add(key, result)
	}
	return result, nil
}

// ParseBytes parses an in-memory document.
// JSON input is detected by its leading byte and decoded on the JSON
// fast-path; everything else goes through the YAML decoder.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	start := time.Now()

	result := &ParseResult{
		SourceSize: int64(len(data)),
	}

	var doc Document
	if looksLikeJSON(data) {
		result.SourceFormat = SourceFormatJSON
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parser: failed to decode JSON document: %w", err)
		}
	} else {
		result.SourceFormat = SourceFormatYAML
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parser: failed to decode YAML document: %w", err)
		}
	}

	result.Document = &doc
	result.Version = doc.OpenAPI
	if result.Version == "" {
		result.Version = doc.Swagger
	}
	result.LoadTime = time.Since(start)

	if p.ValidateStructure {
		if err := validateStructure(&doc); err != nil {
			return nil, err
		}
	}

	p.log().Debugf("parser: decoded %s document (%d bytes, %d schemas)",
		result.SourceFormat, result.SourceSize, len(doc.Schemas()))
	return result, nil
}

// cacheSize resolves the configured cache capacity.
func (p *Parser) cacheSize() int {
	if p.CacheSize > 0 {
		return p.CacheSize
	}
	return DefaultCacheSize
}

// looksLikeJSON reports whether data starts with a JSON object or array
// after leading whitespace.
func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[')
}

// validateStructure performs the minimal checks generation depends on.
func validateStructure(doc *Document) error {
	if doc.OpenAPI == "" && doc.Swagger == "" && doc.Defs == nil && doc.Components == nil {
		return fmt.Errorf("parser: document declares no OpenAPI version and no schema definitions")
	}
	return nil
}

// Logger is the minimal logging interface the parser uses for debug output.
type Logger interface {
	Debugf(format string, args ...any)
}

// NopLogger discards all log output.
type NopLogger struct{}

// Debugf implements Logger.
func (NopLogger) Debugf(string, ...any) {}
