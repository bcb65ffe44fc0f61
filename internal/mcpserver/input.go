package mcpserver

import (
	"fmt"
	"sync"

	"github.com/CeriosTesting/openapi-to-zod/parser"
)

// specInput represents the two ways an OpenAPI document can be provided to a
// tool. Exactly one of File or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to an OpenAPI file on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline OpenAPI document content (JSON or YAML)"`
}

// sessionParser is the shared parser for this MCP session. The parser's own
// cache is not safe for concurrent use, so tool handlers serialize on the
// mutex. File entries auto-invalidate on modification.
var (
	parserMu      sync.Mutex
	sessionParser = parser.New()
)

// resolve parses the provided document, from disk or inline content.
func (in specInput) resolve() (*parser.ParseResult, error) {
	set := 0
	if in.File != "" {
		set++
	}
	if in.Content != "" {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of file or content must be provided")
	}

	parserMu.Lock()
	defer parserMu.Unlock()
	if in.File != "" {
		return sessionParser.Parse(in.File)
	}
	return sessionParser.ParseBytes([]byte(in.Content))
}
