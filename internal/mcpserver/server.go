// Package mcpserver implements an MCP (Model Context Protocol) server that
// exposes openapi-to-zod capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	openapitozod "github.com/CeriosTesting/openapi-to-zod"
)

const serverInstructions = `openapi-to-zod MCP server — parses OpenAPI documents and generates Zod validator schemas from them.

Tools:
- parse: structural summary of an OpenAPI document (title, version, schema counts)
- generate: compile named schemas into Zod validator expressions and TypeScript types

Generate options mirror the CLI: visibility mode (all/request/response), strictness (strict/normal/loose), default nullability, empty-object behavior, identifier prefix/suffix, and a separate types file toggle. Use output_dir to write schemas.ts (and types.ts) to disk; without it the generated sources are returned inline.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "openapi-to-zod", Version: openapitozod.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse",
		Description: "Parse an OpenAPI document. Returns a structural summary: title, declared version, source format, and path/operation/schema counts.",
	}, handleParse)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate Zod validator schemas from an OpenAPI document. Returns per-schema expressions, dependency and circular-reference information, and generation issues. Set output_dir to write schemas.ts (and types.ts when separate_types is set) to disk.",
	}, handleGenerate)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}
