package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type parseInput struct {
	Spec specInput `json:"spec" jsonschema:"The OpenAPI document to parse"`
}

type parseOutput struct {
	Version        string `json:"version"`
	Title          string `json:"title,omitempty"`
	Description    string `json:"description,omitempty"`
	Format         string `json:"format"`
	PathCount      int    `json:"path_count"`
	OperationCount int    `json:"operation_count"`
	SchemaCount    int    `json:"schema_count"`
}

func handleParse(_ context.Context, _ *mcp.CallToolRequest, input parseInput) (*mcp.CallToolResult, parseOutput, error) {
	result, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), parseOutput{}, nil
	}

	doc := result.Document
	output := parseOutput{
		Version:     result.Version,
		Format:      string(result.SourceFormat),
		Title:       doc.Info.Title,
		Description: doc.Info.Description,
		PathCount:   len(doc.Paths),
		SchemaCount: len(doc.Schemas()),
	}
	for _, item := range doc.Paths {
		output.OperationCount += len(item.Operations())
	}

	return nil, output, nil
}
