package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/CeriosTesting/openapi-to-zod/generator"
)

type generateInput struct {
	Spec            specInput `json:"spec"                       jsonschema:"The OpenAPI document to generate schemas from"`
	Visibility      string    `json:"visibility,omitempty"       jsonschema:"Property filtering mode: all, request, or response"`
	Strictness      string    `json:"strictness,omitempty"       jsonschema:"Undeclared-key handling: strict, normal, or loose"`
	DefaultNullable bool      `json:"default_nullable,omitempty" jsonschema:"Make property values nullable unless explicitly marked"`
	EmptyObject     string    `json:"empty_object,omitempty"     jsonschema:"Empty object behavior: strict, loose, or record"`
	Prefix          string    `json:"prefix,omitempty"           jsonschema:"Prefix for generated validator identifiers"`
	Suffix          string    `json:"suffix,omitempty"           jsonschema:"Suffix for generated validator identifiers (default Schema)"`
	StripPrefixes   []string  `json:"strip_prefixes,omitempty"   jsonschema:"Schema-name prefixes to strip before naming"`
	SeparateTypes   bool      `json:"separate_types,omitempty"   jsonschema:"Emit type declarations into a separate types.ts"`
	OutputDir       string    `json:"output_dir,omitempty"       jsonschema:"Directory to write generated files to; omit to return sources inline"`
}

type generatedSchemaInfo struct {
	Name       string   `json:"name"`
	Identifier string   `json:"identifier"`
	Circular   bool     `json:"circular,omitempty"`
	DependsOn  []string `json:"depends_on,omitempty"`
}

type generatedFileInfo struct {
	Name    string `json:"name"`
	Size    int    `json:"size"`
	Content string `json:"content,omitempty"`
}

type generateOutput struct {
	Success         bool                  `json:"success"`
	SchemaCount     int                   `json:"schema_count"`
	Schemas         []generatedSchemaInfo `json:"schemas,omitempty"`
	Files           []generatedFileInfo   `json:"files"`
	CircularSchemas []string              `json:"circular_schemas,omitempty"`
	Issues          []string              `json:"issues,omitempty"`
	WarningCount    int                   `json:"warning_count"`
	ErrorCount      int                   `json:"error_count"`
	CriticalCount   int                   `json:"critical_count"`
	OutputDir       string                `json:"output_dir,omitempty"`
}

func handleGenerate(_ context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	parseResult, err := input.Spec.resolve()
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	opts := []generator.Option{
		generator.WithParsed(*parseResult),
		generator.WithDefaultNullable(input.DefaultNullable),
		generator.WithSeparateTypesFile(input.SeparateTypes),
	}
	if input.Visibility != "" {
		opts = append(opts, generator.WithVisibility(generator.Visibility(input.Visibility)))
	}
	if input.Strictness != "" {
		opts = append(opts, generator.WithStrictness(generator.Strictness(input.Strictness)))
	}
	if input.EmptyObject != "" {
		opts = append(opts, generator.WithEmptyObjectBehavior(generator.EmptyObjectBehavior(input.EmptyObject)))
	}
	if input.Prefix != "" {
		opts = append(opts, generator.WithPrefix(input.Prefix))
	}
	if input.Suffix != "" {
		opts = append(opts, generator.WithSuffix(input.Suffix))
	}
	if len(input.StripPrefixes) > 0 {
		opts = append(opts, generator.WithStripSchemaPrefix(input.StripPrefixes...))
	}

	result, err := generator.GenerateWithOptions(opts...)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	if input.OutputDir != "" {
		if err := result.WriteFiles(input.OutputDir); err != nil {
			return errResult(fmt.Errorf("failed to write generated files: %w", err)), generateOutput{}, nil
		}
	}

	output := generateOutput{
		Success:         result.Success,
		SchemaCount:     len(result.Schemas),
		CircularSchemas: result.CircularSchemas,
		WarningCount:    result.WarningCount,
		ErrorCount:      result.ErrorCount,
		CriticalCount:   result.CriticalCount,
		OutputDir:       input.OutputDir,
	}

	output.Schemas = makeSlice[generatedSchemaInfo](len(result.Schemas))
	for _, artifact := range result.Schemas {
		output.Schemas = append(output.Schemas, generatedSchemaInfo{
			Name:       artifact.Name,
			Identifier: artifact.Identifier,
			Circular:   artifact.Circular,
			DependsOn:  artifact.DependsOn,
		})
	}

	output.Files = makeSlice[generatedFileInfo](len(result.Files))
	for _, f := range result.Files {
		info := generatedFileInfo{Name: f.Name, Size: len(f.Content)}
		if input.OutputDir == "" {
			info.Content = string(f.Content)
		}
		output.Files = append(output.Files, info)
	}

	output.Issues = makeSlice[string](len(result.Issues))
	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, issue.String())
	}

	return nil, output, nil
}
