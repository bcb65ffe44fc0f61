// Package openapitozod turns OpenAPI/JSON-Schema documents into Zod validator
// expressions and companion TypeScript type declarations.
//
// The module consists of two primary packages:
//
//   - parser: Parse OpenAPI/JSON-Schema documents into the schema object model
//   - generator: Compile every named schema into a Zod validator expression,
//     a TypeScript type declaration, and a schema dependency listing
//
// # Quick Start
//
// Generate Zod schemas from an OpenAPI specification:
//
//	import "github.com/CeriosTesting/openapi-to-zod/generator"
//
//	result, err := generator.GenerateWithOptions(
//	    generator.WithFilePath("openapi.yaml"),
//	    generator.WithVisibility(generator.VisibilityResponse),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, f := range result.Files {
//	    fmt.Printf("%s (%d bytes)\n", f.Name, len(f.Content))
//	}
//
// Parse a document without generating:
//
//	import "github.com/CeriosTesting/openapi-to-zod/parser"
//
//	p := parser.New()
//	result, err := p.Parse("openapi.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Schemas: %d\n", len(result.Document.Schemas()))
//
// The openapi2zod CLI in cmd/openapi2zod exposes the same functionality as
// subcommands, plus an MCP stdio server for editor integrations.
package openapitozod
