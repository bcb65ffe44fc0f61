// Command openapi2zod generates Zod validator schemas from OpenAPI documents.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	openapitozod "github.com/CeriosTesting/openapi-to-zod"
	"github.com/CeriosTesting/openapi-to-zod/generator"
	"github.com/CeriosTesting/openapi-to-zod/internal/cliutil"
	"github.com/CeriosTesting/openapi-to-zod/internal/mcpserver"
	"github.com/CeriosTesting/openapi-to-zod/parser"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("openapi2zod v%s\n", openapitozod.Version())
	case "help", "-h", "--help":
		printUsage()
	case "generate":
		if err := handleGenerate(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "parse":
		if err := handleParse(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := mcpserver.Run(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	cliutil.Writef(os.Stdout, `openapi2zod - generate Zod validator schemas from OpenAPI documents

Usage:
  openapi2zod <command> [flags] <file>

Commands:
  generate    Generate Zod schemas and TypeScript types from an OpenAPI document
  parse       Parse an OpenAPI document and print a structural summary
  mcp         Run as an MCP server over stdio
  version     Print version information
  help        Print this help

Run 'openapi2zod <command> -h' for command-specific flags.
`)
}

// generateFlags contains flags for the generate command
type generateFlags struct {
	out             string
	visibility      string
	strictness      string
	defaultNullable bool
	emptyObject     string
	prefix          string
	suffix          string
	stripPrefixes   string
	dateTimePattern string
	descriptions    bool
	separateTypes   bool
	quiet           bool
}

func setupGenerateFlags() (*flag.FlagSet, *generateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &generateFlags{}

	fs.StringVar(&flags.out, "out", "", "output directory for generated files (default: print schemas.ts to stdout)")
	fs.StringVar(&flags.visibility, "mode", "all", "property filtering mode: all, request, or response")
	fs.StringVar(&flags.strictness, "strictness", "normal", "undeclared-key handling: strict, normal, or loose")
	fs.BoolVar(&flags.defaultNullable, "default-nullable", false, "make property values nullable unless explicitly marked")
	fs.StringVar(&flags.emptyObject, "empty-object", "loose", "empty object behavior: strict, loose, or record")
	fs.StringVar(&flags.prefix, "prefix", "", "prefix for generated validator identifiers")
	fs.StringVar(&flags.suffix, "suffix", "Schema", "suffix for generated validator identifiers")
	fs.StringVar(&flags.stripPrefixes, "strip-prefix", "", "comma-separated schema-name prefixes to strip before naming")
	fs.StringVar(&flags.dateTimePattern, "datetime-pattern", "", "custom regular expression for the date-time format")
	fs.BoolVar(&flags.descriptions, "descriptions", true, "embed schema descriptions as .describe() calls")
	fs.BoolVar(&flags.separateTypes, "separate-types", false, "emit type declarations into a separate types.ts")
	fs.BoolVar(&flags.quiet, "quiet", false, "suppress the issue summary on stderr")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: openapi2zod generate [flags] <file>\n\n")
		_, _ = fmt.Fprintf(output, "Generate Zod validator schemas from an OpenAPI document.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
		_, _ = fmt.Fprintf(output, "\nExamples:\n")
		_, _ = fmt.Fprintf(output, "  openapi2zod generate openapi.yaml\n")
		_, _ = fmt.Fprintf(output, "  openapi2zod generate --out ./src/generated --separate-types openapi.yaml\n")
		_, _ = fmt.Fprintf(output, "  openapi2zod generate --mode request --strictness strict openapi.json\n")
	}

	return fs, flags
}

func handleGenerate(args []string) error {
	fs, flags := setupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("generate command requires exactly one file path")
	}

	opts := []generator.Option{
		generator.WithFilePath(fs.Arg(0)),
		generator.WithVisibility(generator.Visibility(flags.visibility)),
		generator.WithStrictness(generator.Strictness(flags.strictness)),
		generator.WithDefaultNullable(flags.defaultNullable),
		generator.WithEmptyObjectBehavior(generator.EmptyObjectBehavior(flags.emptyObject)),
		generator.WithPrefix(flags.prefix),
		generator.WithSuffix(flags.suffix),
		generator.WithDescriptions(flags.descriptions),
		generator.WithSeparateTypesFile(flags.separateTypes),
	}
	if flags.stripPrefixes != "" {
		opts = append(opts, generator.WithStripSchemaPrefix(strings.Split(flags.stripPrefixes, ",")...))
	}
	if flags.dateTimePattern != "" {
		opts = append(opts, generator.WithDateTimePattern(flags.dateTimePattern))
	}

	result, err := generator.GenerateWithOptions(opts...)
	if err != nil {
		return err
	}

	if !flags.quiet {
		printIssueSummary(result)
	}

	if flags.out != "" {
		if err := result.WriteFiles(flags.out); err != nil {
			return err
		}
		cliutil.Writef(os.Stderr, "Wrote %d file(s) to %s\n", len(result.Files), flags.out)
	} else {
		for _, file := range result.Files {
			os.Stdout.Write(file.Content)
		}
	}

	if !result.Success {
		return fmt.Errorf("generation completed with %d error(s) and %d critical issue(s)",
			result.ErrorCount, result.CriticalCount)
	}
	return nil
}

func printIssueSummary(result *generator.GenerateResult) {
	for _, issue := range result.Issues {
		cliutil.Writef(os.Stderr, "%s\n", issue.String())
	}
	if len(result.Issues) > 0 {
		cliutil.Writef(os.Stderr, "%d issue(s): %d error(s), %d warning(s), %d info\n",
			len(result.Issues), result.ErrorCount+result.CriticalCount, result.WarningCount, result.InfoCount)
	}
}

// parseFlags contains flags for the parse command
type parseFlags struct {
	validateStructure bool
}

func setupParseFlags() (*flag.FlagSet, *parseFlags) {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	flags := &parseFlags{}

	fs.BoolVar(&flags.validateStructure, "validate-structure", true, "validate document structure during parsing")

	fs.Usage = func() {
		output := fs.Output()
		_, _ = fmt.Fprintf(output, "Usage: openapi2zod parse [flags] <file>\n\n")
		_, _ = fmt.Fprintf(output, "Parse an OpenAPI document and print a structural summary.\n\n")
		_, _ = fmt.Fprintf(output, "Flags:\n")
		fs.PrintDefaults()
	}

	return fs, flags
}

func handleParse(args []string) error {
	fs, flags := setupParseFlags()

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("parse command requires exactly one file path")
	}

	p := parser.New()
	p.ValidateStructure = flags.validateStructure

	result, err := p.Parse(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("parsing file: %w", err)
	}

	doc := result.Document
	operations := 0
	for _, item := range doc.Paths {
		operations += len(item.Operations())
	}

	cliutil.Writef(os.Stdout, "Title:      %s\n", doc.Info.Title)
	cliutil.Writef(os.Stdout, "Version:    %s\n", result.Version)
	cliutil.Writef(os.Stdout, "Format:     %s\n", result.SourceFormat)
	cliutil.Writef(os.Stdout, "Size:       %d bytes\n", result.SourceSize)
	cliutil.Writef(os.Stdout, "Paths:      %d\n", len(doc.Paths))
	cliutil.Writef(os.Stdout, "Operations: %d\n", operations)
	cliutil.Writef(os.Stdout, "Schemas:    %d\n", len(doc.Schemas()))
	return nil
}
