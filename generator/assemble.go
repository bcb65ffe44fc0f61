// This file drives per-schema artifact generation and assembles the final
// TypeScript source files.

package generator

import (
	"fmt"
	"strings"
)

// buildArtifacts compiles every named schema in emission order. Dependency
// and conflict accumulators reset per schema so artifacts stay independent.
func (s *session) buildArtifacts() []SchemaArtifact {
	artifacts := make([]SchemaArtifact, 0, len(s.graph.order))

	for _, name := range s.graph.order {
		s.current = name
		s.deps = make(map[string]bool)
		s.conflicts = nil

		expr := s.compile(s.schemas[name], name, true, false, 0)

		for _, c := range s.conflicts {
			s.report(SeverityWarning, c.Property,
				fmt.Sprintf("allOf branches define property %q differently; first definition wins", c.Property),
				nil, c.Detail)
		}

		artifacts = append(artifacts, SchemaArtifact{
			Name:       name,
			Identifier: s.g.identifier(name),
			TypeName:   s.g.typeName(name),
			Expression: expr.String(),
			TypeDecl:   s.typeDecl(name),
			DependsOn:  sortedNames(s.deps),
			Circular:   s.graph.isCircular(name),
		})
	}
	return artifacts
}

// typeDecl builds the companion type declaration. Schemas emitted as
// TypeScript enums need none: the enum declaration is the type.
func (s *session) typeDecl(name string) string {
	if s.isEnumSchema(name) {
		return ""
	}
	return fmt.Sprintf("export type %s = z.infer<typeof %s>;", s.g.typeName(name), s.g.identifier(name))
}

func (s *session) isEnumSchema(name string) bool {
	for _, decl := range s.enumDecls {
		if decl.SchemaName == name {
			return true
		}
	}
	return false
}

const generatedHeader = "// Code generated by openapi-to-zod. DO NOT EDIT.\n"

// assembleFiles serializes artifacts into schemas.ts (and types.ts when
// configured). Enum declarations always live in schemas.ts so the validator
// expressions referencing them never cross a file boundary at runtime; the
// schemas.ts import of types.ts is type-only, which keeps the module graph
// acyclic at runtime even though the type references point both ways.
func (s *session) assembleFiles(artifacts []SchemaArtifact) []GeneratedFile {
	var sb strings.Builder
	sb.WriteString(generatedHeader)
	sb.WriteString("\nimport { z } from \"zod\";\n")

	if s.g.SeparateTypesFile {
		if typeNames := s.annotatedTypeNames(artifacts); len(typeNames) > 0 {
			sb.WriteString(fmt.Sprintf("import type { %s } from \"./types\";\n", strings.Join(typeNames, ", ")))
		}
	}

	for _, decl := range s.enumDecls {
		sb.WriteString(fmt.Sprintf("\nexport enum %s {\n", decl.TypeName))
		for _, member := range decl.Members {
			sb.WriteString(fmt.Sprintf("  %s = %s,\n", member.Name, jsonLiteral(member.Value)))
		}
		sb.WriteString("}\n")
	}

	for _, artifact := range artifacts {
		sb.WriteByte('\n')
		switch {
		case artifact.Circular && s.g.SeparateTypesFile:
			sb.WriteString(fmt.Sprintf("export const %s: z.ZodType<%s> = %s;\n",
				artifact.Identifier, artifact.TypeName, artifact.Expression))
		case artifact.Circular:
			// Self-referential initializers need an explicit annotation or
			// TypeScript rejects the declaration.
			sb.WriteString(fmt.Sprintf("export const %s: z.ZodTypeAny = %s;\n",
				artifact.Identifier, artifact.Expression))
		default:
			sb.WriteString(fmt.Sprintf("export const %s = %s;\n", artifact.Identifier, artifact.Expression))
		}

		if !s.g.SeparateTypesFile && artifact.TypeDecl != "" {
			sb.WriteString(artifact.TypeDecl)
			sb.WriteByte('\n')
		}
	}

	files := []GeneratedFile{{Name: "schemas.ts", Content: []byte(sb.String())}}
	if s.g.SeparateTypesFile {
		files = append(files, GeneratedFile{Name: "types.ts", Content: s.assembleTypesFile(artifacts)})
	}
	return files
}

// annotatedTypeNames returns type names referenced from schemas.ts
// annotations, i.e. the circular non-enum schemas.
func (s *session) annotatedTypeNames(artifacts []SchemaArtifact) []string {
	var names []string
	for _, artifact := range artifacts {
		if artifact.Circular && artifact.TypeDecl != "" {
			names = append(names, artifact.TypeName)
		}
	}
	return names
}

func (s *session) assembleTypesFile(artifacts []SchemaArtifact) []byte {
	var sb strings.Builder
	sb.WriteString(generatedHeader)
	sb.WriteString("\nimport { z } from \"zod\";\n")

	var idents []string
	for _, artifact := range artifacts {
		if artifact.TypeDecl != "" {
			idents = append(idents, artifact.Identifier)
		}
	}
	if len(idents) > 0 {
		sb.WriteString(fmt.Sprintf("import type { %s } from \"./schemas\";\n", strings.Join(idents, ", ")))
	}

	for _, decl := range s.enumDecls {
		sb.WriteString(fmt.Sprintf("\nexport { %s } from \"./schemas\";\n", decl.TypeName))
	}

	for _, artifact := range artifacts {
		if artifact.TypeDecl != "" {
			sb.WriteByte('\n')
			sb.WriteString(artifact.TypeDecl)
			sb.WriteByte('\n')
		}
	}
	return []byte(sb.String())
}
