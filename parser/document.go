package parser

// Document is the parsed OpenAPI document consumed by the generator.
// Path and operation structures carry only what dependency analysis needs;
// the generator never inspects transport details.
type Document struct {
	OpenAPI    string               `yaml:"openapi,omitempty" json:"openapi,omitempty"`
	Swagger    string               `yaml:"swagger,omitempty" json:"swagger,omitempty"`
	Info       Info                 `yaml:"info,omitempty" json:"info,omitempty"`
	Components *Components          `yaml:"components,omitempty" json:"components,omitempty"`
	Defs       map[string]*Schema   `yaml:"$defs,omitempty" json:"$defs,omitempty"`
	Paths      map[string]*PathItem `yaml:"paths,omitempty" json:"paths,omitempty"`
}

// Info holds document metadata.
type Info struct {
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Version     string `yaml:"version,omitempty" json:"version,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Components holds the reusable objects of an OAS 3.x document.
type Components struct {
	Schemas map[string]*Schema `yaml:"schemas,omitempty" json:"schemas,omitempty"`
}

// PathItem holds the operations declared on a single path.
type PathItem struct {
	Get    *Operation `yaml:"get,omitempty" json:"get,omitempty"`
	Put    *Operation `yaml:"put,omitempty" json:"put,omitempty"`
	Post   *Operation `yaml:"post,omitempty" json:"post,omitempty"`
	Delete *Operation `yaml:"delete,omitempty" json:"delete,omitempty"`
	Patch  *Operation `yaml:"patch,omitempty" json:"patch,omitempty"`
}

// Operations returns the non-nil operations keyed by HTTP method.
func (p *PathItem) Operations() map[string]*Operation {
	if p == nil {
		return nil
	}
	ops := make(map[string]*Operation, 5)
	for method, op := range map[string]*Operation{
		"get": p.Get, "put": p.Put, "post": p.Post, "delete": p.Delete, "patch": p.Patch,
	} {
		if op != nil {
			ops[method] = op
		}
	}
	return ops
}

// Operation carries the schema-bearing parts of an API operation.
type Operation struct {
	OperationID string               `yaml:"operationId,omitempty" json:"operationId,omitempty"`
	Parameters  []*Parameter         `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody *RequestBody         `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Responses   map[string]*Response `yaml:"responses,omitempty" json:"responses,omitempty"`
}

// Parameter is an operation parameter with its schema.
type Parameter struct {
	Name   string  `yaml:"name,omitempty" json:"name,omitempty"`
	In     string  `yaml:"in,omitempty" json:"in,omitempty"`
	Schema *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// RequestBody holds per-media-type request schemas.
type RequestBody struct {
	Content map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
}

// Response holds per-media-type response schemas.
type Response struct {
	Description string                `yaml:"description,omitempty" json:"description,omitempty"`
	Content     map[string]*MediaType `yaml:"content,omitempty" json:"content,omitempty"`
}

// MediaType binds a media type to its schema.
type MediaType struct {
	Schema *Schema `yaml:"schema,omitempty" json:"schema,omitempty"`
}

// Schemas returns the document's named schema definitions.
// OAS 3.x components take precedence; bare JSON Schema $defs are the fallback.
func (d *Document) Schemas() map[string]*Schema {
	if d == nil {
		return nil
	}
	if d.Components != nil && len(d.Components.Schemas) > 0 {
		return d.Components.Schemas
	}
	return d.Defs
}

// OperationSchemas returns every schema attached to path operations, keyed by
// a JSON-path-like location string. Used for dependency statistics only.
func (d *Document) OperationSchemas() map[string]*Schema {
	if d == nil {
		return nil
	}
	out := make(map[string]*Schema)
	for path, item := range d.Paths {
		for method, op := range item.Operations() {
			prefix := "paths." + path + "." + method
			for _, param := range op.Parameters {
				if param != nil && param.Schema != nil {
					out[prefix+".parameters."+param.Name] = param.Schema
				}
			}
			if op.RequestBody != nil {
				for mt, media := range op.RequestBody.Content {
					if media != nil && media.Schema != nil {
						out[prefix+".requestBody."+mt] = media.Schema
					}
				}
			}
			for status, resp := range op.Responses {
				if resp == nil {
					continue
				}
				for mt, media := range resp.Content {
					if media != nil && media.Schema != nil {
						out[prefix+".responses."+status+"."+mt] = media.Schema
					}
				}
			}
		}
	}
	return out
}
