package parser

import (
	"fmt"

	json "github.com/goccy/go-json"
	"go.yaml.in/yaml/v4"
)

// Schema represents a JSON Schema node.
// Supports OAS 3.0 and OAS 3.1 (JSON Schema Draft 2020-12) keywords that are
// relevant to validator generation.
type Schema struct {
	// JSON Schema Core
	Ref string `yaml:"$ref,omitempty" json:"$ref,omitempty"`

	// Metadata
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Default     any    `yaml:"default,omitempty" json:"default,omitempty"`

	// Type validation
	Type  any   `yaml:"type,omitempty" json:"type,omitempty"` // string or []string (OAS 3.1+)
	Enum  []any `yaml:"enum,omitempty" json:"enum,omitempty"`
	Const any   `yaml:"const,omitempty" json:"const,omitempty"` // JSON Schema Draft 2020-12

	// Numeric validation
	MultipleOf       *float64 `yaml:"multipleOf,omitempty" json:"multipleOf,omitempty"`
	Maximum          *float64 `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	ExclusiveMaximum any      `yaml:"exclusiveMaximum,omitempty" json:"exclusiveMaximum,omitempty"` // bool in OAS 3.0, number in 3.1+
	Minimum          *float64 `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	ExclusiveMinimum any      `yaml:"exclusiveMinimum,omitempty" json:"exclusiveMinimum,omitempty"` // bool in OAS 3.0, number in 3.1+

	// String validation
	MaxLength        *int   `yaml:"maxLength,omitempty" json:"maxLength,omitempty"`
	MinLength        *int   `yaml:"minLength,omitempty" json:"minLength,omitempty"`
	Pattern          string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	ContentEncoding  string `yaml:"contentEncoding,omitempty" json:"contentEncoding,omitempty"`
	ContentMediaType string `yaml:"contentMediaType,omitempty" json:"contentMediaType,omitempty"`

	// Array validation
	Items       *SchemaOrBool `yaml:"items,omitempty" json:"items,omitempty"` // *Schema or bool (OAS 3.1+)
	PrefixItems []*Schema     `yaml:"prefixItems,omitempty" json:"prefixItems,omitempty"`
	MaxItems    *int          `yaml:"maxItems,omitempty" json:"maxItems,omitempty"`
	MinItems    *int          `yaml:"minItems,omitempty" json:"minItems,omitempty"`
	UniqueItems bool          `yaml:"uniqueItems,omitempty" json:"uniqueItems,omitempty"`

	// Object validation
	Properties           map[string]*Schema  `yaml:"properties,omitempty" json:"properties,omitempty"`
	PatternProperties    map[string]*Schema  `yaml:"patternProperties,omitempty" json:"patternProperties,omitempty"`
	AdditionalProperties *SchemaOrBool       `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"` // *Schema or bool
	Required             []string            `yaml:"required,omitempty" json:"required,omitempty"`
	PropertyNames        *Schema             `yaml:"propertyNames,omitempty" json:"propertyNames,omitempty"`
	MaxProperties        *int                `yaml:"maxProperties,omitempty" json:"maxProperties,omitempty"`
	MinProperties        *int                `yaml:"minProperties,omitempty" json:"minProperties,omitempty"`
	DependentRequired    map[string][]string `yaml:"dependentRequired,omitempty" json:"dependentRequired,omitempty"`
	DependentSchemas     map[string]*Schema  `yaml:"dependentSchemas,omitempty" json:"dependentSchemas,omitempty"`

	// Conditional schemas
	If   *Schema `yaml:"if,omitempty" json:"if,omitempty"`
	Then *Schema `yaml:"then,omitempty" json:"then,omitempty"`
	Else *Schema `yaml:"else,omitempty" json:"else,omitempty"`

	// Schema composition
	AllOf []*Schema `yaml:"allOf,omitempty" json:"allOf,omitempty"`
	AnyOf []*Schema `yaml:"anyOf,omitempty" json:"anyOf,omitempty"`
	OneOf []*Schema `yaml:"oneOf,omitempty" json:"oneOf,omitempty"`
	Not   *Schema   `yaml:"not,omitempty" json:"not,omitempty"`

	// OAS specific extensions.
	// Nullable is a pointer so an explicit `nullable: false` is distinguishable
	// from an absent marker; the distinction drives the default-nullable policy.
	Nullable      *bool          `yaml:"nullable,omitempty" json:"nullable,omitempty"` // OAS 3.0 only (replaced by type: [T, "null"] in 3.1+)
	Discriminator *Discriminator `yaml:"discriminator,omitempty" json:"discriminator,omitempty"`
	ReadOnly      bool           `yaml:"readOnly,omitempty" json:"readOnly,omitempty"`
	WriteOnly     bool           `yaml:"writeOnly,omitempty" json:"writeOnly,omitempty"`
	Deprecated    bool           `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`

	// Format
	Format string `yaml:"format,omitempty" json:"format,omitempty"` // e.g., "date-time", "email", "uuid", etc.
}

// Discriminator represents a discriminator for polymorphism (OAS 3.0+)
type Discriminator struct {
	PropertyName string            `yaml:"propertyName" json:"propertyName"`
	Mapping      map[string]string `yaml:"mapping,omitempty" json:"mapping,omitempty"`
}

// SchemaOrBool holds keywords that accept either a subschema or a boolean,
// such as items and additionalProperties.
type SchemaOrBool struct {
	Schema *Schema
	Bool   *bool
}

// UnmarshalYAML decodes either a boolean or a schema mapping.
func (s *SchemaOrBool) UnmarshalYAML(node *yaml.Node) error {
	var b bool
	if err := node.Decode(&b); err == nil {
		s.Bool = &b
		return nil
	}
	var sch Schema
	if err := node.Decode(&sch); err != nil {
		return fmt.Errorf("expected boolean or schema: %w", err)
	}
	s.Schema = &sch
	return nil
}

// UnmarshalJSON decodes either a boolean or a schema object.
func (s *SchemaOrBool) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		s.Bool = &b
		return nil
	}
	var sch Schema
	if err := json.Unmarshal(data, &sch); err != nil {
		return fmt.Errorf("expected boolean or schema: %w", err)
	}
	s.Schema = &sch
	return nil
}

// MarshalYAML emits the boolean or schema form, whichever is set.
func (s *SchemaOrBool) MarshalYAML() (any, error) {
	if s.Bool != nil {
		return *s.Bool, nil
	}
	return s.Schema, nil
}

// MarshalJSON emits the boolean or schema form, whichever is set.
func (s *SchemaOrBool) MarshalJSON() ([]byte, error) {
	if s.Bool != nil {
		return json.Marshal(*s.Bool)
	}
	return json.Marshal(s.Schema)
}

// ItemsSchema returns the items schema when one is declared.
// A boolean `items: true` (OAS 3.1+) and absent items both return nil.
func (s *Schema) ItemsSchema() *Schema {
	if s == nil || s.Items == nil {
		return nil
	}
	return s.Items.Schema
}

// AdditionalPropertiesSchema returns the additionalProperties schema when one
// is declared, or nil for the boolean and absent forms.
func (s *Schema) AdditionalPropertiesSchema() *Schema {
	if s == nil || s.AdditionalProperties == nil {
		return nil
	}
	return s.AdditionalProperties.Schema
}

// AdditionalPropertiesBool returns the boolean form of additionalProperties
// and whether a boolean form was declared.
func (s *Schema) AdditionalPropertiesBool() (bool, bool) {
	if s == nil || s.AdditionalProperties == nil || s.AdditionalProperties.Bool == nil {
		return false, false
	}
	return *s.AdditionalProperties.Bool, true
}

// IsRequired reports whether name appears in the schema's required list.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}
