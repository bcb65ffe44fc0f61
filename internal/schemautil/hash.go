package schemautil

import (
	"fmt"
	"hash"
	"hash/fnv"
	"sort"
	"strconv"

	"github.com/CeriosTesting/openapi-to-zod/parser"
)

// SchemaHasher computes structural hashes for schemas.
// Structural hashes ignore metadata fields (title, description, deprecated)
// and focus on fields that affect the schema's validation meaning.
type SchemaHasher struct {
	visited map[*parser.Schema]bool
}

// NewSchemaHasher creates a new SchemaHasher.
func NewSchemaHasher() *SchemaHasher {
	return &SchemaHasher{
		visited: make(map[*parser.Schema]bool),
	}
}

// Hash computes a structural hash for a schema, salted with the given
// context strings (e.g. visibility and strictness modes) so that the same
// shape under different generation settings never shares a cache entry.
// Hash collisions are possible; callers needing certainty must deep-compare.
func (h *SchemaHasher) Hash(schema *parser.Schema, salt ...string) uint64 {
	clear(h.visited) // Reset visited map without reallocating
	hasher := fnv.New64a()
	for _, s := range salt {
		h.writeString(hasher, s)
	}
	h.hashSchema(hasher, schema)
	return hasher.Sum64()
}

// Equal reports whether two schemas hash to the same structural value.
// Used for composition conflict detection, where a rare collision only
// suppresses a warning and never corrupts output.
func (h *SchemaHasher) Equal(a, b *parser.Schema) bool {
	return h.Hash(a) == h.Hash(b)
}

// hashSchema recursively hashes a schema's structural properties.
func (h *SchemaHasher) hashSchema(hasher hash.Hash64, schema *parser.Schema) {
	if schema == nil {
		h.writeString(hasher, "nil")
		return
	}

	// Circular structures terminate with a marker instead of recursing.
	if h.visited[schema] {
		h.writeString(hasher, "circular")
		return
	}
	h.visited[schema] = true
	defer delete(h.visited, schema)

	// A schema that is a reference hashes as the reference alone.
	if schema.Ref != "" {
		h.writeString(hasher, "$ref:")
		h.writeString(hasher, schema.Ref)
		return
	}

	for _, t := range GetSchemaTypes(schema) {
		h.writeString(hasher, "type:"+t)
	}
	h.writeString(hasher, "format:"+schema.Format)
	h.writeString(hasher, "pattern:"+schema.Pattern)
	h.writeString(hasher, "contentEncoding:"+schema.ContentEncoding)
	h.writeString(hasher, "contentMediaType:"+schema.ContentMediaType)

	if len(schema.Enum) > 0 {
		h.writeString(hasher, "enum:")
		for _, v := range schema.Enum {
			h.writeString(hasher, fmt.Sprintf("%v", v))
		}
	}
	if schema.Const != nil {
		h.writeString(hasher, "const:"+fmt.Sprintf("%v", schema.Const))
	}

	// Required is order-insensitive.
	if len(schema.Required) > 0 {
		h.writeString(hasher, "required:")
		sorted := make([]string, len(schema.Required))
		copy(sorted, schema.Required)
		sort.Strings(sorted)
		for _, r := range sorted {
			h.writeString(hasher, r)
		}
	}

	h.hashSchemaMap(hasher, "properties:", schema.Properties)
	h.hashSchemaMap(hasher, "patternProperties:", schema.PatternProperties)
	h.hashSchemaMap(hasher, "dependentSchemas:", schema.DependentSchemas)

	if len(schema.DependentRequired) > 0 {
		h.writeString(hasher, "dependentRequired:")
		keys := sortedKeys(schema.DependentRequired)
		for _, k := range keys {
			h.writeString(hasher, k)
			deps := make([]string, len(schema.DependentRequired[k]))
			copy(deps, schema.DependentRequired[k])
			sort.Strings(deps)
			for _, d := range deps {
				h.writeString(hasher, d)
			}
		}
	}

	if schema.Items != nil {
		h.writeString(hasher, "items:")
		if schema.Items.Bool != nil {
			h.writeString(hasher, strconv.FormatBool(*schema.Items.Bool))
		} else {
			h.hashSchema(hasher, schema.Items.Schema)
		}
	}
	if len(schema.PrefixItems) > 0 {
		h.writeString(hasher, "prefixItems:")
		for _, item := range schema.PrefixItems {
			h.hashSchema(hasher, item)
		}
	}
	if schema.AdditionalProperties != nil {
		h.writeString(hasher, "additionalProperties:")
		if schema.AdditionalProperties.Bool != nil {
			h.writeString(hasher, strconv.FormatBool(*schema.AdditionalProperties.Bool))
		} else {
			h.hashSchema(hasher, schema.AdditionalProperties.Schema)
		}
	}
	if schema.PropertyNames != nil {
		h.writeString(hasher, "propertyNames:")
		h.hashSchema(hasher, schema.PropertyNames)
	}

	h.hashNumberPtr(hasher, "multipleOf:", schema.MultipleOf)
	h.hashNumberPtr(hasher, "maximum:", schema.Maximum)
	h.hashNumberPtr(hasher, "minimum:", schema.Minimum)
	if schema.ExclusiveMaximum != nil {
		h.writeString(hasher, "exclusiveMaximum:"+fmt.Sprintf("%v", schema.ExclusiveMaximum))
	}
	if schema.ExclusiveMinimum != nil {
		h.writeString(hasher, "exclusiveMinimum:"+fmt.Sprintf("%v", schema.ExclusiveMinimum))
	}
	h.hashIntPtr(hasher, "maxLength:", schema.MaxLength)
	h.hashIntPtr(hasher, "minLength:", schema.MinLength)
	h.hashIntPtr(hasher, "maxItems:", schema.MaxItems)
	h.hashIntPtr(hasher, "minItems:", schema.MinItems)
	h.hashIntPtr(hasher, "maxProperties:", schema.MaxProperties)
	h.hashIntPtr(hasher, "minProperties:", schema.MinProperties)
	if schema.UniqueItems {
		h.writeString(hasher, "uniqueItems")
	}

	if schema.Nullable != nil {
		h.writeString(hasher, "nullable:"+strconv.FormatBool(*schema.Nullable))
	}
	if schema.ReadOnly {
		h.writeString(hasher, "readOnly")
	}
	if schema.WriteOnly {
		h.writeString(hasher, "writeOnly")
	}

	if len(schema.AllOf) > 0 {
		h.writeString(hasher, "allOf:")
		for _, sub := range schema.AllOf {
			h.hashSchema(hasher, sub)
		}
	}
	if len(schema.AnyOf) > 0 {
		h.writeString(hasher, "anyOf:")
		for _, sub := range schema.AnyOf {
			h.hashSchema(hasher, sub)
		}
	}
	if len(schema.OneOf) > 0 {
		h.writeString(hasher, "oneOf:")
		for _, sub := range schema.OneOf {
			h.hashSchema(hasher, sub)
		}
	}
	if schema.Not != nil {
		h.writeString(hasher, "not:")
		h.hashSchema(hasher, schema.Not)
	}
	if schema.If != nil {
		h.writeString(hasher, "if:")
		h.hashSchema(hasher, schema.If)
		h.writeString(hasher, "then:")
		h.hashSchema(hasher, schema.Then)
		h.writeString(hasher, "else:")
		h.hashSchema(hasher, schema.Else)
	}

	if schema.Discriminator != nil {
		h.writeString(hasher, "discriminator:"+schema.Discriminator.PropertyName)
		keys := sortedKeys(schema.Discriminator.Mapping)
		for _, k := range keys {
			h.writeString(hasher, k+"="+schema.Discriminator.Mapping[k])
		}
	}
}

// hashSchemaMap hashes a name->schema map with deterministic key ordering.
func (h *SchemaHasher) hashSchemaMap(hasher hash.Hash64, label string, m map[string]*parser.Schema) {
	if len(m) == 0 {
		return
	}
	h.writeString(hasher, label)
	for _, k := range sortedKeys(m) {
		h.writeString(hasher, k)
		h.hashSchema(hasher, m[k])
	}
}

func (h *SchemaHasher) hashNumberPtr(hasher hash.Hash64, label string, v *float64) {
	if v != nil {
		h.writeString(hasher, label+strconv.FormatFloat(*v, 'g', -1, 64))
	}
}

func (h *SchemaHasher) hashIntPtr(hasher hash.Hash64, label string, v *int) {
	if v != nil {
		h.writeString(hasher, label+strconv.Itoa(*v))
	}
}

func (h *SchemaHasher) writeString(hasher hash.Hash64, s string) {
	_, _ = hasher.Write([]byte(s))
	_, _ = hasher.Write([]byte{0})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
