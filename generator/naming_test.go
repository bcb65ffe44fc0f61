package generator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringToEnumMember(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "descending sort marker", in: "-externalKey", want: "ExternalkeyDesc"},
		{name: "ascending sort marker", in: "+externalKey", want: "ExternalkeyAsc"},
		{name: "empty value", in: "", want: "Empty"},
		{name: "leading digit", in: "123abc", want: "Value123abc"},
		{name: "plain lowercase", in: "available", want: "Available"},
		{name: "camelCase preserved", in: "inProgress", want: "InProgress"},
		{name: "kebab-case", in: "not-found", want: "NotFound"},
		{name: "snake_case", in: "sold_out", want: "SoldOut"},
		{name: "dotted", in: "a.b.c", want: "ABC"},
		{name: "spaces", in: "two words", want: "TwoWords"},
		{name: "all symbols", in: "!!!", want: "Value"},
		{name: "sorted snake descending", in: "-created_at", want: "CreatedAtDesc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stringToEnumMember(tt.in, nil))
		})
	}
}

func TestStringToEnumMember_Collisions(t *testing.T) {
	used := make(map[string]bool)

	assert.Equal(t, "Available", stringToEnumMember("available", used))
	assert.Equal(t, "Available2", stringToEnumMember("available", used))
	assert.Equal(t, "Available3", stringToEnumMember("available", used))
}

func TestStringToEnumMember_InjectiveUnderSharedRegistry(t *testing.T) {
	inputs := []string{
		"available", "pending", "sold", "-available", "+available",
		"", "123abc", "not-found", "not_found", "not found", "NOT.FOUND",
		"!!!", "???",
	}

	used := make(map[string]bool)
	seen := make(map[string]string)
	for _, in := range inputs {
		got := stringToEnumMember(in, used)
		prev, dup := seen[got]
		assert.False(t, dup, "inputs %q and %q both produced %q", prev, in, got)
		seen[got] = in
	}
}

func TestNumericToEnumMember(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "negative int", in: -5, want: "ValueNeg5"},
		{name: "ascending numeric string", in: "+5", want: "Value5Asc"},
		{name: "positive int", in: 5, want: "Value5"},
		{name: "int64", in: int64(12), want: "Value12"},
		{name: "float", in: 2.5, want: "Value2_5"},
		{name: "negative float", in: -5.5, want: "ValueNeg5_5"},
		{name: "descending numeric string", in: "-3", want: "Value3Desc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, numericToEnumMember(tt.in, nil))
		})
	}
}

func TestNumericToEnumMember_Collisions(t *testing.T) {
	used := make(map[string]bool)
	assert.Equal(t, "Value5", numericToEnumMember(5, used))
	assert.Equal(t, "Value52", numericToEnumMember(5, used))
}

func TestIdentifierDerivation(t *testing.T) {
	g := New()

	assert.Equal(t, "petSchema", g.identifier("Pet"))
	assert.Equal(t, "petStoreSchema", g.identifier("pet_store"))
	assert.Equal(t, "Pet", g.typeName("Pet"))
	assert.Equal(t, "PetStore", g.typeName("pet_store"))
}

func TestIdentifierDerivation_PrefixSuffixStrip(t *testing.T) {
	g := New()
	g.Prefix = "api"
	g.Suffix = "Validator"
	g.StripSchemaPrefixes = []string{"io.k8s."}

	assert.Equal(t, "apipodValidator", g.identifier("io.k8s.Pod"))
	assert.Equal(t, "Pod", g.typeName("io.k8s.Pod"))
}

func TestIdentifierDerivation_DigitLeading(t *testing.T) {
	g := New()
	g.Suffix = ""

	ident := g.identifier("123Thing")
	assert.Equal(t, "_", ident[:1], "digit-leading identifiers must be prefixed, got %q", ident)
	assert.Equal(t, "T123Thing", g.typeName("123Thing"))
}

func TestEnumMemberDeterminism(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, "ExternalkeyDesc", stringToEnumMember("-externalKey", nil),
			fmt.Sprintf("run %d", i))
	}
}
