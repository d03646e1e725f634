package cliq

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestObjectSchemaCoercion(t *testing.T) {
	schema := NewObjectSchema().
		Field("city", Field{Type: FieldString, Required: true}).
		Field("days", Field{Type: FieldInt, Default: 3}).
		Field("ratio", Field{Type: FieldFloat}).
		Field("verbose", Field{Type: FieldBool, Default: false}).
		Field("tags", Field{Type: FieldStrings})

	res := schema.Validate(map[string]any{
		"city":    "Berlin",
		"days":    "7",
		"ratio":   "2.5",
		"verbose": "yes",
		"tags":    "solo",
	})
	if len(res.Issues) > 0 {
		t.Fatalf("unexpected issues: %+v", res.Issues)
	}

	want := map[string]any{
		"city":    "Berlin",
		"days":    7,
		"ratio":   2.5,
		"verbose": true,
		"tags":    []string{"solo"},
	}
	if diff := cmp.Diff(want, res.Value); diff != "" {
		t.Errorf("value mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectSchemaDefaultsAndRequired(t *testing.T) {
	schema := NewObjectSchema().
		Field("city", Field{Type: FieldString, Required: true}).
		Field("days", Field{Type: FieldInt, Default: 3})

	res := schema.Validate(map[string]any{})
	if len(res.Issues) != 1 || res.Issues[0].Path != "city" {
		t.Fatalf("expected a single required issue for city, got %+v", res.Issues)
	}

	res = schema.Validate(map[string]any{"city": "Rome"})
	if len(res.Issues) > 0 {
		t.Fatalf("unexpected issues: %+v", res.Issues)
	}
	if res.Value["days"] != 3 {
		t.Errorf("days default = %v, want 3", res.Value["days"])
	}
}

func TestObjectSchemaChoices(t *testing.T) {
	schema := NewObjectSchema().
		Field("units", Field{Type: FieldString, Choices: []string{"metric", "imperial"}})

	if res := schema.Validate(map[string]any{"units": "metric"}); len(res.Issues) > 0 {
		t.Fatalf("metric should pass, got %+v", res.Issues)
	}
	res := schema.Validate(map[string]any{"units": "kelvin"})
	if len(res.Issues) != 1 || res.Issues[0].Path != "units" {
		t.Fatalf("expected a choices issue for units, got %+v", res.Issues)
	}
}

func TestObjectSchemaUnknownKeysPassThrough(t *testing.T) {
	schema := NewObjectSchema().
		Field("city", Field{Type: FieldString})

	res := schema.Validate(map[string]any{"city": "Oslo", "extra": "kept"})
	if len(res.Issues) > 0 {
		t.Fatalf("unexpected issues: %+v", res.Issues)
	}
	if res.Value["extra"] != "kept" {
		t.Errorf("extra = %v, want pass-through", res.Value["extra"])
	}
}

func TestObjectSchemaIntrospection(t *testing.T) {
	schema := NewObjectSchema().
		Field("city", Field{Type: FieldString, Required: true}).
		Field("tags", Field{Type: FieldStrings}).
		Field("verbose", Field{Type: FieldBool})

	if diff := cmp.Diff([]string{"city", "tags", "verbose"}, schema.FieldNames()); diff != "" {
		t.Errorf("FieldNames mismatch (-want +got):\n%s", diff)
	}
	if !schema.IsRequired("city") || schema.IsRequired("tags") {
		t.Error("IsRequired wrong")
	}
	if !schema.IsArray("tags") || schema.IsArray("city") {
		t.Error("IsArray wrong")
	}
	if !schema.IsBool("verbose") || schema.IsBool("city") {
		t.Error("IsBool wrong")
	}
}

func TestObjectSchemaTypeMismatches(t *testing.T) {
	schema := NewObjectSchema().
		Field("days", Field{Type: FieldInt}).
		Field("verbose", Field{Type: FieldBool})

	res := schema.Validate(map[string]any{"days": "soon", "verbose": "maybe"})
	if len(res.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", res.Issues)
	}
	if res.Value != nil {
		t.Error("value must be nil when issues are present")
	}
}

func TestParseBool(t *testing.T) {
	truthy := []string{"true", "T", "yes", "Y", "1", "on"}
	falsy := []string{"false", "F", "no", "N", "0", "off", ""}

	for _, s := range truthy {
		if v, err := parseBool(s); err != nil || !v {
			t.Errorf("parseBool(%q) = %v, %v; want true", s, v, err)
		}
	}
	for _, s := range falsy {
		if v, err := parseBool(s); err != nil || v {
			t.Errorf("parseBool(%q) = %v, %v; want false", s, v, err)
		}
	}
	if _, err := parseBool("maybe"); err == nil {
		t.Error("parseBool(maybe) should fail")
	}
}
