package ir

import (
	"encoding/json"
	"testing"
)

func TestMarshalJSON_NestedTree(t *testing.T) {
	desc := Mapping(String(), Optional(Tuple(Int(), Alias("Name", String()))))

	data, err := json.Marshal(desc)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	want := `{"kind":"mapping","key":{"kind":"primitive","primitiveKind":"string"},` +
		`"value":{"kind":"sum","variants":[{"kind":"tuple","elements":[` +
		`{"kind":"primitive","primitiveKind":"int"},` +
		`{"kind":"alias","name":"Name","underlying":{"kind":"primitive","primitiveKind":"string"}}]},` +
		`{"kind":"none"}]}}`
	if string(data) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, want)
	}
}

func TestMarshalJSON_ProductOmitsFuncs(t *testing.T) {
	p := Product("Point", []FieldDescriptor{{Name: "x", Type: Float()}},
		func([]any) (any, error) { return nil, nil }, func(any) bool { return true }, nil)

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"kind":"product","name":"Point","fields":[{"name":"x","type":{"kind":"primitive","primitiveKind":"float"}}]}`
	if string(data) != want {
		t.Errorf("Marshal() = %s, want %s", data, want)
	}
}
