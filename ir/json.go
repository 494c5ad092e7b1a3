package ir

import "encoding/json"

// JSON serialization support for descriptors.
// All descriptors include a "kind" field for type discrimination.
// Constructors and instance checks are not serialized.

// MarshalJSON implements json.Marshaler for PrimitiveDescriptor.
func (d *PrimitiveDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind          string `json:"kind"`
		PrimitiveKind string `json:"primitiveKind"`
	}{
		Kind:          "primitive",
		PrimitiveKind: d.PrimitiveKind.String(),
	})
}

// MarshalJSON implements json.Marshaler for ContainerDescriptor.
func (d *ContainerDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind          string         `json:"kind"`
		ContainerKind string         `json:"containerKind"`
		Element       TypeDescriptor `json:"element"`
	}{
		Kind:          "container",
		ContainerKind: d.ContainerKind.String(),
		Element:       d.Element,
	})
}

// MarshalJSON implements json.Marshaler for MappingDescriptor.
func (d *MappingDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind  string         `json:"kind"`
		Key   TypeDescriptor `json:"key"`
		Value TypeDescriptor `json:"value"`
	}{
		Kind:  "mapping",
		Key:   d.Key,
		Value: d.Value,
	})
}

// MarshalJSON implements json.Marshaler for TupleDescriptor.
func (d *TupleDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind     string           `json:"kind"`
		Elements []TypeDescriptor `json:"elements"`
	}{
		Kind:     "tuple",
		Elements: d.Elements,
	})
}

// MarshalJSON implements json.Marshaler for ProductDescriptor.
func (d *ProductDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind   string            `json:"kind"`
		Name   string            `json:"name"`
		Fields []FieldDescriptor `json:"fields"`
	}{
		Kind:   "product",
		Name:   d.Name,
		Fields: d.Fields,
	})
}

// MarshalJSON implements json.Marshaler for FieldDescriptor.
func (f FieldDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Name string         `json:"name"`
		Type TypeDescriptor `json:"type"`
	}{
		Name: f.Name,
		Type: f.Type,
	})
}

// MarshalJSON implements json.Marshaler for SumDescriptor.
func (d *SumDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind     string           `json:"kind"`
		Variants []TypeDescriptor `json:"variants"`
	}{
		Kind:     "sum",
		Variants: d.Variants,
	})
}

// MarshalJSON implements json.Marshaler for NoneDescriptor.
func (d *NoneDescriptor) MarshalJSON() ([]byte, error) {
	return []byte(`{"kind":"none"}`), nil
}

// MarshalJSON implements json.Marshaler for LiteralDescriptor.
func (d *LiteralDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind   string `json:"kind"`
		Values []any  `json:"values"`
	}{
		Kind:   "literal",
		Values: d.Values,
	})
}

// MarshalJSON implements json.Marshaler for AliasDescriptor.
func (d *AliasDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind       string         `json:"kind"`
		Name       string         `json:"name"`
		Underlying TypeDescriptor `json:"underlying"`
	}{
		Kind:       "alias",
		Name:       d.Name,
		Underlying: d.Underlying,
	})
}

// MarshalJSON implements json.Marshaler for DomainDescriptor.
func (d *DomainDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind  string              `json:"kind"`
		Tag   string              `json:"tag"`
		Hints map[string][]string `json:"hints,omitempty"`
	}{
		Kind:  "domain",
		Tag:   d.Tag,
		Hints: d.Hints,
	})
}

// MarshalJSON implements json.Marshaler for UnresolvedDescriptor.
func (d *UnresolvedDescriptor) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}{
		Kind: "unresolved",
		Name: d.Name,
	})
}
