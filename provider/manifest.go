package provider

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/broady/sigprop/annotation"
)

var validate = validator.New()

// ManifestFile is the YAML document read by Manifest.
//
//	classes:
//	  - name: Person
//	    fields:
//	      - {name: name, type: str}
//	      - {name: age, type: int}
//	aliases:
//	  - {name: UserId, base: int}
//	typevars: [T]
//	domains:
//	  - {name: Tree, tag: binary-tree, hints: "depth=2"}
//	callables:
//	  - name: add
//	    params:
//	      - {name: a, type: int}
//	      - {name: b, type: int}
//	    returns: int
type ManifestFile struct {
	Classes   []ClassSpec    `yaml:"classes" validate:"dive"`
	Aliases   []AliasSpec    `yaml:"aliases" validate:"dive"`
	TypeVars  []string       `yaml:"typevars" validate:"dive,required"`
	Domains   []DomainSpec   `yaml:"domains" validate:"dive"`
	Callables []CallableSpec `yaml:"callables" validate:"required,min=1,dive"`
}

// ParamSpec is a named, annotated slot.
type ParamSpec struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"required"`
}

// ClassSpec declares a record class. Instances are *value.Record values.
type ClassSpec struct {
	Name   string      `yaml:"name" validate:"required"`
	Fields []ParamSpec `yaml:"fields" validate:"dive"`
}

// AliasSpec declares a NewType.
type AliasSpec struct {
	Name string `yaml:"name" validate:"required"`
	Base string `yaml:"base" validate:"required"`
}

// DomainSpec declares a domain shape. Hints use query string syntax.
type DomainSpec struct {
	Name  string `yaml:"name" validate:"required"`
	Tag   string `yaml:"tag" validate:"required,oneof=binary-tree array ndarray"`
	Hints string `yaml:"hints"`
}

// CallableSpec declares one callable. An empty Returns means the callable
// declares no return type; write "None" for callables returning nothing.
type CallableSpec struct {
	Name    string      `yaml:"name" validate:"required"`
	Owner   string      `yaml:"owner"`
	Params  []ParamSpec `yaml:"params" validate:"dive"`
	Returns string      `yaml:"returns"`
}

// Manifest extracts signatures from a YAML manifest.
type Manifest struct {
	// Path is read when Data is nil.
	Path string

	// Data holds the manifest contents.
	Data []byte
}

// Extract parses, validates and converts the manifest. Signatures keep
// manifest order.
func (m *Manifest) Extract(ctx context.Context) (*annotation.Universe, []annotation.Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	file, err := m.Load()
	if err != nil {
		return nil, nil, err
	}
	return file.Build()
}

// Load reads and validates the manifest without converting it.
func (m *Manifest) Load() (*ManifestFile, error) {
	data := m.Data
	if data == nil {
		b, err := os.ReadFile(m.Path)
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}
		data = b
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var file ManifestFile
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := validate.Struct(&file); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &file, nil
}

// Build converts a validated manifest into a universe and signatures.
func (f *ManifestFile) Build() (*annotation.Universe, []annotation.Signature, error) {
	u, err := annotation.NewUniverse()
	if err != nil {
		return nil, nil, err
	}
	for _, c := range f.Classes {
		params, err := parseParams(c.Fields)
		if err != nil {
			return nil, nil, fmt.Errorf("class %s: %w", c.Name, err)
		}
		if err := u.Declare(annotation.RecordClass(c.Name, params...)); err != nil {
			return nil, nil, err
		}
	}
	for _, a := range f.Aliases {
		base, err := annotation.Parse(a.Base)
		if err != nil {
			return nil, nil, fmt.Errorf("alias %s: %w", a.Name, err)
		}
		if err := u.Declare(&annotation.NewType{Name: a.Name, Base: base}); err != nil {
			return nil, nil, err
		}
	}
	for _, name := range f.TypeVars {
		if err := u.Declare(&annotation.TypeVar{Name: name}); err != nil {
			return nil, nil, err
		}
	}
	for _, d := range f.Domains {
		hints, err := url.ParseQuery(d.Hints)
		if err != nil {
			return nil, nil, fmt.Errorf("domain %s: hints: %w", d.Name, err)
		}
		if err := u.Declare(&annotation.Domain{Name: d.Name, Tag: d.Tag, Hints: hints}); err != nil {
			return nil, nil, err
		}
	}

	sigs := make([]annotation.Signature, 0, len(f.Callables))
	for _, c := range f.Callables {
		params, err := parseParams(c.Params)
		if err != nil {
			return nil, nil, fmt.Errorf("callable %s: %w", c.Name, err)
		}
		sig := annotation.Signature{Name: c.Name, Owner: c.Owner, Params: params}
		if c.Returns != "" {
			ret, err := annotation.Parse(c.Returns)
			if err != nil {
				return nil, nil, fmt.Errorf("callable %s: return: %w", c.Name, err)
			}
			sig.Return = ret
		}
		sigs = append(sigs, sig)
	}
	return u, sigs, nil
}

func parseParams(specs []ParamSpec) ([]annotation.Param, error) {
	params := make([]annotation.Param, len(specs))
	for i, p := range specs {
		t, err := annotation.Parse(p.Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", p.Name, err)
		}
		params[i] = annotation.Param{Name: p.Name, Type: t}
	}
	return params, nil
}
