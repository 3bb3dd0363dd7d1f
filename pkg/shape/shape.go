// Package shape describes entity types: their fields, identifier field,
// per-field wire-name aliases, and default values. The mutation engine uses
// the identifier for collection indexing and unit target matching; the
// action engine uses aliases to translate between internal field names and
// external wire names.
package shape

import (
	"fmt"

	"github.com/mesh-intelligence/pantry/pkg/types"
)

// Shape is an explicit per-field metadata table for one entity type,
// populated at definition time and read-only afterwards.
type Shape struct {
	name       string
	fields     []string
	identifier string
	aliases    map[string]string // internal name -> wire name
	fromWire   map[string]string // wire name -> internal name
	defaults   map[string]func() any
}

// FieldOption configures a single field declaration.
type FieldOption func(*fieldSpec)

type fieldSpec struct {
	identifier  bool
	alias       string
	defaultFunc func() any
}

// Identifier marks the field as the entity's identifier. A shape declares
// exactly one identifier field.
func Identifier() FieldOption {
	return func(f *fieldSpec) { f.identifier = true }
}

// Alias declares the field's external wire name.
func Alias(wire string) FieldOption {
	return func(f *fieldSpec) { f.alias = wire }
}

// Default declares the field's default value.
func Default(value any) FieldOption {
	return func(f *fieldSpec) { f.defaultFunc = func() any { return value } }
}

// DefaultFunc declares a factory producing the field's default value, for
// defaults that must be computed per entity (timestamps, generated ids).
func DefaultFunc(fn func() any) FieldOption {
	return func(f *fieldSpec) { f.defaultFunc = fn }
}

// New starts a shape for the named entity type. Declare fields with Field
// and finish with Build.
func New(name string) *Builder {
	return &Builder{
		shape: &Shape{
			name:     name,
			aliases:  map[string]string{},
			fromWire: map[string]string{},
			defaults: map[string]func() any{},
		},
	}
}

// Builder accumulates field declarations for a shape.
type Builder struct {
	shape *Shape
	err   error
}

// Field declares a field. Declaration order is preserved in Describe.
func (b *Builder) Field(name string, opts ...FieldOption) *Builder {
	if b.err != nil {
		return b
	}
	for _, f := range b.shape.fields {
		if f == name {
			b.err = fmt.Errorf("field %q: %w", name, types.ErrDuplicateField)
			return b
		}
	}
	var spec fieldSpec
	for _, opt := range opts {
		opt(&spec)
	}
	if spec.identifier {
		if b.shape.identifier != "" {
			b.err = fmt.Errorf("field %q: %w", name, types.ErrMultipleIdentifiers)
			return b
		}
		b.shape.identifier = name
	}
	b.shape.fields = append(b.shape.fields, name)
	if spec.alias != "" {
		b.shape.aliases[name] = spec.alias
		b.shape.fromWire[spec.alias] = name
	}
	if spec.defaultFunc != nil {
		b.shape.defaults[name] = spec.defaultFunc
	}
	return b
}

// Build finalizes the shape. It fails when the name is empty or a field was
// declared twice or more than one identifier was marked.
func (b *Builder) Build() (*Shape, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.shape.name == "" {
		return nil, types.ErrShapeNoName
	}
	return b.shape, nil
}

// MustBuild is Build that panics on error, for static shape declarations.
func (b *Builder) MustBuild() *Shape {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the entity type name.
func (s *Shape) Name() string { return s.name }

// IdentifierField returns the identifier field name, or "" when none is
// declared.
func (s *Shape) IdentifierField() string { return s.identifier }

// Describe returns the shape's metadata table.
func (s *Shape) Describe() types.ShapeInfo {
	info := types.ShapeInfo{
		Name:       s.name,
		Fields:     append([]string(nil), s.fields...),
		Identifier: s.identifier,
		Aliases:    map[string]string{},
		Defaults:   map[string]func() any{},
	}
	for k, v := range s.aliases {
		info.Aliases[k] = v
	}
	for k, v := range s.defaults {
		info.Defaults[k] = v
	}
	return info
}

// Defaults returns a fresh entity holding every declared default value.
// Fields without defaults are absent.
func (s *Shape) Defaults() types.Entity {
	e := make(types.Entity, len(s.defaults))
	for field, fn := range s.defaults {
		e[field] = fn()
	}
	return e
}

// FromWire rewrites wire names to internal field names. Entities are
// rewritten field by field; lists are rewritten element by element. Values
// of any other type pass through unchanged, as do undeclared keys.
func (s *Shape) FromWire(v any) any {
	return s.translate(v, s.fromWire)
}

// ToWire rewrites internal field names to wire names, the outbound
// counterpart of FromWire.
func (s *Shape) ToWire(v any) any {
	return s.translate(v, s.aliases)
}

func (s *Shape) translate(v any, names map[string]string) any {
	if len(names) == 0 {
		return v
	}
	switch val := v.(type) {
	case types.Entity:
		out := make(types.Entity, len(val))
		for k, fv := range val {
			if internal, ok := names[k]; ok {
				out[internal] = fv
			} else {
				out[k] = fv
			}
		}
		return out
	case []types.Entity:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = s.translate(e, names)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = s.translate(e, names)
		}
		return out
	default:
		return v
	}
}
