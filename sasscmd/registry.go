package sasscmd

import (
	"fmt"

	"github.com/caffeineduck/gosass/engine"
)

// Kind is the value kind an option accepts.
type Kind int

const (
	KindInteger Kind = iota
	KindBoolean
	KindString
	KindOutputStyle
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindOutputStyle:
		return "output style"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Setter applies a resolved value to an options object. It is one of
// IntSetter, BoolSetter, StringSetter, StyleSetter or Inert; the case
// determines the option's value kind.
type Setter interface {
	kind() Kind
}

type (
	IntSetter    func(engine.Options, int)
	BoolSetter   func(engine.Options, bool)
	StringSetter func(engine.Options, string)
	StyleSetter  func(engine.Options, engine.OutputStyle)
)

// Inert accepts and validates a value of the given kind without setting
// anything. It is used for options the engine no longer supports.
type Inert struct {
	Kind Kind
}

func (IntSetter) kind() Kind    { return KindInteger }
func (BoolSetter) kind() Kind   { return KindBoolean }
func (StringSetter) kind() Kind { return KindString }
func (StyleSetter) kind() Kind  { return KindOutputStyle }
func (s Inert) kind() Kind      { return s.Kind }

// Descriptor names an option and how to set it.
type Descriptor struct {
	Name   string
	Setter Setter
}

// Registry is a fixed, ordered table of option descriptors.
type Registry struct {
	descriptors []Descriptor
}

// NewRegistry builds a registry from ds, in order. Names must be non-empty
// and unique.
func NewRegistry(ds ...Descriptor) (*Registry, error) {
	seen := make(map[string]bool, len(ds))
	for i, d := range ds {
		if d.Name == "" {
			return nil, fmt.Errorf("option descriptor %d has no name", i)
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("option %q registered twice", d.Name)
		}
		seen[d.Name] = true
	}
	return &Registry{descriptors: append([]Descriptor(nil), ds...)}, nil
}

var defaultRegistry = mustRegistry(
	Descriptor{"precision", IntSetter(engine.Options.SetPrecision)},
	Descriptor{"output_style", StyleSetter(engine.Options.SetOutputStyle)},
	Descriptor{"source_comments", BoolSetter(engine.Options.SetSourceComments)},
	Descriptor{"source_map_embed", BoolSetter(engine.Options.SetSourceMapEmbed)},
	Descriptor{"source_map_contents", BoolSetter(engine.Options.SetSourceMapContents)},
	Descriptor{"omit_source_map_url", BoolSetter(engine.Options.SetOmitSourceMapURL)},
	Descriptor{"is_indented_syntax_src", BoolSetter(engine.Options.SetIsIndentedSyntaxSrc)},
	Descriptor{"indent", StringSetter(engine.Options.SetIndent)},
	Descriptor{"linefeed", StringSetter(engine.Options.SetLinefeed)},
	Descriptor{"input_path", StringSetter(engine.Options.SetInputPath)},
	Descriptor{"output_path", StringSetter(engine.Options.SetOutputPath)},
	Descriptor{"image_path", Inert{Kind: KindString}},
	Descriptor{"include_path", StringSetter(engine.Options.SetIncludePath)},
	Descriptor{"source_map_file", StringSetter(engine.Options.SetSourceMapFile)},
)

func mustRegistry(ds ...Descriptor) *Registry {
	r, err := NewRegistry(ds...)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultRegistry returns the compiler option table.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Names returns every option name in table order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.descriptors))
	for i, d := range r.descriptors {
		names[i] = d.Name
	}
	return names
}

// Lookup finds the descriptor for name by exact match.
func (r *Registry) Lookup(name string) (Descriptor, error) {
	for _, d := range r.descriptors {
		if d.Name == name {
			return d, nil
		}
	}
	return Descriptor{}, argErrorf(ErrUnknownOption, "bad option %q: must be %s", name, choiceList(r.Names()))
}

// Value is a resolved option ready to apply.
type Value struct {
	desc  Descriptor
	i     int
	b     bool
	s     string
	style engine.OutputStyle
}

// Name returns the option name.
func (v Value) Name() string { return v.desc.Name }

// Interface returns the typed value as an int, bool, string or
// engine.OutputStyle.
func (v Value) Interface() any {
	if v.desc.Setter == nil {
		return nil
	}
	switch v.desc.Setter.kind() {
	case KindInteger:
		return v.i
	case KindBoolean:
		return v.b
	case KindOutputStyle:
		return v.style
	default:
		return v.s
	}
}

// Resolve looks up name and converts raw to the option's kind.
func (r *Registry) Resolve(name, raw string) (Value, error) {
	d, err := r.Lookup(name)
	if err != nil {
		return Value{}, err
	}
	if !hasSetter(d.Setter) {
		return Value{}, argErrorf(ErrNoSetter, "option %q has no setter", name)
	}

	v := Value{desc: d}
	switch d.Setter.kind() {
	case KindInteger:
		v.i, err = ResolveInt(raw)
	case KindBoolean:
		v.b, err = ResolveBool(raw)
	case KindOutputStyle:
		v.style, err = ResolveOutputStyle(raw)
	case KindString:
		v.s = raw
	default:
		err = argErrorf(ErrNoSetter, "option %q has unknown kind %s", name, d.Setter.kind())
	}
	if err != nil {
		return Value{}, err
	}
	return v, nil
}

func hasSetter(s Setter) bool {
	switch s := s.(type) {
	case IntSetter:
		return s != nil
	case BoolSetter:
		return s != nil
	case StringSetter:
		return s != nil
	case StyleSetter:
		return s != nil
	case Inert:
		return true
	}
	return false
}

// Apply calls the option's setter on opts exactly once.
func (v Value) Apply(opts engine.Options) {
	switch s := v.desc.Setter.(type) {
	case IntSetter:
		s(opts, v.i)
	case BoolSetter:
		s(opts, v.b)
	case StringSetter:
		s(opts, v.s)
	case StyleSetter:
		s(opts, v.style)
	case Inert:
		// accepted and ignored
	}
}
