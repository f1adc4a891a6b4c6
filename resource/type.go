// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package resource

import (
	"strings"
	"unicode"

	"github.com/gosimple/slug"
)

// DefaultIDField is the identity field name used when a Type does not
// set IDField.
const DefaultIDField = "id"

// ConnectionType selects the wire shape an Object serializes to.
type ConnectionType string

const (
	// Default selects the envelope shape, where every object is
	// wrapped under its resource name.
	Default ConnectionType = ""

	// JAXRS selects the flat shape with no wrapper at any level.
	JAXRS ConnectionType = "JAX-RS"
)

// ParseConnectionType converts a configuration string to a
// ConnectionType.  "" and "default" are Default; "JAX-RS" is JAXRS,
// case-insensitively and with or without the hyphen.
func ParseConnectionType(s string) (ConnectionType, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return Default, nil
	case "jax-rs", "jaxrs":
		return JAXRS, nil
	default:
		return Default, ErrUnknownConnectionType{Name: s}
	}
}

// Field declares one persisted scalar attribute.
type Field struct {
	Name string
	Kind Kind
}

// Relation declares a named, ordered list of child resources.  Name is
// the (plural) field name in the parent, e.g. "contacts".
type Relation struct {
	Name string
	Type *Type
}

// Computed declares a derived value.  Computed values can be read with
// Object.Get but are never serialized.
type Computed struct {
	Name string
	Func func(o *Object) interface{}
}

// Type describes one kind of resource: its name, identity, persisted
// fields and relations.  A Type is the factory for its Objects.  Types
// should be fully set up before any Object is created from them and not
// changed afterwards; use Extend to derive a variant.
type Type struct {
	// Name is the singular resource name.  It is both the envelope
	// key and, with "s" appended, the URL path segment.
	Name string

	// IDField names the identity field.  If empty, "id".
	IDField string

	// IDKind is the kind of the identity value.
	IDKind Kind

	// Fields lists the persisted scalar fields in serialization
	// order.  The identity field need not be listed.
	Fields []Field

	// Relations lists the child collections.
	Relations []Relation

	// Computed lists derived values.
	Computed []Computed

	// ConnectionType is the initial connection type of new Objects.
	ConnectionType ConnectionType

	// Transport is the initial transport of new Objects.  It may
	// be nil, in which case remote operations fail until one is
	// set on the Object.
	Transport Transport
}

// ResourceIDField returns the name of the identity field.
func (t *Type) ResourceIDField() string {
	if t.IDField == "" {
		return DefaultIDField
	}
	return t.IDField
}

// Plural returns the resource name with "s" appended.
func (t *Type) Plural() string {
	return t.Name + "s"
}

// CollectionURL returns the path of the collection of these
// resources, e.g. "/contacts".
func (t *Type) CollectionURL() string {
	return expandURL(t.Plural(), nil)
}

// Field looks up a declared field.  The identity field is always
// declared, with kind IDKind, even if it is not in Fields.
func (t *Type) Field(name string) (Field, bool) {
	if name == t.ResourceIDField() {
		return Field{Name: name, Kind: t.IDKind}, true
	}
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Relation looks up a declared relation.
func (t *Type) Relation(name string) (Relation, bool) {
	for _, r := range t.Relations {
		if r.Name == name {
			return r, true
		}
	}
	return Relation{}, false
}

func (t *Type) computed(name string) (Computed, bool) {
	for _, c := range t.Computed {
		if c.Name == name {
			return c, true
		}
	}
	return Computed{}, false
}

// Extend returns a new Type that starts as a copy of t and is then
// modified by f.  Objects of the new Type are distinct from objects of
// t: copying one yields the extended Type.
//
//     MongoContact := Contact.Extend(func(t *resource.Type) {
//             t.IDField = "_id"
//             t.IDKind = resource.String
//     })
func (t *Type) Extend(f func(*Type)) *Type {
	ext := *t
	ext.Fields = append([]Field(nil), t.Fields...)
	ext.Relations = append([]Relation(nil), t.Relations...)
	ext.Computed = append([]Computed(nil), t.Computed...)
	if f != nil {
		f(&ext)
	}
	return &ext
}

// DefaultName derives a resource name from a Go-style type name:
// "Contact" becomes "contact" and "MongoContact" becomes
// "mongo_contact".
func DefaultName(typeName string) string {
	runes := []rune(typeName)
	var words strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && nextLower) {
				words.WriteRune(' ')
			}
		}
		words.WriteRune(r)
	}
	return strings.ReplaceAll(slug.Make(words.String()), "-", "_")
}
