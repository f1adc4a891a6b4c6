// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package resource

// Registry is a fixed set of Types, addressable by resource name and
// by plural collection name.
type Registry struct {
	types    []*Type
	byName   map[string]*Type
	byPlural map[string]*Type
}

// NewRegistry creates a Registry holding types, in order.  It fails if
// a type has no name or if two types would share a name or a
// collection.
func NewRegistry(types ...*Type) (*Registry, error) {
	r := &Registry{
		byName:   make(map[string]*Type),
		byPlural: make(map[string]*Type),
	}
	for _, t := range types {
		if err := r.add(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) add(t *Type) error {
	if t.Name == "" {
		return ErrNoName
	}
	if _, present := r.byName[t.Name]; present {
		return ErrDuplicateType{Name: t.Name}
	}
	if _, present := r.byPlural[t.Plural()]; present {
		return ErrDuplicateType{Name: t.Name}
	}
	r.types = append(r.types, t)
	r.byName[t.Name] = t
	r.byPlural[t.Plural()] = t
	return nil
}

// Lookup finds a Type by its resource name, e.g. "contact".
func (r *Registry) Lookup(name string) (*Type, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// LookupPlural finds a Type by its collection name, e.g. "contacts".
func (r *Registry) LookupPlural(plural string) (*Type, bool) {
	t, ok := r.byPlural[plural]
	return t, ok
}

// Types returns all of the Types in registration order.
func (r *Registry) Types() []*Type {
	return append([]*Type(nil), r.types...)
}
