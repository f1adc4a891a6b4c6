// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package resource

import (
	"sync"

	"github.com/diffeo/go-resource/restdata"
	"github.com/jtacoma/uritemplates"
)

// urlTemplate is the RFC 6570 template for every resource path.  With
// no id it expands to the collection path.
var urlTemplate *uritemplates.UriTemplate

func init() {
	var err error
	urlTemplate, err = uritemplates.Parse("/{collection}{/id}")
	if err != nil {
		panic(err)
	}
}

func expandURL(collection string, id interface{}) string {
	vars := map[string]interface{}{"collection": collection}
	if id != nil {
		vars["id"] = restdata.MaybeEncodeName(FormatID(id))
	}
	expanded, err := urlTemplate.Expand(vars)
	if err != nil {
		// Only possible with a malformed template, and ours is
		// fixed
		panic(err)
	}
	return expanded
}

// Object is one in-memory resource.  Its methods may be called from
// multiple goroutines, but concurrent remote operations on the same
// Object are not coordinated: whichever completes last wins for the
// fields it touches.
type Object struct {
	typ *Type

	lock       sync.RWMutex
	values     map[string]interface{}
	children   map[string][]*Object
	connection ConnectionType
	transport  Transport
}

// New creates an Object of type t with initial properties props.
// Declared fields are coerced to their kinds; a relation may be given
// as a []*Object or as a list of serialized children; anything else is
// kept as a transient property.  props is not retained.
func (t *Type) New(props map[string]interface{}) *Object {
	o := &Object{
		typ:        t,
		values:     make(map[string]interface{}),
		children:   make(map[string][]*Object),
		connection: t.ConnectionType,
		transport:  t.Transport,
	}
	for name, value := range props {
		o.Set(name, value)
	}
	return o
}

// Type returns the Type this Object was created from.
func (o *Object) Type() *Type {
	return o.typ
}

// Get returns the value of a field, transient property, or computed
// value, or nil if it is unset.  Relations are read with Children.
func (o *Object) Get(name string) interface{} {
	if c, isComputed := o.typ.computed(name); isComputed {
		return c.Func(o)
	}
	o.lock.RLock()
	defer o.lock.RUnlock()
	return o.values[name]
}

// Set changes the value of a field or transient property.  Setting nil
// removes the value.  Setting a relation name replaces its children; a
// computed name is ignored.
func (o *Object) Set(name string, value interface{}) {
	if rel, isRelation := o.typ.Relation(name); isRelation {
		o.setRelation(rel, value)
		return
	}
	if _, isComputed := o.typ.computed(name); isComputed {
		return
	}
	if f, isField := o.typ.Field(name); isField {
		value = f.Kind.Coerce(value)
	} else {
		value = normalizeNumber(value)
	}

	o.lock.Lock()
	defer o.lock.Unlock()
	if value == nil {
		delete(o.values, name)
	} else {
		o.values[name] = value
	}
}

func (o *Object) setRelation(rel Relation, value interface{}) {
	switch v := value.(type) {
	case []*Object:
		o.SetChildren(rel.Name, v)
	case nil:
		o.SetChildren(rel.Name, nil)
	default:
		if list, isList := restdata.Normalize(value).([]interface{}); isList {
			o.SetChildren(rel.Name, o.deserializeChildren(rel, list))
		}
	}
}

// Children returns a copy of the child list of a relation.  The
// children themselves are shared.
func (o *Object) Children(relation string) []*Object {
	o.lock.RLock()
	defer o.lock.RUnlock()
	children, present := o.children[relation]
	if !present {
		return nil
	}
	return append([]*Object{}, children...)
}

// SetChildren replaces the children of a relation.  The slice is
// copied; the children are not.  Setting an undeclared relation does
// nothing.
func (o *Object) SetChildren(relation string, children []*Object) {
	if _, isRelation := o.typ.Relation(relation); !isRelation {
		return
	}
	list := append([]*Object{}, children...)
	o.lock.Lock()
	defer o.lock.Unlock()
	o.children[relation] = list
}

// AppendChild adds one child to the end of a relation.
func (o *Object) AppendChild(relation string, child *Object) {
	if _, isRelation := o.typ.Relation(relation); !isRelation {
		return
	}
	o.lock.Lock()
	defer o.lock.Unlock()
	o.children[relation] = append(o.children[relation], child)
}

// ResourceID returns the value of the identity field, or nil.
func (o *Object) ResourceID() interface{} {
	return o.Get(o.typ.ResourceIDField())
}

// IsNew is true iff the identity field has no value, which means the
// resource has not been persisted.
func (o *Object) IsNew() bool {
	return o.ResourceID() == nil
}

// ResourceURL returns "/<plural>" for a new resource and
// "/<plural>/<id>" otherwise.
func (o *Object) ResourceURL() string {
	return expandURL(o.typ.Plural(), o.ResourceID())
}

// CollectionURL returns "/<plural>".
func (o *Object) CollectionURL() string {
	return o.typ.CollectionURL()
}

// ConnectionType returns this Object's wire shape.
func (o *Object) ConnectionType() ConnectionType {
	o.lock.RLock()
	defer o.lock.RUnlock()
	return o.connection
}

// SetConnectionType changes this Object's wire shape.  Children are
// not affected; see PropagateConnectionType.
func (o *Object) SetConnectionType(ct ConnectionType) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.connection = ct
}

// PropagateConnectionType sets every descendant's connection type to
// this Object's.
func (o *Object) PropagateConnectionType() {
	ct := o.ConnectionType()
	o.eachChild(func(child *Object) {
		child.SetConnectionType(ct)
		child.PropagateConnectionType()
	})
}

// Transport returns the transport used for remote operations.
func (o *Object) Transport() Transport {
	o.lock.RLock()
	defer o.lock.RUnlock()
	return o.transport
}

// SetTransport changes the transport used for remote operations.
func (o *Object) SetTransport(t Transport) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.transport = t
}

// eachChild calls f on every child of every declared relation, in
// declaration and list order, without holding o's lock.
func (o *Object) eachChild(f func(*Object)) {
	for _, rel := range o.typ.Relations {
		for _, child := range o.Children(rel.Name) {
			f(child)
		}
	}
}

// snapshot is a consistent copy of an Object's own state.
type snapshot struct {
	values     map[string]interface{}
	children   map[string][]*Object
	connection ConnectionType
	transport  Transport
}

func (o *Object) snapshot() snapshot {
	o.lock.RLock()
	defer o.lock.RUnlock()
	s := snapshot{
		values:     make(map[string]interface{}, len(o.values)),
		children:   make(map[string][]*Object, len(o.children)),
		connection: o.connection,
		transport:  o.transport,
	}
	for k, v := range o.values {
		s.values[k] = v
	}
	for k, v := range o.children {
		s.children[k] = append([]*Object{}, v...)
	}
	return s
}

// Copy returns a new, independent Object of the same Type with the
// same values.  Children are copied recursively, so changes to the
// copy's tree never affect the original.
func (o *Object) Copy() *Object {
	s := o.snapshot()
	dup := &Object{
		typ:        o.typ,
		values:     s.values,
		children:   make(map[string][]*Object, len(s.children)),
		connection: s.connection,
		transport:  s.transport,
	}
	for rel, children := range s.children {
		list := make([]*Object, len(children))
		for i, child := range children {
			list[i] = child.Copy()
		}
		dup.children[rel] = list
	}
	return dup
}

// DuplicateProperties overwrites o's identity and declared fields with
// other's current values.  A field unset in other becomes unset in o.
// Relations and transient properties are untouched, and other is not
// modified.  other may be of a different Type; only fields o declares
// are copied.
func (o *Object) DuplicateProperties(other *Object) {
	s := other.snapshot()
	names := append([]string{o.typ.ResourceIDField()}, o.fieldNames()...)

	o.lock.Lock()
	defer o.lock.Unlock()
	for _, name := range names {
		f, _ := o.typ.Field(name)
		value := f.Kind.Coerce(s.values[name])
		if value == nil {
			delete(o.values, name)
		} else {
			o.values[name] = value
		}
	}
}

// fieldNames lists the declared field names other than the identity
// field, in declaration order.
func (o *Object) fieldNames() []string {
	idField := o.typ.ResourceIDField()
	names := make([]string, 0, len(o.typ.Fields))
	for _, f := range o.typ.Fields {
		if f.Name != idField {
			names = append(names, f.Name)
		}
	}
	return names
}
