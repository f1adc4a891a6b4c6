// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package resource

import (
	"github.com/diffeo/go-resource/restdata"
)

// Serialize returns the wire representation of o's identity, declared
// fields and relations.  Each node in the tree uses its own connection
// type: the default wraps the node as {name: {...}}, JAXRS leaves it
// flat.  The identity is included whenever it is non-nil.  Transient
// and computed values are never included.
func (o *Object) Serialize() map[string]interface{} {
	return o.serialize(nil)
}

// SerializeAs is Serialize with every node in the tree forced to the
// connection type ct.
func (o *Object) SerializeAs(ct ConnectionType) map[string]interface{} {
	return o.serialize(&ct)
}

func (o *Object) serialize(force *ConnectionType) map[string]interface{} {
	s := o.snapshot()
	ct := s.connection
	if force != nil {
		ct = *force
	}

	body := make(map[string]interface{})
	idField := o.typ.ResourceIDField()
	if id := s.values[idField]; id != nil {
		body[idField] = id
	}
	for _, name := range o.fieldNames() {
		if value, present := s.values[name]; present {
			body[name] = value
		}
	}
	for _, rel := range o.typ.Relations {
		children, present := s.children[rel.Name]
		if !present {
			continue
		}
		list := make([]interface{}, len(children))
		for i, child := range children {
			list[i] = child.serialize(force)
		}
		body[rel.Name] = list
	}

	if ct == JAXRS {
		return body
	}
	return map[string]interface{}{o.typ.Name: body}
}

// unwrap returns the contents of an envelope-shaped body for t, or
// body itself if it is flat.
func unwrap(t *Type, body map[string]interface{}) map[string]interface{} {
	if len(body) != 1 {
		return body
	}
	if inner, isMap := body[t.Name].(map[string]interface{}); isMap {
		return inner
	}
	return body
}

// Deserialize populates o in place from data in either wire shape.
// The envelope is detected per node, so wrapped and flat children may
// be mixed in one list.  Identity and declared fields that are present
// overwrite o's values (an explicit null unsets them); absent fields
// are left alone and undeclared keys are ignored.  A relation that is
// present replaces o's children with new Objects of the declared
// child type, in order.  Input that does not have the expected
// structure is skipped without error.
func (o *Object) Deserialize(data interface{}) {
	body, isMap := restdata.StringKeyedMap(data)
	if !isMap {
		return
	}
	body = unwrap(o.typ, body)

	values := make(map[string]interface{})
	children := make(map[string][]*Object)
	for key, value := range body {
		if rel, isRelation := o.typ.Relation(key); isRelation {
			switch list := value.(type) {
			case nil:
				children[key] = []*Object{}
			case []interface{}:
				children[key] = o.deserializeChildren(rel, list)
			}
			continue
		}
		if f, isField := o.typ.Field(key); isField {
			values[key] = f.Kind.Coerce(value)
		}
	}

	o.lock.Lock()
	defer o.lock.Unlock()
	for key, value := range values {
		if value == nil {
			delete(o.values, key)
		} else {
			o.values[key] = value
		}
	}
	for key, list := range children {
		o.children[key] = list
	}
}

// deserializeChildren builds new children for rel from serialized list
// items.  Items that are not objects are skipped.  The children inherit
// o's connection type, and o's transport if their Type has none.
func (o *Object) deserializeChildren(rel Relation, list []interface{}) []*Object {
	ct := o.ConnectionType()
	transport := o.Transport()
	children := make([]*Object, 0, len(list))
	for _, item := range list {
		if _, isMap := restdata.StringKeyedMap(item); !isMap {
			continue
		}
		child := rel.Type.New(nil)
		child.connection = ct
		if child.transport == nil {
			child.transport = transport
		}
		child.Deserialize(item)
		children = append(children, child)
	}
	return children
}

// DeserializeBytes decodes an encoded body of the given content type
// and deserializes it into o.  An empty body changes nothing.
func (o *Object) DeserializeBytes(contentType string, body []byte) error {
	if len(body) == 0 {
		return nil
	}
	var data map[string]interface{}
	err := restdata.DecodeBytes(contentType, body, &data)
	if err != nil {
		return err
	}
	o.Deserialize(data)
	return nil
}

// MarshalJSON returns the JSON encoding of Serialize().
func (o *Object) MarshalJSON() ([]byte, error) {
	return restdata.EncodeBytes(restdata.JSONMediaType, o.Serialize())
}

// UnmarshalJSON deserializes a JSON body into o.
func (o *Object) UnmarshalJSON(b []byte) error {
	return o.DeserializeBytes(restdata.JSONMediaType, b)
}
