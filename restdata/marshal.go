// Copyright 2015 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"bytes"
	"fmt"
	"github.com/ugorji/go/codec"
	"io"
	"mime"
	"reflect"
)

var mapStringType = reflect.TypeOf(map[string]interface{}(nil))

// canonicalType maps every accepted media type to the specific type
// whose codec handles it.
var canonicalType = map[string]string{
	"text/json":         JSONMediaType,
	JSONMediaType:       JSONMediaType,
	VendorJSONMediaType: JSONMediaType,
	CBORMediaType:       CBORMediaType,
}

// CanonicalMediaType returns the codec media type for some acceptable
// media type, or the empty string if it is not understood.  Parameters
// such as charset are ignored.
func CanonicalMediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return canonicalType[mediaType]
}

// handle returns a fresh codec handle for a canonical media type.
// Generic objects always decode as string-keyed maps and integers
// decode as int64.
func handle(mediaType string) (codec.Handle, error) {
	switch mediaType {
	case JSONMediaType:
		h := &codec.JsonHandle{}
		h.MapType = mapStringType
		h.SignedInteger = true
		h.Canonical = true
		return h, nil
	case CBORMediaType:
		h := &codec.CborHandle{}
		h.MapType = mapStringType
		h.SignedInteger = true
		h.Canonical = true
		return h, nil
	default:
		return nil, ErrUnsupportedMediaType{Type: mediaType}
	}
}

// Decode tries to decode a restdata object from a reader, such as an
// HTTP request or response.  out must be a pointer type.
func Decode(contentType string, r io.Reader, out interface{}) error {
	if contentType == "" {
		// RFC 7231 section 3.1.1.5
		// We could also consider http.DetectContentType()
		contentType = "application/octet-stream"
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return err
	}

	canonical, understood := canonicalType[mediaType]
	if !understood {
		return ErrUnsupportedMediaType{Type: mediaType}
	}
	h, err := handle(canonical)
	if err != nil {
		return err
	}
	decoder := codec.NewDecoder(r, h)
	return decoder.Decode(out)
}

// DecodeBytes is Decode over an in-memory body.
func DecodeBytes(contentType string, body []byte, out interface{}) error {
	return Decode(contentType, bytes.NewReader(body), out)
}

// Encode writes in to w in the representation for mediaType, which
// must be one of the media types Decode accepts.
func Encode(mediaType string, w io.Writer, in interface{}) error {
	canonical := CanonicalMediaType(mediaType)
	if canonical == "" {
		return ErrUnsupportedMediaType{Type: mediaType}
	}
	h, err := handle(canonical)
	if err != nil {
		return err
	}
	encoder := codec.NewEncoder(w, h)
	return encoder.Encode(in)
}

// EncodeBytes is Encode returning an in-memory body.
func EncodeBytes(mediaType string, in interface{}) ([]byte, error) {
	var buf bytes.Buffer
	err := Encode(mediaType, &buf, in)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StringKeyedMap tries to convert an arbitrary decoded object to a
// string-keyed map, recursively normalizing nested maps and lists.  It
// accepts both map[string]interface{} and map[interface{}]interface{},
// the latter as produced by YAML and some CBOR decoders.  If obj is not
// a map, or any of its keys are not strings, returns nil and false.
func StringKeyedMap(obj interface{}) (map[string]interface{}, bool) {
	switch m := obj.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(m))
		for key, value := range m {
			result[key] = Normalize(value)
		}
		return result, true
	case Document:
		return StringKeyedMap(map[string]interface{}(m))
	case map[interface{}]interface{}:
		result := make(map[string]interface{}, len(m))
		for key, value := range m {
			keyAsString, ok := key.(string)
			if !ok {
				return nil, false
			}
			result[keyAsString] = Normalize(value)
		}
		return result, true
	default:
		return nil, false
	}
}

// Normalize converts decoded maps anywhere inside obj to string-keyed
// maps.  Values that are neither maps nor lists are returned as is.
func Normalize(obj interface{}) interface{} {
	switch v := obj.(type) {
	case map[string]interface{}, map[interface{}]interface{}, Document:
		if m, ok := StringKeyedMap(v); ok {
			return m
		}
		return obj
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = Normalize(item)
		}
		return result
	default:
		return obj
	}
}

// String produces a compact JSON rendering of obj for diagnostics.
func String(obj interface{}) string {
	b, err := EncodeBytes(JSONMediaType, obj)
	if err != nil {
		return fmt.Sprintf("%+v", obj)
	}
	return string(b)
}

// Copy returns a deep copy of d.  Nested maps and lists are copied;
// other values are shared.
func (d Document) Copy() Document {
	if d == nil {
		return nil
	}
	return Document(copyValue(map[string]interface{}(d)).(map[string]interface{}))
}

func copyValue(obj interface{}) interface{} {
	switch v := obj.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			result[key] = copyValue(value)
		}
		return result
	case Document:
		return v.Copy()
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = copyValue(item)
		}
		return result
	default:
		return obj
	}
}
