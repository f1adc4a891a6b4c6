// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package resource

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind describes the scalar type of a declared field.
type Kind int

const (
	// Any accepts any value.  Integers are still normalized to
	// int64 and floating-point numbers to float64.
	Any Kind = iota

	// String holds text.
	String

	// Int holds an int64.
	Int

	// Float holds a float64.
	Float

	// Bool holds a bool.
	Bool
)

var kindNames = map[Kind]string{
	Any:    "any",
	String: "string",
	Int:    "int",
	Float:  "float",
	Bool:   "bool",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText returns the configuration name of k.
func (k Kind) MarshalText() ([]byte, error) {
	if name, ok := kindNames[k]; ok {
		return []byte(name), nil
	}
	return nil, ErrUnknownKind{Name: k.String()}
}

// UnmarshalText parses a configuration name into k.  The empty string
// is Any.
func (k *Kind) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	if name == "" {
		*k = Any
		return nil
	}
	for kind, kindName := range kindNames {
		if kindName == name {
			*k = kind
			return nil
		}
	}
	return ErrUnknownKind{Name: string(text)}
}

// Coerce converts value to k if possible.  If value cannot be
// represented as k it is returned unchanged; nil is always nil.
func (k Kind) Coerce(value interface{}) interface{} {
	value = normalizeNumber(value)
	switch k {
	case String:
		switch v := value.(type) {
		case []byte:
			return string(v)
		case int64:
			return strconv.FormatInt(v, 10)
		}
	case Int:
		switch v := value.(type) {
		case float64:
			// 2^63 is exactly representable; MaxInt64 is not
			if v == math.Trunc(v) && v >= -(1<<63) && v < 1<<63 {
				return int64(v)
			}
		case string:
			if i, err := strconv.ParseInt(v, 10, 64); err == nil {
				return i
			}
		}
	case Float:
		switch v := value.(type) {
		case int64:
			return float64(v)
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
	case Bool:
		if s, isString := value.(string); isString {
			if b, err := strconv.ParseBool(s); err == nil {
				return b
			}
		}
	}
	return value
}

// normalizeNumber maps every Go integer type to int64 (uint64 only
// when it fits) and float32 to float64.
func normalizeNumber(value interface{}) interface{} {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return normalizeNumber(uint64(v))
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		if v <= math.MaxInt64 {
			return int64(v)
		}
	case float32:
		return float64(v)
	}
	return value
}

// FormatID renders an identity value as it appears in a URL path or a
// storage key.
func FormatID(id interface{}) string {
	switch v := normalizeNumber(id).(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
