// Copyright 2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package resource

import (
	"io/ioutil"
	"reflect"

	"github.com/diffeo/go-resource/restdata"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

// Config is the configuration-file form of a set of resource types.
type Config struct {
	Types []TypeConfig `mapstructure:"types"`
}

// TypeConfig describes one resource type.  Kinds are named as in
// Kind.String(); the connection type is "JAX-RS" or empty.  If Name is
// empty it is derived from TypeName with DefaultName, so "type_name:
// MongoContact" configures the "mongo_contact" resource.
type TypeConfig struct {
	Name           string           `mapstructure:"name"`
	TypeName       string           `mapstructure:"type_name"`
	IDField        string           `mapstructure:"id_field"`
	IDKind         string           `mapstructure:"id_kind"`
	ConnectionType string           `mapstructure:"connection_type"`
	Fields         []FieldConfig    `mapstructure:"fields"`
	Relations      []RelationConfig `mapstructure:"relations"`
}

// FieldConfig describes one declared field.
type FieldConfig struct {
	Name string `mapstructure:"name"`
	Kind string `mapstructure:"kind"`
}

// RelationConfig describes one relation.  Type is the resource name of
// the child type, which must be configured in the same Config.
type RelationConfig struct {
	Name string `mapstructure:"name"`
	Type string `mapstructure:"type"`
}

// decodeBytesAsString is a mapstructure decode hook that accepts a
// byte slice where a string is expected.
func decodeBytesAsString(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() == reflect.String && from.Kind() == reflect.Slice && from.Elem().Kind() == reflect.Uint8 {
		return string(data.([]uint8)), nil
	}
	return data, nil
}

// DecodeConfig converts a generic string-keyed map, as read from a
// YAML or JSON file, into a Config.
func DecodeConfig(options map[string]interface{}) (Config, error) {
	var result Config
	config := mapstructure.DecoderConfig{
		DecodeHook: decodeBytesAsString,
		Result:     &result,
	}
	decoder, err := mapstructure.NewDecoder(&config)
	if err == nil {
		err = decoder.Decode(restdata.Normalize(options))
	}
	return result, err
}

// LoadConfigYaml reads a YAML file into a generic map suitable for
// DecodeConfig.
func LoadConfigYaml(filename string) (map[string]interface{}, error) {
	var result map[string]interface{}
	var err error
	var bytes []byte
	bytes, err = ioutil.ReadFile(filename)
	if err == nil {
		err = yaml.Unmarshal(bytes, &result)
	}
	return result, err
}

// Registry builds the configured Types.  Relations may refer to any
// configured type, including the type itself.
func (c Config) Registry() (*Registry, error) {
	types := make([]*Type, len(c.Types))
	byName := make(map[string]*Type, len(c.Types))
	for i, tc := range c.Types {
		t, err := tc.newType()
		if err != nil {
			return nil, err
		}
		types[i] = t
		byName[t.Name] = t
	}
	for i, tc := range c.Types {
		for _, rc := range tc.Relations {
			child, present := byName[rc.Type]
			if !present {
				return nil, ErrNoSuchType{Name: rc.Type}
			}
			types[i].Relations = append(types[i].Relations, Relation{
				Name: rc.Name,
				Type: child,
			})
		}
	}
	return NewRegistry(types...)
}

func (tc TypeConfig) newType() (*Type, error) {
	name := tc.Name
	if name == "" && tc.TypeName != "" {
		name = DefaultName(tc.TypeName)
	}
	if name == "" {
		return nil, ErrNoName
	}
	t := &Type{Name: name, IDField: tc.IDField}
	var err error
	if err = t.IDKind.UnmarshalText([]byte(tc.IDKind)); err != nil {
		return nil, err
	}
	if t.ConnectionType, err = ParseConnectionType(tc.ConnectionType); err != nil {
		return nil, err
	}
	for _, fc := range tc.Fields {
		f := Field{Name: fc.Name}
		if err = f.Kind.UnmarshalText([]byte(fc.Kind)); err != nil {
			return nil, err
		}
		t.Fields = append(t.Fields, f)
	}
	return t, nil
}

// NewRegistryFromConfig decodes a generic configuration map and builds
// its Registry.
func NewRegistryFromConfig(options map[string]interface{}) (*Registry, error) {
	config, err := DecodeConfig(options)
	if err != nil {
		return nil, err
	}
	return config.Registry()
}
