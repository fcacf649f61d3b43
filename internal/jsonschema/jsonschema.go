package jsonschema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Schema is the subset of JSON Schema the Messages API accepts for tool
// input schemas. Nested structs are inlined; there is no $ref/$defs support
// because tool inputs are flat argument objects.
type Schema struct {
	Type                 string             `json:"type,omitempty"`
	Description          string             `json:"description,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	Default              any                `json:"default,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`
}

// For derives a Schema from T's fields and struct tags. Field names come
// from the json tag, descriptions and enums from the jsonschema tag:
//
//	Query string `json:"query" jsonschema:"description=The search query,required"`
//	Type  string `json:"type,omitempty" jsonschema:"enum=neural,enum=auto"`
//
// A non-pointer field without omitempty is required, as is any field tagged
// jsonschema:"required". Self-referential types degrade to a bare object
// schema rather than recursing.
func For[T any]() *Schema {
	return typeSchema(reflect.TypeFor[T](), nil)
}

func typeSchema(t reflect.Type, seen []reflect.Type) *Schema {
	switch t.Kind() {
	case reflect.Pointer:
		return typeSchema(t.Elem(), seen)
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: typeSchema(t.Elem(), seen)}
	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: typeSchema(t.Elem(), seen)}
	case reflect.Struct:
		return structSchema(t, seen)
	default:
		return &Schema{Type: "object"}
	}
}

func structSchema(t reflect.Type, seen []reflect.Type) *Schema {
	for _, visited := range seen {
		if visited == t {
			// Cycle: stop inlining here.
			return &Schema{Type: "object"}
		}
	}
	seen = append(seen, t)

	schema := &Schema{
		Type:       "object",
		Properties: make(map[string]*Schema, t.NumField()),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, skip := jsonFieldName(field)
		if skip {
			continue
		}

		fieldSchema := typeSchema(field.Type, seen)
		requiredByTag := applyTag(field, fieldSchema)
		schema.Properties[name] = fieldSchema

		if requiredByTag || (field.Type.Kind() != reflect.Pointer && !omitEmpty) {
			schema.Required = append(schema.Required, name)
		}
	}

	return schema
}

// jsonFieldName resolves the property name from the json tag. skip is true
// for fields tagged json:"-".
func jsonFieldName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name = field.Name
	if tag == "" {
		return name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// applyTag applies the jsonschema struct tag options (description, enum,
// required) to schema and reports whether the field was tagged required.
// Enum values are converted to the field's own type so integers and booleans
// are not emitted as strings.
func applyTag(field reflect.StructField, schema *Schema) (requiredByTag bool) {
	tag := field.Tag.Get("jsonschema")
	if tag == "" {
		return false
	}

	for _, item := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(item, "=")
		switch {
		case key == "required" && !hasValue:
			requiredByTag = true
		case key == "description" && hasValue:
			schema.Description = value
		case key == "enum" && hasValue:
			if converted, err := convertEnumValue(field.Type, value); err == nil {
				schema.Enum = append(schema.Enum, converted)
			} else {
				schema.Enum = append(schema.Enum, value)
			}
		}
	}
	return requiredByTag
}

func convertEnumValue(t reflect.Type, value string) (any, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.ParseInt(value, 10, 64)
	case reflect.Float32, reflect.Float64:
		return strconv.ParseFloat(value, 64)
	case reflect.Bool:
		return strconv.ParseBool(value)
	default:
		return nil, fmt.Errorf("enum unsupported for %s", t.Kind())
	}
}

// String renders the schema as compact JSON, for logs and error messages.
func (s *Schema) String() string {
	encoded, err := json.Marshal(s)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(encoded)
}
