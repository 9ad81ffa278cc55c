package util

import (
	"fmt"
	"reflect"
	"strings"
)

// ValidationError describes a single parameter that failed schema validation.
type ValidationError struct {
	Field   string `json:"field"`   // Name of the offending parameter
	Value   any    `json:"value"`   // Value as provided by the caller
	Message string `json:"message"` // Human-readable explanation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// CreateSchema derives a minimal JSON schema from a struct via reflection.
// Field names follow json tags, description tags become property
// descriptions, and every exported non-pointer field without omitempty is
// marked required.
func CreateSchema(structType any) map[string]any {
	properties := map[string]any{}

	var required []string

	typ := reflect.TypeOf(structType)
	for typ != nil && typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	if typ == nil || typ.Kind() != reflect.Struct {
		return map[string]any{
			"type":       "object",
			"properties": properties,
		}
	}

	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)

		name, optional, ok := fieldInfo(sf)
		if !ok {
			continue
		}

		prop := map[string]any{"type": jsonType(sf.Type)}
		if desc := sf.Tag.Get("description"); desc != "" {
			prop["description"] = desc
		}

		properties[name] = prop

		if !optional {
			required = append(required, name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// fieldInfo resolves a struct field's schema name and whether it is optional.
// Unexported fields and fields tagged `json:"-"` are excluded entirely.
func fieldInfo(sf reflect.StructField) (name string, optional, ok bool) {
	if !sf.IsExported() {
		return "", false, false
	}

	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false, false
	}

	name = sf.Name

	tagParts := strings.Split(tag, ",")
	if tagParts[0] != "" {
		name = tagParts[0]
	}

	for _, opt := range tagParts[1:] {
		if strings.TrimSpace(opt) == "omitempty" {
			optional = true
		}
	}

	if sf.Type.Kind() == reflect.Ptr {
		optional = true
	}

	return name, optional, true
}

// jsonType maps a Go type onto the JSON schema type vocabulary.
func jsonType(rt reflect.Type) string {
	switch rt.Kind() {
	case reflect.Ptr:
		return jsonType(rt.Elem())
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "string"
	}
}

// ValidateParameters checks params against a minimal JSON-schema-shaped map.
// Only the required list and per-property types are enforced; parameters the
// schema does not declare pass through untouched.
func ValidateParameters(params map[string]any, schema map[string]any) error {
	for _, name := range requiredFields(schema) {
		if _, present := params[name]; !present {
			return &ValidationError{
				Field:   name,
				Message: "required field is missing",
			}
		}
	}

	props, _ := schema["properties"].(map[string]any)

	for name, value := range params {
		prop, ok := props[name].(map[string]any)
		if !ok {
			continue
		}

		want, _ := prop["type"].(string)
		if !typeMatches(value, want) {
			return &ValidationError{
				Field:   name,
				Value:   value,
				Message: fmt.Sprintf("expected type %s, got %T", want, value),
			}
		}
	}

	return nil
}

// requiredFields normalizes the schema's required list into []string. It may
// be []string (schemas built in Go) or []any (schemas decoded from JSON).
func requiredFields(schema map[string]any) []string {
	switch req := schema["required"].(type) {
	case []string:
		return req
	case []any:
		fields := make([]string, 0, len(req))
		for _, r := range req {
			if s, ok := r.(string); ok {
				fields = append(fields, s)
			}
		}

		return fields
	default:
		return nil
	}
}

// typeMatches reports whether value satisfies the JSON schema type name. Nil
// values and unknown type names always match.
func typeMatches(value any, want string) bool {
	if value == nil {
		return true
	}

	switch want {
	case "string":
		_, ok := value.(string)
		return ok
	case "boolean":
		_, ok := value.(bool)
		return ok
	case "integer":
		// JSON numbers decode to float64; accept integral values.
		if f, ok := value.(float64); ok {
			return f == float64(int64(f))
		}

		return isIntegral(value)
	case "number":
		switch value.(type) {
		case float32, float64:
			return true
		}

		return isIntegral(value)
	case "array":
		_, ok := value.([]any)
		return ok
	case "object":
		_, ok := value.(map[string]any)
		return ok
	default:
		return true
	}
}

// isIntegral reports whether value is one of Go's built-in integer types.
func isIntegral(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}
