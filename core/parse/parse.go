package parse

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// As decodes model-produced text into a value of type T. It is the decoding
// path for tool-call arguments, where the payload is usually a JSON object
// but models routinely wrap it in markdown fences, use single quotes, drop
// closing braces, or emit schema-shaped {"type": ..., "value": ...} wrappers
// instead of plain values.
//
// The recovery ladder for non-primitive targets is:
//  1. strip a surrounding markdown code fence, if any
//  2. plain json.Unmarshal
//  3. jsonrepair, then unmarshal again
//  4. flatten schema-shaped wrappers, then unmarshal once more
//
// Primitive targets (string, bool, numeric) are converted directly, with the
// same schema-wrapper fallback for payloads like {"type":"integer","value":3}.
func As[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	content = stripFence(content)

	kind := reflect.TypeFor[T]().Kind()
	if isPrimitiveKind(kind) {
		if err := assignPrimitive(target, kind, content); err == nil {
			return result, nil
		}
		// A wrapped primitive like {"type":"string","value":"1h"} still decodes.
		if inner, ok := unwrapOne(content); ok {
			if err := assignPrimitive(target, kind, inner); err == nil {
				return result, nil
			}
		}
		return result, fmt.Errorf("cannot decode %q as %s", truncateForError(content), kind)
	}

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(content)
	if repairErr != nil {
		return result, fmt.Errorf("decoding %T: input is not JSON and could not be repaired: %w", result, repairErr)
	}

	unmarshalErr := json.Unmarshal([]byte(repaired), &result)
	if unmarshalErr == nil {
		return result, nil
	}

	if flattened, ok := flattenSchemaShaped(repaired); ok {
		if err := json.Unmarshal([]byte(flattened), &result); err == nil {
			return result, nil
		}
	}

	return result, fmt.Errorf("decoding %T from %q: %w", result, truncateForError(content), unmarshalErr)
}

func isPrimitiveKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// assignPrimitive converts content to the primitive kind and stores it in
// target. String targets accept the content as-is.
func assignPrimitive(target reflect.Value, kind reflect.Kind, content string) error {
	switch kind {
	case reflect.String:
		// A bare JSON object is almost certainly a wrapped value, not the
		// string the caller wants; let the unwrap fallback handle it.
		if strings.HasPrefix(strings.TrimSpace(content), "{") {
			return fmt.Errorf("object payload for string target")
		}
		target.SetString(content)
	case reflect.Bool:
		value, err := strconv.ParseBool(strings.TrimSpace(content))
		if err != nil {
			return err
		}
		target.SetBool(value)
	case reflect.Float32, reflect.Float64:
		value, err := strconv.ParseFloat(strings.TrimSpace(content), 64)
		if err != nil {
			return err
		}
		target.SetFloat(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		value, err := strconv.ParseInt(strings.TrimSpace(content), 10, 64)
		if err != nil {
			return err
		}
		target.SetInt(value)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		value, err := strconv.ParseUint(strings.TrimSpace(content), 10, 64)
		if err != nil {
			return err
		}
		target.SetUint(value)
	default:
		return fmt.Errorf("unsupported primitive kind %s", kind)
	}
	return nil
}

// stripFence removes one surrounding markdown code fence (``` or ```json)
// when the whole payload is fenced. Anything else is returned unchanged.
func stripFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return content
	}

	body, found := strings.CutPrefix(trimmed, "```")
	if !found {
		return content
	}
	// Drop an optional language tag on the opening fence line.
	if newline := strings.IndexByte(body, '\n'); newline >= 0 {
		firstLine := strings.TrimSpace(body[:newline])
		if firstLine == "" || isLanguageTag(firstLine) {
			body = body[newline+1:]
		}
	}

	body, found = strings.CutSuffix(strings.TrimSpace(body), "```")
	if !found {
		return content
	}
	return strings.TrimSpace(body)
}

func isLanguageTag(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// unwrapOne extracts the value from a single schema-shaped wrapper object
// {"type": ..., "value": ...} and renders it as a string for primitive
// conversion. Returns false when content is not such a wrapper.
func unwrapOne(content string) (string, bool) {
	var object map[string]any
	if err := json.Unmarshal([]byte(content), &object); err != nil {
		return "", false
	}
	value, ok := wrappedValue(object)
	if !ok {
		return "", false
	}

	switch v := value.(type) {
	case string:
		return v, true
	case float64, bool:
		return fmt.Sprintf("%v", v), true
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(encoded), true
	}
}

// flattenSchemaShaped rewrites a document in which field values are
// schema-shaped wrappers into the document the model meant to produce:
//
//	{"query": {"type": "string", "value": "go releases"}}  ->  {"query": "go releases"}
//
// The rewrite recurses through nested objects and arrays.
func flattenSchemaShaped(document string) (string, bool) {
	var data any
	if err := json.Unmarshal([]byte(document), &data); err != nil {
		return "", false
	}

	flattened, err := json.Marshal(flatten(data))
	if err != nil {
		return "", false
	}
	return string(flattened), true
}

func flatten(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if value, ok := wrappedValue(v); ok {
			return flatten(value)
		}
		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = flatten(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = flatten(val)
		}
		return result
	default:
		return data
	}
}

// wrappedValue reports whether object is exactly {"type": ..., "value": ...}
// and returns the wrapped value if so.
func wrappedValue(object map[string]any) (any, bool) {
	if len(object) != 2 {
		return nil, false
	}
	if _, hasType := object["type"]; !hasType {
		return nil, false
	}
	value, hasValue := object["value"]
	return value, hasValue
}

const errorPreviewLen = 120

func truncateForError(s string) string {
	if len(s) <= errorPreviewLen {
		return s
	}
	return s[:errorPreviewLen] + "..."
}
