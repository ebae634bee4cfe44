package formflow

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"
)

// The form's values live in a caller-owned struct T. The engine addresses
// individual fields by JSON pointer and goes through the document form of T
// for reads and through RFC6902 patches for writes, so it never needs
// type-specific accessors.

type patchOperation struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

// valueDocument marshals the state into its generic JSON document form.
func valueDocument[T any](state T) (map[string]any, error) {
	data, err := sonic.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("marshal form values: %w", err)
	}
	var doc map[string]any
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("form values are not an object: %w", err)
	}
	return doc, nil
}

// pointerValue walks a JSON pointer through the document. Array indexing is
// not supported; form fields address object members only.
func pointerValue(doc map[string]any, pointer string) (any, bool) {
	current := any(doc)
	for _, token := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[unescapePointerToken(token)]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func unescapePointerToken(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	return strings.ReplaceAll(token, "~0", "~")
}

// isUnknownValue reports whether a field value still counts as unfilled.
func isUnknownValue(v any, present bool) bool {
	if !present || v == nil {
		return true
	}
	switch value := v.(type) {
	case string:
		return value == ""
	case float64:
		return value == 0
	case bool:
		return !value
	case []any:
		return len(value) == 0
	case map[string]any:
		return len(value) == 0
	default:
		return false
	}
}

// applyValue commits one field value into the state through an RFC6902 add,
// which for object members inserts or replaces as needed.
func applyValue[T any](state T, pointer string, value any) (T, error) {
	var zero T
	currentJSON, err := sonic.Marshal(state)
	if err != nil {
		return zero, fmt.Errorf("marshal current values: %w", err)
	}
	patchJSON, err := sonic.Marshal([]patchOperation{{Op: "add", Path: pointer, Value: value}})
	if err != nil {
		return zero, fmt.Errorf("marshal patch: %w", err)
	}
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return zero, fmt.Errorf("decode patch: %w", err)
	}
	modifiedJSON, err := patch.Apply(currentJSON)
	if err != nil {
		return zero, fmt.Errorf("apply patch for %s: %w", pointer, err)
	}
	var result T
	if err := sonic.Unmarshal(modifiedJSON, &result); err != nil {
		return zero, fmt.Errorf("value at %s does not fit the form type: %w", pointer, err)
	}
	return result, nil
}

// formatValue renders a field value for status output.
func formatValue(v any, unspecified string) string {
	if isUnknownValue(v, true) {
		return unspecified
	}
	switch value := v.(type) {
	case float64:
		if value == float64(int64(value)) {
			return fmt.Sprintf("%d", int64(value))
		}
		return fmt.Sprintf("%g", value)
	default:
		return fmt.Sprint(v)
	}
}
