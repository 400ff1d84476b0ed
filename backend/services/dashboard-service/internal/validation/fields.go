// Package validation turns untyped request payloads into typed records or per-field errors.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"citydash/backend/services/dashboard-service/internal/apperr"
)

const (
	msgRequired    = "This field is required."
	msgNull        = "This field may not be null."
	msgBlank       = "This field may not be blank."
	msgNumber      = "A valid number is required."
	msgInteger     = "A valid integer is required."
	msgBoolean     = "Must be a valid boolean."
	msgString      = "Not a valid string."
	msgNonFieldKey = "non_field_errors"
)

// DecodeObject decodes raw as a JSON object, keeping numbers as json.Number.
func DecodeObject(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, apperr.Validation("Invalid JSON body", apperr.FieldErrors{
			msgNonFieldKey: {fmt.Sprintf("JSON parse error - %v", err)},
		})
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, apperr.Validation("Invalid data format", apperr.FieldErrors{
			msgNonFieldKey: {fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", typeName(value))},
		})
	}
	return obj, nil
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case json.Number, float64, int, int64:
		return "number"
	case string:
		return "str"
	case []any:
		return "list"
	case map[string]any:
		return "dict"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// object extracts a required nested object; ok is false when an error was recorded.
func object(src map[string]any, key string, errs apperr.FieldErrors) (map[string]any, bool) {
	raw, present := src[key]
	if !present {
		errs.Add(key, msgRequired)
		return nil, false
	}
	if raw == nil {
		errs.Add(key, msgNull)
		return nil, false
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		errs.Add(key, fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", typeName(raw)))
		return nil, false
	}
	return obj, true
}

func floatField(src map[string]any, key string, errs apperr.FieldErrors) float64 {
	raw, present := src[key]
	if !present {
		errs.Add(key, msgRequired)
		return 0
	}
	v, ok := toFloat(raw)
	if !ok {
		if raw == nil {
			errs.Add(key, msgNull)
		} else {
			errs.Add(key, msgNumber)
		}
		return 0
	}
	return v
}

func intField(src map[string]any, key string, errs apperr.FieldErrors) int {
	raw, present := src[key]
	if !present {
		errs.Add(key, msgRequired)
		return 0
	}
	v, ok := toInt(raw)
	if !ok {
		if raw == nil {
			errs.Add(key, msgNull)
		} else {
			errs.Add(key, msgInteger)
		}
		return 0
	}
	return v
}

func optionalBoolField(src map[string]any, key string, def bool, errs apperr.FieldErrors) bool {
	raw, present := src[key]
	if !present {
		return def
	}
	v, ok := toBool(raw)
	if !ok {
		if raw == nil {
			errs.Add(key, msgNull)
		} else {
			errs.Add(key, msgBoolean)
		}
		return def
	}
	return v
}

func stringListField(src map[string]any, key string, errs apperr.FieldErrors) []string {
	raw, present := src[key]
	if !present {
		errs.Add(key, msgRequired)
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		if raw == nil {
			errs.Add(key, msgNull)
		} else {
			errs.Add(key, fmt.Sprintf("Expected a list of items but got type %q.", typeName(raw)))
		}
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		path := fmt.Sprintf("%s.%d", key, i)
		switch {
		case !ok:
			errs.Add(path, msgString)
		case strings.TrimSpace(s) == "":
			errs.Add(path, msgBlank)
		default:
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func toFloat(raw any) (float64, bool) {
	var (
		v   float64
		err error
	)
	switch t := raw.(type) {
	case json.Number:
		v, err = t.Float64()
	case float64:
		v = t
	case string:
		v, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// toInt accepts integral values that fit an INTEGER column.
func toInt(raw any) (int, bool) {
	var text string
	switch t := raw.(type) {
	case json.Number:
		text = t.String()
	case float64:
		text = strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		text = strings.TrimSpace(t)
	default:
		return 0, false
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func toBool(raw any) (bool, bool) {
	switch t := raw.(type) {
	case bool:
		return t, true
	case json.Number:
		switch t.String() {
		case "1":
			return true, true
		case "0":
			return false, true
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "t", "yes", "y", "on", "1":
			return true, true
		case "false", "f", "no", "n", "off", "0":
			return false, true
		}
	}
	return false, false
}
