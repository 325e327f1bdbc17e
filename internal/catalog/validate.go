package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const calculationMethodField = "calculation_method"

// Validate checks input against the variant schema. It returns the value
// to store for every column of the variant (nil when absent) and one
// message per problem found. Keys outside the schema are rejected.
func (v Variant) Validate(input map[string]interface{}) (map[string]interface{}, []string) {
	values := make(map[string]interface{}, len(v.Fields))
	for _, f := range v.Fields {
		values[f.Name] = nil
	}

	var problems []string
	invalid := make(map[string]bool)

	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		field, ok := v.Field(key)
		if !ok {
			problems = append(problems, fmt.Sprintf("Unknown field: %s", key))
			continue
		}
		value, msg := normalize(field, input[key])
		if msg != "" {
			problems = append(problems, msg)
			invalid[key] = true
			continue
		}
		values[key] = value
	}

	for _, f := range v.Fields {
		if f.Required && values[f.Name] == nil && !invalid[f.Name] {
			problems = append(problems, fmt.Sprintf("Required field missing: %s", f.Name))
		}
	}

	if method, ok := values[calculationMethodField].(string); ok {
		for _, name := range v.Conditional[method] {
			if values[name] == nil && !invalid[name] {
				problems = append(problems, fmt.Sprintf("Required for %s: %s", method, name))
			}
		}
	}

	return values, problems
}

// normalize converts one raw value to its stored form. A nil or blank
// value is absent and returns nil with no message.
func normalize(f Field, raw interface{}) (interface{}, string) {
	if raw == nil {
		return nil, ""
	}

	switch f.Kind {
	case KindNumber:
		n, present, err := toNumber(raw)
		if !present {
			return nil, ""
		}
		if err != nil {
			return nil, fmt.Sprintf("%s must be a valid number", f.Name)
		}
		if n < 0 {
			return nil, fmt.Sprintf("%s must be non-negative", f.Name)
		}
		return n, ""

	case KindEnum:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Sprintf("%s must be a string", f.Name)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, ""
		}
		if f.Name == calculationMethodField {
			s = strings.ToUpper(s)
		}
		options := dropdowns[f.Dropdown]
		for _, opt := range options {
			if opt == s {
				return s, ""
			}
		}
		return nil, fmt.Sprintf("Invalid %s. Expected one of: %s", f.Name, strings.Join(options, ", "))

	default:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Sprintf("%s must be a string", f.Name)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, ""
		}
		return s, ""
	}
}

func toNumber(raw interface{}) (n float64, present bool, err error) {
	switch v := raw.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		n, err = v.Float64()
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false, nil
		}
		n, err = strconv.ParseFloat(s, 64)
	default:
		return 0, true, fmt.Errorf("unsupported number type %T", raw)
	}
	if err != nil {
		return 0, true, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, true, fmt.Errorf("not a finite number")
	}
	return n, true, nil
}
