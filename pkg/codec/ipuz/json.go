package ipuz

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// object is a decoded JSON object. Numbers are kept as json.Number so
// clue numbers and cell tokens read back with their source spelling.
type object map[string]any

func asObject(v any) (object, bool) {
	m, ok := v.(map[string]any)
	return object(m), ok
}

// text renders a scalar as a string. Null, objects and arrays give false.
func text(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

// toInt converts a number or a numeric string, truncating fractions.
func toInt(v any) (int, bool) {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return int(i), true
		}
		if f, err := v.Float64(); err == nil {
			return int(f), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i, true
		}
	}
	return 0, false
}

func (o object) has(key string) bool {
	v, ok := o[key]
	return ok && v != nil
}

// str returns the field as text, "" when absent or not a scalar.
func (o object) str(key string) string {
	s, _ := text(o[key])
	return s
}

func (o object) obj(key string) (object, bool) { return asObject(o[key]) }

func (o object) arr(key string) ([]any, bool) {
	a, ok := o[key].([]any)
	return a, ok
}

func (o object) integer(key string) (int, bool) { return toInt(o[key]) }

func (o object) boolean(key string, def bool) bool {
	switch v := o[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// ext looks a field up under the extension namespace, then the legacy one.
func (o object) ext(field string) (any, bool) {
	for _, ns := range []string{Namespace, LegacyNamespace} {
		if v, ok := o[ns+":"+field]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func (o object) extObj(field string) (object, bool) {
	v, _ := o.ext(field)
	return asObject(v)
}

func (o object) extStr(field string) string {
	v, _ := o.ext(field)
	s, _ := text(v)
	return s
}

func sortedKeys(o object) []string {
	return slices.Sorted(maps.Keys(o))
}
