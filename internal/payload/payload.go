// Package payload provides tolerant accessors over loosely typed JSON
// returned by the upstream booking platform. The same logical field shows up
// under different names and casings depending on the endpoint (bookingId,
// bookingID, BookingID) and responses are sometimes nested inside data/result
// wrappers. Raw payloads are inspected here, at the system boundary, and
// materialized into strict domain types; nothing deeper in the call stack
// looks at payload shapes again.
package payload

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Object is a decoded JSON object.
type Object map[string]any

// List is a decoded JSON array of objects.
type List []Object

// maxUnwrapDepth bounds recursion into data/result wrappers so malformed or
// hostile payloads cannot drive unbounded descent.
const maxUnwrapDepth = 4

// wrapperKeys are the envelope keys the upstream nests payloads under.
var wrapperKeys = []string{"data", "result"}

// Decode parses raw JSON into an Object. A non-object document yields an
// empty Object rather than an error; absence is handled downstream by the
// pick helpers.
func Decode(raw []byte) Object {
	var obj Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Object{}
	}
	if obj == nil {
		return Object{}
	}
	return obj
}

// Pick returns the first present, non-nil value among the candidate keys, in
// priority order.
func Pick(obj Object, keys ...string) (any, bool) {
	if obj == nil {
		return nil, false
	}
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String returns the first candidate value coerced to a string, or "".
// Numeric values are formatted, not rejected: ids arrive as both.
func String(obj Object, keys ...string) string {
	v, ok := Pick(obj, keys...)
	if !ok {
		return ""
	}
	return coerceString(v)
}

// Int64 returns the first candidate value coerced to an int64, or 0.
func Int64(obj Object, keys ...string) int64 {
	v, ok := Pick(obj, keys...)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0
		}
		return i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0
		}
		return i
	}
	return 0
}

// Float64 returns the first candidate value coerced to a float64, or 0.
func Float64(obj Object, keys ...string) float64 {
	v, ok := Pick(obj, keys...)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// Bool returns the first candidate value coerced to a bool. Strings "true"/
// "1"/"yes" and non-zero numbers count as true.
func Bool(obj Object, keys ...string) bool {
	v, ok := Pick(obj, keys...)
	if !ok {
		return false
	}
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(b))
		return s == "true" || s == "1" || s == "yes"
	}
	return false
}

// timeLayouts are the timestamp formats the upstream has been observed to emit.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Time returns the first candidate value parsed as a timestamp. Numeric
// values are treated as unix seconds (milliseconds when large enough).
// The zero time signals absence.
func Time(obj Object, keys ...string) time.Time {
	v, ok := Pick(obj, keys...)
	if !ok {
		return time.Time{}
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed
			}
		}
	case float64:
		if t > 1e12 {
			return time.UnixMilli(int64(t)).UTC()
		}
		if t > 0 {
			return time.Unix(int64(t), 0).UTC()
		}
	}
	return time.Time{}
}

// Child returns the first candidate value that is itself an object.
func Child(obj Object, keys ...string) (Object, bool) {
	if obj == nil {
		return nil, false
	}
	for _, k := range keys {
		if child, ok := asObject(obj[k]); ok {
			return child, true
		}
	}
	return nil, false
}

// PickList searches the candidate keys for an array of objects. When the top
// level yields nothing it descends into data/result wrappers, at most
// maxUnwrapDepth levels deep.
func PickList(obj Object, keys ...string) List {
	return pickList(obj, keys, 0)
}

func pickList(obj Object, keys []string, depth int) List {
	if obj == nil || depth > maxUnwrapDepth {
		return nil
	}
	for _, k := range keys {
		if list, ok := asList(obj[k]); ok {
			return list
		}
	}
	for _, wk := range wrapperKeys {
		if child, ok := asObject(obj[wk]); ok {
			if list := pickList(child, keys, depth+1); list != nil {
				return list
			}
		}
	}
	return nil
}

// Unwrap peels single-object data/result wrappers off the payload, bounded
// at maxUnwrapDepth levels. Envelopes like {"data":{"result":{...}}} resolve
// to the innermost object.
func Unwrap(obj Object) Object {
	for depth := 0; depth < maxUnwrapDepth; depth++ {
		child, ok := Child(obj, wrapperKeys...)
		if !ok {
			return obj
		}
		obj = child
	}
	return obj
}

func asObject(v any) (Object, bool) {
	switch o := v.(type) {
	case map[string]any:
		return Object(o), true
	case Object:
		return o, true
	}
	return nil, false
}

func asList(v any) (List, bool) {
	raw, ok := v.([]any)
	if !ok {
		return nil, false
	}
	list := make(List, 0, len(raw))
	for _, item := range raw {
		if o, ok := asObject(item); ok {
			list = append(list, o)
		}
	}
	if len(list) == 0 && len(raw) > 0 {
		// Array present but not of objects; treat as absent.
		return nil, false
	}
	return list, true
}

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case json.Number:
		return s.String()
	}
	return ""
}
