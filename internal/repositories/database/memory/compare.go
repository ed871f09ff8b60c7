package memory

import (
	"reflect"
	"strings"
	"time"

	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
)

func matchesAll(doc portsrepo.Document, filters []portsrepo.Filter) bool {
	for _, f := range filters {
		if !matches(doc, f) {
			return false
		}
	}
	return true
}

func matches(doc portsrepo.Document, f portsrepo.Filter) bool {
	value, present := doc[f.Field]
	if value == nil {
		present = false
	}
	if f.Op == portsrepo.OpEqual && f.Value == nil {
		return !present
	}
	if !present {
		return false
	}

	switch f.Op {
	case portsrepo.OpIn:
		for _, candidate := range toSlice(f.Value) {
			if c, ok := compare(value, candidate); ok && c == 0 {
				return true
			}
		}
		return false
	case portsrepo.OpNotEqual:
		c, ok := compare(value, f.Value)
		return !ok || c != 0
	}

	c, ok := compare(value, f.Value)
	if !ok {
		return false
	}
	switch f.Op {
	case portsrepo.OpEqual:
		return c == 0
	case portsrepo.OpLess:
		return c < 0
	case portsrepo.OpLessOrEqual:
		return c <= 0
	case portsrepo.OpGreater:
		return c > 0
	case portsrepo.OpGreaterOrEqual:
		return c >= 0
	}
	return false
}

// compare orders two scalar values of compatible kinds. ok is false when the
// kinds cannot be compared.
func compare(a, b any) (int, bool) {
	if at, ok := asTime(a); ok {
		bt, ok := asTime(b)
		if !ok {
			return 0, false
		}
		return at.Compare(bt), true
	}
	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		if !ok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case ab == bb:
			return 0, true
		case !ab:
			return -1, true
		}
		return 1, true
	}
	if as, ok := asString(a); ok {
		bs, ok := asString(b)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	return 0, false
}

// compareForSort puts missing values first, like an ascending null sort.
func compareForSort(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	c, _ := compare(a, b)
	return c
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// asString accepts plain strings and named string types such as status enums.
func asString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func toSlice(v any) []any {
	if vals, ok := v.([]any); ok {
		return vals
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}
