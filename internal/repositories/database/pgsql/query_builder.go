package pgsql

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	"github.com/SscSPs/salesops_app/internal/utils/mapping"
)

var sqlOperators = map[portsrepo.Operator]string{
	portsrepo.OpEqual:          "=",
	portsrepo.OpNotEqual:       "<>",
	portsrepo.OpLess:           "<",
	portsrepo.OpLessOrEqual:    "<=",
	portsrepo.OpGreater:        ">",
	portsrepo.OpGreaterOrEqual: ">=",
}

// queryBuilder turns a portsrepo.Query into SQL over the documents table.
// Field names are always bound as parameters.
type queryBuilder struct {
	args []any
}

func (b *queryBuilder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func buildSelect(q portsrepo.Query) (string, []any, error) {
	b := &queryBuilder{}
	var sb strings.Builder
	sb.WriteString("SELECT data FROM documents WHERE collection = ")
	sb.WriteString(b.bind(q.Collection))

	for _, f := range q.Filters {
		clause, err := b.filter(f)
		if err != nil {
			return "", nil, err
		}
		sb.WriteString(" AND ")
		sb.WriteString(clause)
	}

	sb.WriteString(" ORDER BY ")
	for _, o := range q.OrderBy {
		sb.WriteString(b.order(o))
		sb.WriteString(", ")
	}
	sb.WriteString("id ASC")

	if q.Limit > 0 {
		sb.WriteString(" LIMIT ")
		sb.WriteString(b.bind(q.Limit))
	}
	return sb.String(), b.args, nil
}

func (b *queryBuilder) field(name string) string {
	return b.bind(name) + "::text"
}

func (b *queryBuilder) filter(f portsrepo.Filter) (string, error) {
	if t, ok := f.Value.(*time.Time); ok {
		f.Value = nil
		if t != nil {
			f.Value = *t
		}
	}
	key := b.field(f.Field)
	if f.Op == portsrepo.OpIn {
		values, err := textValues(f.Value)
		if err != nil {
			return "", fmt.Errorf("%w: filter %s: %w", apperrors.ErrValidation, f.Field, err)
		}
		return fmt.Sprintf("(data->>%s) = ANY(%s::text[])", key, b.bind(values)), nil
	}

	op, ok := sqlOperators[f.Op]
	if !ok {
		return "", fmt.Errorf("%w: unsupported operator %q", apperrors.ErrValidation, f.Op)
	}

	if f.Value == nil {
		if f.Op != portsrepo.OpEqual {
			return "", fmt.Errorf("%w: filter %s: nil only supports ==", apperrors.ErrValidation, f.Field)
		}
		return fmt.Sprintf("(data->%[1]s IS NULL OR jsonb_typeof(data->%[1]s) = 'null')", key), nil
	}

	switch v := f.Value.(type) {
	case bool:
		if f.Op != portsrepo.OpEqual && f.Op != portsrepo.OpNotEqual {
			return "", fmt.Errorf("%w: filter %s: booleans only support == and !=", apperrors.ErrValidation, f.Field)
		}
		return fmt.Sprintf("(data->%s) %s %s::jsonb", key, op, b.bind(strconv.FormatBool(v))), nil
	case time.Time:
		return fmt.Sprintf(`(data->>%s) COLLATE "C" %s %s`, key, op, b.bind(v.UTC().Format(mapping.TimeLayout))), nil
	}

	if n, ok := number(f.Value); ok {
		return fmt.Sprintf("(CASE WHEN jsonb_typeof(data->%[1]s) = 'number' THEN (data->>%[1]s)::numeric END) %[2]s %[3]s::numeric",
			key, op, b.bind(n)), nil
	}
	if s, ok := text(f.Value); ok {
		return fmt.Sprintf(`(data->>%s) COLLATE "C" %s %s`, key, op, b.bind(s)), nil
	}
	return "", fmt.Errorf("%w: filter %s: unsupported value type %T", apperrors.ErrValidation, f.Field, f.Value)
}

// order sorts numbers numerically and everything else bytewise. Missing
// values sort first when ascending.
func (b *queryBuilder) order(o portsrepo.Order) string {
	key := b.field(o.Field)
	dir := "ASC NULLS FIRST"
	if o.Direction == portsrepo.Descending {
		dir = "DESC NULLS LAST"
	}
	return fmt.Sprintf(`(CASE WHEN jsonb_typeof(data->%[1]s) = 'number' THEN (data->>%[1]s)::numeric END) %[2]s, (data->>%[1]s) COLLATE "C" %[2]s`,
		key, dir)
}

func number(v any) (any, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return nil, false
}

// text accepts plain strings and named string types such as status enums.
func text(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func textValues(v any) ([]string, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("in expects a slice, got %T", v)
	}
	out := make([]string, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item := rv.Index(i).Interface()
		if s, ok := text(item); ok {
			out = append(out, s)
			continue
		}
		if n, ok := number(item); ok {
			out = append(out, fmt.Sprint(n))
			continue
		}
		return nil, fmt.Errorf("unsupported in value %T", item)
	}
	return out, nil
}
