package mongodb

import (
	"fmt"
	"reflect"
	"time"

	"github.com/SscSPs/salesops_app/internal/apperrors"
	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	"go.mongodb.org/mongo-driver/bson"
)

var mongoOperators = map[portsrepo.Operator]string{
	portsrepo.OpEqual:          "$eq",
	portsrepo.OpLess:           "$lt",
	portsrepo.OpLessOrEqual:    "$lte",
	portsrepo.OpGreater:        "$gt",
	portsrepo.OpGreaterOrEqual: "$gte",
	portsrepo.OpIn:             "$in",
}

func fieldName(name string) string {
	if name == "id" {
		return "_id"
	}
	return name
}

// buildFilter ANDs the filters together. Mongo's $ne also matches missing
// fields, so != excludes null and missing explicitly.
func buildFilter(filters []portsrepo.Filter) (bson.M, error) {
	if len(filters) == 0 {
		return bson.M{}, nil
	}
	clauses := make(bson.A, 0, len(filters))
	for _, f := range filters {
		value := filterValue(f.Value)
		field := fieldName(f.Field)

		if f.Op == portsrepo.OpNotEqual {
			if value == nil {
				return nil, fmt.Errorf("%w: filter %s: nil only supports ==", apperrors.ErrValidation, f.Field)
			}
			clauses = append(clauses, bson.M{field: bson.M{"$nin": bson.A{value, nil}}})
			continue
		}

		op, ok := mongoOperators[f.Op]
		if !ok {
			return nil, fmt.Errorf("%w: unsupported operator %q", apperrors.ErrValidation, f.Op)
		}
		if value == nil && f.Op != portsrepo.OpEqual {
			return nil, fmt.Errorf("%w: filter %s: nil only supports ==", apperrors.ErrValidation, f.Field)
		}
		if f.Op == portsrepo.OpIn {
			rv := reflect.ValueOf(value)
			if rv.Kind() != reflect.Slice {
				return nil, fmt.Errorf("%w: filter %s: in expects a slice, got %T", apperrors.ErrValidation, f.Field, f.Value)
			}
		}
		clauses = append(clauses, bson.M{field: bson.M{op: value}})
	}
	if len(clauses) == 1 {
		return clauses[0].(bson.M), nil
	}
	return bson.M{"$and": clauses}, nil
}

func filterValue(v any) any {
	switch val := v.(type) {
	case time.Time:
		return val.UTC()
	case *time.Time:
		if val == nil {
			return nil
		}
		return val.UTC()
	case *string:
		if val == nil {
			return nil
		}
		return *val
	}
	return v
}

// buildSort always ends with _id so equal keys come back in a stable order.
func buildSort(orders []portsrepo.Order) bson.D {
	sort := make(bson.D, 0, len(orders)+1)
	hasID := false
	for _, o := range orders {
		dir := 1
		if o.Direction == portsrepo.Descending {
			dir = -1
		}
		field := fieldName(o.Field)
		hasID = hasID || field == "_id"
		sort = append(sort, bson.E{Key: field, Value: dir})
	}
	if !hasID {
		sort = append(sort, bson.E{Key: "_id", Value: 1})
	}
	return sort
}
