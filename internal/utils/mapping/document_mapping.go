package mapping

import (
	"fmt"
	"reflect"
	"time"

	portsrepo "github.com/SscSPs/salesops_app/internal/core/ports/repositories"
	"github.com/go-viper/mapstructure/v2"
)

// TimeLayout is a fixed-width UTC layout, so stores that keep timestamps as
// text still order them correctly.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

var timeType = reflect.TypeOf(time.Time{})

// FromDocument decodes a stored document into a domain struct using its json tags.
func FromDocument[T any](doc portsrepo.Document) (T, error) {
	var out T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: true,
		DecodeHook:       stringToTimeHook,
		Result:           &out,
	})
	if err != nil {
		return out, fmt.Errorf("failed to build document decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(doc)); err != nil {
		return out, fmt.Errorf("failed to decode document %v: %w", doc["id"], err)
	}
	return out, nil
}

// FromDocuments decodes a slice of documents.
func FromDocuments[T any](docs []portsrepo.Document) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := FromDocument[T](doc)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func stringToTimeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != timeType || from.Kind() != reflect.String {
		return data, nil
	}
	s := reflect.ValueOf(data).String()
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{TimeLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return nil, fmt.Errorf("unparseable timestamp %q", s)
}

// OptionalString stores a nil pointer as null.
func OptionalString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// OptionalTime stores a nil pointer as null.
func OptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

// StringSlice copies a slice so documents never alias caller memory.
func StringSlice(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
