package config

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed schema.json
var schemaJSON []byte

// Schema returns the schema every configuration document must satisfy.
//
//nolint:gochecknoglobals
var Schema = sync.OnceValue(
	func() *openapi3.Schema {
		s := openapi3.NewSchema()
		if err := json.Unmarshal(schemaJSON, s); err != nil {
			panic("internal error: invalid configuration schema: " + err.Error())
		}

		return s
	},
)

// Default returns the configuration document described by the schema.
//
// Every object property is present. A property takes its schema default if one
// is declared, otherwise the zero value of its type.
func Default() map[string]any {
	doc, _ := normalize(defaults(Schema())).(map[string]any)

	return doc
}

func defaults(s *openapi3.Schema) any {
	if s.Default != nil {
		return s.Default
	}

	switch {
	case s.Type.Is(openapi3.TypeObject):
		obj := make(map[string]any, len(s.Properties))

		for name, ref := range s.Properties {
			if ref != nil && ref.Value != nil {
				obj[name] = defaults(ref.Value)
			}
		}

		return obj

	case s.Type.Is(openapi3.TypeArray):
		return []any{}

	case s.Type.Is(openapi3.TypeString):
		return ""

	case s.Type.Is(openapi3.TypeNumber), s.Type.Is(openapi3.TypeInteger):
		return float64(0)

	case s.Type.Is(openapi3.TypeBoolean):
		return false
	}

	return nil
}

// Validate checks doc against the schema. All violations are reported.
func Validate(doc map[string]any) error {
	err := Schema().VisitJSON(normalize(doc), openapi3.MultiErrors())
	if err != nil {
		return ErrInvalid.Wrap(err)
	}

	return nil
}

// merge returns dst with every key of src applied on top of it. Objects
// present in both are merged recursively; any other value in src replaces
// the one in dst.
func merge(dst, src map[string]any) map[string]any {
	for key, sv := range src {
		sm, srcObj := sv.(map[string]any)
		dm, dstObj := dst[key].(map[string]any)

		if srcObj && dstObj {
			dst[key] = merge(dm, sm)

			continue
		}

		dst[key] = sv
	}

	return dst
}

// normalize converts v to the plain JSON data model: objects become
// map[string]any, arrays []any, and every number float64.
func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}

	return out
}
