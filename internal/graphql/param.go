// Package graphql provides a typed GraphQL HTTP client for communicating
// with the Nebulon ON cloud API.
package graphql

import (
	"reflect"
	"strings"
	"time"
)

// RedactedValue is the fixed marker substituted for sensitive values in
// diagnostic renderings. The wire rendering always carries real values.
const RedactedValue = "********"

// UploadTypeName is the sentinel GraphQL type for file-bearing parameters.
// A Param declared with this type holds a local file path as its value and
// switches the transport to a multipart submission.
const UploadTypeName = "Upload"

// timeFormat is the wire format for timestamps: ISO-8601 UTC with second
// precision and a literal Z suffix.
const timeFormat = "2006-01-02T15:04:05Z"

// Param is a typed parameter for a GraphQL operation. TypeName is the
// GraphQL schema type of the value. Mandatory parameters declare their type
// with a trailing "!". Sensitive parameters are masked in diagnostic output
// but sent in cleartext on the wire.
type Param struct {
	Value     any
	TypeName  string
	Mandatory bool
	Sensitive bool
}

// NewParam constructs a Param for the given value and schema type.
func NewParam(value any, typeName string, mandatory bool) Param {
	return Param{Value: value, TypeName: typeName, Mandatory: mandatory}
}

// NewSecretParam constructs a Param whose value is masked in diagnostic
// renderings.
func NewSecretParam(value any, typeName string, mandatory bool) Param {
	return Param{Value: value, TypeName: typeName, Mandatory: mandatory, Sensitive: true}
}

// TypeSpec returns the formatted type declaration for the parameter,
// appending "!" when the parameter is mandatory.
func (p Param) TypeSpec() string {
	if p.Mandatory {
		return p.TypeName + "!"
	}
	return p.TypeName
}

// Encodable is implemented by schema input objects that can render
// themselves as a GraphQL variable map. The returned map may contain nested
// Encodables, Params, slices, and scalars; nil values are omitted during
// encoding.
type Encodable interface {
	GraphQLMap() map[string]any
}

// explicitNull renders as a JSON null instead of being omitted. It marks
// variable slots whose file content was extracted for multipart upload.
type explicitNull struct{}

// Params is an insertion-ordered collection of named operation parameters.
// Ordering matters: the formatter's output depends on it, and identical
// input must always produce byte-identical operation strings.
type Params struct {
	names  []string
	values map[string]any
}

// NewParams returns an empty parameter collection.
func NewParams() *Params {
	return &Params{values: make(map[string]any)}
}

// Set adds or replaces the named parameter. A replaced parameter keeps its
// original position.
func (p *Params) Set(name string, value any) *Params {
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = value
	return p
}

// Len returns the number of parameters. A nil collection is empty.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Names returns the parameter names in insertion order.
func (p *Params) Names() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.names...)
}

// Get returns the named parameter value, or nil if absent.
func (p *Params) Get(name string) any {
	if p == nil {
		return nil
	}
	return p.values[name]
}

// EncodeVariables renders params into a wire-ready variables map containing
// only transport-primitive values. Nil parameters are omitted. Returns nil
// for an empty collection.
func EncodeVariables(params *Params) map[string]any {
	return encodeParams(params, false)
}

// RedactVariables renders params like EncodeVariables but substitutes
// RedactedValue for every sensitive scalar. Used only for diagnostics.
func RedactVariables(params *Params) map[string]any {
	return encodeParams(params, true)
}

func encodeParams(params *Params, redact bool) map[string]any {
	if params.Len() == 0 {
		return nil
	}
	result := make(map[string]any, params.Len())
	for _, name := range params.names {
		sensitive := keyIsSensitive(name)
		if v, ok := encodeValue(params.values[name], sensitive, redact); ok {
			result[name] = v
		}
	}
	return result
}

// keyIsSensitive reports whether values under the given key are masked in
// diagnostic output. The check is a case-sensitive substring match.
func keyIsSensitive(key string) bool {
	return strings.Contains(key, "password")
}

// isTypedNil reports whether v holds a nil pointer, map, or slice behind a
// non-nil interface.
func isTypedNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// encodeValue converts an arbitrary nested value into transport-primitive
// form. The second return value is false when the value should be omitted
// from its enclosing map. Encoding never fails: unsupported shapes pass
// through untouched for the JSON encoder to handle.
func encodeValue(v any, sensitive, redact bool) (any, bool) {
	if v == nil {
		return nil, false
	}

	switch val := v.(type) {
	case explicitNull:
		return nil, true

	case Param:
		return encodeValue(val.Value, sensitive || val.Sensitive, redact)

	case Encodable:
		// A typed nil wearing the interface is an absent value, not a
		// dispatch target.
		if isTypedNil(val) {
			return nil, false
		}
		return encodeValue(val.GraphQLMap(), sensitive, redact)

	case time.Time:
		if val.IsZero() {
			return nil, false
		}
		return val.UTC().Format(timeFormat), true

	case *time.Time:
		if val == nil {
			return nil, false
		}
		return encodeValue(*val, sensitive, redact)

	case map[string]any:
		result := make(map[string]any, len(val))
		for key, child := range val {
			childSensitive := sensitive || keyIsSensitive(key)
			if enc, ok := encodeValue(child, childSensitive, redact); ok {
				result[key] = enc
			}
		}
		return result, true

	case []any:
		result := make([]any, len(val))
		for i, child := range val {
			enc, _ := encodeValue(child, sensitive, redact)
			result[i] = enc
		}
		return result, true

	default:
		if redact && sensitive {
			return RedactedValue, true
		}
		return val, true
	}
}
