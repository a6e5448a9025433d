package graphql

import (
	"errors"
	"fmt"
	"strings"
)

// OperationKind distinguishes GraphQL queries from mutations.
type OperationKind string

const (
	// KindQuery is a read-only GraphQL operation.
	KindQuery OperationKind = "query"
	// KindMutation is a state-changing GraphQL operation.
	KindMutation OperationKind = "mutation"
)

// ErrUntypedParam indicates that a raw value was supplied where a typed
// Param was required. This is a caller error and fails before any network
// activity.
var ErrUntypedParam = errors.New("graphql: parameter value is not a Param")

// FormatOperation assembles a syntactically valid GraphQL operation string
// from the operation kind, operation name, optional parameters, and an
// optional field selection. Every parameter value must be a Param; anything
// else returns an error wrapping ErrUntypedParam.
//
// The output is deterministic: parameters render in insertion order and
// identical input always yields byte-identical strings.
func FormatOperation(kind OperationKind, name string, params *Params, fields []string) (string, error) {
	var specs []string
	var mappings []string

	for _, key := range params.Names() {
		p, ok := params.Get(key).(Param)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUntypedParam, key)
		}
		specs = append(specs, fmt.Sprintf("$%s:%s", key, p.TypeSpec()))
		mappings = append(mappings, fmt.Sprintf("%s: $%s", key, key))
	}

	queryFields := strings.Join(fields, ",")

	switch {
	case len(specs) == 0 && len(queryFields) == 0:
		return fmt.Sprintf("%s{%s}", kind, name), nil

	case len(specs) == 0:
		return fmt.Sprintf("%s{%s{%s}}", kind, name, queryFields), nil

	case len(queryFields) == 0:
		return fmt.Sprintf("%s(%s){%s(%s)}",
			kind,
			strings.Join(specs, ","),
			name,
			strings.Join(mappings, ", "),
		), nil

	default:
		return fmt.Sprintf("%s(%s){%s(%s){%s}}",
			kind,
			strings.Join(specs, ","),
			name,
			strings.Join(mappings, ", "),
			queryFields,
		), nil
	}
}
