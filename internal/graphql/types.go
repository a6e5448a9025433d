package graphql

import (
	"context"
	"encoding/json"
)

// Client defines the interface for executing typed GraphQL operations
// against the Nebulon ON API. Implementations return the raw JSON payload
// keyed by the operation name under the response's data field, or nil when
// the server reported success without a payload.
type Client interface {
	Query(ctx context.Context, name string, params *Params, fields []string) (json.RawMessage, error)
	Mutate(ctx context.Context, name string, params *Params, fields []string) (json.RawMessage, error)
}
