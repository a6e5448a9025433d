package keyvalue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/storageops/nebulon-mcp/internal/graphql"
)

// Compile-time interface check.
var _ KeyValueManager = (*GraphQLKeyValueManager)(nil)

// GraphQLKeyValueManager implements KeyValueManager using a GraphQL client.
type GraphQLKeyValueManager struct {
	client graphql.Client
}

// NewGraphQLKeyValueManager returns a new GraphQLKeyValueManager backed by
// the provided GraphQL client.
func NewGraphQLKeyValueManager(client graphql.Client) *GraphQLKeyValueManager {
	if client == nil {
		panic("graphql client must not be nil")
	}
	return &GraphQLKeyValueManager{client: client}
}

// List retrieves the key-value entries matching the given filter.
func (m *GraphQLKeyValueManager) List(ctx context.Context, filter Filter) (*List, error) {
	params := graphql.NewParams()
	params.Set("filter", graphql.NewParam(filter, "KeyValueFilter", true))

	raw, err := m.client.Query(ctx, "getKeyValues", params, ListFields())
	if err != nil {
		return nil, fmt.Errorf("keyvalue list: %w", err)
	}

	var list List
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("keyvalue list: parse response: %w", err)
	}
	return &list, nil
}

// Set creates or updates one key-value entry. The mutation reports only
// success, as a boolean payload.
func (m *GraphQLKeyValueManager) Set(ctx context.Context, input UpsertInput) (bool, error) {
	params := graphql.NewParams()
	params.Set("input", graphql.NewParam(input, "UpsertKeyValueInput", true))

	raw, err := m.client.Mutate(ctx, "upsertKeyValue", params, nil)
	if err != nil {
		return false, fmt.Errorf("keyvalue set: %w", err)
	}
	return parseBool(raw, "keyvalue set")
}

// Delete removes one key-value entry. The mutation reports only success,
// as a boolean payload.
func (m *GraphQLKeyValueManager) Delete(ctx context.Context, input DeleteInput) (bool, error) {
	params := graphql.NewParams()
	params.Set("input", graphql.NewParam(input, "DeleteKeyValueInput", true))

	raw, err := m.client.Mutate(ctx, "deleteKeyValue", params, nil)
	if err != nil {
		return false, fmt.Errorf("keyvalue delete: %w", err)
	}
	return parseBool(raw, "keyvalue delete")
}

// parseBool decodes a boolean mutation payload. A nil payload means the
// server reported success without a result value.
func parseBool(raw json.RawMessage, op string) (bool, error) {
	if len(raw) == 0 {
		return false, nil
	}
	var ok bool
	if err := json.Unmarshal(raw, &ok); err != nil {
		return false, fmt.Errorf("%s: parse response: %w", op, err)
	}
	return ok, nil
}
