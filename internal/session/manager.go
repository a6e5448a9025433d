package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/storageops/nebulon-mcp/internal/graphql"
)

// Compile-time interface check.
var _ SessionManager = (*GraphQLSessionManager)(nil)

// GraphQLSessionManager implements SessionManager using a GraphQL client.
type GraphQLSessionManager struct {
	client graphql.Client
}

// NewGraphQLSessionManager returns a new GraphQLSessionManager backed by
// the provided GraphQL client.
func NewGraphQLSessionManager(client graphql.Client) *GraphQLSessionManager {
	if client == nil {
		panic("graphql client must not be nil")
	}
	return &GraphQLSessionManager{client: client}
}

// Login authenticates against Nebulon ON. On success the session cookie is
// retained by the client for all subsequent operations. The password is a
// sensitive parameter: it travels in cleartext on the wire but is masked
// in diagnostic output.
func (m *GraphQLSessionManager) Login(ctx context.Context, username, password string) (*LoginResults, error) {
	params := graphql.NewParams()
	params.Set("username", graphql.NewParam(username, "String", true))
	params.Set("password", graphql.NewSecretParam(password, "String", true))

	raw, err := m.client.Mutate(ctx, "login", params, LoginFields())
	if err != nil {
		return nil, fmt.Errorf("session login: %w", err)
	}

	var results LoginResults
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("session login: parse response: %w", err)
	}
	return &results, nil
}

// State queries the current login state.
func (m *GraphQLSessionManager) State(ctx context.Context) (*State, error) {
	raw, err := m.client.Query(ctx, "loginStatus", nil, StateFields())
	if err != nil {
		return nil, fmt.Errorf("session state: %w", err)
	}

	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("session state: parse response: %w", err)
	}
	return &state, nil
}

// Logout ends the current session.
func (m *GraphQLSessionManager) Logout(ctx context.Context) (bool, error) {
	raw, err := m.client.Mutate(ctx, "logout", nil, nil)
	if err != nil {
		return false, fmt.Errorf("session logout: %w", err)
	}
	if len(raw) == 0 {
		return false, nil
	}
	var ok bool
	if err := json.Unmarshal(raw, &ok); err != nil {
		return false, fmt.Errorf("session logout: parse response: %w", err)
	}
	return ok, nil
}
