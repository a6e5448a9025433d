package vsphere

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/storageops/nebulon-mcp/internal/graphql"
	"github.com/storageops/nebulon-mcp/internal/schema"
	"github.com/storageops/nebulon-mcp/internal/token"
)

// Compile-time interface check.
var _ VsphereManager = (*GraphQLVsphereManager)(nil)

// GraphQLVsphereManager implements VsphereManager using a GraphQL client
// and a token executor for the mutations that touch on-premises hardware.
type GraphQLVsphereManager struct {
	client   graphql.Client
	executor token.Executor
}

// NewGraphQLVsphereManager returns a new GraphQLVsphereManager backed by
// the provided GraphQL client and token executor.
func NewGraphQLVsphereManager(client graphql.Client, executor token.Executor) *GraphQLVsphereManager {
	if client == nil {
		panic("graphql client must not be nil")
	}
	if executor == nil {
		panic("token executor must not be nil")
	}
	return &GraphQLVsphereManager{client: client, executor: executor}
}

// List retrieves the credential records matching the given page and filter.
func (m *GraphQLVsphereManager) List(ctx context.Context, page schema.PageInput, filter *Filter) (*List, error) {
	params := graphql.NewParams()
	params.Set("page", graphql.NewParam(page, "PageInput", false))
	if filter != nil {
		params.Set("filter", graphql.NewParam(filter, "VsphereCredsFilter", false))
	}

	raw, err := m.client.Query(ctx, "getVsphereCreds", params, ListFields())
	if err != nil {
		return nil, fmt.Errorf("vsphere list: %w", err)
	}

	var list List
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("vsphere list: parse response: %w", err)
	}
	return &list, nil
}

// Set stores vCenter credentials for an nPod. The mutation returns a
// security token that must reach the nPod's SPUs; Set blocks until the
// resulting recipe reaches a terminal state.
func (m *GraphQLVsphereManager) Set(ctx context.Context, npodUUID string, input UpsertInput, ignoreWarnings bool) error {
	params := graphql.NewParams()
	params.Set("nPodUUID", graphql.NewParam(npodUUID, "UUID", true))
	params.Set("input", graphql.NewParam(input, "UpsertVsphereCredsInput", true))

	raw, err := m.client.Mutate(ctx, "upsertVsphereCreds", params, token.ResponseFields())
	if err != nil {
		return fmt.Errorf("vsphere set: %w", err)
	}

	resp, err := token.ParseResponse(raw)
	if err != nil {
		return fmt.Errorf("vsphere set: %w", err)
	}
	return m.executor.Execute(ctx, "upsertVsphereCreds", resp, ignoreWarnings)
}

// Delete removes the vCenter credentials from an nPod, blocking until the
// configuration change has propagated to its SPUs.
func (m *GraphQLVsphereManager) Delete(ctx context.Context, npodUUID string, ignoreWarnings bool) error {
	params := graphql.NewParams()
	params.Set("nPodUUID", graphql.NewParam(npodUUID, "UUID", true))

	raw, err := m.client.Mutate(ctx, "deleteVsphereCreds", params, token.ResponseFields())
	if err != nil {
		return fmt.Errorf("vsphere delete: %w", err)
	}

	resp, err := token.ParseResponse(raw)
	if err != nil {
		return fmt.Errorf("vsphere delete: %w", err)
	}
	return m.executor.Execute(ctx, "deleteVsphereCreds", resp, ignoreWarnings)
}
