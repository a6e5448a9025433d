package recipes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/storageops/nebulon-mcp/internal/graphql"
	"github.com/storageops/nebulon-mcp/internal/token"
)

// Compile-time interface checks.
var (
	_ RecipeManager      = (*GraphQLRecipeManager)(nil)
	_ token.RecipePoller = (*GraphQLRecipeManager)(nil)
)

// GraphQLRecipeManager implements RecipeManager using a GraphQL client. It
// also serves as the recipe poller for the token delivery engine.
type GraphQLRecipeManager struct {
	client graphql.Client
}

// NewGraphQLRecipeManager returns a new GraphQLRecipeManager backed by the
// provided GraphQL client.
func NewGraphQLRecipeManager(client graphql.Client) *GraphQLRecipeManager {
	if client == nil {
		panic("graphql client must not be nil")
	}
	return &GraphQLRecipeManager{client: client}
}

// List retrieves the recipes matching the given filter.
func (m *GraphQLRecipeManager) List(ctx context.Context, filter Filter) (*RecordList, error) {
	params := graphql.NewParams()
	params.Set("filter", graphql.NewParam(filter, "NPodRecipeFilter", false))

	raw, err := m.client.Query(ctx, "getNPodRecipes", params, ListFields())
	if err != nil {
		return nil, fmt.Errorf("recipes list: %w", err)
	}

	var list RecordList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("recipes list: parse response: %w", err)
	}
	return &list, nil
}

// Poll looks up the recipe named by ref and maps its state onto a token
// delivery outcome. A missing record counts as pending: the cloud record
// may trail the delivery acknowledgement by a poll cycle.
func (m *GraphQLRecipeManager) Poll(ctx context.Context, ref token.RecipeRef) (token.Outcome, string, error) {
	list, err := m.List(ctx, Filter{NPodUUID: ref.NPodUUID, RecipeUUID: ref.RecipeUUID})
	if err != nil {
		return token.OutcomePending, "", err
	}
	if len(list.Items) == 0 {
		return token.OutcomePending, "", nil
	}

	// The filter names one recipe; the first item is the one.
	record := list.Items[0]
	switch record.State {
	case StateCompleted:
		return token.OutcomeCompleted, record.Status, nil
	case StateFailed, StateTimeout, StateCancelled:
		return token.OutcomeFailed, fmt.Sprintf("%s: %s", record.State, record.Status), nil
	default:
		return token.OutcomePending, record.Status, nil
	}
}
