package support

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/storageops/nebulon-mcp/internal/graphql"
)

// Compile-time interface check.
var _ SupportManager = (*GraphQLSupportManager)(nil)

// GraphQLSupportManager implements SupportManager using a GraphQL client.
type GraphQLSupportManager struct {
	client graphql.Client
}

// NewGraphQLSupportManager returns a new GraphQLSupportManager backed by
// the provided GraphQL client.
func NewGraphQLSupportManager(client graphql.Client) *GraphQLSupportManager {
	if client == nil {
		panic("graphql client must not be nil")
	}
	return &GraphQLSupportManager{client: client}
}

// UploadAttachment attaches a local file to a support case. The attachment
// parameter carries the Upload type, so the client sends the request as a
// multipart form with the file contents streamed alongside the operation.
func (m *GraphQLSupportManager) UploadAttachment(ctx context.Context, caseNumber, filePath string) (*Case, error) {
	params := graphql.NewParams()
	params.Set("caseNumber", graphql.NewParam(caseNumber, "String", true))
	params.Set("attachment", graphql.NewParam(filePath, graphql.UploadTypeName, true))

	raw, err := m.client.Mutate(ctx, "uploadSupportCaseAttachment", params, Fields())
	if err != nil {
		return nil, fmt.Errorf("support upload attachment: %w", err)
	}

	var c Case
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("support upload attachment: parse response: %w", err)
	}
	return &c, nil
}
