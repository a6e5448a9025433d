// Package keyvalue manages key-value metadata attached to Nebulon ON
// resources via the GraphQL API.
package keyvalue

import (
	"context"
	"fmt"
	"strings"

	"github.com/storageops/nebulon-mcp/internal/schema"
)

// KeyValue is one metadata entry attached to a resource.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Fields returns the GraphQL field selection for a key-value entry.
func Fields() []string {
	return []string{
		"key",
		"value",
	}
}

// List is a paginated list of key-value entries.
type List struct {
	Items         []KeyValue `json:"items"`
	TotalCount    int        `json:"totalCount"`
	FilteredCount int        `json:"filteredCount"`
}

// ListFields returns the GraphQL field selection for a key-value list.
func ListFields() []string {
	return []string{
		fmt.Sprintf("items{%s}", strings.Join(Fields(), ",")),
		"totalCount",
		"filteredCount",
	}
}

// Filter selects key-value entries by their owning resource and,
// optionally, by key name.
type Filter struct {
	ResourceType  schema.ResourceType
	NPodGroupUUID string
	ResourceUUID  string
	Key           *schema.StringFilter
}

// GraphQLMap renders the filter as GraphQL variables.
func (f Filter) GraphQLMap() map[string]any {
	m := map[string]any{
		"resourceType":  f.ResourceType,
		"nPodGroupUUID": f.NPodGroupUUID,
		"resourceUUID":  f.ResourceUUID,
	}
	if f.Key != nil {
		m["keyName"] = f.Key.GraphQLMap()
	}
	return m
}

// UpsertInput creates or updates one key-value entry on a resource.
type UpsertInput struct {
	ResourceType  schema.ResourceType
	NPodGroupUUID string
	ResourceUUID  string
	Key           string
	Value         string
}

// GraphQLMap renders the input as GraphQL variables.
func (i UpsertInput) GraphQLMap() map[string]any {
	return map[string]any{
		"resourceType":  i.ResourceType,
		"nPodGroupUUID": i.NPodGroupUUID,
		"resourceUUID":  i.ResourceUUID,
		"key":           i.Key,
		"value":         i.Value,
	}
}

// DeleteInput removes one key-value entry from a resource.
type DeleteInput struct {
	ResourceType  schema.ResourceType
	NPodGroupUUID string
	ResourceUUID  string
	Key           string
}

// GraphQLMap renders the input as GraphQL variables.
func (i DeleteInput) GraphQLMap() map[string]any {
	return map[string]any{
		"resourceType":  i.ResourceType,
		"nPodGroupUUID": i.NPodGroupUUID,
		"resourceUUID":  i.ResourceUUID,
		"key":           i.Key,
	}
}

// KeyValueManager defines the interface for key-value metadata operations.
type KeyValueManager interface {
	List(ctx context.Context, filter Filter) (*List, error)
	Set(ctx context.Context, input UpsertInput) (bool, error)
	Delete(ctx context.Context, input DeleteInput) (bool, error)
}
