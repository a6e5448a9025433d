// Package schema holds shared GraphQL input types for the Nebulon ON API:
// pagination, sorting, resource types, and the generic value filters used
// by list queries.
package schema

// Ptr returns a pointer to v. Convenience for optional filter fields.
func Ptr[T any](v T) *T {
	return &v
}

// SortDirection defines the sorting direction for list queries.
type SortDirection string

const (
	// SortAscending sorts items in ascending order.
	SortAscending SortDirection = "Ascending"
	// SortDescending sorts items in descending order.
	SortDescending SortDirection = "Descending"
)

// ResourceType identifies a resource category in a Nebulon infrastructure.
type ResourceType string

const (
	ResourceTypeUnknown          ResourceType = "Unknown"
	ResourceTypeDatacenter       ResourceType = "Datacenter"
	ResourceTypeHost             ResourceType = "Host"
	ResourceTypeDisk             ResourceType = "Disk"
	ResourceTypePod              ResourceType = "Pod"
	ResourceTypePodGroup         ResourceType = "PodGroup"
	ResourceTypeRoom             ResourceType = "Room"
	ResourceTypeRack             ResourceType = "Rack"
	ResourceTypeRow              ResourceType = "Row"
	ResourceTypeSnapshot         ResourceType = "Snapshot"
	ResourceTypeSPU              ResourceType = "SPU"
	ResourceTypeVM               ResourceType = "VM"
	ResourceTypeVolume           ResourceType = "Volume"
	ResourceTypeNetworkInterface ResourceType = "NetworkInterface"
)

// PageInput selects a page for queries that support pagination. The server
// defaults to page 1 with 100 items per page.
type PageInput struct {
	Page  int
	Count int
}

// DefaultPage returns the server's default pagination window.
func DefaultPage() PageInput {
	return PageInput{Page: 1, Count: 100}
}

// GraphQLMap renders the page input as GraphQL variables.
func (p PageInput) GraphQLMap() map[string]any {
	return map[string]any{
		"page":  p.Page,
		"count": p.Count,
	}
}
