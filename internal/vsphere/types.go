// Package vsphere manages the vCenter credentials that nPods use to
// collect diagnostics from their vSphere clusters. The upsert and delete
// mutations propagate configuration to on-premises SPUs, so both run the
// full token delivery and recipe wait flow.
package vsphere

import (
	"context"
	"fmt"
	"strings"

	"github.com/storageops/nebulon-mcp/internal/schema"
)

// NPodRef names the nPod a credential record belongs to.
type NPodRef struct {
	UUID string `json:"uuid"`
}

// Credentials describes the vCenter connection state for one nPod. The
// password is never returned by the API.
type Credentials struct {
	NPod             NPodRef `json:"nPod"`
	Username         string  `json:"username"`
	URL              string  `json:"URL"`
	PollingPeriodSec int     `json:"pollingPeriodSec"`
	ClusterName      string  `json:"clusterName"`
	LastConnected    string  `json:"lastConnected"`
	StateUpdated     bool    `json:"stateUpdated"`
	Status           string  `json:"status"`
	Error            string  `json:"error"`
}

// Fields returns the GraphQL field selection for a credential record.
func Fields() []string {
	return []string{
		"nPod{uuid}",
		"username",
		"URL",
		"pollingPeriodSec",
		"clusterName",
		"lastConnected",
		"stateUpdated",
		"status",
		"error",
	}
}

// List is a paginated list of credential records.
type List struct {
	Items         []Credentials `json:"items"`
	More          bool          `json:"more"`
	TotalCount    int           `json:"totalCount"`
	FilteredCount int           `json:"filteredCount"`
}

// ListFields returns the GraphQL field selection for a credential list.
func ListFields() []string {
	return []string{
		fmt.Sprintf("items{%s}", strings.Join(Fields(), ",")),
		"more",
		"totalCount",
		"filteredCount",
	}
}

// Filter selects credential records by nPod.
type Filter struct {
	NPodUUID *schema.UUIDFilter
	And      *Filter
	Or       *Filter
}

// GraphQLMap renders the filter as GraphQL variables.
func (f *Filter) GraphQLMap() map[string]any {
	m := make(map[string]any)
	if f.NPodUUID != nil {
		m["nPodUUID"] = f.NPodUUID.GraphQLMap()
	}
	if f.And != nil {
		m["and"] = f.And.GraphQLMap()
	}
	if f.Or != nil {
		m["or"] = f.Or.GraphQLMap()
	}
	return m
}

// UpsertInput carries new vCenter login credentials for an nPod.
type UpsertInput struct {
	Username string
	Password string
	URL      string
}

// GraphQLMap renders the input as GraphQL variables. The password key
// marks the value sensitive for diagnostic redaction.
func (i UpsertInput) GraphQLMap() map[string]any {
	return map[string]any{
		"username": i.Username,
		"password": i.Password,
		"url":      i.URL,
	}
}

// VsphereManager defines the interface for vCenter credential operations.
type VsphereManager interface {
	List(ctx context.Context, page schema.PageInput, filter *Filter) (*List, error)
	Set(ctx context.Context, npodUUID string, input UpsertInput, ignoreWarnings bool) error
	Delete(ctx context.Context, npodUUID string, ignoreWarnings bool) error
}
