// Package recipes provides access to Nebulon ON recipe records: the
// server-side execution status of mutations that modify on-premises
// infrastructure.
package recipes

import (
	"context"
	"fmt"
	"strings"
)

// State is the execution status of a recipe.
type State string

const (
	StateQueued     State = "Queued"
	StateRunning    State = "Running"
	StateCompleted  State = "Completed"
	StateFailed     State = "Failed"
	StateTimeout    State = "Timeout"
	StateCancelling State = "Cancelling"
	StateCancelled  State = "Cancelled"
)

// RecipeType identifies the kind of infrastructure change a recipe tracks.
type RecipeType string

const (
	TypeUnknown             RecipeType = "Unknown"
	TypeClaim               RecipeType = "Claim"
	TypeCreateVolume        RecipeType = "CreateVolume"
	TypeCreatePod           RecipeType = "CreatePod"
	TypeValidatePod         RecipeType = "ValidatePod"
	TypeConfirmPod          RecipeType = "ConfirmPod"
	TypeCreateSnapshot      RecipeType = "CreateSnapshot"
	TypeUpdate              RecipeType = "Update"
	TypeWipePod             RecipeType = "WipePod"
	TypeDeleteVolume        RecipeType = "DeleteVolume"
	TypeSetVSphereCreds     RecipeType = "SetVSphereCredentials"
	TypePingSPU             RecipeType = "PingSPU"
	TypeCreateLUN           RecipeType = "CreateLUN"
	TypeDeleteLUN           RecipeType = "DeleteLUN"
	TypeUpdatePhysicalDrive RecipeType = "UpdatePhysicalDrive"
	TypeCloneVolume         RecipeType = "CloneVolume"
	TypeReplaceSPU          RecipeType = "ReplaceSPU"
	TypeSecureEraseSPU      RecipeType = "SecureEraseSPU"
)

// Record describes the status of one recipe execution.
type Record struct {
	RecipeUUID           string     `json:"recipeUUID"`
	CancelRecipeUUID     string     `json:"cancelRecipeUUID"`
	NPodUUID             string     `json:"nPodUUID"`
	State                State      `json:"state"`
	Status               string     `json:"status"`
	Start                string     `json:"start"`
	LastUpdate           string     `json:"lastUpdate"`
	CoordinatorSPUSerial string     `json:"coordinatorSPUSerial"`
	Type                 RecipeType `json:"type"`
}

// RecordFields returns the GraphQL field selection for a recipe record.
func RecordFields() []string {
	return []string{
		"recipeUUID",
		"cancelRecipeUUID",
		"nPodUUID",
		"state",
		"status",
		"start",
		"lastUpdate",
		"coordinatorSPUSerial",
		"type",
	}
}

// RecordList is a cursor-paginated list of recipe records.
type RecordList struct {
	Cursor string   `json:"cursor"`
	Items  []Record `json:"items"`
}

// ListFields returns the GraphQL field selection for a recipe record list.
func ListFields() []string {
	return []string{
		"cursor",
		fmt.Sprintf("items{%s}", strings.Join(RecordFields(), ",")),
	}
}

// Filter selects recipes by nPod, recipe identifier, or completion status.
// At least one field should be set.
type Filter struct {
	NPodUUID   string
	RecipeUUID string
	Completed  *bool
}

// GraphQLMap renders the filter as GraphQL variables.
func (f Filter) GraphQLMap() map[string]any {
	m := make(map[string]any)
	if f.NPodUUID != "" {
		m["nPodUUID"] = f.NPodUUID
	}
	if f.RecipeUUID != "" {
		m["recipeUUID"] = f.RecipeUUID
	}
	if f.Completed != nil {
		m["completed"] = *f.Completed
	}
	return m
}

// RecipeManager defines the interface for recipe status operations.
type RecipeManager interface {
	List(ctx context.Context, filter Filter) (*RecordList, error)
}
