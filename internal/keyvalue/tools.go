package keyvalue

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/storageops/nebulon-mcp/internal/safety"
	"github.com/storageops/nebulon-mcp/internal/schema"
	"github.com/storageops/nebulon-mcp/internal/tools"
)

// DestructiveTools lists key-value tool names that require confirmation
// before execution.
var DestructiveTools = []string{"keyvalue_manage"}

// KeyValueTools returns the tool registrations for key-value metadata. It
// exposes keyvalue_list (read-only) and keyvalue_manage (set and delete,
// with confirmation for delete).
func KeyValueTools(mgr KeyValueManager, filter *safety.Filter, confirm *safety.ConfirmationTracker, audit *safety.AuditLogger) []tools.Registration {
	return []tools.Registration{
		toolKeyValueList(mgr, audit),
		toolKeyValueManage(mgr, filter, confirm, audit),
	}
}

// validResourceTypes maps the accepted resource_type argument values to
// their API spelling.
var validResourceTypes = map[string]schema.ResourceType{
	"datacenter":       schema.ResourceTypeDatacenter,
	"host":             schema.ResourceTypeHost,
	"disk":             schema.ResourceTypeDisk,
	"pod":              schema.ResourceTypePod,
	"podgroup":         schema.ResourceTypePodGroup,
	"room":             schema.ResourceTypeRoom,
	"rack":             schema.ResourceTypeRack,
	"row":              schema.ResourceTypeRow,
	"snapshot":         schema.ResourceTypeSnapshot,
	"spu":              schema.ResourceTypeSPU,
	"vm":               schema.ResourceTypeVM,
	"volume":           schema.ResourceTypeVolume,
	"networkinterface": schema.ResourceTypeNetworkInterface,
}

// parseResourceType resolves a resource_type argument, case-insensitively.
func parseResourceType(s string) (schema.ResourceType, error) {
	rt, ok := validResourceTypes[strings.ToLower(s)]
	if !ok {
		return schema.ResourceTypeUnknown, fmt.Errorf("unknown resource_type %q", s)
	}
	return rt, nil
}

// toolKeyValueList constructs the keyvalue_list Registration.
func toolKeyValueList(mgr KeyValueManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "keyvalue_list"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List key-value metadata entries attached to a Nebulon resource. Requires the resource type, its nPod group UUID, and the resource UUID."),
		mcp.WithString("resource_type",
			mcp.Required(),
			mcp.Description("Resource category, e.g. Volume, Host, SPU, Pod"),
		),
		mcp.WithString("npod_group_uuid",
			mcp.Required(),
			mcp.Description("UUID of the nPod group the resource belongs to"),
		),
		mcp.WithString("resource_uuid",
			mcp.Required(),
			mcp.Description("UUID of the resource the entries are attached to"),
		),
		mcp.WithString("key",
			mcp.Description("Optional exact key name to match"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		resourceType := req.GetString("resource_type", "")
		groupUUID := req.GetString("npod_group_uuid", "")
		resourceUUID := req.GetString("resource_uuid", "")
		key := req.GetString("key", "")

		params := map[string]any{
			"resource_type":   resourceType,
			"npod_group_uuid": groupUUID,
			"resource_uuid":   resourceUUID,
			"key":             key,
		}

		rt, err := parseResourceType(resourceType)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		filter := Filter{
			ResourceType:  rt,
			NPodGroupUUID: groupUUID,
			ResourceUUID:  resourceUUID,
		}
		if key != "" {
			filter.Key = &schema.StringFilter{Equals: schema.Ptr(key)}
		}

		list, err := mgr.List(ctx, filter)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		if len(list.Items) == 0 {
			tools.LogAudit(audit, toolName, params, "ok: empty", start)
			return mcp.NewToolResultText("No key-value entries found."), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(list.Items), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

// toolKeyValueManage constructs the keyvalue_manage Registration.
func toolKeyValueManage(mgr KeyValueManager, filter *safety.Filter, confirm *safety.ConfirmationTracker, audit *safety.AuditLogger) tools.Registration {
	const toolName = "keyvalue_manage"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Create, update, or delete a key-value metadata entry on a Nebulon resource. Delete requires a confirmation token."),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("Action to perform: set or delete"),
		),
		mcp.WithString("resource_type",
			mcp.Required(),
			mcp.Description("Resource category, e.g. Volume, Host, SPU, Pod"),
		),
		mcp.WithString("npod_group_uuid",
			mcp.Required(),
			mcp.Description("UUID of the nPod group the resource belongs to"),
		),
		mcp.WithString("resource_uuid",
			mcp.Required(),
			mcp.Description("UUID of the resource the entry is attached to"),
		),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Key name"),
		),
		mcp.WithString("value",
			mcp.Description("Value to store (required for set)"),
		),
		mcp.WithString("confirmation_token",
			mcp.Description("Confirmation token returned by a prior call for delete"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		action := req.GetString("action", "")
		resourceType := req.GetString("resource_type", "")
		groupUUID := req.GetString("npod_group_uuid", "")
		resourceUUID := req.GetString("resource_uuid", "")
		key := req.GetString("key", "")
		value := req.GetString("value", "")
		token := req.GetString("confirmation_token", "")

		params := map[string]any{
			"action":          action,
			"resource_type":   resourceType,
			"npod_group_uuid": groupUUID,
			"resource_uuid":   resourceUUID,
			"key":             key,
		}

		if action != "set" && action != "delete" {
			msg := fmt.Sprintf("unknown action %q: valid actions are set, delete", action)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		rt, err := parseResourceType(resourceType)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		if !filter.IsAllowed(key) {
			msg := fmt.Sprintf("key %q is not permitted by the configured key-value filter", key)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		if action == "set" && value == "" {
			msg := "action \"set\" requires a value parameter"
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		if action == "delete" && !confirm.Confirm(token) {
			resource := fmt.Sprintf("key %q on %s %s", key, resourceType, resourceUUID)
			desc := "This will permanently delete the key-value entry. This cannot be undone."
			return tools.ConfirmPrompt(confirm, toolName, resource, desc), nil
		}

		var ok bool
		switch action {
		case "set":
			ok, err = mgr.Set(ctx, UpsertInput{
				ResourceType:  rt,
				NPodGroupUUID: groupUUID,
				ResourceUUID:  resourceUUID,
				Key:           key,
				Value:         value,
			})
		case "delete":
			ok, err = mgr.Delete(ctx, DeleteInput{
				ResourceType:  rt,
				NPodGroupUUID: groupUUID,
				ResourceUUID:  resourceUUID,
				Key:           key,
			})
		}

		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}
		if !ok {
			msg := fmt.Sprintf("server declined to %s key %q", action, key)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		successMsg := fmt.Sprintf("key %q set successfully", key)
		if action == "delete" {
			successMsg = fmt.Sprintf("key %q deleted successfully", key)
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return mcp.NewToolResultText(successMsg), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
