package vsphere

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/storageops/nebulon-mcp/internal/safety"
	"github.com/storageops/nebulon-mcp/internal/schema"
	"github.com/storageops/nebulon-mcp/internal/tools"
)

// DestructiveTools lists vCenter credential tool names that require
// confirmation before execution.
var DestructiveTools = []string{"vsphere_creds_delete"}

// VsphereTools returns the tool registrations for vCenter credential
// management. The set and delete mutations block until the resulting
// recipe finishes on the nPod's SPUs.
func VsphereTools(mgr VsphereManager, filter *safety.Filter, confirm *safety.ConfirmationTracker, audit *safety.AuditLogger) []tools.Registration {
	return []tools.Registration{
		toolVsphereCredsList(mgr, audit),
		toolVsphereCredsSet(mgr, filter, audit),
		toolVsphereCredsDelete(mgr, filter, confirm, audit),
	}
}

// toolVsphereCredsList constructs the vsphere_creds_list Registration.
func toolVsphereCredsList(mgr VsphereManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "vsphere_creds_list"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List the vCenter credential records configured for Nebulon nPods. Passwords are never returned."),
		mcp.WithString("npod_uuid",
			mcp.Description("Optional nPod UUID to match exactly"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		npodUUID := req.GetString("npod_uuid", "")

		params := map[string]any{
			"npod_uuid": npodUUID,
		}

		var filter *Filter
		if npodUUID != "" {
			filter = &Filter{NPodUUID: &schema.UUIDFilter{Equals: schema.Ptr(npodUUID)}}
		}

		list, err := mgr.List(ctx, schema.DefaultPage(), filter)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		if len(list.Items) == 0 {
			tools.LogAudit(audit, toolName, params, "ok: empty", start)
			return mcp.NewToolResultText("No vCenter credentials configured."), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(list.Items), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

// toolVsphereCredsSet constructs the vsphere_creds_set Registration.
func toolVsphereCredsSet(mgr VsphereManager, filter *safety.Filter, audit *safety.AuditLogger) tools.Registration {
	const toolName = "vsphere_creds_set"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Store vCenter login credentials on an nPod so its SPUs can collect vSphere diagnostics. Blocks until the configuration change completes on the SPUs, which may take several minutes."),
		mcp.WithString("npod_uuid",
			mcp.Required(),
			mcp.Description("UUID of the nPod to configure"),
		),
		mcp.WithString("username",
			mcp.Required(),
			mcp.Description("vCenter login username"),
		),
		mcp.WithString("password",
			mcp.Required(),
			mcp.Description("vCenter login password"),
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("vCenter server URL"),
		),
		mcp.WithBoolean("ignore_warnings",
			mcp.Description("Proceed even when the server reports validation warnings (default: false)"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		npodUUID := req.GetString("npod_uuid", "")
		username := req.GetString("username", "")
		password := req.GetString("password", "")
		url := req.GetString("url", "")
		ignoreWarnings := req.GetBool("ignore_warnings", false)

		// The password never reaches the audit log.
		params := map[string]any{
			"npod_uuid":       npodUUID,
			"username":        username,
			"url":             url,
			"ignore_warnings": ignoreWarnings,
		}

		if !filter.IsAllowed(npodUUID) {
			msg := fmt.Sprintf("nPod %q is not permitted by the configured nPod filter", npodUUID)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		input := UpsertInput{Username: username, Password: password, URL: url}
		if err := mgr.Set(ctx, npodUUID, input, ignoreWarnings); err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return mcp.NewToolResultText(fmt.Sprintf("vCenter credentials for nPod %q stored and propagated successfully", npodUUID)), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}

// toolVsphereCredsDelete constructs the vsphere_creds_delete Registration.
func toolVsphereCredsDelete(mgr VsphereManager, filter *safety.Filter, confirm *safety.ConfirmationTracker, audit *safety.AuditLogger) tools.Registration {
	const toolName = "vsphere_creds_delete"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Remove the vCenter credentials from an nPod. Requires a confirmation token. Blocks until the configuration change completes on the SPUs."),
		mcp.WithString("npod_uuid",
			mcp.Required(),
			mcp.Description("UUID of the nPod to clear"),
		),
		mcp.WithBoolean("ignore_warnings",
			mcp.Description("Proceed even when the server reports validation warnings (default: false)"),
		),
		mcp.WithString("confirmation_token",
			mcp.Description("Confirmation token returned by a prior call"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		npodUUID := req.GetString("npod_uuid", "")
		ignoreWarnings := req.GetBool("ignore_warnings", false)
		token := req.GetString("confirmation_token", "")

		params := map[string]any{
			"npod_uuid":       npodUUID,
			"ignore_warnings": ignoreWarnings,
		}

		if !filter.IsAllowed(npodUUID) {
			msg := fmt.Sprintf("nPod %q is not permitted by the configured nPod filter", npodUUID)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		if !confirm.Confirm(token) {
			resource := fmt.Sprintf("vCenter credentials on nPod %s", npodUUID)
			desc := "This will remove the vCenter credentials and stop vSphere diagnostics collection for this nPod."
			return tools.ConfirmPrompt(confirm, toolName, resource, desc), nil
		}

		if err := mgr.Delete(ctx, npodUUID, ignoreWarnings); err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return mcp.NewToolResultText(fmt.Sprintf("vCenter credentials for nPod %q removed successfully", npodUUID)), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
