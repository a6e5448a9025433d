package recipes

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/storageops/nebulon-mcp/internal/safety"
	"github.com/storageops/nebulon-mcp/internal/tools"
)

// RecipeTools returns the tool registrations for recipe status. All recipe
// tools are read-only.
func RecipeTools(mgr RecipeManager, audit *safety.AuditLogger) []tools.Registration {
	return []tools.Registration{
		toolRecipesList(mgr, audit),
	}
}

// toolRecipesList constructs the recipes_list Registration.
func toolRecipesList(mgr RecipeManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "recipes_list"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("List Nebulon recipe executions for an nPod. Recipes track mutations that modify on-premises infrastructure. Supports filtering by recipe UUID and completion status."),
		mcp.WithString("npod_uuid",
			mcp.Required(),
			mcp.Description("UUID of the nPod whose recipes to list"),
		),
		mcp.WithString("recipe_uuid",
			mcp.Description("Optional recipe UUID to match exactly"),
		),
		mcp.WithString("completed",
			mcp.Description("Optional completion filter: \"true\" for finished recipes, \"false\" for active ones"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		npodUUID := req.GetString("npod_uuid", "")
		recipeUUID := req.GetString("recipe_uuid", "")
		completed := req.GetString("completed", "")

		params := map[string]any{
			"npod_uuid":   npodUUID,
			"recipe_uuid": recipeUUID,
			"completed":   completed,
		}

		filter := Filter{
			NPodUUID:   npodUUID,
			RecipeUUID: recipeUUID,
		}
		switch completed {
		case "":
		case "true":
			v := true
			filter.Completed = &v
		case "false":
			v := false
			filter.Completed = &v
		default:
			msg := fmt.Sprintf("invalid completed value %q: expected \"true\" or \"false\"", completed)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		list, err := mgr.List(ctx, filter)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		if len(list.Items) == 0 {
			tools.LogAudit(audit, toolName, params, "ok: empty", start)
			return mcp.NewToolResultText("No recipes found."), nil
		}

		tools.LogAudit(audit, toolName, params, "ok", start)
		return tools.JSONResult(list.Items), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
