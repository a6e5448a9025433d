package session

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/storageops/nebulon-mcp/internal/safety"
	"github.com/storageops/nebulon-mcp/internal/tools"
)

// SessionTools returns the tool registrations for session inspection.
// Login itself happens at server startup; only the status query is
// exposed as a tool.
func SessionTools(mgr SessionManager, audit *safety.AuditLogger) []tools.Registration {
	return []tools.Registration{
		toolSessionStatus(mgr, audit),
	}
}

// toolSessionStatus constructs the session_status Registration.
func toolSessionStatus(mgr SessionManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "session_status"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Show the current Nebulon ON login session: organization, user, and expiration."),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		state, err := mgr.State(ctx)
		if err != nil {
			tools.LogAudit(audit, toolName, nil, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		msg := fmt.Sprintf("Organization: %s\nUser: %s (%s)\nSession expires: %s",
			state.Organization,
			state.Username,
			state.UserUUID,
			state.Expiration,
		)

		tools.LogAudit(audit, toolName, nil, "ok", start)
		return mcp.NewToolResultText(msg), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
