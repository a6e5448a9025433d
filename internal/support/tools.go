package support

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/storageops/nebulon-mcp/internal/safety"
	"github.com/storageops/nebulon-mcp/internal/tools"
)

// SupportTools returns the tool registrations for support case operations.
func SupportTools(mgr SupportManager, audit *safety.AuditLogger) []tools.Registration {
	return []tools.Registration{
		toolSupportUploadAttachment(mgr, audit),
	}
}

// toolSupportUploadAttachment constructs the support_upload_attachment
// Registration.
func toolSupportUploadAttachment(mgr SupportManager, audit *safety.AuditLogger) tools.Registration {
	const toolName = "support_upload_attachment"

	tool := mcp.NewTool(toolName,
		mcp.WithDescription("Attach a file from the server's filesystem to a Nebulon support case. The file is uploaded to Nebulon ON."),
		mcp.WithString("case_number",
			mcp.Required(),
			mcp.Description("Support case number to attach the file to"),
		),
		mcp.WithString("file_path",
			mcp.Required(),
			mcp.Description("Absolute path of the file to upload"),
		),
	)

	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()

		caseNumber := req.GetString("case_number", "")
		filePath := req.GetString("file_path", "")

		params := map[string]any{
			"case_number": caseNumber,
			"file_path":   filePath,
		}

		if !filepath.IsAbs(filePath) {
			msg := fmt.Sprintf("file_path %q must be absolute", filePath)
			tools.LogAudit(audit, toolName, params, "error: "+msg, start)
			return tools.ErrorResult(msg), nil
		}

		c, err := mgr.UploadAttachment(ctx, caseNumber, filePath)
		if err != nil {
			tools.LogAudit(audit, toolName, params, "error: "+err.Error(), start)
			return tools.ErrorResult(err.Error()), nil
		}

		msg := fmt.Sprintf("File %q attached to case %s (%d attachments total).",
			filepath.Base(filePath), c.Number, len(c.Attachments))

		tools.LogAudit(audit, toolName, params, "ok", start)
		return mcp.NewToolResultText(msg), nil
	}

	return tools.Registration{Tool: tool, Handler: server.ToolHandlerFunc(handler)}
}
