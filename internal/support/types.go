// Package support covers support case operations against Nebulon ON.
// Attachment upload is the one operation in this server that sends a
// file, so it exercises the client's multipart upload path.
package support

import (
	"context"
	"fmt"
	"strings"
)

// Attachment is a file attached to a support case.
type Attachment struct {
	FileName      string `json:"fileName"`
	UploadTime    string `json:"uploadTime"`
	FileSizeBytes int64  `json:"fileSizeBytes"`
	UniqueID      string `json:"uniqueID"`
}

// AttachmentFields returns the GraphQL field selection for an attachment.
func AttachmentFields() []string {
	return []string{
		"fileName",
		"uploadTime",
		"fileSizeBytes",
		"uniqueID",
	}
}

// Case is a support case record. Only the fields this server surfaces
// are selected.
type Case struct {
	Number      string       `json:"number"`
	Subject     string       `json:"subject"`
	Description string       `json:"description"`
	Priority    string       `json:"priority"`
	IssueType   string       `json:"issueType"`
	Status      string       `json:"status"`
	CreatedDate string       `json:"createdDate"`
	UpdatedDate string       `json:"updatedDate"`
	OwnerName   string       `json:"ownerName"`
	Attachments []Attachment `json:"attachments"`
}

// Fields returns the GraphQL field selection for a support case.
func Fields() []string {
	return []string{
		"number",
		"subject",
		"description",
		"priority",
		"issueType",
		"status",
		"createdDate",
		"updatedDate",
		"ownerName",
		fmt.Sprintf("attachments{%s}", strings.Join(AttachmentFields(), ",")),
	}
}

// SupportManager defines the interface for support case operations.
type SupportManager interface {
	UploadAttachment(ctx context.Context, caseNumber, filePath string) (*Case, error)
}
