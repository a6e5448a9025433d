// Package token implements the security-triangle flow for mutations that
// alter on-premises infrastructure: the Nebulon ON API returns an opaque
// token that must be delivered to services processing units (SPUs), and
// the resulting server-side recipe is polled until it reaches a terminal
// state.
package token

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Issue describes a single validation warning or error reported by the
// server during the pre-execution check of a mutation.
type Issue struct {
	SPUSerials []string `json:"spuSerials"`
	Message    string   `json:"message"`
}

// Issues groups the validation warnings and errors for a mutation.
// Warnings may be overridden by the caller; errors always block execution.
type Issues struct {
	Warnings []Issue `json:"warnings"`
	Errors   []Issue `json:"errors"`
}

// issueFields is the field selection for a single issue instance.
func issueFields() []string {
	return []string{
		"spuSerials",
		"message",
	}
}

// IssuesFields returns the GraphQL field selection for an issues object.
func IssuesFields() []string {
	return []string{
		fmt.Sprintf("warnings{%s}", strings.Join(issueFields(), ",")),
		fmt.Sprintf("errors{%s}", strings.Join(issueFields(), ",")),
	}
}

// Check inspects the issues and returns a *ValidationError if any errors
// are present, or if any warnings are present and ignoreWarnings is false.
// A validation rejection is a user-correctable fault and occurs before any
// hardware action.
func (i *Issues) Check(ignoreWarnings bool) error {
	if i == nil {
		return nil
	}
	if len(i.Errors) > 0 {
		return &ValidationError{Warnings: i.Warnings, Errors: i.Errors}
	}
	if len(i.Warnings) > 0 && !ignoreWarnings {
		return &ValidationError{Warnings: i.Warnings}
	}
	return nil
}

// ValidationError reports that the server rejected a mutation during its
// pre-execution validation step.
type ValidationError struct {
	Warnings []Issue
	Errors   []Issue
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	if len(e.Errors) > 0 {
		fmt.Fprintf(&sb, "validation failed with %d errors", len(e.Errors))
		writeIssues(&sb, e.Errors)
		return sb.String()
	}
	fmt.Fprintf(&sb, "validation failed with %d warnings", len(e.Warnings))
	writeIssues(&sb, e.Warnings)
	return sb.String()
}

func writeIssues(sb *strings.Builder, issues []Issue) {
	for _, issue := range issues {
		sb.WriteString("\n\t")
		if len(issue.SPUSerials) > 0 {
			fmt.Fprintf(sb, "%s: ", strings.Join(issue.SPUSerials, ", "))
		}
		sb.WriteString(issue.Message)
	}
}

// MustSendTarget names an SPU that must receive the security token. The
// token is posted to the control port first, falling back to the data
// ports if the control port is unreachable.
type MustSendTarget struct {
	ControlPortDNS string   `json:"controlPortDNS"`
	DataPortDNS    []string `json:"dataPortDNS"`
}

// mustSendTargetFields is the field selection for a must-send target.
func mustSendTargetFields() []string {
	return []string{
		"controlPortDNS",
		"dataPortDNS",
	}
}

// Response is a mutation response that requires completion of the security
// triangle before the mutation takes effect on hardware.
type Response struct {
	// Token is the opaque payload that must be delivered to SPUs.
	Token string `json:"token"`
	// WaitOn is the unique identifier of the resource being created or
	// modified.
	WaitOn string `json:"waitOn"`
	// TargetIPs lists the control IP addresses of the SPUs involved in
	// the mutation.
	TargetIPs []string `json:"targetIPs"`
	// DataTargetIPs lists the data IP addresses of the SPUs involved in
	// the mutation.
	DataTargetIPs []string `json:"dataTargetIPs"`
	// MustSendTargets lists SPUs that must all receive the token.
	MustSendTargets []MustSendTarget `json:"mustSendTargetDNS"`
	// Issues carries validation warnings and errors from the
	// pre-execution check.
	Issues *Issues `json:"issues"`
}

// ResponseFields returns the GraphQL field selection for a token response.
func ResponseFields() []string {
	return []string{
		"token",
		"waitOn",
		"targetIPs",
		"dataTargetIPs",
		fmt.Sprintf("mustSendTargetDNS{%s}", strings.Join(mustSendTargetFields(), ",")),
		fmt.Sprintf("issues{%s}", strings.Join(IssuesFields(), ",")),
	}
}

// ParseResponse decodes a token response from a raw mutation payload.
func ParseResponse(raw json.RawMessage) (*Response, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("token: mutation returned no token response")
	}
	var resp Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("token: parse token response: %w", err)
	}
	return &resp, nil
}

// Targets returns every target identifier the token must be dispatched to,
// excluding the must-send DNS targets which have their own fallback rules.
func (r *Response) Targets() []string {
	targets := make([]string, 0, len(r.TargetIPs)+len(r.DataTargetIPs))
	targets = append(targets, r.TargetIPs...)
	targets = append(targets, r.DataTargetIPs...)
	return targets
}
