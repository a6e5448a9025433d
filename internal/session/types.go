// Package session manages the Nebulon ON login session for the GraphQL
// client. The session itself lives in the client's cookie jar; this
// package only issues the login, logout, and status operations.
package session

import "context"

// LoginResults is the outcome of a login request.
type LoginResults struct {
	Success                     bool   `json:"success"`
	Message                     string `json:"message"`
	Expiration                  string `json:"expiration"`
	UserUUID                    string `json:"userUID"`
	OrganizationName            string `json:"organizationName"`
	EULAAccepted                bool   `json:"eulaAccepted"`
	NeedTwoFactorAuthentication bool   `json:"needTwoFactorAuthentication"`
	ChangePassword              bool   `json:"changePassword"`
}

// LoginFields returns the GraphQL field selection for a login result.
func LoginFields() []string {
	return []string{
		"success",
		"message",
		"expiration",
		"userUID",
		"organizationName",
		"eulaAccepted",
		"needTwoFactorAuthentication",
		"changePassword",
	}
}

// State describes the current login session.
type State struct {
	Organization string `json:"organization"`
	Username     string `json:"username"`
	Expiration   string `json:"expiration"`
	UserUUID     string `json:"userUID"`
}

// StateFields returns the GraphQL field selection for a session state.
func StateFields() []string {
	return []string{
		"organization",
		"username",
		"expiration",
		"userUID",
	}
}

// SessionManager defines the interface for session operations.
type SessionManager interface {
	Login(ctx context.Context, username, password string) (*LoginResults, error)
	State(ctx context.Context) (*State, error)
	Logout(ctx context.Context) (bool, error)
}
