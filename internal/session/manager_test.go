package session

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/storageops/nebulon-mcp/internal/graphql"
)

// fakeClient records the last operation and replays a scripted payload.
type fakeClient struct {
	lastKind   string
	lastName   string
	lastParams *graphql.Params
	payload    json.RawMessage
	err        error
}

func (c *fakeClient) Query(ctx context.Context, name string, params *graphql.Params, fields []string) (json.RawMessage, error) {
	c.lastKind, c.lastName, c.lastParams = "query", name, params
	return c.payload, c.err
}

func (c *fakeClient) Mutate(ctx context.Context, name string, params *graphql.Params, fields []string) (json.RawMessage, error) {
	c.lastKind, c.lastName, c.lastParams = "mutation", name, params
	return c.payload, c.err
}

func Test_GraphQLSessionManager_Login(t *testing.T) {
	client := &fakeClient{payload: json.RawMessage(
		`{"success":true,"organizationName":"storage-ops","expiration":"2026-08-24T00:00:00Z","eulaAccepted":true}`,
	)}
	mgr := NewGraphQLSessionManager(client)

	results, err := mgr.Login(context.Background(), "operator", "hunter2")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if client.lastKind != "mutation" || client.lastName != "login" {
		t.Errorf("operation = %s %s, want mutation login", client.lastKind, client.lastName)
	}

	// Username before password, both mandatory strings, password sensitive.
	names := client.lastParams.Names()
	if len(names) != 2 || names[0] != "username" || names[1] != "password" {
		t.Errorf("param order = %v, want [username password]", names)
	}
	user, _ := client.lastParams.Get("username").(graphql.Param)
	pass, _ := client.lastParams.Get("password").(graphql.Param)
	if user.Sensitive {
		t.Error("username must not be sensitive")
	}
	if !pass.Sensitive {
		t.Error("password must be sensitive")
	}
	if user.TypeSpec() != "String!" || pass.TypeSpec() != "String!" {
		t.Errorf("type specs = %s/%s, want String!/String!", user.TypeSpec(), pass.TypeSpec())
	}

	if !results.Success || results.OrganizationName != "storage-ops" {
		t.Errorf("results = %+v", results)
	}
}

func Test_GraphQLSessionManager_LoginFailure(t *testing.T) {
	client := &fakeClient{payload: json.RawMessage(
		`{"success":false,"message":"invalid credentials"}`,
	)}
	mgr := NewGraphQLSessionManager(client)

	results, err := mgr.Login(context.Background(), "operator", "wrong")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if results.Success {
		t.Error("Success = true, want false")
	}
	if results.Message != "invalid credentials" {
		t.Errorf("Message = %q", results.Message)
	}
}

func Test_GraphQLSessionManager_State(t *testing.T) {
	client := &fakeClient{payload: json.RawMessage(
		`{"organization":"storage-ops","username":"operator","expiration":"2026-08-24T00:00:00Z","userUID":"user-1"}`,
	)}
	mgr := NewGraphQLSessionManager(client)

	state, err := mgr.State(context.Background())
	if err != nil {
		t.Fatalf("State() error = %v", err)
	}
	if client.lastKind != "query" || client.lastName != "loginStatus" {
		t.Errorf("operation = %s %s, want query loginStatus", client.lastKind, client.lastName)
	}
	if state.Username != "operator" || state.UserUUID != "user-1" {
		t.Errorf("state = %+v", state)
	}
}

func Test_GraphQLSessionManager_Logout(t *testing.T) {
	client := &fakeClient{payload: json.RawMessage(`true`)}
	mgr := NewGraphQLSessionManager(client)

	ok, err := mgr.Logout(context.Background())
	if err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if !ok {
		t.Error("Logout() = false, want true")
	}
	if client.lastKind != "mutation" || client.lastName != "logout" {
		t.Errorf("operation = %s %s, want mutation logout", client.lastKind, client.lastName)
	}
	if client.lastParams.Len() != 0 {
		t.Errorf("logout params = %v, want none", client.lastParams.Names())
	}
}

func Test_GraphQLSessionManager_ErrorPropagates(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("boom")}
	mgr := NewGraphQLSessionManager(client)

	if _, err := mgr.Login(context.Background(), "u", "p"); err == nil {
		t.Error("Login() should propagate client errors")
	}
	if _, err := mgr.State(context.Background()); err == nil {
		t.Error("State() should propagate client errors")
	}
	if _, err := mgr.Logout(context.Background()); err == nil {
		t.Error("Logout() should propagate client errors")
	}
}
