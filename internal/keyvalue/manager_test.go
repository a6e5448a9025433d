package keyvalue

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/storageops/nebulon-mcp/internal/graphql"
	"github.com/storageops/nebulon-mcp/internal/schema"
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

func Test_GraphQLKeyValueManager_List(t *testing.T) {
	client := &fakeClient{payload: json.RawMessage(
		`{"items":[{"key":"owner","value":"storage-team"}],"totalCount":1,"filteredCount":1}`,
	)}
	mgr := NewGraphQLKeyValueManager(client)

	filter := Filter{
		ResourceType:  schema.ResourceTypeVolume,
		NPodGroupUUID: "group-1",
		ResourceUUID:  "vol-1",
	}
	list, err := mgr.List(context.Background(), filter)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if client.lastKind != "query" || client.lastName != "getKeyValues" {
		t.Errorf("operation = %s %s, want query getKeyValues", client.lastKind, client.lastName)
	}
	p, ok := client.lastParams.Get("filter").(graphql.Param)
	if !ok || p.TypeName != "KeyValueFilter" || !p.Mandatory {
		t.Errorf("filter param = %+v, want mandatory KeyValueFilter", client.lastParams.Get("filter"))
	}
	if len(list.Items) != 1 || list.Items[0].Key != "owner" || list.Items[0].Value != "storage-team" {
		t.Errorf("list = %+v", list)
	}
}

func Test_GraphQLKeyValueManager_Set(t *testing.T) {
	client := &fakeClient{payload: json.RawMessage(`true`)}
	mgr := NewGraphQLKeyValueManager(client)

	ok, err := mgr.Set(context.Background(), UpsertInput{
		ResourceType:  schema.ResourceTypeVolume,
		NPodGroupUUID: "group-1",
		ResourceUUID:  "vol-1",
		Key:           "owner",
		Value:         "storage-team",
	})
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !ok {
		t.Error("Set() = false, want true")
	}
	if client.lastKind != "mutation" || client.lastName != "upsertKeyValue" {
		t.Errorf("operation = %s %s, want mutation upsertKeyValue", client.lastKind, client.lastName)
	}
	p, ok2 := client.lastParams.Get("input").(graphql.Param)
	if !ok2 || p.TypeName != "UpsertKeyValueInput" || !p.Mandatory {
		t.Errorf("input param = %+v, want mandatory UpsertKeyValueInput", client.lastParams.Get("input"))
	}
}

func Test_GraphQLKeyValueManager_Delete(t *testing.T) {
	client := &fakeClient{payload: json.RawMessage(`true`)}
	mgr := NewGraphQLKeyValueManager(client)

	ok, err := mgr.Delete(context.Background(), DeleteInput{
		ResourceType:  schema.ResourceTypeVolume,
		NPodGroupUUID: "group-1",
		ResourceUUID:  "vol-1",
		Key:           "owner",
	})
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !ok {
		t.Error("Delete() = false, want true")
	}
	if client.lastName != "deleteKeyValue" {
		t.Errorf("operation = %s, want deleteKeyValue", client.lastName)
	}
}

func Test_GraphQLKeyValueManager_NilPayloadIsFalse(t *testing.T) {
	client := &fakeClient{payload: nil}
	mgr := NewGraphQLKeyValueManager(client)

	ok, err := mgr.Set(context.Background(), UpsertInput{Key: "owner"})
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if ok {
		t.Error("Set() = true, want false for missing payload")
	}
}

func Test_GraphQLKeyValueManager_ErrorPropagates(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("boom")}
	mgr := NewGraphQLKeyValueManager(client)

	if _, err := mgr.List(context.Background(), Filter{}); err == nil {
		t.Error("List() should propagate client errors")
	}
	if _, err := mgr.Set(context.Background(), UpsertInput{}); err == nil {
		t.Error("Set() should propagate client errors")
	}
	if _, err := mgr.Delete(context.Background(), DeleteInput{}); err == nil {
		t.Error("Delete() should propagate client errors")
	}
}

func Test_Filter_GraphQLMap_OptionalKey(t *testing.T) {
	f := Filter{
		ResourceType:  schema.ResourceTypeHost,
		NPodGroupUUID: "group-1",
		ResourceUUID:  "host-1",
	}
	m := f.GraphQLMap()
	if _, present := m["keyName"]; present {
		t.Error("keyName should be absent when no key filter is set")
	}

	f.Key = &schema.StringFilter{Equals: schema.Ptr("owner")}
	m = f.GraphQLMap()
	inner, ok := m["keyName"].(map[string]any)
	if !ok {
		t.Fatalf("keyName = %T, want nested filter map", m["keyName"])
	}
	if inner["equals"] != "owner" {
		t.Errorf("keyName.equals = %v, want owner", inner["equals"])
	}
}
