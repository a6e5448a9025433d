package graphql

import (
	"errors"
	"testing"
)

func Test_FormatOperation_Shapes(t *testing.T) {
	withParams := NewParams().
		Set("uuid", NewParam("abc", "UUID", true)).
		Set("filter", NewParam(nil, "VolumeFilter", false))

	tests := []struct {
		name    string
		kind    OperationKind
		opName  string
		params  *Params
		fields  []string
		want    string
	}{
		{
			name:   "no params no fields",
			kind:   KindMutation,
			opName: "logout",
			want:   "mutation{logout}",
		},
		{
			name:   "fields only",
			kind:   KindQuery,
			opName: "loginStatus",
			fields: []string{"organization", "username"},
			want:   "query{loginStatus{organization,username}}",
		},
		{
			name:   "params only",
			kind:   KindMutation,
			opName: "deleteKeyValue",
			params: NewParams().Set("input", NewParam("x", "DeleteKeyValueInput", true)),
			want:   "mutation($input:DeleteKeyValueInput!){deleteKeyValue(input: $input)}",
		},
		{
			name:   "params and fields",
			kind:   KindQuery,
			opName: "getVolumes",
			params: withParams,
			fields: []string{"uuid", "name"},
			want:   "query($uuid:UUID!,$filter:VolumeFilter){getVolumes(uuid: $uuid, filter: $filter){uuid,name}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatOperation(tt.kind, tt.opName, tt.params, tt.fields)
			if err != nil {
				t.Fatalf("FormatOperation() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("FormatOperation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func Test_FormatOperation_LoginShape(t *testing.T) {
	params := NewParams().
		Set("username", NewParam("operator", "String", true)).
		Set("password", NewSecretParam("hunter2", "String", true))

	got, err := FormatOperation(KindMutation, "login", params, nil)
	if err != nil {
		t.Fatalf("FormatOperation() error = %v", err)
	}

	const want = "mutation($username:String!,$password:String!){login(username: $username, password: $password)}"
	if got != want {
		t.Errorf("FormatOperation() = %q, want %q", got, want)
	}
}

func Test_FormatOperation_UntypedParam(t *testing.T) {
	params := NewParams().Set("uuid", "not-a-param")

	_, err := FormatOperation(KindQuery, "getVolumes", params, nil)
	if err == nil {
		t.Fatal("expected error for raw value, got nil")
	}
	if !errors.Is(err, ErrUntypedParam) {
		t.Errorf("error = %v, want ErrUntypedParam", err)
	}
}

func Test_FormatOperation_Deterministic(t *testing.T) {
	build := func() *Params {
		return NewParams().
			Set("page", NewParam(1, "PageInput", false)).
			Set("filter", NewParam("f", "Filter", false))
	}

	first, err := FormatOperation(KindQuery, "getHosts", build(), []string{"uuid"})
	if err != nil {
		t.Fatalf("FormatOperation() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := FormatOperation(KindQuery, "getHosts", build(), []string{"uuid"})
		if err != nil {
			t.Fatalf("FormatOperation() error = %v", err)
		}
		if again != first {
			t.Fatalf("iteration %d produced %q, want %q", i, again, first)
		}
	}
}
