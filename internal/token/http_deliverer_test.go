package token

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// newTLSDeliverer starts a TLS test server with the given handler and
// returns a deliverer trusting its certificate plus the bare target
// (host:port) to deliver to.
func newTLSDeliverer(t *testing.T, handler http.HandlerFunc) (*HTTPDeliverer, string) {
	t.Helper()
	srv := httptest.NewTLSServer(handler)
	t.Cleanup(srv.Close)

	d := &HTTPDeliverer{httpClient: srv.Client()}
	return d, strings.TrimPrefix(srv.URL, "https://")
}

func Test_HTTPDeliverer_Deliver_PlainOK(t *testing.T) {
	var gotMethod, gotBody string
	d, target := newTLSDeliverer(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		_, _ = w.Write([]byte("OK"))
	})

	ack, err := d.Deliver(context.Background(), target, "opaque-token")
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotBody != "opaque-token" {
		t.Errorf("body = %q, want the raw token", gotBody)
	}
	if ack.Target != target {
		t.Errorf("ack.Target = %q, want %q", ack.Target, target)
	}
	if ack.RecipeUUID != "" || len(ack.Individual) != 0 {
		t.Errorf("ack = %+v, want bare v1 acknowledgement", ack)
	}
}

func Test_HTTPDeliverer_Deliver_QuotedOK(t *testing.T) {
	d, target := newTLSDeliverer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"OK"`))
	})

	ack, err := d.Deliver(context.Background(), target, "tok")
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if ack.RecipeUUID != "" {
		t.Errorf("ack = %+v, want bare acknowledgement", ack)
	}
}

func Test_HTTPDeliverer_Deliver_JSONAck(t *testing.T) {
	d, target := newTLSDeliverer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"recipe_uuid_to_wait_on": "recipe-1",
			"npod_uuid_to_wait_on": "npod-1",
			"individual_recipes": [{"recipe_uuid_to_wait_on": "child-1"}]
		}`))
	})

	ack, err := d.Deliver(context.Background(), target, "tok")
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if ack.RecipeUUID != "recipe-1" || ack.NPodUUID != "npod-1" {
		t.Errorf("ack ref = %q/%q, want recipe-1/npod-1", ack.RecipeUUID, ack.NPodUUID)
	}
	if len(ack.Individual) != 1 || ack.Individual[0].RecipeUUID != "child-1" {
		t.Errorf("Individual = %+v, want one child recipe", ack.Individual)
	}
	if ack.Target != target {
		t.Errorf("ack.Target = %q, want the delivery target", ack.Target)
	}
}

func Test_HTTPDeliverer_Deliver_Refusal(t *testing.T) {
	d, target := newTLSDeliverer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("busy"))
	})

	_, err := d.Deliver(context.Background(), target, "tok")
	if err == nil {
		t.Fatal("expected refusal error")
	}
	for _, substr := range []string{target, "503", "busy"} {
		if !strings.Contains(err.Error(), substr) {
			t.Errorf("error = %q, missing %q", err.Error(), substr)
		}
	}
}

func Test_HTTPDeliverer_Deliver_MalformedAck(t *testing.T) {
	d, target := newTLSDeliverer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("maybe"))
	})

	if _, err := d.Deliver(context.Background(), target, "tok"); err == nil {
		t.Error("expected parse error for non-OK non-JSON body")
	}
}

func Test_NewHTTPDeliverer_DefaultTimeout(t *testing.T) {
	d := NewHTTPDeliverer(0)
	if d.httpClient.Timeout != defaultDeliveryTimeout {
		t.Errorf("timeout = %s, want default", d.httpClient.Timeout)
	}
	d = NewHTTPDeliverer(30 * time.Second)
	if d.httpClient.Timeout != 30*time.Second {
		t.Errorf("timeout = %s, want 30s", d.httpClient.Timeout)
	}
}
