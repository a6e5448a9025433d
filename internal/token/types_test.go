package token

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func Test_Issues_Check_Cases(t *testing.T) {
	warning := Issue{SPUSerials: []string{"SPU-1"}, Message: "firmware is outdated"}
	failure := Issue{SPUSerials: []string{"SPU-2"}, Message: "drive missing"}

	tests := []struct {
		name           string
		issues         *Issues
		ignoreWarnings bool
		wantErr        bool
	}{
		{
			name:   "nil issues pass",
			issues: nil,
		},
		{
			name:   "empty issues pass",
			issues: &Issues{},
		},
		{
			name:    "errors always reject",
			issues:  &Issues{Errors: []Issue{failure}},
			wantErr: true,
		},
		{
			name:           "errors reject even when warnings are ignored",
			issues:         &Issues{Errors: []Issue{failure}},
			ignoreWarnings: true,
			wantErr:        true,
		},
		{
			name:    "warnings reject by default",
			issues:  &Issues{Warnings: []Issue{warning}},
			wantErr: true,
		},
		{
			name:           "warnings pass when ignored",
			issues:         &Issues{Warnings: []Issue{warning}},
			ignoreWarnings: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.issues.Check(tt.ignoreWarnings)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Check() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var vErr *ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("error = %T, want *ValidationError", err)
				}
			}
		})
	}
}

func Test_ValidationError_MessageNamesSerials(t *testing.T) {
	err := &ValidationError{
		Errors: []Issue{
			{SPUSerials: []string{"SPU-1", "SPU-2"}, Message: "drive missing"},
			{Message: "pod offline"},
		},
	}

	msg := err.Error()
	for _, substr := range []string{"2 errors", "SPU-1, SPU-2", "drive missing", "pod offline"} {
		if !strings.Contains(msg, substr) {
			t.Errorf("Error() = %q, missing %q", msg, substr)
		}
	}
}

func Test_ParseResponse_FullShape(t *testing.T) {
	raw := []byte(`{
		"token": "opaque-token",
		"waitOn": "volume-uuid",
		"targetIPs": ["10.0.0.1"],
		"dataTargetIPs": ["10.1.0.1", "10.1.0.2"],
		"mustSendTargetDNS": [
			{"controlPortDNS": "spu1.control", "dataPortDNS": ["spu1.data1", "spu1.data2"]}
		],
		"issues": {"warnings": [{"spuSerials": ["SPU-1"], "message": "fan degraded"}], "errors": []}
	}`)

	resp, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}

	if resp.Token != "opaque-token" || resp.WaitOn != "volume-uuid" {
		t.Errorf("token/waitOn = %q/%q", resp.Token, resp.WaitOn)
	}
	if len(resp.MustSendTargets) != 1 || resp.MustSendTargets[0].ControlPortDNS != "spu1.control" {
		t.Errorf("MustSendTargets = %+v", resp.MustSendTargets)
	}
	if resp.Issues == nil || len(resp.Issues.Warnings) != 1 {
		t.Errorf("Issues = %+v, want one warning", resp.Issues)
	}

	wantTargets := []string{"10.0.0.1", "10.1.0.1", "10.1.0.2"}
	if got := resp.Targets(); !reflect.DeepEqual(got, wantTargets) {
		t.Errorf("Targets() = %v, want %v (control IPs before data IPs)", got, wantTargets)
	}
}

func Test_ParseResponse_Empty(t *testing.T) {
	if _, err := ParseResponse(nil); err == nil {
		t.Error("expected error for empty payload")
	}
}

func Test_ResponseFields_NestsSelections(t *testing.T) {
	fields := strings.Join(ResponseFields(), ",")
	for _, substr := range []string{
		"token",
		"waitOn",
		"mustSendTargetDNS{controlPortDNS,dataPortDNS}",
		"issues{warnings{spuSerials,message},errors{spuSerials,message}}",
	} {
		if !strings.Contains(fields, substr) {
			t.Errorf("ResponseFields() = %q, missing %q", fields, substr)
		}
	}
}
