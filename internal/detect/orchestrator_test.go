package detect

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/kazu728/reauthfi/internal/logging"
	"github.com/kazu728/reauthfi/internal/testutil"
)

// stubStrategy returns a fixed result and records that it ran.
type stubStrategy struct {
	name   string
	result Result
	ran    *[]string
}

func (s stubStrategy) Name() string { return s.name }

func (s stubStrategy) Detect(context.Context, *Env) Result {
	*s.ran = append(*s.ran, s.name)
	return s.result
}

func TestOrchestrator_Detect(t *testing.T) {
	portal := Result{Kind: PortalFound, PortalURL: "http://portal"}
	noPortal := Result{Kind: NoPortalDetected}
	issuesA := Result{Kind: NetworkIssues, Errors: []string{"gateway_ip"}}
	issuesB := Result{Kind: NetworkIssues, Errors: []string{"Apple: connect error", "Google: connect error"}}

	tests := []struct {
		name    string
		first   Result
		second  Result
		want    PassResult
		wantRan []string
	}{
		{
			name:    "portal in first strategy stops the pass",
			first:   portal,
			second:  issuesB,
			want:    PassResult{Status: StatusCompleted, PortalURL: "http://portal"},
			wantRan: []string{"first"},
		},
		{
			name:    "portal in second strategy after issues",
			first:   issuesA,
			second:  portal,
			want:    PassResult{Status: StatusCompleted, PortalURL: "http://portal"},
			wantRan: []string{"first", "second"},
		},
		{
			name:    "success in either strategy completes",
			first:   issuesA,
			second:  noPortal,
			want:    PassResult{Status: StatusCompleted},
			wantRan: []string{"first", "second"},
		},
		{
			name:    "all issues is network not ready",
			first:   issuesA,
			second:  issuesB,
			want:    PassResult{Status: StatusNetworkNotReady, Errors: []string{"gateway_ip", "Apple: connect error", "Google: connect error"}},
			wantRan: []string{"first", "second"},
		},
		{
			name:    "issues without messages still complete",
			first:   Result{Kind: NetworkIssues},
			second:  Result{Kind: NetworkIssues},
			want:    PassResult{Status: StatusCompleted},
			wantRan: []string{"first", "second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ran []string
			o := NewOrchestrator(&Env{},
				stubStrategy{name: "first", result: tt.first, ran: &ran},
				stubStrategy{name: "second", result: tt.second, ran: &ran},
			)

			got := o.Detect(context.Background())

			if got.Status != tt.want.Status || got.PortalURL != tt.want.PortalURL {
				t.Errorf("Detect() = %+v, want %+v", got, tt.want)
			}
			if !slices.Equal(got.Errors, tt.want.Errors) {
				t.Errorf("Errors = %q, want %q", got.Errors, tt.want.Errors)
			}
			if !slices.Equal(ran, tt.wantRan) {
				t.Errorf("strategies run = %v, want %v", ran, tt.wantRan)
			}
		})
	}
}

func TestPriority(t *testing.T) {
	names := func(ss []Strategy) []string {
		out := make([]string, 0, len(ss))
		for _, s := range ss {
			out = append(out, s.Name())
		}
		return out
	}

	if got := names(Priority(false)); !slices.Equal(got, []string{StrategyStandard, StrategyGateway}) {
		t.Errorf("Priority(false) = %v", got)
	}
	if got := names(Priority(true)); !slices.Equal(got, []string{StrategyGateway, StrategyStandard}) {
		t.Errorf("Priority(true) = %v", got)
	}
}

// Gateway-first with a meta-refresh portal on the gateway never touches the
// well-known endpoints.
func TestOrchestrator_GatewayFirstShortCircuit(t *testing.T) {
	client := testutil.NewFakeClient(map[string]testutil.Reply{
		"http://10.0.0.1/": {Status: 200, Body: `<meta http-equiv="refresh" content="0;url=http://10.0.0.1:8080/login">`},
	})
	env := newEnv(testConfig(), client, gatewayRunner("10.0.0.1"))

	got := NewOrchestrator(env, Priority(true)...).Detect(context.Background())

	if got.PortalURL != "http://10.0.0.1:8080/login" {
		t.Fatalf("PortalURL = %q", got.PortalURL)
	}
	testutil.AssertCalls(t, client.Calls(), []string{"http://10.0.0.1/"})
}

func TestOrchestrator_StandardFirstFallsBackToGateway(t *testing.T) {
	client := testutil.NewFakeClient(map[string]testutil.Reply{
		appleURL:           {Err: connectErr},
		googleURL:          {Err: connectErr},
		"http://10.0.0.1/": {Status: 302, Location: "http://portal.local/"},
	})
	env := newEnv(testConfig(), client, gatewayRunner("10.0.0.1"))

	got := NewOrchestrator(env, Priority(false)...).Detect(context.Background())

	if got.Status != StatusCompleted || got.PortalURL != "http://portal.local/" {
		t.Errorf("Detect() = %+v", got)
	}
}

func TestPassResult_PortalFound(t *testing.T) {
	if (PassResult{}).PortalFound() {
		t.Error("empty pass should not report a portal")
	}
	if !(PassResult{PortalURL: "http://p"}).PortalFound() {
		t.Error("pass with URL should report a portal")
	}
}

func TestStatus_String(t *testing.T) {
	if StatusCompleted.String() != "completed" || StatusNetworkNotReady.String() != "network_not_ready" {
		t.Error("unexpected Status strings")
	}
}

func TestOrchestrator_TagsLogsWithStrategy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reauthfi.log")
	logger, err := logging.NewLogger(logging.Options{Path: path, Level: "debug"})
	if err != nil {
		t.Fatalf("NewLogger() error: %v", err)
	}

	var ran []string
	base := logger.WithPhase("detect")
	env := &Env{Logger: base}
	NewOrchestrator(env,
		stubStrategy{name: StrategyStandard, result: Result{Kind: NetworkIssues, Errors: []string{"Apple: connect error"}}, ran: &ran},
		stubStrategy{name: StrategyGateway, result: Result{Kind: NoPortalDetected}, ran: &ran},
	).Detect(context.Background())
	_ = logger.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var tagged []string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		if entry["msg"] != "strategy finished" {
			continue
		}
		if entry["phase"] != "detect" {
			t.Errorf("phase = %v, want detect", entry["phase"])
		}
		strategy, _ := entry["strategy"].(string)
		tagged = append(tagged, strategy)
	}

	if want := []string{StrategyStandard, StrategyGateway}; !slices.Equal(tagged, want) {
		t.Errorf("strategy tags = %q, want %q", tagged, want)
	}
	if env.Logger != base {
		t.Error("Detect replaced the logger of the shared Env")
	}
	if len(ran) != 2 {
		t.Errorf("ran = %v, want both strategies", ran)
	}
}
