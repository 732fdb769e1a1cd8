// Package testutil provides scripted fakes of reauthfi's host-facing
// interfaces (HTTP probes and shell commands) for use in tests.
package testutil

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/kazu728/reauthfi/internal/errors"
)

// Reply is a scripted answer to a single probe.
type Reply struct {
	Status   int
	Location string
	Body     string
	// BodyErr makes reading the body fail.
	BodyErr error
	// Err is returned instead of a response.
	Err error
}

// FakeClient answers probes from a URL-keyed script and records every
// request. Unscripted URLs fail with a connect-like error.
type FakeClient struct {
	mu      sync.Mutex
	replies map[string]Reply
	calls   []string
}

// NewFakeClient creates a FakeClient over replies.
func NewFakeClient(replies map[string]Reply) *FakeClient {
	if replies == nil {
		replies = map[string]Reply{}
	}
	return &FakeClient{replies: replies}
}

// Get implements netclient.NetworkClient.
func (c *FakeClient) Get(_ context.Context, url string) (*http.Response, error) {
	c.mu.Lock()
	c.calls = append(c.calls, url)
	reply, ok := c.replies[url]
	c.mu.Unlock()

	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no scripted reply for %s", url)
	}
	if reply.Err != nil {
		return nil, reply.Err
	}
	return NewResponse(reply), nil
}

// Calls returns the URLs requested so far, in order.
func (c *FakeClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// NewResponse builds an *http.Response from a Reply.
func NewResponse(reply Reply) *http.Response {
	header := http.Header{}
	if reply.Location != "" {
		header.Set("Location", reply.Location)
	}

	var body io.ReadCloser = io.NopCloser(strings.NewReader(reply.Body))
	if reply.BodyErr != nil {
		body = &failingBody{err: reply.BodyErr}
	}

	return &http.Response{
		StatusCode: reply.Status,
		Header:     header,
		Body:       body,
	}
}

type failingBody struct {
	err    error
	closed bool
}

func (b *failingBody) Read([]byte) (int, error) { return 0, b.err }
func (b *failingBody) Close() error             { b.closed = true; return nil }

// Output is a scripted command result.
type Output struct {
	Stdout string
	Err    error
}

// FakeRunner answers commands from a script keyed by the space-joined argv
// and records every invocation. Unscripted commands exit with status 127.
type FakeRunner struct {
	mu      sync.Mutex
	outputs map[string]Output
	calls   []string
}

// NewFakeRunner creates a FakeRunner over outputs.
func NewFakeRunner(outputs map[string]Output) *FakeRunner {
	if outputs == nil {
		outputs = map[string]Output{}
	}
	return &FakeRunner{outputs: outputs}
}

// Run implements shell.Runner.
func (r *FakeRunner) Run(_ context.Context, argv ...string) (string, error) {
	key := strings.Join(argv, " ")

	r.mu.Lock()
	r.calls = append(r.calls, key)
	out, ok := r.outputs[key]
	r.mu.Unlock()

	if !ok {
		return "", errors.NewCommandError(argv, 127, "command not found")
	}
	return out.Stdout, out.Err
}

// Calls returns the commands run so far, in order.
func (r *FakeRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// AssertCalls fails t unless got equals want element-wise.
func AssertCalls(t *testing.T, got, want []string) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("calls = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, got[i], want[i])
		}
	}
}
