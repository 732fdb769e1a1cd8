package detect

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/kazu728/reauthfi/internal/errors"
	"github.com/kazu728/reauthfi/internal/util"
)

// maxBodyBytes bounds how much of a probe response is read for classification.
const maxBodyBytes = 1 << 20

var metaRefreshPattern = regexp.MustCompile(`(?i)content\s*=\s*["']?\d+\s*;\s*url\s*=\s*([^"'\s>]+)`)

// Target is one URL to probe.
type Target struct {
	Name string
	URL  string
	// ExpectedStatus, when set, is the status that proves clear internet access.
	ExpectedStatus *int
	// AllowMetaRefresh enables portal detection through <meta http-equiv="refresh">.
	// Only gateway-relative probes set it.
	AllowMetaRefresh bool
}

// OutcomeKind enumerates how a single probe was classified.
type OutcomeKind int

const (
	OutcomeMismatch OutcomeKind = iota
	OutcomePortal
	OutcomeExpectedOK
	OutcomeIssue
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomePortal:
		return "portal"
	case OutcomeExpectedOK:
		return "ok"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeIssue:
		return "issue"
	default:
		return "unknown"
	}
}

// FailureKind refines an OutcomeIssue.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureTimeout
	FailureConnect
	FailureOther
	FailureBody
)

// Outcome is the classification of one probe.
type Outcome struct {
	Kind OutcomeKind
	// PortalURL is set for OutcomePortal.
	PortalURL string
	// Status is set for OutcomeMismatch.
	Status int
	// Message is set for OutcomeIssue.
	Message string
	Failure FailureKind
	// Err is the transport error behind an issue. Timeouts are wrapped in
	// an *errors.TimeoutError.
	Err error
}

// Portal returns an OutcomePortal.
func Portal(url string) Outcome { return Outcome{Kind: OutcomePortal, PortalURL: url} }

// ExpectedOK returns an OutcomeExpectedOK.
func ExpectedOK() Outcome { return Outcome{Kind: OutcomeExpectedOK} }

// Mismatch returns an OutcomeMismatch for status.
func Mismatch(status int) Outcome { return Outcome{Kind: OutcomeMismatch, Status: status} }

// Issue returns an OutcomeIssue carrying message.
func Issue(message string, failure FailureKind) Outcome {
	return Outcome{Kind: OutcomeIssue, Message: message, Failure: failure}
}

// Response holds the values of an HTTP response that classification needs.
type Response struct {
	Status   int
	Location string
	Body     string
	// BodyRead distinguishes an empty body from one that was never read.
	BodyRead bool
}

// Classify maps a recorded response to an Outcome. It is pure: the same
// target and response always yield the same outcome. The first matching
// rule wins:
//
//  1. a 3xx with a Location header is a portal
//  2. the expected status, when configured, is success
//  3. a meta refresh to an http(s) URL is a portal, if allowed
//  4. without an expected status, a body containing "success" is success
//  5. anything else is a status mismatch
func Classify(target Target, resp Response) Outcome {
	if isRedirect(resp.Status) && resp.Location != "" {
		return Portal(resp.Location)
	}

	if target.ExpectedStatus != nil && *target.ExpectedStatus == resp.Status {
		return ExpectedOK()
	}

	if resp.BodyRead {
		if target.AllowMetaRefresh {
			if url, ok := ExtractMetaRefresh(resp.Body); ok {
				return Portal(url)
			}
		}
		if target.ExpectedStatus == nil && strings.Contains(strings.ToLower(resp.Body), "success") {
			return ExpectedOK()
		}
	}

	return Mismatch(resp.Status)
}

// ClassifyHTTP records resp and classifies it. The body is read only for 2xx
// responses when it can influence the result, and resp.Body is always closed.
func ClassifyHTTP(target Target, resp *http.Response) Outcome {
	defer resp.Body.Close()

	recorded := Response{Status: resp.StatusCode}
	if isRedirect(resp.StatusCode) {
		recorded.Location = redirectLocation(resp)
	}

	if shouldReadBody(target, resp.StatusCode) {
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return Issue(fmt.Sprintf("%s: failed to read body", target.Name), FailureBody)
		}
		recorded.Body = string(body)
		recorded.BodyRead = true
	}

	return Classify(target, recorded)
}

// ClassifyError maps a transport failure to an OutcomeIssue.
func ClassifyError(target Target, err error, timeout time.Duration) Outcome {
	var o Outcome
	switch {
	case isTimeout(err):
		o = Issue(fmt.Sprintf("%s: timeout (%ds)", target.Name, util.Seconds(timeout)), FailureTimeout)
		err = errors.NewTimeoutError(target.Name, timeout).WithCause(err)
	case isConnect(err):
		o = Issue(fmt.Sprintf("%s: connect error", target.Name), FailureConnect)
	default:
		o = Issue(fmt.Sprintf("%s: error %v", target.Name, err), FailureOther)
	}
	o.Err = err
	return o
}

// ExtractMetaRefresh returns the URL of a meta refresh directive in html.
// Only absolute http(s) URLs are accepted.
func ExtractMetaRefresh(html string) (string, bool) {
	m := metaRefreshPattern.FindStringSubmatch(html)
	if len(m) < 2 || !strings.HasPrefix(m[1], "http") {
		return "", false
	}
	return m[1], true
}

// redirectLocation returns the Location header, resolved against the
// request URL when it is relative.
func redirectLocation(resp *http.Response) string {
	raw := resp.Header.Get("Location")
	if raw == "" || resp.Request == nil {
		return raw
	}
	if u, err := resp.Location(); err == nil {
		return u.String()
	}
	return raw
}

func isRedirect(status int) bool {
	return status >= 300 && status < 400
}

func shouldReadBody(target Target, status int) bool {
	success := status >= 200 && status < 300
	return success && (target.AllowMetaRefresh || target.ExpectedStatus == nil)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnect(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
