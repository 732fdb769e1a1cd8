package netclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kazu728/reauthfi/internal/errors"
)

func TestNew_RejectsNonPositiveTimeout(t *testing.T) {
	for _, timeout := range []time.Duration{0, -time.Second} {
		if _, err := New(timeout); !errors.Is(err, errors.ErrSetup) {
			t.Errorf("New(%v) error = %v, want ErrSetup", timeout, err)
		}
	}
}

func TestClient_DoesNotFollowRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			t.Error("client followed the redirect")
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	}))
	defer srv.Close()

	client, err := New(5 * time.Second)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer client.Close()

	resp, err := client.Get(context.Background(), srv.URL+"/hotspot-detect.html")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusFound {
		t.Errorf("StatusCode = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want /login", loc)
	}
}

func TestClient_SendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != userAgent {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client, err := New(5 * time.Second)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	resp, err := client.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("StatusCode = %d, want 204", resp.StatusCode)
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client, err := New(100 * time.Millisecond)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	_, err = client.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("Get() should time out")
	}
	var netErr interface{ Timeout() bool }
	if !errors.As(err, &netErr) || !netErr.Timeout() {
		t.Errorf("Get() error = %v, want a timeout error", err)
	}
}

func TestClient_InvalidURL(t *testing.T) {
	client, err := New(time.Second)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := client.Get(context.Background(), "http://[::1"); err == nil {
		t.Error("Get() should reject a malformed URL")
	}
}
