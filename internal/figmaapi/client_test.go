package figmaapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient("secret")
	c.BaseURL = srv.URL
	c.HTTPClient = srv.Client()
	c.RetryBase = time.Millisecond
	return c
}

func TestGetFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-FIGMA-TOKEN") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/files/abc" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"name":"Login"}`))
	})

	body, err := c.GetFile(context.Background(), "abc")
	if err != nil {
		t.Fatal(err)
	}
	if string(body) != `{"name":"Login"}` {
		t.Errorf("got %s", body)
	}

	if _, err := c.GetFile(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusNotFound, ErrNotFound},
	}
	for _, tt := range tests {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})
		if _, err := c.GetFile(context.Background(), "abc"); !errors.Is(err, tt.want) {
			t.Errorf("status %d: got %v", tt.status, err)
		}
	}

	if _, err := NewClient("").GetFile(context.Background(), "abc"); !errors.Is(err, ErrNoToken) {
		t.Errorf("expected ErrNoToken, got %v", err)
	}
}

func TestRetryOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})

	if _, err := c.GetFile(context.Background(), "abc"); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}

	t.Run("gives up after max retries", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})
		c.MaxRetries = 1
		if _, err := c.GetFile(context.Background(), "abc"); !errors.Is(err, ErrRateLimited) {
			t.Errorf("expected ErrRateLimited, got %v", err)
		}
	})
}

func TestImageURLs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/abc" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		if q.Get("ids") != "1:2,1:3" || q.Get("format") != "png" || q.Get("scale") != "2" {
			http.Error(w, "bad query "+r.URL.RawQuery, http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"err":null,"images":{"1:2":"https://cdn/1.png","1:3":null}}`))
	})

	urls, err := c.ImageURLs(context.Background(), "abc", []string{"1:2", "1:3"}, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 || urls["1:2"] != "https://cdn/1.png" {
		t.Errorf("got %v", urls)
	}

	empty, err := c.ImageURLs(context.Background(), "abc", nil, "", 0)
	if err != nil || len(empty) != 0 {
		t.Errorf("got %v, %v", empty, err)
	}
}

func TestParseFileURL(t *testing.T) {
	tests := []struct {
		url     string
		key     string
		node    string
		wantErr bool
	}{
		{"https://www.figma.com/design/AbC123/Login?node-id=1-2", "AbC123", "1:2", false},
		{"https://figma.com/file/XyZ/Settings", "XyZ", "", false},
		{"figma.com/design/Key1/branch/Br4nch/Name", "Br4nch", "", false},
		{"https://www.figma.com/design/Key1/branch/Br4nch/Name?node-id=3-4", "Br4nch", "3:4", false},
		{"https://www.figma.com/design/Key1/Name/branch", "Key1", "", false},
		{"https://example.com/design/abc", "", "", true},
		{"https://figma.com/community/abc", "", "", true},
		{"https://figma.com/design", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			key, node, err := ParseFileURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if key != tt.key || node != tt.node {
				t.Errorf("got (%q, %q), want (%q, %q)", key, node, tt.key, tt.node)
			}
		})
	}
}
