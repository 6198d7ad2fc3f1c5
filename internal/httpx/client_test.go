package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNormalizeBaseURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://api.moonstream.to/entity", "https://api.moonstream.to/entity"},
		{"https://api.moonstream.to/entity/", "https://api.moonstream.to/entity"},
		{"https://host/x/y///", "https://host/x/y"},
		{"localhost:8787", "http://localhost:8787"},
		{"  http://host  ", "http://host"},
	}
	for _, tc := range cases {
		got, err := NormalizeBaseURL(tc.in)
		if err != nil {
			t.Fatalf("NormalizeBaseURL(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("NormalizeBaseURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}

	if _, err := NormalizeBaseURL("   "); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestDoSendsHeadersAndPreservesSubpath(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/entity", WithBearerToken("secret"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/ping"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if gotPath != "/entity/ping" {
		t.Fatalf("request path = %q, want %q", gotPath, "/entity/ping")
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("Authorization header = %q, want %q", gotAuth, "Bearer secret")
	}
}

func TestDoRawQueryPassthrough(t *testing.T) {
	var gotRawQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRawQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	raw := "q=required_field%3Da%3D1+secondary_field%3Db%3D2&limit=10&offset=0"
	resp, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/search", RawQuery: raw})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if gotRawQuery != raw {
		t.Fatalf("raw query = %q, want %q", gotRawQuery, raw)
	}
}

func TestDoReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"collection not found"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/collections/missing"})
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", httpErr.StatusCode, http.StatusNotFound)
	}
	if httpErr.JSON == nil {
		t.Fatal("expected decoded JSON error body")
	}
}

func TestDoNoRetryByDefault(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/ping"}); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("server saw %d calls, want 1", calls)
	}
}

func TestDoRetryOptIn(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, WithRetryPolicy(RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.Do(context.Background(), &Request{Method: http.MethodGet, Path: "/ping"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()

	if calls != 2 {
		t.Fatalf("server saw %d calls, want 2", calls)
	}
}
