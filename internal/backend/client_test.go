package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClientDoObject(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sekrit" {
			t.Errorf("unexpected auth header: %q", got)
		}
		if r.Method == http.MethodGet && r.Header.Get("Content-Type") != "" {
			t.Errorf("GET carried a content type: %q", r.Header.Get("Content-Type"))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"action_required":"shop"}`))
	}))
	defer server.Close()

	client, err := New(nil, server.URL, "sekrit", 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	resp, err := client.Get(context.Background(), "/events")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp["action_required"] != "shop" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientDoWrapsList(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"ev1"},{"id":"ev2"}]`))
	}))
	defer server.Close()

	client, err := New(nil, server.URL, "", 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	resp, err := client.Get(context.Background(), "/events")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	items, ok := resp["items"].([]any)
	if !ok || len(items) != 2 {
		t.Fatalf("expected wrapped list, got %+v", resp)
	}
}

func TestClientDoDoubleEncoded(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"{\"coins\": 42}"`))
	}))
	defer server.Close()

	client, err := New(nil, server.URL, "", 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	resp, err := client.Get(context.Background(), "/stats")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp["coins"] != float64(42) {
		t.Fatalf("expected inner JSON decoded, got %+v", resp)
	}
}

func TestClientDoNonJSON(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`ok`))
	}))
	defer server.Close()

	client, err := New(nil, server.URL, "", 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	resp, err := client.Get(context.Background(), "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp["value"] != "ok" {
		t.Fatalf("expected text kept under value, got %+v", resp)
	}
}

func TestClientDoStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`team cannot roll`))
	}))
	defer server.Close()

	client, err := New(nil, server.URL, "", 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Post(context.Background(), "/roll", nil)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusBadRequest || statusErr.Body != "team cannot roll" {
		t.Fatalf("unexpected status error: %+v", statusErr)
	}
	if errors.Is(err, ErrConnection) {
		t.Fatalf("status error must not count as a connection failure")
	}
}

func TestClientDoConnectionError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // deliberately unreachable

	client, err := New(nil, server.URL, "", time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Get(context.Background(), "/events")
	if !errors.Is(err, ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
}

func TestClientCreatedIsSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("POST with payload missing content type")
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"action_required":"complete"}`))
	}))
	defer server.Close()

	client, err := New(nil, server.URL, "", 0)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	resp, err := client.Post(context.Background(), "/roll", map[string]any{"itemId": "x"})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if resp["action_required"] != "complete" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, "  ", "", 0); err == nil {
		t.Fatalf("expected error for empty base url")
	}
}
