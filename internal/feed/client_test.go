package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchActivity_QueryAndDecode(t *testing.T) {
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/activity" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = map[string]string{
			"limit":         q.Get("limit"),
			"sortBy":        q.Get("sortBy"),
			"sortDirection": q.Get("sortDirection"),
			"user":          q.Get("user"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"transactionHash":"0x1"},{"transactionHash":"0x2"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	items, err := c.FetchActivity(context.Background(), "0xabc", 100)
	if err != nil {
		t.Fatalf("FetchActivity: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got=%d", len(items))
	}
	if string(items[0]) != `{"transactionHash":"0x1"}` {
		t.Fatalf("expected verbatim item bytes, got=%s", items[0])
	}

	want := map[string]string{
		"limit":         "100",
		"sortBy":        "TIMESTAMP",
		"sortDirection": "DESC",
		"user":          "0xabc",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Fatalf("expected %s=%s, got=%s", k, v, gotQuery[k])
		}
	}
}

func TestFetchActivity_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FetchActivity(context.Background(), "0xabc", 10)
	if !errors.Is(err, ErrStatus) {
		t.Fatalf("expected ErrStatus, got=%v", err)
	}
}

func TestFetchActivity_NotAnArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.FetchActivity(context.Background(), "0xabc", 10)
	if !errors.Is(err, ErrShape) {
		t.Fatalf("expected ErrShape, got=%v", err)
	}
}
