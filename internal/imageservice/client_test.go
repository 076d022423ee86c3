package imageservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestResolveIcon(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/image" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("question"); got != "Capital of France?" {
			t.Errorf("unexpected question %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://img.example/q1.png"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	url, err := client.ResolveIcon(context.Background(), "Capital of France?")
	if err != nil {
		t.Fatalf("resolve icon: %v", err)
	}
	if url != "https://img.example/q1.png" {
		t.Fatalf("unexpected url %q", url)
	}
}

func TestResolveIconUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.ResolveIcon(context.Background(), "q"); err == nil {
		t.Fatalf("expected error on upstream 500")
	}
}

func TestResolveIconEmptyURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.ResolveIcon(context.Background(), "q"); err == nil {
		t.Fatalf("expected error on empty url")
	}
}
