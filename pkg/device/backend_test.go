package device

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeQuestion(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "question.wav")
	if err := os.WriteFile(path, []byte("RIFF fake wav"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBackendAsk(t *testing.T) {
	reply := []byte("RIFF reply audio")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("path = %q, want /chat", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("user_id"); got != "kid42" {
			t.Errorf("user_id = %q, want kid42", got)
		}
		f, _, err := r.FormFile("audio")
		if err != nil {
			t.Fatalf("audio file missing: %v", err)
		}
		f.Close()
		w.Header().Set("Content-Type", "audio/wav")
		w.Write(reply)
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, nil)
	path, err := b.Ask(context.Background(), writeQuestion(t), "kid42")
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read reply file: %v", err)
	}
	if string(data) != string(reply) {
		t.Errorf("reply file = %q, want %q", data, reply)
	}
}

func TestBackendAskServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"transcription failed"}`))
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, nil)
	_, err := b.Ask(context.Background(), writeQuestion(t), "kid42")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "transcription failed") {
		t.Errorf("error %q does not carry the backend message", err)
	}
}

func TestBackendAskMissingRecording(t *testing.T) {
	b := NewHTTPBackend("http://localhost:0", nil)
	_, err := b.Ask(context.Background(), "/does/not/exist.wav", "kid42")
	if err == nil {
		t.Fatal("expected error for missing recording")
	}
}

func TestBackendHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %q, want /health", r.URL.Path)
		}
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, nil)
	if err := b.Health(context.Background()); err != nil {
		t.Fatalf("Health() error: %v", err)
	}
}

func TestBackendHealthBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, nil)
	if err := b.Health(context.Background()); err == nil {
		t.Fatal("expected error for 503 response")
	}
}
