package stt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewGroqRequiresAPIKey(t *testing.T) {
	_, err := NewGroq()
	if !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestTranscribe(t *testing.T) {
	var gotModel, gotFormat, gotFilename, gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")
		if fhs := r.MultipartForm.File["file"]; len(fhs) > 0 {
			gotFilename = fhs[0].Filename
		}

		json.NewEncoder(w).Encode(map[string]string{
			"text":     "  comment dit-on chat en anglais ?  ",
			"language": "fr",
		})
	}))
	defer srv.Close()

	tr, err := NewGroq(WithAPIKey("test-key"), WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewGroq: %v", err)
	}

	result, err := tr.Transcribe(context.Background(), []byte("RIFF...."), "")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}

	if result.Text != "comment dit-on chat en anglais ?" {
		t.Errorf("expected trimmed text, got %q", result.Text)
	}
	if result.Language != "fr" {
		t.Errorf("expected language fr, got %q", result.Language)
	}
	if gotModel != DefaultModel {
		t.Errorf("expected model %s, got %s", DefaultModel, gotModel)
	}
	if gotFormat != "verbose_json" {
		t.Errorf("expected verbose_json, got %s", gotFormat)
	}
	if gotFilename != "audio.wav" {
		t.Errorf("expected default filename audio.wav, got %s", gotFilename)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected auth header %q", gotAuth)
	}
}

func TestTranscribeDefaultsLanguage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"text": "hello"})
	}))
	defer srv.Close()

	tr, err := NewGroq(WithAPIKey("test-key"), WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewGroq: %v", err)
	}

	result, err := tr.Transcribe(context.Background(), []byte("audio"), "clip.wav")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if result.Language != DefaultLanguage {
		t.Errorf("expected default language %s, got %s", DefaultLanguage, result.Language)
	}
}

func TestTranscribeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limit exceeded"},
		})
	}))
	defer srv.Close()

	tr, err := NewGroq(WithAPIKey("test-key"), WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewGroq: %v", err)
	}

	_, err = tr.Transcribe(context.Background(), []byte("audio"), "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", apiErr.StatusCode)
	}
	if !apiErr.IsRateLimited() {
		t.Error("expected IsRateLimited to be true")
	}
	if apiErr.Message != "rate limit exceeded" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestTranscribeEmptyAudio(t *testing.T) {
	tr, err := NewGroq(WithAPIKey("test-key"))
	if err != nil {
		t.Fatalf("NewGroq: %v", err)
	}
	if _, err := tr.Transcribe(context.Background(), nil, ""); !errors.Is(err, ErrEmptyAudio) {
		t.Fatalf("expected ErrEmptyAudio, got %v", err)
	}
}
