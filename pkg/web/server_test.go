package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bumakids/buma/pkg/pipeline"
	"github.com/bumakids/buma/pkg/responder"
	"github.com/bumakids/buma/pkg/store"
	"github.com/bumakids/buma/pkg/stt"
	"github.com/bumakids/buma/pkg/tts"
)

// statsStore is a no-op store with canned statistics.
type statsStore struct {
	store.Noop
	stats store.UserStats
}

func (s *statsStore) Stats(ctx context.Context, userID string) (*store.UserStats, error) {
	stats := s.stats
	stats.UserID = userID
	return &stats, nil
}

func (s *statsStore) Connected() bool { return true }

// testServer assembles a server with mock collaborators.
func testServer(t *testing.T, st store.Store) (*Server, *stt.Mock, *tts.Mock) {
	t.Helper()

	if st == nil {
		st = store.NewNoop()
	}
	transcriber := stt.NewMock()
	synth := tts.NewMock()
	pipe := pipeline.New(transcriber, responder.NewMock(), synth, st, nil)
	return New(pipe, synth, nil), transcriber, synth
}

// chatRequest builds a multipart /chat request.
func chatRequest(t *testing.T, audio []byte, userID string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if audio != nil {
		part, err := form.CreateFormFile("audio", "question.wav")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		part.Write(audio)
	}
	if userID != "" {
		form.WriteField("user_id", userID)
	}
	form.Close()

	req := httptest.NewRequest(http.MethodPost, "/chat", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return m
}

func TestHealth(t *testing.T) {
	s, _, _ := testServer(t, nil)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeJSON(t, resp)
	if body["status"] != "ok" || body["service"] != ServiceName {
		t.Errorf("unexpected body %v", body)
	}
	if body["db_connected"] != false {
		t.Errorf("db_connected = %v, want false with noop store", body["db_connected"])
	}
}

func TestChatMissingAudio(t *testing.T) {
	s, transcriber, _ := testServer(t, nil)

	resp, err := s.app.Test(chatRequest(t, nil, "kid-1"))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	body := decodeJSON(t, resp)
	if _, ok := body["error"]; !ok {
		t.Error("expected error key in body")
	}
	if transcriber.CallCount() != 0 {
		t.Error("pipeline must not run without audio")
	}
}

func TestChatHappyPath(t *testing.T) {
	s, _, _ := testServer(t, nil)

	resp, err := s.app.Test(chatRequest(t, []byte("RIFF...."), "kid-1"))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("Content-Type = %s, want audio/wav", ct)
	}
	audio, _ := io.ReadAll(resp.Body)
	if len(audio) == 0 {
		t.Error("expected audio bytes")
	}
}

func TestChatPipelineFailure(t *testing.T) {
	s, transcriber, _ := testServer(t, nil)
	transcriber.TranscribeFunc = func(ctx context.Context, audio []byte, filename string) (*stt.Transcription, error) {
		return nil, &stt.APIError{StatusCode: 500, Message: "whisper down"}
	}

	resp, err := s.app.Test(chatRequest(t, []byte("RIFF"), ""))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	body := decodeJSON(t, resp)
	if msg, _ := body["error"].(string); !strings.Contains(msg, "whisper down") {
		t.Errorf("error = %q, want underlying message", msg)
	}
}

func TestStatsWithoutStore(t *testing.T) {
	s, _, _ := testServer(t, nil)

	for _, id := range []string{"kid-1", "anyone"} {
		resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/stats/"+id, nil))
		if err != nil {
			t.Fatalf("Test: %v", err)
		}
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503 for %s", resp.StatusCode, id)
		}
	}
}

func TestStats(t *testing.T) {
	st := &statsStore{stats: store.UserStats{
		TotalConversations: 3,
		Languages:          map[string]int{"fr": 2, "en": 1},
	}}
	s, _, _ := testServer(t, st)

	resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/stats/kid-1", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := decodeJSON(t, resp)
	if body["user_id"] != "kid-1" {
		t.Errorf("user_id = %v", body["user_id"])
	}
	if body["total_conversations"] != float64(3) {
		t.Errorf("total_conversations = %v, want 3", body["total_conversations"])
	}
	languages, _ := body["languages"].(map[string]any)
	if languages["fr"] != float64(2) || languages["en"] != float64(1) {
		t.Errorf("languages = %v", languages)
	}
}

func teachRequestBody(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/teach", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestTeach(t *testing.T) {
	s, _, synth := testServer(t, nil)

	resp, err := s.app.Test(teachRequestBody(t, `{"category":"animals","count":3}`))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "audio/wav" {
		t.Errorf("Content-Type = %s", ct)
	}

	calls := synth.Calls()
	if len(calls) != 1 {
		t.Fatalf("synthesizer called %d times, want 1", len(calls))
	}
	if got := strings.Count(calls[0].Text, "Number "); got != 3 {
		t.Errorf("lesson enumerates %d words, want 3", got)
	}
}

func TestTeachClampsCount(t *testing.T) {
	s, _, synth := testServer(t, nil)

	resp, err := s.app.Test(teachRequestBody(t, `{"category":"colors","count":50}`))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := strings.Count(synth.Calls()[0].Text, "Number "); got != 5 {
		t.Errorf("lesson enumerates %d words, want clamp to 5", got)
	}
}

func TestTeachUnknownCategory(t *testing.T) {
	s, _, synth := testServer(t, nil)

	resp, err := s.app.Test(teachRequestBody(t, `{"category":"martian"}`))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if synth.CallCount() != 0 {
		t.Error("synthesizer must not be called for unknown category")
	}
}

func TestTeachDefaults(t *testing.T) {
	s, _, synth := testServer(t, nil)

	resp, err := s.app.Test(teachRequestBody(t, `{}`))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	script := synth.Calls()[0].Text
	if !strings.Contains(script, "animals") {
		t.Errorf("default category should be animals: %q", script)
	}
	if got := strings.Count(script, "Number "); got != 3 {
		t.Errorf("default count should be 3, got %d", got)
	}
}

func TestTeachSynthesisFailure(t *testing.T) {
	st := store.NewNoop()
	transcriber := stt.NewMock()
	synth := tts.WithError(&tts.ExitError{Code: 2, Stderr: "model not found"})
	pipe := pipeline.New(transcriber, responder.NewMock(), synth, st, nil)
	s := New(pipe, synth, nil)

	resp, err := s.app.Test(teachRequestBody(t, `{"category":"animals"}`))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
	body := decodeJSON(t, resp)
	if msg, _ := body["error"].(string); !strings.Contains(msg, "model not found") {
		t.Errorf("error = %q", msg)
	}
}
