package device

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

// scriptDetector replays a fixed sequence of detection results, then
// reports no hits forever.
type scriptDetector struct {
	hits []bool
	errs []error
	i    int
}

func (d *scriptDetector) Process(frame []int16) (bool, error) {
	if d.i >= len(d.hits) {
		return false, nil
	}
	var err error
	if d.i < len(d.errs) {
		err = d.errs[d.i]
	}
	hit := d.hits[d.i]
	d.i++
	return hit, err
}

func (d *scriptDetector) FrameLength() int { return 4 }
func (d *scriptDetector) SampleRate() int  { return 16000 }
func (d *scriptDetector) Close() error     { return nil }

// fakeFrames hands out silent frames and cancels the context after a
// fixed number of reads so Run terminates.
type fakeFrames struct {
	cancel context.CancelFunc
	after  int
	reads  int
}

func (f *fakeFrames) ReadFrame() ([]int16, error) {
	f.reads++
	if f.reads > f.after {
		f.cancel()
		return nil, context.Canceled
	}
	return make([]int16, 4), nil
}

type mockRecorder struct {
	path  string
	err   error
	calls int
}

func (m *mockRecorder) Record(ctx context.Context, d time.Duration) (string, error) {
	m.calls++
	return m.path, m.err
}

type mockBackend struct {
	replyPath string
	err       error
	calls     int

	gotAudioPath string
	gotUserID    string

	healthCalls atomic.Int32
	healthErr   error
}

func (m *mockBackend) Ask(ctx context.Context, audioPath, userID string) (string, error) {
	m.calls++
	m.gotAudioPath = audioPath
	m.gotUserID = userID
	return m.replyPath, m.err
}

func (m *mockBackend) Health(ctx context.Context) error {
	m.healthCalls.Add(1)
	return m.healthErr
}

type mockPlayer struct {
	err   error
	calls int
	got   string
}

func (m *mockPlayer) Play(ctx context.Context, path string) error {
	m.calls++
	m.got = path
	return m.err
}

func runLoop(t *testing.T, detector *scriptDetector, recorder *mockRecorder, backend *mockBackend, player *mockPlayer) (*Loop, []State) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	frames := &fakeFrames{cancel: cancel, after: len(detector.hits)}
	loop := NewLoop(detector, frames, recorder, backend, player, "kid42", 5*time.Second, nil)

	var transitions []State
	loop.OnTransition = func(s State) { transitions = append(transitions, s) }

	if err := loop.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
	return loop, transitions
}

func TestLoopHappyPath(t *testing.T) {
	detector := &scriptDetector{hits: []bool{false, true}}
	recorder := &mockRecorder{path: "question.wav"}
	backend := &mockBackend{replyPath: "reply.wav"}
	player := &mockPlayer{}

	loop, transitions := runLoop(t, detector, recorder, backend, player)

	if recorder.calls != 1 || backend.calls != 1 || player.calls != 1 {
		t.Fatalf("calls = recorder %d, backend %d, player %d, want 1 each",
			recorder.calls, backend.calls, player.calls)
	}
	if backend.gotAudioPath != "question.wav" {
		t.Errorf("backend got audio path %q, want %q", backend.gotAudioPath, "question.wav")
	}
	if backend.gotUserID != "kid42" {
		t.Errorf("backend got user id %q, want %q", backend.gotUserID, "kid42")
	}
	if player.got != "reply.wav" {
		t.Errorf("player got %q, want %q", player.got, "reply.wav")
	}
	if loop.Conversations() != 1 {
		t.Errorf("Conversations() = %d, want 1", loop.Conversations())
	}

	want := []State{StateRecording, StateSending, StatePlaying, StateIdle}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i, s := range want {
		if transitions[i] != s {
			t.Errorf("transition %d = %v, want %v", i, transitions[i], s)
		}
	}
	if loop.State() != StateIdle {
		t.Errorf("final state = %v, want idle", loop.State())
	}
}

func TestLoopRecordFailureReturnsToIdle(t *testing.T) {
	detector := &scriptDetector{hits: []bool{true}}
	recorder := &mockRecorder{err: errors.New("no input device")}
	backend := &mockBackend{}
	player := &mockPlayer{}

	loop, transitions := runLoop(t, detector, recorder, backend, player)

	if backend.calls != 0 {
		t.Errorf("backend called %d times after record failure", backend.calls)
	}
	if player.calls != 0 {
		t.Errorf("player called %d times after record failure", player.calls)
	}
	if loop.State() != StateIdle {
		t.Errorf("final state = %v, want idle", loop.State())
	}
	if transitions[len(transitions)-1] != StateIdle {
		t.Errorf("last transition = %v, want idle", transitions[len(transitions)-1])
	}
}

func TestLoopBackendFailureSkipsPlayback(t *testing.T) {
	detector := &scriptDetector{hits: []bool{true}}
	recorder := &mockRecorder{path: "question.wav"}
	backend := &mockBackend{err: errors.New("connection refused")}
	player := &mockPlayer{}

	loop, _ := runLoop(t, detector, recorder, backend, player)

	if player.calls != 0 {
		t.Errorf("player called %d times after backend failure", player.calls)
	}
	if loop.State() != StateIdle {
		t.Errorf("final state = %v, want idle", loop.State())
	}
}

func TestLoopPlaybackFailureReturnsToIdle(t *testing.T) {
	detector := &scriptDetector{hits: []bool{true}}
	recorder := &mockRecorder{path: "question.wav"}
	backend := &mockBackend{replyPath: "reply.wav"}
	player := &mockPlayer{err: errors.New("no output device")}

	loop, _ := runLoop(t, detector, recorder, backend, player)

	if loop.State() != StateIdle {
		t.Errorf("final state = %v, want idle", loop.State())
	}
	if loop.Conversations() != 1 {
		t.Errorf("Conversations() = %d, want 1", loop.Conversations())
	}
}

func TestLoopIgnoresDetectorErrors(t *testing.T) {
	detector := &scriptDetector{
		hits: []bool{false, false, true},
		errs: []error{nil, errors.New("bad frame"), nil},
	}
	recorder := &mockRecorder{path: "question.wav"}
	backend := &mockBackend{replyPath: "reply.wav"}
	player := &mockPlayer{}

	loop, _ := runLoop(t, detector, recorder, backend, player)

	if loop.Conversations() != 1 {
		t.Errorf("Conversations() = %d, want 1", loop.Conversations())
	}
}

func TestLoopRemovesAudioFiles(t *testing.T) {
	dir := t.TempDir()
	question := filepath.Join(dir, "question.wav")
	reply := filepath.Join(dir, "reply.wav")
	for _, p := range []string{question, reply} {
		if err := os.WriteFile(p, []byte("RIFF"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	detector := &scriptDetector{hits: []bool{true}}
	recorder := &mockRecorder{path: question}
	backend := &mockBackend{replyPath: reply}
	player := &mockPlayer{}

	runLoop(t, detector, recorder, backend, player)

	for _, p := range []string{question, reply} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s still exists after conversation", filepath.Base(p))
		}
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StateIdle:      "idle",
		StateRecording: "recording",
		StateSending:   "sending",
		StatePlaying:   "playing",
		State(99):      "unknown",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
