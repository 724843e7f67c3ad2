package app

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/voxtray/voxtray/internal/audio"
	"github.com/voxtray/voxtray/internal/config"
	"github.com/voxtray/voxtray/internal/whisper"
)

// Mock implementations for testing
type mockCapture struct{}

func (m *mockCapture) Start(ctx context.Context, deviceID string, sampleRate int, out chan<- []float32) error {
	return nil
}

func (m *mockCapture) Stop() error {
	return nil
}

func (m *mockCapture) ListDevices() ([]audio.AudioDevice, error) {
	return []audio.AudioDevice{{ID: "default", Name: "Default", Default: true}}, nil
}

func (m *mockCapture) Close() error {
	return nil
}

type mockTranscriber struct{}

func (m *mockTranscriber) StartSession(opts whisper.SessionOpts) (whisper.Session, error) {
	return &mockSession{}, nil
}

func (m *mockTranscriber) LoadModel(model string) error {
	return nil
}

func (m *mockTranscriber) Close() error {
	return nil
}

type mockSession struct {
	partialsCh chan string
	finalsCh   chan string
}

func (m *mockSession) Feed(samples []float32) error {
	return nil
}

func (m *mockSession) Partials() <-chan string {
	if m.partialsCh == nil {
		m.partialsCh = make(chan string)
		close(m.partialsCh)
	}
	return m.partialsCh
}

func (m *mockSession) Finals() <-chan string {
	if m.finalsCh == nil {
		m.finalsCh = make(chan string)
		close(m.finalsCh)
	}
	return m.finalsCh
}

func (m *mockSession) Close() error {
	return nil
}

type mockInjector struct{}

func (m *mockInjector) Paste(ctx context.Context, text string) error {
	return nil
}

func (m *mockInjector) Type(ctx context.Context, text string) error {
	return nil
}

func (m *mockInjector) PasteOrType(ctx context.Context, text string) error {
	return nil
}

func testConfig(mode string) *config.Config {
	return &config.Config{
		Mode: mode,
		Audio: config.AudioConfig{
			DeviceID: "default",
		},
		Whisper: config.WhisperConfig{
			Model:       "base.en",
			Language:    "auto",
			Temperature: 0.0,
			Threads:     0,
		},
	}
}

func newTestApp(mode string) *App {
	return New(Config{
		Audio:       &mockCapture{},
		Transcriber: &mockTranscriber{},
		Injector:    &mockInjector{},
		Config:      testConfig(mode),
		Logger:      zerolog.Nop(),
	})
}

// waitStopped polls until dictation has stopped.
func waitStopped(t *testing.T, app *App) {
	t.Helper()
	for i := 0; i < 100; i++ {
		if !app.IsDictating() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("App should have stopped dictating")
}

func TestPushToTalk(t *testing.T) {
	app := newTestApp(config.ModePushToTalk)

	if app.IsDictating() {
		t.Error("App should not be dictating initially")
	}

	// Gesture begins - should start dictating
	app.OnKeyDown()
	if !app.IsDictating() {
		t.Error("App should be dictating after key down")
	}

	// Gesture ends - should stop dictating
	app.OnKeyUp()
	waitStopped(t, app)
}

func TestToggleMode(t *testing.T) {
	app := newTestApp(config.ModeToggle)

	// First gesture - should start dictating
	app.OnKeyDown()
	app.OnKeyUp()
	if !app.IsDictating() {
		t.Error("App should still be dictating after key up in Toggle mode")
	}

	// Second gesture - should stop dictating
	app.OnKeyDown()
	app.OnKeyUp()
	waitStopped(t, app)
}

func TestToggleModeWithModifierTap(t *testing.T) {
	app := newTestApp(config.ModeToggle)

	// A modifiers-only tap arrives as down immediately followed by up; it
	// must flip the session exactly once per tap.
	app.OnKeyDown()
	app.OnKeyUp()
	if !app.IsDictating() {
		t.Error("App should be dictating after first tap")
	}

	app.OnKeyDown()
	app.OnKeyUp()
	waitStopped(t, app)
}

func TestToggleModeIgnoresKeyUp(t *testing.T) {
	app := newTestApp(config.ModeToggle)

	// Key up when not dictating - should do nothing
	app.OnKeyUp()
	if app.IsDictating() {
		t.Error("App should not start dictating on key up")
	}

	app.OnKeyDown()
	if !app.IsDictating() {
		t.Error("App should be dictating after key down")
	}

	// Multiple key ups - should not stop dictating
	app.OnKeyUp()
	app.OnKeyUp()
	app.OnKeyUp()
	if !app.IsDictating() {
		t.Error("App should still be dictating after key ups in Toggle mode")
	}
}

func TestPushToTalkRepeatedDownIsIdempotent(t *testing.T) {
	app := newTestApp(config.ModePushToTalk)

	app.OnKeyDown()
	app.OnKeyDown()
	if !app.IsDictating() {
		t.Error("App should be dictating")
	}
	app.OnKeyUp()
	waitStopped(t, app)
}
