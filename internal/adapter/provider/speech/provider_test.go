package speech

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/momsflavor/backend/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTranscribe(t *testing.T) {
	var gotKey string
	var gotField string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		file, header, err := r.FormFile("media")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		gotField = header.Filename

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "simmer for twenty minutes"}`))
	}))
	defer srv.Close()

	p := New(config.SpeechConfig{
		Endpoint: srv.URL,
		APIKey:   "secret",
		Timeout:  5 * time.Second,
	}, discardLogger())

	text, err := p.Transcribe(context.Background(), "voice.m4a", "audio/mp4", strings.NewReader("fake-audio"))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if text != "simmer for twenty minutes" {
		t.Errorf("transcript = %q, want %q", text, "simmer for twenty minutes")
	}
	if gotKey != "secret" {
		t.Errorf("api key header = %q, want %q", gotKey, "secret")
	}
	if gotField != "voice.m4a" {
		t.Errorf("uploaded filename = %q, want %q", gotField, "voice.m4a")
	}
}

func TestTranscribe_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := New(config.SpeechConfig{Endpoint: srv.URL, Timeout: 5 * time.Second}, discardLogger())

	_, err := p.Transcribe(context.Background(), "voice.m4a", "audio/mp4", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Errorf("Transcribe error = %v, want status 502 error", err)
	}
}

func TestTranscribe_NotConfigured(t *testing.T) {
	p := New(config.SpeechConfig{Timeout: time.Second}, discardLogger())

	_, err := p.Transcribe(context.Background(), "voice.m4a", "audio/mp4", strings.NewReader("x"))
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Errorf("Transcribe error = %v, want configuration error", err)
	}
}
