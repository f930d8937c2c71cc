package recommend

import (
	"context"
	"encoding/json"
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

func TestNotify(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := New(config.RecommendConfig{ServiceURL: srv.URL, Timeout: 5 * time.Second}, discardLogger())

	err := c.Notify(context.Background(), map[string]string{"event": "diary_saved"})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if got["event"] != "diary_saved" {
		t.Errorf("posted event = %v, want diary_saved", got)
	}
}

func TestNotify_DisabledWithoutURL(t *testing.T) {
	c := New(config.RecommendConfig{Timeout: time.Second}, discardLogger())

	if c.Enabled() {
		t.Fatal("Enabled() = true with empty service URL")
	}
	if err := c.Notify(context.Background(), map[string]string{"event": "x"}); err != nil {
		t.Errorf("Notify on disabled client = %v, want nil", err)
	}
}

func TestNotify_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(config.RecommendConfig{ServiceURL: srv.URL, Timeout: 5 * time.Second}, discardLogger())

	err := c.Notify(context.Background(), map[string]string{"event": "x"})
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Errorf("Notify error = %v, want status 500 error", err)
	}
}
