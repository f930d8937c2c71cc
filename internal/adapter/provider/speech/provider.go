// Package speech forwards audio to the speech-to-text vendor endpoint.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/momsflavor/backend/internal/config"
)

// Provider sends audio to the configured STT endpoint and returns the
// transcript. One attempt per call: the caller retries by re-recording.
type Provider struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// New creates a Provider from config. An empty endpoint is allowed at
// startup; Transcribe then fails with a descriptive error.
func New(cfg config.SpeechConfig, logger *slog.Logger) *Provider {
	return &Provider{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "speech"),
	}
}

type transcriptResponse struct {
	Text string `json:"text"`
}

// Transcribe forwards the audio as multipart form data and returns the
// recognized text.
func (p *Provider) Transcribe(ctx context.Context, filename, contentType string, audio io.Reader) (string, error) {
	if p.endpoint == "" {
		return "", fmt.Errorf("speech vendor is not configured: set SPEECH_ENDPOINT")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("speech: build form: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("speech: copy audio: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("speech: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("speech: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.ErrorContext(ctx, "speech request failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("speech: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("speech: read body: %w", err)
	}

	var parsed transcriptResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("speech: decode json: %w", err)
	}

	p.log.DebugContext(ctx, "speech response", slog.Int("chars", len(parsed.Text)))
	return parsed.Text, nil
}
