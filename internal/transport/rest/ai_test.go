package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
)

type analyzerMock struct {
	AnalyzeFunc func(ctx context.Context, text string) (json.RawMessage, error)
	OCRFunc     func(ctx context.Context, image []byte, mediaType string) (string, error)
}

func (m *analyzerMock) Analyze(ctx context.Context, text string) (json.RawMessage, error) {
	return m.AnalyzeFunc(ctx, text)
}

func (m *analyzerMock) OCR(ctx context.Context, image []byte, mediaType string) (string, error) {
	return m.OCRFunc(ctx, image, mediaType)
}

type transcriberMock struct {
	TranscribeFunc func(ctx context.Context, filename, contentType string, audio io.Reader) (string, error)
}

func (m *transcriberMock) Transcribe(ctx context.Context, filename, contentType string, audio io.Reader) (string, error) {
	return m.TranscribeFunc(ctx, filename, contentType, audio)
}

type archiverMock struct {
	configured bool
}

func (m *archiverMock) Upload(_ context.Context, _, filename, _ string, _ io.Reader, _ int64) (string, error) {
	return "https://cdn.example.com/audio/" + filename, nil
}

func (m *archiverMock) Configured() bool { return m.configured }

func newAIHandler(ai analyzer, speech transcriber, verbose bool) *AIHandler {
	return NewAIHandler(ai, speech, &archiverMock{}, testLogger(), 10<<20, verbose)
}

// filePart builds a multipart body with a single file part of the given
// field name and content type.
func filePart(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		`form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(data) //nolint:errcheck

	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestAnalyze_Passthrough(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"dishName":"Pho Bo","ingredients":[]}`)
	ai := &analyzerMock{
		AnalyzeFunc: func(_ context.Context, text string) (json.RawMessage, error) {
			if !strings.Contains(text, "beef") {
				t.Errorf("expected request text forwarded, got %q", text)
			}
			return raw, nil
		},
	}
	h := newAIHandler(ai, &transcriberMock{}, false)

	req := httptest.NewRequest(http.MethodPost, "/api/ai/analyze",
		strings.NewReader(`{"text":"a soup with beef bones"}`))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != string(raw) {
		t.Errorf("expected vendor payload passed through verbatim, got %s", rec.Body.String())
	}
}

func TestAnalyze_EmptyText(t *testing.T) {
	t.Parallel()

	h := newAIHandler(&analyzerMock{}, &transcriberMock{}, false)

	req := httptest.NewRequest(http.MethodPost, "/api/ai/analyze",
		strings.NewReader(`{"text":"   "}`))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestAnalyze_UpstreamErrorHidden(t *testing.T) {
	t.Parallel()

	ai := &analyzerMock{
		AnalyzeFunc: func(_ context.Context, _ string) (json.RawMessage, error) {
			return nil, errors.New("vendor: api key rejected")
		},
	}
	h := newAIHandler(ai, &transcriberMock{}, false)

	req := httptest.NewRequest(http.MethodPost, "/api/ai/analyze",
		strings.NewReader(`{"text":"soup"}`))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "api key") {
		t.Error("expected upstream error to be hidden in production mode")
	}
}

func TestAnalyze_UpstreamErrorVerbose(t *testing.T) {
	t.Parallel()

	ai := &analyzerMock{
		AnalyzeFunc: func(_ context.Context, _ string) (json.RawMessage, error) {
			return nil, errors.New("vendor: api key rejected")
		},
	}
	h := newAIHandler(ai, &transcriberMock{}, true)

	req := httptest.NewRequest(http.MethodPost, "/api/ai/analyze",
		strings.NewReader(`{"text":"soup"}`))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "api key rejected") {
		t.Error("expected upstream error exposed in verbose mode")
	}
}

func TestOCR_HappyPath(t *testing.T) {
	t.Parallel()

	ai := &analyzerMock{
		OCRFunc: func(_ context.Context, image []byte, mediaType string) (string, error) {
			if mediaType != "image/jpeg" {
				t.Errorf("expected image/jpeg, got %q", mediaType)
			}
			if len(image) == 0 {
				t.Error("expected image bytes forwarded")
			}
			return "500g flour\n2 eggs", nil
		},
	}
	h := newAIHandler(ai, &transcriberMock{}, false)

	body, contentType := filePart(t, "image", "note.jpg", "image/jpeg", []byte("jpeg bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/ai/ocr", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.OCR(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp ocrResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.Contains(resp.Text, "flour") {
		t.Errorf("expected recognized text, got %q", resp.Text)
	}
}

func TestOCR_UnsupportedType(t *testing.T) {
	t.Parallel()

	h := newAIHandler(&analyzerMock{}, &transcriberMock{}, false)

	body, contentType := filePart(t, "image", "note.pdf", "application/pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/api/ai/ocr", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.OCR(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestOCR_MissingPart(t *testing.T) {
	t.Parallel()

	h := newAIHandler(&analyzerMock{}, &transcriberMock{}, false)

	body, contentType := filePart(t, "wrong", "note.jpg", "image/jpeg", []byte("jpeg bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/ai/ocr", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.OCR(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

func TestSpeech_HappyPath(t *testing.T) {
	t.Parallel()

	speech := &transcriberMock{
		TranscribeFunc: func(_ context.Context, filename, contentType string, audio io.Reader) (string, error) {
			if filename != "memo.m4a" {
				t.Errorf("expected filename memo.m4a, got %q", filename)
			}
			data, _ := io.ReadAll(audio)
			if len(data) == 0 {
				t.Error("expected audio bytes forwarded")
			}
			return "add two spoons of fish sauce", nil
		},
	}
	h := newAIHandler(&analyzerMock{}, speech, false)

	body, contentType := filePart(t, "audio", "memo.m4a", "audio/mp4", []byte("audio bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/ai/speech", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Speech(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp speechResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Text != "add two spoons of fish sauce" {
		t.Errorf("unexpected transcript %q", resp.Text)
	}
}

func TestSpeech_VendorFailure(t *testing.T) {
	t.Parallel()

	speech := &transcriberMock{
		TranscribeFunc: func(_ context.Context, _, _ string, _ io.Reader) (string, error) {
			return "", errors.New("vendor: quota exceeded")
		},
	}
	h := newAIHandler(&analyzerMock{}, speech, false)

	body, contentType := filePart(t, "audio", "memo.m4a", "audio/mp4", []byte("audio bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/ai/speech", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Speech(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
}
