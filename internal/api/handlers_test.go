package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ytaudio/extractor/internal/config"
	"github.com/ytaudio/extractor/internal/extractor"
)

type fakeEngine struct {
	outcome extractor.Outcome
	called  bool
	gotID   string
}

func (f *fakeEngine) ExtractAudio(ctx context.Context, videoID string) extractor.Outcome {
	f.called = true
	f.gotID = videoID
	return f.outcome
}

type fakeTool struct {
	runOut     string
	runErr     error
	runCalled  bool
	gotArgs    []string
	gotTimeout time.Duration

	version    string
	versionErr error
}

func (f *fakeTool) Run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	f.runCalled = true
	f.gotTimeout = timeout
	f.gotArgs = args
	return f.runOut, f.runErr
}

func (f *fakeTool) Version(ctx context.Context, timeout time.Duration) (string, error) {
	return f.version, f.versionErr
}

func testConfig() *config.Config {
	cfg := &config.Config{ServiceName: "youtube-audio-extractor"}
	cfg.SetExtractionDefaults()
	return cfg
}

func serve(t *testing.T, srv *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rr, req)
	return rr
}

func TestHandleExtract_InvalidID(t *testing.T) {
	invalidIDs := []string{"short", "waytoolongvideoid", "bad!chars@@", "AAAAAAAAAAAA"}

	for _, id := range invalidIDs {
		engine := &fakeEngine{}
		srv := NewServer(testConfig(), engine, &fakeTool{})

		rr := serve(t, srv, "GET", "/extract/"+id)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("id %q: expected status %d, got %d", id, http.StatusBadRequest, rr.Code)
		}
		if engine.called {
			t.Errorf("id %q: engine must not be invoked for invalid IDs", id)
		}
	}
}

func TestHandleExtract_Success(t *testing.T) {
	engine := &fakeEngine{outcome: extractor.Outcome{
		Success:     true,
		AudioURL:    "https://example.com/stream.webm",
		Title:       "A Title",
		Duration:    225,
		Format:      "webm",
		ContentType: "audio/webm",
		Client:      "ios",
	}}
	srv := NewServer(testConfig(), engine, &fakeTool{})

	rr := serve(t, srv, "GET", "/extract/dQw4w9WgXcQ")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if engine.gotID != "dQw4w9WgXcQ" {
		t.Errorf("expected engine to receive the path ID, got %q", engine.gotID)
	}

	var resp ExtractResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.Success || resp.AudioURL != "https://example.com/stream.webm" {
		t.Errorf("unexpected body: %+v", resp)
	}
	if resp.Bitrate != "variable" || resp.Quality != "audio-only" {
		t.Errorf("expected constant bitrate/quality fields, got %+v", resp)
	}
	if resp.Client != "ios" {
		t.Errorf("expected client 'ios', got %q", resp.Client)
	}
}

func TestHandleExtract_Exhausted(t *testing.T) {
	engine := &fakeEngine{outcome: extractor.Outcome{
		Success: false,
		Error:   "extraction failed: invalid or blocked audio URL",
	}}
	srv := NewServer(testConfig(), engine, &fakeTool{})

	rr := serve(t, srv, "GET", "/extract/dQw4w9WgXcQ")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}

	body := rr.Body.String()
	if !strings.Contains(body, `"audio_url":null`) {
		t.Errorf("expected null audio_url in failure body, got %s", body)
	}
	if !strings.Contains(body, "invalid or blocked audio URL") {
		t.Errorf("expected last strategy error in body, got %s", body)
	}
}

func TestHandleInfo_InvalidID(t *testing.T) {
	tool := &fakeTool{}
	srv := NewServer(testConfig(), &fakeEngine{}, tool)

	rr := serve(t, srv, "GET", "/info/nope")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if tool.runCalled {
		t.Error("tool must not be invoked for invalid IDs")
	}
}

func TestHandleInfo_Success(t *testing.T) {
	tool := &fakeTool{runOut: "A Title\n3:45\nA description"}
	srv := NewServer(testConfig(), &fakeEngine{}, tool)

	rr := serve(t, srv, "GET", "/info/dQw4w9WgXcQ")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp InfoResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Title != "A Title" || resp.Duration != 225 || resp.Description != "A description" {
		t.Errorf("unexpected body: %+v", resp)
	}
	if tool.gotTimeout != 15*time.Second {
		t.Errorf("expected 15s info timeout, got %v", tool.gotTimeout)
	}
	if len(tool.gotArgs) == 0 || tool.gotArgs[0] != "--get-title" {
		t.Errorf("unexpected tool args: %v", tool.gotArgs)
	}
}

func TestHandleInfo_DefaultsPerMissingLine(t *testing.T) {
	tests := []struct {
		name     string
		out      string
		wantResp InfoResponse
	}{
		{
			name:     "title only",
			out:      "Just A Title",
			wantResp: InfoResponse{Success: true, Title: "Just A Title", Duration: 0, Description: ""},
		},
		{
			name:     "title and duration",
			out:      "A Title\n1:02:03",
			wantResp: InfoResponse{Success: true, Title: "A Title", Duration: 3723, Description: ""},
		},
		{
			name:     "empty output",
			out:      "",
			wantResp: InfoResponse{Success: true, Title: "unknown title", Duration: 0, Description: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewServer(testConfig(), &fakeEngine{}, &fakeTool{runOut: tt.out})

			rr := serve(t, srv, "GET", "/info/dQw4w9WgXcQ")

			if rr.Code != http.StatusOK {
				t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
			}
			var resp InfoResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp != tt.wantResp {
				t.Errorf("expected %+v, got %+v", tt.wantResp, resp)
			}
		})
	}
}

func TestHandleInfo_VideoNotAccessible(t *testing.T) {
	tool := &fakeTool{runErr: errors.New("yt-dlp failed: ERROR: Private video")}
	srv := NewServer(testConfig(), &fakeEngine{}, tool)

	rr := serve(t, srv, "GET", "/info/dQw4w9WgXcQ")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "video not accessible") {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

func TestHandleHealth_Healthy(t *testing.T) {
	tool := &fakeTool{version: "2025.08.11"}
	srv := NewServer(testConfig(), &fakeEngine{}, tool)

	rr := serve(t, srv, "GET", "/health")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "healthy" || resp.YtDlpVersion != "2025.08.11" {
		t.Errorf("unexpected body: %+v", resp)
	}
	if resp.Service != "youtube-audio-extractor" {
		t.Errorf("expected service name in body, got %q", resp.Service)
	}
	if resp.Timestamp == "" {
		t.Error("expected a timestamp")
	}
}

func TestHandleHealth_Unhealthy(t *testing.T) {
	tool := &fakeTool{versionErr: errors.New("yt-dlp failed: not found")}
	srv := NewServer(testConfig(), &fakeEngine{}, tool)

	rr := serve(t, srv, "GET", "/health")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "unhealthy") {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

func TestUnmatchedRoute(t *testing.T) {
	srv := NewServer(testConfig(), &fakeEngine{}, &fakeTool{})

	rr := serve(t, srv, "GET", "/does-not-exist")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "endpoint not found") {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

type panickyEngine struct{}

func (panickyEngine) ExtractAudio(ctx context.Context, videoID string) extractor.Outcome {
	panic("boom")
}

func TestRecoverer_PanicBecomesGeneric500(t *testing.T) {
	srv := NewServer(testConfig(), panickyEngine{}, &fakeTool{})

	rr := serve(t, srv, "GET", "/extract/dQw4w9WgXcQ")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "internal server error") {
		t.Errorf("unexpected body: %s", body)
	}
	if strings.Contains(body, "boom") {
		t.Error("panic detail must not leak to the caller")
	}
}
