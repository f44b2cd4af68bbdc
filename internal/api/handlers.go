package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ytaudio/extractor/internal/config"
	"github.com/ytaudio/extractor/internal/errors"
	"github.com/ytaudio/extractor/internal/extractor"
	"github.com/ytaudio/extractor/internal/middleware"
	"github.com/ytaudio/extractor/internal/validation"
)

// Extractor resolves a direct audio URL for a validated video ID.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoID string) extractor.Outcome
}

// Tool is the raw yt-dlp invocation surface used for the lighter
// metadata and health queries that bypass the strategy engine.
type Tool interface {
	Run(ctx context.Context, timeout time.Duration, args ...string) (string, error)
	Version(ctx context.Context, timeout time.Duration) (string, error)
}

type Server struct {
	cfg    *config.Config
	engine Extractor
	tool   Tool
}

func NewServer(cfg *config.Config, engine Extractor, tool Tool) *Server {
	return &Server{
		cfg:    cfg,
		engine: engine,
		tool:   tool,
	}
}

// Routes wires the service endpoints onto a chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(Recoverer)

	r.Get("/health", s.HandleHealth)
	r.Get("/extract/{videoID}", s.HandleExtract)
	r.Get("/info/{videoID}", s.HandleInfo)
	r.NotFound(s.HandleNotFound)

	return r
}

type HealthResponse struct {
	Status       string `json:"status"`
	Service      string `json:"service"`
	YtDlpVersion string `json:"yt_dlp_version"`
	Timestamp    string `json:"timestamp"`
}

type UnhealthyResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	version, err := s.tool.Version(r.Context(), s.cfg.Extraction.HealthTimeout())
	if err != nil {
		appErr := errors.NewToolUnavailableError("yt-dlp not working", "TOOL_UNAVAILABLE", err)
		slog.Error("health check failed", "error", appErr.Error())
		writeJSON(w, appErr.StatusCode, UnhealthyResponse{
			Status: "unhealthy",
			Error:  appErr.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:       "healthy",
		Service:      s.cfg.ServiceName,
		YtDlpVersion: version,
		Timestamp:    time.Now().Format(time.RFC3339),
	})
}

type ExtractResponse struct {
	Success     bool   `json:"success"`
	AudioURL    string `json:"audio_url"`
	Title       string `json:"title"`
	Duration    int    `json:"duration"`
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Bitrate     string `json:"bitrate"`
	Quality     string `json:"quality"`
	Client      string `json:"client"`
}

// ExtractErrorResponse keeps audio_url in the body, always null, so
// callers can read the same field on both paths.
type ExtractErrorResponse struct {
	Success  bool    `json:"success"`
	Error    string  `json:"error"`
	AudioURL *string `json:"audio_url"`
}

func (s *Server) HandleExtract(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	if !validation.ValidVideoID(videoID) {
		s.rejectInvalidID(w, r, videoID)
		return
	}

	outcome := s.engine.ExtractAudio(r.Context(), videoID)
	if !outcome.Success {
		appErr := errors.NewExtractionError(outcome.Error, "ALL_CLIENTS_FAILED", nil)
		writeJSON(w, appErr.StatusCode, ExtractErrorResponse{
			Success: false,
			Error:   appErr.Message,
		})
		return
	}

	writeJSON(w, http.StatusOK, ExtractResponse{
		Success:     true,
		AudioURL:    outcome.AudioURL,
		Title:       outcome.Title,
		Duration:    outcome.Duration,
		Format:      outcome.Format,
		ContentType: outcome.ContentType,
		Bitrate:     "variable",
		Quality:     "audio-only",
		Client:      outcome.Client,
	})
}

type InfoResponse struct {
	Success     bool   `json:"success"`
	Title       string `json:"title"`
	Duration    int    `json:"duration"`
	Description string `json:"description"`
}

func (s *Server) HandleInfo(w http.ResponseWriter, r *http.Request) {
	videoID := chi.URLParam(r, "videoID")
	if !validation.ValidVideoID(videoID) {
		s.rejectInvalidID(w, r, videoID)
		return
	}

	out, err := s.tool.Run(r.Context(), s.cfg.Extraction.InfoTimeout(),
		"--get-title",
		"--get-duration",
		"--get-description",
		"--no-playlist",
		"--quiet",
		validation.WatchURL(videoID),
	)
	if err != nil {
		slog.Warn("info query failed", "video_id", videoID, "error", err.Error())
		writeError(w, errors.NewNotFoundError("video not accessible", "VIDEO_NOT_ACCESSIBLE"))
		return
	}

	// Each field defaults independently when its line is missing.
	resp := InfoResponse{
		Success: true,
		Title:   "unknown title",
	}
	var lines []string
	if out != "" {
		lines = strings.Split(out, "\n")
	}
	if len(lines) > 0 {
		resp.Title = strings.TrimSpace(lines[0])
	}
	if len(lines) > 1 {
		resp.Duration = extractor.ParseDuration(strings.TrimSpace(lines[1]))
	}
	if len(lines) > 2 {
		resp.Description = strings.TrimSpace(lines[2])
	}

	writeJSON(w, http.StatusOK, resp)
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (s *Server) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, errors.NewNotFoundError("endpoint not found", "ENDPOINT_NOT_FOUND"))
}

func (s *Server) rejectInvalidID(w http.ResponseWriter, r *http.Request, videoID string) {
	reqID, _ := middleware.GetRequestID(r.Context())
	slog.Warn("rejected invalid video ID",
		"video_id", videoID,
		"request_id", reqID)
	writeError(w, errors.NewValidationError("invalid YouTube video ID", "INVALID_VIDEO_ID"))
}

// writeError maps a typed application error onto the generic JSON error
// body. Only the operator-facing message leaves the process.
func writeError(w http.ResponseWriter, appErr *errors.AppError) {
	writeJSON(w, appErr.StatusCode, ErrorResponse{
		Success: false,
		Error:   appErr.Message,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err.Error())
	}
}
