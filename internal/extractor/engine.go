package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ytaudio/extractor/internal/validation"
)

// FormatSelector prefers opus-in-webm audio, then mp4a-in-m4a, then
// whatever best audio-only stream is left.
const FormatSelector = "bestaudio[ext=webm][acodec=opus]/bestaudio[ext=m4a][acodec^=mp4a]/bestaudio"

// DefaultTimeout bounds a single strategy's yt-dlp invocation.
const DefaultTimeout = 30 * time.Second

// Runner abstracts the external tool invocation so the engine can be
// exercised without a real yt-dlp binary.
type Runner interface {
	Run(ctx context.Context, timeout time.Duration, args ...string) (string, error)
}

// Strategy is one yt-dlp client profile to try. Order in the strategy
// list defines fallback priority.
type Strategy struct {
	Name      string
	ExtraArgs []string
}

// DefaultStrategies returns the client profiles in fallback order: the
// default web client first, then progressively more evasive ones.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "web"},
		{Name: "ios", ExtraArgs: []string{"--extractor-args", "youtube:player_client=ios"}},
		{Name: "mweb", ExtraArgs: []string{"--extractor-args", "youtube:player_client=mweb"}},
	}
}

// Outcome is the result of one extraction request. Exactly one of
// (Success with AudioURL set) or (!Success with Error set) holds.
type Outcome struct {
	Success     bool
	AudioURL    string
	Title       string
	Duration    int
	Format      string
	ContentType string
	Client      string
	Error       string
}

// errRejectedURL marks a candidate that is not an audio stream: some
// client profiles hand back a storyboard or thumbnail URL instead.
var errRejectedURL = errors.New("invalid or blocked audio URL")

// shortOutputError marks a response with fewer stdout lines than the
// three requested fields.
type shortOutputError struct {
	lines int
}

func (e *shortOutputError) Error() string {
	return fmt.Sprintf("unexpected response: %d lines", e.lines)
}

// Engine walks the strategy list against yt-dlp. It holds no mutable
// state; a single value is shared by all requests.
type Engine struct {
	runner     Runner
	strategies []Strategy
	timeout    time.Duration
}

// NewEngine creates an engine. Nil strategies fall back to
// DefaultStrategies; a non-positive timeout falls back to DefaultTimeout.
func NewEngine(runner Runner, strategies []Strategy, timeout time.Duration) *Engine {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Engine{
		runner:     runner,
		strategies: strategies,
		timeout:    timeout,
	}
}

// ExtractAudio resolves a direct audio URL for the given video ID by
// trying each client strategy in order, stopping at the first success.
// The caller is responsible for having validated videoID.
func (e *Engine) ExtractAudio(ctx context.Context, videoID string) Outcome {
	watchURL := validation.WatchURL(videoID)

	var lastErr string
	for _, strategy := range e.strategies {
		slog.Info("attempting extraction",
			"client", strategy.Name,
			"video_id", videoID)

		cand, err := e.attempt(ctx, strategy, watchURL)
		if err != nil {
			slog.Warn("client failed",
				"client", strategy.Name,
				"video_id", videoID,
				"error", err.Error())
			lastErr = err.Error()
			continue
		}

		duration := ParseDuration(cand.durationText)
		format, contentType := ClassifyFormat(cand.audioURL)

		slog.Info("extraction succeeded",
			"client", strategy.Name,
			"title", cand.title,
			"duration_seconds", duration)

		return Outcome{
			Success:     true,
			AudioURL:    cand.audioURL,
			Title:       cand.title,
			Duration:    duration,
			Format:      format,
			ContentType: contentType,
			Client:      strategy.Name,
		}
	}

	slog.Error("all clients failed",
		"video_id", videoID,
		"last_error", lastErr)

	return Outcome{
		Success: false,
		Error:   fmt.Sprintf("extraction failed: %s", lastErr),
	}
}

// candidate holds the three fields parsed from one yt-dlp response.
type candidate struct {
	title        string
	audioURL     string
	durationText string
}

func (e *Engine) attempt(ctx context.Context, strategy Strategy, watchURL string) (candidate, error) {
	args := make([]string, 0, 12+len(strategy.ExtraArgs))
	args = append(args, "--format", FormatSelector)
	args = append(args, strategy.ExtraArgs...)
	args = append(args,
		"--get-url",
		"--get-title",
		"--get-duration",
		"--no-playlist",
		"--no-check-certificates",
		"--prefer-free-formats",
		"--quiet",
		watchURL,
	)

	out, err := e.runner.Run(ctx, e.timeout, args...)
	if err != nil {
		return candidate{}, err
	}

	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		return candidate{}, &shortOutputError{lines: len(lines)}
	}

	// For this flag combination yt-dlp emits title, URL, duration even
	// though the flags request the URL first. Verified against the live
	// tool; do not reorder.
	cand := candidate{
		title:        strings.TrimSpace(lines[0]),
		audioURL:     strings.TrimSpace(lines[1]),
		durationText: strings.TrimSpace(lines[2]),
	}

	if !strings.HasPrefix(cand.audioURL, "http") ||
		strings.Contains(cand.audioURL, "storyboard") ||
		strings.Contains(cand.audioURL, ".jpg") {
		return candidate{}, errRejectedURL
	}

	return cand, nil
}
