package ytdlp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout reports that the yt-dlp process was abandoned at its deadline.
var ErrTimeout = errors.New("yt-dlp timed out")

// Client invokes the local yt-dlp binary.
type Client struct {
	binaryPath string
}

// NewClient creates a client for the given binary path.
// An empty path assumes yt-dlp is available on PATH.
func NewClient(binaryPath string) *Client {
	if binaryPath == "" {
		binaryPath = "yt-dlp"
	}
	return &Client{binaryPath: binaryPath}
}

// Run executes yt-dlp with the given arguments, bounded by timeout, and
// returns trimmed stdout. A non-zero exit returns an error carrying stderr;
// hitting the deadline returns an error wrapping ErrTimeout.
func (c *Client) Run(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binaryPath, args...)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("yt-dlp failed: %s", msg)
	}

	return strings.TrimSpace(out.String()), nil
}

// Version queries the binary's version string, used by the health check.
func (c *Client) Version(ctx context.Context, timeout time.Duration) (string, error) {
	out, err := c.Run(ctx, timeout, "--version")
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", errors.New("yt-dlp returned empty version")
	}
	return out, nil
}
