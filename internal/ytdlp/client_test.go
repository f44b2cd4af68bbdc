package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewClient_DefaultsToPath(t *testing.T) {
	c := NewClient("")
	if c.binaryPath != "yt-dlp" {
		t.Errorf("expected default binary path 'yt-dlp', got %q", c.binaryPath)
	}
}

func TestRun_CapturesStdout(t *testing.T) {
	// Stand in for yt-dlp with a binary that echoes its arguments.
	c := NewClient("echo")

	out, err := c.Run(context.Background(), 5*time.Second, "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello" {
		t.Errorf("expected 'hello', got %q", out)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	c := NewClient("false")

	_, err := c.Run(context.Background(), 5*time.Second)
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("non-zero exit should not report as timeout")
	}
}

func TestRun_Timeout(t *testing.T) {
	c := NewClient("sleep")

	_, err := c.Run(context.Background(), 50*time.Millisecond, "2")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestVersion_EmptyOutput(t *testing.T) {
	// Stand in for yt-dlp with a script that exits 0 without printing
	// anything, regardless of arguments (GNU `true --version` prints a
	// version string).
	script := filepath.Join(t.TempDir(), "noop.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	c := NewClient(script)

	_, err := c.Version(context.Background(), time.Second)
	if err == nil {
		t.Fatal("expected error for empty version output")
	}
}
