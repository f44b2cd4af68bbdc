package extractor

import "testing"

func TestClassifyFormat(t *testing.T) {
	tests := []struct {
		name            string
		url             string
		wantFormat      string
		wantContentType string
	}{
		{"m4a mime marker", "https://example.com/videoplayback?mime=audio%2Fm4a", "m4a", "audio/m4a"},
		{"m4a extension", "https://example.com/stream.m4a", "m4a", "audio/m4a"},
		{"webm mime marker", "https://example.com/videoplayback?mime=audio%2Fwebm", "webm", "audio/webm"},
		{"webm extension", "https://example.com/stream.webm", "webm", "audio/webm"},
		{"mp4 mime marker", "https://example.com/videoplayback?mime=audio%2Fmp4", "mp4", "audio/mp4"},
		{"mp4 extension", "https://example.com/stream.mp4", "mp4", "audio/mp4"},
		{"unknown", "https://example.com/stream", "audio", "audio/mpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, contentType := ClassifyFormat(tt.url)
			if format != tt.wantFormat || contentType != tt.wantContentType {
				t.Errorf("ClassifyFormat(%q) = (%q, %q), want (%q, %q)",
					tt.url, format, contentType, tt.wantFormat, tt.wantContentType)
			}
		})
	}
}

func TestClassifyFormat_OrderSensitive(t *testing.T) {
	// A URL carrying both markers must resolve by rule order, not by
	// position in the URL.
	format, contentType := ClassifyFormat("https://example.com/stream.webm?fallback=.m4a")
	if format != "m4a" || contentType != "audio/m4a" {
		t.Errorf("expected m4a to win over webm, got (%q, %q)", format, contentType)
	}
}
