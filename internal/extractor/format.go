package extractor

import "strings"

// ClassifyFormat derives the audio container and content type from the
// stream URL. The checks run in a fixed order and the first match wins;
// a URL matching none of the known markers falls back to generic audio.
func ClassifyFormat(url string) (format, contentType string) {
	switch {
	case strings.Contains(url, "mime=audio%2Fm4a") || strings.Contains(url, ".m4a"):
		return "m4a", "audio/m4a"
	case strings.Contains(url, "mime=audio%2Fwebm") || strings.Contains(url, ".webm"):
		return "webm", "audio/webm"
	case strings.Contains(url, "mime=audio%2Fmp4") || strings.Contains(url, ".mp4"):
		return "mp4", "audio/mp4"
	default:
		return "audio", "audio/mpeg"
	}
}
