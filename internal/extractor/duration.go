package extractor

import (
	"log/slog"
	"strconv"
	"strings"
)

// ParseDuration converts yt-dlp's MM:SS or HH:MM:SS duration text to
// whole seconds. Empty text, the "NA" placeholder and anything
// unparsable map to 0; this never fails.
func ParseDuration(text string) int {
	if text == "" || text == "NA" {
		return 0
	}

	parts := strings.Split(text, ":")

	var seconds int
	switch len(parts) {
	case 2:
		m, errM := strconv.Atoi(parts[0])
		s, errS := strconv.Atoi(parts[1])
		if errM != nil || errS != nil {
			slog.Warn("unparsable duration", "text", text)
			return 0
		}
		seconds = m*60 + s
	case 3:
		h, errH := strconv.Atoi(parts[0])
		m, errM := strconv.Atoi(parts[1])
		s, errS := strconv.Atoi(parts[2])
		if errH != nil || errM != nil || errS != nil {
			slog.Warn("unparsable duration", "text", text)
			return 0
		}
		seconds = h*3600 + m*60 + s
	default:
		return 0
	}

	if seconds < 0 {
		return 0
	}
	return seconds
}
