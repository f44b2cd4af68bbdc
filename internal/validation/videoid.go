package validation

import "regexp"

// videoIDPattern matches the canonical 11-character YouTube video identifier.
var videoIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)

// ValidVideoID reports whether id is a syntactically valid YouTube video ID.
// Validation happens at the HTTP boundary; the extraction engine assumes
// its input already passed this check.
func ValidVideoID(id string) bool {
	return videoIDPattern.MatchString(id)
}

// WatchURL builds the canonical watch URL for a validated video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
