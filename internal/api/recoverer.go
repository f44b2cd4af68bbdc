package api

import (
	"log/slog"
	"net/http"

	"github.com/ytaudio/extractor/internal/errors"
)

// Recoverer converts a panic escaping a handler into the generic JSON
// 500 body. Details stay in the server log; nothing internal reaches
// the caller.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("handler panicked",
					"panic", rec,
					"path", r.URL.Path)
				writeError(w, errors.NewInternalError("internal server error", "UNEXPECTED_FAULT", nil))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
