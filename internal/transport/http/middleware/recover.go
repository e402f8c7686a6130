package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/mandalnilabja/chatrelay/internal/types"
)

// Recover turns a panic in a handler into a JSON 500 so no fault escapes the
// handler boundary. A handler that already wrote its headers keeps them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					logger.Error("panic recovered in handler",
						"panic", rec,
						"path", r.URL.Path,
						"request_id", GetRequestID(r.Context()),
						"stack", string(debug.Stack()),
					)
					// Once the status line is out the response can only be cut short.
					if !rw.wroteHeader {
						types.WriteJSON(w, http.StatusInternalServerError, types.ErrorResponse{Error: "Internal server error"})
					}
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
