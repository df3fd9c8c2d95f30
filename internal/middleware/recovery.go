package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicHandler is a function that handles panics and writes an error response
type PanicHandler func(w http.ResponseWriter, r *http.Request, err any)

// Recovery creates panic recovery middleware with a custom panic handler
func Recovery(logger *slog.Logger, handler PanicHandler, extra ...AttrFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					attrs := []slog.Attr{
						slog.Any("error", err),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
					}
					for _, fn := range extra {
						attrs = append(attrs, fn(r)...)
					}
					logger.LogAttrs(context.Background(), slog.LevelError, "panic recovered", attrs...)

					handler(w, r, err)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
