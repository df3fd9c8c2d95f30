package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tourney/internal/middleware"
)

// Logging creates request logging middleware for the API. Requests are
// tagged with the matched route template and tournament ID.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger, routeAttrs)
}

func routeAttrs(r *http.Request) []slog.Attr {
	var attrs []slog.Attr
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			attrs = append(attrs, slog.String("route", tmpl))
		}
	}
	if id, ok := mux.Vars(r)["id"]; ok {
		attrs = append(attrs, slog.String("tournament_id", id))
	}
	return attrs
}
