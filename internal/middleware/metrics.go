package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// RequestObserver records one served request
type RequestObserver interface {
	ObserveRequest(route, method string, code int, elapsed time.Duration)
}

// Metrics reports every request to observer, labelled by its route
// template so IDs do not explode label cardinality
func Metrics(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := NewResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			observer.ObserveRequest(routeTemplate(r), r.Method, wrapped.Status(), time.Since(start))
		})
	}
}

func routeTemplate(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return "unmatched"
	}
	return tpl
}
