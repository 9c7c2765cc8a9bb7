// Copyright (c) 2026 TrustVoice. All rights reserved.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/go-chi/chi/v5"
)

// # Prometheus Instrumentation

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trustvoice_http_requests_total",
		Help: "Total HTTP requests processed, partitioned by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trustvoice_http_request_duration_seconds",
		Help:    "HTTP request latency distribution.",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5},
	}, []string{"method", "route"})
)

// Metrics records request counts and latencies for every route.
//
// # Label Cardinality
//
// The route label uses the chi route PATTERN (e.g. "/api/v1/donations/{donationID}/receipt"),
// never the raw URL path, so that per-ID paths do not explode the label space.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()

			wrappedWriter := chimw.NewWrapResponseWriter(writer, request.ProtoMajor)
			next.ServeHTTP(wrappedWriter, request)

			route := "unmatched"
			if routeCtx := chi.RouteContext(request.Context()); routeCtx != nil {
				if pattern := routeCtx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			httpRequestsTotal.WithLabelValues(
				request.Method,
				route,
				strconv.Itoa(wrappedWriter.Status()),
			).Inc()

			httpRequestDuration.WithLabelValues(
				request.Method,
				route,
			).Observe(time.Since(startTime).Seconds())
		})
	}
}
