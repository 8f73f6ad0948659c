// Package middleware provides the observability layer for lexmart.
//
// # Prometheus Metrics
//
// Metrics is both chi-compatible HTTP middleware and the tooltip.Observer
// handed to the live server, so request traffic and tooltip lifecycle
// counters share one registry:
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r.Use(m.Handler)
//	liveSrv := live.NewServer(live.Config{Observer: m})
//	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// # OpenTelemetry Tracing
//
// Tracing starts a server span per request, continuing any trace carried
// in the incoming headers:
//
//	r.Use(middleware.Tracing(
//	    middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// Handlers reach the span with trace.SpanFromContext(r.Context()).
package middleware
