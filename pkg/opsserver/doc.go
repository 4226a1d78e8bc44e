// Package opsserver serves the bridge's operational HTTP endpoints:
//
//   - GET /health/live  always 200 while the process runs
//   - GET /health       200 when every readiness check passes, 503 otherwise
//   - GET /metrics      Prometheus metrics from the default registry
//
// Server wraps http.Server with graceful shutdown; Router builds the chi
// router for the endpoints above.
//
//	srv := opsserver.New(opsserver.WithAddr(":9090"), opsserver.WithLogger(log))
//	err := srv.Run(ctx, opsserver.Router(log,
//	    opsserver.Check{Name: "control_api", Func: apiClient.Health},
//	))
package opsserver
