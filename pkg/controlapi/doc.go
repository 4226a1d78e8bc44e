// Package controlapi is the HTTP client for the automation service's control
// API: GET /status, GET /missing?limit=N, POST /search {limit} and GET /health.
//
// Each call makes exactly one request bounded by a per-endpoint timeout
// (Timeouts). There are no retries; a Breaker can be attached so that a
// control API that keeps failing is not hammered by repeated commands.
//
// Every failure is wrapped in ErrUpstream. Reason turns such an error into a
// short text that is safe to show to chat users; the full error is meant for
// the server log only.
//
//	client, err := controlapi.New("http://localhost:8765",
//	    controlapi.WithBreaker(controlapi.NewBreaker(5, 1, 30*time.Second)),
//	)
//	status, err := client.Status(ctx)
package controlapi
