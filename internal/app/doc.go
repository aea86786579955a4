// Package app wires the dashboard service together and runs it.
//
// NewApplication loads configuration, initializes the process logger and
// OpenTelemetry, then builds the session store, the websocket hub, the
// dashboard and health services and the chi router. Run serves until
// SIGINT or SIGTERM and shuts down in order: HTTP server, session sweeper,
// websocket hub, telemetry providers.
//
// Routing:
//
//	/ws          session event stream, outside the request timeout
//	/api/...     JSON API under the full middleware chain
//	/metrics     Prometheus scrape
//	/            embedded dashboard page
//
// Errors during construction are returned to the caller; the package never
// calls os.Exit.
package app
