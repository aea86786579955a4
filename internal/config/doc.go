// Package config loads the dashboard service configuration.
//
// # Configuration Sources
//
// Values are resolved in increasing order of precedence:
//
//	1. Default()
//	2. a YAML file: $BTCDASH_CONFIG_FILE, ./config.yaml or ./configs/config.yaml
//	3. environment variables
//
// # Environment Variables
//
// Variables use the BTCDASH prefix followed by the section and field name:
//
//	BTCDASH_SERVER_PORT=8080
//	BTCDASH_SERVER_MAX_UPLOAD_BYTES=33554432
//	BTCDASH_SESSION_TTL=30m
//	BTCDASH_DASHBOARD_DATE_COLUMN=Date
//	BTCDASH_LOGGING_LEVEL=debug
//	BTCDASH_TELEMETRY_TRACING_EXPORTER=stdout
//
// List values such as BTCDASH_SECURITY_ALLOWED_ORIGINS are comma separated.
//
// # Validation
//
// Load rejects out-of-range ports, non-positive timeouts and upload limits,
// unknown log levels or outputs, and a websocket ping period that is not
// shorter than the pong wait.
package config
