// Package shared holds helpers used across the service's packages.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//   - a slog handler that captures records for assertions
//   - CSV fixtures for price and edit-count uploads
//   - a deterministic price history generator
//
// It must not import business packages other than in its own tests.
package shared
