// Package internal contains helper utilities that are private to goSSO,
// chiefly secure random generation for identifiers and one-time secrets.
//
// # Sub-packages
//
//   - cas: optimistic WATCH/MULTI transaction runner with bounded retry
//   - config: process configuration loaded from the environment
//   - flows: flow orchestrators for every Engine operation
//   - logging: slog construction and request-scoped logger propagation
//
// # What this package must NOT do
//
//   - Export types that appear in the public goSSO API.
//   - Be imported by any package outside the goSSO module.
package internal
