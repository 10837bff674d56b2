// Package goSSO is a ticket-mediated single-sign-on engine. A client creates a
// one-time ticket, logs in against it, and the redirect target exchanges the
// ticket plus the issued bearer token for the account identity exactly once.
// Refresh tokens rotate the session without re-entering a password.
//
// Engine methods are safe to call from multiple goroutines after
// [Builder.Build]. All shared state lives in Redis; every state transition
// that must not race is a WATCH/MULTI compare-and-swap.
//
// # Architecture boundaries
//
// goSSO is the public surface. It exposes [Engine], [Builder], [Config], the
// request/result types and [Secret]. Protocol orchestration lives in
// internal/flows; persistence lives in the account, ticket and session
// packages.
//
// # What this package must NOT do
//
//   - Expose Redis clients or record encodings in its public API.
//   - Log or return plaintext tokens outside a [Secret].
//   - Import any sub-package that re-imports goSSO.
package goSSO
