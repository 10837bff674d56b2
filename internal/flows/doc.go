// Package flows contains the protocol orchestrators behind every Engine
// operation: CreateTicket, Register, Login, ClaimSession and RefreshSession.
//
// Each Run function takes the request fields plus a [Deps] value and returns a
// result carrying either the output or a [FailureKind]. The root Engine maps
// failure kinds to public errors and metrics, so this package never imports it.
//
// # Ordering
//
// Login and RefreshSession perform every read-only check first, then mark the
// ticket used, and only then mutate account and session state. ClaimSession
// clears the bearer token before verifying it, so a wrong guess still burns
// the token.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goSSO (import cycle).
//   - Talk to Redis directly; all I/O goes through the Deps interfaces.
package flows
