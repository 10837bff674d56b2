// Package session is the Session/Token Manager: it mints session identifiers
// with their bearer and refresh tokens, and owns the two Redis indexes that
// make a session claimable and refreshable.
//
// # Keyspace
//
//	<prefix>:accountsBySession:<sessionId>        -> email (short TTL)
//	<prefix>:accountsByRefreshSession:<sessionId> -> email (long TTL)
//
// # Architecture boundaries
//
// This package never reads or writes account records. Minted tokens are
// returned in plaintext exactly once; the caller hashes and persists them.
//
// # What this package must NOT do
//
//   - Import goSSO, account, or ticket (no upward imports).
//   - Store plaintext tokens in Redis.
package session
