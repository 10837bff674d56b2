// Package account is the Account Directory: Redis-backed account records keyed
// by email plus a username uniqueness index.
//
// # Keyspace
//
//	<prefix>:accounts:<email>              -> encoded Account (no TTL)
//	<prefix>:accountsByUsername:<username> -> email (no TTL)
//
// # Concurrency
//
// Register and Update are optimistic transactions: the touched keys are
// WATCHed, preconditions are checked against the watched values, and the
// writes are queued in a single MULTI. A concurrent writer causes a bounded
// retry rather than a lost update.
//
// # What this package must NOT do
//
//   - Hash or verify credentials; callers hand in hashes.
//   - Touch ticket or session-index keys.
//   - Delete accounts.
package account
