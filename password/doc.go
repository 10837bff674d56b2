// Package password implements the credential hasher used for account passwords,
// ticket claim keys, bearer tokens and refresh tokens.
//
// # Output format
//
// Argon2id hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Bcrypt hashes use the standard modular crypt format ($2a$/$2b$). Inputs longer
// than bcrypt's 72-byte limit are pre-hashed with SHA-256 before bcrypt sees them.
//
// A [Registry] hashes with one primary [Hasher] and verifies any hash whose
// algorithm it recognizes, so a deployment can switch algorithms without
// invalidating stored credentials. [Registry.NeedsUpgrade] reports hashes that
// were produced by a non-primary algorithm or weaker parameters.
//
// # What this package must NOT do
//
//   - Store or retrieve credentials. Callers supply plaintext and receive hashes.
//   - Import any other goSSO package.
//   - Log plaintext secrets or hash parameters at runtime.
package password
