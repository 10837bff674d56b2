// Package ticket is the Ticket Manager: one-time SSO handoff tickets stored in
// Redis under <prefix>:tickets:<ticketId>.
//
// A ticket moves through three states. Transitions are only ever applied
// through a watched transaction, so two concurrent callers can never both move
// the same ticket out of the same state.
//
//	Unused --MarkUsed--> Used --Consume--> Consumed (deleted)
//
// Expiry is enforced by the key TTL alone: Create sets the ticket duration,
// MarkUsed replaces it with the shorter claim window. An expired ticket is
// indistinguishable from one that never existed.
package ticket
