// Package middleware provides net/http guards for applications that receive
// goSSO identity assertions.
//
// [RequireIdentity] reads "Authorization: Bearer <assertion>", verifies it with
// [goSSO.Engine.VerifyAssertion] or any [AssertionVerifier], and stores the
// resulting [goSSO.Identity] in the request context. Verification is offline;
// no store is consulted.
package middleware
