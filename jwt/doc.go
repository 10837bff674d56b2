// Package jwt signs and verifies the identity assertion handed to a
// destination application after a successful claim. The assertion is a short
// JWT naming the account, so the destination can re-check identity offline
// without calling back into the service.
package jwt
