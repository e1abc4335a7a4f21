// Package service provides technical services for grant issuance.
//
// The bearer secret is the sole credential a mobile client presents, so its
// generation must be unguessable and it is only ever stored as a hash.
package service

// TokenService defines operations for bearer-secret generation and hashing.
// Implementations must use cryptographically secure random generation and a
// fast hashing algorithm suitable for short-lived tokens (e.g., SHA-256).
type TokenService interface {
	// GenerateToken creates a new cryptographically secure random bearer secret.
	// Returns both the plain value (embedded in the handed-out link) and the
	// hashed version (the only form the registry stores).
	GenerateToken() (plainToken string, tokenHash string, error error)

	// HashToken hashes a plain bearer secret using SHA-256.
	// Used for grant validation by comparing hashes.
	HashToken(plainToken string) string
}
