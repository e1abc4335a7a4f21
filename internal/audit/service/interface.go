// Package service provides audit entry signing.
package service

import (
	auditDomain "github.com/allisson/docgate/internal/audit/domain"
)

// EntrySigner signs and verifies audit entries so tampering with the audit
// trail is detectable. The signing key is derived from the configured key,
// keeping the configured key itself out of the MAC computation.
type EntrySigner interface {
	// Sign computes the signature for an entry. The Signature field is ignored
	// as input.
	Sign(signingKey []byte, entry *auditDomain.AuditEntry) ([]byte, error)

	// Verify checks an entry's signature against its content. Returns
	// ErrSignatureInvalid when the signature does not match.
	Verify(signingKey []byte, entry *auditDomain.AuditEntry) error
}
