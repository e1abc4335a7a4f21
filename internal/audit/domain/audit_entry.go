// Package domain defines the audit trail entities.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry records a security-relevant action for compliance review.
// Captures the acting subject, the action taken, and the object it touched.
// The signature is optional; entries written without a configured signing key
// carry a nil signature.
type AuditEntry struct {
	ID         uuid.UUID
	ActorID    uuid.UUID
	Action     string
	ObjectKind string
	ObjectID   string
	Metadata   map[string]any
	Signature  []byte
	CreatedAt  time.Time
}
