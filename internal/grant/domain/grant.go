// Package domain defines the capability-grant domain model.
//
// A grant is a short-lived bearer credential: possession of its token value
// authorizes exactly one scoped action (uploading a document, reading a folder,
// executing a workflow step) without a full user session. Grants are immutable
// after issuance and disappear by revocation or lazy expiry eviction.
package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Kind classifies the action a grant authorizes.
type Kind string

const (
	// DocumentUploadKind authorizes submitting document files.
	DocumentUploadKind Kind = "document_upload"

	// FolderAccessKind authorizes reading a folder's contents.
	FolderAccessKind Kind = "folder_access"

	// WorkflowActionKind authorizes executing one workflow step.
	WorkflowActionKind Kind = "workflow_action"
)

// Valid reports whether the kind is one of the known grant kinds.
func (k Kind) Valid() bool {
	switch k {
	case DocumentUploadKind, FolderAccessKind, WorkflowActionKind:
		return true
	}
	return false
}

// Permission is a capability string carried by a grant (e.g. "document.create").
type Permission string

// Well-known permissions checked by the ingestion and access paths.
const (
	DocumentCreatePermission  Permission = "document.create"
	FolderReadPermission      Permission = "folder.read"
	WorkflowExecutePermission Permission = "workflow.execute"
)

// Grant represents an issued capability grant.
//
// The bearer secret itself is never stored: TokenHash holds its SHA-256 and the
// plain value is returned exactly once at issuance. ID is an administrative
// handle that is safe to log and to use in revocation calls.
type Grant struct {
	ID            uuid.UUID
	TokenHash     string
	Kind          Kind
	SubjectUserID uuid.UUID
	Permissions   []Permission
	DocumentID    *uuid.UUID
	FolderID      *uuid.UUID
	WorkflowID    *uuid.UUID
	UploadURL     string
	ExpiresAt     time.Time
	CreatedAt     time.Time
}

// IsExpired reports whether the grant is unusable at the given instant.
// A grant expires strictly after ExpiresAt: at the exact instant it is
// already expired.
func (g *Grant) IsExpired(now time.Time) bool {
	return !g.ExpiresAt.After(now)
}

// HasPermission reports whether the grant carries the given capability string.
func (g *Grant) HasPermission(permission Permission) bool {
	return slices.Contains(g.Permissions, permission)
}

// TargetID returns the target reference matching the grant's kind, or nil when
// the grant carries no target.
func (g *Grant) TargetID() *uuid.UUID {
	switch g.Kind {
	case DocumentUploadKind:
		return g.DocumentID
	case FolderAccessKind:
		return g.FolderID
	case WorkflowActionKind:
		return g.WorkflowID
	}
	return nil
}

// IssueGrantInput contains the parameters for issuing a new grant.
// At most one of DocumentID/FolderID/WorkflowID may be set and it must match Kind.
type IssueGrantInput struct {
	Kind          Kind
	SubjectUserID uuid.UUID
	ExpiresAt     time.Time
	Permissions   []Permission
	DocumentID    *uuid.UUID
	FolderID      *uuid.UUID
	WorkflowID    *uuid.UUID
	UploadURL     string
}

// IssueGrantOutput contains the result of issuing a grant.
// SECURITY: PlainToken is the bearer secret; it is only returned once, must be
// transmitted securely, and is never retrievable again.
type IssueGrantOutput struct {
	Grant      *Grant
	PlainToken string
	// MobileURL is the link carrying the bearer secret, handed to the external
	// code encoder for display. The core never inspects the encoder's output.
	MobileURL string
}
