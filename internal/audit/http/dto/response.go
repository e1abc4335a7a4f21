package dto

import (
	"encoding/base64"
	"time"

	auditDomain "github.com/allisson/docgate/internal/audit/domain"
)

// AuditEntryResponse represents an audit entry in API responses. The signature
// is base64-encoded for transport.
type AuditEntryResponse struct {
	ID         string         `json:"id"`
	ActorID    string         `json:"actor_id"`
	Action     string         `json:"action"`
	ObjectKind string         `json:"object_kind"`
	ObjectID   string         `json:"object_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Signature  string         `json:"signature,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// MapAuditEntryToResponse converts a domain audit entry to an API response.
func MapAuditEntryToResponse(entry *auditDomain.AuditEntry) AuditEntryResponse {
	response := AuditEntryResponse{
		ID:         entry.ID.String(),
		ActorID:    entry.ActorID.String(),
		Action:     entry.Action,
		ObjectKind: entry.ObjectKind,
		ObjectID:   entry.ObjectID,
		Metadata:   entry.Metadata,
		CreatedAt:  entry.CreatedAt,
	}

	if entry.Signature != nil {
		response.Signature = base64.StdEncoding.EncodeToString(entry.Signature)
	}

	return response
}

// ListAuditEntriesResponse represents a list of audit entries in API responses.
type ListAuditEntriesResponse struct {
	Data   []AuditEntryResponse `json:"data"`
	Offset int                  `json:"offset"`
	Limit  int                  `json:"limit"`
}

// MapAuditEntriesToListResponse converts domain audit entries to a list API response.
func MapAuditEntriesToListResponse(
	entries []*auditDomain.AuditEntry,
	offset, limit int,
) ListAuditEntriesResponse {
	entryResponses := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		entryResponses = append(entryResponses, MapAuditEntryToResponse(entry))
	}
	return ListAuditEntriesResponse{
		Data:   entryResponses,
		Offset: offset,
		Limit:  limit,
	}
}
