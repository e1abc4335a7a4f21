package dto

import (
	"time"

	grantDomain "github.com/allisson/docgate/internal/grant/domain"
)

// IssueGrantResponse contains the result of issuing a grant.
// SECURITY: The token is only returned once; the registry keeps only its hash.
type IssueGrantResponse struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	MobileURL string    `json:"mobile_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// GrantResponse represents a grant in API responses (excludes the token hash).
type GrantResponse struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	SubjectUserID string    `json:"subject_user_id"`
	Permissions   []string  `json:"permissions"`
	DocumentID    string    `json:"document_id,omitempty"`
	FolderID      string    `json:"folder_id,omitempty"`
	WorkflowID    string    `json:"workflow_id,omitempty"`
	UploadURL     string    `json:"upload_url,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// MapGrantToResponse converts a domain grant to an API response.
func MapGrantToResponse(grant *grantDomain.Grant) GrantResponse {
	permissions := make([]string, 0, len(grant.Permissions))
	for _, p := range grant.Permissions {
		permissions = append(permissions, string(p))
	}

	response := GrantResponse{
		ID:            grant.ID.String(),
		Kind:          string(grant.Kind),
		SubjectUserID: grant.SubjectUserID.String(),
		Permissions:   permissions,
		UploadURL:     grant.UploadURL,
		ExpiresAt:     grant.ExpiresAt,
		CreatedAt:     grant.CreatedAt,
	}

	if grant.DocumentID != nil {
		response.DocumentID = grant.DocumentID.String()
	}
	if grant.FolderID != nil {
		response.FolderID = grant.FolderID.String()
	}
	if grant.WorkflowID != nil {
		response.WorkflowID = grant.WorkflowID.String()
	}

	return response
}

// ListGrantsResponse represents a list of grants in API responses.
type ListGrantsResponse struct {
	Data []GrantResponse `json:"data"`
}

// MapGrantsToListResponse converts a slice of domain grants to a list API response.
func MapGrantsToListResponse(grants []*grantDomain.Grant) ListGrantsResponse {
	grantResponses := make([]GrantResponse, 0, len(grants))
	for _, grant := range grants {
		grantResponses = append(grantResponses, MapGrantToResponse(grant))
	}
	return ListGrantsResponse{
		Data: grantResponses,
	}
}
