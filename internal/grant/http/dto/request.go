// Package dto provides data transfer objects for grant HTTP request and response handling.
package dto

import (
	"time"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"
	"github.com/jellydator/validation/is"

	grantDomain "github.com/allisson/docgate/internal/grant/domain"
	customValidation "github.com/allisson/docgate/internal/validation"
)

// IssueGrantRequest contains the parameters for issuing a new capability grant.
// At most one of DocumentID/FolderID/WorkflowID may be set and it must match Kind;
// the use case enforces the cross-field rules.
type IssueGrantRequest struct {
	Kind          string    `json:"kind"`
	SubjectUserID string    `json:"subject_user_id"`
	Permissions   []string  `json:"permissions"`
	DocumentID    string    `json:"document_id,omitempty"`
	FolderID      string    `json:"folder_id,omitempty"`
	WorkflowID    string    `json:"workflow_id,omitempty"`
	UploadURL     string    `json:"upload_url,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Validate checks if the issue grant request is valid.
func (r *IssueGrantRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Kind,
			validation.Required,
			validation.In("document_upload", "folder_access", "workflow_action"),
		),
		validation.Field(&r.SubjectUserID,
			validation.Required,
			is.UUID,
		),
		validation.Field(&r.Permissions,
			validation.Required,
			validation.Each(customValidation.Permission),
		),
		validation.Field(&r.DocumentID, is.UUID),
		validation.Field(&r.FolderID, is.UUID),
		validation.Field(&r.WorkflowID, is.UUID),
		validation.Field(&r.ExpiresAt, validation.Required),
	)
}

// ToInput converts the request into the use case input. Call Validate first:
// the UUID fields are assumed to parse.
func (r *IssueGrantRequest) ToInput() *grantDomain.IssueGrantInput {
	permissions := make([]grantDomain.Permission, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		permissions = append(permissions, grantDomain.Permission(p))
	}

	return &grantDomain.IssueGrantInput{
		Kind:          grantDomain.Kind(r.Kind),
		SubjectUserID: uuid.MustParse(r.SubjectUserID),
		Permissions:   permissions,
		DocumentID:    parseOptionalUUID(r.DocumentID),
		FolderID:      parseOptionalUUID(r.FolderID),
		WorkflowID:    parseOptionalUUID(r.WorkflowID),
		UploadURL:     r.UploadURL,
		ExpiresAt:     r.ExpiresAt,
	}
}

func parseOptionalUUID(value string) *uuid.UUID {
	if value == "" {
		return nil
	}
	id := uuid.MustParse(value)
	return &id
}
