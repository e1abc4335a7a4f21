package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/docgate/internal/errors"
	grantDomain "github.com/allisson/docgate/internal/grant/domain"
	ingestionDomain "github.com/allisson/docgate/internal/ingestion/domain"
)

// mockGrantValidator is a mock implementation of GrantValidator for testing.
type mockGrantValidator struct {
	mock.Mock
}

func (m *mockGrantValidator) Validate(ctx context.Context, plainToken string) (*grantDomain.Grant, error) {
	args := m.Called(ctx, plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grantDomain.Grant), args.Error(1)
}

// mockUploadUseCase is a mock implementation of UploadUseCase for testing.
type mockUploadUseCase struct {
	mock.Mock
}

func (m *mockUploadUseCase) Record(
	ctx context.Context,
	fileName, storageRef string,
	sizeBytes int64,
	mediaType string,
) (*ingestionDomain.Upload, error) {
	args := m.Called(ctx, fileName, storageRef, sizeBytes, mediaType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ingestionDomain.Upload), args.Error(1)
}

func (m *mockUploadUseCase) List(ctx context.Context, offset, limit int) ([]*ingestionDomain.Upload, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ingestionDomain.Upload), args.Error(1)
}

func (m *mockUploadUseCase) Get(ctx context.Context, uploadID uuid.UUID) (*ingestionDomain.Upload, error) {
	args := m.Called(ctx, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ingestionDomain.Upload), args.Error(1)
}

func (m *mockUploadUseCase) Delete(ctx context.Context, uploadID uuid.UUID) (bool, error) {
	args := m.Called(ctx, uploadID)
	return args.Bool(0), args.Error(1)
}

// mockAuditSink is a mock implementation of AuditSink for testing.
type mockAuditSink struct {
	mock.Mock
}

func (m *mockAuditSink) LogAction(
	ctx context.Context,
	actorID uuid.UUID,
	action string,
	objectKind string,
	objectID string,
	metadata map[string]any,
) error {
	args := m.Called(ctx, actorID, action, objectKind, objectID, metadata)
	return args.Error(0)
}

func liveGrant(subjectID uuid.UUID, permissions ...grantDomain.Permission) *grantDomain.Grant {
	return &grantDomain.Grant{
		ID:            uuid.Must(uuid.NewV7()),
		Kind:          grantDomain.DocumentUploadKind,
		SubjectUserID: subjectID,
		Permissions:   permissions,
		ExpiresAt:     time.Now().UTC().Add(24 * time.Hour),
		CreatedAt:     time.Now().UTC(),
	}
}

func jpegSubmission(fileName string, size int) *ingestionDomain.FileSubmission {
	return &ingestionDomain.FileSubmission{
		FileName:  fileName,
		MediaType: "image/jpeg",
		Data:      make([]byte, size),
	}
}

func TestIngestionUseCase_Submit(t *testing.T) {
	ctx := context.Background()
	subjectID := uuid.Must(uuid.NewV7())

	t.Run("Success_SingleJPEG", func(t *testing.T) {
		mockGrants := &mockGrantValidator{}
		mockUploads := &mockUploadUseCase{}
		mockBlob := &mockBlobService{}
		mockAudit := &mockAuditSink{}

		grant := liveGrant(subjectID, grantDomain.DocumentCreatePermission)
		file := jpegSubmission("photo.jpg", 2*1024*1024)

		upload := &ingestionDomain.Upload{
			ID:         uuid.Must(uuid.NewV7()),
			FileName:   "photo.jpg",
			StorageRef: "abc/photo.jpg",
			SizeBytes:  file.SizeBytes(),
			MediaType:  "image/jpeg",
			UploadedAt: time.Now().UTC(),
		}

		mockGrants.On("Validate", ctx, "valid-token").Return(grant, nil)
		mockBlob.On("Store", ctx, "photo.jpg", "image/jpeg", file.Data).Return("abc/photo.jpg", nil)
		mockUploads.On("Record", ctx, "photo.jpg", "abc/photo.jpg", file.SizeBytes(), "image/jpeg").
			Return(upload, nil)
		mockAudit.On("LogAction", ctx, subjectID, "file_uploaded", "upload", upload.ID.String(), mock.Anything).
			Return(nil)

		useCase := NewIngestionUseCase(mockGrants, mockUploads, mockBlob, mockAudit, testLogger())

		uploads, err := useCase.Submit(ctx, "valid-token", grantDomain.DocumentCreatePermission,
			[]*ingestionDomain.FileSubmission{file})
		require.NoError(t, err)
		require.Len(t, uploads, 1)
		assert.Equal(t, upload.ID, uploads[0].ID)
		mockAudit.AssertExpectations(t)
	})

	t.Run("Error_UnknownTokenIsUnauthorized", func(t *testing.T) {
		mockGrants := &mockGrantValidator{}
		mockGrants.On("Validate", ctx, "bogus").Return(nil, grantDomain.ErrGrantNotFound)

		useCase := NewIngestionUseCase(mockGrants, &mockUploadUseCase{}, &mockBlobService{}, nil, testLogger())

		uploads, err := useCase.Submit(ctx, "bogus", grantDomain.DocumentCreatePermission,
			[]*ingestionDomain.FileSubmission{jpegSubmission("photo.jpg", 1024)})
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.NotErrorIs(t, err, apperrors.ErrNotFound)
		assert.Empty(t, uploads)
	})

	t.Run("Error_ExpiredTokenIsUnauthorized", func(t *testing.T) {
		mockGrants := &mockGrantValidator{}
		mockUploads := &mockUploadUseCase{}
		mockAudit := &mockAuditSink{}

		mockGrants.On("Validate", ctx, "stale").Return(nil, grantDomain.ErrGrantExpired)

		useCase := NewIngestionUseCase(mockGrants, mockUploads, &mockBlobService{}, mockAudit, testLogger())

		uploads, err := useCase.Submit(ctx, "stale", grantDomain.DocumentCreatePermission,
			[]*ingestionDomain.FileSubmission{jpegSubmission("photo.jpg", 1024)})
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.NotErrorIs(t, err, apperrors.ErrExpired)
		assert.Empty(t, uploads)

		// No records, no audit events
		mockUploads.AssertNotCalled(t, "Record",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockAudit.AssertNotCalled(t, "LogAction",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_MissingPermissionIsForbidden", func(t *testing.T) {
		mockGrants := &mockGrantValidator{}

		grant := liveGrant(subjectID, grantDomain.DocumentCreatePermission)
		mockGrants.On("Validate", ctx, "valid-token").Return(grant, nil)

		useCase := NewIngestionUseCase(mockGrants, &mockUploadUseCase{}, &mockBlobService{}, nil, testLogger())

		_, err := useCase.Submit(ctx, "valid-token", grantDomain.FolderReadPermission,
			[]*ingestionDomain.FileSubmission{jpegSubmission("photo.jpg", 1024)})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("Error_EmptyBatch", func(t *testing.T) {
		mockGrants := &mockGrantValidator{}

		grant := liveGrant(subjectID, grantDomain.DocumentCreatePermission)
		mockGrants.On("Validate", ctx, "valid-token").Return(grant, nil)

		useCase := NewIngestionUseCase(mockGrants, &mockUploadUseCase{}, &mockBlobService{}, nil, testLogger())

		_, err := useCase.Submit(ctx, "valid-token", grantDomain.DocumentCreatePermission, nil)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("Error_OversizedSecondFileAbortsWholeBatch", func(t *testing.T) {
		mockGrants := &mockGrantValidator{}
		mockUploads := &mockUploadUseCase{}
		mockBlob := &mockBlobService{}

		grant := liveGrant(subjectID, grantDomain.DocumentCreatePermission)
		mockGrants.On("Validate", ctx, "valid-token").Return(grant, nil)

		files := []*ingestionDomain.FileSubmission{
			jpegSubmission("small.jpg", 1024),
			jpegSubmission("huge.jpg", ingestionDomain.MaxFileSizeBytes+1),
		}

		useCase := NewIngestionUseCase(mockGrants, mockUploads, mockBlob, nil, testLogger())

		uploads, err := useCase.Submit(ctx, "valid-token", grantDomain.DocumentCreatePermission, files)
		assert.ErrorIs(t, err, apperrors.ErrTooLarge)
		assert.Empty(t, uploads)

		// Nothing committed, not even the valid first file
		mockBlob.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		mockUploads.AssertNotCalled(t, "Record",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_UnsupportedTypeAbortsWholeBatch", func(t *testing.T) {
		mockGrants := &mockGrantValidator{}
		mockBlob := &mockBlobService{}

		grant := liveGrant(subjectID, grantDomain.DocumentCreatePermission)
		mockGrants.On("Validate", ctx, "valid-token").Return(grant, nil)

		files := []*ingestionDomain.FileSubmission{
			{FileName: "anim.gif", MediaType: "image/gif", Data: make([]byte, 1024)},
		}

		useCase := NewIngestionUseCase(mockGrants, &mockUploadUseCase{}, mockBlob, nil, testLogger())

		_, err := useCase.Submit(ctx, "valid-token", grantDomain.DocumentCreatePermission, files)
		assert.ErrorIs(t, err, apperrors.ErrUnsupportedMedia)
		mockBlob.AssertNotCalled(t, "Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Error_StoreFailureReturnsCommittedPrefix", func(t *testing.T) {
		mockGrants := &mockGrantValidator{}
		mockUploads := &mockUploadUseCase{}
		mockBlob := &mockBlobService{}
		mockAudit := &mockAuditSink{}

		grant := liveGrant(subjectID, grantDomain.DocumentCreatePermission)
		mockGrants.On("Validate", ctx, "valid-token").Return(grant, nil)

		first := jpegSubmission("first.jpg", 1024)
		second := jpegSubmission("second.jpg", 2048)

		firstUpload := &ingestionDomain.Upload{
			ID:         uuid.Must(uuid.NewV7()),
			FileName:   "first.jpg",
			StorageRef: "abc/first.jpg",
		}

		mockBlob.On("Store", ctx, "first.jpg", "image/jpeg", first.Data).Return("abc/first.jpg", nil)
		mockUploads.On("Record", ctx, "first.jpg", "abc/first.jpg", first.SizeBytes(), "image/jpeg").
			Return(firstUpload, nil)
		mockAudit.On("LogAction", ctx, subjectID, "file_uploaded", "upload", firstUpload.ID.String(), mock.Anything).
			Return(nil)
		mockBlob.On("Store", ctx, "second.jpg", "image/jpeg", second.Data).
			Return("", apperrors.Wrap(apperrors.ErrUnavailable, "store down"))

		useCase := NewIngestionUseCase(mockGrants, mockUploads, mockBlob, mockAudit, testLogger())

		uploads, err := useCase.Submit(ctx, "valid-token", grantDomain.DocumentCreatePermission,
			[]*ingestionDomain.FileSubmission{first, second})

		// Committed prefix survives; the error names the failing file and the store
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)
		assert.Contains(t, err.Error(), "second.jpg")
		require.Len(t, uploads, 1)
		assert.Equal(t, firstUpload.ID, uploads[0].ID)
		mockAudit.AssertNumberOfCalls(t, "LogAction", 1)
	})

	t.Run("Success_AuditFailureDoesNotFailSubmit", func(t *testing.T) {
		mockGrants := &mockGrantValidator{}
		mockUploads := &mockUploadUseCase{}
		mockBlob := &mockBlobService{}
		mockAudit := &mockAuditSink{}

		grant := liveGrant(subjectID, grantDomain.DocumentCreatePermission)
		file := jpegSubmission("photo.jpg", 1024)

		upload := &ingestionDomain.Upload{ID: uuid.Must(uuid.NewV7()), FileName: "photo.jpg"}

		mockGrants.On("Validate", ctx, "valid-token").Return(grant, nil)
		mockBlob.On("Store", ctx, "photo.jpg", "image/jpeg", file.Data).Return("abc/photo.jpg", nil)
		mockUploads.On("Record", ctx, "photo.jpg", "abc/photo.jpg", file.SizeBytes(), "image/jpeg").
			Return(upload, nil)
		mockAudit.On("LogAction", ctx, subjectID, "file_uploaded", "upload", upload.ID.String(), mock.Anything).
			Return(apperrors.New("audit store down"))

		useCase := NewIngestionUseCase(mockGrants, mockUploads, mockBlob, mockAudit, testLogger())

		uploads, err := useCase.Submit(ctx, "valid-token", grantDomain.DocumentCreatePermission,
			[]*ingestionDomain.FileSubmission{file})
		require.NoError(t, err)
		assert.Len(t, uploads, 1)
	})
}
