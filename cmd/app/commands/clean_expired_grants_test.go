package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	grantDomain "github.com/allisson/docgate/internal/grant/domain"
)

type mockGrantUseCase struct {
	mock.Mock
}

func (m *mockGrantUseCase) Issue(
	ctx context.Context,
	input *grantDomain.IssueGrantInput,
) (*grantDomain.IssueGrantOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grantDomain.IssueGrantOutput), args.Error(1)
}

func (m *mockGrantUseCase) Validate(ctx context.Context, plainToken string) (*grantDomain.Grant, error) {
	args := m.Called(ctx, plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*grantDomain.Grant), args.Error(1)
}

func (m *mockGrantUseCase) Revoke(ctx context.Context, grantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, grantID)
	return args.Bool(0), args.Error(1)
}

func (m *mockGrantUseCase) Enumerate(ctx context.Context, subjectUserID uuid.UUID) ([]*grantDomain.Grant, error) {
	args := m.Called(ctx, subjectUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*grantDomain.Grant), args.Error(1)
}

func (m *mockGrantUseCase) CleanExpired(
	ctx context.Context,
	olderThan time.Duration,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, olderThan, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

func testCommandLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCleanExpiredGrants(t *testing.T) {
	ctx := context.Background()
	logger := testCommandLogger()
	days := 30
	olderThan := time.Duration(days) * 24 * time.Hour

	t.Run("text-output", func(t *testing.T) {
		mockUseCase := &mockGrantUseCase{}
		mockUseCase.On("CleanExpired", ctx, olderThan, false).Return(int64(10), nil)

		var out bytes.Buffer
		err := cleanExpiredGrants(ctx, mockUseCase, logger, &out, days, false, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully deleted 10 expired grant(s)")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("dry-run-text-output", func(t *testing.T) {
		mockUseCase := &mockGrantUseCase{}
		mockUseCase.On("CleanExpired", ctx, olderThan, true).Return(int64(3), nil)

		var out bytes.Buffer
		err := cleanExpiredGrants(ctx, mockUseCase, logger, &out, days, true, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Would delete 3 expired grant(s)")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &mockGrantUseCase{}
		mockUseCase.On("CleanExpired", ctx, olderThan, true).Return(int64(5), nil)

		var out bytes.Buffer
		err := cleanExpiredGrants(ctx, mockUseCase, logger, &out, days, true, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"count": 5`)
		require.Contains(t, out.String(), `"dry_run": true`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-days", func(t *testing.T) {
		mockUseCase := &mockGrantUseCase{}

		err := cleanExpiredGrants(ctx, mockUseCase, logger, &bytes.Buffer{}, -1, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "days must be a positive number")
		mockUseCase.AssertNotCalled(t, "CleanExpired")
	})

	t.Run("usecase-failure", func(t *testing.T) {
		mockUseCase := &mockGrantUseCase{}
		mockUseCase.On("CleanExpired", ctx, olderThan, false).
			Return(int64(0), context.DeadlineExceeded)

		err := cleanExpiredGrants(ctx, mockUseCase, logger, &bytes.Buffer{}, days, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to clean expired grants")
		mockUseCase.AssertExpectations(t)
	})
}
