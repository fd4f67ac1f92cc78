package user_test

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cashfolio/cashfolio/internal/platform/user"
	"github.com/cashfolio/cashfolio/pkg/logger"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) Exists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func newUserService(repo user.Repository) *user.Service {
	return user.NewService(repo, logger.New("test", io.Discard))
}

func storedUser(t *testing.T, email, password string) *user.User {
	t.Helper()
	u := &user.User{ID: uuid.New(), Email: email}
	require.NoError(t, u.SetPassword(password))
	return u
}

// =============================================================================
// Register Tests
// =============================================================================

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a new account", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newUserService(repo)

		repo.On("Exists", ctx, "alice@example.com").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*user.User")).Return(nil)

		u, err := svc.Register(ctx, "alice@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, u.ID)
		assert.NotEmpty(t, u.PasswordHash)
		assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
		repo.AssertExpectations(t)
	})

	t.Run("normalizes email", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newUserService(repo)

		repo.On("Exists", ctx, "alice@example.com").Return(false, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil)

		u, err := svc.Register(ctx, "  Alice@Example.COM ", "s3cret-pass")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
	})

	t.Run("rejects short password", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newUserService(repo)

		repo.On("Exists", ctx, "alice@example.com").Return(false, nil)

		_, err := svc.Register(ctx, "alice@example.com", "short")
		assert.ErrorIs(t, err, user.ErrPasswordTooShort)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newUserService(repo)

		_, err := svc.Register(ctx, "not-an-email", "s3cret-pass")
		assert.ErrorIs(t, err, user.ErrInvalidEmail)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newUserService(repo)

		repo.On("Exists", ctx, "alice@example.com").Return(true, nil)

		_, err := svc.Register(ctx, "alice@example.com", "s3cret-pass")
		assert.ErrorIs(t, err, user.ErrUserAlreadyExists)
	})
}

// =============================================================================
// Login Tests
// =============================================================================

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("authenticates with correct password", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newUserService(repo)

		stored := storedUser(t, "alice@example.com", "s3cret-pass")
		repo.On("GetByEmail", ctx, "alice@example.com").Return(stored, nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		u, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
		require.NoError(t, err)
		assert.NotNil(t, u.LastLoginAt)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newUserService(repo)

		stored := storedUser(t, "alice@example.com", "s3cret-pass")
		repo.On("GetByEmail", ctx, "alice@example.com").Return(stored, nil)

		_, err := svc.Login(ctx, "alice@example.com", "wrong-pass")
		assert.ErrorIs(t, err, user.ErrInvalidPassword)
	})

	t.Run("unknown account reads as invalid password", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newUserService(repo)

		repo.On("GetByEmail", ctx, "ghost@example.com").Return(nil, user.ErrUserNotFound)

		_, err := svc.Login(ctx, "ghost@example.com", "whatever-pass")
		assert.ErrorIs(t, err, user.ErrInvalidPassword)
	})

	t.Run("login survives a failed last-login write", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newUserService(repo)

		stored := storedUser(t, "alice@example.com", "s3cret-pass")
		repo.On("GetByEmail", ctx, "alice@example.com").Return(stored, nil)
		repo.On("Update", ctx, mock.Anything).Return(assert.AnError)

		_, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
		assert.NoError(t, err)
	})
}

// =============================================================================
// ChangePassword Tests
// =============================================================================

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("changes with correct current password", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newUserService(repo)

		stored := storedUser(t, "alice@example.com", "old-password")
		repo.On("GetByID", ctx, stored.ID).Return(stored, nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		err := svc.ChangePassword(ctx, stored.ID, "old-password", "new-password")
		require.NoError(t, err)
		assert.NoError(t, stored.CheckPassword("new-password"))
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		repo := new(MockRepository)
		svc := newUserService(repo)

		stored := storedUser(t, "alice@example.com", "old-password")
		repo.On("GetByID", ctx, stored.ID).Return(stored, nil)

		err := svc.ChangePassword(ctx, stored.ID, "wrong", "new-password")
		assert.ErrorIs(t, err, user.ErrInvalidPassword)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
