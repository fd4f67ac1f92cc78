package portfolio_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cashfolio/cashfolio/internal/platform/portfolio"
)

// MockRepository is a mock implementation of portfolio.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, p *portfolio.Portfolio) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*portfolio.Portfolio, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portfolio.Portfolio), args.Error(1)
}

func (m *MockRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*portfolio.Portfolio, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*portfolio.Portfolio), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, p *portfolio.Portfolio) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) ExistsByUserAndName(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, userID, name)
	return args.Bool(0), args.Error(1)
}

// =============================================================================
// Create Tests
// =============================================================================

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("creates with defaults", func(t *testing.T) {
		repo := new(MockRepository)
		svc := portfolio.NewService(repo)

		repo.On("ExistsByUserAndName", ctx, userID, "Main").Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*portfolio.Portfolio")).Return(nil)

		p, err := svc.Create(ctx, &portfolio.Portfolio{UserID: userID, Name: "Main"})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.Equal(t, portfolio.DefaultBaseCurrency, p.BaseCurrency)
		repo.AssertExpectations(t)
	})

	t.Run("normalizes currency code", func(t *testing.T) {
		repo := new(MockRepository)
		svc := portfolio.NewService(repo)

		repo.On("ExistsByUserAndName", ctx, userID, "Euro").Return(false, nil)
		repo.On("Create", ctx, mock.Anything).Return(nil)

		p, err := svc.Create(ctx, &portfolio.Portfolio{UserID: userID, Name: "Euro", BaseCurrency: "eur"})
		require.NoError(t, err)
		assert.Equal(t, "EUR", p.BaseCurrency)
	})

	t.Run("rejects unknown currency", func(t *testing.T) {
		repo := new(MockRepository)
		svc := portfolio.NewService(repo)

		_, err := svc.Create(ctx, &portfolio.Portfolio{UserID: userID, Name: "Bad", BaseCurrency: "XXX1"})
		assert.ErrorIs(t, err, portfolio.ErrInvalidCurrency)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		repo := new(MockRepository)
		svc := portfolio.NewService(repo)

		repo.On("ExistsByUserAndName", ctx, userID, "Main").Return(true, nil)

		_, err := svc.Create(ctx, &portfolio.Portfolio{UserID: userID, Name: "Main"})
		assert.ErrorIs(t, err, portfolio.ErrDuplicatePortfolioName)
	})

	t.Run("rejects missing name", func(t *testing.T) {
		repo := new(MockRepository)
		svc := portfolio.NewService(repo)

		_, err := svc.Create(ctx, &portfolio.Portfolio{UserID: userID})
		assert.ErrorIs(t, err, portfolio.ErrMissingPortfolioName)
	})
}

// =============================================================================
// Ownership Tests
// =============================================================================

func TestService_Ownership(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	strangerID := uuid.New()
	portfolioID := uuid.New()

	stored := &portfolio.Portfolio{
		ID:           portfolioID,
		UserID:       ownerID,
		Name:         "Main",
		BaseCurrency: "USD",
	}

	t.Run("owner can read", func(t *testing.T) {
		repo := new(MockRepository)
		svc := portfolio.NewService(repo)

		repo.On("GetByID", ctx, portfolioID).Return(stored, nil)

		p, err := svc.GetByID(ctx, portfolioID, ownerID)
		require.NoError(t, err)
		assert.Equal(t, "Main", p.Name)
	})

	t.Run("stranger cannot read", func(t *testing.T) {
		repo := new(MockRepository)
		svc := portfolio.NewService(repo)

		repo.On("GetByID", ctx, portfolioID).Return(stored, nil)

		_, err := svc.GetByID(ctx, portfolioID, strangerID)
		assert.ErrorIs(t, err, portfolio.ErrUnauthorizedAccess)
	})

	t.Run("stranger cannot delete", func(t *testing.T) {
		repo := new(MockRepository)
		svc := portfolio.NewService(repo)

		repo.On("GetByID", ctx, portfolioID).Return(stored, nil)

		err := svc.Delete(ctx, portfolioID, strangerID)
		assert.ErrorIs(t, err, portfolio.ErrUnauthorizedAccess)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

// =============================================================================
// Update Tests
// =============================================================================

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	portfolioID := uuid.New()

	stored := func() *portfolio.Portfolio {
		return &portfolio.Portfolio{
			ID:           portfolioID,
			UserID:       ownerID,
			Name:         "Main",
			BaseCurrency: "USD",
		}
	}

	t.Run("renames with conflict check", func(t *testing.T) {
		repo := new(MockRepository)
		svc := portfolio.NewService(repo)

		repo.On("GetByID", ctx, portfolioID).Return(stored(), nil)
		repo.On("ExistsByUserAndName", ctx, ownerID, "Retirement").Return(false, nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		p, err := svc.Update(ctx, &portfolio.Portfolio{ID: portfolioID, Name: "Retirement"}, ownerID)
		require.NoError(t, err)
		assert.Equal(t, "Retirement", p.Name)
		// Currency survives when the update leaves it empty
		assert.Equal(t, "USD", p.BaseCurrency)
		repo.AssertExpectations(t)
	})

	t.Run("rejects conflicting rename", func(t *testing.T) {
		repo := new(MockRepository)
		svc := portfolio.NewService(repo)

		repo.On("GetByID", ctx, portfolioID).Return(stored(), nil)
		repo.On("ExistsByUserAndName", ctx, ownerID, "Retirement").Return(true, nil)

		_, err := svc.Update(ctx, &portfolio.Portfolio{ID: portfolioID, Name: "Retirement"}, ownerID)
		assert.ErrorIs(t, err, portfolio.ErrDuplicatePortfolioName)
	})

	t.Run("owner cannot be reassigned", func(t *testing.T) {
		repo := new(MockRepository)
		svc := portfolio.NewService(repo)

		repo.On("GetByID", ctx, portfolioID).Return(stored(), nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		p, err := svc.Update(ctx, &portfolio.Portfolio{ID: portfolioID, Name: "Main", UserID: uuid.New()}, ownerID)
		require.NoError(t, err)
		assert.Equal(t, ownerID, p.UserID)
	})
}
