package source_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cashfolio/cashfolio/internal/platform/source"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, src *source.FundingSource) error {
	args := m.Called(ctx, src)
	return args.Error(0)
}

func (m *MockRepository) GetByName(ctx context.Context, portfolioID uuid.UUID, name string) (*source.FundingSource, error) {
	args := m.Called(ctx, portfolioID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*source.FundingSource), args.Error(1)
}

func (m *MockRepository) ListByPortfolio(ctx context.Context, portfolioID uuid.UUID) ([]*source.FundingSource, error) {
	args := m.Called(ctx, portfolioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*source.FundingSource), args.Error(1)
}

func TestService_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	portfolioID := uuid.New()

	t.Run("returns existing source", func(t *testing.T) {
		repo := new(MockRepository)
		svc := source.NewService(repo)

		existing := &source.FundingSource{ID: uuid.New(), PortfolioID: portfolioID, Name: "Bank Account"}
		repo.On("GetByName", ctx, portfolioID, "Bank Account").Return(existing, nil)

		src, err := svc.GetOrCreate(ctx, portfolioID, "Bank Account")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, src.ID)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("creates on first use", func(t *testing.T) {
		repo := new(MockRepository)
		svc := source.NewService(repo)

		repo.On("GetByName", ctx, portfolioID, "Brokerage").Return(nil, source.ErrSourceNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*source.FundingSource")).Return(nil)

		src, err := svc.GetOrCreate(ctx, portfolioID, "Brokerage")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, src.ID)
		assert.Equal(t, "Brokerage", src.Name)
		repo.AssertExpectations(t)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		repo := new(MockRepository)
		svc := source.NewService(repo)

		repo.On("GetByName", ctx, portfolioID, "Savings").Return(nil, source.ErrSourceNotFound)
		repo.On("Create", ctx, mock.Anything).Return(nil)

		src, err := svc.GetOrCreate(ctx, portfolioID, "  Savings  ")
		require.NoError(t, err)
		assert.Equal(t, "Savings", src.Name)
	})

	t.Run("race on first use resolves to the stored row", func(t *testing.T) {
		repo := new(MockRepository)
		svc := source.NewService(repo)

		winner := &source.FundingSource{ID: uuid.New(), PortfolioID: portfolioID, Name: "Checking"}
		repo.On("GetByName", ctx, portfolioID, "Checking").Return(nil, source.ErrSourceNotFound).Once()
		repo.On("Create", ctx, mock.Anything).Return(errors.New("duplicate key"))
		repo.On("GetByName", ctx, portfolioID, "Checking").Return(winner, nil).Once()

		src, err := svc.GetOrCreate(ctx, portfolioID, "Checking")
		require.NoError(t, err)
		assert.Equal(t, winner.ID, src.ID)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		repo := new(MockRepository)
		svc := source.NewService(repo)

		_, err := svc.GetOrCreate(ctx, portfolioID, "   ")
		assert.ErrorIs(t, err, source.ErrMissingSourceName)
	})

	t.Run("rejects overlong name", func(t *testing.T) {
		repo := new(MockRepository)
		svc := source.NewService(repo)

		_, err := svc.GetOrCreate(ctx, portfolioID, strings.Repeat("x", source.MaxNameLength+1))
		assert.ErrorIs(t, err, source.ErrSourceNameTooLong)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	portfolioID := uuid.New()

	t.Run("lists sources", func(t *testing.T) {
		repo := new(MockRepository)
		svc := source.NewService(repo)

		stored := []*source.FundingSource{
			{ID: uuid.New(), PortfolioID: portfolioID, Name: "Bank Account"},
			{ID: uuid.New(), PortfolioID: portfolioID, Name: "Brokerage"},
		}
		repo.On("ListByPortfolio", ctx, portfolioID).Return(stored, nil)

		sources, err := svc.List(ctx, portfolioID)
		require.NoError(t, err)
		assert.Len(t, sources, 2)
	})

	t.Run("rejects nil portfolio", func(t *testing.T) {
		repo := new(MockRepository)
		svc := source.NewService(repo)

		_, err := svc.List(ctx, uuid.Nil)
		assert.ErrorIs(t, err, source.ErrInvalidPortfolioID)
	})
}
