package trade

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/mead/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddItem(t *testing.T) {
	ctx := context.Background()
	buyer := newBuyer()
	shirt := newProduct(newSeller().ID, "Shirt", 1000)

	t.Run("adding twice merges into one line", func(t *testing.T) {
		carts := newMemoryCartRepository()
		products := new(MockProductRepository)
		products.On("FindByID", ctx, shirt.ID).Return(shirt, nil)
		products.On("FindByIDs", ctx, []uuid.UUID{shirt.ID}).Return([]*catalog.Product{shirt}, nil)
		svc := NewCartService(carts, products)

		_, err := svc.AddItem(ctx, buyer.ID, shirt.ID)
		require.NoError(t, err)
		resp, err := svc.AddItem(ctx, buyer.ID, shirt.ID)
		require.NoError(t, err)

		require.Len(t, resp.Lines, 1)
		assert.Equal(t, 2, resp.Lines[0].Quantity)
		assert.True(t, resp.Lines[0].Available)
		assert.True(t, decimal.NewFromInt(2000).Equal(resp.Total))
		products.AssertExpectations(t)
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		carts := newMemoryCartRepository()
		products := new(MockProductRepository)
		missing := uuid.New()
		products.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)
		svc := NewCartService(carts, products)

		_, err := svc.AddItem(ctx, buyer.ID, missing)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Zero(t, carts.saves)
	})

	t.Run("nil product id is invalid input", func(t *testing.T) {
		svc := NewCartService(newMemoryCartRepository(), new(MockProductRepository))

		_, err := svc.AddItem(ctx, buyer.ID, uuid.Nil)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, shared.CodeInvalidInput, domainErr.Code)
	})
}

func TestCartService_SubtractAndSet(t *testing.T) {
	ctx := context.Background()
	buyer := newBuyer()
	shirt := newProduct(newSeller().ID, "Shirt", 1000)

	carts := newMemoryCartRepository()
	require.NoError(t, carts.Save(ctx, buyer.ID, trade.SetItem(trade.EmptyCart(), shirt.ID, 2)))

	products := new(MockProductRepository)
	products.On("FindByIDs", ctx, []uuid.UUID{shirt.ID}).Return([]*catalog.Product{shirt}, nil)
	products.On("FindByIDs", ctx, mock.Anything).Return([]*catalog.Product{}, nil)
	svc := NewCartService(carts, products)

	t.Run("subtract decrements", func(t *testing.T) {
		resp, err := svc.SubtractItem(ctx, buyer.ID, shirt.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Lines[0].Quantity)
	})

	t.Run("subtract at one removes the line", func(t *testing.T) {
		resp, err := svc.SubtractItem(ctx, buyer.ID, shirt.ID)
		require.NoError(t, err)
		assert.Empty(t, resp.Lines)
	})

	t.Run("set to zero removes without product lookup", func(t *testing.T) {
		resp, err := svc.SetItem(ctx, buyer.ID, uuid.New(), 0)
		require.NoError(t, err)
		assert.Empty(t, resp.Lines)
		products.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestCartService_Get_ReportsUnavailableLines(t *testing.T) {
	ctx := context.Background()
	buyer := newBuyer()
	shirt := newProduct(newSeller().ID, "Shirt", 1000)
	gone := uuid.New()

	carts := newMemoryCartRepository()
	cart := trade.AddItem(trade.AddItem(trade.EmptyCart(), shirt.ID), gone)
	require.NoError(t, carts.Save(ctx, buyer.ID, cart))

	products := new(MockProductRepository)
	products.On("FindByIDs", ctx, []uuid.UUID{shirt.ID, gone}).Return([]*catalog.Product{shirt}, nil)

	resp, err := NewCartService(carts, products).Get(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, resp.Lines, 2)
	assert.True(t, resp.Lines[0].Available)
	assert.False(t, resp.Lines[1].Available)
	assert.Nil(t, resp.Lines[1].Product)
	assert.True(t, decimal.NewFromInt(1000).Equal(resp.Total))
	assert.Equal(t, 2, resp.ItemCount)
}

// A mutation that lands between another mutation's load and save is lost:
// the later save replaces the stored cart.
func TestCartService_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	buyer := newBuyer()
	seller := newSeller()
	a := newProduct(seller.ID, "A", 100)
	b := newProduct(seller.ID, "B", 200)

	carts := newMemoryCartRepository()
	products := new(MockProductRepository)
	products.On("FindByID", ctx, a.ID).Return(a, nil)
	products.On("FindByID", ctx, b.ID).Return(b, nil)
	products.On("FindByIDs", ctx, mock.Anything).Return([]*catalog.Product{a, b}, nil)
	svc := NewCartService(carts, products)

	carts.onLoad = func() {
		_, err := svc.AddItem(ctx, buyer.ID, b.ID)
		require.NoError(t, err)
	}

	_, err := svc.AddItem(ctx, buyer.ID, a.ID)
	require.NoError(t, err)

	final, err := carts.Load(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a.ID}, final.ProductIDs())
	assert.Zero(t, final.Quantity(b.ID))
	assert.Equal(t, 2, carts.saves)
}

func TestCartService_RecordsMutations(t *testing.T) {
	ctx := context.Background()
	buyer := newBuyer()
	shirt := newProduct(newSeller().ID, "Shirt", 1000)

	products := new(MockProductRepository)
	products.On("FindByID", ctx, shirt.ID).Return(shirt, nil)
	products.On("FindByIDs", ctx, mock.Anything).Return([]*catalog.Product{shirt}, nil)
	metrics := new(MockCartMetrics)
	metrics.On("RecordCartMutation", ctx, mock.Anything).Return()

	svc := NewCartService(newMemoryCartRepository(), products)
	svc.SetMetrics(metrics)

	_, err := svc.AddItem(ctx, buyer.ID, shirt.ID)
	require.NoError(t, err)
	_, err = svc.SubtractItem(ctx, buyer.ID, shirt.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, buyer.ID))

	metrics.AssertCalled(t, "RecordCartMutation", ctx, "add")
	metrics.AssertCalled(t, "RecordCartMutation", ctx, "subtract")
	metrics.AssertCalled(t, "RecordCartMutation", ctx, "clear")
	metrics.AssertNumberOfCalls(t, "RecordCartMutation", 3)
}
