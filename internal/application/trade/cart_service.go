package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/mead/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CartMetrics counts cart mutations by operation
type CartMetrics interface {
	RecordCartMutation(ctx context.Context, operation string)
}

// CartService applies cart transitions to the buyer's stored cart.
// Each mutation is load, transition, save; concurrent mutations are last-write-wins.
type CartService struct {
	cartRepo    trade.CartRepository
	productRepo catalog.ProductRepository
	metrics     CartMetrics
}

// NewCartService creates a new CartService
func NewCartService(cartRepo trade.CartRepository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// SetMetrics sets the cart mutation recorder
func (s *CartService) SetMetrics(m CartMetrics) {
	s.metrics = m
}

// Get returns the buyer's cart with products resolved
func (s *CartService) Get(ctx context.Context, buyerID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartRepo.Load(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// AddItem adds one unit of a product
func (s *CartService) AddItem(ctx context.Context, buyerID, productID uuid.UUID) (*CartResponse, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, buyerID, "add", func(c trade.Cart) trade.Cart {
		return trade.AddItem(c, productID)
	})
}

// SubtractItem removes one unit of a product; the line goes away at zero
func (s *CartService) SubtractItem(ctx context.Context, buyerID, productID uuid.UUID) (*CartResponse, error) {
	if productID == uuid.Nil {
		return nil, invalidProductID()
	}
	return s.mutate(ctx, buyerID, "subtract", func(c trade.Cart) trade.Cart {
		return trade.SubtractItem(c, productID)
	})
}

// SetItem sets the quantity of a product; quantity <= 0 removes the line
func (s *CartService) SetItem(ctx context.Context, buyerID, productID uuid.UUID, quantity int) (*CartResponse, error) {
	if quantity > 0 {
		if err := s.requireProduct(ctx, productID); err != nil {
			return nil, err
		}
	} else if productID == uuid.Nil {
		return nil, invalidProductID()
	}
	return s.mutate(ctx, buyerID, "set", func(c trade.Cart) trade.Cart {
		return trade.SetItem(c, productID, quantity)
	})
}

// RemoveItem drops a product's line
func (s *CartService) RemoveItem(ctx context.Context, buyerID, productID uuid.UUID) (*CartResponse, error) {
	if productID == uuid.Nil {
		return nil, invalidProductID()
	}
	return s.mutate(ctx, buyerID, "remove", func(c trade.Cart) trade.Cart {
		return trade.RemoveItem(c, productID)
	})
}

// Clear empties the buyer's cart
func (s *CartService) Clear(ctx context.Context, buyerID uuid.UUID) error {
	if err := s.cartRepo.Clear(ctx, buyerID); err != nil {
		return err
	}
	s.record(ctx, "clear")
	return nil
}

func (s *CartService) mutate(ctx context.Context, buyerID uuid.UUID, operation string, transition func(trade.Cart) trade.Cart) (*CartResponse, error) {
	cart, err := s.cartRepo.Load(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	next := transition(cart)
	if err := s.cartRepo.Save(ctx, buyerID, next); err != nil {
		return nil, err
	}
	s.record(ctx, operation)
	return s.view(ctx, next)
}

func (s *CartService) record(ctx context.Context, operation string) {
	if s.metrics != nil {
		s.metrics.RecordCartMutation(ctx, operation)
	}
}

func (s *CartService) requireProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return invalidProductID()
	}
	_, err := s.productRepo.FindByID(ctx, productID)
	return err
}

// view resolves products for display. Lines whose product no longer exists
// are reported unavailable and excluded from the total.
func (s *CartService) view(ctx context.Context, cart trade.Cart) (*CartResponse, error) {
	products, err := resolveProducts(ctx, s.productRepo, cart.ProductIDs())
	if err != nil {
		return nil, err
	}

	resp := &CartResponse{
		Lines:     make([]CartLineResponse, len(cart.Lines)),
		ItemCount: cart.ItemCount(),
		Total:     decimal.Zero,
		Currency:  catalog.Currency,
	}
	for i, line := range cart.Lines {
		lr := CartLineResponse{ProductID: line.ProductID, Quantity: line.Quantity}
		if p, ok := products[line.ProductID]; ok {
			snapshot := catalog.Snapshot(p)
			total := snapshot.LineTotal(line.Quantity)
			lr.Available = true
			lr.Product = &snapshot
			lr.LineTotal = &total
			resp.Total = resp.Total.Add(total)
		}
		resp.Lines[i] = lr
	}
	return resp, nil
}

// resolveProducts loads products in one batch keyed by id
func resolveProducts(ctx context.Context, repo catalog.ProductRepository, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*catalog.Product{}, nil
	}
	products, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func invalidProductID() error {
	return shared.NewDomainError(shared.CodeInvalidInput, "Product ID is required")
}
