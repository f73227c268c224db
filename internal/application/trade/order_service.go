package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/identity"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/mead/backend/internal/domain/trade"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderMetrics records business metrics for placed orders
type OrderMetrics interface {
	RecordOrderPlaced(ctx context.Context, lineCount int, total decimal.Decimal)
}

// OrderService places orders from carts and serves order history
type OrderService struct {
	accountRepo    identity.AccountRepository
	productRepo    catalog.ProductRepository
	cartRepo       trade.CartRepository
	orderRepo      trade.OrderRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	metrics        OrderMetrics
	logger         *zap.Logger
}

// OrderServiceOption is a functional option for configuring the service
type OrderServiceOption func(*OrderService)

// WithOrderMetrics sets the recorder for placed orders
func WithOrderMetrics(m OrderMetrics) OrderServiceOption {
	return func(s *OrderService) {
		s.metrics = m
	}
}

// WithOrderLogger sets the logger
func WithOrderLogger(l *zap.Logger) OrderServiceOption {
	return func(s *OrderService) {
		s.logger = l
	}
}

// NewOrderService creates a new OrderService
func NewOrderService(
	accountRepo identity.AccountRepository,
	productRepo catalog.ProductRepository,
	cartRepo trade.CartRepository,
	orderRepo trade.OrderRepository,
	txScope TransactionScope,
	opts ...OrderServiceOption,
) *OrderService {
	s := &OrderService{
		accountRepo: accountRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		txScope:     txScope,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// PlaceOrder turns the buyer's cart into an order and clears the cart.
// The order insert and the cart clear commit together.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID uuid.UUID) (*OrderResponse, error) {
	buyer, err := s.accountRepo.FindByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.Load(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, trade.ErrEmptyCart
	}

	lines, err := s.priceLines(ctx, cart)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewOrder(buyer.ID, buyer.Email, lines)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.OrderRepo().Create(ctx, order); err != nil {
			return err
		}
		return repos.CartRepo().Clear(ctx, buyerID)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, order)
	if s.metrics != nil {
		s.metrics.RecordOrderPlaced(ctx, len(order.Lines), order.Total)
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Checkout prices the buyer's cart as PlaceOrder would, without writing anything
func (s *OrderService) Checkout(ctx context.Context, buyerID uuid.UUID) (*CheckoutResponse, error) {
	if _, err := s.accountRepo.FindByID(ctx, buyerID); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.Load(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	lines, err := s.priceLines(ctx, cart)
	if err != nil {
		return nil, err
	}

	resp := &CheckoutResponse{
		BuyerID:   buyerID,
		Lines:     make([]CheckoutLineResponse, len(lines)),
		ItemCount: cart.ItemCount(),
		Total:     decimal.Zero,
		Currency:  catalog.Currency,
	}
	for i, l := range lines {
		resp.Lines[i] = CheckoutLineResponse{Quantity: l.Quantity, Product: l.Product, LineTotal: l.LineTotal}
		resp.Total = resp.Total.Add(l.LineTotal)
	}
	return resp, nil
}

// ListOrders returns the buyer's orders, most recent first
func (s *OrderService) ListOrders(ctx context.Context, buyerID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	filter = filter.Normalize(0)
	orders, total, err := s.orderRepo.FindByBuyer(ctx, buyerID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToOrderResponses(orders), total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListAllOrders returns every buyer's orders, most recent first, with each
// buyer resolved in one batched lookup
func (s *OrderService) ListAllOrders(ctx context.Context, filter shared.Filter) (*shared.Paginated[AdminOrderResponse], error) {
	filter = filter.Normalize(0)
	orders, total, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	buyerIDs := lo.Uniq(lo.Map(orders, func(o *trade.Order, _ int) uuid.UUID { return o.BuyerID }))
	buyers := map[uuid.UUID]*identity.Account{}
	if len(buyerIDs) > 0 {
		accounts, err := s.accountRepo.FindByIDs(ctx, buyerIDs)
		if err != nil {
			return nil, err
		}
		buyers = lo.KeyBy(accounts, func(a *identity.Account) uuid.UUID { return a.ID })
	}

	items := make([]AdminOrderResponse, len(orders))
	for i, o := range orders {
		items[i] = AdminOrderResponse{OrderResponse: ToOrderResponse(o)}
		if buyer, ok := buyers[o.BuyerID]; ok {
			items[i].Buyer = &BuyerSummary{ID: buyer.ID, Name: buyer.Name, Email: buyer.Email}
		}
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetOrder returns one of the buyer's orders. Orders of other buyers are reported as not found.
func (s *OrderService) GetOrder(ctx context.Context, buyerID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsPlacedBy(buyerID) {
		return nil, shared.ErrNotFound
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// DeleteOrder removes an order. Administrative use only.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}
	s.publish(ctx, trade.NewOrderDeletedEvent(order))
	return nil
}

// priceLines resolves every cart line in one batch and snapshots it.
// Any unresolved product fails the whole cart with the missing ids.
func (s *OrderService) priceLines(ctx context.Context, cart trade.Cart) ([]trade.OrderLine, error) {
	products, err := resolveProducts(ctx, s.productRepo, cart.ProductIDs())
	if err != nil {
		return nil, err
	}

	var missing []uuid.UUID
	for _, line := range cart.Lines {
		if _, ok := products[line.ProductID]; !ok {
			missing = append(missing, line.ProductID)
		}
	}
	if len(missing) > 0 {
		return nil, &trade.ReferenceResolutionError{MissingProductIDs: missing}
	}

	lines := make([]trade.OrderLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		ol, err := trade.NewOrderLine(products[line.ProductID], line.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, ol)
	}
	return lines, nil
}

func (s *OrderService) publishEvents(ctx context.Context, order *trade.Order) {
	for _, event := range order.PullDomainEvents() {
		s.publish(ctx, event)
	}
}

// publish is best effort; the order is already committed
func (s *OrderService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("event_type", event.EventType()),
			zap.String("order_id", event.AggregateID().String()),
			zap.Error(err),
		)
	}
}
