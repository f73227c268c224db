package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/identity"
	"github.com/mead/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const maxProductPageSize = 100

// ProductService handles product listing operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	accountRepo    identity.AccountRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, accountRepo identity.AccountRepository, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create lists a new product for the seller.
// The listing succeeds once the product is stored; follower notification runs
// from the published ProductCreated event and never fails the listing.
func (s *ProductService) Create(ctx context.Context, sellerID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	seller, err := s.accountRepo.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if !seller.CanSell() {
		return nil, shared.NewDomainError(shared.CodeForbidden, "Only sellers can list products")
	}

	product, err := catalog.NewProduct(seller.ID, req.details())
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Get retrieves a product by ID
func (s *ProductService) Get(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with search and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize(maxProductPageSize)

	products, total, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToProductResponses(products), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// ListBySeller returns every product of a seller, newest first
func (s *ProductService) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]ProductResponse, error) {
	products, err := s.productRepo.FindBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Update changes a listing. Only the owner or an administrator may update it.
func (s *ProductService) Update(ctx context.Context, actorID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actorID, product); err != nil {
		return nil, err
	}

	expectedVersion := product.Version
	if req.Version != nil {
		if *req.Version != product.Version {
			return nil, shared.NewDomainError(shared.CodeConcurrentModification, "The product has been modified by another user")
		}
		expectedVersion = *req.Version
	}

	if err := product.Update(req.applyTo(product.Details())); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product, expectedVersion); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a listing. Placed orders keep their snapshots; carts still
// referencing the product fail reference resolution at checkout.
func (s *ProductService) Delete(ctx context.Context, actorID, productID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.authorize(ctx, actorID, product); err != nil {
		return err
	}

	product.MarkDeleted()
	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	s.publishEvents(ctx, product)
	return nil
}

// authorize allows the product owner and administrators
func (s *ProductService) authorize(ctx context.Context, actorID uuid.UUID, product *catalog.Product) error {
	if product.IsOwnedBy(actorID) {
		return nil
	}
	actor, err := s.accountRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrForbidden
		}
		return err
	}
	if !actor.Role.IsAdmin() {
		return shared.ErrForbidden
	}
	return nil
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	events := product.PullDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Int("event_count", len(events)),
			zap.Error(err),
		)
	}
}
