package community

import (
	"context"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/community"
	"github.com/mead/backend/internal/domain/identity"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultDigestConcurrency = 8
	maxFeedPageSize          = 100
)

// AggregatorConfig tunes feed building
type AggregatorConfig struct {
	// DigestConcurrency bounds the number of feeds built at once
	DigestConcurrency int
	// DigestMessageLimit caps the history per digest feed; 0 keeps all of it
	DigestMessageLimit int
}

// Aggregator builds storefront feeds and digests from accounts, products,
// follow edges and message history
type Aggregator struct {
	accountRepo    identity.AccountRepository
	productRepo    catalog.ProductRepository
	followRepo     community.FollowRepository
	messageRepo    community.MessageRepository
	eventPublisher shared.EventPublisher
	cfg            AggregatorConfig
	logger         *zap.Logger
}

// NewAggregator creates a new Aggregator
func NewAggregator(
	accountRepo identity.AccountRepository,
	productRepo catalog.ProductRepository,
	followRepo community.FollowRepository,
	messageRepo community.MessageRepository,
	cfg AggregatorConfig,
	logger *zap.Logger,
) *Aggregator {
	if cfg.DigestConcurrency <= 0 {
		cfg.DigestConcurrency = defaultDigestConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		accountRepo: accountRepo,
		productRepo: productRepo,
		followRepo:  followRepo,
		messageRepo: messageRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (a *Aggregator) SetEventPublisher(publisher shared.EventPublisher) {
	a.eventPublisher = publisher
}

// GetFeed returns the storefront feed of an account
func (a *Aggregator) GetFeed(ctx context.Context, ownerID uuid.UUID) (*FeedResponse, error) {
	owner, err := a.accountRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	feed, err := a.buildFeed(ctx, owner, false)
	if err != nil {
		return nil, err
	}
	response := ToFeedResponse(feed)
	return &response, nil
}

// GetDigest returns the viewer's own storefront (sellers only) and every
// storefront the viewer follows, each with its message history, ordered by
// community.CompareDigest.
func (a *Aggregator) GetDigest(ctx context.Context, viewerID uuid.UUID) ([]FeedResponse, error) {
	viewer, err := a.accountRepo.FindByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	followingIDs, err := a.followRepo.FollowingOf(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	owners, err := resolveAccounts(ctx, a.accountRepo, followingIDs)
	if err != nil {
		return nil, err
	}
	if viewer.CanSell() {
		owners = append([]*identity.Account{viewer}, owners...)
	}
	owners = lo.UniqBy(owners, func(acc *identity.Account) uuid.UUID { return acc.ID })

	feeds, err := a.buildFeeds(ctx, owners, true)
	if err != nil {
		return nil, err
	}
	community.SortDigest(feeds)
	return ToFeedResponses(feeds), nil
}

// ListFeeds returns a page of storefront feeds in account creation order
func (a *Aggregator) ListFeeds(ctx context.Context, filter FeedListFilter) (*shared.Paginated[FeedResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  "created_at",
		OrderDir: "asc",
	}.Normalize(maxFeedPageSize)

	owners, total, err := a.accountRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	feeds, err := a.buildFeeds(ctx, owners, false)
	if err != nil {
		return nil, err
	}

	page := shared.NewPaginated(ToFeedResponses(feeds), total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// UpdateStorefront replaces the owner's storefront profile
func (a *Aggregator) UpdateStorefront(ctx context.Context, ownerID uuid.UUID, req UpdateStorefrontRequest) (*StorefrontResponse, error) {
	owner, err := a.accountRepo.FindByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	profile, err := identity.NewStorefrontProfile(req.Name, req.ImageURL, req.Description)
	if err != nil {
		return nil, err
	}

	owner.UpdateStorefront(profile)
	if err := a.accountRepo.Save(ctx, owner); err != nil {
		return nil, err
	}

	events := owner.PullDomainEvents()
	if a.eventPublisher != nil && len(events) > 0 {
		if err := a.eventPublisher.Publish(ctx, events...); err != nil {
			a.logger.Warn("failed to publish storefront events",
				zap.String("account_id", owner.ID.String()),
				zap.Error(err),
			)
		}
	}

	return &StorefrontResponse{
		Name:        owner.Storefront.Name,
		ImageURL:    owner.Storefront.ImageURL,
		Description: owner.Storefront.Description,
	}, nil
}

// PostMessage appends a chat line to a storefront's history
func (a *Aggregator) PostMessage(ctx context.Context, communityID, authorID uuid.UUID, content string) (*MessageResponse, error) {
	msg, err := community.NewMessage(communityID, authorID, content)
	if err != nil {
		return nil, err
	}
	if _, err := a.accountRepo.FindByID(ctx, communityID); err != nil {
		return nil, err
	}
	if _, err := a.accountRepo.FindByID(ctx, authorID); err != nil {
		return nil, err
	}

	if err := a.messageRepo.Append(ctx, msg); err != nil {
		return nil, err
	}
	response := ToMessageResponse(msg)
	return &response, nil
}

// ListMessages returns up to limit most recent messages, oldest first
func (a *Aggregator) ListMessages(ctx context.Context, communityID uuid.UUID, limit int) ([]MessageResponse, error) {
	if _, err := a.accountRepo.FindByID(ctx, communityID); err != nil {
		return nil, err
	}
	messages, err := a.messageRepo.ListByCommunity(ctx, communityID, limit)
	if err != nil {
		return nil, err
	}
	return ToMessageResponses(messages), nil
}

// buildFeeds builds one feed per owner with bounded concurrency, keeping owner order
func (a *Aggregator) buildFeeds(ctx context.Context, owners []*identity.Account, withMessages bool) ([]community.Feed, error) {
	feeds := make([]community.Feed, len(owners))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.DigestConcurrency)
	for i, owner := range owners {
		g.Go(func() error {
			feed, err := a.buildFeed(gctx, owner, withMessages)
			if err != nil {
				return err
			}
			feeds[i] = feed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return feeds, nil
}

func (a *Aggregator) buildFeed(ctx context.Context, owner *identity.Account, withMessages bool) (community.Feed, error) {
	feed := community.Feed{
		Owner:   owner.Public(),
		Profile: owner.Storefront,
	}

	products, err := a.productRepo.FindBySeller(ctx, owner.ID)
	if err != nil {
		return feed, err
	}
	feed.Products = products

	if feed.Followers, err = a.identities(ctx, a.followRepo.FollowersOf, owner.ID); err != nil {
		return feed, err
	}
	if feed.Following, err = a.identities(ctx, a.followRepo.FollowingOf, owner.ID); err != nil {
		return feed, err
	}

	if withMessages {
		messages, err := a.messageRepo.ListByCommunity(ctx, owner.ID, a.cfg.DigestMessageLimit)
		if err != nil {
			return feed, err
		}
		feed.Messages = messages
		if n := len(messages); n > 0 {
			feed.LastActivity = lo.ToPtr(messages[n-1].CreatedAt)
		}
		return feed, nil
	}

	last, err := a.messageRepo.Last(ctx, owner.ID)
	if err != nil {
		return feed, err
	}
	if last != nil {
		feed.LastActivity = lo.ToPtr(last.CreatedAt)
	}
	return feed, nil
}

func (a *Aggregator) identities(
	ctx context.Context,
	edges func(context.Context, uuid.UUID) ([]uuid.UUID, error),
	id uuid.UUID,
) ([]identity.PublicIdentity, error) {
	ids, err := edges(ctx, id)
	if err != nil {
		return nil, err
	}
	accounts, err := resolveAccounts(ctx, a.accountRepo, ids)
	if err != nil {
		return nil, err
	}
	return lo.Map(accounts, func(acc *identity.Account, _ int) identity.PublicIdentity { return acc.Public() }), nil
}
