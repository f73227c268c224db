package community

import (
	"context"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/community"
	"github.com/mead/backend/internal/domain/identity"
	"go.uber.org/zap"
)

// FollowService manages follow edges between accounts and storefronts
type FollowService struct {
	accountRepo identity.AccountRepository
	followRepo  community.FollowRepository
	logger      *zap.Logger
}

// NewFollowService creates a new FollowService
func NewFollowService(accountRepo identity.AccountRepository, followRepo community.FollowRepository, logger *zap.Logger) *FollowService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowService{
		accountRepo: accountRepo,
		followRepo:  followRepo,
		logger:      logger,
	}
}

// Follow adds the edge follower -> storefront. Following twice is the same as following once.
func (s *FollowService) Follow(ctx context.Context, followerID, storefrontID uuid.UUID) error {
	edge, err := community.NewFollowEdge(followerID, storefrontID)
	if err != nil {
		return err
	}
	if err := s.requireAccounts(ctx, followerID, storefrontID); err != nil {
		return err
	}

	added, err := s.followRepo.Add(ctx, edge)
	if err != nil {
		return err
	}
	if added {
		s.logger.Debug("storefront followed",
			zap.String("follower_id", followerID.String()),
			zap.String("storefront_id", storefrontID.String()),
		)
	}
	return nil
}

// Unfollow removes the edge if present
func (s *FollowService) Unfollow(ctx context.Context, followerID, storefrontID uuid.UUID) error {
	removed, err := s.followRepo.Remove(ctx, followerID, storefrontID)
	if err != nil {
		return err
	}
	if removed {
		s.logger.Debug("storefront unfollowed",
			zap.String("follower_id", followerID.String()),
			zap.String("storefront_id", storefrontID.String()),
		)
	}
	return nil
}

// IsFollowing reports whether the edge exists
func (s *FollowService) IsFollowing(ctx context.Context, followerID, storefrontID uuid.UUID) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, storefrontID)
}

// FollowersOf returns the accounts following the storefront
func (s *FollowService) FollowersOf(ctx context.Context, storefrontID uuid.UUID) ([]*identity.Account, error) {
	if _, err := s.accountRepo.FindByID(ctx, storefrontID); err != nil {
		return nil, err
	}
	ids, err := s.followRepo.FollowersOf(ctx, storefrontID)
	if err != nil {
		return nil, err
	}
	return resolveAccounts(ctx, s.accountRepo, ids)
}

// FollowingOf returns the storefront owners the account follows
func (s *FollowService) FollowingOf(ctx context.Context, followerID uuid.UUID) ([]*identity.Account, error) {
	if _, err := s.accountRepo.FindByID(ctx, followerID); err != nil {
		return nil, err
	}
	ids, err := s.followRepo.FollowingOf(ctx, followerID)
	if err != nil {
		return nil, err
	}
	return resolveAccounts(ctx, s.accountRepo, ids)
}

func (s *FollowService) requireAccounts(ctx context.Context, ids ...uuid.UUID) error {
	for _, id := range ids {
		if _, err := s.accountRepo.FindByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// resolveAccounts loads accounts in one batch; ids of deleted accounts are dropped
func resolveAccounts(ctx context.Context, repo identity.AccountRepository, ids []uuid.UUID) ([]*identity.Account, error) {
	if len(ids) == 0 {
		return []*identity.Account{}, nil
	}
	return repo.FindByIDs(ctx, ids)
}
