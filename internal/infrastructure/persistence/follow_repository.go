package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/community"
	"github.com/mead/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFollowRepository implements FollowRepository using GORM.
// Followers are looked up through the storefront index on follow_edges.
type GormFollowRepository struct {
	db *gorm.DB
}

// NewGormFollowRepository creates a new GormFollowRepository
func NewGormFollowRepository(db *gorm.DB) *GormFollowRepository {
	return &GormFollowRepository{db: db}
}

// Add inserts the edge unless it exists and reports whether it was inserted
func (r *GormFollowRepository) Add(ctx context.Context, edge community.FollowEdge) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(models.FollowEdgeModelFromDomain(edge))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Remove deletes the edge and reports whether it existed
func (r *GormFollowRepository) Remove(ctx context.Context, followerID, storefrontID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.FollowEdgeModel{},
		"follower_id = ? AND storefront_id = ?", followerID, storefrontID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists reports whether followerID follows storefrontID
func (r *GormFollowRepository) Exists(ctx context.Context, followerID, storefrontID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.FollowEdgeModel{}).
		Where("follower_id = ? AND storefront_id = ?", followerID, storefrontID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FollowersOf returns the follower ids of a storefront in follow order
func (r *GormFollowRepository) FollowersOf(ctx context.Context, storefrontID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := r.db.WithContext(ctx).Model(&models.FollowEdgeModel{}).
		Where("storefront_id = ?", storefrontID).
		Order("created_at ASC, follower_id ASC").
		Pluck("follower_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FollowingOf returns the storefront ids an account follows in follow order
func (r *GormFollowRepository) FollowingOf(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := r.db.WithContext(ctx).Model(&models.FollowEdgeModel{}).
		Where("follower_id = ?", followerID).
		Order("created_at ASC, storefront_id ASC").
		Pluck("storefront_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

var _ community.FollowRepository = (*GormFollowRepository)(nil)
