package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/community"
)

// FollowEdgeModel stores one follow edge. The storefront index is the
// reverse index used to find followers without scanning accounts.
type FollowEdgeModel struct {
	FollowerID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	StorefrontID uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_follow_edges_storefront"`
	CreatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FollowEdgeModel) TableName() string {
	return "follow_edges"
}

// FollowEdgeModelFromDomain creates a persistence model from a domain edge
func FollowEdgeModelFromDomain(e community.FollowEdge) *FollowEdgeModel {
	return &FollowEdgeModel{
		FollowerID:   e.FollowerID,
		StorefrontID: e.StorefrontID,
		CreatedAt:    e.CreatedAt,
	}
}
