package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/trade"
	"github.com/mead/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCartRepository implements CartRepository using GORM
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Load returns the buyer's cart in insertion order
func (r *GormCartRepository) Load(ctx context.Context, buyerID uuid.UUID) (trade.Cart, error) {
	var rows []models.CartLineModel
	if err := r.db.WithContext(ctx).
		Where("account_id = ?", buyerID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return trade.Cart{}, err
	}
	return models.CartFromModels(rows), nil
}

// Save replaces the buyer's stored lines with the lines of cart.
// The buyer's account row is locked first so concurrent saves for one buyer
// run one after the other and the last one wins. Lines are upserted, so a
// save never fails on a row another transaction wrote.
func (r *GormCartRepository) Save(ctx context.Context, buyerID uuid.UUID, cart trade.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.AccountModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", buyerID).
			Limit(1).
			Find(&owner).Error; err != nil {
			return err
		}

		rows := models.CartLineModelsFromDomain(buyerID, cart)
		stale := tx.Where("account_id = ?", buyerID)
		if len(rows) > 0 {
			stale = stale.Where("product_id NOT IN ?", cart.ProductIDs())
		}
		if err := stale.Delete(&models.CartLineModel{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "position"}),
		}).Create(&rows).Error
	})
}

// Clear removes every line of the buyer's cart
func (r *GormCartRepository) Clear(ctx context.Context, buyerID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.CartLineModel{}, "account_id = ?", buyerID).Error
}

var _ trade.CartRepository = (*GormCartRepository)(nil)
