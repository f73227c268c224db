package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/notification"
	"github.com/mead/backend/internal/domain/shared"
	"github.com/mead/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNotificationRecordRepository implements RecordRepository using GORM
type GormNotificationRecordRepository struct {
	db *gorm.DB
}

// NewGormNotificationRecordRepository creates a new GormNotificationRecordRepository
func NewGormNotificationRecordRepository(db *gorm.DB) *GormNotificationRecordRepository {
	return &GormNotificationRecordRepository{db: db}
}

// Create inserts a notification record
func (r *GormNotificationRecordRepository) Create(ctx context.Context, record *notification.Record) error {
	model, err := models.NotificationModelFromDomain(record)
	if err != nil {
		return err
	}
	return translateError(r.db.WithContext(ctx).Create(model).Error)
}

// FindByID finds a notification record by ID
func (r *GormNotificationRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*notification.Record, error) {
	var model models.NotificationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain()
}

// FindByIDs returns the records that exist among ids
func (r *GormNotificationRecordRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*notification.Record, error) {
	if len(ids) == 0 {
		return []*notification.Record{}, nil
	}
	var rows []models.NotificationModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	records := make([]*notification.Record, 0, len(rows))
	for i := range rows {
		record, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

var _ notification.RecordRepository = (*GormNotificationRecordRepository)(nil)

// GormInboxRepository implements InboxRepository using GORM
type GormInboxRepository struct {
	db *gorm.DB
}

// NewGormInboxRepository creates a new GormInboxRepository
func NewGormInboxRepository(db *gorm.DB) *GormInboxRepository {
	return &GormInboxRepository{db: db}
}

// Append inserts the entry unless the (account, notification) pair exists
func (r *GormInboxRepository) Append(ctx context.Context, entry notification.InboxEntry) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(models.InboxEntryModelFromDomain(entry))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByAccount returns the account's entries newest first
func (r *GormInboxRepository) ListByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]notification.InboxEntry, int64, error) {
	filter = filter.Normalize(0)
	query := r.db.WithContext(ctx).Model(&models.InboxEntryModel{}).Where("account_id = ?", accountID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InboxEntryModel
	if err := query.
		Order("created_at DESC, notification_id DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]notification.InboxEntry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, total, nil
}

// MarkRead sets read_at on an unread entry and returns the stored entry
func (r *GormInboxRepository) MarkRead(ctx context.Context, accountID, notificationID uuid.UUID) (*notification.InboxEntry, error) {
	var model models.InboxEntryModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC().Truncate(time.Microsecond)
		if err := tx.Model(&models.InboxEntryModel{}).
			Where("account_id = ? AND notification_id = ? AND read_at IS NULL", accountID, notificationID).
			Update("read_at", now).Error; err != nil {
			return err
		}
		return tx.First(&model, "account_id = ? AND notification_id = ?", accountID, notificationID).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	entry := model.ToDomain()
	return &entry, nil
}

// CountUnread counts the account's entries without read_at
func (r *GormInboxRepository) CountUnread(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InboxEntryModel{}).
		Where("account_id = ? AND read_at IS NULL", accountID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ notification.InboxRepository = (*GormInboxRepository)(nil)
