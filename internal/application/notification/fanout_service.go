package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/community"
	"github.com/mead/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// FanoutMetrics records inbox delivery outcomes
type FanoutMetrics interface {
	RecordFanout(ctx context.Context, kind notification.Kind, delivered, failed int)
}

// FanoutService writes a notification record and appends it to every
// follower's inbox
type FanoutService struct {
	recordRepo notification.RecordRepository
	inboxRepo  notification.InboxRepository
	followRepo community.FollowRepository
	deliverer  notification.Deliverer
	metrics    FanoutMetrics
	logger     *zap.Logger
}

// FanoutOption is a functional option for configuring the service
type FanoutOption func(*FanoutService)

// WithDeliverer sets the real-time delivery collaborator
func WithDeliverer(d notification.Deliverer) FanoutOption {
	return func(s *FanoutService) {
		s.deliverer = d
	}
}

// WithFanoutMetrics sets the recorder for delivery outcomes
func WithFanoutMetrics(m FanoutMetrics) FanoutOption {
	return func(s *FanoutService) {
		s.metrics = m
	}
}

// NewFanoutService creates a new FanoutService
func NewFanoutService(
	recordRepo notification.RecordRepository,
	inboxRepo notification.InboxRepository,
	followRepo community.FollowRepository,
	logger *zap.Logger,
	opts ...FanoutOption,
) *FanoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &FanoutService{
		recordRepo: recordRepo,
		inboxRepo:  inboxRepo,
		followRepo: followRepo,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnProductCreated announces a new listing to the seller's followers.
// If the record cannot be stored nothing is fanned out. Failed inbox writes
// are reported as *notification.PartialFanoutFailure alongside the result.
func (s *FanoutService) OnProductCreated(ctx context.Context, product catalog.ProductSnapshot) (*FanoutResult, error) {
	record, err := notification.NewProductRecord(notification.ProductPayload{Product: product})
	if err != nil {
		return nil, err
	}
	if err := s.recordRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	followers, err := s.followRepo.FollowersOf(ctx, record.EmitterID)
	if err != nil {
		return &FanoutResult{NotificationID: record.ID}, err
	}

	return s.fanout(ctx, record, followers)
}

// Retry re-appends an existing notification for the given followers.
// Followers that already have the entry are not duplicated.
func (s *FanoutService) Retry(ctx context.Context, notificationID uuid.UUID, followerIDs []uuid.UUID) (*FanoutResult, error) {
	record, err := s.recordRepo.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	return s.fanout(ctx, record, followerIDs)
}

func (s *FanoutService) fanout(ctx context.Context, record *notification.Record, followers []uuid.UUID) (*FanoutResult, error) {
	result := &FanoutResult{
		NotificationID: record.ID,
		Delivered:      make([]uuid.UUID, 0, len(followers)),
		Failed:         []uuid.UUID{},
	}
	causes := make(map[uuid.UUID]error)

	for _, followerID := range followers {
		if _, err := s.inboxRepo.Append(ctx, notification.NewInboxEntry(followerID, record.ID)); err != nil {
			s.logger.Warn("failed to append notification to inbox",
				zap.String("notification_id", record.ID.String()),
				zap.String("follower_id", followerID.String()),
				zap.Error(err),
			)
			result.Failed = append(result.Failed, followerID)
			causes[followerID] = err
			continue
		}
		result.Delivered = append(result.Delivered, followerID)
	}

	if s.metrics != nil {
		s.metrics.RecordFanout(ctx, record.Kind, len(result.Delivered), len(result.Failed))
	}

	if s.deliverer != nil && len(result.Delivered) > 0 {
		if err := s.deliverer.Deliver(ctx, record, result.Delivered); err != nil {
			s.logger.Warn("real-time delivery failed",
				zap.String("notification_id", record.ID.String()),
				zap.Int("recipients", len(result.Delivered)),
				zap.Error(err),
			)
		}
	}

	if len(result.Failed) > 0 {
		return result, &notification.PartialFanoutFailure{
			NotificationID:    record.ID,
			FailedFollowerIDs: result.Failed,
			Causes:            causes,
		}
	}

	s.logger.Debug("notification fanned out",
		zap.String("notification_id", record.ID.String()),
		zap.String("kind", string(record.Kind)),
		zap.Int("delivered", len(result.Delivered)),
	)
	return result, nil
}
