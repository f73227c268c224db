package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/mead/backend/internal/domain/catalog"
	"github.com/mead/backend/internal/domain/notification"
	"github.com/mead/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductCreatedHandler fans out ProductCreated events to the seller's followers
type ProductCreatedHandler struct {
	fanout *FanoutService
	logger *zap.Logger
}

// NewProductCreatedHandler creates a new ProductCreatedHandler
func NewProductCreatedHandler(fanout *FanoutService, logger *zap.Logger) *ProductCreatedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductCreatedHandler{
		fanout: fanout,
		logger: logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *ProductCreatedHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductCreated}
}

// Handle runs the fan-out. A partial failure is logged and not returned:
// the record exists and the failed followers are retried explicitly, so
// redelivering the event would only create a second record.
func (h *ProductCreatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	created, ok := event.(*catalog.ProductCreatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T for %s", event, event.EventType())
	}

	result, err := h.fanout.OnProductCreated(ctx, created.Product)
	var partial *notification.PartialFanoutFailure
	if errors.As(err, &partial) {
		h.logger.Warn("product notification partially delivered",
			zap.String("product_id", created.ProductID.String()),
			zap.String("notification_id", partial.NotificationID.String()),
			zap.Int("delivered", len(result.Delivered)),
			zap.Int("failed", len(partial.FailedFollowerIDs)),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("fan out product %s: %w", created.ProductID, err)
	}

	h.logger.Info("product notification delivered",
		zap.String("product_id", created.ProductID.String()),
		zap.String("notification_id", result.NotificationID.String()),
		zap.Int("followers", len(result.Delivered)),
	)
	return nil
}

var _ shared.EventHandler = (*ProductCreatedHandler)(nil)
