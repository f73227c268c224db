package messaging

import (
	"context"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/notification"
	"go.uber.org/zap"
)

// LogDeliverer records deliveries in the log. Used when no broker is configured.
type LogDeliverer struct {
	logger *zap.Logger
}

// NewLogDeliverer creates a new LogDeliverer
func NewLogDeliverer(logger *zap.Logger) *LogDeliverer {
	return &LogDeliverer{logger: logger}
}

// Deliver implements notification.Deliverer
func (d *LogDeliverer) Deliver(_ context.Context, record *notification.Record, recipients []uuid.UUID) error {
	d.logger.Info("notification delivered",
		zap.String("notification_id", record.ID.String()),
		zap.String("kind", string(record.Kind)),
		zap.String("emitter_id", record.EmitterID.String()),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}

var _ notification.Deliverer = (*LogDeliverer)(nil)
