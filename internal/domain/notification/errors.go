package notification

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/shared"
)

// PartialFanoutFailure reports followers whose inbox write failed.
// The notification record and the listing are kept; the failed followers can be retried.
type PartialFanoutFailure struct {
	NotificationID    uuid.UUID
	FailedFollowerIDs []uuid.UUID
	Causes            map[uuid.UUID]error
}

func (e *PartialFanoutFailure) Error() string {
	return fmt.Sprintf("notification %s: inbox write failed for %d follower(s)", e.NotificationID, len(e.FailedFollowerIDs))
}

func (e *PartialFanoutFailure) Unwrap() error {
	return shared.ErrPartialFanoutFailure
}

// DomainError exposes the error as a DomainError for transport mapping
func (e *PartialFanoutFailure) DomainError() *shared.DomainError {
	return shared.NewDomainError(shared.CodePartialFanoutFailure, e.Error())
}
