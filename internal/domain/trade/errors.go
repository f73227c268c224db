package trade

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mead/backend/internal/domain/shared"
)

// ReferenceResolutionError reports cart lines whose product no longer exists.
// It unwraps to shared.ErrReferenceResolutionFailure.
type ReferenceResolutionError struct {
	MissingProductIDs []uuid.UUID
}

func (e *ReferenceResolutionError) Error() string {
	ids := make([]string, len(e.MissingProductIDs))
	for i, id := range e.MissingProductIDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("cart references products that no longer exist: %s", strings.Join(ids, ", "))
}

func (e *ReferenceResolutionError) Unwrap() error {
	return shared.ErrReferenceResolutionFailure
}

// DomainError exposes the error as a DomainError for transport mapping
func (e *ReferenceResolutionError) DomainError() *shared.DomainError {
	return shared.NewDomainError(shared.CodeReferenceResolutionFailure, e.Error())
}
