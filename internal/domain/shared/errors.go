package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so that
// errors.Is matches predefined errors even when the message differs.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared across bounded contexts
const (
	CodeNotFound                   = "NOT_FOUND"
	CodeAlreadyExists              = "ALREADY_EXISTS"
	CodeInvalidInput               = "INVALID_INPUT"
	CodeInvalidQuantity            = "INVALID_QUANTITY"
	CodeConcurrentModification     = "CONCURRENT_MODIFICATION"
	CodeUnauthorized               = "UNAUTHORIZED"
	CodeForbidden                  = "FORBIDDEN"
	CodeInvalidState               = "INVALID_STATE"
	CodeReferenceResolutionFailure = "REFERENCE_RESOLUTION_FAILURE"
	CodePartialFanoutFailure       = "PARTIAL_FANOUT_FAILURE"
)

// Common domain errors
var (
	ErrNotFound                   = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists              = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput               = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrInvalidQuantity            = NewDomainError(CodeInvalidQuantity, "Quantity must be positive")
	ErrConcurrencyConflict        = NewDomainError(CodeConcurrentModification, "Resource was modified by another process")
	ErrUnauthorized               = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrForbidden                  = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState               = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrReferenceResolutionFailure = NewDomainError(CodeReferenceResolutionFailure, "Referenced resource could not be resolved")
	ErrPartialFanoutFailure       = NewDomainError(CodePartialFanoutFailure, "Notification could not be delivered to every follower")
)
