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

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound        = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists   = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput    = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrMissingParent   = NewDomainError("MISSING_PARENT", "Required parent entity could not be resolved")
	ErrRunLocked       = NewDomainError("RUN_LOCKED", "Another reconciliation run holds the lock")
	ErrBatchFailed     = NewDomainError("BATCH_FAILED", "Creation batch was rejected by the store")
	ErrInvalidRegion   = NewDomainError("INVALID_REGION", "No region with the required currency exists")
	ErrInvalidDiscount = NewDomainError("INVALID_DISCOUNT", "Discount rule is out of range")
)
