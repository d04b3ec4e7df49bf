package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeLineNotFound       = "LINE_NOT_FOUND"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeEmptyCart          = "EMPTY_CART"
	ErrCodeDuplicateUser      = "DUPLICATE_USER"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeNotAuthenticated   = "NOT_AUTHENTICATED"
	ErrCodeMailNotConfigured  = "MAIL_NOT_CONFIGURED"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

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
	ErrMissingCredentials = NewDomainError(ErrCodeMissingField, "Username and password are required")
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrLineNotFound       = NewDomainError(ErrCodeLineNotFound, "Cart line not found")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Number of bottles must be at least 1")
	ErrEmptyCart          = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrDuplicateUser      = NewDomainError(ErrCodeDuplicateUser, "Username already exists")
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidCredentials, "Incorrect username or password")
	ErrNotAuthenticated   = NewDomainError(ErrCodeNotAuthenticated, "You must be logged in to access this page")
	ErrMailNotConfigured  = NewDomainError(ErrCodeMailNotConfigured, "Email configuration is missing")
)
