package httperr

import "errors"

// Error codes shared by every endpoint.
const (
	CodeUnauthenticated             = "unauthenticated"
	CodeIdentityProviderUnavailable = "identity_provider_unavailable"
	CodeForbidden                   = "forbidden"
	CodeValidation                  = "validation_error"
	CodeNotFound                    = "not_found"
	CodeConflict                    = "conflict"
	CodeTooLateToCancel             = "too_late_to_cancel"
	CodePaymentProcessingDisabled   = "payment_processing_disabled"
	CodeMissingSignature            = "missing_signature"
	CodeInvalidSignature            = "invalid_signature"
	CodeInternal                    = "internal"
)

type BusinessError struct {
	Code    string
	Message string
	Details []string
}

func (e BusinessError) Error() string {
	if e.Message != "" {
		return e.Code + ": " + e.Message
	}
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

// New builds a BusinessError carrying a user-facing message.
func New(code, message string, details ...string) error {
	return BusinessError{Code: code, Message: message, Details: details}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// As extracts the BusinessError wrapped in err.
func As(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}
