package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type HTTPError struct {
	Error   string   `json:"error"`
	Code    string   `json:"code,omitempty"`
	Details []string `json:"details,omitempty"`
}

var statusByCode = map[string]int{
	CodeUnauthenticated:             http.StatusUnauthorized,
	CodeIdentityProviderUnavailable: http.StatusServiceUnavailable,
	CodeForbidden:                   http.StatusForbidden,
	CodeValidation:                  http.StatusBadRequest,
	CodeNotFound:                    http.StatusNotFound,
	CodeConflict:                    http.StatusConflict,
	CodeTooLateToCancel:             http.StatusBadRequest,
	CodePaymentProcessingDisabled:   http.StatusServiceUnavailable,
	CodeMissingSignature:            http.StatusBadRequest,
	CodeInvalidSignature:            http.StatusBadRequest,
	CodeInternal:                    http.StatusInternalServerError,
}

var defaultMessage = map[string]string{
	CodeUnauthenticated:             "Authentication required",
	CodeIdentityProviderUnavailable: "Identity provider unavailable",
	CodeForbidden:                   "Insufficient permissions",
	CodeValidation:                  "Invalid request data",
	CodeNotFound:                    "Resource not found",
	CodeConflict:                    "Conflict",
	CodeTooLateToCancel:             "Appointments cannot be canceled within 24 hours",
	CodePaymentProcessingDisabled:   "Payment processing is currently unavailable",
	CodeMissingSignature:            "missing Stripe signature",
	CodeInvalidSignature:            "invalid Stripe signature",
	CodeInternal:                    "Internal server error",
}

// StatusFor maps an error code to its HTTP status.
func StatusFor(code string) int {
	if s, ok := statusByCode[code]; ok {
		return s
	}
	return http.StatusBadRequest
}

func Write(c *gin.Context, status int, code, message string, details ...string) {
	c.JSON(status, HTTPError{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// Respond writes err as a JSON error envelope. Anything that is not a
// BusinessError is logged and answered with a generic 500.
func Respond(c *gin.Context, err error) {
	if be, ok := As(err); ok {
		msg := be.Message
		if msg == "" {
			msg = defaultMessage[be.Code]
		}
		if msg == "" {
			msg = be.Code
		}
		Write(c, StatusFor(be.Code), be.Code, msg, be.Details...)
		return
	}

	log.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("unexpected error")
	Write(c, http.StatusInternalServerError, CodeInternal, defaultMessage[CodeInternal])
}

// Abort is Respond for middleware.
func Abort(c *gin.Context, err error) {
	Respond(c, err)
	c.Abort()
}

func BadRequest(c *gin.Context, code, message string, details ...string) {
	Write(c, http.StatusBadRequest, code, message, details...)
}
