package failure

import (
	"errors"
	"net/http"
)

// Machine-readable codes kiosk clients branch on.
const (
	CodeBookingDateConflict = "BOOKING_DATE_CONFLICT"
	CodeSessionBusy         = "SESSION_BUSY"
	CodeTenantNotFound      = "TENANT_NOT_FOUND"
	CodeValidation          = "VALIDATION_ERROR"
)

// Failure is an error that carries the HTTP status to answer with and an optional machine-readable code.
type Failure struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
}

var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(status int, message, code string) error {
	return &Failure{Code: status, Message: message, ErrorCode: code}
}

// BadRequest turns a decode or validation error into a 400. It returns nil for a nil error.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusBadRequest, err.Error(), CodeValidation)
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, msg, CodeValidation)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, msg, "")
}

func NotFound(entityName string) error {
	return newFailure(http.StatusNotFound, entityName, "")
}

func NotFoundWithCode(message, code string) error {
	return newFailure(http.StatusNotFound, message, code)
}

func ConflictWithCode(message, code string) error {
	return newFailure(http.StatusConflict, message, code)
}

// GetCode returns the HTTP status carried by err, 500 for anything that is not a Failure.
func GetCode(err error) int {
	if fail, ok := as(err); ok {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetErrorCode returns the machine-readable code of err, or empty when it has none.
func GetErrorCode(err error) string {
	if fail, ok := as(err); ok {
		return fail.ErrorCode
	}

	return ""
}

// IsConflict reports whether err is a booking date conflict.
func IsConflict(err error) bool {
	return GetErrorCode(err) == CodeBookingDateConflict
}

func as(err error) (*Failure, bool) {
	var fail *Failure

	return fail, errors.As(err, &fail)
}
