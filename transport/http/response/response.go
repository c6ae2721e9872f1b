package response

import (
	"encoding/json"
	"kiosk/shared/constant"
	"kiosk/shared/failure"
	"kiosk/shared/logger"
	"net/http"
)

type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
	Code  *string `json:"code,omitempty"`
}

// TurnError still gives the kiosk something to say.
type TurnError struct {
	Error  string  `json:"error"`
	Code   *string `json:"code,omitempty"`
	Speech string  `json:"speech"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

// WithMessage sends a response with a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Message: &message})
}

// WithJSON sends a response containing a JSON object
func WithJSON(writer http.ResponseWriter, code int, jsonPayload interface{}) {
	response(writer, code, Data[any]{Data: &jsonPayload})
}

// WithPayload sends the object as the whole body, without the data envelope
func WithPayload(writer http.ResponseWriter, code int, payload interface{}) {
	response(writer, code, payload)
}

// WithError sends a response with an error message. Internal errors are not echoed to the client.
func WithError(writer http.ResponseWriter, err error) {
	code, errMsg, errCode := describe(err)

	response(writer, code, Error{Error: &errMsg, Code: errCode})
}

// WithTurnError answers a failed dialogue turn with the fallback speech alongside the error.
func WithTurnError(writer http.ResponseWriter, err error, speech string) {
	code, errMsg, errCode := describe(err)

	response(writer, code, TurnError{Error: errMsg, Code: errCode, Speech: speech})
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func describe(err error) (int, string, *string) {
	code := failure.GetCode(err)

	errMsg := err.Error()
	if code >= http.StatusInternalServerError {
		errMsg = http.StatusText(code)
	}

	var errCode *string
	if c := failure.GetErrorCode(err); c != constant.Empty {
		errCode = &c
	}

	return code, errMsg, errCode
}

func response(writer http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
