// Package http provides the JSON API server and its handlers.
//
// This file implements the Builder Pattern for constructing JSON responses.
// Mutation responses also carry an HX-Trigger header naming the partitions
// the client should refresh.

package http

import (
	"encoding/json"
	"net/http"

	"finboard/internal/actions"
)

// ResponseBuilder provides a fluent API for building JSON responses.
type ResponseBuilder struct {
	triggers   map[string]any
	statusCode int
	body       any
	headers    map[string]string
}

// NewResponse creates a new response builder with default 200 status.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{
		triggers:   make(map[string]any),
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *ResponseBuilder) Status(code int) *ResponseBuilder {
	b.statusCode = code
	return b
}

// Trigger adds a named trigger with optional data to the HX-Trigger header.
func (b *ResponseBuilder) Trigger(name string, data any) *ResponseBuilder {
	b.triggers[name] = data
	return b
}

// TriggerSignals adds one trigger per invalidated partition.
func (b *ResponseBuilder) TriggerSignals(signals []string) *ResponseBuilder {
	for _, s := range signals {
		b.Trigger(s, struct{}{})
	}
	return b
}

// Header adds a custom header to the response.
func (b *ResponseBuilder) Header(name, value string) *ResponseBuilder {
	b.headers[name] = value
	return b
}

// JSON sets the value encoded as the response body.
func (b *ResponseBuilder) JSON(v any) *ResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *ResponseBuilder) Write(w http.ResponseWriter) {
	var payload []byte
	if b.body != nil {
		var err error
		payload, err = json.Marshal(b.body)
		if err != nil {
			http.Error(w, `{"success":false,"error":"encode response"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
	}

	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if len(b.triggers) > 0 {
		if triggerJSON, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(triggerJSON))
		}
	}

	w.WriteHeader(b.statusCode)
	if len(payload) > 0 {
		_, _ = w.Write(payload)
		_, _ = w.Write([]byte("\n"))
	}
}

// errorBody matches the failure shape of actions.Result.
type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ErrorResponse creates a standard JSON error response.
func ErrorResponse(statusCode int, message string) *ResponseBuilder {
	return NewResponse().
		Status(statusCode).
		JSON(errorBody{Error: message})
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error response.
func UnprocessableEntityError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// NotFoundError creates a 404 Not Found error response.
func NotFoundError(message string) *ResponseBuilder {
	return ErrorResponse(http.StatusNotFound, message)
}

// TooManyRequestsError creates a 429 response. The limiter sets Retry-After.
func TooManyRequestsError() *ResponseBuilder {
	return ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}

// StatusFor maps a failed mutation's kind to an HTTP status.
func StatusFor(kind actions.ErrorKind) int {
	switch kind {
	case actions.KindValidation:
		return http.StatusUnprocessableEntity
	case actions.KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ResultResponse builds the response of a mutation. Successful results use
// successStatus and trigger every invalidated partition.
func ResultResponse[T any](res actions.Result[T], successStatus int) *ResponseBuilder {
	if !res.Success {
		return NewResponse().Status(StatusFor(res.Kind)).JSON(res)
	}
	return NewResponse().
		Status(successStatus).
		TriggerSignals(res.Signals).
		JSON(res)
}
