package bridge

import (
	"errors"

	"github.com/henryt56/expense-tracker/internal/core"
	"github.com/henryt56/expense-tracker/internal/services"
)

// Error codes carried across the bridge. The message next to the code is the
// underlying error text verbatim; the bridge does not translate errors into a
// different taxonomy.
const (
	CodeBadRequest      = "bad_request"
	CodeInvalidArgument = "invalid_argument"
	CodeNotFound        = "not_found"
	CodeUnknownChannel  = "unknown_channel"
	CodeStoreError      = "store_error"
)

// Envelope is the tagged result returned for every invocation: either OK with
// data, or not OK with a code and message. Callers must treat every channel
// as fallible.
type Envelope struct {
	OK    bool           `json:"ok"`
	Data  any            `json:"data,omitempty"`
	Error *EnvelopeError `json:"error,omitempty"`
}

type EnvelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func success(data any) Envelope {
	return Envelope{OK: true, Data: data}
}

func failure(code, message string) Envelope {
	return Envelope{OK: false, Error: &EnvelopeError{Code: code, Message: message}}
}

func errorCode(err error) string {
	var bad errBadPayload
	switch {
	case errors.As(err, &bad):
		return CodeBadRequest
	case errors.Is(err, core.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, services.ErrInvalidInput):
		return CodeInvalidArgument
	default:
		return CodeStoreError
	}
}

func statusFor(code string) int {
	switch code {
	case CodeBadRequest, CodeInvalidArgument:
		return 400
	case CodeNotFound, CodeUnknownChannel:
		return 404
	default:
		return 500
	}
}
