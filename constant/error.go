package constant

import "net/http"

type ErrorType int

const (
	Successful ErrorType = iota
	ErrInternal
	ErrNotFound
	ErrInvalidRequest
	ErrUnauthorize
	ErrCredentialExists
	ErrInvalidCredentials
	ErrValidation
	ErrForbidden
	ErrTooManyAttempts
	ErrUpstreamUnavailable
)

var ErrorTypeMessage = map[ErrorType]string{
	Successful:             "success",
	ErrInternal:            "error internal",
	ErrNotFound:            "data not found",
	ErrInvalidRequest:      "invalid request",
	ErrUnauthorize:         "unauthorize request",
	ErrCredentialExists:    "user with this email already exists",
	ErrInvalidCredentials:  "invalid email or password",
	ErrValidation:          "validation failed",
	ErrForbidden:           "forbidden",
	ErrTooManyAttempts:     "too many login attempts, try again later",
	ErrUpstreamUnavailable: "upstream service unavailable",
}

var ErrorTypeHTTPCode = map[ErrorType]int{
	Successful:             http.StatusOK,
	ErrInternal:            http.StatusInternalServerError,
	ErrNotFound:            http.StatusNotFound,
	ErrInvalidRequest:      http.StatusBadRequest,
	ErrUnauthorize:         http.StatusUnauthorized,
	ErrCredentialExists:    http.StatusBadRequest,
	ErrInvalidCredentials:  http.StatusUnauthorized,
	ErrValidation:          http.StatusBadRequest,
	ErrForbidden:           http.StatusForbidden,
	ErrTooManyAttempts:     http.StatusTooManyRequests,
	ErrUpstreamUnavailable: http.StatusServiceUnavailable,
}

var ErrorTypeCode = map[ErrorType]string{
	Successful:             "0000",
	ErrInternal:            "0001",
	ErrNotFound:            "0002",
	ErrInvalidRequest:      "0003",
	ErrUnauthorize:         "0004",
	ErrCredentialExists:    "0005",
	ErrInvalidCredentials:  "0006",
	ErrValidation:          "0007",
	ErrForbidden:           "0008",
	ErrTooManyAttempts:     "0009",
	ErrUpstreamUnavailable: "0010",
}
