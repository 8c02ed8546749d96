package errors

import (
	stderrors "errors"

	"github.com/muhammadheryan/crm/constant"
)

type CustomError struct {
	errType constant.ErrorType
	fields  map[string]string
}

func (c CustomError) Error() string {
	return constant.ErrorTypeMessage[c.errType]
}

func (c CustomError) ErrorCode() string {
	return constant.ErrorTypeCode[c.errType]
}

func (c CustomError) ErrorHTTPCode() int {
	return constant.ErrorTypeHTTPCode[c.errType]
}

func (c CustomError) ErrorType() constant.ErrorType {
	return c.errType
}

// Fields returns per-field validation messages, nil for other error types.
func (c CustomError) Fields() map[string]string {
	return c.fields
}

func SetCustomError(errorType constant.ErrorType) CustomError {
	return CustomError{
		errType: errorType,
	}
}

// SetValidationError builds an ErrValidation carrying field level detail.
func SetValidationError(fields map[string]string) CustomError {
	return CustomError{
		errType: constant.ErrValidation,
		fields:  fields,
	}
}

// Is reports whether err is a CustomError of the given type.
func Is(err error, errorType constant.ErrorType) bool {
	var ce CustomError
	if !stderrors.As(err, &ce) {
		return false
	}
	return ce.errType == errorType
}

// TypeOf returns the error type of err, ErrInternal for untyped errors.
func TypeOf(err error) constant.ErrorType {
	var ce CustomError
	if !stderrors.As(err, &ce) {
		return constant.ErrInternal
	}
	return ce.errType
}
