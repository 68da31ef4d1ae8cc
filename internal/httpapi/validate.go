package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// requestError is a client error in the request body.
type requestError struct {
	message string
	fields  []fieldError
	cause   error
}

func (e *requestError) Error() string {
	return e.message + ": " + e.cause.Error()
}

func (e *requestError) Unwrap() error {
	return e.cause
}

// validationFields lists the failed rules of a validator error.
func validationFields(err error) []fieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	fields := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fieldError{Field: fe.Field(), Rule: fe.Tag()})
	}

	return fields
}
