package util

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

type Envelope struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func SuccessResponse(data interface{}) Envelope {
	return Envelope{Status: "success", Data: data}
}

func MessageResponse(msg string) Envelope {
	return Envelope{Status: "success", Message: msg}
}

func FailedResponse(err error) Envelope {
	return Envelope{Status: "error", Message: messageFor(err)}
}

func FailedMessage(msg string) Envelope {
	return Envelope{Status: "error", Message: msg}
}

/*
* Map the error to a status code
* Binding errors coming from gin are treated as validation failures
 */
func StatusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &verrs), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Internal failures never leak their text to the caller.
func messageFor(err error) string {
	if err == nil {
		return ""
	}
	if StatusFor(err) == http.StatusInternalServerError {
		return SOMETHING_WENT_WRONG
	}
	return err.Error()
}
