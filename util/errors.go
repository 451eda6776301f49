package util

import (
	"errors"
	"fmt"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

const (
	SOMETHING_WENT_WRONG          = "Something went wrong!"
	INVALID_CREDENTIALS           = "Invalid credentials"
	TOKEN_MISSING                 = "No token provided"
	TOKEN_INVALID                 = "Invalid or expired token"
	ACCESS_DENIED                 = "You do not have permission to perform this action"
	EMAIL_ALREADY_EXISTS          = "Email already registered"
	USERNAME_ALREADY_EXISTS       = "Username already taken"
	ADMIN_NOT_ALLOWED             = "This email is not allowed to register as admin"
	INVALID_ROLE                  = "Invalid role"
	PATIENT_NOT_FOUND             = "Patient not found"
	DOCTOR_NOT_FOUND              = "Doctor not found"
	USER_NOT_FOUND                = "User not found"
	APPOINTMENT_NOT_FOUND         = "Appointment not found"
	BILL_NOT_FOUND                = "Bill not found"
	NOTIFICATION_NOT_FOUND        = "Notification not found"
	CATALOG_ITEM_NOT_FOUND        = "Item not found"
	CATALOG_ITEM_EXISTS           = "Item already exists"
	INVALID_ID                    = "Invalid id"
	INVALID_DATE                  = "Invalid date"
	INVALID_TIME                  = "Invalid time"
	INVALID_STATUS                = "Invalid status"
	INVALID_STATUS_TRANSITION     = "Appointment status cannot change from %s to %s"
	DOCTOR_NOT_AVAILABLE_ON_DAY   = "Doctor is not available on this day"
	SLOT_DOES_NOT_EXIST           = "Slot does not exist for this doctor"
	SLOT_ALREADY_BOOKED           = "Slot already booked"
	APPOINTMENT_IN_PAST           = "Appointment time is in the past"
	BILL_ALREADY_PAID             = "Bill already paid"
	BILL_REQUIRES_ITEMS           = "Bill requires at least one item"
	NAME_REQUIRED                 = "Name is required"
)

// Validation wraps a message as a validation error.
func Validation(msg string, args ...interface{}) error {
	return &wrapped{msg: fmt.Sprintf(msg, args...), kind: ErrValidation}
}

func NotFound(msg string) error {
	return &wrapped{msg: msg, kind: ErrNotFound}
}

func Conflict(msg string) error {
	return &wrapped{msg: msg, kind: ErrConflict}
}

func Forbidden(msg string) error {
	return &wrapped{msg: msg, kind: ErrForbidden}
}

func Unauthorized(msg string) error {
	return &wrapped{msg: msg, kind: ErrUnauthorized}
}

// wrapped keeps a user-facing message while matching a sentinel with errors.Is.
type wrapped struct {
	msg  string
	kind error
}

func (w *wrapped) Error() string { return w.msg }
func (w *wrapped) Unwrap() error { return w.kind }
