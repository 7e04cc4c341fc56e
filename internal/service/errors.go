package service

import (
	"errors"
	"fmt"

	"github.com/aussiebroadwan/gradebook/internal/store"
)

// Error kinds returned by the flows. Every error a flow returns for a user
// mistake is an *Error wrapping one of these, so callers switch on the kind
// with errors.Is and show Message verbatim.
var (
	ErrValidation            = errors.New("validation_error")
	ErrInvalidCredentials    = errors.New("invalid_credentials")
	ErrMalformedNumericInput = errors.New("malformed_numeric_input")
	ErrNoSuchRecord          = errors.New("no_such_record")
	ErrNoData                = errors.New("no_data")
	ErrSurfaceClosed         = errors.New("login_surface_closed")

	ErrUsernameTaken = fmt.Errorf("username_taken: %w", store.ErrAlreadyExists)
	ErrDuplicateRoll = fmt.Errorf("duplicate_roll: %w", store.ErrAlreadyExists)
)

// Error is a recoverable flow failure with the message shown to the user.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Messages surfaced to the user. Both rejection paths of a login share one
// message so it never tells whether the username exists.
const (
	MsgLoginFieldsRequired    = "Enter username & password."
	MsgInvalidCredentials     = "Invalid credentials."
	MsgRegisterFieldsRequired = "All fields required."
	MsgUnknownRole            = "Role must be admin or user."
	MsgUsernameTaken          = "Username already taken."
	MsgUserRegistered         = "User registered."
	MsgMarksNotIntegers       = "All subject marks must be integers."
	MsgRollAndNameRequired    = "Roll No and Name are required."
	MsgRollExists             = "Roll No already exists."
	MsgSelectStudent          = "Select a student to delete."
	MsgNoSuchRecord           = "No student with that Roll No."
	MsgRecordDeleted          = "Student record deleted."
	MsgNoData                 = "No student records to display."
	MsgSurfaceClosed          = "Already signed in; restart the application to sign in again."
)

// UserMessage returns the message for a flow error, or ok=false when err is
// not one (an infrastructure failure the caller should treat as fatal).
func UserMessage(err error) (msg string, ok bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Message, true
	}
	return "", false
}
