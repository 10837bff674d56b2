package goSSO

import (
	"errors"
	"fmt"
)

var (
	// ErrConflict is the family of registration uniqueness failures.
	ErrConflict = errors.New("conflict")
	// ErrEmailTaken is returned by Register when the email is registered.
	ErrEmailTaken = fmt.Errorf("%w: email already registered", ErrConflict)
	// ErrUsernameTaken is returned by Register when the username is in use.
	ErrUsernameTaken = fmt.Errorf("%w: username already in use", ErrConflict)

	// ErrInvalidTicket means the ticket is missing, expired, or already used.
	ErrInvalidTicket = errors.New("ticket is not valid")
	// ErrInvalidCredentials means the email is unknown or the password is wrong.
	ErrInvalidCredentials = errors.New("email or password not valid")
	// ErrForbidden covers every claim and refresh authorization failure.
	ErrForbidden = errors.New("forbidden")

	ErrInvalidRequest = errors.New("invalid request")
	ErrUnavailable    = errors.New("backend unavailable")
	ErrEngineNotReady = errors.New("engine not ready")
)
