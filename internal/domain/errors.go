package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Group errors
	ErrMsgNotFound     = "not found"
	ErrMsgInvalidState = "invalid state"

	// Pool errors
	ErrMsgPoolNotFound    = "raffle pool"
	ErrMsgRaffleNotActive = "raffle is not active"
	ErrMsgAlreadyActive   = "raffle is already active"
	ErrMsgNoParticipants  = "no participants registered"
	ErrMsgRaffleActive    = "raffle is active"
	ErrMsgResetIncomplete = "a previous reset did not finish"
	ErrMsgPoolExhausted   = "no ranks available"

	// Participant errors
	ErrMsgParticipantNotFound = "participant"
	ErrMsgAlreadyParticipated = "participant has already drawn"
	ErrMsgDuplicateName       = "display name already registered"
	ErrMsgTokenExhausted      = "could not generate a unique access token"
	ErrMsgUnauthorized        = "unauthorized"

	// Storage errors
	ErrMsgConflict         = "concurrent modification"
	ErrMsgTransientFailure = "transaction retries exhausted"
	ErrMsgTimeout          = "operation timed out"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Group errors. Specific errors below wrap one of these so callers can match
// either the group or the exact cause with errors.Is.
var (
	ErrNotFound     = errors.New(ErrMsgNotFound)
	ErrInvalidState = errors.New(ErrMsgInvalidState)
)

var (
	// Not found
	ErrPoolNotFound        = fmt.Errorf("%s %w", ErrMsgPoolNotFound, ErrNotFound)
	ErrParticipantNotFound = fmt.Errorf("%s %w", ErrMsgParticipantNotFound, ErrNotFound)

	// Invalid state
	ErrRaffleNotActive = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgRaffleNotActive)
	ErrAlreadyActive   = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgAlreadyActive)
	ErrNoParticipants  = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgNoParticipants)
	ErrRaffleActive    = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgRaffleActive)
	ErrResetIncomplete = fmt.Errorf("%w: %s", ErrInvalidState, ErrMsgResetIncomplete)

	ErrAlreadyParticipated = errors.New(ErrMsgAlreadyParticipated)
	ErrPoolExhausted       = errors.New(ErrMsgPoolExhausted)
	ErrDuplicateName       = errors.New(ErrMsgDuplicateName)
	ErrTokenExhausted      = errors.New(ErrMsgTokenExhausted)
	ErrUnauthorized        = errors.New(ErrMsgUnauthorized)

	// ErrConflict is raised by stores when a compare-and-swap write loses a race.
	// It is retried by the transaction runner and only surfaces as ErrTransientFailure.
	ErrConflict         = errors.New(ErrMsgConflict)
	ErrTransientFailure = errors.New(ErrMsgTransientFailure)
	ErrTimeout          = errors.New(ErrMsgTimeout)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)
