// Package schederr defines the allocator's error taxonomy: BadRequest,
// NoCandidates, BadTime, SolverUnavailable, and SolverFailed, each carrying
// enough structure for a calling HTTP layer to map it to a status code
// without this package knowing anything about HTTP.
package schederr

import (
	"errors"
	"fmt"
)

// Code identifies one of the taxonomy's error kinds.
type Code string

const (
	// CodeBadRequest marks a structurally invalid request (e.g. restPriority
	// out of range). The allocator itself only raises this for fields it is
	// responsible for validating; shape/presence checks belong upstream.
	CodeBadRequest Code = "BAD_REQUEST"
	// CodeNoCandidates marks a shift with an empty candidates list.
	CodeNoCandidates Code = "NO_CANDIDATES"
	// CodeBadTime marks a malformed HH:MM/HH.MM time string.
	CodeBadTime Code = "BAD_TIME"
	// CodeSolverUnavailable marks a failure to instantiate the MIP backend.
	CodeSolverUnavailable Code = "SOLVER_UNAVAILABLE"
	// CodeSolverFailed marks a solve that ended in neither OPTIMAL nor
	// FEASIBLE.
	CodeSolverFailed Code = "SOLVER_FAILED"
)

// OffendingShift identifies one shift that failed the NoCandidates
// pre-check.
type OffendingShift struct {
	Day     int
	ShiftID string
	Role    string
}

// Error is the taxonomy's single error type.
type Error struct {
	Code    Code
	Message string
	Cause   error

	// OffendingShifts is populated for CodeNoCandidates.
	OffendingShifts []OffendingShift
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any, to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with no cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error that wraps an underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Cause: err}
}

// Is reports whether err is a *Error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of err if it is a *Error, or "" otherwise.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// NoCandidates builds a CodeNoCandidates error listing every shift that
// failed the eligibility pre-check.
func NoCandidates(offending []OffendingShift) *Error {
	return &Error{
		Code:            CodeNoCandidates,
		Message:         fmt.Sprintf("%d shift(s) have no eligible candidates", len(offending)),
		OffendingShifts: offending,
	}
}

// BadRequest builds a CodeBadRequest error for the given reason.
func BadRequest(reason string) *Error {
	return New(CodeBadRequest, reason)
}

// BadTime wraps a timeutil parse failure as CodeBadTime.
func BadTime(cause error) *Error {
	return Wrap(cause, CodeBadTime, "malformed time string")
}

// SolverUnavailable builds a CodeSolverUnavailable error.
func SolverUnavailable(cause error) *Error {
	return Wrap(cause, CodeSolverUnavailable, "could not instantiate MIP solver backend")
}

// SolverFailed builds a CodeSolverFailed error carrying the terminal solve
// status.
func SolverFailed(status string) *Error {
	return New(CodeSolverFailed, fmt.Sprintf("solver ended in non-feasible status %s", status))
}
