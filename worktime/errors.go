/*
errors.go - Error types for the attribution engine

ERROR CATEGORIES:

 1. Not found - team, firm or person missing; aborts the report

 2. Invalid argument - malformed identifier; aborts before any lookup

    Missing optional fields (time taken, rank, calendar settings) are NOT
    errors. They resolve to documented defaults and are listed on the report.

USAGE:

	report, err := engine.BuildTeamProjectReport(ctx, teamID, projectID, 0)
	if worktime.IsNotFound(err) {
	    // 404
	}
*/
package worktime

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a team, firm or person does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for malformed identifiers.
	ErrInvalidArgument = errors.New("invalid argument")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind string // "team", "firm", "person"
	ID   ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID.Hex())
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidIDError is returned when an identifier cannot be parsed.
type InvalidIDError struct {
	Field string
	Value string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid %s id: %q", e.Field, e.Value)
}

func (e *InvalidIDError) Unwrap() error { return ErrInvalidArgument }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
