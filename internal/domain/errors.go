package domain

import (
	"fmt"
)

// ErrorCode identifies a schedule consistency problem.
type ErrorCode string

const (
	// CodeUnparsableTime: a time string matched neither clock grammar.
	CodeUnparsableTime ErrorCode = "UNPARSABLE_TIME"
	// CodeDuplicateAlias: a name or alias is claimed more than once.
	CodeDuplicateAlias ErrorCode = "DUPLICATE_ALIAS"
	// CodeUnknownMeetingReference: the schedule names a meeting nobody defines.
	CodeUnknownMeetingReference ErrorCode = "UNKNOWN_MEETING_REFERENCE"
	// CodeInvalidTimeString: a schedule key is not a valid clock time.
	CodeInvalidTimeString ErrorCode = "INVALID_TIME_STRING"
	// CodeDanglingReference: a selected entry points at no meeting.
	CodeDanglingReference ErrorCode = "DANGLING_REFERENCE"
	// CodeUnknownAlias: an explicit lookup matched no name or alias.
	CodeUnknownAlias ErrorCode = "UNKNOWN_ALIAS"
)

// Sentinels for errors.Is. Only the code is compared.
var (
	ErrUnparsableTime          = &Error{Code: CodeUnparsableTime}
	ErrDuplicateAlias          = &Error{Code: CodeDuplicateAlias}
	ErrUnknownMeetingReference = &Error{Code: CodeUnknownMeetingReference}
	ErrInvalidTimeString       = &Error{Code: CodeInvalidTimeString}
	ErrDanglingReference       = &Error{Code: CodeDanglingReference}
	ErrUnknownAlias            = &Error{Code: CodeUnknownAlias}
)

// Error is a schedule error. Day is the lowercase weekday name when the
// problem belongs to one day's slot, empty otherwise. Value is the offending
// time string, name or alias.
type Error struct {
	Code  ErrorCode
	Day   string
	Value string
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Code {
	case CodeUnparsableTime:
		return fmt.Sprintf("unparsable time %q", e.Value)
	case CodeDuplicateAlias:
		return fmt.Sprintf("duplicated alias '%s'", e.Value)
	case CodeUnknownMeetingReference:
		return fmt.Sprintf("invalid meeting at weekday %s for meeting name %s", e.Day, e.Value)
	case CodeInvalidTimeString:
		return fmt.Sprintf("invalid time %q on %s", e.Value, e.Day)
	case CodeDanglingReference:
		return fmt.Sprintf("scheduled meeting %s is not defined", e.Value)
	case CodeUnknownAlias:
		return fmt.Sprintf("no existing meeting for alias %s", e.Value)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Value)
}

// Is matches on Code so callers can test against the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}
