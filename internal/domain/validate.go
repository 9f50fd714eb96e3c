package domain

import (
	"go.uber.org/multierr"
)

// Validate checks a schedule and returns the first problem found, or nil.
// Checks run in a fixed order:
//  1. no name or alias is claimed twice (ErrDuplicateAlias)
//  2. every scheduled meeting is a known name or alias (ErrUnknownMeetingReference)
//  3. every scheduled time parses (ErrInvalidTimeString)
func Validate(s *Schedule) error {
	var first error
	check(s, func(err error) bool {
		first = err
		return false
	})
	return first
}

// ValidateAll runs the same checks as Validate but keeps going and returns
// every problem combined. Use multierr.Errors to split the result.
func ValidateAll(s *Schedule) error {
	var all error
	check(s, func(err error) bool {
		all = multierr.Append(all, err)
		return true
	})
	return all
}

// check reports problems in order until report returns false.
func check(s *Schedule, report func(error) bool) {
	keys := make(map[string]struct{})
	for _, m := range s.meetings {
		for _, k := range m.Keys() {
			if _, dup := keys[k]; dup {
				if !report(&Error{Code: CodeDuplicateAlias, Value: k}) {
					return
				}
				continue
			}
			keys[k] = struct{}{}
		}
	}

	for _, d := range Week {
		for _, e := range s.days[d] {
			if _, ok := keys[e.Meeting]; !ok {
				if !report(&Error{Code: CodeUnknownMeetingReference, Day: DayKey(d), Value: e.Meeting}) {
					return
				}
			}
		}
	}

	for _, d := range Week {
		for _, e := range s.days[d] {
			if !IsClockTime(e.Time) {
				if !report(&Error{Code: CodeInvalidTimeString, Day: DayKey(d), Value: e.Time}) {
					return
				}
			}
		}
	}
}
