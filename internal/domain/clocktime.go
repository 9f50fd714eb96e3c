package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// MinutesPerDay is the number of distinct minute-of-day values (0..1439).
const MinutesPerDay = 24 * 60

// Meridiem is the AM/PM half of a 12-hour clock time.
type Meridiem int

const (
	AM Meridiem = iota
	PM
)

func (m Meridiem) String() string {
	if m == PM {
		return "PM"
	}
	return "AM"
}

// ClockTime is a 12-hour clock time as written in a schedule, e.g. "9:30 AM".
type ClockTime struct {
	Hour     int // 0..12, 0 and 12 are equivalent
	Minute   int // 0..59
	Meridiem Meridiem
}

// Whitespace is stripped before matching, so the patterns carry none.
var (
	hourMinutePattern = regexp.MustCompile(`^(1[0-2]|[0-9]):([0-5][0-9])(AM|PM)$`)
	hourOnlyPattern   = regexp.MustCompile(`^(1[0-2]|[0-9])(AM|PM)$`)
)

// ParseClockTime parses "H:MM AM", "HH:MMPM", "9 AM", " 12 PM " and similar.
// The hour:minute form is tried before the hour-only form.
func ParseClockTime(raw string) (ClockTime, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)

	if m := hourMinutePattern.FindStringSubmatch(s); m != nil {
		return newClockTime(m[1], m[2], m[3]), nil
	}
	if m := hourOnlyPattern.FindStringSubmatch(s); m != nil {
		return newClockTime(m[1], "0", m[2]), nil
	}
	return ClockTime{}, &Error{Code: CodeUnparsableTime, Value: raw}
}

// IsClockTime reports whether raw is accepted by ParseClockTime.
func IsClockTime(raw string) bool {
	_, err := ParseClockTime(raw)
	return err == nil
}

// groups come from the patterns above, so Atoi cannot fail
func newClockTime(hour, minute, meridiem string) ClockTime {
	h, _ := strconv.Atoi(hour)
	m, _ := strconv.Atoi(minute)
	ct := ClockTime{Hour: h, Minute: m, Meridiem: AM}
	if meridiem == "PM" {
		ct.Meridiem = PM
	}
	return ct
}

// MinuteOfDay converts to minutes since midnight. 12 AM is 0, 12 PM is 720.
func (c ClockTime) MinuteOfDay() int {
	hour := c.Hour % 12
	if c.Meridiem == PM {
		hour += 12
	}
	return hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%d:%02d %s", c.Hour, c.Minute, c.Meridiem)
}

// FormatMinuteOfDay renders a minute-of-day as a 12-hour clock string.
func FormatMinuteOfDay(minute int) string {
	h, m := minute/60, minute%60
	mer := AM
	if h >= 12 {
		mer = PM
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return ClockTime{Hour: h, Minute: m, Meridiem: mer}.String()
}
