package domain

import (
	"sort"
	"time"
)

// Candidate is a parsed schedule entry for one day.
type Candidate struct {
	Minute  int    // minute of day
	Time    string // raw time as written
	Meeting string // name or alias as written
}

// Selection is the outcome of ResolveNow.
type Selection struct {
	Candidate
	Name string // canonical meeting name
	URL  string // effective URL for the day
}

// Candidates parses the day's entries and orders them by start minute.
// Entries with the same minute keep construction order.
func Candidates(s *Schedule, day time.Weekday) ([]Candidate, error) {
	entries := s.days[day]
	out := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		ct, err := ParseClockTime(e.Time)
		if err != nil {
			return nil, &Error{Code: CodeUnparsableTime, Day: DayKey(day), Value: e.Time}
		}
		out = append(out, Candidate{Minute: ct.MinuteOfDay(), Time: e.Time, Meeting: e.Meeting})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Minute < out[j].Minute
	})
	return out, nil
}

// ResolveNow picks the latest meeting on today that starts no later than
// now+tolerance minutes, provided it started at most tolerance minutes ago.
// It returns nil, nil when nothing qualifies.
// The schedule is expected to have passed Validate; otherwise a bad time
// yields ErrUnparsableTime and a missing meeting ErrDanglingReference.
func ResolveNow(s *Schedule, today time.Weekday, now, tolerance int) (*Selection, error) {
	cands, err := Candidates(s, today)
	if err != nil {
		return nil, err
	}
	// Scanning from the end makes the last-added of equal minutes win.
	for i := len(cands) - 1; i >= 0; i-- {
		c := cands[i]
		if c.Minute > now+tolerance {
			continue
		}
		// every earlier candidate started even longer ago
		if now-c.Minute > tolerance {
			return nil, nil
		}
		m, ok := s.Lookup(c.Meeting)
		if !ok {
			return nil, &Error{Code: CodeDanglingReference, Day: DayKey(today), Value: c.Meeting}
		}
		return &Selection{Candidate: c, Name: m.Name, URL: m.URLFor(today)}, nil
	}
	return nil, nil
}

// ResolveAlias returns the effective URL on day for a meeting name or alias.
func ResolveAlias(s *Schedule, alias string, day time.Weekday) (string, error) {
	m, ok := s.Lookup(alias)
	if !ok {
		return "", &Error{Code: CodeUnknownAlias, Value: alias}
	}
	return m.URLFor(day), nil
}
