package domain

import (
	"strings"
	"time"
)

// Week lists weekdays in schedule order, Monday first.
var Week = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// DayKey is the lowercase weekday name used in schedule files ("monday").
func DayKey(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// Entry is one scheduled start: a raw clock string and the meeting name or
// alias it refers to.
type Entry struct {
	Time    string
	Meeting string
}

// Meeting is a directory record. DayURLs overrides URL on specific weekdays.
type Meeting struct {
	Name    string
	URL     string
	DayURLs map[time.Weekday]string
	Aliases []string
}

// URLFor returns the effective URL on the given weekday.
func (m Meeting) URLFor(day time.Weekday) string {
	if u, ok := m.DayURLs[day]; ok && u != "" {
		return u
	}
	return m.URL
}

// Keys returns the meeting name followed by its aliases.
func (m Meeting) Keys() []string {
	return append([]string{m.Name}, m.Aliases...)
}

// Schedule is a read-only weekly schedule and meeting directory. Build one
// with a Builder or FromConfig; it is safe for concurrent readers.
type Schedule struct {
	days     [7][]Entry // indexed by time.Weekday
	meetings []Meeting
	index    map[string]int // name or alias -> meetings index
}

// Entries returns the day's entries in construction order.
func (s *Schedule) Entries(day time.Weekday) []Entry {
	return append([]Entry(nil), s.days[day]...)
}

// Meetings returns the directory in construction order.
func (s *Schedule) Meetings() []Meeting {
	return append([]Meeting(nil), s.meetings...)
}

// Lookup finds a meeting by name or alias. Matching is exact.
func (s *Schedule) Lookup(key string) (Meeting, bool) {
	i, ok := s.index[key]
	if !ok {
		return Meeting{}, false
	}
	return s.meetings[i], true
}

// Builder accumulates entries and meetings for a Schedule.
type Builder struct {
	days     [7][]Entry
	meetings []Meeting
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Entry appends a scheduled start on day. Entries parsing to the same minute
// are kept; the one added last wins at resolution time.
func (b *Builder) Entry(day time.Weekday, raw, meeting string) *Builder {
	b.days[day] = append(b.days[day], Entry{Time: raw, Meeting: meeting})
	return b
}

// Meeting appends a directory record.
func (b *Builder) Meeting(m Meeting) *Builder {
	b.meetings = append(b.meetings, m)
	return b
}

// Build snapshots the builder. Later builder calls do not affect the result.
func (b *Builder) Build() *Schedule {
	s := &Schedule{
		meetings: make([]Meeting, 0, len(b.meetings)),
		index:    make(map[string]int),
	}
	for d := range b.days {
		s.days[d] = append([]Entry(nil), b.days[d]...)
	}
	for _, m := range b.meetings {
		cp := Meeting{
			Name:    m.Name,
			URL:     m.URL,
			Aliases: append([]string(nil), m.Aliases...),
		}
		if len(m.DayURLs) > 0 {
			cp.DayURLs = make(map[time.Weekday]string, len(m.DayURLs))
			for d, u := range m.DayURLs {
				cp.DayURLs[d] = u
			}
		}
		s.meetings = append(s.meetings, cp)
		i := len(s.meetings) - 1
		for _, k := range cp.Keys() {
			s.index[k] = i
		}
	}
	return s
}
