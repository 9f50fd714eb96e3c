package domain

import "time"

const (
	// DefaultTolerance is the lateness window, in minutes, of a new config.
	DefaultTolerance = 5
	// DefaultBrowser is the browser command of a new config.
	DefaultBrowser = "firefox"
)

// Settings holds launcher preferences stored next to the schedule.
type Settings struct {
	Tolerance int    // minutes a meeting stays joinable after its start
	Browser   string // command used to open URLs; empty means system default
}

// Config is the decoded schedule file, independent of its on-disk format.
// A weekday missing from Schedule has no meetings.
type Config struct {
	Settings Settings
	Schedule map[time.Weekday][]Entry
	Meetings []Meeting
}

// DefaultConfig is written by "mt --configure".
func DefaultConfig() Config {
	cfg := Config{
		Settings: Settings{
			Tolerance: DefaultTolerance,
			Browser:   DefaultBrowser,
		},
		Schedule: make(map[time.Weekday][]Entry, len(Week)),
		Meetings: []Meeting{{
			Name:    "sample",
			URL:     "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			Aliases: []string{"s", "sp"},
		}},
	}
	for _, d := range Week {
		cfg.Schedule[d] = []Entry{}
	}
	return cfg
}

// FromConfig builds the schedule model. Entry order within a day and meeting
// order follow the slices in cfg.
func FromConfig(cfg Config) *Schedule {
	b := NewBuilder()
	for _, d := range Week {
		for _, e := range cfg.Schedule[d] {
			b.Entry(d, e.Time, e.Meeting)
		}
	}
	for _, m := range cfg.Meetings {
		b.Meeting(m)
	}
	return b.Build()
}
