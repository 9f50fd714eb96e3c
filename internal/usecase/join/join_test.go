package join

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/meetingtool/mt/internal/adapter/configfile"
	"github.com/meetingtool/mt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type mockRepo struct {
	cfg *domain.Config
	err error
}

func (m *mockRepo) Path() string                             { return "/tmp/mt.toml" }
func (m *mockRepo) Exists(ctx context.Context) (bool, error) { return m.cfg != nil, nil }
func (m *mockRepo) Load(ctx context.Context) (*domain.Config, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.cfg, nil
}
func (m *mockRepo) Save(ctx context.Context, cfg domain.Config) error {
	m.cfg = &cfg
	return nil
}

type openCall struct {
	browser string
	url     string
}

type mockOpener struct {
	calls []openCall
}

func (m *mockOpener) Open(ctx context.Context, browser, url string) error {
	m.calls = append(m.calls, openCall{browser: browser, url: url})
	return nil
}

func testConfig() *domain.Config {
	return &domain.Config{
		Settings: domain.Settings{Tolerance: 5, Browser: "firefox"},
		Schedule: map[time.Weekday][]domain.Entry{
			time.Monday: {
				{Time: "9:00 AM", Meeting: "standup"},
				{Time: "2:00 PM", Meeting: "review"},
			},
		},
		Meetings: []domain.Meeting{
			{Name: "standup", URL: "https://meet.example.com/standup", Aliases: []string{"s"}},
			{
				Name:    "review",
				URL:     "https://meet.example.com/review",
				DayURLs: map[time.Weekday]string{time.Tuesday: "https://meet.example.com/review-tue"},
			},
		},
	}
}

// Monday 12 Jan 2026
func monday(hour, min int) func() time.Time {
	return func() time.Time { return time.Date(2026, 1, 12, hour, min, 0, 0, time.Local) }
}

func TestAuto(t *testing.T) {
	tests := []struct {
		name    string
		clock   func() time.Time
		wantURL string
	}{
		{"standup", monday(9, 3), "https://meet.example.com/standup"},
		{"grace passed", monday(9, 10), ""},
		{"review", monday(14, 2), "https://meet.example.com/review"},
		{"sunday", func() time.Time { return time.Date(2026, 1, 11, 9, 0, 0, 0, time.Local) }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opener := &mockOpener{}
			svc := New(&mockRepo{cfg: testConfig()}, opener, zap.NewNop(), WithClock(tt.clock))

			sel, err := svc.Auto(context.Background())
			require.NoError(t, err)
			if tt.wantURL == "" {
				assert.Nil(t, sel)
				assert.Empty(t, opener.calls)
				return
			}
			require.NotNil(t, sel)
			assert.Equal(t, tt.wantURL, sel.URL)
			assert.Equal(t, []openCall{{browser: "firefox", url: tt.wantURL}}, opener.calls)
		})
	}
}

func TestAuto_DryRun(t *testing.T) {
	opener := &mockOpener{}
	svc := New(&mockRepo{cfg: testConfig()}, opener, zap.NewNop(), WithClock(monday(9, 0)), WithDryRun(true))
	sel, err := svc.Auto(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, "standup", sel.Name)
	assert.Empty(t, opener.calls)
}

func TestAuto_InvalidSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.Schedule[time.Monday] = append(cfg.Schedule[time.Monday], domain.Entry{Time: "3 PM", Meeting: "standy"})
	opener := &mockOpener{}
	svc := New(&mockRepo{cfg: cfg}, opener, zap.NewNop(), WithClock(monday(9, 0)))

	_, err := svc.Auto(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownMeetingReference))
	assert.Contains(t, err.Error(), "invalid schedule in /tmp/mt.toml")
	assert.Empty(t, opener.calls)
}

func TestAuto_LoadError(t *testing.T) {
	svc := New(&mockRepo{err: errors.New("boom")}, &mockOpener{}, zap.NewNop())
	_, err := svc.Auto(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestAlias(t *testing.T) {
	opener := &mockOpener{}
	tuesday := func() time.Time { return time.Date(2026, 1, 13, 20, 0, 0, 0, time.Local) }
	svc := New(&mockRepo{cfg: testConfig()}, opener, zap.NewNop(), WithClock(tuesday))

	url, err := svc.Alias(context.Background(), "review")
	require.NoError(t, err)
	assert.Equal(t, "https://meet.example.com/review-tue", url)

	url, err = svc.Alias(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, "https://meet.example.com/standup", url)
	assert.Len(t, opener.calls, 2)

	_, err = svc.Alias(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrUnknownAlias))
	assert.Len(t, opener.calls, 2)
}

func TestToday(t *testing.T) {
	svc := New(&mockRepo{cfg: testConfig()}, &mockOpener{}, zap.NewNop(), WithClock(monday(14, 1)))
	agenda, err := svc.Today(context.Background())
	require.NoError(t, err)

	assert.Equal(t, time.Monday, agenda.Day)
	assert.Equal(t, 14*60+1, agenda.Minute)
	require.Len(t, agenda.Candidates, 2)
	assert.Equal(t, "standup", agenda.Candidates[0].Meeting)
	require.NotNil(t, agenda.Selected)
	assert.Equal(t, "review", agenda.Selected.Name)
}

func TestCheck(t *testing.T) {
	cfg := testConfig()
	cfg.Meetings = append(cfg.Meetings, domain.Meeting{Name: "other", URL: "u", Aliases: []string{"s"}})
	cfg.Schedule[time.Friday] = []domain.Entry{{Time: "25 PM", Meeting: "standup"}}
	svc := New(&mockRepo{cfg: cfg}, &mockOpener{}, zap.NewNop())

	err := svc.Check(context.Background(), false)
	assert.True(t, errors.Is(err, domain.ErrDuplicateAlias))

	err = svc.Check(context.Background(), true)
	assert.Len(t, multierr.Errors(err), 2)

	require.NoError(t, New(&mockRepo{cfg: testConfig()}, &mockOpener{}, zap.NewNop()).Check(context.Background(), false))
}

func TestAuto_WithConfigFile(t *testing.T) {
	repo := configfile.New(filepath.Join(t.TempDir(), "config_v2.toml"))
	require.NoError(t, repo.Save(context.Background(), *testConfig()))

	opener := &mockOpener{}
	svc := New(repo, opener, zap.NewNop(), WithClock(monday(13, 57)))
	sel, err := svc.Auto(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, "review", sel.Name)
	assert.Equal(t, []openCall{{browser: "firefox", url: "https://meet.example.com/review"}}, opener.calls)
}

func TestLookup_DoesNotOpen(t *testing.T) {
	opener := &mockOpener{}
	svc := New(&mockRepo{cfg: testConfig()}, opener, zap.NewNop(), WithClock(monday(9, 0)))

	url, err := svc.Lookup(context.Background(), "s")
	require.NoError(t, err)
	assert.Equal(t, "https://meet.example.com/standup", url)
	assert.Empty(t, opener.calls)

	_, err = svc.Lookup(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrUnknownAlias))
}
