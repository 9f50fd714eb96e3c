package join

import (
	"context"
	"time"

	"github.com/meetingtool/mt/internal/domain"
	"github.com/meetingtool/mt/internal/port"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Service resolves and opens meetings from the stored schedule.
type Service struct {
	repo   port.ConfigRepository
	opener port.URLOpener
	log    *zap.Logger
	now    func() time.Time
	dryRun bool
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDryRun resolves without opening anything.
func WithDryRun(dryRun bool) Option {
	return func(s *Service) { s.dryRun = dryRun }
}

func New(repo port.ConfigRepository, opener port.URLOpener, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		opener: opener,
		log:    log,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Agenda is today's schedule as seen at one instant.
type Agenda struct {
	Day        time.Weekday
	Minute     int
	Tolerance  int
	Candidates []domain.Candidate
	Selected   *domain.Selection
}

// Auto opens the meeting that is current now. It returns nil when no
// meeting qualifies.
func (s *Service) Auto(ctx context.Context) (*domain.Selection, error) {
	cfg, sched, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	day, minute := s.clock()
	sel, err := domain.ResolveNow(sched, day, minute, cfg.Settings.Tolerance)
	if err != nil {
		return nil, err
	}
	if sel == nil {
		s.log.Info("no meeting right now",
			zap.Stringer("day", day),
			zap.String("time", domain.FormatMinuteOfDay(minute)),
			zap.Int("tolerance", cfg.Settings.Tolerance))
		return nil, nil
	}
	s.log.Info("meeting selected",
		zap.String("meeting", sel.Name),
		zap.String("starts", sel.Time),
		zap.String("url", sel.URL))
	if err := s.open(ctx, cfg.Settings.Browser, sel.URL); err != nil {
		return nil, err
	}
	return sel, nil
}

// Alias opens the meeting named by a meeting name or alias and returns its URL.
func (s *Service) Alias(ctx context.Context, alias string) (string, error) {
	cfg, sched, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	day, _ := s.clock()
	url, err := domain.ResolveAlias(sched, alias, day)
	if err != nil {
		return "", err
	}
	s.log.Info("alias resolved", zap.String("alias", alias), zap.String("url", url))
	if err := s.open(ctx, cfg.Settings.Browser, url); err != nil {
		return "", err
	}
	return url, nil
}

// Lookup resolves a meeting name or alias to today's URL without opening it.
func (s *Service) Lookup(ctx context.Context, alias string) (string, error) {
	_, sched, err := s.load(ctx)
	if err != nil {
		return "", err
	}
	day, _ := s.clock()
	return domain.ResolveAlias(sched, alias, day)
}

// Today lists today's entries in start order and what Auto would pick.
func (s *Service) Today(ctx context.Context) (*Agenda, error) {
	cfg, sched, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	day, minute := s.clock()
	cands, err := domain.Candidates(sched, day)
	if err != nil {
		return nil, err
	}
	sel, err := domain.ResolveNow(sched, day, minute, cfg.Settings.Tolerance)
	if err != nil {
		return nil, err
	}
	return &Agenda{
		Day:        day,
		Minute:     minute,
		Tolerance:  cfg.Settings.Tolerance,
		Candidates: cands,
		Selected:   sel,
	}, nil
}

// Check loads and validates the schedule. With all set every problem is
// returned (see multierr.Errors); otherwise only the first.
func (s *Service) Check(ctx context.Context, all bool) error {
	cfg, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	sched := domain.FromConfig(*cfg)
	if all {
		return domain.ValidateAll(sched)
	}
	return domain.Validate(sched)
}

func (s *Service) load(ctx context.Context) (*domain.Config, *domain.Schedule, error) {
	cfg, err := s.repo.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	sched := domain.FromConfig(*cfg)
	if err := domain.Validate(sched); err != nil {
		return nil, nil, errors.Wrapf(err, "invalid schedule in %s", s.repo.Path())
	}
	s.log.Debug("schedule loaded",
		zap.String("path", s.repo.Path()),
		zap.Int("meetings", len(cfg.Meetings)))
	return cfg, sched, nil
}

func (s *Service) clock() (time.Weekday, int) {
	now := s.now()
	return now.Weekday(), now.Hour()*60 + now.Minute()
}

func (s *Service) open(ctx context.Context, browser, url string) error {
	if s.dryRun {
		s.log.Debug("dry run, not opening", zap.String("url", url))
		return nil
	}
	return s.opener.Open(ctx, browser, url)
}
