package configure

import (
	"context"
	"fmt"

	"github.com/meetingtool/mt/internal/domain"
	"github.com/meetingtool/mt/internal/port"
	"go.uber.org/zap"
)

// Service creates and edits the schedule file.
type Service struct {
	repo     port.ConfigRepository
	prompter port.Prompter
	editor   port.Editor
	log      *zap.Logger
}

func New(repo port.ConfigRepository, prompter port.Prompter, editor port.Editor, log *zap.Logger) *Service {
	return &Service{repo: repo, prompter: prompter, editor: editor, log: log}
}

// WriteDefault writes the default schedule. An existing file is only
// replaced after the user confirms; written reports whether it was.
func (s *Service) WriteDefault(ctx context.Context) (written bool, err error) {
	exists, err := s.repo.Exists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		q := fmt.Sprintf("Are you sure you want to overwrite any existing configurations at %s? [Y/n]", s.repo.Path())
		ok, err := s.prompter.Confirm(q)
		if err != nil {
			return false, err
		}
		if !ok {
			s.log.Info("overwrite declined", zap.String("path", s.repo.Path()))
			return false, nil
		}
	}
	if err := s.repo.Save(ctx, domain.DefaultConfig()); err != nil {
		return false, err
	}
	s.log.Info("default config written", zap.String("path", s.repo.Path()))
	return true, nil
}

// Edit opens the schedule in the editor, creating the default file first
// when there is none.
func (s *Service) Edit(ctx context.Context) error {
	exists, err := s.repo.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		if _, err := s.WriteDefault(ctx); err != nil {
			return err
		}
	}
	s.log.Debug("launching editor", zap.String("path", s.repo.Path()))
	return s.editor.Edit(ctx, s.repo.Path())
}
