package port

import (
	"context"

	"github.com/meetingtool/mt/internal/domain"
)

// ConfigRepository persists the schedule file.
type ConfigRepository interface {
	// Path returns the location of the schedule file
	Path() string

	// Exists reports whether the schedule file is present
	Exists(ctx context.Context) (bool, error)

	// Load reads and decodes the schedule file
	Load(ctx context.Context) (*domain.Config, error)

	// Save encodes cfg and writes it, creating parent directories
	Save(ctx context.Context, cfg domain.Config) error
}
