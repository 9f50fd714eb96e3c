package profile

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Viper keys. Each is also read from MT_<KEY> in the environment.
const (
	KeyConfig   = "config"
	KeyEditor   = "editor"
	KeyLogLevel = "log_level"
	KeyVerbose  = "verbose"
	KeyDryRun   = "dry_run"
)

// Profile is the runtime configuration of one mt invocation.
type Profile struct {
	// ConfigPath is the schedule file (MT_CONFIG, --config)
	ConfigPath string
	// Editor is the command used by --edit (MT_EDITOR)
	Editor string
	// LogLevel is a zap level name (MT_LOG_LEVEL, --log-level)
	LogLevel string
	// Verbose enables development logging at debug level
	Verbose bool
	// DryRun prints URLs instead of opening them
	DryRun bool
}

// DefaultConfigPath is ~/.config/mt/config_v2.toml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".config", "mt", "config_v2.toml")
}

// LoadEnvFile reads .env from the working directory if there is one.
// Variables already set in the environment win.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "load %s", p)
		}
	}
	return nil
}

// SetDefaults registers defaults and MT_ environment lookup on v.
func SetDefaults(v *viper.Viper) {
	v.SetEnvPrefix("MT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyConfig, DefaultConfigPath())
	v.SetDefault(KeyEditor, "vi")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyDryRun, false)
}

// FromViper resolves the profile from defaults, environment and bound flags.
func FromViper(v *viper.Viper) (*Profile, error) {
	p := &Profile{
		ConfigPath: v.GetString(KeyConfig),
		Editor:     v.GetString(KeyEditor),
		LogLevel:   v.GetString(KeyLogLevel),
		Verbose:    v.GetBool(KeyVerbose),
		DryRun:     v.GetBool(KeyDryRun),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate normalizes paths and fills empty fields.
func (p *Profile) Validate() error {
	if p.ConfigPath == "" {
		p.ConfigPath = DefaultConfigPath()
	}
	if p.ConfigPath == "~" || strings.HasPrefix(p.ConfigPath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "resolve home directory")
		}
		p.ConfigPath = filepath.Join(home, strings.TrimPrefix(p.ConfigPath, "~"))
	}
	if p.Editor == "" {
		p.Editor = "vi"
	}
	if p.LogLevel == "" {
		p.LogLevel = "warn"
	}
	return nil
}
