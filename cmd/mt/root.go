package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/meetingtool/mt/internal/adapter/browser"
	"github.com/meetingtool/mt/internal/adapter/configfile"
	"github.com/meetingtool/mt/internal/adapter/terminal"
	"github.com/meetingtool/mt/internal/domain"
	"github.com/meetingtool/mt/internal/logger"
	"github.com/meetingtool/mt/internal/profile"
	"github.com/meetingtool/mt/internal/usecase/configure"
	"github.com/meetingtool/mt/internal/usecase/join"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type options struct {
	check     bool
	all       bool
	configure bool
	edit      bool
	list      bool
}

func newRootCmd() *cobra.Command {
	var opts options
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "mt [alias]",
		Short: "Open the meeting you should be in right now",
		Long: `mt opens the URL of the meeting that is starting or has just started,
according to a weekly schedule. Give an alias to open a specific meeting.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, v, opts, args)
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&opts.check, "check", "c", false, "Check the validity of the configuration file")
	f.BoolVar(&opts.all, "all", false, "With --check, report every problem instead of the first")
	f.BoolVarP(&opts.configure, "configure", "f", false, "Write a default config file")
	f.BoolVarP(&opts.edit, "edit", "e", false, "Edit the config file")
	f.BoolVarP(&opts.list, "list", "l", false, "List today's meetings")
	f.BoolP("dry-run", "n", false, "Print the URL instead of opening it")
	cmd.MarkFlagsMutuallyExclusive("check", "configure", "edit", "list")

	pf := cmd.PersistentFlags()
	pf.String("config", profile.DefaultConfigPath(), "Path of the schedule file (TOML, or YAML by extension)")
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.BoolP("verbose", "v", false, "Debug logging")

	mustBind(v, profile.KeyDryRun, f.Lookup("dry-run"))
	mustBind(v, profile.KeyConfig, pf.Lookup("config"))
	mustBind(v, profile.KeyLogLevel, pf.Lookup("log-level"))
	mustBind(v, profile.KeyVerbose, pf.Lookup("verbose"))

	cmd.AddCommand(newServeCmd(v))
	return cmd
}

func mustBind(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// setup resolves the profile and builds the logger shared by every command.
func setup(v *viper.Viper) (*profile.Profile, *zap.Logger, error) {
	if err := profile.LoadEnvFile(); err != nil {
		return nil, nil, err
	}
	profile.SetDefaults(v)
	prof, err := profile.FromViper(v)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(prof.LogLevel, prof.Verbose)
	if err != nil {
		return nil, nil, err
	}
	log = logger.WithRunID(log)
	log.Debug("starting", zap.String("config", prof.ConfigPath), zap.Bool("dry_run", prof.DryRun))
	return prof, log, nil
}

func run(cmd *cobra.Command, v *viper.Viper, opts options, args []string) error {
	prof, log, err := setup(v)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	repo := configfile.New(prof.ConfigPath)

	joiner := join.New(repo, browser.NewOpener(log, out), log, join.WithDryRun(prof.DryRun))
	configurer := configure.New(
		repo,
		terminal.NewPrompter(cmd.InOrStdin(), out),
		terminal.NewEditor(prof.Editor, os.Stdin, os.Stdout, os.Stderr),
		log,
	)

	switch {
	case opts.configure:
		written, err := configurer.WriteDefault(ctx)
		if err != nil {
			return err
		}
		if !written {
			fmt.Fprintln(out, "creation of default config aborted")
		}
		return nil
	case opts.edit:
		if err := configurer.Edit(ctx); err != nil {
			return err
		}
		return check(ctx, out, joiner, opts.all)
	case opts.check:
		return check(ctx, out, joiner, opts.all)
	case opts.list:
		return list(ctx, out, joiner)
	case len(args) == 1:
		url, err := joiner.Alias(ctx, args[0])
		if errors.Is(err, domain.ErrUnknownAlias) {
			return errors.Errorf("No existing meeting for alias %s", args[0])
		}
		if err != nil {
			return err
		}
		if prof.DryRun {
			fmt.Fprintln(out, url)
		}
		return nil
	default:
		sel, err := joiner.Auto(ctx)
		if err != nil {
			return err
		}
		if sel == nil {
			fmt.Fprintln(out, "No meeting right now.")
			return nil
		}
		if prof.DryRun {
			fmt.Fprintln(out, sel.URL)
		}
		return nil
	}
}

func check(ctx context.Context, out io.Writer, joiner *join.Service, all bool) error {
	err := joiner.Check(ctx, all)
	if err == nil {
		fmt.Fprintln(out, "No errors found.")
		return nil
	}
	var se *domain.Error
	if !errors.As(err, &se) {
		return err
	}
	problems := multierr.Errors(err)
	for _, p := range problems {
		fmt.Fprintln(out, p)
	}
	if len(problems) == 1 {
		return errors.New("schedule check failed")
	}
	return errors.Errorf("schedule check failed: %d problems", len(problems))
}

func list(ctx context.Context, out io.Writer, joiner *join.Service) error {
	agenda, err := joiner.Today(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s, %s (tolerance %d min)\n",
		agenda.Day, domain.FormatMinuteOfDay(agenda.Minute), agenda.Tolerance)
	if len(agenda.Candidates) == 0 {
		fmt.Fprintln(out, "  no meetings today")
		return nil
	}
	for _, c := range agenda.Candidates {
		mark := " "
		if agenda.Selected != nil && agenda.Selected.Candidate == c {
			mark = "*"
		}
		fmt.Fprintf(out, "%s %8s  %s\n", mark, domain.FormatMinuteOfDay(c.Minute), c.Meeting)
	}
	return nil
}
