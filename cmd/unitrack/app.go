package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/term"

	"github.com/unitrack/unitrack/config"
	"github.com/unitrack/unitrack/credentials"
	"github.com/unitrack/unitrack/errors"
	"github.com/unitrack/unitrack/httpclient"
	"github.com/unitrack/unitrack/logger"
	"github.com/unitrack/unitrack/observability"
	"github.com/unitrack/unitrack/services"
)

const defaultWidth = 80

// app holds the process-wide settings shared by every subcommand.
type app struct {
	configFile string
	envFile    string
	// command is the subcommand being run, used to name its trace span.
	command string

	stdout  io.Writer
	stderr  io.Writer
	environ func() []string
	now     func() time.Time

	// styled renders markdown through glamour; off when stdout is not a
	// terminal.
	styled bool
	width  int
}

func newApp(stdout, stderr io.Writer) *app {
	a := &app{stdout: stdout, stderr: stderr, environ: os.Environ, now: time.Now, width: defaultWidth}
	if f, ok := stdout.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		a.styled = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			a.width = w
		}
	}
	return a
}

type group struct {
	name string
	cmds []subcommands.Command
}

func (a *app) groups() []group {
	return []group{
		{"account", []subcommands.Command{
			&loginCmd{app: a}, &signupCmd{app: a}, &logoutCmd{app: a}, &whoamiCmd{app: a},
		}},
		{"portfolio", []subcommands.Command{
			&dashboardCmd{app: a}, &portfoliosCmd{app: a}, &portfolioCmd{app: a}, &createPortfolioCmd{app: a},
		}},
		{"market", []subcommands.Command{
			&searchCmd{app: a}, &assetCmd{app: a}, &priceCmd{app: a}, &aggregatesCmd{app: a},
		}},
		{"manual assets", []subcommands.Command{
			&assetsCmd{app: a}, &addAssetCmd{app: a}, &updateAssetCmd{app: a}, &deleteAssetCmd{app: a},
		}},
		{"connections", []subcommands.Command{
			&plaidLinkCmd{app: a}, &plaidExchangeCmd{app: a}, &walletCmd{app: a}, &syncWalletCmd{app: a},
		}},
		{"analytics", []subcommands.Command{
			&healthCmd{app: a}, &exposureCmd{app: a}, &amortizationCmd{app: a}, &chatCmd{app: a},
		}},
		{"", []subcommands.Command{&versionCmd{app: a}}},
	}
}

// execute parses the top-level flags in args and runs the chosen subcommand.
func (a *app) execute(ctx context.Context, args []string) subcommands.ExitStatus {
	top := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	top.SetOutput(a.stderr)
	top.StringVar(&a.configFile, "config", "", "path to a YAML config file")
	top.StringVar(&a.envFile, "env-file", "", "path to a .env file")

	cdr := subcommands.NewCommander(top, config.AppName)
	cdr.Output = a.stdout
	cdr.Error = a.stderr
	cdr.Register(cdr.HelpCommand(), "")
	cdr.Register(cdr.FlagsCommand(), "")
	cdr.Register(cdr.CommandsCommand(), "")
	for _, g := range a.groups() {
		for _, c := range g.cmds {
			cdr.Register(c, g.name)
		}
	}

	if err := top.Parse(args); err != nil {
		return subcommands.ExitUsageError
	}
	a.command = top.Arg(0)
	return cdr.Execute(ctx)
}

// session is everything a command needs to talk to the API.
type session struct {
	cfg      *config.App
	store    credentials.Store
	client   *httpclient.Client
	svc      *services.Services
	shutdown observability.ShutdownFunc
}

func (a *app) open(ctx context.Context) (*session, error) {
	opts := []config.LoaderOption{config.WithEnviron(a.environ)}
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	if a.envFile != "" {
		opts = append(opts, config.WithEnvFile(a.envFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Logging)

	shutdown, err := observability.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	store, err := credentials.Open(cfg.Credentials)
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	client, err := httpclient.New(cfg.API, store, httpclient.WithLogger(logger.Get("api")))
	if err != nil {
		_ = shutdown(ctx)
		return nil, err
	}
	return &session{
		cfg:      cfg,
		store:    store,
		client:   client,
		svc:      services.New(client, store),
		shutdown: shutdown,
	}, nil
}

func (s *session) close(ctx context.Context) {
	s.client.Close()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.shutdown(ctx); err != nil {
		logger.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", err))
	}
}

// run opens a session, calls fn and reports its error on stderr.
func (a *app) run(ctx context.Context, fn func(context.Context, *session) error) subcommands.ExitStatus {
	s, err := a.open(ctx)
	if err != nil {
		return a.fail(err)
	}
	defer s.close(ctx)

	ctx, span := observability.StartSpan(ctx, config.AppName+" "+a.command)
	err = fn(ctx, s)
	observability.EndSpan(span, err)
	if err != nil {
		return a.fail(err)
	}
	return subcommands.ExitSuccess
}

// authed is run for commands that need a stored session. A 401 triggers one
// token refresh and a replay of fn.
func (a *app) authed(ctx context.Context, fn func(context.Context, *session) error) subcommands.ExitStatus {
	return a.run(ctx, func(ctx context.Context, s *session) error {
		if !s.svc.Auth.LoggedIn() {
			return errors.Unauthorized("")
		}
		return s.svc.Auth.WithRefresh(ctx, func(ctx context.Context) error {
			return fn(ctx, s)
		})
	})
}

func (a *app) fail(err error) subcommands.ExitStatus {
	err = services.Describe(err)
	fields := logger.Fields("error", err.Error())
	if appErr, ok := errors.AsAppError(err); ok {
		fields["code"] = appErr.Code
		fields["retryable"] = appErr.Retryable
	}
	logger.Debug("command failed", fields)
	fmt.Fprintln(a.stderr, "Error:", errors.UserMessage(err))
	return subcommands.ExitFailure
}

// usage reports a bad invocation of c.
func (a *app) usage(c subcommands.Command, msg string) subcommands.ExitStatus {
	fmt.Fprintf(a.stderr, "%s\nusage: %s %s", msg, config.AppName, c.Usage())
	return subcommands.ExitUsageError
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.stdout, format, args...)
}
