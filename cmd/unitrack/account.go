package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"
	"golang.org/x/term"

	"github.com/unitrack/unitrack/credentials"
	"github.com/unitrack/unitrack/services"
)

// credentialFlags are shared by login and signup.
type credentialFlags struct {
	email    string
	password string
}

func (c *credentialFlags) set(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "account email")
	f.StringVar(&c.password, "password", "", "account password (prompted for when omitted on a terminal)")
}

// request prompts for a missing password when stdin is a terminal. Otherwise
// an empty password is left for validation to reject.
func (c *credentialFlags) request(a *app) (services.AuthRequest, error) {
	req := services.AuthRequest{Email: strings.TrimSpace(c.email), Password: c.password}
	if req.Password != "" || !term.IsTerminal(int(os.Stdin.Fd())) {
		return req, nil
	}
	fmt.Fprint(a.stderr, "Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(a.stderr)
	if err != nil {
		return req, fmt.Errorf("read password: %w", err)
	}
	req.Password = string(pw)
	return req, nil
}

type loginCmd struct {
	app *app
	credentialFlags
}

func (*loginCmd) Name() string { return "login" }
func (*loginCmd) Synopsis() string { return "sign in and store the session on this device" }
func (*loginCmd) Usage() string {
	return `login -email <email> [-password <password>]
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *loginCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.run(ctx, func(ctx context.Context, s *session) error {
		req, err := c.request(c.app)
		if err != nil {
			return err
		}
		resp, err := s.svc.Auth.Login(ctx, req)
		if err != nil {
			return err
		}
		c.app.printf("Logged in as %s (%s)\n", resp.User.Email, resp.User.SubscriptionStatus)
		return nil
	})
}

type signupCmd struct {
	app *app
	credentialFlags
}

func (*signupCmd) Name() string { return "signup" }
func (*signupCmd) Synopsis() string { return "create an account and sign in" }
func (*signupCmd) Usage() string {
	return `signup -email <email> [-password <password>]
`
}

func (c *signupCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *signupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.run(ctx, func(ctx context.Context, s *session) error {
		req, err := c.request(c.app)
		if err != nil {
			return err
		}
		resp, err := s.svc.Auth.Signup(ctx, req)
		if err != nil {
			return err
		}
		c.app.printf("Welcome to Unitrack, %s\n", resp.User.Email)
		return nil
	})
}

type logoutCmd struct{ app *app }

func (*logoutCmd) Name() string { return "logout" }
func (*logoutCmd) Synopsis() string { return "end the session and forget the stored tokens" }
func (*logoutCmd) Usage() string { return "logout\n" }
func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (c *logoutCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		if err := s.svc.Auth.Logout(ctx); err != nil {
			return err
		}
		c.app.printf("Logged out.\n")
		return nil
	})
}

type whoamiCmd struct{ app *app }

func (*whoamiCmd) Name() string { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "show the signed-in account" }
func (*whoamiCmd) Usage() string { return "whoami\n" }
func (*whoamiCmd) SetFlags(*flag.FlagSet) {}

func (c *whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		u, err := s.svc.Auth.Profile(ctx)
		if err != nil {
			return err
		}
		plan := "Free"
		if u.IsPro() {
			plan = "Pro"
		}
		c.app.printf("%s\nPlan: %s\nCurrency: %s\n", u.Email, plan, u.CurrencyCode)

		claims, err := credentials.ParseClaims(s.store.Token())
		if err != nil {
			// opaque token
			return nil
		}
		if left := claims.Remaining(c.app.now()); left > 0 {
			c.app.printf("Session expires in %s\n", left.Round(time.Second))
		}
		return nil
	})
}
