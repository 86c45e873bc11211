package main

import (
	"context"
	"encoding/json"
	"flag"
	"strings"

	"github.com/google/subcommands"

	"github.com/unitrack/unitrack/errors"
	"github.com/unitrack/unitrack/services"
)

type plaidLinkCmd struct{ app *app }

func (*plaidLinkCmd) Name() string { return "plaid-link" }
func (*plaidLinkCmd) Synopsis() string { return "start linking a bank account through Plaid" }
func (*plaidLinkCmd) Usage() string { return "plaid-link\n" }
func (*plaidLinkCmd) SetFlags(*flag.FlagSet) {}

func (c *plaidLinkCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		token, err := s.svc.Connections.PlaidLinkToken(ctx)
		if err != nil {
			return err
		}
		c.app.printf("%s\n", token)
		return nil
	})
}

type plaidExchangeCmd struct {
	app         *app
	institution string
	accounts    string
	metadata    string
}

func (*plaidExchangeCmd) Name() string { return "plaid-exchange" }
func (*plaidExchangeCmd) Synopsis() string { return "finish linking a bank account through Plaid" }
func (*plaidExchangeCmd) Usage() string {
	return `plaid-exchange [-institution <id>] [-accounts <id,id>] [-metadata <json>] <public-token>
`
}

func (c *plaidExchangeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.institution, "institution", "", "Plaid institution id")
	f.StringVar(&c.accounts, "accounts", "", "comma separated account ids")
	f.StringVar(&c.metadata, "metadata", "", "Plaid Link metadata as a JSON object")
}

func (c *plaidExchangeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage(c, "expected a public token")
	}
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		in := services.PlaidExchange{PublicToken: f.Arg(0), InstitutionID: c.institution}
		for _, id := range strings.Split(c.accounts, ",") {
			if id = strings.TrimSpace(id); id != "" {
				in.AccountIDs = append(in.AccountIDs, id)
			}
		}
		if c.metadata != "" {
			if err := json.Unmarshal([]byte(c.metadata), &in.Metadata); err != nil {
				return errors.InvalidFormat("metadata", "a JSON object")
			}
		}
		if err := s.svc.Connections.PlaidExchange(ctx, in); err != nil {
			return err
		}
		c.app.printf("Bank account linked.\n")
		return nil
	})
}

type walletCmd struct {
	app   *app
	label string
}

func (*walletCmd) Name() string { return "wallet" }
func (*walletCmd) Synopsis() string { return "track a crypto wallet address" }
func (*walletCmd) Usage() string { return "wallet [-label <label>] <address>\n" }

func (c *walletCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.label, "label", "", "display name for the wallet")
}

func (c *walletCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage(c, "expected a wallet address")
	}
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		p, err := s.svc.Connections.ConnectWallet(ctx, f.Arg(0), c.label)
		if err != nil {
			return err
		}
		c.app.printf("Tracking %s as %q (%s)\n", f.Arg(0), p.Name, p.ID)
		return nil
	})
}

type syncWalletCmd struct{ app *app }

func (*syncWalletCmd) Name() string { return "sync-wallet" }
func (*syncWalletCmd) Synopsis() string { return "refresh a tracked wallet from chain" }
func (*syncWalletCmd) Usage() string { return "sync-wallet <id>\n" }
func (*syncWalletCmd) SetFlags(*flag.FlagSet) {}

func (c *syncWalletCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage(c, "expected a wallet id")
	}
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		if err := s.svc.Connections.SyncWallet(ctx, f.Arg(0)); err != nil {
			return err
		}
		c.app.printf("Sync started for %s.\n", f.Arg(0))
		return nil
	})
}
