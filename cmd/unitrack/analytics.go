package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

type healthCmd struct{ app *app }

func (*healthCmd) Name() string { return "health" }
func (*healthCmd) Synopsis() string { return "show the portfolio health score" }
func (*healthCmd) Usage() string { return "health\n" }
func (*healthCmd) SetFlags(*flag.FlagSet) {}

func (c *healthCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		h, err := s.svc.Analytics.Health(ctx)
		if err != nil {
			return err
		}
		c.app.printf("Health: %d (%s)\n%s\n", h.Score, h.Status, h.Summary)
		return nil
	})
}

type exposureCmd struct{ app *app }

func (*exposureCmd) Name() string { return "exposure" }
func (*exposureCmd) Synopsis() string { return "show exposure by region (Pro)" }
func (*exposureCmd) Usage() string { return "exposure\n" }
func (*exposureCmd) SetFlags(*flag.FlagSet) {}

func (c *exposureCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		regions, err := s.svc.Analytics.Exposure(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(regions))
		for _, r := range regions {
			rows = append(rows, []string{r.Region, amount(r.Value, ""), percent(r.Percentage)})
		}
		c.app.markdown(table([]string{"Region", "Value", "Share"}, rows))
		return nil
	})
}

type amortizationCmd struct{ app *app }

func (*amortizationCmd) Name() string { return "amortization" }
func (*amortizationCmd) Synopsis() string { return "project the value of a manual asset (Pro)" }
func (*amortizationCmd) Usage() string { return "amortization <asset-id>\n" }
func (*amortizationCmd) SetFlags(*flag.FlagSet) {}

func (c *amortizationCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage(c, "expected an asset id")
	}
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		am, err := s.svc.Analytics.Amortization(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n\n%s at %s a month, now %s\n\n",
			am.AssetName, am.ProjectionType, percent(am.MonthlyRate*100), amount(am.CurrentValue, ""))
		rows := make([][]string, 0, len(am.Projection))
		for _, p := range am.Projection {
			rows = append(rows, []string{p.Month, amount(p.Value, "")})
		}
		b.WriteString(table([]string{"Month", "Value"}, rows))
		c.app.markdown(b.String())
		return nil
	})
}

type chatCmd struct{ app *app }

func (*chatCmd) Name() string { return "chat" }
func (*chatCmd) Synopsis() string { return "ask the portfolio assistant (Pro)" }
func (*chatCmd) Usage() string { return "chat <message>\n" }
func (*chatCmd) SetFlags(*flag.FlagSet) {}

func (c *chatCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return c.app.usage(c, "expected a message")
	}
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		reply, err := s.svc.Analytics.Chat(ctx, strings.Join(f.Args(), " "))
		if err != nil {
			return err
		}
		c.app.markdown(reply + "\n")
		return nil
	})
}
