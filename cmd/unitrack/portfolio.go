package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/unitrack/unitrack/money"
	"github.com/unitrack/unitrack/services"
)

type dashboardCmd struct{ app *app }

func (*dashboardCmd) Name() string { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show net worth, portfolios, allocation and health" }
func (*dashboardCmd) Usage() string { return "dashboard\n" }
func (*dashboardCmd) SetFlags(*flag.FlagSet) {}

func (c *dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		d, err := s.svc.LoadDashboard(ctx)
		if err != nil {
			return err
		}
		c.app.markdown(dashboardMarkdown(d))
		return nil
	})
}

func dashboardMarkdown(d *services.Dashboard) string {
	cur := d.Summary.CurrencyCode
	var b strings.Builder
	fmt.Fprintf(&b, "# Net worth: %s\n\n", amount(d.Summary.TotalValue, cur))
	fmt.Fprintf(&b, "Today: %s (%s)\n\n", signedAmount(d.Summary.DayChange, cur), change(d.Summary.DayChangePercentage))

	b.WriteString("## Portfolios\n\n")
	b.WriteString(portfolioTable(d.Portfolios))

	b.WriteString("\n## Allocation\n\n")
	rows := make([][]string, 0, len(d.Allocation))
	for _, a := range d.Allocation {
		rows = append(rows, []string{a.Name, amount(a.Value, cur), percent(a.Percentage)})
	}
	b.WriteString(table([]string{"Category", "Value", "Share"}, rows))

	fmt.Fprintf(&b, "\n## Health: %d (%s)\n\n%s\n", d.Health.Score, d.Health.Status, d.Health.Summary)
	return b.String()
}

func portfolioTable(ps []services.Portfolio) string {
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, []string{p.ID, p.Name, p.Type, amount(p.Balance, p.Currency)})
	}
	return table([]string{"ID", "Name", "Type", "Balance"}, rows)
}

func holdingTable(hs []services.Holding, currency string) string {
	rows := make([][]string, 0, len(hs))
	for _, h := range hs {
		rows = append(rows, []string{
			h.ID, h.Ticker, h.Name, quantity(h.Quantity), amount(h.Value, currency), change(h.Change),
		})
	}
	return table([]string{"ID", "Ticker", "Name", "Quantity", "Value", "Change"}, rows)
}

type portfoliosCmd struct{ app *app }

func (*portfoliosCmd) Name() string { return "portfolios" }
func (*portfoliosCmd) Synopsis() string { return "list portfolios" }
func (*portfoliosCmd) Usage() string { return "portfolios\n" }
func (*portfoliosCmd) SetFlags(*flag.FlagSet) {}

func (c *portfoliosCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		ps, err := s.svc.Portfolio.List(ctx)
		if err != nil {
			return err
		}
		if len(ps) == 0 {
			c.app.printf("No portfolios yet. Create one with create-portfolio.\n")
			return nil
		}
		c.app.markdown(portfolioTable(ps))
		return nil
	})
}

type portfolioCmd struct{ app *app }

func (*portfolioCmd) Name() string { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "show one portfolio with its holdings" }
func (*portfolioCmd) Usage() string { return "portfolio <id>\n" }
func (*portfolioCmd) SetFlags(*flag.FlagSet) {}

func (c *portfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage(c, "expected a portfolio id")
	}
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		p, err := s.svc.Portfolio.Get(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		var b strings.Builder
		fmt.Fprintf(&b, "# %s\n\n%s, %s\n\n", p.Name, p.Type, amount(p.Balance, p.Currency))
		if len(p.Holdings) > 0 {
			b.WriteString(holdingTable(p.Holdings, p.Currency))
		}
		if n := len(p.Snapshots); n > 1 {
			first, last := p.Snapshots[0], p.Snapshots[n-1]
			fmt.Fprintf(&b, "\nSince %s: %s\n", first.Date, money.Change(first.Value, last.Value).SignedString())
		}
		c.app.markdown(b.String())
		return nil
	})
}

type createPortfolioCmd struct {
	app  *app
	kind string
}

func (*createPortfolioCmd) Name() string { return "create-portfolio" }
func (*createPortfolioCmd) Synopsis() string { return "create a portfolio" }
func (*createPortfolioCmd) Usage() string {
	return `create-portfolio [-type <type>] <name>

  The type defaults to MANUAL.
`
}

func (c *createPortfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "type", "", "portfolio type, e.g. MANUAL or INVESTMENTS")
}

func (c *createPortfolioCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return c.app.usage(c, "expected a portfolio name")
	}
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		p, err := s.svc.Portfolio.Create(ctx, strings.Join(f.Args(), " "), c.kind)
		if err != nil {
			return err
		}
		c.app.printf("Created %s portfolio %q (%s)\n", p.Type, p.Name, p.ID)
		return nil
	})
}
