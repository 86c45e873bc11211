package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/unitrack/unitrack/services"
	"github.com/unitrack/unitrack/validation"
)

type searchCmd struct{ app *app }

func (*searchCmd) Name() string { return "search" }
func (*searchCmd) Synopsis() string { return "search listed assets by ticker or name" }
func (*searchCmd) Usage() string { return "search <query>\n" }
func (*searchCmd) SetFlags(*flag.FlagSet) {}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.Join(f.Args(), " ")
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		results, err := s.svc.Market.Search(ctx, query)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			c.app.printf("No matches.\n")
			return nil
		}
		rows := make([][]string, 0, len(results))
		for _, r := range results {
			rows = append(rows, []string{r.Ticker, r.Name, r.Type})
		}
		c.app.markdown(table([]string{"Ticker", "Name", "Type"}, rows))
		return nil
	})
}

type assetCmd struct{ app *app }

func (*assetCmd) Name() string { return "asset" }
func (*assetCmd) Synopsis() string { return "show details of a listed asset" }
func (*assetCmd) Usage() string { return "asset <ticker>\n" }
func (*assetCmd) SetFlags(*flag.FlagSet) {}

func (c *assetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage(c, "expected a ticker")
	}
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		a, err := s.svc.Market.Asset(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		c.app.markdown(assetMarkdown(a))
		return nil
	})
}

func assetMarkdown(a *services.AssetDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s (%s)\n\n", a.Name, a.Ticker)
	if a.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", a.Description)
	}
	employees := "-"
	if a.Employees != nil {
		employees = strconv.Itoa(*a.Employees)
	}
	price := "-"
	if a.Price != nil {
		price = amount(*a.Price, "")
	}
	b.WriteString(table([]string{"Field", "Value"}, [][]string{
		{"Type", a.Type},
		{"Price", price},
		{"Market cap", amount(a.MarketCap, "")},
		{"Employees", employees},
		{"City", orDash(a.City)},
		{"Website", orDash(a.Website)},
	}))
	return b.String()
}

type priceCmd struct {
	app       *app
	assetType string
}

func (*priceCmd) Name() string { return "price" }
func (*priceCmd) Synopsis() string { return "show the latest price of an asset" }
func (*priceCmd) Usage() string { return "price [-type <type>] <ticker>\n" }

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.assetType, "type", "", "asset type hint, e.g. crypto")
}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage(c, "expected a ticker")
	}
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		p, err := s.svc.Market.Price(ctx, f.Arg(0), c.assetType)
		if err != nil {
			return err
		}
		c.app.printf("%s %s\n", p.Ticker, amount(p.Price, ""))
		return nil
	})
}

type aggregatesCmd struct {
	app      *app
	from     string
	to       string
	timespan string
}

func (*aggregatesCmd) Name() string { return "aggregates" }
func (*aggregatesCmd) Synopsis() string { return "show price bars for an asset" }
func (*aggregatesCmd) Usage() string {
	return `aggregates [-from <date>] [-to <date>] [-timespan <span>] <ticker>

  Dates are YYYY-MM-DD. The range defaults to the last 30 days.
`
}

func (c *aggregatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "first day, YYYY-MM-DD")
	f.StringVar(&c.to, "to", "", "last day, YYYY-MM-DD (default today)")
	f.StringVar(&c.timespan, "timespan", services.DefaultTimespan, "bar size: "+strings.Join(services.Timespans, ", "))
}

func (c *aggregatesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage(c, "expected a ticker")
	}
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		to := c.app.now()
		from := to.AddDate(0, 0, -30)
		v := validation.New()
		if c.to != "" {
			v.Date("to", c.to)
			to, _ = time.Parse(validation.DateLayout, c.to)
		}
		if c.from != "" {
			v.Date("from", c.from)
			from, _ = time.Parse(validation.DateLayout, c.from)
		}
		if err := v.Err(); err != nil {
			return err
		}

		agg, err := s.svc.Market.Aggregates(ctx, f.Arg(0), from, to, c.timespan)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(agg.Aggregates))
		for _, bar := range agg.Aggregates {
			rows = append(rows, []string{
				bar.Time().Format(validation.DateLayout),
				amount(bar.O, ""), amount(bar.H, ""), amount(bar.L, ""), amount(bar.C, ""),
				strconv.FormatFloat(bar.V, 'f', -1, 64),
			})
		}
		c.app.markdown(fmt.Sprintf("# %s\n\n", agg.Ticker) +
			table([]string{"Date", "Open", "High", "Low", "Close", "Volume"}, rows))
		return nil
	})
}
