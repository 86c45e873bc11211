package main

import (
	"context"
	"flag"
	"strconv"
	"time"

	"github.com/google/subcommands"

	"github.com/unitrack/unitrack/services"
	"github.com/unitrack/unitrack/validation"
)

// parseDate accepts an empty value as the zero time.
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if err := validation.New().Date(field, value).Err(); err != nil {
		return time.Time{}, err
	}
	return time.Parse(validation.DateLayout, value)
}

type assetsCmd struct{ app *app }

func (*assetsCmd) Name() string { return "assets" }
func (*assetsCmd) Synopsis() string { return "list manual assets" }
func (*assetsCmd) Usage() string { return "assets\n" }
func (*assetsCmd) SetFlags(*flag.FlagSet) {}

func (c *assetsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		ps, err := s.svc.ManualAssets.List(ctx)
		if err != nil {
			return err
		}
		var holdings []services.Holding
		currency := ""
		for _, p := range ps {
			holdings = append(holdings, p.Holdings...)
			currency = p.Currency
		}
		if len(holdings) == 0 {
			c.app.printf("No manual assets yet. Add one with add-asset.\n")
			return nil
		}
		c.app.markdown(holdingTable(holdings, currency))
		return nil
	})
}

type addAssetCmd struct {
	app  *app
	in   services.NewManualAsset
	date string
}

func (*addAssetCmd) Name() string { return "add-asset" }
func (*addAssetCmd) Synopsis() string { return "add a manually valued asset" }
func (*addAssetCmd) Usage() string {
	return `add-asset -ticker <ticker> -name <name> -type <type> -value <value> [-currency <code>] [-date <date>]
`
}

func (c *addAssetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.in.Ticker, "ticker", "", "short symbol, e.g. HOUSE")
	f.StringVar(&c.in.Name, "name", "", "display name")
	f.StringVar(&c.in.Type, "type", "", "asset type, e.g. REAL_ESTATE or VEHICLE")
	f.Float64Var(&c.in.Value, "value", 0, "current value")
	f.StringVar(&c.in.Currency, "currency", "", "ISO 4217 code (default USD)")
	f.StringVar(&c.date, "date", "", "valuation date, YYYY-MM-DD")
}

func (c *addAssetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		date, err := parseDate("date", c.date)
		if err != nil {
			return err
		}
		in := c.in
		in.Date = date
		if err := s.svc.ManualAssets.Create(ctx, in); err != nil {
			return err
		}
		c.app.printf("Added %s.\n", in.Name)
		return nil
	})
}

type updateAssetCmd struct {
	app  *app
	date string
}

func (*updateAssetCmd) Name() string { return "update-asset" }
func (*updateAssetCmd) Synopsis() string { return "record a new value for a manual asset" }
func (*updateAssetCmd) Usage() string {
	return `update-asset [-date <date>] <id> <value>

  The date defaults to today.
`
}

func (c *updateAssetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "valuation date, YYYY-MM-DD")
}

func (c *updateAssetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return c.app.usage(c, "expected an asset id and a value")
	}
	value, err := strconv.ParseFloat(f.Arg(1), 64)
	if err != nil {
		return c.app.usage(c, "value must be a number")
	}
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		date, err := parseDate("date", c.date)
		if err != nil {
			return err
		}
		if err := s.svc.ManualAssets.Update(ctx, f.Arg(0), value, date); err != nil {
			return err
		}
		c.app.printf("Updated %s.\n", f.Arg(0))
		return nil
	})
}

type deleteAssetCmd struct{ app *app }

func (*deleteAssetCmd) Name() string { return "delete-asset" }
func (*deleteAssetCmd) Synopsis() string { return "delete a manual asset" }
func (*deleteAssetCmd) Usage() string { return "delete-asset <id>\n" }
func (*deleteAssetCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteAssetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return c.app.usage(c, "expected an asset id")
	}
	return c.app.authed(ctx, func(ctx context.Context, s *session) error {
		if err := s.svc.ManualAssets.Delete(ctx, f.Arg(0)); err != nil {
			return err
		}
		c.app.printf("Deleted %s.\n", f.Arg(0))
		return nil
	})
}
