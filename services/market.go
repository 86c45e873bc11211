package services

import (
	"context"
	"strings"
	"time"

	"github.com/unitrack/unitrack/httpclient"
	"github.com/unitrack/unitrack/validation"
)

const pathMarket = "/market"

// DefaultTimespan is the aggregate bar size used when none is given.
const DefaultTimespan = "day"

// Timespans the aggregates endpoint accepts.
var Timespans = []string{"minute", "hour", "day", "week", "month", "quarter", "year"}

// MarketService looks up listed assets and prices.
type MarketService struct {
	client *httpclient.Client
}

// NewMarketService creates the market façade.
func NewMarketService(client *httpclient.Client) *MarketService {
	return &MarketService{client: client}
}

// Search finds assets matching query. A blank query returns no results
// without calling the API.
func (s *MarketService) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	return httpclient.Get[[]SearchResult](ctx, s.client, pathMarket+"/search",
		httpclient.WithQueryParam("q", query))
}

// Asset returns the details of ticker.
func (s *MarketService) Asset(ctx context.Context, ticker string) (*AssetDetails, error) {
	p, err := idPath(pathMarket+"/assets", "ticker", ticker)
	if err != nil {
		return nil, err
	}
	return ptr(httpclient.Get[AssetDetails](ctx, s.client, p))
}

// Price returns the latest quote. assetType, when set, tells the server
// where to look (for example "crypto").
func (s *MarketService) Price(ctx context.Context, ticker, assetType string) (*Price, error) {
	p, err := idPath(pathMarket+"/assets", "ticker", ticker, "price")
	if err != nil {
		return nil, err
	}
	var opts []httpclient.RequestOption
	if assetType != "" {
		opts = append(opts, httpclient.WithQueryParam("type", assetType))
	}
	return ptr(httpclient.Get[Price](ctx, s.client, p, opts...))
}

// Aggregates returns price bars for ticker between from and to inclusive.
// An empty timespan means DefaultTimespan.
func (s *MarketService) Aggregates(ctx context.Context, ticker string, from, to time.Time, timespan string) (*Aggregates, error) {
	if timespan == "" {
		timespan = DefaultTimespan
	}
	v := validation.New().
		Custom(!from.IsZero(), "from", "is required").
		Custom(!to.IsZero(), "to", "is required").
		Range("from", from, to).
		OneOf("timespan", timespan, Timespans...)
	if err := v.Err(); err != nil {
		return nil, err
	}
	p, err := idPath(pathMarket+"/assets", "ticker", ticker, "aggregates")
	if err != nil {
		return nil, err
	}
	return ptr(httpclient.Get[Aggregates](ctx, s.client, p, httpclient.WithQuery(map[string]string{
		"from":     from.Format(validation.DateLayout),
		"to":       to.Format(validation.DateLayout),
		"timespan": timespan,
	})))
}
