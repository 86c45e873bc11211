package services

import (
	"context"
	"strings"

	"github.com/unitrack/unitrack/httpclient"
	"github.com/unitrack/unitrack/validation"
)

const pathPortfolio = "/portfolio"

// DefaultPortfolioType is used when Create is given no type.
const DefaultPortfolioType = "MANUAL"

// PortfolioService reads and creates portfolios.
type PortfolioService struct {
	client *httpclient.Client
}

// NewPortfolioService creates the portfolio façade.
func NewPortfolioService(client *httpclient.Client) *PortfolioService {
	return &PortfolioService{client: client}
}

// List returns every portfolio of the user.
func (s *PortfolioService) List(ctx context.Context) ([]Portfolio, error) {
	return httpclient.Get[[]Portfolio](ctx, s.client, pathPortfolio)
}

// Get returns one portfolio with its holdings and snapshots.
func (s *PortfolioService) Get(ctx context.Context, id string) (*Portfolio, error) {
	p, err := idPath(pathPortfolio, "id", id)
	if err != nil {
		return nil, err
	}
	return ptr(httpclient.Get[Portfolio](ctx, s.client, p))
}

// Summary returns the account-wide valuation.
func (s *PortfolioService) Summary(ctx context.Context) (*Summary, error) {
	return ptr(httpclient.Get[Summary](ctx, s.client, pathPortfolio+"/summary"))
}

// Holdings returns every holding across portfolios.
func (s *PortfolioService) Holdings(ctx context.Context) ([]Holding, error) {
	return httpclient.Get[[]Holding](ctx, s.client, pathPortfolio+"/holdings")
}

// History returns the account value over time.
func (s *PortfolioService) History(ctx context.Context) ([]HistoryPoint, error) {
	return httpclient.Get[[]HistoryPoint](ctx, s.client, pathPortfolio+"/history")
}

// Allocation returns the account split by category.
func (s *PortfolioService) Allocation(ctx context.Context) ([]AllocationItem, error) {
	return httpclient.Get[[]AllocationItem](ctx, s.client, pathPortfolio+"/allocation")
}

// Create adds a portfolio. An empty kind means DefaultPortfolioType.
func (s *PortfolioService) Create(ctx context.Context, name, kind string) (*Portfolio, error) {
	name = strings.TrimSpace(name)
	if err := validation.New().Required("name", name).Err(); err != nil {
		return nil, err
	}
	kind = strings.ToUpper(strings.TrimSpace(kind))
	if kind == "" {
		kind = DefaultPortfolioType
	}
	body := map[string]string{"name": name, "type": kind}
	return ptr(httpclient.Post[Portfolio](ctx, s.client, pathPortfolio, body))
}
