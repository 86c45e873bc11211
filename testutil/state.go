package testutil

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Seeded accounts. Both use SeedPassword.
const (
	SeedEmail    = "sylus@gmail.com"
	ProEmail     = "pro@unitrack.app"
	SeedPassword = "password123"
)

// The types below are the wire shapes, snake_case as the real API sends
// them.

type user struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	SubscriptionStatus string `json:"subscription_status"`
	CurrencyCode       string `json:"currency_code"`
	passwordHash       string
}

type snapshot struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type holding struct {
	ID          string   `json:"id"`
	PortfolioID string   `json:"portfolio_id"`
	Ticker      string   `json:"ticker"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Source      string   `json:"source"`
	Quantity    *float64 `json:"quantity"`
	Value       float64  `json:"value"`
	Change      float64  `json:"change"`
	LogoURL     *string  `json:"logo_url"`
	Currency    string   `json:"-"`
	Date        string   `json:"-"`
}

type portfolio struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	Balance   float64    `json:"balance"`
	Currency  string     `json:"currency"`
	Holdings  []holding  `json:"holdings,omitempty"`
	Snapshots []snapshot `json:"snapshots,omitempty"`
	owner     string
	address   string
}

type marketAsset struct {
	Ticker      string  `json:"ticker"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	MarketCap   float64 `json:"market_cap"`
	Employees   *int    `json:"employees"`
	City        *string `json:"city"`
	Website     *string `json:"website"`
	LogoURL     *string `json:"logo_url"`
	Price       float64 `json:"price"`
}

// PlaidLink is an exchanged Plaid session as the backend received it.
type PlaidLink struct {
	PublicToken   string         `json:"public_token"`
	InstitutionID string         `json:"institution_id"`
	AccountIDs    []string       `json:"account_ids"`
	Metadata      map[string]any `json:"metadata"`
}

type state struct {
	users      map[string]*user // by email
	refresh    map[string]string
	access     map[string]string
	portfolios []*portfolio
	market     map[string]marketAsset
	plaid      []PlaidLink
	synced     []string
	nextID     int
}

func strp(s string) *string { return &s }

func f64p(f float64) *float64 { return &f }

func intp(i int) *int { return &i }

func newState() *state {
	s := &state{
		users:   make(map[string]*user),
		refresh: make(map[string]string),
		access:  make(map[string]string),
		market:  make(map[string]marketAsset),
		nextID:  100,
	}

	s.market["AAPL"] = marketAsset{
		Ticker: "AAPL", Name: "Apple Inc.", Type: "Stock",
		Description: "Designs consumer electronics.", MarketCap: 3.4e12,
		Employees: intp(161000), City: strp("Cupertino"), Website: strp("https://apple.com"),
		LogoURL: strp("https://logo.unitrack.test/aapl.png"), Price: 227.52,
	}
	s.market["BTC"] = marketAsset{
		Ticker: "BTC", Name: "Bitcoin", Type: "Crypto",
		Description: "Decentralised digital currency.", MarketCap: 1.9e12,
		LogoURL: strp("https://logo.unitrack.test/btc.png"), Price: 97000,
	}
	s.market["BRK.B"] = marketAsset{
		Ticker: "BRK.B", Name: "Berkshire Hathaway Inc.", Type: "Stock",
		Description: "Holding company.", MarketCap: 1e12, Price: 470.1,
	}
	return s
}

func (s *state) id(prefix string) string {
	s.nextID++
	return prefix + "-" + strconv.Itoa(s.nextID)
}

// seedPortfolios gives owner a brokerage portfolio and a manual one.
func (s *state) seedPortfolios(owner string) {
	main := &portfolio{
		ID: s.id("pf"), Name: "Main", Type: "INVESTMENTS", Currency: "USD", owner: owner,
		Snapshots: []snapshot{{"2026-01-01", 10000}, {"2026-02-01", 10400}, {"2026-03-01", 10855.04}},
	}
	main.Holdings = []holding{
		{ID: s.id("h"), PortfolioID: main.ID, Ticker: "AAPL", Name: "Apple Inc.", Type: "Stock",
			Source: "PLAID", Quantity: f64p(20), Value: 4550.4, Change: 1.2,
			LogoURL: strp("https://logo.unitrack.test/aapl.png")},
		{ID: s.id("h"), PortfolioID: main.ID, Ticker: "BTC", Name: "Bitcoin", Type: "Crypto",
			Source: "WALLET", Quantity: f64p(0.065), Value: 6304.64, Change: -2.4},
	}
	manual := &portfolio{ID: s.id("pf"), Name: "Manual", Type: "MANUAL", Currency: "USD", owner: owner}
	manual.Holdings = []holding{
		{ID: s.id("ma"), PortfolioID: manual.ID, Ticker: "HOUSE", Name: "Flat", Type: "REAL_ESTATE",
			Source: "MANUAL", Value: 250000, Currency: "USD", Date: "2026-01-15"},
	}
	s.portfolios = append(s.portfolios, main, manual)
	main.rebalance()
	manual.rebalance()
}

func (p *portfolio) rebalance() {
	total := 0.0
	for _, h := range p.Holdings {
		total += h.Value
	}
	p.Balance = total
}

func (s *state) owned(owner string) []*portfolio {
	var out []*portfolio
	for _, p := range s.portfolios {
		if p.owner == owner {
			out = append(out, p)
		}
	}
	return out
}

func (s *state) portfolio(owner, id string) *portfolio {
	for _, p := range s.owned(owner) {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// manualAsset finds a MANUAL holding of owner by id.
func (s *state) manualAsset(owner, id string) (*portfolio, int) {
	for _, p := range s.owned(owner) {
		for i, h := range p.Holdings {
			if h.ID == id && h.Source == "MANUAL" {
				return p, i
			}
		}
	}
	return nil, -1
}

func (s *state) manualPortfolio(owner string) *portfolio {
	for _, p := range s.owned(owner) {
		if p.Type == "MANUAL" {
			return p
		}
	}
	p := &portfolio{ID: s.id("pf"), Name: "Manual", Type: "MANUAL", Currency: "USD", owner: owner}
	s.portfolios = append(s.portfolios, p)
	return p
}

func (s *state) holdings(owner string) []holding {
	out := []holding{}
	for _, p := range s.owned(owner) {
		out = append(out, p.Holdings...)
	}
	return out
}

func (s *state) search(q string) []marketAsset {
	q = strings.ToLower(q)
	out := []marketAsset{}
	for _, a := range s.market {
		if strings.Contains(strings.ToLower(a.Ticker), q) || strings.Contains(strings.ToLower(a.Name), q) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })
	return out
}

// bars returns one daily close per day in [from, to].
func bars(price float64, from, to time.Time) []map[string]any {
	out := []map[string]any{}
	for d, i := from, 0; !d.After(to); d, i = d.AddDate(0, 0, 1), i+1 {
		c := price * (1 + float64(i%5-2)/100)
		out = append(out, map[string]any{
			"t": d.UnixMilli(), "o": price, "h": c * 1.01, "l": c * 0.99, "c": c, "v": 1000 + i,
		})
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
