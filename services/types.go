package services

import (
	"time"

	"github.com/unitrack/unitrack/jsonvalue"
)

// --- Auth ---

// AuthRequest is the login and signup payload.
type AuthRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// User is the account returned by auth endpoints.
type User struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	SubscriptionStatus string `json:"subscriptionStatus"`
	CurrencyCode       string `json:"currencyCode"`
}

// IsPro reports whether the account has a paid subscription.
func (u User) IsPro() bool {
	return u.SubscriptionStatus == "PRO" || u.SubscriptionStatus == "ACTIVE"
}

// AuthResponse is the reply to login, signup and refresh.
type AuthResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	User         User   `json:"user"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// --- Portfolio ---

// Snapshot is one dated portfolio valuation.
type Snapshot struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Portfolio is a named group of holdings.
type Portfolio struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Type      string     `json:"type"`
	Balance   float64    `json:"balance"`
	Currency  string     `json:"currency,omitempty"`
	Holdings  []Holding  `json:"holdings,omitempty"`
	Snapshots []Snapshot `json:"snapshots,omitempty"`
}

// Summary is the account-wide valuation.
type Summary struct {
	TotalValue          float64 `json:"totalValue"`
	DayChange           float64 `json:"dayChange"`
	DayChangePercentage float64 `json:"dayChangePercentage"`
	CurrencyCode        string  `json:"currencyCode,omitempty"`
}

// Holding is a position inside a portfolio.
type Holding struct {
	ID          string   `json:"id"`
	PortfolioID string   `json:"portfolioId,omitempty"`
	Ticker      string   `json:"ticker"`
	Name        string   `json:"name"`
	Type        string   `json:"type,omitempty"`
	Source      *string  `json:"source"`
	Quantity    *float64 `json:"quantity"`
	Value       float64  `json:"value"`
	Change      float64  `json:"change"`
	LogoURL     *string  `json:"logoURL"`
}

// IsManual reports whether the holding was entered by hand.
func (h Holding) IsManual() bool {
	return h.Source == nil || *h.Source == "" || *h.Source == "MANUAL"
}

// HistoryPoint is one point of the account value history.
type HistoryPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// AllocationItem is the share of the account held in one category.
type AllocationItem struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// --- Market ---

// SearchResult is a market search hit.
type SearchResult struct {
	Ticker  string  `json:"ticker"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	LogoURL *string `json:"logoURL"`
}

// AssetDetails describes a listed asset.
type AssetDetails struct {
	Ticker      string   `json:"ticker"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	MarketCap   float64  `json:"marketCap"`
	Employees   *int     `json:"employees"`
	City        *string  `json:"city"`
	Website     *string  `json:"website"`
	LogoURL     *string  `json:"logoURL"`
	Price       *float64 `json:"price"`
}

// Price is the latest quote for a ticker.
type Price struct {
	Ticker string  `json:"ticker"`
	Price  float64 `json:"price"`
}

// Bar is one OHLCV aggregate. T is the bar start in Unix milliseconds.
type Bar struct {
	T int64   `json:"t"`
	O float64 `json:"o"`
	H float64 `json:"h"`
	L float64 `json:"l"`
	C float64 `json:"c"`
	V float64 `json:"v"`
}

// Time returns the bar start.
func (b Bar) Time() time.Time {
	return time.UnixMilli(b.T).UTC()
}

// Aggregates is a price series for a ticker.
type Aggregates struct {
	Ticker     string `json:"ticker"`
	Aggregates []Bar  `json:"aggregates"`
}

// --- Manual assets ---

// NewManualAsset describes a hand-entered asset. Currency defaults to USD and
// a zero Date is left for the server to fill in.
type NewManualAsset struct {
	Ticker   string    `json:"ticker" validate:"required,ticker"`
	Name     string    `json:"name" validate:"required"`
	Type     string    `json:"type" validate:"required"`
	Value    float64   `json:"value" validate:"gte=0"`
	Currency string    `json:"currency" validate:"omitempty,currency"`
	Date     time.Time `json:"-"`
}

type createManualAssetPayload struct {
	Ticker   string  `json:"ticker"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
	Date     *string `json:"date,omitempty"`
}

type updateManualAssetPayload struct {
	Value float64 `json:"value"`
	Date  string  `json:"date"`
}

// --- Connections ---

// LinkToken starts a Plaid Link session.
type LinkToken struct {
	LinkToken string `json:"linkToken"`
}

// PlaidExchange trades a Plaid public token for a linked institution.
// Metadata is sent exactly as given, keys included.
type PlaidExchange struct {
	PublicToken   string                     `json:"publicToken" validate:"required"`
	InstitutionID string                     `json:"institutionId,omitempty"`
	AccountIDs    []string                   `json:"accountIds"`
	Metadata      map[string]jsonvalue.Value `json:"metadata,omitempty"`
}

type walletPayload struct {
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
}

// --- Analytics ---

// Health is the portfolio health score.
type Health struct {
	Score   int    `json:"score"`
	Status  string `json:"status"`
	Summary string `json:"summary"`
}

// RegionExposure is the share of the portfolio exposed to one region.
type RegionExposure struct {
	Region     string  `json:"region"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// ProjectionPoint is one month of an amortization projection.
type ProjectionPoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// Amortization projects the value of an asset forward.
type Amortization struct {
	AssetName      string            `json:"assetName"`
	CurrentValue   float64           `json:"currentValue"`
	ProjectionType string            `json:"projectionType"`
	MonthlyRate    float64           `json:"monthlyRate"`
	Projection     []ProjectionPoint `json:"projection"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string `json:"response"`
}
