package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/unitrack/unitrack/logger"
)

// APIPrefix is the version prefix every route lives under.
const APIPrefix = "/v1"

// Stub replaces the reply to one route. A zero Status with a Delay only
// slows the real handler down.
type Stub struct {
	Status int
	Body   string
	Delay  time.Duration
	// Times limits how many requests the stub answers. Zero means all.
	Times int
}

// Request is a request as the backend received it. Path is relative to
// APIPrefix and still escaped.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	ContentType   string
	RequestID     string
	Body          []byte
}

// Option configures a Backend.
type Option func(*options)

type options struct {
	tokenTTL time.Duration
	log      *logger.Logger
	tls      func(h http.Handler) *httptest.Server
}

// WithTokenTTL sets the access token lifetime. Defaults to 15 minutes.
func WithTokenTTL(d time.Duration) Option {
	return func(o *options) { o.tokenTTL = d }
}

// WithLogger sets the logger the backend reports panics to.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithServer replaces httptest.NewServer, for instance with a TLS server.
func WithServer(start func(h http.Handler) *httptest.Server) Option {
	return func(o *options) { o.tls = start }
}

// Backend is an in-memory Unitrack API served over HTTP. Two accounts are
// seeded: SeedEmail on the FREE plan and ProEmail on PRO.
type Backend struct {
	server *httptest.Server
	engine *gin.Engine
	issuer *issuer
	log    *logger.Logger

	mu       sync.Mutex
	state    *state
	stubs    map[string]*Stub
	requests []Request
}

// NewBackend starts a backend and stops it when the test ends.
func NewBackend(t testing.TB, opts ...Option) *Backend {
	t.Helper()
	o := options{tokenTTL: 15 * time.Minute, log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	gin.SetMode(gin.TestMode)
	b := &Backend{
		issuer: newIssuer(o.tokenTTL),
		log:    o.log,
		stubs:  make(map[string]*Stub),
	}
	if err := b.reset(); err != nil {
		t.Fatalf("testutil: seed backend: %v", err)
	}
	b.engine = b.routes()

	start := httptest.NewServer
	if o.tls != nil {
		start = o.tls
	}
	// h2c lets clients speak cleartext HTTP/2 as well as HTTP/1.1.
	b.server = start(h2c.NewHandler(b.engine, &http2.Server{}))
	t.Cleanup(b.server.Close)
	return b
}

// URL is the API root, APIPrefix included.
func (b *Backend) URL() string {
	return b.server.URL + APIPrefix
}

// Handler exposes the router for tests that drive it without a socket.
func (b *Backend) Handler() http.Handler {
	return b.engine
}

// Stub scripts the reply for method and path, for example
// ("DELETE", "/assets/manual/ma-1").
func (b *Backend) Stub(method, path string, s Stub) {
	b.mu.Lock()
	defer b.mu.Unlock()
	stub := s
	b.stubs[method+" "+path] = &stub
}

// Requests returns every request received so far, oldest first.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// LastRequest returns the most recent request.
func (b *Backend) LastRequest() (Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return Request{}, false
	}
	return b.requests[len(b.requests)-1], true
}

// Reset restores the seed data and drops stubs, sessions and the request log.
func (b *Backend) Reset() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reset()
}

func (b *Backend) reset() error {
	st := newState()
	for _, seed := range []struct{ email, plan string }{
		{SeedEmail, "FREE"},
		{ProEmail, "PRO"},
	} {
		hash, err := hashPassword(SeedPassword)
		if err != nil {
			return err
		}
		u := &user{
			ID: st.id("usr"), Email: seed.email, SubscriptionStatus: seed.plan,
			CurrencyCode: "USD", passwordHash: hash,
		}
		st.users[u.Email] = u
		st.seedPortfolios(u.ID)
	}
	b.state = st
	b.stubs = make(map[string]*Stub)
	b.requests = nil
	return nil
}

// ExpireAccessTokens invalidates every issued access token. Refresh tokens
// keep working.
func (b *Backend) ExpireAccessTokens() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state.access = make(map[string]string)
}

// Session issues a token pair for email without going through login.
func (b *Backend) Session(t testing.TB, email string) (access, refresh string) {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.state.users[email]
	if !ok {
		t.Fatalf("testutil: no user %s", email)
	}
	access, refresh, err := b.issue(u)
	if err != nil {
		t.Fatalf("testutil: %v", err)
	}
	return access, refresh
}

// RefreshTokenValid reports whether the backend would still accept rt.
func (b *Backend) RefreshTokenValid(rt string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.state.refresh[rt]
	return ok
}

// PlaidLinks returns the completed Plaid exchanges.
func (b *Backend) PlaidLinks() []PlaidLink {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]PlaidLink(nil), b.state.plaid...)
}

// SyncedWallets returns the wallet ids a sync was requested for.
func (b *Backend) SyncedWallets() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.state.synced...)
}

// PortfolioIDs returns the ids of the portfolios owned by email.
func (b *Backend) PortfolioIDs(email string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.state.users[email]
	if !ok {
		return nil
	}
	var ids []string
	for _, p := range b.state.owned(u.ID) {
		ids = append(ids, p.ID)
	}
	return ids
}

// ManualAssetIDs returns the ids of the manual assets owned by email.
func (b *Backend) ManualAssetIDs(email string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.state.users[email]
	if !ok {
		return nil
	}
	var ids []string
	for _, h := range b.state.holdings(u.ID) {
		if h.Source == "MANUAL" {
			ids = append(ids, h.ID)
		}
	}
	return ids
}

// issue must be called with b.mu held.
func (b *Backend) issue(u *user) (string, string, error) {
	access, err := b.issuer.access(u)
	if err != nil {
		return "", "", err
	}
	refresh := b.issuer.refresh()
	b.state.access[access] = u.ID
	b.state.refresh[refresh] = u.ID
	return access, refresh, nil
}
