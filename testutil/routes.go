package testutil

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

var notFound = gin.H{"message": "Not found"}

func (b *Backend) routes() *gin.Engine {
	r := gin.New()
	r.UseRawPath = true
	r.Use(b.recovery(), b.record(), b.stubbed())

	v1 := r.Group(APIPrefix)
	v1.POST("/auth/login", b.login)
	v1.POST("/auth/signup", b.signup)
	v1.POST("/auth/refresh", b.refresh)

	api := v1.Group("", b.authenticated())
	api.POST("/auth/logout", b.logout)
	api.GET("/auth/profile", b.profile)

	api.GET("/portfolio", b.listPortfolios)
	api.POST("/portfolio", b.createPortfolio)
	api.GET("/portfolio/:id", b.portfolioResource)

	api.GET("/market/search", b.search)
	api.GET("/market/assets/:ticker", b.asset)
	api.GET("/market/assets/:ticker/price", b.price)
	api.GET("/market/assets/:ticker/aggregates", b.aggregates)

	api.GET("/assets/manual", b.listManual)
	api.POST("/assets/manual", b.createManual)
	api.PUT("/assets/manual/:id", b.updateManual)
	api.DELETE("/assets/manual/:id", b.deleteManual)

	api.POST("/connections/plaid/link-token", b.linkToken)
	api.POST("/connections/plaid/exchange", b.exchange)
	api.POST("/connections/wallet", b.connectWallet)
	api.POST("/connections/wallet/sync/:id", b.syncWallet)

	api.GET("/analytics/health", b.health)
	premium := api.Group("/analytics", pro())
	premium.GET("/exposure", b.exposure)
	premium.GET("/amortization/:id", b.amortization)
	premium.POST("/chat", b.chat)
	return r
}

// --- auth ---

type credentialsBody struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshBody struct {
	RefreshToken string `json:"refresh_token"`
}

func (b *Backend) session(c *gin.Context, status int, u *user) {
	access, refresh, err := b.issue(u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(status, gin.H{"token": access, "refresh_token": refresh, "user": u})
}

func (b *Backend) login(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.state.users[strings.ToLower(body.Email)]
	if !ok || !checkPassword(u.passwordHash, body.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	b.session(c, http.StatusOK, u)
}

func (b *Backend) signup(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	if len(body.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 8 characters"})
		return
	}
	email := strings.ToLower(body.Email)
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.state.users[email]; exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	hash, err := hashPassword(body.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	u := &user{
		ID: b.state.id("usr"), Email: email, SubscriptionStatus: "FREE",
		CurrencyCode: "USD", passwordHash: hash,
	}
	b.state.users[email] = u
	b.session(c, http.StatusCreated, u)
}

func (b *Backend) refresh(c *gin.Context) {
	var body refreshBody
	_ = c.ShouldBindJSON(&body)
	b.mu.Lock()
	defer b.mu.Unlock()
	userID, ok := b.state.refresh[body.RefreshToken]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	delete(b.state.refresh, body.RefreshToken)
	for _, u := range b.state.users {
		if u.ID == userID {
			b.session(c, http.StatusOK, u)
			return
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
}

func (b *Backend) logout(c *gin.Context) {
	var body refreshBody
	_ = c.ShouldBindJSON(&body)
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	b.mu.Lock()
	delete(b.state.refresh, body.RefreshToken)
	delete(b.state.access, token)
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (b *Backend) profile(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

// --- portfolio ---

func (b *Backend) listPortfolios(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []portfolio{}
	for _, p := range b.state.owned(currentUser(c).ID) {
		summary := *p
		summary.Holdings, summary.Snapshots = nil, nil
		out = append(out, summary)
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) createPortfolio(c *gin.Context) {
	var body struct {
		Name string `json:"name" binding:"required"`
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &portfolio{
		ID: b.state.id("pf"), Name: body.Name, Type: body.Type, Currency: "USD",
		owner: currentUser(c).ID,
	}
	b.state.portfolios = append(b.state.portfolios, p)
	c.JSON(http.StatusCreated, p)
}

// portfolioResource serves /portfolio/{id} and the fixed sub-resources that
// share its path shape.
func (b *Backend) portfolioResource(c *gin.Context) {
	owner := currentUser(c).ID
	b.mu.Lock()
	defer b.mu.Unlock()

	switch id := c.Param("id"); id {
	case "summary":
		total, change := 0.0, 0.0
		for _, h := range b.state.holdings(owner) {
			total += h.Value
			change += h.Value * h.Change / 100
		}
		pct := 0.0
		if total != 0 {
			pct = change / total * 100
		}
		c.JSON(http.StatusOK, gin.H{
			"total_value": total, "day_change": change,
			"day_change_percentage": pct, "currency_code": "USD",
		})
	case "holdings":
		c.JSON(http.StatusOK, b.state.holdings(owner))
	case "history":
		out := []snapshot{}
		for _, p := range b.state.owned(owner) {
			out = append(out, p.Snapshots...)
		}
		c.JSON(http.StatusOK, out)
	case "allocation":
		byType := map[string]float64{}
		total := 0.0
		for _, h := range b.state.holdings(owner) {
			byType[h.Type] += h.Value
			total += h.Value
		}
		out := []gin.H{}
		for _, name := range sortedKeys(byType) {
			out = append(out, gin.H{"name": name, "value": byType[name], "percentage": byType[name] / total * 100})
		}
		c.JSON(http.StatusOK, out)
	default:
		p := b.state.portfolio(owner, id)
		if p == nil {
			c.JSON(http.StatusNotFound, notFound)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// --- market ---

func (b *Backend) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query is required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []gin.H{}
	for _, a := range b.state.search(q) {
		out = append(out, gin.H{"ticker": a.Ticker, "name": a.Name, "type": a.Type, "logo_url": a.LogoURL})
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) lookup(c *gin.Context) (marketAsset, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, ok := b.state.market[strings.ToUpper(c.Param("ticker"))]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
	}
	return a, ok
}

func (b *Backend) asset(c *gin.Context) {
	if a, ok := b.lookup(c); ok {
		c.JSON(http.StatusOK, a)
	}
}

func (b *Backend) price(c *gin.Context) {
	a, ok := b.lookup(c)
	if !ok {
		return
	}
	if t := c.Query("type"); t != "" && !strings.EqualFold(t, a.Type) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No " + t + " quote for " + a.Ticker})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker": a.Ticker, "price": a.Price})
}

func (b *Backend) aggregates(c *gin.Context) {
	a, ok := b.lookup(c)
	if !ok {
		return
	}
	from, errFrom := time.Parse(dateLayout, c.Query("from"))
	to, errTo := time.Parse(dateLayout, c.Query("to"))
	if errFrom != nil || errTo != nil || to.Before(from) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range"})
		return
	}
	if c.Query("timespan") == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Timespan is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticker": a.Ticker, "aggregates": bars(a.Price, from, to)})
}

// --- manual assets ---

func (b *Backend) listManual(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []*portfolio{}
	for _, p := range b.state.owned(currentUser(c).ID) {
		if p.Type == "MANUAL" {
			out = append(out, p)
		}
	}
	c.JSON(http.StatusOK, out)
}

func (b *Backend) createManual(c *gin.Context) {
	var body struct {
		Ticker   string  `json:"ticker" binding:"required"`
		Name     string  `json:"name" binding:"required"`
		Type     string  `json:"type" binding:"required"`
		Value    float64 `json:"value"`
		Currency string  `json:"currency"`
		Date     string  `json:"date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ticker, name and type are required"})
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format(dateLayout)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.state.manualPortfolio(currentUser(c).ID)
	h := holding{
		ID: b.state.id("ma"), PortfolioID: p.ID, Ticker: body.Ticker, Name: body.Name,
		Type: body.Type, Source: "MANUAL", Value: body.Value, Currency: body.Currency, Date: body.Date,
	}
	p.Holdings = append(p.Holdings, h)
	p.rebalance()
	c.JSON(http.StatusCreated, gin.H{"id": h.ID})
}

func (b *Backend) updateManual(c *gin.Context) {
	var body struct {
		Value *float64 `json:"value" binding:"required"`
		Date  string   `json:"date"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Value is required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p, i := b.state.manualAsset(currentUser(c).ID, c.Param("id"))
	if p == nil {
		c.JSON(http.StatusNotFound, notFound)
		return
	}
	p.Holdings[i].Value = *body.Value
	p.Holdings[i].Date = body.Date
	p.rebalance()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (b *Backend) deleteManual(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, i := b.state.manualAsset(currentUser(c).ID, c.Param("id"))
	if p == nil {
		c.JSON(http.StatusNotFound, notFound)
		return
	}
	p.Holdings = append(p.Holdings[:i], p.Holdings[i+1:]...)
	p.rebalance()
	c.Status(http.StatusNoContent)
}

// --- connections ---

func (b *Backend) linkToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"link_token": "link-sandbox-" + currentUser(c).ID})
}

func (b *Backend) exchange(c *gin.Context) {
	var body PlaidLink
	if err := c.ShouldBindJSON(&body); err != nil || !strings.HasPrefix(body.PublicToken, "public-") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid public token"})
		return
	}
	b.mu.Lock()
	b.state.plaid = append(b.state.plaid, body)
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (b *Backend) connectWallet(c *gin.Context) {
	var body struct {
		Address string `json:"address" binding:"required"`
		Label   string `json:"label"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address is required"})
		return
	}
	name := body.Label
	if name == "" {
		name = "Wallet " + body.Address[:min(6, len(body.Address))]
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := &portfolio{
		ID: b.state.id("wl"), Name: name, Type: "WALLET", Currency: "USD",
		owner: currentUser(c).ID, address: body.Address,
	}
	b.state.portfolios = append(b.state.portfolios, p)
	c.JSON(http.StatusCreated, p)
}

func (b *Backend) syncWallet(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.state.portfolio(currentUser(c).ID, c.Param("id"))
	if p == nil || p.Type != "WALLET" {
		c.JSON(http.StatusNotFound, notFound)
		return
	}
	b.state.synced = append(b.state.synced, p.ID)
	c.JSON(http.StatusOK, gin.H{"status": "syncing"})
}

// --- analytics ---

func (b *Backend) health(c *gin.Context) {
	b.mu.Lock()
	n := len(b.state.holdings(currentUser(c).ID))
	b.mu.Unlock()
	score, status := 40+10*min(n, 5), "FAIR"
	if score >= 70 {
		status = "GOOD"
	}
	c.JSON(http.StatusOK, gin.H{"score": score, "status": status, "summary": "Diversify across more asset classes."})
}

func (b *Backend) exposure(c *gin.Context) {
	c.JSON(http.StatusOK, []gin.H{
		{"region": "North America", "value": 8000.0, "percentage": 73.7},
		{"region": "Global", "value": 2855.04, "percentage": 26.3},
	})
}

func (b *Backend) amortization(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, i := b.state.manualAsset(currentUser(c).ID, c.Param("id"))
	if p == nil {
		c.JSON(http.StatusNotFound, notFound)
		return
	}
	h := p.Holdings[i]
	const rate = 0.004
	projection := []gin.H{}
	value := h.Value
	for m := 1; m <= 3; m++ {
		value *= 1 + rate
		projection = append(projection, gin.H{"month": time.Date(2026, time.Month(m), 1, 0, 0, 0, 0, time.UTC).Format("2006-01"), "value": value})
	}
	c.JSON(http.StatusOK, gin.H{
		"asset_name": h.Name, "current_value": h.Value, "projection_type": "APPRECIATION",
		"monthly_rate": rate, "projection": projection,
	})
}

func (b *Backend) chat(c *gin.Context) {
	var body struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": "## Answer\n\nYou asked: *" + body.Message + "*"})
}
