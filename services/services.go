package services

import (
	"github.com/unitrack/unitrack/credentials"
	"github.com/unitrack/unitrack/httpclient"
)

// Services bundles every façade over one client and credential store.
type Services struct {
	Auth         *Auth
	Portfolio    *PortfolioService
	Market       *MarketService
	ManualAssets *ManualAssetService
	Connections  *ConnectionService
	Analytics    *AnalyticsService
}

// New wires the façades. store must be the TokenSource client was built with
// so that a login is seen by the next request.
func New(client *httpclient.Client, store credentials.Store) *Services {
	return &Services{
		Auth:         NewAuth(client, store),
		Portfolio:    NewPortfolioService(client),
		Market:       NewMarketService(client),
		ManualAssets: NewManualAssetService(client),
		Connections:  NewConnectionService(client),
		Analytics:    NewAnalyticsService(client),
	}
}
