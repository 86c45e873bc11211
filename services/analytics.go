package services

import (
	"context"
	"strings"

	"github.com/unitrack/unitrack/errors"
	"github.com/unitrack/unitrack/httpclient"
	"github.com/unitrack/unitrack/validation"
)

const pathAnalytics = "/analytics"

// AnalyticsService exposes the premium analytics endpoints.
type AnalyticsService struct {
	client *httpclient.Client
}

// NewAnalyticsService creates the analytics façade.
func NewAnalyticsService(client *httpclient.Client) *AnalyticsService {
	return &AnalyticsService{client: client}
}

// Health returns the portfolio health score.
func (s *AnalyticsService) Health(ctx context.Context) (*Health, error) {
	return ptr(httpclient.Get[Health](ctx, s.client, pathAnalytics+"/health"))
}

// Exposure returns the portfolio split by region.
func (s *AnalyticsService) Exposure(ctx context.Context) ([]RegionExposure, error) {
	out, err := httpclient.Get[[]RegionExposure](ctx, s.client, pathAnalytics+"/exposure")
	return out, premium("Exposure analysis", err)
}

// Amortization projects the value of asset id.
func (s *AnalyticsService) Amortization(ctx context.Context, id string) (*Amortization, error) {
	p, err := idPath(pathAnalytics+"/amortization", "id", id)
	if err != nil {
		return nil, err
	}
	out, err := ptr(httpclient.Get[Amortization](ctx, s.client, p))
	return out, premium("Amortization", err)
}

// Chat sends one message to the portfolio assistant and returns its
// markdown reply.
func (s *AnalyticsService) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if err := validation.New().Required("message", message).Err(); err != nil {
		return "", err
	}
	resp, err := httpclient.Post[chatResponse](ctx, s.client, pathAnalytics+"/chat", chatRequest{Message: message})
	if err != nil {
		return "", premium("The assistant", err)
	}
	return resp.Response, nil
}

// premium turns a 403 into SUBSCRIPTION_REQUIRED, keeping the server error
// as the cause.
func premium(feature string, err error) error {
	if err != nil && httpclient.StatusCode(err) == 403 && httpclient.IsServer(err) {
		return errors.SubscriptionRequired(feature, err)
	}
	return err
}
