package services

import (
	"context"
	"strings"
	"time"

	"github.com/unitrack/unitrack/httpclient"
	"github.com/unitrack/unitrack/money"
	"github.com/unitrack/unitrack/validation"
)

const pathManualAssets = "/assets/manual"

// ManualAssetService manages hand-entered assets.
type ManualAssetService struct {
	client *httpclient.Client
	now    func() time.Time
}

// NewManualAssetService creates the manual asset façade.
func NewManualAssetService(client *httpclient.Client) *ManualAssetService {
	return &ManualAssetService{client: client, now: time.Now}
}

// Create adds an asset. The server replies with no useful body.
func (s *ManualAssetService) Create(ctx context.Context, in NewManualAsset) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	payload := createManualAssetPayload{
		Ticker:   strings.ToUpper(in.Ticker),
		Name:     in.Name,
		Type:     in.Type,
		Value:    in.Value,
		Currency: strings.ToUpper(in.Currency),
	}
	if payload.Currency == "" {
		payload.Currency = money.DefaultCurrency
	}
	if !in.Date.IsZero() {
		d := in.Date.Format(validation.DateLayout)
		payload.Date = &d
	}
	return httpclient.PostVoid(ctx, s.client, pathManualAssets, payload)
}

// List returns manual assets grouped as portfolios.
func (s *ManualAssetService) List(ctx context.Context) ([]Portfolio, error) {
	return httpclient.Get[[]Portfolio](ctx, s.client, pathManualAssets)
}

// Update records a new value for asset id as of date, or today when date is
// zero.
func (s *ManualAssetService) Update(ctx context.Context, id string, value float64, date time.Time) error {
	p, err := idPath(pathManualAssets, "id", id)
	if err != nil {
		return err
	}
	if date.IsZero() {
		date = s.now()
	}
	return httpclient.PutVoid(ctx, s.client, p, updateManualAssetPayload{
		Value: value,
		Date:  date.Format(validation.DateLayout),
	})
}

// Delete removes asset id.
func (s *ManualAssetService) Delete(ctx context.Context, id string) error {
	p, err := idPath(pathManualAssets, "id", id)
	if err != nil {
		return err
	}
	return httpclient.DeleteVoid(ctx, s.client, p)
}
