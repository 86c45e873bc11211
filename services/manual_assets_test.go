package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	apperrors "github.com/unitrack/unitrack/errors"
	"github.com/unitrack/unitrack/httpclient"
	"github.com/unitrack/unitrack/testutil"
)

func decodeBody(t *testing.T, req testutil.Request) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(req.Body, &body); err != nil {
		t.Fatalf("request body is not JSON: %v (%s)", err, req.Body)
	}
	return body
}

func TestManualAssets_Create(t *testing.T) {
	tests := []struct {
		name     string
		in       NewManualAsset
		currency string
		date     any
	}{
		{
			name:     "defaults",
			in:       NewManualAsset{Ticker: "car", Name: "Car", Type: "VEHICLE", Value: 18000},
			currency: "USD",
		},
		{
			name: "explicit currency and date",
			in: NewManualAsset{Ticker: "ART", Name: "Painting", Type: "COLLECTIBLE", Value: 900,
				Currency: "eur", Date: time.Date(2026, 2, 14, 18, 0, 0, 0, time.UTC)},
			currency: "EUR",
			date:     "2026-02-14",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewBackend(t)
			svc, _ := signedIn(t, b, testutil.SeedEmail)
			before := len(b.ManualAssetIDs(testutil.SeedEmail))

			if err := svc.ManualAssets.Create(context.Background(), tt.in); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			req := lastRequest(t, b)
			if req.Method != "POST" || req.Path != "/assets/manual" {
				t.Errorf("unexpected request %s %s", req.Method, req.Path)
			}
			body := decodeBody(t, req)
			if body["currency"] != tt.currency {
				t.Errorf("expected currency %s, got %v", tt.currency, body["currency"])
			}
			if body["date"] != tt.date {
				t.Errorf("expected date %v, got %v", tt.date, body["date"])
			}
			if tt.in.Ticker == "car" && body["ticker"] != "CAR" {
				t.Errorf("expected upper-cased ticker, got %v", body["ticker"])
			}
			if got := len(b.ManualAssetIDs(testutil.SeedEmail)); got != before+1 {
				t.Errorf("expected %d manual assets, got %d", before+1, got)
			}
		})
	}
}

func TestManualAssets_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		in   NewManualAsset
	}{
		{"missing ticker", NewManualAsset{Name: "Car", Type: "VEHICLE"}},
		{"bad ticker", NewManualAsset{Ticker: "no spaces", Name: "Car", Type: "VEHICLE"}},
		{"negative value", NewManualAsset{Ticker: "CAR", Name: "Car", Type: "VEHICLE", Value: -1}},
		{"bad currency", NewManualAsset{Ticker: "CAR", Name: "Car", Type: "VEHICLE", Currency: "dollars"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewBackend(t)
			svc, _ := signedIn(t, b, testutil.SeedEmail)
			err := svc.ManualAssets.Create(context.Background(), tt.in)
			if !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
			if n := len(b.Requests()); n != 0 {
				t.Errorf("expected no request, got %d", n)
			}
		})
	}
}

func TestManualAssets_List(t *testing.T) {
	b := testutil.NewBackend(t)
	svc, _ := signedIn(t, b, testutil.SeedEmail)

	list, err := svc.ManualAssets.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || len(list[0].Holdings) != 1 || list[0].Holdings[0].Ticker != "HOUSE" {
		t.Errorf("unexpected manual assets %+v", list)
	}
	if !list[0].Holdings[0].IsManual() {
		t.Error("expected manual source")
	}
}

func TestManualAssets_Update(t *testing.T) {
	b := testutil.NewBackend(t)
	svc, _ := signedIn(t, b, testutil.SeedEmail)
	svc.ManualAssets.now = func() time.Time { return time.Date(2026, 4, 30, 23, 0, 0, 0, time.UTC) }
	id := b.ManualAssetIDs(testutil.SeedEmail)[0]
	ctx := context.Background()

	if err := svc.ManualAssets.Update(ctx, id, 255000, time.Time{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req := lastRequest(t, b)
	if req.Method != "PUT" || req.Path != "/assets/manual/"+id {
		t.Errorf("unexpected request %s %s", req.Method, req.Path)
	}
	body := decodeBody(t, req)
	if body["value"] != 255000.0 || body["date"] != "2026-04-30" {
		t.Errorf("unexpected body %v", body)
	}

	if err := svc.ManualAssets.Update(ctx, id, 1, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := decodeBody(t, lastRequest(t, b))["date"]; got != "2025-12-31" {
		t.Errorf("expected explicit date, got %v", got)
	}

	if err := svc.ManualAssets.Update(ctx, "ma-missing", 1, time.Time{}); !httpclient.IsNotFound(err) {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestManualAssets_Delete(t *testing.T) {
	b := testutil.NewBackend(t)
	svc, _ := signedIn(t, b, testutil.SeedEmail)
	id := b.ManualAssetIDs(testutil.SeedEmail)[0]
	ctx := context.Background()

	if err := svc.ManualAssets.Delete(ctx, id); err != nil {
		t.Fatalf("expected 204 to succeed, got %v", err)
	}
	if ids := b.ManualAssetIDs(testutil.SeedEmail); len(ids) != 0 {
		t.Errorf("expected asset removed, got %v", ids)
	}

	err := svc.ManualAssets.Delete(ctx, id)
	if !httpclient.IsNotFound(err) || httpclient.Message(err) != "Not found" {
		t.Errorf("expected 404 Not found on second delete, got %v", err)
	}

	if err := svc.ManualAssets.Delete(ctx, ""); !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for empty id, got %v", err)
	}
}
