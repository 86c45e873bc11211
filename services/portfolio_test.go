package services

import (
	"context"
	"encoding/json"
	"testing"

	apperrors "github.com/unitrack/unitrack/errors"
	"github.com/unitrack/unitrack/httpclient"
	"github.com/unitrack/unitrack/testutil"
)

func TestPortfolio_Reads(t *testing.T) {
	b := testutil.NewBackend(t)
	svc, _ := signedIn(t, b, testutil.SeedEmail)
	ctx := context.Background()

	list, err := svc.Portfolio.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Main" || !approx(list[0].Balance, 10855.04) {
		t.Errorf("unexpected portfolios %+v", list)
	}

	p, err := svc.Portfolio.Get(ctx, list[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(p.Holdings) != 2 || len(p.Snapshots) != 3 {
		t.Errorf("expected holdings and snapshots, got %+v", p)
	}
	if p.Holdings[0].LogoURL == nil || p.Holdings[0].PortfolioID != p.ID {
		t.Errorf("expected logo and portfolio id decoded, got %+v", p.Holdings[0])
	}

	sum, err := svc.Portfolio.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !approx(sum.TotalValue, 260855.04) || sum.CurrencyCode != "USD" {
		t.Errorf("unexpected summary %+v", sum)
	}

	holdings, err := svc.Portfolio.Holdings(ctx)
	if err != nil {
		t.Fatalf("holdings: %v", err)
	}
	manual := 0
	for _, h := range holdings {
		if h.IsManual() {
			manual++
		}
	}
	if len(holdings) != 3 || manual != 1 {
		t.Errorf("expected 3 holdings with 1 manual, got %d and %d", len(holdings), manual)
	}

	history, err := svc.Portfolio.History(ctx)
	if err != nil || len(history) != 3 {
		t.Errorf("expected 3 history points, got %d (%v)", len(history), err)
	}

	alloc, err := svc.Portfolio.Allocation(ctx)
	if err != nil {
		t.Fatalf("allocation: %v", err)
	}
	total := 0.0
	for _, a := range alloc {
		total += a.Percentage
	}
	if len(alloc) != 3 || !approx(total, 100) {
		t.Errorf("expected 3 categories summing to 100%%, got %+v", alloc)
	}
}

func TestPortfolio_GetErrors(t *testing.T) {
	b := testutil.NewBackend(t)
	svc, _ := signedIn(t, b, testutil.SeedEmail)
	ctx := context.Background()

	if _, err := svc.Portfolio.Get(ctx, "  "); !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for blank id, got %v", err)
	}
	if n := len(b.Requests()); n != 0 {
		t.Errorf("expected no request for blank id, got %d", n)
	}

	_, err := svc.Portfolio.Get(ctx, "pf-missing")
	if !httpclient.IsNotFound(err) || httpclient.Message(err) != "Not found" {
		t.Errorf("expected 404 Not found, got %v", err)
	}

	_, err = svc.Portfolio.Get(ctx, "a/b c")
	if !httpclient.IsNotFound(err) {
		t.Errorf("expected 404 for escaped id, got %v", err)
	}
	if got := lastRequest(t, b).Path; got != "/portfolio/a%2Fb%20c" {
		t.Errorf("expected escaped path, got %s", got)
	}
}

func TestPortfolio_Create(t *testing.T) {
	tests := []struct {
		name     string
		kind     string
		wantType string
	}{
		{"default type", "", "MANUAL"},
		{"explicit type", "investments", "INVESTMENTS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testutil.NewBackend(t)
			svc, _ := signedIn(t, b, testutil.SeedEmail)

			p, err := svc.Portfolio.Create(context.Background(), " Crypto ", tt.kind)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name != "Crypto" || p.Type != tt.wantType || p.ID == "" {
				t.Errorf("unexpected portfolio %+v", p)
			}
			var body map[string]string
			if err := json.Unmarshal(lastRequest(t, b).Body, &body); err != nil {
				t.Fatal(err)
			}
			if body["name"] != "Crypto" || body["type"] != tt.wantType {
				t.Errorf("unexpected body %v", body)
			}
		})
	}
}

func TestPortfolio_CreateRequiresName(t *testing.T) {
	b := testutil.NewBackend(t)
	svc, _ := signedIn(t, b, testutil.SeedEmail)
	if _, err := svc.Portfolio.Create(context.Background(), "", ""); !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}
