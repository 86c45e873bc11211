package services

import (
	"context"
	"strings"
	"testing"

	apperrors "github.com/unitrack/unitrack/errors"
	"github.com/unitrack/unitrack/httpclient"
	"github.com/unitrack/unitrack/testutil"
)

func TestAnalytics_Health(t *testing.T) {
	b := testutil.NewBackend(t)
	svc, _ := signedIn(t, b, testutil.SeedEmail)

	h, err := svc.Analytics.Health(context.Background())
	if err != nil {
		t.Fatalf("expected health open to free accounts, got %v", err)
	}
	if h.Score != 70 || h.Status != "GOOD" || h.Summary == "" {
		t.Errorf("unexpected health %+v", h)
	}
}

func TestAnalytics_PremiumRequiresSubscription(t *testing.T) {
	b := testutil.NewBackend(t)
	svc, _ := signedIn(t, b, testutil.SeedEmail)
	ctx := context.Background()
	id := b.ManualAssetIDs(testutil.SeedEmail)[0]

	calls := map[string]func() error{
		"exposure": func() error { _, err := svc.Analytics.Exposure(ctx); return err },
		"amortization": func() error {
			_, err := svc.Analytics.Amortization(ctx, id)
			return err
		},
		"chat": func() error { _, err := svc.Analytics.Chat(ctx, "How am I doing?"); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			if !apperrors.HasCode(err, apperrors.ErrCodeSubscriptionRequired) {
				t.Fatalf("expected SUBSCRIPTION_REQUIRED, got %v", err)
			}
			if !httpclient.IsServer(err) || httpclient.StatusCode(err) != 403 {
				t.Errorf("expected server 403 kept as cause, got %v", err)
			}
		})
	}
}

func TestAnalytics_Pro(t *testing.T) {
	b := testutil.NewBackend(t)
	svc, _ := signedIn(t, b, testutil.ProEmail)
	ctx := context.Background()

	exposure, err := svc.Analytics.Exposure(ctx)
	if err != nil {
		t.Fatalf("exposure: %v", err)
	}
	if len(exposure) != 2 || exposure[0].Region != "North America" {
		t.Errorf("unexpected exposure %+v", exposure)
	}

	id := b.ManualAssetIDs(testutil.ProEmail)[0]
	am, err := svc.Analytics.Amortization(ctx, id)
	if err != nil {
		t.Fatalf("amortization: %v", err)
	}
	if am.AssetName != "Flat" || am.CurrentValue != 250000 || len(am.Projection) != 3 {
		t.Errorf("unexpected amortization %+v", am)
	}
	if am.Projection[0].Month != "2026-01" || am.Projection[2].Value <= am.CurrentValue {
		t.Errorf("expected appreciating projection, got %+v", am.Projection)
	}

	if _, err := svc.Analytics.Amortization(ctx, "ma-missing"); !httpclient.IsNotFound(err) {
		t.Errorf("expected 404 to pass through unchanged, got %v", err)
	}

	reply, err := svc.Analytics.Chat(ctx, "  How am I doing?  ")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !strings.Contains(reply, "*How am I doing?*") {
		t.Errorf("expected trimmed message echoed, got %q", reply)
	}
}

func TestAnalytics_ChatRequiresMessage(t *testing.T) {
	b := testutil.NewBackend(t)
	svc, _ := signedIn(t, b, testutil.ProEmail)

	if _, err := svc.Analytics.Chat(context.Background(), " "); !apperrors.HasCode(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
	if n := len(b.Requests()); n != 0 {
		t.Errorf("expected no request, got %d", n)
	}
}
