package services

import (
	"math"
	"testing"
	"time"

	"github.com/unitrack/unitrack/credentials"
	"github.com/unitrack/unitrack/httpclient"
	"github.com/unitrack/unitrack/logger"
	"github.com/unitrack/unitrack/testutil"
)

func newServices(t *testing.T, b *testutil.Backend) (*Services, *credentials.MemoryStore) {
	t.Helper()
	store := credentials.NewMemoryStore()
	client, err := httpclient.New(httpclient.Config{BaseURL: b.URL(), Timeout: 5 * time.Second}, store,
		httpclient.WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("unexpected error creating client: %v", err)
	}
	t.Cleanup(client.Close)
	return New(client, store), store
}

// signedIn returns services holding a live session for email.
func signedIn(t *testing.T, b *testutil.Backend, email string) (*Services, *credentials.MemoryStore) {
	t.Helper()
	svc, store := newServices(t, b)
	access, refresh := b.Session(t, email)
	if err := credentials.Save(store, credentials.Pair{AccessToken: access, RefreshToken: refresh}); err != nil {
		t.Fatal(err)
	}
	return svc, store
}

func lastRequest(t *testing.T, b *testutil.Backend) testutil.Request {
	t.Helper()
	req, ok := b.LastRequest()
	if !ok {
		t.Fatal("expected a request to reach the backend")
	}
	return req
}

func approx(got, want float64) bool {
	return math.Abs(got-want) < 1e-6
}
