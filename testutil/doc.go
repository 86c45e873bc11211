// Package testutil provides an in-memory Unitrack API for tests.
//
// The backend speaks the real wire format (snake_case JSON, bearer JWTs,
// the {"error"} and {"message"} envelopes) so client code can be exercised
// end to end:
//
//	func TestDashboard(t *testing.T) {
//	    backend := testutil.NewBackend(t)
//	    access, refresh := backend.Session(t, testutil.SeedEmail)
//	    // build a client against backend.URL() ...
//	}
//
// Routes can be overridden with Stub to script failures and delays, and
// every request is recorded for inspection with Requests.
package testutil
