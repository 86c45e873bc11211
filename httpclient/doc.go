// Package httpclient is the typed REST client shared by every Unitrack
// service façade.
//
// Each call performs exactly one exchange: no retry, no circuit breaker and
// no token refresh-and-replay. Request bodies are encoded with snake_case
// keys and response bodies are decoded after mapping snake_case keys back to
// camelCase, so struct tags are written in camelCase:
//
//	type Summary struct {
//	    TotalValue float64 `json:"totalValue"` // total_value on the wire
//	}
//
// Every failure is an *Error of one kind:
//
//   - KindTransport: no response (DNS, TLS, refused, timeout, cancelled)
//   - KindServer: status outside 200-299, message from the error envelope
//   - KindDecoding: 2xx body that does not fit the target type
//   - KindEncoding: request body could not be serialized, nothing sent
//
// # Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: httpclient.DefaultBaseURL,
//	}, store)
//
//	summary, err := httpclient.Get[Summary](ctx, client, "/portfolio/summary")
//	if httpclient.IsServer(err) {
//	    fmt.Println(httpclient.Message(err))
//	}
package httpclient
