// Package security holds the TLS settings used when the CLI talks to a
// Unitrack API that is not behind a public certificate, such as a staging
// deployment signed by a private CA or a gateway that requires a client
// certificate.
//
//	cfg := security.TLSConfig{CAFile: "/etc/unitrack/ca.pem", MinVersion: "1.3"}
//	tlsConfig, err := cfg.Build()
package security
