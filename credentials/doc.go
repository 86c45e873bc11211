// Package credentials keeps the session tokens issued by the Unitrack API.
//
// A Store holds two values, the access token sent as a bearer credential and
// the refresh token used to obtain a new one. The HTTP client only reads the
// access token; the auth service is the only writer.
//
// MemoryStore lives for the process. FileStore persists to a 0600 JSON file
// and seals each value when a passphrase is configured. Claims decodes the
// access token locally for display; it never checks the signature.
package credentials
