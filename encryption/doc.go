// Package encryption seals small secrets, such as the stored session tokens,
// with an AEAD cipher keyed from a passphrase.
//
//	enc, err := encryption.New(passphrase)
//	sealed, err := enc.Encrypt(token)
//	token, err := enc.Decrypt(sealed)
//
// ChaCha20-Poly1305 is the default; AES-256-GCM is available for machines
// where it is hardware accelerated.
package encryption
