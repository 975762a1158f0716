// Package signature verifies payment-provider webhook signatures.
//
// The provider signs the exact raw request body; verification must run over
// those bytes before any parsing, since re-serializing a decoded payload
// would not round-trip to the same signature.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verify recomputes the HMAC-SHA256 of rawBody under secret and compares it
// in constant time against the hex-encoded signatureHeader.
func Verify(rawBody []byte, signatureHeader, secret string) bool {
	if signatureHeader == "" || secret == "" {
		return false
	}

	provided, err := hex.DecodeString(signatureHeader)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)

	return hmac.Equal(mac.Sum(nil), provided)
}

// Sign computes the hex-encoded HMAC-SHA256 of rawBody under secret. Used by
// tests and by outbound webhook tooling.
func Sign(rawBody []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	return hex.EncodeToString(mac.Sum(nil))
}
