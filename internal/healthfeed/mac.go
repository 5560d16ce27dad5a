package healthfeed

import (
	"crypto/hmac"
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Sign computes the hex HMAC-SHA3-256 of payload under the shared feed
// secret. Every feed message carries this signature over its raw payload
// bytes, so a collaborator cannot forge health state without the secret.
func Sign(secret string, payload []byte) string {
	mac := hmac.New(sha3.New256, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a hex signature against the expected HMAC for payload.
// Constant-time comparison.
func Verify(secret string, payload []byte, signature string) bool {
	sig, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha3.New256, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(sig, mac.Sum(nil))
}
