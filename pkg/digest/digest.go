// Package digest provides the content fingerprint used for change detection
// during document synchronisation.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
)

// Text returns the SHA-256 fingerprint of txt as lowercase hex.
// Two rows with equal digests are treated as "no meaningful change"
// without comparing full text.
func Text(txt string) string {
	sum := sha256.Sum256([]byte(txt))
	return hex.EncodeToString(sum[:])
}
