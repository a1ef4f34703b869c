package service

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint derives the document id from its content. Identical text
// always maps to the same id, which is what makes ingestion idempotent.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
