package store

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// domainSpec is the domain prefix for spec content hashes. The version
// suffix enables future algorithm migration.
const domainSpec = "tdspec/spec/v1"

// ContentHash computes the content-addressed identity of spec text.
// Text is NFC-normalized first so that byte-level encoding differences
// in opaque attribute payloads do not produce distinct identities.
// Format: SHA256(domain + 0x00 + normalized text); the null separator
// prevents domain/data boundary ambiguity.
func ContentHash(text string) string {
	h := sha256.New()
	h.Write([]byte(domainSpec))
	h.Write([]byte{0x00})
	h.Write([]byte(norm.NFC.String(text)))
	return hex.EncodeToString(h.Sum(nil))
}
