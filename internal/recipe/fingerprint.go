package recipe

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainQuery prefixes query fingerprints. The version suffix allows the
// algorithm to change without colliding with older fingerprints.
const DomainQuery = "cyphergen/query/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns a stable identifier for rendered query text. Equal
// text yields equal fingerprints, so callers can key plan caches on it.
func Fingerprint(cypher string) string {
	return hashWithDomain(DomainQuery, []byte(cypher))
}
