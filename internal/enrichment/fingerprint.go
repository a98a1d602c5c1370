// Package enrichment provides the remediation-guidance cache and the AI
// collaborator gateway that fills it.
package enrichment

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/jonathan/a11y-audit/internal/types"
)

// fingerprintLen is the number of hex characters kept from the digest;
// 16 characters (64 bits) is plenty for the fingerprint space while
// staying readable in logs and database rows.
const fingerprintLen = 16

// Fingerprint derives the deterministic cache key for a defect class from
// its source and normalized error type. Equal inputs always produce equal
// fingerprints.
func Fingerprint(source types.Source, normalizedErrorType string) string {
	sum := sha256.Sum256([]byte(string(source) + "|" + normalizedErrorType))
	return hex.EncodeToString(sum[:])[:fingerprintLen]
}

// GroupFingerprint is a convenience wrapper for issue groups.
func GroupFingerprint(group *types.IssueGroup) string {
	return Fingerprint(group.Source, group.NormalizedErrorType)
}
