package normalize

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// AddressHash computes the dedup key for a permit location: the SHA-256 hex
// digest of normalizedAddress + "|" + county + "|" + stateCode (county and
// state uppercased, empty when missing). Returns "" when the normalized
// address is empty, since an address-less record has no location identity.
func AddressHash(normalizedAddress, normalizedCounty, stateCode string) string {
	if normalizedAddress == "" {
		return ""
	}

	key := normalizedAddress + "|" + strings.ToUpper(normalizedCounty) + "|" + strings.ToUpper(stateCode)
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}
