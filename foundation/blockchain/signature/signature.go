// Package signature provides the digest function used to identify blocks
// and to link them into a chain.
package signature

import (
	"crypto/sha256"

	"github.com/ethereum/go-ethereum/common"
)

// RootHash is the previous hash value carried by the genesis block. No
// digest produced by Hash can ever equal it.
const RootHash = "0"

// HashLength is the number of hex characters in a digest.
const HashLength = sha256.Size * 2

// =============================================================================

// Hash returns the lower case hex encoded SHA-256 digest of the data.
//
// Every call allocates its own hashing state so the function can be used
// by any number of goroutines at the same time.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return common.Bytes2Hex(hash[:])
}

// HashString returns the digest of the UTF-8 bytes of the string.
func HashString(s string) string {
	return Hash([]byte(s))
}

// IsHash reports whether the value has the shape of a digest produced
// by Hash.
func IsHash(value string) bool {
	if len(value) != HashLength {
		return false
	}

	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}

	return true
}
