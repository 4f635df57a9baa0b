package database

import (
	"strconv"
	"strings"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
)

// MaxDifficulty is the largest number of leading zero hex digits a block
// hash can be asked to carry.
const MaxDifficulty = 10

// =============================================================================

// Status describes where a block came from and how far it has progressed.
type Status uint8

// Set of block statuses. A constructed block becomes mined once a nonce is
// committed. A reconstructed block came from storage and its hash has not
// been re-derived yet.
const (
	StatusConstructed Status = iota
	StatusMined
	StatusReconstructed
)

// String implements the fmt.Stringer interface.
func (s Status) String() string {
	switch s {
	case StatusConstructed:
		return "constructed"
	case StatusMined:
		return "mined"
	case StatusReconstructed:
		return "reconstructed"
	}
	return "unknown"
}

// =============================================================================

// Block represents a single entry in the chain. The fields can only be read
// through the accessor methods. The nonce and hash only change when a
// miner commits a solution.
type Block struct {
	hash      string // Cached digest over the other fields.
	prevHash  string // Hash of the previous block, RootHash for genesis.
	content   string // Payload stored in the block.
	timeStamp int64  // Milliseconds since the epoch.
	nonce     uint64 // Value identified to solve the hash puzzle.
	status    Status
}

// NewBlock constructs a block holding the specified content and linked to
// the specified previous hash. The block still needs to be mined.
func NewBlock(content string, prevHash string) (Block, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Block{}, ErrEmptyContent
	}

	if prevHash == "" {
		return Block{}, ErrMissingPrevHash
	}

	b := Block{
		prevHash:  prevHash,
		content:   content,
		timeStamp: time.Now().UnixMilli(),
		nonce:     0,
		status:    StatusConstructed,
	}
	b.hash = b.ComputeHash()

	return b, nil
}

// NewGenesisBlock constructs the first block of a chain using the root
// value as the previous hash.
func NewGenesisBlock(content string) (Block, error) {
	return NewBlock(content, signature.RootHash)
}

// Hash returns the cached hash for the block.
func (b Block) Hash() string {
	return b.hash
}

// PrevHash returns the hash of the previous block.
func (b Block) PrevHash() string {
	return b.prevHash
}

// Content returns the payload of the block.
func (b Block) Content() string {
	return b.content
}

// TimeStamp returns the creation time in milliseconds since the epoch.
func (b Block) TimeStamp() int64 {
	return b.timeStamp
}

// Nonce returns the nonce that was committed for the block.
func (b Block) Nonce() uint64 {
	return b.nonce
}

// Status returns the provenance of the block.
func (b Block) Status() Status {
	return b.status
}

// IsGenesis reports whether the block is linked to the root value.
func (b Block) IsGenesis() bool {
	return b.prevHash == signature.RootHash
}

// ComputeHash re-derives the hash from the fields of the block. The block
// is not changed.
func (b Block) ComputeHash() string {
	return b.ComputeHashWithNonce(b.nonce)
}

// ComputeHashWithNonce derives the hash the block would have if it carried
// the specified nonce. The block is not changed, which lets any number of
// miners try candidates against the same block.
func (b Block) ComputeHashWithNonce(nonce uint64) string {
	buf := make([]byte, 0, len(b.prevHash)+len(b.content)+40)
	buf = append(buf, b.prevHash...)
	buf = strconv.AppendInt(buf, b.timeStamp, 10)
	buf = strconv.AppendUint(buf, nonce, 10)
	buf = append(buf, b.content...)

	return signature.Hash(buf)
}

// ApplyNonce commits a nonce discovered by a miner. The hash is recomputed
// once and the block is marked as mined.
func (b *Block) ApplyNonce(nonce uint64) {
	b.nonce = nonce
	b.hash = b.ComputeHash()
	b.status = StatusMined
}

// String implements the fmt.Stringer interface.
func (b Block) String() string {
	return "Block{hash=" + b.hash +
		", prevHash=" + b.prevHash +
		", content=" + strconv.Quote(b.content) +
		", timeStamp=" + strconv.FormatInt(b.timeStamp, 10) +
		", nonce=" + strconv.FormatUint(b.nonce, 10) +
		", status=" + b.status.String() + "}"
}

// =============================================================================

// ValidateDifficulty checks the difficulty can be used to mine or check
// a block hash.
func ValidateDifficulty(difficulty uint) error {
	if difficulty > MaxDifficulty {
		return ErrInvalidDifficulty
	}
	return nil
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of leading hex 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	const match = "0000000000"

	if difficulty > MaxDifficulty || len(hash) != signature.HashLength {
		return false
	}

	return hash[:difficulty] == match[:difficulty]
}
