package state

import (
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
)

// Kind identifies which rule a block broke.
type Kind uint8

// Set of rules checked for every block.
const (
	HashMismatch Kind = iota + 1
	LinkageMismatch
	ProofOfWorkMismatch
)

var kinds = map[Kind]string{
	HashMismatch:        "hash mismatch",
	LinkageMismatch:     "linkage mismatch",
	ProofOfWorkMismatch: "proof of work mismatch",
}

func (k Kind) String() string {
	if s, exists := kinds[k]; exists {
		return s
	}
	return "unknown"
}

// MarshalText implements the encoding.TextMarshaler interface.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Violation describes the first block found breaking a rule.
type Violation struct {
	Index int    `json:"index"`
	Kind  Kind   `json:"kind"`
	Got   string `json:"got"`
	Exp   string `json:"exp"`
}

// Error implements the error interface.
func (v *Violation) Error() string {
	return fmt.Sprintf("block[%d]: %s: got[%s] exp[%s]", v.Index, v.Kind, v.Got, v.Exp)
}

// =============================================================================

// Validate walks the chain from the genesis block and reports whether every
// block holds its hash, its link to the previous block and its proof of work.
// Checking stops at the first violation, which is returned.
func (s *State) Validate() (bool, *Violation) {
	blocks := s.Blocks()

	s.evHandler("state: Validate: started: blocks[%d]", len(blocks))

	v := validateBlocks(blocks, s.difficulty)
	s.recorder.ChainValidated(v == nil)

	if v != nil {
		s.evHandler("state: Validate: INVALID: %s", v)
		return false, v
	}

	s.evHandler("state: Validate: completed: valid")
	return true, nil
}

// validateBlocks applies the rules to the blocks in order.
func validateBlocks(blocks []database.Block, difficulty uint) *Violation {
	for i, block := range blocks {
		if hash := block.ComputeHash(); block.Hash() != hash {
			return &Violation{Index: i, Kind: HashMismatch, Got: block.Hash(), Exp: hash}
		}

		exp := signature.RootHash
		if i > 0 {
			exp = blocks[i-1].Hash()
		}
		if block.PrevHash() != exp {
			return &Violation{Index: i, Kind: LinkageMismatch, Got: block.PrevHash(), Exp: exp}
		}

		if !database.IsHashSolved(difficulty, block.Hash()) {
			return &Violation{Index: i, Kind: ProofOfWorkMismatch, Got: block.Hash(), Exp: fmt.Sprintf("%d leading zeros", difficulty)}
		}
	}

	return nil
}
