package chaingrp

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/validate"
)

type block struct {
	Index     int    `json:"index"`
	Hash      string `json:"hash"`
	PrevHash  string `json:"prev_hash"`
	Content   string `json:"content"`
	TimeStamp int64  `json:"timestamp"`
	Nonce     uint64 `json:"nonce"`
	Status    string `json:"status"`
}

func toBlock(index int, b database.Block) block {
	return block{
		Index:     index,
		Hash:      b.Hash(),
		PrevHash:  b.PrevHash(),
		Content:   b.Content(),
		TimeStamp: b.TimeStamp(),
		Nonce:     b.Nonce(),
		Status:    b.Status().String(),
	}
}

func toBlocks(blocks []database.Block, from int) []block {
	out := make([]block, len(blocks))
	for i, b := range blocks {
		out[i] = toBlock(from+i, b)
	}
	return out
}

// NewBlock is what we require from clients when appending a block.
type NewBlock struct {
	Content string `json:"content" validate:"required,notblank"`
}

// Validate checks the data in the model is considered clean.
func (nb NewBlock) Validate() error {
	return validate.Check(nb)
}

type validation struct {
	Valid     bool             `json:"valid"`
	Blocks    int              `json:"blocks"`
	Violation *state.Violation `json:"violation,omitempty"`
}
