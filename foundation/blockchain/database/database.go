// Package database handles the block model, the proof of work performed on a
// block and the contract any package storing the chain must implement.
package database

import (
	"encoding/json"
	"strings"
)

// Storage interface represents the behavior required to be implemented by any
// package providing support for storing and reading the blockchain.
type Storage interface {
	Write(blockData BlockData) error
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks in chain order. Once
// the end of the chain is reached, Next returns a zero value and Done
// reports true.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// BlockData represents what is written to storage. Number is the position of
// the block in the chain, starting with 0 for genesis.
type BlockData struct {
	Number     uint64 `json:"number"`
	Hash       string `json:"hash"`
	PrevHash   string `json:"prev_hash"`
	Content    string `json:"content"`
	TimeStamp  int64  `json:"timestamp"`
	Nonce      uint64 `json:"nonce"`
	Difficulty uint   `json:"difficulty"`
}

// NewBlockData constructs the value to write to storage.
func NewBlockData(block Block, number uint64, difficulty uint) BlockData {
	return BlockData{
		Number:     number,
		Hash:       block.hash,
		PrevHash:   block.prevHash,
		Content:    block.content,
		TimeStamp:  block.timeStamp,
		Nonce:      block.nonce,
		Difficulty: difficulty,
	}
}

// ToBlock rebuilds a block from the data read from storage without running
// the proof of work. The stored hash is trusted as-is, it is the job of the
// chain validation to re-derive and check it.
func ToBlock(blockData BlockData) (Block, error) {
	if strings.TrimSpace(blockData.Content) == "" {
		return Block{}, ErrEmptyContent
	}

	if blockData.PrevHash == "" {
		return Block{}, ErrMissingPrevHash
	}

	if blockData.Hash == "" {
		return Block{}, ErrMissingHash
	}

	b := Block{
		hash:      blockData.Hash,
		prevHash:  blockData.PrevHash,
		content:   blockData.Content,
		timeStamp: blockData.TimeStamp,
		nonce:     blockData.Nonce,
		status:    StatusReconstructed,
	}

	return b, nil
}

// =============================================================================

// blockJSON is the interchange projection of a block.
type blockJSON struct {
	Hash      string `json:"hash"`
	PrevHash  string `json:"previousHash"`
	Content   string `json:"data"`
	TimeStamp int64  `json:"timeStamp"`
	Nonce     uint64 `json:"nonce"`
}

// Marshal produces a human readable JSON document of the blocks in the
// order provided. It is used for reporting and plays no part in validation.
func Marshal(blocks []Block) ([]byte, error) {
	out := make([]blockJSON, len(blocks))
	for i, b := range blocks {
		out[i] = blockJSON{
			Hash:      b.hash,
			PrevHash:  b.prevHash,
			Content:   b.content,
			TimeStamp: b.timeStamp,
			Nonce:     b.nonce,
		}
	}

	return json.MarshalIndent(out, "", "  ")
}

// Unmarshal reads a JSON document produced by Marshal back into a set of
// reconstructed blocks.
func Unmarshal(data []byte) ([]Block, error) {
	var in []blockJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}

	blocks := make([]Block, len(in))
	for i, bj := range in {
		b, err := ToBlock(BlockData{
			Number:    uint64(i),
			Hash:      bj.Hash,
			PrevHash:  bj.PrevHash,
			Content:   bj.Content,
			TimeStamp: bj.TimeStamp,
			Nonce:     bj.Nonce,
		})
		if err != nil {
			return nil, err
		}
		blocks[i] = b
	}

	return blocks, nil
}

// ReadAll walks the iterator and returns the blocks in chain order.
func ReadAll(storage Storage) ([]BlockData, error) {
	var blocks []BlockData

	iter := storage.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, blockData)
	}

	return blocks, nil
}
