// Package storagetest provides a conformance suite that every implementation
// of the database.Storage interface is expected to pass.
package storagetest

import (
	"fmt"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// Blocks returns a set of linked block records for writing to storage.
func Blocks(n int) []database.BlockData {
	blocks := make([]database.BlockData, n)

	prev := signature.RootHash
	for i := range blocks {
		content := fmt.Sprintf("block %d", i)
		hash := signature.HashString(prev + content)

		blocks[i] = database.BlockData{
			Number:     uint64(i),
			Hash:       hash,
			PrevHash:   prev,
			Content:    content,
			TimeStamp:  int64(1_700_000_000_000 + i),
			Nonce:      uint64(i * 10),
			Difficulty: 2,
		}
		prev = hash
	}

	return blocks
}

// Run executes the conformance suite against a freshly opened, empty store.
func Run(t *testing.T, storage database.Storage) {
	t.Helper()

	t.Log("Given the need to store and load a chain.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the store is empty.", testID)
		{
			blocks, err := database.ReadAll(storage)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read an empty store: %v", failed, testID, err)
			}
			if len(blocks) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould get no blocks, got %d.", failed, testID, len(blocks))
			}
			t.Logf("\t%s\tTest %d:\tShould get no blocks.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen writing blocks in order.", testID)
		{
			exp := Blocks(3)
			for _, bd := range exp {
				if err := storage.Write(bd); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to write block %d: %v", failed, testID, bd.Number, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould be able to write blocks.", success, testID)

			got, err := database.ReadAll(storage)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read blocks: %v", failed, testID, err)
			}
			if len(got) != len(exp) {
				t.Fatalf("\t%s\tTest %d:\tShould get %d blocks, got %d.", failed, testID, len(exp), len(got))
			}
			for i := range exp {
				if got[i] != exp[i] {
					t.Logf("\t%s\tTest %d:\tgot: %+v", failed, testID, got[i])
					t.Logf("\t%s\tTest %d:\texp: %+v", failed, testID, exp[i])
					t.Fatalf("\t%s\tTest %d:\tShould get block %d back unchanged.", failed, testID, i)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould get the blocks back in chain order.", success, testID)

			if err := storage.Write(exp[1]); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould not be able to write block %d twice.", failed, testID, exp[1].Number)
			}
			t.Logf("\t%s\tTest %d:\tShould not be able to write a block twice.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen resetting the store.", testID)
		{
			if err := storage.Reset(); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to reset: %v", failed, testID, err)
			}

			blocks, err := database.ReadAll(storage)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to read after reset: %v", failed, testID, err)
			}
			if len(blocks) != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould get no blocks after reset, got %d.", failed, testID, len(blocks))
			}
			t.Logf("\t%s\tTest %d:\tShould get no blocks after reset.", success, testID)

			if err := storage.Write(Blocks(1)[0]); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write genesis after reset: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to write genesis after reset.", success, testID)
		}
	}
}
