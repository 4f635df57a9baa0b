package memory_test

import (
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/storagetest"
)

func Test_Memory(t *testing.T) {
	m, err := memory.New()
	if err != nil {
		t.Fatalf("Should be able to construct memory storage: %v", err)
	}
	defer m.Close()

	storagetest.Run(t, m)
}

func Test_MemoryOutOfOrder(t *testing.T) {
	m, _ := memory.New()

	blocks := storagetest.Blocks(2)
	if err := m.Write(blocks[1]); err == nil {
		t.Fatalf("Should not be able to write block 1 before genesis.")
	}
}

func Test_MemoryUpdate(t *testing.T) {
	m, _ := memory.New()

	blocks := storagetest.Blocks(2)
	for _, bd := range blocks {
		if err := m.Write(bd); err != nil {
			t.Fatalf("Should be able to write block: %v", err)
		}
	}

	bd := blocks[1]
	bd.Content = "tampered"
	if err := m.Update(bd); err != nil {
		t.Fatalf("Should be able to update block: %v", err)
	}

	got, _ := m.GetBlock(1)
	if got.Content != "tampered" {
		t.Fatalf("Should get the updated block, got %q.", got.Content)
	}

	bd.Number = 5
	if err := m.Update(bd); err == nil {
		t.Fatalf("Should not be able to update a missing block.")
	}
}
