package badger_test

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/badger"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/storagetest"
)

func Test_BadgerInMemory(t *testing.T) {
	b, err := badger.New(badger.Config{InMemory: true})
	if err != nil {
		t.Fatalf("Should be able to open badger: %v", err)
	}
	defer b.Close()

	storagetest.Run(t, b)
}

func Test_BadgerReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badger")

	b, err := badger.New(badger.Config{Path: path, SyncWrites: true})
	if err != nil {
		t.Fatalf("Should be able to open badger: %v", err)
	}

	exp := storagetest.Blocks(4)
	for _, bd := range exp {
		if err := b.Write(bd); err != nil {
			t.Fatalf("Should be able to write block: %v", err)
		}
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Should be able to close badger: %v", err)
	}

	b, err = badger.New(badger.Config{Path: path})
	if err != nil {
		t.Fatalf("Should be able to reopen badger: %v", err)
	}
	defer b.Close()

	got, err := database.ReadAll(b)
	if err != nil {
		t.Fatalf("Should be able to read blocks: %v", err)
	}

	if len(got) != len(exp) || got[3] != exp[3] {
		t.Fatalf("Should get back the blocks written before closing, got %d blocks.", len(got))
	}
}
