package storage_test

import (
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/storage"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/storagetest"
)

func Test_Open(t *testing.T) {
	for _, kind := range storage.Kinds {
		f := func(t *testing.T) {
			strg, err := storage.Open(storage.Config{Kind: kind, Path: t.TempDir()})
			if err != nil {
				t.Fatalf("Should be able to open %s storage: %v", kind, err)
			}
			defer strg.Close()

			storagetest.Run(t, strg)
		}

		t.Run(kind, f)
	}

	if _, err := storage.Open(storage.Config{Kind: "tape"}); err == nil {
		t.Fatalf("Should not open an unknown storage kind.")
	}
}
