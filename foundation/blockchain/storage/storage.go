// Package storage opens the storage backend the chain is persisted in.
package storage

import (
	"fmt"
	"path/filepath"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/badger"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/bolt"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/powchain/foundation/blockchain/storage/memory"
)

// Set of supported storage kinds.
const (
	KindMemory = "memory"
	KindDisk   = "disk"
	KindBadger = "badger"
	KindBolt   = "bolt"
)

// Kinds lists the supported storage kinds.
var Kinds = []string{KindMemory, KindDisk, KindBadger, KindBolt}

// Config represents the settings for opening storage.
type Config struct {
	Kind string
	Path string
}

// Open constructs the storage backend for the specified kind. The path is
// a directory for disk and badger and a file for bolt.
func Open(cfg Config) (database.Storage, error) {
	switch cfg.Kind {
	case KindMemory:
		return memory.New()

	case KindDisk:
		return disk.New(cfg.Path)

	case KindBadger:
		return badger.New(badger.Config{Path: cfg.Path, SyncWrites: true})

	case KindBolt:
		path := cfg.Path
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "blocks.db")
		}
		return bolt.New(path)
	}

	return nil, fmt.Errorf("unknown storage kind %q, expecting one of %v", cfg.Kind, Kinds)
}
