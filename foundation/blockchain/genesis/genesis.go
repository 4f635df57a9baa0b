// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ardanlabs/powchain/foundation/validate"
)

// DefaultContent is the content of the genesis block when no genesis file
// provides one.
const DefaultContent = "Genesis Block - The beginning of the chain"

// DefaultDifficulty is the difficulty used when no genesis file provides one.
const DefaultDifficulty = 4

// Genesis represents the genesis file.
type Genesis struct {
	Date       time.Time `json:"date"`
	ChainID    uint16    `json:"chain_id"`                             // The chain id represents a unique id for this running instance.
	Difficulty uint      `json:"difficulty" validate:"min=1,max=10"`   // How difficult it needs to be to solve the work problem.
	Content    string    `json:"content" validate:"required,notblank"` // The sentinel content stored in the genesis block.
}

// Default returns the genesis information used when there is no file.
func Default() Genesis {
	return Genesis{
		Date:       time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:    1,
		Difficulty: DefaultDifficulty,
		Content:    DefaultContent,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. If the file does not exist the
// default genesis information is returned.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis: %w", err)
	}

	if err := validate.Check(genesis); err != nil {
		return Genesis{}, fmt.Errorf("validating genesis: %w", err)
	}

	return genesis, nil
}
