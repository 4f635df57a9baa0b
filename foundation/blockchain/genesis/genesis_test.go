package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/validate"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Load(t *testing.T) {
	t.Log("Given the need to load the genesis file.")
	{
		dir := t.TempDir()

		testID := 0
		t.Logf("\tTest %d:\tWhen the file does not exist.", testID)
		{
			g, err := genesis.Load(filepath.Join(dir, "missing.json"))
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould fall back to the default: %v", failed, testID, err)
			}
			if g != genesis.Default() {
				t.Fatalf("\t%s\tTest %d:\tShould get the default genesis, got %+v.", failed, testID, g)
			}
			t.Logf("\t%s\tTest %d:\tShould get the default genesis.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the file is valid.", testID)
		{
			path := filepath.Join(dir, "genesis.json")
			data := `{"date":"2024-01-01T00:00:00Z","chain_id":7,"difficulty":2,"content":"hello"}`
			if err := os.WriteFile(path, []byte(data), 0600); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
			}

			g, err := genesis.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to load the file: %v", failed, testID, err)
			}
			if g.ChainID != 7 || g.Difficulty != 2 || g.Content != "hello" {
				t.Fatalf("\t%s\tTest %d:\tShould get the file values, got %+v.", failed, testID, g)
			}
			t.Logf("\t%s\tTest %d:\tShould get the file values.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the file fails validation.", testID)
		{
			path := filepath.Join(dir, "bad.json")
			data := `{"difficulty":11,"content":"   "}`
			if err := os.WriteFile(path, []byte(data), 0600); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
			}

			_, err := genesis.Load(path)
			if !validate.IsFieldErrors(err) {
				t.Fatalf("\t%s\tTest %d:\tShould get field errors, got %v.", failed, testID, err)
			}

			fields := validate.GetFieldErrors(err).Fields()
			if _, exists := fields["difficulty"]; !exists {
				t.Fatalf("\t%s\tTest %d:\tShould flag the difficulty, got %v.", failed, testID, fields)
			}
			if _, exists := fields["content"]; !exists {
				t.Fatalf("\t%s\tTest %d:\tShould flag the content, got %v.", failed, testID, fields)
			}
			t.Logf("\t%s\tTest %d:\tShould get field errors.", success, testID)
		}
	}
}
