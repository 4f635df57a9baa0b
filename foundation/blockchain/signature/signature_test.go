package signature_test

import (
	"sync"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/signature"
)

// =============================================================================

func Test_Hash(t *testing.T) {
	tt := []struct {
		name  string
		value string
		hash  string
	}{
		{
			name:  "empty",
			value: "",
			hash:  "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:  "hello",
			value: "hello",
			hash:  "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			h := signature.HashString(tst.value)
			if h != tst.hash {
				t.Logf("got: %s", h)
				t.Logf("exp: %s", tst.hash)
				t.Fatalf("Should get back the right hash.")
			}

			h = signature.Hash([]byte(tst.value))
			if h != tst.hash {
				t.Logf("got: %s", h)
				t.Logf("exp: %s", tst.hash)
				t.Fatalf("Should get back the same hash twice.")
			}

			if !signature.IsHash(h) {
				t.Fatalf("Should recognize the digest as a hash: %s", h)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_HashConcurrent(t *testing.T) {
	const exp = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

	var wg sync.WaitGroup
	errs := make(chan string, 64)

	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				if h := signature.HashString("hello"); h != exp {
					errs <- h
					return
				}
			}
		}()
	}

	wg.Wait()
	close(errs)

	for h := range errs {
		t.Fatalf("Should get the same hash from every goroutine, got %s", h)
	}
}

func Test_IsHash(t *testing.T) {
	tt := []struct {
		value string
		exp   bool
	}{
		{signature.RootHash, false},
		{"", false},
		{"2CF24DBA5FB0A30E26E83B2AC5B9E29E1B161E5C1FA7425E73043362938B9824", false},
		{"0x2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b98", false},
		{"2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", true},
	}

	for _, tst := range tt {
		if got := signature.IsHash(tst.value); got != tst.exp {
			t.Errorf("Should get %v for %q, got %v", tst.exp, tst.value, got)
		}
	}
}
