package validate_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ardanlabs/powchain/foundation/validate"
)

type model struct {
	Content    string `json:"content" validate:"required,notblank"`
	Difficulty uint   `json:"difficulty" validate:"min=1,max=10"`
}

func Test_Check(t *testing.T) {
	tt := []struct {
		name   string
		model  model
		fields []string
	}{
		{name: "valid", model: model{Content: "data", Difficulty: 4}},
		{name: "blank", model: model{Content: "   ", Difficulty: 4}, fields: []string{"content"}},
		{name: "empty", model: model{Content: "", Difficulty: 4}, fields: []string{"content"}},
		{name: "low", model: model{Content: "data", Difficulty: 0}, fields: []string{"difficulty"}},
		{name: "both", model: model{Difficulty: 11}, fields: []string{"content", "difficulty"}},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			err := validate.Check(tst.model)
			if len(tst.fields) == 0 {
				if err != nil {
					t.Fatalf("Should be able to validate the model: %v", err)
				}
				return
			}

			if !validate.IsFieldErrors(err) {
				t.Fatalf("Should get field errors, got %v", err)
			}

			fields := validate.GetFieldErrors(fmt.Errorf("wrapped: %w", err)).Fields()
			if len(fields) != len(tst.fields) {
				t.Fatalf("Should get %d field errors, got %v", len(tst.fields), fields)
			}
			for _, name := range tst.fields {
				if _, exists := fields[name]; !exists {
					t.Fatalf("Should get an error for field %q, got %v", name, fields)
				}
			}
		}

		t.Run(tst.name, f)
	}

	if validate.IsFieldErrors(errors.New("plain")) {
		t.Fatalf("Should not treat a plain error as field errors.")
	}
}
