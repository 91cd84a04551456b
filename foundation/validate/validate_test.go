package validate_test

import (
	"strings"
	"testing"

	"github.com/jlrastrol/simple-blockchain/foundation/validate"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type entry struct {
	Name  string `json:"name" validate:"required"`
	Level uint   `json:"level" validate:"lte=64"`
}

func Test_Check(t *testing.T) {
	t.Log("Given the need to validate a model.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the model is valid.", testID)
		{
			if err := validate.Check(entry{Name: "bill", Level: 4}); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould not get an error: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould not get an error.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the model is missing fields.", testID)
		{
			err := validate.Check(entry{Level: 65})
			if !validate.IsFieldErrors(err) {
				t.Fatalf("\t%s\tTest %d:\tShould get field errors: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get field errors.", success, testID)

			fields := validate.GetFieldErrors(err).Fields()
			if len(fields) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould get two field errors, got %d.", failed, testID, len(fields))
			}
			t.Logf("\t%s\tTest %d:\tShould get two field errors.", success, testID)

			for field := range fields {
				if !strings.HasSuffix(field, ".name") && !strings.HasSuffix(field, ".level") {
					t.Fatalf("\t%s\tTest %d:\tShould name fields by their json tag, got %s.", failed, testID, field)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould name fields by their json tag.", success, testID)
		}
	}
}
