package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Load(t *testing.T) {
	t.Log("Given the need to load a genesis file.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the file only overrides the difficulty.", testID)
		{
			path := filepath.Join(t.TempDir(), "genesis.json")
			if err := os.WriteFile(path, []byte(`{"difficulty": 2}`), 0600); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write the genesis file: %v", failed, testID, err)
			}

			gen, err := genesis.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to load the genesis file: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to load the genesis file.", success, testID)

			if gen.Difficulty != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould get difficulty 2, got %d.", failed, testID, gen.Difficulty)
			}
			t.Logf("\t%s\tTest %d:\tShould get difficulty 2.", success, testID)

			if gen.TimeStamp != genesis.TimeStamp || string(gen.Data) != `"Genesis block"` {
				t.Fatalf("\t%s\tTest %d:\tShould keep the default timestamp and data, got %s %s.", failed, testID, gen.TimeStamp, gen.Data)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the default timestamp and data.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the file does not exist.", testID)
		{
			if _, err := genesis.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould get an error.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get an error.", success, testID)
		}
	}
}
