package memory_test

import (
	"testing"

	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/database"
	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/storage/memory"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_ReadWrite(t *testing.T) {
	t.Log("Given the need to store blocks in memory.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen writing three blocks.", testID)
		{
			m := memory.New()
			for i := range 3 {
				if err := m.Write(database.BlockData{Number: uint64(i), TimeStamp: "ts"}); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to write block %d: %v", failed, testID, i, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould be able to write the blocks.", success, testID)

			blockData, err := m.GetBlock(2)
			if err != nil || blockData.Number != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould be able to get block 2: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to get block 2.", success, testID)

			if _, err := m.GetBlock(3); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould not be able to get block 3.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not be able to get block 3.", success, testID)

			var numbers []uint64
			iter := m.ForEach()
			for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to iterate: %v", failed, testID, err)
				}
				numbers = append(numbers, blockData.Number)
			}

			if len(numbers) != 3 || numbers[0] != 0 || numbers[2] != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould iterate the blocks in order, got %v.", failed, testID, numbers)
			}
			t.Logf("\t%s\tTest %d:\tShould iterate the blocks in order.", success, testID)

			if _, err := iter.Next(); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould get an error past the end of the chain.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get an error past the end of the chain.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the storage is empty.", testID)
		{
			iter := memory.New().ForEach()
			iter.Next()
			if !iter.Done() {
				t.Fatalf("\t%s\tTest %d:\tShould be done right away.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould be done right away.", success, testID)
		}
	}
}
