// Package genesis maintains access to the genesis definition.
package genesis

import (
	"encoding/json"
	"os"
)

// Defaults for the genesis block of every chain.
const (
	TimeStamp  = "01/01/2020"
	Data       = "Genesis block"
	PrevHash   = "0"
	Difficulty = 4
)

// Genesis represents the genesis file.
type Genesis struct {
	TimeStamp  string          `json:"timestamp" validate:"required"`
	Data       json.RawMessage `json:"data" validate:"required"`
	Difficulty uint            `json:"difficulty" validate:"lte=64"` // How many leading hex 0's a mined hash needs.
}

// =============================================================================

// Default returns the genesis used when no genesis file is provided.
func Default() Genesis {
	data, _ := json.Marshal(Data)

	return Genesis{
		TimeStamp:  TimeStamp,
		Data:       data,
		Difficulty: Difficulty,
	}
}

// Load opens and consumes the genesis file. Fields missing from the file
// keep their default values.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
