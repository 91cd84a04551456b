package database

import (
	"encoding/json"
	"fmt"

	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/signature"
)

// BlockData represents what is written to storage and exported for a block.
type BlockData struct {
	Number        uint64          `json:"index"`
	TimeStamp     string          `json:"timestamp" validate:"required"`
	Data          json.RawMessage `json:"data" validate:"required"`
	PrevBlockHash string          `json:"preceding_hash" validate:"required"`
	Hash          string          `json:"hash" validate:"required,len=64,hexadecimal"`
	Nonce         uint64          `json:"nonce"`
}

// NewBlockData constructs the value to store or export.
func NewBlockData(block Block) BlockData {
	return BlockData{
		Number:        block.Header.Number,
		TimeStamp:     block.Header.TimeStamp,
		Data:          block.Data(),
		PrevBlockHash: block.Header.PrevBlockHash,
		Hash:          block.hash,
		Nonce:         block.Header.Nonce,
	}
}

// ToBlock converts a BlockData into a Block. The stored hash is kept as is
// so tampered data stays detectable. The payload is brought back into its
// canonical form since exported documents may be re-indented. A payload
// that is not valid JSON can't be hashed and is rejected.
func ToBlock(blockData BlockData) (Block, error) {
	data, err := signature.Normalize(blockData.Data)
	if err != nil {
		return Block{}, &SerializationError{Err: fmt.Errorf("blk[%d]: %w", blockData.Number, err)}
	}

	nb := Block{
		Header: BlockHeader{
			Number:        blockData.Number,
			TimeStamp:     blockData.TimeStamp,
			PrevBlockHash: blockData.PrevBlockHash,
			Nonce:         blockData.Nonce,
		},
		data: data,
		hash: blockData.Hash,
	}

	return nb, nil
}

// =============================================================================

// Document is the structured form of a whole chain, blocks in chain order.
type Document struct {
	Difficulty uint        `json:"difficulty" validate:"lte=64"`
	Blocks     []BlockData `json:"blocks" validate:"required,min=1,dive"`
}
