package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/genesis"
	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/signature"
)

// UnlinkedHash is the preceding hash of a block that has not been
// appended to a chain yet.
const UnlinkedHash = " "

// =============================================================================

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64 `json:"index"`          // Position of the block in the chain.
	TimeStamp     string `json:"timestamp"`      // Opaque creation tag, only stored and hashed.
	PrevBlockHash string `json:"preceding_hash"` // Hash of the previous block in the chain.
	Nonce         uint64 `json:"nonce"`          // Value identified to solve the hash solution.
}

// Block represents a payload recorded on the chain. A Block is a value, the
// copy stored by the chain can't be changed through the one a caller holds.
type Block struct {
	Header BlockHeader
	data   json.RawMessage
	hash   string
}

// NewBlock constructs an unlinked block for the specified payload. The data
// must be encodable as JSON. It is stored in a canonical form so the same
// logical payload always produces the same hash. The arguments are not
// validated, the chain decides what it accepts.
func NewBlock(number uint64, timeStamp string, data any) (Block, error) {
	raw, err := signature.Canonical(data)
	if err != nil {
		return Block{}, &SerializationError{Err: err}
	}

	b := Block{
		Header: BlockHeader{
			Number:        number,
			TimeStamp:     timeStamp,
			PrevBlockHash: UnlinkedHash,
		},
		data: raw,
	}
	b.hash = b.ComputeHash()

	return b, nil
}

// newGenesisBlock constructs the first block of every chain.
func newGenesisBlock(gen genesis.Genesis) (Block, error) {
	raw, err := signature.Normalize(gen.Data)
	if err != nil {
		return Block{}, &SerializationError{Err: err}
	}

	b := Block{
		Header: BlockHeader{
			TimeStamp:     gen.TimeStamp,
			PrevBlockHash: genesis.PrevHash,
		},
		data: raw,
	}
	b.hash = b.ComputeHash()

	return b, nil
}

// WithPrevHash returns a copy of the block linked to the specified hash.
func (b Block) WithPrevHash(prevHash string) Block {
	b.Header.PrevBlockHash = prevHash
	b.hash = b.ComputeHash()

	return b
}

// Hash returns the hash stored for the block.
func (b Block) Hash() string {
	return b.hash
}

// ComputeHash calculates the hash of the block from its current content.
func (b Block) ComputeHash() string {
	return signature.Hash(struct {
		Number        uint64          `json:"index"`
		PrevBlockHash string          `json:"preceding_hash"`
		TimeStamp     string          `json:"timestamp"`
		Data          json.RawMessage `json:"data"`
		Nonce         uint64          `json:"nonce"`
	}{
		Number:        b.Header.Number,
		PrevBlockHash: b.Header.PrevBlockHash,
		TimeStamp:     b.Header.TimeStamp,
		Data:          b.data,
		Nonce:         b.Header.Nonce,
	})
}

// Data returns a copy of the canonical JSON payload.
func (b Block) Data() json.RawMessage {
	return append(json.RawMessage(nil), b.data...)
}

// DecodeData unmarshals the payload into the specified value.
func (b Block) DecodeData(v any) error {
	return json.Unmarshal(b.data, v)
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("blk[%d]: hash[%s]: prev[%s]: nonce[%d]", b.Header.Number, b.hash, b.Header.PrevBlockHash, b.Header.Nonce)
}

// ValidateBlock checks the block's stored hash against its content and its
// link to the previous block.
func (b Block) ValidateBlock(previousBlock Block, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: validate: blk[%d]: check: block hash matches block content", b.Header.Number)

	if err := b.validateHash(); err != nil {
		return err
	}

	evHandler("database: ValidateBlock: validate: blk[%d]: check: parent hash does match parent block", b.Header.Number)

	if b.Header.PrevBlockHash != previousBlock.hash {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", b.Header.PrevBlockHash, previousBlock.hash)
	}

	return nil
}

// validateGenesis checks the block is the genesis block the chain was
// started with.
func (b Block) validateGenesis(gen genesis.Genesis) error {
	if b.Header.Number != 0 {
		return fmt.Errorf("genesis block number is %d, exp 0", b.Header.Number)
	}

	if b.Header.PrevBlockHash != genesis.PrevHash {
		return fmt.Errorf("genesis preceding hash is %q, exp %q", b.Header.PrevBlockHash, genesis.PrevHash)
	}

	if b.Header.TimeStamp != gen.TimeStamp {
		return fmt.Errorf("genesis timestamp is %q, exp %q", b.Header.TimeStamp, gen.TimeStamp)
	}

	data, err := signature.Normalize(gen.Data)
	if err != nil {
		return fmt.Errorf("genesis data: %w", err)
	}
	if !bytes.Equal(b.data, data) {
		return fmt.Errorf("genesis data is %s, exp %s", b.data, data)
	}

	return b.validateHash()
}

// validateHash checks the stored hash is the hash of the block content.
func (b Block) validateHash() error {
	hash := b.ComputeHash()
	if hash == signature.ZeroHash {
		return errors.New("block content can't be hashed")
	}

	if b.hash != hash {
		return fmt.Errorf("block hash doesn't match block content, got %s, exp %s", b.hash, hash)
	}

	return nil
}

// =============================================================================

// powCheckInterval is how many hashes are tried between checks of the
// context for cancellation.
const powCheckInterval = 1 << 10

// performPOW does the work of mining to find a valid hash for the block.
// Pointer semantics are being used since a nonce is being discovered. A
// maxAttempts of 0 means there is no limit.
func (b *Block) performPOW(ctx context.Context, difficulty uint, maxAttempts uint64, ev func(v string, args ...any)) error {
	ev("database: performPOW: MINING: started: blk[%d]", b.Header.Number)
	defer ev("database: performPOW: MINING: completed: blk[%d]", b.Header.Number)

	// The search starts from a nonce of 0 and walks forward by 1.
	b.Header.Nonce = 0
	b.hash = b.ComputeHash()

	var attempts uint64
	for !isHashSolved(difficulty, b.hash) {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: performPOW: MINING: attempts[%d]", attempts)
		}

		// Did we run out of attempts trying to solve the problem.
		if maxAttempts > 0 && attempts >= maxAttempts {
			ev("database: performPOW: MINING: GAVE UP: attempts[%d]", attempts)
			return fmt.Errorf("blk[%d] after %d attempts: %w", b.Header.Number, attempts, ErrMiningTimeout)
		}

		// Did we get cancelled trying to solve the problem.
		if attempts%powCheckInterval == 0 && ctx.Err() != nil {
			ev("database: performPOW: MINING: CANCELLED")
			return ctx.Err()
		}

		b.Header.Nonce++
		b.hash = b.ComputeHash()
	}

	ev("database: performPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.Header.PrevBlockHash, b.hash)
	ev("database: performPOW: MINING: attempts[%d]", attempts)

	return nil
}

// isHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func isHashSolved(difficulty uint, hash string) bool {
	if len(hash) != 64 || difficulty > 64 {
		return false
	}

	return strings.Count(hash[:difficulty], "0") == int(difficulty)
}
