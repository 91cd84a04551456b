// Package database handles all the lower level support for maintaining the
// blockchain: the blocks, their proof of work and the validation of the
// chain of hashes linking them.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/genesis"
	"github.com/jlrastrol/simple-blockchain/foundation/validate"
)

// Config represents the configuration required to start the database.
type Config struct {
	Genesis     genesis.Genesis
	Storage     Storage
	MaxAttempts uint64 // Mining gives up after this many hashes, 0 means never.
	StrictIndex bool   // Reject blocks that are not the next number in the chain.
	EvHandler   func(v string, args ...any)
}

// Database manages the chain of blocks.
type Database struct {
	appendMu sync.Mutex
	mu       sync.RWMutex

	genesis     genesis.Genesis
	latestBlock Block
	storage     Storage

	maxAttempts uint64
	strictIndex bool
	evHandler   func(v string, args ...any)
}

// New constructs a new database. When the storage is empty, the genesis
// block is written to it. Otherwise the blocks already in storage are taken
// as they are, call Validate to check them.
func New(cfg Config) (*Database, error) {
	if err := validate.Check(cfg.Genesis); err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}

	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	ev := cfg.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	db := Database{
		genesis:     cfg.Genesis,
		storage:     cfg.Storage,
		maxAttempts: cfg.MaxAttempts,
		strictIndex: cfg.StrictIndex,
		evHandler:   ev,
	}

	// Read all the blocks already in storage to find the latest one.
	var found bool
	iter := db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		db.latestBlock = block
		found = true
	}

	if found {
		ev("database: New: restored chain: latest %s", db.latestBlock)
		return &db, nil
	}

	genesisBlock, err := newGenesisBlock(cfg.Genesis)
	if err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}

	if err := db.storage.Write(NewBlockData(genesisBlock)); err != nil {
		return nil, fmt.Errorf("write genesis: %w", err)
	}
	db.latestBlock = genesisBlock

	ev("database: New: genesis %s", genesisBlock)

	return &db, nil
}

// Load constructs a database holding the blocks of the exported document.
// The blocks are restored exactly as exported, nothing is mined again.
// The storage provided in the config must be empty. Every block of the
// document is checked to be readable before the first write, so a document
// that can't be loaded leaves the storage empty. A failing write in the
// storage itself can still leave it partly filled, don't reuse it then.
func Load(doc Document, cfg Config) (*Database, error) {
	if err := validate.Check(doc); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}

	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	if _, err := cfg.Storage.GetBlock(0); err == nil {
		return nil, errors.New("storage is not empty")
	}

	for _, blockData := range doc.Blocks {
		if _, err := ToBlock(blockData); err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
	}

	for _, blockData := range doc.Blocks {
		if err := cfg.Storage.Write(blockData); err != nil {
			return nil, fmt.Errorf("write blk[%d]: %w", blockData.Number, err)
		}
	}

	cfg.Genesis.Difficulty = doc.Difficulty

	return New(cfg)
}

// Close closes the underlying storage.
func (db *Database) Close() error {
	return db.storage.Close()
}

// Difficulty returns the number of leading 0's a mined hash needs.
func (db *Database) Difficulty() uint {
	return db.genesis.Difficulty
}

// LatestBlock returns the latest block. There is always at least the
// genesis block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock
}

// Append links the candidate block to the latest block, mines it and adds
// it to the chain. The candidate is not changed, the block that was stored
// is returned. On error nothing is stored.
func (db *Database) Append(ctx context.Context, candidate Block) (Block, error) {

	// Only one append runs at a time so the latest block can't change
	// while mining. Readers are not blocked by this lock.
	db.appendMu.Lock()
	defer db.appendMu.Unlock()

	latest := db.LatestBlock()

	if db.strictIndex && candidate.Header.Number != latest.Header.Number+1 {
		return Block{}, fmt.Errorf("got %d, exp %d: %w", candidate.Header.Number, latest.Header.Number+1, ErrIndexOutOfSequence)
	}

	block := candidate.WithPrevHash(latest.Hash())

	if err := block.performPOW(ctx, db.genesis.Difficulty, db.maxAttempts, db.evHandler); err != nil {
		return Block{}, fmt.Errorf("mining: %w", err)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.Write(NewBlockData(block)); err != nil {
		return Block{}, fmt.Errorf("write %s: %w", block, err)
	}
	db.latestBlock = block

	db.evHandler("database: Append: stored %s", block)

	return block, nil
}

// ForEach returns an iterator to walk through all the blocks
// starting with the genesis block.
func (db *Database) ForEach() DatabaseIterator {
	return DatabaseIterator{iterator: db.storage.ForEach()}
}

// GetBlock returns the block at the specified position.
func (db *Database) GetBlock(num uint64) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blockData, err := db.storage.GetBlock(num)
	if err != nil {
		return Block{}, err
	}

	return ToBlock(blockData)
}

// Blocks returns a copy of the chain in order. The walk stops at the first
// block that can't be read, Validate reports that block.
func (db *Database) Blocks() []Block {
	blocks, _ := db.readBlocks()
	return blocks
}

// Document returns the chain in its exportable form. The blocks are
// exported as stored.
func (db *Database) Document() Document {
	db.mu.RLock()
	defer db.mu.RUnlock()

	doc := Document{
		Difficulty: db.genesis.Difficulty,
	}

	iter := db.storage.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			break
		}
		doc.Blocks = append(doc.Blocks, blockData)
	}

	return doc
}

// readBlocks walks storage returning the blocks in order. A block that
// can't be read is returned as a *ValidationError at its position.
func (db *Database) readBlocks() ([]Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var blocks []Block
	iter := db.storage.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return blocks, err
		}

		block, err := ToBlock(blockData)
		if err != nil {
			return blocks, &ValidationError{Index: len(blocks), Reason: err.Error()}
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// =============================================================================

// Validate walks the chain checking every stored hash against the content
// of its block and against the preceding hash of the next block. The first
// block must be the genesis block the database was configured with. The
// first problem found is returned as a *ValidationError. The proof of work
// of the stored blocks is not checked, see ValidateWork.
func (db *Database) Validate() error {
	blocks, err := db.readBlocks()
	if err != nil {
		return err
	}

	if len(blocks) == 0 {
		return &ValidationError{Index: 0, Reason: "chain is empty"}
	}

	if err := blocks[0].validateGenesis(db.genesis); err != nil {
		return &ValidationError{Index: 0, Reason: err.Error()}
	}

	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(blocks[i-1], db.evHandler); err != nil {
			return &ValidationError{Index: i, Reason: err.Error()}
		}
	}

	return nil
}

// IsValid reports if the chain passes Validate.
func (db *Database) IsValid() bool {
	return db.Validate() == nil
}

// ValidateWork checks that the hash of every block after genesis solves
// the proof of work at the chain difficulty.
func (db *Database) ValidateWork() error {
	blocks, err := db.readBlocks()
	if err != nil {
		return err
	}

	for i := 1; i < len(blocks); i++ {
		if !isHashSolved(db.genesis.Difficulty, blocks[i].Hash()) {
			return &ValidationError{Index: i, Reason: fmt.Sprintf("hash %s does not solve difficulty %d", blocks[i].Hash(), db.genesis.Difficulty)}
		}
	}

	return nil
}
