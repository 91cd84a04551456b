// Package cmd contains the admin app commands.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/database"
	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/genesis"
	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/storage/memory"
	"github.com/jlrastrol/simple-blockchain/foundation/logger"
	"github.com/spf13/cobra"
)

var (
	chainPath   string
	genesisPath string
	verbose     bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&chainPath, "file", "f", "zblock/chain.json", "Path to the exported chain document.")
	rootCmd.PersistentFlags().StringVarP(&genesisPath, "genesis", "g", "", "Path to the genesis file the chain was started with.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log the chain events to stderr.")
}

var rootCmd = &cobra.Command{
	Use:          "admin",
	Short:        "Inspect, verify and extend exported chains",
	SilenceUsage: true,
}

// Execute runs the command picked from the command line. An interrupt
// cancels any mining in progress.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

// =============================================================================

// evHandler returns the event handler given to the database. Events are
// only logged in verbose mode.
func evHandler() (func(v string, args ...any), error) {
	if !verbose {
		return func(v string, args ...any) {}, nil
	}

	log, err := logger.New("ADMIN", "stderr")
	if err != nil {
		return nil, err
	}

	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...))
	}
	return ev, nil
}

// readDocument reads and decodes the chain document.
func readDocument(path string) (database.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return database.Document{}, err
	}

	var doc database.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return database.Document{}, fmt.Errorf("decode %s: %w", path, err)
	}

	return doc, nil
}

// writeDocument encodes and writes the chain document.
func writeDocument(path string, doc database.Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// loadDatabase reads the chain document into a database.
func loadDatabase(path string, cfg database.Config) (*database.Database, error) {
	doc, err := readDocument(path)
	if err != nil {
		return nil, err
	}

	ev, err := evHandler()
	if err != nil {
		return nil, err
	}

	gen, err := loadGenesis()
	if err != nil {
		return nil, err
	}

	cfg.Genesis = gen
	cfg.Storage = memory.New()
	cfg.EvHandler = ev

	return database.Load(doc, cfg)
}

// loadGenesis returns the genesis picked with the genesis flag, or the
// default genesis.
func loadGenesis() (genesis.Genesis, error) {
	if genesisPath == "" {
		return genesis.Default(), nil
	}

	gen, err := genesis.Load(genesisPath)
	if err != nil {
		return genesis.Genesis{}, fmt.Errorf("genesis: %w", err)
	}

	return gen, nil
}
