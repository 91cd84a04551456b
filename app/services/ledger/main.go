// This program builds a chain, mines the demo blocks into it and exports
// the result as a JSON document.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/google/uuid"
	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/database"
	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/genesis"
	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/storage/memory"
	"github.com/jlrastrol/simple-blockchain/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("LEDGER")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Chain struct {
			Difficulty  int           `conf:"default:-1,help:leading zeros a mined hash needs; -1 keeps the genesis difficulty"`
			MaxAttempts uint64        `conf:"default:0"`
			StrictIndex bool          `conf:"default:false"`
			MineTimeout time.Duration `conf:"default:0s"`
			GenesisPath string
		}
		Output struct {
			Path string `conf:"default:zblock/chain.json"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "simple proof of work ledger",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "LEDGER"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Blockchain Support

	gen, err := loadGenesis(cfg.Chain.GenesisPath, cfg.Chain.Difficulty)
	if err != nil {
		return fmt.Errorf("loading genesis: %w", err)
	}

	// The blockchain packages accept a function of this signature to allow the
	// application to log. Every message of this run carries the same trace id.
	traceID := uuid.NewString()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", traceID)
	}

	db, err := database.New(database.Config{
		Genesis:     gen,
		Storage:     memory.New(),
		MaxAttempts: cfg.Chain.MaxAttempts,
		StrictIndex: cfg.Chain.StrictIndex,
		EvHandler:   ev,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	// =========================================================================
	// Mining

	// An interrupt or terminate signal from the OS cancels any mining
	// in progress.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Chain.MineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Chain.MineTimeout)
		defer cancel()
	}

	for _, tr := range demoTransfers() {
		b, err := database.NewBlock(tr.index, tr.timeStamp, tr.transfer)
		if err != nil {
			return err
		}

		block, err := db.Append(ctx, b)
		if err != nil {
			return fmt.Errorf("append blk[%d]: %w", tr.index, err)
		}
		log.Infow("mining", "status", "block appended", "block", block.String(), "traceid", traceID)
	}

	// =========================================================================
	// Export

	if err := export(cfg.Output.Path, db.Document()); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	log.Infow("export", "status", "chain written", "path", cfg.Output.Path, "blocks", len(db.Blocks()))

	if err := db.Validate(); err != nil {
		log.Infow("validate", "valid", false, "reason", err.Error(), "traceid", traceID)
		return nil
	}
	log.Infow("validate", "valid", true, "traceid", traceID)

	return nil
}

// export writes the document as indented JSON. A path of "-" writes
// to stdout.
func export(path string, doc database.Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// loadGenesis returns the genesis file at the path, or the default genesis
// when no path is set. A difficulty of 0 or more replaces the one in the
// genesis, a negative difficulty keeps it.
func loadGenesis(path string, difficulty int) (genesis.Genesis, error) {
	gen := genesis.Default()
	if path != "" {
		var err error
		if gen, err = genesis.Load(path); err != nil {
			return genesis.Genesis{}, err
		}
	}

	if difficulty >= 0 {
		gen.Difficulty = uint(difficulty)
	}

	return gen, nil
}
