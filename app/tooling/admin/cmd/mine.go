package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/database"
	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/genesis"
	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/storage/memory"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	mineIndex       int64
	mineTimeStamp   string
	mineData        string
	mineDifficulty  uint
	mineMaxAttempts uint64
	mineTimeout     time.Duration
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine a new block onto the chain, starting a new chain if the file does not exist",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
	mineCmd.Flags().Int64VarP(&mineIndex, "index", "i", -1, "Index of the new block, -1 uses the next index.")
	mineCmd.Flags().StringVarP(&mineTimeStamp, "timestamp", "t", "", "Timestamp of the new block, defaults to now.")
	mineCmd.Flags().StringVarP(&mineData, "data", "d", "", "Payload of the new block, JSON or plain text.")
	mineCmd.Flags().UintVar(&mineDifficulty, "difficulty", genesis.Difficulty, "Difficulty used when starting a new chain.")
	mineCmd.Flags().Uint64Var(&mineMaxAttempts, "max-attempts", 0, "Give up after this many hashes, 0 means never.")
	mineCmd.Flags().DurationVar(&mineTimeout, "timeout", 0, "Give up after this long, 0 means never.")
	mineCmd.MarkFlagRequired("data")
}

func mineRun(cmd *cobra.Command, args []string) error {
	cfg := database.Config{
		MaxAttempts: mineMaxAttempts,
		StrictIndex: mineIndex >= 0,
	}

	db, err := loadDatabase(chainPath, cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		db, err = newDatabase(cfg)
		if err != nil {
			return err
		}
		pterm.Info.Printfln("%s: starting a new chain at difficulty %d", chainPath, mineDifficulty)

	case err != nil:
		return err
	}
	defer db.Close()

	index := uint64(mineIndex)
	if mineIndex < 0 {
		index = db.LatestBlock().Header.Number + 1
	}

	timeStamp := mineTimeStamp
	if timeStamp == "" {
		timeStamp = time.Now().UTC().Format(time.RFC3339)
	}

	var data any = mineData
	if json.Valid([]byte(mineData)) {
		data = json.RawMessage(mineData)
	}

	candidate, err := database.NewBlock(index, timeStamp, data)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if mineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, mineTimeout)
		defer cancel()
	}

	spinner, _ := pterm.DefaultSpinner.Start("mining block ", index)
	block, err := db.Append(ctx, candidate)
	if err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Success(block.String())

	return writeDocument(chainPath, db.Document())
}

// newDatabase starts a new chain at the requested difficulty.
func newDatabase(cfg database.Config) (*database.Database, error) {
	ev, err := evHandler()
	if err != nil {
		return nil, err
	}

	gen, err := loadGenesis()
	if err != nil {
		return nil, err
	}

	cfg.Genesis = gen
	cfg.Genesis.Difficulty = mineDifficulty
	cfg.Storage = memory.New()
	cfg.EvHandler = ev

	return database.New(cfg)
}
