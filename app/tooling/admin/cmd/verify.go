package cmd

import (
	"errors"

	"github.com/jlrastrol/simple-blockchain/foundation/blockchain/database"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var checkWork bool

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the hashes and links of every block in the chain",
	RunE:  verifyRun,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().BoolVarP(&checkWork, "work", "w", false, "Also check every block hash solves the chain difficulty.")
}

func verifyRun(cmd *cobra.Command, args []string) error {
	db, err := loadDatabase(chainPath, database.Config{})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Validate(); err != nil {
		pterm.Error.Printfln("%s: chain is not valid: %s", chainPath, err)
		return errors.New("chain is not valid")
	}

	if checkWork {
		if err := db.ValidateWork(); err != nil {
			pterm.Error.Printfln("%s: proof of work not satisfied: %s", chainPath, err)
			return errors.New("proof of work not satisfied")
		}
	}

	pterm.Success.Printfln("%s: chain of %d blocks is valid", chainPath, len(db.Blocks()))
	return nil
}
