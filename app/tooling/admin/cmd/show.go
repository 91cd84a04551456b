package cmd

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the blocks of the chain as a table",
	RunE:  showRun,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func showRun(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(chainPath)
	if err != nil {
		return err
	}

	pterm.Info.Printfln("%s: difficulty %d", chainPath, doc.Difficulty)

	data := pterm.TableData{
		{"Index", "Timestamp", "Data", "Preceding Hash", "Hash", "Nonce"},
	}
	for _, blk := range doc.Blocks {
		row := []string{
			strconv.FormatUint(blk.Number, 10),
			blk.TimeStamp,
			string(blk.Data),
			blk.PrevBlockHash,
			blk.Hash,
			strconv.FormatUint(blk.Nonce, 10),
		}
		data = append(data, row)
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
