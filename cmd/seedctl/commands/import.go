package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"seedbreed/internal/service"

	"github.com/spf13/cobra"
)

var importEncoding string

var importCmd = &cobra.Command{
	Use:   "import [collection] [file]",
	Short: "Import an .xlsx or .csv file into a collection",
	Long: `Append every row of the file to the collection with freshly generated keys.
Collections: introductions, purifications, sowings, test-records, seed-inventory.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := lookupCollection(args[0])
		if err != nil {
			return err
		}

		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[1], err)
		}
		defer f.Close()

		n, err := p.Import(cmd.Context(), filepath.Base(args[1]), f, importEncoding)
		if err != nil {
			if w, ok := service.AsWarning(err); ok {
				return errors.New(w.Message)
			}
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d records into %s\n", n, args[0])
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importEncoding, "encoding", "utf8", "csv encoding: utf8|gbk")
	rootCmd.AddCommand(importCmd)
}
