package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	exportFormat   string
	exportEncoding string
	exportDir      string
)

var exportCmd = &cobra.Command{
	Use:   "export [collection]",
	Short: "Export a collection to its fixed file name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := lookupCollection(args[0])
		if err != nil {
			return err
		}

		file, err := p.Export(cmd.Context(), exportFormat, exportEncoding)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if err := os.MkdirAll(exportDir, 0o755); err != nil {
			return err
		}
		out := filepath.Join(exportDir, file.Name)
		if err := os.WriteFile(out, file.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(file.Data))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "xlsx|csv")
	exportCmd.Flags().StringVar(&exportEncoding, "encoding", "utf8", "csv encoding: utf8|gbk")
	exportCmd.Flags().StringVarP(&exportDir, "output", "o", ".", "output directory")
	rootCmd.AddCommand(exportCmd)
}
