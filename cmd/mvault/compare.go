package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/matrixvault"
)

var compareFormatB string

var compareCmd = &cobra.Command{
	Use:   "compare <dirA> <dirB>",
	Short: "Check that two directories hold equal matrix arrays",
	Long: `Read both directories in index order and compare the arrays element by
element. The second directory may use another codec (--format-b).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		formatB := compareFormatB
		if formatB == "" {
			formatB = settings.Format
		}

		ctx := context.Background()
		a, err := readDir(ctx, args[0], settings.Format)
		if err != nil {
			return err
		}
		b, err := readDir(ctx, args[1], formatB)
		if err != nil {
			return err
		}

		if !matrixvault.CompareArrays(a, b) {
			return fmt.Errorf("arrays differ (%d vs %d matrices)", len(a), len(b))
		}
		fmt.Printf("Equal: %d matrices\n", len(a))
		return nil
	},
}

func readDir(ctx context.Context, dir, format string) ([]*matrixvault.Matrix, error) {
	svc, err := matrixvault.New(dir, settings.options(format, matrixvault.WithReadOnly(true), matrixvault.WithMustExist(true))...)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dir, err)
	}
	return svc.ReadBatches(ctx, settings.Workers)
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVar(&compareFormatB, "format-b", "", "Codec of the second directory (default: --format)")
}
