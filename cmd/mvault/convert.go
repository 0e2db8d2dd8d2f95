package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/matrixvault"
)

var convertTo string

var convertCmd = &cobra.Command{
	Use:   "convert <dst>",
	Short: "Re-encode every matrix of --dir into dst with another codec",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if convertTo == "" {
			return fmt.Errorf("--to is required")
		}

		ctx := context.Background()
		arr, err := readDir(ctx, settings.Dir, settings.Format)
		if err != nil {
			return err
		}

		dst, err := matrixvault.New(args[0], settings.options(convertTo)...)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		if err := dst.WriteBatches(ctx, arr, settings.Workers); err != nil {
			return err
		}
		fmt.Printf("Converted %d matrices: %s (%s) -> %s (%s)\n", len(arr), settings.Dir, settings.Format, args[0], convertTo)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(&convertTo, "to", "", "Target codec: text, binary, json or yaml")
}
