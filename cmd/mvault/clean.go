package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/matrixvault"
)

var cleanYes bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete the matrix directory and everything in it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cleanYes {
			return fmt.Errorf("refusing to delete %s without --yes", settings.Dir)
		}
		repo, err := matrixvault.Open(settings.Dir, settings.options(settings.Format, matrixvault.WithMustExist(true))...)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", settings.Dir, err)
		}
		if err := repo.Teardown(context.Background()); err != nil {
			return err
		}
		fmt.Println("Removed", settings.Dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Confirm deletion")
}
