package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/matrixvault"
	lifecycleadapter "github.com/aretw0/matrixvault/pkg/adapters/lifecycle"
	"github.com/aretw0/matrixvault/pkg/core"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print matrix file changes until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		repo, err := matrixvault.Open(settings.Dir, settings.options(settings.Format, matrixvault.WithMustExist(true))...)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", settings.Dir, err)
		}
		watchable, ok := repo.(core.Watchable)
		if !ok {
			return fmt.Errorf("repository does not support watching")
		}
		events, err := watchable.Watch(ctx)
		if err != nil {
			return err
		}

		source := lifecycleadapter.NewSource(events, slog.Default())
		if err := source.Start(ctx); err != nil {
			return err
		}

		fmt.Printf("Watching %s (Ctrl+C to stop)\n", settings.Dir)
		for e := range source.Events() {
			fmt.Println(e.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
