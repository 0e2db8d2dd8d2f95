package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	settings   config
)

var rootCmd = &cobra.Command{
	Use:   "mvault",
	Short: "Store matrices as one file per index",
	Long: `mvault writes, reads, compares and converts directories of matrices.
Each matrix lives in its own file (matrix0.txt, matrix1.txt, ...) encoded as
text, binary, JSON or YAML. Settings come from matrixvault.yaml and flags.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		settings = cfg.merge(cmd.Flags())
		return nil
	},
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&configPath, "config", "", "Path to matrixvault.yaml (default: search upwards from the working directory)")
	flags.StringP("dir", "d", ".", "Matrix directory")
	flags.StringP("format", "f", "text", "Codec: text, binary, json or yaml")
	flags.String("prefix", "matrix", "File name prefix")
	flags.String("extension", "", "File extension (default: the codec's)")
	flags.IntP("workers", "w", 4, "Concurrent workers for batch operations")
	flags.Bool("atomic", true, "Write through a temp file and rename")
	flags.Bool("lenient", false, "Ignore extra entries in long JSON/YAML rows")
}
