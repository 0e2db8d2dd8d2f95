package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/matrixvault"
	"github.com/aretw0/matrixvault/pkg/core"
)

var readJSON bool

type matrixOutput struct {
	Index  int         `json:"index"`
	Rows   int         `json:"rows"`
	Cols   int         `json:"cols"`
	Values [][]float64 `json:"values"`
}

var readCmd = &cobra.Command{
	Use:   "read [index]",
	Short: "Print one matrix, or every matrix in index order",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		repo, err := matrixvault.Open(settings.Dir, settings.options(settings.Format, matrixvault.WithReadOnly(true))...)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", settings.Dir, err)
		}

		var out []matrixOutput
		if len(args) == 1 {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			m, err := repo.Get(ctx, index)
			if err != nil {
				return err
			}
			out = append(out, toOutput(index, m))
		} else {
			entries, err := repo.List(ctx)
			if err != nil {
				return err
			}
			for _, e := range entries {
				m, err := repo.Get(ctx, e.Index)
				if err != nil {
					return err
				}
				out = append(out, toOutput(e.Index, m))
			}
		}

		if readJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(out)
		}
		for _, o := range out {
			m := core.MustNew(o.Values)
			fmt.Printf("# %d (%dx%d)\n%s", o.Index, o.Rows, o.Cols, m)
		}
		return nil
	},
}

func toOutput(index int, m *core.Matrix) matrixOutput {
	return matrixOutput{Index: index, Rows: m.Rows(), Cols: m.Cols(), Values: m.Values()}
}

func init() {
	rootCmd.AddCommand(readCmd)
	readCmd.Flags().BoolVar(&readJSON, "json", false, "Output in JSON format")
}
