package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/matrixvault"
	"github.com/aretw0/matrixvault/pkg/core"
)

func main() {
	count := flag.Int("count", 50, "Matrices per batch")
	rows := flag.Int("rows", 500, "Rows of A (columns of B)")
	cols := flag.Int("cols", 100, "Columns of A (rows of B)")
	seed := flag.Int64("seed", 1, "Random seed")
	keep := flag.Bool("keep", false, "Keep the benchmark directory after running")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	benchDir, err := os.MkdirTemp("", "mvault_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	rng := rand.New(rand.NewSource(*seed))
	a := make([]*core.Matrix, *count)
	b := make([]*core.Matrix, *count)
	for i := range a {
		a[i] = core.Random(*rows, *cols, rng)
		b[i] = core.Random(*cols, *rows, rng)
	}

	ctx := context.Background()
	if err := products(ctx, logger, benchDir, a, b); err != nil {
		panic(err)
	}
	if err := formats(ctx, logger, benchDir, a, b); err != nil {
		panic(err)
	}
}

// products computes A·B and B·A on four concurrent workers. Each pair of
// workers shares one directory but owns a disjoint index range.
func products(ctx context.Context, logger *slog.Logger, dir string, a, b []*core.Matrix) error {
	n := len(a)
	product, err := matrixvault.Open(filepath.Join(dir, "products"), matrixvault.WithPrefix("Product_"), matrixvault.WithLogger(logger))
	if err != nil {
		return err
	}
	scalar, err := matrixvault.Open(filepath.Join(dir, "products"), matrixvault.WithPrefix("ScalarProduct_"), matrixvault.WithLogger(logger))
	if err != nil {
		return err
	}

	type task struct {
		name   string
		repo   core.Repository
		offset int
		op     func(x, y *core.Matrix) (*core.Matrix, error)
		x, y   []*core.Matrix
	}
	tasks := []task{
		{"product a·b", product, 0, core.Multiply, a, b},
		{"product b·a", product, n, core.Multiply, b, a},
		{"scalar a·aᵀ", scalar, 0, scalarProduct, a, a},
		{"scalar b·bᵀ", scalar, n, scalarProduct, b, b},
	}

	start := time.Now()
	g := core.NewGroup(ctx, logger)
	for _, t := range tasks {
		g.Go(t.name, func(ctx context.Context) error {
			for i := range t.x {
				m, err := t.op(t.x[i], t.y[i])
				if err != nil {
					return err
				}
				if err := t.repo.Save(ctx, t.offset+i, m); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	entries, err := product.List(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Products: %d files in %v\n", len(entries), time.Since(start))
	return nil
}

// scalarProduct is ScalarProductSum on the square Gram matrix of x.
func scalarProduct(x, _ *core.Matrix) (*core.Matrix, error) {
	gram, err := core.Multiply(x, x.Transpose())
	if err != nil {
		return nil, err
	}
	return core.ScalarProductSum(gram, core.Identity(gram.Rows()))
}

// formats writes A and B once per codec, each codec in its own directory,
// reads everything back and checks the arrays survived the round trip.
func formats(ctx context.Context, logger *slog.Logger, dir string, a, b []*core.Matrix) error {
	var jobs []matrixvault.Job
	for _, format := range []string{"text", "binary", "json", "yaml"} {
		for _, set := range []struct {
			prefix string
			arr    []*core.Matrix
		}{{"MatrixA_", a}, {"MatrixB_", b}} {
			repo, err := matrixvault.Open(filepath.Join(dir, format),
				matrixvault.WithFormat(format),
				matrixvault.WithPrefix(set.prefix),
				matrixvault.WithLogger(logger),
			)
			if err != nil {
				return err
			}
			jobs = append(jobs, matrixvault.Job{Name: format + "/" + set.prefix, Repo: repo, Matrices: set.arr})
		}
	}

	start := time.Now()
	if err := matrixvault.WriteAll(ctx, logger, jobs); err != nil {
		return err
	}
	fmt.Printf("Formats: %d jobs written in %v\n", len(jobs), time.Since(start))

	for _, job := range jobs {
		start := time.Now()
		back, err := core.NewService(job.Repo).ReadBatches(ctx, 4)
		if err != nil {
			return err
		}
		ok := matrixvault.CompareArrays(job.Matrices, back)
		fmt.Printf("  %-18s read %d in %-12v equal=%v\n", job.Name, len(back), time.Since(start), ok)
		if !ok {
			return fmt.Errorf("%s: round trip changed the matrices", job.Name)
		}
	}

	for _, job := range jobs {
		if err := job.Repo.Teardown(ctx); err != nil {
			return err
		}
	}
	return nil
}
