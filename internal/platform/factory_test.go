package platform_test

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/matrixvault/internal/platform"
	"github.com/aretw0/matrixvault/pkg/adapters/fs"
	"github.com/aretw0/matrixvault/pkg/codec"
	"github.com/aretw0/matrixvault/pkg/core"
)

func TestNew_Defaults(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "vault")

	svc, err := platform.New(dir)
	require.NoError(t, err)

	m := core.MustNew([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, svc.WriteArray(ctx, []*core.Matrix{m}))

	raw, err := os.ReadFile(filepath.Join(dir, "matrix0.txt"))
	require.NoError(t, err)
	require.Equal(t, "2 2\n1, 2\n3, 4\n", string(raw))

	state := svc.Repository().(*fs.Repository).State().(fs.RepositoryState)
	require.True(t, state.Atomic, "atomic writes are on by default")
}

func TestNew_FormatPrefixExtension(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	svc, err := platform.New(dir,
		platform.WithFormat("binary"),
		platform.WithPrefix("MatrixB_"),
		platform.WithExtension("dat"),
		platform.WithWorkers(2),
	)
	require.NoError(t, err)
	require.NoError(t, svc.WriteArray(ctx, []*core.Matrix{core.Identity(2)}))

	info, err := os.Stat(filepath.Join(dir, "MatrixB_0.dat"))
	require.NoError(t, err)
	require.Equal(t, int64(codec.HeaderSize+4*8), info.Size())
	require.Equal(t, 2, svc.State().(core.ServiceState).Workers)
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := platform.New(t.TempDir(), platform.WithFormat("csv"))
	require.ErrorIs(t, err, core.ErrUnknownCodec)
}

func TestOpen_Lenient(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "matrix0.json"), []byte("[[1, 2], [3, 4, 5]]"), 0644))

	strict, err := platform.Open(dir, platform.WithFormat("json"))
	require.NoError(t, err)
	_, err = strict.Get(ctx, 0)
	require.ErrorIs(t, err, core.ErrFormat)

	lenient, err := platform.Open(dir, platform.WithFormat("json"), platform.WithLenient(true))
	require.NoError(t, err)
	m, err := lenient.Get(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 2, m.Cols())
}

func TestOpen_MustExistAndReadOnly(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := platform.Open(missing, platform.WithMustExist(true))
	require.Error(t, err)

	repo, err := platform.Open(missing, platform.WithReadOnly(true))
	require.NoError(t, err)
	require.ErrorIs(t, repo.Save(context.Background(), 0, core.Identity(1)), core.ErrReadOnly)
	_, err = os.Stat(missing)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpen_InjectedRepositoryAndCodec(t *testing.T) {
	dir := t.TempDir()
	injected := fs.NewRepository(fs.Config{Path: dir})
	repo, err := platform.Open("ignored", platform.WithRepository(injected))
	require.NoError(t, err)
	require.Same(t, injected, repo)

	repo, err = platform.Open(dir, platform.WithCodec(codec.NewText(";")), platform.WithFormat("json"))
	require.NoError(t, err)
	require.Equal(t, "text", repo.(*fs.Repository).Codec().Name())
}

func TestOpen_LoggerWired(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	repo, err := platform.Open(t.TempDir(), platform.WithLogger(logger), platform.WithCache(true))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), 9, core.Identity(1)))
	require.Contains(t, buf.String(), "matrix saved")
	require.Contains(t, buf.String(), "matrix9.txt")
}
