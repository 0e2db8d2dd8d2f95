package core_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/matrixvault/pkg/core"
)

// memRepository is an in-memory core.Repository.
type memRepository struct {
	mu     sync.Mutex
	items  map[int]*core.Matrix
	failAt map[int]bool
	inits  int
}

func newMemRepository() *memRepository {
	return &memRepository{items: map[int]*core.Matrix{}, failAt: map[int]bool{}}
}

var errInjected = errors.New("injected failure")

func (r *memRepository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	r.inits++
	r.mu.Unlock()
	return nil
}

func (r *memRepository) Save(ctx context.Context, index int, m *core.Matrix) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAt[index] {
		return errInjected
	}
	r.items[index] = m
	return nil
}

func (r *memRepository) Get(ctx context.Context, index int) (*core.Matrix, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[index]
	if !ok {
		return nil, fmt.Errorf("index %d: not found", index)
	}
	return m, nil
}

func (r *memRepository) List(ctx context.Context) ([]core.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]core.Entry, 0, len(r.items))
	for i := range r.items {
		entries = append(entries, core.Entry{Index: i, Name: fmt.Sprintf("m%d", i)})
	}
	sort.Slice(entries, func(a, b int) bool { return entries[a].Index < entries[b].Index })
	return entries, nil
}

func (r *memRepository) ReadAll(ctx context.Context) ([]*core.Matrix, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Matrix, 0, len(entries))
	for _, e := range entries {
		m, err := r.Get(ctx, e.Index)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *memRepository) Delete(ctx context.Context, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, index)
	return nil
}

func (r *memRepository) Teardown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = map[int]*core.Matrix{}
	return nil
}

func randomArray(n int, seed int64) []*core.Matrix {
	rng := rand.New(rand.NewSource(seed))
	out := make([]*core.Matrix, n)
	for i := range out {
		out[i] = core.Random(3, 3, rng)
	}
	return out
}

func TestService_WriteReadArray(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepository()
	svc := core.NewService(repo)
	require.Same(t, repo, svc.Repository())

	arr := randomArray(12, 1)
	require.NoError(t, svc.WriteArray(ctx, arr))
	require.Equal(t, 1, repo.inits)

	got, err := svc.ReadArray(ctx)
	require.NoError(t, err)
	require.True(t, core.CompareArrays(arr, got))

	require.NoError(t, svc.Teardown(ctx))
	got, err = svc.ReadArray(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestService_WriteRangeContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepository()
	repo.failAt[3] = true
	repo.failAt[5] = true
	svc := core.NewService(repo)

	err := svc.WriteRange(ctx, 2, randomArray(5, 2))
	require.ErrorIs(t, err, errInjected)
	require.Contains(t, err.Error(), "index 3")
	require.Contains(t, err.Error(), "index 5")

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, []int{2, 4, 6}, []int{entries[0].Index, entries[1].Index, entries[2].Index})
}

func TestService_Batches(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepository()
	svc := core.NewService(repo, core.WithDefaultWorkers(3))

	arr := randomArray(200, 3)
	require.NoError(t, svc.WriteBatches(ctx, arr, 4))

	got, err := svc.ReadBatches(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 200)
	require.True(t, core.CompareArrays(arr, got))
}

func TestService_BatchesEmpty(t *testing.T) {
	ctx := context.Background()
	svc := core.NewService(newMemRepository())
	require.NoError(t, svc.WriteBatches(ctx, nil, 4))
	got, err := svc.ReadBatches(ctx, 4)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestService_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := newMemRepository()
	svc := core.NewService(repo)

	err := svc.WriteArray(ctx, randomArray(3, 4))
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, repo.items)
}

func TestWriteAll_DisjointWorkers(t *testing.T) {
	ctx := context.Background()
	const workers, perWorker = 4, 50

	repos := make([]*memRepository, workers)
	jobs := make([]core.Job, workers)
	arrays := make([][]*core.Matrix, workers)
	for w := range jobs {
		repos[w] = newMemRepository()
		arrays[w] = randomArray(perWorker, int64(w))
		jobs[w] = core.Job{Name: fmt.Sprintf("w%d", w), Repo: repos[w], Matrices: arrays[w]}
	}
	require.NoError(t, core.WriteAll(ctx, nil, jobs))

	total := 0
	for w, repo := range repos {
		got, err := repo.ReadAll(ctx)
		require.NoError(t, err)
		require.True(t, core.CompareArrays(arrays[w], got), "worker %d", w)
		total += len(got)
	}
	require.Equal(t, workers*perWorker, total)
}

func TestWriteAll_FailureDoesNotStopSiblings(t *testing.T) {
	ctx := context.Background()
	bad := newMemRepository()
	bad.failAt[0] = true
	good := newMemRepository()

	err := core.WriteAll(ctx, nil, []core.Job{
		{Repo: bad, Matrices: randomArray(2, 5)},
		{Repo: good, Matrices: randomArray(10, 6)},
	})
	require.ErrorIs(t, err, errInjected)
	require.Contains(t, err.Error(), "worker job-0")
	require.Len(t, good.items, 10)
	require.Len(t, bad.items, 1)
}

func TestService_State(t *testing.T) {
	svc := core.NewService(newMemRepository(), core.WithDefaultWorkers(6))
	state, ok := svc.State().(core.ServiceState)
	require.True(t, ok)
	require.Equal(t, 6, state.Workers)
	require.Equal(t, "service", svc.ComponentType())
}
