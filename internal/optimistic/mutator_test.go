package optimistic

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (r *recorder) Observe(_ context.Context, o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *recorder) results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Result, 0, len(r.outcomes))
	for _, o := range r.outcomes {
		out = append(out, o.Result)
	}
	return out
}

type fakeRemote struct {
	items   []string
	failGet error
}

func (f *fakeRemote) fetch(context.Context) ([]string, error) {
	if f.failGet != nil {
		return nil, f.failGet
	}
	return append([]string(nil), f.items...), nil
}

func without(items []string, v string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it != v {
			out = append(out, it)
		}
	}
	return out
}

func TestDo(t *testing.T) {
	ctx := context.Background()

	t.Run("success applies then reconciles", func(t *testing.T) {
		remote := &fakeRemote{items: []string{"a", "b", "c"}}
		rec := &recorder{}
		m := NewMutator(NewState([]string{"a", "b", "c"}), remote.fetch, rec, logger.NewNop())

		var seenDuringRemote []string
		_, err := Do(ctx, m, Mutation[[]string, string]{
			Feature:  "banners",
			Action:   "delete",
			EntityID: "b",
			Apply:    func(s []string) []string { return without(s, "b") },
			Remote: func(context.Context) (string, error) {
				seenDuringRemote = m.State().Get()
				remote.items = without(remote.items, "b")
				return "b", nil
			},
		})

		require.NoError(t, err)
		assert.Empty(t, cmp.Diff([]string{"a", "c"}, seenDuringRemote))
		assert.Empty(t, cmp.Diff([]string{"a", "c"}, m.State().Get()))
		assert.Equal(t, []Result{Applied, Reconciled}, rec.results())
	})

	t.Run("reconcile merges the response", func(t *testing.T) {
		remote := &fakeRemote{}
		m := NewMutator(NewState([]string{"temp-1"}), remote.fetch, nil, logger.NewNop())

		id, err := Do(ctx, m, Mutation[[]string, string]{
			Remote: func(context.Context) (string, error) { return "ban_001", nil },
			Reconcile: func(s []string, id string) []string {
				out := append([]string(nil), s...)
				for i := range out {
					if out[i] == "temp-1" {
						out[i] = id
					}
				}
				return out
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "ban_001", id)
		assert.Equal(t, []string{"ban_001"}, m.State().Get())
	})

	t.Run("failure replaces state with a fresh fetch", func(t *testing.T) {
		remote := &fakeRemote{items: []string{"a", "b", "x"}}
		rec := &recorder{}
		m := NewMutator(NewState([]string{"a", "b"}), remote.fetch, rec, logger.NewNop())
		boom := errors.New("backend down")

		_, err := Do(ctx, m, Mutation[[]string, struct{}]{
			Feature: "banners",
			Action:  "delete",
			Apply:   func(s []string) []string { return without(s, "a") },
			Remote:  func(context.Context) (struct{}, error) { return struct{}{}, boom },
		})

		require.ErrorIs(t, err, boom)
		fresh, _ := remote.fetch(ctx)
		assert.Empty(t, cmp.Diff(fresh, m.State().Get()))
		assert.Equal(t, []Result{Applied, Reverted}, rec.results())
	})

	t.Run("failed refetch restores the snapshot", func(t *testing.T) {
		fetchErr := errors.New("fetch failed")
		remote := &fakeRemote{failGet: fetchErr}
		m := NewMutator(NewState([]string{"a", "b"}), remote.fetch, nil, logger.NewNop())
		boom := errors.New("backend down")

		_, err := Do(ctx, m, Mutation[[]string, struct{}]{
			Feature: "featured",
			Apply:   func(s []string) []string { return append(append([]string(nil), s...), "c") },
			Remote:  func(context.Context) (struct{}, error) { return struct{}{}, boom },
		})

		require.ErrorIs(t, err, boom)
		require.ErrorIs(t, err, fetchErr)
		assert.Equal(t, []string{"a", "b"}, m.State().Get())
	})

	t.Run("completion after close is ignored", func(t *testing.T) {
		remote := &fakeRemote{items: []string{"server"}}
		rec := &recorder{}
		m := NewMutator(NewState([]string{"a"}), remote.fetch, rec, logger.NewNop())

		_, err := Do(ctx, m, Mutation[[]string, string]{
			Apply: func(s []string) []string { return append(append([]string(nil), s...), "b") },
			Remote: func(context.Context) (string, error) {
				m.State().Close()
				return "ok", nil
			},
			Reconcile: func([]string, string) []string { return []string{"reconciled"} },
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, m.State().Get())
		assert.Equal(t, []Result{Applied, Stale}, rec.results())
	})
}

func TestReload(t *testing.T) {
	remote := &fakeRemote{items: []string{"x"}}
	m := NewMutator(NewState[[]string](nil), remote.fetch, nil, logger.NewNop())

	require.NoError(t, m.Reload(context.Background()))
	assert.Equal(t, []string{"x"}, m.State().Get())

	remote.failGet = errors.New("nope")
	assert.Error(t, m.Reload(context.Background()))
	assert.Equal(t, []string{"x"}, m.State().Get())
}

func TestObserversFanOut(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Observers{a, nil, b}.Observe(context.Background(), Outcome{Result: Reconciled})
	assert.Equal(t, []Result{Reconciled}, a.results())
	assert.Equal(t, []Result{Reconciled}, b.results())
}
