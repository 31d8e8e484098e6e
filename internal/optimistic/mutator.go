// Package optimistic implements apply-then-confirm updates of a local copy
// of backend state.
//
// A mutation is applied to the local State first, then sent to the backend.
// On success the backend response is merged in. On failure the whole parent
// collection is fetched again and replaces the local copy; there is no
// partial rollback. Mutations are not queued: two in flight on the same
// entity resolve last-write-wins.
package optimistic

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-admin-console/internal/logger"
	"go.uber.org/zap"
)

type Result string

const (
	Applied    Result = "applied"
	Reconciled Result = "reconciled"
	Reverted   Result = "reverted"
	Stale      Result = "stale"
)

type Outcome struct {
	Feature  string
	Action   string
	EntityID string
	Result   Result
	Err      error
}

// Observer is told about every step of every mutation.
type Observer interface {
	Observe(ctx context.Context, o Outcome)
}

type Observers []Observer

func (os Observers) Observe(ctx context.Context, o Outcome) {
	for _, ob := range os {
		if ob != nil {
			ob.Observe(ctx, o)
		}
	}
}

// Mutation describes one change. Apply and Reconcile may be nil.
type Mutation[S, R any] struct {
	Feature  string
	Action   string
	EntityID string

	// Apply computes the optimistic state. It must not modify its argument.
	Apply func(S) S
	// Remote performs the backend call.
	Remote func(ctx context.Context) (R, error)
	// Reconcile merges the backend response into the current state,
	// carrying client-only fields forward.
	Reconcile func(S, R) S
}

type Mutator[S any] struct {
	state    *State[S]
	refetch  func(ctx context.Context) (S, error)
	observer Observer
	logger   logger.ZapLogger
}

func NewMutator[S any](state *State[S], refetch func(ctx context.Context) (S, error), observer Observer, log logger.ZapLogger) *Mutator[S] {
	return &Mutator[S]{
		state:    state,
		refetch:  refetch,
		observer: observer,
		logger:   log,
	}
}

func (m *Mutator[S]) State() *State[S] { return m.state }

// Reload replaces the local state with a fresh backend read.
func (m *Mutator[S]) Reload(ctx context.Context) error {
	fresh, err := m.refetch(ctx)
	if err != nil {
		return err
	}
	m.state.Set(fresh)
	return nil
}

// Do runs mut against m. The returned error is the backend error, joined
// with the refetch error if reconciliation failed too.
func Do[S, R any](ctx context.Context, m *Mutator[S], mut Mutation[S, R]) (R, error) {
	log := m.logger.With(
		zap.String("feature", mut.Feature),
		zap.String("action", mut.Action),
		zap.String("entity_id", mut.EntityID),
	)

	before := m.state.Get()
	if mut.Apply != nil {
		m.state.Update(mut.Apply)
		observe(ctx, m, mut, Applied, nil)
	}

	res, err := mut.Remote(ctx)

	if m.state.Closed() {
		log.Debug("mutation completed after view closed, ignoring")
		observe(ctx, m, mut, Stale, err)
		return res, err
	}

	if err != nil {
		log.Warn("mutation failed, reconciling with backend", zap.Error(err))
		fresh, rerr := m.refetch(ctx)
		if rerr != nil {
			log.Error("reconcile refetch failed, restoring previous state", zap.Error(rerr))
			m.state.Set(before)
			err = errors.Join(err, fmt.Errorf("reconcile %s: %w", mut.Feature, rerr))
		} else {
			m.state.Set(fresh)
		}
		observe(ctx, m, mut, Reverted, err)
		return res, err
	}

	if mut.Reconcile != nil {
		m.state.Update(func(s S) S { return mut.Reconcile(s, res) })
	}
	observe(ctx, m, mut, Reconciled, nil)
	return res, nil
}

func observe[S, R any](ctx context.Context, m *Mutator[S], mut Mutation[S, R], r Result, err error) {
	if m.observer == nil {
		return
	}
	m.observer.Observe(ctx, Outcome{
		Feature:  mut.Feature,
		Action:   mut.Action,
		EntityID: mut.EntityID,
		Result:   r,
		Err:      err,
	})
}
