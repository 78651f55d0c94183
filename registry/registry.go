// Copyright (C) 2024-2026, Marlin Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry implements the weighted participant registry behind
// every selection point of the marketplace: executors for jobs,
// gateways for request routing, secret stores for replication and
// clusters for rotation. Participants register with a stake weight and
// are drawn at random with probability proportional to that weight.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/marlinprotocol/oyster-selection/ids"
	"github.com/marlinprotocol/oyster-selection/utils/sampler"

	safemath "github.com/marlinprotocol/oyster-selection/utils/math"
)

var (
	ErrDuplicateIdentity = errors.New("identity already registered")
	ErrUnknownIdentity   = errors.New("identity not registered")
	ErrZeroWeight        = errors.New("weight must be positive")
	ErrWeightOverflow    = errors.New("total weight overflows uint64")
)

// Pair couples an identity with its stake weight for batch insertion.
type Pair struct {
	Identity ids.ShortID
	Weight   uint64
}

// Registry tracks stake-weighted participants and draws weighted
// samples from them without replacement.
//
// Every operation runs under a single lock; mutations touch an O(log n)
// ancestor path that can include the root, so there is nothing to gain
// from finer-grained locking.
type Registry struct {
	lock sync.Mutex
	tree tree
	// indices maps an identity to its occupied slot; identities is the
	// slot-indexed inverse, aligned with tree.nodes.
	indices    map[ids.ShortID]uint32
	identities []ids.ShortID
	metrics    *metrics
}

// New returns a new, empty registry.
func New() *Registry {
	return &Registry{
		indices: make(map[ids.ShortID]uint32),
	}
}

// NewWithMetrics returns a new, empty registry that reports operation
// counts, population and total weight to the provided registerer.
func NewWithMetrics(namespace string, registerer prometheus.Registerer) (*Registry, error) {
	m, err := newMetrics(namespace, registerer)
	if err != nil {
		return nil, err
	}
	r := New()
	r.metrics = m
	return r, nil
}

// Insert registers a new participant with the provided weight.
func (r *Registry) Insert(identity ids.ShortID, weight uint64) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if err := r.insert(identity, weight); err != nil {
		return err
	}
	if r.metrics != nil {
		r.metrics.inserts.Inc()
		r.observeSize()
	}
	return nil
}

// InsertBatch registers the provided participants one at a time,
// stopping at the first pair that fails. Earlier pairs stay applied;
// each pair is individually atomic.
func (r *Registry) InsertBatch(pairs []Pair) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, pair := range pairs {
		if err := r.insert(pair.Identity, pair.Weight); err != nil {
			return err
		}
		if r.metrics != nil {
			r.metrics.inserts.Inc()
		}
	}
	if r.metrics != nil {
		r.observeSize()
	}
	return nil
}

func (r *Registry) insert(identity ids.ShortID, weight uint64) error {
	if _, ok := r.indices[identity]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateIdentity, identity)
	}
	if weight == 0 {
		return fmt.Errorf("%w: %s", ErrZeroWeight, identity)
	}
	// Reject before mutating anything.
	if _, err := safemath.Add64(r.tree.total(), weight); err != nil {
		return fmt.Errorf("%w: inserting %s", ErrWeightOverflow, identity)
	}

	i := r.tree.allocate()
	if int(i) < len(r.identities) {
		r.identities[i] = identity
	} else {
		r.identities = append(r.identities, identity)
	}
	r.indices[identity] = i
	r.tree.setWeight(i, weight)
	return nil
}

// Update replaces the weight of a registered participant. Updating to
// zero is allowed: the participant stays registered but can no longer
// be drawn. Callers decide what a zero weight means in their domain.
func (r *Registry) Update(identity ids.ShortID, weight uint64) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	i, ok := r.indices[identity]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownIdentity, identity)
	}
	remaining, err := safemath.Sub64(r.tree.total(), r.tree.weight(i))
	if err != nil {
		return err
	}
	if _, err := safemath.Add64(remaining, weight); err != nil {
		return fmt.Errorf("%w: updating %s", ErrWeightOverflow, identity)
	}

	r.tree.setWeight(i, weight)
	if r.metrics != nil {
		r.metrics.updates.Inc()
		r.observeSize()
	}
	return nil
}

// DeleteIfPresent removes a participant if it is registered and reports
// whether anything was removed. Callers that do not track registration
// state can call this unconditionally.
func (r *Registry) DeleteIfPresent(identity ids.ShortID) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	i, ok := r.indices[identity]
	if !ok {
		return false
	}

	r.tree.setWeight(i, 0)
	r.tree.release(i)
	r.identities[i] = ids.ShortEmpty
	delete(r.indices, identity)
	if r.metrics != nil {
		r.metrics.deletes.Inc()
		r.observeSize()
	}
	return true
}

// SelectN draws up to n distinct participants, each with probability
// proportional to its current weight, returned in draw order. The
// result is fully determined by the seed and the registry contents, so
// callers that agree on both agree on the outcome.
//
// If n exceeds the number of participants that can still be drawn, the
// result is truncated; an empty registry or a zero total weight yields
// an empty result. SelectN never fails.
//
// The seed is opaque to the registry. Fairness holds only if it is
// unpredictable to anyone who can also time mutations; producing such a
// seed is the caller's responsibility.
func (r *Registry) SelectN(seed uint64, n int) []ids.ShortID {
	r.lock.Lock()
	defer r.lock.Unlock()

	if n > len(r.indices) {
		n = len(r.indices)
	}
	if n <= 0 {
		return nil
	}

	rng := sampler.NewRNG(sampler.NewSource(seed))

	type draw struct {
		index  uint32
		weight uint64
	}
	selected := make([]ids.ShortID, 0, n)
	undo := make([]draw, 0, n)
	for len(selected) < n {
		total := r.tree.total()
		if total == 0 {
			// Only zero-weight participants remain.
			break
		}
		i := r.tree.find(rng.Uint64Inclusive(total - 1))
		// Suppress the pick so the remaining draws cannot repeat it. The
		// zero flows through the ordinary propagation path and is undone
		// below.
		undo = append(undo, draw{index: i, weight: r.tree.weight(i)})
		r.tree.setWeight(i, 0)
		selected = append(selected, r.identities[i])
	}
	for k := len(undo) - 1; k >= 0; k-- {
		r.tree.setWeight(undo[k].index, undo[k].weight)
	}

	if r.metrics != nil {
		r.metrics.selections.Inc()
		r.metrics.selected.Add(float64(len(selected)))
	}
	return selected
}

// Len returns the number of registered participants, including any with
// zero weight.
func (r *Registry) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()

	return len(r.indices)
}

// Weight returns the cumulative weight of all registered participants.
func (r *Registry) Weight() uint64 {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.tree.total()
}

// GetWeight retrieves a participant's weight.
func (r *Registry) GetWeight(identity ids.ShortID) (uint64, bool) {
	r.lock.Lock()
	defer r.lock.Unlock()

	i, ok := r.indices[identity]
	if !ok {
		return 0, false
	}
	return r.tree.weight(i), true
}

// Contains returns true if the identity is currently registered.
func (r *Registry) Contains(identity ids.ShortID) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	_, ok := r.indices[identity]
	return ok
}

// List returns every registered identity in slot order.
func (r *Registry) List() []ids.ShortID {
	r.lock.Lock()
	defer r.lock.Unlock()

	list := make([]ids.ShortID, 0, len(r.indices))
	for i, identity := range r.identities {
		if slot, ok := r.indices[identity]; ok && slot == uint32(i) {
			list = append(list, identity)
		}
	}
	return list
}

// observeSize refreshes the population and total weight gauges. Must be
// called with the lock held and metrics non-nil.
func (r *Registry) observeSize() {
	r.metrics.population.Set(float64(len(r.indices)))
	r.metrics.totalWeight.Set(float64(r.tree.total()))
}

func (r *Registry) String() string {
	r.lock.Lock()
	defer r.lock.Unlock()

	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("Registry: (Size = %d, Weight = %d)", len(r.indices), r.tree.total()))
	for i, identity := range r.identities {
		if slot, ok := r.indices[identity]; !ok || slot != uint32(i) {
			continue
		}
		fmt.Fprintf(&sb, "\n    Participant[%d]: %s, %d", i, identity, r.tree.weight(uint32(i)))
	}
	return sb.String()
}
