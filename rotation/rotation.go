// Copyright (C) 2024-2026, Marlin Protocol. All rights reserved.
// See the file LICENSE for licensing terms.

// Package rotation memoizes one weighted selection per discrete time
// window. Consumers that must hand out a stable cluster for the
// duration of a window (cluster rotation, gateway assignment) query the
// rotator repeatedly; the underlying registry is only re-sampled when
// the window advances.
package rotation

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/marlinprotocol/oyster-selection/ids"
	"github.com/marlinprotocol/oyster-selection/registry"
	"github.com/marlinprotocol/oyster-selection/utils/hashing"
	"github.com/marlinprotocol/oyster-selection/utils/timer/mockable"
)

var (
	errInvalidWindowLength = errors.New("window length must be at least one second")
	errInvalidSize         = errors.New("selection size must be positive")
)

type Config struct {
	// WindowLength is the duration of one selection window.
	WindowLength time.Duration
	// Size is the number of participants drawn each window.
	Size int
	// Salt folds into every window's seed so two rotators over the same
	// registry draw independent sequences.
	Salt uint64
	// Log defaults to a no-op logger.
	Log *zap.Logger
}

// Rotator caches the selection of the current window.
type Rotator struct {
	reg           *registry.Registry
	clock         mockable.Clock
	windowSeconds uint64
	size          int
	salt          uint64
	log           *zap.Logger

	lock       sync.Mutex
	lastWindow uint64
	cached     []ids.ShortID
	primed     bool
}

func New(reg *registry.Registry, config Config) (*Rotator, error) {
	if config.WindowLength < time.Second {
		return nil, errInvalidWindowLength
	}
	if config.Size <= 0 {
		return nil, errInvalidSize
	}
	log := config.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Rotator{
		reg:           reg,
		windowSeconds: uint64(config.WindowLength / time.Second),
		size:          config.Size,
		salt:          config.Salt,
		log:           log,
	}, nil
}

// Window returns the index of the current selection window.
func (r *Rotator) Window() uint64 {
	return r.clock.Unix() / r.windowSeconds
}

// Selection returns the participants selected for the current window.
// Within one window the result is stable even if the registry mutates;
// the selection is recomputed only when the window advances.
func (r *Rotator) Selection() []ids.ShortID {
	r.lock.Lock()
	defer r.lock.Unlock()

	window := r.Window()
	if !r.primed || window != r.lastWindow {
		seed := windowSeed(r.salt, window)
		r.cached = r.reg.SelectN(seed, r.size)
		r.lastWindow = window
		r.primed = true
		r.log.Debug("rotated selection",
			zap.Uint64("window", window),
			zap.Uint64("seed", seed),
			zap.Int("selected", len(r.cached)),
		)
	}

	out := make([]ids.ShortID, len(r.cached))
	copy(out, r.cached)
	return out
}

// windowSeed derives the deterministic seed for one window from the
// configured salt.
func windowSeed(salt, window uint64) uint64 {
	buf := make([]byte, 16)
	binary.BigEndian.PutUint64(buf, salt)
	binary.BigEndian.PutUint64(buf[8:], window)
	return binary.BigEndian.Uint64(hashing.ComputeHash256(buf))
}
