package game

import (
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"amazing-race/internal/models"
	"amazing-race/internal/repository"
)

// Engine owns the whole game state for one race instance. It assumes a
// single external dispatcher invokes one operation at a time; there is no
// internal locking. Every mutating operation writes the full snapshot
// through the store before returning.
type Engine struct {
	snap  *models.Snapshot
	store repository.SnapshotStore
	now   func() time.Time
	rng   *rand.Rand
	log   *zap.Logger
	dirty bool
}

type Option func(*Engine)

// WithClock injects the time source used for all timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithRand injects the randomness source used for bracket shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New loads the saved snapshot from the store, starting from an empty one
// when nothing has been saved yet.
func New(store repository.SnapshotStore, opts ...Option) (*Engine, error) {
	e := &Engine{
		store: store,
		now:   time.Now,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	snap, err := store.Load()
	if errors.Is(err, repository.ErrNotFound) {
		snap = models.NewSnapshot()
	} else if err != nil {
		return nil, err
	}
	e.snap = snap
	return e, nil
}

// persist writes the snapshot through the store. A failed write never
// rolls back the in-memory mutation; the engine is marked dirty instead
// and Flush can retry.
func (e *Engine) persist() {
	if err := e.store.Save(e.snap); err != nil {
		e.dirty = true
		e.log.Error("snapshot save failed, state is dirty", zap.Error(err))
		return
	}
	e.dirty = false
}

// Dirty reports whether the in-memory state has diverged from storage.
func (e *Engine) Dirty() bool {
	return e.dirty
}

// Flush retries the snapshot write after a failed save.
func (e *Engine) Flush() error {
	if err := e.store.Save(e.snap); err != nil {
		return err
	}
	e.dirty = false
	return nil
}

// Snapshot exposes the state for read-only display purposes.
func (e *Engine) Snapshot() *models.Snapshot {
	return e.snap
}

func (e *Engine) StartGame() {
	e.snap.GameStarted = true
	e.persist()
}

func (e *Engine) EndGame() {
	e.snap.GameEnded = true
	e.persist()
}

// ResetGame wipes all state back to an empty snapshot.
func (e *Engine) ResetGame() {
	e.snap = models.NewSnapshot()
	e.persist()
}

func (e *Engine) GameStarted() bool { return e.snap.GameStarted }
func (e *Engine) GameEnded() bool   { return e.snap.GameEnded }

func (e *Engine) PhotoVerificationEnabled() bool {
	return e.snap.PhotoVerificationEnabled
}

func (e *Engine) SetPhotoVerification(enabled bool) {
	e.snap.PhotoVerificationEnabled = enabled
	e.persist()
}

// TogglePhotoVerification flips the global gating flag and returns the new
// value.
func (e *Engine) TogglePhotoVerification() bool {
	e.snap.PhotoVerificationEnabled = !e.snap.PhotoVerificationEnabled
	e.persist()
	return e.snap.PhotoVerificationEnabled
}

// AuditLog returns the append-only admin override log.
func (e *Engine) AuditLog() []models.AuditLogEntry {
	return e.snap.AuditLog
}
