package repository

import (
	"errors"

	"amazing-race/internal/models"
)

// ErrNotFound is returned by Load when no snapshot has been saved yet.
var ErrNotFound = errors.New("snapshot not found")

// SnapshotStore persists the whole game snapshot verbatim. The engine is
// the only writer; the store never interprets the snapshot contents.
type SnapshotStore interface {
	Load() (*models.Snapshot, error)
	Save(snap *models.Snapshot) error
}
