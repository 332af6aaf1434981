package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"amazing-race/internal/models"
)

// GameSnapshot is the single database row holding the serialized snapshot.
type GameSnapshot struct {
	ID        uint   `gorm:"primaryKey"`
	Data      []byte `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

// GormStore persists the snapshot as one JSON row, so the database stays a
// dumb medium and the engine keeps full ownership of the state shape.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&GameSnapshot{}); err != nil {
		return nil, fmt.Errorf("migrating snapshot table: %w", err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load() (*models.Snapshot, error) {
	var row GameSnapshot
	err := s.db.First(&row, "id = ?", 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot row: %w", err)
	}

	snap := models.NewSnapshot()
	if err := json.Unmarshal(row.Data, snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot row: %w", err)
	}
	ensureContainers(snap)
	return snap, nil
}

func (s *GormStore) Save(snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	row := GameSnapshot{ID: 1, Data: data}
	return s.db.Save(&row).Error
}
