package repository

import (
	"encoding/json"
	"fmt"
	"os"

	"amazing-race/internal/models"
)

// FileStore keeps the snapshot as a single JSON file on disk.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() (*models.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	snap := models.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("decoding state file: %w", err)
	}
	ensureContainers(snap)
	return snap, nil
}

func (s *FileStore) Save(snap *models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// ensureContainers re-allocates maps that json decoding may have left nil.
func ensureContainers(snap *models.Snapshot) {
	if snap.Teams == nil {
		snap.Teams = make(map[models.TeamName]*models.Team)
	}
	if snap.HintUsage == nil {
		snap.HintUsage = make(map[models.TeamName]map[models.ChallengeID][]models.HintUsage)
	}
	if snap.Tournaments == nil {
		snap.Tournaments = make(map[models.ChallengeID]*models.Tournament)
	}
}
