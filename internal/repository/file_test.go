package repository

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"amazing-race/internal/models"
)

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)

	snap := models.NewSnapshot()
	snap.GameStarted = true
	snap.Teams["Alpha"] = &models.Team{
		Name:        "Alpha",
		CaptainID:   1,
		CaptainName: "Alice",
		Members:     []models.TeamMember{{ID: 1, Name: "Alice"}},
		CreatedAt:   time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC),
	}
	snap.HintUsage["Alpha"] = map[models.ChallengeID][]models.HintUsage{
		1: {{HintIndex: 0, UserID: 1, UserName: "Alice"}},
	}
	if err := store.Save(snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.GameStarted {
		t.Fatal("game flag lost")
	}
	team, ok := got.Teams["Alpha"]
	if !ok || team.CaptainName != "Alice" || len(team.Members) != 1 {
		t.Fatalf("team lost: %+v %v", team, ok)
	}
	if len(got.HintUsage["Alpha"][1]) != 1 {
		t.Fatal("hint usage lost")
	}

	// No stray temp file should survive a save.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFileStoreReallocatesEmptyContainers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte(`{"game_started":false}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := NewFileStore(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Teams == nil || got.HintUsage == nil || got.Tournaments == nil {
		t.Fatal("containers should never be nil after load")
	}
}
