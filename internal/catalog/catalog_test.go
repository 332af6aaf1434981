package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"amazing-race/internal/models"
)

func TestNewValidatesIDs(t *testing.T) {
	if _, err := New("Race", nil); err == nil {
		t.Fatal("empty catalog should fail")
	}
	if _, err := New("Race", []Challenge{{ID: 2, Title: "A"}}); err == nil {
		t.Fatal("ids must start at 1")
	}
	if _, err := New("Race", []Challenge{{ID: 1}, {ID: 3}}); err == nil {
		t.Fatal("ids must be contiguous")
	}
	if _, err := New("Race", []Challenge{{ID: 1}, {ID: 1}}); err == nil {
		t.Fatal("duplicate ids should fail")
	}

	c, err := New("Race", []Challenge{{ID: 1, Title: "A"}, {ID: 2, Title: "B"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.Total() != 2 {
		t.Fatalf("Total = %d", c.Total())
	}
	ch, ok := c.ByID(2)
	if !ok || ch.Title != "B" {
		t.Fatalf("ByID(2) = %+v, %v", ch, ok)
	}
	if _, ok := c.ByID(3); ok {
		t.Fatal("unknown id should miss")
	}
}

func TestPenaltyAndPhotoDefaults(t *testing.T) {
	c, err := New("Race", []Challenge{
		{ID: 1},
		{ID: 2, PenaltyMinutesPerHint: 5, PhotosRequired: 3},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := c.PenaltyMinutesPerHint(1); got != DefaultPenaltyMinutesPerHint {
		t.Fatalf("default penalty = %d", got)
	}
	if got := c.PenaltyMinutesPerHint(2); got != 5 {
		t.Fatalf("override penalty = %d", got)
	}
	if got := c.PhotosRequired(1); got != 1 {
		t.Fatalf("default photos = %d", got)
	}
	if got := c.PhotosRequired(2); got != 3 {
		t.Fatalf("override photos = %d", got)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	doc := `game_name: Campus Dash
challenges:
  - id: 1
    title: Fountain riddle
    type: text
    answer: Neptune
    hints:
      - It faces the library.
  - id: 2
    title: Group photo
    type: photo
    photos_required: 2
    requires_photo_verification: false
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.GameName != "Campus Dash" || c.Total() != 2 {
		t.Fatalf("name=%q total=%d", c.GameName, c.Total())
	}

	ch, _ := c.ByID(models.ChallengeID(2))
	if ch.Type != TypePhoto || ch.PhotosRequired != 2 {
		t.Fatalf("challenge 2: %+v", ch)
	}
	if ch.RequiresPhotoVerification == nil || *ch.RequiresPhotoVerification {
		t.Fatal("explicit override should decode as false")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Fatal("missing file should fail")
	}
}
