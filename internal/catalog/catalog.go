package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"amazing-race/internal/models"
)

// DefaultPenaltyMinutesPerHint is the penalty applied per used hint unless
// a challenge overrides it.
const DefaultPenaltyMinutesPerHint = 2

type ChallengeType string

const (
	TypeText        ChallengeType = "text"
	TypeMultiChoice ChallengeType = "multi_choice"
	TypePhoto       ChallengeType = "photo"
	TypeChecklist   ChallengeType = "checklist"
	TypeTournament  ChallengeType = "tournament"
)

type Location struct {
	Latitude  float64 `yaml:"lat"`
	Longitude float64 `yaml:"lng"`
	RadiusM   float64 `yaml:"radius_m"`
}

type Challenge struct {
	ID                        models.ChallengeID `yaml:"id"`
	Title                     string             `yaml:"title"`
	Description               string             `yaml:"description"`
	Type                      ChallengeType      `yaml:"type"`
	Answer                    string             `yaml:"answer"`
	Answers                   []string           `yaml:"answers"`
	Hints                     []string           `yaml:"hints"`
	PenaltyMinutesPerHint     int                `yaml:"penalty_minutes_per_hint"`
	PhotosRequired            int                `yaml:"photos_required"`
	RequiresPhotoVerification *bool              `yaml:"requires_photo_verification"`
	Checklist                 []string           `yaml:"checklist"`
	TournamentGame            string             `yaml:"tournament_game"`
	Location                  *Location          `yaml:"location"`
	SuccessMessage            string             `yaml:"success_message"`
}

type file struct {
	GameName   string      `yaml:"game_name"`
	Challenges []Challenge `yaml:"challenges"`
}

// Catalog is the ordered, read-only set of challenges for a race.
type Catalog struct {
	GameName   string
	challenges []Challenge
	byID       map[models.ChallengeID]*Challenge
}

// Load reads and validates a catalog file. Malformed catalogs (duplicate or
// non-contiguous ids) are fatal at startup.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	return New(f.GameName, f.Challenges)
}

// New validates challenges and builds a catalog from them.
func New(gameName string, challenges []Challenge) (*Catalog, error) {
	if len(challenges) == 0 {
		return nil, fmt.Errorf("catalog has no challenges")
	}

	byID := make(map[models.ChallengeID]*Challenge, len(challenges))
	c := &Catalog{GameName: gameName, challenges: challenges, byID: byID}
	for i := range challenges {
		ch := &challenges[i]
		want := models.ChallengeID(i + 1)
		if ch.ID != want {
			return nil, fmt.Errorf("challenge at position %d has id %d, want %d: ids must be 1-based and contiguous", i, ch.ID, want)
		}
		if _, dup := byID[ch.ID]; dup {
			return nil, fmt.Errorf("duplicate challenge id %d", ch.ID)
		}
		byID[ch.ID] = ch
	}
	return c, nil
}

// Total returns the number of challenges in the race.
func (c *Catalog) Total() int {
	return len(c.challenges)
}

// ByID returns the challenge with the given id.
func (c *Catalog) ByID(id models.ChallengeID) (*Challenge, bool) {
	ch, ok := c.byID[id]
	return ch, ok
}

// All returns the challenges in order.
func (c *Catalog) All() []Challenge {
	return c.challenges
}

// PenaltyMinutesPerHint returns the per-hint penalty for a challenge,
// falling back to the default when the challenge does not override it.
func (c *Catalog) PenaltyMinutesPerHint(id models.ChallengeID) int {
	if ch, ok := c.byID[id]; ok && ch.PenaltyMinutesPerHint > 0 {
		return ch.PenaltyMinutesPerHint
	}
	return DefaultPenaltyMinutesPerHint
}

// PhotosRequired returns how many approved photos complete a photo
// challenge, defaulting to one.
func (c *Catalog) PhotosRequired(id models.ChallengeID) int {
	if ch, ok := c.byID[id]; ok && ch.PhotosRequired > 0 {
		return ch.PhotosRequired
	}
	return 1
}
