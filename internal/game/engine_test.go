package game

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"amazing-race/internal/models"
	"amazing-race/internal/repository"
)

// memStore keeps the snapshot in memory and round-trips it through JSON
// so tests exercise the same encoding as real stores.
type memStore struct {
	data  []byte
	saves int
	fail  error
}

func (s *memStore) Load() (*models.Snapshot, error) {
	if s.data == nil {
		return nil, repository.ErrNotFound
	}
	snap := models.NewSnapshot()
	if err := json.Unmarshal(s.data, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *memStore) Save(snap *models.Snapshot) error {
	if s.fail != nil {
		return s.fail
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.data = data
	s.saves++
	return nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestEngine(t *testing.T) (*Engine, *fakeClock, *memStore) {
	t.Helper()
	store := &memStore{}
	clock := &fakeClock{t: time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)}
	e, err := New(store,
		WithClock(clock.Now),
		WithRand(rand.New(rand.NewSource(1))),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e, clock, store
}

func TestNewStartsEmpty(t *testing.T) {
	e, _, _ := newTestEngine(t)
	if e.GameStarted() || e.GameEnded() || e.PhotoVerificationEnabled() {
		t.Fatal("fresh engine should have all flags off")
	}
	if len(e.Snapshot().Teams) != 0 {
		t.Fatal("fresh engine should have no teams")
	}
}

func TestLifecycleFlags(t *testing.T) {
	e, _, _ := newTestEngine(t)

	e.StartGame()
	if !e.GameStarted() {
		t.Fatal("game should be started")
	}
	e.EndGame()
	if !e.GameEnded() {
		t.Fatal("game should be ended")
	}

	if !e.TogglePhotoVerification() {
		t.Fatal("toggle should turn gating on")
	}
	if e.TogglePhotoVerification() {
		t.Fatal("second toggle should turn gating off")
	}

	e.ResetGame()
	if e.GameStarted() || e.GameEnded() {
		t.Fatal("reset should clear lifecycle flags")
	}
}

func TestStateSurvivesReload(t *testing.T) {
	e, clock, store := newTestEngine(t)
	e.CreateTeam("Alpha", 1, "Alice")
	e.JoinTeam("Alpha", 2, "Bob", 6)
	e.UseHint("Alpha", 1, 0, 1, "Alice")
	e.CompleteChallenge("Alpha", 1, 5, nil)
	e.StartGame()
	e.CreateTournament(9, []models.TeamName{"Alpha"}, "Solo")

	reloaded, err := New(store, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}

	team, ok := reloaded.Team("Alpha")
	if !ok {
		t.Fatal("team lost on reload")
	}
	if len(team.Members) != 2 || team.CurrentChallengeIndex != 1 {
		t.Fatalf("team state lost: members=%d index=%d", len(team.Members), team.CurrentChallengeIndex)
	}
	if reloaded.HintCount("Alpha", 1) != 1 {
		t.Fatal("hint usage lost on reload")
	}
	if at, ok := reloaded.CompletionTime("Alpha", 1); !ok || !at.Equal(clock.Now()) {
		t.Fatalf("completion time lost on reload: %v %v", at, ok)
	}
	if !reloaded.GameStarted() {
		t.Fatal("game flag lost on reload")
	}
	if !reloaded.IsTournamentComplete(9) {
		t.Fatal("tournament lost on reload")
	}
}

func TestEveryMutationPersists(t *testing.T) {
	e, _, store := newTestEngine(t)

	before := store.saves
	e.CreateTeam("Alpha", 1, "Alice")
	e.UseHint("Alpha", 1, 0, 1, "Alice")
	e.CompleteChallenge("Alpha", 1, 5, nil)
	if store.saves != before+3 {
		t.Fatalf("expected 3 writes, got %d", store.saves-before)
	}

	// Failed preconditions must not write.
	before = store.saves
	e.CreateTeam("Alpha", 9, "Dup")
	e.CompleteChallenge("Alpha", 5, 5, nil)
	e.UseHint("Nobody", 1, 0, 9, "X")
	if store.saves != before {
		t.Fatalf("precondition failures should not persist, got %d writes", store.saves-before)
	}
}

func TestDirtyAndFlushOnStorageFailure(t *testing.T) {
	e, _, store := newTestEngine(t)

	store.fail = errors.New("disk gone")
	if !e.CreateTeam("Alpha", 1, "Alice") {
		t.Fatal("mutation should still apply in memory")
	}
	if !e.Dirty() {
		t.Fatal("engine should be dirty after a failed save")
	}
	if err := e.Flush(); err == nil {
		t.Fatal("flush should fail while the store fails")
	}

	store.fail = nil
	if err := e.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if e.Dirty() {
		t.Fatal("flush should clear the dirty flag")
	}
}
