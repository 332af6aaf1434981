package game

import (
	"testing"
	"time"
)

func TestUseHint(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.CreateTeam("Alpha", 1, "Alice")

	if e.UseHint("Nobody", 1, 0, 1, "Alice") {
		t.Fatal("unknown team should fail")
	}
	if !e.UseHint("Alpha", 1, 0, 1, "Alice") {
		t.Fatal("first hint should succeed")
	}
	if e.UseHint("Alpha", 1, 0, 2, "Bob") {
		t.Fatal("charging the same hint index twice should fail")
	}
	if !e.UseHint("Alpha", 1, 1, 2, "Bob") {
		t.Fatal("the next hint index should succeed")
	}
	// Same index on a different challenge is a separate charge.
	if !e.UseHint("Alpha", 2, 0, 1, "Alice") {
		t.Fatal("same index on another challenge should succeed")
	}

	used := e.UsedHints("Alpha", 1)
	if len(used) != 2 {
		t.Fatalf("want 2 usages, got %d", len(used))
	}
	if used[0].HintIndex != 0 || used[0].UserName != "Alice" {
		t.Fatalf("unexpected record: %+v", used[0])
	}
	if used[1].HintIndex != 1 || used[1].UserID != 2 {
		t.Fatalf("unexpected record: %+v", used[1])
	}
}

func TestPenaltySeconds(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.CreateTeam("Alpha", 1, "Alice")

	if got := e.PenaltySeconds("Alpha", 1, 2); got != 0 {
		t.Fatalf("no hints should mean no penalty, got %d", got)
	}

	e.UseHint("Alpha", 1, 0, 1, "Alice")
	if got := e.PenaltySeconds("Alpha", 1, 2); got != 120 {
		t.Fatalf("1 hint x 2 min = 120s, got %d", got)
	}

	e.UseHint("Alpha", 1, 1, 1, "Alice")
	e.UseHint("Alpha", 1, 2, 1, "Alice")
	if got := e.PenaltySeconds("Alpha", 1, 2); got != 360 {
		t.Fatalf("3 hints x 2 min = 360s, got %d", got)
	}
	// Per-challenge override scales the penalty.
	if got := e.PenaltySeconds("Alpha", 1, 5); got != 900 {
		t.Fatalf("3 hints x 5 min = 900s, got %d", got)
	}
}

func TestUnlockTimeAbsentCases(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.CreateTeam("Alpha", 1, "Alice")

	// Challenge 1 has no previous challenge.
	if _, ok := e.UnlockTime("Alpha", 1, 2); ok {
		t.Fatal("first challenge should have no unlock time")
	}
	// Previous challenge not completed yet.
	if _, ok := e.UnlockTime("Alpha", 2, 2); ok {
		t.Fatal("no completion time means no gating")
	}

	// Completed without hints: immediate unlock.
	e.CompleteChallenge("Alpha", 1, 5, nil)
	if _, ok := e.UnlockTime("Alpha", 2, 2); ok {
		t.Fatal("zero penalty should mean no unlock time")
	}
}

func TestUnlockTimeWithPenalty(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	e.CreateTeam("Alpha", 1, "Alice")

	e.UseHint("Alpha", 1, 0, 1, "Alice")
	e.UseHint("Alpha", 1, 1, 1, "Alice")
	e.CompleteChallenge("Alpha", 1, 5, nil)

	completedAt, ok := e.CompletionTime("Alpha", 1)
	if !ok {
		t.Fatal("completion time should be recorded with gating off")
	}
	if !completedAt.Equal(clock.Now()) {
		t.Fatalf("completion time = %v, want %v", completedAt, clock.Now())
	}

	unlock, ok := e.UnlockTime("Alpha", 2, 2)
	if !ok {
		t.Fatal("unlock time should exist after using hints")
	}
	want := completedAt.Add(4 * time.Minute)
	if !unlock.Equal(want) {
		t.Fatalf("unlock = %v, want completion + 4m = %v", unlock, want)
	}
}

func TestUnlockTimeStartsAtApprovalWhenGated(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	e.CreateTeam("Alpha", 1, "Alice")
	e.SetPhotoVerification(true)

	e.UseHint("Alpha", 1, 0, 1, "Alice")
	e.CompleteChallenge("Alpha", 1, 5, nil)

	if _, ok := e.CompletionTime("Alpha", 1); ok {
		t.Fatal("completion time should be deferred while gated")
	}
	if _, ok := e.UnlockTime("Alpha", 2, 2); ok {
		t.Fatal("no unlock time until the penalty clock starts")
	}

	// The clock starts at the arrival-photo approval instant, not at
	// solve time.
	clock.Advance(30 * time.Minute)
	id, _ := e.AddPendingPhotoVerification("Alpha", 2, "photo-1", 1, "Alice")
	e.ApprovePhotoVerification(id)

	approvedAt := clock.Now()
	unlock, ok := e.UnlockTime("Alpha", 2, 2)
	if !ok {
		t.Fatal("unlock time should exist after approval")
	}
	if !unlock.Equal(approvedAt.Add(2 * time.Minute)) {
		t.Fatalf("unlock = %v, want approval + 2m", unlock)
	}
}
