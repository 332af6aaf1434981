package game

import (
	"testing"
	"time"
)

func TestCreateTeam(t *testing.T) {
	e, _, _ := newTestEngine(t)

	if !e.CreateTeam("Alpha", 1, "Alice") {
		t.Fatal("creating a new team should succeed")
	}
	if e.CreateTeam("Alpha", 2, "Bob") {
		t.Fatal("duplicate team name should fail")
	}
	if e.CreateTeam("Beta", 1, "Alice") {
		t.Fatal("captain already on a team should fail")
	}

	team, ok := e.Team("Alpha")
	if !ok {
		t.Fatal("team should exist")
	}
	if team.CaptainID != 1 || len(team.Members) != 1 || team.Members[0].Name != "Alice" {
		t.Fatalf("unexpected team: %+v", team)
	}
}

func TestJoinTeamUniqueness(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.CreateTeam("Alpha", 1, "Alice")
	e.CreateTeam("Beta", 2, "Bob")

	if !e.JoinTeam("Alpha", 3, "Carol", 6) {
		t.Fatal("join should succeed")
	}
	if e.JoinTeam("Beta", 3, "Carol", 6) {
		t.Fatal("a user may belong to at most one team")
	}
	if e.JoinTeam("Gamma", 4, "Dave", 6) {
		t.Fatal("joining an unknown team should fail")
	}

	if name, ok := e.TeamByUser(3); !ok || name != "Alpha" {
		t.Fatalf("TeamByUser = %q, %v", name, ok)
	}
	if _, ok := e.TeamByUser(99); ok {
		t.Fatal("unknown user should have no team")
	}
}

func TestJoinTeamRespectsCap(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.CreateTeam("Alpha", 1, "Alice")

	if !e.JoinTeam("Alpha", 2, "Bob", 2) {
		t.Fatal("join within cap should succeed")
	}
	if e.JoinTeam("Alpha", 3, "Carol", 2) {
		t.Fatal("join beyond cap should fail")
	}
	if e.JoinTeam("Alpha", 2, "Bob", 10) {
		t.Fatal("joining twice should fail")
	}
}

func TestRemoveMemberReassignsCaptain(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.CreateTeam("Alpha", 1, "Alice")
	e.JoinTeam("Alpha", 2, "Bob", 6)

	if e.RemoveMember("Beta", 1) {
		t.Fatal("unknown team should fail")
	}
	if !e.RemoveMember("Alpha", 1) {
		t.Fatal("removing captain with others left should succeed")
	}

	team, _ := e.Team("Alpha")
	if team.CaptainID != 2 || team.CaptainName != "Bob" {
		t.Fatalf("captaincy should pass to Bob, got %d %q", team.CaptainID, team.CaptainName)
	}
	if e.RemoveMember("Alpha", 2) {
		t.Fatal("removing the sole member captain should fail")
	}
}

func TestRenameTeamCarriesHintUsage(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.CreateTeam("Alpha", 1, "Alice")
	e.UseHint("Alpha", 1, 0, 1, "Alice")

	if e.RenameTeam("Alpha", "Beta") != true {
		t.Fatal("rename should succeed")
	}
	if _, ok := e.Team("Alpha"); ok {
		t.Fatal("old name should be gone")
	}
	if e.HintCount("Beta", 1) != 1 {
		t.Fatal("hint usage should follow the rename")
	}

	e.CreateTeam("Gamma", 2, "Bob")
	if e.RenameTeam("Gamma", "Beta") {
		t.Fatal("rename onto a taken name should fail")
	}
}

func TestRemoveTeam(t *testing.T) {
	e, _, _ := newTestEngine(t)
	e.CreateTeam("Alpha", 1, "Alice")

	if !e.RemoveTeam("Alpha") {
		t.Fatal("remove should succeed")
	}
	if e.RemoveTeam("Alpha") {
		t.Fatal("removing twice should fail")
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	e, clock, _ := newTestEngine(t)
	e.CreateTeam("Slow", 1, "A")
	e.CreateTeam("Fast", 2, "B")
	e.CreateTeam("Mid", 3, "C")

	// Fast finishes both challenges first, Slow later; Mid stays racing.
	e.CompleteChallenge("Fast", 1, 2, nil)
	e.CompleteChallenge("Fast", 2, 2, nil)
	clock.Advance(10 * time.Minute)
	e.CompleteChallenge("Slow", 1, 2, nil)
	e.CompleteChallenge("Slow", 2, 2, nil)
	e.CompleteChallenge("Mid", 1, 2, nil)

	entries := e.Leaderboard()
	if len(entries) != 3 {
		t.Fatalf("want 3 entries, got %d", len(entries))
	}
	if entries[0].Team != "Fast" || entries[1].Team != "Slow" || entries[2].Team != "Mid" {
		t.Fatalf("unexpected order: %v %v %v", entries[0].Team, entries[1].Team, entries[2].Team)
	}
	if entries[2].FinishTime != nil {
		t.Fatal("racing team should have no finish time")
	}
}
