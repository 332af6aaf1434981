package game

import (
	"time"

	"amazing-race/internal/models"
)

// UseHint charges one hint to a (team, challenge) pair. A hint index that
// was already charged is rejected rather than double-applied.
func (e *Engine) UseHint(team models.TeamName, id models.ChallengeID, hintIndex int, userID models.UserID, userName string) bool {
	if _, ok := e.snap.Teams[team]; !ok {
		return false
	}
	for _, used := range e.snap.HintUsage[team][id] {
		if used.HintIndex == hintIndex {
			return false
		}
	}

	if e.snap.HintUsage[team] == nil {
		e.snap.HintUsage[team] = make(map[models.ChallengeID][]models.HintUsage)
	}
	e.snap.HintUsage[team][id] = append(e.snap.HintUsage[team][id], models.HintUsage{
		HintIndex: hintIndex,
		UserID:    userID,
		UserName:  userName,
		UsedAt:    e.now(),
	})
	e.persist()
	return true
}

// UsedHints returns the hint usage records for a (team, challenge) pair
// in the order they were charged.
func (e *Engine) UsedHints(team models.TeamName, id models.ChallengeID) []models.HintUsage {
	return e.snap.HintUsage[team][id]
}

// HintCount returns how many hints the team has used on a challenge.
func (e *Engine) HintCount(team models.TeamName, id models.ChallengeID) int {
	return len(e.snap.HintUsage[team][id])
}

// PenaltySeconds derives the unlock delay from hint usage.
func (e *Engine) PenaltySeconds(team models.TeamName, id models.ChallengeID, perHintMinutes int) int {
	return e.HintCount(team, id) * perHintMinutes * 60
}

// UnlockTime returns when the given challenge becomes available to the
// team. Absent means no gating: either there is no previous challenge,
// its penalty clock has not started, or no penalty applies.
func (e *Engine) UnlockTime(team models.TeamName, next models.ChallengeID, perHintMinutes int) (time.Time, bool) {
	prev := next - 1
	if prev < 1 {
		return time.Time{}, false
	}
	completedAt, ok := e.CompletionTime(team, prev)
	if !ok {
		return time.Time{}, false
	}
	penalty := e.PenaltySeconds(team, prev, perHintMinutes)
	if penalty == 0 {
		return time.Time{}, false
	}
	return completedAt.Add(time.Duration(penalty) * time.Second), true
}
