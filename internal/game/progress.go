package game

import (
	"time"

	"amazing-race/internal/models"
)

// CompleteChallenge marks the team's next sequential challenge as done.
// It fails without mutation when the team is unknown, the challenge was
// already completed, or the id is out of sequence. Completing the final
// challenge sets the finish time once.
func (e *Engine) CompleteChallenge(team models.TeamName, id models.ChallengeID, total int, sub *models.Submission) bool {
	if !e.complete(team, id, total, sub) {
		return false
	}
	e.persist()
	return true
}

// complete applies the progression transition without persisting, so
// callers that mutate more state can save once.
func (e *Engine) complete(team models.TeamName, id models.ChallengeID, total int, sub *models.Submission) bool {
	t, ok := e.snap.Teams[team]
	if !ok {
		return false
	}
	for _, done := range t.CompletedChallenges {
		if done == id {
			return false
		}
	}
	if int(id) != t.CurrentChallengeIndex+1 {
		return false
	}

	t.CompletedChallenges = append(t.CompletedChallenges, id)
	t.CurrentChallengeIndex++

	if sub != nil {
		if t.ChallengeSubmissions == nil {
			t.ChallengeSubmissions = make(map[models.ChallengeID]models.Submission)
		}
		t.ChallengeSubmissions[id] = *sub
	}

	// While gating is on, the completion time of a non-final challenge is
	// written later, at the arrival-photo approval instant. The final
	// challenge has no following unlock period to protect.
	if !e.snap.PhotoVerificationEnabled || int(id) >= total {
		e.recordCompletionTime(t, id, e.now())
	}

	if len(t.CompletedChallenges) >= total && t.FinishTime == nil {
		now := e.now()
		t.FinishTime = &now
	}
	return true
}

// PassTeam advances a team past its current challenge as an admin
// override, with a synthesized submission record and an audit log entry.
func (e *Engine) PassTeam(team models.TeamName, total int, actorID models.UserID, actorName string) bool {
	t, ok := e.snap.Teams[team]
	if !ok {
		return false
	}
	id := models.ChallengeID(t.CurrentChallengeIndex + 1)
	if int(id) > total {
		return false
	}

	sub := &models.Submission{
		Type:          "admin_override",
		SubmittedBy:   actorID,
		SubmitterName: actorName,
		SubmittedAt:   e.now(),
	}
	if !e.complete(team, id, total, sub) {
		return false
	}

	e.snap.AuditLog = append(e.snap.AuditLog, models.AuditLogEntry{
		Action:      "pass_team",
		Team:        team,
		ChallengeID: id,
		ActorID:     actorID,
		ActorName:   actorName,
		At:          e.now(),
	})
	e.persist()
	return true
}

func (e *Engine) recordCompletionTime(t *models.Team, id models.ChallengeID, at time.Time) {
	if t.ChallengeCompletionTimes == nil {
		t.ChallengeCompletionTimes = make(map[models.ChallengeID]time.Time)
	}
	t.ChallengeCompletionTimes[id] = at
}

// SetCompletionTime stamps a challenge completion time unconditionally.
func (e *Engine) SetCompletionTime(team models.TeamName, id models.ChallengeID) bool {
	t, ok := e.snap.Teams[team]
	if !ok {
		return false
	}
	e.recordCompletionTime(t, id, e.now())
	e.persist()
	return true
}

// CompletionTime returns when the challenge's penalty clock started, if
// it has been recorded yet.
func (e *Engine) CompletionTime(team models.TeamName, id models.ChallengeID) (time.Time, bool) {
	t, ok := e.snap.Teams[team]
	if !ok {
		return time.Time{}, false
	}
	at, ok := t.ChallengeCompletionTimes[id]
	return at, ok
}

// UpdateChecklistItem records one checklist item as done or not done.
func (e *Engine) UpdateChecklistItem(team models.TeamName, id models.ChallengeID, item string, done bool) bool {
	t, ok := e.snap.Teams[team]
	if !ok {
		return false
	}
	if t.ChecklistProgress == nil {
		t.ChecklistProgress = make(map[models.ChallengeID]map[string]bool)
	}
	if t.ChecklistProgress[id] == nil {
		t.ChecklistProgress[id] = make(map[string]bool)
	}
	t.ChecklistProgress[id][item] = done
	e.persist()
	return true
}

// ChecklistProgress returns the per-item completion map for a challenge.
func (e *Engine) ChecklistProgress(team models.TeamName, id models.ChallengeID) map[string]bool {
	t, ok := e.snap.Teams[team]
	if !ok {
		return nil
	}
	return t.ChecklistProgress[id]
}

// IsChecklistComplete reports whether every given item has been checked.
func (e *Engine) IsChecklistComplete(team models.TeamName, id models.ChallengeID, items []string) bool {
	progress := e.ChecklistProgress(team, id)
	for _, item := range items {
		if !progress[item] {
			return false
		}
	}
	return true
}
