package game

import (
	"github.com/google/uuid"

	"amazing-race/internal/models"
)

// AddPendingPhotoVerification queues an arrival photo for admin review.
// Callers are expected to check HasPendingVerification first so a team
// cannot stack requests for the same challenge.
func (e *Engine) AddPendingPhotoVerification(team models.TeamName, id models.ChallengeID, photoID string, userID models.UserID, userName string) (string, bool) {
	if _, ok := e.snap.Teams[team]; !ok {
		return "", false
	}

	v := &models.PendingPhotoVerification{
		ID:            uuid.NewString(),
		Team:          team,
		ChallengeID:   id,
		PhotoID:       photoID,
		SubmittedBy:   userID,
		SubmitterName: userName,
		SubmittedAt:   e.now(),
		Status:        models.StatusPending,
	}
	e.snap.PendingPhotoVerifications = append(e.snap.PendingPhotoVerifications, v)
	e.persist()
	return v.ID, true
}

// HasPendingVerification reports whether an unresolved arrival photo
// already exists for the (team, challenge) pair.
func (e *Engine) HasPendingVerification(team models.TeamName, id models.ChallengeID) bool {
	for _, v := range e.snap.PendingPhotoVerifications {
		if v.Team == team && v.ChallengeID == id && v.Status == models.StatusPending {
			return true
		}
	}
	return false
}

// PendingPhotoVerifications returns unresolved arrival photos in
// submission order.
func (e *Engine) PendingPhotoVerifications() []*models.PendingPhotoVerification {
	var pending []*models.PendingPhotoVerification
	for _, v := range e.snap.PendingPhotoVerifications {
		if v.Status == models.StatusPending {
			pending = append(pending, v)
		}
	}
	return pending
}

// PhotoVerificationByID looks up a verification request regardless of its
// status.
func (e *Engine) PhotoVerificationByID(id string) (*models.PendingPhotoVerification, bool) {
	for _, v := range e.snap.PendingPhotoVerifications {
		if v.ID == id {
			return v, true
		}
	}
	return nil, false
}

// ApprovePhotoVerification resolves an arrival photo as approved. The
// approval instant becomes the previous challenge's completion time when
// that write was deferred, which is when the penalty clock actually
// starts. Re-approving is a no-op.
func (e *Engine) ApprovePhotoVerification(id string) bool {
	v, ok := e.PhotoVerificationByID(id)
	if !ok || v.Status != models.StatusPending {
		return false
	}
	t, ok := e.snap.Teams[v.Team]
	if !ok {
		return false
	}

	now := e.now()
	v.Status = models.StatusApproved

	if t.PhotoVerifications == nil {
		t.PhotoVerifications = make(map[models.ChallengeID]models.PhotoVerification)
	}
	t.PhotoVerifications[v.ChallengeID] = models.PhotoVerification{
		PhotoID:    v.PhotoID,
		ApprovedAt: now,
	}

	// Deferred completion gate: the challenge being unlocked is
	// v.ChallengeID, so the previous one gets its timestamp now, unless
	// it was already set.
	prev := v.ChallengeID - 1
	if prev >= 1 && e.isCompleted(t, prev) {
		if _, set := t.ChallengeCompletionTimes[prev]; !set {
			e.recordCompletionTime(t, prev, now)
		}
	}

	e.persist()
	return true
}

// RejectPhotoVerification resolves an arrival photo as rejected.
func (e *Engine) RejectPhotoVerification(id string) bool {
	v, ok := e.PhotoVerificationByID(id)
	if !ok || v.Status != models.StatusPending {
		return false
	}
	v.Status = models.StatusRejected
	e.persist()
	return true
}

func (e *Engine) isCompleted(t *models.Team, id models.ChallengeID) bool {
	for _, done := range t.CompletedChallenges {
		if done == id {
			return true
		}
	}
	return false
}

// AddPendingPhotoSubmission queues a photo-as-answer for admin review.
func (e *Engine) AddPendingPhotoSubmission(team models.TeamName, id models.ChallengeID, photoID string, userID models.UserID, userName string) (string, bool) {
	if _, ok := e.snap.Teams[team]; !ok {
		return "", false
	}

	s := &models.PendingPhotoSubmission{
		ID:            uuid.NewString(),
		Team:          team,
		ChallengeID:   id,
		PhotoID:       photoID,
		SubmittedBy:   userID,
		SubmitterName: userName,
		SubmittedAt:   e.now(),
		Status:        models.StatusPending,
	}
	e.snap.PendingPhotoSubmissions = append(e.snap.PendingPhotoSubmissions, s)
	e.persist()
	return s.ID, true
}

// PendingPhotoSubmissions returns unresolved photo answers in submission
// order.
func (e *Engine) PendingPhotoSubmissions() []*models.PendingPhotoSubmission {
	var pending []*models.PendingPhotoSubmission
	for _, s := range e.snap.PendingPhotoSubmissions {
		if s.Status == models.StatusPending {
			pending = append(pending, s)
		}
	}
	return pending
}

// PhotoSubmissionByID looks up a photo answer regardless of its status.
func (e *Engine) PhotoSubmissionByID(id string) (*models.PendingPhotoSubmission, bool) {
	for _, s := range e.snap.PendingPhotoSubmissions {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// ApprovePhotoSubmission resolves a photo answer as approved and counts
// it toward the challenge's photo requirement. Only when the approved
// count reaches photosRequired does the challenge complete; below the
// threshold progress is recorded and the challenge stays open. The first
// return value reports whether this approval completed the challenge.
func (e *Engine) ApprovePhotoSubmission(id string, total, photosRequired int) (bool, bool) {
	s, ok := e.PhotoSubmissionByID(id)
	if !ok || s.Status != models.StatusPending {
		return false, false
	}
	t, ok := e.snap.Teams[s.Team]
	if !ok {
		return false, false
	}

	s.Status = models.StatusApproved
	if t.PhotoSubmissionCounts == nil {
		t.PhotoSubmissionCounts = make(map[models.ChallengeID]int)
	}
	t.PhotoSubmissionCounts[s.ChallengeID]++

	if photosRequired < 1 {
		photosRequired = 1
	}

	completed := false
	if t.PhotoSubmissionCounts[s.ChallengeID] >= photosRequired {
		sub := &models.Submission{
			Type:          "photo",
			PhotoID:       s.PhotoID,
			SubmittedBy:   s.SubmittedBy,
			SubmitterName: s.SubmitterName,
			SubmittedAt:   e.now(),
		}
		completed = e.complete(s.Team, s.ChallengeID, total, sub)
	}

	e.persist()
	return completed, true
}

// RejectPhotoSubmission resolves a photo answer as rejected without
// touching the counter.
func (e *Engine) RejectPhotoSubmission(id string) bool {
	s, ok := e.PhotoSubmissionByID(id)
	if !ok || s.Status != models.StatusPending {
		return false
	}
	s.Status = models.StatusRejected
	e.persist()
	return true
}

// PhotoSubmissionCount returns the team's approved photo count for a
// challenge.
func (e *Engine) PhotoSubmissionCount(team models.TeamName, id models.ChallengeID) int {
	t, ok := e.snap.Teams[team]
	if !ok {
		return 0
	}
	return t.PhotoSubmissionCounts[id]
}

// IncrementPhotoSubmissionCount bumps the approved photo counter without
// going through a queued submission.
func (e *Engine) IncrementPhotoSubmissionCount(team models.TeamName, id models.ChallengeID) bool {
	t, ok := e.snap.Teams[team]
	if !ok {
		return false
	}
	if t.PhotoSubmissionCounts == nil {
		t.PhotoSubmissionCounts = make(map[models.ChallengeID]int)
	}
	t.PhotoSubmissionCounts[id]++
	e.persist()
	return true
}
