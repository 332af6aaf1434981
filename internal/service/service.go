package service

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"amazing-race/internal/catalog"
	"amazing-race/internal/game"
	"amazing-race/internal/models"
)

// RaceService is the surface the dispatch layers (bot, admin API) talk
// to. It pairs the game engine with the challenge catalog and keeps all
// catalog-aware decisions out of the engine.
type RaceService interface {
	Catalog() *catalog.Catalog
	Engine() *game.Engine

	TeamForUser(userID models.UserID) (models.TeamName, bool)
	CurrentChallenge(team models.TeamName) (*catalog.Challenge, bool)
	RequiresArrivalPhoto(id models.ChallengeID) bool
	ChallengeLockedUntil(team models.TeamName, id models.ChallengeID) (time.Time, bool)

	SubmitAnswer(userID models.UserID, userName, answer string) SubmitResult
	UseHint(userID models.UserID, userName string) HintResult
	CheckItem(userID models.UserID, userName, item string) CheckResult

	HandleArrivalPhoto(userID models.UserID, userName, photoID string) (string, bool)
	HandleAnswerPhoto(userID models.UserID, userName, photoID string) (string, bool)
	ApproveAnswerPhoto(submissionID string) (bool, bool)
	ApproveArrivalPhoto(verificationID string) bool
}

type raceService struct {
	engine *game.Engine
	cat    *catalog.Catalog
	log    *zap.Logger
}

func NewRaceService(engine *game.Engine, cat *catalog.Catalog, log *zap.Logger) RaceService {
	return &raceService{engine: engine, cat: cat, log: log}
}

func (s *raceService) Catalog() *catalog.Catalog { return s.cat }
func (s *raceService) Engine() *game.Engine      { return s.engine }

func (s *raceService) TeamForUser(userID models.UserID) (models.TeamName, bool) {
	return s.engine.TeamByUser(userID)
}

// CurrentChallenge returns the challenge the team should work on next.
func (s *raceService) CurrentChallenge(team models.TeamName) (*catalog.Challenge, bool) {
	t, ok := s.engine.Team(team)
	if !ok {
		return nil, false
	}
	return s.cat.ByID(models.ChallengeID(t.CurrentChallengeIndex + 1))
}

// RequiresArrivalPhoto decides whether a team must prove arrival before
// working on a challenge. The first challenge never does, photo-based
// challenges don't by default (the photo is the answer itself), an
// explicit catalog setting wins, and everything else follows the global
// flag.
func (s *raceService) RequiresArrivalPhoto(id models.ChallengeID) bool {
	if id <= 1 {
		return false
	}
	ch, ok := s.cat.ByID(id)
	if !ok {
		return false
	}
	if ch.RequiresPhotoVerification != nil {
		return *ch.RequiresPhotoVerification
	}
	if ch.Type == catalog.TypePhoto {
		return false
	}
	return s.engine.PhotoVerificationEnabled()
}

// ChallengeLockedUntil reports the hint-penalty unlock time for a
// challenge, using the previous challenge's per-hint penalty minutes.
func (s *raceService) ChallengeLockedUntil(team models.TeamName, id models.ChallengeID) (time.Time, bool) {
	return s.engine.UnlockTime(team, id, s.cat.PenaltyMinutesPerHint(id-1))
}

type SubmitResult struct {
	Team         models.TeamName
	Challenge    *catalog.Challenge
	Correct      bool
	Completed    bool
	Finished     bool
	Locked       bool
	LockedUntil  time.Time
	NeedsArrival bool
	NoTeam       bool
	GameNotLive  bool
}

// SubmitAnswer verifies a text or multi-choice answer against the
// catalog and advances the team on success.
func (s *raceService) SubmitAnswer(userID models.UserID, userName, answer string) SubmitResult {
	if !s.engine.GameStarted() || s.engine.GameEnded() {
		return SubmitResult{GameNotLive: true}
	}
	team, ok := s.engine.TeamByUser(userID)
	if !ok {
		return SubmitResult{NoTeam: true}
	}
	res := SubmitResult{Team: team}

	ch, ok := s.CurrentChallenge(team)
	if !ok {
		return res
	}
	res.Challenge = ch

	if until, locked := s.ChallengeLockedUntil(team, ch.ID); locked && s.nowBefore(until) {
		res.Locked = true
		res.LockedUntil = until
		return res
	}
	if s.RequiresArrivalPhoto(ch.ID) && !s.arrivalVerified(team, ch.ID) {
		res.NeedsArrival = true
		return res
	}

	if !verifyAnswer(ch, answer) {
		return res
	}
	res.Correct = true

	sub := &models.Submission{
		Type:          "answer",
		Answer:        answer,
		SubmittedBy:   userID,
		SubmitterName: userName,
		SubmittedAt:   time.Now(),
	}
	res.Completed = s.engine.CompleteChallenge(team, ch.ID, s.cat.Total(), sub)
	if t, ok := s.engine.Team(team); ok && t.FinishTime != nil {
		res.Finished = true
	}
	return res
}

func (s *raceService) nowBefore(t time.Time) bool {
	return time.Now().Before(t)
}

func (s *raceService) arrivalVerified(team models.TeamName, id models.ChallengeID) bool {
	t, ok := s.engine.Team(team)
	if !ok {
		return false
	}
	_, verified := t.PhotoVerifications[id]
	return verified
}

// verifyAnswer compares case-insensitively against the answer and any
// accepted variants.
func verifyAnswer(ch *catalog.Challenge, answer string) bool {
	given := strings.ToLower(strings.TrimSpace(answer))
	if given == "" {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(ch.Answer), given) {
		return true
	}
	for _, a := range ch.Answers {
		if strings.EqualFold(strings.TrimSpace(a), given) {
			return true
		}
	}
	return false
}

type HintResult struct {
	Team      models.TeamName
	Challenge *catalog.Challenge
	Hint      string
	HintIndex int
	Charged   bool
	Exhausted bool
	NoTeam    bool
}

// UseHint reveals the team's next unused hint for its current challenge
// and charges the penalty for it.
func (s *raceService) UseHint(userID models.UserID, userName string) HintResult {
	team, ok := s.engine.TeamByUser(userID)
	if !ok {
		return HintResult{NoTeam: true}
	}
	res := HintResult{Team: team}

	ch, ok := s.CurrentChallenge(team)
	if !ok {
		return res
	}
	res.Challenge = ch

	next := s.engine.HintCount(team, ch.ID)
	if next >= len(ch.Hints) {
		res.Exhausted = true
		return res
	}

	res.HintIndex = next
	res.Hint = ch.Hints[next]
	res.Charged = s.engine.UseHint(team, ch.ID, next, userID, userName)
	return res
}

type CheckResult struct {
	Team         models.TeamName
	Challenge    *catalog.Challenge
	Item         string
	Checked      bool
	Completed    bool
	Remaining    int
	UnknownItem  bool
	NotChecklist bool
	NoTeam       bool
}

// CheckItem ticks off one checklist item on the team's current challenge,
// completing the challenge once every item is done.
func (s *raceService) CheckItem(userID models.UserID, userName, item string) CheckResult {
	team, ok := s.engine.TeamByUser(userID)
	if !ok {
		return CheckResult{NoTeam: true}
	}
	res := CheckResult{Team: team}

	ch, ok := s.CurrentChallenge(team)
	if !ok {
		return res
	}
	res.Challenge = ch
	if ch.Type != catalog.TypeChecklist {
		res.NotChecklist = true
		return res
	}

	given := strings.ToLower(strings.TrimSpace(item))
	for _, want := range ch.Checklist {
		if strings.ToLower(want) != given {
			continue
		}
		res.Item = want
		res.Checked = s.engine.UpdateChecklistItem(team, ch.ID, want, true)
		break
	}
	if res.Item == "" {
		res.UnknownItem = true
		return res
	}

	progress := s.engine.ChecklistProgress(team, ch.ID)
	for _, want := range ch.Checklist {
		if !progress[want] {
			res.Remaining++
		}
	}
	if s.engine.IsChecklistComplete(team, ch.ID, ch.Checklist) {
		sub := &models.Submission{
			Type:          "checklist",
			SubmittedBy:   userID,
			SubmitterName: userName,
			SubmittedAt:   time.Now(),
		}
		res.Completed = s.engine.CompleteChallenge(team, ch.ID, s.cat.Total(), sub)
	}
	return res
}

// HandleArrivalPhoto queues a location-arrival proof for the team's
// current challenge. Refused while one is already pending.
func (s *raceService) HandleArrivalPhoto(userID models.UserID, userName, photoID string) (string, bool) {
	team, ok := s.engine.TeamByUser(userID)
	if !ok {
		return "", false
	}
	ch, ok := s.CurrentChallenge(team)
	if !ok {
		return "", false
	}
	if s.engine.HasPendingVerification(team, ch.ID) {
		return "", false
	}
	return s.engine.AddPendingPhotoVerification(team, ch.ID, photoID, userID, userName)
}

// HandleAnswerPhoto queues a photo-as-answer for the team's current
// challenge.
func (s *raceService) HandleAnswerPhoto(userID models.UserID, userName, photoID string) (string, bool) {
	team, ok := s.engine.TeamByUser(userID)
	if !ok {
		return "", false
	}
	ch, ok := s.CurrentChallenge(team)
	if !ok {
		return "", false
	}
	return s.engine.AddPendingPhotoSubmission(team, ch.ID, photoID, userID, userName)
}

// ApproveAnswerPhoto resolves a queued photo answer using the catalog's
// photo requirement for its challenge.
func (s *raceService) ApproveAnswerPhoto(submissionID string) (bool, bool) {
	sub, ok := s.engine.PhotoSubmissionByID(submissionID)
	if !ok {
		return false, false
	}
	return s.engine.ApprovePhotoSubmission(submissionID, s.cat.Total(), s.cat.PhotosRequired(sub.ChallengeID))
}

// ApproveArrivalPhoto resolves a queued arrival proof, which may start
// the previous challenge's penalty clock.
func (s *raceService) ApproveArrivalPhoto(verificationID string) bool {
	return s.engine.ApprovePhotoVerification(verificationID)
}
