package models

import (
	"time"
)

// ChallengeID is a 1-based, contiguous challenge identifier from the catalog.
type ChallengeID int

// UserID is a Telegram user identifier.
type UserID int64

// TeamName is the unique key of a team.
type TeamName string

type TeamMember struct {
	ID   UserID `json:"id"`
	Name string `json:"name"`
}

// Submission records how a challenge was answered.
type Submission struct {
	Type          string    `json:"type"`
	Answer        string    `json:"answer,omitempty"`
	PhotoID       string    `json:"photo_id,omitempty"`
	SubmittedBy   UserID    `json:"submitted_by"`
	SubmitterName string    `json:"submitter_name"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// PhotoVerification is the team-visible record of an approved arrival photo.
type PhotoVerification struct {
	PhotoID    string    `json:"photo_id"`
	ApprovedAt time.Time `json:"approved_at"`
}

type Team struct {
	Name                     TeamName                          `json:"name"`
	CaptainID                UserID                            `json:"captain_id"`
	CaptainName              string                            `json:"captain_name"`
	Members                  []TeamMember                      `json:"members"`
	CurrentChallengeIndex    int                               `json:"current_challenge_index"`
	CompletedChallenges      []ChallengeID                     `json:"completed_challenges"`
	ChallengeCompletionTimes map[ChallengeID]time.Time         `json:"challenge_completion_times,omitempty"`
	ChallengeSubmissions     map[ChallengeID]Submission        `json:"challenge_submissions,omitempty"`
	PhotoVerifications       map[ChallengeID]PhotoVerification `json:"photo_verifications,omitempty"`
	PhotoSubmissionCounts    map[ChallengeID]int               `json:"photo_submission_counts,omitempty"`
	ChecklistProgress        map[ChallengeID]map[string]bool   `json:"checklist_progress,omitempty"`
	FinishTime               *time.Time                        `json:"finish_time,omitempty"`
	CreatedAt                time.Time                         `json:"created_at"`
}

// HasMember reports whether the given user belongs to the team.
func (t *Team) HasMember(id UserID) bool {
	for _, m := range t.Members {
		if m.ID == id {
			return true
		}
	}
	return false
}

// HintUsage is a single charged hint for a (team, challenge) pair.
type HintUsage struct {
	HintIndex int       `json:"hint_index"`
	UserID    UserID    `json:"user_id"`
	UserName  string    `json:"user_name"`
	UsedAt    time.Time `json:"used_at"`
}

type ReviewStatus string

const (
	StatusPending  ReviewStatus = "pending"
	StatusApproved ReviewStatus = "approved"
	StatusRejected ReviewStatus = "rejected"
)

// PendingPhotoSubmission is a photo offered as the answer to a challenge.
type PendingPhotoSubmission struct {
	ID            string       `json:"id"`
	Team          TeamName     `json:"team"`
	ChallengeID   ChallengeID  `json:"challenge_id"`
	PhotoID       string       `json:"photo_id"`
	SubmittedBy   UserID       `json:"submitted_by"`
	SubmitterName string       `json:"submitter_name"`
	SubmittedAt   time.Time    `json:"submitted_at"`
	Status        ReviewStatus `json:"status"`
}

// PendingPhotoVerification is a photo proving arrival at a challenge location.
type PendingPhotoVerification struct {
	ID            string       `json:"id"`
	Team          TeamName     `json:"team"`
	ChallengeID   ChallengeID  `json:"challenge_id"`
	PhotoID       string       `json:"photo_id"`
	SubmittedBy   UserID       `json:"submitted_by"`
	SubmitterName string       `json:"submitter_name"`
	SubmittedAt   time.Time    `json:"submitted_at"`
	Status        ReviewStatus `json:"status"`
}

type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchComplete MatchStatus = "complete"
	MatchBye      MatchStatus = "bye"
)

// TournamentMatch pairs two teams in a bracket round. Team2 is empty for a
// bye, in which case Team1 advances automatically.
type TournamentMatch struct {
	Team1  TeamName    `json:"team1"`
	Team2  TeamName    `json:"team2,omitempty"`
	Winner TeamName    `json:"winner,omitempty"`
	Status MatchStatus `json:"status"`
}

type TournamentStatus string

const (
	TournamentActive   TournamentStatus = "active"
	TournamentComplete TournamentStatus = "complete"
)

type Tournament struct {
	ChallengeID  ChallengeID         `json:"challenge_id"`
	GameName     string              `json:"game_name"`
	Teams        []TeamName          `json:"teams"`
	Bracket      [][]TournamentMatch `json:"bracket"`
	CurrentRound int                 `json:"current_round"`
	Rankings     []TeamName          `json:"rankings,omitempty"`
	Status       TournamentStatus    `json:"status"`
	CreatedAt    time.Time           `json:"created_at"`
}

// AuditLogEntry records an admin override action.
type AuditLogEntry struct {
	Action      string      `json:"action"`
	Team        TeamName    `json:"team"`
	ChallengeID ChallengeID `json:"challenge_id"`
	ActorID     UserID      `json:"actor_id"`
	ActorName   string      `json:"actor_name"`
	At          time.Time   `json:"at"`
}

// Snapshot is the whole game state as it crosses the persistence boundary.
type Snapshot struct {
	Teams                     map[TeamName]*Team                       `json:"teams"`
	HintUsage                 map[TeamName]map[ChallengeID][]HintUsage `json:"hint_usage"`
	PendingPhotoSubmissions   []*PendingPhotoSubmission                `json:"pending_photo_submissions"`
	PendingPhotoVerifications []*PendingPhotoVerification              `json:"pending_photo_verifications"`
	Tournaments               map[ChallengeID]*Tournament              `json:"tournaments"`
	GameStarted               bool                                     `json:"game_started"`
	GameEnded                 bool                                     `json:"game_ended"`
	PhotoVerificationEnabled  bool                                     `json:"photo_verification_enabled"`
	AuditLog                  []AuditLogEntry                          `json:"audit_log"`
}

// NewSnapshot returns an empty snapshot with all containers allocated.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Teams:       make(map[TeamName]*Team),
		HintUsage:   make(map[TeamName]map[ChallengeID][]HintUsage),
		Tournaments: make(map[ChallengeID]*Tournament),
	}
}
