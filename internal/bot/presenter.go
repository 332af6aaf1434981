package bot

import (
	"fmt"
	"strings"
	"time"

	"amazing-race/internal/catalog"
	"amazing-race/internal/models"
	"amazing-race/internal/service"
)

// Presenter adapts the race service to the bot's text-based Service
// interface. All user-facing wording lives here.
type Presenter struct {
	race        service.RaceService
	maxTeamSize int
}

func NewPresenter(race service.RaceService, maxTeamSize int) *Presenter {
	return &Presenter{race: race, maxTeamSize: maxTeamSize}
}

func (p *Presenter) SubmitAnswerText(userID models.UserID, userName, answer string) string {
	res := p.race.SubmitAnswer(userID, userName, answer)
	switch {
	case res.GameNotLive:
		return "The game is not running right now."
	case res.NoTeam:
		return "You are not on a team yet. Use /createteam or /jointeam first."
	case res.Challenge == nil:
		return "Your team has already finished all challenges!"
	case res.Locked:
		remaining := time.Until(res.LockedUntil).Round(time.Second)
		return fmt.Sprintf("Challenge locked by hint penalty. Time remaining: %s (unlocks at %s).",
			remaining, res.LockedUntil.Format("15:04:05"))
	case res.NeedsArrival:
		return fmt.Sprintf("Challenge #%d needs an arrival photo first. Send a photo of your team at the location and wait for approval.", res.Challenge.ID)
	case !res.Correct:
		return "Not quite. Try again!"
	case !res.Completed:
		return "Error completing the challenge. Please try again."
	case res.Finished:
		return fmt.Sprintf("Correct! Team '%s' finished the race! Congratulations!", res.Team)
	default:
		return fmt.Sprintf("Correct! Team '%s' completed challenge #%d: %s.", res.Team, res.Challenge.ID, res.Challenge.Title)
	}
}

func (p *Presenter) UseHintText(userID models.UserID, userName string) string {
	res := p.race.UseHint(userID, userName)
	switch {
	case res.NoTeam:
		return "You are not on a team yet."
	case res.Challenge == nil:
		return "Your team has no open challenge."
	case res.Exhausted:
		return "No more hints for this challenge."
	case !res.Charged:
		return "Could not record the hint. Please try again."
	default:
		per := p.race.Catalog().PenaltyMinutesPerHint(res.Challenge.ID)
		return fmt.Sprintf("Hint %d: %s\n(+%d minute penalty before the next challenge unlocks)",
			res.HintIndex+1, res.Hint, per)
	}
}

func (p *Presenter) CurrentChallengeText(userID models.UserID) string {
	team, ok := p.race.TeamForUser(userID)
	if !ok {
		return "You are not on a team yet."
	}
	ch, ok := p.race.CurrentChallenge(team)
	if !ok {
		return "Your team has finished all challenges!"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Challenge #%d: %s\n%s\n", ch.ID, ch.Title, ch.Description)
	if until, locked := p.race.ChallengeLockedUntil(team, ch.ID); locked && time.Now().Before(until) {
		fmt.Fprintf(&sb, "\nLocked until %s (hint penalty).", until.Format("15:04:05"))
	}
	if p.race.RequiresArrivalPhoto(ch.ID) {
		sb.WriteString("\nSend an arrival photo before submitting your answer.")
	}
	if len(ch.Checklist) > 0 {
		sb.WriteString("\nChecklist:\n")
		for _, item := range ch.Checklist {
			fmt.Fprintf(&sb, "- %s\n", item)
		}
	}
	return sb.String()
}

func (p *Presenter) LeaderboardText() string {
	entries := p.race.Engine().Leaderboard()
	if len(entries) == 0 {
		return "No teams yet."
	}
	var sb strings.Builder
	sb.WriteString("Leaderboard:\n")
	for i, e := range entries {
		if e.FinishTime != nil {
			fmt.Fprintf(&sb, "%d. %s - finished at %s\n", i+1, e.Team, e.FinishTime.Format("15:04:05"))
		} else {
			fmt.Fprintf(&sb, "%d. %s - %d/%d challenges\n", i+1, e.Team, e.Completed, p.race.Catalog().Total())
		}
	}
	return sb.String()
}

func (p *Presenter) TeamsText() string {
	engine := p.race.Engine()
	names := engine.TeamNames()
	if len(names) == 0 {
		return "No teams yet."
	}
	var sb strings.Builder
	for _, name := range names {
		team, _ := engine.Team(name)
		fmt.Fprintf(&sb, "%s (captain %s, %d members, %d/%d done)\n",
			name, team.CaptainName, len(team.Members), len(team.CompletedChallenges), p.race.Catalog().Total())
	}
	return sb.String()
}

func (p *Presenter) PendingText() string {
	engine := p.race.Engine()
	var sb strings.Builder

	subs := engine.PendingPhotoSubmissions()
	sb.WriteString(fmt.Sprintf("Pending photo answers: %d\n", len(subs)))
	for _, s := range subs {
		fmt.Fprintf(&sb, "- %s: team %s, challenge #%d, by %s\n", s.ID, s.Team, s.ChallengeID, s.SubmitterName)
	}

	vers := engine.PendingPhotoVerifications()
	sb.WriteString(fmt.Sprintf("Pending arrival photos: %d\n", len(vers)))
	for _, v := range vers {
		fmt.Fprintf(&sb, "- %s: team %s, challenge #%d, by %s\n", v.ID, v.Team, v.ChallengeID, v.SubmitterName)
	}
	return sb.String()
}

func (p *Presenter) TournamentStatusText(id models.ChallengeID) string {
	t, ok := p.race.Engine().Tournament(id)
	if !ok {
		return "No tournament for that challenge."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Tournament '%s' (challenge #%d), status: %s\n", t.GameName, t.ChallengeID, t.Status)
	for r, round := range t.Bracket {
		fmt.Fprintf(&sb, "Round %d:\n", r+1)
		for _, m := range round {
			switch m.Status {
			case models.MatchBye:
				fmt.Fprintf(&sb, "  %s - bye\n", m.Team1)
			case models.MatchComplete:
				fmt.Fprintf(&sb, "  %s vs %s - winner %s\n", m.Team1, m.Team2, m.Winner)
			default:
				fmt.Fprintf(&sb, "  %s vs %s - pending\n", m.Team1, m.Team2)
			}
		}
	}
	if t.Status == models.TournamentComplete {
		sb.WriteString("Rankings:\n")
		for i, name := range t.Rankings {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, name)
		}
	}
	return sb.String()
}

func (p *Presenter) CreateTeam(name models.TeamName, userID models.UserID, userName string) bool {
	return p.race.Engine().CreateTeam(name, userID, userName)
}

func (p *Presenter) JoinTeam(name models.TeamName, userID models.UserID, userName string) bool {
	return p.race.Engine().JoinTeam(name, userID, userName, p.maxTeamSize)
}

func (p *Presenter) CheckItemText(userID models.UserID, userName, item string) string {
	res := p.race.CheckItem(userID, userName, item)
	switch {
	case res.NoTeam:
		return "You are not on a team yet."
	case res.Challenge == nil:
		return "Your team has no open challenge."
	case res.NotChecklist:
		return "The current challenge has no checklist."
	case res.UnknownItem:
		return "That item is not on the checklist. Use /current to see it."
	case !res.Checked:
		return "Could not record the item. Please try again."
	case res.Completed:
		return fmt.Sprintf("'%s' done - that was the last one. Challenge #%d complete!", res.Item, res.Challenge.ID)
	default:
		return fmt.Sprintf("'%s' done. %d item(s) to go.", res.Item, res.Remaining)
	}
}

func (p *Presenter) MyTeamText(userID models.UserID) string {
	name, ok := p.race.TeamForUser(userID)
	if !ok {
		return "You are not on a team yet."
	}
	team, _ := p.race.Engine().Team(name)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Team '%s'\nCaptain: %s\nProgress: %d/%d\nMembers:\n",
		name, team.CaptainName, len(team.CompletedChallenges), p.race.Catalog().Total())
	for _, m := range team.Members {
		fmt.Fprintf(&sb, "- %s\n", m.Name)
	}
	return sb.String()
}

// HandlePhoto routes an incoming photo: arrival proof while the current
// challenge is gated and unverified, otherwise a photo answer for photo
// challenges.
func (p *Presenter) HandlePhoto(userID models.UserID, userName, photoID string) string {
	team, ok := p.race.TeamForUser(userID)
	if !ok {
		return "You are not on a team yet."
	}
	ch, ok := p.race.CurrentChallenge(team)
	if !ok {
		return "Your team has finished all challenges!"
	}

	if p.race.RequiresArrivalPhoto(ch.ID) {
		t, _ := p.race.Engine().Team(team)
		if _, verified := t.PhotoVerifications[ch.ID]; !verified {
			if _, queued := p.race.HandleArrivalPhoto(userID, userName, photoID); queued {
				return "Arrival photo received. Waiting for admin approval."
			}
			return "Your team already has an arrival photo waiting for approval."
		}
	}

	if ch.Type == catalog.TypePhoto {
		if _, queued := p.race.HandleAnswerPhoto(userID, userName, photoID); queued {
			required := p.race.Catalog().PhotosRequired(ch.ID)
			have := p.race.Engine().PhotoSubmissionCount(team, ch.ID)
			return fmt.Sprintf("Photo submitted for review (%d/%d approved so far).", have, required)
		}
		return "Could not queue the photo. Please try again."
	}
	return "The current challenge does not take photos."
}

func (p *Presenter) StartGame() string {
	p.race.Engine().StartGame()
	return "Game started. Good luck, teams!"
}

func (p *Presenter) EndGame() string {
	p.race.Engine().EndGame()
	return "Game ended. Thanks for playing!"
}

func (p *Presenter) PassTeam(team models.TeamName, actorID models.UserID, actorName string) bool {
	return p.race.Engine().PassTeam(team, p.race.Catalog().Total(), actorID, actorName)
}

func (p *Presenter) ApproveAnswerPhotoByID(id string) string {
	completed, ok := p.race.ApproveAnswerPhoto(id)
	if !ok {
		return "No pending photo answer with that id."
	}
	if completed {
		return "Photo approved. The challenge is complete."
	}
	return "Photo approved. More photos are still required."
}

func (p *Presenter) RejectAnswerPhotoByID(id string) string {
	if p.race.Engine().RejectPhotoSubmission(id) {
		return "Photo rejected."
	}
	return "No pending photo answer with that id."
}

func (p *Presenter) ApproveArrivalPhotoByID(id string) string {
	if p.race.ApproveArrivalPhoto(id) {
		return "Arrival photo approved. The team's penalty clock starts now."
	}
	return "No pending arrival photo with that id."
}

func (p *Presenter) RejectArrivalPhotoByID(id string) string {
	if p.race.Engine().RejectPhotoVerification(id) {
		return "Arrival photo rejected."
	}
	return "No pending arrival photo with that id."
}

func (p *Presenter) TogglePhotoVerification() bool {
	return p.race.Engine().TogglePhotoVerification()
}

func (p *Presenter) ReportTournamentWin(id models.ChallengeID, winner models.TeamName) string {
	if !p.race.Engine().ReportMatchWinner(id, winner) {
		return "Could not record the win. Check the challenge id and that the team has a pending match."
	}
	if p.race.Engine().IsTournamentComplete(id) {
		last, _ := p.race.Engine().TournamentLastPlace(id)
		t, _ := p.race.Engine().Tournament(id)
		return fmt.Sprintf("Tournament complete! Champion: %s. Last place: %s.", t.Rankings[0], last)
	}
	return "Win recorded."
}

func (p *Presenter) ResetTournament(id models.ChallengeID) bool {
	return p.race.Engine().ResetTournament(id)
}
