package game

import (
	"amazing-race/internal/models"
)

// CreateTournament builds a single-elimination bracket for a challenge.
// Team order is shuffled; there is no seeding. Fails when a tournament
// already exists for the challenge or no teams are given.
func (e *Engine) CreateTournament(id models.ChallengeID, teams []models.TeamName, gameName string) bool {
	if _, exists := e.snap.Tournaments[id]; exists {
		return false
	}
	if len(teams) == 0 {
		return false
	}

	shuffled := make([]models.TeamName, len(teams))
	copy(shuffled, teams)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	t := &models.Tournament{
		ChallengeID: id,
		GameName:    gameName,
		Teams:       shuffled,
		Bracket:     [][]models.TournamentMatch{buildRound(shuffled)},
		Status:      models.TournamentActive,
		CreatedAt:   e.now(),
	}
	// A single-team or all-bye opening round is already decided; advance
	// so callers never observe a bracket stuck on a resolved round.
	settle(t)

	e.snap.Tournaments[id] = t
	e.persist()
	return true
}

// buildRound pairs teams sequentially. An odd count gives the last team
// a bye, which counts as an automatic win.
func buildRound(teams []models.TeamName) []models.TournamentMatch {
	var round []models.TournamentMatch
	for i := 0; i < len(teams); i += 2 {
		if i+1 < len(teams) {
			round = append(round, models.TournamentMatch{
				Team1:  teams[i],
				Team2:  teams[i+1],
				Status: models.MatchPending,
			})
		} else {
			round = append(round, models.TournamentMatch{
				Team1:  teams[i],
				Winner: teams[i],
				Status: models.MatchBye,
			})
		}
	}
	return round
}

// settle advances the bracket while the current round is fully resolved,
// completing the tournament once a single winner remains.
func settle(t *models.Tournament) {
	for t.Status == models.TournamentActive {
		round := t.Bracket[t.CurrentRound]
		winners := make([]models.TeamName, 0, len(round))
		for _, m := range round {
			if m.Status == models.MatchPending {
				return
			}
			winners = append(winners, m.Winner)
		}

		if len(winners) == 1 {
			t.Status = models.TournamentComplete
			t.Rankings = rankings(t, winners[0])
			return
		}
		t.Bracket = append(t.Bracket, buildRound(winners))
		t.CurrentRound++
	}
}

// rankings is champion first, then losers in the order they were knocked
// out walking the bracket. Positions between first and last are
// advisory, not a seeded ranking.
func rankings(t *models.Tournament, champion models.TeamName) []models.TeamName {
	ranks := []models.TeamName{champion}
	for _, round := range t.Bracket {
		for _, m := range round {
			if m.Status != models.MatchComplete {
				continue
			}
			loser := m.Team1
			if m.Winner == m.Team1 {
				loser = m.Team2
			}
			ranks = append(ranks, loser)
		}
	}
	return ranks
}

// ReportMatchWinner resolves the current-round pending match containing
// the winner, advancing the bracket when the round is done.
func (e *Engine) ReportMatchWinner(id models.ChallengeID, winner models.TeamName) bool {
	t, ok := e.snap.Tournaments[id]
	if !ok || t.Status != models.TournamentActive {
		return false
	}

	round := t.Bracket[t.CurrentRound]
	for i := range round {
		m := &round[i]
		if m.Status != models.MatchPending {
			continue
		}
		if m.Team1 != winner && m.Team2 != winner {
			continue
		}
		m.Winner = winner
		m.Status = models.MatchComplete
		settle(t)
		e.persist()
		return true
	}
	return false
}

// Tournament returns the bracket state for a challenge.
func (e *Engine) Tournament(id models.ChallengeID) (*models.Tournament, bool) {
	t, ok := e.snap.Tournaments[id]
	return t, ok
}

// CurrentRoundMatches returns the matches of the round in play, byes
// included.
func (e *Engine) CurrentRoundMatches(id models.ChallengeID) []models.TournamentMatch {
	t, ok := e.snap.Tournaments[id]
	if !ok {
		return nil
	}
	return t.Bracket[t.CurrentRound]
}

// IsTournamentComplete reports whether the bracket has a champion.
func (e *Engine) IsTournamentComplete(id models.ChallengeID) bool {
	t, ok := e.snap.Tournaments[id]
	return ok && t.Status == models.TournamentComplete
}

// TournamentLastPlace returns the last ranked team. Defined only for
// completed tournaments.
func (e *Engine) TournamentLastPlace(id models.ChallengeID) (models.TeamName, bool) {
	t, ok := e.snap.Tournaments[id]
	if !ok || t.Status != models.TournamentComplete || len(t.Rankings) == 0 {
		return "", false
	}
	return t.Rankings[len(t.Rankings)-1], true
}

// ResetTournament removes a tournament so it can be recreated.
func (e *Engine) ResetTournament(id models.ChallengeID) bool {
	if _, ok := e.snap.Tournaments[id]; !ok {
		return false
	}
	delete(e.snap.Tournaments, id)
	e.persist()
	return true
}
