package game

import (
	"sort"
	"time"

	"amazing-race/internal/models"
)

// CreateTeam registers a new team with the captain as its first member.
// Fails when the name is taken or the captain already belongs to a team.
func (e *Engine) CreateTeam(name models.TeamName, captainID models.UserID, captainName string) bool {
	if _, exists := e.snap.Teams[name]; exists {
		return false
	}
	if _, ok := e.TeamByUser(captainID); ok {
		return false
	}

	e.snap.Teams[name] = &models.Team{
		Name:        name,
		CaptainID:   captainID,
		CaptainName: captainName,
		Members:     []models.TeamMember{{ID: captainID, Name: captainName}},
		CreatedAt:   e.now(),
	}
	e.persist()
	return true
}

// JoinTeam adds a user to a team. A user may belong to at most one team,
// and a team holds at most maxTeamSize members.
func (e *Engine) JoinTeam(name models.TeamName, userID models.UserID, userName string, maxTeamSize int) bool {
	team, ok := e.snap.Teams[name]
	if !ok {
		return false
	}
	if _, taken := e.TeamByUser(userID); taken {
		return false
	}
	if len(team.Members) >= maxTeamSize {
		return false
	}

	team.Members = append(team.Members, models.TeamMember{ID: userID, Name: userName})
	e.persist()
	return true
}

// RemoveMember removes a user from a team. The captain cannot be removed
// while they are the only member; otherwise captaincy passes to the first
// remaining member.
func (e *Engine) RemoveMember(name models.TeamName, userID models.UserID) bool {
	team, ok := e.snap.Teams[name]
	if !ok {
		return false
	}
	if team.CaptainID == userID && len(team.Members) == 1 {
		return false
	}

	members := team.Members[:0]
	for _, m := range team.Members {
		if m.ID != userID {
			members = append(members, m)
		}
	}
	team.Members = members

	if team.CaptainID == userID && len(team.Members) > 0 {
		team.CaptainID = team.Members[0].ID
		team.CaptainName = team.Members[0].Name
	}
	e.persist()
	return true
}

// RenameTeam moves a team to a new unique name, carrying its hint usage.
func (e *Engine) RenameTeam(name, newName models.TeamName) bool {
	team, ok := e.snap.Teams[name]
	if !ok || name == newName {
		return ok
	}
	if _, taken := e.snap.Teams[newName]; taken {
		return false
	}

	delete(e.snap.Teams, name)
	team.Name = newName
	e.snap.Teams[newName] = team

	if usage, ok := e.snap.HintUsage[name]; ok {
		delete(e.snap.HintUsage, name)
		e.snap.HintUsage[newName] = usage
	}
	e.persist()
	return true
}

// SetCaptain reassigns the team captain.
func (e *Engine) SetCaptain(name models.TeamName, captainID models.UserID, captainName string) bool {
	team, ok := e.snap.Teams[name]
	if !ok {
		return false
	}
	team.CaptainID = captainID
	team.CaptainName = captainName
	e.persist()
	return true
}

// RemoveTeam deletes a team entirely.
func (e *Engine) RemoveTeam(name models.TeamName) bool {
	if _, ok := e.snap.Teams[name]; !ok {
		return false
	}
	delete(e.snap.Teams, name)
	delete(e.snap.HintUsage, name)
	e.persist()
	return true
}

// Team returns a team by name.
func (e *Engine) Team(name models.TeamName) (*models.Team, bool) {
	team, ok := e.snap.Teams[name]
	return team, ok
}

// TeamByUser returns the team a user belongs to.
func (e *Engine) TeamByUser(userID models.UserID) (models.TeamName, bool) {
	for name, team := range e.snap.Teams {
		if team.HasMember(userID) {
			return name, true
		}
	}
	return "", false
}

// TeamNames returns all team names sorted alphabetically.
func (e *Engine) TeamNames() []models.TeamName {
	names := make([]models.TeamName, 0, len(e.snap.Teams))
	for name := range e.snap.Teams {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

type LeaderboardEntry struct {
	Team       models.TeamName `json:"team"`
	Completed  int             `json:"completed"`
	FinishTime *time.Time      `json:"finish_time,omitempty"`
}

// Leaderboard orders finished teams by finish time, then racing teams by
// completed challenge count. Names break ties to keep the order stable.
func (e *Engine) Leaderboard() []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(e.snap.Teams))
	for name, team := range e.snap.Teams {
		entries = append(entries, LeaderboardEntry{
			Team:       name,
			Completed:  len(team.CompletedChallenges),
			FinishTime: team.FinishTime,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.FinishTime != nil && b.FinishTime != nil:
			if !a.FinishTime.Equal(*b.FinishTime) {
				return a.FinishTime.Before(*b.FinishTime)
			}
		case a.FinishTime != nil:
			return true
		case b.FinishTime != nil:
			return false
		default:
			if a.Completed != b.Completed {
				return a.Completed > b.Completed
			}
		}
		return a.Team < b.Team
	})
	return entries
}
