package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"amazing-race/internal/models"
	"amazing-race/internal/service"
)

// AdminHandler exposes the race operations an organizer drives from a
// browser: queues, overrides, tournaments, and standings.
type AdminHandler struct {
	race         service.RaceService
	adminUser    string
	passwordHash []byte
	jwtSecret    string
	maxTeamSize  int
}

func NewAdminHandler(race service.RaceService, user, password, jwtSecret string, maxTeamSize int) (*AdminHandler, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AdminHandler{
		race:         race,
		adminUser:    user,
		passwordHash: hash,
		jwtSecret:    jwtSecret,
		maxTeamSize:  maxTeamSize,
	}, nil
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Username != h.adminUser ||
		bcrypt.CompareHashAndPassword(h.passwordHash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour * 8).Unix(),
	})
	tokenString, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString})
}

func (h *AdminHandler) GetTeams(c *gin.Context) {
	engine := h.race.Engine()
	teams := make([]*models.Team, 0)
	for _, name := range engine.TeamNames() {
		if team, ok := engine.Team(name); ok {
			teams = append(teams, team)
		}
	}
	c.JSON(http.StatusOK, teams)
}

func (h *AdminHandler) GetLeaderboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.race.Engine().Leaderboard())
}

func (h *AdminHandler) GetAuditLog(c *gin.Context) {
	c.JSON(http.StatusOK, h.race.Engine().AuditLog())
}

func (h *AdminHandler) StartGame(c *gin.Context) {
	h.race.Engine().StartGame()
	c.JSON(http.StatusOK, gin.H{"status": "started"})
}

func (h *AdminHandler) EndGame(c *gin.Context) {
	h.race.Engine().EndGame()
	c.JSON(http.StatusOK, gin.H{"status": "ended"})
}

// PassTeam advances a team past its current challenge as an audited
// admin override.
func (h *AdminHandler) PassTeam(c *gin.Context) {
	team := models.TeamName(c.Param("name"))
	if !h.race.Engine().PassTeam(team, h.race.Catalog().Total(), 0, "web-admin") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Team not found or already finished"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "passed"})
}

// ResetGame wipes all teams, progress, and tournaments.
func (h *AdminHandler) ResetGame(c *gin.Context) {
	h.race.Engine().ResetGame()
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

// GetState reports whether the in-memory state has diverged from storage.
func (h *AdminHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"dirty": h.race.Engine().Dirty()})
}

// FlushState retries the snapshot write after a storage failure.
func (h *AdminHandler) FlushState(c *gin.Context) {
	if err := h.race.Engine().Flush(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "flushed"})
}

func (h *AdminHandler) RenameTeam(c *gin.Context) {
	var input struct {
		NewName string `json:"new_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.race.Engine().RenameTeam(models.TeamName(c.Param("name")), models.TeamName(input.NewName)) {
		c.JSON(http.StatusConflict, gin.H{"error": "Team not found or new name taken"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "renamed"})
}

func (h *AdminHandler) DeleteTeam(c *gin.Context) {
	if !h.race.Engine().RemoveTeam(models.TeamName(c.Param("name"))) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *AdminHandler) AddTeamMember(c *gin.Context) {
	var input struct {
		UserID int64  `json:"user_id" binding:"required"`
		Name   string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	team := models.TeamName(c.Param("name"))
	if !h.race.Engine().JoinTeam(team, models.UserID(input.UserID), input.Name, h.maxTeamSize) {
		c.JSON(http.StatusConflict, gin.H{"error": "Team not found, full, or user already on a team"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

func (h *AdminHandler) RemoveTeamMember(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	if !h.race.Engine().RemoveMember(models.TeamName(c.Param("name")), models.UserID(userID)) {
		c.JSON(http.StatusConflict, gin.H{"error": "Team not found or sole captain cannot leave"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

func (h *AdminHandler) SetTeamCaptain(c *gin.Context) {
	var input struct {
		UserID int64  `json:"user_id" binding:"required"`
		Name   string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.race.Engine().SetCaptain(models.TeamName(c.Param("name")), models.UserID(input.UserID), input.Name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "captain set"})
}

// SetCompletionTime starts a challenge's penalty clock manually, for the
// cases where an arrival photo never arrives.
func (h *AdminHandler) SetCompletionTime(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("challengeID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge id"})
		return
	}
	if !h.race.Engine().SetCompletionTime(models.TeamName(c.Param("name")), models.ChallengeID(id)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Team not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "set"})
}

func (h *AdminHandler) GetPendingPhotoSubmissions(c *gin.Context) {
	c.JSON(http.StatusOK, h.race.Engine().PendingPhotoSubmissions())
}

func (h *AdminHandler) ApprovePhotoSubmission(c *gin.Context) {
	completed, ok := h.race.ApproveAnswerPhoto(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending submission with that id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved", "challenge_completed": completed})
}

func (h *AdminHandler) RejectPhotoSubmission(c *gin.Context) {
	if !h.race.Engine().RejectPhotoSubmission(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending submission with that id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

func (h *AdminHandler) GetPendingPhotoVerifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.race.Engine().PendingPhotoVerifications())
}

func (h *AdminHandler) ApprovePhotoVerification(c *gin.Context) {
	if !h.race.ApproveArrivalPhoto(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending verification with that id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "approved"})
}

func (h *AdminHandler) RejectPhotoVerification(c *gin.Context) {
	if !h.race.Engine().RejectPhotoVerification(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending verification with that id"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

// CreateTournament builds a bracket for a challenge from the given teams,
// defaulting to every registered team.
func (h *AdminHandler) CreateTournament(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("challengeID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge id"})
		return
	}

	var input struct {
		GameName string   `json:"game_name" binding:"required"`
		Teams    []string `json:"teams"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	engine := h.race.Engine()
	teams := make([]models.TeamName, 0, len(input.Teams))
	for _, t := range input.Teams {
		teams = append(teams, models.TeamName(t))
	}
	if len(teams) == 0 {
		teams = engine.TeamNames()
	}

	if !engine.CreateTournament(models.ChallengeID(id), teams, input.GameName) {
		c.JSON(http.StatusConflict, gin.H{"error": "Tournament already exists or no teams given"})
		return
	}
	t, _ := engine.Tournament(models.ChallengeID(id))
	c.JSON(http.StatusCreated, t)
}

func (h *AdminHandler) GetTournament(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("challengeID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge id"})
		return
	}
	t, ok := h.race.Engine().Tournament(models.ChallengeID(id))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tournament not found"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *AdminHandler) ReportMatchWinner(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("challengeID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge id"})
		return
	}

	var input struct {
		Winner string `json:"winner" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !h.race.Engine().ReportMatchWinner(models.ChallengeID(id), models.TeamName(input.Winner)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No pending match for that team"})
		return
	}
	t, _ := h.race.Engine().Tournament(models.ChallengeID(id))
	c.JSON(http.StatusOK, t)
}

func (h *AdminHandler) ResetTournament(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("challengeID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid challenge id"})
		return
	}
	if !h.race.Engine().ResetTournament(models.ChallengeID(id)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tournament not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
