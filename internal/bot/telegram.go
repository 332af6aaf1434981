package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"amazing-race/internal/models"
)

// TelegramBot is the chat-facing dispatch layer. It only parses commands
// and formats replies; all game decisions live behind the service.
type TelegramBot struct {
	bot      *tgbotapi.BotAPI
	race     Service
	adminIDs map[int64]bool
	log      *zap.Logger
}

// Service is the subset of the race service the bot needs.
type Service interface {
	SubmitAnswerText(userID models.UserID, userName, answer string) string
	UseHintText(userID models.UserID, userName string) string
	CheckItemText(userID models.UserID, userName, item string) string
	CurrentChallengeText(userID models.UserID) string
	LeaderboardText() string
	TeamsText() string
	PendingText() string
	TournamentStatusText(id models.ChallengeID) string

	CreateTeam(name models.TeamName, userID models.UserID, userName string) bool
	JoinTeam(name models.TeamName, userID models.UserID, userName string) bool
	MyTeamText(userID models.UserID) string
	HandlePhoto(userID models.UserID, userName, photoID string) string

	StartGame() string
	EndGame() string
	PassTeam(team models.TeamName, actorID models.UserID, actorName string) bool
	ApproveAnswerPhotoByID(id string) string
	RejectAnswerPhotoByID(id string) string
	ApproveArrivalPhotoByID(id string) string
	RejectArrivalPhotoByID(id string) string
	TogglePhotoVerification() bool
	ReportTournamentWin(id models.ChallengeID, winner models.TeamName) string
	ResetTournament(id models.ChallengeID) bool
}

func NewTelegramBot(token string, race Service, adminIDs map[int64]bool, log *zap.Logger) (*TelegramBot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramBot{bot: api, race: race, adminIDs: adminIDs, log: log}, nil
}

// Start runs the long-poll update loop. Updates are handled one at a
// time, which is what the engine's sequential model relies on.
func (b *TelegramBot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	for update := range updates {
		if update.Message != nil {
			b.handleMessage(update.Message)
		}
	}
	return nil
}

func (b *TelegramBot) isAdmin(userID int64) bool {
	return b.adminIDs[userID]
}

func (b *TelegramBot) handleMessage(msg *tgbotapi.Message) {
	userID := models.UserID(msg.From.ID)
	userName := msg.From.FirstName

	if len(msg.Photo) > 0 {
		photo := msg.Photo[len(msg.Photo)-1]
		b.send(msg.Chat.ID, b.race.HandlePhoto(userID, userName, photo.FileID))
		return
	}
	if !msg.IsCommand() {
		return
	}

	args := msg.CommandArguments()
	switch msg.Command() {
	case "start":
		b.send(msg.Chat.ID, "Welcome to the Amazing Race! Use /createteam <name> or /jointeam <name> to get going, /help for everything else.")
	case "help":
		b.send(msg.Chat.ID, b.helpText(msg.From.ID))
	case "createteam":
		b.handleCreateTeam(msg, args, userID, userName)
	case "jointeam":
		b.handleJoinTeam(msg, args, userID, userName)
	case "myteam":
		b.send(msg.Chat.ID, b.race.MyTeamText(userID))
	case "leaderboard":
		b.send(msg.Chat.ID, b.race.LeaderboardText())
	case "current":
		b.send(msg.Chat.ID, b.race.CurrentChallengeText(userID))
	case "hint":
		b.send(msg.Chat.ID, b.race.UseHintText(userID, userName))
	case "submit":
		if strings.TrimSpace(args) == "" {
			b.send(msg.Chat.ID, "Usage: /submit <answer>")
			return
		}
		b.send(msg.Chat.ID, b.race.SubmitAnswerText(userID, userName, args))
	case "check":
		if strings.TrimSpace(args) == "" {
			b.send(msg.Chat.ID, "Usage: /check <checklist item>")
			return
		}
		b.send(msg.Chat.ID, b.race.CheckItemText(userID, userName, args))
	default:
		b.handleAdminCommand(msg, args, userID, userName)
	}
}

func (b *TelegramBot) handleCreateTeam(msg *tgbotapi.Message, args string, userID models.UserID, userName string) {
	name := models.TeamName(strings.TrimSpace(args))
	if name == "" {
		b.send(msg.Chat.ID, "Usage: /createteam <team name>")
		return
	}
	if b.race.CreateTeam(name, userID, userName) {
		b.send(msg.Chat.ID, fmt.Sprintf("Team '%s' created. You are the captain.", name))
	} else {
		b.send(msg.Chat.ID, "Could not create the team. The name may be taken, or you are already on a team.")
	}
}

func (b *TelegramBot) handleJoinTeam(msg *tgbotapi.Message, args string, userID models.UserID, userName string) {
	name := models.TeamName(strings.TrimSpace(args))
	if name == "" {
		b.send(msg.Chat.ID, "Usage: /jointeam <team name>")
		return
	}
	if b.race.JoinTeam(name, userID, userName) {
		b.send(msg.Chat.ID, fmt.Sprintf("You joined team '%s'.", name))
	} else {
		b.send(msg.Chat.ID, "Could not join. Check the team name, and note you can only be on one team.")
	}
}

func (b *TelegramBot) handleAdminCommand(msg *tgbotapi.Message, args string, userID models.UserID, userName string) {
	if !b.isAdmin(msg.From.ID) {
		b.send(msg.Chat.ID, "Unknown command. Try /help.")
		return
	}

	fields := strings.Fields(args)
	switch msg.Command() {
	case "startgame":
		b.send(msg.Chat.ID, b.race.StartGame())
	case "endgame":
		b.send(msg.Chat.ID, b.race.EndGame())
	case "teams":
		b.send(msg.Chat.ID, b.race.TeamsText())
	case "pending":
		b.send(msg.Chat.ID, b.race.PendingText())
	case "pass":
		if len(fields) < 1 {
			b.send(msg.Chat.ID, "Usage: /pass <team name>")
			return
		}
		team := models.TeamName(strings.TrimSpace(args))
		if b.race.PassTeam(team, userID, userName) {
			b.send(msg.Chat.ID, fmt.Sprintf("Team '%s' passed to the next challenge.", team))
		} else {
			b.send(msg.Chat.ID, "Could not pass the team. Check the name and whether it already finished.")
		}
	case "approve":
		if len(fields) != 1 {
			b.send(msg.Chat.ID, "Usage: /approve <submission id>")
			return
		}
		b.send(msg.Chat.ID, b.race.ApproveAnswerPhotoByID(fields[0]))
	case "reject":
		if len(fields) != 1 {
			b.send(msg.Chat.ID, "Usage: /reject <submission id>")
			return
		}
		b.send(msg.Chat.ID, b.race.RejectAnswerPhotoByID(fields[0]))
	case "verifyok":
		if len(fields) != 1 {
			b.send(msg.Chat.ID, "Usage: /verifyok <verification id>")
			return
		}
		b.send(msg.Chat.ID, b.race.ApproveArrivalPhotoByID(fields[0]))
	case "verifyno":
		if len(fields) != 1 {
			b.send(msg.Chat.ID, "Usage: /verifyno <verification id>")
			return
		}
		b.send(msg.Chat.ID, b.race.RejectArrivalPhotoByID(fields[0]))
	case "togglephotoverify":
		if b.race.TogglePhotoVerification() {
			b.send(msg.Chat.ID, "Photo verification is now ON.")
		} else {
			b.send(msg.Chat.ID, "Photo verification is now OFF.")
		}
	case "tournamentwin":
		if len(fields) < 2 {
			b.send(msg.Chat.ID, "Usage: /tournamentwin <challenge id> <team name>")
			return
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			b.send(msg.Chat.ID, "Challenge id must be a number.")
			return
		}
		winner := models.TeamName(strings.Join(fields[1:], " "))
		b.send(msg.Chat.ID, b.race.ReportTournamentWin(models.ChallengeID(id), winner))
	case "tournamentstatus":
		if len(fields) != 1 {
			b.send(msg.Chat.ID, "Usage: /tournamentstatus <challenge id>")
			return
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			b.send(msg.Chat.ID, "Challenge id must be a number.")
			return
		}
		b.send(msg.Chat.ID, b.race.TournamentStatusText(models.ChallengeID(id)))
	case "tournamentreset":
		if len(fields) != 1 {
			b.send(msg.Chat.ID, "Usage: /tournamentreset <challenge id>")
			return
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			b.send(msg.Chat.ID, "Challenge id must be a number.")
			return
		}
		if b.race.ResetTournament(models.ChallengeID(id)) {
			b.send(msg.Chat.ID, "Tournament reset.")
		} else {
			b.send(msg.Chat.ID, "No tournament found for that challenge.")
		}
	default:
		b.send(msg.Chat.ID, "Unknown command. Try /help.")
	}
}

func (b *TelegramBot) helpText(userID int64) string {
	var sb strings.Builder
	sb.WriteString("Player commands:\n")
	sb.WriteString("/createteam <name> - create a team\n")
	sb.WriteString("/jointeam <name> - join a team\n")
	sb.WriteString("/myteam - show your team\n")
	sb.WriteString("/current - show your current challenge\n")
	sb.WriteString("/submit <answer> - submit an answer\n")
	sb.WriteString("/hint - reveal the next hint (time penalty applies)\n")
	sb.WriteString("/check <item> - tick off a checklist item\n")
	sb.WriteString("/leaderboard - standings\n")
	sb.WriteString("Send a photo to submit arrival proof or a photo answer.\n")
	if b.isAdmin(userID) {
		sb.WriteString("\nAdmin commands:\n")
		sb.WriteString("/startgame /endgame /teams /pending\n")
		sb.WriteString("/pass <team> - advance a team manually\n")
		sb.WriteString("/approve <id> /reject <id> - photo answers\n")
		sb.WriteString("/verifyok <id> /verifyno <id> - arrival photos\n")
		sb.WriteString("/togglephotoverify - flip arrival gating\n")
		sb.WriteString("/tournamentwin <ch> <team> /tournamentstatus <ch> /tournamentreset <ch>\n")
	}
	return sb.String()
}

func (b *TelegramBot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.bot.Send(msg); err != nil {
		b.log.Warn("sending telegram message", zap.Error(err))
	}
}
