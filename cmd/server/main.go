package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"amazing-race/internal/admin"
	"amazing-race/internal/bot"
	"amazing-race/internal/catalog"
	"amazing-race/internal/config"
	"amazing-race/internal/game"
	"amazing-race/internal/pkg"
	"amazing-race/internal/repository"
	"amazing-race/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("loading challenge catalog", zap.Error(err))
	}

	var store repository.SnapshotStore
	if cfg.DatabaseDSN != "" {
		db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		store, err = repository.NewGormStore(db)
		if err != nil {
			logger.Fatal("preparing snapshot store", zap.Error(err))
		}
	} else {
		store = repository.NewFileStore(cfg.StateFile)
	}

	engine, err := game.New(store, game.WithLogger(logger))
	if err != nil {
		logger.Fatal("loading game state", zap.Error(err))
	}

	race := service.NewRaceService(engine, cat, logger)
	presenter := bot.NewPresenter(race, cfg.MaxTeamSize)

	tgBot, err := bot.NewTelegramBot(cfg.TelegramToken, presenter, cfg.AdminIDs, logger)
	if err != nil {
		logger.Fatal("creating telegram bot", zap.Error(err))
	}
	go func() {
		logger.Info("telegram bot starting")
		if err := tgBot.Start(); err != nil {
			logger.Error("telegram bot stopped", zap.Error(err))
		}
	}()

	adminHandler, err := admin.NewAdminHandler(race, cfg.AdminUser, cfg.AdminPassword, cfg.JWTSecret, cfg.MaxTeamSize)
	if err != nil {
		logger.Fatal("creating admin handler", zap.Error(err))
	}

	router := gin.Default()
	router.Use(cors.Default())

	router.POST("/api/v1/admin/login", adminHandler.Login)

	adminRoutes := router.Group("/api/v1/admin")
	adminRoutes.Use(pkg.AdminAuthMiddleware(cfg.JWTSecret))
	{
		adminRoutes.GET("/teams", adminHandler.GetTeams)
		adminRoutes.GET("/leaderboard", adminHandler.GetLeaderboard)
		adminRoutes.GET("/audit-log", adminHandler.GetAuditLog)

		adminRoutes.POST("/game/start", adminHandler.StartGame)
		adminRoutes.POST("/game/end", adminHandler.EndGame)
		adminRoutes.POST("/game/reset", adminHandler.ResetGame)
		adminRoutes.GET("/state", adminHandler.GetState)
		adminRoutes.POST("/state/flush", adminHandler.FlushState)

		adminRoutes.PUT("/teams/:name", adminHandler.RenameTeam)
		adminRoutes.DELETE("/teams/:name", adminHandler.DeleteTeam)
		adminRoutes.POST("/teams/:name/members", adminHandler.AddTeamMember)
		adminRoutes.DELETE("/teams/:name/members/:userID", adminHandler.RemoveTeamMember)
		adminRoutes.POST("/teams/:name/captain", adminHandler.SetTeamCaptain)
		adminRoutes.POST("/teams/:name/pass", adminHandler.PassTeam)
		adminRoutes.POST("/teams/:name/challenges/:challengeID/completion-time", adminHandler.SetCompletionTime)

		adminRoutes.GET("/photo-submissions", adminHandler.GetPendingPhotoSubmissions)
		adminRoutes.POST("/photo-submissions/:id/approve", adminHandler.ApprovePhotoSubmission)
		adminRoutes.POST("/photo-submissions/:id/reject", adminHandler.RejectPhotoSubmission)

		adminRoutes.GET("/photo-verifications", adminHandler.GetPendingPhotoVerifications)
		adminRoutes.POST("/photo-verifications/:id/approve", adminHandler.ApprovePhotoVerification)
		adminRoutes.POST("/photo-verifications/:id/reject", adminHandler.RejectPhotoVerification)

		adminRoutes.POST("/tournaments/:challengeID", adminHandler.CreateTournament)
		adminRoutes.GET("/tournaments/:challengeID", adminHandler.GetTournament)
		adminRoutes.POST("/tournaments/:challengeID/winner", adminHandler.ReportMatchWinner)
		adminRoutes.DELETE("/tournaments/:challengeID", adminHandler.ResetTournament)
	}

	logger.Info("admin API listening", zap.String("addr", cfg.HTTPAddr))
	if err := router.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("http server", zap.Error(err))
	}
}
