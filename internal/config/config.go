package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	TelegramToken string
	AdminIDs      map[int64]bool

	CatalogPath string
	StateFile   string
	DatabaseDSN string

	HTTPAddr      string
	JWTSecret     string
	AdminUser     string
	AdminPassword string

	MaxTeamSize int
}

// FromEnv reads configuration from the environment. DATABASE_DSN selects
// the postgres snapshot store; otherwise the JSON file store is used.
func FromEnv() (Config, error) {
	var c Config
	c.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	c.AdminIDs = parseAdminIDs(os.Getenv("ADMIN_TG_IDS"))

	c.CatalogPath = strings.TrimSpace(os.Getenv("CHALLENGE_CATALOG"))
	if c.CatalogPath == "" {
		c.CatalogPath = "config.yml"
	}
	c.StateFile = strings.TrimSpace(os.Getenv("STATE_FILE"))
	if c.StateFile == "" {
		c.StateFile = "game_state.json"
	}
	c.DatabaseDSN = strings.TrimSpace(os.Getenv("DATABASE_DSN"))

	c.HTTPAddr = strings.TrimSpace(os.Getenv("HTTP_ADDR"))
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
	c.JWTSecret = strings.TrimSpace(os.Getenv("JWT_SECRET"))
	c.AdminUser = strings.TrimSpace(os.Getenv("ADMIN_USER"))
	if c.AdminUser == "" {
		c.AdminUser = "admin"
	}
	c.AdminPassword = strings.TrimSpace(os.Getenv("ADMIN_PASSWORD"))

	c.MaxTeamSize = 6
	if raw := strings.TrimSpace(os.Getenv("MAX_TEAM_SIZE")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return c, fmt.Errorf("MAX_TEAM_SIZE is not a positive number: %q", raw)
		}
		c.MaxTeamSize = v
	}

	if c.TelegramToken == "" {
		return c, fmt.Errorf("TELEGRAM_BOT_TOKEN is empty")
	}
	if c.JWTSecret == "" {
		return c, fmt.Errorf("JWT_SECRET is empty")
	}
	if c.AdminPassword == "" {
		return c, fmt.Errorf("ADMIN_PASSWORD is empty")
	}
	return c, nil
}

func parseAdminIDs(raw string) map[int64]bool {
	m := map[int64]bool{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		m[v] = true
	}
	return m
}
