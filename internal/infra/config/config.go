package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL  string
	DiscordToken string
	DiscordGuild string

	AdminRoleIDs []string // roles con permiso de admin además del bit Administrator

	CheckIntervalMinutes  int // cada cuánto corre el chequeo (default 60)
	ResetThresholdMinutes int // umbral del reset de ventana del tracker (default 30)
}

func Load() Config {
	get := func(k string, req bool) string {
		v := os.Getenv(k)
		if v == "" && req {
			log.Fatalf("faltante env %s", k)
		}
		return v
	}
	getInt := func(k string, def int) int {
		v := os.Getenv(k)
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			log.Fatalf("env %s inválida: %q", k, v)
		}
		return n
	}

	cfg := Config{
		DatabaseURL:           get("DATABASE_URL", true),
		DiscordToken:          get("DISCORD_BOT_TOKEN", true),
		DiscordGuild:          get("DISCORD_GUILD_ID", true),
		CheckIntervalMinutes:  getInt("CHECK_INTERVAL_MINUTES", 60),
		ResetThresholdMinutes: getInt("RESET_THRESHOLD_MINUTES", 30),
	}

	if raw := get("ADMIN_ROLE_IDS", false); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				cfg.AdminRoleIDs = append(cfg.AdminRoleIDs, id)
			}
		}
	}
	return cfg
}
