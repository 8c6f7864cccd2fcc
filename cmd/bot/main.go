package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	discordrouter "github.com/jose-valero/voice-activity-bot/internal/adapters/discord"
	"github.com/jose-valero/voice-activity-bot/internal/app/service"
	"github.com/jose-valero/voice-activity-bot/internal/infra/config"
	"github.com/jose-valero/voice-activity-bot/internal/infra/storage"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	_ = godotenv.Load()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := config.Load()

	// DB
	db, err := storage.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		log.Fatal("migrate:", err)
	}
	log.Println("✅ DB lista y migrada")

	// Repos
	memberRepo := storage.NewMemberRepo(db)
	settingsRepo := storage.NewSettingsRepo(db)
	sessionRepo := storage.NewSessionRepo(db)
	channelRepo := storage.NewChannelRepo(db)

	// Discord session (antes de los services que la usan)
	auth := cfg.DiscordToken
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(auth)), "bot ") {
		auth = "Bot " + strings.TrimSpace(auth)
	}
	s, err := discordgo.New(auth)
	if err != nil {
		log.Fatal(err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	// Services
	tracker := service.NewTrackerService(memberRepo, sessionRepo, channelRepo, cfg.DiscordGuild, cfg.ResetThresholdMinutes)
	notifier := discordrouter.NewNotifier(s)
	checker := service.NewCheckerService(memberRepo, settingsRepo, notifier, tracker, cfg.DiscordGuild)
	settingsSvc := service.NewSettingsService(settingsRepo, cfg.DiscordGuild)
	statsSvc := service.NewStatsService(memberRepo, sessionRepo, settingsRepo, cfg.DiscordGuild)

	// Router (handlers antes de Open para no perder el GuildCreate inicial)
	r := discordrouter.NewRouter(s, cfg.DiscordGuild, tracker, checker, settingsSvc, statsSvc, channelRepo, cfg.AdminRoleIDs)
	r.Handlers()

	if err := s.Open(); err != nil {
		log.Fatal(err)
	}
	defer s.Close()
	log.Printf("✅ Conectado como %s (%s)", s.State.User.Username, s.State.User.ID)

	if err := r.Register(); err != nil {
		log.Fatalf("registrando comandos: %v", err)
	}
	log.Printf("✅ comandos registrados en guild %s", cfg.DiscordGuild)

	// Chequeo programado
	go func() {
		t := time.NewTicker(time.Duration(cfg.CheckIntervalMinutes) * time.Minute)
		defer t.Stop()
		for range t.C {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			if _, err := checker.RunCheck(ctx); err != nil {
				log.Printf("⚠️ check programado: %v", err)
			}
			cancel()
		}
	}()
	log.Printf("✅ chequeo programado cada %dm", cfg.CheckIntervalMinutes)

	// Esperar señal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-stop
}
