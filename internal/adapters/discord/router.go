package discord

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/voice-activity-bot/internal/app/service"
)

type Router struct {
	s       *discordgo.Session
	guildID string

	tracker  *service.TrackerService
	checker  *service.CheckerService
	settings *service.SettingsService
	stats    *service.StatsService
	channels service.ChannelRepo

	adminRoleIDs []string
	clicks *clickLimiter

	initOnce sync.Once

	// resumen del último pase manual, para el header de la paginación
	mu        sync.Mutex
	lastCheck service.CheckSummary
}

func NewRouter(
	s *discordgo.Session,
	guildID string,
	tracker *service.TrackerService,
	checker *service.CheckerService,
	settings *service.SettingsService,
	stats *service.StatsService,
	channels service.ChannelRepo,
	adminRoleIDs []string,
) *Router {
	return &Router{
		s:            s,
		guildID:      guildID,
		tracker:      tracker,
		checker:      checker,
		settings:     settings,
		stats:        stats,
		channels:     channels,
		adminRoleIDs: adminRoleIDs,
		clicks:       newClickLimiter(1 * time.Second),
	}
}

func (r *Router) Register() error {
	appID := r.s.State.User.ID
	for _, cmd := range Commands {
		if _, err := r.s.ApplicationCommandCreate(appID, r.guildID, cmd); err != nil {
			return err
		}
	}
	return nil
}

func (r *Router) Handlers() {
	r.s.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		switch ic.Type {
		case discordgo.InteractionApplicationCommand:
			r.handleSlashCommand(s, ic)
		case discordgo.InteractionMessageComponent:
			r.handleMessageComponent(s, ic)
		}
	})

	// VoiceStateUpdate → tracker (entrada/salida/cámara)
	r.s.AddHandler(func(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
		if vs.GuildID != r.guildID {
			return
		}
		oldChannel := ""
		if vs.BeforeUpdate != nil {
			oldChannel = vs.BeforeUpdate.ChannelID
		}
		username := vs.UserID
		if vs.Member != nil && vs.Member.User != nil {
			username = vs.Member.User.Username
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := r.tracker.HandlePresence(ctx, vs.UserID, username, oldChannel, vs.ChannelID, vs.SelfVideo); err != nil {
			log.Printf("⚠️ voice state de %s: %v", vs.UserID, err)
		}
	})

	// GuildMemberAdd → registro del miembro
	r.s.AddHandler(func(s *discordgo.Session, gm *discordgo.GuildMemberAdd) {
		if gm.GuildID != r.guildID || gm.User == nil || gm.User.Bot {
			return
		}
		joined := gm.JoinedAt
		if joined.IsZero() {
			joined = time.Now()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := r.tracker.RegisterMember(ctx, gm.User.ID, gm.User.Username, joined); err != nil {
			log.Printf("⚠️ registrar miembro %s: %v", gm.User.ID, err)
		}
	})

	// MessageCreate → last_message_time si el canal de chat está trackeado
	r.s.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.GuildID != r.guildID || m.Author == nil || m.Author.Bot {
			return
		}
		parentID := ""
		if ch, err := r.safeGetChannel(m.ChannelID); err == nil && ch.IsThread() {
			// thread de foro: vale si el canal padre está trackeado
			parentID = ch.ParentID
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		// silencioso: no spameamos logs por cada mensaje
		_ = r.tracker.TrackMessage(ctx, m.Author.ID, m.ChannelID, parentID)
	})

	// GuildCreate (primera vez) → canales trackeados + snapshot de voz.
	// El tiempo anterior al restart se pierde, asumido.
	r.s.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		if g.ID != r.guildID {
			return
		}
		r.initOnce.Do(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := r.tracker.LoadTrackedChannels(ctx); err != nil {
				log.Printf("⚠️ cargar canales trackeados: %v", err)
				return
			}
			present := map[string][]service.PresentMember{}
			for _, vs := range g.VoiceStates {
				present[vs.ChannelID] = append(present[vs.ChannelID], service.PresentMember{
					UserID:   vs.UserID,
					CameraOn: vs.SelfVideo,
				})
			}
			r.tracker.InitializeFromSnapshot(present)
		})
	})
}

func (r *Router) safeGetChannel(id string) (*discordgo.Channel, error) {
	if ch, err := r.s.State.Channel(id); err == nil && ch != nil {
		return ch, nil
	}
	ch, err := r.s.Channel(id)
	if err != nil {
		return nil, err
	}
	_ = r.s.State.ChannelAdd(ch)
	return ch, nil
}
