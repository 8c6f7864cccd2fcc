package service

import (
	"context"
	"time"

	"github.com/jose-valero/voice-activity-bot/internal/infra/storage"
)

// Lo implementa internal/infra/storage.MemberRepo
type MemberRepo interface {
	Create(ctx context.Context, m storage.Member) error
	Get(ctx context.Context, userID, guildID string) (storage.Member, error)
	Update(ctx context.Context, userID, guildID string, u storage.MemberUpdate) error
	ListCheckable(ctx context.Context, guildID string) ([]storage.Member, error)
	ListActive(ctx context.Context, guildID string) ([]storage.Member, error)
	TouchLastMessage(ctx context.Context, userID, guildID string) error
	Stats(ctx context.Context, guildID string) (storage.MemberStats, error)
}

// Lo implementa internal/infra/storage.SettingsRepo
type SettingsRepo interface {
	Get(ctx context.Context, guildID string) (storage.KickSettings, error)
	Upsert(ctx context.Context, s storage.KickSettings) error
}

// Lo implementa internal/infra/storage.SessionRepo
type SessionRepo interface {
	Append(ctx context.Context, s storage.VoiceSession) error
	CountSinceWeekStart(ctx context.Context, guildID string, userIDs []string) (map[string]int, error)
}

// Lo implementa internal/infra/storage.ChannelRepo
type ChannelRepo interface {
	Add(ctx context.Context, c storage.TrackedChannel) (bool, error)
	Remove(ctx context.Context, channelID, guildID string) (string, error)
	ListActive(ctx context.Context, guildID, kind string) ([]storage.TrackedChannel, error)
	List(ctx context.Context, guildID, kind string) ([]storage.TrackedChannel, error)
	IsTracked(ctx context.Context, channelID, guildID, kind string) (bool, error)
}

type WarnDetails struct {
	Username        string
	TotalMinutes    int
	RequiredMinutes int
	MinutesNeeded   int
	DaysRemaining   int
	Failing         []string
}

type KickDetails struct {
	Username        string
	TotalMinutes    int
	RequiredMinutes int
	Failing         []string
	Reason          string
}

// Lo implementa internal/adapters/discord.Notifier (DM + kick del guild).
// Un error deja el estado persistido intacto; se reintenta en el próximo pase.
type Notifier interface {
	SendWarning(ctx context.Context, guildID, userID string, d WarnDetails) error
	RemoveMember(ctx context.Context, guildID, userID string, d KickDetails) error
}

// LiveStats es la vista de solo lectura del tracker que usa el checker.
type LiveStats interface {
	CurrentSessionMinutes(userID string, now time.Time) int
	CurrentCameraMinutes(userID string, now time.Time) int
	InVoice(userID string) bool
}
