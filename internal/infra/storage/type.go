package storage

import (
	"time"

	"github.com/jose-valero/voice-activity-bot/internal/domain"
)

const (
	StatusActive = "active"
	StatusWarned = "warned"
	StatusKicked = "kicked"
)

type Member struct {
	UserID           string
	GuildID          string
	Username         string
	JoinedAt         time.Time
	LastVoiceTime    *time.Time
	LastMessageTime  *time.Time
	LastCameraOnTime *time.Time
	TotalMinutes     int
	CameraOnMinutes  int
	WeekStart        time.Time
	WarningSent      bool
	Status           string // active | warned | kicked
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReferenceDate ancla la ventana de cumplimiento: última actividad de voz,
// o la fecha de ingreso si nunca entró a voz.
func (m Member) ReferenceDate() time.Time {
	if m.LastVoiceTime != nil {
		return *m.LastVoiceTime
	}
	return m.JoinedAt
}

// Para updates parciales de members (solo se escribe lo no-nil).
type MemberUpdate struct {
	LastVoiceTime    *time.Time
	LastCameraOnTime *time.Time
	TotalMinutes     *int
	CameraOnMinutes  *int
	WeekStart        *time.Time
	WarningSent      *bool
	Status           *string
}

type KickSettings struct {
	GuildID               string
	KickDays              int
	WarningDays           int
	RequiredMinutes       int
	RequiredCameraMinutes int
	RequireCameraOn       bool
	RequireVoicePresence  bool
	CreatedAt, UpdatedAt  time.Time
}

func (s KickSettings) Policy() domain.Policy {
	return domain.Policy{
		KickDays:              s.KickDays,
		WarningDays:           s.WarningDays,
		RequiredMinutes:       s.RequiredMinutes,
		RequiredCameraMinutes: s.RequiredCameraMinutes,
		RequireCameraOn:       s.RequireCameraOn,
		RequireVoicePresence:  s.RequireVoicePresence,
	}
}

// DefaultKickSettings: kick a los 7 días, aviso al día 6, 30 minutos requeridos.
func DefaultKickSettings(guildID string) KickSettings {
	return KickSettings{
		GuildID:         guildID,
		KickDays:        7,
		WarningDays:     6,
		RequiredMinutes: 30,
	}
}

type VoiceSession struct {
	ID              int64
	UserID          string
	GuildID         string
	ChannelID       string
	JoinedAt        time.Time
	LeftAt          time.Time
	DurationMinutes int
	CreatedAt       time.Time
}

const (
	ChannelKindVoice = "voice"
	ChannelKindChat  = "chat"
)

type TrackedChannel struct {
	GuildID     string
	ChannelID   string
	ChannelName string
	Kind        string // voice | chat
	IsActive    bool
	CreatedAt   time.Time
}

type MemberStats struct {
	Total  int
	Active int
	Warned int
	Kicked int
}
