package service

import (
	"context"
	"fmt"

	"github.com/jose-valero/voice-activity-bot/internal/infra/storage"
)

type SettingsService struct {
	repo    SettingsRepo
	guildID string
}

func NewSettingsService(r SettingsRepo, guildID string) *SettingsService {
	return &SettingsService{repo: r, guildID: guildID}
}

// Para updates parciales desde /kicksettings set
type SettingsPatch struct {
	KickDays              *int
	WarningDays           *int
	RequiredMinutes       *int
	RequiredCameraMinutes *int
	RequireCameraOn       *bool
	RequireVoicePresence  *bool
}

func (p SettingsPatch) empty() bool {
	return p.KickDays == nil && p.WarningDays == nil && p.RequiredMinutes == nil &&
		p.RequiredCameraMinutes == nil && p.RequireCameraOn == nil && p.RequireVoicePresence == nil
}

func (s *SettingsService) Get(ctx context.Context) (storage.KickSettings, error) {
	return s.repo.Get(ctx, s.guildID)
}

// Update valida y aplica un patch sobre la configuración actual.
// warning_days < kick_days se valida acá contra los valores ya mergeados; el
// checker igual tolera una violación ya persistida (la ventana de aviso
// colapsa y solo corre el camino de kick).
func (s *SettingsService) Update(ctx context.Context, patch SettingsPatch) (storage.KickSettings, error) {
	if patch.empty() {
		return storage.KickSettings{}, fmt.Errorf("hay que indicar al menos un valor")
	}
	if patch.KickDays != nil && *patch.KickDays < 1 {
		return storage.KickSettings{}, fmt.Errorf("kick_days debe ser al menos 1")
	}
	if patch.WarningDays != nil && *patch.WarningDays < 1 {
		return storage.KickSettings{}, fmt.Errorf("warning_days debe ser al menos 1")
	}
	if patch.RequiredMinutes != nil && *patch.RequiredMinutes < 1 {
		return storage.KickSettings{}, fmt.Errorf("required_minutes debe ser al menos 1")
	}
	if patch.RequiredCameraMinutes != nil && *patch.RequiredCameraMinutes < 0 {
		return storage.KickSettings{}, fmt.Errorf("required_camera_minutes no puede ser negativo")
	}

	cur, err := s.repo.Get(ctx, s.guildID)
	if err != nil {
		return storage.KickSettings{}, err
	}

	if patch.KickDays != nil {
		cur.KickDays = *patch.KickDays
	}
	if patch.WarningDays != nil {
		cur.WarningDays = *patch.WarningDays
	}
	if patch.RequiredMinutes != nil {
		cur.RequiredMinutes = *patch.RequiredMinutes
	}
	if patch.RequiredCameraMinutes != nil {
		cur.RequiredCameraMinutes = *patch.RequiredCameraMinutes
	}
	if patch.RequireCameraOn != nil {
		cur.RequireCameraOn = *patch.RequireCameraOn
	}
	if patch.RequireVoicePresence != nil {
		cur.RequireVoicePresence = *patch.RequireVoicePresence
	}

	if cur.WarningDays >= cur.KickDays {
		return storage.KickSettings{}, fmt.Errorf(
			"warning_days (%d) debe ser menor que kick_days (%d)", cur.WarningDays, cur.KickDays)
	}

	if err := s.repo.Upsert(ctx, cur); err != nil {
		return storage.KickSettings{}, err
	}
	return cur, nil
}

// Reset vuelve a los defaults (7/6/30, sin cámara ni voz obligatorias).
func (s *SettingsService) Reset(ctx context.Context) (storage.KickSettings, error) {
	def := storage.DefaultKickSettings(s.guildID)
	if err := s.repo.Upsert(ctx, def); err != nil {
		return storage.KickSettings{}, err
	}
	return def, nil
}
