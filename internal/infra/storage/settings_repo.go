package storage

import (
	"context"
	"database/sql"
)

type SettingsRepo struct{ db *sql.DB }

func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// Get devuelve la configuración del guild; si no existe fila, crea la default.
func (r *SettingsRepo) Get(ctx context.Context, guildID string) (KickSettings, error) {
	var s KickSettings
	err := r.db.QueryRowContext(ctx, `
SELECT guild_id, kick_days, warning_days, required_minutes, required_camera_minutes,
       require_camera_on, require_voice_presence, created_at, updated_at
  FROM kick_settings
 WHERE guild_id = $1
`, guildID).Scan(
		&s.GuildID, &s.KickDays, &s.WarningDays, &s.RequiredMinutes, &s.RequiredCameraMinutes,
		&s.RequireCameraOn, &s.RequireVoicePresence, &s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		// crea default
		if _, err := r.db.ExecContext(ctx, `
INSERT INTO kick_settings (guild_id) VALUES ($1)
`, guildID); err != nil {
			return DefaultKickSettings(guildID), err
		}
		return r.Get(ctx, guildID)
	}
	if err != nil {
		return DefaultKickSettings(guildID), err
	}
	return s, nil
}

func (r *SettingsRepo) Upsert(ctx context.Context, s KickSettings) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO kick_settings
  (guild_id, kick_days, warning_days, required_minutes, required_camera_minutes,
   require_camera_on, require_voice_presence, created_at, updated_at)
VALUES
  ($1, $2, $3, $4, $5, $6, $7, now(), now())
ON CONFLICT (guild_id) DO UPDATE SET
  kick_days               = EXCLUDED.kick_days,
  warning_days            = EXCLUDED.warning_days,
  required_minutes        = EXCLUDED.required_minutes,
  required_camera_minutes = EXCLUDED.required_camera_minutes,
  require_camera_on       = EXCLUDED.require_camera_on,
  require_voice_presence  = EXCLUDED.require_voice_presence,
  updated_at              = now()
`, s.GuildID, s.KickDays, s.WarningDays, s.RequiredMinutes, s.RequiredCameraMinutes,
		s.RequireCameraOn, s.RequireVoicePresence)
	return err
}
