package storage

import (
	"context"
	"database/sql"

	pq "github.com/lib/pq"
)

type SessionRepo struct{ db *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

// Append registra un intervalo de presencia completado. Solo inserta,
// las sesiones nunca se modifican después.
func (r *SessionRepo) Append(ctx context.Context, s VoiceSession) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO voice_sessions (user_id, guild_id, channel_id, joined_at, left_at, duration_minutes)
VALUES ($1,$2,$3,$4,$5,$6)
`, s.UserID, s.GuildID, s.ChannelID, s.JoinedAt, s.LeftAt, s.DurationMinutes)
	return err
}

// CountSinceWeekStart: mapa user_id -> sesiones desde el week_start de cada
// miembro, en una sola query para todo el lote del reporte.
func (r *SessionRepo) CountSinceWeekStart(ctx context.Context, guildID string, userIDs []string) (map[string]int, error) {
	out := map[string]int{}
	if len(userIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT s.user_id, COUNT(*)
  FROM voice_sessions s
  JOIN members m ON m.guild_id = s.guild_id AND m.user_id = s.user_id
 WHERE s.guild_id = $1 AND s.user_id = ANY($2) AND s.joined_at >= m.week_start
 GROUP BY s.user_id
`, guildID, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var uid string
		var n int
		if err := rows.Scan(&uid, &n); err != nil {
			return nil, err
		}
		out[uid] = n
	}
	return out, rows.Err()
}
