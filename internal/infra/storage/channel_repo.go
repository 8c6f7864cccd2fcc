package storage

import (
	"context"
	"database/sql"
)

type ChannelRepo struct{ db *sql.DB }

func NewChannelRepo(db *sql.DB) *ChannelRepo { return &ChannelRepo{db: db} }

// Add registra un canal para seguimiento. Devuelve false si ya estaba.
func (r *ChannelRepo) Add(ctx context.Context, c TrackedChannel) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
INSERT INTO tracked_channels (guild_id, channel_id, channel_name, kind, is_active)
VALUES ($1,$2,$3,$4,true)
ON CONFLICT (guild_id, channel_id, kind) DO NOTHING
`, c.GuildID, c.ChannelID, c.ChannelName, c.Kind)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// Remove saca un canal de cualquiera de las dos listas. Devuelve el kind
// eliminado ("" si no estaba).
func (r *ChannelRepo) Remove(ctx context.Context, channelID, guildID string) (string, error) {
	var kind string
	err := r.db.QueryRowContext(ctx, `
DELETE FROM tracked_channels
 WHERE guild_id = $1 AND channel_id = $2
RETURNING kind
`, guildID, channelID).Scan(&kind)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return kind, err
}

func (r *ChannelRepo) ListActive(ctx context.Context, guildID, kind string) ([]TrackedChannel, error) {
	return r.list(ctx, guildID, kind, true)
}

func (r *ChannelRepo) List(ctx context.Context, guildID, kind string) ([]TrackedChannel, error) {
	return r.list(ctx, guildID, kind, false)
}

func (r *ChannelRepo) list(ctx context.Context, guildID, kind string, onlyActive bool) ([]TrackedChannel, error) {
	q := `
SELECT guild_id, channel_id, channel_name, kind, is_active, created_at
  FROM tracked_channels
 WHERE guild_id = $1 AND kind = $2`
	if onlyActive {
		q += ` AND is_active`
	}
	q += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, q, guildID, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrackedChannel
	for rows.Next() {
		var c TrackedChannel
		if err := rows.Scan(&c.GuildID, &c.ChannelID, &c.ChannelName, &c.Kind, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// IsTracked: gate para el tracking de mensajes (mismo criterio que voz).
func (r *ChannelRepo) IsTracked(ctx context.Context, channelID, guildID, kind string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `
SELECT EXISTS (
  SELECT 1 FROM tracked_channels
   WHERE guild_id = $1 AND channel_id = $2 AND kind = $3 AND is_active
)
`, guildID, channelID, kind).Scan(&ok)
	return ok, err
}
