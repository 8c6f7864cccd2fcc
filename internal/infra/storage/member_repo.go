package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("not found")

type MemberRepo struct{ db *sql.DB }

func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{db: db} }

func (r *MemberRepo) Create(ctx context.Context, m Member) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO members
  (user_id, guild_id, username, joined_at, last_voice_time, last_message_time, last_camera_on_time,
   total_minutes, camera_on_minutes, week_start, warning_sent, status)
VALUES
  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
`, m.UserID, m.GuildID, m.Username, m.JoinedAt, m.LastVoiceTime, m.LastMessageTime, m.LastCameraOnTime,
		m.TotalMinutes, m.CameraOnMinutes, m.WeekStart, m.WarningSent, m.Status)
	return err
}

func (r *MemberRepo) Get(ctx context.Context, userID, guildID string) (Member, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT user_id, guild_id, username, joined_at, last_voice_time, last_message_time, last_camera_on_time,
       total_minutes, camera_on_minutes, week_start, warning_sent, status, created_at, updated_at
  FROM members
 WHERE user_id = $1 AND guild_id = $2
`, userID, guildID)
	var m Member
	err := row.Scan(&m.UserID, &m.GuildID, &m.Username, &m.JoinedAt, &m.LastVoiceTime, &m.LastMessageTime,
		&m.LastCameraOnTime, &m.TotalMinutes, &m.CameraOnMinutes, &m.WeekStart, &m.WarningSent, &m.Status,
		&m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return Member{}, ErrNotFound
	}
	return m, err
}

// Update parcial: solo setea los campos no-nil del patch.
func (r *MemberRepo) Update(ctx context.Context, userID, guildID string, u MemberUpdate) error {
	sets := make([]string, 0, 8)
	args := make([]any, 0, 10)
	i := 1

	add := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, v)
		i++
	}

	if u.LastVoiceTime != nil {
		add("last_voice_time", *u.LastVoiceTime)
	}
	if u.LastCameraOnTime != nil {
		add("last_camera_on_time", *u.LastCameraOnTime)
	}
	if u.TotalMinutes != nil {
		add("total_minutes", *u.TotalMinutes)
	}
	if u.CameraOnMinutes != nil {
		add("camera_on_minutes", *u.CameraOnMinutes)
	}
	if u.WeekStart != nil {
		add("week_start", *u.WeekStart)
	}
	if u.WarningSent != nil {
		add("warning_sent", *u.WarningSent)
	}
	if u.Status != nil {
		add("status", *u.Status)
	}
	if len(sets) == 0 {
		return nil
	}
	add("updated_at", time.Now())

	args = append(args, userID, guildID)
	q := `UPDATE members SET ` + strings.Join(sets, ", ") +
		fmt.Sprintf(` WHERE user_id = $%d AND guild_id = $%d`, i, i+1)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListCheckable: miembros sujetos al chequeo periódico (active o warned).
func (r *MemberRepo) ListCheckable(ctx context.Context, guildID string) ([]Member, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, guild_id, username, joined_at, last_voice_time, last_message_time, last_camera_on_time,
       total_minutes, camera_on_minutes, week_start, warning_sent, status, created_at, updated_at
  FROM members
 WHERE guild_id = $1 AND status IN ('active','warned')
 ORDER BY joined_at ASC
`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.GuildID, &m.Username, &m.JoinedAt, &m.LastVoiceTime,
			&m.LastMessageTime, &m.LastCameraOnTime, &m.TotalMinutes, &m.CameraOnMinutes, &m.WeekStart,
			&m.WarningSent, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MemberRepo) ListActive(ctx context.Context, guildID string) ([]Member, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT user_id, guild_id, username, joined_at, last_voice_time, last_message_time, last_camera_on_time,
       total_minutes, camera_on_minutes, week_start, warning_sent, status, created_at, updated_at
  FROM members
 WHERE guild_id = $1 AND status = 'active'
 ORDER BY joined_at ASC
`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.GuildID, &m.Username, &m.JoinedAt, &m.LastVoiceTime,
			&m.LastMessageTime, &m.LastCameraOnTime, &m.TotalMinutes, &m.CameraOnMinutes, &m.WeekStart,
			&m.WarningSent, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MemberRepo) TouchLastMessage(ctx context.Context, userID, guildID string) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE members
   SET last_message_time = now(), updated_at = now()
 WHERE user_id = $1 AND guild_id = $2
`, userID, guildID)
	return err
}

func (r *MemberRepo) Stats(ctx context.Context, guildID string) (MemberStats, error) {
	var s MemberStats
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE status = 'active'),
       COUNT(*) FILTER (WHERE status = 'warned'),
       COUNT(*) FILTER (WHERE status = 'kicked')
  FROM members
 WHERE guild_id = $1
`, guildID).Scan(&s.Total, &s.Active, &s.Warned, &s.Kicked)
	return s, err
}
