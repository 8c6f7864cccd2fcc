package service

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/jose-valero/voice-activity-bot/internal/domain"
	"github.com/jose-valero/voice-activity-bot/internal/infra/storage"
)

type StatsService struct {
	members  MemberRepo
	sessions SessionRepo
	settings SettingsRepo
	guildID  string
	now      func() time.Time
}

func NewStatsService(members MemberRepo, sessions SessionRepo, settings SettingsRepo, guildID string) *StatsService {
	return &StatsService{members: members, sessions: sessions, settings: settings, guildID: guildID, now: time.Now}
}

type WeeklyReportRow struct {
	UserID            string
	Username          string
	TotalMinutes      int
	SessionCount      int
	Status            string
	DaysUntilDeadline int
}

// WeeklyReport: por miembro activo, minutos acumulados, cantidad de sesiones
// desde su week_start y días hasta el deadline. Los más apretados primero.
func (s *StatsService) WeeklyReport(ctx context.Context) ([]WeeklyReportRow, error) {
	st, err := s.settings.Get(ctx, s.guildID)
	if err != nil {
		log.Printf("⚠️ report: settings de %s: %v (usando defaults)", s.guildID, err)
	}

	users, err := s.members.ListActive(ctx, s.guildID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.UserID)
	}
	counts, err := s.sessions.CountSinceWeekStart(ctx, s.guildID, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rows := make([]WeeklyReportRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, WeeklyReportRow{
			UserID:            u.UserID,
			Username:          u.Username,
			TotalMinutes:      u.TotalMinutes,
			SessionCount:      counts[u.UserID],
			Status:            u.Status,
			DaysUntilDeadline: domain.DaysUntilDeadline(u.ReferenceDate(), st.KickDays, now),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DaysUntilDeadline < rows[j].DaysUntilDeadline
	})
	return rows, nil
}

func (s *StatsService) Overall(ctx context.Context) (storage.MemberStats, error) {
	return s.members.Stats(ctx, s.guildID)
}
