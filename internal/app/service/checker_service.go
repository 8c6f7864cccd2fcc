package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/jose-valero/voice-activity-bot/internal/domain"
	"github.com/jose-valero/voice-activity-bot/internal/infra/storage"
)

// CheckerService corre la máquina de estados active → warned → kicked sobre
// todos los miembros chequeables. El pase manual (/check) y el programado son
// la misma operación.
type CheckerService struct {
	members  MemberRepo
	settings SettingsRepo
	notifier Notifier
	live     LiveStats
	guildID  string
	now      func() time.Time
}

func NewCheckerService(members MemberRepo, settings SettingsRepo, notifier Notifier, live LiveStats, guildID string) *CheckerService {
	return &CheckerService{
		members:  members,
		settings: settings,
		notifier: notifier,
		live:     live,
		guildID:  guildID,
		now:      time.Now,
	}
}

type CheckSummary struct {
	Total  int
	Warned int
	Kicked int
}

// RunCheck evalúa a cada miembro active/warned una vez. El fallo de un
// miembro (notificación o storage) se loguea y no frena al resto; el pase
// siempre devuelve un resumen.
func (s *CheckerService) RunCheck(ctx context.Context) (CheckSummary, error) {
	st, err := s.settings.Get(ctx, s.guildID)
	if err != nil {
		// el repo ya devolvió defaults utilizables
		log.Printf("⚠️ check: settings de %s: %v (usando defaults)", s.guildID, err)
	}
	pol := st.Policy()

	users, err := s.members.ListCheckable(ctx, s.guildID)
	if err != nil {
		return CheckSummary{}, err
	}

	sum := CheckSummary{Total: len(users)}
	now := s.now()

	for _, m := range users {
		warned, kicked := s.checkMember(ctx, pol, m, now)
		if warned {
			sum.Warned++
		}
		if kicked {
			sum.Kicked++
		}
	}

	log.Printf("✅ check completado: %d revisados, %d avisados, %d kickeados", sum.Total, sum.Warned, sum.Kicked)
	return sum, nil
}

func (s *CheckerService) checkMember(ctx context.Context, pol domain.Policy, m storage.Member, now time.Time) (warned, kicked bool) {
	ref := m.ReferenceDate()

	liveMin := m.TotalMinutes + s.live.CurrentSessionMinutes(m.UserID, now)
	liveCam := m.CameraOnMinutes + s.live.CurrentCameraMinutes(m.UserID, now)

	verdict := domain.Evaluate(pol, m.LastVoiceTime, m.LastCameraOnTime, liveMin, liveCam, ref)

	kickDue := domain.HasDaysPassed(ref, pol.KickDays, now)
	warnDue := domain.IsWarningWindow(ref, pol.WarningDays, pol.KickDays, now)

	switch {
	case kickDue && !verdict.MeetsAll:
		failing := verdict.FailingCriteria()
		d := KickDetails{
			Username:        m.Username,
			TotalMinutes:    liveMin,
			RequiredMinutes: pol.RequiredMinutes,
			Failing:         failing,
			Reason: fmt.Sprintf("Actividad semanal insuficiente (%s / %s)",
				domain.FormatMinutes(liveMin), domain.FormatMinutes(pol.RequiredMinutes)),
		}
		if err := s.notifier.RemoveMember(ctx, s.guildID, m.UserID, d); err != nil {
			// sin mutar estado: elegible para reintento en el próximo pase
			log.Printf("⚠️ check: kick de %s (%s) falló: %v", m.Username, m.UserID, err)
			return false, false
		}
		st := storage.StatusKicked
		if err := s.members.Update(ctx, m.UserID, s.guildID, storage.MemberUpdate{Status: &st}); err != nil {
			log.Printf("⚠️ check: persistir status kicked de %s: %v", m.UserID, err)
		}
		log.Printf("👢 kickeado: %s (%s) con %dm", m.Username, m.UserID, liveMin)
		return false, true

	case warnDue && !verdict.MeetsAll && !m.WarningSent:
		needed := pol.RequiredMinutes - liveMin
		if needed < 0 {
			needed = 0
		}
		d := WarnDetails{
			Username:        m.Username,
			TotalMinutes:    liveMin,
			RequiredMinutes: pol.RequiredMinutes,
			MinutesNeeded:   needed,
			DaysRemaining:   domain.DaysUntilDeadline(ref, pol.KickDays, now),
			Failing:         verdict.FailingCriteria(),
		}
		if err := s.notifier.SendWarning(ctx, s.guildID, m.UserID, d); err != nil {
			log.Printf("⚠️ check: aviso a %s (%s) falló: %v", m.Username, m.UserID, err)
			return false, false
		}
		sent := true
		st := storage.StatusWarned
		if err := s.members.Update(ctx, m.UserID, s.guildID, storage.MemberUpdate{WarningSent: &sent, Status: &st}); err != nil {
			log.Printf("⚠️ check: persistir warning de %s: %v", m.UserID, err)
		}
		log.Printf("⚠️ avisado: %s (%s), le faltan %dm", m.Username, m.UserID, needed)
		return true, false
	}

	return false, false
}

// MemberStanding es la foto de un miembro para el listado detallado.
type MemberStanding struct {
	UserID                string
	Username              string
	TotalMinutes          int
	CurrentSessionMinutes int
	ActualTotalMinutes    int
	ActualCameraMinutes   int
	Status                string
	DaysUntilDeadline     int
	Verdict               domain.Verdict
	ReferenceDate         time.Time
	Deadline              time.Time
	LastVoiceTime         *time.Time
	LastMessageTime       *time.Time
	InVoice               bool
}

// DetailedList arma la proyección para /check: totales persistidos + sesión
// en vivo, verdict por criterio y deadline. Orden: primero los que no
// cumplen, dentro de cada grupo por minutos reales ascendente.
func (s *CheckerService) DetailedList(ctx context.Context) ([]MemberStanding, error) {
	st, err := s.settings.Get(ctx, s.guildID)
	if err != nil {
		log.Printf("⚠️ list: settings de %s: %v (usando defaults)", s.guildID, err)
	}
	pol := st.Policy()

	users, err := s.members.ListCheckable(ctx, s.guildID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]MemberStanding, 0, len(users))
	for _, m := range users {
		ref := m.ReferenceDate()
		cur := s.live.CurrentSessionMinutes(m.UserID, now)
		actual := m.TotalMinutes + cur
		cam := m.CameraOnMinutes + s.live.CurrentCameraMinutes(m.UserID, now)

		out = append(out, MemberStanding{
			UserID:                m.UserID,
			Username:              m.Username,
			TotalMinutes:          m.TotalMinutes,
			CurrentSessionMinutes: cur,
			ActualTotalMinutes:    actual,
			ActualCameraMinutes:   cam,
			Status:                m.Status,
			DaysUntilDeadline:     domain.DaysUntilDeadline(ref, pol.KickDays, now),
			Verdict:               domain.Evaluate(pol, m.LastVoiceTime, m.LastCameraOnTime, actual, cam, ref),
			ReferenceDate:         ref,
			Deadline:              ref.Add(time.Duration(pol.KickDays) * 24 * time.Hour),
			LastVoiceTime:         m.LastVoiceTime,
			LastMessageTime:       m.LastMessageTime,
			InVoice:               s.live.InVoice(m.UserID),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Verdict.MeetsAll != out[j].Verdict.MeetsAll {
			return !out[i].Verdict.MeetsAll
		}
		return out[i].ActualTotalMinutes < out[j].ActualTotalMinutes
	})
	return out, nil
}
