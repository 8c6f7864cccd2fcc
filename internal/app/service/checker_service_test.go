package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jose-valero/voice-activity-bot/internal/infra/storage"
)

func newTestChecker(members *fakeMemberRepo, notifier *fakeNotifier, live *fakeLive) *CheckerService {
	if live == nil {
		live = &fakeLive{}
	}
	settings := &fakeSettingsRepo{st: storage.DefaultKickSettings(testGuild)}
	c := NewCheckerService(members, settings, notifier, live, testGuild)
	c.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }
	return c
}

// miembro con la ventana anclada `age` atrás respecto del now fijo del checker
func memberAged(userID string, total int, age time.Duration) storage.Member {
	ref := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC).Add(-age)
	m := activeMember(userID, total)
	m.LastVoiceTime = &ref
	return m
}

func TestRunCheckKicksAfterDeadline(t *testing.T) {
	// 8 días sin llegar a los 30m requeridos
	members := newFakeMemberRepo(memberAged("u1", 10, 8*24*time.Hour))
	notifier := &fakeNotifier{}
	c := newTestChecker(members, notifier, nil)

	sum, err := c.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	if sum.Total != 1 || sum.Kicked != 1 || sum.Warned != 0 {
		t.Fatalf("resumen inesperado: %+v", sum)
	}
	if len(notifier.kicks) != 1 {
		t.Fatalf("kicks notificados = %d, quería 1", len(notifier.kicks))
	}
	if notifier.kicks[0].Reason == "" {
		t.Fatal("el kick debe llevar motivo")
	}
	if got := members.members["u1"].Status; got != storage.StatusKicked {
		t.Fatalf("status = %s, quería kicked", got)
	}
}

func TestRunCheckWarnsInWindow(t *testing.T) {
	// día 6 de 7, sin minutos suficientes
	members := newFakeMemberRepo(memberAged("u1", 10, 6*24*time.Hour+time.Hour))
	notifier := &fakeNotifier{}
	c := newTestChecker(members, notifier, nil)

	sum, err := c.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	if sum.Warned != 1 || sum.Kicked != 0 {
		t.Fatalf("resumen inesperado: %+v", sum)
	}
	if len(notifier.warnings) != 1 {
		t.Fatalf("avisos = %d, quería 1", len(notifier.warnings))
	}
	w := notifier.warnings[0]
	if w.MinutesNeeded != 20 {
		t.Fatalf("minutos faltantes = %d, quería 20", w.MinutesNeeded)
	}
	if w.DaysRemaining != 1 {
		t.Fatalf("días restantes = %d, quería 1", w.DaysRemaining)
	}

	got := members.members["u1"]
	if got.Status != storage.StatusWarned || !got.WarningSent {
		t.Fatalf("estado tras aviso: status=%s warning_sent=%v", got.Status, got.WarningSent)
	}
}

func TestRunCheckWarnsOnlyOnce(t *testing.T) {
	m := memberAged("u1", 10, 6*24*time.Hour+time.Hour)
	m.Status = storage.StatusWarned
	m.WarningSent = true
	members := newFakeMemberRepo(m)
	notifier := &fakeNotifier{}
	c := newTestChecker(members, notifier, nil)

	sum, err := c.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	if sum.Warned != 0 || len(notifier.warnings) != 0 {
		t.Fatalf("no debería repetir el aviso: %+v", sum)
	}
}

func TestRunCheckCompliantMemberUntouched(t *testing.T) {
	// pasó el deadline pero cumple los minutos: no pasa nada
	members := newFakeMemberRepo(memberAged("u1", 45, 8*24*time.Hour))
	notifier := &fakeNotifier{}
	c := newTestChecker(members, notifier, nil)

	sum, err := c.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	if sum.Warned != 0 || sum.Kicked != 0 {
		t.Fatalf("miembro cumplidor no debería ser tocado: %+v", sum)
	}
	if got := members.members["u1"].Status; got != storage.StatusActive {
		t.Fatalf("status = %s, quería active", got)
	}
}

// La sesión abierta cuenta: 20m persistidos + 15m en vivo superan los 30m.
func TestRunCheckLiveSessionCounts(t *testing.T) {
	members := newFakeMemberRepo(memberAged("u1", 20, 8*24*time.Hour))
	notifier := &fakeNotifier{}
	live := &fakeLive{sessionMin: map[string]int{"u1": 15}, inVoice: map[string]bool{"u1": true}}
	c := newTestChecker(members, notifier, live)

	sum, err := c.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	if sum.Kicked != 0 || len(notifier.kicks) != 0 {
		t.Fatalf("con la sesión en vivo cumple, no va kick: %+v", sum)
	}
}

// Si la notificación falla no se persiste nada: reintenta en el próximo pase.
func TestRunCheckNotifierFailureLeavesStateUntouched(t *testing.T) {
	members := newFakeMemberRepo(
		memberAged("u1", 10, 8*24*time.Hour),
		memberAged("u2", 10, 6*24*time.Hour+time.Hour),
	)
	notifier := &fakeNotifier{
		kickErr: errors.New("discord caído"),
		warnErr: errors.New("dm cerrado"),
	}
	c := newTestChecker(members, notifier, nil)

	sum, err := c.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	if sum.Warned != 0 || sum.Kicked != 0 {
		t.Fatalf("fallas de notificación no cuentan en el resumen: %+v", sum)
	}
	if got := members.members["u1"].Status; got != storage.StatusActive {
		t.Fatalf("u1 status = %s, quería active (reintento pendiente)", got)
	}
	if got := members.members["u2"]; got.WarningSent || got.Status != storage.StatusActive {
		t.Fatalf("u2 no debería quedar avisado: %+v", got)
	}
}

// Un miembro que entra a voz mientras el pase ya está corriendo (su join
// queda después del now fijado por el checker) no debe voltear el pase.
func TestRunCheckToleratesJoinDuringPass(t *testing.T) {
	members := newFakeMemberRepo(memberAged("u1", 10, 8*24*time.Hour))
	sessions := &fakeSessionRepo{}
	tr, setNow := newTestTracker(t, members, sessions)

	checkAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	setNow(checkAt.Add(time.Second))
	if err := tr.HandlePresence(context.Background(), "u1", "user-u1", "", voiceChan, true); err != nil {
		t.Fatalf("join: %v", err)
	}

	notifier := &fakeNotifier{}
	settings := &fakeSettingsRepo{st: storage.DefaultKickSettings(testGuild)}
	c := NewCheckerService(members, settings, notifier, tr, testGuild)
	c.now = func() time.Time { return checkAt }

	sum, err := c.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	// el join movió last_voice_time: la ventana acaba de reiniciarse
	if sum.Kicked != 0 || sum.Warned != 0 {
		t.Fatalf("resumen inesperado: %+v", sum)
	}
}

// warning_days >= kick_days ya persistido: la ventana de aviso colapsa y solo
// corre el camino de kick, sin aviso previo y sin romperse.
func TestRunCheckCollapsedWarningWindow(t *testing.T) {
	members := newFakeMemberRepo(
		memberAged("early", 10, 6*24*time.Hour+12*time.Hour),
		memberAged("late", 10, 8*24*time.Hour),
	)
	notifier := &fakeNotifier{}
	settings := &fakeSettingsRepo{st: storage.KickSettings{
		GuildID: testGuild, KickDays: 7, WarningDays: 7, RequiredMinutes: 30,
	}}
	c := NewCheckerService(members, settings, notifier, &fakeLive{}, testGuild)
	c.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }

	sum, err := c.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	if sum.Warned != 0 || len(notifier.warnings) != 0 {
		t.Fatalf("con la ventana colapsada no hay avisos: %+v", sum)
	}
	if sum.Kicked != 1 || members.members["late"].Status != storage.StatusKicked {
		t.Fatalf("late debería ser kickeado directo: %+v", sum)
	}
	if got := members.members["early"].Status; got != storage.StatusActive {
		t.Fatalf("early sigue dentro del plazo: status=%s", got)
	}
}

func TestRunCheckSkipsKickedMembers(t *testing.T) {
	m := memberAged("u1", 0, 20*24*time.Hour)
	m.Status = storage.StatusKicked
	members := newFakeMemberRepo(m)
	notifier := &fakeNotifier{}
	c := newTestChecker(members, notifier, nil)

	sum, err := c.RunCheck(context.Background())
	if err != nil {
		t.Fatalf("RunCheck: %v", err)
	}
	if sum.Total != 0 || len(notifier.kicks) != 0 {
		t.Fatalf("kickeado no es chequeable: %+v", sum)
	}
}

func TestRunCheckListErrorPropagates(t *testing.T) {
	members := newFakeMemberRepo()
	members.listErr = errors.New("db caída")
	c := newTestChecker(members, &fakeNotifier{}, nil)

	if _, err := c.RunCheck(context.Background()); err == nil {
		t.Fatal("esperaba error cuando el listado falla")
	}
}

func TestDetailedListOrderAndProjection(t *testing.T) {
	members := newFakeMemberRepo(
		memberAged("ok", 45, 2*24*time.Hour),
		memberAged("low", 5, 2*24*time.Hour),
		memberAged("mid", 20, 2*24*time.Hour),
	)
	live := &fakeLive{
		sessionMin: map[string]int{"mid": 3},
		inVoice:    map[string]bool{"mid": true},
	}
	c := newTestChecker(members, &fakeNotifier{}, live)

	list, err := c.DetailedList(context.Background())
	if err != nil {
		t.Fatalf("DetailedList: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("filas = %d, quería 3", len(list))
	}

	// primero los que no cumplen, por minutos reales ascendente; el cumplidor último
	if list[0].UserID != "low" || list[1].UserID != "mid" || list[2].UserID != "ok" {
		t.Fatalf("orden inesperado: %s, %s, %s", list[0].UserID, list[1].UserID, list[2].UserID)
	}
	mid := list[1]
	if mid.ActualTotalMinutes != 23 || mid.CurrentSessionMinutes != 3 {
		t.Fatalf("proyección en vivo de mid inesperada: %+v", mid)
	}
	if !mid.InVoice {
		t.Fatal("mid debería figurar en voz")
	}
	if mid.DaysUntilDeadline != 5 {
		t.Fatalf("días restantes de mid = %d, quería 5", mid.DaysUntilDeadline)
	}
	if !mid.Deadline.Equal(mid.ReferenceDate.Add(7 * 24 * time.Hour)) {
		t.Fatalf("deadline inconsistente: %v", mid.Deadline)
	}
	if list[2].Verdict.MeetsAll != true {
		t.Fatal("ok debería cumplir todo")
	}
}
