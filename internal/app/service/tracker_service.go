package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jose-valero/voice-activity-bot/internal/domain"
	"github.com/jose-valero/voice-activity-bot/internal/infra/storage"
)

// liveSession es el intervalo de presencia abierto de un miembro.
type liveSession struct {
	joinTime  time.Time
	channelID string
	cameraOn  bool
}

// TrackerService mantiene en memoria quién está en canales de voz trackeados
// y convierte las transiciones de presencia en sesiones persistidas + minutos
// acumulados. Una instancia por guild; el mapa de sesiones es de esta
// instancia, nada de estado global.
type TrackerService struct {
	mu       sync.Mutex
	sessions map[string]*liveSession
	tracked  map[string]struct{}

	members  MemberRepo
	log      SessionRepo
	channels ChannelRepo

	guildID string
	// umbral del reset de ventana al cruzarlo (RESET_THRESHOLD_MINUTES);
	// independiente del required_minutes del guild a propósito.
	resetThreshold int

	now func() time.Time
}

func NewTrackerService(members MemberRepo, sessionLog SessionRepo, channels ChannelRepo, guildID string, resetThreshold int) *TrackerService {
	return &TrackerService{
		sessions:       map[string]*liveSession{},
		tracked:        map[string]struct{}{},
		members:        members,
		log:            sessionLog,
		channels:       channels,
		guildID:        guildID,
		resetThreshold: resetThreshold,
		now:            time.Now,
	}
}

// LoadTrackedChannels recarga el set de canales de voz trackeados desde la DB.
func (s *TrackerService) LoadTrackedChannels(ctx context.Context) error {
	chans, err := s.channels.ListActive(ctx, s.guildID, storage.ChannelKindVoice)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.tracked = make(map[string]struct{}, len(chans))
	for _, c := range chans {
		s.tracked[c.ChannelID] = struct{}{}
	}
	n := len(s.tracked)
	s.mu.Unlock()
	log.Printf("🎤 %d canales de voz trackeados cargados", n)
	return nil
}

func (s *TrackerService) IsTrackedChannel(channelID string) bool {
	if channelID == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tracked[channelID]
	return ok
}

func (s *TrackerService) AddTrackedChannel(channelID string) {
	s.mu.Lock()
	s.tracked[channelID] = struct{}{}
	s.mu.Unlock()
}

func (s *TrackerService) RemoveTrackedChannel(channelID string) {
	s.mu.Lock()
	delete(s.tracked, channelID)
	s.mu.Unlock()
}

// HandlePresence es el único punto de entrada para cambios de estado de voz.
// Un movimiento entre dos canales trackeados se procesa como salida+entrada
// (queda una sesión corta de frontera en el canal viejo; intencional).
func (s *TrackerService) HandlePresence(ctx context.Context, userID, username, oldChannelID, newChannelID string, cameraOn bool) error {
	was := s.IsTrackedChannel(oldChannelID)
	is := s.IsTrackedChannel(newChannelID)

	switch {
	case !was && is:
		return s.handleJoin(ctx, userID, username, newChannelID, cameraOn)
	case was && !is:
		return s.handleLeave(ctx, userID, username, oldChannelID)
	case was && is && oldChannelID != newChannelID:
		if err := s.handleLeave(ctx, userID, username, oldChannelID); err != nil {
			return err
		}
		return s.handleJoin(ctx, userID, username, newChannelID, cameraOn)
	case was && is:
		// mismo canal: solo cambió la cámara
		return s.handleCameraToggle(ctx, userID, cameraOn)
	}
	return nil
}

func (s *TrackerService) handleJoin(ctx context.Context, userID, username, channelID string, cameraOn bool) error {
	now := s.now()

	s.mu.Lock()
	s.sessions[userID] = &liveSession{joinTime: now, channelID: channelID, cameraOn: cameraOn}
	s.mu.Unlock()
	log.Printf("🎤 join: %s (%s) canal=%s camara=%v", username, userID, channelID, cameraOn)

	// El miembro se crea al entrar al server, no acá; solo refrescamos tiempos.
	_, err := s.members.Get(ctx, userID, s.guildID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		log.Printf("⚠️ tracker: get member %s: %v", userID, err)
		return nil
	}

	upd := storage.MemberUpdate{LastVoiceTime: &now}
	if cameraOn {
		upd.LastCameraOnTime = &now
	}
	if err := s.members.Update(ctx, userID, s.guildID, upd); err != nil {
		log.Printf("⚠️ tracker: update last_voice_time %s: %v", userID, err)
	}
	return nil
}

func (s *TrackerService) handleLeave(ctx context.Context, userID, username, channelID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	s.mu.Unlock()
	if !ok {
		log.Printf("⚠️ tracker: %s salió pero no había join registrado", username)
		return nil
	}

	now := s.now()
	dur := domain.MinutesBetween(sess.joinTime, now)

	if err := s.log.Append(ctx, storage.VoiceSession{
		UserID:          userID,
		GuildID:         s.guildID,
		ChannelID:       channelID,
		JoinedAt:        sess.joinTime,
		LeftAt:          now,
		DurationMinutes: dur,
	}); err != nil {
		log.Printf("⚠️ tracker: append session %s: %v", userID, err)
	}

	m, err := s.members.Get(ctx, userID, s.guildID)
	if err == nil {
		newTotal := m.TotalMinutes + dur
		upd := storage.MemberUpdate{TotalMinutes: &newTotal, LastVoiceTime: &now}

		if sess.cameraOn {
			newCam := m.CameraOnMinutes + dur
			upd.CameraOnMinutes = &newCam
		}

		// Cruce del umbral: el que se pone al día reinicia su ventana en vez
		// de comerse un kick por una ventana que ya cumplió.
		if newTotal >= s.resetThreshold && m.TotalMinutes < s.resetThreshold {
			upd.WeekStart = &now
			f := false
			upd.WarningSent = &f
			if m.Status == storage.StatusWarned {
				a := storage.StatusActive
				upd.Status = &a
			}
			log.Printf("✅ %s cruzó los %dm, ventana reiniciada", username, s.resetThreshold)
		}

		if err := s.members.Update(ctx, userID, s.guildID, upd); err != nil {
			log.Printf("⚠️ tracker: update totales %s: %v", userID, err)
		} else {
			log.Printf("🎤 leave: %s canal=%s dur=%dm total=%dm", username, channelID, dur, newTotal)
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Printf("⚠️ tracker: get member %s: %v", userID, err)
	}

	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	return nil
}

func (s *TrackerService) handleCameraToggle(ctx context.Context, userID string, cameraOn bool) error {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	var turnedOn bool
	if ok {
		turnedOn = cameraOn && !sess.cameraOn
		sess.cameraOn = cameraOn
	}
	s.mu.Unlock()
	if !ok || !turnedOn {
		return nil
	}

	now := s.now()
	if err := s.members.Update(ctx, userID, s.guildID, storage.MemberUpdate{LastCameraOnTime: &now}); err != nil &&
		!errors.Is(err, storage.ErrNotFound) {
		log.Printf("⚠️ tracker: update last_camera_on %s: %v", userID, err)
	}
	return nil
}

// CurrentSessionMinutes proyecta "si se desconectara ahora" sin mutar nada.
// now puede ser anterior al join: el checker fija su instante una vez y los
// handlers de voz corren en goroutines propias, así que una sesión puede
// abrirse a mitad del pase. Esa sesión todavía no aporta nada.
func (s *TrackerService) CurrentSessionMinutes(userID string, now time.Time) int {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	s.mu.Unlock()
	if !ok || now.Before(sess.joinTime) {
		return 0
	}
	return domain.MinutesBetween(sess.joinTime, now)
}

// CurrentCameraMinutes aproxima: la sesión abierta completa cuenta como
// cámara encendida si la cámara está encendida ahora; no acumulamos
// intervalos de prendido/apagado dentro de la sesión.
func (s *TrackerService) CurrentCameraMinutes(userID string, now time.Time) int {
	s.mu.Lock()
	sess, ok := s.sessions[userID]
	s.mu.Unlock()
	if !ok || !sess.cameraOn || now.Before(sess.joinTime) {
		return 0
	}
	return domain.MinutesBetween(sess.joinTime, now)
}

func (s *TrackerService) InVoice(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[userID]
	return ok
}

func (s *TrackerService) ActiveSessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// PresentMember es un miembro ya conectado al momento del arranque.
type PresentMember struct {
	UserID   string
	CameraOn bool
}

// InitializeFromSnapshot siembra sesiones para quienes ya estaban en canales
// trackeados al (re)arrancar. joinTime = ahora: el tiempo previo al restart
// se pierde, asumido.
func (s *TrackerService) InitializeFromSnapshot(presentByChannel map[string][]PresentMember) int {
	now := s.now()
	count := 0

	s.mu.Lock()
	for channelID, present := range presentByChannel {
		if _, ok := s.tracked[channelID]; !ok {
			continue
		}
		for _, p := range present {
			s.sessions[p.UserID] = &liveSession{joinTime: now, channelID: channelID, cameraOn: p.CameraOn}
			count++
		}
	}
	s.mu.Unlock()

	log.Printf("✅ %d sesiones de voz inicializadas desde snapshot", count)
	return count
}

// RegisterMember crea el registro al entrar al server. Devuelve false si ya
// existía.
func (s *TrackerService) RegisterMember(ctx context.Context, userID, username string, joinedAt time.Time) (bool, error) {
	_, err := s.members.Get(ctx, userID, s.guildID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return false, err
	}

	m := storage.Member{
		UserID:    userID,
		GuildID:   s.guildID,
		Username:  username,
		JoinedAt:  joinedAt,
		WeekStart: joinedAt,
		Status:    storage.StatusActive,
	}
	if err := s.members.Create(ctx, m); err != nil {
		return false, err
	}
	log.Printf("✅ miembro nuevo registrado: %s (%s)", username, userID)
	return true, nil
}

// TrackMessage actualiza last_message_time si el mensaje cayó en un canal de
// chat trackeado (o en un thread cuyo padre lo está).
func (s *TrackerService) TrackMessage(ctx context.Context, userID, channelID, parentChannelID string) error {
	ok, err := s.channels.IsTracked(ctx, channelID, s.guildID, storage.ChannelKindChat)
	if err != nil {
		return err
	}
	if !ok && parentChannelID != "" {
		ok, err = s.channels.IsTracked(ctx, parentChannelID, s.guildID, storage.ChannelKindChat)
		if err != nil {
			return err
		}
	}
	if !ok {
		return nil
	}
	return s.members.TouchLastMessage(ctx, userID, s.guildID)
}
