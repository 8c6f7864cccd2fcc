package service

import (
	"context"
	"time"

	"github.com/jose-valero/voice-activity-bot/internal/infra/storage"
)

// Fakes en memoria de los ports; cada test arma solo lo que necesita.

type fakeMemberRepo struct {
	members   map[string]storage.Member // por userID
	updateErr error
	listErr   error
	touched   []string
}

func newFakeMemberRepo(members ...storage.Member) *fakeMemberRepo {
	f := &fakeMemberRepo{members: map[string]storage.Member{}}
	for _, m := range members {
		f.members[m.UserID] = m
	}
	return f
}

func (f *fakeMemberRepo) Create(ctx context.Context, m storage.Member) error {
	f.members[m.UserID] = m
	return nil
}

func (f *fakeMemberRepo) Get(ctx context.Context, userID, guildID string) (storage.Member, error) {
	m, ok := f.members[userID]
	if !ok {
		return storage.Member{}, storage.ErrNotFound
	}
	return m, nil
}

func (f *fakeMemberRepo) Update(ctx context.Context, userID, guildID string, u storage.MemberUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	m, ok := f.members[userID]
	if !ok {
		return storage.ErrNotFound
	}
	if u.LastVoiceTime != nil {
		m.LastVoiceTime = u.LastVoiceTime
	}
	if u.LastCameraOnTime != nil {
		m.LastCameraOnTime = u.LastCameraOnTime
	}
	if u.TotalMinutes != nil {
		m.TotalMinutes = *u.TotalMinutes
	}
	if u.CameraOnMinutes != nil {
		m.CameraOnMinutes = *u.CameraOnMinutes
	}
	if u.WeekStart != nil {
		m.WeekStart = *u.WeekStart
	}
	if u.WarningSent != nil {
		m.WarningSent = *u.WarningSent
	}
	if u.Status != nil {
		m.Status = *u.Status
	}
	f.members[userID] = m
	return nil
}

func (f *fakeMemberRepo) ListCheckable(ctx context.Context, guildID string) ([]storage.Member, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []storage.Member
	for _, m := range f.members {
		if m.Status == storage.StatusActive || m.Status == storage.StatusWarned {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) ListActive(ctx context.Context, guildID string) ([]storage.Member, error) {
	var out []storage.Member
	for _, m := range f.members {
		if m.Status == storage.StatusActive {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMemberRepo) TouchLastMessage(ctx context.Context, userID, guildID string) error {
	f.touched = append(f.touched, userID)
	return nil
}

func (f *fakeMemberRepo) Stats(ctx context.Context, guildID string) (storage.MemberStats, error) {
	st := storage.MemberStats{Total: len(f.members)}
	for _, m := range f.members {
		switch m.Status {
		case storage.StatusActive:
			st.Active++
		case storage.StatusWarned:
			st.Warned++
		case storage.StatusKicked:
			st.Kicked++
		}
	}
	return st, nil
}

type fakeSessionRepo struct {
	appended []storage.VoiceSession
	counts   map[string]int
}

func (f *fakeSessionRepo) Append(ctx context.Context, s storage.VoiceSession) error {
	f.appended = append(f.appended, s)
	return nil
}

func (f *fakeSessionRepo) CountSinceWeekStart(ctx context.Context, guildID string, userIDs []string) (map[string]int, error) {
	return f.counts, nil
}

type fakeChannelRepo struct {
	channels map[string]storage.TrackedChannel // por channelID
}

func newFakeChannelRepo(chans ...storage.TrackedChannel) *fakeChannelRepo {
	f := &fakeChannelRepo{channels: map[string]storage.TrackedChannel{}}
	for _, c := range chans {
		if !c.IsActive {
			c.IsActive = true
		}
		f.channels[c.ChannelID] = c
	}
	return f
}

func (f *fakeChannelRepo) Add(ctx context.Context, c storage.TrackedChannel) (bool, error) {
	if _, ok := f.channels[c.ChannelID]; ok {
		return false, nil
	}
	c.IsActive = true
	f.channels[c.ChannelID] = c
	return true, nil
}

func (f *fakeChannelRepo) Remove(ctx context.Context, channelID, guildID string) (string, error) {
	c, ok := f.channels[channelID]
	if !ok {
		return "", nil
	}
	delete(f.channels, channelID)
	return c.Kind, nil
}

func (f *fakeChannelRepo) ListActive(ctx context.Context, guildID, kind string) ([]storage.TrackedChannel, error) {
	var out []storage.TrackedChannel
	for _, c := range f.channels {
		if c.Kind == kind && c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChannelRepo) List(ctx context.Context, guildID, kind string) ([]storage.TrackedChannel, error) {
	var out []storage.TrackedChannel
	for _, c := range f.channels {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeChannelRepo) IsTracked(ctx context.Context, channelID, guildID, kind string) (bool, error) {
	c, ok := f.channels[channelID]
	return ok && c.Kind == kind && c.IsActive, nil
}

type fakeSettingsRepo struct {
	st  storage.KickSettings
	err error
}

func (f *fakeSettingsRepo) Get(ctx context.Context, guildID string) (storage.KickSettings, error) {
	if f.err != nil {
		return storage.DefaultKickSettings(guildID), f.err
	}
	return f.st, nil
}

func (f *fakeSettingsRepo) Upsert(ctx context.Context, s storage.KickSettings) error {
	f.st = s
	return nil
}

type fakeNotifier struct {
	warnings []WarnDetails
	kicks    []KickDetails
	warnErr  error
	kickErr  error
}

func (f *fakeNotifier) SendWarning(ctx context.Context, guildID, userID string, d WarnDetails) error {
	if f.warnErr != nil {
		return f.warnErr
	}
	f.warnings = append(f.warnings, d)
	return nil
}

func (f *fakeNotifier) RemoveMember(ctx context.Context, guildID, userID string, d KickDetails) error {
	if f.kickErr != nil {
		return f.kickErr
	}
	f.kicks = append(f.kicks, d)
	return nil
}

type fakeLive struct {
	sessionMin map[string]int
	cameraMin  map[string]int
	inVoice    map[string]bool
}

func (f *fakeLive) CurrentSessionMinutes(userID string, now time.Time) int {
	return f.sessionMin[userID]
}

func (f *fakeLive) CurrentCameraMinutes(userID string, now time.Time) int {
	return f.cameraMin[userID]
}

func (f *fakeLive) InVoice(userID string) bool { return f.inVoice[userID] }
