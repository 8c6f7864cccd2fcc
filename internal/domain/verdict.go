package domain

import "time"

// Policy son las reglas de actividad configuradas para el guild.
type Policy struct {
	KickDays              int
	WarningDays           int
	RequiredMinutes       int
	RequiredCameraMinutes int
	RequireCameraOn       bool
	RequireVoicePresence  bool
}

// Verdict es el resultado por criterio de evaluar a un miembro en un instante.
type Verdict struct {
	MeetsMinutes       bool
	MeetsVoicePresence bool
	MeetsCameraUsage   bool
	MeetsCameraMinutes bool
	MeetsAll           bool
}

// Evaluate aplica la policy sobre el estado de un miembro. Puro: mismos
// inputs, mismo verdict.
//
// Los criterios de cámara solo aplican si RequireVoicePresence está activo:
// a quien no se le exige voz no se lo puede penalizar por la cámara.
func Evaluate(p Policy, lastVoiceTime, lastCameraOnTime *time.Time, liveTotalMinutes, liveCameraMinutes int, reference time.Time) Verdict {
	v := Verdict{
		MeetsMinutes:       MeetsRequirement(liveTotalMinutes, p.RequiredMinutes),
		MeetsVoicePresence: !p.RequireVoicePresence || lastVoiceTime != nil,
		MeetsCameraUsage:   true,
		MeetsCameraMinutes: true,
	}

	if p.RequireVoicePresence {
		if p.RequireCameraOn {
			v.MeetsCameraUsage = lastCameraOnTime != nil && !lastCameraOnTime.Before(reference)
		}
		v.MeetsCameraMinutes = MeetsRequirement(liveCameraMinutes, p.RequiredCameraMinutes)
	}

	v.MeetsAll = v.MeetsMinutes && v.MeetsVoicePresence && v.MeetsCameraUsage && v.MeetsCameraMinutes
	return v
}

// FailingCriteria lista los criterios incumplidos, para armar los mensajes
// de aviso y el motivo del kick.
func (v Verdict) FailingCriteria() []string {
	var out []string
	if !v.MeetsMinutes {
		out = append(out, "minutos de voz")
	}
	if !v.MeetsVoicePresence {
		out = append(out, "presencia en voz")
	}
	if !v.MeetsCameraUsage {
		out = append(out, "uso de cámara")
	}
	if !v.MeetsCameraMinutes {
		out = append(out, "minutos con cámara")
	}
	return out
}
