package domain

import (
	"reflect"
	"testing"
	"time"
)

func TestEvaluateMinutesOnly(t *testing.T) {
	pol := Policy{KickDays: 7, WarningDays: 6, RequiredMinutes: 30}
	reference := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	v := Evaluate(pol, nil, nil, 45, 0, reference)
	if !v.MeetsAll {
		t.Fatalf("45m con umbral 30m debería cumplir todo: %+v", v)
	}

	v = Evaluate(pol, nil, nil, 10, 0, reference)
	if v.MeetsMinutes || v.MeetsAll {
		t.Fatalf("10m con umbral 30m no debería cumplir minutos: %+v", v)
	}
	// sin voz/cámara requeridas, el resto pasa aunque nunca haya entrado a voz
	if !v.MeetsVoicePresence || !v.MeetsCameraUsage || !v.MeetsCameraMinutes {
		t.Fatalf("criterios no exigidos deben cumplirse solos: %+v", v)
	}
}

func TestEvaluateVoicePresence(t *testing.T) {
	pol := Policy{KickDays: 7, WarningDays: 6, RequiredMinutes: 30, RequireVoicePresence: true}
	reference := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	v := Evaluate(pol, nil, nil, 45, 0, reference)
	if v.MeetsVoicePresence {
		t.Fatalf("sin lastVoiceTime no hay presencia en voz: %+v", v)
	}

	seen := reference.Add(2 * time.Hour)
	v = Evaluate(pol, &seen, nil, 45, 0, reference)
	if !v.MeetsVoicePresence || !v.MeetsAll {
		t.Fatalf("con lastVoiceTime debería cumplir: %+v", v)
	}
}

// Los criterios de cámara solo aplican cuando se exige presencia en voz.
func TestEvaluateCameraGatedByVoicePresence(t *testing.T) {
	reference := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	pol := Policy{KickDays: 7, WarningDays: 6, RequiredMinutes: 30,
		RequiredCameraMinutes: 15, RequireCameraOn: true}

	// sin RequireVoicePresence la cámara se ignora por completo
	v := Evaluate(pol, nil, nil, 45, 0, reference)
	if !v.MeetsCameraUsage || !v.MeetsCameraMinutes {
		t.Fatalf("cámara no debería evaluarse sin voz requerida: %+v", v)
	}

	pol.RequireVoicePresence = true
	seen := reference.Add(time.Hour)

	// cámara nunca encendida en esta ventana
	v = Evaluate(pol, &seen, nil, 45, 20, reference)
	if v.MeetsCameraUsage {
		t.Fatalf("sin lastCameraOnTime no hay uso de cámara: %+v", v)
	}

	// cámara encendida antes de la ventana no cuenta
	before := reference.Add(-time.Hour)
	v = Evaluate(pol, &seen, &before, 45, 20, reference)
	if v.MeetsCameraUsage {
		t.Fatalf("cámara previa a la ventana no debe contar: %+v", v)
	}

	// encendida dentro de la ventana y con minutos suficientes
	camOn := reference.Add(time.Hour)
	v = Evaluate(pol, &seen, &camOn, 45, 20, reference)
	if !v.MeetsCameraUsage || !v.MeetsCameraMinutes || !v.MeetsAll {
		t.Fatalf("debería cumplir todos los criterios: %+v", v)
	}

	// minutos de cámara insuficientes
	v = Evaluate(pol, &seen, &camOn, 45, 10, reference)
	if v.MeetsCameraMinutes || v.MeetsAll {
		t.Fatalf("10m de cámara con umbral 15m no cumple: %+v", v)
	}
}

func TestFailingCriteria(t *testing.T) {
	v := Verdict{MeetsMinutes: true, MeetsVoicePresence: true, MeetsCameraUsage: true, MeetsCameraMinutes: true, MeetsAll: true}
	if got := v.FailingCriteria(); len(got) != 0 {
		t.Fatalf("verdict limpio no debería listar pendientes: %v", got)
	}

	v = Verdict{MeetsVoicePresence: true, MeetsCameraUsage: true}
	want := []string{"minutos de voz", "minutos con cámara"}
	if got := v.FailingCriteria(); !reflect.DeepEqual(got, want) {
		t.Fatalf("FailingCriteria = %v, quería %v", got, want)
	}
}
