package domain

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// HasDaysPassed: ¿pasaron `days` días continuos desde ref?
// Días continuos, no días de calendario: "7 días" = 168 horas exactas.
func HasDaysPassed(ref time.Time, days int, now time.Time) bool {
	return now.Sub(ref) >= time.Duration(days)*day
}

// IsWarningWindow: warningDays <= transcurrido < kickDays.
// Devuelve false una vez alcanzado el umbral de kick (el kick tiene prioridad,
// nunca las dos ventanas a la vez).
func IsWarningWindow(ref time.Time, warningDays, kickDays int, now time.Time) bool {
	elapsed := now.Sub(ref)
	return elapsed >= time.Duration(warningDays)*day && elapsed < time.Duration(kickDays)*day
}

// DaysUntilDeadline: días restantes hasta ref+kickDays, con ceil y clamp a 0.
// Justo en el deadline devuelve 0; justo en ref devuelve kickDays completos.
func DaysUntilDeadline(ref time.Time, kickDays int, now time.Time) int {
	deadline := ref.Add(time.Duration(kickDays) * day)
	remain := deadline.Sub(now)
	if remain <= 0 {
		return 0
	}
	d := int(remain / day)
	if remain%day > 0 {
		d++
	}
	return d
}

// MeetsRequirement: valor >= umbral.
func MeetsRequirement(value, threshold int) bool {
	return value >= threshold
}

// MinutesBetween: minutos completos entre start y end (floor).
// end < start es un bug del caller; reventamos en vez de clampear en silencio.
func MinutesBetween(start, end time.Time) int {
	if end.Before(start) {
		panic(fmt.Sprintf("domain.MinutesBetween: end %s antes de start %s", end, start))
	}
	return int(end.Sub(start) / time.Minute)
}

// FormatMinutes: "3h 25m" o "25m".
func FormatMinutes(total int) string {
	h := total / 60
	m := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
