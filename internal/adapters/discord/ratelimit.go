package discord

import (
	"sync"
	"time"
)

// clickLimiter frena el spam de botones de la paginación del /check: cada
// click re-consulta la proyección completa contra la DB, así que un usuario
// martillando ◀/▶ se traduce directo en queries.
type clickLimiter struct {
	mu        sync.Mutex
	nextClick map[string]time.Time
	cooldown  time.Duration
}

func newClickLimiter(cooldown time.Duration) *clickLimiter {
	return &clickLimiter{nextClick: map[string]time.Time{}, cooldown: cooldown}
}

// Allow deja pasar un click por usuario por ventana; los demás se descartan.
func (l *clickLimiter) Allow(userID string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if until, ok := l.nextClick[userID]; ok && now.Before(until) {
		return false
	}
	l.nextClick[userID] = now.Add(l.cooldown)
	return true
}
