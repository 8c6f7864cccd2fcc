package discord

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// handleMessageComponent: hoy solo los botones ◀/▶ del /check. El custom_id
// trae la página destino (check_page:N) así no guardamos estado por mensaje.
func (r *Router) handleMessageComponent(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	data := ic.MessageComponentData()

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in component %q: %v", data.CustomID, rec)
		}
	}()

	if !strings.HasPrefix(data.CustomID, "check_page:") {
		return
	}
	if ic.Member == nil || ic.Member.User == nil {
		return
	}
	if !r.clicks.Allow(ic.Member.User.ID) {
		// ack silencioso para que Discord no marque la interacción como fallida
		_ = s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
		return
	}
	if !r.requireAdminOrRoles(s, ic) {
		return
	}

	page, err := strconv.Atoi(strings.TrimPrefix(data.CustomID, "check_page:"))
	if err != nil {
		log.Printf("⚠️ custom_id inválido: %q", data.CustomID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// re-consultamos en vez de cachear páginas: los minutos en vivo cambian
	list, err := r.checker.DetailedList(ctx)
	if err != nil {
		log.Printf("⚠️ paginación: %v", err)
		return
	}

	r.mu.Lock()
	sum := r.lastCheck
	r.mu.Unlock()

	embed, comps := renderCheckEmbed(list, sum, page)
	UpdateMessage(s, ic, embed, comps)
}
