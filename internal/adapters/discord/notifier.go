package discord

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/voice-activity-bot/internal/app/service"
	"github.com/jose-valero/voice-activity-bot/internal/domain"
)

// Notifier implementa service.Notifier: DM de aviso y kick del guild.
type Notifier struct {
	s *discordgo.Session
}

func NewNotifier(s *discordgo.Session) *Notifier { return &Notifier{s: s} }

func (n *Notifier) SendWarning(ctx context.Context, guildID, userID string, d service.WarnDetails) error {
	ch, err := n.s.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("abrir DM con %s: %w", userID, err)
	}

	msg := fmt.Sprintf(
		"⚠️ **Aviso de actividad**\n\n"+
			"Hola, %s!\n\n"+
			"Tu actividad semanal en los canales de voz no alcanza todavía:\n"+
			"- Tiempo actual: %s\n"+
			"- Tiempo requerido: %s\n"+
			"- Te falta: %s\n"+
			"- Criterios pendientes: %s\n"+
			"- Plazo restante: ~%d día(s)\n\n"+
			"**Si no completás lo pendiente en %d día(s), el bot te va a sacar del server automáticamente.**\n\n"+
			"Entrá a un canal de voz trackeado y sumá tu tiempo! 🎯",
		d.Username,
		domain.FormatMinutes(d.TotalMinutes),
		domain.FormatMinutes(d.RequiredMinutes),
		domain.FormatMinutes(d.MinutesNeeded),
		strings.Join(d.Failing, ", "),
		d.DaysRemaining, d.DaysRemaining,
	)

	if _, err := n.s.ChannelMessageSend(ch.ID, msg); err != nil {
		return fmt.Errorf("DM de aviso a %s: %w", userID, err)
	}
	return nil
}

func (n *Notifier) RemoveMember(ctx context.Context, guildID, userID string, d service.KickDetails) error {
	// DM best-effort antes del kick; si falla igual kickeamos
	if ch, err := n.s.UserChannelCreate(userID); err == nil {
		msg := fmt.Sprintf(
			"🚫 **Saliste del server**\n\n"+
				"%s, no llegaste al mínimo de actividad semanal y el bot te sacó automáticamente.\n"+
				"- Tiempo final: %s\n"+
				"- Tiempo requerido: %s\n"+
				"- Criterios incumplidos: %s\n\n"+
				"Si querés volver, hablá con un administrador.",
			d.Username,
			domain.FormatMinutes(d.TotalMinutes),
			domain.FormatMinutes(d.RequiredMinutes),
			strings.Join(d.Failing, ", "),
		)
		if _, err := n.s.ChannelMessageSend(ch.ID, msg); err != nil {
			log.Printf("⚠️ no pude mandar DM de kick a %s: %v", d.Username, err)
		}
	} else {
		log.Printf("⚠️ no pude abrir DM con %s antes del kick: %v", d.Username, err)
	}

	if err := n.s.GuildMemberDeleteWithReason(guildID, userID, d.Reason); err != nil {
		return fmt.Errorf("kick de %s: %w", userID, err)
	}
	return nil
}
