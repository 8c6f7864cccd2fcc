package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/voice-activity-bot/internal/app/service"
	"github.com/jose-valero/voice-activity-bot/internal/domain"
	"github.com/jose-valero/voice-activity-bot/internal/infra/storage"
)

const checkItemsPerPage = 20

// renderCheckEmbed arma la página pedida del listado detallado, con botones
// ◀/▶ que llevan la página destino en el custom_id (check_page:N).
func renderCheckEmbed(list []service.MemberStanding, sum service.CheckSummary, page int) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	totalPages := (len(list) + checkItemsPerPage - 1) / checkItemsPerPage
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	start := page * checkItemsPerPage
	end := start + checkItemsPerPage
	if end > len(list) {
		end = len(list)
	}

	var b strings.Builder
	for i, m := range list[start:end] {
		statusEmoji := "✅"
		if !m.Verdict.MeetsAll {
			statusEmoji = "❌"
		}
		warnSuffix := ""
		if m.Status == storage.StatusWarned {
			warnSuffix = " ⚠️"
		}
		voiceEmoji := "⚫"
		if m.InVoice {
			voiceEmoji = "🔴"
		}

		fmt.Fprintf(&b, "**%d.** %s **%s**%s %s\n", start+i+1, statusEmoji, m.Username, warnSuffix, voiceEmoji)
		fmt.Fprintf(&b, "    📅 Ventana: <t:%d:d> ~ <t:%d:d>\n", m.ReferenceDate.Unix(), m.Deadline.Unix())
		if m.CurrentSessionMinutes > 0 {
			fmt.Fprintf(&b, "    ⏱️ Acumulado: **%s** (incluye %s en vivo)\n",
				domain.FormatMinutes(m.ActualTotalMinutes), domain.FormatMinutes(m.CurrentSessionMinutes))
		} else {
			fmt.Fprintf(&b, "    ⏱️ Acumulado: **%s**\n", domain.FormatMinutes(m.ActualTotalMinutes))
		}
		fmt.Fprintf(&b, "    🎤 Última voz: %s · 💬 Último chat: %s\n",
			fmtDiscordTime(m.LastVoiceTime), fmtDiscordTime(m.LastMessageTime))
		if failing := m.Verdict.FailingCriteria(); len(failing) > 0 {
			fmt.Fprintf(&b, "    ❌ Pendiente: %s\n", strings.Join(failing, ", "))
		}
		if i < end-start-1 {
			b.WriteString("\n")
		}
	}
	content := b.String()
	if content == "" {
		content = "No hay miembros trackeados."
	}

	embed := &discordgo.MessageEmbed{
		Color: 0x5865F2,
		Title: "📊 Chequeo de actividad",
		Description: fmt.Sprintf(
			"✅ **Chequeo completado**\nRevisados: %d · Avisados: %d · Kickeados: %d\nPágina %d/%d (%d-%d de %d)",
			sum.Total, sum.Warned, sum.Kicked, page+1, totalPages, start+1, end, len(list)),
		Fields: []*discordgo.MessageEmbedField{{
			Name:  "​",
			Value: content,
		}},
		Timestamp: time.Now().Format(time.RFC3339),
	}

	var comps []discordgo.MessageComponent
	if totalPages > 1 {
		comps = []discordgo.MessageComponent{discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Style:    discordgo.PrimaryButton,
					Label:    "◀ Anterior",
					CustomID: fmt.Sprintf("check_page:%d", page-1),
					Disabled: page == 0,
				},
				discordgo.Button{
					Style:    discordgo.PrimaryButton,
					Label:    "Siguiente ▶",
					CustomID: fmt.Sprintf("check_page:%d", page+1),
					Disabled: page == totalPages-1,
				},
			},
		}}
	}
	return embed, comps
}

func renderSettingsEmbed(title, footer string, st storage.KickSettings) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color:       0x0099FF,
		Title:       title,
		Description: "Reglas de actividad del server.",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🔴 Días hasta el kick", Value: fmt.Sprintf("%d días", st.KickDays), Inline: true},
			{Name: "⚠️ Días hasta el aviso", Value: fmt.Sprintf("%d días", st.WarningDays), Inline: true},
			{Name: "⏱️ Minutos requeridos", Value: fmt.Sprintf("%d min", st.RequiredMinutes), Inline: true},
			{Name: "🎥 Minutos con cámara", Value: fmt.Sprintf("%d min", st.RequiredCameraMinutes), Inline: true},
			{Name: "🎥 Cámara obligatoria", Value: onOff(st.RequireCameraOn), Inline: true},
			{Name: "🔊 Voz obligatoria", Value: onOff(st.RequireVoicePresence), Inline: true},
		},
		Footer:    &discordgo.MessageEmbedFooter{Text: footer},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

func renderReportEmbed(rows []service.WeeklyReportRow) *discordgo.MessageEmbed {
	lines := "No hay miembros activos."
	if len(rows) > 0 {
		var b strings.Builder
		for i, row := range rows {
			fmt.Fprintf(&b, "%d) **%s** — %s en %d sesión(es), %d día(s) de plazo\n",
				i+1, row.Username, domain.FormatMinutes(row.TotalMinutes), row.SessionCount, row.DaysUntilDeadline)
		}
		lines = b.String()
	}
	return &discordgo.MessageEmbed{
		Color:       0x5865F2,
		Title:       "🗓️ Reporte semanal",
		Description: lines,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}
