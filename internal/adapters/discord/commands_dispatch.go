// logica de InteractionApplicationCommand de discordgo:
// acá solo manejamos la interacción del usuario y despachamos a los servicios
package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/jose-valero/voice-activity-bot/internal/app/service"
	"github.com/jose-valero/voice-activity-bot/internal/infra/storage"
)

func (r *Router) handleSlashCommand(s *discordgo.Session, ic *discordgo.InteractionCreate) {
	cmd := ic.ApplicationCommandData()
	log.Printf("cmd: /%s by=%s guild=%s", cmd.Name, ic.Member.User.ID, ic.GuildID)

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("panic in cmd /%s: %v", cmd.Name, rec)
			ReplyEphemeral(s, ic, "❌ Ocurrió un error inesperado procesando el comando. Contacta con un administrador.")
		}
	}()

	_ = DeferEphemeral(s, ic)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd.Name {

	case "ping":
		ReplyEphemeral(s, ic, "🏓 Pong!")

	case "help":
		ReplyEphemeral(s, ic, helpText)

	//--> chequeo manual + listado detallado paginado
	case "check":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		sum, err := r.checker.RunCheck(ctx)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude correr el chequeo: "+err.Error())
			return
		}
		r.mu.Lock()
		r.lastCheck = sum
		r.mu.Unlock()

		list, err := r.checker.DetailedList(ctx)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ Chequeo ok pero no pude armar el listado: "+err.Error())
			return
		}
		if len(list) == 0 {
			ReplyEphemeral(s, ic, "✅ Chequeo completado! No hay miembros trackeados todavía (probá `/sync`).")
			return
		}
		embed, comps := renderCheckEmbed(list, sum, 0)
		ReplyEphemeralComplex(s, ic, embed, comps)

	case "status":
		active := r.tracker.ActiveSessionCount()
		chans, err := r.channels.ListActive(ctx, ic.GuildID, storage.ChannelKindVoice)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude leer los canales: "+err.Error())
			return
		}
		mentions := make([]string, 0, len(chans))
		for _, c := range chans {
			mentions = append(mentions, "<#"+c.ChannelID+">")
		}
		list := "ninguno"
		if len(mentions) > 0 {
			list = strings.Join(mentions, ", ")
		}
		stats, _ := r.stats.Overall(ctx)
		ReplyEphemeral(s, ic, fmt.Sprintf(
			"📊 **Estado actual**\n\n- En voz ahora: %d\n- Canales de voz trackeados: %s (%d)\n- Miembros: %d total · %d activos · %d avisados · %d kickeados",
			active, list, len(chans), stats.Total, stats.Active, stats.Warned, stats.Kicked))

	//--> registra todos los miembros del guild (setup inicial)
	case "sync":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		added, skipped, err := r.syncMembers(ctx, ic.GuildID)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ Sincronización falló: "+err.Error())
			return
		}
		ReplyEphemeral(s, ic, fmt.Sprintf(
			"✅ Sincronización completada!\n\n- Registrados nuevos: %d\n- Saltados (bots o ya registrados): %d\n\nAhora podés correr `/check`.",
			added, skipped))

	case "report":
		rows, err := r.stats.WeeklyReport(ctx)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude armar el reporte: "+err.Error())
			return
		}
		ReplyEphemeral(s, ic, "", renderReportEmbed(rows))

	case "addchannel":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		ch := optChannel(s, ic, "channel")
		if ch == nil {
			ReplyEphemeral(s, ic, "⚠️ Canal inválido.")
			return
		}
		kind, emoji := channelKind(ch)
		if kind == "" {
			ReplyEphemeral(s, ic, "❌ Solo se pueden trackear canales de voz, texto o foro.")
			return
		}
		ok, err := r.channels.Add(ctx, storage.TrackedChannel{
			GuildID:     ic.GuildID,
			ChannelID:   ch.ID,
			ChannelName: ch.Name,
			Kind:        kind,
		})
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude agregar el canal: "+err.Error())
			return
		}
		if !ok {
			ReplyEphemeral(s, ic, "❌ Ese canal ya estaba en la lista.")
			return
		}
		if kind == storage.ChannelKindVoice {
			r.tracker.AddTrackedChannel(ch.ID)
		}
		ReplyEphemeral(s, ic, fmt.Sprintf("✅ %s Canal <#%s> agregado al seguimiento.", emoji, ch.ID))

	case "removechannel":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		ch := optChannel(s, ic, "channel")
		if ch == nil {
			ReplyEphemeral(s, ic, "⚠️ Canal inválido.")
			return
		}
		kind, err := r.channels.Remove(ctx, ch.ID, ic.GuildID)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude sacar el canal: "+err.Error())
			return
		}
		if kind == "" {
			ReplyEphemeral(s, ic, "❌ Ese canal no estaba en la lista.")
			return
		}
		if kind == storage.ChannelKindVoice {
			r.tracker.RemoveTrackedChannel(ch.ID)
		}
		ReplyEphemeral(s, ic, fmt.Sprintf("✅ Canal <#%s> fuera del seguimiento.", ch.ID))

	case "listchannels":
		voice, err := r.channels.List(ctx, ic.GuildID, storage.ChannelKindVoice)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude listar los canales: "+err.Error())
			return
		}
		chat, err := r.channels.List(ctx, ic.GuildID, storage.ChannelKindChat)
		if err != nil {
			ReplyEphemeral(s, ic, "⚠️ No pude listar los canales: "+err.Error())
			return
		}
		if len(voice) == 0 && len(chat) == 0 {
			ReplyEphemeral(s, ic, "📋 No hay canales trackeados. Agregá uno con `/addchannel`.")
			return
		}
		var b strings.Builder
		b.WriteString("📋 **Canales trackeados**\n")
		if len(voice) > 0 {
			b.WriteString("\n**🎤 Voz**\n")
			for i, c := range voice {
				fmt.Fprintf(&b, "%d. %s <#%s>\n", i+1, activeMark(c.IsActive), c.ChannelID)
			}
		}
		if len(chat) > 0 {
			b.WriteString("\n**💬 Chat**\n")
			for i, c := range chat {
				fmt.Fprintf(&b, "%d. %s <#%s>\n", i+1, activeMark(c.IsActive), c.ChannelID)
			}
		}
		ReplyEphemeral(s, ic, strings.TrimSpace(b.String()))

	case "kicksettings":
		if !r.requireAdminOrRoles(s, ic) {
			return
		}
		sub, _ := subcmdName(ic)
		switch sub {
		case "view", "":
			st, err := r.settings.Get(ctx)
			if err != nil {
				log.Printf("⚠️ kicksettings view: %v (mostrando defaults)", err)
			}
			ReplyEphemeral(s, ic, "", renderSettingsEmbed("⚙️ Reglas de actividad",
				"Cambialas con /kicksettings set", st))

		case "set":
			var patch service.SettingsPatch
			if v, ok := optInt(ic, "kick_days"); ok {
				patch.KickDays = &v
			}
			if v, ok := optInt(ic, "warning_days"); ok {
				patch.WarningDays = &v
			}
			if v, ok := optInt(ic, "required_minutes"); ok {
				patch.RequiredMinutes = &v
			}
			if v, ok := optInt(ic, "required_camera_minutes"); ok {
				patch.RequiredCameraMinutes = &v
			}
			if v, ok := optBool(ic, "require_camera_on"); ok {
				patch.RequireCameraOn = &v
			}
			if v, ok := optBool(ic, "require_voice_presence"); ok {
				patch.RequireVoicePresence = &v
			}
			st, err := r.settings.Update(ctx, patch)
			if err != nil {
				ReplyEphemeral(s, ic, "⚠️ No pude actualizar: "+err.Error())
				return
			}
			ReplyEphemeral(s, ic, "", renderSettingsEmbed("✅ Reglas actualizadas", "", st))

		case "reset":
			st, err := r.settings.Reset(ctx)
			if err != nil {
				ReplyEphemeral(s, ic, "⚠️ No pude resetear: "+err.Error())
				return
			}
			ReplyEphemeral(s, ic, "", renderSettingsEmbed("🔄 Reglas reseteadas a los defaults", "", st))
		}
	}
}

// syncMembers recorre todo el guild de a páginas y registra a los que falten.
func (r *Router) syncMembers(ctx context.Context, guildID string) (added, skipped int, err error) {
	after := ""
	for {
		members, err := r.s.GuildMembers(guildID, after, 1000)
		if err != nil {
			return added, skipped, err
		}
		if len(members) == 0 {
			return added, skipped, nil
		}
		for _, gm := range members {
			after = gm.User.ID
			if gm.User.Bot {
				skipped++
				continue
			}
			joined := gm.JoinedAt
			if joined.IsZero() {
				joined = time.Now()
			}
			created, err := r.tracker.RegisterMember(ctx, gm.User.ID, gm.User.Username, joined)
			if err != nil {
				log.Printf("⚠️ sync: registrar %s: %v", gm.User.ID, err)
				skipped++
				continue
			}
			if created {
				added++
			} else {
				skipped++
			}
		}
		if len(members) < 1000 {
			return added, skipped, nil
		}
	}
}

func channelKind(ch *discordgo.Channel) (kind, emoji string) {
	switch ch.Type {
	case discordgo.ChannelTypeGuildVoice, discordgo.ChannelTypeGuildStageVoice:
		return storage.ChannelKindVoice, "🎤"
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return storage.ChannelKindChat, "💬"
	case discordgo.ChannelTypeGuildForum:
		return storage.ChannelKindChat, "📋"
	}
	return "", ""
}

func activeMark(active bool) string {
	if active {
		return "✅"
	}
	return "❌"
}

const helpText = "📚 **Comandos disponibles**\n\n" +
	"`/ping` — verifica que el bot responde\n" +
	"`/help` — esta ayuda\n" +
	"`/status` — sesiones activas y canales trackeados\n" +
	"`/report` — reporte semanal de actividad\n" +
	"`/listchannels` — canales trackeados\n\n" +
	"**Solo admins:**\n" +
	"`/sync` — registra todos los miembros (setup inicial, 1 vez)\n" +
	"`/check` — corre el chequeo ahora y muestra el detalle\n" +
	"`/addchannel` / `/removechannel` — gestiona canales trackeados\n" +
	"`/kicksettings view|set|reset` — reglas de actividad"
