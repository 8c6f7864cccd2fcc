package discord

import "github.com/bwmarrin/discordgo"

// requireAdminOrRoles protege los comandos que mutan estado (check, sync,
// canales, reglas). Pasan: el owner del guild, cualquiera con el bit
// Administrator, o quien tenga alguno de los roles de ADMIN_ROLE_IDS.
func (r *Router) requireAdminOrRoles(s *discordgo.Session, ic *discordgo.InteractionCreate) bool {
	if ic.Member == nil || ic.Member.User == nil {
		return false
	}

	if g, _ := s.State.Guild(ic.GuildID); g != nil && ic.Member.User.ID == g.OwnerID {
		return true
	}

	if hasAdministratorBit(s, ic.GuildID, ic.Member.Roles) {
		return true
	}

	for _, want := range r.adminRoleIDs {
		for _, rid := range ic.Member.Roles {
			if rid == want {
				return true
			}
		}
	}

	ReplyEphemeral(s, ic, "🔒 Este comando es solo para administradores del seguimiento de actividad.")
	return false
}

func hasAdministratorBit(s *discordgo.Session, guildID string, memberRoles []string) bool {
	roles, err := s.GuildRoles(guildID)
	if err != nil {
		return false
	}
	byID := make(map[string]*discordgo.Role, len(roles))
	for _, ro := range roles {
		byID[ro.ID] = ro
	}
	for _, rid := range memberRoles {
		if ro, ok := byID[rid]; ok && ro.Permissions&discordgo.PermissionAdministrator != 0 {
			return true
		}
	}
	return false
}
