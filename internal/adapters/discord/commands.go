package discord

import "github.com/bwmarrin/discordgo"

var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "ping",
		Description: "Verifica que el bot responde",
	},
	{
		Name:        "help",
		Description: "Muestra los comandos disponibles",
	},
	{
		Name:        "status",
		Description: "Estado actual: sesiones de voz activas y canales trackeados",
	},
	{
		Name:        "check",
		Description: "Corre el chequeo de actividad ahora y muestra el detalle (admins)",
	},
	{
		Name:        "sync",
		Description: "Registra todos los miembros del server en la DB (admins, setup inicial)",
	},
	{
		Name:        "report",
		Description: "Reporte semanal: minutos, sesiones y deadline por miembro",
	},
	{
		Name:        "addchannel",
		Description: "Agrega un canal al seguimiento (voz/texto/foro, se detecta solo)",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "channel",
			Description: "Canal a trackear",
			Required:    true,
		}},
	},
	{
		Name:        "removechannel",
		Description: "Saca un canal del seguimiento",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionChannel,
			Name:        "channel",
			Description: "Canal a dejar de trackear",
			Required:    true,
		}},
	},
	{
		Name:        "listchannels",
		Description: "Lista los canales trackeados (voz y chat)",
	},
	{
		Name:        "kicksettings",
		Description: "Ver o cambiar las reglas de actividad (admins)",
		Options: []*discordgo.ApplicationCommandOption{
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "view", Description: "Ver configuración actual"},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "set",
				Description: "Actualizar configuración (solo lo que pases)",
				Options: []*discordgo.ApplicationCommandOption{
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "kick_days", Description: "Días hasta el kick"},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "warning_days", Description: "Días hasta el aviso (menor que kick_days)"},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "required_minutes", Description: "Minutos de voz requeridos"},
					{Type: discordgo.ApplicationCommandOptionInteger, Name: "required_camera_minutes", Description: "Minutos con cámara requeridos (0 = no aplica)"},
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "require_camera_on", Description: "Exigir haber usado cámara"},
					{Type: discordgo.ApplicationCommandOptionBoolean, Name: "require_voice_presence", Description: "Exigir haber entrado a voz"},
				},
			},
			{Type: discordgo.ApplicationCommandOptionSubCommand, Name: "reset", Description: "Volver a los valores por defecto"},
		},
	},
}
