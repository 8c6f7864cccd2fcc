package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

func optBool(ic *discordgo.InteractionCreate, name string) (bool, bool) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return false, false
	}
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionBoolean {
			return o.BoolValue(), true
		}
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			for _, so := range o.Options {
				if so.Name == name && so.Type == discordgo.ApplicationCommandOptionBoolean {
					return so.BoolValue(), true
				}
			}
		}
	}
	return false, false
}

func optInt(ic *discordgo.InteractionCreate, name string) (int, bool) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return 0, false
	}
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionInteger {
			return int(o.IntValue()), true
		}
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			for _, so := range o.Options {
				if so.Name == name && so.Type == discordgo.ApplicationCommandOptionInteger {
					return int(so.IntValue()), true
				}
			}
		}
	}
	return 0, false
}

func optChannel(s *discordgo.Session, ic *discordgo.InteractionCreate, name string) *discordgo.Channel {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return nil
	}
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Name == name && o.Type == discordgo.ApplicationCommandOptionChannel {
			return o.ChannelValue(s)
		}
	}
	return nil
}

func subcmdName(ic *discordgo.InteractionCreate) (string, bool) {
	if ic.Type != discordgo.InteractionApplicationCommand {
		return "", false
	}
	for _, o := range ic.ApplicationCommandData().Options {
		if o.Type == discordgo.ApplicationCommandOptionSubCommand {
			return o.Name, true
		}
	}
	return "", false
}

// fmtDiscordTime: timestamp nativo de Discord (se muestra en la zona de cada
// usuario); "nunca" para punteros nil.
func fmtDiscordTime(t *time.Time) string {
	if t == nil {
		return "nunca"
	}
	return fmt.Sprintf("<t:%d:f>", t.Unix())
}

func onOff(v bool) string {
	if v {
		return "✅ activado"
	}
	return "❌ desactivado"
}
