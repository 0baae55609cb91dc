// Command sync-commands pushes Elura Utility's slash commands to Discord and audits
// them against the role tier table.
//
// Usage:
//
//	sync-commands [-list] [-clean] [-dev | -guild <id>] [-audit]
//
// With no action flag the commands are synced globally, or to the target guild when
// -dev or -guild is given. -dev targets devGuildId from the environment. -audit only
// reads the tier table and does not connect to Discord.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/r-4-e/Elura-Utility/internal/commands"
	"github.com/r-4-e/Elura-Utility/pkg/config"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
)

const prefix = "SyncCommands"

func main() {
	listCmd := flag.Bool("list", false, "List the commands Discord has registered")
	cleanCmd := flag.Bool("clean", false, "Remove every command without registering new ones")
	auditCmd := flag.Bool("audit", false, "Report restricted commands the tier table does not grant")
	devGuild := flag.Bool("dev", false, "Target the dev guild from devGuildId")
	guildID := flag.String("guild", "", "Target a specific guild (leave empty for global)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	target, err := resolveGuild(*guildID, *devGuild, cfg.DevGuildID)
	if err != nil {
		logger.Critical(err.Error(), prefix)
		os.Exit(1)
	}

	client, err := discord.NewClient(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando el cliente de Discord: %v", err), prefix)
		os.Exit(1)
	}

	// No wizard runs here
	commands.RegisterAll(client, nil)

	tiers, err := config.LoadTiers(cfg.TiersFile, cfg)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error cargando la tabla de niveles: %v", err), prefix)
		os.Exit(1)
	}

	report := auditTiers(client.Commands.ByCategory(), tiers)
	for _, line := range report.lines() {
		logger.Info(line, prefix)
	}
	if *auditCmd {
		if !report.clean() {
			os.Exit(2)
		}
		return
	}
	if !report.clean() {
		logger.Warn("La tabla de niveles tiene problemas, se sincroniza igualmente", prefix)
	}

	if err := client.Session.Open(); err != nil {
		logger.Critical(fmt.Sprintf("Error conectando a Discord: %v", err), prefix)
		os.Exit(1)
	}
	defer client.Session.Close()

	switch {
	case *listCmd:
		err = listCommands(client, target)
	case *cleanCmd:
		err = cleanCommands(client, target)
	default:
		err = syncCommands(client, target)
	}
	if err != nil {
		logger.Error(err.Error(), prefix)
		os.Exit(1)
	}

	logger.Success("Operación completada", prefix)
}

// resolveGuild picks the guild to act on. "" means global.
func resolveGuild(guildID string, dev bool, devGuildID string) (string, error) {
	switch {
	case dev && guildID != "":
		return "", fmt.Errorf("-dev and -guild are mutually exclusive")
	case dev && devGuildID == "":
		return "", fmt.Errorf("-dev needs devGuildId to be set")
	case dev:
		return devGuildID, nil
	}
	return guildID, nil
}

func scope(guildID string) string {
	if guildID == "" {
		return "globales"
	}
	return "del servidor " + guildID
}

func listCommands(client *discord.ExtendedClient, guildID string) error {
	var (
		cmds []*discordgo.ApplicationCommand
		err  error
	)
	if guildID != "" {
		cmds, err = client.CommandHandler.ListGuildCommands(guildID)
	} else {
		cmds, err = client.CommandHandler.ListGlobalCommands()
	}
	if err != nil {
		return fmt.Errorf("error obteniendo comandos: %w", err)
	}

	local := client.Commands.All()
	logger.Info(fmt.Sprintf("📋 %d comandos %s registrados en Discord", len(cmds), scope(guildID)), prefix)
	for i, cmd := range cmds {
		mark := ""
		if c, ok := local[cmd.Name]; !ok {
			mark = " [obsoleto]"
		} else if c.IsFounderOnly {
			mark = " [fundador]"
		} else if c.IsRestricted {
			mark = " [restringido]"
		}
		logger.Info(fmt.Sprintf("  %d. /%s%s (ID: %s)", i+1, cmd.Name, mark, cmd.ID), prefix)
	}
	return nil
}

func cleanCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("🧹 Eliminando comandos "+scope(guildID)+"...", prefix)

	var err error
	if guildID != "" {
		err = client.CommandHandler.UnregisterGuildCommands(guildID)
	} else {
		err = client.CommandHandler.UnregisterCommands()
	}
	if err != nil {
		return fmt.Errorf("error eliminando comandos: %w", err)
	}
	return nil
}

func syncCommands(client *discord.ExtendedClient, guildID string) error {
	logger.Info("🔄 Sincronizando comandos "+scope(guildID)+"...", prefix)

	if guildID == "" {
		if err := client.CommandHandler.SyncCommands(); err != nil {
			return fmt.Errorf("error sincronizando comandos: %w", err)
		}
		logger.Success(fmt.Sprintf("✅ %d comandos globales sincronizados", len(client.CommandHandler.GlobalCommands())), prefix)
		return nil
	}

	n, err := client.CommandHandler.SyncGuildCommands(guildID)
	if err != nil {
		return fmt.Errorf("error sincronizando comandos del servidor: %w", err)
	}
	logger.Success(fmt.Sprintf("✅ %d comandos sincronizados en el servidor %s", n, guildID), prefix)
	return nil
}

// tierAudit compares the gated commands with what the tier table grants.
type tierAudit struct {
	// granted maps each restricted command to the tiers that grant it
	granted map[string][]string
	// ungranted are restricted commands only the founder can run
	ungranted   []string
	founderOnly []string
	// unknown are tier entries naming a command that does not exist
	unknown []string
}

func auditTiers(groups map[string][]*discord.Command, tiers *config.TierTable) tierAudit {
	a := tierAudit{granted: make(map[string][]string)}

	restricted := make(map[string]bool)
	for _, cmds := range groups {
		for _, cmd := range cmds {
			switch {
			case cmd.IsFounderOnly:
				a.founderOnly = append(a.founderOnly, cmd.Name)
			case cmd.IsRestricted:
				restricted[cmd.Name] = true
			}
		}
	}

	for _, tier := range tiers.Tiers {
		for _, name := range tier.Commands {
			if restricted[name] {
				a.granted[name] = append(a.granted[name], tier.Name)
			} else if !contains(a.unknown, tier.Name+"/"+name) && !contains(a.founderOnly, name) {
				a.unknown = append(a.unknown, tier.Name+"/"+name)
			}
		}
	}

	for name := range restricted {
		if len(a.granted[name]) == 0 {
			a.ungranted = append(a.ungranted, name)
		}
	}

	sort.Strings(a.ungranted)
	sort.Strings(a.founderOnly)
	sort.Strings(a.unknown)
	return a
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// clean reports whether every restricted command is reachable and every tier entry
// names a real command.
func (a tierAudit) clean() bool {
	return len(a.ungranted) == 0 && len(a.unknown) == 0
}

func (a tierAudit) lines() []string {
	names := make([]string, 0, len(a.granted))
	for name := range a.granted {
		names = append(names, name)
	}
	sort.Strings(names)

	out := []string{fmt.Sprintf("🔒 %d comandos restringidos, %d solo para el fundador", len(names)+len(a.ungranted), len(a.founderOnly))}
	for _, name := range names {
		out = append(out, fmt.Sprintf("  /%s: %s", name, strings.Join(a.granted[name], ", ")))
	}
	if len(a.founderOnly) > 0 {
		out = append(out, "  Solo fundador: /"+strings.Join(a.founderOnly, ", /"))
	}
	if len(a.ungranted) > 0 {
		out = append(out, "⚠️ Ningún nivel concede: /"+strings.Join(a.ungranted, ", /"))
	}
	if len(a.unknown) > 0 {
		out = append(out, "⚠️ Comandos desconocidos en la tabla: "+strings.Join(a.unknown, ", "))
	}
	return out
}
