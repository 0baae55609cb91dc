// Package main is the entry point for the Elura Utility bot.
// It initializes all systems and starts the Discord bot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/r-4-e/Elura-Utility/internal/commands"
	"github.com/r-4-e/Elura-Utility/internal/commands/wizard"
	"github.com/r-4-e/Elura-Utility/internal/events"
	"github.com/r-4-e/Elura-Utility/pkg/config"
	"github.com/r-4-e/Elura-Utility/pkg/database"
	"github.com/r-4-e/Elura-Utility/pkg/discord"
	"github.com/r-4-e/Elura-Utility/pkg/errors"
	"github.com/r-4-e/Elura-Utility/pkg/ledger"
	"github.com/r-4-e/Elura-Utility/pkg/logger"
	"github.com/r-4-e/Elura-Utility/pkg/mqtt"
	"github.com/r-4-e/Elura-Utility/pkg/setup"
	"github.com/r-4-e/Elura-Utility/pkg/web"
)

func main() {
	started := time.Now()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.Init(cfg.ErrorWebhook, cfg.LogsWebhook)
	defer log.Close()

	logger.System("Iniciando Elura Utility...", "Main")
	logger.Info(fmt.Sprintf("Directorio de trabajo: %s", getCurrentDir()), "Main")

	// Initialize error handler
	var discordClient *discord.ExtendedClient
	errors.Init(cfg.ErrorWebhook, func() {
		if discordClient != nil {
			_ = discordClient.Stop()
		}
	})

	// Initialize document store
	backend, closeBackend, err := openBackend(cfg)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error abriendo almacenamiento: %v", err), "Main")
		os.Exit(1)
	}
	defer closeBackend()

	store := database.Init(backend)
	store.OnCorrupt = func(name string, cause error) {
		go errors.Get().ReportCorruptDocument(name, cause)
	}
	if err := ledger.InitGlobal(store); err != nil {
		logger.Critical(fmt.Sprintf("Error registrando documentos: %v", err), "Main")
		os.Exit(1)
	}
	logger.Success(fmt.Sprintf("Almacenamiento listo (%s)", backend.Name()), "Main")

	// Initialize Discord client
	discordClient, err = discord.Init(cfg.BotToken)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creating Discord client: %v", err), "Main")
		os.Exit(1)
	}

	tiers, err := config.LoadTiers(cfg.TiersFile, cfg)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error cargando tiers: %v", err), "Main")
		os.Exit(1)
	}
	discordClient.Tiers = tiers

	wizards := setup.NewManager(ledger.Guilds.Apply, wizard.TimeoutNotifier(discordClient.Session))
	defer wizards.Close()

	// Initialize MQTT
	if cfg.MQTTEnabled() {
		mqttClientID := "elura-utility"
		if !cfg.IsProd() {
			mqttClientID = "elura-utility_canary"
		}

		mqttClient := mqtt.Init(cfg.MQTTHost, cfg.MQTTPort, cfg.MQTTUser, cfg.MQTTPassword, mqttClientID, cfg.MQTTPrefix)
		defer mqttClient.Destroy()

		ledger.Cases.SetNotifier(mqtt.NewCasePublisher(mqttClient))
		registerMQTTRequests(mqttClient, discordClient, store, started)
	}

	// Initialize web server
	webServer, err := web.Init(cfg.LogsWebServerHook, cfg.AllowedHosts)
	if err != nil {
		logger.Critical(fmt.Sprintf("Error creando servidor web: %v", err), "Main")
		os.Exit(1)
	}
	web.SetupAPIRoutes(webServer, web.Status{
		Started: started,
		Store:   store,
		Bot:     discordClient,
		Wizards: wizards,
	})
	webServer.StartAsync(cfg.Port)

	// Register commands and events
	commands.RegisterAll(discordClient, wizards)
	events.RegisterAll(discordClient, wizards)

	// Start the bot
	if err := discordClient.Start(); err != nil {
		logger.Critical(fmt.Sprintf("Error starting Discord client: %v", err), "Main")
		os.Exit(1)
	}

	logger.Success("Elura Utility iniciado correctamente!", "Main")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	logger.System("Apagando Elura Utility...", "Main")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := webServer.Shutdown(ctx); err != nil {
		logger.Warn(fmt.Sprintf("Error cerrando servidor web: %v", err), "Main")
	}
	if err := discordClient.Stop(); err != nil {
		logger.Warn(fmt.Sprintf("Error cerrando sesión de Discord: %v", err), "Main")
	}
}

// openBackend picks the file or MongoDB backend. The returned func releases it.
func openBackend(cfg *config.Config) (database.Backend, func(), error) {
	if !cfg.UsesMongo() {
		b, err := database.NewFileBackend(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return b, func() {}, nil
	}

	m, err := database.ConnectMongo(cfg.MongoDBURL, cfg.DBName)
	if err != nil {
		logger.Debug(fmt.Sprintf("Error connecting to database: %v", cfg.MongoDBURL), "Main")
		return nil, nil, err
	}
	return m, func() {
		if err := m.Disconnect(); err != nil {
			logger.Warn(fmt.Sprintf("Error desconectando MongoDB: %v", err), "Main")
		}
	}, nil
}

// registerMQTTRequests answers dashboard queries over MQTT
func registerMQTTRequests(mc *mqtt.MqttCommunicator, client *discord.ExtendedClient, store *database.Store, started time.Time) {
	mc.On("status", func(json.RawMessage) (interface{}, error) {
		return map[string]interface{}{
			"isReady":       client.IsReady(),
			"guilds":        client.GuildCount(),
			"commands":      client.CommandCount(),
			"uptimeSeconds": int64(time.Since(started).Seconds()),
			"store":         store.Status(),
		}, nil
	})

	mc.On("cases", func(payload json.RawMessage) (interface{}, error) {
		var req struct {
			GuildID string `json:"guildId"`
			UserID  string `json:"userId"`
		}
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, fmt.Errorf("payload inválido: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), discord.OperationTimeout)
		defer cancel()
		return ledger.Cases.ListCases(ctx, req.GuildID, req.UserID)
	})
}

// getCurrentDir returns the current working directory
func getCurrentDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "unknown"
	}
	return dir
}
