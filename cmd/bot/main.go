package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"eventbot/internal/adapters/discord"
	"eventbot/internal/config"
	"eventbot/internal/infrastructure/database"
	"eventbot/internal/infrastructure/filestore"
	"eventbot/internal/infrastructure/i18n"
	"eventbot/internal/ports/output"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Configuración inválida: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Error al inicializar el almacén de eventos: %v", err)
	}
	defer closeStore()

	msg := i18n.NewTranslator(cfg.Locale).ForLocale(cfg.Locale)

	bot, err := discord.NewBot(ctx, cfg, store, msg)
	if err != nil {
		log.Fatalf("❌ Error al crear el bot: %v", err)
	}
	if err := bot.Start(ctx); err != nil {
		log.Printf("❌ Error al iniciar el bot: %v", err)
		closeStore()
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (output.EventStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return nil, nil, err
		}
		pool, err := database.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return database.NewEventStore(pool), pool.Close, nil
	default:
		store, err := filestore.Open(cfg.EventsFile)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
