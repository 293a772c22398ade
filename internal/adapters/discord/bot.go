package discord

import (
	"context"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/application"
	"eventbot/internal/config"
	"eventbot/internal/ports/output"
)

// Bot is the Discord adapter.
type Bot struct {
	session   *discordgo.Session
	config    *config.Config
	handler   *Handler
	reminders *application.ReminderService
}

// NewBot creates a Bot and wires ports: output adapters -> application (use cases) -> handler.
// ctx bounds every background task the bot starts.
func NewBot(ctx context.Context, cfg *config.Config, store output.EventStore, msg output.Messages) (*Bot, error) {
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("crear sesión de Discord: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsDirectMessages

	announcer := NewAnnouncer(s, cfg.Roles, msg)
	eventUC := application.NewEventService(store, announcer)
	signupUC := application.NewSignupService(store, announcer, announcer, cfg.Roles)
	wizardUC := application.NewWizard(announcer, msg, application.WizardConfig{
		Roles:       cfg.Roles,
		Location:    cfg.Location,
		StepTimeout: cfg.WizardStepTimeout,
		Exclusive:   cfg.ExclusiveSignup,
	})

	handler := NewHandler(ctx, s, eventUC, signupUC, wizardUC, msg, HandlerConfig{
		Location:      cfg.Location,
		ClickCooldown: cfg.ClickCooldown,
	})

	bot := &Bot{
		session:   s,
		config:    cfg,
		handler:   handler,
		reminders: application.NewReminderService(store, announcer, cfg.Roles, cfg.ReminderLead),
	}
	bot.setupHandlers()
	return bot, nil
}

func (b *Bot) setupHandlers() {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("✅ Conectado como %s", r.User.String())
	})
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(b.handler.handleDirectMessage)
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("❌ panic en interacción %s: %v", i.ID, rec)
		}
	}()
	if i.GuildID != "" && i.GuildID != b.config.GuildID {
		return
	}
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handler.HandleCommand(s, i)
	case discordgo.InteractionMessageComponent:
		b.handler.HandleComponent(s, i)
	case discordgo.InteractionModalSubmit:
		b.handler.HandleModalSubmit(s, i)
	}
}

// Start connects, registers the guild commands and runs the reminder loop
// until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error al abrir la sesión: %w", err)
	}
	defer b.session.Close()

	for _, cmd := range b.handler.commands() {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd); err != nil {
			log.Printf("⚠️ Error al registrar el comando %s: %v", cmd.Name, err)
		}
	}

	go b.RunScheduledTasks(ctx, b.config.ReminderInterval)

	log.Println("🤖 Bot en línea. Pulsa CTRL+C para salir.")
	<-ctx.Done()
	log.Println("👋 Cerrando bot...")
	return nil
}
