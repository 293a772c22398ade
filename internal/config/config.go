package config

import (
	_ "embed"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"eventbot/internal/domain/entities"
	"eventbot/pkg/tz"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"

	// Four rows of five buttons; the fifth row holds the event actions.
	maxRoles      = 20
	maxRoleKeyLen = 40
)

//go:embed roles.toml
var defaultRoles []byte

type Config struct {
	Token   string
	GuildID string

	StoreBackend   string
	EventsFile     string
	DatabaseURL    string
	MigrationsPath string

	Locale   string
	Timezone string
	Location *time.Location

	RolesFile string
	Roles     []entities.RoleSlot

	ReminderLead      time.Duration
	ReminderInterval  time.Duration
	WizardStepTimeout time.Duration
	ExclusiveSignup   bool
	// ClickCooldown throttles button clicks per member and event; 0 disables it.
	ClickCooldown time.Duration
}

// Load lee la configuración del entorno (y de .env si existe) y la valida.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env es opcional cuando las variables vienen del entorno (Docker, CI, etc.).
	}

	cfg := &Config{
		Token:          os.Getenv("DISCORD_TOKEN"),
		GuildID:        os.Getenv("GUILD_ID"),
		StoreBackend:   envOr("STORE_BACKEND", BackendFile),
		EventsFile:     envOr("EVENTS_FILE", "events.json"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		Locale:         envOr("LOCALE", "es"),
		Timezone:       envOr("TIMEZONE", "Europe/Madrid"),
		RolesFile:      os.Getenv("ROLES_FILE"),
	}

	var err error
	if cfg.ReminderLead, err = envDuration("REMINDER_LEAD", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ReminderInterval, err = envDuration("REMINDER_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.WizardStepTimeout, err = envDuration("WIZARD_STEP_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ExclusiveSignup, err = envBool("EXCLUSIVE_SIGNUP", true); err != nil {
		return nil, err
	}
	if cfg.ClickCooldown, err = envDuration("CLICK_COOLDOWN", 750*time.Millisecond); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate aplica todas las reglas sobre la configuración cargada.
func (c *Config) validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return fmt.Errorf("config: DISCORD_TOKEN es obligatorio")
	}

	if strings.TrimSpace(c.GuildID) == "" {
		return fmt.Errorf("config: GUILD_ID es obligatorio")
	}
	for _, r := range c.GuildID {
		if r < '0' || r > '9' {
			return fmt.Errorf("config: GUILD_ID debe ser un ID de servidor Discord (solo dígitos)")
		}
	}

	switch c.StoreBackend {
	case BackendFile:
		if strings.TrimSpace(c.EventsFile) == "" {
			return fmt.Errorf("config: EVENTS_FILE no puede estar vacío")
		}
	case BackendPostgres:
		parsed, err := url.Parse(c.DatabaseURL)
		if err != nil {
			return fmt.Errorf("config: DATABASE_URL inválida (%q): %w", c.DatabaseURL, err)
		}
		if parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("config: DATABASE_URL inválida (%q): falta scheme o host", c.DatabaseURL)
		}
	default:
		return fmt.Errorf("config: STORE_BACKEND desconocido %q (file|postgres)", c.StoreBackend)
	}

	loc, err := tz.Load(c.Timezone)
	if err != nil {
		return fmt.Errorf("config: TIMEZONE inválida (%q): %w", c.Timezone, err)
	}
	c.Location = loc

	if c.ReminderLead <= 0 {
		return fmt.Errorf("config: REMINDER_LEAD debe ser positivo")
	}
	if c.ReminderInterval <= 0 {
		return fmt.Errorf("config: REMINDER_INTERVAL debe ser positivo")
	}
	if c.WizardStepTimeout < 0 {
		return fmt.Errorf("config: WIZARD_STEP_TIMEOUT no puede ser negativo")
	}
	if c.ClickCooldown < 0 {
		return fmt.Errorf("config: CLICK_COOLDOWN no puede ser negativo")
	}

	data := defaultRoles
	if c.RolesFile != "" {
		if data, err = os.ReadFile(c.RolesFile); err != nil {
			return fmt.Errorf("config: ROLES_FILE: %w", err)
		}
	}
	if c.Roles, err = ParseRoles(data); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ParseRoles decodes a roles.toml document.
func ParseRoles(data []byte) ([]entities.RoleSlot, error) {
	var doc struct {
		Roles []entities.RoleSlot `toml:"roles"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("roles: %w", err)
	}
	if len(doc.Roles) == 0 {
		return nil, fmt.Errorf("roles: se necesita al menos un rol")
	}
	if len(doc.Roles) > maxRoles {
		return nil, fmt.Errorf("roles: máximo %d roles, hay %d", maxRoles, len(doc.Roles))
	}
	seen := make(map[string]bool, len(doc.Roles))
	for i, r := range doc.Roles {
		key := strings.TrimSpace(r.Key)
		switch {
		case key == "":
			return nil, fmt.Errorf("roles[%d]: key vacío", i)
		case len(key) > maxRoleKeyLen || strings.Contains(key, ":"):
			return nil, fmt.Errorf("roles[%d]: key %q inválido", i, key)
		case seen[key]:
			return nil, fmt.Errorf("roles[%d]: key %q duplicado", i, key)
		}
		seen[key] = true
		doc.Roles[i].Key = key
	}
	return doc.Roles, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s inválido (%q): %w", key, v, err)
	}
	return d, nil
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s inválido (%q): %w", key, v, err)
	}
	return b, nil
}
