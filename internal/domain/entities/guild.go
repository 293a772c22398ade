package entities

// RoleSlot is a signup role offered on every event (one button each).
type RoleSlot struct {
	Key   string `toml:"key"`
	Emoji string `toml:"emoji"`
	// Admin slots are left out of reminder mentions.
	Admin bool `toml:"admin"`
}

// Channel is a guild text channel as seen by the wizard.
type Channel struct {
	ID   string
	Name string
}

// GuildRole is a guild role a creator can mention, restrict to or assign.
type GuildRole struct {
	ID   string
	Name string
}
