package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/input"
	"eventbot/internal/ports/output"
	"eventbot/pkg/tz"
)

var _ input.WizardUseCase = (*Wizard)(nil)

// Reply tokens understood at every prompt.
const (
	CancelToken = "cancelar"
	NoneToken   = "none"
	NowToken    = "ahora"
)

// Field limits.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1600
	MaxDurationLen    = 100
	MinAttendees      = 1
	MaxAttendees      = 250
)

// Advanced menu options, in the order they are listed.
const (
	optMentionRoles = iota + 1
	optImage
	optColor
	optAllowedRoles
	optMultiResponse
	optAssignRole
	optRegistrationClose
	optFinish
)

type WizardConfig struct {
	Roles       []entities.RoleSlot
	Location    *time.Location
	StepTimeout time.Duration // 0 waits forever
	Exclusive   bool          // default for new events: one role per member
}

// Wizard collects a new event from its creator one question at a time.
type Wizard struct {
	directory   output.GuildDirectory
	msg         output.Messages
	roles       []entities.RoleSlot
	loc         *time.Location
	stepTimeout time.Duration
	exclusive   bool

	now   func() time.Time
	newID func() string
}

func NewWizard(directory output.GuildDirectory, msg output.Messages, cfg WizardConfig) *Wizard {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Wizard{
		directory:   directory,
		msg:         msg,
		roles:       cfg.Roles,
		loc:         loc,
		stepTimeout: cfg.StepTimeout,
		exclusive:   cfg.Exclusive,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

// draftState is what a single Run accumulates besides the event itself.
type draftState struct {
	event      *entities.Event
	start      input.WizardStart
	closeAfter time.Duration
	guildRoles []entities.GuildRole
	rolesKnown bool
}

type wizardStep struct {
	name string
	run  func(*conversation, *draftState) error
}

func (w *Wizard) steps() []wizardStep {
	return []wizardStep{
		{"choose_channel", w.askChannel},
		{"title", w.askTitle},
		{"description", w.askDescription},
		{"max_attendees", w.askMaxAttendees},
		{"start_time", w.askStart},
		{"duration", w.askDuration},
		{"advanced_options", w.advancedMenu},
	}
}

// Run walks the creator through every step and returns the finished draft.
// It returns domain.ErrWizardCancelled or domain.ErrWizardTimeout when the
// creator aborts or stops answering; no partial draft is ever returned.
func (w *Wizard) Run(ctx context.Context, p output.Prompter, start input.WizardStart) (*entities.Event, error) {
	c := &conversation{ctx: ctx, p: p, msg: w.msg, stepTimeout: w.stepTimeout}
	st := &draftState{
		start: start,
		event: &entities.Event{
			GuildID:       start.GuildID,
			CreatorID:     start.CreatorID,
			Color:         entities.DefaultColor,
			MultiResponse: !w.exclusive,
		},
	}
	for _, step := range w.steps() {
		if err := step.run(c, st); err != nil {
			w.abort(c, err)
			return nil, fmt.Errorf("wizard %s: %w", step.name, err)
		}
	}
	return w.finalize(st), nil
}

func (w *Wizard) abort(c *conversation, err error) {
	if c.ctx.Err() != nil {
		return
	}
	key := "wizard.failed"
	switch {
	case errors.Is(err, domain.ErrWizardCancelled):
		key = "wizard.cancelled"
	case errors.Is(err, domain.ErrWizardTimeout):
		key = "wizard.timed_out"
	}
	if sendErr := c.say(key, nil); sendErr != nil {
		log.Printf("⚠️ No se pudo avisar al creador: %v", sendErr)
	}
}

func (w *Wizard) finalize(st *draftState) *entities.Event {
	e := st.event
	e.ID = w.newID()
	e.CreatedAt = w.now()
	e.RegistrationOpen = true
	e.ReminderSent = false
	e.ParticipantsRoles = make(map[string][]entities.Signup, len(w.roles))
	for _, r := range w.roles {
		e.ParticipantsRoles[r.Key] = []entities.Signup{}
	}
	if st.closeAfter > 0 {
		at := e.CreatedAt.Add(st.closeAfter)
		e.RegistrationCloseAt = &at
	}
	return e
}

func (w *Wizard) askChannel(c *conversation, st *draftState) error {
	if err := c.say("wizard.ask_channel", nil); err != nil {
		return err
	}
	option, err := c.number(1, 2)
	if err != nil {
		return err
	}
	if option == 1 && st.start.ChannelID != "" {
		st.event.ChannelID = st.start.ChannelID
		return nil
	}
	channels, err := w.directory.TextChannels(c.ctx, st.start.GuildID)
	if err != nil {
		return fmt.Errorf("list text channels: %w", err)
	}
	if len(channels) == 0 {
		if st.start.ChannelID == "" {
			return domain.ErrNoTextChannels
		}
		st.event.ChannelID = st.start.ChannelID
		return c.say("wizard.no_text_channels", nil)
	}
	names := make([]string, len(channels))
	for i, ch := range channels {
		names[i] = ch.Name
	}
	if err := c.say("wizard.pick_channel", map[string]any{"List": numbered(names)}); err != nil {
		return err
	}
	n, err := c.number(1, len(channels))
	if err != nil {
		return err
	}
	st.event.ChannelID = channels[n-1].ID
	return nil
}

func (w *Wizard) askTitle(c *conversation, st *draftState) error {
	if err := c.say("wizard.ask_title", map[string]any{"Max": MaxTitleLen}); err != nil {
		return err
	}
	title, _, err := c.text(MaxTitleLen, false)
	if err != nil {
		return err
	}
	st.event.Title = title
	return nil
}

func (w *Wizard) askDescription(c *conversation, st *draftState) error {
	if err := c.say("wizard.ask_description", map[string]any{"Max": MaxDescriptionLen}); err != nil {
		return err
	}
	desc, none, err := c.text(MaxDescriptionLen, true)
	if err != nil {
		return err
	}
	if none {
		desc = w.msg.Msg("wizard.no_description", nil)
	}
	st.event.Description = desc
	return nil
}

func (w *Wizard) askMaxAttendees(c *conversation, st *draftState) error {
	if err := c.say("wizard.ask_max_attendees", map[string]any{"Min": MinAttendees, "Max": MaxAttendees}); err != nil {
		return err
	}
	for {
		r, err := c.next()
		if err != nil {
			return err
		}
		if isToken(r.Content, NoneToken) {
			st.event.MaxAttendees = nil
			return nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(r.Content)); err == nil && n >= MinAttendees && n <= MaxAttendees {
			st.event.MaxAttendees = &n
			return nil
		}
		if err := c.say("wizard.invalid_number", map[string]any{"Min": MinAttendees, "Max": MaxAttendees}); err != nil {
			return err
		}
	}
}

func (w *Wizard) askStart(c *conversation, st *draftState) error {
	if err := c.say("wizard.ask_start", nil); err != nil {
		return err
	}
	for {
		r, err := c.next()
		if err != nil {
			return err
		}
		if isToken(r.Content, NowToken) {
			st.event.Start = w.now().In(w.loc).Truncate(time.Minute)
			return nil
		}
		start, err := tz.ParseStart(r.Content, w.loc)
		if err == nil {
			st.event.Start = start
			return nil
		}
		if err := c.say("wizard.invalid_datetime", nil); err != nil {
			return err
		}
	}
}

func (w *Wizard) askDuration(c *conversation, st *draftState) error {
	if err := c.say("wizard.ask_duration", nil); err != nil {
		return err
	}
	duration, _, err := c.text(MaxDurationLen, true)
	if err != nil {
		return err
	}
	st.event.Duration = duration
	return nil
}

func (w *Wizard) advancedMenu(c *conversation, st *draftState) error {
	for {
		if err := c.say("wizard.advanced_menu", nil); err != nil {
			return err
		}
		option, err := c.number(optMentionRoles, optFinish)
		if err != nil {
			return err
		}
		switch option {
		case optMentionRoles:
			err = w.pickRoles(c, st, func(ids []string) { st.event.MentionRoles = ids })
		case optImage:
			err = w.askImage(c, st)
		case optColor:
			err = w.askColor(c, st)
		case optAllowedRoles:
			err = w.pickRoles(c, st, func(ids []string) { st.event.AllowedRoles = ids })
		case optMultiResponse:
			err = w.askMultiResponse(c, st)
		case optAssignRole:
			err = w.askAssignRole(c, st)
		case optRegistrationClose:
			err = w.askRegistrationClose(c, st)
		case optFinish:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (w *Wizard) loadRoles(c *conversation, st *draftState) ([]entities.GuildRole, error) {
	if st.rolesKnown {
		return st.guildRoles, nil
	}
	roles, err := w.directory.AssignableRoles(c.ctx, st.start.GuildID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	st.guildRoles, st.rolesKnown = roles, true
	return roles, nil
}

func roleNames(roles []entities.GuildRole) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.Name
	}
	return names
}

// pickRoles asks for a comma separated list of role numbers, or none.
func (w *Wizard) pickRoles(c *conversation, st *draftState, set func([]string)) error {
	roles, err := w.loadRoles(c, st)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return c.say("wizard.no_roles", nil)
	}
	if err := c.say("wizard.pick_roles", map[string]any{"List": numbered(roleNames(roles))}); err != nil {
		return err
	}
	for {
		r, err := c.next()
		if err != nil {
			return err
		}
		if isToken(r.Content, NoneToken) {
			set([]string{})
			return nil
		}
		ids, ok := parseRoleSelection(r.Content, roles)
		if !ok {
			if err := c.say("wizard.invalid_selection", nil); err != nil {
				return err
			}
			continue
		}
		if len(ids) == 0 {
			if err := c.say("wizard.no_valid_roles", nil); err != nil {
				return err
			}
			continue
		}
		set(ids)
		return nil
	}
}

// parseRoleSelection maps "1, 3" to role ids. Out of range numbers are
// skipped; anything that is not a number makes the whole input invalid.
func parseRoleSelection(s string, roles []entities.GuildRole) ([]string, bool) {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, false
		}
		if n < 1 || n > len(roles) {
			continue
		}
		id := roles[n-1].ID
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids, true
}

func (w *Wizard) askImage(c *conversation, st *draftState) error {
	if err := c.say("wizard.ask_image", nil); err != nil {
		return err
	}
	for {
		r, err := c.next()
		if err != nil {
			return err
		}
		if isToken(r.Content, NoneToken) {
			return nil
		}
		if len(r.Attachments) > 0 {
			att := r.Attachments[0]
			if strings.HasPrefix(att.ContentType, "image/") {
				st.event.Image = att.URL
				return c.say("wizard.image_added", nil)
			}
			if err := c.say("wizard.not_an_image", nil); err != nil {
				return err
			}
			continue
		}
		if link := strings.TrimSpace(r.Content); isHTTPURL(link) {
			st.event.Image = link
			return c.say("wizard.image_added", nil)
		}
		if err := c.say("wizard.invalid_image", nil); err != nil {
			return err
		}
	}
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (w *Wizard) askColor(c *conversation, st *draftState) error {
	if err := c.say("wizard.ask_color", nil); err != nil {
		return err
	}
	r, err := c.next()
	if err != nil {
		return err
	}
	if isToken(r.Content, "skip") || isToken(r.Content, NoneToken) {
		return nil
	}
	color, ok := ParseColor(r.Content)
	if !ok {
		st.event.Color = entities.DefaultColor
		return c.say("wizard.invalid_color", nil)
	}
	st.event.Color = color
	return nil
}

// ParseColor reads a 24-bit hex color such as "FF0000" or "#ff0000".
func ParseColor(s string) (int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if s == "" || len(s) > 6 {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false
	}
	return int(v), true
}

func (w *Wizard) askMultiResponse(c *conversation, st *draftState) error {
	if err := c.say("wizard.ask_multi_response", nil); err != nil {
		return err
	}
	for {
		r, err := c.next()
		if err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(r.Content)) {
		case "si", "sí", "s", "yes", "y":
			st.event.MultiResponse = true
			return nil
		case "no", "n":
			st.event.MultiResponse = false
			return nil
		}
		if err := c.say("wizard.invalid_yes_no", nil); err != nil {
			return err
		}
	}
}

func (w *Wizard) askAssignRole(c *conversation, st *draftState) error {
	roles, err := w.loadRoles(c, st)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return c.say("wizard.no_roles", nil)
	}
	if err := c.say("wizard.pick_assign_role", map[string]any{"List": numbered(roleNames(roles))}); err != nil {
		return err
	}
	for {
		r, err := c.next()
		if err != nil {
			return err
		}
		if isToken(r.Content, NoneToken) {
			st.event.AssignRole = ""
			return nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(r.Content)); err == nil && n >= 1 && n <= len(roles) {
			st.event.AssignRole = roles[n-1].ID
			return nil
		}
		if err := c.say("wizard.invalid_number", map[string]any{"Min": 1, "Max": len(roles)}); err != nil {
			return err
		}
	}
}

func (w *Wizard) askRegistrationClose(c *conversation, st *draftState) error {
	if err := c.say("wizard.ask_registration_close", nil); err != nil {
		return err
	}
	for {
		text, none, err := c.text(50, true)
		if err != nil {
			return err
		}
		if none {
			st.event.RegistrationClose = ""
			st.closeAfter = 0
			return nil
		}
		d, err := ParseCloseAfter(text)
		if err == nil {
			st.event.RegistrationClose = strings.TrimSpace(text)
			st.closeAfter = d
			return nil
		}
		if err := c.say("wizard.invalid_close_timer", nil); err != nil {
			return err
		}
	}
}

func numbered(items []string) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d. %s", i+1, item)
	}
	return b.String()
}

func isToken(s, token string) bool {
	return strings.EqualFold(strings.TrimSpace(s), token)
}

// conversation wraps a Prompter with the cancel token and the step timeout.
type conversation struct {
	ctx         context.Context
	p           output.Prompter
	msg         output.Messages
	stepTimeout time.Duration
}

func (c *conversation) say(key string, data map[string]any) error {
	return c.p.Send(c.ctx, c.msg.Msg(key, data))
}

// next returns the next reply as typed.
func (c *conversation) next() (output.Reply, error) {
	ctx := c.ctx
	if c.stepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(c.ctx, c.stepTimeout)
		defer cancel()
	}
	r, err := c.p.Await(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && c.ctx.Err() == nil {
			return r, domain.ErrWizardTimeout
		}
		return r, err
	}
	if isToken(r.Content, CancelToken) {
		return r, domain.ErrWizardCancelled
	}
	return r, nil
}

func (c *conversation) number(lo, hi int) (int, error) {
	for {
		r, err := c.next()
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(strings.TrimSpace(r.Content)); err == nil && n >= lo && n <= hi {
			return n, nil
		}
		if err := c.say("wizard.invalid_number", map[string]any{"Min": lo, "Max": hi}); err != nil {
			return 0, err
		}
	}
}

// text reads a non-empty reply of at most maxLen characters. With allowNone
// the none token is accepted and reported through the second result.
func (c *conversation) text(maxLen int, allowNone bool) (string, bool, error) {
	for {
		r, err := c.next()
		if err != nil {
			return "", false, err
		}
		if allowNone && isToken(r.Content, NoneToken) {
			return "", true, nil
		}
		switch {
		case strings.TrimSpace(r.Content) == "":
			err = c.say("wizard.empty_text", nil)
		case utf8.RuneCountInString(r.Content) > maxLen:
			err = c.say("wizard.text_too_long", map[string]any{"Max": maxLen})
		default:
			return r.Content, false, nil
		}
		if err != nil {
			return "", false, err
		}
	}
}
