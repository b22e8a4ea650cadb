package domain

import (
	"encoding/json"
	"time"
)

// TemplateVariant holds the two grammatical forms of a stage template.
type TemplateVariant struct {
	Singular string `json:"singular"`
	Plural   string `json:"plural"`
}

// ContentConfig is the typed slice of an event's content_config document that
// the dispatch engines care about. The full document also carries display-only
// fields (hero text, schedule, colors) which stay opaque to this service.
type ContentConfig struct {
	CoupleNames       string                     `json:"couple_names"`
	WazeLink          string                     `json:"waze_link"`
	WhatsappTemplates map[string]TemplateVariant `json:"whatsapp_templates"`
}

// AutomationConfig controls the cooldown-driven reminder scheduler per event.
// The numeric fields are pointers so an explicit 0 (cap disabled, no cooldown)
// stays distinct from an absent field, which falls back to the default.
type AutomationConfig struct {
	RemindersEnabled     bool   `json:"reminders_enabled"`
	MaxReminders         *int   `json:"max_reminders"`
	DaysBetweenReminders *int   `json:"days_between_reminders"`
	MessageTemplate      string `json:"message_template,omitempty"`
}

const (
	DefaultMaxReminders         = 3
	DefaultDaysBetweenReminders = 3
)

// DefaultReminderTemplate is used when an event has no message_template
// configured. Supports the {group_name} token.
const DefaultReminderTemplate = "שלום {group_name}! אנחנו מזכירים לכם לאשר הגעה לחתונה שלנו 💌"

// Cap returns the reminder cap, falling back to the default when the field is
// absent. An explicit 0 means no invitation is ever selected.
func (c AutomationConfig) Cap() int {
	if c.MaxReminders == nil {
		return DefaultMaxReminders
	}
	return *c.MaxReminders
}

// CooldownDays returns the days-between-reminders cooldown, with default when
// absent. An explicit 0 means eligible on every run.
func (c AutomationConfig) CooldownDays() int {
	if c.DaysBetweenReminders == nil {
		return DefaultDaysBetweenReminders
	}
	return *c.DaysBetweenReminders
}

// Template returns the reminder message template, with default.
func (c AutomationConfig) Template() string {
	if c.MessageTemplate == "" {
		return DefaultReminderTemplate
	}
	return c.MessageTemplate
}

type Event struct {
	ID            string           `json:"id"`
	Slug          string           `json:"slug"`
	EventDate     time.Time        `json:"event_date"`
	Automation    AutomationConfig `json:"automation_config"`
	GoogleSheetID string           `json:"google_sheet_id,omitempty"`
}

// PublicEvent is the guest-facing view of an event: the raw content_config is
// passed through untouched so display-only fields survive the round trip.
type PublicEvent struct {
	ID        string          `json:"id"`
	Slug      string          `json:"slug"`
	EventDate time.Time       `json:"event_date"`
	Content   json.RawMessage `json:"content_config"`
}

// StageConfig is one active automation_settings row joined with its event.
type StageConfig struct {
	ID           string
	EventID      string
	StageName    string
	DaysBefore   int
	TargetStatus RSVPStatus
	EventDate    time.Time
	EventSlug    string
	Content      ContentConfig
}
