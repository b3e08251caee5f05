// Package listeners holds this application's form-alter listeners. The
// bootstrap calls Register once at startup with the bus and feed resolved
// from the container — the listener set is process-wide configuration, not
// per-request state.
package listeners

import (
	"github.com/shashiranjanraj/formbus/app/models"
	"github.com/shashiranjanraj/formbus/pkg/alter"
	"github.com/shashiranjanraj/formbus/pkg/database"
	"github.com/shashiranjanraj/formbus/pkg/event"
	"github.com/shashiranjanraj/formbus/pkg/logger"
	"github.com/shashiranjanraj/formbus/pkg/ws"
)

// Entry describes one registration, surfaced by the /api/listeners route.
type Entry struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
}

var registered []Entry

// Registered returns the listener registrations in registration order.
func Registered() []Entry {
	out := make([]Entry, len(registered))
	copy(out, registered)
	return out
}

func listen(bus *event.Bus, name string, priority int, h event.Handler) {
	registered = append(registered, Entry{Name: name, Priority: priority})
	bus.Listen(alter.Channel, priority, h)
}

// Register wires every application listener onto bus. feed may be nil when
// the WebSocket surface is disabled (CLI commands, tests).
func Register(bus *event.Bus, feed *ws.Feed) {
	// Stamps defaults on every node-family form before anything else runs.
	listen(bus, "node_defaults", 100, func(payload any) error {
		e := payload.(*alter.Event)
		base, ok := e.BaseFormID()
		if !ok || base != "node_form" {
			return nil
		}
		custom := e.Form().Child("custom_fields")
		if !custom.Has("prioridad") {
			custom.Set("prioridad", "media")
		}
		return nil
	})

	// Runs after node_defaults and reacts to what it wrote.
	listen(bus, "node_priority_flag", 50, func(payload any) error {
		e := payload.(*alter.Event)
		if base, ok := e.BaseFormID(); !ok || base != "node_form" {
			return nil
		}
		if e.Form().Child("custom_fields").GetString("prioridad") == "alta" {
			e.Form().Child("priority_banner").
				SetType("markup").
				SetTitle("High priority content").
				SetWeight(-50)
		}
		return nil
	})

	// Adds an extra field to the user form only.
	listen(bus, "user_extra_field", 0, func(payload any) error {
		e := payload.(*alter.Event)
		if e.FormID() != "user_form" {
			return nil
		}
		e.Form().Child("mi_campo_custom").
			SetType("textfield").
			SetTitle("Campo custom").
			SetWeight(50)
		return nil
	})

	// Audit runs last: records the altered form and feeds subscribers.
	listen(bus, "alter_audit", -100, func(payload any) error {
		e := payload.(*alter.Event)
		base, _ := e.BaseFormID()
		rid, _ := e.FormState().BuildInfo()["request_id"].(string)

		record := models.AlterAudit{
			FormID:     e.FormID(),
			BaseFormID: base,
			BuildID:    e.FormState().BuildID(),
			Elements:   len(e.Form().Elements()),
			RequestID:  rid,
		}

		if feed != nil {
			feed.PublishJSON(record)
		}
		if database.DB != nil {
			if err := database.DB.Create(&record).Error; err != nil {
				// Auditing must never break form building.
				logger.Warn("listeners: persist alter audit", "form_id", e.FormID(), "error", err)
			}
		}
		return nil
	})
}
