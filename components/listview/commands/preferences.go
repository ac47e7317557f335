package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	listview "github.com/goliatone/go-listview/components/listview"
)

// SavePreferencesInput sets and persists a view's query and filter.
type SavePreferencesInput struct {
	Kind        listview.EntityKind
	Preferences listview.ViewPreferences
}

type preferenceService interface {
	Controller(ctx context.Context, kind listview.EntityKind) (*listview.Controller, error)
	SavePreferences(ctx context.Context, kind listview.EntityKind) error
}

// SavePreferencesCommand applies and stores view preferences.
type SavePreferencesCommand struct {
	service   preferenceService
	telemetry Telemetry
}

// NewSavePreferencesCommand creates the command.
func NewSavePreferencesCommand(service preferenceService, telemetry Telemetry) *SavePreferencesCommand {
	return &SavePreferencesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SavePreferencesInput] = (*SavePreferencesCommand)(nil)

// Execute applies the preferences to the controller and saves them.
func (c *SavePreferencesCommand) Execute(ctx context.Context, msg SavePreferencesInput) error {
	if c.service == nil {
		return errors.New("preferences command requires service")
	}
	ctrl, err := c.service.Controller(ctx, msg.Kind)
	if err != nil {
		return err
	}
	ctrl.ApplyPreferences(msg.Preferences)
	if err := c.service.SavePreferences(ctx, msg.Kind); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "listview.command.preferences", map[string]any{"kind": string(msg.Kind)})
	return nil
}
