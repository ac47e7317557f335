package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	listview "github.com/goliatone/go-listview/components/listview"
)

// RefreshViewInput names the view to refetch.
type RefreshViewInput struct {
	Kind listview.EntityKind
}

type refresher interface {
	Refresh(ctx context.Context, kind listview.EntityKind) error
}

// RefreshViewCommand refetches a view's collection.
type RefreshViewCommand struct {
	service   refresher
	telemetry Telemetry
}

// NewRefreshViewCommand creates the command.
func NewRefreshViewCommand(service refresher, telemetry Telemetry) *RefreshViewCommand {
	return &RefreshViewCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshViewInput] = (*RefreshViewCommand)(nil)

// Execute triggers a refresh on the view's controller.
func (c *RefreshViewCommand) Execute(ctx context.Context, msg RefreshViewInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if msg.Kind == "" {
		return errors.New("refresh command requires view kind")
	}
	if err := c.service.Refresh(ctx, msg.Kind); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "listview.command.refresh", map[string]any{"kind": string(msg.Kind)})
	return nil
}
