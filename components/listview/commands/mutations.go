package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	listview "github.com/goliatone/go-listview/components/listview"
)

type controllerSource interface {
	Loaded(ctx context.Context, kind listview.EntityKind) (*listview.Controller, error)
}

// CreateRecordInput carries a new record for a view.
type CreateRecordInput struct {
	Kind    listview.EntityKind
	Payload map[string]any
	// Created receives the server's record when set.
	Created *listview.DisplayRecord
}

// CreateRecordCommand validates and posts a new record.
type CreateRecordCommand struct {
	service   controllerSource
	telemetry Telemetry
}

// NewCreateRecordCommand creates the command.
func NewCreateRecordCommand(service controllerSource, telemetry Telemetry) *CreateRecordCommand {
	return &CreateRecordCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[CreateRecordInput] = (*CreateRecordCommand)(nil)

// Execute posts the payload through the view's controller.
func (c *CreateRecordCommand) Execute(ctx context.Context, msg CreateRecordInput) error {
	if c.service == nil {
		return errors.New("create command requires service")
	}
	if len(msg.Payload) == 0 {
		return errors.New("create command requires payload")
	}
	ctrl, err := c.service.Loaded(ctx, msg.Kind)
	if err != nil && ctrl == nil {
		return err
	}
	rec, err := ctrl.Create(ctx, msg.Payload)
	if err != nil {
		return err
	}
	if msg.Created != nil {
		*msg.Created = rec
	}
	c.telemetry.Record(ctx, "listview.command.create", map[string]any{"kind": string(msg.Kind), "id": rec.ID})
	return nil
}

// UpdateRecordInput carries changes for an existing record.
type UpdateRecordInput struct {
	Kind    listview.EntityKind
	ID      string
	Changes map[string]any
}

// UpdateRecordCommand runs the edit flow: select, open edit, submit.
type UpdateRecordCommand struct {
	service   controllerSource
	telemetry Telemetry
}

// NewUpdateRecordCommand creates the command.
func NewUpdateRecordCommand(service controllerSource, telemetry Telemetry) *UpdateRecordCommand {
	return &UpdateRecordCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateRecordInput] = (*UpdateRecordCommand)(nil)

// Execute submits the changes as an edit of the record.
func (c *UpdateRecordCommand) Execute(ctx context.Context, msg UpdateRecordInput) error {
	if c.service == nil {
		return errors.New("update command requires service")
	}
	if msg.ID == "" {
		return errors.New("update command requires record id")
	}
	ctrl, err := c.service.Loaded(ctx, msg.Kind)
	if err != nil {
		return err
	}
	if err := ctrl.Edit(msg.ID); err != nil {
		return err
	}
	if err := ctrl.SubmitEdit(ctx, msg.Changes); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "listview.command.update", map[string]any{"kind": string(msg.Kind), "id": msg.ID})
	return nil
}

// SetOrderStatusInput moves an order to a new status.
type SetOrderStatusInput struct {
	OrderID string
	Status  string
}

// SetOrderStatusCommand updates an order's status.
type SetOrderStatusCommand struct {
	service   controllerSource
	telemetry Telemetry
}

// NewSetOrderStatusCommand creates the command.
func NewSetOrderStatusCommand(service controllerSource, telemetry Telemetry) *SetOrderStatusCommand {
	return &SetOrderStatusCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetOrderStatusInput] = (*SetOrderStatusCommand)(nil)

// Execute maps the status to the server vocabulary and updates the order.
func (c *SetOrderStatusCommand) Execute(ctx context.Context, msg SetOrderStatusInput) error {
	if c.service == nil {
		return errors.New("set status command requires service")
	}
	if msg.OrderID == "" || msg.Status == "" {
		return errors.New("set status command requires order id and status")
	}
	ctrl, err := c.service.Loaded(ctx, listview.KindOrders)
	if err != nil && ctrl == nil {
		return err
	}
	if err := ctrl.SetStatus(ctx, msg.OrderID, msg.Status); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "listview.command.set_status", map[string]any{"id": msg.OrderID, "status": msg.Status})
	return nil
}

// DeleteRecordInput names the record to delete.
type DeleteRecordInput struct {
	Kind listview.EntityKind
	ID   string
}

// DeleteRecordCommand confirms, deletes and refetches.
type DeleteRecordCommand struct {
	service   controllerSource
	telemetry Telemetry
}

// NewDeleteRecordCommand creates the command.
func NewDeleteRecordCommand(service controllerSource, telemetry Telemetry) *DeleteRecordCommand {
	return &DeleteRecordCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteRecordInput] = (*DeleteRecordCommand)(nil)

// Execute deletes the record once the controller's confirmer agrees.
func (c *DeleteRecordCommand) Execute(ctx context.Context, msg DeleteRecordInput) error {
	if c.service == nil {
		return errors.New("delete command requires service")
	}
	if msg.ID == "" {
		return errors.New("delete command requires record id")
	}
	ctrl, err := c.service.Loaded(ctx, msg.Kind)
	if err != nil && ctrl == nil {
		return err
	}
	if err := ctrl.Delete(ctx, msg.ID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "listview.command.delete", map[string]any{"kind": string(msg.Kind), "id": msg.ID})
	return nil
}
