package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"

	listview "github.com/goliatone/go-listview/components/listview"
	"github.com/goliatone/go-listview/components/listview/commands"
	"github.com/goliatone/go-listview/components/listview/queries"
)

type cli struct {
	Globals `embed:""`

	List      listCmd      `cmd:"" help:"List the visible records of a view."`
	Show      showCmd      `cmd:"" help:"Show one record with all of its fields."`
	Stats     statsCmd     `cmd:"" help:"Print the stat cards of a view."`
	Create    createCmd    `cmd:"" help:"Create a record."`
	Update    updateCmd    `cmd:"" help:"Edit a record."`
	SetStatus setStatusCmd `cmd:"" name:"set-status" help:"Move an order to a new status."`
	Delete    deleteCmd    `cmd:"" help:"Delete a record after confirmation."`
	Watch     watchCmd     `cmd:"" help:"Refresh a view on an interval and print its events."`
	Manifest  manifestCmd  `cmd:"" help:"Create and edit view manifests."`
	Prefs     prefsCmd     `cmd:"" help:"Manage saved view preferences."`
}

const kinds = "orders,products,customers,carts,users"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var root cli
	parser := kong.Parse(&root,
		kong.Name("picklectl"),
		kong.Description("Operate the admin list views of the store from a terminal."),
		kong.UsageOnError(),
		kong.Vars{"kinds": kinds},
		kong.Bind(&root.Globals),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	err := parser.Run()
	parser.FatalIfErrorf(err)
}

type listCmd struct {
	Kind    listview.EntityKind `arg:"" enum:"${kinds}" help:"View to list (${enum})."`
	Query   *string             `short:"q" help:"Case-insensitive text query."`
	Filter  *string             `short:"f" help:"Categorical filter value, or 'all'."`
	Refresh bool                `help:"Force a refetch."`
}

func (cmd *listCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()
	q := queries.NewVisibleRecordsQuery(s.service)
	records, err := q.Query(ctx, queries.VisibleRecordsInput{
		Kind:    cmd.Kind,
		Query:   cmd.Query,
		Filter:  cmd.Filter,
		Refresh: cmd.Refresh,
	})
	if err != nil {
		return s.fail(err, "Failed to load "+cmd.Kind.Label())
	}
	return printRecords(s.out, cmd.Kind, records, s.json)
}

type showCmd struct {
	Kind listview.EntityKind `arg:"" enum:"${kinds}" help:"View the record belongs to (${enum})."`
	ID   string              `arg:"" help:"Record id."`
}

func (cmd *showCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()
	ctrl, err := s.service.Loaded(ctx, cmd.Kind)
	if err != nil {
		return s.fail(err, "Failed to load "+cmd.Kind.Label())
	}
	if err := ctrl.ShowDetails(cmd.ID); err != nil {
		return err
	}
	return printRecord(s.out, *ctrl.State().Selected, s.json)
}

type statsCmd struct {
	Kind listview.EntityKind `arg:"" enum:"${kinds}" help:"View to summarize (${enum})."`
}

func (cmd *statsCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()
	cards, err := queries.NewViewStatsQuery(s.service).Query(ctx, queries.ViewStatsInput{Kind: cmd.Kind})
	if err != nil {
		return s.fail(err, "Failed to load "+cmd.Kind.Label())
	}
	return printStats(s.out, cards, s.json)
}

// PayloadFlags collects a write payload from --set pairs and/or a --data
// JSON object. --set wins on conflicts.
type PayloadFlags struct {
	Set  map[string]string `short:"s" help:"Field assignment key=value (repeatable)."`
	Data string            `help:"JSON object with the payload."`
}

func (p PayloadFlags) payload() (map[string]any, error) {
	out := map[string]any{}
	if p.Data != "" {
		if err := json.Unmarshal([]byte(p.Data), &out); err != nil {
			return nil, fmt.Errorf("picklectl: --data must be a JSON object: %w", err)
		}
	}
	for k, v := range p.Set {
		out[k] = v
	}
	if len(out) == 0 {
		return nil, errors.New("picklectl: nothing to write, use --set or --data")
	}
	return out, nil
}

type createCmd struct {
	Kind listview.EntityKind `arg:"" enum:"${kinds}" help:"View to create in (${enum})."`

	PayloadFlags `embed:""`
}

func (cmd *createCmd) Run(ctx context.Context, g *Globals) error {
	payload, err := cmd.payload()
	if err != nil {
		return err
	}
	s, err := g.open(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()
	var created listview.DisplayRecord
	err = commands.NewCreateRecordCommand(s.service, nil).Execute(ctx, commands.CreateRecordInput{
		Kind:    cmd.Kind,
		Payload: payload,
		Created: &created,
	})
	if err != nil {
		return s.fail(err, "Failed to create record")
	}
	if created.ID == "" {
		fmt.Fprintln(s.out, "created")
		return nil
	}
	return printRecord(s.out, created, s.json)
}

type updateCmd struct {
	Kind listview.EntityKind `arg:"" enum:"${kinds}" help:"View the record belongs to (${enum})."`
	ID   string              `arg:"" help:"Record id."`

	PayloadFlags `embed:""`
}

func (cmd *updateCmd) Run(ctx context.Context, g *Globals) error {
	changes, err := cmd.payload()
	if err != nil {
		return err
	}
	s, err := g.open(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()
	err = commands.NewUpdateRecordCommand(s.service, nil).Execute(ctx, commands.UpdateRecordInput{
		Kind:    cmd.Kind,
		ID:      cmd.ID,
		Changes: changes,
	})
	if err != nil {
		return s.fail(err, "Failed to update record")
	}
	fmt.Fprintf(s.out, "updated %s %s\n", cmd.Kind, cmd.ID)
	return nil
}

type setStatusCmd struct {
	ID     string `arg:"" help:"Order id."`
	Status string `arg:"" help:"New status: New, Processing, Shipped, Delivered, Cancelled (or the server's pending, confirmed, ...)."`
}

func (cmd *setStatusCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()
	err = commands.NewSetOrderStatusCommand(s.service, nil).Execute(ctx, commands.SetOrderStatusInput{
		OrderID: cmd.ID,
		Status:  cmd.Status,
	})
	if err != nil {
		return s.fail(err, "Failed to update order status")
	}
	fmt.Fprintf(s.out, "order %s is now %s\n", cmd.ID, cmd.Status)
	return nil
}

type deleteCmd struct {
	Kind listview.EntityKind `arg:"" enum:"${kinds}" help:"View the record belongs to (${enum})."`
	ID   string              `arg:"" help:"Record id. For carts this is the user id."`
	Yes  bool                `short:"y" help:"Skip the confirmation prompt."`
}

func (cmd *deleteCmd) Run(ctx context.Context, g *Globals) error {
	confirmer := listview.AlwaysConfirm
	if !cmd.Yes {
		confirmer = promptConfirmer(os.Stdin, os.Stderr)
	}
	s, err := g.open(ctx, confirmer)
	if err != nil {
		return err
	}
	defer s.Close()
	err = commands.NewDeleteRecordCommand(s.service, nil).Execute(ctx, commands.DeleteRecordInput{
		Kind: cmd.Kind,
		ID:   cmd.ID,
	})
	if errors.Is(err, listview.ErrDeleteCancelled) {
		fmt.Fprintln(s.out, "cancelled")
		return nil
	}
	if err != nil {
		return s.fail(err, "Failed to delete record")
	}
	fmt.Fprintf(s.out, "deleted %s %s\n", cmd.Kind, cmd.ID)
	return nil
}

type watchCmd struct {
	Kind     listview.EntityKind `arg:"" enum:"${kinds}" help:"View to watch (${enum})."`
	Interval time.Duration       `default:"30s" help:"Refresh interval."`
}

func (cmd *watchCmd) Run(ctx context.Context, g *Globals) error {
	if cmd.Interval <= 0 {
		return errors.New("picklectl: --interval must be positive")
	}
	s, err := g.open(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()
	events, unsubscribe := s.hook.Subscribe()
	defer unsubscribe()

	refresh := commands.NewRefreshViewCommand(s.service, nil)
	run := func() {
		if err := refresh.Execute(ctx, commands.RefreshViewInput{Kind: cmd.Kind}); err != nil && ctx.Err() == nil {
			s.logger.Warn().Err(err).Str("view", string(cmd.Kind)).Msg("refresh failed")
		}
	}
	go run()

	ticker := time.NewTicker(cmd.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			go run()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := printEvent(s, event); err != nil {
				return err
			}
		}
	}
}

func printEvent(s *session, event listview.ViewEvent) error {
	if s.json {
		return writeJSON(s.out, event)
	}
	line := fmt.Sprintf("%s %-8s %-15s gen=%d", event.At.Format(time.TimeOnly), event.Kind, event.Type, event.Generation)
	switch event.Type {
	case listview.EventLoaded:
		line += fmt.Sprintf(" records=%d", event.Count)
	case listview.EventLoadFailed, listview.EventMutateFailed:
		line += " " + event.Message
	}
	_, err := fmt.Fprintln(s.out, line)
	return err
}

type prefsCmd struct {
	Save prefsSaveCmd `cmd:"" help:"Save the query and filter for a view."`
}

type prefsSaveCmd struct {
	Kind   listview.EntityKind `arg:"" enum:"${kinds}" help:"View (${enum})."`
	Query  string              `short:"q" help:"Text query to remember."`
	Filter string              `short:"f" default:"all" help:"Categorical filter value to remember."`
}

func (cmd *prefsSaveCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open(ctx, nil)
	if err != nil {
		return err
	}
	defer s.Close()
	err = commands.NewSavePreferencesCommand(s.service, nil).Execute(ctx, commands.SavePreferencesInput{
		Kind: cmd.Kind,
		Preferences: listview.ViewPreferences{
			Query:       cmd.Query,
			Categorical: listview.Categorical{Value: cmd.Filter},
		},
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "saved preferences for %s\n", cmd.Kind)
	return nil
}
