package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	listview "github.com/goliatone/go-listview/components/listview"
	"github.com/goliatone/go-listview/components/listview/commands"
	"github.com/goliatone/go-listview/components/listview/queries"
)

// Executor runs the list view commands and queries behind the HTTP routes.
type Executor interface {
	Records(ctx context.Context, input queries.VisibleRecordsInput) ([]listview.DisplayRecord, error)
	Stats(ctx context.Context, input queries.ViewStatsInput) ([]listview.StatCard, error)
	Refresh(ctx context.Context, input commands.RefreshViewInput) error
	Create(ctx context.Context, input commands.CreateRecordInput) error
	Update(ctx context.Context, input commands.UpdateRecordInput) error
	SetStatus(ctx context.Context, input commands.SetOrderStatusInput) error
	Delete(ctx context.Context, input commands.DeleteRecordInput) error
	Preferences(ctx context.Context, input commands.SavePreferencesInput) error
}

// CommandExecutor adapts go-command commanders and queriers to Executor.
type CommandExecutor struct {
	RecordsQuerier       gocommand.Querier[queries.VisibleRecordsInput, []listview.DisplayRecord]
	StatsQuerier         gocommand.Querier[queries.ViewStatsInput, []listview.StatCard]
	RefreshCommander     gocommand.Commander[commands.RefreshViewInput]
	CreateCommander      gocommand.Commander[commands.CreateRecordInput]
	UpdateCommander      gocommand.Commander[commands.UpdateRecordInput]
	SetStatusCommander   gocommand.Commander[commands.SetOrderStatusInput]
	DeleteCommander      gocommand.Commander[commands.DeleteRecordInput]
	PreferencesCommander gocommand.Commander[commands.SavePreferencesInput]
}

var _ Executor = (*CommandExecutor)(nil)

// NewCommandExecutor wires every command and query to service.
func NewCommandExecutor(service *listview.Service, telemetry commands.Telemetry) *CommandExecutor {
	return &CommandExecutor{
		RecordsQuerier:       queries.NewVisibleRecordsQuery(service),
		StatsQuerier:         queries.NewViewStatsQuery(service),
		RefreshCommander:     commands.NewRefreshViewCommand(service, telemetry),
		CreateCommander:      commands.NewCreateRecordCommand(service, telemetry),
		UpdateCommander:      commands.NewUpdateRecordCommand(service, telemetry),
		SetStatusCommander:   commands.NewSetOrderStatusCommand(service, telemetry),
		DeleteCommander:      commands.NewDeleteRecordCommand(service, telemetry),
		PreferencesCommander: commands.NewSavePreferencesCommand(service, telemetry),
	}
}

var errNotConfigured = errors.New("httpapi: executor not configured")

func (e *CommandExecutor) Records(ctx context.Context, input queries.VisibleRecordsInput) ([]listview.DisplayRecord, error) {
	if e.RecordsQuerier == nil {
		return nil, errNotConfigured
	}
	return e.RecordsQuerier.Query(ctx, input)
}

func (e *CommandExecutor) Stats(ctx context.Context, input queries.ViewStatsInput) ([]listview.StatCard, error) {
	if e.StatsQuerier == nil {
		return nil, errNotConfigured
	}
	return e.StatsQuerier.Query(ctx, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshViewInput) error {
	return execute(ctx, e.RefreshCommander, input)
}

func (e *CommandExecutor) Create(ctx context.Context, input commands.CreateRecordInput) error {
	return execute(ctx, e.CreateCommander, input)
}

func (e *CommandExecutor) Update(ctx context.Context, input commands.UpdateRecordInput) error {
	return execute(ctx, e.UpdateCommander, input)
}

func (e *CommandExecutor) SetStatus(ctx context.Context, input commands.SetOrderStatusInput) error {
	return execute(ctx, e.SetStatusCommander, input)
}

func (e *CommandExecutor) Delete(ctx context.Context, input commands.DeleteRecordInput) error {
	return execute(ctx, e.DeleteCommander, input)
}

func (e *CommandExecutor) Preferences(ctx context.Context, input commands.SavePreferencesInput) error {
	return execute(ctx, e.PreferencesCommander, input)
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return errNotConfigured
	}
	return cmd.Execute(ctx, msg)
}

// StatusFor maps a command error to the HTTP status returned to callers.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case listview.IsValidation(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, listview.ErrUnknownView), errors.Is(err, listview.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, listview.ErrOperationNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, listview.ErrDeleteCancelled), errors.Is(err, listview.ErrBusy):
		return http.StatusConflict
	case listview.IsTimeout(err):
		return http.StatusGatewayTimeout
	case listview.IsNetwork(err), listview.IsHTTPStatus(err), listview.IsDecode(err), listview.IsMutation(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the JSON body of a failed request. Message is safe to show
// to an operator.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// NewErrorBody builds the body for err, falling back to fallback when the
// error carries no user-facing message.
func NewErrorBody(err error, fallback string) ErrorBody {
	return ErrorBody{Error: err.Error(), Message: listview.UserMessage(err, fallback)}
}

// Handlers exposes net/http endpoints backed by an Executor. The view kind
// and record id come from the caller's router.
type Handlers struct {
	API Executor
}

func (h *Handlers) HandleRecords(w http.ResponseWriter, r *http.Request, kind listview.EntityKind) {
	input := queries.VisibleRecordsInput{Kind: kind, Refresh: r.URL.Query().Get("refresh") == "true"}
	if q := r.URL.Query(); q.Has("q") {
		query := q.Get("q")
		input.Query = &query
	}
	if q := r.URL.Query(); q.Has("filter") {
		filter := q.Get("filter")
		input.Filter = &filter
	}
	records, err := h.API.Records(r.Context(), input)
	if err != nil {
		writeError(w, err, "Failed to load "+kind.Label())
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request, kind listview.EntityKind) {
	cards, err := h.API.Stats(r.Context(), queries.ViewStatsInput{Kind: kind})
	if err != nil {
		writeError(w, err, "Failed to load "+kind.Label())
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request, kind listview.EntityKind) {
	if err := h.API.Refresh(r.Context(), commands.RefreshViewInput{Kind: kind}); err != nil {
		writeError(w, err, "Failed to load "+kind.Label())
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request, kind listview.EntityKind) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var created listview.DisplayRecord
	if err := h.API.Create(r.Context(), commands.CreateRecordInput{Kind: kind, Payload: payload, Created: &created}); err != nil {
		writeError(w, err, "Failed to create record")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request, kind listview.EntityKind, id string) {
	var changes map[string]any
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.Update(r.Context(), commands.UpdateRecordInput{Kind: kind, ID: id, Changes: changes}); err != nil {
		writeError(w, err, "Failed to update record")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleSetStatus(w http.ResponseWriter, r *http.Request, id string) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.SetStatus(r.Context(), commands.SetOrderStatusInput{OrderID: id, Status: payload.Status}); err != nil {
		writeError(w, err, "Failed to update order status")
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request, kind listview.EntityKind, id string) {
	if err := h.API.Delete(r.Context(), commands.DeleteRecordInput{Kind: kind, ID: id}); err != nil {
		writeError(w, err, "Failed to delete record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	writeJSON(w, StatusFor(err), NewErrorBody(err, fallback))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
