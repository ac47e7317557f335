package listview

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Modal is the detail overlay currently shown over the list.
type Modal string

const (
	ModalNone Modal = "none"
	ModalView Modal = "view"
	ModalEdit Modal = "edit"
)

// ErrBusy is returned when a mutation is already in flight.
var ErrBusy = errors.New("listview: another mutation is in flight")

// ViewState is a snapshot of a controller.
type ViewState struct {
	Kind        EntityKind      `json:"kind"`
	IsLoading   bool            `json:"is_loading"`
	HasError    bool            `json:"has_error"`
	LastError   error           `json:"-"`
	Records     []DisplayRecord `json:"records"`
	Selected    *DisplayRecord  `json:"selected,omitempty"`
	Modal       Modal           `json:"modal"`
	Draft       map[string]any  `json:"draft,omitempty"`
	Message     string          `json:"message,omitempty"`
	Query       string          `json:"query"`
	Categorical Categorical     `json:"categorical"`
	LoadedAt    time.Time       `json:"loaded_at,omitzero"`
	Generation  uint64          `json:"generation"`
}

// ControllerOptions wires a controller. Definition, Fetcher and Gateway are
// required; everything else has a safe default.
type ControllerOptions struct {
	Definition   ViewDefinition
	Auth         AuthContext
	Fetcher      CollectionFetcher
	Gateway      MutationGateway
	Normalizer   *Normalizer
	Validator    PayloadValidator
	Confirmer    Confirmer
	Hook         EventHook
	Telemetry    Telemetry
	Logger       *zerolog.Logger
	ClearOnError bool
	Now          func() time.Time
}

// Controller is the per-view state machine. It owns the record snapshot,
// the loading and error flags, the selection and the modal.
//
// A Refresh while a fetch is in flight is a no-op. The refetch that follows a
// successful mutation supersedes any in-flight fetch. Every fetch carries a
// monotonically increasing token and results from superseded tokens are
// discarded.
type Controller struct {
	def          ViewDefinition
	auth         AuthContext
	fetcher      CollectionFetcher
	gateway      MutationGateway
	normalizer   *Normalizer
	validator    PayloadValidator
	confirmer    Confirmer
	hook         EventHook
	telemetry    Telemetry
	logger       *zerolog.Logger
	clearOnError bool
	now          func() time.Time

	mu       sync.Mutex
	state    ViewState
	seq      uint64
	cancel   context.CancelFunc
	fetching bool
	mutating bool
	loaded   bool
}

// NewController validates options and returns an idle controller.
func NewController(opts ControllerOptions) (*Controller, error) {
	if opts.Definition.Kind == "" || opts.Definition.Endpoint == "" {
		return nil, fmt.Errorf("listview: controller requires a view definition with kind and endpoint")
	}
	if opts.Fetcher == nil {
		return nil, fmt.Errorf("listview: controller for %s requires a fetcher", opts.Definition.Kind)
	}
	if opts.Gateway == nil {
		return nil, fmt.Errorf("listview: controller for %s requires a mutation gateway", opts.Definition.Kind)
	}
	normalizer := opts.Normalizer
	if normalizer == nil {
		normalizer = NewNormalizer(map[EntityKind]FieldCandidates{opts.Definition.Kind: opts.Definition.FieldCandidates})
	}
	validator := opts.Validator
	if validator == nil {
		validator = noopValidator{}
	}
	confirmer := opts.Confirmer
	if confirmer == nil {
		confirmer = NeverConfirm
	}
	var hook EventHook = noopHook{}
	if opts.Hook != nil {
		hook = opts.Hook
	}
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Controller{
		def:          opts.Definition,
		auth:         opts.Auth,
		fetcher:      opts.Fetcher,
		gateway:      opts.Gateway,
		normalizer:   normalizer,
		validator:    validator,
		confirmer:    confirmer,
		hook:         hook,
		telemetry:    normalizeTelemetry(opts.Telemetry),
		logger:       logger,
		clearOnError: opts.ClearOnError,
		now:          now,
		state: ViewState{
			Kind:        opts.Definition.Kind,
			Records:     []DisplayRecord{},
			Modal:       ModalNone,
			Categorical: Categorical{Field: opts.Definition.CategoricalField, Value: AllValues},
		},
	}, nil
}

// Definition returns the view this controller serves.
func (c *Controller) Definition() ViewDefinition { return c.def }

// Auth returns the identity attached to outgoing calls.
func (c *Controller) Auth() AuthContext { return c.auth }

// Refresh fetches the collection. It returns immediately when a fetch or a
// mutation is already in flight.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.load(ctx, false)
}

// Loaded reports whether a fetch has ever succeeded.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Stop cancels any in-flight fetch. Late results are discarded.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.fetching = false
	c.state.IsLoading = c.mutating
}

func (c *Controller) load(ctx context.Context, supersede bool) error {
	c.mu.Lock()
	if (c.fetching || c.mutating) && !supersede {
		c.mu.Unlock()
		c.logger.Debug().Str("view", string(c.def.Kind)).Msg("refresh ignored, fetch in flight")
		c.telemetry.Record(ctx, "listview.fetch.skipped", map[string]any{"kind": string(c.def.Kind)})
		return nil
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	token := c.seq
	fetchCtx, cancel := context.WithCancel(c.outgoing(ctx))
	c.cancel = cancel
	c.fetching = true
	c.state.IsLoading = true
	c.mu.Unlock()

	c.emit(ctx, ViewEvent{Type: EventLoading, Generation: token})
	started := c.now()
	raws, err := c.fetcher.FetchCollection(fetchCtx, c.def.Endpoint)
	var records []DisplayRecord
	if err == nil {
		records = c.normalizer.NormalizeAll(raws, c.def.Kind)
	}
	elapsed := c.now().Sub(started)
	cancel()

	c.mu.Lock()
	if token != c.seq {
		c.mu.Unlock()
		c.logger.Debug().Str("view", string(c.def.Kind)).Uint64("token", token).Msg("discarding stale response")
		c.telemetry.Record(ctx, "listview.fetch.stale", map[string]any{"kind": string(c.def.Kind), "generation": token})
		c.emit(ctx, ViewEvent{Type: EventStale, Generation: token})
		return nil
	}
	c.cancel = nil
	c.fetching = false
	c.state.IsLoading = c.mutating
	c.state.Generation = token
	if err != nil {
		c.state.HasError = true
		c.state.LastError = err
		if c.clearOnError || !c.loaded {
			c.state.Records = []DisplayRecord{}
		}
		c.reconcileSelectionLocked()
		c.mu.Unlock()
		c.logger.Warn().Err(err).Str("view", string(c.def.Kind)).Dur("elapsed", elapsed).Msg("fetch failed")
		c.telemetry.Record(ctx, "listview.fetch.error", map[string]any{
			"kind":     string(c.def.Kind),
			"timeout":  IsTimeout(err),
			"status":   StatusCode(err),
			"duration": elapsed,
		})
		c.emit(ctx, ViewEvent{Type: EventLoadFailed, Generation: token, Message: UserMessage(err, "Failed to load "+c.def.Title)})
		return err
	}
	c.state.HasError = false
	c.state.LastError = nil
	c.state.Records = records
	c.state.LoadedAt = c.now()
	c.loaded = true
	c.reconcileSelectionLocked()
	c.mu.Unlock()

	c.logger.Debug().Str("view", string(c.def.Kind)).Int("records", len(records)).Dur("elapsed", elapsed).Msg("collection loaded")
	c.telemetry.Record(ctx, "listview.fetch", map[string]any{
		"kind":     string(c.def.Kind),
		"count":    len(records),
		"duration": elapsed,
	})
	c.emit(ctx, ViewEvent{Type: EventLoaded, Generation: token, Count: len(records)})
	return nil
}

// reconcileSelectionLocked re-points the selection at the fresh copy of the
// record, or drops it when the record is gone.
func (c *Controller) reconcileSelectionLocked() {
	if c.state.Selected == nil {
		return
	}
	if rec, ok := findRecord(c.state.Records, c.state.Selected.ID); ok {
		c.state.Selected = &rec
		return
	}
	c.state.Selected = nil
	c.state.Modal = ModalNone
	c.state.Draft = nil
}

// Select marks a record from the current snapshot as selected.
func (c *Controller) Select(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := findRecord(c.state.Records, id)
	if !ok {
		return fmt.Errorf("%w: %s %s", ErrRecordNotFound, c.def.Kind, id)
	}
	c.state.Selected = &rec
	return nil
}

// OpenView shows the detail modal for the selected record.
func (c *Controller) OpenView() error {
	c.mu.Lock()
	if c.state.Selected == nil {
		c.mu.Unlock()
		return ErrNoSelection
	}
	c.state.Modal = ModalView
	id := c.state.Selected.ID
	c.mu.Unlock()
	c.emit(context.Background(), ViewEvent{Type: EventModalChanged, Modal: ModalView, RecordID: id})
	return nil
}

// OpenEdit shows the edit modal for the selected record with a fresh draft.
func (c *Controller) OpenEdit() error {
	if !c.def.Allows(OpUpdate) {
		return ErrOperationNotAllowed
	}
	c.mu.Lock()
	if c.state.Selected == nil {
		c.mu.Unlock()
		return ErrNoSelection
	}
	c.state.Modal = ModalEdit
	c.state.Draft = EditableFields(*c.state.Selected)
	c.state.Message = ""
	id := c.state.Selected.ID
	c.mu.Unlock()
	c.emit(context.Background(), ViewEvent{Type: EventModalChanged, Modal: ModalEdit, RecordID: id})
	return nil
}

// ShowDetails selects id and opens the view modal.
func (c *Controller) ShowDetails(id string) error {
	if err := c.Select(id); err != nil {
		return err
	}
	return c.OpenView()
}

// Edit selects id and opens the edit modal.
func (c *Controller) Edit(id string) error {
	if err := c.Select(id); err != nil {
		return err
	}
	return c.OpenEdit()
}

// SetDraftField records a user edit without submitting it.
func (c *Controller) SetDraftField(field string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Modal != ModalEdit {
		return ErrNotEditing
	}
	if c.state.Draft == nil {
		c.state.Draft = map[string]any{}
	}
	c.state.Draft[field] = value
	return nil
}

// Close dismisses any modal and discards the selection.
func (c *Controller) Close() {
	c.mu.Lock()
	changed := c.state.Modal != ModalNone || c.state.Selected != nil
	c.state.Modal = ModalNone
	c.state.Selected = nil
	c.state.Draft = nil
	c.state.Message = ""
	c.mu.Unlock()
	if changed {
		c.emit(context.Background(), ViewEvent{Type: EventModalChanged, Modal: ModalNone})
	}
}

// SubmitEdit merges changes into the draft and sends it as an update. On
// success the modal closes, the selection clears and the list is refetched.
// On failure the modal and draft stay and Message carries the reason.
func (c *Controller) SubmitEdit(ctx context.Context, changes map[string]any) error {
	c.mu.Lock()
	if c.state.Modal != ModalEdit || c.state.Selected == nil {
		c.mu.Unlock()
		return ErrNotEditing
	}
	if c.mutating {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.state.Draft == nil {
		c.state.Draft = map[string]any{}
	}
	maps.Copy(c.state.Draft, changes)
	id := c.state.Selected.ID
	payload := c.encodePayload(maps.Clone(c.state.Draft))
	c.mu.Unlock()

	if err := c.validator.Validate(c.def, OpUpdate, payload); err != nil {
		c.failMutation(ctx, OpUpdate, id, err)
		return err
	}
	if _, err := c.mutate(ctx, OpUpdate, id, payload); err != nil {
		return err
	}

	c.mu.Lock()
	c.state.Modal = ModalNone
	c.state.Selected = nil
	c.state.Draft = nil
	c.mu.Unlock()
	c.emit(ctx, ViewEvent{Type: EventModalChanged, Modal: ModalNone})
	return c.load(ctx, true)
}

// Create validates payload, posts it and refetches on success. The returned
// record is the normalized server response, when the server sent one.
func (c *Controller) Create(ctx context.Context, payload map[string]any) (DisplayRecord, error) {
	if !c.def.Allows(OpCreate) {
		return DisplayRecord{}, ErrOperationNotAllowed
	}
	if err := c.validator.Validate(c.def, OpCreate, payload); err != nil {
		c.failMutation(ctx, OpCreate, "", err)
		return DisplayRecord{}, err
	}
	raw, err := c.mutate(ctx, OpCreate, "", c.encodePayload(maps.Clone(payload)))
	if err != nil {
		return DisplayRecord{}, err
	}
	var rec DisplayRecord
	if len(raw) > 0 {
		rec = c.normalizer.Normalize(raw, c.def.Kind)
	}
	return rec, c.load(ctx, true)
}

// SetStatus moves an order to status, given in either vocabulary, and
// refetches on success.
func (c *Controller) SetStatus(ctx context.Context, id string, status string) error {
	if c.def.Kind != KindOrders || !c.def.Allows(OpUpdate) {
		return ErrOperationNotAllowed
	}
	parsed, ok := ParseOrderStatus(status)
	if !ok {
		err := NewValidationError("unknown order status", fieldError("status", "must be one of New, Processing, Shipped, Delivered, Cancelled", status))
		c.failMutation(ctx, OpUpdate, id, err)
		return err
	}
	payload := map[string]any{"status": parsed.ServerValue()}
	if err := c.validator.Validate(c.def, OpUpdate, payload); err != nil {
		c.failMutation(ctx, OpUpdate, id, err)
		return err
	}
	if _, err := c.mutate(ctx, OpUpdate, id, payload); err != nil {
		return err
	}
	return c.load(ctx, true)
}

// Delete asks the confirmer, then deletes id and refetches. A declined
// confirmation returns ErrDeleteCancelled without issuing a request.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if !c.def.Allows(OpDelete) {
		return ErrOperationNotAllowed
	}
	prompt := c.deletePrompt(id)
	ok, err := c.confirmer.Confirm(ctx, prompt)
	if err != nil {
		return fmt.Errorf("listview: confirm delete: %w", err)
	}
	if !ok {
		c.telemetry.Record(ctx, "listview.delete.cancelled", map[string]any{"kind": string(c.def.Kind), "id": id})
		return ErrDeleteCancelled
	}
	if _, err := c.mutate(ctx, OpDelete, id, nil); err != nil {
		return err
	}

	c.mu.Lock()
	cleared := c.state.Selected != nil && c.state.Selected.ID == id
	if cleared {
		c.state.Selected = nil
		c.state.Modal = ModalNone
		c.state.Draft = nil
	}
	c.mu.Unlock()
	if cleared {
		c.emit(ctx, ViewEvent{Type: EventModalChanged, Modal: ModalNone})
	}
	return c.load(ctx, true)
}

// mutate sends one write through the gateway. Local records are never
// patched; callers refetch on success.
func (c *Controller) mutate(ctx context.Context, op Operation, id string, payload map[string]any) (RawRecord, error) {
	c.mu.Lock()
	if c.mutating {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.mutating = true
	c.state.IsLoading = true
	c.mu.Unlock()

	out := c.outgoing(ctx)
	var (
		raw RawRecord
		err error
	)
	switch op {
	case OpCreate:
		raw, err = c.gateway.Create(out, c.def.Endpoint, payload)
	case OpUpdate:
		raw, err = c.gateway.Update(out, c.def.Endpoint, id, payload)
	case OpDelete:
		err = c.gateway.Delete(out, c.def.Endpoint, id)
	}

	c.mu.Lock()
	c.mutating = false
	c.state.IsLoading = c.fetching
	c.mu.Unlock()

	if err != nil {
		c.failMutation(ctx, op, id, err)
		return nil, err
	}
	c.mu.Lock()
	c.state.Message = fmt.Sprintf("%s %sd", c.singular(), op)
	c.mu.Unlock()
	c.logger.Info().Str("view", string(c.def.Kind)).Str("operation", string(op)).Str("id", id).Msg("mutation applied")
	c.telemetry.Record(ctx, "listview.mutation", map[string]any{
		"kind":      string(c.def.Kind),
		"operation": string(op),
		"id":        id,
	})
	c.emit(ctx, ViewEvent{Type: EventMutated, RecordID: id, Meta: map[string]any{"operation": string(op)}})
	return raw, nil
}

func (c *Controller) failMutation(ctx context.Context, op Operation, id string, err error) {
	msg := UserMessage(err, fmt.Sprintf("Failed to %s %s. Please try again.", op, c.singular()))
	c.mu.Lock()
	c.state.Message = msg
	c.mu.Unlock()
	c.logger.Warn().Err(err).Str("view", string(c.def.Kind)).Str("operation", string(op)).Str("id", id).Msg("mutation failed")
	c.telemetry.Record(ctx, "listview.mutation.error", map[string]any{
		"kind":      string(c.def.Kind),
		"operation": string(op),
		"status":    StatusCode(err),
	})
	c.emit(ctx, ViewEvent{Type: EventMutateFailed, RecordID: id, Message: msg, Meta: map[string]any{"operation": string(op)}})
}

// encodePayload translates UI vocabulary to the server's before a write.
func (c *Controller) encodePayload(payload map[string]any) map[string]any {
	if c.def.Kind != KindOrders || payload == nil {
		return payload
	}
	if raw, ok := payload["status"].(string); ok {
		if status, known := ParseOrderStatus(raw); known {
			payload["status"] = status.ServerValue()
		}
	}
	return payload
}

func (c *Controller) deletePrompt(id string) string {
	c.mu.Lock()
	rec, ok := findRecord(c.state.Records, id)
	c.mu.Unlock()
	if ok {
		return fmt.Sprintf("Are you sure you want to delete %s %q?", c.singular(), rec.PrimaryLabel)
	}
	return fmt.Sprintf("Are you sure you want to delete %s %s?", c.singular(), id)
}

func (c *Controller) singular() string {
	switch c.def.Kind {
	case KindOrders:
		return "order"
	case KindProducts:
		return "product"
	case KindCustomers:
		return "customer"
	case KindCarts:
		return "cart"
	case KindUsers:
		return "user"
	}
	return "record"
}

// SetQuery replaces the text query.
func (c *Controller) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = query
}

// SetCategorical filters on the view's categorical field. "all" clears it.
func (c *Controller) SetCategorical(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Categorical = Categorical{Field: c.def.CategoricalField, Value: value}
}

// ApplyPreferences restores a saved query and filter.
func (c *Controller) ApplyPreferences(prefs ViewPreferences) {
	prefs = prefs.normalized()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Query = prefs.Query
	field := prefs.Categorical.Field
	if field == "" {
		field = c.def.CategoricalField
	}
	c.state.Categorical = Categorical{Field: field, Value: prefs.Categorical.Value}
}

// Preferences returns the current query and filter.
func (c *Controller) Preferences() ViewPreferences {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ViewPreferences{Query: c.state.Query, Categorical: c.state.Categorical}
}

// Visible derives the filtered subset of the snapshot.
func (c *Controller) Visible() []DisplayRecord {
	c.mu.Lock()
	records := c.state.Records
	query := c.state.Query
	cat := c.state.Categorical
	c.mu.Unlock()
	return Filter(records, query, &cat)
}

// Stats computes the stat cards over the full snapshot.
func (c *Controller) Stats() []StatCard {
	c.mu.Lock()
	records := c.state.Records
	c.mu.Unlock()
	return Stats(c.def.Kind, records, c.now())
}

// Record returns a record from the snapshot.
func (c *Controller) Record(id string) (DisplayRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return findRecord(c.state.Records, id)
}

// State returns a copy of the current state.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.state
	out.Records = slices.Clone(c.state.Records)
	if c.state.Selected != nil {
		sel := *c.state.Selected
		out.Selected = &sel
	}
	out.Draft = maps.Clone(c.state.Draft)
	return out
}

func (c *Controller) outgoing(ctx context.Context) context.Context {
	return ContextWithAuth(ctx, c.auth)
}

func (c *Controller) emit(ctx context.Context, event ViewEvent) {
	event.Kind = c.def.Kind
	if event.At.IsZero() {
		event.At = c.now()
	}
	if err := c.hook.ViewChanged(ctx, event); err != nil {
		c.logger.Warn().Err(err).Str("view", string(c.def.Kind)).Str("event", string(event.Type)).Msg("view hook failed")
	}
}

func findRecord(records []DisplayRecord, id string) (DisplayRecord, bool) {
	for _, rec := range records {
		if rec.ID == id {
			return rec, true
		}
	}
	return DisplayRecord{}, false
}
