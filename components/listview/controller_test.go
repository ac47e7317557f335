package listview

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	mu        sync.Mutex
	calls     int
	endpoints []string
	auth      []AuthContext
	respond   func(call int) ([]RawRecord, error)
	gates     map[int]chan struct{}
	started   chan int
}

func newStubFetcher(respond func(call int) ([]RawRecord, error)) *stubFetcher {
	return &stubFetcher{respond: respond, gates: map[int]chan struct{}{}, started: make(chan int, 16)}
}

func staticFetcher(records ...RawRecord) *stubFetcher {
	return newStubFetcher(func(int) ([]RawRecord, error) { return records, nil })
}

// hold makes fetch number call block until the returned func is called.
func (f *stubFetcher) hold(call int) func() {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[call] = gate
	f.mu.Unlock()
	return func() { close(gate) }
}

func (f *stubFetcher) FetchCollection(ctx context.Context, endpoint string) ([]RawRecord, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.endpoints = append(f.endpoints, endpoint)
	f.auth = append(f.auth, AuthFromContext(ctx))
	gate := f.gates[call]
	f.mu.Unlock()
	f.started <- call
	if gate != nil {
		<-gate
	}
	return f.respond(call)
}

func (f *stubFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type gatewayCall struct {
	Op       Operation
	Endpoint string
	ID       string
	Payload  map[string]any
	Auth     AuthContext
}

type stubGateway struct {
	mu      sync.Mutex
	calls   []gatewayCall
	err     error
	created RawRecord
}

func (g *stubGateway) record(ctx context.Context, op Operation, endpoint, id string, payload map[string]any) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{Op: op, Endpoint: endpoint, ID: id, Payload: payload, Auth: AuthFromContext(ctx)})
	return g.err
}

func (g *stubGateway) Create(ctx context.Context, endpoint string, payload map[string]any) (RawRecord, error) {
	if err := g.record(ctx, OpCreate, endpoint, "", payload); err != nil {
		return nil, err
	}
	return g.created, nil
}

func (g *stubGateway) Update(ctx context.Context, endpoint, id string, payload map[string]any) (RawRecord, error) {
	if err := g.record(ctx, OpUpdate, endpoint, id, payload); err != nil {
		return nil, err
	}
	return RawRecord{"id": id}, nil
}

func (g *stubGateway) Delete(ctx context.Context, endpoint, id string) error {
	return g.record(ctx, OpDelete, endpoint, id, nil)
}

func (g *stubGateway) Calls() []gatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]gatewayCall(nil), g.calls...)
}

type recordingHook struct {
	mu     sync.Mutex
	events []ViewEvent
}

func (h *recordingHook) ViewChanged(_ context.Context, event ViewEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *recordingHook) Types() []EventType {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]EventType, 0, len(h.events))
	for _, e := range h.events {
		out = append(out, e.Type)
	}
	return out
}

func defaultDefinition(t *testing.T, kind EntityKind) ViewDefinition {
	t.Helper()
	for _, def := range DefaultViewDefinitions() {
		if def.Kind == kind {
			return def
		}
	}
	t.Fatalf("no default definition for %s", kind)
	return ViewDefinition{}
}

func newTestController(t *testing.T, kind EntityKind, fetcher CollectionFetcher, gateway MutationGateway, configure ...func(*ControllerOptions)) *Controller {
	t.Helper()
	opts := ControllerOptions{
		Definition: defaultDefinition(t, kind),
		Fetcher:    fetcher,
		Gateway:    gateway,
	}
	for _, fn := range configure {
		fn(&opts)
	}
	ctrl, err := NewController(opts)
	require.NoError(t, err)
	return ctrl
}

func waitStarted(t *testing.T, f *stubFetcher, call int) {
	t.Helper()
	select {
	case got := <-f.started:
		if got != call {
			t.Fatalf("expected fetch %d to start, got %d", call, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("fetch %d never started", call)
	}
}

var orderRows = []RawRecord{
	{"id": 1, "order_id": "ORD-1001", "status": "pending", "total_price": 550.0, "customer_name": "Lakshmi Rao"},
	{"id": 2, "order_id": "ORD-1002", "status": "shipped", "total_price": 300.0, "customer_name": "Ravi"},
}

var productRows = []RawRecord{
	{"id": 101, "product_name": "Mango Pickle", "status": "active", "stock": 25},
	{"id": 103, "product_name": "Chicken Pickle", "status": "out of stock", "stock": 0},
}

func TestRefreshLoadsSnapshot(t *testing.T) {
	fetcher := staticFetcher(orderRows...)
	hook := &recordingHook{}
	ctrl := newTestController(t, KindOrders, fetcher, &stubGateway{}, func(o *ControllerOptions) { o.Hook = hook })

	require.NoError(t, ctrl.Refresh(context.Background()))
	state := ctrl.State()
	assert.False(t, state.IsLoading)
	assert.False(t, state.HasError)
	assert.Len(t, state.Records, 2)
	assert.Equal(t, uint64(1), state.Generation)
	assert.False(t, state.LoadedAt.IsZero())
	assert.True(t, ctrl.Loaded())
	assert.Equal(t, []string{OrdersEndpoint}, fetcher.endpoints)
	assert.Equal(t, []EventType{EventLoading, EventLoaded}, hook.Types())
}

func TestRefreshIgnoredWhileFetchInFlight(t *testing.T) {
	fetcher := staticFetcher(orderRows...)
	release := fetcher.hold(1)
	ctrl := newTestController(t, KindOrders, fetcher, &stubGateway{})

	done := make(chan error, 1)
	go func() { done <- ctrl.Refresh(context.Background()) }()
	waitStarted(t, fetcher, 1)

	if !ctrl.State().IsLoading {
		t.Fatalf("expected loading while the fetch is in flight")
	}
	if err := ctrl.Refresh(context.Background()); err != nil {
		t.Fatalf("second refresh returned error: %v", err)
	}
	if fetcher.Calls() != 1 {
		t.Fatalf("expected the second refresh to be a no-op, got %d fetches", fetcher.Calls())
	}
	release()
	require.NoError(t, <-done)
	if got := len(ctrl.State().Records); got != 2 {
		t.Fatalf("expected 2 records, got %d", got)
	}
}

func TestMutationRefetchSupersedesInFlightFetch(t *testing.T) {
	fetcher := newStubFetcher(func(call int) ([]RawRecord, error) {
		if call == 1 {
			return productRows, nil
		}
		return productRows[:1], nil
	})
	release := fetcher.hold(1)
	hook := &recordingHook{}
	gateway := &stubGateway{}
	ctrl := newTestController(t, KindProducts, fetcher, gateway, func(o *ControllerOptions) {
		o.Confirmer = AlwaysConfirm
		o.Hook = hook
	})

	stale := make(chan error, 1)
	go func() { stale <- ctrl.Refresh(context.Background()) }()
	waitStarted(t, fetcher, 1)

	require.NoError(t, ctrl.Delete(context.Background(), "103"))
	waitStarted(t, fetcher, 2)
	state := ctrl.State()
	require.Len(t, state.Records, 1)
	assert.Equal(t, "101", state.Records[0].ID)

	release()
	require.NoError(t, <-stale)

	state = ctrl.State()
	require.Len(t, state.Records, 1, "late result of the superseded fetch must be discarded")
	assert.Equal(t, uint64(2), state.Generation)
	assert.False(t, state.IsLoading)
	assert.Contains(t, hook.Types(), EventStale)
}

func TestDeleteDeclinedIssuesNoRequest(t *testing.T) {
	fetcher := staticFetcher(productRows...)
	gateway := &stubGateway{}
	ctrl := newTestController(t, KindProducts, fetcher, gateway)
	require.NoError(t, ctrl.Refresh(context.Background()))

	err := ctrl.Delete(context.Background(), "103")
	if !errors.Is(err, ErrDeleteCancelled) {
		t.Fatalf("expected ErrDeleteCancelled, got %v", err)
	}
	if len(gateway.Calls()) != 0 {
		t.Fatalf("expected no gateway calls, got %+v", gateway.Calls())
	}
	if fetcher.Calls() != 1 {
		t.Fatalf("expected no refetch, got %d fetches", fetcher.Calls())
	}
	if len(ctrl.State().Records) != 2 {
		t.Fatalf("expected snapshot untouched")
	}
}

func TestDeleteConfirmedClearsSelectionAndRefetches(t *testing.T) {
	fetcher := newStubFetcher(func(call int) ([]RawRecord, error) {
		if call == 1 {
			return productRows, nil
		}
		return productRows[:1], nil
	})
	gateway := &stubGateway{}
	var prompt string
	ctrl := newTestController(t, KindProducts, fetcher, gateway, func(o *ControllerOptions) {
		o.Confirmer = ConfirmFunc(func(_ context.Context, p string) (bool, error) {
			prompt = p
			return true, nil
		})
	})
	require.NoError(t, ctrl.Refresh(context.Background()))
	require.NoError(t, ctrl.ShowDetails("103"))

	require.NoError(t, ctrl.Delete(context.Background(), "103"))
	assert.Contains(t, prompt, "Chicken Pickle")

	calls := gateway.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, gatewayCall{Op: OpDelete, Endpoint: ProductsEndpoint, ID: "103"}, calls[0])

	state := ctrl.State()
	assert.Nil(t, state.Selected)
	assert.Equal(t, ModalNone, state.Modal)
	assert.Equal(t, "product deleted", state.Message)
	_, found := ctrl.Record("103")
	assert.False(t, found)
	assert.Equal(t, 2, fetcher.Calls())
}

func TestDeleteFailureKeepsSnapshot(t *testing.T) {
	fetcher := staticFetcher(productRows...)
	gateway := &stubGateway{err: NewMutationError("delete", 404, "product not found")}
	hook := &recordingHook{}
	ctrl := newTestController(t, KindProducts, fetcher, gateway, func(o *ControllerOptions) {
		o.Confirmer = AlwaysConfirm
		o.Hook = hook
	})
	require.NoError(t, ctrl.Refresh(context.Background()))

	err := ctrl.Delete(context.Background(), "999")
	require.Error(t, err)
	assert.True(t, IsMutation(err))
	state := ctrl.State()
	assert.Equal(t, "product not found", state.Message)
	assert.Len(t, state.Records, 2)
	assert.False(t, state.IsLoading)
	assert.Equal(t, 1, fetcher.Calls())
	assert.Contains(t, hook.Types(), EventMutateFailed)
}

func TestSubmitEditFailureKeepsDraft(t *testing.T) {
	fetcher := staticFetcher(RawRecord{"id": 11, "name": "Lakshmi Rao", "email": "lakshmi@example.com", "role": "admin"})
	gateway := &stubGateway{err: NewMutationError("update", 409, "email already in use")}
	ctrl := newTestController(t, KindUsers, fetcher, gateway)
	require.NoError(t, ctrl.Refresh(context.Background()))
	require.NoError(t, ctrl.Edit("11"))

	err := ctrl.SubmitEdit(context.Background(), map[string]any{"email": "ravi@example.com"})
	require.Error(t, err)

	state := ctrl.State()
	assert.Equal(t, ModalEdit, state.Modal)
	require.NotNil(t, state.Selected)
	assert.Equal(t, "11", state.Selected.ID)
	assert.Equal(t, "ravi@example.com", state.Draft["email"])
	assert.Equal(t, "Lakshmi Rao", state.Draft["name"])
	assert.Equal(t, "email already in use", state.Message)
	assert.Equal(t, 1, fetcher.Calls())
}

func TestSubmitEditSuccessClosesModal(t *testing.T) {
	fetcher := staticFetcher(orderRows...)
	gateway := &stubGateway{}
	ctrl := newTestController(t, KindOrders, fetcher, gateway)
	require.NoError(t, ctrl.Refresh(context.Background()))
	require.NoError(t, ctrl.Edit("1"))
	require.Equal(t, "New", ctrl.State().Draft["status"])
	require.NoError(t, ctrl.SetDraftField("status", "Delivered"))

	require.NoError(t, ctrl.SubmitEdit(context.Background(), nil))

	calls := gateway.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{"status": "delivered"}, calls[0].Payload)
	state := ctrl.State()
	assert.Equal(t, ModalNone, state.Modal)
	assert.Nil(t, state.Selected)
	assert.Nil(t, state.Draft)
	assert.Equal(t, "order updated", state.Message)
	assert.Equal(t, 2, fetcher.Calls())
}

func TestCustomerEditSendsUpdate(t *testing.T) {
	fetcher := staticFetcher(RawRecord{
		"id": 11, "first_name": "Lakshmi", "last_name": "Rao",
		"email": "lakshmi@example.com", "mobile": "9000000001", "city": "Visakhapatnam",
	})
	gateway := &stubGateway{}
	ctrl := newTestController(t, KindCustomers, fetcher, gateway, func(o *ControllerOptions) {
		o.Validator = NewJSONSchemaValidator()
	})
	require.NoError(t, ctrl.Refresh(context.Background()))
	require.NoError(t, ctrl.Edit("11"))
	assert.Equal(t, "Visakhapatnam", ctrl.State().Draft["city"])

	require.NoError(t, ctrl.SubmitEdit(context.Background(), map[string]any{"city": "Guntur"}))
	calls := gateway.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, OpUpdate, calls[0].Op)
	assert.Equal(t, UsersEndpoint, calls[0].Endpoint)
	assert.Equal(t, "11", calls[0].ID)
	assert.Equal(t, "Guntur", calls[0].Payload["city"])
	assert.Equal(t, "Lakshmi Rao", calls[0].Payload["name"])
	assert.Equal(t, "customer updated", ctrl.State().Message)
	assert.Equal(t, 2, fetcher.Calls())

	require.NoError(t, ctrl.Edit("11"))
	err := ctrl.SubmitEdit(context.Background(), map[string]any{"email": "not-an-email"})
	assert.True(t, IsValidation(err))
	assert.Len(t, gateway.Calls(), 1)
}

func TestSetStatusTranslatesVocabulary(t *testing.T) {
	fetcher := staticFetcher(orderRows...)
	gateway := &stubGateway{}
	ctrl := newTestController(t, KindOrders, fetcher, gateway, func(o *ControllerOptions) {
		o.Validator = NewJSONSchemaValidator()
	})
	require.NoError(t, ctrl.Refresh(context.Background()))

	require.NoError(t, ctrl.SetStatus(context.Background(), "1", "Shipped"))
	calls := gateway.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, OrdersEndpoint, calls[0].Endpoint)
	assert.Equal(t, "1", calls[0].ID)
	assert.Equal(t, map[string]any{"status": "shipped"}, calls[0].Payload)
	assert.Equal(t, 2, fetcher.Calls())

	err := ctrl.SetStatus(context.Background(), "1", "Teleported")
	assert.True(t, IsValidation(err))
	assert.Len(t, gateway.Calls(), 1)
	assert.NotEmpty(t, ctrl.State().Message)

	products := newTestController(t, KindProducts, staticFetcher(), gateway)
	assert.ErrorIs(t, products.SetStatus(context.Background(), "101", "Shipped"), ErrOperationNotAllowed)
}

func TestCreateValidatesBeforeSending(t *testing.T) {
	gateway := &stubGateway{}
	ctrl := newTestController(t, KindProducts, staticFetcher(), gateway, func(o *ControllerOptions) {
		o.Validator = NewJSONSchemaValidator()
	})

	_, err := ctrl.Create(context.Background(), map[string]any{"product_name": "Garlic Pickle"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Empty(t, gateway.Calls())
	assert.Contains(t, ctrl.State().Message, "category")

	orders := newTestController(t, KindOrders, staticFetcher(), gateway)
	_, err = orders.Create(context.Background(), map[string]any{"status": "pending"})
	assert.ErrorIs(t, err, ErrOperationNotAllowed)
}

func TestCreateReturnsNormalizedRecord(t *testing.T) {
	fetcher := staticFetcher()
	gateway := &stubGateway{created: RawRecord{"id": 20, "name": "Meena", "email": "meena@example.com", "role": "manager"}}
	ctrl := newTestController(t, KindUsers, fetcher, gateway)

	rec, err := ctrl.Create(context.Background(), map[string]any{"name": "Meena", "email": "meena@example.com", "password": "secret1", "role": "manager"})
	require.NoError(t, err)
	assert.Equal(t, "20", rec.ID)
	assert.Equal(t, "manager", rec.User.Role)
	assert.Equal(t, "user created", ctrl.State().Message)
	assert.Equal(t, 1, fetcher.Calls())
}

func TestFetchErrorKeepsPreviousSnapshot(t *testing.T) {
	failure := NewHTTPStatusError(503, "")
	respond := func(call int) ([]RawRecord, error) {
		if call == 1 {
			return orderRows, nil
		}
		return nil, failure
	}

	kept := newTestController(t, KindOrders, newStubFetcher(respond), &stubGateway{})
	require.NoError(t, kept.Refresh(context.Background()))
	err := kept.Refresh(context.Background())
	require.ErrorIs(t, err, failure)
	state := kept.State()
	assert.True(t, state.HasError)
	assert.Len(t, state.Records, 2)
	assert.False(t, state.IsLoading)

	cleared := newTestController(t, KindOrders, newStubFetcher(respond), &stubGateway{}, func(o *ControllerOptions) {
		o.ClearOnError = true
	})
	require.NoError(t, cleared.Refresh(context.Background()))
	require.Error(t, cleared.Refresh(context.Background()))
	assert.Empty(t, cleared.State().Records)
	assert.True(t, cleared.State().HasError)
}

func TestFirstLoadFailureLeavesEmptySnapshot(t *testing.T) {
	hook := &recordingHook{}
	fetcher := newStubFetcher(func(int) ([]RawRecord, error) {
		return nil, NewTimeoutError(time.Second, context.DeadlineExceeded)
	})
	ctrl := newTestController(t, KindCustomers, fetcher, &stubGateway{}, func(o *ControllerOptions) { o.Hook = hook })

	err := ctrl.Refresh(context.Background())
	require.True(t, IsTimeout(err))
	state := ctrl.State()
	assert.True(t, state.HasError)
	assert.Empty(t, state.Records)
	assert.NotNil(t, state.Records)
	assert.True(t, state.LoadedAt.IsZero())
	assert.False(t, ctrl.Loaded())
	assert.Equal(t, []EventType{EventLoading, EventLoadFailed}, hook.Types())
}

func TestEmptyCollection(t *testing.T) {
	ctrl := newTestController(t, KindProducts, staticFetcher(), &stubGateway{})
	require.NoError(t, ctrl.Refresh(context.Background()))

	state := ctrl.State()
	assert.False(t, state.HasError)
	assert.Empty(t, state.Records)
	assert.Empty(t, ctrl.Visible())
	stats := ctrl.Stats()
	require.NotEmpty(t, stats)
	assert.Equal(t, 0.0, stats[0].Value)
}

func TestRefetchDropsVanishedSelection(t *testing.T) {
	fetcher := newStubFetcher(func(call int) ([]RawRecord, error) {
		if call == 1 {
			return orderRows, nil
		}
		return orderRows[:1], nil
	})
	ctrl := newTestController(t, KindOrders, fetcher, &stubGateway{})
	require.NoError(t, ctrl.Refresh(context.Background()))
	require.NoError(t, ctrl.ShowDetails("2"))
	require.NoError(t, ctrl.ShowDetails("1"))
	require.NoError(t, ctrl.ShowDetails("2"))
	require.Equal(t, ModalView, ctrl.State().Modal)

	require.NoError(t, ctrl.Refresh(context.Background()))
	state := ctrl.State()
	assert.Nil(t, state.Selected)
	assert.Equal(t, ModalNone, state.Modal)
}

func TestAuthAttachedToOutgoingCalls(t *testing.T) {
	auth := AuthContext{UserID: "u-1", Token: "secret", Role: "admin"}
	fetcher := staticFetcher(productRows...)
	gateway := &stubGateway{}
	ctrl := newTestController(t, KindProducts, fetcher, gateway, func(o *ControllerOptions) {
		o.Auth = auth
		o.Confirmer = AlwaysConfirm
	})
	require.NoError(t, ctrl.Refresh(context.Background()))
	require.NoError(t, ctrl.Delete(context.Background(), "101"))

	assert.Equal(t, auth, fetcher.auth[0])
	assert.Equal(t, auth, gateway.Calls()[0].Auth)
	assert.Equal(t, auth, ctrl.Auth())
}

func TestStopDiscardsLateResult(t *testing.T) {
	fetcher := staticFetcher(orderRows...)
	release := fetcher.hold(1)
	ctrl := newTestController(t, KindOrders, fetcher, &stubGateway{})

	done := make(chan error, 1)
	go func() { done <- ctrl.Refresh(context.Background()) }()
	waitStarted(t, fetcher, 1)
	ctrl.Stop()
	if ctrl.State().IsLoading {
		t.Fatalf("expected Stop to clear the loading flag")
	}
	release()
	require.NoError(t, <-done)
	if ctrl.Loaded() || len(ctrl.State().Records) != 0 {
		t.Fatalf("expected the result of a stopped fetch to be discarded")
	}
}

func TestVisibleAppliesQueryAndCategorical(t *testing.T) {
	ctrl := newTestController(t, KindOrders, staticFetcher(orderRows...), &stubGateway{})
	require.NoError(t, ctrl.Refresh(context.Background()))

	ctrl.SetCategorical("Shipped")
	if got := ctrl.Visible(); len(got) != 1 || got[0].ID != "2" {
		t.Fatalf("expected shipped order, got %+v", got)
	}
	ctrl.SetCategorical(AllValues)
	ctrl.SetQuery("lakshmi")
	if got := ctrl.Visible(); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected query match, got %+v", got)
	}
	if len(ctrl.State().Records) != 2 {
		t.Fatalf("filtering must not change the snapshot")
	}

	prefs := ctrl.Preferences()
	if prefs.Query != "lakshmi" || prefs.Categorical.Field != "status" {
		t.Fatalf("unexpected preferences %+v", prefs)
	}
	ctrl.ApplyPreferences(ViewPreferences{Query: "ravi"})
	state := ctrl.State()
	if state.Query != "ravi" || state.Categorical.Value != AllValues || state.Categorical.Field != "status" {
		t.Fatalf("unexpected state after applying preferences %+v", state.Categorical)
	}
}

func TestModalGuards(t *testing.T) {
	carts := newTestController(t, KindCarts, staticFetcher(RawRecord{"user_id": 11, "quantity": 1, "price": 10.0}), &stubGateway{})
	require.NoError(t, carts.Refresh(context.Background()))

	assert.ErrorIs(t, carts.OpenView(), ErrNoSelection)
	assert.ErrorIs(t, carts.Select("nope"), ErrRecordNotFound)
	assert.ErrorIs(t, carts.Edit("11"), ErrOperationNotAllowed)
	assert.ErrorIs(t, carts.SetDraftField("status", "x"), ErrNotEditing)
	assert.ErrorIs(t, carts.SubmitEdit(context.Background(), nil), ErrNotEditing)

	require.NoError(t, carts.ShowDetails("11"))
	carts.Close()
	state := carts.State()
	assert.Nil(t, state.Selected)
	assert.Equal(t, ModalNone, state.Modal)
}

func TestNewControllerValidatesOptions(t *testing.T) {
	def := defaultDefinition(t, KindOrders)
	cases := []ControllerOptions{
		{Fetcher: staticFetcher(), Gateway: &stubGateway{}},
		{Definition: def, Gateway: &stubGateway{}},
		{Definition: def, Fetcher: staticFetcher()},
	}
	for i, opts := range cases {
		if _, err := NewController(opts); err == nil {
			t.Fatalf("case %d: expected an error", i)
		}
	}
}

func TestControllerUsesDefinitionCandidates(t *testing.T) {
	fetcher := staticFetcher(RawRecord{"id": 1, "label": "From manifest"})
	ctrl := newTestController(t, KindProducts, fetcher, &stubGateway{}, func(o *ControllerOptions) {
		o.Definition.FieldCandidates = FieldCandidates{"name": {"label"}}
	})
	require.NoError(t, ctrl.Refresh(context.Background()))
	rec, ok := ctrl.Record("1")
	require.True(t, ok)
	if !strings.EqualFold(rec.PrimaryLabel, "From manifest") {
		t.Fatalf("expected manifest candidate to be used, got %q", rec.PrimaryLabel)
	}
}
