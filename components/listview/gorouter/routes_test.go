package gorouter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"

	listview "github.com/goliatone/go-listview/components/listview"
	"github.com/goliatone/go-listview/components/listview/commands"
	"github.com/goliatone/go-listview/components/listview/httpapi"
	"github.com/goliatone/go-listview/components/listview/queries"
	"github.com/goliatone/go-listview/pkg/backend"
	"github.com/goliatone/go-listview/pkg/mockapi"
)

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config[*fiber.App]{}); err == nil {
		t.Fatalf("expected error when router missing")
	}
	server := newServer()
	if err := Register(Config[*fiber.App]{Router: server.Router()}); err == nil {
		t.Fatalf("expected error when api missing")
	}
}

func TestRegisterRoutes(t *testing.T) {
	server := newServer()
	err := Register(Config[*fiber.App]{
		Router:    server.Router(),
		API:       &recordingExecutor{},
		Broadcast: listview.NewBroadcastHook(),
	})
	if err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	want := map[string]bool{
		"GET /admin/api/_events":             false,
		"GET /admin/api/:kind":               false,
		"GET /admin/api/:kind/_stats":        false,
		"POST /admin/api/:kind":              false,
		"POST /admin/api/:kind/_refresh":     false,
		"POST /admin/api/:kind/_preferences": false,
		"POST /admin/api/orders/:id/status":  false,
		"PUT /admin/api/:kind/:id":           false,
		"DELETE /admin/api/:kind/:id":        false,
	}
	for _, route := range server.Router().Routes() {
		key := string(route.Method) + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for key, found := range want {
		if !found {
			t.Fatalf("expected route %s to be registered", key)
		}
	}
}

func TestRoutesDispatchToExecutor(t *testing.T) {
	exec := &recordingExecutor{}
	app := mount(t, exec)

	resp := do(t, app, http.MethodGet, "/admin/api/products?q=lemon&filter=Active", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if exec.records.Kind != listview.KindProducts || exec.records.Query == nil || *exec.records.Query != "lemon" {
		t.Fatalf("unexpected records input %+v", exec.records)
	}
	if exec.records.Filter == nil || *exec.records.Filter != "Active" || exec.records.Refresh {
		t.Fatalf("unexpected filter input %+v", exec.records)
	}

	resp = do(t, app, http.MethodPost, "/admin/api/orders/42/status", `{"status":"Delivered"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if exec.status.OrderID != "42" || exec.status.Status != "Delivered" {
		t.Fatalf("unexpected status input %+v", exec.status)
	}

	resp = do(t, app, http.MethodPut, "/admin/api/users/7", `{"role":"manager"}`)
	if resp.StatusCode != http.StatusOK || exec.update.ID != "7" || exec.update.Changes["role"] != "manager" {
		t.Fatalf("unexpected update %d %+v", resp.StatusCode, exec.update)
	}

	resp = do(t, app, http.MethodPost, "/admin/api/orders/_preferences", `{"query":"rao","categorical":{"value":"New"}}`)
	if resp.StatusCode != http.StatusOK || exec.prefs.Preferences.Query != "rao" || exec.prefs.Preferences.Categorical.Value != "New" {
		t.Fatalf("unexpected preferences %d %+v", resp.StatusCode, exec.prefs)
	}

	resp = do(t, app, http.MethodPost, "/admin/api/products", `{`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.StatusCode)
	}
}

func TestRoutesAgainstBackend(t *testing.T) {
	service := newBackedService(t)
	app := mount(t, httpapi.NewCommandExecutor(service, nil))

	resp := do(t, app, http.MethodGet, "/admin/api/orders", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var orders []listview.DisplayRecord
	decode(t, resp, &orders)
	if len(orders) == 0 {
		t.Fatalf("expected seeded orders")
	}
	id := orders[0].ID

	resp = do(t, app, http.MethodPost, "/admin/api/orders/"+id+"/status", `{"status":"Shipped"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp = do(t, app, http.MethodGet, "/admin/api/orders?filter=Shipped", "")
	var shipped []listview.DisplayRecord
	decode(t, resp, &shipped)
	found := false
	for _, rec := range shipped {
		if rec.ID == id {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected order %s to be listed as shipped", id)
	}

	resp = do(t, app, http.MethodGet, "/admin/api/orders/_stats", "")
	var cards []listview.StatCard
	decode(t, resp, &cards)
	if len(cards) == 0 || cards[0].Code != "total" {
		t.Fatalf("unexpected stat cards %+v", cards)
	}

	resp = do(t, app, http.MethodPost, "/admin/api/products", `{"product_name":"Garlic Pickle"}`)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for incomplete product, got %d", resp.StatusCode)
	}
	var body httpapi.ErrorBody
	decode(t, resp, &body)
	if body.Message == "" {
		t.Fatalf("expected validation message")
	}

	resp = do(t, app, http.MethodPut, "/admin/api/carts/11", `{"status":"active"}`)
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for carts update, got %d", resp.StatusCode)
	}

	resp = do(t, app, http.MethodGet, "/admin/api/widgets", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown view, got %d", resp.StatusCode)
	}
}

// --- Test helpers ---

func newServer() router.Server[*fiber.App] {
	return router.NewFiberAdapter(func(app *fiber.App) *fiber.App { return app })
}

func mount(t *testing.T, api httpapi.Executor) *fiber.App {
	t.Helper()
	server := newServer()
	if err := Register(Config[*fiber.App]{Router: server.Router(), API: api}); err != nil {
		t.Fatalf("register returned error: %v", err)
	}
	return server.WrappedRouter()
}

func do(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func newBackedService(t *testing.T) *listview.Service {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	api := mockapi.New(mockapi.Options{Store: mockapi.NewStore(mockapi.DefaultSeed())})
	go func() { _ = api.Listener(ln) }()
	t.Cleanup(func() { _ = api.Shutdown() })

	client, err := backend.NewClient(backend.Config{BaseURL: "http://" + ln.Addr().String()})
	if err != nil {
		t.Fatalf("backend client: %v", err)
	}
	service := listview.NewService(listview.Options{
		Fetcher:   client,
		Gateway:   client,
		Confirmer: listview.AlwaysConfirm,
	})
	t.Cleanup(service.Stop)
	return service
}

type recordingExecutor struct {
	records queries.VisibleRecordsInput
	status  commands.SetOrderStatusInput
	update  commands.UpdateRecordInput
	prefs   commands.SavePreferencesInput
}

func (r *recordingExecutor) Records(_ context.Context, in queries.VisibleRecordsInput) ([]listview.DisplayRecord, error) {
	r.records = in
	return []listview.DisplayRecord{}, nil
}

func (r *recordingExecutor) Stats(context.Context, queries.ViewStatsInput) ([]listview.StatCard, error) {
	return nil, nil
}

func (r *recordingExecutor) Refresh(context.Context, commands.RefreshViewInput) error { return nil }
func (r *recordingExecutor) Create(context.Context, commands.CreateRecordInput) error   { return nil }

func (r *recordingExecutor) Update(_ context.Context, in commands.UpdateRecordInput) error {
	r.update = in
	return nil
}

func (r *recordingExecutor) SetStatus(_ context.Context, in commands.SetOrderStatusInput) error {
	r.status = in
	return nil
}

func (r *recordingExecutor) Delete(context.Context, commands.DeleteRecordInput) error { return nil }

func (r *recordingExecutor) Preferences(_ context.Context, in commands.SavePreferencesInput) error {
	r.prefs = in
	return nil
}
