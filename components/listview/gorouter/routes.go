package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	router "github.com/goliatone/go-router"

	listview "github.com/goliatone/go-listview/components/listview"
	"github.com/goliatone/go-listview/components/listview/commands"
	"github.com/goliatone/go-listview/components/listview/httpapi"
	"github.com/goliatone/go-listview/components/listview/queries"
)

// Config wires go-router with the list view API and event stream.
type Config[T any] struct {
	Router    router.Router[T]
	API       httpapi.Executor
	Broadcast *listview.BroadcastHook
	BasePath  string
	Routes    RouteConfig
}

// RouteConfig customizes the relative paths used for list view endpoints.
type RouteConfig struct {
	Records     string
	Record      string
	Stats       string
	Refresh     string
	Preferences string
	Status      string
	WebSocket   string
}

// Register mounts the list view JSON API (and the event WebSocket when a
// broadcast hook is set) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil {
		return errors.New("gorouter: api executor is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/admin/api"
	}
	group := cfg.Router.Group(base)

	// Registered first so the fixed path wins over the :kind routes.
	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	registerAPI(group, cfg.API, routes)
	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, routes RouteConfig) {
	r.Get(routes.Stats, router.WrapHandler(func(ctx router.Context) error {
		kind := listview.EntityKind(ctx.Param("kind"))
		cards, err := api.Stats(ctx.Context(), queries.ViewStatsInput{Kind: kind})
		if err != nil {
			return respondError(ctx, err, "Failed to load "+kind.Label())
		}
		return ctx.JSON(http.StatusOK, cards)
	}))

	r.Get(routes.Records, router.WrapHandler(func(ctx router.Context) error {
		kind := listview.EntityKind(ctx.Param("kind"))
		input := queries.VisibleRecordsInput{Kind: kind}
		if q := ctx.QueryValues("q"); len(q) > 0 {
			input.Query = &q[0]
		}
		if f := ctx.QueryValues("filter"); len(f) > 0 {
			input.Filter = &f[0]
		}
		input.Refresh, _ = strconv.ParseBool(ctx.Query("refresh", "false"))
		records, err := api.Records(ctx.Context(), input)
		if err != nil {
			return respondError(ctx, err, "Failed to load "+kind.Label())
		}
		return ctx.JSON(http.StatusOK, records)
	}))

	r.Post(routes.Refresh, router.WrapHandler(func(ctx router.Context) error {
		kind := listview.EntityKind(ctx.Param("kind"))
		if err := api.Refresh(ctx.Context(), commands.RefreshViewInput{Kind: kind}); err != nil {
			return respondError(ctx, err, "Failed to load "+kind.Label())
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "refreshed"})
	}))

	r.Post(routes.Preferences, router.WrapHandler(func(ctx router.Context) error {
		var prefs listview.ViewPreferences
		if err := json.Unmarshal(ctx.Body(), &prefs); err != nil {
			return respondBadRequest(ctx, err)
		}
		input := commands.SavePreferencesInput{Kind: listview.EntityKind(ctx.Param("kind")), Preferences: prefs}
		if err := api.Preferences(ctx.Context(), input); err != nil {
			return respondError(ctx, err, "Failed to save preferences")
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))

	r.Post(routes.Status, router.WrapHandler(func(ctx router.Context) error {
		var payload struct {
			Status string `json:"status"`
		}
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondBadRequest(ctx, err)
		}
		input := commands.SetOrderStatusInput{OrderID: ctx.Param("id"), Status: payload.Status}
		if err := api.SetStatus(ctx.Context(), input); err != nil {
			return respondError(ctx, err, "Failed to update order status")
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Post(routes.Records, router.WrapHandler(func(ctx router.Context) error {
		var payload map[string]any
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondBadRequest(ctx, err)
		}
		var created listview.DisplayRecord
		input := commands.CreateRecordInput{Kind: listview.EntityKind(ctx.Param("kind")), Payload: payload, Created: &created}
		if err := api.Create(ctx.Context(), input); err != nil {
			return respondError(ctx, err, "Failed to create record")
		}
		return ctx.JSON(http.StatusCreated, created)
	}))

	r.Put(routes.Record, router.WrapHandler(func(ctx router.Context) error {
		var changes map[string]any
		if err := json.Unmarshal(ctx.Body(), &changes); err != nil {
			return respondBadRequest(ctx, err)
		}
		input := commands.UpdateRecordInput{Kind: listview.EntityKind(ctx.Param("kind")), ID: ctx.Param("id"), Changes: changes}
		if err := api.Update(ctx.Context(), input); err != nil {
			return respondError(ctx, err, "Failed to update record")
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Delete(routes.Record, router.WrapHandler(func(ctx router.Context) error {
		input := commands.DeleteRecordInput{Kind: listview.EntityKind(ctx.Param("kind")), ID: ctx.Param("id")}
		if err := api.Delete(ctx.Context(), input); err != nil {
			return respondError(ctx, err, "Failed to delete record")
		}
		return ctx.NoContent(http.StatusNoContent)
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *listview.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func respondError(ctx router.Context, err error, fallback string) error {
	return ctx.JSON(httpapi.StatusFor(err), httpapi.NewErrorBody(err, fallback))
}

func respondBadRequest(ctx router.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, httpapi.ErrorBody{Error: err.Error(), Message: "Invalid request body"})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Records == "" {
		routes.Records = "/:kind"
	}
	if routes.Record == "" {
		routes.Record = "/:kind/:id"
	}
	if routes.Stats == "" {
		routes.Stats = "/:kind/_stats"
	}
	if routes.Refresh == "" {
		routes.Refresh = "/:kind/_refresh"
	}
	if routes.Preferences == "" {
		routes.Preferences = "/:kind/_preferences"
	}
	if routes.Status == "" {
		routes.Status = "/orders/:id/status"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/_events"
	}
	return routes
}
