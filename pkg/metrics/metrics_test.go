package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordUpdatesCollectors(t *testing.T) {
	reg := NewRegistry()
	ctx := context.Background()
	reg.Record(ctx, "listview.fetch", map[string]any{"kind": "orders", "count": 3, "duration": 20 * time.Millisecond})
	reg.Record(ctx, "listview.fetch.error", map[string]any{"kind": "orders"})
	reg.Record(ctx, "backend.request", map[string]any{"method": "GET", "status": 200})
	reg.Record(ctx, "backend.request", map[string]any{"method": "DELETE", "status": 0})

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Events.WithLabelValues("listview.fetch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Errors.WithLabelValues("listview.fetch.error", "orders")))
	assert.Equal(t, 3.0, testutil.ToFloat64(reg.Records.WithLabelValues("orders")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Requests.WithLabelValues("GET", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.Requests.WithLabelValues("DELETE", "error")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := NewRegistry()
	reg.Record(context.Background(), "listview.mutation", map[string]any{"kind": "products"})

	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `listview_events_total{event="listview.mutation"} 1`))
}

func TestMountServesOnFiber(t *testing.T) {
	reg := NewRegistry()
	reg.Record(context.Background(), "listview.fetch", map[string]any{"kind": "carts", "count": 2})

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	reg.Mount(app, "/metrics")
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `listview_records{kind="carts"} 2`)
}
