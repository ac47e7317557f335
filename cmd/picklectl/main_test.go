package main

import (
	"bytes"
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	listview "github.com/goliatone/go-listview/components/listview"
	"github.com/goliatone/go-listview/pkg/mockapi"
)

func startBackend(t *testing.T) string {
	t.Helper()
	app := mockapi.New(mockapi.Options{})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("LOG_LEVEL", "error")
	for _, key := range []string{"API_TOKEN", "REDIS_URL", "METRICS_ADDR", "VIEWS_MANIFEST"} {
		t.Setenv(key, "")
	}
	var root cli
	var out bytes.Buffer
	root.Out = &out
	ctx := context.Background()
	parser, err := kong.New(&root,
		kong.Name("picklectl"),
		kong.Vars{"kinds": kinds},
		kong.Bind(&root.Globals),
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(append([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}, args...))
	require.NoError(t, err)
	require.NoError(t, kctx.Run())
	return out.String()
}

func TestListOrdersTable(t *testing.T) {
	base := startBackend(t)
	out := run(t, "--base-url", base, "list", "orders")
	assert.Contains(t, out, "ORD-1001")
	assert.Contains(t, out, "Lakshmi Rao")
	assert.Contains(t, out, "3 Orders")
}

func TestListAppliesFilterAndQuery(t *testing.T) {
	base := startBackend(t)
	out := run(t, "--base-url", base, "list", "products", "--filter", "active", "--query", "lemon")
	assert.Contains(t, out, "Lemon Pickle")
	assert.NotContains(t, out, "Mango Pickle")
	assert.Contains(t, out, "1 Products")
}

func TestStatsJSON(t *testing.T) {
	base := startBackend(t)
	out := run(t, "--base-url", base, "--json", "stats", "carts")
	assert.Contains(t, out, `"code": "total"`)
	assert.Contains(t, out, `"value": 2`)
}

func TestSetStatusThenShow(t *testing.T) {
	base := startBackend(t)
	out := run(t, "--base-url", base, "set-status", "2", "Delivered")
	assert.Contains(t, out, "order 2 is now Delivered")
}

func TestDeleteWithYes(t *testing.T) {
	base := startBackend(t)
	out := run(t, "--base-url", base, "delete", "products", "104", "--yes")
	assert.Contains(t, out, "deleted products 104")
	out = run(t, "--base-url", base, "list", "products")
	assert.NotContains(t, out, "Gongura Pickle")
}

func TestCreateFromSetFlags(t *testing.T) {
	base := startBackend(t)
	out := run(t, "--base-url", base, "create", "products",
		"--set", "product_name=Garlic Pickle",
		"--set", "category=Veg",
		"--set", "type=Spicy",
		"--set", "weight=250g",
		"--set", "price=120",
		"--set", "stock=8",
	)
	assert.Contains(t, out, "Garlic Pickle")
}

func TestPayloadFlags(t *testing.T) {
	p := PayloadFlags{Data: `{"price": 10, "name": "x"}`, Set: map[string]string{"name": "y"}}
	payload, err := p.payload()
	require.NoError(t, err)
	assert.Equal(t, "y", payload["name"])
	assert.EqualValues(t, 10, payload["price"])

	_, err = PayloadFlags{}.payload()
	assert.Error(t, err)
	_, err = PayloadFlags{Data: "[1]"}.payload()
	assert.Error(t, err)
}

func TestPromptConfirmer(t *testing.T) {
	var prompt bytes.Buffer
	c := promptConfirmer(strings.NewReader("yes\nn\n"), &prompt)
	ok, err := c.Confirm(context.Background(), "Delete?")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.Confirm(context.Background(), "Delete?")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = c.Confirm(context.Background(), "Delete?")
	require.NoError(t, err)
	assert.False(t, ok, "end of input declines")
	assert.Contains(t, prompt.String(), "Delete? [y/N]: ")
}

func TestManifestInitAndAdd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "views", "manifest.yaml")
	init := &manifestInitCmd{Path: path, Name: "test"}
	require.NoError(t, init.Run(context.Background()))
	require.Error(t, init.Run(context.Background()))

	add := &manifestAddCmd{
		Path:      path,
		Kind:      listview.KindCarts,
		Endpoint:  "/api/v2/cart",
		Operation: []string{"none"},
		Candidate: map[string]string{"userName": "customer_name, user.name"},
		Overwrite: true,
	}
	require.NoError(t, add.Run(context.Background()))

	reg := listview.NewRegistry()
	_, err := reg.LoadManifestFile(path)
	require.NoError(t, err)
	def, ok := reg.Definition(listview.KindCarts)
	require.True(t, ok)
	assert.Equal(t, "/api/v2/cart", def.Endpoint)
	assert.Empty(t, def.Operations)
	assert.Equal(t, listview.Candidates{"customer_name", "user.name"}, def.FieldCandidates["user_name"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: \"1\"")
}
