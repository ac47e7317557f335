package goadmin

import (
	"context"
	"errors"
	"fmt"

	core "github.com/goliatone/go-listview/components/listview"
	listviewpkg "github.com/goliatone/go-listview/pkg/listview"
)

// MenuBuilder ensures list view entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures list view link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the list view service into an admin shell.
type Config struct {
	EnableViews bool
	MenuCode    string
	MenuBuilder MenuBuilder
	Service     *listviewpkg.Service
	RoutePrefix string
	// Icons overrides DefaultIcons per view.
	Icons map[listviewpkg.EntityKind]string
}

// DefaultIcons are the navigation icons of the built-in views.
var DefaultIcons = map[listviewpkg.EntityKind]string{
	core.KindOrders:    "shopping-bag",
	core.KindProducts:  "package",
	core.KindCustomers: "users",
	core.KindCarts:     "shopping-cart",
	core.KindUsers:     "user-cog",
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed list view menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableViews && cfg.Service == nil {
		return nil, errors.New("goadmin: list view service is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.RoutePrefix == "" {
		cfg.RoutePrefix = "admin."
	}
	return &Admin{cfg: cfg}, nil
}

// Views exposes the configured service when enabled.
func (a *Admin) Views() *listviewpkg.Service {
	if !a.cfg.EnableViews {
		return nil
	}
	return a.cfg.Service
}

// MenuItems lists one entry per registered view, sorted by kind.
func (a *Admin) MenuItems() []MenuItem {
	if !a.cfg.EnableViews {
		return nil
	}
	defs := a.cfg.Service.Definitions()
	items := make([]MenuItem, 0, len(defs))
	for i, def := range defs {
		icon := a.cfg.Icons[def.Kind]
		if icon == "" {
			icon = DefaultIcons[def.Kind]
		}
		if icon == "" {
			icon = "list"
		}
		items = append(items, MenuItem{
			Label:    def.Title,
			Route:    a.cfg.RoutePrefix + string(def.Kind),
			Icon:     icon,
			Position: (i + 1) * 10,
		})
	}
	return items
}

// Bootstrap seeds menu entries when list views are enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableViews || a.cfg.MenuBuilder == nil {
		return nil
	}
	for _, item := range a.MenuItems() {
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return fmt.Errorf("goadmin: seed %s: %w", item.Route, err)
		}
	}
	return nil
}
