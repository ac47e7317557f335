package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	listview "github.com/goliatone/go-listview/components/listview"
)

// ViewStatsInput names the view whose stat cards are requested.
type ViewStatsInput struct {
	Kind listview.EntityKind
}

// ViewStatsQuery computes stat cards over a view's full snapshot.
type ViewStatsQuery struct {
	service controllerSource
}

// NewViewStatsQuery builds the query.
func NewViewStatsQuery(service controllerSource) *ViewStatsQuery {
	return &ViewStatsQuery{service: service}
}

var _ gocommand.Querier[ViewStatsInput, []listview.StatCard] = (*ViewStatsQuery)(nil)

// Query loads the view if needed and returns its stat cards.
func (q *ViewStatsQuery) Query(ctx context.Context, input ViewStatsInput) ([]listview.StatCard, error) {
	ctrl, err := q.service.Loaded(ctx, input.Kind)
	if err != nil {
		return nil, err
	}
	return ctrl.Stats(), nil
}
