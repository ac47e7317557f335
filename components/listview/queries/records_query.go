package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	listview "github.com/goliatone/go-listview/components/listview"
)

// VisibleRecordsInput selects a view and optionally overrides its filters.
// Nil fields keep the controller's current query and filter.
type VisibleRecordsInput struct {
	Kind    listview.EntityKind
	Query   *string
	Filter  *string
	Refresh bool
}

type controllerSource interface {
	Loaded(ctx context.Context, kind listview.EntityKind) (*listview.Controller, error)
}

// VisibleRecordsQuery returns the filtered records of a view.
type VisibleRecordsQuery struct {
	service controllerSource
}

// NewVisibleRecordsQuery builds the query.
func NewVisibleRecordsQuery(service controllerSource) *VisibleRecordsQuery {
	return &VisibleRecordsQuery{service: service}
}

var _ gocommand.Querier[VisibleRecordsInput, []listview.DisplayRecord] = (*VisibleRecordsQuery)(nil)

// Query loads the view if needed and applies the filters.
func (q *VisibleRecordsQuery) Query(ctx context.Context, input VisibleRecordsInput) ([]listview.DisplayRecord, error) {
	ctrl, err := q.service.Loaded(ctx, input.Kind)
	if err != nil {
		return nil, err
	}
	if input.Refresh {
		if err := ctrl.Refresh(ctx); err != nil {
			return nil, err
		}
	}
	if input.Query != nil {
		ctrl.SetQuery(*input.Query)
	}
	if input.Filter != nil {
		ctrl.SetCategorical(*input.Filter)
	}
	return ctrl.Visible(), nil
}
