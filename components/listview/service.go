package listview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	errMissingFetcher = errors.New("listview: fetcher not configured")
	errMissingGateway = errors.New("listview: mutation gateway not configured")
)

// Options configures the Service. Every collaborator is an interface so
// applications can swap transports and stores.
type Options struct {
	Fetcher         CollectionFetcher
	Gateway         MutationGateway
	Registry        ViewRegistry
	Validator       PayloadValidator
	Confirmer       Confirmer
	PreferenceStore PreferenceStore
	Hook            EventHook
	Telemetry       Telemetry
	Logger          *zerolog.Logger
	Auth            AuthContext
	ClearOnError    bool
	Now             func() time.Time
}

// Service owns one independent Controller per view.
type Service struct {
	opts Options

	mu          sync.Mutex
	controllers map[EntityKind]*Controller
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.PreferenceStore == nil {
		opts.PreferenceStore = NewInMemoryPreferenceStore()
	}
	if opts.Hook == nil {
		opts.Hook = noopHook{}
	}
	if opts.Logger == nil {
		nop := zerolog.Nop()
		opts.Logger = &nop
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &Service{opts: opts, controllers: map[EntityKind]*Controller{}}
}

// Definitions lists the registered views.
func (s *Service) Definitions() []ViewDefinition {
	return s.opts.Registry.Definitions()
}

// Auth returns the identity the service's controllers act as.
func (s *Service) Auth() AuthContext { return s.opts.Auth }

// Controller returns the controller for kind, creating it on first use and
// restoring the user's saved query and filter.
func (s *Service) Controller(ctx context.Context, kind EntityKind) (*Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ctrl, ok := s.controllers[kind]; ok {
		return ctrl, nil
	}
	if s.opts.Fetcher == nil {
		return nil, errMissingFetcher
	}
	if s.opts.Gateway == nil {
		return nil, errMissingGateway
	}
	def, ok := s.opts.Registry.Definition(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownView, kind)
	}
	ctrl, err := NewController(ControllerOptions{
		Definition:   def,
		Auth:         s.opts.Auth,
		Fetcher:      s.opts.Fetcher,
		Gateway:      s.opts.Gateway,
		Validator:    s.opts.Validator,
		Confirmer:    s.opts.Confirmer,
		Hook:         s.opts.Hook,
		Telemetry:    s.opts.Telemetry,
		Logger:       s.opts.Logger,
		ClearOnError: s.opts.ClearOnError,
		Now:          s.opts.Now,
	})
	if err != nil {
		return nil, err
	}
	if s.opts.Auth.UserID != "" {
		prefs, err := s.opts.PreferenceStore.LoadPreferences(ctx, s.opts.Auth.UserID, kind)
		if err != nil {
			s.opts.Logger.Warn().Err(err).Str("view", string(kind)).Msg("load preferences")
		} else {
			ctrl.ApplyPreferences(prefs)
		}
	}
	s.controllers[kind] = ctrl
	s.opts.Telemetry.Record(ctx, "listview.controller.created", map[string]any{"kind": string(kind)})
	return ctrl, nil
}

// Loaded returns the controller for kind after making sure it has fetched at
// least once.
func (s *Service) Loaded(ctx context.Context, kind EntityKind) (*Controller, error) {
	ctrl, err := s.Controller(ctx, kind)
	if err != nil {
		return nil, err
	}
	if !ctrl.Loaded() {
		if err := ctrl.Refresh(ctx); err != nil {
			return ctrl, err
		}
	}
	return ctrl, nil
}

// Refresh refetches one view.
func (s *Service) Refresh(ctx context.Context, kind EntityKind) error {
	ctrl, err := s.Controller(ctx, kind)
	if err != nil {
		return err
	}
	return ctrl.Refresh(ctx)
}

// SavePreferences persists the current query and filter of a view.
func (s *Service) SavePreferences(ctx context.Context, kind EntityKind) error {
	if s.opts.Auth.UserID == "" {
		return errors.New("listview: saving preferences requires a user id")
	}
	ctrl, err := s.Controller(ctx, kind)
	if err != nil {
		return err
	}
	prefs := ctrl.Preferences()
	if err := s.opts.PreferenceStore.SavePreferences(ctx, s.opts.Auth.UserID, kind, prefs); err != nil {
		return err
	}
	s.opts.Telemetry.Record(ctx, "listview.preferences.save", map[string]any{
		"kind":  string(kind),
		"query": prefs.Query,
	})
	return nil
}

// Stop cancels in-flight fetches of every controller.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ctrl := range s.controllers {
		ctrl.Stop()
	}
}
