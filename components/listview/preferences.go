package listview

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ViewPreferences is the search state a user left a view in.
type ViewPreferences struct {
	Query       string      `json:"query" yaml:"query"`
	Categorical Categorical `json:"categorical" yaml:"categorical"`
}

// PreferenceStore persists per-user view preferences.
type PreferenceStore interface {
	LoadPreferences(ctx context.Context, userID string, kind EntityKind) (ViewPreferences, error)
	SavePreferences(ctx context.Context, userID string, kind EntityKind, prefs ViewPreferences) error
}

// InMemoryPreferenceStore provides a concurrency-safe default store.
type InMemoryPreferenceStore struct {
	mu   sync.RWMutex
	data map[string]ViewPreferences
}

// NewInMemoryPreferenceStore creates an empty preference store.
func NewInMemoryPreferenceStore() *InMemoryPreferenceStore {
	return &InMemoryPreferenceStore{data: make(map[string]ViewPreferences)}
}

// LoadPreferences returns stored preferences or defaults.
func (s *InMemoryPreferenceStore) LoadPreferences(_ context.Context, userID string, kind EntityKind) (ViewPreferences, error) {
	if userID == "" {
		return DefaultPreferences(), nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if prefs, ok := s.data[PreferenceKey(userID, kind)]; ok {
		return prefs.normalized(), nil
	}
	return DefaultPreferences(), nil
}

// SavePreferences persists preferences for a user and view.
func (s *InMemoryPreferenceStore) SavePreferences(_ context.Context, userID string, kind EntityKind, prefs ViewPreferences) error {
	if userID == "" {
		return fmt.Errorf("preference store requires user id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[PreferenceKey(userID, kind)] = prefs.normalized()
	return nil
}

// DefaultPreferences is an empty query with the categorical filter bypassed.
func DefaultPreferences() ViewPreferences {
	return ViewPreferences{Categorical: Categorical{Value: AllValues}}
}

// PreferenceKey is the storage key for a user and view.
func PreferenceKey(userID string, kind EntityKind) string {
	return userID + "::" + string(kind)
}

func (p ViewPreferences) normalized() ViewPreferences {
	p.Categorical.Field = strings.TrimSpace(p.Categorical.Field)
	p.Categorical.Value = strings.TrimSpace(p.Categorical.Value)
	if p.Categorical.Value == "" {
		p.Categorical.Value = AllValues
	}
	return p
}
