package prefstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	listview "github.com/goliatone/go-listview/components/listview"
)

const defaultPrefix = "listview:prefs:"

// Config describes the redis connection.
type Config struct {
	URL          string
	Prefix       string
	TTL          time.Duration
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Connect parses the URL, applies timeouts and pings the server.
func (c Config) Connect(ctx context.Context) (*redis.Client, error) {
	opts, err := redis.ParseURL(c.URL)
	if err != nil {
		return nil, fmt.Errorf("prefstore: parse redis url: %w", err)
	}
	if c.DialTimeout > 0 {
		opts.DialTimeout = c.DialTimeout
	}
	if c.ReadTimeout > 0 {
		opts.ReadTimeout = c.ReadTimeout
	}
	if c.WriteTimeout > 0 {
		opts.WriteTimeout = c.WriteTimeout
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("prefstore: ping redis: %w", err)
	}
	return client, nil
}

// Store persists view preferences as JSON strings in redis.
type Store struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

var _ listview.PreferenceStore = (*Store)(nil)

// New wraps a redis client. A zero TTL keeps entries forever.
func New(client redis.Cmdable, cfg Config) *Store {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{client: client, prefix: prefix, ttl: cfg.TTL}
}

// LoadPreferences returns stored preferences or the defaults.
func (s *Store) LoadPreferences(ctx context.Context, userID string, kind listview.EntityKind) (listview.ViewPreferences, error) {
	if userID == "" {
		return listview.DefaultPreferences(), nil
	}
	data, err := s.client.Get(ctx, s.key(userID, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return listview.DefaultPreferences(), nil
	}
	if err != nil {
		return listview.ViewPreferences{}, fmt.Errorf("prefstore: get %s: %w", kind, err)
	}
	prefs := listview.DefaultPreferences()
	if err := json.Unmarshal(data, &prefs); err != nil {
		return listview.ViewPreferences{}, fmt.Errorf("prefstore: decode %s: %w", kind, err)
	}
	if prefs.Categorical.Value == "" {
		prefs.Categorical.Value = listview.AllValues
	}
	return prefs, nil
}

// SavePreferences writes preferences for a user and view.
func (s *Store) SavePreferences(ctx context.Context, userID string, kind listview.EntityKind, prefs listview.ViewPreferences) error {
	if userID == "" {
		return errors.New("prefstore: user id is required")
	}
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("prefstore: encode %s: %w", kind, err)
	}
	if err := s.client.Set(ctx, s.key(userID, kind), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("prefstore: set %s: %w", kind, err)
	}
	return nil
}

func (s *Store) key(userID string, kind listview.EntityKind) string {
	return s.prefix + listview.PreferenceKey(userID, kind)
}
