package mockapi

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"
)

type record = map[string]any

// Store is the in-memory state behind the mock API.
type Store struct {
	mu       sync.RWMutex
	orders   []record
	products []record
	users    []record
	cart     []record
	nextID   int
}

// NewStore builds a store from seed collections. Seeds are copied.
func NewStore(seed Seed) *Store {
	s := &Store{
		orders:   cloneAll(seed.Orders),
		products: cloneAll(seed.Products),
		users:    cloneAll(seed.Users),
		cart:     cloneAll(seed.Cart),
		nextID:   1000,
	}
	return s
}

// collection names a mutable list in the store.
type collection int

const (
	colOrders collection = iota
	colProducts
	colUsers
	colCart
)

func (s *Store) list(c collection) *[]record {
	switch c {
	case colOrders:
		return &s.orders
	case colProducts:
		return &s.products
	case colUsers:
		return &s.users
	default:
		return &s.cart
	}
}

func (s *Store) all(c collection) []record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(*s.list(c))
}

func (s *Store) find(c collection, id string) (record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range *s.list(c) {
		if idOf(r) == id {
			return maps.Clone(r), true
		}
	}
	return nil, false
}

func (s *Store) insert(c collection, r record) record {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	r = maps.Clone(r)
	r["id"] = s.nextID
	list := s.list(c)
	*list = append(*list, r)
	return maps.Clone(r)
}

func (s *Store) update(c collection, id string, changes record) (record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.list(c)
	for i, r := range *list {
		if idOf(r) != id {
			continue
		}
		next := maps.Clone(r)
		for k, v := range changes {
			if k == "id" {
				continue
			}
			next[k] = v
		}
		(*list)[i] = next
		return maps.Clone(next), true
	}
	return nil, false
}

func (s *Store) remove(c collection, match func(record) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.list(c)
	before := len(*list)
	*list = slices.DeleteFunc(*list, match)
	return before - len(*list)
}

func (s *Store) exists(c collection, match func(record) bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(*s.list(c), match)
}

func idOf(r record) string {
	return stringValue(r["id"])
}

func stringValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func cloneAll(in []record) []record {
	out := make([]record, 0, len(in))
	for _, r := range in {
		out = append(out, maps.Clone(r))
	}
	return out
}
