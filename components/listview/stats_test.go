package listview

import (
	"testing"
	"time"
)

func cardValues(cards []StatCard) map[string]float64 {
	out := make(map[string]float64, len(cards))
	for _, card := range cards {
		out[card.Code] = card.Value
	}
	return out
}

func TestStatsOrders(t *testing.T) {
	records := NormalizeAll([]RawRecord{
		{"id": 1, "status": "pending", "total_price": 100.0},
		{"id": 2, "status": "shipped", "total_price": "250.5"},
		{"id": 3, "status": "cancelled", "total_price": 999.0},
		{"id": 4, "status": "confirmed", "total_price": 50.0},
	}, KindOrders)
	got := cardValues(Stats(KindOrders, records, time.Now()))
	if got["total"] != 4 || got["new"] != 1 || got["shipped"] != 1 || got["processing"] != 1 || got["delivered"] != 0 {
		t.Fatalf("unexpected order counts %v", got)
	}
	if got["revenue"] != 400.5 {
		t.Fatalf("expected cancelled orders excluded from revenue, got %v", got["revenue"])
	}
}

func TestStatsProductsAndUsers(t *testing.T) {
	products := NormalizeAll([]RawRecord{
		{"id": 1, "status": "active", "stock": 3},
		{"id": 2, "status": "Active", "stock": 50},
		{"id": 3, "status": "out of stock", "stock": 0},
	}, KindProducts)
	got := cardValues(Stats(KindProducts, products, time.Now()))
	if got["active"] != 2 || got["out_of_stock"] != 1 || got["low_stock"] != 1 {
		t.Fatalf("unexpected product cards %v", got)
	}

	users := NormalizeAll([]RawRecord{
		{"id": 1, "role": "admin"},
		{"id": 2, "role": "user", "status": "inactive"},
	}, KindUsers)
	got = cardValues(Stats(KindUsers, users, time.Now()))
	if got["admins"] != 1 || got["active"] != 1 || got["inactive"] != 1 {
		t.Fatalf("unexpected user cards %v", got)
	}
}

func TestStatsNewCustomersWindow(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	customers := NormalizeAll([]RawRecord{
		{"id": 1, "created_at": "2026-10-01T00:00:00Z"},
		{"id": 2, "created_at": "2026-08-01T00:00:00Z"},
		{"id": 3},
	}, KindCustomers)
	got := cardValues(Stats(KindCustomers, customers, now))
	if got["new"] != 1 {
		t.Fatalf("expected one customer inside the window, got %v", got["new"])
	}
	if got["active"] != 3 {
		t.Fatalf("expected default status to count as active, got %v", got["active"])
	}
}

func TestStatsEmptySnapshot(t *testing.T) {
	for _, kind := range Kinds() {
		cards := Stats(kind, nil, time.Now())
		if len(cards) == 0 || cards[0].Code != "total" || cards[0].Value != 0 {
			t.Fatalf("%s: expected a zero total card, got %+v", kind, cards)
		}
	}
}
