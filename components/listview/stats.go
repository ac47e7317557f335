package listview

import (
	"strings"
	"time"
)

// StatCard is a single headline figure shown above a list.
type StatCard struct {
	Code  string  `json:"code"`
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// NewCustomerWindow bounds the "new customers" card.
const NewCustomerWindow = 30 * 24 * time.Hour

// Stats computes the stat cards for a snapshot. now anchors time windows.
func Stats(kind EntityKind, records []DisplayRecord, now time.Time) []StatCard {
	total := StatCard{Code: "total", Label: "Total " + kind.Label(), Value: float64(len(records))}
	switch kind {
	case KindOrders:
		cards := []StatCard{total}
		for _, status := range []OrderStatus{OrderNew, OrderProcessing, OrderShipped, OrderDelivered} {
			cards = append(cards, StatCard{
				Code:  strings.ToLower(string(status)),
				Label: string(status),
				Value: countAttr(records, "status", string(status)),
			})
		}
		revenue := 0.0
		for _, rec := range records {
			if rec.Order != nil && rec.Order.Status != OrderCancelled {
				revenue += rec.Order.TotalAmount
			}
		}
		return append(cards, StatCard{Code: "revenue", Label: "Revenue", Value: revenue})
	case KindProducts:
		low := 0.0
		for _, rec := range records {
			if rec.Product != nil && rec.Product.LowStock {
				low++
			}
		}
		return []StatCard{
			total,
			{Code: "active", Label: "Active", Value: countAttr(records, "status", string(ProductActive))},
			{Code: "out_of_stock", Label: "Out of Stock", Value: countAttr(records, "status", string(ProductOutOfStock))},
			{Code: "low_stock", Label: "Low Stock", Value: low},
		}
	case KindCustomers:
		recent := 0.0
		for _, rec := range records {
			if !rec.CreatedAt.IsZero() && now.Sub(rec.CreatedAt) <= NewCustomerWindow {
				recent++
			}
		}
		return []StatCard{
			total,
			{Code: "active", Label: "Active", Value: countAttr(records, "status", "active")},
			{Code: "new", Label: "New (30 days)", Value: recent},
		}
	case KindCarts:
		value := 0.0
		for _, rec := range records {
			if rec.Cart != nil {
				value += rec.Cart.TotalAmount
			}
		}
		return []StatCard{
			total,
			{Code: "active", Label: "Active", Value: countAttr(records, "status", "active")},
			{Code: "abandoned", Label: "Abandoned", Value: countAttr(records, "status", "abandoned")},
			{Code: "converted", Label: "Converted", Value: countAttr(records, "status", "converted")},
			{Code: "value", Label: "Cart Value", Value: value},
		}
	case KindUsers:
		return []StatCard{
			total,
			{Code: "admins", Label: "Admins", Value: countAttr(records, "role", "admin")},
			{Code: "active", Label: "Active", Value: countAttr(records, "status", "active")},
			{Code: "inactive", Label: "Inactive", Value: countAttr(records, "status", "inactive")},
		}
	}
	return []StatCard{total}
}

func countAttr(records []DisplayRecord, field, value string) float64 {
	n := 0.0
	for _, rec := range records {
		if strings.EqualFold(rec.Attribute(field), value) {
			n++
		}
	}
	return n
}
