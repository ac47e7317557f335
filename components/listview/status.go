package listview

import "strings"

// OrderStatus is the UI vocabulary for order progress.
type OrderStatus string

const (
	OrderNew        OrderStatus = "New"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// OrderStatuses lists the UI statuses in workflow order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{OrderNew, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}
}

// Server vocabulary used by the orders endpoint.
var orderStatusToServer = map[OrderStatus]string{
	OrderNew:        "pending",
	OrderProcessing: "confirmed",
	OrderShipped:    "shipped",
	OrderDelivered:  "delivered",
	OrderCancelled:  "cancelled",
}

var orderStatusFromServer = func() map[string]OrderStatus {
	out := make(map[string]OrderStatus, len(orderStatusToServer))
	for ui, server := range orderStatusToServer {
		out[server] = ui
	}
	return out
}()

// ServerValue maps the UI status to the backend vocabulary. Unknown
// statuses pass through untouched.
func (s OrderStatus) ServerValue() string {
	if v, ok := orderStatusToServer[s]; ok {
		return v
	}
	return string(s)
}

// Valid reports whether s is a known UI status.
func (s OrderStatus) Valid() bool {
	_, ok := orderStatusToServer[s]
	return ok
}

// ParseOrderStatus accepts either vocabulary, case-insensitively.
// Unknown values are returned unchanged with ok=false.
func ParseOrderStatus(value string) (OrderStatus, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if ui, ok := orderStatusFromServer[v]; ok {
		return ui, true
	}
	for ui := range orderStatusToServer {
		if strings.ToLower(string(ui)) == v {
			return ui, true
		}
	}
	return OrderStatus(strings.TrimSpace(value)), false
}

// ProductStatus is the catalog availability of a product.
type ProductStatus string

const (
	ProductActive     ProductStatus = "active"
	ProductInactive   ProductStatus = "inactive"
	ProductOutOfStock ProductStatus = "out of stock"
	ProductUnknown    ProductStatus = "unknown"
)

// ParseProductStatus normalizes case and separators ("Out_Of_Stock").
func ParseProductStatus(value string) ProductStatus {
	v := strings.ToLower(strings.TrimSpace(value))
	v = strings.NewReplacer("_", " ", "-", " ").Replace(v)
	switch ProductStatus(v) {
	case ProductActive, ProductInactive, ProductOutOfStock:
		return ProductStatus(v)
	case "":
		return ProductUnknown
	}
	if v == "outofstock" {
		return ProductOutOfStock
	}
	return ProductUnknown
}
