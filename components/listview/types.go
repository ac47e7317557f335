package listview

import (
	"context"
	"time"
)

// EntityKind names a list screen and the shape of its records.
type EntityKind string

const (
	KindOrders    EntityKind = "orders"
	KindProducts  EntityKind = "products"
	KindCustomers EntityKind = "customers"
	KindCarts     EntityKind = "carts"
	KindUsers     EntityKind = "users"
)

// Kinds lists every supported entity kind in menu order.
func Kinds() []EntityKind {
	return []EntityKind{KindOrders, KindProducts, KindCustomers, KindCarts, KindUsers}
}

// Valid reports whether the kind is one of the supported screens.
func (k EntityKind) Valid() bool {
	for _, kind := range Kinds() {
		if kind == k {
			return true
		}
	}
	return false
}

// RawRecord is a decoded server object before normalization.
type RawRecord = map[string]any

// DisplayRecord is the normalized, UI-ready representation of a server entity.
type DisplayRecord struct {
	ID               string            `json:"id"`
	Kind             EntityKind        `json:"kind"`
	PrimaryLabel     string            `json:"primary_label"`
	SecondaryLabel   string            `json:"secondary_label"`
	SearchableFields []string          `json:"searchable_fields"`
	Attributes       map[string]string `json:"attributes,omitempty"`
	CreatedAt        time.Time         `json:"created_at,omitzero"`

	Order    *OrderRecord    `json:"order,omitempty"`
	Product  *ProductRecord  `json:"product,omitempty"`
	Customer *CustomerRecord `json:"customer,omitempty"`
	Cart     *CartRecord     `json:"cart,omitempty"`
	User     *UserRecord     `json:"user,omitempty"`

	Raw RawRecord `json:"-"`
}

// Attribute returns a categorical value such as status or role.
func (r DisplayRecord) Attribute(field string) string {
	if r.Attributes == nil {
		return ""
	}
	return r.Attributes[field]
}

// LineItem is one product line within an order or cart.
type LineItem struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Weight      string  `json:"weight,omitempty"`
	Type        string  `json:"type,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// Subtotal is quantity times unit price.
func (l LineItem) Subtotal() float64 {
	return float64(l.Quantity) * l.Price
}

// Contact groups reachability fields.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Address is a postal location.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

// Totals aggregates a customer's purchase history.
type Totals struct {
	Orders int     `json:"orders"`
	Spent  float64 `json:"spent"`
}

// OrderRecord carries order details.
type OrderRecord struct {
	OrderNumber     string      `json:"order_number"`
	UserID          string      `json:"user_id"`
	Status          OrderStatus `json:"status"`
	TotalAmount     float64     `json:"total_amount"`
	Items           []LineItem  `json:"items"`
	Customer        Contact     `json:"customer"`
	PaymentMethod   string      `json:"payment_method"`
	ShippingAddress string      `json:"shipping_address"`
}

// ItemsTotal sums the line subtotals.
func (o OrderRecord) ItemsTotal() float64 {
	return sumItems(o.Items)
}

// ProductRecord carries catalog details.
type ProductRecord struct {
	Name        string        `json:"name"`
	Category    string        `json:"category"`
	Type        string        `json:"type"`
	Weight      string        `json:"weight"`
	Description string        `json:"description"`
	ImageURL    string        `json:"image_url"`
	Status      ProductStatus `json:"status"`
	Price       float64       `json:"price"`
	Stock       int           `json:"stock"`
	LowStock    bool          `json:"low_stock"`
}

// CustomerRecord carries customer profile details.
type CustomerRecord struct {
	UserID  string  `json:"user_id"`
	Name    string  `json:"name"`
	Contact Contact `json:"contact"`
	Address Address `json:"address"`
	Totals  Totals  `json:"totals"`
	Status  string  `json:"status"`
}

// CartRecord is one user's cart aggregated from cart-line rows.
type CartRecord struct {
	UserID      string     `json:"user_id"`
	UserName    string     `json:"user_name"`
	UserEmail   string     `json:"user_email"`
	Status      string     `json:"status"`
	Items       []LineItem `json:"items"`
	TotalAmount float64    `json:"total_amount"`
	ItemsCount  int        `json:"items_count"`
}

// UserRecord carries an admin-managed account.
type UserRecord struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// Categorical narrows a list to records whose attribute equals Value.
type Categorical struct {
	Field string `json:"field" yaml:"field"`
	Value string `json:"value" yaml:"value"`
}

// CollectionFetcher loads the raw records behind an endpoint.
type CollectionFetcher interface {
	FetchCollection(ctx context.Context, endpoint string) ([]RawRecord, error)
}

// MutationGateway issues single-record writes.
type MutationGateway interface {
	Create(ctx context.Context, endpoint string, payload map[string]any) (RawRecord, error)
	Update(ctx context.Context, endpoint, id string, payload map[string]any) (RawRecord, error)
	Delete(ctx context.Context, endpoint, id string) error
}

func sumItems(items []LineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.Subtotal()
	}
	return total
}
