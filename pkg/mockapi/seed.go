package mockapi

// Seed holds the initial collections of a Store.
type Seed struct {
	Orders   []map[string]any
	Products []map[string]any
	Users    []map[string]any
	Cart     []map[string]any
}

// DefaultSeed mirrors the production payloads: nested order users, server
// status vocabulary, both stock spellings and flat cart rows.
func DefaultSeed() Seed {
	return Seed{
		Orders: []map[string]any{
			{
				"id": 1, "order_id": "ORD-1001", "user_id": 11, "status": "pending",
				"total_price": 550.0, "payment_method": "UPI", "shipping_address": "12 Beach Road",
				"createdAt": "2026-09-01T10:00:00Z",
				"user":      map[string]any{"first_name": "Lakshmi", "last_name": "Rao", "mobile": "+91 90000 00011", "email": "lakshmi@example.com"},
				"items": []any{
					map[string]any{"product_name": "Mango Pickle", "weight": "500g", "quantity": 2, "price": 200.0},
					map[string]any{"product_name": "Lemon Pickle", "weight": "250g", "quantity": 1, "price": 150.0},
				},
			},
			{
				"id": 2, "order_id": "ORD-1002", "user_id": 12, "status": "shipped",
				"total_price": 300.0, "payment_method": "COD", "shipping_address": "4 Hill View",
				"createdAt": "2026-09-05T08:30:00Z",
				"user":      map[string]any{"username": "ravi_k", "email": "ravi@example.com"},
				"items": []any{
					map[string]any{"product_name": "Gongura Pickle", "weight": "1kg", "quantity": 1, "price": 300.0},
				},
			},
			{
				"id": 3, "order_id": "ORD-1003", "user_id": 13, "status": "delivered",
				"total_price": "420", "payment_method": "Card", "shipping_address": "9 Temple Street",
				"createdAt": "2026-09-10T16:45:00Z",
				"items": []any{
					map[string]any{"product_name": "Tomato Pickle", "weight": "500g", "quantity": 3, "price": 140.0},
				},
			},
		},
		Products: []map[string]any{
			{"id": 101, "product_name": "Mango Pickle", "category": "Veg", "type": "Spicy", "weight": "500g", "price": 200.0, "stock": 25, "status": "Active"},
			{"id": 102, "product_name": "Lemon Pickle", "category": "Veg", "type": "Tangy", "weight": "250g", "price": "150", "stock_quantity": 4, "status": "active"},
			{"id": 103, "product_name": "Chicken Pickle", "category": "Non-Veg", "type": "Spicy", "weight": "500g", "price": 450.0, "stock": 0, "status": "out of stock"},
			{"id": 104, "product_name": "Gongura Pickle", "category": "Veg", "type": "Sour", "weight": "1kg", "price": 300.0, "stock": 12, "status": "inactive"},
		},
		Users: []map[string]any{
			{"id": 11, "user_id": 11, "first_name": "Lakshmi", "last_name": "Rao", "email": "lakshmi@example.com", "mobile": "+91 90000 00011", "city": "Visakhapatnam", "state": "Andhra Pradesh", "pincode": "530001", "total_orders": 4, "total_spent": 1850.5, "role": "admin", "status": "active", "create_At": "2026-09-20T09:00:00Z"},
			{"id": 12, "username": "ravi_k", "email": "ravi@example.com", "phone": "+91 90000 00012", "postalcode": "500001", "orders_total": 1, "total_spent": "300", "role": "user", "status": "inactive", "created_at": "2025-01-15T09:00:00Z"},
			{"id": 13, "name": "Meena", "email": "meena@example.com", "role": "manager", "created_at": "2026-10-01T09:00:00Z"},
		},
		Cart: []map[string]any{
			{"id": 1, "user_id": 11, "product_name": "Mango Pickle", "quantity": "2", "price": "200", "weight": "500g", "type": "Spicy", "user": map[string]any{"first_name": "Lakshmi", "last_name": "Rao", "email": "lakshmi@example.com"}},
			{"id": 2, "user_id": 12, "product_name": "Lemon Pickle", "quantity": 1, "price": 150.0, "weight": "250g", "user": map[string]any{"username": "ravi_k", "email": "ravi@example.com"}},
			{"id": 3, "user_id": 11, "product_name": "Gongura Pickle", "quantity": 1, "price": 300.0, "weight": "1kg"},
			{"id": 4, "user_id": 12, "product_name": "Chicken Pickle", "quantity": 2, "price": 450.0, "weight": "500g"},
		},
	}
}
