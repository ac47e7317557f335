package listview

// Default endpoints, relative to the configured base URL.
const (
	OrdersEndpoint   = "/api/orders/"
	ProductsEndpoint = "/api/products"
	UsersEndpoint    = "/api/users"
	CartEndpoint     = "/api/cart"
)

// UserRoles lists the roles accepted by the user management screen.
var UserRoles = []string{"admin", "manager", "user"}

// DefaultViewDefinitions returns the built-in list screens.
func DefaultViewDefinitions() []ViewDefinition {
	return []ViewDefinition{
		{
			Kind:              KindOrders,
			Title:             "Orders",
			Endpoint:          OrdersEndpoint,
			Operations:        []Operation{OpUpdate},
			CategoricalField:  "status",
			CategoricalValues: orderStatusValues(),
			UpdateSchema: map[string]any{
				"type":                 "object",
				"required":             []any{"status"},
				"additionalProperties": false,
				"properties": map[string]any{
					"status": map[string]any{
						"type": "string",
						"enum": []any{"pending", "confirmed", "shipped", "delivered", "cancelled"},
					},
				},
			},
		},
		{
			Kind:              KindProducts,
			Title:             "Products",
			Endpoint:          ProductsEndpoint,
			Operations:        []Operation{OpCreate, OpUpdate, OpDelete},
			CategoricalField:  "status",
			CategoricalValues: []string{string(ProductActive), string(ProductInactive), string(ProductOutOfStock)},
			CreateSchema: map[string]any{
				"type":       "object",
				"required":   []any{"product_name", "category", "type", "weight", "price", "stock"},
				"properties": productProperties(),
			},
			UpdateSchema: map[string]any{
				"type":          "object",
				"minProperties": 1,
				"properties":    productProperties(),
			},
		},
		{
			Kind:              KindCustomers,
			Title:             "Customers",
			Endpoint:          UsersEndpoint,
			Operations:        []Operation{OpCreate, OpUpdate, OpDelete},
			CategoricalField:  "status",
			CategoricalValues: []string{"Active", "Inactive"},
			CreateSchema: map[string]any{
				"type":     "object",
				"required": []any{"first_name", "username", "email", "mobile", "password"},
				"properties": map[string]any{
					"first_name": nonEmptyString(),
					"last_name":  map[string]any{"type": "string"},
					"username":   nonEmptyString(),
					"email":      emailString(),
					"mobile":     nonEmptyString(),
					"password":   map[string]any{"type": "string", "minLength": 6},
					"address":    map[string]any{"type": "string"},
					"city":       map[string]any{"type": "string"},
					"state":      map[string]any{"type": "string"},
					"postalcode": map[string]any{"type": "string"},
				},
			},
			UpdateSchema: map[string]any{
				"type":          "object",
				"minProperties": 1,
				"properties": map[string]any{
					"name":       nonEmptyString(),
					"first_name": nonEmptyString(),
					"last_name":  map[string]any{"type": "string"},
					"email":      emailString(),
					"mobile":     nonEmptyString(),
					"address":    map[string]any{"type": "string"},
					"city":       map[string]any{"type": "string"},
					"state":      map[string]any{"type": "string"},
					"postalcode": map[string]any{"type": "string"},
				},
			},
		},
		{
			Kind:              KindCarts,
			Title:             "Carts",
			Endpoint:          CartEndpoint,
			Operations:        []Operation{OpDelete},
			CategoricalField:  "status",
			CategoricalValues: []string{"active", "abandoned", "converted"},
		},
		{
			Kind:              KindUsers,
			Title:             "Users",
			Endpoint:          UsersEndpoint,
			Operations:        []Operation{OpCreate, OpUpdate, OpDelete},
			CategoricalField:  "role",
			CategoricalValues: UserRoles,
			CreateSchema: map[string]any{
				"type":       "object",
				"required":   []any{"name", "email", "password", "role"},
				"properties": userProperties(true),
			},
			UpdateSchema: map[string]any{
				"type":          "object",
				"minProperties": 1,
				"properties":    userProperties(false),
			},
		},
	}
}

func orderStatusValues() []string {
	out := make([]string, 0, len(orderStatusToServer))
	for _, status := range OrderStatuses() {
		out = append(out, string(status))
	}
	return out
}

func productProperties() map[string]any {
	return map[string]any{
		"product_name": nonEmptyString(),
		"category":     nonEmptyString(),
		"type":         nonEmptyString(),
		"weight":       nonEmptyString(),
		"price":        numeric(false),
		"stock":        numeric(true),
		"status": map[string]any{
			"type": "string",
			"enum": []any{string(ProductActive), string(ProductInactive), string(ProductOutOfStock)},
		},
		"description": map[string]any{"type": "string"},
		"ingredients": map[string]any{"type": "string"},
		"image_url":   map[string]any{"type": "string"},
	}
}

func userProperties(withPassword bool) map[string]any {
	props := map[string]any{
		"name":  nonEmptyString(),
		"email": emailString(),
		"phone": map[string]any{"type": "string"},
		"role": map[string]any{
			"type": "string",
			"enum": []any{"admin", "manager", "user"},
		},
		"status": map[string]any{
			"type": "string",
			"enum": []any{"active", "inactive"},
		},
	}
	if withPassword {
		props["password"] = map[string]any{"type": "string", "minLength": 6}
	}
	return props
}

func nonEmptyString() map[string]any {
	return map[string]any{"type": "string", "minLength": 1}
}

func emailString() map[string]any {
	return map[string]any{"type": "string", "pattern": `^[^@\s]+@[^@\s]+\.[^@\s]+$`}
}

// numeric accepts JSON numbers or numeric strings, as forms submit both.
func numeric(integer bool) map[string]any {
	pattern := `^[0-9]+(\.[0-9]+)?$`
	kind := "number"
	if integer {
		pattern = `^[0-9]+$`
		kind = "integer"
	}
	return map[string]any{
		"type":    []any{kind, "string"},
		"minimum": 0,
		"pattern": pattern,
	}
}
