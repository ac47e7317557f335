package listview

// Logical line-item fields shared by orders and carts.
const (
	fieldItemName     = "item_name"
	fieldItemQuantity = "item_quantity"
	fieldItemPrice    = "item_price"
	fieldItemWeight   = "item_weight"
	fieldItemType     = "item_type"
	fieldItemImage    = "item_image"
)

var lineItemCandidates = FieldCandidates{
	fieldItemName:     {"product_name", "name", "product.product_name", "product.name"},
	fieldItemQuantity: {"quantity", "qty"},
	fieldItemPrice:    {"price", "unit_price", "product.price"},
	fieldItemWeight:   {"weight", "size"},
	fieldItemType:     {"type", "product_type"},
	fieldItemImage:    {"image_url", "image", "product.image_url"},
}

var defaultCandidates = map[EntityKind]FieldCandidates{
	KindOrders: lineItemCandidates.Merge(FieldCandidates{
		"id":             {"id", "_id", "order_id"},
		"order_number":   {"order_id", "order_number", "id"},
		"status":         {"status", "order_status"},
		"total":          {"total_price", "total_amount", "total"},
		"user_id":        {"user_id", "user.id", "customer_id"},
		"first_name":     {"user.first_name", "first_name"},
		"last_name":      {"user.last_name", "last_name"},
		"name":           {"customer_name", "user.name"},
		"username":       {"user.username", "username"},
		"email":          {"customer_email", "user.email", "email"},
		"phone":          {"customer_phone", "user.mobile", "user.phone", "mobile", "phone"},
		"items":          {"items", "order_items"},
		"payment_method": {"payment_method"},
		"address":        {"shipping_address", "delivery_address", "address"},
		"created_at":     {"created_at", "createdAt", "create_At"},
	}),
	KindProducts: {
		"id":          {"id", "_id", "product_id"},
		"name":        {"product_name", "name", "title"},
		"category":    {"category", "category_name"},
		"type":        {"type", "product_type"},
		"weight":      {"weight", "size"},
		"description": {"description"},
		"image":       {"image_url", "image", "imageUrl"},
		"status":      {"status"},
		"price":       {"price", "sale_price"},
		"stock":       {"stock", "stock_quantity"},
		"created_at":  {"created_at", "createdAt", "create_At"},
	},
	KindCustomers: {
		"id":         {"id", "_id", "user_id"},
		"user_id":    {"user_id", "id"},
		"first_name": {"first_name"},
		"last_name":  {"last_name"},
		"name":       {"name", "full_name"},
		"username":   {"username"},
		"email":      {"email"},
		"phone":      {"mobile", "phone"},
		"street":     {"address", "street"},
		"city":       {"city"},
		"state":      {"state"},
		"postal":     {"postalcode", "pincode", "postal_code"},
		"orders":     {"total_orders", "orders_total"},
		"spent":      {"total_spent"},
		"status":     {"status"},
		"created_at": {"create_At", "created_at", "createdAt"},
	},
	KindCarts: lineItemCandidates.Merge(FieldCandidates{
		"user_id":    {"user_id", "user.id"},
		"first_name": {"user.first_name", "first_name"},
		"last_name":  {"user.last_name", "last_name"},
		"name":       {"user_name", "user.name"},
		"username":   {"user.username", "username"},
		"email":      {"user_email", "user.email"},
		"status":     {"cart_status", "status"},
		"items":      {"items"},
		"created_at": {"created_at", "createdAt"},
	}),
	KindUsers: {
		"id":         {"id", "_id", "user_id"},
		"first_name": {"first_name"},
		"last_name":  {"last_name"},
		"name":       {"name", "full_name"},
		"username":   {"username"},
		"email":      {"email"},
		"phone":      {"phone", "mobile"},
		"role":       {"role", "user_type"},
		"status":     {"status"},
		"created_at": {"created_at", "createdAt", "create_At"},
	},
}

// DefaultFieldCandidates returns a copy of the built-in candidate lists for kind.
func DefaultFieldCandidates(kind EntityKind) FieldCandidates {
	return defaultCandidates[kind].Merge(nil)
}
