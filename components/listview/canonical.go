package listview

// Canonical renders the record back into a raw object that normalizes to the
// same record. Normalize(rec.Canonical(), rec.Kind) equals rec apart from Raw.
func (r DisplayRecord) Canonical() RawRecord {
	out := RawRecord{"id": r.ID}
	if ts := formatTime(r.CreatedAt); ts != "" {
		out["created_at"] = ts
	}
	switch {
	case r.Order != nil:
		o := r.Order
		out["order_id"] = o.OrderNumber
		out["status"] = o.Status.ServerValue()
		out["total_price"] = o.TotalAmount
		if o.UserID != "" {
			out["user_id"] = o.UserID
		}
		out["customer_name"] = o.Customer.Name
		out["customer_phone"] = o.Customer.Phone
		out["customer_email"] = o.Customer.Email
		out["payment_method"] = o.PaymentMethod
		out["shipping_address"] = o.ShippingAddress
		out["items"] = canonicalItems(o.Items)
	case r.Product != nil:
		p := r.Product
		out["product_name"] = p.Name
		out["category"] = p.Category
		out["type"] = p.Type
		out["weight"] = p.Weight
		if p.Description != "" {
			out["description"] = p.Description
		}
		if p.ImageURL != "" {
			out["image_url"] = p.ImageURL
		}
		if p.Status != ProductUnknown {
			out["status"] = string(p.Status)
		}
		out["price"] = p.Price
		out["stock"] = p.Stock
	case r.Customer != nil:
		c := r.Customer
		out["user_id"] = c.UserID
		out["name"] = c.Name
		out["email"] = c.Contact.Email
		out["mobile"] = c.Contact.Phone
		out["address"] = c.Address.Street
		out["city"] = c.Address.City
		out["state"] = c.Address.State
		out["postalcode"] = c.Address.PostalCode
		out["total_orders"] = c.Totals.Orders
		out["total_spent"] = c.Totals.Spent
		out["status"] = c.Status
	case r.Cart != nil:
		c := r.Cart
		out["user_id"] = c.UserID
		out["user_name"] = c.UserName
		out["user_email"] = c.UserEmail
		out["status"] = c.Status
		out["items"] = canonicalItems(c.Items)
	case r.User != nil:
		u := r.User
		out["name"] = u.Name
		out["email"] = u.Email
		out["phone"] = u.Phone
		out["role"] = u.Role
		out["status"] = u.Status
	default:
		out["name"] = r.PrimaryLabel
	}
	return out
}

func canonicalItems(items []LineItem) []any {
	out := make([]any, 0, len(items))
	for _, item := range items {
		line := map[string]any{
			"product_name": item.ProductName,
			"quantity":     item.Quantity,
			"price":        item.Price,
		}
		if item.Weight != "" {
			line["weight"] = item.Weight
		}
		if item.Type != "" {
			line["type"] = item.Type
		}
		if item.ImageURL != "" {
			line["image_url"] = item.ImageURL
		}
		out = append(out, line)
	}
	return out
}
