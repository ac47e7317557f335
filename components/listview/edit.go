package listview

import goerrors "github.com/goliatone/go-errors"

// EditableFields seeds an edit draft from a record. Placeholder values are
// left out so an untouched draft never writes them back.
func EditableFields(rec DisplayRecord) map[string]any {
	draft := map[string]any{}
	put := func(key, value string) {
		if value != "" && value != Placeholder {
			draft[key] = value
		}
	}
	switch {
	case rec.Order != nil:
		draft["status"] = string(rec.Order.Status)
	case rec.Product != nil:
		p := rec.Product
		put("product_name", p.Name)
		put("category", p.Category)
		put("type", p.Type)
		put("weight", p.Weight)
		put("description", p.Description)
		draft["price"] = p.Price
		draft["stock"] = p.Stock
		if p.Status != ProductUnknown {
			draft["status"] = string(p.Status)
		}
	case rec.User != nil:
		u := rec.User
		put("name", u.Name)
		put("email", u.Email)
		put("phone", u.Phone)
		put("role", u.Role)
		put("status", u.Status)
	case rec.Customer != nil:
		c := rec.Customer
		put("name", c.Name)
		put("email", c.Contact.Email)
		put("mobile", c.Contact.Phone)
		put("city", c.Address.City)
		put("state", c.Address.State)
		put("postalcode", c.Address.PostalCode)
	}
	return draft
}

func fieldError(field, message string, value any) goerrors.FieldError {
	return goerrors.FieldError{Field: field, Message: message, Value: value}
}
