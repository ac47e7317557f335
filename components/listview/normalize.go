package listview

import (
	"strings"

	"github.com/ettle/strcase"
)

const unknownID = "unknown"

// Normalizer maps raw server records into DisplayRecords using ordered
// candidate keys per logical field. It is pure and safe for concurrent use.
type Normalizer struct {
	candidates map[EntityKind]FieldCandidates
}

// NewNormalizer builds a normalizer whose candidate lists are the defaults
// merged with overrides.
func NewNormalizer(overrides map[EntityKind]FieldCandidates) *Normalizer {
	n := &Normalizer{candidates: map[EntityKind]FieldCandidates{}}
	for _, kind := range Kinds() {
		n.candidates[kind] = DefaultFieldCandidates(kind).Merge(overrides[kind])
	}
	return n
}

var defaultNormalizer = NewNormalizer(nil)

// Normalize converts raw with the default candidate lists.
func Normalize(raw RawRecord, kind EntityKind) DisplayRecord {
	return defaultNormalizer.Normalize(raw, kind)
}

// NormalizeAll converts a collection with the default candidate lists.
func NormalizeAll(raws []RawRecord, kind EntityKind) []DisplayRecord {
	return defaultNormalizer.NormalizeAll(raws, kind)
}

// Candidates exposes the effective candidate lists for kind.
func (n *Normalizer) Candidates(kind EntityKind) FieldCandidates {
	return n.candidates[kind].Merge(nil)
}

// Normalize never fails: absent fields fall back to placeholders.
func (n *Normalizer) Normalize(raw RawRecord, kind EntityKind) DisplayRecord {
	if raw == nil {
		raw = RawRecord{}
	}
	r := fieldReader{raw: raw, candidates: n.candidates[kind]}
	var rec DisplayRecord
	switch kind {
	case KindOrders:
		rec = normalizeOrder(r)
	case KindProducts:
		rec = normalizeProduct(r)
	case KindCustomers:
		rec = normalizeCustomer(r)
	case KindCarts:
		rec = normalizeCart(r)
	case KindUsers:
		rec = normalizeUser(r)
	default:
		rec = normalizeGeneric(raw)
	}
	rec.Kind = kind
	rec.Raw = raw
	if len(rec.SearchableFields) == 0 {
		rec.SearchableFields = []string{rec.ID}
	}
	return rec
}

// NormalizeAll normalizes a snapshot, keeping the first record per id.
// Cart-line rows are grouped into one record per user.
func (n *Normalizer) NormalizeAll(raws []RawRecord, kind EntityKind) []DisplayRecord {
	if kind == KindCarts {
		return n.AggregateCarts(raws)
	}
	out := make([]DisplayRecord, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		rec := n.Normalize(raw, kind)
		if _, dup := seen[rec.ID]; dup {
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out
}

func normalizeOrder(r fieldReader) DisplayRecord {
	id := r.textOr("id", unknownID)
	userID, _ := r.text("user_id")
	items := lineItems(r.list("items"), r.candidates)

	total := sumItems(items)
	if _, ok := r.value("total"); ok {
		total = r.amount("total")
	}

	status := OrderNew
	if raw, ok := r.text("status"); ok {
		status, _ = ParseOrderStatus(raw)
	}

	labelID := userID
	if labelID == "" {
		labelID = id
	}
	customer := Contact{
		Name:  personName(r, "Customer "+labelID),
		Phone: r.textOr("phone", Placeholder),
		Email: r.textOr("email", Placeholder),
	}
	number := r.textOr("order_number", id)

	order := &OrderRecord{
		OrderNumber:     number,
		UserID:          userID,
		Status:          status,
		TotalAmount:     total,
		Items:           items,
		Customer:        customer,
		PaymentMethod:   r.textOr("payment_method", Placeholder),
		ShippingAddress: r.textOr("address", Placeholder),
	}
	return DisplayRecord{
		ID:               id,
		PrimaryLabel:     "Order #" + number,
		SecondaryLabel:   customer.Name,
		SearchableFields: searchable(number, id, customer.Name, customer.Phone, customer.Email),
		Attributes:       map[string]string{"status": string(status)},
		CreatedAt:        r.timestamp("created_at"),
		Order:            order,
	}
}

func normalizeProduct(r fieldReader) DisplayRecord {
	id := r.textOr("id", unknownID)
	status := ProductUnknown
	if raw, ok := r.text("status"); ok {
		status = ParseProductStatus(raw)
	}
	stock := r.count("stock")
	product := &ProductRecord{
		Name:        r.textOr("name", "Product "+id),
		Category:    r.textOr("category", Placeholder),
		Type:        r.textOr("type", Placeholder),
		Weight:      r.textOr("weight", Placeholder),
		Description: r.textOr("description", ""),
		ImageURL:    r.textOr("image", ""),
		Status:      status,
		Price:       r.amount("price"),
		Stock:       stock,
		LowStock:    stock > 0 && stock < 10 && status != ProductOutOfStock,
	}
	return DisplayRecord{
		ID:               id,
		PrimaryLabel:     product.Name,
		SecondaryLabel:   product.Category,
		SearchableFields: searchable(id, product.Name, product.Category, product.Type),
		Attributes: map[string]string{
			"status":   string(status),
			"category": product.Category,
		},
		CreatedAt: r.timestamp("created_at"),
		Product:   product,
	}
}

func normalizeCustomer(r fieldReader) DisplayRecord {
	id := r.textOr("id", unknownID)
	userID := r.textOr("user_id", id)
	name := personName(r, "Customer "+userID)
	customer := &CustomerRecord{
		UserID: userID,
		Name:   name,
		Contact: Contact{
			Phone: r.textOr("phone", Placeholder),
			Email: r.textOr("email", Placeholder),
		},
		Address: Address{
			Street:     r.textOr("street", Placeholder),
			City:       r.textOr("city", Placeholder),
			State:      r.textOr("state", Placeholder),
			PostalCode: r.textOr("postal", Placeholder),
		},
		Totals: Totals{
			Orders: r.count("orders"),
			Spent:  r.amount("spent"),
		},
		Status: r.textOr("status", "Active"),
	}
	return DisplayRecord{
		ID:               id,
		PrimaryLabel:     name,
		SecondaryLabel:   customer.Contact.Email,
		SearchableFields: searchable(name, customer.Contact.Phone, customer.Contact.Email, userID, id),
		Attributes:       map[string]string{"status": customer.Status},
		CreatedAt:        r.timestamp("created_at"),
		Customer:         customer,
	}
}

func normalizeUser(r fieldReader) DisplayRecord {
	id := r.textOr("id", unknownID)
	user := &UserRecord{
		Name:   personName(r, "User "+id),
		Email:  r.textOr("email", Placeholder),
		Phone:  r.textOr("phone", Placeholder),
		Role:   r.textOr("role", "user"),
		Status: r.textOr("status", "active"),
	}
	return DisplayRecord{
		ID:               id,
		PrimaryLabel:     user.Name,
		SecondaryLabel:   user.Email,
		SearchableFields: searchable(user.Name, user.Email, user.Phone),
		Attributes: map[string]string{
			"role":   user.Role,
			"status": user.Status,
		},
		CreatedAt: r.timestamp("created_at"),
		User:      user,
	}
}

func normalizeGeneric(raw RawRecord) DisplayRecord {
	id := unknownID
	if s := strings.TrimSpace(stringify(raw["id"])); s != "" {
		id = s
	}
	label := strings.TrimSpace(stringify(raw["name"]))
	if label == "" {
		label = id
	}
	return DisplayRecord{
		ID:               id,
		PrimaryLabel:     label,
		SearchableFields: searchable(id, label),
	}
}

// personName applies first+last, name, username, email, then fallback.
func personName(r fieldReader, fallback string) string {
	first, okFirst := r.text("first_name")
	last, okLast := r.text("last_name")
	if okFirst && okLast {
		if name := composeName(first, last); name != "" {
			return name
		}
	}
	for _, field := range []string{"name", "username", "email"} {
		if s, ok := r.text(field); ok {
			return s
		}
	}
	return fallback
}

func lineItems(rows []map[string]any, candidates FieldCandidates) []LineItem {
	items := make([]LineItem, 0, len(rows))
	for _, row := range rows {
		item, ok := lineItem(fieldReader{raw: row, candidates: candidates})
		if ok {
			items = append(items, item)
		}
	}
	return items
}

// lineItem drops rows without a positive quantity.
func lineItem(r fieldReader) (LineItem, bool) {
	qty := r.count(fieldItemQuantity)
	if qty < 1 {
		return LineItem{}, false
	}
	return LineItem{
		ProductName: r.textOr(fieldItemName, "Unnamed product"),
		Quantity:    qty,
		Price:       r.amount(fieldItemPrice),
		Weight:      r.textOr(fieldItemWeight, ""),
		Type:        r.textOr(fieldItemType, ""),
		ImageURL:    r.textOr(fieldItemImage, ""),
	}, true
}

func searchable(values ...string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" || v == Placeholder {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (k EntityKind) String() string { return string(k) }

// Label is a human title for the kind, e.g. "Orders".
func (k EntityKind) Label() string {
	return strcase.ToCase(string(k), strcase.TitleCase, ' ')
}
