package listview

// AggregateCarts groups flat cart-line rows by user_id into one record per
// user, in order of first appearance. Rows that already carry an items list
// are treated as pre-aggregated carts.
func AggregateCarts(rows []RawRecord) []DisplayRecord {
	return defaultNormalizer.AggregateCarts(rows)
}

// AggregateCarts groups rows using n's candidate lists.
func (n *Normalizer) AggregateCarts(rows []RawRecord) []DisplayRecord {
	candidates := n.candidates[KindCarts]
	type group struct {
		head  RawRecord
		lines []any
	}
	var order []string
	groups := map[string]*group{}
	for _, row := range rows {
		if row == nil {
			continue
		}
		r := fieldReader{raw: row, candidates: candidates}
		key := r.textOr("user_id", unknownID)
		g, ok := groups[key]
		if !ok {
			g = &group{head: row}
			groups[key] = g
			order = append(order, key)
		}
		if nested := r.list("items"); nested != nil {
			for _, line := range nested {
				g.lines = append(g.lines, line)
			}
			continue
		}
		g.lines = append(g.lines, map[string]any(row))
	}

	out := make([]DisplayRecord, 0, len(order))
	for _, key := range order {
		g := groups[key]
		merged := make(RawRecord, len(g.head)+2)
		for k, v := range g.head {
			merged[k] = v
		}
		merged["user_id"] = key
		merged["items"] = g.lines
		rec := n.Normalize(merged, KindCarts)
		out = append(out, rec)
	}
	return out
}

func normalizeCart(r fieldReader) DisplayRecord {
	userID := r.textOr("user_id", unknownID)

	var items []LineItem
	if _, ok := r.value("items"); ok {
		items = lineItems(r.list("items"), r.candidates)
	} else if item, ok := lineItem(r); ok {
		items = []LineItem{item}
	} else {
		items = []LineItem{}
	}

	cart := &CartRecord{
		UserID:      userID,
		UserName:    personName(r, "User "+userID),
		UserEmail:   r.textOr("email", Placeholder),
		Status:      r.textOr("status", "active"),
		Items:       items,
		TotalAmount: sumItems(items),
		ItemsCount:  len(items),
	}
	return DisplayRecord{
		ID:               userID,
		PrimaryLabel:     cart.UserName,
		SecondaryLabel:   cart.UserEmail,
		SearchableFields: searchable(userID, cart.UserName, cart.UserEmail),
		Attributes:       map[string]string{"status": cart.Status},
		CreatedAt:        r.timestamp("created_at"),
		Cart:             cart,
	}
}
