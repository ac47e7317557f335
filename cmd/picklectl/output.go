package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	listview "github.com/goliatone/go-listview/components/listview"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func render(w io.Writer, headers []string, rows [][]string) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func money(v float64) string {
	return "₹" + strconv.FormatFloat(v, 'f', 2, 64)
}

// recordRows lays out a snapshot with the columns of its list screen.
func recordRows(kind listview.EntityKind, records []listview.DisplayRecord) ([]string, [][]string) {
	var headers []string
	rows := make([][]string, 0, len(records))
	switch kind {
	case listview.KindOrders:
		headers = []string{"ID", "Order", "Customer", "Status", "Items", "Total"}
		for _, r := range records {
			o := r.Order
			rows = append(rows, []string{r.ID, o.OrderNumber, o.Customer.Name, string(o.Status), strconv.Itoa(len(o.Items)), money(o.TotalAmount)})
		}
	case listview.KindProducts:
		headers = []string{"ID", "Name", "Category", "Weight", "Status", "Price", "Stock"}
		for _, r := range records {
			p := r.Product
			stock := strconv.Itoa(p.Stock)
			if p.LowStock {
				stock += " (low)"
			}
			rows = append(rows, []string{r.ID, p.Name, p.Category, p.Weight, string(p.Status), money(p.Price), stock})
		}
	case listview.KindCustomers:
		headers = []string{"ID", "Name", "Email", "Phone", "Orders", "Spent", "Status"}
		for _, r := range records {
			c := r.Customer
			rows = append(rows, []string{r.ID, c.Name, c.Contact.Email, c.Contact.Phone, strconv.Itoa(c.Totals.Orders), money(c.Totals.Spent), c.Status})
		}
	case listview.KindCarts:
		headers = []string{"User", "Name", "Email", "Items", "Total", "Status"}
		for _, r := range records {
			c := r.Cart
			rows = append(rows, []string{c.UserID, c.UserName, c.UserEmail, strconv.Itoa(c.ItemsCount), money(c.TotalAmount), c.Status})
		}
	case listview.KindUsers:
		headers = []string{"ID", "Name", "Email", "Phone", "Role", "Status"}
		for _, r := range records {
			u := r.User
			rows = append(rows, []string{r.ID, u.Name, u.Email, u.Phone, u.Role, u.Status})
		}
	default:
		headers = []string{"ID", "Label", "Details"}
		for _, r := range records {
			rows = append(rows, []string{r.ID, r.PrimaryLabel, r.SecondaryLabel})
		}
	}
	return headers, rows
}

func printRecords(w io.Writer, kind listview.EntityKind, records []listview.DisplayRecord, asJSON bool) error {
	if asJSON {
		return writeJSON(w, records)
	}
	headers, rows := recordRows(kind, records)
	if err := render(w, headers, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d %s\n", len(records), kind.Label())
	return err
}

func printStats(w io.Writer, cards []listview.StatCard, asJSON bool) error {
	if asJSON {
		return writeJSON(w, cards)
	}
	rows := make([][]string, 0, len(cards))
	for _, card := range cards {
		value := strconv.FormatFloat(card.Value, 'f', -1, 64)
		if card.Code == "revenue" || card.Code == "value" {
			value = money(card.Value)
		}
		rows = append(rows, []string{card.Label, value})
	}
	return render(w, []string{"Metric", "Value"}, rows)
}

// printRecord shows every canonical field, then the line items if any.
func printRecord(w io.Writer, rec listview.DisplayRecord, asJSON bool) error {
	if asJSON {
		return writeJSON(w, rec)
	}
	fields := rec.Canonical()
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k != "items" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, fmt.Sprint(fields[k])})
	}
	if _, err := fmt.Fprintln(w, rec.PrimaryLabel); err != nil {
		return err
	}
	if err := render(w, []string{"Field", "Value"}, rows); err != nil {
		return err
	}
	var items []listview.LineItem
	switch {
	case rec.Order != nil:
		items = rec.Order.Items
	case rec.Cart != nil:
		items = rec.Cart.Items
	}
	if len(items) == 0 {
		return nil
	}
	itemRows := make([][]string, 0, len(items))
	for _, item := range items {
		itemRows = append(itemRows, []string{item.ProductName, item.Weight, strconv.Itoa(item.Quantity), money(item.Price), money(item.Subtotal())})
	}
	return render(w, []string{"Product", "Weight", "Qty", "Price", "Subtotal"}, itemRows)
}
