package listview

import "strings"

// AllValues is the categorical sentinel that disables the filter.
const AllValues = "all"

// Matches reports whether a record satisfies the text query: any searchable
// field contains query, case-insensitively. An empty query matches.
func Matches(rec DisplayRecord, query string) bool {
	if query == "" {
		return true
	}
	needle := strings.ToLower(query)
	for _, field := range rec.SearchableFields {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// MatchesCategorical reports whether the record's attribute equals the
// filter value, case-insensitively. Nil, empty and "all" filters match.
func MatchesCategorical(rec DisplayRecord, cat *Categorical) bool {
	if cat.bypass() {
		return true
	}
	return strings.EqualFold(rec.Attribute(cat.Field), cat.Value)
}

func (c *Categorical) bypass() bool {
	return c == nil || c.Field == "" || c.Value == "" || strings.EqualFold(c.Value, AllValues)
}

// Filter returns the records matching both the query and the categorical
// filter, in input order. The input slice is never modified.
func Filter(records []DisplayRecord, query string, cat *Categorical) []DisplayRecord {
	out := make([]DisplayRecord, 0, len(records))
	for _, rec := range records {
		if Matches(rec, query) && MatchesCategorical(rec, cat) {
			out = append(out, rec)
		}
	}
	return out
}
