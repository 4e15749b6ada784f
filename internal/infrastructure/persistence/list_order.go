package persistence

import (
	"strings"

	"github.com/travel/backend/internal/domain/shared"
	"gorm.io/gorm/clause"
)

// reservationOrderColumns are the columns a reservation list may be sorted by
var reservationOrderColumns = map[string]struct{}{
	"id":             {},
	"created_at":     {},
	"updated_at":     {},
	"status":         {},
	"payment_status": {},
	"invoice_number": {},
	"total_amount":   {},
	"advisor_id":     {},
}

// listOrder turns the filter's sort request into an ORDER BY clause.
// Unknown columns fall back to created_at and anything but "asc" sorts
// descending; id breaks ties so pages never overlap.
func listOrder(filter shared.Filter, allowed map[string]struct{}) clause.OrderBy {
	column := strings.ToLower(strings.TrimSpace(filter.OrderBy))
	if _, ok := allowed[column]; !ok {
		column = "created_at"
	}
	desc := !strings.EqualFold(strings.TrimSpace(filter.OrderDir), "asc")

	columns := []clause.OrderByColumn{{Column: clause.Column{Name: column}, Desc: desc}}
	if column != "id" {
		columns = append(columns, clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
	}
	return clause.OrderBy{Columns: columns}
}

// escapeLikePattern escapes the LIKE wildcards of user input. Queries using it
// declare the escape character explicitly, SQLite has no default one.
func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
