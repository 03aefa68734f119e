// Listing query builder: turns untrusted query-string input into a
// parameterized COUNT + page SELECT pair. Filter values are always bound as
// positional parameters, never spliced into the SQL text.

package jobs

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// jobColumns is the column list shared by every SELECT that returns full
// job rows.
const jobColumns = `id, title, description, contract_type, location, schedule, days, contact,
       created_by, full_time, duration, start_date, end_date, salary, custom_fields, posted_at`

// TypeAll is the sentinel meaning "no contract_type filter".
const TypeAll = "all"

// ListParams are the sanitized listing inputs.
type ListParams struct {
	Page     int
	Limit    int
	Search   string // case-insensitive match on title or description
	Type     string // exact contract_type match; "" or "all" disables
	Location string // case-insensitive substring match
}

// ParseListParams reads page, limit, search, type and location from a query
// string, applying defaults and clamping page and limit to at least 1 so the
// OFFSET and LIMIT that follow can never go negative or zero.
func ParseListParams(q url.Values) ListParams {
	return ListParams{
		Page:     atoiFloor(q.Get("page"), defaultPage),
		Limit:    atoiFloor(q.Get("limit"), defaultLimit),
		Search:   q.Get("search"),
		Type:     q.Get("type"),
		Location: q.Get("location"),
	}
}

// atoiFloor parses s as an integer, falling back to def when empty or
// unparsable, and clamping the result to at least 1.
func atoiFloor(s string, def int) int {
	n := def
	if s != "" {
		v, err := strconv.Atoi(s)
		if err == nil {
			n = v
		}
	}
	if n < 1 {
		n = 1
	}
	return n
}

// where builds the conjunction of predicate fragments for the active
// filters, in fixed order: search, type, location. The returned clause is
// either empty or starts with "WHERE "; args holds one bound value per
// placeholder.
func (p ListParams) where() (clause string, args []any) {
	var preds []string

	if p.Search != "" {
		args = append(args, "%"+strings.ToLower(p.Search)+"%")
		n := len(args)
		preds = append(preds, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(description) LIKE $%d)", n, n))
	}
	if p.Type != "" && p.Type != TypeAll {
		args = append(args, p.Type)
		preds = append(preds, fmt.Sprintf("contract_type = $%d", len(args)))
	}
	if p.Location != "" {
		args = append(args, "%"+strings.ToLower(p.Location)+"%")
		preds = append(preds, fmt.Sprintf("LOWER(location) LIKE $%d", len(args)))
	}

	if len(preds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(preds, " AND "), args
}

// CountQuery returns the COUNT statement and its bound parameters for the
// active filters.
func (p ListParams) CountQuery() (string, []any) {
	clause, args := p.where()
	sql := "SELECT COUNT(*) FROM jobs"
	if clause != "" {
		sql += " " + clause
	}
	return sql, args
}

// SelectQuery returns the page-fetch statement: same WHERE as CountQuery,
// newest first (ids are monotonic, so id DESC is insertion order reversed),
// with LIMIT and OFFSET appended as the final two parameters.
func (p ListParams) SelectQuery() (string, []any) {
	clause, args := p.where()

	sql := "SELECT " + jobColumns + " FROM jobs"
	if clause != "" {
		sql += " " + clause
	}

	args = append(args, p.Limit, (p.Page-1)*p.Limit)
	sql += fmt.Sprintf(" ORDER BY id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return sql, args
}

// Pages returns ceil(total/limit); zero when total is zero.
func Pages(total, limit int) int {
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
