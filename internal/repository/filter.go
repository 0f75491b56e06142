package repository

import "strings"

// Predicates collects parameterized WHERE conditions for list queries.
// Conditions are written with ? markers and rebound to the driver's
// placeholder style via sqlx.DB.Rebind, so caller input never reaches the
// SQL text itself.
type Predicates struct {
	exprs []string
	args  []interface{}
}

// Equal adds a column = value condition.
func (p *Predicates) Equal(column string, value interface{}) {
	p.exprs = append(p.exprs, column+" = ?")
	p.args = append(p.args, value)
}

// Search adds a case-insensitive substring match over one or more columns,
// combined with OR. Empty terms and empty column lists are ignored.
func (p *Predicates) Search(term string, columns ...string) {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return
	}
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = column + "::TEXT ILIKE ?"
		p.args = append(p.args, "%"+term+"%")
	}
	p.exprs = append(p.exprs, "("+strings.Join(parts, " OR ")+")")
}

// Empty reports whether no conditions were added.
func (p *Predicates) Empty() bool {
	return len(p.exprs) == 0
}

// Clause renders the accumulated conditions as a WHERE clause (with a
// leading space) and the matching argument list. It returns an empty string
// when no conditions exist.
func (p *Predicates) Clause() (string, []interface{}) {
	if len(p.exprs) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(p.exprs, " AND "), p.args
}
