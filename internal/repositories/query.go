package repositories

import (
	"strings"

	"gorm.io/gorm"
)

// ListQuery carries the client-controlled parts of a list request.
//
// Filters are exact matches keyed by public field name. Search is split on
// whitespace and every term must match at least one search field
// (case-insensitive substring). Ordering is a comma-separated list of field
// names, each optionally prefixed with "-" for descending.
type ListQuery struct {
	Filters  map[string]interface{}
	Search   string
	Ordering string
}

// listFields declares which public names a resource accepts and the columns
// they map to.
type listFields struct {
	table    string
	filters  map[string]string
	search   []string
	ordering map[string]string
	// defaultOrdering uses the same syntax as ListQuery.Ordering.
	defaultOrdering string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// apply adds the WHERE and ORDER BY clauses described by q to db.
// Unknown filter and ordering names are ignored.
func (f listFields) apply(db *gorm.DB, q ListQuery) *gorm.DB {
	for name, value := range q.Filters {
		if column, ok := f.filters[name]; ok {
			db = db.Where(column+" = ?", value)
		}
	}

	for _, term := range strings.Fields(q.Search) {
		pattern := "%" + likeEscaper.Replace(term) + "%"
		clauses := make([]string, len(f.search))
		args := make([]interface{}, len(f.search))
		for i, column := range f.search {
			clauses[i] = "LOWER(" + column + `) LIKE LOWER(?) ESCAPE '\'`
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	return db.Order(f.orderBy(q.Ordering))
}

// orderBy resolves an ordering expression to SQL. Ties are broken by id in
// the direction of the first ordering field.
func (f listFields) orderBy(ordering string) string {
	terms, desc := f.resolveOrdering(ordering)
	if len(terms) == 0 {
		terms, desc = f.resolveOrdering(f.defaultOrdering)
	}
	idOrder := f.table + ".id ASC"
	if desc {
		idOrder = f.table + ".id DESC"
	}
	return strings.Join(append(terms, idOrder), ", ")
}

func (f listFields) resolveOrdering(ordering string) (terms []string, firstDesc bool) {
	for _, raw := range strings.Split(ordering, ",") {
		name := strings.TrimSpace(raw)
		desc := strings.HasPrefix(name, "-")
		column, ok := f.ordering[strings.TrimPrefix(name, "-")]
		if !ok {
			continue
		}
		if len(terms) == 0 {
			firstDesc = desc
		}
		if desc {
			terms = append(terms, column+" DESC")
		} else {
			terms = append(terms, column+" ASC")
		}
	}
	return terms, firstDesc
}
