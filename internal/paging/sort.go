package paging

import "fmt"

// Columns maps the logical sort names accepted from clients to the SQL
// columns they order by. Only names present in the map can reach a query.
type Columns map[string]string

// OrderBy validates opts.SortBy against the allow-list and returns an ORDER BY
// clause body such as "name DESC, id ASC". An empty SortBy falls back to
// DefaultSortBy. The id tie-breaker keeps pages stable for duplicate values.
func (c Columns) OrderBy(opts Options, idColumn string) (string, error) {
	key := opts.SortBy
	if key == "" {
		key = DefaultSortBy
	}
	col, ok := c[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSort, opts.SortBy)
	}
	dir := "ASC"
	if opts.Descending() {
		dir = "DESC"
	}
	if col == idColumn {
		return col + " " + dir, nil
	}
	return col + " " + dir + ", " + idColumn + " ASC", nil
}
