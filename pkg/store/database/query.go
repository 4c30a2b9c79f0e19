package database

import (
	"fmt"
	"strings"
)

// allRows disables the limit while keeping the offset clause portable
// between sqlite and postgres.
const allRows = int64(1) << 62

// orderByClause translates an order-by field name with an optional leading
// sign into a SQL ORDER BY clause. Only whitelisted columns are allowed.
func orderByClause(orderBy string, columns map[string]string, def string) (string, error) {
	if orderBy == "" {
		return def, nil
	}

	desc := false
	if strings.HasPrefix(orderBy, "-") {
		desc = true
		orderBy = orderBy[1:]
	}

	col, ok := columns[orderBy]
	if !ok {
		return "", fmt.Errorf("cannot order by %q", orderBy)
	}

	if desc {
		return col + " DESC", nil
	}
	return col + " ASC", nil
}

// escapeLike escapes the LIKE wildcard characters in a search term so the
// term matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
