package repository

import "strings"

// prefixColumns qualifies a comma-separated column list with a table alias,
// for queries that join and would otherwise have ambiguous column names.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
