package app

import (
	"regexp"
	"strings"
)

// Scoreboard aggregation statements get long; span attributes stay bounded.
const tracedQueryLimit = 512

var collapseWhitespace = regexp.MustCompile(`\s+`)

// formatDBQueryForTrace flattens a SQL statement into a single trimmed line
// for the db.statement attribute, truncating past tracedQueryLimit.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	flat := collapseWhitespace.ReplaceAllString(query, " ")
	if len(flat) <= tracedQueryLimit {
		return flat
	}

	return flat[:tracedQueryLimit] + "..."
}
