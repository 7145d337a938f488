// Package sqlxrepos implements the repositories on PostgreSQL with sqlx.
package sqlxrepos

import (
	"strings"
	"time"

	"github.com/trezcool/gradebook/core"
)

var nowFunc = time.Now // mockable

// orderBy renders an ORDER BY list; orderings must already be filtered on known columns.
func orderBy(ordering []core.DBOrdering, fallback string) string {
	if len(ordering) == 0 {
		return fallback
	}
	parts := make([]string, len(ordering))
	for i, ord := range ordering {
		parts[i] = ord.String()
	}
	return strings.Join(parts, ", ")
}
