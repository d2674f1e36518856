package sqlxrepos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/edusurvey/core"
)

// repository is embedded by every sqlx repository.
// A nil db means the datastore is not configured.
type repository struct {
	db *sqlx.DB
}

func (repo repository) conn() (*sqlx.DB, error) {
	if repo.db == nil {
		return nil, core.ErrNotConfigured
	}
	return repo.db, nil
}

func orderBy(orderings []core.DBOrdering, fallback string) string {
	if len(orderings) == 0 {
		return " ORDER BY " + fallback
	}
	clauses := make([]string, 0, len(orderings))
	for _, ord := range orderings {
		clauses = append(clauses, ord.String())
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}

// likePattern escapes LIKE wildcards in a user search.
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(search)) + "%"
}
