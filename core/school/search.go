package school

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/edusurvey/core"
)

// RankByName sorts records by how close their name is to the query, closest first.
// Ties keep the directory order.
func RankByName(records []Record, query string) []Record {
	q := strings.Split(core.StripSpaces(query, true /* lower */), "")
	scores := make([]float64, len(records))
	for i, rec := range records {
		name := strings.Split(core.StripSpaces(rec.Name, true /* lower */), "")
		scores[i] = difflib.NewMatcher(q, name).Ratio()
	}

	idx := make([]int, len(records))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return scores[idx[i]] > scores[idx[j]] })

	ranked := make([]Record, len(records))
	for i, k := range idx {
		ranked[i] = records[k]
	}
	return ranked
}
