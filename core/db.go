package core

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// CleanOrderings drops every ordering whose field is not in `allowed`.
func CleanOrderings(orderings []DBOrdering, allowed ...string) []DBOrdering {
	known := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		known[f] = struct{}{}
	}
	cleaned := make([]DBOrdering, 0, len(orderings))
	for _, ord := range orderings {
		if _, ok := known[ord.Field]; ok {
			cleaned = append(cleaned, ord)
		}
	}
	return cleaned
}
