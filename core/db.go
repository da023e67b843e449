package core

import "strings"

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

// FilterOrderings drops orderings on fields that are not in allowed.
func FilterOrderings(ords []DBOrdering, allowed ...string) []DBOrdering {
	out := make([]DBOrdering, 0, len(ords))
	for _, ord := range ords {
		if StringInSlice(ord.Field, allowed) {
			out = append(out, ord)
		}
	}
	return out
}

// OrderByClause renders orderings as a SQL ORDER BY clause, or fallback when empty.
func OrderByClause(ords []DBOrdering, fallback string) string {
	if len(ords) == 0 {
		return " ORDER BY " + fallback
	}
	parts := make([]string, 0, len(ords))
	for _, ord := range ords {
		parts = append(parts, ord.String())
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
