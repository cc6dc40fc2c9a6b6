package store

import (
	"sort"
	"strings"

	"xpdash/internal/model"
)

type Filter string

const (
	FilterAll     Filter = "all"
	FilterDone    Filter = "done"
	FilterNotDone Filter = "not_done"
)

func (f Filter) IsValid() bool {
	switch f {
	case FilterAll, FilterDone, FilterNotDone:
		return true
	default:
		return false
	}
}

type Sort string

const (
	SortDefault         Sort = "default"
	SortXPDesc          Sort = "xp_desc"
	SortXPAsc           Sort = "xp_asc"
	SortAlphabetical    Sort = "alphabetical"
	SortIncompleteFirst Sort = "incomplete_first"
)

func (s Sort) IsValid() bool {
	switch s {
	case SortDefault, SortXPDesc, SortXPAsc, SortAlphabetical, SortIncompleteFirst:
		return true
	default:
		return false
	}
}

// Query selects and orders tasks for display. Queries are pure projections
// and never mutate the store.
type Query struct {
	Filter Filter
	Search string // case-insensitive substring match on the description
	Sort   Sort
}

// List returns the tasks matching the query. The default order is by id,
// which is stable but otherwise arbitrary.
func (s *DayStore) List(q Query) []model.Task {
	if q.Filter == "" {
		q.Filter = FilterAll
	}
	needle := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		switch q.Filter {
		case FilterDone:
			if !t.Done {
				continue
			}
		case FilterNotDone:
			if t.Done {
				continue
			}
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Description), needle) {
			continue
		}
		out = append(out, t)
	}

	switch q.Sort {
	case SortXPDesc:
		sort.Slice(out, func(i, j int) bool { return out[i].XP > out[j].XP })
	case SortXPAsc:
		sort.Slice(out, func(i, j int) bool { return out[i].XP < out[j].XP })
	case SortAlphabetical:
		sort.Slice(out, func(i, j int) bool {
			return strings.ToLower(out[i].Description) < strings.ToLower(out[j].Description)
		})
	case SortIncompleteFirst:
		sort.Slice(out, func(i, j int) bool {
			if out[i].Done != out[j].Done {
				return !out[i].Done
			}
			return strings.ToLower(out[i].Description) < strings.ToLower(out[j].Description)
		})
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	}
	return out
}
