package grocery

import (
	"sort"

	"github.com/mesh-intelligence/nutrio/internal/nutrition"
)

// Row is a Line decorated with its view state.
type Row struct {
	Line
	AmountLabel string
	Checked     bool
	InPantry    bool
	Expanded    bool
}

// CategoryGroup is the non-empty set of rows classified into one category.
type CategoryGroup struct {
	ID    string
	Label string
	Rows  []Row
}

// ViewState holds the per-line flags applied when grouping. Nil maps are
// treated as empty.
type ViewState struct {
	Checked  map[string]bool
	Pantry   map[string]bool
	Expanded map[string]bool
}

// Group classifies lines into categories in category order, omitting empty
// categories. Within a category, rows that are neither checked nor in the
// pantry come first, then checked rows, then pantry rows; ties are broken
// alphabetically by name.
func Group(lines []Line, view ViewState) []CategoryGroup {
	buckets := make(map[string][]Row)
	for _, l := range lines {
		cat := Classify(l.Name)
		buckets[cat.ID] = append(buckets[cat.ID], Row{
			Line:        l,
			AmountLabel: nutrition.FormatAmount(l.Amount) + " " + string(l.Unit),
			Checked:     view.Checked[l.ID],
			InPantry:    view.Pantry[l.ID],
			Expanded:    view.Expanded[l.ID],
		})
	}

	c := newCollator()
	var groups []CategoryGroup
	for _, cat := range categories {
		rows := buckets[cat.ID]
		if len(rows) == 0 {
			continue
		}
		sort.SliceStable(rows, func(i, j int) bool {
			ri, rj := rank(rows[i]), rank(rows[j])
			if ri != rj {
				return ri < rj
			}
			return c.CompareString(rows[i].Name, rows[j].Name) < 0
		})
		groups = append(groups, CategoryGroup{ID: cat.ID, Label: cat.Label, Rows: rows})
	}
	return groups
}

func rank(r Row) int {
	switch {
	case r.InPantry:
		return 2
	case r.Checked:
		return 1
	default:
		return 0
	}
}
