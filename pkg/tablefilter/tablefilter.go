package tablefilter

import (
	"slices"

	"github.com/dmitrymomot/consolekit/pkg/k8s"
)

// Object bucket phases shown in the status filter group.
const (
	PhasePending = "Pending"
	PhaseBound   = "Bound"
	PhaseLost    = "Lost"
)

// Filter types.
const (
	TypeOBCStatus = "obc-status"
	TypeOBStatus  = "ob-status"
)

// AllPhases lists the phases offered by the status filters, in display order.
var AllPhases = []string{PhasePending, PhaseBound, PhaseLost}

// Item is one selectable entry of a filter group.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Selection is the user's choice for one filter group. All holds every
// value the toolbar knows about; values outside it are never hidden.
type Selection struct {
	Selected map[string]struct{}
	All      []string
}

// NewSelection builds a selection over all known values.
func NewSelection(all []string, selected ...string) *Selection {
	s := &Selection{
		Selected: make(map[string]struct{}, len(selected)),
		All:      all,
	}
	for _, v := range selected {
		s.Selected[v] = struct{}{}
	}
	return s
}

// Has reports whether v is selected.
func (s *Selection) Has(v string) bool {
	_, ok := s.Selected[v]
	return ok
}

// RowFilter describes a filter group of a list view.
type RowFilter struct {
	Type      string
	GroupName string
	Items     []Item
	// Reducer extracts the value the filter groups rows by.
	Reducer func(obj k8s.Resource) string
	// Filter reports whether obj stays visible under sel.
	Filter func(sel *Selection, obj k8s.Resource) bool
}

// Phase returns the object's status.phase.
func Phase(obj k8s.Resource) string {
	return obj.Phase()
}

// OBCStatusFilter filters object bucket claims by phase.
func OBCStatusFilter() RowFilter {
	return phaseFilter(TypeOBCStatus)
}

// OBStatusFilter filters object buckets by phase.
func OBStatusFilter() RowFilter {
	return phaseFilter(TypeOBStatus)
}

func phaseFilter(typ string) RowFilter {
	items := make([]Item, 0, len(AllPhases))
	for _, p := range AllPhases {
		items = append(items, Item{ID: p, Title: p})
	}
	return RowFilter{
		Type:      typ,
		GroupName: "Status",
		Items:     items,
		Reducer:   Phase,
		Filter:    filterByPhase,
	}
}

func filterByPhase(sel *Selection, obj k8s.Resource) bool {
	if sel == nil || sel.Selected == nil {
		return true
	}
	phase := Phase(obj)
	return sel.Has(phase) || !slices.Contains(sel.All, phase) || len(sel.Selected) == 0
}

// Apply returns the objects visible under every filter. selections is keyed
// by filter type; a filter without a selection keeps every row.
func Apply(filters []RowFilter, selections map[string]*Selection, objs []k8s.Resource) []k8s.Resource {
	out := make([]k8s.Resource, 0, len(objs))
	for _, obj := range objs {
		if visible(filters, selections, obj) {
			out = append(out, obj)
		}
	}
	return out
}

func visible(filters []RowFilter, selections map[string]*Selection, obj k8s.Resource) bool {
	for _, f := range filters {
		if f.Filter != nil && !f.Filter(selections[f.Type], obj) {
			return false
		}
	}
	return true
}

// Counts groups objects by the filter's reducer, for the badge next to
// each item.
func Counts(f RowFilter, objs []k8s.Resource) map[string]int {
	counts := make(map[string]int, len(f.Items))
	if f.Reducer == nil {
		return counts
	}
	for _, obj := range objs {
		counts[f.Reducer(obj)]++
	}
	return counts
}
