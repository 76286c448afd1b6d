package client

import (
	"sort"
	"strings"
)

// SortKey selects the ordering of a derived list view.
type SortKey string

const (
	SortRecent   SortKey = "recent"
	SortTitle    SortKey = "title"
	SortMostWorn SortKey = "most_worn"
)

// ListViewOptions are the current filter and sort selections of a list
// screen.
type ListViewOptions struct {
	Category        string
	Status          string
	Search          string
	Sort            SortKey
	GroupByCategory bool
}

// ListView is the derived state rendered by a list screen.
type ListView struct {
	Items  []Item
	Groups map[string][]Item
}

// DeriveListView recomputes a screen's visible list from the source
// items and the current selections. It is a pure function: equivalent
// inputs always yield the same ordering. Sorting is stable, so items
// with equal keys keep their original relative order.
func DeriveListView(items []Item, opts ListViewOptions) ListView {
	filtered := make([]Item, 0, len(items))
	search := strings.ToLower(opts.Search)

	for _, item := range items {
		if opts.Category != "" && item.Category != opts.Category {
			continue
		}
		if opts.Status != "" && item.Status != opts.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(item.Title), search) {
			continue
		}
		filtered = append(filtered, item)
	}

	switch opts.Sort {
	case SortTitle:
		sort.SliceStable(filtered, func(i, j int) bool {
			return strings.ToLower(filtered[i].Title) < strings.ToLower(filtered[j].Title)
		})
	case SortMostWorn:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].WearCount > filtered[j].WearCount
		})
	case SortRecent:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		})
	}

	view := ListView{Items: filtered}

	if opts.GroupByCategory {
		view.Groups = make(map[string][]Item)
		for _, item := range filtered {
			view.Groups[item.Category] = append(view.Groups[item.Category], item)
		}
	}

	return view
}
