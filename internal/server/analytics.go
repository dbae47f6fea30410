package server

import (
	"sort"

	"github.com/adhruv/bms-events/internal/event"
)

// topCategories caps the category breakdown for the dashboard pie chart.
const topCategories = 8

// Analytics summarizes the tracked set for the dashboard.
type Analytics struct {
	Total      int             `json:"total"`
	Upcoming   int             `json:"upcoming"`
	Expired    int             `json:"expired"`
	WithDate   int             `json:"withDate"`
	Cities     int             `json:"cities"`
	ByCity     []CityCount     `json:"byCity"`
	ByCategory []CategoryCount `json:"byCategory"`
}

type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// computeAnalytics aggregates counts over records whose statuses have
// already been recomputed by the caller.
func computeAnalytics(events []event.Event) Analytics {
	a := Analytics{Total: len(events)}

	byCity := make(map[string]int)
	byCategory := make(map[string]int)
	for _, ev := range events {
		switch ev.Status {
		case event.StatusExpired:
			a.Expired++
		default:
			// Today's events still count as upcoming in the summary.
			a.Upcoming++
		}
		if ev.Date != "" {
			a.WithDate++
		}
		if ev.City != "" {
			byCity[ev.City]++
		}
		category := ev.Category
		if category == "" {
			category = "Other"
		}
		byCategory[category]++
	}

	a.Cities = len(byCity)
	for city, count := range byCity {
		a.ByCity = append(a.ByCity, CityCount{City: city, Count: count})
	}
	sort.Slice(a.ByCity, func(i, j int) bool {
		if a.ByCity[i].Count != a.ByCity[j].Count {
			return a.ByCity[i].Count > a.ByCity[j].Count
		}
		return a.ByCity[i].City < a.ByCity[j].City
	})

	for category, count := range byCategory {
		a.ByCategory = append(a.ByCategory, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(a.ByCategory, func(i, j int) bool {
		if a.ByCategory[i].Count != a.ByCategory[j].Count {
			return a.ByCategory[i].Count > a.ByCategory[j].Count
		}
		return a.ByCategory[i].Category < a.ByCategory[j].Category
	})
	if len(a.ByCategory) > topCategories {
		a.ByCategory = a.ByCategory[:topCategories]
	}

	return a
}
