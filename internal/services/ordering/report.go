package ordering

import (
	"sort"

	"pizzeria-system/internal/models"
)

// SalesReport aggregates the delivered-order history.
type SalesReport struct {
	TotalOrders   int            `json:"total_orders"`
	TotalRevenue  float64        `json:"total_revenue"`
	AverageTicket float64        `json:"average_ticket"`
	TopItems      []ItemSales    `json:"top_items"`
	DailyRevenue  []DailyRevenue `json:"daily_revenue"`
}

// ItemSales is one entry of the best-seller ranking.
type ItemSales struct {
	Name     string          `json:"name"`
	Kind     models.ItemKind `json:"kind"`
	Quantity int             `json:"quantity"`
}

// DailyRevenue is the revenue of one calendar day, keyed by the order
// creation date in local time.
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

const topItemsLimit = 5

// SalesReport aggregates over the history only. An empty history yields a
// zero-count report, never a division failure.
func (s *Service) SalesReport() SalesReport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := SalesReport{}
	if len(s.history) == 0 {
		return report
	}

	report.TotalOrders = len(s.history)

	// Rank items by aggregate quantity; ties keep first-encountered order.
	indexByKey := make(map[string]int)
	items := make([]ItemSales, 0)
	dayRevenue := make(map[string]float64)

	for _, order := range s.history {
		value := order.TotalValue(s.catalog)
		report.TotalRevenue += value

		day := order.CreatedAt.Local().Format("2006-01-02")
		dayRevenue[day] += value

		for _, item := range order.Items {
			key := item.Name + "|" + string(item.Kind)
			i, ok := indexByKey[key]
			if !ok {
				i = len(items)
				indexByKey[key] = i
				items = append(items, ItemSales{Name: item.Name, Kind: item.Kind})
			}
			items[i].Quantity += item.Quantity
		}
	}

	report.AverageTicket = report.TotalRevenue / float64(report.TotalOrders)

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Quantity > items[b].Quantity
	})
	if len(items) > topItemsLimit {
		items = items[:topItemsLimit]
	}
	report.TopItems = items

	days := make([]DailyRevenue, 0, len(dayRevenue))
	for day, revenue := range dayRevenue {
		days = append(days, DailyRevenue{Date: day, Revenue: revenue})
	}
	sort.Slice(days, func(a, b int) bool {
		return days[a].Date > days[b].Date
	})
	report.DailyRevenue = days

	return report
}
