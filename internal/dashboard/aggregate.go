// Package dashboard computes admin dashboard statistics over an in-memory
// order set. Aggregation performs no I/O and is deterministic for an
// unchanged input.
package dashboard

import (
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/devstudio-hq/orders-backend/internal/orders/domain"
)

const topN = 5

type Stats struct {
	TotalOrders      int             `json:"total_orders"`
	TotalRevenue     float64         `json:"total_revenue"`
	PendingOrders    int             `json:"pending_orders"`
	InProgressOrders int             `json:"in_progress_orders"`
	CompletedOrders  int             `json:"completed_orders"`
	Revenue          []RevenuePoint  `json:"revenue"`
	TopPlans         []PlanCount     `json:"top_plans"`
	TopDomains       []DomainCount   `json:"top_domains"`
	StatusBreakdown  []StatusShare   `json:"status_breakdown"`
}

// RevenuePoint is one calendar day of the revenue series. Date is formatted
// as 2006-01-02 in UTC.
type RevenuePoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type PlanCount struct {
	PlanName string `json:"plan_name"`
	Orders   int    `json:"orders"`
}

type DomainCount struct {
	Domain    string `json:"domain"`
	Customers int    `json:"customers"`
}

type StatusShare struct {
	Status     domain.Status `json:"status"`
	Count      int           `json:"count"`
	Percentage float64       `json:"percentage"`
}

// Range is an inclusive span of calendar days, both bounds at midnight UTC.
type Range struct {
	Start time.Time
	End   time.Time
}

// PresetRange resolves one of the fixed range presets. "all" starts at the
// earliest order's creation day; with no orders it collapses to today.
func PresetRange(preset string, now time.Time, orders []domain.Order) (Range, error) {
	end := dayFloor(now)

	switch preset {
	case "7d":
		return Range{Start: end.AddDate(0, 0, -6), End: end}, nil
	case "30d":
		return Range{Start: end.AddDate(0, 0, -29), End: end}, nil
	case "90d":
		return Range{Start: end.AddDate(0, 0, -89), End: end}, nil
	case "1y":
		return Range{Start: end.AddDate(-1, 0, 1), End: end}, nil
	case "all":
		start := end
		for _, o := range orders {
			d := dayFloor(o.CreatedAt)
			if d.Before(start) {
				start = d
			}
		}
		return Range{Start: start, End: end}, nil
	}
	return Range{}, fmt.Errorf("unknown range preset %q", preset)
}

// CustomRange builds a range from caller-supplied bounds.
func CustomRange(start, end time.Time) (Range, error) {
	s, e := dayFloor(start), dayFloor(end)
	if e.Before(s) {
		return Range{}, fmt.Errorf("range end before start")
	}
	return Range{Start: s, End: e}, nil
}

// Aggregate computes the full stats block. Counts and totals cover every
// order; only the revenue series is limited to the range.
func Aggregate(orders []domain.Order, r Range) Stats {
	stats := Stats{
		Revenue:    revenueSeries(orders, r),
		TopPlans:   topPlans(orders),
		TopDomains: topDomains(orders),
	}

	for _, o := range orders {
		stats.TotalOrders++
		stats.TotalRevenue += priceOf(o)
		switch o.Status {
		case domain.StatusPending:
			stats.PendingOrders++
		case domain.StatusInProgress:
			stats.InProgressOrders++
		case domain.StatusCompleted:
			stats.CompletedOrders++
		}
	}

	stats.StatusBreakdown = statusBreakdown(stats)
	return stats
}

// revenueSeries produces exactly one point per calendar day in the range,
// zero revenue for days with no orders.
func revenueSeries(orders []domain.Order, r Range) []RevenuePoint {
	days := int(r.End.Sub(r.Start).Hours()/24) + 1
	if days < 1 {
		return []RevenuePoint{}
	}

	byDay := make(map[string]float64, days)
	for _, o := range orders {
		day := o.CreatedAt.UTC().Format("2006-01-02")
		byDay[day] += priceOf(o)
	}

	series := make([]RevenuePoint, 0, days)
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		series = append(series, RevenuePoint{Date: key, Revenue: byDay[key]})
	}
	return series
}

func topPlans(orders []domain.Order) []PlanCount {
	counts := make(map[string]int)
	order := make([]string, 0, 8)
	for _, o := range orders {
		if _, seen := counts[o.PlanName]; !seen {
			order = append(order, o.PlanName)
		}
		counts[o.PlanName]++
	}

	out := make([]PlanCount, 0, len(order))
	for _, name := range order {
		out = append(out, PlanCount{PlanName: name, Orders: counts[name]})
	}
	// stable sort keeps first-seen input order on ties, for determinism
	sort.SliceStable(out, func(i, j int) bool { return out[i].Orders > out[j].Orders })

	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

func topDomains(orders []domain.Order) []DomainCount {
	customers := make(map[string]map[string]struct{})
	order := make([]string, 0, 8)
	for _, o := range orders {
		dom := emailDomain(o.UserEmail)
		if dom == "" {
			continue
		}
		if _, seen := customers[dom]; !seen {
			customers[dom] = make(map[string]struct{})
			order = append(order, dom)
		}
		customers[dom][strings.ToLower(o.UserEmail)] = struct{}{}
	}

	out := make([]DomainCount, 0, len(order))
	for _, dom := range order {
		out = append(out, DomainCount{Domain: dom, Customers: len(customers[dom])})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Customers > out[j].Customers })

	if len(out) > topN {
		out = out[:topN]
	}
	return out
}

func statusBreakdown(stats Stats) []StatusShare {
	shares := []StatusShare{
		{Status: domain.StatusPending, Count: stats.PendingOrders},
		{Status: domain.StatusInProgress, Count: stats.InProgressOrders},
		{Status: domain.StatusCompleted, Count: stats.CompletedOrders},
	}
	if stats.TotalOrders == 0 {
		return shares
	}
	for i := range shares {
		shares[i].Percentage = float64(shares[i].Count) / float64(stats.TotalOrders) * 100
	}
	return shares
}

// priceOf guards against malformed numeric prices: a non-finite value
// contributes zero instead of poisoning every total.
func priceOf(o domain.Order) float64 {
	if math.IsNaN(o.Price) || math.IsInf(o.Price, 0) {
		log.Printf("[warn] operation=aggregate order_id=%s message=non-finite price treated as zero", o.ID)
		return 0
	}
	return o.Price
}

func emailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

func dayFloor(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
