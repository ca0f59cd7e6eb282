// Package analytics computes price trends and summary statistics over listing
// sets. Every function here is pure: no I/O and no shared state.
package analytics

import (
	"sort"

	"github.com/guttosm/nfsindex/internal/domain/models"
	"github.com/shopspring/decimal"
)

// periodAccumulator collects the running figures of one month. The sum is
// kept as a decimal so the mean does not depend on the order prices arrive in.
type periodAccumulator struct {
	count int
	sum   decimal.Decimal
	min   float64
	max   float64
}

func (a *periodAccumulator) add(price float64) {
	if a.count == 0 || price < a.min {
		a.min = price
	}
	if a.count == 0 || price > a.max {
		a.max = price
	}
	a.sum = a.sum.Add(decimal.NewFromFloat(price))
	a.count++
}

// Aggregate groups priced, dated listings by calendar month and returns one
// TrendPoint per month sorted ascending by period.
//
// Listings missing SalePrice or SaleDate are skipped. Months without qualifying
// listings are omitted, so the result is sparse. An empty (non-nil) slice means
// there is nothing to chart.
func Aggregate(listings []models.Listing) []models.TrendPoint {
	groups := make(map[string]*periodAccumulator)
	for _, l := range listings {
		if l.SalePrice == nil || l.SaleDate == nil {
			continue
		}
		key := l.SaleDate.MonthKey()
		acc, ok := groups[key]
		if !ok {
			acc = &periodAccumulator{}
			groups[key] = acc
		}
		acc.add(*l.SalePrice)
	}

	out := make([]models.TrendPoint, 0, len(groups))
	for period, acc := range groups {
		out = append(out, models.TrendPoint{
			Period:   period,
			AvgPrice: clamp(mean(acc.sum, acc.count), acc.min, acc.max),
			MinPrice: acc.min,
			MaxPrice: acc.max,
			Count:    acc.count,
		})
	}
	// Keys are zero-padded YYYY-MM-01, so string order is chronological.
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

// mean divides an exact sum by n and rounds once to float64.
func mean(sum decimal.Decimal, n int) float64 {
	return sum.Div(decimal.NewFromInt(int64(n))).InexactFloat64()
}

// clamp keeps a floating point mean within the observed extrema.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
