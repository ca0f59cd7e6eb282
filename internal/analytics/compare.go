package analytics

import (
	"math"

	"github.com/guttosm/nfsindex/internal/domain/models"
)

// Tolerance bounds the absolute difference accepted when comparing
// server-computed analytics against local recomputation.
type Tolerance struct {
	Price   float64
	Mileage float64
	Bids    float64
}

// DefaultTolerance absorbs cent rounding on prices and the integer truncation
// the listings backend applies to average mileage.
var DefaultTolerance = Tolerance{Price: 0.01, Mileage: 1, Bids: 1e-6}

// EquivalentTrends reports whether a and b describe the same periods with the
// same counts and prices within tol.
func EquivalentTrends(a, b []models.TrendPoint, tol Tolerance) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Period != b[i].Period || a[i].Count != b[i].Count {
			return false
		}
		if !within(a[i].AvgPrice, b[i].AvgPrice, tol.Price) ||
			!within(a[i].MinPrice, b[i].MinPrice, tol.Price) ||
			!within(a[i].MaxPrice, b[i].MaxPrice, tol.Price) {
			return false
		}
	}
	return true
}

// EquivalentStats reports whether two summaries agree within tol. A nil field
// only matches another nil field.
func EquivalentStats(a, b models.StatsSummary, tol Tolerance) bool {
	return a.TotalSales == b.TotalSales &&
		optionalWithin(a.AvgPrice, b.AvgPrice, tol.Price) &&
		optionalWithin(a.MinPrice, b.MinPrice, tol.Price) &&
		optionalWithin(a.MaxPrice, b.MaxPrice, tol.Price) &&
		optionalWithin(a.AvgMileage, b.AvgMileage, tol.Mileage) &&
		optionalWithin(a.AvgBids, b.AvgBids, tol.Bids)
}

func within(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func optionalWithin(a, b *float64, tol float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return within(*a, *b, tol)
}
