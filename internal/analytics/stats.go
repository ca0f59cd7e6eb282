package analytics

import (
	"github.com/guttosm/nfsindex/internal/domain/models"
	"github.com/shopspring/decimal"
)

// Summarize computes total/avg/min/max price over listings with a sale price.
// AvgMileage and AvgBids only consider priced listings that also carry the
// respective field and are nil when that subset is empty.
func Summarize(listings []models.Listing) models.StatsSummary {
	var (
		summary      models.StatsSummary
		priceSum     decimal.Decimal
		minPrice     float64
		maxPrice     float64
		mileageSum   int64
		mileageCount int
		bidsSum      int64
		bidsCount    int
	)

	for _, l := range listings {
		if l.SalePrice == nil {
			continue
		}
		p := *l.SalePrice
		if summary.TotalSales == 0 || p < minPrice {
			minPrice = p
		}
		if summary.TotalSales == 0 || p > maxPrice {
			maxPrice = p
		}
		priceSum = priceSum.Add(decimal.NewFromFloat(p))
		summary.TotalSales++

		if l.Mileage != nil {
			mileageSum += *l.Mileage
			mileageCount++
		}
		if l.NumberOfBids != nil {
			bidsSum += *l.NumberOfBids
			bidsCount++
		}
	}

	if summary.TotalSales == 0 {
		return summary
	}

	avg := clamp(mean(priceSum, summary.TotalSales), minPrice, maxPrice)
	summary.AvgPrice = &avg
	summary.MinPrice = &minPrice
	summary.MaxPrice = &maxPrice

	if mileageCount > 0 {
		v := float64(mileageSum) / float64(mileageCount)
		summary.AvgMileage = &v
	}
	if bidsCount > 0 {
		v := float64(bidsSum) / float64(bidsCount)
		summary.AvgBids = &v
	}
	return summary
}
