package analytics

import "github.com/guttosm/nfsindex/internal/domain/models"

func price(v float64) *float64 { return &v }

func count(v int64) *int64 { return &v }

func trim(s string) *string { return &s }

func date(s string) *models.Date {
	d := models.MustParseDate(s)
	return &d
}

func sale(p float64, d string) models.Listing {
	return models.Listing{SalePrice: price(p), SaleDate: date(d)}
}
