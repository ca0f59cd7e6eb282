package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/nfsindex/internal/domain/models"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }
func str(s string) *string   { return &s }

func day(t *testing.T, s string) *models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func sampleDashboard(t *testing.T) *models.Dashboard {
	return &models.Dashboard{
		Model:           models.VehicleModel{ID: 1, Name: "SLR MCLAREN", MakeName: "MERCEDES-BENZ"},
		Trims:           []string{"722 EDITION", "ROADSTER"},
		AnalyticsSource: models.AnalyticsServer,
		Listings: []models.Listing{
			{ID: 1, Year: 2005, Trim: str("ROADSTER"), SalePrice: f64(325000), SaleDate: day(t, "2024-03-15"), Mileage: i64(12500), NumberOfBids: i64(37), Source: models.SourceBringATrailer},
			{ID: 2, Year: 2006, Source: models.SourceCarsAndBids},
		},
		Stats: models.StatsSummary{
			TotalSales: 1,
			AvgPrice:   f64(325000),
			MinPrice:   f64(325000),
			MaxPrice:   f64(325000),
			AvgMileage: f64(12500),
			AvgBids:    f64(37),
		},
		Trends: []models.TrendPoint{
			{Period: "2024-03-01", AvgPrice: 325000, MinPrice: 325000, MaxPrice: 325000, Count: 1},
		},
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, Options{}).Render(sampleDashboard(t)))
	out := buf.String()

	for _, want := range []string{
		"MERCEDES-BENZ SLR MCLAREN",
		"Analytics: server",
		"722 EDITION, ROADSTER",
		"$325,000",
		"12,500 mi",
		"37.0",
		"2024-03",
		"Listings (2)",
		"2024-03-15",
		"ROADSTER",
		"BaT",
		"C&B",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "\x1b[", "colors must be off")
}

func TestRender_EmptyDashboard(t *testing.T) {
	var buf bytes.Buffer
	d := &models.Dashboard{
		Model:           models.VehicleModel{ID: 2, Name: "CARRERA GT"},
		Trim:            "COUPE",
		AnalyticsSource: models.AnalyticsClient,
	}
	require.NoError(t, NewRenderer(&buf, Options{}).Render(d))
	out := buf.String()

	assert.Contains(t, out, "CARRERA GT / COUPE")
	assert.Contains(t, out, "no priced sales")
	assert.Contains(t, out, "no listings")
	assert.Contains(t, out, placeholder)
}

func TestRender_MaxListings(t *testing.T) {
	d := sampleDashboard(t)
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf, Options{MaxListings: 1}).Render(d))
	out := buf.String()

	assert.Contains(t, out, "... 1 more")
	assert.False(t, strings.Contains(out, "C&B"), "hidden listing rendered")
}

func TestRender_Nil(t *testing.T) {
	assert.Error(t, NewRenderer(&bytes.Buffer{}, Options{}).Render(nil))
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"price", price(f64(1234567.6)), "$1,234,568"},
		{"price nil", price(nil), placeholder},
		{"mileage", mileage(f64(15320.4)), "15,320 mi"},
		{"decimal", decimal(f64(28.55)), "28.6"},
		{"count", count(i64(1200)), "1,200"},
		{"count nil", count(nil), placeholder},
		{"empty text", orPlaceholder(""), placeholder},
		{"text", orPlaceholder("COUPE"), "COUPE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Fatalf("got %q want %q", tt.got, tt.want)
			}
		})
	}
}
