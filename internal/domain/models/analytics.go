package models

// TrendPoint is the price summary of one calendar month.
//
// Period is the first day of the month ("YYYY-MM-01"). Count is always >= 1 and
// MinPrice <= AvgPrice <= MaxPrice.
//
// swagger:model TrendPoint
type TrendPoint struct {
	Period   string  `json:"period" example:"2024-03-01"`
	AvgPrice float64 `json:"avg_price" example:"310000"`
	MinPrice float64 `json:"min_price" example:"290000"`
	MaxPrice float64 `json:"max_price" example:"330000"`
	Count    int     `json:"count" example:"2"`
}

// StatsSummary holds aggregate figures over a listing set. Nil fields mean the
// qualifying subset was empty and are encoded as JSON null.
//
// swagger:model StatsSummary
type StatsSummary struct {
	TotalSales int      `json:"total_sales" example:"12"`
	AvgPrice   *float64 `json:"avg_price" example:"315000"`
	MinPrice   *float64 `json:"min_price" example:"240000"`
	MaxPrice   *float64 `json:"max_price" example:"410000"`
	AvgMileage *float64 `json:"avg_mileage" example:"15320"`
	AvgBids    *float64 `json:"avg_bids" example:"28.5"`
}

// AnalyticsSource records where a dashboard's trends and stats came from.
type AnalyticsSource string

const (
	// AnalyticsServer means the data source computed trends and stats.
	AnalyticsServer AnalyticsSource = "server"
	// AnalyticsClient means they were recomputed locally from the listing set.
	AnalyticsClient AnalyticsSource = "client"
)

// Dashboard is the complete view for one model selection and trim filter.
type Dashboard struct {
	Model           VehicleModel    `json:"model"`
	Trim            string          `json:"trim"`
	Trims           []string        `json:"trims"`
	Listings        []Listing       `json:"listings"`
	Stats           StatsSummary    `json:"stats"`
	Trends          []TrendPoint    `json:"trends"`
	AnalyticsSource AnalyticsSource `json:"analytics_source" example:"client"`
	Generation      uint64          `json:"generation" example:"3"`
}
