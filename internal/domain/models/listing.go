package models

// Source identifies the marketplace a listing was sold on.
type Source string

const (
	SourceBringATrailer Source = "bringatrailer"
	SourceCarsAndBids   Source = "carsandbids"
)

// Valid reports whether s is one of the known marketplaces.
func (s Source) Valid() bool {
	switch s {
	case SourceBringATrailer, SourceCarsAndBids:
		return true
	default:
		return false
	}
}

// Label returns the short display label used in listing tables.
func (s Source) Label() string {
	switch s {
	case SourceBringATrailer:
		return "BaT"
	case SourceCarsAndBids:
		return "C&B"
	default:
		return string(s)
	}
}

// Listing represents one recorded auction sale of a vehicle.
//
// Optional fields are pointers: a nil SalePrice or SaleDate excludes the listing
// from trend aggregation, and nil Mileage/NumberOfBids exclude it from the
// corresponding averages.
//
// swagger:model Listing
type Listing struct {
	ID           int64    `json:"id" example:"42"`
	Year         int      `json:"year" example:"2005"`
	Make         string   `json:"make,omitempty" example:"MERCEDES-BENZ"`
	Model        string   `json:"model,omitempty" example:"SLR MCLAREN"`
	Trim         *string  `json:"trim" example:"ROADSTER"`
	SalePrice    *float64 `json:"sale_price" example:"325000"`
	SaleDate     *Date    `json:"sale_date" swaggertype:"string" example:"2024-03-15"`
	Mileage      *int64   `json:"mileage" example:"12500"`
	NumberOfBids *int64   `json:"number_of_bids" example:"37"`
	Location     *string  `json:"location,omitempty"`
	ReserveMet   *bool    `json:"reserve_met,omitempty"`
	Source       Source   `json:"source" example:"bringatrailer"`
	ListingURL   string   `json:"listing_url" example:"https://bringatrailer.com/listing/2005-mercedes-benz-slr-mclaren/"`
}

// TrimName returns the listing trim or "" when absent.
func (l Listing) TrimName() string {
	if l.Trim == nil {
		return ""
	}
	return *l.Trim
}

// VehicleModel is a selectable make/model pair.
//
// swagger:model VehicleModel
type VehicleModel struct {
	ID       int64  `json:"id" example:"1"`
	Name     string `json:"name" example:"SLR McLaren"`
	MakeName string `json:"make_name" example:"Mercedes-Benz"`
}

// DisplayName joins make and model the way the model selector shows them.
func (m VehicleModel) DisplayName() string {
	if m.MakeName == "" {
		return m.Name
	}
	return m.MakeName + " " + m.Name
}

// ListingRecord is the write model of a listing as stored by ingestion.
// SalePriceCents keeps money in integer cents.
type ListingRecord struct {
	ListingURL     string
	Source         Source
	Title          *string
	VIN            *string
	Year           *int
	MakeID         int64
	ModelID        int64
	TrimID         int64
	Engine         *string
	Transmission   *string
	Mileage        *int64
	SalePriceCents *int64
	SaleDate       *Date
	ReserveMet     *bool
	NumberOfBids   *int64
	Location       *string
}
