package ingestion

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/guttosm/nfsindex/internal/domain/models"
	"github.com/guttosm/nfsindex/internal/storage"
)

// defaultTrim is stored for listings scraped without a variant.
const defaultTrim = "STANDARD"

// ScrapedListing is one entry of a scraper JSON export.
type ScrapedListing struct {
	URL          string   `json:"url"`
	Source       string   `json:"source"`
	Title        *string  `json:"title"`
	VIN          *string  `json:"vin"`
	Year         *int     `json:"year"`
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Variant      *string  `json:"variant"`
	Engine       *string  `json:"engine"`
	Transmission *string  `json:"transmission"`
	Mileage      *int64   `json:"mileage"`
	Price        *float64 `json:"price"`
	SaleDate     *string  `json:"sale_date"`
	NumberOfBids *int64   `json:"number_of_bids"`
	Location     *string  `json:"location"`
}

var errMissingURL = errors.New("listing has no url")

// parseFile decodes a scraper export: a JSON array of listings.
//
// It fails on:
//   - unreadable files or malformed JSON
//   - a first listing without make or model
//
// Listings without their own make/model inherit the first listing's, as a
// single export normally covers one model.
func parseFile(path string) ([]ScrapedListing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	var listings []ScrapedListing
	if err := json.NewDecoder(f).Decode(&listings); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(listings) == 0 {
		return listings, nil
	}

	first := listings[0]
	if strings.TrimSpace(first.Make) == "" || strings.TrimSpace(first.Model) == "" {
		return nil, fmt.Errorf("first listing must carry make and model")
	}
	for i := range listings {
		if strings.TrimSpace(listings[i].Make) == "" {
			listings[i].Make = first.Make
		}
		if strings.TrimSpace(listings[i].Model) == "" {
			listings[i].Model = first.Model
		}
	}
	return listings, nil
}

// catalogKey identifies a make/model/trim triple after upper-casing.
type catalogKey struct {
	make, model, trim string
}

// titleTrims are checked in order against a lower-cased listing title when
// the export carries no variant. Bring a Trailer exports rarely have one.
var titleTrims = []struct {
	keywords []string
	trim     string
}{
	{keywords: []string{"722"}, trim: "722 EDITION"},
	{keywords: []string{"roadster"}, trim: "ROADSTER"},
	{keywords: []string{"coupe", "coupé"}, trim: "COUPE"},
	{keywords: []string{"stirling moss"}, trim: "STIRLING MOSS"},
}

// trimFromTitle returns the trim named in title, or "" when none matches.
func trimFromTitle(title string) string {
	lower := strings.ToLower(title)
	for _, t := range titleTrims {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.trim
			}
		}
	}
	return ""
}

// canonicalNames upper-cases the catalog names of l. The trim comes from the
// variant, then from the title, then defaults to defaultTrim.
func canonicalNames(l ScrapedListing) catalogKey {
	trim := defaultTrim
	switch {
	case l.Variant != nil && strings.TrimSpace(*l.Variant) != "":
		trim = strings.ToUpper(strings.TrimSpace(*l.Variant))
	case l.Title != nil:
		if t := trimFromTitle(*l.Title); t != "" {
			trim = t
		}
	}
	return catalogKey{
		make:  strings.ToUpper(strings.TrimSpace(l.Make)),
		model: strings.ToUpper(strings.TrimSpace(l.Model)),
		trim:  trim,
	}
}

// toRecord converts a scraped listing into the stored shape using the
// resolved catalog ids.
func toRecord(l ScrapedListing, makeID, modelID, trimID int64) (models.ListingRecord, error) {
	if strings.TrimSpace(l.URL) == "" {
		return models.ListingRecord{}, errMissingURL
	}

	rec := models.ListingRecord{
		ListingURL:   strings.TrimSpace(l.URL),
		Source:       models.SourceBringATrailer,
		Title:        l.Title,
		VIN:          l.VIN,
		Year:         l.Year,
		MakeID:       makeID,
		ModelID:      modelID,
		TrimID:       trimID,
		Engine:       l.Engine,
		Transmission: l.Transmission,
		Mileage:      l.Mileage,
		NumberOfBids: l.NumberOfBids,
		Location:     l.Location,
	}
	if s := strings.TrimSpace(l.Source); s != "" {
		rec.Source = models.Source(strings.ToLower(s))
	}

	if l.Price != nil {
		if *l.Price < 0 {
			return models.ListingRecord{}, fmt.Errorf("negative price %v", *l.Price)
		}
		cents := storage.UnitsToCents(*l.Price)
		rec.SalePriceCents = &cents
		// A recorded hammer price means the reserve was met.
		if cents > 0 {
			met := true
			rec.ReserveMet = &met
		}
	}

	if l.SaleDate != nil && strings.TrimSpace(*l.SaleDate) != "" {
		d, err := models.ParseDate(*l.SaleDate)
		if err != nil {
			return models.ListingRecord{}, fmt.Errorf("invalid sale_date: %w", err)
		}
		rec.SaleDate = &d
	}

	return rec, nil
}
