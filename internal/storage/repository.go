package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/guttosm/nfsindex/internal/domain/models"
	pq "github.com/lib/pq"
)

// ListingsRepository defines contract for DB operations.
//
// The read side serves dashboards when DATA_SOURCE=postgres; the write side is
// used by ingestion.
type ListingsRepository interface {
	ListModels(ctx context.Context) ([]models.VehicleModel, error)
	ListListings(ctx context.Context, modelID int64) ([]models.Listing, error)
	GetTrends(ctx context.Context, modelID int64) ([]models.TrendPoint, error)
	GetStats(ctx context.Context, modelID int64) (models.StatsSummary, error)
	Ping(ctx context.Context) error

	EnsureMake(ctx context.Context, name string) (int64, error)
	EnsureModel(ctx context.Context, makeID int64, name string) (int64, error)
	EnsureTrim(ctx context.Context, modelID int64, name string) (int64, error)
	UpsertListings(ctx context.Context, records []models.ListingRecord) (inserted, updated int, err error)
	HasIngestionForFile(ctx context.Context, filename string) (bool, error)
	UpsertIngestionLog(ctx context.Context, filename string, rowCount int) error
}

type listingsRepository struct {
	db *sql.DB
}

func NewListingsRepository(db *sql.DB) ListingsRepository {
	return &listingsRepository{db: db}
}

const listingColumns = `
	SELECT l.id, l.listing_url, l.source, mk.name, md.name,
	       l.year, t.name, l.sale_price, l.sale_date, l.mileage,
	       l.number_of_bids, l.location, l.reserve_met
	FROM listings l
	LEFT JOIN makes mk ON l.make_id = mk.id
	LEFT JOIN models md ON l.model_id = md.id
	LEFT JOIN trims t ON l.trim_id = t.id
	WHERE l.model_id = $1
	ORDER BY l.sale_date DESC NULLS LAST, l.id DESC`

// ListModels returns every model ordered by make and model name.
func (r *listingsRepository) ListModels(ctx context.Context) ([]models.VehicleModel, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.id, m.name, mk.name
		FROM models m
		JOIN makes mk ON m.make_id = mk.id
		ORDER BY mk.name, m.name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.VehicleModel{}
	for rows.Next() {
		var m models.VehicleModel
		if err := rows.Scan(&m.ID, &m.Name, &m.MakeName); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListListings returns all listings of a model, most recent sale first.
func (r *listingsRepository) ListListings(ctx context.Context, modelID int64) ([]models.Listing, error) {
	return r.queryListings(ctx, listingColumns, modelID)
}

func (r *listingsRepository) queryListings(ctx context.Context, query string, args ...any) ([]models.Listing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.Listing{}
	for rows.Next() {
		var (
			l          models.Listing
			source     string
			makeName   sql.NullString
			modelName  sql.NullString
			year       sql.NullInt64
			trim       sql.NullString
			priceCents sql.NullInt64
			saleDate   sql.NullTime
			mileage    sql.NullInt64
			bids       sql.NullInt64
			location   sql.NullString
			reserveMet sql.NullBool
		)
		if err := rows.Scan(&l.ID, &l.ListingURL, &source, &makeName, &modelName,
			&year, &trim, &priceCents, &saleDate, &mileage,
			&bids, &location, &reserveMet); err != nil {
			return nil, err
		}

		l.Source = models.Source(source)
		l.Make = makeName.String
		l.Model = modelName.String
		l.Year = int(year.Int64)
		l.Trim = nullString(trim)
		l.SalePrice = centsToUnits(priceCents)
		if saleDate.Valid {
			d := models.NewDate(saleDate.Time.Year(), saleDate.Time.Month(), saleDate.Time.Day())
			l.SaleDate = &d
		}
		l.Mileage = nullInt(mileage)
		l.NumberOfBids = nullInt(bids)
		l.Location = nullString(location)
		if reserveMet.Valid {
			v := reserveMet.Bool
			l.ReserveMet = &v
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// GetTrends returns monthly price aggregates for a model. Listings lacking a
// price or a sale date are excluded, as in local aggregation.
func (r *listingsRepository) GetTrends(ctx context.Context, modelID int64) ([]models.TrendPoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			to_char(date_trunc('month', sale_date), 'YYYY-MM-DD') AS period,
			AVG(sale_price) AS avg_price,
			MIN(sale_price) AS min_price,
			MAX(sale_price) AS max_price,
			COUNT(*) AS count
		FROM listings
		WHERE model_id = $1 AND sale_price IS NOT NULL AND sale_date IS NOT NULL
		GROUP BY period
		ORDER BY period`, modelID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := []models.TrendPoint{}
	for rows.Next() {
		var (
			p      models.TrendPoint
			avg    sql.NullString
			lo, hi sql.NullInt64
		)
		if err := rows.Scan(&p.Period, &avg, &lo, &hi, &p.Count); err != nil {
			return nil, err
		}
		avgUnits, err := numericCentsToUnits(avg)
		if err != nil {
			return nil, fmt.Errorf("trend %s: %w", p.Period, err)
		}
		if avgUnits == nil || !lo.Valid || !hi.Valid {
			continue
		}
		p.AvgPrice = *avgUnits
		p.MinPrice = *centsToUnits(lo)
		p.MaxPrice = *centsToUnits(hi)
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetStats returns summary statistics over the priced listings of a model.
// AVG ignores NULLs, so mileage and bids average only the listings carrying them.
func (r *listingsRepository) GetStats(ctx context.Context, modelID int64) (models.StatsSummary, error) {
	var (
		s                    models.StatsSummary
		avgPrice, avgMileage sql.NullString
		avgBids              sql.NullString
		minPrice, maxPrice   sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) AS total_sales,
			AVG(sale_price) AS avg_price,
			MIN(sale_price) AS min_price,
			MAX(sale_price) AS max_price,
			AVG(mileage) AS avg_mileage,
			AVG(number_of_bids) AS avg_bids
		FROM listings
		WHERE model_id = $1 AND sale_price IS NOT NULL`, modelID).
		Scan(&s.TotalSales, &avgPrice, &minPrice, &maxPrice, &avgMileage, &avgBids)
	if err != nil {
		return models.StatsSummary{}, err
	}

	if s.AvgPrice, err = numericCentsToUnits(avgPrice); err != nil {
		return models.StatsSummary{}, err
	}
	s.MinPrice = centsToUnits(minPrice)
	s.MaxPrice = centsToUnits(maxPrice)
	if s.AvgMileage, err = numericToFloat(avgMileage); err != nil {
		return models.StatsSummary{}, err
	}
	if s.AvgBids, err = numericToFloat(avgBids); err != nil {
		return models.StatsSummary{}, err
	}
	return s, nil
}

func (r *listingsRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// EnsureMake returns the id of the make, creating it when missing.
func (r *listingsRepository) EnsureMake(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO makes (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, name).Scan(&id)
	return id, err
}

// EnsureModel returns the id of the model under makeID, creating it when missing.
func (r *listingsRepository) EnsureModel(ctx context.Context, makeID int64, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO models (make_id, name) VALUES ($1, $2)
		ON CONFLICT (make_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, makeID, name).Scan(&id)
	return id, err
}

// EnsureTrim returns the id of the trim under modelID, creating it when missing.
func (r *listingsRepository) EnsureTrim(ctx context.Context, modelID int64, name string) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO trims (model_id, name) VALUES ($1, $2)
		ON CONFLICT (model_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, modelID, name).Scan(&id)
	return id, err
}

const createStaging = `
	CREATE TEMP TABLE listings_staging (
		listing_url    TEXT,
		source         TEXT,
		title          TEXT,
		vin            TEXT,
		year           INTEGER,
		make_id        INTEGER,
		model_id       INTEGER,
		trim_id        INTEGER,
		engine         TEXT,
		transmission   TEXT,
		mileage        BIGINT,
		sale_price     BIGINT,
		sale_date      DATE,
		reserve_met    BOOLEAN,
		number_of_bids INTEGER,
		location       TEXT
	) ON COMMIT DROP`

const mergeStaging = `
	INSERT INTO listings (
		listing_url, source, title, vin, year, make_id, model_id, trim_id,
		engine, transmission, mileage, sale_price, sale_date, reserve_met,
		number_of_bids, location
	)
	SELECT DISTINCT ON (listing_url)
		listing_url, source, title, vin, year, make_id, model_id, trim_id,
		engine, transmission, mileage, sale_price, sale_date, reserve_met,
		number_of_bids, location
	FROM listings_staging
	ORDER BY listing_url
	ON CONFLICT (listing_url) DO UPDATE SET
		source = EXCLUDED.source,
		title = EXCLUDED.title,
		vin = EXCLUDED.vin,
		year = EXCLUDED.year,
		make_id = EXCLUDED.make_id,
		model_id = EXCLUDED.model_id,
		trim_id = EXCLUDED.trim_id,
		engine = EXCLUDED.engine,
		transmission = EXCLUDED.transmission,
		mileage = EXCLUDED.mileage,
		sale_price = EXCLUDED.sale_price,
		sale_date = EXCLUDED.sale_date,
		reserve_met = EXCLUDED.reserve_met,
		number_of_bids = EXCLUDED.number_of_bids,
		location = EXCLUDED.location,
		updated_at = NOW()
	RETURNING (xmax = 0) AS inserted`

// UpsertListings copies records into a staging table and merges them into
// listings keyed by listing URL, all in one transaction. It reports how many
// rows were inserted and how many existing rows were updated.
func (r *listingsRepository) UpsertListings(ctx context.Context, records []models.ListingRecord) (inserted, updated int, err error) {
	if len(records) == 0 {
		return 0, 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, createStaging); err != nil {
		return 0, 0, err
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"listings_staging",
		"listing_url",
		"source",
		"title",
		"vin",
		"year",
		"make_id",
		"model_id",
		"trim_id",
		"engine",
		"transmission",
		"mileage",
		"sale_price",
		"sale_date",
		"reserve_met",
		"number_of_bids",
		"location",
	))
	if err != nil {
		return 0, 0, err
	}

	for _, rec := range records {
		if _, err = stmt.ExecContext(ctx,
			rec.ListingURL,
			string(rec.Source),
			nullable(rec.Title),
			nullable(rec.VIN),
			nullable(rec.Year),
			rec.MakeID,
			rec.ModelID,
			rec.TrimID,
			nullable(rec.Engine),
			nullable(rec.Transmission),
			nullable(rec.Mileage),
			nullable(rec.SalePriceCents),
			dateValue(rec.SaleDate),
			nullable(rec.ReserveMet),
			nullable(rec.NumberOfBids),
			nullable(rec.Location),
		); err != nil {
			_ = stmt.Close()
			return 0, 0, err
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return 0, 0, err
	}
	if err = stmt.Close(); err != nil {
		return 0, 0, err
	}

	rows, err := tx.QueryContext(ctx, mergeStaging)
	if err != nil {
		return 0, 0, err
	}
	for rows.Next() {
		var isNew bool
		if err = rows.Scan(&isNew); err != nil {
			_ = rows.Close()
			return 0, 0, err
		}
		if isNew {
			inserted++
		} else {
			updated++
		}
	}
	if err = rows.Err(); err != nil {
		_ = rows.Close()
		return 0, 0, err
	}
	if err = rows.Close(); err != nil {
		return 0, 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, err
	}
	return inserted, updated, nil
}

// HasIngestionForFile checks if a scraped export was already ingested.
func (r *listingsRepository) HasIngestionForFile(ctx context.Context, filename string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM ingestion_log WHERE filename = $1)`, filename).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// UpsertIngestionLog records (or updates) an ingestion entry for a file.
func (r *listingsRepository) UpsertIngestionLog(ctx context.Context, filename string, rowCount int) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ingestion_log (filename, row_count)
		VALUES ($1, $2)
		ON CONFLICT (filename)
		DO UPDATE SET row_count = EXCLUDED.row_count,
					  ingested_at = NOW()
	`, filename, rowCount)
	return err
}

// nullable maps nil pointers to NULL.
func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func dateValue(d *models.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func nullInt(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
