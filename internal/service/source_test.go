package service

import (
	"context"
	"errors"
	"sync"

	"github.com/guttosm/nfsindex/internal/domain/models"
)

// stubSource is an in-memory ListingSource. block, when set for a model id,
// makes ListListings wait until the channel is closed or ctx is done.
type stubSource struct {
	mu        sync.Mutex
	models    []models.VehicleModel
	listings  map[int64][]models.Listing
	trends    map[int64][]models.TrendPoint
	stats     map[int64]models.StatsSummary
	block     map[int64]chan struct{}
	modelsErr error
	listErr   error
	trendsErr error
	statsErr  error
	pingErr   error
	calls     map[string]int
}

var _ ListingSource = (*stubSource)(nil)

func (s *stubSource) count(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = map[string]int{}
	}
	s.calls[name]++
}

func (s *stubSource) called(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubSource) ListModels(_ context.Context) ([]models.VehicleModel, error) {
	s.count("models")
	return s.models, s.modelsErr
}

func (s *stubSource) ListListings(ctx context.Context, modelID int64) ([]models.Listing, error) {
	s.count("listings")
	s.mu.Lock()
	ch := s.block[modelID]
	s.mu.Unlock()
	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.listings[modelID], nil
}

func (s *stubSource) GetTrends(_ context.Context, modelID int64) ([]models.TrendPoint, error) {
	s.count("trends")
	if s.trendsErr != nil {
		return nil, s.trendsErr
	}
	return s.trends[modelID], nil
}

func (s *stubSource) GetStats(_ context.Context, modelID int64) (models.StatsSummary, error) {
	s.count("stats")
	if s.statsErr != nil {
		return models.StatsSummary{}, s.statsErr
	}
	return s.stats[modelID], nil
}

func (s *stubSource) Ping(_ context.Context) error { return s.pingErr }

var errBoom = errors.New("boom")

func f64(v float64) *float64 { return &v }

func str(s string) *string { return &s }

func day(s string) *models.Date {
	d := models.MustParseDate(s)
	return &d
}

// fixtureSource has two models; model 1 carries two trims and server
// analytics that deliberately differ from local recomputation so tests can
// tell which path produced a value.
func fixtureSource() *stubSource {
	return &stubSource{
		models: []models.VehicleModel{
			{ID: 1, Name: "SLR McLaren", MakeName: "Mercedes-Benz"},
			{ID: 2, Name: "Gallardo", MakeName: "Lamborghini"},
		},
		listings: map[int64][]models.Listing{
			1: {
				{ID: 10, Trim: str("Roadster"), SalePrice: f64(400000), SaleDate: day("2022-04-10")},
				{ID: 11, Trim: str("Coupe"), SalePrice: f64(300000), SaleDate: day("2022-04-20")},
				{ID: 12, Trim: str("Roadster"), SalePrice: f64(500000), SaleDate: day("2022-05-02")},
			},
			2: {
				{ID: 20, SalePrice: f64(150000), SaleDate: day("2021-01-01")},
			},
		},
		trends: map[int64][]models.TrendPoint{
			1: {{Period: "2000-01-01", AvgPrice: 1, MinPrice: 1, MaxPrice: 1, Count: 1}},
		},
		stats: map[int64]models.StatsSummary{
			1: {TotalSales: 99},
		},
	}
}
