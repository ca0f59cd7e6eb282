package service

import (
	"context"

	"github.com/guttosm/nfsindex/internal/domain/models"
)

// ListingSource is where models, listings and server-computed analytics come
// from. Implemented by the upstream REST client and the Postgres repository.
type ListingSource interface {
	ListModels(ctx context.Context) ([]models.VehicleModel, error)
	// ListListings returns every listing of the model, most recent sale first.
	ListListings(ctx context.Context, modelID int64) ([]models.Listing, error)
	GetTrends(ctx context.Context, modelID int64) ([]models.TrendPoint, error)
	GetStats(ctx context.Context, modelID int64) (models.StatsSummary, error)
	Ping(ctx context.Context) error
}
