package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/nfsindex/config"
	"github.com/guttosm/nfsindex/internal/analytics"
	"github.com/guttosm/nfsindex/internal/domain/models"
	"github.com/guttosm/nfsindex/internal/logger"
	"github.com/guttosm/nfsindex/internal/metrics"
)

// DashboardService builds dashboard views over a ListingSource.
// This decouples HTTP handlers and sessions from data access.
type DashboardService interface {
	Models(ctx context.Context) ([]models.VehicleModel, error)
	Model(ctx context.Context, modelID int64) (models.VehicleModel, error)
	Listings(ctx context.Context, modelID int64, trim string) ([]models.Listing, error)
	Trends(ctx context.Context, modelID int64, trim string) ([]models.TrendPoint, models.AnalyticsSource, error)
	Stats(ctx context.Context, modelID int64, trim string) (models.StatsSummary, models.AnalyticsSource, error)
	// Load fetches everything a model selection needs in one round.
	Load(ctx context.Context, modelID int64) (*Snapshot, error)
	// Build derives the view of a snapshot under a trim filter. It does no I/O.
	Build(snap *Snapshot, trim string) models.Dashboard
	Dashboard(ctx context.Context, modelID int64, trim string) (*models.Dashboard, error)
	Ready(ctx context.Context) error
}

// Snapshot is the immutable result of loading one model: its listings plus
// the source's own analytics when they were requested and available.
type Snapshot struct {
	Model        models.VehicleModel
	Listings     []models.Listing
	ServerTrends []models.TrendPoint  // nil when not fetched or failed
	ServerStats  *models.StatsSummary // nil when not fetched or failed
}

type dashboardService struct {
	source ListingSource
	mode   string
	log    zerolog.Logger
}

// NewDashboardService wires a DashboardService. mode is config.AnalyticsAuto or
// config.AnalyticsClient.
func NewDashboardService(source ListingSource, mode string) DashboardService {
	if mode != config.AnalyticsClient {
		mode = config.AnalyticsAuto
	}
	return &dashboardService{source: source, mode: mode, log: logger.Component("dashboard")}
}

// useServer reports whether server analytics apply to a view under trim.
// The source only computes analytics over the whole model.
func (s *dashboardService) useServer(trim string) bool {
	return s.mode == config.AnalyticsAuto && trim == ""
}

func (s *dashboardService) Models(ctx context.Context) ([]models.VehicleModel, error) {
	out, err := s.source.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	return out, nil
}

func (s *dashboardService) Model(ctx context.Context, modelID int64) (models.VehicleModel, error) {
	all, err := s.Models(ctx)
	if err != nil {
		return models.VehicleModel{}, err
	}
	for _, m := range all {
		if m.ID == modelID {
			return m, nil
		}
	}
	return models.VehicleModel{}, fmt.Errorf("model %d: %w", modelID, ErrModelNotFound)
}

func (s *dashboardService) Listings(ctx context.Context, modelID int64, trim string) ([]models.Listing, error) {
	listings, err := s.source.ListListings(ctx, modelID)
	if err != nil {
		return nil, fmt.Errorf("list listings for model %d: %w", modelID, err)
	}
	return analytics.FilterByTrim(listings, trim), nil
}

func (s *dashboardService) Trends(ctx context.Context, modelID int64, trim string) ([]models.TrendPoint, models.AnalyticsSource, error) {
	if s.useServer(trim) {
		trends, err := s.source.GetTrends(ctx, modelID)
		if err == nil {
			return trends, models.AnalyticsServer, nil
		}
		s.log.Warn().Err(err).Int64("model_id", modelID).Msg("server trends unavailable, recomputing locally")
	}
	listings, err := s.Listings(ctx, modelID, trim)
	if err != nil {
		return nil, "", err
	}
	return analytics.Aggregate(listings), models.AnalyticsClient, nil
}

func (s *dashboardService) Stats(ctx context.Context, modelID int64, trim string) (models.StatsSummary, models.AnalyticsSource, error) {
	if s.useServer(trim) {
		stats, err := s.source.GetStats(ctx, modelID)
		if err == nil {
			return stats, models.AnalyticsServer, nil
		}
		s.log.Warn().Err(err).Int64("model_id", modelID).Msg("server stats unavailable, recomputing locally")
	}
	listings, err := s.Listings(ctx, modelID, trim)
	if err != nil {
		return models.StatsSummary{}, "", err
	}
	return analytics.Summarize(listings), models.AnalyticsClient, nil
}

func (s *dashboardService) Load(ctx context.Context, modelID int64) (*Snapshot, error) {
	snap := &Snapshot{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		m, err := s.Model(gctx, modelID)
		if err != nil {
			return err
		}
		snap.Model = m
		return nil
	})
	g.Go(func() error {
		listings, err := s.source.ListListings(gctx, modelID)
		if err != nil {
			return fmt.Errorf("list listings for model %d: %w", modelID, err)
		}
		snap.Listings = listings
		return nil
	})

	if s.mode == config.AnalyticsAuto {
		// Server analytics are optional: a failure degrades to local recomputation.
		g.Go(func() error {
			trends, err := s.source.GetTrends(gctx, modelID)
			if err != nil {
				s.log.Warn().Err(err).Int64("model_id", modelID).Msg("server trends unavailable")
				return nil
			}
			snap.ServerTrends = trends
			return nil
		})
		g.Go(func() error {
			stats, err := s.source.GetStats(gctx, modelID)
			if err != nil {
				s.log.Warn().Err(err).Int64("model_id", modelID).Msg("server stats unavailable")
				return nil
			}
			snap.ServerStats = &stats
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if snap.ServerTrends != nil && snap.ServerStats != nil {
		s.crossCheck(snap)
	}
	return snap, nil
}

// crossCheck logs when the source's analytics disagree with a local
// recomputation over the same listings.
func (s *dashboardService) crossCheck(snap *Snapshot) {
	tol := analytics.DefaultTolerance
	if !analytics.EquivalentTrends(snap.ServerTrends, analytics.Aggregate(snap.Listings), tol) {
		s.log.Warn().Int64("model_id", snap.Model.ID).Msg("server trends differ from local recomputation")
	}
	if !analytics.EquivalentStats(*snap.ServerStats, analytics.Summarize(snap.Listings), tol) {
		s.log.Warn().Int64("model_id", snap.Model.ID).Msg("server stats differ from local recomputation")
	}
}

func (s *dashboardService) Build(snap *Snapshot, trim string) models.Dashboard {
	listings := analytics.FilterByTrim(snap.Listings, trim)
	d := models.Dashboard{
		Model:    snap.Model,
		Trim:     trim,
		Trims:    analytics.Trims(snap.Listings),
		Listings: listings,
	}
	if d.Listings == nil {
		d.Listings = []models.Listing{}
	}

	if s.useServer(trim) && snap.ServerTrends != nil && snap.ServerStats != nil {
		d.Trends = snap.ServerTrends
		d.Stats = *snap.ServerStats
		d.AnalyticsSource = models.AnalyticsServer
	} else {
		d.Trends = analytics.Aggregate(listings)
		d.Stats = analytics.Summarize(listings)
		d.AnalyticsSource = models.AnalyticsClient
	}
	metrics.AnalyticsComputedTotal.WithLabelValues(string(d.AnalyticsSource)).Inc()
	return d
}

func (s *dashboardService) Dashboard(ctx context.Context, modelID int64, trim string) (*models.Dashboard, error) {
	snap, err := s.Load(ctx, modelID)
	if err != nil {
		return nil, err
	}
	d := s.Build(snap, trim)
	return &d, nil
}

func (s *dashboardService) Ready(ctx context.Context) error {
	return s.source.Ping(ctx)
}
