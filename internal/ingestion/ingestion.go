package ingestion

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/nfsindex/internal/domain/models"
	"github.com/guttosm/nfsindex/internal/logger"
	"github.com/guttosm/nfsindex/internal/metrics"
	"github.com/guttosm/nfsindex/internal/storage"
)

const (
	fileSuffix  = ".json"
	maxParallel = 8
)

// repoCtor is an indirection for creating the repository; tests can override this.
var repoCtor = func(db *sql.DB) storage.ListingsRepository {
	return storage.NewListingsRepository(db)
}

// Options tunes a directory ingestion run.
type Options struct {
	// Rules normalizes engine, transmission and variant values; nil keeps them as scraped.
	Rules *Normalizer
	// Parallel caps concurrent files; <= 0 means min(maxParallel, NumCPU).
	Parallel int
	// Force re-ingests files already present in the ingestion log.
	Force bool
}

// ProcessDirectory ingests every scraper export (*.json) found in dir.
//
// Behavior:
//   - Files already recorded in ingestion_log are skipped unless opts.Force.
//   - Files are processed concurrently; the first failing file cancels the rest.
//   - Listings that cannot be converted are logged and counted as rejected;
//     they do not fail the file.
//   - Each file is upserted in one transaction keyed by listing URL.
func ProcessDirectory(ctx context.Context, dir string, db *sql.DB, opts Options) error {
	repo := repoCtor(db)

	files, err := listExports(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s exports found in %s", fileSuffix, dir)
	}

	logger.L().Info().Int("files", len(files)).Str("dir", dir).Msg("ingestion start")

	workers := maxParallel
	if opts.Parallel > 0 {
		if opts.Parallel < workers {
			workers = opts.Parallel
		}
	} else if c := runtime.NumCPU(); c < workers {
		workers = c
	}

	logger.L().Info().Int("max_parallel", workers).Bool("rules", opts.Rules != nil).Msg("ingestion configured")

	// errgroup will cancel siblings on first error.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, file := range files {
		idx := i
		f := file

		g.Go(func() error {
			start := time.Now()
			base := filepath.Base(f)
			log := logger.L().With().Int("idx", idx+1).Int("total", len(files)).Str("file", base).Logger()
			log.Info().Msg("file start")

			// Idempotency: skip if already ingested, unless force
			exists, err := repo.HasIngestionForFile(gctx, base)
			if err != nil {
				log.Error().Err(err).Msg("check ingestion log failed")
				return fmt.Errorf("file %s: check ingestion log: %w", f, err)
			}
			if exists && !opts.Force {
				log.Info().Bool("skipped", true).Msg("already ingested")
				return nil
			}

			res, err := ingestFile(gctx, f, repo, opts.Rules)
			if err != nil {
				log.Error().Dur("elapsed", time.Since(start)).Err(err).Msg("file failed")
				return fmt.Errorf("file %s: %w", f, err)
			}
			if err := repo.UpsertIngestionLog(gctx, base, res.inserted+res.updated); err != nil {
				log.Error().Err(err).Msg("update ingestion log failed")
				return fmt.Errorf("file %s: upsert ingestion log: %w", f, err)
			}
			log.Info().
				Int("inserted", res.inserted).
				Int("updated", res.updated).
				Int("rejected", res.rejected).
				Dur("elapsed", time.Since(start)).
				Bool("force", opts.Force).
				Msg("file done")
			return nil
		})
	}

	return g.Wait()
}

// listExports returns the sorted *.json files directly under dir.
func listExports(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), fileSuffix) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

type fileResult struct {
	inserted, updated, rejected int
}

// ingestFile parses, normalizes and persists one export.
func ingestFile(ctx context.Context, path string, repo storage.ListingsRepository, rules *Normalizer) (fileResult, error) {
	var res fileResult

	listings, err := parseFile(path)
	if err != nil {
		return res, err
	}

	ids := newCatalog(repo)
	records := make([]models.ListingRecord, 0, len(listings))
	for i := range listings {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		l := listings[i]
		rules.Apply(&l)

		reject := func(err error) {
			res.rejected++
			logger.L().Warn().Str("file", filepath.Base(path)).Int("listing", i+1).Str("url", l.URL).Err(err).Msg("listing rejected")
		}
		if strings.TrimSpace(l.URL) == "" {
			reject(errMissingURL)
			continue
		}

		makeID, modelID, trimID, err := ids.resolve(ctx, canonicalNames(l))
		if err != nil {
			return res, fmt.Errorf("listing %d: %w", i+1, err)
		}
		rec, err := toRecord(l, makeID, modelID, trimID)
		if err != nil {
			reject(err)
			continue
		}
		if !rec.Source.Valid() {
			logger.L().Warn().Str("file", filepath.Base(path)).Int("listing", i+1).Str("source", string(rec.Source)).Msg("unknown listing source kept as is")
		}
		records = append(records, rec)
	}

	res.inserted, res.updated, err = repo.UpsertListings(ctx, records)
	if err != nil {
		return res, fmt.Errorf("upsert listings: %w", err)
	}

	metrics.IngestedListingsTotal.WithLabelValues("inserted").Add(float64(res.inserted))
	metrics.IngestedListingsTotal.WithLabelValues("updated").Add(float64(res.updated))
	metrics.IngestedListingsTotal.WithLabelValues("rejected").Add(float64(res.rejected))
	return res, nil
}

// catalog resolves make/model/trim names to ids, memoizing per file.
type catalog struct {
	repo   storage.ListingsRepository
	makes  map[string]int64
	models map[[2]string]int64
	trims  map[catalogKey]int64
}

func newCatalog(repo storage.ListingsRepository) *catalog {
	return &catalog{
		repo:   repo,
		makes:  map[string]int64{},
		models: map[[2]string]int64{},
		trims:  map[catalogKey]int64{},
	}
}

func (c *catalog) resolve(ctx context.Context, k catalogKey) (makeID, modelID, trimID int64, err error) {
	makeID, ok := c.makes[k.make]
	if !ok {
		if makeID, err = c.repo.EnsureMake(ctx, k.make); err != nil {
			return 0, 0, 0, fmt.Errorf("ensure make %q: %w", k.make, err)
		}
		c.makes[k.make] = makeID
	}

	mk := [2]string{k.make, k.model}
	modelID, ok = c.models[mk]
	if !ok {
		if modelID, err = c.repo.EnsureModel(ctx, makeID, k.model); err != nil {
			return 0, 0, 0, fmt.Errorf("ensure model %q: %w", k.model, err)
		}
		c.models[mk] = modelID
	}

	trimID, ok = c.trims[k]
	if !ok {
		if trimID, err = c.repo.EnsureTrim(ctx, modelID, k.trim); err != nil {
			return 0, 0, 0, fmt.Errorf("ensure trim %q: %w", k.trim, err)
		}
		c.trims[k] = trimID
	}
	return makeID, modelID, trimID, nil
}
