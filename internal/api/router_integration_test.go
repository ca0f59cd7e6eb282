//go:build integration
// +build integration

package api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/lib/pq"
	goose "github.com/pressly/goose/v3"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/guttosm/nfsindex/config"
	"github.com/guttosm/nfsindex/internal/app"
	"github.com/guttosm/nfsindex/internal/domain/models"
	"github.com/guttosm/nfsindex/internal/storage"
)

// pgConfig is the connection settings of the throwaway container; Host and
// Port are filled in once it is running.
var pgConfig = config.PostgresConfig{User: "postgres", Password: "postgres", DBName: "nfs_index", SSLMode: "disable"}

// migratedPostgres starts Postgres, applies db/migrations and returns an open
// handle plus the settings the app needs to reach the same database.
func migratedPostgres(t *testing.T) (*sql.DB, config.PostgresConfig) {
	t.Helper()
	ctx := context.Background()

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       pgConfig.DBName,
				"POSTGRES_USER":     pgConfig.User,
				"POSTGRES_PASSWORD": pgConfig.Password,
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	cfg := pgConfig
	if cfg.Host, err = container.Host(ctx); err != nil {
		t.Fatalf("host: %v", err)
	}
	mapped, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	cfg.Port = mapped.Int()

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	// The port opens before the server accepts logins.
	deadline := time.Now().Add(30 * time.Second)
	for err = db.PingContext(ctx); err != nil && time.Now().Before(deadline); err = db.PingContext(ctx) {
		time.Sleep(200 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("ping: %v", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		t.Fatalf("dialect: %v", err)
	}
	if err := goose.Up(db, filepath.Join("..", "..", "db", "migrations")); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db, cfg
}

func seedForE2E(t *testing.T, db *sql.DB) (modelID int64) {
	t.Helper()
	ctx := context.Background()
	repo := storage.NewListingsRepository(db)

	makeID, err := repo.EnsureMake(ctx, "MERCEDES-BENZ")
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	modelID, err = repo.EnsureModel(ctx, makeID, "SLR MCLAREN")
	if err != nil {
		t.Fatalf("model: %v", err)
	}
	roadster, err := repo.EnsureTrim(ctx, modelID, "ROADSTER")
	if err != nil {
		t.Fatalf("trim: %v", err)
	}
	coupe, err := repo.EnsureTrim(ctx, modelID, "STANDARD")
	if err != nil {
		t.Fatalf("trim: %v", err)
	}

	rec := func(url string, trimID int64, price float64, d string) models.ListingRecord {
		cents := storage.UnitsToCents(price)
		sold := models.MustParseDate(d)
		return models.ListingRecord{
			ListingURL:     url,
			Source:         models.SourceBringATrailer,
			MakeID:         makeID,
			ModelID:        modelID,
			TrimID:         trimID,
			SalePriceCents: &cents,
			SaleDate:       &sold,
		}
	}
	_, _, err = repo.UpsertListings(ctx, []models.ListingRecord{
		rec("https://bringatrailer.com/listing/e2e-1", roadster, 400000, "2024-03-05"),
		rec("https://bringatrailer.com/listing/e2e-2", coupe, 300000, "2024-03-20"),
		rec("https://bringatrailer.com/listing/e2e-3", coupe, 350000, "2024-05-01"),
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return modelID
}

func TestAPI_E2E_Dashboard_FromPostgres(t *testing.T) {
	db, pg := migratedPostgres(t)
	modelID := seedForE2E(t, db)

	// Point application config to containerized DB
	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })
	config.AppConfig = config.Config{
		Server:   config.ServerConfig{Port: "0", RequestTimeout: 10 * time.Second, RateLimitRPS: 100, RateLimitBurst: 100},
		Postgres: pg,
		Dashboard: config.DashboardConfig{
			DataSource:    config.SourcePostgres,
			AnalyticsMode: config.AnalyticsAuto,
			SessionTTL:    time.Minute,
		},
	}

	router, cleanup, err := app.InitializeApp()
	if err != nil {
		t.Fatalf("init app: %v", err)
	}
	defer cleanup()

	// Unfiltered: analytics come from SQL
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/dashboard?model_id=%d", modelID), nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	var server models.Dashboard
	if err := json.Unmarshal(w.Body.Bytes(), &server); err != nil {
		t.Fatalf("json: %v", err)
	}
	if server.AnalyticsSource != models.AnalyticsServer || server.Stats.TotalSales != 3 || len(server.Trends) != 2 {
		t.Fatalf("unexpected server view: %+v", server)
	}
	if server.Trends[0].Period != "2024-03-01" || server.Trends[0].AvgPrice != 350000 || server.Trends[0].Count != 2 {
		t.Fatalf("unexpected first trend point: %+v", server.Trends[0])
	}

	// Filtered: recomputed from the listing set
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/dashboard?model_id=%d&trim=standard", modelID), nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	var client models.Dashboard
	if err := json.Unmarshal(w.Body.Bytes(), &client); err != nil {
		t.Fatalf("json: %v", err)
	}
	if client.AnalyticsSource != models.AnalyticsClient || client.Stats.TotalSales != 2 || len(client.Listings) != 2 {
		t.Fatalf("unexpected filtered view: %+v", client)
	}
	if client.Stats.AvgPrice == nil || *client.Stats.AvgPrice != 325000 {
		t.Fatalf("unexpected filtered avg: %+v", client.Stats)
	}
}
