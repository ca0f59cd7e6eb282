package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nfsindex/config"
	"github.com/guttosm/nfsindex/internal/domain/dto"
	"github.com/guttosm/nfsindex/internal/domain/models"
	"github.com/guttosm/nfsindex/internal/service"
)

// fakeSource serves one model with two trims and no server analytics.
type fakeSource struct{}

func (fakeSource) ListModels(context.Context) ([]models.VehicleModel, error) {
	return []models.VehicleModel{{ID: 1, Name: "SLR McLaren", MakeName: "Mercedes-Benz"}}, nil
}

func (fakeSource) ListListings(_ context.Context, modelID int64) ([]models.Listing, error) {
	if modelID != 1 {
		return nil, nil
	}
	roadster, coupe := "Roadster", "Coupe"
	march := models.MustParseDate("2024-03-10")
	april := models.MustParseDate("2024-04-02")
	return []models.Listing{
		{ID: 1, Year: 2008, Trim: &roadster, SalePrice: f64(400000), SaleDate: &april, Source: models.SourceBringATrailer},
		{ID: 2, Year: 2005, Trim: &coupe, SalePrice: f64(300000), SaleDate: &march, Source: models.SourceCarsAndBids},
		{ID: 3, Year: 2006, Trim: &coupe, Source: models.SourceBringATrailer},
	}, nil
}

func (fakeSource) GetTrends(context.Context, int64) ([]models.TrendPoint, error) {
	return nil, assertErr{}
}

func (fakeSource) GetStats(context.Context, int64) (models.StatsSummary, error) {
	return models.StatsSummary{}, assertErr{}
}

func (fakeSource) Ping(context.Context) error { return nil }

func setupSessionRouter(defaultModel string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewDashboardService(fakeSource{}, config.AnalyticsAuto)
	h := NewHandler(svc, service.NewSessionStore(svc, time.Minute, defaultModel))
	r := gin.New()
	s := r.Group("/api/v1/sessions")
	s.POST("", h.CreateSession)
	s.GET("/:id", h.GetSession)
	s.PUT("/:id/model", h.SelectModel)
	s.PUT("/:id/trim", h.SetTrim)
	s.DELETE("/:id", h.DeleteSession)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessions_Lifecycle(t *testing.T) {
	r := setupSessionRouter("slr mclaren")

	w := do(r, http.MethodPost, "/api/v1/sessions", "")
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d", w.Code)
	}
	created := decode[dto.SessionResponse](t, w.Body.Bytes())
	if created.ID == "" || created.View == nil {
		t.Fatalf("expected preselected view: %s", w.Body.String())
	}
	if created.View.Model.ID != 1 || len(created.View.Listings) != 3 || created.View.AnalyticsSource != models.AnalyticsClient {
		t.Fatalf("unexpected view: %+v", created.View)
	}
	if created.View.Stats.TotalSales != 2 || len(created.View.Trends) != 2 {
		t.Fatalf("unexpected analytics: %+v", created.View)
	}
	base := "/api/v1/sessions/" + created.ID

	w = do(r, http.MethodPut, base+"/trim", `{"trim":" coupe "}`)
	if w.Code != http.StatusOK {
		t.Fatalf("trim: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	trimmed := decode[dto.SessionResponse](t, w.Body.Bytes())
	if trimmed.View.Trim != "coupe" || len(trimmed.View.Listings) != 2 || trimmed.View.Stats.TotalSales != 1 {
		t.Fatalf("unexpected trimmed view: %+v", trimmed.View)
	}
	if len(trimmed.View.Trims) != 2 {
		t.Fatalf("trim options must come from the unfiltered set: %v", trimmed.View.Trims)
	}

	w = do(r, http.MethodGet, base, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: expected 200 got %d", w.Code)
	}
	if got := decode[dto.SessionResponse](t, w.Body.Bytes()); got.View.Trim != "coupe" {
		t.Fatalf("expected trim kept, got %q", got.View.Trim)
	}

	w = do(r, http.MethodPut, base+"/model", `{"model_id":1}`)
	if w.Code != http.StatusOK {
		t.Fatalf("select: expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if got := decode[dto.SessionResponse](t, w.Body.Bytes()); got.View.Trim != "" || got.View.Generation <= created.View.Generation {
		t.Fatalf("selection must reset trim and bump generation: %+v", got.View)
	}

	if w = do(r, http.MethodDelete, base, ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204 got %d", w.Code)
	}
	if w = do(r, http.MethodGet, base, ""); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404 got %d", w.Code)
	}
}

func TestSessions_Errors(t *testing.T) {
	r := setupSessionRouter("")

	w := do(r, http.MethodPost, "/api/v1/sessions", "")
	created := decode[dto.SessionResponse](t, w.Body.Bytes())
	if created.View != nil {
		t.Fatalf("expected no preselection without a default model")
	}
	base := "/api/v1/sessions/" + created.ID

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"trim before selection", http.MethodPut, base + "/trim", `{"trim":"coupe"}`, http.StatusConflict},
		{"trim bad body", http.MethodPut, base + "/trim", `{"trim":`, http.StatusBadRequest},
		{"model missing id", http.MethodPut, base + "/model", `{}`, http.StatusBadRequest},
		{"model negative id", http.MethodPut, base + "/model", `{"model_id":-1}`, http.StatusBadRequest},
		{"model unknown", http.MethodPut, base + "/model", `{"model_id":42}`, http.StatusNotFound},
		{"unknown session get", http.MethodGet, "/api/v1/sessions/nope", "", http.StatusNotFound},
		{"unknown session model", http.MethodPut, "/api/v1/sessions/nope/model", `{"model_id":1}`, http.StatusNotFound},
		{"unknown session trim", http.MethodPut, "/api/v1/sessions/nope/trim", `{"trim":""}`, http.StatusNotFound},
		{"unknown session delete", http.MethodDelete, "/api/v1/sessions/nope", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := do(r, tc.method, tc.path, tc.body); w.Code != tc.want {
				t.Fatalf("expected %d got %d body=%s", tc.want, w.Code, w.Body.String())
			}
		})
	}

	// a failed selection keeps the session empty
	w = do(r, http.MethodGet, base, "")
	if got := decode[dto.SessionResponse](t, w.Body.Bytes()); got.View != nil {
		t.Fatalf("expected empty view after failed selection: %+v", got.View)
	}
}
