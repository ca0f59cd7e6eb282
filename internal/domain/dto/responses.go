package dto

import "github.com/guttosm/nfsindex/internal/domain/models"

// ModelsResponse is returned by GET /api/v1/models.
type ModelsResponse struct {
	Models []models.VehicleModel `json:"models"`
}

// ListingsResponse is returned by GET /api/v1/listings.
//
// Total counts the listings matching the filter; Count those in this page.
// Page and PerPage are zero when the request was not paginated.
type ListingsResponse struct {
	ModelID  int64            `json:"model_id" example:"1"`
	Trim     string           `json:"trim,omitempty" example:"ROADSTER"`
	Page     int              `json:"page,omitempty" example:"1"`
	PerPage  int              `json:"per_page,omitempty" example:"50"`
	Total    int              `json:"total" example:"12"`
	Count    int              `json:"count" example:"12"`
	Listings []models.Listing `json:"listings"`
}

// TrendsResponse is returned by GET /api/v1/analytics/trends.
type TrendsResponse struct {
	ModelID int64                  `json:"model_id" example:"1"`
	Trim    string                 `json:"trim,omitempty"`
	Source  models.AnalyticsSource `json:"source" example:"server"`
	Trends  []models.TrendPoint    `json:"trends"`
}

// StatsResponse is returned by GET /api/v1/analytics/stats.
type StatsResponse struct {
	ModelID int64                  `json:"model_id" example:"1"`
	Trim    string                 `json:"trim,omitempty"`
	Source  models.AnalyticsSource `json:"source" example:"client"`
	Stats   models.StatsSummary    `json:"stats"`
}

// SessionResponse describes a dashboard session and its current view.
// View is nil until a model has been selected.
type SessionResponse struct {
	ID   string            `json:"id" example:"3f7c1f0e-3b1a-4b53-9f0b-7c1f7c2a9e11"`
	View *models.Dashboard `json:"view"`
}

// SelectModelRequest is the body of PUT /api/v1/sessions/{id}/model.
type SelectModelRequest struct {
	ModelID int64 `json:"model_id" binding:"required,gt=0" example:"1"`
}

// SetTrimRequest is the body of PUT /api/v1/sessions/{id}/trim. An empty trim clears the filter.
type SetTrimRequest struct {
	Trim string `json:"trim" example:"ROADSTER"`
}
