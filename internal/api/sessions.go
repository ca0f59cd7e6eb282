package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/nfsindex/internal/domain/dto"
)

// CreateSession godoc
// @Summary      Create a dashboard session
// @Description  Creates a session and preselects the configured default model when it exists
// @Tags         sessions
// @Produce      json
// @Success      201  {object}  dto.SessionResponse  "Created"
// @Router       /api/v1/sessions [post]
func (h *Handler) CreateSession(c *gin.Context) {
	id, view := h.sessions.Create(c.Request.Context())
	c.JSON(http.StatusCreated, dto.SessionResponse{ID: id, View: view.Current()})
}

// GetSession godoc
// @Summary      Current view of a session
// @Tags         sessions
// @Produce      json
// @Param        id   path      string  true  "Session id"
// @Success      200  {object}  dto.SessionResponse  "Success"
// @Failure      404  {object}  dto.ErrorResponse    "Not Found"
// @Router       /api/v1/sessions/{id} [get]
func (h *Handler) GetSession(c *gin.Context) {
	id := c.Param("id")
	view, err := h.sessions.Get(id)
	if err != nil {
		writeError(c, "session not found", err)
		return
	}
	c.JSON(http.StatusOK, dto.SessionResponse{ID: id, View: view.Current()})
}

// SelectModel handles PUT /api/v1/sessions/{id}/model.
//
// Selections are last-write-wins: a request overtaken by a newer selection
// on the same session answers 409 and leaves the newer result in place.
//
// SelectModel godoc
// @Summary      Select the model of a session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path      string                  true  "Session id"
// @Param        body  body      dto.SelectModelRequest  true  "Model selection"
// @Success      200   {object}  dto.SessionResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse    "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse    "Not Found"
// @Failure      409   {object}  dto.ErrorResponse    "Superseded"
// @Failure      502   {object}  dto.ErrorResponse    "Upstream Error"
// @Router       /api/v1/sessions/{id}/model [put]
func (h *Handler) SelectModel(c *gin.Context) {
	id := c.Param("id")
	var req dto.SelectModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("model_id must be a positive integer", err))
		return
	}
	view, err := h.sessions.Get(id)
	if err != nil {
		writeError(c, "session not found", err)
		return
	}

	d, err := view.SelectModel(c.Request.Context(), req.ModelID)
	if err != nil {
		writeError(c, "failed to select model", err)
		return
	}
	c.JSON(http.StatusOK, dto.SessionResponse{ID: id, View: d})
}

// SetTrim godoc
// @Summary      Change the trim filter of a session
// @Description  Recomputes stats and trends from the loaded listings; an empty trim clears the filter
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Session id"
// @Param        body  body      dto.SetTrimRequest  true  "Trim filter"
// @Success      200   {object}  dto.SessionResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse    "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse    "Not Found"
// @Failure      409   {object}  dto.ErrorResponse    "No model selected"
// @Router       /api/v1/sessions/{id}/trim [put]
func (h *Handler) SetTrim(c *gin.Context) {
	id := c.Param("id")
	var req dto.SetTrimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("invalid body", err))
		return
	}
	view, err := h.sessions.Get(id)
	if err != nil {
		writeError(c, "session not found", err)
		return
	}

	d, err := view.SetTrim(strings.TrimSpace(req.Trim))
	if err != nil {
		writeError(c, "failed to apply trim", err)
		return
	}
	c.JSON(http.StatusOK, dto.SessionResponse{ID: id, View: d})
}

// DeleteSession godoc
// @Summary      Drop a session
// @Tags         sessions
// @Param        id   path  string  true  "Session id"
// @Success      204  "No Content"
// @Failure      404  {object}  dto.ErrorResponse  "Not Found"
// @Router       /api/v1/sessions/{id} [delete]
func (h *Handler) DeleteSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Param("id")); err != nil {
		writeError(c, "session not found", err)
		return
	}
	c.Status(http.StatusNoContent)
}
