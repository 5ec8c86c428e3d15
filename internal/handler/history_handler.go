package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/studyhall/quizdeck-backend/internal/middleware"
	"github.com/studyhall/quizdeck-backend/internal/response"
	"github.com/studyhall/quizdeck-backend/internal/service"
)

// HistoryHandler serves completed results and per-user aggregates.
type HistoryHandler struct {
	historyService *service.HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService *service.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// GetHistory godoc
// GET /api/v1/quiz/history?page=1&per_page=20
// Returns one page of the user's results plus whole-history statistics.
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	history, window, err := h.historyService.GetHistory(c.Request.Context(), claims.UserID, page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, history, &response.Pagination{
		Page:       window.Page,
		PerPage:    window.PerPage,
		TotalItems: window.Total,
		TotalPages: (window.Total + window.PerPage - 1) / window.PerPage,
	})
}

// GetResult godoc
// GET /api/v1/quiz/result/:result_id
// Returns one result with its full per-question breakdown.
func (h *HistoryHandler) GetResult(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	resultID, err := uuid.Parse(c.Param("result_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	result, err := h.historyService.GetResult(c.Request.Context(), claims.UserID, resultID)
	if err != nil {
		if errors.Is(err, service.ErrResultNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrResultNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, result)
}
