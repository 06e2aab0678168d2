package httpapi

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/diarify/internal/server/models"
	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name string `json:"name"`
}

type categoryResponse struct {
	Category *models.Category `json:"category"`
}

type categoriesResponse struct {
	Categories []models.Category `json:"categories"`
}

// pathID parses the :id path parameter. It answers 400 itself on failure.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) ListCategories(c *gin.Context) {
	userID, _ := UserID(c)
	list, err := h.categories.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, "Categories retrieved successfully", categoriesResponse{Categories: list})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, _ := UserID(c)
	category, err := h.categories.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	success(c, http.StatusCreated, "Category created successfully", categoryResponse{Category: category})
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, _ := UserID(c)
	category, err := h.categories.Rename(c.Request.Context(), userID, id, req.Name)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, "Category updated successfully", categoryResponse{Category: category})
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	userID, _ := UserID(c)
	if err := h.categories.Delete(c.Request.Context(), userID, id); err != nil {
		writeError(c, h.logger, err)
		return
	}
	success(c, http.StatusOK, "Category deleted successfully", nil)
}
