package handlers

import (
	"errors"
	"net/http"
	"strings"

	"techcatalog/internal/application/usecase"
	"techcatalog/internal/domain"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrCreateBusy), errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

type TechHandler struct {
	catalog *usecase.CatalogService
}

func NewTechHandler(catalog *usecase.CatalogService) *TechHandler {
	return &TechHandler{catalog: catalog}
}

// GET /api/techs?search=&sort=&difficulty=&tags=a,b
func (h *TechHandler) List(c *gin.Context) {
	spec := domain.QuerySpec{
		Search:     c.Query("search"),
		Difficulty: c.Query("difficulty"),
		Sort:       c.Query("sort"),
	}
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				spec.Tags = append(spec.Tags, tag)
			}
		}
	}

	techs, err := h.catalog.List(c, spec)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": techs})
}

// GET /api/techs/:id
func (h *TechHandler) GetOne(c *gin.Context) {
	tech, err := h.catalog.GetByID(c, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tech not found"})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tech)
}
