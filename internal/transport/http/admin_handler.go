package handlers

import (
	"net/http"

	"techcatalog/internal/application/usecase"
	"techcatalog/internal/domain"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	catalog *usecase.CatalogService
}

func NewAdminHandler(catalog *usecase.CatalogService) *AdminHandler {
	return &AdminHandler{catalog: catalog}
}

// GET /api/admin/check
func (h *AdminHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"isAdmin": c.GetBool("isAdmin")})
}

// POST /api/admin/techs
func (h *AdminHandler) Create(c *gin.Context) {
	var input domain.CreateTechInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.catalog.Create(c, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "Tech created successfully"})
}

type updateReq struct {
	ID string `json:"id" binding:"required"`
	domain.UpdateTechInput
}

// PUT /api/admin/techs
func (h *AdminHandler) Update(c *gin.Context) {
	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.catalog.Update(c, req.ID, req.UpdateTechInput); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tech updated successfully"})
}

// DELETE /api/admin/techs/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	if err := h.catalog.Delete(c, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tech deleted successfully"})
}
