package handlers

import (
	"errors"
	"net/http"

	"techcatalog/internal/application/usecase"
	"techcatalog/internal/domain"

	"github.com/gin-gonic/gin"
)

type ProficiencyHandler struct {
	proficiency *usecase.ProficiencyService
}

func NewProficiencyHandler(proficiency *usecase.ProficiencyService) *ProficiencyHandler {
	return &ProficiencyHandler{proficiency: proficiency}
}

// GET /api/user/stats
func (h *ProficiencyHandler) Stats(c *gin.Context) {
	userID := c.GetString("userId")

	stats, err := h.proficiency.Stats(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// GET /api/user/stats/overview
func (h *ProficiencyHandler) Overview(c *gin.Context) {
	userID := c.GetString("userId")

	overview, err := h.proficiency.Overview(c, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// POST /api/user/techs/:id/proficiency
func (h *ProficiencyHandler) Apply(c *gin.Context) {
	userID := c.GetString("userId")
	techID := c.Param("id")

	var input domain.ProficiencyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.proficiency.Apply(c, userID, techID, input); err != nil {
		respondError(c, err)
		return
	}

	record, err := h.proficiency.Get(c, userID, techID)
	if err != nil {
		// attempted=false удаляет запись — отдаём пустое состояние;
		// любая другая ошибка чтения не маскируется под успех
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"attempted": false})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// DELETE /api/user/techs/:id
func (h *ProficiencyHandler) Remove(c *gin.Context) {
	userID := c.GetString("userId")

	if err := h.proficiency.Remove(c, userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Proficiency removed"})
}
