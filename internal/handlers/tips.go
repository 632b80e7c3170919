package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Exam tips
// @Tags         tips
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   models.Tip
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/tips [get]
func (h *Handler) listTips(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.ListTips())
}
