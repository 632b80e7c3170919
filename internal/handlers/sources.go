package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgSeeded      = "Seeded"
	errSourcesLoad = "failed to load sources"
	errSeed        = "failed to seed sources"
)

// @Summary      Study sources
// @Tags         sources
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   models.Source
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/sources [get]
func (h *Handler) listSources(c *gin.Context) {
	list, err := h.services.ListSources(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSourcesLoad, "sources_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary      Reset study sources to the default set
// @Tags         admin
// @Security     AdminKey
// @Produce      plain
// @Success      200  {string}  string  "Seeded"
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/admin/seed [post]
func (h *Handler) seed(c *gin.Context) {
	if err := h.services.Seed(c.Request.Context()); err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errSeed, "sources_seed_failed", err)
		return
	}
	if h.log != nil {
		h.log.Infow("sources_seeded", "client_ip", c.ClientIP())
	}
	c.String(http.StatusOK, msgSeeded)
}
