package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"credit-scoring/internal/policy"
)

// VariantHandler expone el catalogo de variantes.
type VariantHandler struct {
	catalog *policy.Catalog
}

func NewVariantHandler(catalog *policy.Catalog) *VariantHandler {
	return &VariantHandler{catalog: catalog}
}

// List maneja GET /api/variants.
func (h *VariantHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default":  h.catalog.Default().Name,
		"variants": h.catalog.List(),
	})
}

// Get maneja GET /api/variants/:name.
func (h *VariantHandler) Get(c *gin.Context) {
	v, err := h.catalog.Get(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown variant"})
		return
	}
	c.JSON(http.StatusOK, v)
}
