package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func NewHandler(builder BuilderInterface, renderer RendererInterface) *Handler {
	return &Handler{
		builder:  builder,
		renderer: renderer,
	}
}

// GetDigest runs the whole pipeline for every request; nothing is cached.
func (h *Handler) GetDigest(c *gin.Context) {
	doc := h.builder.Run(c.Request.Context())

	page, err := h.renderer.Run(doc)
	if err != nil {
		slog.Error("Digest rendering error", "run_id", doc.RunID, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("X-Digest-Articles", strconv.Itoa(len(doc.Records)))
	c.Header("X-Digest-Run", doc.RunID)

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
