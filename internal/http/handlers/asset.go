package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/datium-labs/dspm-analyzer/internal/data/repos"
	"github.com/datium-labs/dspm-analyzer/internal/http/response"
	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
	"github.com/datium-labs/dspm-analyzer/internal/services"
)

const maxListLimit = 200

type BulkPayload struct {
	SourceID string              `json:"source_id" binding:"required"`
	Items    []services.BulkItem `json:"items" binding:"required"`
}

type AssetHandler struct {
	log      *logger.Logger
	analyzer services.AnalyzerService
	objects  repos.DataObjectRepo
}

func NewAssetHandler(log *logger.Logger, analyzer services.AnalyzerService, objects repos.DataObjectRepo) *AssetHandler {
	return &AssetHandler{
		log:      log.With("handler", "AssetHandler"),
		analyzer: analyzer,
		objects:  objects,
	}
}

// POST /api/assets/bulk (alias /api/assets/save)
func (h *AssetHandler) IngestBulk(c *gin.Context) {
	var in BulkPayload
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeInvalidBulkPayload, err)
		return
	}

	res, err := h.analyzer.IngestBulk(c.Request.Context(), nil, in.SourceID, in.Items)
	if err != nil {
		h.log.Error("bulk ingest failed", "error", err, "source_id", in.SourceID, "items", len(in.Items))
		response.RespondError(c, http.StatusInternalServerError, response.CodeIngestFailed, err)
		return
	}

	response.RespondOK(c, gin.H{
		"ok":       true,
		"created":  res.Created,
		"updated":  res.Updated,
		"profiled": res.Profiled,
		"guarded":  res.Guarded,
	})
}

// POST /collect/meta
func (h *AssetHandler) Collect(c *gin.Context) {
	var in services.CollectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.CodeInvalidMetaPayload, err)
		return
	}

	res, err := h.analyzer.Collect(c.Request.Context(), nil, in)
	if err != nil {
		h.log.Error("collect failed", "error", err, "locator", in.Locator)
		response.RespondError(c, http.StatusInternalServerError, response.CodeCollectFailed, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /api/assets/:id
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id := c.Param("id")
	obj, err := h.objects.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		h.log.Error("asset lookup failed", "error", err, "id", id)
		response.RespondError(c, http.StatusInternalServerError, response.CodeLoadAssetFailed, err)
		return
	}
	if obj == nil {
		response.RespondError(c, http.StatusNotFound, response.CodeAssetNotFound, nil)
		return
	}
	response.RespondOK(c, obj)
}

// GET /api/assets?source_id=...&limit=...
func (h *AssetHandler) ListAssets(c *gin.Context) {
	limit := clampLimit(c.Query("limit"), 50)

	rows, err := h.objects.ListBySource(c.Request.Context(), nil, c.Query("source_id"), limit)
	if err != nil {
		h.log.Error("asset list failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, response.CodeListAssetsFailed, err)
		return
	}
	response.RespondOK(c, gin.H{"items": rows, "count": len(rows)})
}

func clampLimit(raw string, def int) int {
	limit := def
	if raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit
}
