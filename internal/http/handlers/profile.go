package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/datium-labs/dspm-analyzer/internal/data/repos"
	"github.com/datium-labs/dspm-analyzer/internal/http/response"
	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
)

type ProfileHandler struct {
	log      *logger.Logger
	profiles repos.ObjectProfileRepo
}

func NewProfileHandler(log *logger.Logger, profiles repos.ObjectProfileRepo) *ProfileHandler {
	return &ProfileHandler{
		log:      log.With("handler", "ProfileHandler"),
		profiles: profiles,
	}
}

// GET /profiles/*locator — locators contain slashes (s3://bucket/key), so
// the whole remaining path is the locator.
func (h *ProfileHandler) GetByLocator(c *gin.Context) {
	locator := strings.TrimPrefix(c.Param("locator"), "/")
	if locator == "" {
		response.RespondError(c, http.StatusBadRequest, response.CodeMissingLocator, nil)
		return
	}

	prof, err := h.profiles.GetByLocator(c.Request.Context(), nil, locator)
	if err != nil {
		h.log.Error("profile lookup failed", "error", err, "locator", locator)
		response.RespondError(c, http.StatusInternalServerError, response.CodeLoadProfileFailed, err)
		return
	}
	if prof == nil {
		response.RespondError(c, http.StatusNotFound, response.CodeProfileNotFound, nil)
		return
	}

	response.RespondOK(c, gin.H{
		"locator":        locator,
		"object_id":      prof.ObjectID,
		"bytes":          prof.Bytes,
		"line_count":     prof.LineCount,
		"avg_line_len":   prof.AvgLineLen,
		"max_line_len":   prof.MaxLineLen,
		"ratio_digit":    prof.RatioDigit,
		"ratio_alpha":    prof.RatioAlpha,
		"ratio_symbol":   prof.RatioSymbol,
		"has_csv_header": prof.HasCsvHeader,
		"profiled_at":    prof.ProfiledAt,
	})
}
