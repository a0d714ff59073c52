package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datium-labs/dspm-analyzer/internal/data/repos"
	"github.com/datium-labs/dspm-analyzer/internal/http/response"
	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
)

type GuardHandler struct {
	log    *logger.Logger
	guards repos.GuardRepo
}

func NewGuardHandler(log *logger.Logger, guards repos.GuardRepo) *GuardHandler {
	return &GuardHandler{
		log:    log.With("handler", "GuardHandler"),
		guards: guards,
	}
}

// GET /guards/violations?limit=N
func (h *GuardHandler) Violations(c *gin.Context) {
	limit := clampLimit(c.Query("limit"), 50)

	rows, err := h.guards.ListViolations(c.Request.Context(), nil, limit)
	if err != nil {
		h.log.Error("guard violations query failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, response.CodeLoadViolationsFailed, err)
		return
	}
	response.RespondOK(c, gin.H{"items": rows, "count": len(rows)})
}

// GET /guards/status
func (h *GuardHandler) Status(c *gin.Context) {
	st, err := h.guards.Status(c.Request.Context(), nil)
	if err != nil {
		h.log.Error("guard status query failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, response.CodeLoadGuardStatusFailed, err)
		return
	}
	response.RespondOK(c, st)
}
