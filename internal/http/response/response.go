package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes of the analyzer API. Collectors branch on these, so they are
// part of the wire contract.
const (
	CodeInvalidBulkPayload    = "invalid_bulk_payload"
	CodeIngestFailed          = "ingest_failed"
	CodeInvalidMetaPayload    = "invalid_meta_payload"
	CodeCollectFailed         = "collect_failed"
	CodeAssetNotFound         = "asset_not_found"
	CodeLoadAssetFailed       = "load_asset_failed"
	CodeListAssetsFailed      = "list_assets_failed"
	CodeMissingLocator        = "missing_locator"
	CodeProfileNotFound       = "profile_not_found"
	CodeLoadProfileFailed     = "load_profile_failed"
	CodeLoadViolationsFailed  = "load_violations_failed"
	CodeLoadGuardStatusFailed = "load_guard_status_failed"
	CodeMissingToken          = "missing_token"
	CodeInvalidToken          = "invalid_token"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := code
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
