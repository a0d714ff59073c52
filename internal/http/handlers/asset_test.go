package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/datium-labs/dspm-analyzer/internal/data/repos"
	"github.com/datium-labs/dspm-analyzer/internal/data/repos/testutil"
	"github.com/datium-labs/dspm-analyzer/internal/domain"
	"github.com/datium-labs/dspm-analyzer/internal/http/response"
	"github.com/datium-labs/dspm-analyzer/internal/services"
)

// Handlers run the service with a nil tx, so rows commit to the shared test
// database. Each test writes under its own source_id and deletes on cleanup.
func newTestRouter(t *testing.T, sourceID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	t.Cleanup(func() {
		gdb.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Where("object_id IN (?)", gdb.Model(&domain.DataObject{}).Select("id").Where("source_id = ?", sourceID)).
			Delete(&domain.ObjectProfile{})
		gdb.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Where("object_id IN (?)", gdb.Model(&domain.DataObject{}).Select("id").Where("source_id = ?", sourceID)).
			Delete(&domain.PseudonymizationGuard{})
		gdb.Where("source_id = ?", sourceID).Delete(&domain.DataObject{})
	})

	objects := repos.NewDataObjectRepo(gdb, log)
	profiles := repos.NewObjectProfileRepo(gdb, log)
	guards := repos.NewGuardRepo(gdb, log)
	analyzer := services.NewAnalyzerService(gdb, log, objects, profiles, guards, nil)

	router := gin.New()
	router.POST("/api/assets/bulk", NewAssetHandler(log, analyzer, objects).IngestBulk)
	router.POST("/collect/meta", NewAssetHandler(log, analyzer, objects).Collect)
	router.GET("/api/assets", NewAssetHandler(log, analyzer, objects).ListAssets)
	router.GET("/api/assets/:id", NewAssetHandler(log, analyzer, objects).GetAsset)
	router.GET("/profiles/*locator", NewProfileHandler(log, profiles).GetByLocator)
	router.GET("/health", Health)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: bad response body %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, out
}

func TestBulkIngestEndpoint(t *testing.T) {
	router := newTestRouter(t, "http-test-bulk")

	w, body := doJSON(t, router, http.MethodPost, "/api/assets/bulk", `{
		"source_id": "http-test-bulk",
		"items": [{
			"kind": "object",
			"locator": "s3://http-bulk/k1",
			"name": "k1",
			"region": "us-east-1",
			"bytes": 12,
			"meta": {"sample": "a,b,c\n1,2,3\n"}
		}]
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", w.Code, body)
	}
	if body["ok"] != true || body["created"] != float64(1) || body["profiled"] != float64(1) {
		t.Fatalf("body = %v", body)
	}

	w, body = doJSON(t, router, http.MethodGet, "/api/assets?source_id=http-test-bulk", "")
	if w.Code != http.StatusOK || body["count"] != float64(1) {
		t.Fatalf("list: status = %d, body = %v", w.Code, body)
	}
	items := body["items"].([]any)
	id := items[0].(map[string]any)["id"].(string)

	w, body = doJSON(t, router, http.MethodGet, "/api/assets/"+id, "")
	if w.Code != http.StatusOK || body["locator"] != "s3://http-bulk/k1" {
		t.Fatalf("get: status = %d, body = %v", w.Code, body)
	}

	w, body = doJSON(t, router, http.MethodGet, "/profiles/s3://http-bulk/k1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("profile: status = %d, body = %v", w.Code, body)
	}
	if body["line_count"] != float64(2) || body["has_csv_header"] != true {
		t.Fatalf("profile body = %v", body)
	}

	w, body = doJSON(t, router, http.MethodGet, "/profiles/s3://http-bulk/missing", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing profile: status = %d", w.Code)
	}
	if errObj := body["error"].(map[string]any); errObj["code"] != response.CodeProfileNotFound {
		t.Fatalf("missing profile error = %v", errObj)
	}
}

func TestBulkIngestEndpointRejectsBadPayload(t *testing.T) {
	router := newTestRouter(t, "http-test-bad")

	w, body := doJSON(t, router, http.MethodPost, "/api/assets/bulk", `{"items": []}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %v", w.Code, body)
	}
	errObj := body["error"].(map[string]any)
	if errObj["code"] != response.CodeInvalidBulkPayload {
		t.Fatalf("error = %v", errObj)
	}
}

func TestCollectEndpoint(t *testing.T) {
	router := newTestRouter(t, "http-test-collect")

	w, body := doJSON(t, router, http.MethodPost, "/collect/meta", `{
		"source_id": "http-test-collect",
		"object_type": "bucket",
		"locator": "s3://http-collect",
		"extra": {"display_name": "http-collect"}
	}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %v", w.Code, body)
	}
	id, _ := body["id"].(string)
	if body["status"] != "stored" || id == "" {
		t.Fatalf("body = %v", body)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, "http-test-health")

	w, body := doJSON(t, router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || body["ok"] != true {
		t.Fatalf("status = %d, body = %v", w.Code, body)
	}
}
