package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/datium-labs/dspm-analyzer/internal/platform/logger"
)

func authRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	router := gin.New()
	router.Use(CollectorAuth(secret, log))
	router.POST("/ingest", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"collector_id": c.GetString("collector_id")})
	})
	return router
}

func signToken(t *testing.T, secret, sub string, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestCollectorAuth(t *testing.T) {
	router := authRouter(t, "test-secret")

	do := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := do(""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no header: status = %d, want 401", w.Code)
	}
	if w := do("Bearer not-a-token"); w.Code != http.StatusUnauthorized {
		t.Fatalf("garbage token: status = %d, want 401", w.Code)
	}
	if w := do("Bearer " + signToken(t, "wrong-secret", "c1", jwt.SigningMethodHS256)); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: status = %d, want 401", w.Code)
	}

	good := do("Bearer " + signToken(t, "test-secret", "collector-7", jwt.SigningMethodHS256))
	if good.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, body = %s", good.Code, good.Body.String())
	}
	if body := good.Body.String(); body != `{"collector_id":"collector-7"}` {
		t.Fatalf("collector_id not propagated: %s", body)
	}
}

func TestCollectorAuthDisabledWithoutSecret(t *testing.T) {
	router := authRouter(t, "")

	req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("open mode: status = %d, want 200", w.Code)
	}
}
