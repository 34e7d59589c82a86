package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func protectedRouter(token string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TokenMiddleware(token))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r
}

func get(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenMiddleware_MissingToken(t *testing.T) {
	w := get(protectedRouter("secret"), "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Unauthenticated. API token is required."}`, w.Body.String())
}

func TestTokenMiddleware_NonBearerScheme(t *testing.T) {
	w := get(protectedRouter("secret"), "Basic c2VjcmV0")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Unauthenticated. API token is required."}`, w.Body.String())
}

func TestTokenMiddleware_InvalidToken(t *testing.T) {
	w := get(protectedRouter("secret"), "Bearer wrong")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Unauthenticated. Invalid API token."}`, w.Body.String())
}

func TestTokenMiddleware_EmptyConfiguredToken(t *testing.T) {
	// A server without a configured secret must not accept anything.
	w := get(protectedRouter(""), "Bearer anything")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"Unauthenticated. Invalid API token."}`, w.Body.String())
}

func TestTokenMiddleware_ValidToken(t *testing.T) {
	w := get(protectedRouter("secret"), "Bearer secret")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
}

func TestTokenMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	w := get(protectedRouter("secret"), "bearer secret")

	assert.Equal(t, http.StatusOK, w.Code)
}
