package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() *Handler {
	return &Handler{JWTSecret: []byte("test-secret")}
}

func authRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/anonid", h.GetAnonID)
	r.GET("/whoami", h.AuthRequired(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"anon_id": anonID(c)})
	})
	return r
}

func TestTokenRoundTrip(t *testing.T) {
	h := newTestHandler()

	token, err := h.generateJWT("device-123")
	require.NoError(t, err)

	id, err := h.validateAndGetAnonID(token)
	require.NoError(t, err)
	assert.Equal(t, "device-123", id)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	h := newTestHandler()
	token, err := h.generateJWT("device-123")
	require.NoError(t, err)

	other := &Handler{JWTSecret: []byte("different-secret")}
	_, err = other.validateAndGetAnonID(token)
	assert.Error(t, err)
}

func TestGetAnonIDIssuesUsableToken(t *testing.T) {
	h := newTestHandler()
	r := authRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/anonid", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Token  string `json:"token"`
		AnonID string `json:"anon_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	require.NotEmpty(t, body.AnonID)

	// The issued pair gets a device through the auth middleware.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var who struct {
		AnonID string `json:"anon_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &who))
	assert.Equal(t, body.AnonID, who.AnonID)
}

func TestAuthRequiredMissingToken(t *testing.T) {
	r := authRouter(newTestHandler())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredGarbageToken(t *testing.T) {
	r := authRouter(newTestHandler())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBearerTokenQueryFallback(t *testing.T) {
	h := newTestHandler()
	token, err := h.generateJWT("device-ws")
	require.NoError(t, err)

	r := authRouter(h)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami?token="+token, nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
