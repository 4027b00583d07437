package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestIDRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"rid": GetRequestID(c.Request.Context())})
	})
	return r
}

func TestRequestID_MintedWhenAbsent(t *testing.T) {
	r := newRequestIDRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)

	rid := w.Header().Get("X-Request-Id")
	require.NotEmpty(t, rid)

	_, err := uuid.Parse(rid)
	assert.NoError(t, err, "minted ids are uuids")
	assert.Contains(t, w.Body.String(), rid, "handler sees the same id via context")
}

func TestRequestID_IncomingHeaderKept(t *testing.T) {
	r := newRequestIDRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "upstream-trace-42")
	r.ServeHTTP(w, req)

	assert.Equal(t, "upstream-trace-42", w.Header().Get("X-Request-Id"))
}
