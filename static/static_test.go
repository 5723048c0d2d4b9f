package static

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicHandlerServesIndex(t *testing.T) {
	h, err := PublicHandler(PublicFS)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", PublicPathPrefix, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "timewarp bucketing API")
}

func TestSwaggerHandlerOrPanicServesValidJSON(t *testing.T) {
	h := SwaggerHandlerOrPanic("openapi.json", OpenAPIFS)

	req := httptest.NewRequest("GET", OpenAPIPath, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "timewarp bucketing API")
}

func TestSwaggerHandlerOrPanicPanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() {
		SwaggerHandlerOrPanic("does-not-exist.json", OpenAPIFS)
	})
}
