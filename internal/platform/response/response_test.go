package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamroads/service-trip/internal/platform/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.NewNotFoundError("Trip", "x"), http.StatusNotFound},
		{domain.NewValidationError("bad"), http.StatusBadRequest},
		{domain.NewConflictError("stale"), http.StatusConflict},
		{domain.NewForbiddenError("no"), http.StatusForbidden},
		{domain.NewUnauthorizedError("who"), http.StatusUnauthorized},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		Error(c, tc.err)
		assert.Equal(t, tc.want, w.Code, tc.err.Error())
	}
}

func TestInternalErrorHidesMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Error(c, errors.New("pq: connection refused"))

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "internal server error", env.Error.Message)
}

func TestPaginatedMeta(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Paginated(c, []string{"a"}, 41, 2, 20)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Meta)
	assert.Equal(t, 3, env.Meta.TotalPages)
	assert.Equal(t, 2, env.Meta.Page)
}
