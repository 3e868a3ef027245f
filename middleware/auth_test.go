package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tourism-backend/models"
	"tourism-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", Auth())
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/whoami", func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuth_MissingTokenRejected(t *testing.T) {
	rec := doRequest(newProtectedRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_InvalidTokenRejected(t *testing.T) {
	rec := doRequest(newProtectedRouter(), "garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_ValidTokenPasses(t *testing.T) {
	token, err := utils.GenerateAccessToken(7, []string{models.RoleUser})
	require.NoError(t, err)

	rec := doRequest(newProtectedRouter(), token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":7`)
}

func TestRequireRole_MissingRoleForbidden(t *testing.T) {
	token, err := utils.GenerateAccessToken(7, []string{models.RoleUser})
	require.NoError(t, err)

	rec := doRequest(newProtectedRouter(models.RoleAdmin), token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRole_HeldRolePasses(t *testing.T) {
	token, err := utils.GenerateAccessToken(7, []string{models.RoleUser, models.RoleAdmin})
	require.NoError(t, err)

	rec := doRequest(newProtectedRouter(models.RoleAdmin), token)
	assert.Equal(t, http.StatusOK, rec.Code)
}
