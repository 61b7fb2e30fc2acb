package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SantsL/PRYSMSClipsV0.1/internal/repository/mocks"
)

const testSecret = "middleware-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validToken(t *testing.T, userID uint) string {
	return signToken(t, jwt.MapClaims{"user_id": userID, "exp": time.Now().Add(time.Hour).Unix()}, testSecret)
}

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": UserID(c)})
	})
	return r
}

func do(r http.Handler, target, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := newRouter(Auth(testSecret))

	w := do(r, "/", "Bearer "+validToken(t, 42))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":42}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do(r, "/", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/", "Bearer "+signToken(t, jwt.MapClaims{"user_id": 1}, "other")).Code)

	expired := signToken(t, jwt.MapClaims{"user_id": 1, "exp": time.Now().Add(-time.Hour).Unix()}, testSecret)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/", "Bearer "+expired).Code)

	noUser := signToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}, testSecret)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/", "Bearer "+noUser).Code)
}

func TestOptionalAuth(t *testing.T) {
	r := newRouter(OptionalAuth(testSecret))

	w := do(r, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())

	w = do(r, "/?token="+validToken(t, 7), "")
	assert.JSONEq(t, `{"user_id":7}`, w.Body.String())

	w = do(r, "/", "Bearer "+validToken(t, 9))
	assert.JSONEq(t, `{"user_id":9}`, w.Body.String())

	w = do(r, "/?token=garbage", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0}`, w.Body.String())
}

func TestRateLimit(t *testing.T) {
	state := new(mocks.StateRepository)
	r := newRouter(RateLimit(state, 2, time.Second))

	state.On("CheckRateLimit", mock.Anything, mock.AnythingOfType("string"), 2, time.Second).Return(false, nil).Once()
	state.On("CheckRateLimit", mock.Anything, mock.AnythingOfType("string"), 2, time.Second).Return(true, nil).Once()
	state.On("CheckRateLimit", mock.Anything, mock.AnythingOfType("string"), 2, time.Second).Return(false, errors.New("redis down")).Once()

	assert.Equal(t, http.StatusOK, do(r, "/", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, "/", "").Code)
	assert.Equal(t, http.StatusInternalServerError, do(r, "/", "").Code)
	state.AssertExpectations(t)
}
