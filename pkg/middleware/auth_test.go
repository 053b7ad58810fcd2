package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/akarkode/authentication/internal/tokens"
)

func newTestStack(t *testing.T) (*tokens.Service, *tokens.Verifier) {
	t.Helper()
	codec, err := tokens.NewCodec("middleware-test-secret-32-bytes-xx", "HS256")
	require.NoError(t, err)
	return tokens.NewService(codec, 0, 0), tokens.NewVerifier(codec)
}

func serve(ver Verifier, req *http.Request) *httptest.ResponseRecorder {
	g := gin.New()
	g.GET("/", RequireAccessToken(ver), func(c *gin.Context) {
		claims, _ := c.Get(ClaimsKey)
		c.JSON(http.StatusOK, gin.H{"claims": claims})
	})
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestRequireAccessToken_NoHeader(t *testing.T) {
	_, ver := newTestStack(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rw := serve(ver, req)
	require.Equal(t, http.StatusForbidden, rw.Code)
}

func TestRequireAccessToken_MalformedHeader(t *testing.T) {
	_, ver := newTestStack(t)
	for _, h := range []string{"BadHeader", "Bearer", "Basic abc"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", h)
		rw := serve(ver, req)
		require.Equal(t, http.StatusUnauthorized, rw.Code, "header %q", h)
	}
}

func TestRequireAccessToken_ValidToken(t *testing.T) {
	svc, ver := newTestStack(t)
	tok, err := svc.IssueAccess(map[string]interface{}{"name": "Ann", "email": "ann@x.com"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rw := serve(ver, req)

	require.Equal(t, http.StatusOK, rw.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.Contains(t, got, "claims")
}

func TestRequireAccessToken_InvalidToken(t *testing.T) {
	_, ver := newTestStack(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rw := serve(ver, req)

	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "invalid or expired token")
}

func TestRequireAccessToken_ExpiredToken(t *testing.T) {
	codec, err := tokens.NewCodec("middleware-test-secret-32-bytes-xx", "HS256")
	require.NoError(t, err)
	svc := tokens.NewService(codec, time.Nanosecond, 0)
	ver := tokens.NewVerifier(codec)

	tok, err := svc.IssueAccess(map[string]interface{}{"name": "Ann"})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rw := serve(ver, req)

	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "invalid or expired token")
}

// A syntactically valid refresh token must be rejected with a wrong-type
// message, not the generic invalid-token one.
func TestRequireAccessToken_RefreshTokenRejected(t *testing.T) {
	svc, ver := newTestStack(t)
	tok, err := svc.IssueRefresh(map[string]interface{}{"name": "Ann"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rw := serve(ver, req)

	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.True(t, strings.Contains(rw.Body.String(), "wrong token type"), "body: %s", rw.Body.String())
}
