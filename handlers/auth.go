package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akarkode/authentication/internal/config"
	"github.com/akarkode/authentication/internal/logins"
	"github.com/akarkode/authentication/internal/oauth"
	"github.com/akarkode/authentication/internal/tokens"
	"github.com/akarkode/authentication/internal/users"
	"github.com/akarkode/authentication/pkg/logger"
	"github.com/akarkode/authentication/pkg/metrics"
)

// Cookie names carrying the issued tokens.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// AuthHandler holds dependencies for the Google login flow
type AuthHandler struct {
	cfg       *config.Config
	exchanger oauth.Exchanger
	logins    *logins.Service
	directory *users.Directory
	tokens    *tokens.Service
}

func NewAuthHandler(cfg *config.Config, ex oauth.Exchanger, l *logins.Service, d *users.Directory, t *tokens.Service) *AuthHandler {
	return &AuthHandler{cfg: cfg, exchanger: ex, logins: l, directory: d, tokens: t}
}

// Register routes under /google
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/google")
	g.GET("/login", h.Login)
	g.GET("/callback", h.Callback)
}

// Login stores a fresh login state and redirects to the provider consent
// page. Never fails toward the provider; only state persistence can error.
func (h *AuthHandler) Login(c *gin.Context) {
	state, err := h.logins.Begin(c.Request.Context(), sanitizeReturnTo(c.Query("next")))
	if err != nil {
		logger.Errorf("failed to store login state: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login unavailable"})
		return
	}
	metrics.LoginsStarted.Inc()
	c.Redirect(http.StatusTemporaryRedirect, h.exchanger.AuthCodeURL(state))
}

// Callback drives the whole post-consent sequence: consume state, exchange
// the code, look up or create the user, issue both tokens as cookies and
// redirect. Any failure aborts the flow; the user restarts at /google/login.
func (h *AuthHandler) Callback(c *gin.Context) {
	ctx := c.Request.Context()

	login, err := h.logins.Consume(ctx, c.Query("state"))
	if err != nil {
		logger.Errorf("login state lookup failed: %v", err)
		h.fail(c)
		return
	}
	if login == nil {
		logger.Warnf("callback with unknown or reused state")
		h.fail(c)
		return
	}

	code := c.Query("code")
	if code == "" {
		h.fail(c)
		return
	}

	identity, err := h.exchanger.Exchange(ctx, code)
	if err != nil {
		// provider detail goes to the log, never to the client
		logger.Errorf("identity exchange failed: %v", err)
		h.fail(c)
		return
	}

	user, err := h.directory.LookupOrCreate(ctx, oauth.Provider, identity)
	if err != nil {
		if errors.Is(err, users.ErrIdentityConflict) {
			logger.Warnf("identity conflict for %s/%s", oauth.Provider, identity.Sub)
			metrics.CallbacksCompleted.WithLabelValues("conflict").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": "account conflict"})
			return
		}
		logger.Errorf("user lookup-or-create failed: %v", err)
		h.fail(c)
		return
	}
	logger.Debugf("callback resolved user id=%s provider_user_id=%s", user.ID, user.ProviderUserID)

	// tokens carry the fresh provider claims, not the stored row; a stale
	// profile in the directory does not leak into new tokens and vice versa
	payload := map[string]interface{}{
		"name":  identity.Name,
		"email": identity.Email,
	}
	if identity.Picture != "" {
		payload["picture"] = identity.Picture
	}

	access, err := h.tokens.IssueAccess(payload)
	if err != nil {
		logger.Errorf("access token issuance failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	refresh, err := h.tokens.IssueRefresh(payload)
	if err != nil {
		logger.Errorf("refresh token issuance failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	metrics.TokensIssued.WithLabelValues(tokens.TypeAccess).Inc()
	metrics.TokensIssued.WithLabelValues(tokens.TypeRefresh).Inc()

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AccessTokenCookie, access, int(h.tokens.AccessTTL().Seconds()), "/", "", h.cfg.Cookie.Secure, h.cfg.Cookie.HTTPOnly)
	c.SetCookie(RefreshTokenCookie, refresh, int(h.tokens.RefreshTTL().Seconds()), "/", "", h.cfg.Cookie.Secure, h.cfg.Cookie.HTTPOnly)

	metrics.CallbacksCompleted.WithLabelValues("success").Inc()
	target := login.ReturnTo
	if target == "" {
		target = h.cfg.Cookie.PostLoginRedirect
	}
	c.Redirect(http.StatusTemporaryRedirect, target)
}

// fail answers every aborted callback identically so clients cannot probe
// which step broke.
func (h *AuthHandler) fail(c *gin.Context) {
	metrics.CallbacksCompleted.WithLabelValues("failure").Inc()
	c.JSON(http.StatusBadRequest, gin.H{"error": "login failed"})
}

// sanitizeReturnTo keeps the post-login redirect on-site. Absolute and
// protocol-relative URLs are dropped.
func sanitizeReturnTo(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return ""
	}
	return next
}
