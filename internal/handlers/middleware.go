package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"ecostudy/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	ctxUserID   = "userId"
	ctxUserName = "userName"

	adminKeyHeader = "X-Admin-Key"

	errMissingAuth   = "missing Authorization header"
	errBadAuthFormat = "invalid Authorization header format"
	errBadToken      = "invalid or expired token"
	errMissingAdmin  = "missing " + adminKeyHeader + " header"
	errBadAdmin      = "invalid admin key"
)

// userIdentity rejects requests without a bearer token (401) or with one
// that fails verification (403).
func (h *Handler) userIdentity(c *gin.Context) {
	token, status, msg := bearerToken(c.GetHeader("Authorization"))
	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"error": msg})
		return
	}
	h.authenticate(c, token)
}

func (h *Handler) authenticate(c *gin.Context, token string) {
	id, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Debugw("auth_token_rejected", "path", c.FullPath(), "expired", errors.Is(err, service.ErrTokenExpired), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errBadToken})
		return
	}

	// store in Gin context
	c.Set(ctxUserID, id.UserID)
	c.Set(ctxUserName, id.Name)
	c.Next()
}

// bearerToken extracts the token from an Authorization header value. A
// non-zero status means the header is missing or malformed.
func bearerToken(header string) (string, int, string) {
	if header == "" {
		return "", http.StatusUnauthorized, errMissingAuth
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", http.StatusUnauthorized, errBadAuthFormat
	}
	return strings.TrimSpace(parts[1]), 0, ""
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// adminKey guards admin routes with the configured seed key. With no key
// configured the routes stay open.
func (h *Handler) adminKey(c *gin.Context) {
	if h.opts.SeedKey == "" {
		c.Next()
		return
	}
	got := c.GetHeader(adminKeyHeader)
	if got == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMissingAdmin})
		return
	}
	if subtle.ConstantTimeCompare([]byte(got), []byte(h.opts.SeedKey)) != 1 {
		if h.log != nil {
			h.log.Warnw("admin_key_rejected", "path", c.FullPath(), "client_ip", c.ClientIP())
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errBadAdmin})
		return
	}
	c.Next()
}

func (h *Handler) corsMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", adminKeyHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range h.opts.CORSOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			break
		}
	}
	if !cfg.AllowAllOrigins && len(h.opts.CORSOrigins) > 0 {
		cfg.AllowOrigins = h.opts.CORSOrigins
	} else {
		cfg.AllowAllOrigins = true
	}
	return cors.New(cfg)
}

// requestLogger writes one line per request after it is served.
func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	if h.log == nil {
		return
	}
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", path,
		"status", c.Writer.Status(),
		"latency_ms", time.Since(start).Milliseconds(),
		"client_ip", c.ClientIP(),
	)
}

// wsIdentity is userIdentity that also accepts ?token= when no
// Authorization header is sent.
func (h *Handler) wsIdentity(c *gin.Context) {
	if c.GetHeader("Authorization") != "" {
		h.userIdentity(c)
		return
	}
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMissingAuth})
		return
	}
	h.authenticate(c, token)
}
