package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shop-api/internal/domain"
)

const (
	userCtxKey  = "user"
	ownerCtxKey = "cart_owner"
)

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

// authenticate attaches the user of a bearer token when one is sent. Requests
// without an Authorization header pass through anonymously; a header that
// does not resolve to a user is rejected.
func (h *handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		token, ok := bearerToken(header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "invalid authorization header"})
			return
		}
		user, err := h.deps.AccountSvc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.Set(userCtxKey, user)
		c.Next()
	}
}

func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "authentication credentials were not provided"})
			return
		}
		c.Next()
	}
}

// cartOwner resolves who the cart routes act for and hands new anonymous
// sessions to the client as a cookie.
func (h *handler) cartOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID *int64
		if u := currentUser(c); u != nil {
			id := u.ID
			userID = &id
		}
		sid, _ := c.Cookie(h.opts.SessionCookie)
		res := h.deps.Identity.Resolve(c.Request.Context(), userID, sid)
		if res.NewSession {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(h.opts.SessionCookie, res.SessionID, int(h.opts.SessionTTL.Seconds()), "/", "", h.opts.SecureCookies, true)
		}
		c.Set(ownerCtxKey, res.Owner)
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}

func currentOwner(c *gin.Context) domain.Owner {
	v, _ := c.Get(ownerCtxKey)
	owner, _ := v.(domain.Owner)
	return owner
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
