package internal

import (
	"net/http"
	"time"

	"ludic-admin/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const cookieName = "ludic_token"

type claims struct {
	UserID int64  `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

func Auth(secret string, revocations Revocations) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(cookieName)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется вход"})
			return
		}

		tok, err := jwt.ParseWithClaims(tokenStr, &claims{}, func(token *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithIssuer(issuer))
		if err != nil || !tok.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Недействительный токен"})
			return
		}

		cl, ok := tok.Claims.(*claims)
		if !ok || cl.ID == "" || cl.ExpiresAt == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Недействительный токен"})
			return
		}

		revoked, err := revocations.Revoked(c.Request.Context(), cl.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Не удалось проверить сессию"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Сессия завершена"})
			return
		}

		c.Set("uid", cl.UserID)
		c.Set("role", cl.Role)
		c.Set("jti", cl.ID)
		c.Set("exp", cl.ExpiresAt.Time)
		c.Request = c.Request.WithContext(withActor(c.Request.Context(), cl.UserID))
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": errAdminOnly})
			return
		}
		c.Next()
	}
}

// WithSession attaches the screens of the current token. It runs after Auth.
func WithSession(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		exp, _ := c.Get("exp")
		expires, _ := exp.(time.Time)
		c.Set("session", sessions.Get(c.GetString("jti"), expires))
		c.Next()
	}
}

func uid(c *gin.Context) int64 {
	v, _ := c.Get("uid")
	id, _ := v.(int64)
	return id
}

func session(c *gin.Context) *Session {
	v, _ := c.Get("session")
	return v.(*Session)
}

// RequestLogger logs one line per request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if id := uid(c); id != 0 {
			fields = append(fields, zap.Int64("uid", id))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			var err error
			if last := c.Errors.Last(); last != nil {
				err = last.Err
			}
			log.Warn("request failed", err, fields...)
			return
		}
		log.Debug("request", fields...)
	}
}
