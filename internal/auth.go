package internal

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"ludic-admin/internal/admin"
	"ludic-admin/internal/logger"
	"ludic-admin/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const issuer = "ludic-admin"

// Accounts looks up the players that may sign in.
type Accounts interface {
	AdminByEmail(ctx context.Context, email string) (Account, error)
	ByID(ctx context.Context, id int64) (admin.Player, error)
}

// TokenOptions configure the session cookie.
type TokenOptions struct {
	Secret string
	TTL    time.Duration
	Secure bool
}

func issueToken(a Account, opts TokenOptions, now time.Time) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: a.ID,
		Role:   a.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   a.Email,
			ExpiresAt: jwt.NewNumericDate(now.Add(opts.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	})
	return tok.SignedString([]byte(opts.Secret))
}

// Login signs in an admin. Players without the admin role cannot use this surface.
func Login(accounts Accounts, audit admin.Auditor, opts TokenOptions, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errBadJSON})
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))
		if email == "" || strings.TrimSpace(req.Password) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Пожалуйста, заполните все поля"})
			return
		}

		a, err := accounts.AdminByEmail(c.Request.Context(), email)
		if err != nil {
			if !errors.Is(err, admin.ErrNotFound) {
				log.Error("account lookup failed", err)
				metrics.LoginsTotal.WithLabelValues("error").Inc()
				c.JSON(http.StatusBadGateway, gin.H{"error": errDB})
				return
			}
			metrics.LoginsTotal.WithLabelValues("denied").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный email или пароль"})
			return
		}
		if a.PassHash == "" || bcrypt.CompareHashAndPassword([]byte(a.PassHash), []byte(req.Password)) != nil {
			metrics.LoginsTotal.WithLabelValues("denied").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный email или пароль"})
			return
		}
		if a.Role != string(admin.RoleAdmin) {
			metrics.LoginsTotal.WithLabelValues("forbidden").Inc()
			c.JSON(http.StatusForbidden, gin.H{"error": errAdminOnly})
			return
		}

		s, err := issueToken(a, opts, time.Now())
		if err != nil {
			log.Error("sign token", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось выдать токен"})
			return
		}
		c.SetCookie(cookieName, s, int(opts.TTL.Seconds()), "/", "", opts.Secure, true)

		audit.Record(withActor(c.Request.Context(), a.ID), "login", gin.H{"result": "success"})
		metrics.LoginsTotal.WithLabelValues("success").Inc()
		log.Info("admin signed in", zap.Int64("uid", a.ID))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// Logout revokes the current token and forgets the screens bound to it.
func Logout(revocations Revocations, sessions *Sessions, opts TokenOptions, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		jti := c.GetString("jti")
		if exp, ok := c.Get("exp"); ok && jti != "" {
			ttl := time.Until(exp.(time.Time))
			if err := revocations.Revoke(c.Request.Context(), jti, ttl); err != nil {
				log.Warn("token revocation failed", err, zap.String("jti", jti))
			}
			sessions.Drop(jti)
		}
		c.SetCookie(cookieName, "", -1, "/", "", opts.Secure, true)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

func Me(accounts Accounts) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := accounts.ByID(c.Request.Context(), uid(c))
		if err != nil {
			if errors.Is(err, admin.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Аккаунт больше не существует"})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": errDB})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
