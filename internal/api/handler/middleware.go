package handler

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"connecto/backend/internal/models"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

// Ключі контексту Gin, які заповнює RequireAuth.
const (
	ctxUserID    = "userID"
	ctxUserEmail = "userEmail"
)

// RequireAuth — middleware, що перетворює токен сесії на перевірену
// особу. Сесія шукається за cookie (основний шлях) або за bearer-токеном.
// Відмова завжди закрита: жодного анонімного режиму.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := h.authenticate(c.Request)
		if err != nil {
			log.Printf("auth error: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		c.Set(ctxUserID, session.UserID)
		c.Set(ctxUserEmail, session.Email)
		c.Next()
	}
}

// authenticate дістає токен сесії з запиту і перевіряє його в сховищі
// сесій. Повертає (nil, nil), якщо токена немає або сесія протухла.
func (h *Handler) authenticate(r *http.Request) (*models.SessionData, error) {
	sessionID := h.sessionIDFromRequest(r)
	if sessionID == "" {
		return nil, nil
	}
	return h.Storage.GetSession(sessionID)
}

// sessionIDFromRequest шукає токен спершу в cookie, потім у заголовку
// Authorization (bearer-токен для WebSocket handshake).
func (h *Handler) sessionIDFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(h.Cfg.SessionCookieName); err == nil && cookie.Value != "" {
		return stripCookieEnvelope(cookie.Value)
	}

	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		sessionID, err := h.sessionIDFromToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			log.Printf("invalid bearer token: %v", err)
			return ""
		}
		return sessionID
	}

	return ""
}

// stripCookieEnvelope знімає підписаний конверт cookie-значення у форматі
// `s:<sid>.<sig>`. Непідписане значення повертається як є.
func stripCookieEnvelope(value string) string {
	if !strings.HasPrefix(value, "s:") {
		return value
	}
	value = strings.TrimPrefix(value, "s:")
	if i := strings.LastIndex(value, "."); i >= 0 {
		value = value[:i]
	}
	return value
}

// sessionIDFromToken перевіряє підпис bearer-токена (HS256, спільний
// секрет із auth-сервісом) і дістає з нього ID сесії. Сам токен — лише
// конверт: сесія все одно перевіряється у сховищі.
func (h *Handler) sessionIDFromToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(h.Cfg.JWTSecret), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token claims")
	}
	sessionID, ok := claims["sid"].(string)
	if !ok || sessionID == "" {
		return "", errors.New("token is missing session id")
	}
	return sessionID, nil
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
