package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"flocknet/internal/domain"
	"flocknet/internal/service"
)

// authCookie is the session cookie carrying the signed token.
const authCookie = "jwt"

const userContextKey = "flocknet.user"

type signupRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.FullName, req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.setAuthCookie(c, user.ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userToResponse(user))
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.setAuthCookie(c, user.ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(authCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) me(c *gin.Context) {
	c.JSON(http.StatusOK, userToResponse(currentUser(c)))
}

// authRequired verifies the session cookie and loads the caller into the
// request context. Handlers behind it never see raw credentials, only an
// already-authenticated user.
func (h *Handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(authCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: no token provided"})
			return
		}

		userID, err := h.verifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: invalid token"})
			return
		}

		user, err := h.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: unknown user"})
				return
			}
			h.respondError(c, err)
			c.Abort()
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	return c.MustGet(userContextKey).(*domain.User)
}

func (h *Handler) setAuthCookie(c *gin.Context, userID string) error {
	token, err := h.issueToken(userID)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(authCookie, token, int(h.tokenTTL.Seconds()), "/", "", false, true)
	return nil
}

func (h *Handler) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
}

func (h *Handler) verifyToken(tokenStr string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", t.Method)
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}
