package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"flocknet/internal/domain"
	"flocknet/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users         service.UserService
	social        service.SocialService
	notifications service.NotificationService
	jwtSecret     string
	tokenTTL      time.Duration
	logger        *logrus.Logger
}

func NewHandler(
	users service.UserService,
	social service.SocialService,
	notifications service.NotificationService,
	jwtSecret string,
	tokenTTL time.Duration,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		users:         users,
		social:        social,
		notifications: notifications,
		jwtSecret:     jwtSecret,
		tokenTTL:      tokenTTL,
		logger:        logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/auth/signup", h.signup)
		api.POST("/auth/login", h.login)
		api.POST("/auth/logout", h.logout)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}

	authed := api.Group("", h.authRequired())
	{
		authed.GET("/auth/me", h.me)
		authed.POST("/follow-toggle/:id", h.toggleFollow)
		authed.GET("/suggested", h.suggestedUsers)
		authed.GET("/profile/:username", h.getProfile)
		authed.POST("/profile/update", h.updateProfile)
		authed.GET("/notifications", h.listNotifications)
		authed.DELETE("/notifications", h.clearNotifications)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) toggleFollow(c *gin.Context) {
	actor := currentUser(c)
	state, err := h.social.ToggleFollow(c.Request.Context(), actor.ID, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (h *Handler) suggestedUsers(c *gin.Context) {
	caller := currentUser(c)
	users, err := h.social.SuggestedUsers(c.Request.Context(), caller.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getProfile(c *gin.Context) {
	user, err := h.users.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

type updateProfileRequest struct {
	FullName        *string `json:"fullName"`
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	Bio             *string `json:"bio"`
	Link            *string `json:"link"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
	ProfileImg      *string `json:"profileImg"`
	CoverImg        *string `json:"coverImg"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := currentUser(c)
	user, err := h.users.UpdateProfile(c.Request.Context(), caller.ID, service.ProfileUpdate{
		FullName:        req.FullName,
		Username:        req.Username,
		Email:           req.Email,
		Bio:             req.Bio,
		Link:            req.Link,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ProfileImg:      req.ProfileImg,
		CoverImg:        req.CoverImg,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(user))
}

func (h *Handler) listNotifications(c *gin.Context) {
	caller := currentUser(c)
	notifications, err := h.notifications.ListForUser(c.Request.Context(), caller.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]NotificationResponse, len(notifications))
	for i := range notifications {
		resp[i] = notificationToResponse(notifications[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) clearNotifications(c *gin.Context) {
	caller := currentUser(c)
	if err := h.notifications.ClearForUser(c.Request.Context(), caller.ID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notifications deleted"})
}

// respondError maps service errors to HTTP statuses. Unrecognized errors are
// logged and surfaced as a generic 500 so internals never leak to clients.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrSelfAction),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// UserResponse is the client-facing view of a user. It carries no password
// field, so credentials cannot leak through serialization.
type UserResponse struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	FullName   string   `json:"fullName"`
	Email      string   `json:"email"`
	Bio        string   `json:"bio"`
	Link       string   `json:"link"`
	ProfileImg string   `json:"profileImg"`
	CoverImg   string   `json:"coverImg"`
	Followers  []string `json:"followers"`
	Following  []string `json:"following"`
	CreatedAt  string   `json:"createdAt"`
	UpdatedAt  string   `json:"updatedAt"`
}

func userToResponse(user *domain.User) UserResponse {
	resp := UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		FullName:   user.FullName,
		Email:      user.Email,
		Bio:        user.Bio,
		Link:       user.Link,
		ProfileImg: user.ProfileImg,
		CoverImg:   user.CoverImg,
		Followers:  user.Followers,
		Following:  user.Following,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  user.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Followers == nil {
		resp.Followers = []string{}
	}
	if resp.Following == nil {
		resp.Following = []string{}
	}
	return resp
}

type NotificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	From      string `json:"from"`
	To        string `json:"to"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt"`
}

func notificationToResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		From:      n.FromID,
		To:        n.ToID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
}
