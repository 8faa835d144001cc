package handlers

import (
	"net/http"

	"quizbuilder/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService *services.AuthService
	cookie      CookieConfig
	log         *logrus.Logger
}

func NewAuthHandler(authService *services.AuthService, cookie CookieConfig, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
		log:         log,
	}
}

func (h *AuthHandler) SignUp(c *gin.Context) {
	var req services.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.CredentialsRequired})
		return
	}

	res, err := h.authService.SignUp(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.cookie.set(c, res.Token)
	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully", "data": res.User})
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req services.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.CredentialsRequired})
		return
	}

	res, err := h.authService.SignIn(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	h.cookie.set(c, res.Token)
	c.JSON(http.StatusOK, gin.H{"message": "Sign in successfully", "data": res.User})
}

// SignOut always clears the cookie; a failed revocation is only logged.
func (h *AuthHandler) SignOut(c *gin.Context) {
	token, _ := c.Cookie(services.SessionCookieName)
	if err := h.authService.SignOut(c.Request.Context(), token); err != nil {
		h.log.WithError(err).Warn("failed to revoke session")
	}

	h.cookie.clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "Sign out successfully"})
}

func (h *AuthHandler) CheckAuth(c *gin.Context) {
	token, _ := c.Cookie(services.SessionCookieName)

	ok, err := h.authService.CheckAuth(c.Request.Context(), token)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"isAuthenticated": ok})
}

func (h *AuthHandler) GetUser(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}
