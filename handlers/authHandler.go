package handlers

import (
	"YouthHealth/models"
	"YouthHealth/services"
	"YouthHealth/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service services.AuthService
}

func NewAuthHandler(service services.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login authenticates the user and returns the session token with the profile
func (h *AuthHandler) Login(c *gin.Context) {
	var creds models.Credentials
	if !bindJSON(c, &creds) {
		return
	}

	session, err := h.service.Login(c.Request.Context(), creds)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SetAuthCookie(c, session.Token)
	c.JSON(http.StatusOK, session)
}

// Register handles new user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var reg models.Registration
	if !bindJSON(c, &reg) {
		return
	}

	user, err := h.service.Register(c.Request.Context(), reg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	utils.ClearAuthCookie(c)
	c.Status(http.StatusNoContent)
}
