package controllers

import (
	"YouthHealth/handlers"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	Handler *handlers.AuthHandler
}

// NewAuthController creates a new AuthController with the given AuthHandler
func NewAuthController(authHandler *handlers.AuthHandler) *AuthController {
	return &AuthController{
		Handler: authHandler,
	}
}

// RegisterRoutes registers the public authentication routes
func (ac *AuthController) RegisterRoutes(router gin.IRouter) {
	router.POST("/auth/login", ac.Handler.Login)
	router.POST("/auth/logout", ac.Handler.Logout)
	router.POST("/users/register", ac.Handler.Register)
}
