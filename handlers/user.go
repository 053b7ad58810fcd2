package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/akarkode/authentication/pkg/middleware"
)

// RegisterUserRoutes mounts the protected user endpoints.
func RegisterUserRoutes(rg *gin.RouterGroup, ver middleware.Verifier) {
	g := rg.Group("/user")
	g.GET("/me", middleware.RequireAccessToken(ver), Me)
}

// Me returns the identity claims carried by the presented access token.
func Me(c *gin.Context) {
	v, ok := c.Get(middleware.ClaimsKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	claims, ok := v.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	resp := gin.H{
		"name":  claims["name"],
		"email": claims["email"],
	}
	if p, ok := claims["picture"].(string); ok && p != "" {
		resp["picture"] = p
	}
	c.JSON(http.StatusOK, resp)
}
