package api

import (
	"log"
	"net/http"
	"strings"

	"selvaquiz/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// CORSMiddleware adds permissive CORS headers to every response and answers
// preflight OPTIONS requests with an empty 200.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS,PATCH,DELETE,POST,PUT")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "X-CSRF-Token, X-Requested-With, Accept, Accept-Version, Content-Length, Content-MD5, Content-Type, Date, X-Api-Version, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

// AuthRequired resolves the bearer token via the auth collaborator and puts
// the user identity into the context. Requests without a valid token never
// reach the handler.
func AuthRequired(auth handlers.AuthClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Missing environment variables"})
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		user, err := auth.GetUser(c.Request.Context(), token)
		if err != nil {
			log.Printf("WARN: token resolution failed: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(handlers.ContextUserKey, user)
		c.Next()
	}
}
