// File: /middleware/auth.go
package middleware

import (
	"errors"
	"fitcrew-api/services"
	"fitcrew-api/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware requires a valid bearer token and stores the caller in
// "user_id" and "email".
func AuthMiddleware(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			utils.SendAbort(c, http.StatusUnauthorized, "Not authorized, no token")
			return
		}

		claims, err := users.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			var se *services.ServiceError
			if errors.As(err, &se) {
				utils.SendAbort(c, http.StatusUnauthorized, se.Message)
				return
			}
			c.Error(err)
			utils.SendAbort(c, http.StatusInternalServerError, "Server error")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
