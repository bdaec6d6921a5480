package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentalapp/internal/auth"
	"rentalapp/internal/models"
	"rentalapp/internal/storage"
)

// ServerInterface is what the route groups need from the server.
type ServerInterface interface {
	GetDB() *models.DB
	GetStorage() *storage.S3Service
	GetLogger() *zap.Logger
}

type Middleware struct {
	server ServerInterface
}

func NewMiddleware(server ServerInterface) *Middleware {
	return &Middleware{server: server}
}

// TokenAuthMiddleware authenticates the `Authorization: Token <hex>`
// header and stores the user and token row in the request context.
func (m *Middleware) TokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Authentication credentials were not provided.",
				"code":   "not_authenticated",
			})
			return
		}

		plain, found := strings.CutPrefix(header, "Token ")
		if !found || !auth.ValidTokenFormat(plain) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Invalid token.",
				"code":   "not_authenticated",
			})
			return
		}

		db := m.server.GetDB()
		user, token, err := db.Tokens.Resolve(plain)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Invalid token.",
				"code":   "not_authenticated",
			})
			return
		}

		c.Set("user", user)
		c.Set("token", token)
		c.Next()
	}
}

// currentUser pulls the authenticated user out of the request context.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet("user").(*models.User)
}

// currentToken pulls the authenticated token row out of the request context.
func currentToken(c *gin.Context) *models.AuthToken {
	return c.MustGet("token").(*models.AuthToken)
}
