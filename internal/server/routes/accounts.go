package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentalapp/internal/auth"
	"rentalapp/internal/models"
	"rentalapp/internal/validators"
)

type AccountRoutes struct {
	server ServerInterface
}

func NewAccountRoutes(server ServerInterface) *AccountRoutes {
	return &AccountRoutes{server: server}
}

func (ar *AccountRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(ar.server)

	r.POST("/accounts/registration", ar.registrationHandler)
	r.POST("/accounts/login", ar.loginHandler)
	r.POST("/accounts/logout", middleware.TokenAuthMiddleware(), ar.logoutHandler)
	r.POST("/accounts/logoutall", middleware.TokenAuthMiddleware(), ar.logoutAllHandler)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// registrationHandler creates a user and returns a fresh token, so a new
// account is signed in immediately.
func (ar *AccountRoutes) registrationHandler(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"registration-errors": gin.H{
			"non_field_errors": []string{"Invalid request body."},
		}})
		return
	}

	db := ar.server.GetDB()

	errs := validators.FieldErrors{}
	validators.Username(req.Username, errs)
	validators.Password(req.Password, errs)

	if errs.Empty() {
		taken, err := db.Users.UsernameTaken(req.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
		if taken {
			errs.Add("username", "A user with that username already exists.", "unique")
		}
	}

	if !errs.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"registration-errors": errs})
		return
	}

	user := &models.User{Username: req.Username}
	if err := user.SetPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	if err := db.Users.Create(user); err != nil {
		ar.server.GetLogger().Error("user creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	plain, token, err := db.Tokens.Issue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expiry": auth.FormatExpiry(token.ExpiresAt),
		"token":  plain,
	})
}

// loginHandler checks credentials and issues a new token. Each login gets
// its own token row; logout revokes only the presented one.
func (ar *AccountRoutes) loginHandler(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"non_field_errors": []string{"Unable to log in with provided credentials."},
		})
		return
	}

	db := ar.server.GetDB()

	user, err := db.Users.GetByUsername(req.Username)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{
			"non_field_errors": []string{"Unable to log in with provided credentials."},
		})
		return
	}

	plain, token, err := db.Tokens.Issue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"expiry": auth.FormatExpiry(token.ExpiresAt),
		"token":  plain,
	})
}

// logoutHandler revokes the token used on this request.
func (ar *AccountRoutes) logoutHandler(c *gin.Context) {
	token := currentToken(c)
	if err := ar.server.GetDB().Tokens.Revoke(token.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}
	c.Status(http.StatusNoContent)
}

// logoutAllHandler revokes every token the user holds, across devices.
func (ar *AccountRoutes) logoutAllHandler(c *gin.Context) {
	user := currentUser(c)
	if err := ar.server.GetDB().Tokens.RevokeAll(user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log out"})
		return
	}
	c.Status(http.StatusNoContent)
}
