package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/project-tracker/internal/constants"
	"github.com/yukikurage/project-tracker/internal/middleware"
	"github.com/yukikurage/project-tracker/internal/services"
)

// AuthHandler coordinates registration, login, logout, and password resets.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new user from a submitted form.
func (h *AuthHandler) Register(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	_, err := h.authService.Register(services.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserExists):
			middleware.AddFlash(c, "User with this username or email already exists.")
		case errors.Is(err, services.ErrMissingCredentials):
			middleware.AddFlash(c, "Username, email and password are required.")
		default:
			middleware.AddFlash(c, "Registration failed. Please try again.")
		}
		c.Redirect(http.StatusFound, "/register")
		return
	}

	middleware.AddFlash(c, "Registration successful. Please log in.")
	c.Redirect(http.StatusFound, "/login")
}

// Login authenticates a user and binds the session to their identity.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.authService.Login(services.LoginInput{
		Username: username,
		Password: password,
	})
	if err != nil {
		middleware.AddFlash(c, "Invalid credentials. Please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		middleware.AddFlash(c, "Failed to start session. Please try again.")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Logout unbinds the session from the user.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	_ = session.Save()

	c.Redirect(http.StatusFound, "/login")
}

// LoginPage reports pending notices for the login entry point.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"notices": middleware.PopFlashes(c),
	})
}

// RequestPasswordReset issues a reset token and emails the reset link.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	email := c.PostForm("email")

	_, err := h.authService.RequestPasswordReset(c.Request.Context(), email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailNotFound):
			middleware.AddFlash(c, "Email not found")
		case errors.Is(err, services.ErrEmailSendFailed):
			middleware.AddFlash(c, "Failed to send reset email. Please try again.")
		default:
			middleware.AddFlash(c, "Failed to request password reset. Please try again.")
		}
		c.Redirect(http.StatusFound, "/reset_password")
		return
	}

	middleware.AddFlash(c, "Check your email for the instructions to reset your password")
	c.Redirect(http.StatusFound, "/login")
}

// ConfirmPasswordReset sets a new password for a valid reset token and
// consumes the token.
func (h *AuthHandler) ConfirmPasswordReset(c *gin.Context) {
	tokenString := c.Param("token")
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	if password != confirmPassword {
		middleware.AddFlash(c, "Passwords do not match")
		c.Redirect(http.StatusFound, "/reset_password/"+tokenString)
		return
	}

	if err := h.authService.ConfirmPasswordReset(tokenString, password); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidResetToken):
			middleware.AddFlash(c, "That is an invalid or expired token")
		case errors.Is(err, services.ErrMissingCredentials):
			middleware.AddFlash(c, "Password is required")
		default:
			middleware.AddFlash(c, "Failed to reset password. Please try again.")
		}
		c.Redirect(http.StatusFound, "/reset_password")
		return
	}

	middleware.AddFlash(c, "Your password has been updated! You are now able to log in")
	c.Redirect(http.StatusFound, "/login")
}
