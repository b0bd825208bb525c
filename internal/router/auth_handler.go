package router

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mimoza-store/storefront-api/pkg/auth"
	"github.com/mimoza-store/storefront-api/pkg/global"
	"github.com/mimoza-store/storefront-api/pkg/models"
	"github.com/mimoza-store/storefront-api/pkg/mongo"
)

func Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	session, err := authService.SignUp(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, mongo.ErrEmailExists) {
			c.JSON(http.StatusConflict, global.ErrorResponse("Email already registered", []global.ValidationError{
				{Field: "email", Message: "This email is already in use", Code: "duplicate_email"},
			}))
			return
		}
		log.Printf("Error registering user: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to register", nil))
		return
	}

	c.JSON(http.StatusCreated, global.SuccessResponse(session))
}

func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid request data", []global.ValidationError{
			{Field: "request", Message: err.Error(), Code: "validation_error"},
		}))
		return
	}

	session, err := authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid email or password", []global.ValidationError{
				{Field: "credentials", Message: "Email or password is incorrect", Code: "invalid_credentials"},
			}))
			return
		}
		log.Printf("Error signing in: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to sign in", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(session))
}

func Logout(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, global.ErrorResponse("Authorization required", []global.ValidationError{
			{Field: "authorization", Message: "Bearer token is required", Code: "required"},
		}))
		return
	}

	if err := authService.SignOut(c.Request.Context(), token); err != nil {
		log.Printf("Error signing out: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to sign out", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]string{"message": "Signed out"}))
}

// CurrentSession resolves the caller's token into a session. An absent or
// invalid token is a normal signed-out answer, not an error.
func CurrentSession(c *gin.Context) {
	session, err := authService.GetSession(c.Request.Context(), bearerToken(c))
	if err != nil {
		log.Printf("Error resolving session: %v", err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse("Failed to resolve session", nil))
		return
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]interface{}{
		"session":       session,
		"authenticated": session != nil,
	}))
}

// IsAdmin reports the admin role flag for the caller's session. Any
// failure along the way reads as false.
func IsAdmin(c *gin.Context) {
	isAdmin := false
	if session, err := authService.GetSession(c.Request.Context(), bearerToken(c)); err == nil && session != nil {
		if ok, err := authService.CheckAdminRole(c.Request.Context(), session); err == nil {
			isAdmin = ok
		}
	}

	c.JSON(http.StatusOK, global.SuccessResponse(map[string]bool{"is_admin": isAdmin}))
}
