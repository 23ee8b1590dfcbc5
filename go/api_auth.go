package portalserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	authapp "github.com/telconova/portal/internal/domains/auth/application"
	authdomain "github.com/telconova/portal/internal/domains/auth/domain"
	authports "github.com/telconova/portal/internal/domains/auth/ports"
	apierrors "github.com/telconova/portal/internal/shared/errors"
	"github.com/telconova/portal/internal/shared/validation"
)

// AuthAPI exposes login, registration and the session profile.
type AuthAPI struct {
	service authports.Service
}

func NewAuthAPI(service authports.Service) AuthAPI {
	return AuthAPI{service: service}
}

// LoginResponse mirrors the result the web client expects from a login.
type LoginResponse struct {
	Success   bool             `json:"success"`
	Token     string           `json:"token"`
	SessionID string           `json:"sessionId"`
	User      *authdomain.User `json:"user,omitempty"`
}

// VerifyCodeRequest is the body of POST /api/auth/verify.
type VerifyCodeRequest struct {
	Code string `json:"code"`
}

// Post /api/auth/login
// Exchanges credentials for a session token
func (api *AuthAPI) Login(c *gin.Context) {
	var form validation.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := api.service.Login(c.Request.Context(), currentSession(c).ID, form)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	setSession(c, result.Session)
	c.JSON(http.StatusOK, LoginResponse{
		Success:   true,
		Token:     result.Session.Token,
		SessionID: result.Session.ID,
		User:      result.User,
	})
}

// Post /api/auth/register
// Registers a new user
func (api *AuthAPI) Register(c *gin.Context) {
	var form validation.RegisterForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondBindError(c, err)
		return
	}
	if err := api.service.Register(c.Request.Context(), form); err != nil {
		var loginErr *authapp.LoginError
		if errors.As(err, &loginErr) && errors.Is(err, authports.ErrRejected) {
			respondProblem(c, apierrors.ErrBadRequest.WithDetail(loginErr.Message))
			return
		}
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

// Post /api/auth/logout
// Drops the session token and profile
func (api *AuthAPI) Logout(c *gin.Context) {
	if err := api.service.Logout(c.Request.Context(), currentSession(c)); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get /api/auth/me
// Returns the profile of the logged in user
func (api *AuthAPI) CurrentUser(c *gin.Context) {
	user, err := api.service.CurrentUser(c.Request.Context(), currentSession(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Post /api/auth/verify
// Checks a verification code
func (api *AuthAPI) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := api.service.VerifyCode(c.Request.Context(), req.Code); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}
