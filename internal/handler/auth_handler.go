package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rahu431/snapbill-service/internal/model"
	"github.com/rahu431/snapbill-service/internal/service"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	auth service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes registers the public auth routes
func (h *AuthHandler) RegisterRoutes(r gin.IRouter) {
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.GET("/auth/google", h.GoogleLogin)
	r.GET("/auth/google/callback", h.GoogleCallback)
}

// Register creates a new account awaiting approval
// @Summary Register an account
// @Description Create an account with email and password. The account stays pending until a super admin approves it.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Registration details"
// @Success 201 {object} model.UserResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse "Email already registered"
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			respondConflict(c, err.Error())
			return
		}
		respondInternalServerError(c, ErrInternalServer)
		return
	}
	respondCreated(c, model.NewUserResponse(user))
}

// Login authenticates with email and password
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Credentials"
// @Success 200 {object} model.AuthTokensResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse "Account pending or rejected"
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	respondOK(c, authTokens(resp))
}

// Refresh exchanges a refresh token for a new token pair
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RefreshRequest true "Refresh token"
// @Success 200 {object} model.AuthTokensResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	pair, err := h.auth.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	respondOK(c, model.AuthTokensResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// GoogleLogin redirects the browser to Google's consent screen
// @Summary Start Google OAuth login
// @Tags auth
// @Success 302
// @Router /v1/auth/google [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.NewString()
	c.Redirect(http.StatusFound, h.auth.GetGoogleOAuthURL(state))
}

// GoogleCallback completes the Google OAuth flow
// @Summary Google OAuth callback
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Success 200 {object} model.AuthTokensResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse "Account pending or rejected"
// @Router /v1/auth/google/callback [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		respondBadRequest(c, "authorization code is required")
		return
	}

	resp, err := h.auth.HandleGoogleCallback(c.Request.Context(), code)
	if err != nil {
		h.respondAuthError(c, err)
		return
	}
	respondOK(c, authTokens(resp))
}

// respondAuthError maps auth service errors onto HTTP statuses
func (h *AuthHandler) respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotApproved), errors.Is(err, service.ErrUserRejected):
		respondForbidden(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondUnauthorized(c, err.Error())
	default:
		respondUnauthorized(c, "authentication failed")
	}
}

func authTokens(resp *service.AuthResponse) model.AuthTokensResponse {
	return model.AuthTokensResponse{
		User:         model.NewUserResponse(resp.User),
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
	}
}
