package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/rahu431/snapbill-service/internal/domain"
	"github.com/rahu431/snapbill-service/internal/repository"
)

// Common errors
var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotApproved    = errors.New("account is awaiting approval")
	ErrUserRejected       = errors.New("account registration was rejected")
)

// AuthService handles authentication and account approval operations
type AuthService interface {
	// Email/Password authentication
	Register(ctx context.Context, email, password, name string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*AuthResponse, error)

	// OAuth operations
	GetGoogleOAuthURL(state string) string
	HandleGoogleCallback(ctx context.Context, code string) (*AuthResponse, error)

	// JWT operations
	ValidateAccessToken(tokenString string) (*Claims, error)
	RefreshAccessToken(refreshToken string) (*TokenPair, error)

	// Account approval (super admin only)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ApproveUser(ctx context.Context, userID string) (*domain.User, error)
	RejectUser(ctx context.Context, userID string) (*domain.User, error)

	// EnsureSuperAdmin seeds the configured super admin account on startup
	EnsureSuperAdmin(ctx context.Context) error

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// AuthResponse contains authentication response data
type AuthResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"` // seconds
}

// TokenPair contains access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthServiceConfig holds configuration for auth service
type AuthServiceConfig struct {
	Users                repository.UserRepository
	GoogleClientID       string
	GoogleClientSecret   string
	GoogleRedirectURL    string
	JWTSecret            string
	JWTAccessExpiration  time.Duration
	JWTRefreshExpiration time.Duration
	SuperAdminEmail      string
	SuperAdminPassword   string
}

type authService struct {
	users                repository.UserRepository
	googleOAuthConfig    *oauth2.Config
	jwtSecret            []byte
	jwtAccessExpiration  time.Duration
	jwtRefreshExpiration time.Duration
	superAdminEmail      string
	superAdminPassword   string
}

// NewAuthService creates a new auth service
func NewAuthService(config AuthServiceConfig) AuthService {
	googleOAuthConfig := &oauth2.Config{
		ClientID:     config.GoogleClientID,
		ClientSecret: config.GoogleClientSecret,
		RedirectURL:  config.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &authService{
		users:                config.Users,
		googleOAuthConfig:    googleOAuthConfig,
		jwtSecret:            []byte(config.JWTSecret),
		jwtAccessExpiration:  config.JWTAccessExpiration,
		jwtRefreshExpiration: config.JWTRefreshExpiration,
		superAdminEmail:      strings.ToLower(strings.TrimSpace(config.SuperAdminEmail)),
		superAdminPassword:   config.SuperAdminPassword,
	}
}

// Register creates a new account. New accounts start in pending status and
// cannot log in until a super admin approves them; the configured super admin
// email is the exception and is approved immediately.
func (s *authService) Register(ctx context.Context, email, password, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existing, err := s.users.GetUserByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleUser,
		Status:       domain.UserPending,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if email == s.superAdminEmail {
		user.Role = domain.RoleSuperAdmin
		user.Status = domain.UserApproved
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user with email and password. Pending and rejected
// accounts are refused even with correct credentials.
func (s *authService) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// OAuth-only users have no password hash
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.checkApproval(user); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	}, nil
}

// GetGoogleOAuthURL generates the Google OAuth URL
func (s *authService) GetGoogleOAuthURL(state string) string {
	return s.googleOAuthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// HandleGoogleCallback processes the Google OAuth callback. First-time Google
// users are created in pending status and go through the same approval gate
// as password registrations.
func (s *authService) HandleGoogleCallback(ctx context.Context, code string) (*AuthResponse, error) {
	token, err := s.googleOAuthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	googleUser, err := s.getGoogleUserInfo(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(googleUser.Email))
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}

		user = &domain.User{
			ID:           uuid.NewString(),
			Email:        email,
			Name:         googleUser.Name,
			Role:         domain.RoleUser,
			Status:       domain.UserPending,
			RegisteredAt: time.Now().UTC().Format(time.RFC3339),
		}
		if email == s.superAdminEmail {
			user.Role = domain.RoleSuperAdmin
			user.Status = domain.UserApproved
		}

		if err := s.users.CreateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	if err := s.checkApproval(user); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresIn:    tokens.ExpiresIn,
	}, nil
}

// getGoogleUserInfo retrieves user information from Google
func (s *authService) getGoogleUserInfo(ctx context.Context, accessToken string) (*domain.GoogleUserInfo, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		"https://www.googleapis.com/oauth2/v2/userinfo",
		nil,
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to get user info: %s", string(body))
	}

	var userInfo domain.GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, err
	}

	return &userInfo, nil
}

func (s *authService) checkApproval(user *domain.User) error {
	switch user.Status {
	case domain.UserApproved:
		return nil
	case domain.UserRejected:
		return ErrUserRejected
	default:
		return ErrUserNotApproved
	}
}

// generateTokens generates access and refresh tokens for a user
func (s *authService) generateTokens(user *domain.User) (*TokenPair, error) {
	now := time.Now()

	accessClaims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtAccessExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshClaims := &Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtRefreshExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.jwtAccessExpiration.Seconds()),
	}, nil
}

// ValidateAccessToken validates and parses an access token
func (s *authService) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

// RefreshAccessToken generates a new token pair from a refresh token. The
// approval status is re-checked so a rejection takes effect on next refresh.
func (s *authService) RefreshAccessToken(refreshToken string) (*TokenPair, error) {
	claims, err := s.ValidateAccessToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	user, err := s.users.GetUserByID(context.Background(), claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if err := s.checkApproval(user); err != nil {
		return nil, err
	}

	return s.generateTokens(user)
}

// ListUsers returns all registered accounts
func (s *authService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}

// ApproveUser marks a pending account as approved
func (s *authService) ApproveUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.UpdateUserStatus(ctx, userID, domain.UserApproved)
}

// RejectUser marks an account as rejected
func (s *authService) RejectUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.UpdateUserStatus(ctx, userID, domain.UserRejected)
}

// EnsureSuperAdmin creates the configured super admin account if it does not
// exist yet. Without it a fresh deployment has nobody who can approve
// registrations.
func (s *authService) EnsureSuperAdmin(ctx context.Context) error {
	if s.superAdminEmail == "" || s.superAdminPassword == "" {
		return nil
	}

	if _, err := s.users.GetUserByEmail(ctx, s.superAdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to look up super admin: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(s.superAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash super admin password: %w", err)
	}

	return s.users.CreateUser(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        s.superAdminEmail,
		Name:         "Super Admin",
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleSuperAdmin,
		Status:       domain.UserApproved,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// GetUserByID retrieves a user by ID
func (s *authService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
