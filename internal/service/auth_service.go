package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-feedback-api/internal/models"
	appErrors "github.com/noah-isme/course-feedback-api/pkg/errors"
)

// AuthConfig defines configuration for identity tokens.
type AuthConfig struct {
	Secret          string
	Issuer          string
	Expiry          time.Duration
	DevLoginEnabled bool
}

// AuthService issues and validates identity tokens.
type AuthService struct {
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.Expiry <= 0 {
		config.Expiry = 24 * time.Hour
	}
	return &AuthService{validator: validate, logger: logger, config: config, now: time.Now}
}

// DevLogin signs a token for the given identity without a credential check.
// It is refused unless development login is enabled.
func (s *AuthService) DevLogin(ctx context.Context, req models.DevLoginRequest) (*models.LoginResponse, error) {
	if !s.config.DevLoginEnabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "development login is disabled")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInvalidParameters.Code, appErrors.ErrInvalidParameters.Status, "invalid login payload")
	}

	role := models.RoleUser
	if req.IsAdmin {
		role = models.RoleAdmin
	}
	issuedAt := s.now().UTC()
	claims := &models.JWTClaims{
		UserID: req.GoogleID,
		Email:  req.Email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   req.GoogleID,
			Issuer:    s.config.Issuer,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.Expiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	s.logger.Info("development login", zap.String("google_id", req.GoogleID), zap.Bool("admin", req.IsAdmin))
	return &models.LoginResponse{
		AccessToken: signed,
		ExpiresIn:   int64(s.config.Expiry.Seconds()),
		UserID:      req.GoogleID,
		Role:        role,
	}, nil
}

// ValidateToken parses and verifies an HS256 identity token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}
