package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/eco-campus/ecotrack-api/internal/dto"
	"github.com/eco-campus/ecotrack-api/internal/models"
	"github.com/eco-campus/ecotrack-api/internal/repository"
)

// ErrEmailTaken indicates the email is already registered.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials indicates email, password or role did not match.
var ErrInvalidCredentials = errors.New("invalid email or password or role")

// AuthService registers accounts and issues session tokens.
type AuthService interface {
	Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	secret    []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}

	return &authService{
		users:     users,
		validator: validate,
		secret:    []byte(secret),
		tokenTTL:  tokenTTL,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) Register(ctx context.Context, payload dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	taken, err := s.users.EmailTaken(ctx, email, 0)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	if taken {
		return dto.AuthResponse{}, ErrEmailTaken
	}

	role := payload.Role
	if role == "" {
		role = models.RoleStudent
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	user := models.User{
		Name:     strings.TrimSpace(payload.Name),
		Email:    email,
		Password: string(hash),
		Role:     role,
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.AuthResponse{}, err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user registered")

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, err
	}

	// Role is part of the credential set: logging into the wrong portal fails.
	if user.Role != payload.Role {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) issueToken(user models.User) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":   float64(user.ID),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
