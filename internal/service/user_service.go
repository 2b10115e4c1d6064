package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/eco-campus/ecotrack-api/internal/dto"
	"github.com/eco-campus/ecotrack-api/internal/repository"
)

// ErrUserNotFound indicates the user account was not located.
var ErrUserNotFound = errors.New("user not found")

// UserService serves profiles, the leaderboard and admin account management.
type UserService interface {
	Profile(ctx context.Context, userID uint) (dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error)
	Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	AdminUpdate(ctx context.Context, userID uint, payload dto.AdminUserUpdateRequest) (dto.UserResponse, error)
}

type userService struct {
	users     repository.UserRepository
	validator *validator.Validate
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
}

// NewUserService builds the user service. The cache client is optional.
func NewUserService(users repository.UserRepository, validate *validator.Validate, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		validator: validate,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) Profile(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, payload dto.ProfileUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	taken, err := s.users.EmailTaken(ctx, email, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if taken {
		return dto.UserResponse{}, ErrEmailTaken
	}

	user.Name = strings.TrimSpace(payload.Name)
	user.Email = email

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) Leaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	cacheKey := fmt.Sprintf("leaderboard:top:%d", limit)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var entries []dto.LeaderboardEntry
			if unmarshalErr := json.Unmarshal([]byte(cached), &entries); unmarshalErr == nil {
				s.logger.Debug().Int("limit", limit).Msg("leaderboard cache hit")
				return entries, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard cache")
		}
	}

	rows, err := s.users.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, dto.LeaderboardEntry{
			ID:             row.ID,
			Name:           row.Name,
			Role:           row.Role,
			EcoPoints:      row.EcoPoints,
			EventsAttended: row.EventsAttended,
			RecyclingLogs:  row.RecyclingLogs,
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store leaderboard cache")
			}
		}
	}

	return entries, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}

	return responses, nil
}

// AdminUpdate applies a partial account update. Setting eco_points here is
// the explicit admin adjustment path, the only ledger mutation outside the
// approval transaction.
func (s *userService) AdminUpdate(ctx context.Context, userID uint, payload dto.AdminUserUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	if payload.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*payload.Email))
		taken, err := s.users.EmailTaken(ctx, email, userID)
		if err != nil {
			return dto.UserResponse{}, err
		}
		if taken {
			return dto.UserResponse{}, ErrEmailTaken
		}
		user.Email = email
	}

	if payload.Name != nil {
		user.Name = strings.TrimSpace(*payload.Name)
	}

	if payload.Role != nil {
		user.Role = *payload.Role
	}

	if payload.EcoPoints != nil {
		s.logger.Info().
			Uint("user_id", userID).
			Int("from", user.EcoPoints).
			Int("to", *payload.EcoPoints).
			Msg("admin eco-points adjustment")
		user.EcoPoints = *payload.EcoPoints
	}

	if err := s.users.Update(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}
