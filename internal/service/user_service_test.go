package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/eco-campus/ecotrack-api/internal/dto"
	"github.com/eco-campus/ecotrack-api/internal/models"
	"github.com/eco-campus/ecotrack-api/internal/repository"
)

func newUserService(repo repository.UserRepository, cache *redis.Client) UserService {
	return NewUserService(repo, validator.New(validator.WithRequiredStructEnabled()), cache, time.Minute, testLogger())
}

func TestUserServiceProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, nil)

	user := models.User{Name: "Dana Cruz", Email: "dana@example.com", Password: "x", Role: models.RoleStudent, EcoPoints: 40}
	require.NoError(t, repo.Create(context.Background(), &user))

	profile, err := svc.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, 40, profile.EcoPoints)

	_, err = svc.Profile(context.Background(), 404)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserServiceUpdateProfileEmailConflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, nil)

	dana := models.User{Name: "Dana Cruz", Email: "dana@example.com", Password: "x", Role: models.RoleStudent}
	robin := models.User{Name: "Robin Hale", Email: "robin@example.com", Password: "x", Role: models.RoleStudent}
	require.NoError(t, repo.Create(context.Background(), &dana))
	require.NoError(t, repo.Create(context.Background(), &robin))

	_, err := svc.UpdateProfile(context.Background(), dana.ID, dto.ProfileUpdateRequest{Name: "Dana Cruz", Email: "robin@example.com"})
	require.ErrorIs(t, err, ErrEmailTaken)

	// Keeping your own address is not a conflict.
	updated, err := svc.UpdateProfile(context.Background(), dana.ID, dto.ProfileUpdateRequest{Name: "Dana C", Email: "Dana@Example.com"})
	require.NoError(t, err)
	require.Equal(t, "Dana C", updated.Name)
	require.Equal(t, "dana@example.com", updated.Email)
}

func TestUserServiceLeaderboardCaching(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := newFakeUserRepo()
	repo.leaderboardRows = []repository.LeaderboardRow{
		{ID: 2, Name: "High", Role: models.RoleVolunteer, EcoPoints: 50, EventsAttended: 1, RecyclingLogs: 3},
		{ID: 1, Name: "Low", Role: models.RoleStudent, EcoPoints: 10},
	}
	svc := newUserService(repo, cache)

	entries, err := svc.Leaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "High", entries[0].Name)
	require.Equal(t, 1, repo.leaderboardCalls)

	// Second read is served from the cache.
	entries, err = svc.Leaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 1, repo.leaderboardCalls)

	// A different limit is a different cache entry.
	_, err = svc.Leaderboard(context.Background(), 5)
	require.NoError(t, err)
	require.Equal(t, 2, repo.leaderboardCalls)

	// Expiry falls back to the database.
	mr.FastForward(2 * time.Minute)
	_, err = svc.Leaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, 3, repo.leaderboardCalls)
}

func TestUserServiceLeaderboardWithoutCache(t *testing.T) {
	repo := newFakeUserRepo()
	repo.leaderboardRows = []repository.LeaderboardRow{{ID: 1, Name: "Solo", Role: models.RoleStudent, EcoPoints: 5}}
	svc := newUserService(repo, nil)

	entries, err := svc.Leaderboard(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestUserServiceAdminUpdate(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserService(repo, nil)

	user := models.User{Name: "Dana Cruz", Email: "dana@example.com", Password: "x", Role: models.RoleStudent, EcoPoints: 40}
	require.NoError(t, repo.Create(context.Background(), &user))

	points := 100
	role := models.RoleVolunteer
	updated, err := svc.AdminUpdate(context.Background(), user.ID, dto.AdminUserUpdateRequest{
		EcoPoints: &points,
		Role:      &role,
	})
	require.NoError(t, err)
	require.Equal(t, 100, updated.EcoPoints)
	require.Equal(t, models.RoleVolunteer, updated.Role)
	require.Equal(t, "Dana Cruz", updated.Name, "omitted fields stay untouched")

	negative := -5
	_, err = svc.AdminUpdate(context.Background(), user.ID, dto.AdminUserUpdateRequest{EcoPoints: &negative})
	require.Error(t, err, "the ledger never goes negative")

	_, err = svc.AdminUpdate(context.Background(), 404, dto.AdminUserUpdateRequest{})
	require.ErrorIs(t, err, ErrUserNotFound)
}
