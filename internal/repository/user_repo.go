package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/eco-campus/ecotrack-api/internal/models"
)

// LeaderboardRow is one ranked leaderboard entry as read from the database.
type LeaderboardRow struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	EcoPoints      int    `json:"eco_points"`
	EventsAttended int64  `json:"events_attended"`
	RecyclingLogs  int64  `json:"recycling_logs"`
}

// UserRepository defines data operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository instantiates the repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (r *userRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

// Leaderboard ranks users by eco_points descending. Ties break on ascending
// id so insertion order stays stable.
func (r *userRepository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var rows []LeaderboardRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT users.id, users.name, users.role, users.eco_points,
			(SELECT COUNT(*) FROM event_participants WHERE event_participants.user_id = users.id AND event_participants.attended = ?) AS events_attended,
			(SELECT COUNT(*) FROM recycling_logs WHERE recycling_logs.user_id = users.id AND recycling_logs.status = ?) AS recycling_logs
		FROM users
		ORDER BY users.eco_points DESC, users.id ASC
		LIMIT ?`, true, models.LogStatusApproved, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
