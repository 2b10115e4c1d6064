package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/eco-campus/ecotrack-api/internal/models"
)

// ErrLogVerified signals that a verification was attempted on a log that has
// already left the pending state. Detected inside the transaction so that a
// concurrent double-approval can never award points twice.
var ErrLogVerified = errors.New("recycling log already verified")

// LogFilter narrows admin log listings.
type LogFilter struct {
	Status   *string
	Category *string
	UserID   *uint
}

// LogStatsRow aggregates a user's submitted activity.
type LogStatsRow struct {
	TotalLogs     int64
	TotalWeight   float64
	TotalPoints   int64
	ApprovedCount int64
	PendingCount  int64
}

// CategoryStatRow is one approved-only category aggregate.
type CategoryStatRow struct {
	Category    string
	Count       int64
	TotalWeight float64
	TotalPoints int64
}

// RecyclingLogRepository defines data operations for recycling logs,
// including the atomic verification transitions.
type RecyclingLogRepository interface {
	Create(ctx context.Context, log *models.RecyclingLog) error
	GetByID(ctx context.Context, id uint) (models.RecyclingLog, error)
	List(ctx context.Context, filter LogFilter) ([]models.RecyclingLog, error)
	ListByUser(ctx context.Context, userID uint) ([]models.RecyclingLog, error)
	Delete(ctx context.Context, id uint) error
	Approve(ctx context.Context, id, adminID uint, points int, now time.Time) (models.RecyclingLog, models.Notification, error)
	Reject(ctx context.Context, id uint, reason string) (models.RecyclingLog, models.Notification, error)
	StatsByUser(ctx context.Context, userID uint) (LogStatsRow, error)
	ApprovedStatsByUser(ctx context.Context, userID uint) (LogStatsRow, []CategoryStatRow, error)
}

type recyclingLogRepository struct {
	db *gorm.DB
}

// NewRecyclingLogRepository instantiates the repository.
func NewRecyclingLogRepository(db *gorm.DB) RecyclingLogRepository {
	return &recyclingLogRepository{db: db}
}

func (r *recyclingLogRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.RecyclingLog{}).
		Preload("User").
		Preload("Verifier")
}

func (r *recyclingLogRepository) Create(ctx context.Context, log *models.RecyclingLog) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).Preload("User").First(log, log.ID).Error
}

func (r *recyclingLogRepository) GetByID(ctx context.Context, id uint) (models.RecyclingLog, error) {
	var log models.RecyclingLog
	if err := r.baseQuery(ctx).First(&log, id).Error; err != nil {
		return models.RecyclingLog{}, err
	}

	return log, nil
}

func (r *recyclingLogRepository) List(ctx context.Context, filter LogFilter) ([]models.RecyclingLog, error) {
	query := r.baseQuery(ctx)

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var logs []models.RecyclingLog
	if err := query.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *recyclingLogRepository) ListByUser(ctx context.Context, userID uint) ([]models.RecyclingLog, error) {
	var logs []models.RecyclingLog
	if err := r.baseQuery(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *recyclingLogRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.RecyclingLog{}, id).Error
}

// Approve transitions a pending log to approved, credits the owner's ledger
// and appends the notification, all in one transaction. The guarded UPDATE
// serializes concurrent approvals: the loser sees zero rows affected.
func (r *recyclingLogRepository) Approve(ctx context.Context, id, adminID uint, points int, now time.Time) (models.RecyclingLog, models.Notification, error) {
	var notification models.Notification

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var log models.RecyclingLog
		if err := tx.First(&log, id).Error; err != nil {
			return err
		}

		update := tx.Model(&models.RecyclingLog{}).
			Where("id = ?", id).
			Where("status = ?", models.LogStatusPending).
			Updates(map[string]interface{}{
				"status":            models.LogStatusApproved,
				"verified_by":       adminID,
				"verified_at":       now,
				"eco_points_earned": points,
			})
		if update.Error != nil {
			return update.Error
		}
		if update.RowsAffected == 0 {
			return ErrLogVerified
		}

		// Relative increment, never read-modify-write: concurrent approvals
		// of different logs for the same owner must not lose updates.
		if err := tx.Model(&models.User{}).
			Where("id = ?", log.UserID).
			Update("eco_points", gorm.Expr("eco_points + ?", points)).Error; err != nil {
			return err
		}

		notification = models.Notification{
			UserID:  log.UserID,
			Title:   "Recycling Log Approved",
			Message: fmt.Sprintf("Your recycling log (%s, %gkg) has been approved! You earned %d eco-points.", log.Category, log.Weight, points),
			Type:    models.NotificationTypeSystem,
		}

		return tx.Create(&notification).Error
	})
	if err != nil {
		return models.RecyclingLog{}, models.Notification{}, err
	}

	updated, err := r.GetByID(ctx, id)
	if err != nil {
		return models.RecyclingLog{}, models.Notification{}, err
	}

	return updated, notification, nil
}

// Reject hard-deletes a pending log and appends the notification in one
// transaction. Log details are captured before the delete removes them.
func (r *recyclingLogRepository) Reject(ctx context.Context, id uint, reason string) (models.RecyclingLog, models.Notification, error) {
	var removed models.RecyclingLog
	var notification models.Notification

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&removed, id).Error; err != nil {
			return err
		}

		del := tx.Where("id = ?", id).
			Where("status = ?", models.LogStatusPending).
			Delete(&models.RecyclingLog{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			return ErrLogVerified
		}

		message := reason
		if message == "" {
			message = fmt.Sprintf("Your recycling log (%s, %gkg) has been rejected.", removed.Category, removed.Weight)
		}

		notification = models.Notification{
			UserID:  removed.UserID,
			Title:   "Recycling Log Rejected",
			Message: message,
			Type:    models.NotificationTypeSystem,
		}

		return tx.Create(&notification).Error
	})
	if err != nil {
		return models.RecyclingLog{}, models.Notification{}, err
	}

	return removed, notification, nil
}

func (r *recyclingLogRepository) StatsByUser(ctx context.Context, userID uint) (LogStatsRow, error) {
	var stats LogStatsRow
	err := r.db.WithContext(ctx).Model(&models.RecyclingLog{}).
		Select(`COUNT(*) AS total_logs,
			COALESCE(SUM(weight), 0) AS total_weight,
			COALESCE(SUM(eco_points_earned), 0) AS total_points,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS approved_count,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_count`,
			models.LogStatusApproved, models.LogStatusPending).
		Where("user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return LogStatsRow{}, err
	}

	return stats, nil
}

func (r *recyclingLogRepository) ApprovedStatsByUser(ctx context.Context, userID uint) (LogStatsRow, []CategoryStatRow, error) {
	var stats LogStatsRow
	err := r.db.WithContext(ctx).Model(&models.RecyclingLog{}).
		Select(`COUNT(*) AS total_logs,
			COALESCE(SUM(weight), 0) AS total_weight,
			COALESCE(SUM(eco_points_earned), 0) AS total_points,
			COUNT(*) AS approved_count`).
		Where("user_id = ?", userID).
		Where("status = ?", models.LogStatusApproved).
		Scan(&stats).Error
	if err != nil {
		return LogStatsRow{}, nil, err
	}

	var breakdown []CategoryStatRow
	err = r.db.WithContext(ctx).Model(&models.RecyclingLog{}).
		Select(`category,
			COUNT(*) AS count,
			COALESCE(SUM(weight), 0) AS total_weight,
			COALESCE(SUM(eco_points_earned), 0) AS total_points`).
		Where("user_id = ?", userID).
		Where("status = ?", models.LogStatusApproved).
		Group("category").
		Order("total_weight DESC").
		Scan(&breakdown).Error
	if err != nil {
		return LogStatsRow{}, nil, err
	}

	return stats, breakdown, nil
}
