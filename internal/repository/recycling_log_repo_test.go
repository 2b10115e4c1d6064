package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/eco-campus/ecotrack-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RecyclingLog{}, &models.Notification{}, &models.Event{}, &models.EventParticipant{}))
	return db
}

func seedUsers(t *testing.T, db *gorm.DB) (models.User, models.User) {
	t.Helper()
	owner := models.User{Name: "Dana Cruz", Email: "dana@example.com", Password: "x", Role: models.RoleStudent, EcoPoints: 5}
	admin := models.User{Name: "Robin Hale", Email: "robin@example.com", Password: "x", Role: models.RoleAdmin}
	require.NoError(t, db.Create(&owner).Error)
	require.NoError(t, db.Create(&admin).Error)
	return owner, admin
}

func TestRecyclingLogRepositoryApproveAwardsPointsOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecyclingLogRepository(db)
	owner, admin := seedUsers(t, db)

	log := models.RecyclingLog{UserID: owner.ID, Category: models.CategoryPlastic, Weight: 5, Status: models.LogStatusPending}
	require.NoError(t, db.Create(&log).Error)

	now := time.Now()
	updated, notification, err := repo.Approve(context.Background(), log.ID, admin.ID, 20, now)
	require.NoError(t, err)
	require.Equal(t, models.LogStatusApproved, updated.Status)
	require.Equal(t, 20, updated.EcoPointsEarned)
	require.NotNil(t, updated.VerifiedBy)
	require.Equal(t, admin.ID, *updated.VerifiedBy)
	require.NotNil(t, updated.VerifiedAt)
	require.Equal(t, "Robin Hale", updated.Verifier.Name)

	var refreshed models.User
	require.NoError(t, db.First(&refreshed, owner.ID).Error)
	require.Equal(t, 25, refreshed.EcoPoints, "ledger increments by exactly the awarded amount")

	require.Equal(t, owner.ID, notification.UserID)
	require.Contains(t, notification.Message, "plastic")
	require.Contains(t, notification.Message, "20 eco-points")

	// Second verification attempt must fail and leave every table untouched.
	_, _, err = repo.Approve(context.Background(), log.ID, admin.ID, 5, now)
	require.ErrorIs(t, err, ErrLogVerified)

	require.NoError(t, db.First(&refreshed, owner.ID).Error)
	require.Equal(t, 25, refreshed.EcoPoints)

	var notificationCount int64
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", owner.ID).Count(&notificationCount).Error)
	require.Equal(t, int64(1), notificationCount)
}

func TestRecyclingLogRepositoryApproveMissingLog(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecyclingLogRepository(db)
	_, admin := seedUsers(t, db)

	_, _, err := repo.Approve(context.Background(), 999, admin.ID, 10, time.Now())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRecyclingLogRepositoryRejectDeletesAndNotifies(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecyclingLogRepository(db)
	owner, _ := seedUsers(t, db)

	log := models.RecyclingLog{UserID: owner.ID, Category: models.CategoryGlass, Weight: 2.5, Status: models.LogStatusPending}
	require.NoError(t, db.Create(&log).Error)

	removed, notification, err := repo.Reject(context.Background(), log.ID, "")
	require.NoError(t, err)
	require.Equal(t, models.CategoryGlass, removed.Category)

	var count int64
	require.NoError(t, db.Model(&models.RecyclingLog{}).Where("id = ?", log.ID).Count(&count).Error)
	require.Equal(t, int64(0), count, "rejected logs leave no row behind")

	// The default message carries details captured before the delete.
	require.Contains(t, notification.Message, "glass")
	require.Contains(t, notification.Message, "2.5kg")

	var stored models.Notification
	require.NoError(t, db.Where("user_id = ?", owner.ID).First(&stored).Error)
	require.Equal(t, notification.Message, stored.Message)
}

func TestRecyclingLogRepositoryRejectAlreadyApproved(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecyclingLogRepository(db)
	owner, admin := seedUsers(t, db)

	log := models.RecyclingLog{UserID: owner.ID, Category: models.CategoryPaper, Weight: 1, Status: models.LogStatusPending}
	require.NoError(t, db.Create(&log).Error)

	_, _, err := repo.Approve(context.Background(), log.ID, admin.ID, 10, time.Now())
	require.NoError(t, err)

	_, _, err = repo.Reject(context.Background(), log.ID, "too late")
	require.ErrorIs(t, err, ErrLogVerified)

	var count int64
	require.NoError(t, db.Model(&models.RecyclingLog{}).Where("id = ?", log.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestRecyclingLogRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecyclingLogRepository(db)
	owner, admin := seedUsers(t, db)

	first := models.RecyclingLog{UserID: owner.ID, Category: models.CategoryPlastic, Weight: 1, Status: models.LogStatusPending, CreatedAt: time.Now().Add(-2 * time.Hour)}
	second := models.RecyclingLog{UserID: owner.ID, Category: models.CategoryMetal, Weight: 3, Status: models.LogStatusPending, CreatedAt: time.Now().Add(-time.Hour)}
	require.NoError(t, db.Create(&first).Error)
	require.NoError(t, db.Create(&second).Error)

	_, _, err := repo.Approve(context.Background(), second.ID, admin.ID, 15, time.Now())
	require.NoError(t, err)

	pending := models.LogStatusPending
	logs, err := repo.List(context.Background(), LogFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, first.ID, logs[0].ID)

	metal := models.CategoryMetal
	logs, err = repo.List(context.Background(), LogFilter{Category: &metal})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, second.ID, logs[0].ID)

	logs, err = repo.List(context.Background(), LogFilter{UserID: &owner.ID})
	require.NoError(t, err)
	require.Len(t, logs, 2)
}

func TestRecyclingLogRepositoryStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecyclingLogRepository(db)
	owner, admin := seedUsers(t, db)

	// A user without logs gets zeroes, never nulls.
	stats, err := repo.StatsByUser(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Equal(t, LogStatsRow{}, stats)

	logs := []models.RecyclingLog{
		{UserID: owner.ID, Category: models.CategoryPlastic, Weight: 5, Status: models.LogStatusPending},
		{UserID: owner.ID, Category: models.CategoryPlastic, Weight: 2, Status: models.LogStatusPending},
		{UserID: owner.ID, Category: models.CategoryPaper, Weight: 4, Status: models.LogStatusPending},
	}
	for i := range logs {
		require.NoError(t, db.Create(&logs[i]).Error)
	}

	_, _, err = repo.Approve(context.Background(), logs[0].ID, admin.ID, 10, time.Now())
	require.NoError(t, err)
	_, _, err = repo.Approve(context.Background(), logs[2].ID, admin.ID, 8, time.Now())
	require.NoError(t, err)

	stats, err = repo.StatsByUser(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.TotalLogs)
	require.Equal(t, float64(11), stats.TotalWeight)
	require.Equal(t, int64(18), stats.TotalPoints)
	require.Equal(t, int64(2), stats.ApprovedCount)
	require.Equal(t, int64(1), stats.PendingCount)

	approved, breakdown, err := repo.ApprovedStatsByUser(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), approved.TotalLogs)
	require.Equal(t, float64(9), approved.TotalWeight)
	require.Len(t, breakdown, 2, "pending categories are excluded")
	require.Equal(t, models.CategoryPlastic, breakdown[0].Category, "ordered by total weight descending")
	require.Equal(t, models.CategoryPaper, breakdown[1].Category)
}
