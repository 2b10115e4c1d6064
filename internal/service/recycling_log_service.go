package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/eco-campus/ecotrack-api/internal/dto"
	"github.com/eco-campus/ecotrack-api/internal/models"
	"github.com/eco-campus/ecotrack-api/internal/observability"
	"github.com/eco-campus/ecotrack-api/internal/repository"
)

// ErrLogNotFound indicates the recycling log was not located.
var ErrLogNotFound = errors.New("recycling log not found")

// ErrLogAlreadyVerified indicates a verification was attempted on a log that
// has already been approved or rejected.
var ErrLogAlreadyVerified = errors.New("recycling log already verified")

// ErrNotLogOwner indicates the caller may not act on someone else's log.
var ErrNotLogOwner = errors.New("not the owner of this recycling log")

// ErrVerifiedLogDelete indicates a non-admin tried to delete a verified log.
var ErrVerifiedLogDelete = errors.New("cannot delete verified logs")

// Actor identifies the authenticated caller of a workflow operation.
type Actor struct {
	ID   uint
	Role string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// NotificationPublisher fans a committed notification out to live listeners.
// Persistence already happened inside the verification transaction.
type NotificationPublisher interface {
	Announce(ctx context.Context, notification dto.NotificationResponse)
}

// RecyclingLogService implements the submission and verification workflow.
type RecyclingLogService interface {
	Submit(ctx context.Context, actor Actor, payload dto.LogCreateRequest) (dto.LogResponse, error)
	MyLogs(ctx context.Context, actor Actor) (dto.MyLogsResponse, error)
	List(ctx context.Context, filter dto.LogFilter) ([]dto.LogResponse, error)
	Pending(ctx context.Context) ([]dto.LogResponse, error)
	Approve(ctx context.Context, logID uint, actor Actor, payload dto.LogApproveRequest) (dto.LogResponse, error)
	Reject(ctx context.Context, logID uint, actor Actor, payload dto.LogRejectRequest) (dto.RejectResponse, error)
	Delete(ctx context.Context, logID uint, actor Actor) error
	Stats(ctx context.Context, actor Actor) (dto.StatsResponse, error)
}

type recyclingLogService struct {
	logs      repository.RecyclingLogRepository
	validator *validator.Validate
	notifier  NotificationPublisher
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewRecyclingLogService constructs the workflow service.
func NewRecyclingLogService(logs repository.RecyclingLogRepository, validate *validator.Validate, notifier NotificationPublisher, logger zerolog.Logger) RecyclingLogService {
	return &recyclingLogService{
		logs:      logs,
		validator: validate,
		notifier:  notifier,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "recycling_log_service").Logger(),
		now:       time.Now,
	}
}

func (s *recyclingLogService) Submit(ctx context.Context, actor Actor, payload dto.LogCreateRequest) (dto.LogResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LogResponse{}, err
	}

	log := models.RecyclingLog{
		UserID:      actor.ID,
		Category:    payload.Category,
		Weight:      payload.Weight,
		Description: strings.TrimSpace(payload.Description),
		ImageURL:    strings.TrimSpace(payload.ImageURL),
		Status:      models.LogStatusPending,
	}

	if err := s.logs.Create(ctx, &log); err != nil {
		return dto.LogResponse{}, err
	}

	s.logger.Info().
		Uint("log_id", log.ID).
		Uint("user_id", actor.ID).
		Str("category", log.Category).
		Msg("recycling log submitted")

	return dto.NewLogResponse(log), nil
}

func (s *recyclingLogService) MyLogs(ctx context.Context, actor Actor) (dto.MyLogsResponse, error) {
	logs, err := s.logs.ListByUser(ctx, actor.ID)
	if err != nil {
		return dto.MyLogsResponse{}, err
	}

	stats, err := s.logs.StatsByUser(ctx, actor.ID)
	if err != nil {
		return dto.MyLogsResponse{}, err
	}

	return dto.MyLogsResponse{
		Logs: dto.NewLogResponseSlice(logs),
		Stats: dto.LogStats{
			TotalLogs:     stats.TotalLogs,
			TotalWeight:   stats.TotalWeight,
			TotalPoints:   stats.TotalPoints,
			ApprovedCount: stats.ApprovedCount,
			PendingCount:  stats.PendingCount,
		},
	}, nil
}

func (s *recyclingLogService) List(ctx context.Context, filter dto.LogFilter) ([]dto.LogResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	logs, err := s.logs.List(ctx, repository.LogFilter{
		Status:   filter.Status,
		Category: filter.Category,
		UserID:   filter.UserID,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewLogResponseSlice(logs), nil
}

func (s *recyclingLogService) Pending(ctx context.Context) ([]dto.LogResponse, error) {
	status := models.LogStatusPending
	logs, err := s.logs.List(ctx, repository.LogFilter{Status: &status})
	if err != nil {
		return nil, err
	}

	return dto.NewLogResponseSlice(logs), nil
}

func (s *recyclingLogService) Approve(ctx context.Context, logID uint, actor Actor, payload dto.LogApproveRequest) (dto.LogResponse, error) {
	tracer := otel.Tracer("github.com/eco-campus/ecotrack-api/internal/service/verification")
	ctx, span := tracer.Start(ctx, "verification.approve")
	span.SetAttributes(
		attribute.Int64("verification.log_id", int64(logID)),
		attribute.Int64("verification.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.LogResponse{}, err
	}

	log, notification, err := s.logs.Approve(ctx, logID, actor.ID, payload.EcoPoints, s.now())
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			span.SetStatus(codes.Error, "log_not_found")
			return dto.LogResponse{}, ErrLogNotFound
		case errors.Is(err, repository.ErrLogVerified):
			span.SetStatus(codes.Error, "already_verified")
			observability.Verifications().WithLabelValues("conflict").Inc()
			return dto.LogResponse{}, ErrLogAlreadyVerified
		default:
			span.SetStatus(codes.Error, "approve_failed")
			return dto.LogResponse{}, err
		}
	}

	observability.Verifications().WithLabelValues("approved").Inc()
	observability.PointsAwarded().Add(float64(payload.EcoPoints))
	span.SetAttributes(attribute.Int("verification.points", payload.EcoPoints))

	s.logger.Info().
		Uint("log_id", logID).
		Uint("admin_id", actor.ID).
		Uint("owner_id", log.UserID).
		Int("points", payload.EcoPoints).
		Msg("recycling log approved")

	if s.notifier != nil {
		s.notifier.Announce(ctx, dto.NewNotificationResponse(notification))
	}

	return dto.NewLogResponse(log), nil
}

func (s *recyclingLogService) Reject(ctx context.Context, logID uint, actor Actor, payload dto.LogRejectRequest) (dto.RejectResponse, error) {
	tracer := otel.Tracer("github.com/eco-campus/ecotrack-api/internal/service/verification")
	ctx, span := tracer.Start(ctx, "verification.reject")
	span.SetAttributes(
		attribute.Int64("verification.log_id", int64(logID)),
		attribute.Int64("verification.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.RejectResponse{}, err
	}

	reason := strings.TrimSpace(s.sanitizer.Sanitize(payload.Reason))

	removed, notification, err := s.logs.Reject(ctx, logID, reason)
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			span.SetStatus(codes.Error, "log_not_found")
			return dto.RejectResponse{}, ErrLogNotFound
		case errors.Is(err, repository.ErrLogVerified):
			span.SetStatus(codes.Error, "already_verified")
			observability.Verifications().WithLabelValues("conflict").Inc()
			return dto.RejectResponse{}, ErrLogAlreadyVerified
		default:
			span.SetStatus(codes.Error, "reject_failed")
			return dto.RejectResponse{}, err
		}
	}

	observability.Verifications().WithLabelValues("rejected").Inc()

	s.logger.Info().
		Uint("log_id", logID).
		Uint("admin_id", actor.ID).
		Uint("owner_id", removed.UserID).
		Msg("recycling log rejected and deleted")

	if s.notifier != nil {
		s.notifier.Announce(ctx, dto.NewNotificationResponse(notification))
	}

	if reason == "" {
		reason = "No reason provided"
	}

	return dto.RejectResponse{
		Message: "Recycling log rejected and deleted",
		Reason:  reason,
	}, nil
}

func (s *recyclingLogService) Delete(ctx context.Context, logID uint, actor Actor) error {
	log, err := s.logs.GetByID(ctx, logID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLogNotFound
		}
		return err
	}

	if !actor.IsAdmin() {
		if log.UserID != actor.ID {
			return ErrNotLogOwner
		}
		if log.IsVerified() {
			return ErrVerifiedLogDelete
		}
	}

	if err := s.logs.Delete(ctx, logID); err != nil {
		return err
	}

	if actor.IsAdmin() && log.IsVerified() {
		// Awarded points stay on the owner's ledger; flagged for audit
		// pending a product decision on reversal.
		s.logger.Warn().
			Uint("log_id", logID).
			Uint("owner_id", log.UserID).
			Int("orphaned_points", log.EcoPointsEarned).
			Msg("approved log deleted without ledger reversal")
	}

	return nil
}

func (s *recyclingLogService) Stats(ctx context.Context, actor Actor) (dto.StatsResponse, error) {
	stats, breakdown, err := s.logs.ApprovedStatsByUser(ctx, actor.ID)
	if err != nil {
		return dto.StatsResponse{}, err
	}

	byCategory := make([]dto.CategoryStat, 0, len(breakdown))
	for _, row := range breakdown {
		byCategory = append(byCategory, dto.CategoryStat{
			Category:    row.Category,
			Count:       row.Count,
			TotalWeight: row.TotalWeight,
			TotalPoints: row.TotalPoints,
		})
	}

	return dto.StatsResponse{
		TotalLogs:     stats.TotalLogs,
		TotalWeight:   stats.TotalWeight,
		TotalPoints:   stats.TotalPoints,
		ApprovedCount: stats.ApprovedCount,
		ByCategory:    byCategory,
	}, nil
}
