package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/eco-campus/ecotrack-api/internal/dto"
	"github.com/eco-campus/ecotrack-api/internal/models"
	"github.com/eco-campus/ecotrack-api/internal/service"
	"github.com/eco-campus/ecotrack-api/internal/utils"
)

type stubLogService struct {
	submitResponse dto.LogResponse
	submitErr      error
	approveErr     error
	rejectResponse dto.RejectResponse
	rejectErr      error
	deleteErr      error
	lastActor      service.Actor
	lastPayload    dto.LogApproveRequest
}

func (s *stubLogService) Submit(_ context.Context, actor service.Actor, _ dto.LogCreateRequest) (dto.LogResponse, error) {
	s.lastActor = actor
	return s.submitResponse, s.submitErr
}

func (s *stubLogService) MyLogs(context.Context, service.Actor) (dto.MyLogsResponse, error) {
	return dto.MyLogsResponse{Logs: []dto.LogResponse{}}, nil
}

func (s *stubLogService) List(context.Context, dto.LogFilter) ([]dto.LogResponse, error) {
	return []dto.LogResponse{}, nil
}

func (s *stubLogService) Pending(context.Context) ([]dto.LogResponse, error) {
	return []dto.LogResponse{}, nil
}

func (s *stubLogService) Approve(_ context.Context, _ uint, actor service.Actor, payload dto.LogApproveRequest) (dto.LogResponse, error) {
	s.lastActor = actor
	s.lastPayload = payload
	if s.approveErr != nil {
		return dto.LogResponse{}, s.approveErr
	}
	return dto.LogResponse{Status: models.LogStatusApproved, EcoPointsEarned: payload.EcoPoints}, nil
}

func (s *stubLogService) Reject(context.Context, uint, service.Actor, dto.LogRejectRequest) (dto.RejectResponse, error) {
	return s.rejectResponse, s.rejectErr
}

func (s *stubLogService) Delete(context.Context, uint, service.Actor) error {
	return s.deleteErr
}

func (s *stubLogService) Stats(context.Context, service.Actor) (dto.StatsResponse, error) {
	return dto.StatsResponse{}, nil
}

func newTestApp(svc service.RecyclingLogService, userID uint, role string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		c.Locals("user_role", role)
		return c.Next()
	})

	handler := NewRecyclingLogHandler(svc, zerolog.New(io.Discard))
	handler.Register(app.Group("/api/recycling"))
	return app
}

func decodeResponse(t *testing.T, body io.Reader) utils.APIResponse {
	t.Helper()
	var response utils.APIResponse
	require.NoError(t, json.NewDecoder(body).Decode(&response))
	return response
}

func TestRecyclingLogHandlerSubmit(t *testing.T) {
	stub := &stubLogService{submitResponse: dto.LogResponse{ID: 1, Status: models.LogStatusPending}}
	app := newTestApp(stub, 7, models.RoleStudent)

	payload := bytes.NewBufferString(`{"category":"plastic","weight":2.5}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/recycling/submit", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeResponse(t, resp.Body)
	require.True(t, body.Success)
	require.Equal(t, "recycling log submitted, waiting for admin approval", body.Message)
	require.Equal(t, uint(7), stub.lastActor.ID)
}

func TestRecyclingLogHandlerSubmitRequiresSubmitterRole(t *testing.T) {
	stub := &stubLogService{}
	app := newTestApp(stub, 1, models.RoleAdmin)

	payload := bytes.NewBufferString(`{"category":"plastic","weight":2.5}`)
	req := httptest.NewRequest(fiber.MethodPost, "/api/recycling/submit", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode, "admins review logs, they do not submit them")
}

func TestRecyclingLogHandlerSubmitInvalidBody(t *testing.T) {
	stub := &stubLogService{}
	app := newTestApp(stub, 7, models.RoleStudent)

	req := httptest.NewRequest(fiber.MethodPost, "/api/recycling/submit", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRecyclingLogHandlerApprove(t *testing.T) {
	stub := &stubLogService{}
	app := newTestApp(stub, 99, models.RoleAdmin)

	payload := bytes.NewBufferString(`{"eco_points":25}`)
	req := httptest.NewRequest(fiber.MethodPatch, "/api/recycling/4/approve", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 25, stub.lastPayload.EcoPoints)
	require.Equal(t, uint(99), stub.lastActor.ID)
}

func TestRecyclingLogHandlerApproveErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"not found", service.ErrLogNotFound, fiber.StatusNotFound, "recycling log not found"},
		{"already verified", service.ErrLogAlreadyVerified, fiber.StatusBadRequest, "this log has already been verified"},
		{"unexpected", context.DeadlineExceeded, fiber.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubLogService{approveErr: tc.err}
			app := newTestApp(stub, 99, models.RoleAdmin)

			payload := bytes.NewBufferString(`{"eco_points":25}`)
			req := httptest.NewRequest(fiber.MethodPatch, "/api/recycling/4/approve", payload)
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, resp.StatusCode)

			body := decodeResponse(t, resp.Body)
			require.False(t, body.Success)
			require.Equal(t, tc.wantBody, body.Message)
		})
	}
}

func TestRecyclingLogHandlerApproveRequiresAdmin(t *testing.T) {
	stub := &stubLogService{}
	app := newTestApp(stub, 7, models.RoleStudent)

	payload := bytes.NewBufferString(`{"eco_points":25}`)
	req := httptest.NewRequest(fiber.MethodPatch, "/api/recycling/4/approve", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRecyclingLogHandlerApproveInvalidID(t *testing.T) {
	stub := &stubLogService{}
	app := newTestApp(stub, 99, models.RoleAdmin)

	payload := bytes.NewBufferString(`{"eco_points":25}`)
	req := httptest.NewRequest(fiber.MethodPatch, "/api/recycling/abc/approve", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRecyclingLogHandlerReject(t *testing.T) {
	stub := &stubLogService{rejectResponse: dto.RejectResponse{Message: "Recycling log rejected and deleted", Reason: "blurry photo"}}
	app := newTestApp(stub, 99, models.RoleAdmin)

	payload := bytes.NewBufferString(`{"reason":"blurry photo"}`)
	req := httptest.NewRequest(fiber.MethodPatch, "/api/recycling/4/reject", payload)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp.Body)
	require.True(t, body.Success)
	require.Equal(t, "recycling log rejected", body.Message)
}

func TestRecyclingLogHandlerDeleteErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not owner", service.ErrNotLogOwner, fiber.StatusForbidden},
		{"verified log", service.ErrVerifiedLogDelete, fiber.StatusBadRequest},
		{"not found", service.ErrLogNotFound, fiber.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubLogService{deleteErr: tc.err}
			app := newTestApp(stub, 7, models.RoleStudent)

			req := httptest.NewRequest(fiber.MethodDelete, "/api/recycling/4", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.wantStatus, resp.StatusCode)
		})
	}
}

func TestRecyclingLogHandlerListRequiresAdmin(t *testing.T) {
	stub := &stubLogService{}
	app := newTestApp(stub, 7, models.RoleVolunteer)

	req := httptest.NewRequest(fiber.MethodGet, "/api/recycling/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/api/recycling/pending", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRecyclingLogHandlerMyLogs(t *testing.T) {
	stub := &stubLogService{}
	app := newTestApp(stub, 7, models.RoleStudent)

	req := httptest.NewRequest(fiber.MethodGet, "/api/recycling/my-logs", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}
