package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/gym-checkin/internal/domain"
	"github.com/ErlanBelekov/gym-checkin/internal/metrics"
	"github.com/ErlanBelekov/gym-checkin/internal/transport/http/middleware"
	"github.com/ErlanBelekov/gym-checkin/internal/usecase"
	"github.com/gin-gonic/gin"
)

type checkInUsecaser interface {
	CheckIn(ctx context.Context, input usecase.CheckInInput) (*domain.CheckIn, error)
	FetchUserCheckInsHistory(ctx context.Context, input usecase.CheckInHistoryInput) ([]*domain.CheckIn, error)
	GetUserMetrics(ctx context.Context, userID string) (int, error)
}

type CheckInHandler struct {
	checkInUsecase checkInUsecaser
	logger         *slog.Logger
}

func NewCheckInHandler(checkInUsecase checkInUsecaser, logger *slog.Logger) *CheckInHandler {
	return &CheckInHandler{checkInUsecase: checkInUsecase, logger: logger.With("component", "check_in_handler")}
}

type createCheckInRequest struct {
	Latitude  *float64 `json:"latitude"  binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

type historyQuery struct {
	Page int `form:"page,default=1" binding:"min=1"`
}

type checkInResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	GymID       string     `json:"gym_id"`
	CreatedAt   time.Time  `json:"created_at"`
	ValidatedAt *time.Time `json:"validated_at"`
}

func toCheckInResponse(ci *domain.CheckIn) checkInResponse {
	return checkInResponse{
		ID:          ci.ID,
		UserID:      ci.UserID,
		GymID:       ci.GymID,
		CreatedAt:   ci.CreatedAt,
		ValidatedAt: ci.ValidatedAt,
	}
}

// POST /gyms/:gymId/check-ins
func (h *CheckInHandler) Create(c *gin.Context) {
	var req createCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondInvalid(c, err)
		return
	}

	checkIn, err := h.checkInUsecase.CheckIn(c.Request.Context(), usecase.CheckInInput{
		GymID:         c.Param("gymId"),
		UserID:        middleware.UserID(c),
		UserLatitude:  *req.Latitude,
		UserLongitude: *req.Longitude,
	})
	metrics.CheckInsTotal.WithLabelValues(checkInOutcome(err)).Inc()
	if err != nil {
		respondError(c, h.logger, "check in", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"check_in": toCheckInResponse(checkIn)})
}

func checkInOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domain.ErrMaxDistance), errors.Is(err, domain.ErrInvalidCoordinate):
		return metrics.OutcomeRejected
	case errors.Is(err, domain.ErrMaxNumberOfCheckIns):
		return metrics.OutcomeDuplicate
	case errors.Is(err, domain.ErrResourceNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

// GET /check-ins/history?page=
func (h *CheckInHandler) History(c *gin.Context) {
	var q historyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondInvalid(c, err)
		return
	}

	checkIns, err := h.checkInUsecase.FetchUserCheckInsHistory(c.Request.Context(), usecase.CheckInHistoryInput{
		UserID: middleware.UserID(c),
		Page:   q.Page,
	})
	if err != nil {
		respondError(c, h.logger, "check-in history", err)
		return
	}

	out := make([]checkInResponse, 0, len(checkIns))
	for _, ci := range checkIns {
		out = append(out, toCheckInResponse(ci))
	}
	c.JSON(http.StatusOK, gin.H{"check_ins": out})
}

// GET /check-ins/metrics
func (h *CheckInHandler) Metrics(c *gin.Context) {
	count, err := h.checkInUsecase.GetUserMetrics(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.logger, "check-in metrics", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"check_ins_count": count})
}
